package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/esop/dhcp-console/internal/core/domain"
	"github.com/esop/dhcp-console/internal/core/service"
)

func sessionServer(sess *service.Session) *testServer {
	h := NewSessionHandler()
	return newTestServer(sess, func(g *echo.Group) {
		g.GET("/api/session", h.Get)
		g.POST("/api/session", h.Create)
		g.DELETE("/api/session", h.Delete)
	})
}

func TestSessionHandler_Get(t *testing.T) {
	ts := sessionServer(newResolvedSession(&stubGateway{}, &domain.User{ID: 7, Username: "root", Role: domain.RoleAdmin}))

	rec := ts.get("/api/session")

	var resp sessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !resp.Authenticated || !resp.IsAdmin || resp.Loading || resp.User.Username != "root" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestSessionHandler_CreateAndDelete(t *testing.T) {
	g := &stubGateway{
		issueTokenFn: func(ctx context.Context, u, p string) (string, error) { return "tok", nil },
		profileFn: func(ctx context.Context) (*domain.User, error) {
			return &domain.User{ID: 1, Username: "alice", Role: domain.RoleUser}, nil
		},
	}
	ts := sessionServer(newResolvedSession(g, nil))
	ts.registry.gateway = g

	rec := ts.do(http.MethodPost, "/api/session", `{"username":"alice","password":"pw"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%v)", rec.Code, ts.err)
	}
	var created navigationResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &created)
	if created.Redirect != "/select-site" || created.User == nil || created.User.Username != "alice" {
		t.Fatalf("unexpected response %+v", created)
	}

	for i := 0; i < 2; i++ {
		rec = ts.do(http.MethodDelete, "/api/session", "")
		var deleted navigationResponse
		_ = json.Unmarshal(rec.Body.Bytes(), &deleted)
		if rec.Code != http.StatusOK || deleted.Redirect != "/login" {
			t.Fatalf("attempt %d: unexpected response %d %+v", i, rec.Code, deleted)
		}
	}
}

func TestSessionHandler_CreateRejected(t *testing.T) {
	g := &stubGateway{issueTokenFn: func(ctx context.Context, u, p string) (string, error) {
		return "", &domain.APIError{Kind: domain.ErrAuthentication, Status: 401}
	}}
	ts := sessionServer(newResolvedSession(g, nil))
	ts.registry.gateway = g

	ts.do(http.MethodPost, "/api/session", `{"username":"alice","password":"bad"}`)

	if !errors.Is(ts.err, domain.ErrAuthentication) {
		t.Fatalf("expected the authentication error to reach the error handler, got %v", ts.err)
	}
}
