package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/esop/dhcp-console/internal/api/middleware"
	"github.com/esop/dhcp-console/internal/core/domain"
	"github.com/esop/dhcp-console/internal/core/ports"
	"github.com/esop/dhcp-console/internal/core/service"
	"github.com/esop/dhcp-console/internal/infrastructure/tokenstore"
)

type stubGateway struct {
	ports.Gateway
	issueTokenFn func(ctx context.Context, username, password string) (string, error)
	profileFn    func(ctx context.Context) (*domain.User, error)
}

func (g *stubGateway) IssueToken(ctx context.Context, username, password string) (string, error) {
	return g.issueTokenFn(ctx, username, password)
}

func (g *stubGateway) Profile(ctx context.Context) (*domain.User, error) {
	return g.profileFn(ctx)
}

type stubRenderer struct {
	name string
	data any
}

func (r *stubRenderer) Render(w io.Writer, name string, data any, c echo.Context) error {
	r.name, r.data = name, data
	_, err := io.WriteString(w, name)
	return err
}

// fixedRegistry always hands out the same session. Logins run on a session
// built from gateway and are promoted in place of the current one.
type fixedRegistry struct {
	session  *service.Session
	gateway  *stubGateway
	retired  []string
	promoted int
}

func (r *fixedRegistry) Acquire(string) *service.Session { return r.session }

func (r *fixedRegistry) Begin() *service.Session {
	s := service.NewSession(uuid.NewString(), service.SessionDeps{Gateway: r.gateway, Tokens: tokenstore.NewMemory(), Log: zerolog.Nop()})
	s.Initialize(context.Background())
	return s
}

func (r *fixedRegistry) Promote(ctx context.Context, s *service.Session, oldID string) {
	r.retired = append(r.retired, oldID)
	r.promoted++
	r.session = s
}

// newResolvedSession returns a session logged in as user (nil for logged out).
func newResolvedSession(g *stubGateway, user *domain.User) *service.Session {
	store := tokenstore.NewMemory()
	if user != nil {
		_ = store.Save(context.Background(), "sid", "tok", 0)
		if g.profileFn == nil {
			g.profileFn = func(ctx context.Context) (*domain.User, error) {
				u := *user
				return &u, nil
			}
		}
	}
	s := service.NewSession("sid", service.SessionDeps{Gateway: g, Tokens: store, Log: zerolog.Nop()})
	s.Initialize(context.Background())
	return s
}

type testServer struct {
	e        *echo.Echo
	renderer *stubRenderer
	registry *fixedRegistry
	err      error
}

func newTestServer(sess *service.Session, register func(g *echo.Group)) *testServer {
	ts := &testServer{e: echo.New(), renderer: &stubRenderer{}, registry: &fixedRegistry{session: sess}}
	ts.e.Renderer = ts.renderer
	ts.e.Validator = NewValidator()
	ts.e.HTTPErrorHandler = func(err error, c echo.Context) {
		ts.err = err
		_ = c.NoContent(599)
	}
	g := ts.e.Group("", middleware.Sessions(middleware.SessionConfig{Registry: ts.registry}))
	register(g)
	return ts
}

func (ts *testServer) get(target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	ts.e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func (ts *testServer) postForm(target string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	ts.e.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) do(method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	ts.e.ServeHTTP(rec, req)
	return rec
}
