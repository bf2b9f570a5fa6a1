package gateway

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/esop/dhcp-console/internal/api/metrics"
	"github.com/esop/dhcp-console/internal/core/ports"
)

type endpointKey struct{}

func withEndpoint(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, endpointKey{}, name)
}

func endpointFrom(ctx context.Context) string {
	if name, ok := ctx.Value(endpointKey{}).(string); ok {
		return name
	}
	return "unknown"
}

// instrumentedTransport records one metric sample per round trip.
type instrumentedTransport struct {
	next http.RoundTripper
}

func (t *instrumentedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.next.RoundTrip(req)

	endpoint := endpointFrom(req.Context())
	status := "error"
	if err == nil {
		status = strconv.Itoa(resp.StatusCode)
	}
	metrics.GatewayRequestsTotal.WithLabelValues(endpoint, status).Inc()
	metrics.GatewayRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	return resp, err
}

// BearerTransport attaches the bearer token of the credentials carried by
// the request context. Requests without credentials, or whose credentials
// hold no token, go out unauthenticated.
type BearerTransport struct {
	Next http.RoundTripper
}

func (t *BearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	creds, ok := ports.CredentialsFrom(req.Context())
	if !ok {
		return t.Next.RoundTrip(req)
	}
	token := creds.BearerToken()
	if token == "" {
		return t.Next.RoundTrip(req)
	}
	authed := req.Clone(req.Context())
	authed.Header.Set("Authorization", "Bearer "+token)
	return t.Next.RoundTrip(authed)
}

// UnauthorizedTransport is the single place where an upstream 401 turns
// into a session teardown. The response itself is passed through untouched.
type UnauthorizedTransport struct {
	Next http.RoundTripper
}

func (t *UnauthorizedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.Next.RoundTrip(req)
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		return resp, err
	}
	metrics.GatewayUnauthorizedTotal.Inc()
	if creds, ok := ports.CredentialsFrom(req.Context()); ok {
		creds.Revoke(req.Context())
	}
	return resp, nil
}

// chain builds metrics → bearer → 401 interceptor → base.
func chain(base http.RoundTripper) http.RoundTripper {
	return &instrumentedTransport{
		next: &BearerTransport{
			Next: &UnauthorizedTransport{Next: base},
		},
	}
}
