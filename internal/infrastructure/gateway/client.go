// Package gateway is the console's adapter to the remote DHCP/user API.
//
// Every outbound request goes through one transport chain:
//
//	metrics → bearer token → 401 interceptor → base transport
//
// The bearer stage and the interceptor both work off the ports.Credentials
// carried by the request context, so a 401 from any endpoint tears down the
// session that made the call, whichever view triggered it.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"github.com/esop/dhcp-console/internal/core/domain"
)

// Options configures a Client.
type Options struct {
	// BaseURL of the remote API, e.g. http://localhost:8000.
	BaseURL string
	// Timeout bounds each request. Zero keeps the transport default (none).
	Timeout time.Duration
	// Transport replaces the default base transport. Used by tests.
	Transport http.RoundTripper
	Log       zerolog.Logger
}

// Client implements ports.Gateway over HTTP.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	// token requests bypass the bearer and 401 stages: a rejected login must
	// never tear down the session that attempted it.
	tokenHTTP *http.Client
	oauth     *oauth2.Config
	log       zerolog.Logger
}

// New builds a Client for opts.BaseURL.
func New(opts Options) (*Client, error) {
	base, err := url.Parse(opts.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("gateway: invalid base url %q", opts.BaseURL)
	}

	transport := opts.Transport
	if transport == nil {
		transport = &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   5 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:          100,
			MaxIdleConnsPerHost:   20,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   5 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
			ForceAttemptHTTP2:     true,
		}
	}

	return &Client{
		baseURL: base,
		http: &http.Client{
			Transport: chain(transport),
			Timeout:   opts.Timeout,
		},
		tokenHTTP: &http.Client{
			Transport: &instrumentedTransport{next: transport},
			Timeout:   opts.Timeout,
		},
		oauth: &oauth2.Config{
			Endpoint: oauth2.Endpoint{
				TokenURL:  base.JoinPath("auth", "token").String(),
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		log: opts.Log.With().Str("component", "gateway").Logger(),
	}, nil
}

// IssueToken exchanges a username and password for a bearer token through
// the resource-owner password grant (form-encoded POST /auth/token).
// Rejected credentials fail with domain.ErrAuthentication, an unreachable
// API with domain.ErrNetwork.
func (c *Client) IssueToken(ctx context.Context, username, password string) (string, error) {
	ctx = withEndpoint(ctx, "auth.token")
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.tokenHTTP)

	tok, err := c.oauth.PasswordCredentialsToken(ctx, username, password)
	if err != nil {
		return "", tokenError(err)
	}
	if tok.AccessToken == "" {
		return "", &domain.APIError{Kind: domain.ErrAuthentication, Detail: "no access token issued"}
	}
	return tok.AccessToken, nil
}

func tokenError(err error) error {
	var rErr *oauth2.RetrieveError
	if errors.As(err, &rErr) {
		status := 0
		if rErr.Response != nil {
			status = rErr.Response.StatusCode
		}
		detail := parseDetail(rErr.Body)
		if detail == "" {
			detail = rErr.ErrorDescription
		}
		kind := domain.ErrAuthentication
		if status >= 500 {
			kind = domain.ErrServer
		}
		return &domain.APIError{Kind: kind, Status: status, Detail: detail, Err: err}
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return networkError(err)
	}
	// The token endpoint answered 2xx without a usable access_token.
	return &domain.APIError{Kind: domain.ErrAuthentication, Detail: "malformed token response", Err: err}
}

// Ping reports whether the remote API answers HTTP at all.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(withEndpoint(ctx, "ping"), http.MethodGet, c.baseURL.String(), nil)
	if err != nil {
		return err
	}
	resp, err := c.tokenHTTP.Do(req)
	if err != nil {
		return networkError(err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.Body.Close()
}

type request struct {
	endpoint string
	method   string
	path     []string
	query    url.Values
	body     any
}

// do sends r and decodes a 2xx JSON response into out (which may be nil).
func (c *Client) do(ctx context.Context, r request, out any) error {
	u := c.baseURL.JoinPath(r.path...)
	if len(r.query) > 0 {
		u.RawQuery = r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		b, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("gateway: encode %s: %w", r.endpoint, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(withEndpoint(ctx, r.endpoint), r.method, u.String(), body)
	if err != nil {
		return fmt.Errorf("gateway: build %s: %w", r.endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("endpoint", r.endpoint).Msg("request failed")
		return networkError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := responseError(resp)
		c.log.Debug().Err(err).Str("endpoint", r.endpoint).Int("status", resp.StatusCode).Msg("request rejected")
		return err
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return malformed(resp.StatusCode, err)
	}
	return nil
}
