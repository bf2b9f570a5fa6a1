package gateway

import (
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/esop/dhcp-console/internal/core/domain"
)

const maxErrorBody = 64 << 10

// errorBody is the FastAPI error envelope. detail is either a string or a
// list of validation items.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

type validationItem struct {
	Msg string `json:"msg"`
}

// parseDetail extracts a human-readable message from an error body.
func parseDetail(body []byte) string {
	var env errorBody
	if err := json.Unmarshal(body, &env); err != nil || len(env.Detail) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(env.Detail, &s); err == nil {
		return s
	}
	var items []validationItem
	if err := json.Unmarshal(env.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}

// statusError maps a non-2xx response onto the error taxonomy.
func statusError(status int, body []byte) error {
	detail := parseDetail(body)
	kind := domain.ErrServer
	switch {
	case status == http.StatusUnauthorized:
		kind = domain.ErrAuthentication
	case status >= 400 && status < 500:
		kind = domain.ErrValidation
	}
	return &domain.APIError{Kind: kind, Status: status, Detail: detail}
}

func responseError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return statusError(resp.StatusCode, body)
}

// networkError classifies a failed round trip.
func networkError(err error) error {
	detail := "remote API unreachable"
	if isTimeoutError(err) {
		detail = "remote API timed out"
	}
	return &domain.APIError{Kind: domain.ErrNetwork, Detail: detail, Err: err}
}

func malformed(status int, err error) error {
	return &domain.APIError{Kind: domain.ErrServer, Status: status, Detail: "malformed response from remote API", Err: err}
}

func isTimeoutError(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
