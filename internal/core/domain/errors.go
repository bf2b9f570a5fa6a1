package domain

import (
	"errors"
	"fmt"
)

// Failure classes for every call that leaves the console.
var (
	ErrNetwork        = errors.New("network error")
	ErrAuthentication = errors.New("authentication failed")
	ErrValidation     = errors.New("request rejected")
	ErrServer         = errors.New("server error")
)

// ErrSuperseded is returned when a session changed underneath an in-flight
// login and the login result was discarded.
var ErrSuperseded = errors.New("session changed while the request was in flight")

// APIError carries one of the failure classes above together with whatever
// the upstream told us about it.
type APIError struct {
	Kind   error
	Status int
	Detail string
	Err    error
}

func (e *APIError) Error() string {
	msg := e.Kind.Error()
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	switch {
	case e.Detail != "":
		msg += ": " + e.Detail
	case e.Err != nil:
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *APIError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// DisplayMessage returns the server-supplied detail of err, or fallback when
// the upstream did not send one.
func DisplayMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fallback
}
