package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/esop/dhcp-console/internal/api/middleware"
	"github.com/esop/dhcp-console/internal/api/view"
	"github.com/esop/dhcp-console/internal/core/domain"
	"github.com/esop/dhcp-console/internal/core/service"
)

const apiPrefix = "/api/"

// errorResponse is the canonical error envelope for the JSON API.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Sends a page whose session expired upstream back to the login page.
//   - Maps the gateway failure classes to HTTP status codes.
//   - Logs unexpected errors without leaking details to the browser.
//
// Requests under /api/ get a JSON envelope {"error": "<message>"}, everything
// else the error page.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		isAPI := strings.HasPrefix(c.Request().URL.Path, apiPrefix)
		if !isAPI && errors.Is(err, domain.ErrAuthentication) {
			_ = c.Redirect(http.StatusSeeOther, string(service.NavigateLogin))
			return
		}

		code, msg := resolveError(err, log, c)
		if isAPI {
			_ = c.JSON(code, errorResponse{Error: msg})
			return
		}

		var user *domain.User
		if sess := middleware.SessionFrom(c); sess != nil {
			user = sess.Snapshot().User
		}
		page := view.ErrorPage{
			Layout:  view.NewLayout("Error", view.PageError, user),
			Status:  code,
			Message: msg,
		}
		if rerr := c.Render(code, view.PageError, page); rerr != nil {
			log.Warn().Err(rerr).Msg("render error page")
			_ = c.String(code, msg)
		}
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	switch {
	case errors.Is(err, domain.ErrAuthentication):
		return http.StatusUnauthorized, domain.DisplayMessage(err, "not authenticated")
	case errors.Is(err, domain.ErrValidation):
		status := http.StatusBadRequest
		var apiErr *domain.APIError
		if errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500 {
			status = apiErr.Status
		}
		return status, domain.DisplayMessage(err, "request rejected")
	case errors.Is(err, domain.ErrNetwork):
		return http.StatusBadGateway, domain.DisplayMessage(err, "remote API unreachable")
	case errors.Is(err, domain.ErrServer):
		return http.StatusBadGateway, domain.DisplayMessage(err, "remote API error")
	case errors.Is(err, domain.ErrSuperseded):
		return http.StatusConflict, err.Error()
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
