package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/esop/dhcp-console/internal/api/view"
	"github.com/esop/dhcp-console/internal/core/service"
)

const loadingRefreshSeconds = 1

// Guard protects a view. It is evaluated on every request, after Sessions.
func Guard(requiresAdmin bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var state service.SessionState
			if sess := SessionFrom(c); sess != nil {
				state = sess.Snapshot()
			}

			switch service.Decide(state, requiresAdmin) {
			case service.DecisionLoading:
				return c.Render(http.StatusOK, view.PageLoading, view.LoadingPage{
					Layout:         view.NewLayout("Loading", view.PageLoading, nil),
					RefreshSeconds: loadingRefreshSeconds,
				})
			case service.DecisionRedirectLogin:
				return c.Redirect(http.StatusSeeOther, string(service.NavigateLogin))
			case service.DecisionDenied:
				return c.Render(http.StatusForbidden, view.PageDenied, view.DeniedPage{
					Layout: view.NewLayout("Access denied", view.PageDenied, state.User),
				})
			default:
				return next(c)
			}
		}
	}
}
