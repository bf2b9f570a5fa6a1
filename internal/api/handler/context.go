package handler

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/esop/dhcp-console/internal/api/middleware"
	"github.com/esop/dhcp-console/internal/api/view"
	"github.com/esop/dhcp-console/internal/core/domain"
	"github.com/esop/dhcp-console/internal/core/ports"
	"github.com/esop/dhcp-console/internal/core/service"
)

// sessionState reads the session attached by the Sessions middleware.
func sessionState(c echo.Context) service.SessionState {
	if sess := middleware.SessionFrom(c); sess != nil {
		return sess.Snapshot()
	}
	return service.SessionState{}
}

func layoutFor(c echo.Context, title, page string) view.Layout {
	return view.NewLayout(title, page, sessionState(c).User)
}

// actorOf identifies the operator behind the request for the audit trail.
func actorOf(c echo.Context) ports.Actor {
	actor := ports.Actor{User: sessionState(c).User}
	if sess := middleware.SessionFrom(c); sess != nil {
		actor.SessionID = sess.ID()
	}
	return actor
}

// sessionExpired reports errors that must leave the page through the error
// handler: the gateway has already torn the session down, and the next stop
// is the login page.
func sessionExpired(err error) bool {
	return errors.Is(err, domain.ErrAuthentication)
}
