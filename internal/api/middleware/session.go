package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/esop/dhcp-console/internal/core/ports"
	"github.com/esop/dhcp-console/internal/core/service"
)

const (
	sessionContextKey = "session"
	configContextKey  = "session.config"
)

// SessionAcquirer hands out the session of a browser and moves a browser to a
// new session id when it logs in.
type SessionAcquirer interface {
	Acquire(id string) *service.Session
	Begin() *service.Session
	Promote(ctx context.Context, s *service.Session, oldID string)
}

type SessionConfig struct {
	Registry     SessionAcquirer
	CookieSecure bool
	// CookieMaxAge of zero makes the cookie last for the browser session.
	CookieMaxAge time.Duration
	// ResolveWait bounds how long a request waits for a session that is
	// still resolving its persisted token before the loading page is shown.
	ResolveWait time.Duration
}

// Sessions attaches the browser's Session to the echo context and its
// credentials to the request context, so every gateway call made while
// serving the request carries them.
func Sessions(cfg SessionConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			id, ok := sessionIDFrom(req)
			if !ok {
				id = uuid.NewString()
				c.SetCookie(newSessionCookie(id, cfg.CookieSecure, cfg.CookieMaxAge))
			}

			sess := cfg.Registry.Acquire(id)
			if cfg.ResolveWait > 0 {
				waitCtx, cancel := context.WithTimeout(req.Context(), cfg.ResolveWait)
				sess.WaitResolved(waitCtx)
				cancel()
			}

			c.Set(configContextKey, &cfg)
			attach(c, sess)
			return next(c)
		}
	}
}

// SessionFrom returns the session attached by Sessions, or nil on routes
// that do not use it.
func SessionFrom(c echo.Context) *service.Session {
	sess, _ := c.Get(sessionContextKey).(*service.Session)
	return sess
}

// Login authenticates on a fresh session id and, only when that succeeds,
// moves the browser onto it. The id presented with the request is retired, so
// an id known to anyone before the login never gains the new identity. A
// failed login leaves the current session untouched.
func Login(c echo.Context, username, password string) (service.Navigation, error) {
	cfg, ok := c.Get(configContextKey).(*SessionConfig)
	if !ok {
		return "", errors.New("middleware: Login called without the Sessions middleware")
	}
	ctx := c.Request().Context()

	fresh := cfg.Registry.Begin()
	nav, err := fresh.Login(ctx, username, password)
	if err != nil {
		return "", err
	}

	oldID := ""
	if cur := SessionFrom(c); cur != nil {
		oldID = cur.ID()
	}
	cfg.Registry.Promote(ctx, fresh, oldID)
	c.SetCookie(newSessionCookie(fresh.ID(), cfg.CookieSecure, cfg.CookieMaxAge))
	attach(c, fresh)
	return nav, nil
}

// attach exposes sess to handlers and its credentials to gateway calls.
func attach(c echo.Context, sess *service.Session) {
	c.Set(sessionContextKey, sess)
	req := c.Request()
	c.SetRequest(req.WithContext(ports.WithCredentials(req.Context(), sess.Credentials())))
}
