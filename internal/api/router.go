package api

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/esop/dhcp-console/internal/api/handler"
	"github.com/esop/dhcp-console/internal/api/middleware"
	"github.com/esop/dhcp-console/internal/core/ports"
)

// Dependencies are the collaborators the console routes are built from.
type Dependencies struct {
	Registry middleware.SessionAcquirer
	Renderer echo.Renderer
	Sites    ports.SiteService
	Leases   ports.LeaseService
	Users    ports.UserService
	Log      zerolog.Logger

	CookieSecure bool
	CookieMaxAge time.Duration
	ResolveWait  time.Duration
}

// Register installs the renderer, the validator and the error handler on e
// and mounts the console pages and the /api/session JSON routes.
func Register(e *echo.Echo, deps Dependencies) {
	e.Renderer = deps.Renderer
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	sessions := middleware.Sessions(middleware.SessionConfig{
		Registry:     deps.Registry,
		CookieSecure: deps.CookieSecure,
		CookieMaxAge: deps.CookieMaxAge,
		ResolveWait:  deps.ResolveWait,
	})

	// --- Handlers ---
	authHandler := handler.NewAuthHandler()
	sessionHandler := handler.NewSessionHandler()
	siteHandler := handler.NewSiteHandler(deps.Sites)
	leaseHandler := handler.NewLeaseHandler(deps.Leases)
	accountHandler := handler.NewAccountHandler(deps.Users)
	adminHandler := handler.NewAdminHandler(deps.Users)

	pages := e.Group("", sessions)

	// --- Public pages ---
	pages.GET("/login", authHandler.LoginForm)
	pages.POST("/login", authHandler.Login)
	pages.POST("/logout", authHandler.Logout)

	// --- Operator pages ---
	operator := pages.Group("", middleware.Guard(false))
	operator.GET("/", siteHandler.Home)
	operator.GET("/select-site", siteHandler.Select)
	operator.GET("/clients/:nePk", leaseHandler.List)
	operator.GET("/reset-password", accountHandler.ResetPasswordForm)
	operator.POST("/reset-password", accountHandler.ResetPassword)

	// --- Admin pages ---
	admin := pages.Group("/admin", middleware.Guard(true))
	admin.GET("", adminHandler.Page)
	admin.POST("/users", adminHandler.Create)
	admin.POST("/users/:id/reset-password", adminHandler.ResetPassword)
	admin.POST("/users/:id/active", adminHandler.SetActive)
	admin.POST("/users/:id/delete", adminHandler.Delete)

	// --- JSON session API ---
	apiGroup := e.Group("/api", sessions)
	apiGroup.GET("/session", sessionHandler.Get)
	apiGroup.POST("/session", sessionHandler.Create)
	apiGroup.DELETE("/session", sessionHandler.Delete)
}
