package app

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	_ "github.com/esop/dhcp-console/docs"
	"github.com/esop/dhcp-console/internal/api"
	"github.com/esop/dhcp-console/internal/api/view"
	"github.com/esop/dhcp-console/internal/core/service"
	"github.com/esop/dhcp-console/internal/infrastructure/gateway"
	infrahttp "github.com/esop/dhcp-console/internal/infrastructure/http"
	"github.com/esop/dhcp-console/internal/pkg/config"
	"github.com/esop/dhcp-console/pkg/logger"
)

func setupHTTP(ctx context.Context, cfg *config.Config, infra *Infra, log zerolog.Logger) (*echo.Echo, error) {
	// ----------------------------
	// Dependencies
	// ----------------------------

	gw, err := gateway.New(gateway.Options{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
		Log:     log,
	})
	if err != nil {
		return nil, err
	}
	infra.Pingers["remote_api"] = gw.Ping

	infra.Audit.Start(ctx)

	registry := service.NewSessionRegistry(ctx, service.SessionDeps{
		Gateway:  gw,
		Tokens:   infra.Tokens,
		Audit:    infra.Audit,
		TokenTTL: cfg.Session.TokenTTL,
		Log:      logger.Component("session"),
	}, cfg.Session.IdleTTL)
	go registry.Run(ctx)

	renderer, err := view.NewRenderer()
	if err != nil {
		return nil, err
	}

	// ----------------------------
	// Router
	// ----------------------------

	e := infrahttp.NewRouter(infrahttp.Options{
		Log:          logger.Component("http"),
		Dependencies: infra.Pingers,
		Swagger:      true,
	})

	api.Register(e, api.Dependencies{
		Registry:     registry,
		Renderer:     renderer,
		Sites:        service.NewSiteService(gw),
		Leases:       service.NewLeaseService(gw),
		Users:        service.NewUserService(gw, infra.Audit),
		Log:          logger.Component("api"),
		CookieSecure: cfg.Session.CookieSecure,
		CookieMaxAge: cfg.Session.TokenTTL,
		ResolveWait:  cfg.Session.ResolveWait,
	})

	return e, nil
}
