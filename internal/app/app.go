// Package app assembles the console from its configuration and runs it.
package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/esop/dhcp-console/internal/pkg/config"
)

type App struct {
	httpServer *http.Server
	background context.CancelFunc
	cleanup    func(ctx context.Context) error
	log        zerolog.Logger
}

func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	infra, err := setupInfra(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	// Background work outlives the signal context so Shutdown can drain it.
	bgCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	router, err := setupHTTP(bgCtx, cfg, infra, log)
	if err != nil {
		cancel()
		_ = infra.close(context.Background())
		return nil, err
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		httpServer: server,
		background: cancel,
		cleanup:    infra.close,
		log:        log,
	}, nil
}

// Run serves HTTP until Shutdown is called.
func (a *App) Run() error {
	a.log.Info().Str("addr", a.httpServer.Addr).Msg("http server listening")
	if err := a.httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests, then drains the audit queue and closes
// the stores. The stores are released even when in-flight requests outlive
// ctx.
func (a *App) Shutdown(ctx context.Context) error {
	err := a.httpServer.Shutdown(ctx)
	a.background()
	if a.cleanup != nil {
		err = errors.Join(err, a.cleanup(ctx))
	}
	return err
}
