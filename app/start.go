package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Black-And-White-Club/golf-scorecard/app/shared/observability/attr"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 15 * time.Second

// Run starts the message router, the game module and the HTTP servers, and
// blocks until ctx is canceled or a server fails.
func (app *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 3)

	app.wg.Add(1)
	go app.GameModule.Run(ctx, &app.wg)

	go func() {
		if err := app.Router.Run(ctx); err != nil {
			errCh <- fmt.Errorf("watermill router: %w", err)
		}
	}()
	// handlers must be subscribed before requests start publishing
	select {
	case <-app.Router.Running():
	case <-ctx.Done():
		return ctx.Err()
	}

	app.httpServer = &http.Server{
		Addr:              app.Config.HTTP.Address,
		Handler:           app.HTTPRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		app.Logger.Info("HTTP server listening", attr.String("address", app.httpServer.Addr))
		if err := app.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	if addr := app.Config.Observability.MetricsAddress; addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(app.Registry, promhttp.HandlerOpts{}))
		app.metricsServer = &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
		go func() {
			app.Logger.Info("Metrics server listening", attr.String("address", addr))
			if err := app.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("metrics server: %w", err)
			}
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		app.Logger.Info("Shutdown requested")
	case runErr = <-errCh:
		app.Logger.Error("Component failed, shutting down", attr.Error(runErr))
	}

	cancel()
	app.shutdownServers()
	app.wg.Wait()
	return runErr
}

func (app *App) shutdownServers() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	for _, srv := range []*http.Server{app.httpServer, app.metricsServer} {
		if srv == nil {
			continue
		}
		if err := srv.Shutdown(ctx); err != nil {
			app.Logger.Warn("HTTP server shutdown", attr.String("address", srv.Addr), attr.Error(err))
		}
	}
}
