package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/desertthunder/playcap/internal/server"
	"github.com/desertthunder/playcap/internal/shared"
	"github.com/desertthunder/playcap/internal/web"
	"github.com/urfave/cli/v3"
)

// newRouter wires the health, stream and index handlers behind the logging and recovery middleware.
func (r *Runner) newRouter() (*server.BasicRouter, error) {
	logger := shared.WithLogger(r.logger, "component", "server")

	engine, err := r.engineFor(false, logger)
	if err != nil {
		return nil, err
	}

	catalogName := ""
	if catalog, err := r.resolveCatalog(); err == nil && catalog != nil {
		catalogName = catalog.Name()
	}

	router := server.NewBasicRouter()
	router.Use(server.Recoverer(logger), server.RequestLogger(logger))
	router.Handler(server.NewHealthHandler(catalogName))
	router.Handler(server.NewStreamHandler(engine, r.config.Fetch.ShowHost, logger))
	router.Handler(web.NewIndexHandler())
	return router, nil
}

// Serve runs the HTTP service until the context is cancelled.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	router, err := r.newRouter()
	if err != nil {
		return err
	}

	addr := cmd.String("addr")
	if addr == "" {
		addr = r.config.Server.Addr()
	}

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("listening on http://%v", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		r.logger.Warn("error shutting down server", "error", err)
	}
	r.logger.Info("server stopped")
	return nil
}
