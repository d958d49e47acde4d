package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"pet-rescue/internal/router"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := build(ctx, configPath)
	if err != nil {
		return err
	}
	defer app.Close()

	srv := &http.Server{
		Addr:         app.cfg.Addr(),
		Handler:      router.NewRouter(app.routerOptions()),
		ReadTimeout:  app.cfg.HTTP.ReadTimeout,
		WriteTimeout: app.cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		app.log.Info("starting server", map[string]any{
			"addr":     srv.Addr,
			"storage":  app.cfg.Storage.Driver,
			"auth":     app.cfg.Auth.Mode,
			"delivery": app.cfg.Delivery.Driver,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	app.log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
