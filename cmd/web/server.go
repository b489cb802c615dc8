// cmd/web/server.go
// This file contains the serve() method which starts the HTTP server and
// handles graceful shutdown when an OS signal is received.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// serve builds the HTTP server, starts it in a background goroutine, then
// blocks until it receives a SIGINT or SIGTERM signal. On signal receipt it
// initiates a graceful shutdown: in-flight requests are given 20 seconds to
// complete before the server is forcefully stopped.
func (app *applicationDependencies) serve() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", app.config.port),
		Handler:      app.routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelError),
	}

	// shutdownErr receives any error returned by Shutdown().
	shutdownErr := make(chan error)

	// Background goroutine: wait for a shutdown signal then gracefully stop.
	go func() {
		// quit is a buffered channel so the signal package never blocks.
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		s := <-quit
		app.logger.Info("shutting down server", "signal", s.String())

		// Active requests must complete within this window or they will
		// be abandoned.
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()

		shutdownErr <- srv.Shutdown(ctx)
	}()

	app.logger.Info("starting server", "address", srv.Addr, "environment", app.config.environment)

	// ListenAndServe always returns a non-nil error; ErrServerClosed is the
	// normal outcome of a graceful Shutdown.
	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdownErr
	if err != nil {
		return err
	}

	app.logger.Info("server stopped", "address", srv.Addr)
	return nil
}
