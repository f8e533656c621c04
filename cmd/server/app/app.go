// Package app contains the main entrypoint for the server.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/starquake/quizroster/internal/client"
	"github.com/starquake/quizroster/internal/config"
	"github.com/starquake/quizroster/internal/database"
	"github.com/starquake/quizroster/internal/logging"
	"github.com/starquake/quizroster/internal/server"
	"github.com/starquake/quizroster/internal/store"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// Run starts the application server and blocks until ctx is canceled or the process is interrupted.
// If ln is nil, Run listens on the configured host and port.
func Run(
	ctx context.Context,
	getenv func(string) string,
	stdout io.Writer,
	ln net.Listener,
) error {
	var err error
	mainCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cfg *config.Config
	if cfg, err = config.Parse(getenv); err != nil {
		return fmt.Errorf("error parsing config: %w", err)
	}

	logger := logging.NewLogger(stdout, cfg.LogLevel, cfg.LogFormat)

	stores, closeStores, err := openStores(mainCtx, cfg, logger)
	if err != nil {
		msg := "error opening roster backend"
		logger.ErrorContext(ctx, msg, logging.ErrAttr(err), slog.String("backend", cfg.Backend))

		return fmt.Errorf("%s: %w", msg, err)
	}
	defer closeStores()

	if ln == nil {
		listenConfig := &net.ListenConfig{}
		ln, err = listenConfig.Listen(mainCtx, "tcp", net.JoinHostPort(cfg.Host, cfg.Port))
		if err != nil {
			return fmt.Errorf("error listening on %s:%s: %w", cfg.Host, cfg.Port, err)
		}
	}

	httpServer := &http.Server{
		ReadHeaderTimeout: readHeaderTimeout,
		Handler:           server.NewServer(logger, cfg, stores),
	}

	g, gCtx := errgroup.WithContext(mainCtx)
	g.Go(func() error {
		addr := ln.Addr().String()
		logger.InfoContext(ctx, "listening on "+addr,
			slog.String("addr", addr),
			slog.String("backend", cfg.Backend),
			slog.String("env", cfg.AppEnvironment),
		)
		logger.InfoContext(ctx, fmt.Sprintf("visit http://%s%s/ to follow the scores", addr, client.Prefix))
		if serveErr := httpServer.Serve(ln); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			return fmt.Errorf("error listening and serving: %w", serveErr)
		}

		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		// make a new context for the Shutdown
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if shutdownErr := httpServer.Shutdown(shutdownCtx); shutdownErr != nil {
			return fmt.Errorf("error shutting down server: %w", shutdownErr)
		}
		logger.InfoContext(shutdownCtx, "server stopped")

		return nil
	})

	if err = g.Wait(); err != nil {
		logger.ErrorContext(ctx, "server exited with error", logging.ErrAttr(err))

		return err
	}

	return nil
}

// openStores opens the configured roster backend. The returned close function releases its resources.
func openStores(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*store.Stores, func(), error) {
	if cfg.Backend != config.BackendSQLite {
		return store.NewMemory(logger), func() {}, nil
	}

	conn, err := database.Open(ctx, cfg.DBDriver, cfg.DBURI, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns, cfg.DBConnMaxLifetime)
	if err != nil {
		return nil, nil, fmt.Errorf("error opening database connection: %w", err)
	}
	closeConn := func() {
		if conErr := conn.Close(); conErr != nil {
			logger.ErrorContext(ctx, "error closing database connection", logging.ErrAttr(conErr))
		}
	}

	if err = database.Migrate(ctx, conn); err != nil {
		closeConn()

		return nil, nil, fmt.Errorf("error migrating database: %w", err)
	}

	return store.New(conn, logger), closeConn, nil
}
