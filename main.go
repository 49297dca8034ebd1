// tasks/main.go
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/vinizap/lumi/tasks/config"
	"github.com/vinizap/lumi/tasks/events"
	"github.com/vinizap/lumi/tasks/filesystem"
	httphandlers "github.com/vinizap/lumi/tasks/http"
	"github.com/vinizap/lumi/tasks/logging"
)

func main() {
	if err := run(); err != nil {
		logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

func run() error {
	cfg, err := config.Load("")
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := events.NewHub(log)
	go hub.Run(ctx)

	store := filesystem.NewStore(cfg.DataFile, log)
	server := httphandlers.NewServer(store, hub, log)
	app := server.App(cfg.CORSOrigins)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr()).Str("data_file", store.Path()).Msgf("Server is running on http://localhost:%s", cfg.Port)
		errCh <- app.Listen(cfg.Addr())
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}
