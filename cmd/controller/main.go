package main

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/zonesync-proto/zonesync/internal/bus"
	"github.com/zonesync-proto/zonesync/internal/config"
	"github.com/zonesync-proto/zonesync/internal/controller"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	var logger zerolog.Logger
	if cfg.IsDevelopment() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
			With().
			Timestamp().
			Logger()
	} else {
		logger = zerolog.New(os.Stderr).
			With().
			Timestamp().
			Logger()
	}

	ctx := context.Background()

	// Connect to the shared bus
	b, err := bus.Connect(ctx, cfg.BusURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("bus connection failed")
	}
	defer b.Close()

	ctrl := controller.New(b, cfg.Topic, cfg.ArtifactDir, logger)
	if err := ctrl.Start(ctx); err != nil {
		logger.Fatal().Err(err).Msg("subscribe failed")
	}

	logger.Info().Str("topic", cfg.Topic).Msg("controller connected")

	console := controller.NewConsole(ctrl, os.Stdin, os.Stdout, cfg.ResponseWait)
	if err := console.Run(ctx); err != nil {
		logger.Fatal().Err(err).Msg("console failed")
	}
}
