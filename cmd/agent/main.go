package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/zonesync-proto/zonesync/internal/agent"
	"github.com/zonesync-proto/zonesync/internal/bus"
	"github.com/zonesync-proto/zonesync/internal/config"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logger := newLogger(cfg)

	ctx := context.Background()

	// Connect to the shared bus
	b, err := bus.Connect(ctx, cfg.BusURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("bus connection failed")
	}
	defer b.Close()

	a := agent.New(b, agent.ExecRunner{}, cfg.Topic, cfg.ExecTimeout, logger)
	if err := a.Start(ctx); err != nil {
		logger.Fatal().Err(err).Msg("subscribe failed")
	}

	logger.Info().
		Str("identity", a.Identity()).
		Str("topic", cfg.Topic).
		Msg("agent listening")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("agent stopped")
}

// newLogger builds the agent logger: console output in development, JSON
// otherwise, and a rotating file instead of stdout when LOG_FILE is set.
func newLogger(cfg *config.Config) zerolog.Logger {
	if cfg.LogFile != "" {
		w := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     7, // days
		}
		return zerolog.New(w).With().Timestamp().Logger()
	}

	if cfg.IsDevelopment() {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			With().
			Timestamp().
			Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}
