package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
)

func main() {
	opts := parseFlags()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: opts.logLevel()}))
	slog.SetDefault(logger)

	if opts.listRules || opts.listPatterns {
		if opts.listRules {
			listRules(os.Stdout)
		}
		if opts.listPatterns {
			listPatterns(os.Stdout)
		}
		return
	}

	// Load configuration - fallback to defaults if no file was given
	config, err := loadConfig(opts)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Handle Ctrl+C gracefully
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err = run(ctx, config, opts, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("simulation failed", "error", err)
		os.Exit(1)
	}
}
