// Package main is the entry point for the mentra terminal client.
//
// main stays minimal: read configuration, build the logger, hand everything
// to the cli package. All behavior lives in internal/.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mentra-app/mentra-cli/internal/cli"
)

func main() {
	cfg := cli.LoadConfig()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	app, err := cli.NewApp(cfg, logger, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mentra: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	// Ctrl-C cancels in-flight requests and the google-login wait.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, os.Args[1:]); err != nil {
		logger.Debug("command failed", "error", err)
		fmt.Fprintf(os.Stderr, "mentra: %v\n", err)
		os.Exit(1)
	}
}
