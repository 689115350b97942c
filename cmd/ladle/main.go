// Ladle - Personal Recipe Box
//
// An offline-first CLI for keeping and searching your recipes:
// full-text search, markdown import, and an HTTP API for sharing.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ladle-sh/ladle/internal/cli"
	"github.com/ladle-sh/ladle/internal/config"
	"github.com/ladle-sh/ladle/internal/log"
	"github.com/ladle-sh/ladle/internal/telemetry"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		os.Exit(1)
	}

	paths := config.GetPaths(cfg)
	if err := log.Init(paths.Logs); err == nil {
		defer log.Close()
	}

	telemetryClient := telemetry.New()
	defer telemetryClient.Close()

	if err := cli.Execute(ctx, telemetryClient); err != nil {
		os.Exit(1)
	}
}
