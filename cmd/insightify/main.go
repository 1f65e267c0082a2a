package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"insightify/internal/adapters/observability"
	"insightify/internal/cli"
	"insightify/internal/shared"
)

func main() {
	cfg := shared.Load()

	// CLI output goes to stdout; logs stay on stderr.
	log.Logger = observability.NewLoggerTo(os.Stderr, cfg.AppEnv, os.Getenv("LOG_LEVEL"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCmd(cli.DefaultEnv(cfg)).ExecuteContext(ctx); err != nil {
		if !errors.Is(err, cli.ErrColumnChoice) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}
