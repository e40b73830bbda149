package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/nightconcept/webpackext/internal/cli/app"
	"github.com/nightconcept/webpackext/internal/core/output"
)

// version is overridden at release time with -ldflags "-X main.version=...".
var version = "v0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := app.Run(ctx, app.New(version), os.Args); err != nil {
		stop()
		output.Fatal("webpackext failed", "err", err)
	}
}
