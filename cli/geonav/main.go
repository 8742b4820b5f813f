// Package main is the geonav command itself.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.viam.com/geonav/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := cli.NewApp(os.Stdout, os.Stderr)
	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1) //nolint:gocritic
	}
}
