package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	rootcmder "github.com/papercomputeco/vertexprobe/cmd/vertexprobe/root"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := rootcmder.NewProbeCmd()
	if err := cmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
