package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/reelcraft/reelcraft/cmd/reelcraft/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := commands.NewCommand()
	if err := cmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
