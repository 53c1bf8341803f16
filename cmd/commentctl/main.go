package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"douyin-comments/internal/cli"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run returns the process exit code so deferred cleanup happens before exiting
func run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Run(ctx, args); err != nil {
		return 1
	}
	return 0
}
