package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"social-monkeys/pkg/config"
	"social-monkeys/pkg/logger"
	"social-monkeys/services/post/internal/cli"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return cli.ExitCommandError
	}

	// Logs go to stderr so that --format json output stays clean
	log := logger.NewWithWriters(os.Stderr, os.Stderr)
	backend := cli.NewBackend(cfg, log)
	defer backend.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCommand(backend).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "feedctl:", err)
		return cli.GetExitCode(err)
	}
	return cli.ExitSuccess
}
