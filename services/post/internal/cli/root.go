// Package cli implements feedctl, the operator tool for the post store.
package cli

import (
	"context"
	"fmt"
	"slices"

	"social-monkeys/pkg/queue"
	"social-monkeys/services/post/internal/usecase"

	"github.com/spf13/cobra"
)

// Exit codes for feedctl.
const (
	ExitSuccess      = 0
	ExitDrift        = 1 // check found drifted counters
	ExitCommandError = 2
)

var validFormats = []string{"text", "json"}

// Backend is what the commands operate on. Connections are opened on first
// use so that --help works without a database.
type Backend interface {
	Counters(ctx context.Context) (usecase.CounterUseCase, error)
	Migrate(ctx context.Context, command string) error
	ConsumeEvents(ctx context.Context, handler func(queue.Task) error) error
	Close()
}

type RootOptions struct {
	Format string
}

func NewRootCommand(backend Backend) *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "feedctl",
		Short: "Operate the Social Monkeys post store",
		Long:  "Check and repair post counters, run schema migrations and watch notification events.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(validFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, validFormats)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewCheckCommand(opts, backend))
	cmd.AddCommand(NewReconcileCommand(opts, backend))
	cmd.AddCommand(NewMigrateCommand(backend))
	cmd.AddCommand(NewEventsCommand(backend))

	return cmd
}
