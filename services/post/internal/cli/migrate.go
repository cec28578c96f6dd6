package cli

import (
	"github.com/spf13/cobra"
)

var migrateCommands = []string{"up", "down", "status", "version"}

func NewMigrateCommand(backend Backend) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate <up|down|status|version>",
		Short:     "Run the embedded schema migrations",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: migrateCommands,
		RunE: func(cmd *cobra.Command, args []string) error {
			return backend.Migrate(cmd.Context(), args[0])
		},
	}
}
