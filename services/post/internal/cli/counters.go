package cli

import (
	"fmt"

	"social-monkeys/services/post/internal/entity"

	"github.com/spf13/cobra"
)

func NewCheckCommand(rootOpts *RootOptions, backend Backend) *cobra.Command {
	return &cobra.Command{
		Use:   "check <post-id>...",
		Short: "Compare stored counters with the likes and comments they count",
		Long: `Report like_count and comment_count next to the actual number of likes
and comments for each post. Nothing is written. Exits 1 when any post drifted.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			counters, err := backend.Counters(cmd.Context())
			if err != nil {
				return err
			}

			reports := make([]*entity.CounterReport, 0, len(args))
			drifted := 0
			for _, postID := range args {
				report, err := counters.CheckCounters(cmd.Context(), postID)
				if err != nil {
					return fmt.Errorf("check %s: %w", postID, err)
				}
				if report.Drifted {
					drifted++
				}
				reports = append(reports, report)
			}

			if err := writeReports(cmd.OutOrStdout(), rootOpts.Format, reports); err != nil {
				return err
			}
			if drifted > 0 {
				return &ExitError{Code: ExitDrift, Message: fmt.Sprintf("%d of %d posts drifted", drifted, len(reports))}
			}
			return nil
		},
	}
}

type reconcileOptions struct {
	all bool
}

func NewReconcileCommand(rootOpts *RootOptions, backend Backend) *cobra.Command {
	opts := &reconcileOptions{}

	cmd := &cobra.Command{
		Use:   "reconcile [<post-id>... | --all]",
		Short: "Recount likes and comments and store the result",
		Args: func(cmd *cobra.Command, args []string) error {
			if opts.all == (len(args) > 0) {
				return fmt.Errorf("pass post ids or --all, not both")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			counters, err := backend.Counters(cmd.Context())
			if err != nil {
				return err
			}

			var reports []*entity.CounterReport
			if opts.all {
				reports, err = counters.RecomputeAll(cmd.Context())
				if err != nil {
					return err
				}
			} else {
				for _, postID := range args {
					report, err := counters.RecomputeCounters(cmd.Context(), postID)
					if err != nil {
						return fmt.Errorf("reconcile %s: %w", postID, err)
					}
					reports = append(reports, report)
				}
			}

			return writeReports(cmd.OutOrStdout(), rootOpts.Format, reports)
		},
	}

	cmd.Flags().BoolVar(&opts.all, "all", false, "reconcile every post")
	return cmd
}
