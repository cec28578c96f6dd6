package cli

import (
	"fmt"

	"social-monkeys/pkg/queue"

	"github.com/spf13/cobra"
)

func NewEventsCommand(backend Backend) *cobra.Command {
	return &cobra.Command{
		Use:   "events",
		Short: "Print notification tasks as they arrive",
		Long: `Consume the notification queue and print one line per like or comment
task until interrupted. Consumed tasks are acknowledged.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return backend.ConsumeEvents(cmd.Context(), func(task queue.Task) error {
				_, err := fmt.Fprintln(out, describe(task))
				return err
			})
		},
	}
}

func describe(task queue.Task) string {
	at := task.CreatedAt.UTC().Format("2006-01-02T15:04:05Z")
	switch task.Type {
	case queue.TaskLike:
		return fmt.Sprintf("%s %s liked post %s by %s", at, task.Actor, task.PostID, task.Recipient)
	case queue.TaskComment:
		return fmt.Sprintf("%s %s commented on post %s by %s", at, task.Actor, task.PostID, task.Recipient)
	default:
		return fmt.Sprintf("%s %s task on post %s", at, task.Type, task.PostID)
	}
}
