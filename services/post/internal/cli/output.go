package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"social-monkeys/services/post/internal/entity"
)

// ExitError carries the process exit code for main.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

// GetExitCode returns ExitCommandError for anything that is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitCommandError
}

func writeReports(w io.Writer, format string, reports []*entity.CounterReport) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "POST\tLIKES\tCOMMENTS\tSTATUS")
	for _, r := range reports {
		fmt.Fprintf(tw, "%s\t%d/%d\t%d/%d\t%s\n",
			r.PostID, r.StoredLikes, r.ActualLikes, r.StoredComments, r.ActualComments, status(r))
	}
	return tw.Flush()
}

func status(r *entity.CounterReport) string {
	switch {
	case r.Repaired:
		return "repaired"
	case r.Drifted:
		return "drifted"
	default:
		return "ok"
	}
}
