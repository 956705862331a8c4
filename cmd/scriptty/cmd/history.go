package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/scriptty/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent script runs",
	Long: `Show recent runs from the local run log.

Examples:
  scriptty history             # last 20 runs
  scriptty history --limit 50`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 20, "maximum number of runs to show")
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	path := cfg.History.Path
	if path == "" {
		path = history.DefaultPath()
	}
	store, err := history.OpenAt(path)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	runs, err := store.Recent(limit)
	if err != nil {
		return fmt.Errorf("get runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded.")
		return nil
	}
	return renderRunList(cmd.OutOrStdout(), runs)
}

func renderRunList(w io.Writer, runs []history.Run) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STARTED\tSCRIPT\tPROGRAM\tDURATION\tSTATUS\tERROR")
	for _, run := range runs {
		errText := run.Error
		if len(errText) > 60 {
			errText = errText[:57] + "..."
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			run.Script,
			run.Program,
			run.Duration.Round(10*time.Millisecond),
			run.Status,
			errText,
		)
	}
	return tw.Flush()
}
