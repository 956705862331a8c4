package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Dicklesworthstone/scriptty/internal/engine"
	"github.com/Dicklesworthstone/scriptty/internal/history"
	"github.com/Dicklesworthstone/scriptty/internal/script"
	"github.com/Dicklesworthstone/scriptty/internal/watch"
)

var annotationStyle = lipgloss.NewStyle().Faint(true).Italic(true)

var runCmd = &cobra.Command{
	Use:   "run --script <file> --command <program> [-- args...]",
	Short: "Run a script against a program in a PTY",
	Long: `Parse a script file and execute it against the given program running
in a pseudo-terminal. All program output and script annotations stream to
stdout in order.

Examples:
  scriptty run -s demo.script -c bash
  scriptty run -s demo.script -c psql -- -U postgres mydb
  scriptty run -s demo.script -c bash --watch   # re-run on script changes`,
	Args: cobra.ArbitraryArgs,
	RunE: runRun,
}

var (
	runScript    string
	runProgram   string
	runRows      uint16
	runCols      uint16
	runQuiet     bool
	runWatch     bool
	runNoHistory bool
)

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&runScript, "script", "s", "", "path to the script file (required)")
	runCmd.Flags().StringVarP(&runProgram, "command", "c", "", "program to run in the PTY (required)")
	runCmd.Flags().Uint16Var(&runRows, "rows", 0, "PTY rows (default: terminal size, else config)")
	runCmd.Flags().Uint16Var(&runCols, "cols", 0, "PTY columns (default: terminal size, else config)")
	runCmd.Flags().BoolVarP(&runQuiet, "quiet", "q", false, "discard program output")
	runCmd.Flags().BoolVarP(&runWatch, "watch", "w", false, "re-run the script whenever the file changes")
	runCmd.Flags().BoolVar(&runNoHistory, "no-history", false, "do not record this run")
	_ = runCmd.MarkFlagRequired("script")
	_ = runCmd.MarkFlagRequired("command")
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	if !runWatch {
		return runOnce(ctx, args)
	}

	// Watch mode: run now, then again after every debounced file change.
	runCh := make(chan struct{}, 1)
	runCh <- struct{}{}

	watcher, err := watch.New(runScript, watch.Config{
		OnChange: func(string) {
			select {
			case runCh <- struct{}{}:
			default:
			}
		},
		OnError: func(err error) {
			fmt.Fprintln(os.Stderr, "watch:", err)
		},
	})
	if err != nil {
		return err
	}
	if err := watcher.Start(ctx); err != nil {
		return err
	}
	defer func() { _ = watcher.Stop() }()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-runCh:
			if err := runOnce(ctx, args); err != nil {
				// In watch mode a failed run is feedback, not a reason
				// to stop iterating on the script.
				fmt.Fprintln(os.Stderr, "Error:", err)
			}
			fmt.Fprintf(os.Stderr, "\n-- watching %s (Ctrl+C to stop) --\n", runScript)
		}
	}
}

func runOnce(ctx context.Context, args []string) error {
	start := time.Now()

	cmds, err := script.ParseFile(runScript)
	if err != nil {
		recordRun(start, history.StatusParseError, err)
		return err
	}
	applyConfig(cmds)
	styleAnnotations(cmds)

	rows, cols := geometry()
	opts := &engine.Options{
		Rows:  rows,
		Cols:  cols,
		Grace: time.Duration(cfg.Grace),
	}
	if runQuiet {
		opts.Sink = func([]byte) {}
	}

	eng, err := engine.Spawn(runProgram, args, opts)
	if err != nil {
		recordRun(start, history.StatusRunError, err)
		return err
	}
	defer func() { _ = eng.Close() }()

	if err := eng.Execute(ctx, cmds); err != nil {
		status := history.StatusRunError
		if errors.Is(err, engine.ErrTimeout) {
			status = history.StatusTimeout
		}
		recordRun(start, status, err)
		return err
	}

	recordRun(start, history.StatusOK, nil)
	return nil
}

// applyConfig overlays configured defaults onto parsed commands: typing
// speed for every type line, and the expect timeout for lines that did not
// set one explicitly.
func applyConfig(cmds []engine.Command) {
	for _, c := range cmds {
		switch cmd := c.(type) {
		case *script.TypeText:
			cmd.MinDelay = time.Duration(cfg.Typing.MinDelay)
			cmd.MaxDelay = time.Duration(cfg.Typing.MaxDelay)
		case *script.Expect:
			if !cmd.TimeoutSet {
				cmd.Timeout = time.Duration(cfg.ExpectTimeout)
			}
		}
	}
}

// styleAnnotations dims show output when stdout is a terminal, so operator
// commentary reads apart from the program's own bytes.
func styleAnnotations(cmds []engine.Command) {
	if runQuiet || !term.IsTerminal(int(os.Stdout.Fd())) {
		return
	}
	for _, c := range cmds {
		if show, ok := c.(*script.Show); ok {
			text := strings.TrimSuffix(string(show.Data), "\n")
			show.Data = []byte(annotationStyle.Render(text) + "\n")
		}
	}
}

// geometry resolves the PTY size: explicit flags win, then the real terminal
// size, then the configured default.
func geometry() (rows, cols uint16) {
	rows, cols = cfg.Rows, cfg.Cols
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 && h > 0 {
		rows, cols = uint16(h), uint16(w)
	}
	if runRows != 0 {
		rows = runRows
	}
	if runCols != 0 {
		cols = runCols
	}
	return rows, cols
}

func recordRun(start time.Time, status string, runErr error) {
	if runNoHistory || !cfg.History.Enabled {
		return
	}

	path := cfg.History.Path
	if path == "" {
		path = history.DefaultPath()
	}
	store, err := history.OpenAt(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "history:", err)
		return
	}
	defer func() { _ = store.Close() }()

	run := history.Run{
		Script:    runScript,
		Program:   runProgram,
		StartedAt: start,
		Duration:  time.Since(start),
		Status:    status,
	}
	if runErr != nil {
		run.Error = runErr.Error()
	}
	if _, err := store.Record(run); err != nil {
		fmt.Fprintln(os.Stderr, "history:", err)
	}
}
