// Package cmd implements the CLI commands for scriptty.
//
// scriptty drives an interactive terminal program from a small sequential
// script: it spawns the program in a PTY, feeds it simulated keystrokes or
// instant input, blocks on expected output patterns, and streams everything
// through one ordered output stream. It is built for reproducible terminal
// demos and for driving CLI programs non-interactively.
package cmd

import (
	"fmt"
	"os"

	"github.com/Dicklesworthstone/scriptty/internal/config"
	"github.com/spf13/cobra"
)

var cfg *config.Config

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "scriptty",
	Short: "Script interactive terminal programs through a PTY",
	Long: `scriptty runs a small sequential script against a program spawned in a
pseudo-terminal. Scripts can simulate human typing, send input instantly,
press keys, pause, wait for output patterns, and interleave annotations
into the output stream.

Script syntax (one command per line, # for comments):

  type "echo hello"        simulate typing with per-character delays
  send "echo hello"        send a complete line instantly
  key Enter                press a key (Ctrl+/Alt+/Shift+ modifiers work)
  show "note"              write an annotation to the output
  wait 500ms               pause (ms or s units, floats allowed for s)
  expect "$ "              block until the pattern appears in the output
  expect "Password:" 10s   same, with an explicit timeout

Example:

  scriptty run --script demo.script --command bash`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		return nil
	},
}

// Execute runs the root command. Errors are printed here so main only maps
// them to the exit code.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}
