package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/scriptty/internal/script"
)

var checkCmd = &cobra.Command{
	Use:   "check <script>",
	Short: "Validate a script without running it",
	Long: `Parse a script file and report errors without spawning anything.

Examples:
  scriptty check demo.script`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cmds, err := script.ParseFile(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d commands, OK\n", args[0], len(cmds))
	return nil
}
