package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/scriptty/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the scriptty version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "scriptty", version.String())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
