package cmd

import (
	"fmt"
	"strings"

	"github.com/josephlewis42/mysh/core/shell"
	"github.com/spf13/cobra"
)

// builtinsCmd lists the commands the shell understands
var builtinsCmd = &cobra.Command{
	Use:   "builtins",
	Short: "Show the builtin commands of the shell.",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, verb := range shell.Verbs() {
			fmt.Fprintln(cmd.OutOrStdout(), strings.TrimSpace(fmt.Sprintf("%-10s %s", verb, verb.Usage())))
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(builtinsCmd)
}
