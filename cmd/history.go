package cmd

import (
	"log"

	"github.com/josephlewis42/mysh/core"
	"github.com/josephlewis42/mysh/core/config"
	"github.com/josephlewis42/mysh/core/history"
	"github.com/josephlewis42/mysh/core/shell"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the saved history with replay indices.",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		configuration, err := config.LoadOrDefault(cfgPath, log.New(cmd.ErrOrStderr(), "", 0))
		if err != nil {
			return err
		}

		historyFs, historyPath := configuration.HistoryStorage()
		store := history.NewStore(historyFs, historyPath, shell.Parser{Quoting: configuration.Quoting})
		if err := store.Load(); err != nil {
			return err
		}

		core.WriteHistory(cmd.OutOrStdout(), store.List())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
}
