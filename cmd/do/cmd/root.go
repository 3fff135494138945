package cmd

import (
	"github.com/clementroume/holbertonschool-files-manager/internal/logger"
	"github.com/spf13/cobra"
)

// Root returns the do command with every subcommand attached.
func Root() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:          "do",
		Short:        "Development and operations tools for files-manager",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Init(true, logLevel, "")
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(DevCmd())
	root.AddCommand(MigrateCmd())
	root.AddCommand(UsersCmd())

	return root
}
