package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/capgains-dev/capgains/internal/buildinfo"
	"github.com/capgains-dev/capgains/internal/logger"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var logLevel string

	rootCmd := &cobra.Command{
		Use:     "capgains",
		Short:   "Canadian adjusted-cost-base capital gains calculator",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Init(logLevel)
		},
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newShowCommand())
	rootCmd.AddCommand(newCalcCommand())
	rootCmd.AddCommand(newMaxcostCommand())
	rootCmd.AddCommand(newConvertCommand())

	return rootCmd
}
