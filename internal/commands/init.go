package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/capgains-dev/capgains/internal/config"
)

func newInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [config-file]",
		Short: "Write a default capgains.yaml",
		Long: "Writes a capgains.yaml with the default settings: the public Bank of " +
			"Canada rate endpoint with response caching, and the DLR/DLR.U gambit " +
			"tickers. Edit it to point at a different rate source or gambit pair.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "capgains.yaml"
			if len(args) == 1 {
				path = args[0]
			}
			return runInit(cmd.OutOrStdout(), path, force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing config file")

	return cmd
}

func runInit(w io.Writer, path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists, use --force to overwrite", path)
		}
	}
	if err := config.Save(path, config.Default()); err != nil {
		return err
	}
	fmt.Fprintf(w, "Wrote %s\n", path)
	return nil
}
