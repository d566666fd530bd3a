package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/capgains-dev/capgains/internal/importer"
	"github.com/capgains-dev/capgains/internal/ledger"
	"github.com/capgains-dev/capgains/internal/model"
)

func newConvertCommand() *cobra.Command {
	convertCmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert brokerage transaction data to the capgains format",
		Long: "Convert transaction data from various sources to the capgains format. " +
			"Each source format has its own subcommand. The output is always a JSON " +
			"file that can be used with the other capgains commands.",
	}
	convertCmd.AddCommand(newConvertSchwabCommand())
	convertCmd.AddCommand(newConvertGambitCommand())
	return convertCmd
}

func newConvertSchwabCommand() *cobra.Command {
	var tickers []string
	var configPath string

	cmd := &cobra.Command{
		Use:   "schwab-eac <input-file> <output-file>",
		Short: "Convert Schwab Equity Awards Center JSON exports",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvertSchwab(cmd.OutOrStdout(), args[0], args[1], tickers, configPath)
		},
	}

	cmd.Flags().StringArrayVarP(&tickers, "tickers", "t", nil, "stock tickers to convert")
	cmd.Flags().StringVar(&configPath, "config", "", "path to capgains.yaml (ticker aliases)")

	return cmd
}

func runConvertSchwab(w io.Writer, inputFile, outputFile string, tickers []string, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	conv := importer.DefaultRegistry().Get("schwab-eac")
	if conv == nil {
		return fmt.Errorf("no converter registered for format %q", "schwab-eac")
	}

	in, err := os.Open(inputFile)
	if err != nil {
		return fmt.Errorf("opening input file: %w", err)
	}
	defer in.Close()

	txs, err := conv.Convert(in)
	if err != nil {
		return err
	}
	txs = importer.FilterTickers(txs, tickers)
	importer.ApplyAliases(txs, cfg.Aliases)

	if err := writeLedgerFile(outputFile, txs); err != nil {
		return err
	}
	fmt.Fprintf(w, "Successfully converted %d transactions\n", len(txs))
	return nil
}

func newConvertGambitCommand() *cobra.Command {
	var usdTicker, cadTicker string
	var configPath string

	cmd := &cobra.Command{
		Use:   "norberts-gambit <usd-buys-file> <cad-sells-file> <output-file>",
		Short: "Merge the two legs of a Norbert's Gambit into one ledger",
		Long: "Convert Norbert's Gambit transactions to proper ACB format. Takes two " +
			"JSON files as input: one containing the USD buy transactions and one " +
			"containing the CAD sell transactions. Outputs a single JSON file that " +
			"properly represents the trades for capital gains calculations.",
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvertGambit(cmd.OutOrStdout(), args[0], args[1], args[2], usdTicker, cadTicker, configPath)
		},
	}

	cmd.Flags().StringVar(&usdTicker, "usd-ticker", "", "ticker of the USD side (default from config)")
	cmd.Flags().StringVar(&cadTicker, "cad-ticker", "", "ticker of the CAD side (default from config)")
	cmd.Flags().StringVar(&configPath, "config", "", "path to capgains.yaml")

	return cmd
}

func runConvertGambit(w io.Writer, usdFile, cadFile, outputFile, usdTicker, cadTicker, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if usdTicker == "" {
		usdTicker = cfg.Gambit.USDTicker
	}
	if cadTicker == "" {
		cadTicker = cfg.Gambit.CADTicker
	}

	usdBuys, err := parseLedgerFile(usdFile)
	if err != nil {
		return err
	}
	cadSells, err := parseLedgerFile(cadFile)
	if err != nil {
		return err
	}

	gambit := importer.Gambit{USDTicker: usdTicker, CADTicker: cadTicker}
	combined := gambit.Combine(usdBuys, cadSells)

	if err := writeLedgerFile(outputFile, combined); err != nil {
		return err
	}
	fmt.Fprintf(w, "Successfully converted %d transactions\n", len(combined))
	return nil
}

func parseLedgerFile(path string) ([]*model.Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return ledger.ParseJSON(f)
}

func writeLedgerFile(path string, txs []*model.Transaction) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer f.Close()
	return ledger.WriteJSON(f, txs)
}
