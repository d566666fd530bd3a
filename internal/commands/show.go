package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/capgains-dev/capgains/internal/fx"
	"github.com/capgains-dev/capgains/internal/ledger"
	"github.com/capgains-dev/capgains/internal/model"
)

func newShowCommand() *cobra.Command {
	var showRates bool
	var tickers []string
	var format string
	var configPath string

	cmd := &cobra.Command{
		Use:   "show <transactions-file>",
		Short: "Show entries from the transactions file",
		Long: "Show entries from the transactions file in a tabular format. " +
			"Supports both CSV and JSON input files. " +
			"Filters can be applied to narrow down the entries.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd.OutOrStdout(), args[0], showRates, tickers, format, configPath)
		},
	}

	cmd.Flags().BoolVarP(&showRates, "show-exchange-rate", "e", false, "include the CAD exchange rate for each entry")
	cmd.Flags().StringArrayVarP(&tickers, "tickers", "t", nil, "stock tickers to filter for")
	cmd.Flags().StringVar(&format, "format", formatTable, "output format (table or json)")
	cmd.Flags().StringVar(&configPath, "config", "", "path to capgains.yaml")

	return cmd
}

func runShow(w io.Writer, file string, showRates bool, tickers []string, format, configPath string) error {
	l, err := ledger.ReadFile(file)
	if err != nil {
		return err
	}

	filtered := l.FilterBy(ledger.Filter{Tickers: tickers})
	if filtered.Len() == 0 {
		return noResults(w, format, "No results found")
	}

	// Rates are resolved for display only; the engine stamps them for real
	// during a calc run.
	var sources fx.Sources
	if showRates {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		sources, err = fx.BuildSources(newProvider(cfg), filtered.Transactions())
		if err != nil {
			return err
		}
	}

	if format == formatJSON {
		return showJSON(w, filtered, sources)
	}
	return showTable(w, filtered, sources)
}

func showTable(w io.Writer, l *ledger.Ledger, sources fx.Sources) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	header := "DATE\tDESCRIPTION\tTICKER\tACTION\tQTY\tPRICE\tCOMMISSION\tCURRENCY"
	if sources != nil {
		header += "\tEXCHANGE"
	}
	fmt.Fprintln(tw, header)

	for _, t := range l.Transactions() {
		row := fmt.Sprintf("%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s",
			t.Date.Format("2006-01-02"),
			t.Description,
			t.Ticker,
			t.Action,
			t.Qty.String(),
			formatMoney(t.Price, t.Currency),
			formatMoney(t.Commission, t.Currency),
			t.Currency,
		)
		if sources != nil {
			rate, err := sources.Rate(t.Currency, t.Date)
			if err != nil {
				return err
			}
			row += "\t" + rate.String()
		}
		fmt.Fprintln(tw, row)
	}
	return tw.Flush()
}

func showJSON(w io.Writer, l *ledger.Ledger, sources fx.Sources) error {
	txs := make([]map[string]any, 0, l.Len())
	for _, t := range l.Transactions() {
		entry := transactionJSON(t)
		if sources != nil {
			rate, err := sources.Rate(t.Currency, t.Date)
			if err != nil {
				return err
			}
			entry["exchange_rate"] = rate.InexactFloat64()
		}
		txs = append(txs, entry)
	}
	return writeJSON(w, map[string]any{"transactions": txs})
}

func transactionJSON(t *model.Transaction) map[string]any {
	return map[string]any{
		"date":        t.Date.Format("2006-01-02"),
		"description": t.Description,
		"ticker":      t.Ticker,
		"action":      string(t.Action),
		"qty":         t.Qty.InexactFloat64(),
		"price":       t.Price.InexactFloat64(),
		"commission":  t.Commission.InexactFloat64(),
		"currency":    t.Currency,
	}
}
