package commands

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/capgains-dev/capgains/internal/fx"
	"github.com/capgains-dev/capgains/internal/gains"
	"github.com/capgains-dev/capgains/internal/ledger"
	"github.com/capgains-dev/capgains/internal/model"
)

func newCalcCommand() *cobra.Command {
	var tickers []string
	var format string
	var configPath string

	cmd := &cobra.Command{
		Use:   "calc <transactions-file> <year>",
		Short: "Calculate capital gains from the transactions file",
		Long: "Calculates capital gains from the transactions file. " +
			"Supports both CSV and JSON input files. " +
			"Filters can be applied to select which stocks to calculate capital gains on.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid year %q", args[1])
			}
			return runCalc(cmd.OutOrStdout(), args[0], year, tickers, format, configPath)
		},
	}

	cmd.Flags().StringArrayVarP(&tickers, "tickers", "t", nil, "stock tickers to filter for")
	cmd.Flags().StringVar(&format, "format", formatTable, "output format (table or json)")
	cmd.Flags().StringVar(&configPath, "config", "", "path to capgains.yaml")

	return cmd
}

// calculate filters a ticker's history up to and including year, runs the
// cost-basis engine over it in date order, and returns the annotated
// ticker ledger.
func calculate(l *ledger.Ledger, provider fx.Provider, ticker string, year int) (*ledger.Ledger, error) {
	tickerLedger := l.FilterBy(ledger.Filter{Tickers: []string{ticker}, MaxYear: year})
	if tickerLedger.Len() == 0 {
		return tickerLedger, nil
	}

	txs := sortedByDate(tickerLedger.Transactions())
	sources, err := fx.BuildSources(provider, txs)
	if err != nil {
		return nil, err
	}
	if err := gains.New(ticker).AddTransactions(txs, sources); err != nil {
		return nil, err
	}
	return tickerLedger, nil
}

func runCalc(w io.Writer, file string, year int, tickers []string, format, configPath string) error {
	l, err := ledger.ReadFile(file)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	filtered := l.FilterBy(ledger.Filter{Tickers: tickers})
	if filtered.Len() == 0 {
		return noResults(w, format, "No results found")
	}

	provider := newProvider(cfg)
	jsonOut := make(map[string]any)

	for _, ticker := range filtered.Tickers() {
		tickerLedger, err := calculate(filtered, provider, ticker, year)
		if err != nil {
			return err
		}

		sells := tickerLedger.FilterBy(ledger.Filter{Year: year, Action: model.ActionSell})

		// Denied (superficial) losses are reported but excluded from the
		// realized total.
		totalGains := decimal.Zero
		for _, t := range sells.Transactions() {
			if !t.IsSuperficialLoss() {
				totalGains = totalGains.Add(t.Computed.CapitalGain)
			}
		}

		if format == formatJSON {
			if sells.Len() == 0 {
				continue
			}
			jsonOut[ticker] = calcTickerJSON(sells, year, totalGains)
			continue
		}

		fmt.Fprintf(w, "%s-%d\n", ticker, year)
		if sells.Len() == 0 {
			fmt.Fprintln(w, "Nothing to report")
			fmt.Fprintln(w)
			continue
		}
		if err := calcTable(w, sells); err != nil {
			return err
		}
		fmt.Fprintf(w, "[Total Gains = %s]\n\n", formatMoney(totalGains, "CAD"))
	}

	if format == formatJSON {
		if len(jsonOut) == 0 {
			return noResults(w, format, "No results found")
		}
		return writeJSON(w, jsonOut)
	}
	return nil
}

func calcTable(w io.Writer, sells *ledger.Ledger) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tDESCRIPTION\tQTY\tPRICE\tCOMMISSION\tCURRENCY\tRATE\tPROCEEDS\tOUTLAYS\tACB\tGAIN")

	for _, t := range sells.Transactions() {
		c := t.Computed
		gain := formatMoney(c.CapitalGain, "CAD")
		if c.SuperficialLoss {
			gain += " *"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			t.Date.Format("2006-01-02"),
			t.Description,
			t.Qty.String(),
			formatMoney(t.Price, t.Currency),
			formatMoney(t.Commission, t.Currency),
			t.Currency,
			c.ExchangeRate.String(),
			formatMoney(c.Proceeds, "CAD"),
			formatMoney(t.Expenses(c.ExchangeRate), "CAD"),
			formatMoney(c.ACB, "CAD"),
			gain,
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if hasSuperficial(sells) {
		fmt.Fprintln(w, "(*) denied superficial loss, deferred into ACB")
	}
	return nil
}

func hasSuperficial(l *ledger.Ledger) bool {
	for _, t := range l.Transactions() {
		if t.IsSuperficialLoss() {
			return true
		}
	}
	return false
}

func calcTickerJSON(sells *ledger.Ledger, year int, totalGains decimal.Decimal) map[string]any {
	txs := make([]map[string]any, 0, sells.Len())
	for _, t := range sells.Transactions() {
		c := t.Computed
		entry := transactionJSON(t)
		entry["exchange_rate"] = c.ExchangeRate.InexactFloat64()
		entry["proceeds"] = c.Proceeds.InexactFloat64()
		entry["acb"] = c.ACB.InexactFloat64()
		entry["outlays"] = t.Expenses(c.ExchangeRate).InexactFloat64()
		entry["capital_gain"] = c.CapitalGain.InexactFloat64()
		entry["share_balance"] = c.ShareBalance.InexactFloat64()
		entry["cumulative_cost"] = c.CumulativeCost.InexactFloat64()
		entry["superficial_loss"] = c.SuperficialLoss
		txs = append(txs, entry)
	}
	return map[string]any{
		"year":         year,
		"total_gains":  totalGains.InexactFloat64(),
		"transactions": txs,
	}
}
