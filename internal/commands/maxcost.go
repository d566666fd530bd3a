package commands

import (
	"fmt"
	"io"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/capgains-dev/capgains/internal/ledger"
)

func newMaxcostCommand() *cobra.Command {
	var tickers []string
	var format string
	var configPath string

	cmd := &cobra.Command{
		Use:   "maxcost <transactions-file> <year>",
		Short: "Calculate maximum costs from the transactions file",
		Long: "Calculates the maximum and year-end cost base per ticker for a year, " +
			"as needed for foreign property reporting. " +
			"Supports both CSV and JSON input files.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid year %q", args[1])
			}
			return runMaxcost(cmd.OutOrStdout(), args[0], year, tickers, format, configPath)
		},
	}

	cmd.Flags().StringArrayVarP(&tickers, "tickers", "t", nil, "stock tickers to filter for")
	cmd.Flags().StringVar(&format, "format", formatTable, "output format (table or json)")
	cmd.Flags().StringVar(&configPath, "config", "", "path to capgains.yaml")

	return cmd
}

func runMaxcost(w io.Writer, file string, year int, tickers []string, format, configPath string) error {
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
		return noResults(w, format, "No transactions available")
	}

	provider := newProvider(cfg)
	jsonOut := make(map[string]any)

	for _, ticker := range filtered.Tickers() {
		tickerLedger, err := calculate(filtered, provider, ticker, year)
		if err != nil {
			return err
		}

		if format != formatJSON {
			fmt.Fprintf(w, "%s-%d\n", ticker, year)
		}
		if tickerLedger.Len() == 0 {
			if format != formatJSON {
				fmt.Fprintln(w, "Nothing to report")
				fmt.Fprintln(w)
			}
			continue
		}

		maxCost := maxCostInYear(tickerLedger, year)
		yearEnd := yearEndCost(tickerLedger, year, tickerLedger.YearMin())

		if format == formatJSON {
			jsonOut[ticker] = map[string]any{
				"year":          year,
				"max_cost":      maxCost.InexactFloat64(),
				"year_end_cost": yearEnd.InexactFloat64(),
			}
			continue
		}
		fmt.Fprintf(w, "[Max cost = %s]\n", formatMoney(maxCost, "CAD"))
		fmt.Fprintf(w, "[Year end = %s]\n\n", formatMoney(yearEnd, "CAD"))
	}

	if format == formatJSON {
		if len(jsonOut) == 0 {
			return noResults(w, format, "No transactions available")
		}
		return writeJSON(w, jsonOut)
	}
	return nil
}

// maxCostInYear returns the highest running cost base seen during the year,
// checked against the carried-in cost from the end of the prior year.
func maxCostInYear(l *ledger.Ledger, year int) decimal.Decimal {
	maxCost := decimal.Zero
	for _, t := range l.FilterBy(ledger.Filter{Year: year}).Transactions() {
		if t.Computed != nil && t.Computed.CumulativeCost.GreaterThan(maxCost) {
			maxCost = t.Computed.CumulativeCost
		}
	}
	if carried := yearEndCost(l, year-1, l.YearMin()); carried.GreaterThan(maxCost) {
		maxCost = carried
	}
	return maxCost
}

// yearEndCost returns the running cost base after the year's last
// transaction, walking back year by year when a year has none.
func yearEndCost(l *ledger.Ledger, year, yearMin int) decimal.Decimal {
	yearLedger := l.FilterBy(ledger.Filter{Year: year})
	if yearLedger.Len() == 0 {
		if year <= yearMin {
			return decimal.Zero
		}
		return yearEndCost(l, year-1, yearMin)
	}
	last := yearLedger.Transactions()[yearLedger.Len()-1]
	if last.Computed == nil {
		return decimal.Zero
	}
	return last.Computed.CumulativeCost
}
