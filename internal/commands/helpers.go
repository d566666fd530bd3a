package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/capgains-dev/capgains/internal/config"
	"github.com/capgains-dev/capgains/internal/fx"
	"github.com/capgains-dev/capgains/internal/model"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

// loadConfig loads capgains.yaml, or the defaults when no path is given.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// newProvider builds the exchange-rate provider from config.
func newProvider(cfg *config.Config) fx.Provider {
	client := http.DefaultClient
	if cfg.RateProvider.Cache {
		client = fx.CachedClient()
	}
	return &fx.ValetProvider{BaseURL: cfg.RateProvider.BaseURL, Client: client}
}

// sortedByDate returns a date-ordered copy of the slice. The engine
// processes in the order given, so callers sort before feeding it.
func sortedByDate(txs []*model.Transaction) []*model.Transaction {
	out := make([]*model.Transaction, len(txs))
	copy(out, txs)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// formatMoney renders an amount with its currency symbol and separators.
func formatMoney(d decimal.Decimal, currency string) string {
	cents := d.Round(2).Mul(decimal.NewFromInt(100)).IntPart()
	return money.New(cents, currency).Display()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("writing JSON output: %w", err)
	}
	return nil
}

// noResults reports an empty result set in the requested format.
func noResults(w io.Writer, format, message string) error {
	if format == formatJSON {
		return writeJSON(w, map[string]string{"error": message})
	}
	fmt.Fprintln(w, message)
	return nil
}
