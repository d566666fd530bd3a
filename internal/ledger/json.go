package ledger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/capgains-dev/capgains/internal/model"
)

// jsonColumns is the interchange schema shared with the converters: one
// object per transaction, no extras, nothing missing.
var jsonColumns = []string{
	"date", "description", "ticker", "action",
	"qty", "price", "commission", "currency",
}

// ParseJSON decodes a JSON transaction array without building a Ledger.
// Converters use it for raw inputs that are not a ledger yet.
func ParseJSON(r io.Reader) ([]*model.Transaction, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var entries []map[string]any
	if err := dec.Decode(&entries); err != nil {
		return nil, fmt.Errorf("parsing transactions JSON: %w", err)
	}

	var txs []*model.Transaction
	for i, entry := range entries {
		t, err := transactionFromEntry(entry)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		txs = append(txs, t)
	}
	return txs, nil
}

// ReadJSON reads a JSON transaction file and builds a Ledger. Entries must
// be in chronological order.
func ReadJSON(r io.Reader) (*Ledger, error) {
	txs, err := ParseJSON(r)
	if err != nil {
		return nil, err
	}
	var lastDate time.Time
	for i, t := range txs {
		if !lastDate.IsZero() && t.Date.Before(lastDate) {
			return nil, fmt.Errorf("entry %d: transactions are not in chronological order", i)
		}
		lastDate = t.Date
	}
	return New(txs), nil
}

// WriteJSON writes transactions in the interchange JSON format.
func WriteJSON(w io.Writer, txs []*model.Transaction) error {
	out := make([]map[string]any, 0, len(txs))
	for _, t := range txs {
		out = append(out, map[string]any{
			"date":        t.Date.Format(dateFormat),
			"description": t.Description,
			"ticker":      t.Ticker,
			"action":      string(t.Action),
			"qty":         json.RawMessage(t.Qty.String()),
			"price":       json.RawMessage(t.Price.String()),
			"commission":  json.RawMessage(t.Commission.String()),
			"currency":    t.Currency,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("writing transactions JSON: %w", err)
	}
	return nil
}

// ReadFile reads a transaction file, dispatching on extension: .json files
// use the JSON codec, anything else is treated as CSV.
func ReadFile(path string) (*Ledger, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening transactions file: %w", err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ReadJSON(f)
	}
	return ReadCSV(f)
}

func transactionFromEntry(entry map[string]any) (*model.Transaction, error) {
	for field := range entry {
		if !knownColumn(field) {
			return nil, fmt.Errorf("unexpected field %q", field)
		}
	}
	var missing []string
	for _, field := range jsonColumns {
		if _, ok := entry[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}

	date, err := parseDate(stringField(entry, "date"))
	if err != nil {
		return nil, err
	}

	action := model.Action(stringField(entry, "action"))
	if !action.Valid() {
		return nil, fmt.Errorf("unknown action %q", stringField(entry, "action"))
	}

	qty, err := decimalField(entry, "qty")
	if err != nil {
		return nil, err
	}
	price, err := decimalField(entry, "price")
	if err != nil {
		return nil, err
	}
	commission, err := decimalField(entry, "commission")
	if err != nil {
		return nil, err
	}

	return &model.Transaction{
		Date:        date,
		Description: stringField(entry, "description"),
		Ticker:      stringField(entry, "ticker"),
		Action:      action,
		Qty:         qty,
		Price:       price,
		Commission:  commission,
		Currency:    stringField(entry, "currency"),
	}, nil
}

func knownColumn(field string) bool {
	for _, c := range jsonColumns {
		if c == field {
			return true
		}
	}
	return false
}

func stringField(entry map[string]any, key string) string {
	s, _ := entry[key].(string)
	return s
}

func decimalField(entry map[string]any, key string) (decimal.Decimal, error) {
	switch v := entry[key].(type) {
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("the %s %q is not a valid number", key, v.String())
		}
		return d, nil
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("the %s %q is not a valid number", key, v)
		}
		return d, nil
	default:
		return decimal.Decimal{}, fmt.Errorf("the %s is not a valid number", key)
	}
}
