package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/capgains-dev/capgains/internal/model"
)

// Transaction files are headerless CSV with 8 positional columns:
// date,description,ticker,action,qty,price,commission,currency
const (
	numFields  = 8
	dateFormat = "2006-01-02"

	colDate       = 0
	colDesc       = 1
	colTicker     = 2
	colAction     = 3
	colQty        = 4
	colPrice      = 5
	colCommission = 6
	colCurrency   = 7
)

// ReadCSV reads a transaction CSV and builds a Ledger. Rows must be in
// chronological order.
func ReadCSV(r io.Reader) (*Ledger, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading transactions CSV: %w", err)
	}

	var txs []*model.Transaction
	var lastDate time.Time
	for i, rec := range records {
		t, err := unmarshalRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		if !lastDate.IsZero() && t.Date.Before(lastDate) {
			return nil, fmt.Errorf("row %d: transactions are not in chronological order", i+1)
		}
		lastDate = t.Date
		txs = append(txs, t)
	}
	return New(txs), nil
}

// WriteCSV writes transactions in the positional CSV format.
func WriteCSV(w io.Writer, txs []*model.Transaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	for i, t := range txs {
		if err := cw.Write(marshalRow(t)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}
	return cw.Error()
}

func marshalRow(t *model.Transaction) []string {
	row := make([]string, numFields)
	row[colDate] = t.Date.Format(dateFormat)
	row[colDesc] = t.Description
	row[colTicker] = t.Ticker
	row[colAction] = string(t.Action)
	row[colQty] = t.Qty.String()
	row[colPrice] = t.Price.String()
	row[colCommission] = t.Commission.String()
	row[colCurrency] = t.Currency
	return row
}

func unmarshalRow(record []string) (*model.Transaction, error) {
	if len(record) != numFields {
		return nil, fmt.Errorf("expected %d columns, entry has %d", numFields, len(record))
	}

	// Some exports pad fields or append a time-of-day to the date.
	for i := range record {
		record[i] = strings.TrimSpace(record[i])
	}

	date, err := parseDate(record[colDate])
	if err != nil {
		return nil, err
	}

	action := model.Action(record[colAction])
	if !action.Valid() {
		return nil, fmt.Errorf("unknown action %q", record[colAction])
	}

	qty, err := decimal.NewFromString(record[colQty])
	if err != nil {
		return nil, fmt.Errorf("the quantity %q is not a valid number", record[colQty])
	}
	price, err := decimal.NewFromString(record[colPrice])
	if err != nil {
		return nil, fmt.Errorf("the price %q is not a valid number", record[colPrice])
	}
	commission, err := decimal.NewFromString(record[colCommission])
	if err != nil {
		return nil, fmt.Errorf("the commission %q is not a valid number", record[colCommission])
	}

	return &model.Transaction{
		Date:        date,
		Description: record[colDesc],
		Ticker:      record[colTicker],
		Action:      action,
		Qty:         qty,
		Price:       price,
		Commission:  commission,
		Currency:    record[colCurrency],
	}, nil
}

func parseDate(s string) (time.Time, error) {
	day, _, _ := strings.Cut(s, " ")
	date, err := time.Parse(dateFormat, day)
	if err != nil {
		return time.Time{}, fmt.Errorf("the date %q is not in YYYY-MM-DD format", s)
	}
	return date, nil
}
