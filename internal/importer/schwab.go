package importer

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/capgains-dev/capgains/internal/model"
)

// SchwabEAC converts Schwab Equity Awards Center transaction history JSON.
// Deposits (ESPP purchases, RSU vests) become BUYs at fair market value,
// sales become SELLs at the sale price; withholding, dividends, and
// transfers do not affect capital gains and are skipped.
type SchwabEAC struct{}

const schwabDateFormat = "01/02/2006"

// Format returns the converter name.
func (c *SchwabEAC) Format() string { return "schwab-eac" }

type schwabExport struct {
	Transactions []schwabTransaction `json:"Transactions"`
}

type schwabTransaction struct {
	Date               string         `json:"Date"`
	Action             string         `json:"Action"`
	Symbol             string         `json:"Symbol"`
	Description        string         `json:"Description"`
	Quantity           string         `json:"Quantity"`
	TransactionDetails []schwabDetail `json:"TransactionDetails"`
}

type schwabDetail struct {
	Details map[string]string `json:"Details"`
}

// Convert reads a Schwab EAC JSON export and returns ledger transactions,
// date-grouped and stably ordered (ESPP, RS, Share Sale; buys before sells).
func (c *SchwabEAC) Convert(r io.Reader) ([]*model.Transaction, error) {
	var export schwabExport
	if err := json.NewDecoder(r).Decode(&export); err != nil {
		return nil, fmt.Errorf("parsing Schwab EAC JSON: %w", err)
	}

	var txs []*model.Transaction
	for i, st := range export.Transactions {
		t, err := c.convertOne(st)
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}
		if t != nil {
			txs = append(txs, t)
		}
	}

	sort.SliceStable(txs, func(i, j int) bool {
		if !txs[i].Date.Equal(txs[j].Date) {
			return txs[i].Date.Before(txs[j].Date)
		}
		if descRank(txs[i].Description) != descRank(txs[j].Description) {
			return descRank(txs[i].Description) < descRank(txs[j].Description)
		}
		return actionRank(txs[i].Action) < actionRank(txs[j].Action)
	})
	return txs, nil
}

func (c *SchwabEAC) convertOne(st schwabTransaction) (*model.Transaction, error) {
	switch st.Action {
	case "Tax Withholding", "Dividend", "Transfer":
		return nil, nil
	}

	var action model.Action
	switch st.Action {
	case "Deposit":
		action = model.ActionBuy
	case "Sale":
		action = model.ActionSell
	default:
		return nil, nil
	}

	date, err := time.Parse(schwabDateFormat, st.Date)
	if err != nil {
		return nil, fmt.Errorf("parsing date %q: %w", st.Date, err)
	}

	qty := decimal.Zero
	if st.Quantity != "" {
		qty, err = decimal.NewFromString(st.Quantity)
		if err != nil {
			return nil, fmt.Errorf("parsing quantity %q: %w", st.Quantity, err)
		}
	}

	price, err := detailPrice(st)
	if err != nil {
		return nil, err
	}

	return &model.Transaction{
		Date:        date,
		Description: st.Description,
		Ticker:      st.Symbol,
		Action:      action,
		Qty:         qty,
		Price:       price,
		Commission:  decimal.Zero, // EAC exports carry no commission
		Currency:    "USD",
	}, nil
}

// detailPrice finds the per-share price inside TransactionDetails: the sale
// price for sales, the purchase FMV for ESPP deposits, the vest FMV for RSU
// deposits.
func detailPrice(st schwabTransaction) (decimal.Decimal, error) {
	for _, detail := range st.TransactionDetails {
		if detail.Details == nil {
			continue
		}
		var raw string
		switch {
		case st.Action == "Sale":
			raw = detail.Details["SalePrice"]
		case st.Description == "ESPP":
			raw = detail.Details["PurchaseFairMarketValue"]
		default:
			raw = detail.Details["VestFairMarketValue"]
		}
		if raw == "" {
			continue
		}
		return parseDollars(raw)
	}
	return decimal.Zero, nil
}

// parseDollars converts amounts like "$1,234.56" or "-$12.34".
func parseDollars(s string) (decimal.Decimal, error) {
	cleaned := strings.NewReplacer("$", "", ",", "").Replace(s)
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	return d, nil
}

func descRank(desc string) int {
	switch desc {
	case "ESPP":
		return 0
	case "RS":
		return 1
	case "Share Sale":
		return 2
	}
	return 3
}

func actionRank(a model.Action) int {
	if a == model.ActionBuy {
		return 0
	}
	return 1
}
