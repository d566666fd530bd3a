package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Action classifies a transaction in the ledger.
type Action string

const (
	ActionBuy        Action = "BUY"
	ActionSell       Action = "SELL"
	ActionJournalIn  Action = "JOURNAL_IN"
	ActionJournalOut Action = "JOURNAL_OUT"

	// ActionJournal is a direction-ambiguous transfer as recorded by some
	// upstream converters. Ledger reconciliation resolves it to IN or OUT.
	ActionJournal Action = "JOURNAL"
)

// IsJournal reports whether the action is any flavor of journal transfer.
func (a Action) IsJournal() bool {
	return a == ActionJournal || a == ActionJournalIn || a == ActionJournalOut
}

// Valid reports whether the action is a known value.
func (a Action) Valid() bool {
	switch a {
	case ActionBuy, ActionSell, ActionJournalIn, ActionJournalOut, ActionJournal:
		return true
	}
	return false
}

// Transaction is one row of the transaction ledger. The input fields are set
// at construction and never change. Computed is stamped exactly once by the
// gains engine as it advances past the transaction.
type Transaction struct {
	Date        time.Time // trade date, midnight UTC
	Description string
	Ticker      string
	Action      Action
	Qty         decimal.Decimal // > 0
	Price       decimal.Decimal // per share, in Currency
	Commission  decimal.Decimal // in Currency
	Currency    string          // e.g. "USD", "CAD"

	Computed *Computed
}

// Computed holds the engine-stamped results for a transaction. Values
// describe the state after the transaction is applied.
type Computed struct {
	ExchangeRate    decimal.Decimal
	Proceeds        decimal.Decimal // CAD cash flow of the trade
	ACB             decimal.Decimal // CAD cost-basis delta of this transaction
	CapitalGain     decimal.Decimal // CAD
	ShareBalance    decimal.Decimal // position after this transaction
	CumulativeCost  decimal.Decimal // total ACB after this transaction
	SuperficialLoss bool
}

// SetComputed stamps the computed results. A second stamp is a programming
// error: once the engine has advanced past a transaction its results are
// final.
func (t *Transaction) SetComputed(c Computed) {
	if t.Computed != nil {
		panic("model: computed results already set for " + t.Ticker + " " + t.Date.Format("2006-01-02"))
	}
	t.Computed = &c
}

// MarkSuperficialLoss flags a processed transaction as a denied loss.
func (t *Transaction) MarkSuperficialLoss() {
	if t.Computed == nil {
		panic("model: superficial loss on unprocessed transaction")
	}
	t.Computed.SuperficialLoss = true
}

// IsSuperficialLoss reports the superficial-loss flag, false when the
// transaction has not been processed yet.
func (t *Transaction) IsSuperficialLoss() bool {
	return t.Computed != nil && t.Computed.SuperficialLoss
}

// Expenses returns the commission converted to CAD at the given rate.
func (t *Transaction) Expenses(rate decimal.Decimal) decimal.Decimal {
	return t.Commission.Mul(rate)
}

// Year returns the calendar year of the trade date.
func (t *Transaction) Year() int { return t.Date.Year() }
