// Package gains implements adjusted-cost-base accounting for one ticker:
// average-cost tracking, capital gains in CAD, and the CRA superficial-loss
// rule.
package gains

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/capgains-dev/capgains/internal/fx"
	"github.com/capgains-dev/capgains/internal/model"
)

// NegativeBalanceError reports a transaction that would drive a ticker's
// share balance negative. It signals corrupt or misordered input and aborts
// the whole computation; partial results must not be trusted.
type NegativeBalanceError struct {
	Ticker string
	Date   time.Time
}

func (e *NegativeBalanceError) Error() string {
	return fmt.Sprintf("transaction on %s caused negative share balance for %s",
		e.Date.Format("2006-01-02"), e.Ticker)
}

// Engine accumulates the running share balance and total ACB for one
// ticker. It mutates the transactions it is given, stamping each one's
// computed fields, and keeps no state worth persisting of its own.
type Engine struct {
	ticker       string
	shareBalance decimal.Decimal
	totalACB     decimal.Decimal
}

// New returns an engine for one ticker with a zero position.
func New(ticker string) *Engine {
	return &Engine{ticker: ticker}
}

// ShareBalance returns the current position.
func (e *Engine) ShareBalance() decimal.Decimal { return e.shareBalance }

// TotalACB returns the current total adjusted cost base in CAD.
func (e *Engine) TotalACB() decimal.Decimal { return e.totalACB }

// AddTransactions processes transactions in the order given; callers sort
// by date first. Each transaction gets its exchange rate resolved and its
// computed fields stamped, then is tested for a superficial loss against
// the full slice. A denied loss is reversed into the cost base.
func (e *Engine) AddTransactions(txs []*model.Transaction, rates fx.Sources) error {
	for _, t := range txs {
		rate, err := rates.Rate(t.Currency, t.Date)
		if err != nil {
			return fmt.Errorf("resolving rate for %s on %s: %w",
				t.Ticker, t.Date.Format("2006-01-02"), err)
		}
		if err := e.apply(t, rate); err != nil {
			return err
		}
		if e.isSuperficialLoss(t, txs) {
			// The loss is denied and deferred into the cost base.
			e.totalACB = e.totalACB.Sub(t.Computed.CapitalGain)
			t.MarkSuperficialLoss()
		}
	}
	return nil
}

func (e *Engine) apply(t *model.Transaction, rate decimal.Decimal) error {
	if t.Action.IsJournal() {
		// Administrative transfer: the position moves, the cost base does
		// not. This is what lets a gambit security cross the currency
		// boundary without realizing a gain.
		switch t.Action {
		case model.ActionJournalIn:
			e.shareBalance = e.shareBalance.Add(t.Qty)
		case model.ActionJournalOut:
			e.shareBalance = e.shareBalance.Sub(t.Qty)
		}
		if e.shareBalance.IsNegative() {
			return &NegativeBalanceError{Ticker: e.ticker, Date: t.Date}
		}
		t.SetComputed(model.Computed{
			ExchangeRate:   rate,
			ShareBalance:   e.shareBalance,
			CumulativeCost: e.totalACB,
		})
		return nil
	}

	// Guard against a sell from a zero position; valid input never reaches
	// this state, but dividing would be worse than a zero cost base.
	var oldACBPerShare decimal.Decimal
	if !e.shareBalance.IsZero() {
		oldACBPerShare = e.totalACB.Div(e.shareBalance)
	}

	proceeds := t.Qty.Mul(t.Price).Mul(rate)

	var acb, capitalGain decimal.Decimal
	switch t.Action {
	case model.ActionSell:
		e.shareBalance = e.shareBalance.Sub(t.Qty)
		acb = oldACBPerShare.Mul(t.Qty)
		capitalGain = proceeds.Sub(t.Expenses(rate)).Sub(acb)
		e.totalACB = e.totalACB.Sub(acb)
	default: // BUY
		e.shareBalance = e.shareBalance.Add(t.Qty)
		acb = proceeds.Add(t.Expenses(rate))
		e.totalACB = e.totalACB.Add(acb)
	}

	if e.shareBalance.IsNegative() {
		return &NegativeBalanceError{Ticker: e.ticker, Date: t.Date}
	}

	t.SetComputed(model.Computed{
		ExchangeRate:   rate,
		Proceeds:       proceeds,
		ACB:            acb,
		CapitalGain:    capitalGain,
		ShareBalance:   e.shareBalance,
		CumulativeCost: e.totalACB,
	})
	return nil
}

// isSuperficialLoss applies the CRA superficial-loss test to a just-applied
// transaction: a capital loss with a same-ticker BUY inside the 61-day
// window around it, and a strictly positive balance once the rest of the
// window has played out.
func (e *Engine) isSuperficialLoss(t *model.Transaction, txs []*model.Transaction) bool {
	if t.Action.IsJournal() {
		return false
	}
	if t.Computed == nil || !t.Computed.CapitalGain.IsNegative() {
		return false
	}

	windowStart := t.Date.AddDate(0, 0, -30)
	windowEnd := t.Date.AddDate(0, 0, 30)

	var window []*model.Transaction
	for _, w := range txs {
		if w.Ticker == e.ticker && !w.Date.Before(windowStart) && !w.Date.After(windowEnd) {
			window = append(window, w)
		}
	}

	hasBuy := false
	for _, w := range window {
		if w.Action == model.ActionBuy {
			hasBuy = true
			break
		}
	}
	if !hasBuy {
		return false
	}

	idx := -1
	for i, w := range window {
		if w == t {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}

	// Walk the remainder of the window forward from the candidate's
	// stamped balance; still holding shares at the end makes the loss
	// superficial.
	balance := t.Computed.ShareBalance
	for _, w := range window[idx+1:] {
		switch w.Action {
		case model.ActionBuy, model.ActionJournalIn:
			balance = balance.Add(w.Qty)
		case model.ActionSell, model.ActionJournalOut:
			balance = balance.Sub(w.Qty)
		}
	}
	return balance.IsPositive()
}
