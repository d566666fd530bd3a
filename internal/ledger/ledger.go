package ledger

import (
	"sort"

	"github.com/capgains-dev/capgains/internal/model"
)

// Ledger is an ordered collection of transactions. It owns its slice: the
// order is construction order, and journal reconciliation runs once at
// construction time.
type Ledger struct {
	txs     []*model.Transaction
	tickers map[string]int
	yearMin int
	yearMax int
}

// New builds a Ledger from transactions, tracking per-ticker counts and the
// year range in a single pass, then reconciles journal directions.
func New(txs []*model.Transaction) *Ledger {
	l := &Ledger{
		tickers: make(map[string]int),
		yearMin: 9999,
		yearMax: 0,
	}
	for _, t := range txs {
		l.add(t)
	}
	l.matchJournalTransactions()
	return l
}

func (l *Ledger) add(t *model.Transaction) {
	l.txs = append(l.txs, t)
	l.tickers[t.Ticker]++

	year := t.Year()
	if year < l.yearMin {
		l.yearMin = year
	}
	if year > l.yearMax {
		l.yearMax = year
	}
}

// Len returns the number of transactions held.
func (l *Ledger) Len() int { return len(l.txs) }

// Transactions returns the held transactions in ledger order.
func (l *Ledger) Transactions() []*model.Transaction { return l.txs }

// Tickers returns the unique tickers, sorted.
func (l *Ledger) Tickers() []string {
	out := make([]string, 0, len(l.tickers))
	for ticker := range l.tickers {
		out = append(out, ticker)
	}
	sort.Strings(out)
	return out
}

// TickerCount returns how many transactions reference ticker.
func (l *Ledger) TickerCount(ticker string) int { return l.tickers[ticker] }

// YearMin returns the earliest transaction year, or 9999 when empty.
func (l *Ledger) YearMin() int { return l.yearMin }

// YearMax returns the latest transaction year, or 0 when empty.
func (l *Ledger) YearMax() int { return l.yearMax }

// Filter selects transactions. An unset field matches everything; set
// fields combine with logical AND. SuperficialLoss is tri-state so callers
// can select explicitly non-superficial transactions.
type Filter struct {
	Tickers         []string
	Year            int          // 0 = any
	MaxYear         int          // 0 = any
	Action          model.Action // "" = any
	SuperficialLoss *bool        // nil = any
}

func (f Filter) matches(t *model.Transaction) bool {
	if len(f.Tickers) > 0 {
		found := false
		for _, ticker := range f.Tickers {
			if t.Ticker == ticker {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Year != 0 && t.Year() != f.Year {
		return false
	}
	if f.MaxYear != 0 && t.Year() > f.MaxYear {
		return false
	}
	if f.Action != "" && t.Action != f.Action {
		return false
	}
	if f.SuperficialLoss != nil && t.IsSuperficialLoss() != *f.SuperficialLoss {
		return false
	}
	return true
}

// FilterBy returns a new Ledger holding only matching transactions. The
// original ledger is never mutated; the new ledger re-runs journal
// reconciliation over the kept transactions.
func (l *Ledger) FilterBy(f Filter) *Ledger {
	var kept []*model.Transaction
	for _, t := range l.txs {
		if f.matches(t) {
			kept = append(kept, t)
		}
	}
	return New(kept)
}
