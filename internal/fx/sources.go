package fx

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/capgains-dev/capgains/internal/model"
)

// RateSource resolves a CAD exchange rate for a date.
type RateSource interface {
	Rate(date time.Time) (decimal.Decimal, error)
}

// Sources maps a transaction currency to its rate source.
type Sources map[string]RateSource

// Rate resolves the CAD rate for a currency on a date.
func (s Sources) Rate(currency string, date time.Time) (decimal.Decimal, error) {
	src, ok := s[currency]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("no rate source for currency %s", currency)
	}
	return src.Rate(date)
}

// cadIdentity is the rate source for CAD-denominated transactions: always 1,
// no provider round-trip.
type cadIdentity struct{}

func (cadIdentity) Rate(time.Time) (decimal.Decimal, error) {
	return decimal.NewFromInt(1), nil
}

// BuildSources creates one rate table per non-CAD currency appearing in the
// transactions, each spanning that currency's own date range.
func BuildSources(p Provider, txs []*model.Transaction) (Sources, error) {
	type span struct {
		min, max time.Time
	}
	spans := make(map[string]*span)
	for _, t := range txs {
		sp, ok := spans[t.Currency]
		if !ok {
			spans[t.Currency] = &span{min: t.Date, max: t.Date}
			continue
		}
		if t.Date.Before(sp.min) {
			sp.min = t.Date
		}
		if t.Date.After(sp.max) {
			sp.max = t.Date
		}
	}

	sources := make(Sources, len(spans))
	for currency, sp := range spans {
		if currency == currencyTo {
			sources[currency] = cadIdentity{}
			continue
		}
		table, err := NewTable(p, currency, sp.min, sp.max)
		if err != nil {
			return nil, err
		}
		sources[currency] = table
	}
	return sources, nil
}
