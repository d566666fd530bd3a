package fx

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// MinDate is the earliest supported observation date. The Bank of Canada
// Valet FX series start here; requests before it are a configuration error.
var MinDate = time.Date(2017, time.January, 3, 0, 0, 0, 0, time.UTC)

var (
	// ErrConfiguration marks an invalid date range request. Fatal, raised
	// before any network interaction.
	ErrConfiguration = errors.New("invalid rate table configuration")
	// ErrProvider marks a transport or availability failure reaching the
	// rate source.
	ErrProvider = errors.New("rate provider unavailable")
	// ErrData marks a provider response without usable observations.
	ErrData = errors.New("no usable rate observations")
	// ErrRateNotFound marks a date with no preceding observation.
	ErrRateNotFound = errors.New("exchange rate not found")
)

// RateNotFoundError reports a lookup with no observation on or before the
// requested date.
type RateNotFoundError struct {
	Currency string
	Date     time.Time
}

func (e *RateNotFoundError) Error() string {
	return fmt.Sprintf("unable to find %s/CAD exchange rate on %s", e.Currency, e.Date.Format("2006-01-02"))
}

func (e *RateNotFoundError) Unwrap() error { return ErrRateNotFound }

// Observation is one daily exchange rate.
type Observation struct {
	Date time.Time
	Rate decimal.Decimal
}

// Provider fetches daily observations for one currency against CAD over a
// date range.
type Provider interface {
	Observations(currencyFrom string, start, end time.Time) ([]Observation, error)
}

// Table holds daily exchange rates for one source currency against CAD over
// a closed date range. Read-only after construction, so it may be shared
// across concurrently running engines.
type Table struct {
	currencyFrom string
	start, end   time.Time
	rates        map[time.Time]decimal.Decimal
}

// NewTable fetches daily rates for [start-7d, end] from the provider and
// builds a lookup table. The 7-day back-pad absorbs a start date falling on
// a run of non-trading days. The range is validated before any fetch.
func NewTable(p Provider, currencyFrom string, start, end time.Time) (*Table, error) {
	start = midnight(start)
	end = midnight(end)

	if end.Before(start) {
		return nil, fmt.Errorf("%w: end date %s is before start date %s",
			ErrConfiguration, end.Format("2006-01-02"), start.Format("2006-01-02"))
	}
	if start.Before(MinDate) {
		return nil, fmt.Errorf("%w: start date %s is before minimum date %s",
			ErrConfiguration, start.Format("2006-01-02"), MinDate.Format("2006-01-02"))
	}

	obs, err := p.Observations(currencyFrom, start.AddDate(0, 0, -7), end)
	if err != nil {
		return nil, err
	}

	rates := make(map[time.Time]decimal.Decimal, len(obs))
	for _, o := range obs {
		rates[midnight(o.Date)] = o.Rate
	}

	return &Table{
		currencyFrom: currencyFrom,
		start:        start,
		end:          end,
		rates:        rates,
	}, nil
}

// CurrencyFrom returns the source currency of the table.
func (t *Table) CurrencyFrom() string { return t.currencyFrom }

// Start returns the requested range start.
func (t *Table) Start() time.Time { return t.start }

// End returns the requested range end.
func (t *Table) End() time.Time { return t.end }

// Rate returns the exchange rate for the date: the exact observation when
// one exists, otherwise the closest strictly-preceding observation. Forward
// (future) rates are never used.
func (t *Table) Rate(date time.Time) (decimal.Decimal, error) {
	date = midnight(date)
	if !date.After(MinDate) {
		return decimal.Decimal{}, &RateNotFoundError{Currency: t.currencyFrom, Date: date}
	}
	if rate, ok := t.rates[date]; ok {
		return rate, nil
	}

	var closest time.Time
	found := false
	for known := range t.rates {
		if known.Before(date) && (!found || known.After(closest)) {
			closest = known
			found = true
		}
	}
	if !found {
		return decimal.Decimal{}, &RateNotFoundError{Currency: t.currencyFrom, Date: date}
	}
	return t.rates[closest], nil
}

func midnight(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}
