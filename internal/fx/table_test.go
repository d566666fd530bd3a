package fx

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

// fakeProvider records calls and serves canned observations.
type fakeProvider struct {
	obs    []Observation
	calls  int
	starts []time.Time
	ends   []time.Time
}

func (p *fakeProvider) Observations(currencyFrom string, start, end time.Time) ([]Observation, error) {
	p.calls++
	p.starts = append(p.starts, start)
	p.ends = append(p.ends, end)
	return p.obs, nil
}

func TestNewTableEndBeforeStart(t *testing.T) {
	p := &fakeProvider{}
	_, err := NewTable(p, "USD", date(2024, 2, 1), date(2024, 1, 1))
	require.ErrorIs(t, err, ErrConfiguration)
	assert.Equal(t, 0, p.calls, "configuration errors must precede any fetch")
}

func TestNewTableStartBeforeMinDate(t *testing.T) {
	p := &fakeProvider{}
	_, err := NewTable(p, "USD", date(2016, 12, 30), date(2024, 1, 1))
	require.ErrorIs(t, err, ErrConfiguration)
	assert.Equal(t, 0, p.calls)
}

func TestNewTableBackPadsSevenDays(t *testing.T) {
	p := &fakeProvider{obs: []Observation{{Date: date(2024, 1, 2), Rate: dec("1.35")}}}
	_, err := NewTable(p, "USD", date(2024, 1, 8), date(2024, 1, 31))
	require.NoError(t, err)
	require.Equal(t, 1, p.calls)
	assert.Equal(t, date(2024, 1, 1), p.starts[0])
	assert.Equal(t, date(2024, 1, 31), p.ends[0])
}

func TestRateExactDate(t *testing.T) {
	p := &fakeProvider{obs: []Observation{
		{Date: date(2024, 1, 2), Rate: dec("1.35")},
		{Date: date(2024, 1, 3), Rate: dec("1.36")},
	}}
	table, err := NewTable(p, "USD", date(2024, 1, 2), date(2024, 1, 31))
	require.NoError(t, err)

	rate, err := table.Rate(date(2024, 1, 3))
	require.NoError(t, err)
	assert.True(t, rate.Equal(dec("1.36")))
}

func TestRateClosestPreceding(t *testing.T) {
	// Observations at d1 < d2 < d3: any date strictly between di and
	// d(i+1) resolves to di, never forward.
	p := &fakeProvider{obs: []Observation{
		{Date: date(2024, 1, 2), Rate: dec("1.35")},
		{Date: date(2024, 1, 5), Rate: dec("1.36")},
		{Date: date(2024, 1, 10), Rate: dec("1.37")},
	}}
	table, err := NewTable(p, "USD", date(2024, 1, 2), date(2024, 1, 31))
	require.NoError(t, err)

	tests := []struct {
		day  int
		want string
	}{
		{3, "1.35"},
		{4, "1.35"},
		{6, "1.36"},
		{9, "1.36"},
		{11, "1.37"},
	}
	for _, tc := range tests {
		rate, err := table.Rate(date(2024, 1, tc.day))
		require.NoError(t, err)
		assert.True(t, rate.Equal(dec(tc.want)), "day %d: got %s want %s", tc.day, rate, tc.want)
	}
}

func TestRateBeforeAllObservations(t *testing.T) {
	p := &fakeProvider{obs: []Observation{{Date: date(2024, 1, 10), Rate: dec("1.37")}}}
	table, err := NewTable(p, "USD", date(2024, 1, 10), date(2024, 1, 31))
	require.NoError(t, err)

	_, err = table.Rate(date(2024, 1, 5))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRateNotFound)

	var notFound *RateNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "USD", notFound.Currency)
}

func TestRateAtOrBeforeMinDate(t *testing.T) {
	p := &fakeProvider{obs: []Observation{{Date: MinDate, Rate: dec("1.30")}}}
	table, err := NewTable(p, "USD", MinDate, date(2017, 12, 31))
	require.NoError(t, err)

	_, err = table.Rate(MinDate)
	assert.ErrorIs(t, err, ErrRateNotFound)
}

func TestTableAccessors(t *testing.T) {
	p := &fakeProvider{obs: []Observation{{Date: date(2024, 1, 2), Rate: dec("1.35")}}}
	table, err := NewTable(p, "USD", date(2024, 1, 2), date(2024, 1, 31))
	require.NoError(t, err)

	assert.Equal(t, "USD", table.CurrencyFrom())
	assert.Equal(t, date(2024, 1, 2), table.Start())
	assert.Equal(t, date(2024, 1, 31), table.End())
}
