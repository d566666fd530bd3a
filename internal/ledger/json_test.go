package ledger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/capgains-dev/capgains/internal/model"
)

const sampleJSON = `[
  {
    "date": "2024-01-15",
    "description": "Buy DLR.U",
    "ticker": "DLR",
    "action": "BUY",
    "qty": 100,
    "price": 10.15,
    "commission": 9.99,
    "currency": "USD"
  },
  {
    "date": "2024-01-16",
    "description": "Sell DLR",
    "ticker": "DLR",
    "action": "SELL",
    "qty": "100",
    "price": "13.71",
    "commission": "9.99",
    "currency": "CAD"
  }
]`

func TestReadJSON(t *testing.T) {
	l, err := ReadJSON(strings.NewReader(sampleJSON))
	require.NoError(t, err)
	require.Equal(t, 2, l.Len())

	buy := l.Transactions()[0]
	assert.Equal(t, date(2024, 1, 15), buy.Date)
	assert.Equal(t, model.ActionBuy, buy.Action)
	assert.True(t, buy.Price.Equal(dec("10.15")))

	// Numbers may arrive as JSON numbers or strings.
	sell := l.Transactions()[1]
	assert.True(t, sell.Qty.Equal(dec("100")))
	assert.True(t, sell.Price.Equal(dec("13.71")))
}

func TestReadJSONMissingField(t *testing.T) {
	_, err := ReadJSON(strings.NewReader(`[{"date": "2024-01-15", "ticker": "DLR"}]`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required fields")
}

func TestReadJSONUnexpectedField(t *testing.T) {
	entry := `[{"date": "2024-01-15", "description": "Buy", "ticker": "DLR",
		"action": "BUY", "qty": 1, "price": 1, "commission": 0,
		"currency": "USD", "broker": "TD"}]`
	_, err := ReadJSON(strings.NewReader(entry))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unexpected field "broker"`)
}

func TestReadJSONInvalid(t *testing.T) {
	_, err := ReadJSON(strings.NewReader(`{"not": "a list"}`))
	require.Error(t, err)
}

func TestReadJSONChronologicalOrder(t *testing.T) {
	out := `[
	  {"date": "2024-02-15", "description": "Sell", "ticker": "AAPL", "action": "SELL",
	   "qty": 50, "price": 180, "commission": 9.99, "currency": "USD"},
	  {"date": "2024-01-15", "description": "Buy", "ticker": "AAPL", "action": "BUY",
	   "qty": 100, "price": 150, "commission": 9.99, "currency": "USD"}
	]`
	_, err := ReadJSON(strings.NewReader(out))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chronological order")
}

func TestJSONRoundTrip(t *testing.T) {
	l, err := ReadJSON(strings.NewReader(sampleJSON))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, l.Transactions()))

	got, err := ReadJSON(&buf)
	require.NoError(t, err)
	require.Equal(t, l.Len(), got.Len())
	for i, want := range l.Transactions() {
		have := got.Transactions()[i]
		assert.True(t, want.Date.Equal(have.Date))
		assert.Equal(t, want.Action, have.Action)
		assert.True(t, want.Qty.Equal(have.Qty), "qty mismatch entry %d", i)
		assert.True(t, want.Price.Equal(have.Price), "price mismatch entry %d", i)
	}
}

func TestParseJSONNoChronologyCheck(t *testing.T) {
	out := `[
	  {"date": "2024-02-15", "description": "Sell", "ticker": "AAPL", "action": "SELL",
	   "qty": 50, "price": 180, "commission": 9.99, "currency": "USD"},
	  {"date": "2024-01-15", "description": "Buy", "ticker": "AAPL", "action": "BUY",
	   "qty": 100, "price": 150, "commission": 9.99, "currency": "USD"}
	]`
	txs, err := ParseJSON(strings.NewReader(out))
	require.NoError(t, err)
	assert.Len(t, txs, 2)
}
