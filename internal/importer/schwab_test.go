package importer

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/capgains-dev/capgains/internal/model"
)

const schwabSample = `{
  "Transactions": [
    {
      "Date": "03/15/2022",
      "Action": "Sale",
      "Symbol": "ACME",
      "Description": "Share Sale",
      "Quantity": "50",
      "TransactionDetails": [
        {"Details": {"SalePrice": "$123.45"}}
      ]
    },
    {
      "Date": "03/15/2022",
      "Action": "Deposit",
      "Symbol": "ACME",
      "Description": "RS",
      "Quantity": "50",
      "TransactionDetails": [
        {"Details": {"VestFairMarketValue": "$120.00"}}
      ]
    },
    {
      "Date": "01/31/2022",
      "Action": "Deposit",
      "Symbol": "ACME",
      "Description": "ESPP",
      "Quantity": "10.5",
      "TransactionDetails": [
        {"Details": {"PurchaseFairMarketValue": "$1,100.10"}}
      ]
    },
    {
      "Date": "02/15/2022",
      "Action": "Tax Withholding",
      "Symbol": "ACME",
      "Description": "RS",
      "Quantity": "18",
      "TransactionDetails": []
    },
    {
      "Date": "02/20/2022",
      "Action": "Dividend",
      "Symbol": "ACME",
      "Description": "",
      "Quantity": "",
      "TransactionDetails": []
    },
    {
      "Date": "04/01/2022",
      "Action": "Deposit",
      "Symbol": "OTHER",
      "Description": "RS",
      "Quantity": "5",
      "TransactionDetails": [
        {"Details": {"VestFairMarketValue": "$10.00"}}
      ]
    }
  ]
}`

func TestSchwabEACConvert(t *testing.T) {
	conv := &SchwabEAC{}
	txs, err := conv.Convert(strings.NewReader(schwabSample))
	require.NoError(t, err)
	require.Len(t, txs, 4, "withholding and dividends are dropped")

	// Sorted by date; on the shared date the RS vest sorts before the sale.
	espp := txs[0]
	assert.Equal(t, time.Date(2022, 1, 31, 0, 0, 0, 0, time.UTC), espp.Date)
	assert.Equal(t, model.ActionBuy, espp.Action)
	assert.True(t, espp.Qty.Equal(decimal.RequireFromString("10.5")))
	assert.True(t, espp.Price.Equal(decimal.RequireFromString("1100.10")))
	assert.Equal(t, "USD", espp.Currency)
	assert.True(t, espp.Commission.IsZero())

	vest := txs[1]
	assert.Equal(t, model.ActionBuy, vest.Action)
	assert.True(t, vest.Price.Equal(decimal.RequireFromString("120")))

	sale := txs[2]
	assert.Equal(t, model.ActionSell, sale.Action)
	assert.Equal(t, vest.Date, sale.Date)
	assert.True(t, sale.Price.Equal(decimal.RequireFromString("123.45")))

	assert.Equal(t, "OTHER", txs[3].Ticker)
}

func TestSchwabEACTickerFilter(t *testing.T) {
	// The convert command resolves the converter through the registry and
	// narrows the output afterwards.
	conv := DefaultRegistry().Get("schwab-eac")
	require.NotNil(t, conv)

	txs, err := conv.Convert(strings.NewReader(schwabSample))
	require.NoError(t, err)

	txs = FilterTickers(txs, []string{"ACME"})
	require.Len(t, txs, 3)
	for _, tx := range txs {
		assert.Equal(t, "ACME", tx.Ticker)
	}
}

func TestSchwabEACBadDate(t *testing.T) {
	in := `{"Transactions": [{"Date": "2022-01-31", "Action": "Sale", "Symbol": "ACME",
		"Description": "Share Sale", "Quantity": "1",
		"TransactionDetails": [{"Details": {"SalePrice": "$1.00"}}]}]}`
	_, err := (&SchwabEAC{}).Convert(strings.NewReader(in))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing date")
}

func TestSchwabEACBadJSON(t *testing.T) {
	_, err := (&SchwabEAC{}).Convert(strings.NewReader("not json"))
	require.Error(t, err)
}

func TestParseDollars(t *testing.T) {
	d, err := parseDollars("$1,234.56")
	require.NoError(t, err)
	assert.True(t, d.Equal(decimal.RequireFromString("1234.56")))

	d, err = parseDollars("-$12.34")
	require.NoError(t, err)
	assert.True(t, d.Equal(decimal.RequireFromString("-12.34")))

	_, err = parseDollars("$abc")
	require.Error(t, err)
}
