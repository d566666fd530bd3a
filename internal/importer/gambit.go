package importer

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/capgains-dev/capgains/internal/model"
)

// Gambit merges the two legs of a Norbert's Gambit into a single ledger:
// buys of the USD-listed side and sells of the CAD-listed side, folded onto
// the CAD ticker so the cost base flows through one position.
type Gambit struct {
	USDTicker string // e.g. DLR.U
	CADTicker string // e.g. DLR
}

// Combine merges USD buys and CAD sells into one date-sorted transaction
// list. Fills of the same trade (same date) are combined, keeping the
// commission of the largest fill.
func (g Gambit) Combine(usdBuys, cadSells []*model.Transaction) []*model.Transaction {
	var out []*model.Transaction

	for _, buy := range combineFills(FilterTickers(usdBuys, []string{g.CADTicker, g.USDTicker})) {
		out = append(out, &model.Transaction{
			Date:        buy.Date,
			Description: g.USDTicker + " Buy - Norbert's Gambit",
			Ticker:      g.CADTicker,
			Action:      model.ActionBuy,
			Qty:         buy.Qty,
			Price:       buy.Price,
			Commission:  buy.Commission,
			Currency:    "USD",
		})
	}

	for _, sell := range combineFills(FilterTickers(cadSells, []string{g.CADTicker})) {
		out = append(out, &model.Transaction{
			Date:        sell.Date,
			Description: g.CADTicker + " Sell - Norbert's Gambit",
			Ticker:      g.CADTicker,
			Action:      model.ActionSell,
			Qty:         sell.Qty,
			Price:       sell.Price,
			Commission:  sell.Commission,
			Currency:    "CAD",
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// combineFills folds fills sharing a date into one transaction: quantities
// sum, price and commission come from the largest fill.
func combineFills(txs []*model.Transaction) []*model.Transaction {
	byDate := make(map[time.Time][]*model.Transaction)
	var dates []time.Time
	for _, t := range txs {
		if _, seen := byDate[t.Date]; !seen {
			dates = append(dates, t.Date)
		}
		byDate[t.Date] = append(byDate[t.Date], t)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	var out []*model.Transaction
	for _, date := range dates {
		fills := byDate[date]
		total := decimal.Zero
		largest := fills[0]
		for _, f := range fills {
			total = total.Add(f.Qty)
			if f.Qty.GreaterThan(largest.Qty) {
				largest = f
			}
		}
		combined := *largest
		combined.Qty = total
		out = append(out, &combined)
	}
	return out
}
