package fx

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultBaseURL is the Bank of Canada Valet observations endpoint.
const DefaultBaseURL = "https://www.bankofcanada.ca/valet/observations"

// currencyTo is the fixed target currency of every series we query.
const currencyTo = "CAD"

// ValetProvider fetches daily FX observations from the Bank of Canada Valet
// API. Series are named FX{FROM}CAD, e.g. FXUSDCAD.
type ValetProvider struct {
	BaseURL string
	Client  *http.Client
}

// NewValetProvider returns a provider against the public Valet API with a
// daily-expiring disk response cache.
func NewValetProvider() *ValetProvider {
	return &ValetProvider{BaseURL: DefaultBaseURL, Client: CachedClient()}
}

type valetSeriesValue struct {
	V string `json:"v"`
}

// Observations queries one FX series for [start, end].
func (p *ValetProvider) Observations(currencyFrom string, start, end time.Time) ([]Observation, error) {
	series := "FX" + currencyFrom + currencyTo

	q := url.Values{}
	q.Set("start_date", start.Format("2006-01-02"))
	q.Set("end_date", end.Format("2006-01-02"))
	obsURL := fmt.Sprintf("%s/%s/json?%s", p.BaseURL, series, q.Encode())

	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Get(obsURL)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching %s: %v", ErrProvider, obsURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned %s", ErrProvider, obsURL, resp.Status)
	}

	var payload struct {
		Observations []map[string]json.RawMessage `json:"observations"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decoding %s response: %v", ErrData, series, err)
	}
	if len(payload.Observations) == 0 {
		return nil, fmt.Errorf("%w: no observations were found using currency %s", ErrData, currencyFrom)
	}

	obs := make([]Observation, 0, len(payload.Observations))
	for i, raw := range payload.Observations {
		var dateStr string
		if err := json.Unmarshal(raw["d"], &dateStr); err != nil {
			return nil, fmt.Errorf("%w: observation %d has no date", ErrData, i)
		}
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return nil, fmt.Errorf("%w: observation %d has invalid date %q", ErrData, i, dateStr)
		}

		seriesRaw, ok := raw[series]
		if !ok {
			return nil, fmt.Errorf("%w: observation %d is missing series %s", ErrData, i, series)
		}
		var value valetSeriesValue
		if err := json.Unmarshal(seriesRaw, &value); err != nil {
			return nil, fmt.Errorf("%w: observation %d has invalid %s value", ErrData, i, series)
		}
		rate, err := decimal.NewFromString(value.V)
		if err != nil {
			return nil, fmt.Errorf("%w: observation %d has invalid rate %q", ErrData, i, value.V)
		}

		obs = append(obs, Observation{Date: date, Rate: rate})
	}

	slog.Debug("fetched exchange rates",
		"series", series,
		"start", start.Format("2006-01-02"),
		"end", end.Format("2006-01-02"),
		"observations", len(obs))
	return obs, nil
}
