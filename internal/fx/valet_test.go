package fx

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func valetServer(t *testing.T, series, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/"+series+"/json", r.URL.Path)
		assert.NotEmpty(t, r.URL.Query().Get("start_date"))
		assert.NotEmpty(t, r.URL.Query().Get("end_date"))
		fmt.Fprint(w, body)
	}))
}

func TestValetObservations(t *testing.T) {
	body := `{"observations": [
		{"d": "2024-01-02", "FXUSDCAD": {"v": "1.3316"}},
		{"d": "2024-01-03", "FXUSDCAD": {"v": "1.3350"}}
	]}`
	srv := valetServer(t, "FXUSDCAD", body)
	defer srv.Close()

	p := &ValetProvider{BaseURL: srv.URL, Client: srv.Client()}
	obs, err := p.Observations("USD", date(2024, 1, 1), date(2024, 1, 31))
	require.NoError(t, err)
	require.Len(t, obs, 2)
	assert.Equal(t, date(2024, 1, 2), obs[0].Date)
	assert.True(t, obs[0].Rate.Equal(dec("1.3316")))
	assert.True(t, obs[1].Rate.Equal(dec("1.3350")))
}

func TestValetNoObservations(t *testing.T) {
	srv := valetServer(t, "FXEURCAD", `{"message": "series not found"}`)
	defer srv.Close()

	p := &ValetProvider{BaseURL: srv.URL, Client: srv.Client()}
	_, err := p.Observations("EUR", date(2024, 1, 1), date(2024, 1, 31))
	require.ErrorIs(t, err, ErrData)
	assert.Contains(t, err.Error(), "EUR")
}

func TestValetMissingSeriesValue(t *testing.T) {
	srv := valetServer(t, "FXUSDCAD", `{"observations": [{"d": "2024-01-02"}]}`)
	defer srv.Close()

	p := &ValetProvider{BaseURL: srv.URL, Client: srv.Client()}
	_, err := p.Observations("USD", date(2024, 1, 1), date(2024, 1, 31))
	assert.ErrorIs(t, err, ErrData)
}

func TestValetMalformedBody(t *testing.T) {
	srv := valetServer(t, "FXUSDCAD", `not json`)
	defer srv.Close()

	p := &ValetProvider{BaseURL: srv.URL, Client: srv.Client()}
	_, err := p.Observations("USD", date(2024, 1, 1), date(2024, 1, 31))
	assert.ErrorIs(t, err, ErrData)
}

func TestValetHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := &ValetProvider{BaseURL: srv.URL, Client: srv.Client()}
	_, err := p.Observations("USD", date(2024, 1, 1), date(2024, 1, 31))
	assert.ErrorIs(t, err, ErrProvider)
}

func TestValetConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	p := &ValetProvider{BaseURL: srv.URL, Client: http.DefaultClient}
	_, err := p.Observations("USD", date(2024, 1, 1), date(2024, 1, 31))
	assert.ErrorIs(t, err, ErrProvider)
}
