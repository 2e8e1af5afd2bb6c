package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/polygon-io/client-go/rest/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketDash/internal/calculator"
)

func TestAlpacaFetcher_FetchDailyBars(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/AAPL/bars", r.URL.Path)
		assert.Equal(t, "key", r.Header.Get("APCA-API-KEY-ID"))
		assert.Equal(t, "secret", r.Header.Get("APCA-API-SECRET-KEY"))
		q := r.URL.Query()
		assert.Equal(t, "1Day", q.Get("timeframe"))
		assert.Equal(t, "2024-03-02", q.Get("start"))
		assert.Equal(t, "2024-04-01", q.Get("end"))
		assert.Equal(t, "30", q.Get("limit"))
		assert.Equal(t, "iex", q.Get("feed"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"bars":[
			{"t":"2024-03-05T05:00:00Z","o":171,"h":172.5,"l":170,"c":172,"v":1200},
			{"t":"2024-03-04T05:00:00Z","o":170,"h":171.5,"l":169,"c":171,"v":1000}
		],"symbol":"AAPL","next_page_token":null}`))
	}))
	defer srv.Close()

	f := NewAlpacaFetcher(srv.URL, "key", "secret", "", "")
	f.Now = func() time.Time { return time.Date(2024, time.April, 1, 15, 0, 0, 0, time.UTC) }

	bars, err := f.FetchDailyBars(context.Background(), "AAPL", 30)
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.True(t, bars[0].Time.Before(bars[1].Time))
	assert.Equal(t, 171.0, bars[0].Close)
	assert.Equal(t, int64(1200), bars[1].Volume)
}

func TestAlpacaFetcher_NoDataAndErrors(t *testing.T) {
	empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"bars":[],"symbol":"ZZZ"}`))
	}))
	defer empty.Close()
	_, err := NewAlpacaFetcher(empty.URL, "k", "s", "iex", "").FetchDailyBars(context.Background(), "ZZZ", 30)
	assert.ErrorIs(t, err, ErrNoData)

	denied := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"forbidden"}`, http.StatusForbidden)
	}))
	defer denied.Close()
	_, err = NewAlpacaFetcher(denied.URL, "k", "s", "iex", "").FetchDailyBars(context.Background(), "AAPL", 30)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoData)
	assert.Contains(t, err.Error(), "403")
}

func TestYahooFetcher_FetchDailyBars(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/^GSPC", r.URL.Path)
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		assert.Equal(t, "1mo", r.URL.Query().Get("range"))
		_, _ = w.Write([]byte(`{"chart":{"result":[{"timestamp":[1709251200,1709337600,1709424000,1709510400],
			"indicators":{"quote":[{"open":[10,null,11,12],"high":[11,null,12,13],"low":[9,null,10,11],
			"close":[10.5,null,null,12.5],"volume":[100,null,200,300]}]}}],"error":null}}`))
	}))
	defer srv.Close()

	f := NewYahooFetcher("")
	f.BaseURL = srv.URL

	bars, err := f.FetchDailyBars(context.Background(), "SPX", 30)
	require.NoError(t, err)
	require.Len(t, bars, 2, "null holiday row and the row without a close are skipped")
	assert.Equal(t, 10.5, bars[0].Close)
	assert.Equal(t, int64(300), bars[1].Volume)
	assert.NoError(t, calculator.ValidateSeries(bars))
}

func TestYahooRange(t *testing.T) {
	assert.Equal(t, "1mo", yahooRange(30))
	assert.Equal(t, "6mo", yahooRange(120))
	assert.Equal(t, "1y", yahooRange(365))
	assert.Equal(t, "5y", yahooRange(2000))
}

func TestCSVFetcher(t *testing.T) {
	dir := t.TempDir()
	body := "date,open,high,low,close,volume\n" +
		"2024-01-03,101,103,100,102,2000\n" +
		"2024-01-02,100,102,99,101,1000\n" +
		"2023-09-01,90,91,89,90,500\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "MSFT.csv"), []byte(body), 0o644))

	f := NewCSVFetcher(dir)
	bars, err := f.FetchDailyBars(context.Background(), "msft", 30)
	require.NoError(t, err)
	require.Len(t, bars, 2, "rows older than the window are dropped")
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), bars[0].Time)
	assert.Equal(t, 102.0, bars[1].Close)

	all, err := ReadCSVBars(filepath.Join(dir, "MSFT.csv"))
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = f.FetchDailyBars(context.Background(), "NOPE", 30)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestBarFromAgg(t *testing.T) {
	ts := time.Date(2024, 5, 1, 4, 0, 0, 0, time.UTC)
	b := barFromAgg(models.Agg{Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 12345.0, Timestamp: models.Millis(ts)})
	assert.Equal(t, ts, b.Time)
	assert.Equal(t, 1.5, b.Close)
	assert.Equal(t, int64(12345), b.Volume)
}
