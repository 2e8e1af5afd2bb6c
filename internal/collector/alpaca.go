package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"MarketDash/internal/model"
)

// DefaultAlpacaBaseURL is the Alpaca market data v2 stocks endpoint.
const DefaultAlpacaBaseURL = "https://data.alpaca.markets/v2/stocks"

// AlpacaFetcher implements Fetcher using the Alpaca market data REST API.
type AlpacaFetcher struct {
	BaseURL   string
	APIKey    string
	APISecret string
	Feed      string
	Client    *http.Client
	Now       func() time.Time
}

// NewAlpacaFetcher creates a new fetcher with optional proxy support.
func NewAlpacaFetcher(baseURL, apiKey, apiSecret, feed, proxyURL string) *AlpacaFetcher {
	if baseURL == "" {
		baseURL = DefaultAlpacaBaseURL
	}
	if feed == "" {
		feed = "iex"
	}
	return &AlpacaFetcher{
		BaseURL:   baseURL,
		APIKey:    apiKey,
		APISecret: apiSecret,
		Feed:      feed,
		Client:    newHTTPClient(proxyURL),
		Now:       time.Now,
	}
}

func (f *AlpacaFetcher) Name() string { return "alpaca" }

// alpacaBar is the JSON shape of one bar in the Alpaca bars response.
type alpacaBar struct {
	Timestamp time.Time `json:"t"`
	Open      float64   `json:"o"`
	High      float64   `json:"h"`
	Low       float64   `json:"l"`
	Close     float64   `json:"c"`
	Volume    int64     `json:"v"`
}

type alpacaBarsResponse struct {
	Bars          []alpacaBar `json:"bars"`
	Symbol        string      `json:"symbol"`
	NextPageToken *string     `json:"next_page_token"`
}

func (f *AlpacaFetcher) FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.PriceBar, error) {
	now := f.Now().UTC()
	q := url.Values{}
	q.Set("timeframe", "1Day")
	q.Set("start", now.AddDate(0, 0, -days).Format("2006-01-02"))
	q.Set("end", now.Format("2006-01-02"))
	q.Set("limit", strconv.Itoa(days))
	q.Set("feed", f.Feed)
	endpoint := fmt.Sprintf("%s/%s/bars?%s", f.BaseURL, url.PathEscape(symbol), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("APCA-API-KEY-ID", f.APIKey)
	req.Header.Set("APCA-API-SECRET-KEY", f.APISecret)

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("alpaca fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("alpaca: status %d, body: %s", resp.StatusCode, string(body))
	}

	var result alpacaBarsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("alpaca decode: %w", err)
	}
	if len(result.Bars) == 0 {
		return nil, fmt.Errorf("alpaca %s: %w", symbol, ErrNoData)
	}

	bars := make([]model.PriceBar, len(result.Bars))
	for i, ab := range result.Bars {
		bars[i] = model.PriceBar{
			Time:   ab.Timestamp,
			Open:   ab.Open,
			High:   ab.High,
			Low:    ab.Low,
			Close:  ab.Close,
			Volume: ab.Volume,
		}
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}
