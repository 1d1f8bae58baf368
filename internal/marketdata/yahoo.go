// Package marketdata implements the market-data provider contract against
// the Yahoo Finance public endpoints.
package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"reddit-stocks-analyzer/internal/interfaces"
	"reddit-stocks-analyzer/internal/types"
)

var _ interfaces.MarketData = (*YahooClient)(nil)

// YahooClient fetches quotes and daily close history from Yahoo Finance.
type YahooClient struct {
	quoteBaseURL string
	chartBaseURL string
	httpClient   *http.Client
	headers      map[string]string
	cache        *Cache
}

// Option configures a YahooClient.
type Option func(*YahooClient)

// WithBaseURLs overrides the endpoint hosts, used by tests.
func WithBaseURLs(quoteBase, chartBase string) Option {
	return func(c *YahooClient) {
		c.quoteBaseURL = quoteBase
		c.chartBaseURL = chartBase
	}
}

// WithCache attaches a response cache for history fetches.
func WithCache(cache *Cache) Option {
	return func(c *YahooClient) { c.cache = cache }
}

// NewYahooClient creates a Yahoo Finance client with a 30s request timeout.
func NewYahooClient(opts ...Option) *YahooClient {
	c := &YahooClient{
		quoteBaseURL: "https://query1.finance.yahoo.com",
		chartBaseURL: "https://query1.finance.yahoo.com",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		headers: map[string]string{
			"User-Agent": "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
			"Accept":     "application/json",
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type quoteResponse struct {
	QuoteResponse struct {
		Result []struct {
			Symbol             string   `json:"symbol"`
			LongName           string   `json:"longName"`
			ShortName          string   `json:"shortName"`
			RegularMarketPrice *float64 `json:"regularMarketPrice"`
		} `json:"result"`
	} `json:"quoteResponse"`
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// Quote fetches descriptive metadata for a symbol. A symbol unknown to the
// provider yields a nil quote, not an error.
func (c *YahooClient) Quote(ctx context.Context, symbol string) (*types.Quote, error) {
	url := fmt.Sprintf("%s/v7/finance/quote?symbols=%s", c.quoteBaseURL, symbol)

	data, err := c.makeRequest(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch quote for %s: %w", symbol, err)
	}

	var qr quoteResponse
	if err := json.Unmarshal(data, &qr); err != nil {
		return nil, fmt.Errorf("parse quote for %s: %w", symbol, err)
	}
	if len(qr.QuoteResponse.Result) == 0 {
		return nil, nil
	}

	r := qr.QuoteResponse.Result[0]
	longName := r.LongName
	if longName == "" {
		longName = r.ShortName
	}
	return &types.Quote{
		Symbol:             r.Symbol,
		LongName:           longName,
		RegularMarketPrice: r.RegularMarketPrice,
	}, nil
}

// History fetches daily closes for [start, end]. Missing data yields an
// empty series. Observations with a null close are dropped.
func (c *YahooClient) History(ctx context.Context, symbol string, start, end time.Time) (types.PriceSeries, error) {
	url := fmt.Sprintf("%s/v8/finance/chart/%s?period1=%d&period2=%d&interval=1d",
		c.chartBaseURL, symbol, start.Unix(), end.Unix())

	cacheKey := fmt.Sprintf("history:%s:%d:%d", symbol, start.Unix(), end.Unix())
	data, cached := c.cachedOrFetch(ctx, cacheKey, url)
	if data == nil {
		return nil, fmt.Errorf("fetch history for %s: request failed", symbol)
	}

	series, err := parseChart(data)
	if err != nil {
		if cached {
			// A stale cache entry should not poison the run.
			return nil, fmt.Errorf("parse cached history for %s: %w", symbol, err)
		}
		return nil, fmt.Errorf("parse history for %s: %w", symbol, err)
	}
	return series, nil
}

func (c *YahooClient) cachedOrFetch(ctx context.Context, key, url string) ([]byte, bool) {
	if c.cache != nil {
		if data, ok := c.cache.Get(key); ok {
			return data, true
		}
	}
	data, err := c.makeRequest(ctx, url)
	if err != nil {
		return nil, false
	}
	if c.cache != nil {
		_ = c.cache.Set(key, data)
	}
	return data, false
}

func (c *YahooClient) makeRequest(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("provider returned status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func parseChart(data []byte) (types.PriceSeries, error) {
	var cr chartResponse
	if err := json.Unmarshal(data, &cr); err != nil {
		return nil, err
	}
	if cr.Chart.Error != nil {
		return nil, fmt.Errorf("provider error: %s", cr.Chart.Error.Code)
	}
	if len(cr.Chart.Result) == 0 || len(cr.Chart.Result[0].Indicators.Quote) == 0 {
		return types.PriceSeries{}, nil
	}

	result := cr.Chart.Result[0]
	closes := result.Indicators.Quote[0].Close

	series := make(types.PriceSeries, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(closes) || closes[i] == nil {
			continue
		}
		day := time.Unix(ts, 0).UTC()
		series = append(series, types.PricePoint{
			Date:  time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC),
			Close: *closes[i],
		})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Date.Before(series[j].Date) })
	return series, nil
}
