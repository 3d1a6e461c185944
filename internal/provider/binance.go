package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"coinlens/internal/ratelimit"
	"coinlens/pkg/model"
)

const defaultBinanceBaseURL = "https://api.binance.com/api/v3"

// Binance caps klines responses at 1000 rows per request.
const klinesPageLimit = 1000

// BinanceProvider implements the Provider interface over the Binance
// public klines API. No API key is required for market data.
type BinanceProvider struct {
	baseURL   string
	client    *http.Client
	limiter   *ratelimit.Limiter
	rateLimit int
	log       *logrus.Entry
}

// NewBinanceProvider creates a new Binance provider. An empty baseURL
// selects the public endpoint.
func NewBinanceProvider(baseURL string, rateLimitPerMin int, timeout time.Duration) *BinanceProvider {
	if baseURL == "" {
		baseURL = defaultBinanceBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &BinanceProvider{
		baseURL:   baseURL,
		client:    &http.Client{Timeout: timeout},
		limiter:   ratelimit.NewLimiter("binance", rateLimitPerMin),
		rateLimit: rateLimitPerMin,
		log:       logrus.WithField("provider", "binance"),
	}
}

// Name returns the provider name
func (p *BinanceProvider) Name() string {
	return "binance"
}

// IsAvailable reports whether the provider can serve requests. Market
// data needs no credentials, so a configured base URL is enough.
func (p *BinanceProvider) IsAvailable() bool {
	return p.baseURL != ""
}

// RateLimit returns the rate limit per minute
func (p *BinanceProvider) RateLimit() int {
	return p.rateLimit
}

// GetDailyBars fetches daily klines for the symbol over [start, end],
// paging through the API's per-request row cap. Bars come back sorted
// ascending by open time.
func (p *BinanceProvider) GetDailyBars(ctx context.Context, symbol string, start, end time.Time) (*model.Series, error) {
	var bars []model.Bar
	cursor := start

	for !cursor.After(end) {
		page, err := p.fetchKlinesRetry(ctx, symbol, cursor, end)
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			break
		}
		bars = append(bars, page...)
		if len(page) < klinesPageLimit {
			break
		}
		// Next page starts one day after the last open time.
		cursor = page[len(page)-1].Time.AddDate(0, 0, 1)
	}

	if len(bars) == 0 {
		return nil, &ProviderError{Provider: p.Name(), Err: fmt.Errorf("no data for %s", symbol), Retryable: false}
	}

	sort.Slice(bars, func(i, j int) bool {
		return bars[i].Time.Before(bars[j].Time)
	})

	p.log.WithFields(logrus.Fields{
		"symbol": symbol,
		"bars":   len(bars),
	}).Debug("fetched daily bars")

	return model.NewSeries(symbol, bars), nil
}

// maxFetchAttempts bounds retries of a single klines page.
const maxFetchAttempts = 3

// fetchKlinesRetry retries a page on retryable failures, sleeping the
// limiter's current backoff between attempts so a 429 actually slows the
// client down instead of only growing a counter.
func (p *BinanceProvider) fetchKlinesRetry(ctx context.Context, symbol string, start, end time.Time) ([]model.Bar, error) {
	var lastErr error
	for attempt := 0; attempt < maxFetchAttempts; attempt++ {
		if attempt > 0 {
			if err := p.limiter.WaitBackoff(ctx); err != nil {
				return nil, err
			}
		}
		page, err := p.fetchKlines(ctx, symbol, start, end)
		if err == nil {
			return page, nil
		}
		lastErr = err
		var perr *ProviderError
		if !errors.As(err, &perr) || !perr.Retryable {
			return nil, err
		}
		p.log.WithFields(logrus.Fields{
			"symbol":  symbol,
			"attempt": attempt + 1,
		}).WithError(err).Debug("retrying klines page")
	}
	return nil, lastErr
}

func (p *BinanceProvider) fetchKlines(ctx context.Context, symbol string, start, end time.Time) ([]model.Bar, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("interval", "1d")
	q.Set("startTime", strconv.FormatInt(start.UnixMilli(), 10))
	q.Set("endTime", strconv.FormatInt(end.UnixMilli(), 10))
	q.Set("limit", strconv.Itoa(klinesPageLimit))

	req, err := http.NewRequestWithContext(ctx, "GET", p.baseURL+"/klines?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, &ProviderError{Provider: p.Name(), Err: err, Retryable: true}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		p.limiter.SignalRateLimited()
		return nil, &ProviderError{Provider: p.Name(), Err: fmt.Errorf("rate limited"), Retryable: true}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &ProviderError{Provider: p.Name(), Err: fmt.Errorf("status %d", resp.StatusCode), Retryable: false}
	}

	p.limiter.ResetBackoff()

	// Klines come as rows of mixed JSON types: millisecond epochs as
	// numbers, prices and volumes as decimal strings.
	var rows [][]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	bars := make([]model.Bar, 0, len(rows))
	for _, row := range rows {
		bar, err := parseKline(row)
		if err != nil {
			return nil, &ProviderError{Provider: p.Name(), Err: err, Retryable: false}
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

// Kline row field positions per the Binance API docs.
const (
	klineOpenTime      = 0
	klineOpen          = 1
	klineHigh          = 2
	klineLow           = 3
	klineClose         = 4
	klineVolume        = 5
	klineTakerBuyQuote = 10
	klineMinFields     = 11
)

func parseKline(row []json.RawMessage) (model.Bar, error) {
	if len(row) < klineMinFields {
		return model.Bar{}, fmt.Errorf("kline row has %d fields, want at least %d", len(row), klineMinFields)
	}

	var openMillis int64
	if err := json.Unmarshal(row[klineOpenTime], &openMillis); err != nil {
		return model.Bar{}, fmt.Errorf("parsing kline open time: %w", err)
	}

	fields := map[string]int{
		"open":            klineOpen,
		"high":            klineHigh,
		"low":             klineLow,
		"close":           klineClose,
		"volume":          klineVolume,
		"taker_buy_quote": klineTakerBuyQuote,
	}
	values := make(map[string]float64, len(fields))
	for name, idx := range fields {
		var s string
		if err := json.Unmarshal(row[idx], &s); err != nil {
			return model.Bar{}, fmt.Errorf("parsing kline %s: %w", name, err)
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return model.Bar{}, fmt.Errorf("parsing kline %s: %w", name, err)
		}
		values[name] = f
	}

	return model.Bar{
		Time:          time.UnixMilli(openMillis).UTC(),
		Open:          values["open"],
		High:          values["high"],
		Low:           values["low"],
		Close:         values["close"],
		Volume:        values["volume"],
		TakerBuyQuote: values["taker_buy_quote"],
	}, nil
}
