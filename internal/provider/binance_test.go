package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// klinesPayload is a two-row response in the upstream wire shape:
// millisecond epochs as numbers, prices and volumes as decimal strings.
const klinesPayload = `[
  [1735689600000, "93500.1", "94800.0", "92100.5", "94000.0", "1234.5", 1735775999999, "115000000.0", 50000, "600.0", "56400000.0", "0"],
  [1735776000000, "94000.0", "95500.0", "93800.0", "95000.0", "1500.0", 1735862399999, "142500000.0", 52000, "800.0", "76000000.0", "0"]
]`

func TestGetDailyBars(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.Equal(t, "BTCUSDT", r.URL.Query().Get("symbol"))
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(klinesPayload))
	}))
	defer srv.Close()

	p := NewBinanceProvider(srv.URL, 600, 5*time.Second)
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)

	s, err := p.GetDailyBars(context.Background(), "BTCUSDT", start, end)
	require.NoError(t, err)
	assert.Equal(t, "/klines", gotPath)

	require.Equal(t, 2, s.Len())
	assert.Equal(t, "BTCUSDT", s.Symbol)

	first := s.Bars[0]
	assert.Equal(t, time.UnixMilli(1735689600000).UTC(), first.Time)
	assert.InDelta(t, 93500.1, first.Open, 1e-9)
	assert.InDelta(t, 94800.0, first.High, 1e-9)
	assert.InDelta(t, 92100.5, first.Low, 1e-9)
	assert.InDelta(t, 94000.0, first.Close, 1e-9)
	assert.InDelta(t, 1234.5, first.Volume, 1e-9)
	assert.InDelta(t, 56400000.0, first.TakerBuyQuote, 1e-9)

	assert.True(t, s.Bars[0].Time.Before(s.Bars[1].Time))
}

func TestGetDailyBarsEmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("[]"))
	}))
	defer srv.Close()

	p := NewBinanceProvider(srv.URL, 600, 5*time.Second)
	_, err := p.GetDailyBars(context.Background(), "BTCUSDT", time.Now().Add(-24*time.Hour), time.Now())
	require.Error(t, err)

	var perr *ProviderError
	require.ErrorAs(t, err, &perr)
	assert.False(t, perr.Retryable)
}

func TestGetDailyBarsRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p := NewBinanceProvider(srv.URL, 600, 5*time.Second)
	before := p.limiter.GetBackoff()
	_, err := p.GetDailyBars(context.Background(), "BTCUSDT", time.Now().Add(-24*time.Hour), time.Now())
	require.Error(t, err)

	var perr *ProviderError
	require.ErrorAs(t, err, &perr)
	assert.True(t, perr.Retryable)
	assert.Greater(t, p.limiter.GetBackoff(), before)
}

func TestGetDailyBarsRecoversAfterRateLimit(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(klinesPayload))
	}))
	defer srv.Close()

	p := NewBinanceProvider(srv.URL, 600, 5*time.Second)
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)

	// The first page hits a 429; the client waits out the backoff and
	// retries instead of surfacing the error.
	s, err := p.GetDailyBars(context.Background(), "BTCUSDT", start, end)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 2, s.Len())

	// The successful retry resets the backoff to its floor.
	assert.Equal(t, 100*time.Millisecond, p.limiter.GetBackoff())
}

func TestParseKlineRejectsShortRow(t *testing.T) {
	var row []json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(`[1735689600000, "1.0"]`), &row))
	_, err := parseKline(row)
	assert.Error(t, err)
}

func TestParseKlineRejectsBadNumber(t *testing.T) {
	bad := `[1735689600000, "oops", "2", "3", "4", "5", 0, "6", 0, "7", "8", "0"]`
	var row []json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(bad), &row))
	_, err := parseKline(row)
	assert.Error(t, err)
}

func TestCachingProvider(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(klinesPayload))
	}))
	defer srv.Close()

	p := NewCachingProvider(NewBinanceProvider(srv.URL, 600, 5*time.Second))
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)

	first, err := p.GetDailyBars(context.Background(), "BTCUSDT", start, end)
	require.NoError(t, err)
	second, err := p.GetDailyBars(context.Background(), "BTCUSDT", start, end)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Same(t, first, second)

	// A different range misses the cache.
	_, err = p.GetDailyBars(context.Background(), "BTCUSDT", start, end.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}
