package provider

import (
	"context"
	"time"

	"coinlens/pkg/model"
)

// Provider defines the interface for daily bar providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// GetDailyBars fetches daily OHLCV bars for a trading symbol over
	// the closed date range [start, end]
	GetDailyBars(ctx context.Context, symbol string, start, end time.Time) (*model.Series, error)

	// IsAvailable checks if the provider is reachable/configured
	IsAvailable() bool

	// RateLimit returns the rate limit per minute
	RateLimit() int
}

// ProviderError represents a provider-specific error
type ProviderError struct {
	Provider  string
	Err       error
	Retryable bool
}

func (e *ProviderError) Error() string {
	return e.Provider + ": " + e.Err.Error()
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
