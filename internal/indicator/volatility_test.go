package indicator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBollingerWidthNonNegative(t *testing.T) {
	f, ok := BollingerWidth(waveSeries(60, 100), 20, 2).Float()
	require.True(t, ok)
	assert.GreaterOrEqual(t, f, 0.0)
}

func TestBollingerWidthConstantSeriesIsZero(t *testing.T) {
	f, ok := BollingerWidth(constantSeries(30, 50), 20, 2).Float()
	require.True(t, ok)
	assert.InDelta(t, 0.0, f, 1e-12)
}

func TestBollingerWidthInsufficientHistory(t *testing.T) {
	assert.True(t, BollingerWidth(constantSeries(19, 50), 20, 2).IsUndefined())
}

func TestATR(t *testing.T) {
	// True range is undefined at the first bar, so a 14-bar window needs
	// 15 bars of history.
	assert.True(t, ATR(constantSeries(14, 100), 14).IsUndefined())

	f, ok := ATR(constantSeries(15, 100), 14).Float()
	require.True(t, ok)
	assert.InDelta(t, 0.0, f, 1e-12)

	f, ok = ATR(waveSeries(40, 100), 14).Float()
	require.True(t, ok)
	assert.Greater(t, f, 0.0)
}

func TestAnnualizedVolatility(t *testing.T) {
	// Constant prices: zero dispersion, by the n<2 convention also zero
	// for a too-short series.
	f, ok := AnnualizedVolatility(constantSeries(30, 100)).Float()
	require.True(t, ok)
	assert.Equal(t, 0.0, f)

	f, ok = AnnualizedVolatility(waveSeries(60, 100)).Float()
	require.True(t, ok)
	assert.Greater(t, f, 0.0)
}

func TestVolatilityReduction(t *testing.T) {
	// Early half noisy, late half flat: full reduction.
	closes := []float64{100, 150, 80, 140, 90, 100, 100, 100, 100, 100, 100}
	f, ok := VolatilityReduction(seriesFromCloses(closes)).Float()
	require.True(t, ok)
	assert.InDelta(t, 1.0, f, 1e-9)

	// Flat early half yields zero rather than a blown-up ratio.
	calm := []float64{100, 100, 100, 100, 100, 100, 110, 90, 120, 80, 100}
	f, ok = VolatilityReduction(seriesFromCloses(calm)).Float()
	require.True(t, ok)
	assert.Equal(t, 0.0, f)
}

func TestVolatilityReductionClampedAtZero(t *testing.T) {
	// Late half more volatile than early: clamped, never negative.
	closes := []float64{100, 101, 100, 101, 100, 101, 150, 60, 140, 70, 130}
	f, ok := VolatilityReduction(seriesFromCloses(closes)).Float()
	require.True(t, ok)
	assert.GreaterOrEqual(t, f, 0.0)
}

func TestPriceStabilityRatioZeroVolIsInfinite(t *testing.T) {
	assert.True(t, PriceStabilityRatio(constantSeries(30, 100)).IsInfinite())

	f, ok := PriceStabilityRatio(waveSeries(60, 100)).Float()
	require.True(t, ok)
	assert.Greater(t, f, 0.0)
}

func TestPriceToVolatilityCost(t *testing.T) {
	// Zero volatility zeroes the cost denominator.
	assert.True(t, PriceToVolatilityCost(constantSeries(30, 100)).IsInfinite())

	f, ok := PriceToVolatilityCost(waveSeries(60, 100)).Float()
	require.True(t, ok)
	assert.Greater(t, f, 0.0)
}
