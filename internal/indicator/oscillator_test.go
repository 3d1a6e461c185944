package indicator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRSISaturatesOnMonotoneRise(t *testing.T) {
	closes := make([]float64, 14)
	for i := range closes {
		closes[i] = 10 + float64(i)
	}
	f, ok := RSI(seriesFromCloses(closes), 14).Float()
	require.True(t, ok)
	assert.InDelta(t, 100.0, f, 1e-6)
}

func TestRSIZeroOnMonotoneFall(t *testing.T) {
	closes := make([]float64, 14)
	for i := range closes {
		closes[i] = 100 - float64(i)
	}
	f, ok := RSI(seriesFromCloses(closes), 14).Float()
	require.True(t, ok)
	assert.InDelta(t, 0.0, f, 1e-6)
}

func TestRSIStaysInRange(t *testing.T) {
	f, ok := RSI(waveSeries(60, 100), 14).Float()
	require.True(t, ok)
	assert.GreaterOrEqual(t, f, 0.0)
	assert.LessOrEqual(t, f, 100.0)
}

func TestRSIInsufficientHistory(t *testing.T) {
	assert.True(t, RSI(constantSeries(13, 100), 14).IsUndefined())
}

func TestRSIFlatWindowIsUndefined(t *testing.T) {
	// No gains and no losses: 0/0 relative strength.
	assert.True(t, RSI(constantSeries(20, 100), 14).IsUndefined())
}

func TestCMO(t *testing.T) {
	closes := make([]float64, 15)
	for i := range closes {
		closes[i] = 10 + float64(i)
	}
	// All change is upside.
	f, ok := CMO(seriesFromCloses(closes), 14).Float()
	require.True(t, ok)
	assert.InDelta(t, 100.0, f, 1e-9)

	// A flat window has no gain/loss mass to normalize by.
	assert.True(t, CMO(constantSeries(20, 5), 14).IsUndefined())
}

func TestStochasticKStaysInRange(t *testing.T) {
	f, ok := StochasticK(waveSeries(60, 100), 14).Float()
	require.True(t, ok)
	assert.GreaterOrEqual(t, f, 0.0)
	assert.LessOrEqual(t, f, 100.0)
}

func TestStochasticKDegenerateRange(t *testing.T) {
	// Constant prices collapse the high/low channel: 0/0.
	assert.True(t, StochasticK(constantSeries(20, 100), 14).IsUndefined())
}

func TestWilliamsRStaysInRange(t *testing.T) {
	f, ok := WilliamsR(waveSeries(60, 100), 14).Float()
	require.True(t, ok)
	assert.GreaterOrEqual(t, f, -100.0)
	assert.LessOrEqual(t, f, 0.0)
}

func TestWilliamsRMirrorsStochastic(t *testing.T) {
	s := waveSeries(80, 250)
	k, ok := StochasticK(s, 14).Float()
	require.True(t, ok)
	w, ok := WilliamsR(s, 14).Float()
	require.True(t, ok)
	assert.InDelta(t, k-100, w, 1e-9)
}
