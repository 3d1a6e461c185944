package report

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coinlens/internal/indicator"
	"coinlens/pkg/model"
)

func testSeries(n int) *model.Series {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.Bar, n)
	for i := range bars {
		c := 100 * (1 + 0.1*math.Sin(float64(i)/7))
		vol := 100 + 50*math.Sin(float64(i)/5)
		bars[i] = model.Bar{
			Time:          start.AddDate(0, 0, i),
			Open:          c,
			High:          c * 1.02,
			Low:           c * 0.98,
			Close:         c,
			Volume:        vol,
			TakerBuyQuote: 0.55 * vol * c,
		}
	}
	return model.NewSeries("BTCUSDT", bars)
}

func newTestAssembler() *Assembler {
	return NewAssembler(indicator.DefaultParams(), indicator.DefaultAssumptions())
}

func TestBuildRowOrderIsDeterministic(t *testing.T) {
	asm := newTestAssembler()
	s := testSeries(300)

	first, err := asm.Build(Technical, s, 19700000)
	require.NoError(t, err)
	second, err := asm.Build(Technical, s, 19700000)
	require.NoError(t, err)

	require.Equal(t, len(first.Rows), len(second.Rows))
	for i := range first.Rows {
		assert.Equal(t, first.Rows[i].Metric, second.Rows[i].Metric)
		assert.Equal(t, first.Rows[i].Value, second.Rows[i].Value)
	}
	// Run IDs are per-invocation.
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestBuildTechnicalProfile(t *testing.T) {
	rep, err := newTestAssembler().Build(Technical, testSeries(300), 19700000)
	require.NoError(t, err)

	assert.Equal(t, "BTCUSDT", rep.Symbol)
	assert.Equal(t, "technical", rep.Profile)
	require.Len(t, rep.Rows, 15)
	assert.Equal(t, "SMA 50-day", rep.Rows[0].Metric)
	assert.Equal(t, "Price Channel Breakout", rep.Rows[14].Metric)

	// A 300-bar varied series leaves no slot undefined.
	for _, row := range rep.Rows {
		assert.False(t, row.Value.IsUndefined(), "metric %s", row.Metric)
	}
}

func TestBuildFundamentalProfile(t *testing.T) {
	rep, err := newTestAssembler().Build(Fundamental, testSeries(300), 19700000)
	require.NoError(t, err)
	require.Len(t, rep.Rows, 15)
	assert.Equal(t, "NVT Ratio", rep.Rows[0].Metric)
	assert.Equal(t, "Regulatory Discount", rep.Rows[14].Metric)
}

func TestBuildQuantitativeProfile(t *testing.T) {
	rep, err := newTestAssembler().Build(Quantitative, testSeries(300), 19700000)
	require.NoError(t, err)
	require.Len(t, rep.Rows, 22)
	assert.Equal(t, "NVT Ratio", rep.Rows[0].Metric)
	assert.Equal(t, "Price/Volume Ratio (Alt)", rep.Rows[21].Metric)
}

func TestBuildShortHistoryYieldsUndefinedSlots(t *testing.T) {
	// 30 bars: SMA 50 and the 200-day Mayer window cannot fill.
	rep, err := newTestAssembler().Build(Technical, testSeries(30), 19700000)
	require.NoError(t, err)
	sma, ok := rep.Get("SMA 50-day")
	require.True(t, ok)
	assert.True(t, sma.IsUndefined())

	fund, err := newTestAssembler().Build(Fundamental, testSeries(30), 19700000)
	require.NoError(t, err)
	mayer, ok := fund.Get("Mayer Multiple")
	require.True(t, ok)
	assert.True(t, mayer.IsUndefined())
}

func TestBuildUnknownProfile(t *testing.T) {
	_, err := newTestAssembler().Build(Profile(99), testSeries(10), 1)
	assert.Error(t, err)
}

func TestSafeEvalConfinesPanics(t *testing.T) {
	v := safeEval(func() model.Value { panic("boom") })
	assert.True(t, v.IsUndefined())
}

func TestBuildPeer(t *testing.T) {
	asm := newTestAssembler()
	symbols := []string{"BTCUSDT", "ETHUSDT", "SOLUSDT"}
	inputs := map[string]PeerInput{
		"BTCUSDT": {Series: testSeries(300), Supply: 19700000},
		"ETHUSDT": {Series: testSeries(260), Supply: 120000000},
		"SOLUSDT": {Series: testSeries(280), Supply: 500000000},
	}

	rep, err := asm.BuildPeer(context.Background(), symbols, inputs, 2)
	require.NoError(t, err)

	assert.Equal(t, symbols, rep.Symbols)
	assert.Equal(t, peerMetricNames, rep.Metrics)
	for _, sym := range symbols {
		require.Len(t, rep.Columns[sym], len(rep.Metrics), "symbol %s", sym)
	}

	// The speculative flag is always a 0/1 defined value.
	idx := -1
	for i, name := range rep.Metrics {
		if name == "Speculative Signal" {
			idx = i
		}
	}
	require.GreaterOrEqual(t, idx, 0)
	for _, sym := range symbols {
		f, ok := rep.Columns[sym][idx].Float()
		require.True(t, ok)
		assert.Contains(t, []float64{0, 1}, f)
	}
}

func TestBuildPeerSkipsMissingInputs(t *testing.T) {
	asm := newTestAssembler()
	symbols := []string{"BTCUSDT", "MISSING"}
	inputs := map[string]PeerInput{
		"BTCUSDT": {Series: testSeries(100), Supply: 19700000},
	}

	rep, err := asm.BuildPeer(context.Background(), symbols, inputs, 4)
	require.NoError(t, err)
	assert.Equal(t, []string{"BTCUSDT"}, rep.Symbols)
}

func TestBuildPeerNoInputs(t *testing.T) {
	_, err := newTestAssembler().BuildPeer(context.Background(), nil, nil, 1)
	assert.Error(t, err)
}

func TestBuildPeerCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestAssembler().BuildPeer(ctx, []string{"BTCUSDT"}, map[string]PeerInput{
		"BTCUSDT": {Series: testSeries(100), Supply: 1},
	}, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseProfile(t *testing.T) {
	for _, p := range Profiles() {
		got, err := ParseProfile(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}

	_, err := ParseProfile("sentiment")
	assert.Error(t, err)
}
