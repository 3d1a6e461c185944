package report

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"coinlens/internal/indicator"
	"coinlens/pkg/model"
)

// Thresholds for the binary speculative-overheating flag.
const (
	nvtSignalLimit   = 50.0
	mayerSignalLimit = 2.4
)

// Assembler evaluates analysis profiles over bar series. Rate and horizon
// assumptions are fixed at construction; the asset-specific circulating
// supply is provided per call.
type Assembler struct {
	params      indicator.Params
	assumptions indicator.Assumptions
}

// NewAssembler creates an assembler with the given indicator parameters
// and valuation assumptions.
func NewAssembler(params indicator.Params, assumptions indicator.Assumptions) *Assembler {
	return &Assembler{params: params, assumptions: assumptions}
}

// metric is one named slot of a profile.
type metric struct {
	name string
	eval func() model.Value
}

// Build evaluates the profile over one series and returns the ordered
// report. Every metric is evaluated in isolation: a degenerate input can
// make its own slot Undefined but can never sink the rest of the report.
func (a *Assembler) Build(profile Profile, s *model.Series, supply float64) (*model.Report, error) {
	var metrics []metric
	switch profile {
	case Technical:
		metrics = a.technicalMetrics(s)
	case Fundamental:
		metrics = a.fundamentalMetrics(s, supply)
	case Quantitative:
		metrics = a.quantitativeMetrics(s, supply)
	case Peer:
		metrics = a.peerMetrics(s, supply)
	default:
		return nil, fmt.Errorf("unknown profile %v", profile)
	}

	rows := make([]model.Row, len(metrics))
	for i, m := range metrics {
		rows[i] = model.Row{Metric: m.name, Value: safeEval(m.eval)}
	}
	return &model.Report{
		RunID:   uuid.NewString(),
		Symbol:  s.Symbol,
		Profile: profile.String(),
		Rows:    rows,
	}, nil
}

// safeEval confines any panic from a single metric to its own slot.
func safeEval(fn func() model.Value) (v model.Value) {
	defer func() {
		if r := recover(); r != nil {
			v = model.Undefined()
		}
	}()
	return fn()
}

func (a *Assembler) technicalMetrics(s *model.Series) []metric {
	p := a.params
	return []metric{
		{"SMA 50-day", func() model.Value { return indicator.SMA(s, p.SMAWindow) }},
		{"EMA 20-day", func() model.Value { return indicator.EMA(s, p.EMASpan) }},
		{"RSI", func() model.Value { return indicator.RSI(s, p.RSIPeriod) }},
		{"MACD Histogram", func() model.Value { return indicator.MACDHistogram(s, p.MACDFast, p.MACDSlow, p.MACDSignal) }},
		{"Bollinger Bands Width", func() model.Value { return indicator.BollingerWidth(s, p.BollingerWindow, p.BollingerDev) }},
		{"ATR", func() model.Value { return indicator.ATR(s, p.ATRPeriod) }},
		{"OBV", func() model.Value { return indicator.OBV(s) }},
		{"VWAP", func() model.Value { return indicator.VWAP(s) }},
		{"Price ROC", func() model.Value { return indicator.ROC(s, p.ROCPeriod) }},
		{"Stochastic %K", func() model.Value { return indicator.StochasticK(s, p.StochPeriod) }},
		{"Williams %R", func() model.Value { return indicator.WilliamsR(s, p.WilliamsPeriod) }},
		{"Momentum", func() model.Value { return indicator.Momentum(s, p.MomentumPeriod) }},
		{"Volume Oscillator", func() model.Value { return indicator.VolumeOscillator(s, p.VolumeOscShort, p.VolumeOscLong) }},
		{"Chande Momentum Oscillator", func() model.Value { return indicator.CMO(s, p.CMOPeriod) }},
		{"Price Channel Breakout", func() model.Value { return indicator.ChannelBreakout(s, p.ChannelWindow) }},
	}
}

func (a *Assembler) fundamentalMetrics(s *model.Series, supply float64) []metric {
	p := a.params
	as := a.assumptions
	as.Supply = supply
	return []metric{
		{"NVT Ratio", func() model.Value { return indicator.NVTRatio(s, supply) }},
		{"Price/Volume Ratio", func() model.Value { return indicator.PriceVolumeRatio(s) }},
		{"Market Cap Growth Rate", func() model.Value { return indicator.MarketCapGrowth(s, supply, as.CAGRYears) }},
		{"Volume CAGR", func() model.Value { return indicator.VolumeCAGR(s, as.CAGRYears) }},
		{"Liquidity Ratio", func() model.Value { return indicator.LiquidityRatio(s, supply) }},
		{"Mayer Multiple", func() model.Value { return indicator.MayerMultiple(s, p.MayerWindow) }},
		{"Price Momentum", func() model.Value { return indicator.PriceMomentum(s) }},
		{"Volume Momentum", func() model.Value { return indicator.VolumeMomentum(s) }},
		{"Volatility-Adjusted Market Cap", func() model.Value { return indicator.VolatilityAdjustedMarketCap(s, supply) }},
		{"Turnover Ratio", func() model.Value { return indicator.TurnoverRatio(s, supply) }},
		{"Price Stability Ratio", func() model.Value { return indicator.PriceStabilityRatio(s) }},
		{"Volume-to-Price Ratio", func() model.Value { return indicator.VolumeToPriceRatio(s) }},
		{"Discounted Expected Utility Value", func() model.Value { return indicator.DEUV(s, as) }},
		{"Price to Volatility Cost", func() model.Value { return indicator.PriceToVolatilityCost(s) }},
		{"Regulatory Discount", func() model.Value { return indicator.RegulatoryDiscount(s, as.RegulatoryHaircut) }},
	}
}

func (a *Assembler) quantitativeMetrics(s *model.Series, supply float64) []metric {
	p := a.params
	as := a.assumptions
	as.Supply = supply
	return []metric{
		{"NVT Ratio", func() model.Value { return indicator.NVTRatio(s, supply) }},
		{"Price/Volume Ratio", func() model.Value { return indicator.PriceVolumeRatio(s) }},
		{"Sharpe Ratio", func() model.Value { return indicator.SharpeRatio(s, as) }},
		{"Current Utility Value", func() model.Value { return indicator.CUV(s, supply) }},
		{"Discounted Expected Utility Value", func() model.Value { return indicator.DEUV(s, as) }},
		{"Volume CAGR", func() model.Value { return indicator.VolumeCAGR(s, as.CAGRYears) }},
		{"Volume Composition (Buy)", func() model.Value { return indicator.VolumeComposition(s).Buy }},
		{"Volume Composition (Sell)", func() model.Value { return indicator.VolumeComposition(s).Sell }},
		{"Volatility Reduction", func() model.Value { return indicator.VolatilityReduction(s) }},
		{"Price Momentum", func() model.Value { return indicator.PriceMomentum(s) }},
		{"Risk-Adjusted Volume Discount", func() model.Value { return indicator.RiskAdjustedVolumeDiscount(s, as) }},
		{"Trading Volume", func() model.Value { return indicator.TradingVolume(s) }},
		{"Volume Volatility", func() model.Value { return indicator.VolumeVolatility(s) }},
		{"Price Stability Ratio", func() model.Value { return indicator.PriceStabilityRatio(s) }},
		{"Volume-to-Price Ratio", func() model.Value { return indicator.VolumeToPriceRatio(s) }},
		{"Price Correlation", func() model.Value { return indicator.PriceCorrelation(s) }},
		{"Mayer Multiple", func() model.Value { return indicator.MayerMultiple(s, p.MayerWindow) }},
		{"Price DCF Intrinsic Value", func() model.Value { return indicator.PriceDCF(s, as).IntrinsicValue }},
		{"Price DCF Valuation Ratio", func() model.Value { return indicator.PriceDCF(s, as).ValuationRatio }},
		{"Price to Volatility Cost", func() model.Value { return indicator.PriceToVolatilityCost(s) }},
		{"Regulatory Discount", func() model.Value { return indicator.RegulatoryDiscount(s, as.RegulatoryHaircut) }},
		{"Price/Volume Ratio (Alt)", func() model.Value { return indicator.PriceVolumeRatioAlt(s, p.AltVolumeWindow) }},
	}
}

// peerMetrics is the fixed comparison subset evaluated once per asset in
// peer mode. NVT and Mayer feed both their own rows and the speculative
// flag, so they are computed once up front.
func (a *Assembler) peerMetrics(s *model.Series, supply float64) []metric {
	p := a.params
	as := a.assumptions
	as.Supply = supply
	nvt := safeEval(func() model.Value { return indicator.NVTRatio(s, supply) })
	mayer := safeEval(func() model.Value { return indicator.MayerMultiple(s, p.MayerWindow) })
	return []metric{
		{"NVT Ratio", func() model.Value { return nvt }},
		{"Sharpe Ratio", func() model.Value { return indicator.SharpeRatio(s, as) }},
		{"Price/Volume Ratio", func() model.Value { return indicator.PriceVolumeRatio(s) }},
		{"Mayer Multiple", func() model.Value { return mayer }},
		{"Speculative Signal", func() model.Value {
			return indicator.SpeculativeSignal(nvt, mayer, nvtSignalLimit, mayerSignalLimit)
		}},
		{"Price Stability Ratio", func() model.Value { return indicator.PriceStabilityRatio(s) }},
		{"RSI", func() model.Value { return indicator.RSI(s, p.RSIPeriod) }},
		{"MACD Histogram", func() model.Value { return indicator.MACDHistogram(s, p.MACDFast, p.MACDSlow, p.MACDSignal) }},
	}
}

// PeerInput is one asset entering a peer comparison.
type PeerInput struct {
	Series *model.Series
	Supply float64
}

// BuildPeer evaluates the peer metric subset for every asset and
// assembles the metric-by-symbol comparison table. Per-asset evaluations
// are independent, so they run on a bounded worker pool; column order
// follows the symbols slice regardless of completion order.
func (a *Assembler) BuildPeer(ctx context.Context, symbols []string, inputs map[string]PeerInput, workers int) (*model.PeerReport, error) {
	if len(symbols) == 0 {
		return nil, fmt.Errorf("no assets to compare")
	}
	if workers < 1 {
		workers = 1
	}
	if workers > len(symbols) {
		workers = len(symbols)
	}

	columns := make(map[string][]model.Value, len(symbols))
	var mu sync.Mutex
	jobs := make(chan string, len(symbols))
	for _, sym := range symbols {
		jobs <- sym
	}
	close(jobs)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for sym := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
				}
				in, ok := inputs[sym]
				if !ok || in.Series == nil {
					continue
				}
				metrics := a.peerMetrics(in.Series, in.Supply)
				col := make([]model.Value, len(metrics))
				for j, m := range metrics {
					col[j] = safeEval(m.eval)
				}
				mu.Lock()
				columns[sym] = col
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	present := make([]string, 0, len(symbols))
	for _, sym := range symbols {
		if _, ok := columns[sym]; ok {
			present = append(present, sym)
		}
	}
	if len(present) == 0 {
		return nil, fmt.Errorf("no peer columns assembled")
	}
	return &model.PeerReport{
		RunID:   uuid.NewString(),
		Metrics: append([]string(nil), peerMetricNames...),
		Symbols: present,
		Columns: columns,
	}, nil
}

// peerMetricNames fixes the peer row order independently of evaluation.
// It must stay aligned with peerMetrics.
var peerMetricNames = []string{
	"NVT Ratio",
	"Sharpe Ratio",
	"Price/Volume Ratio",
	"Mayer Multiple",
	"Speculative Signal",
	"Price Stability Ratio",
	"RSI",
	"MACD Histogram",
}
