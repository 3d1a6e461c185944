package indicator

import (
	"math"

	"coinlens/internal/stats"
	"coinlens/pkg/model"
)

// NVTRatio returns the mean over the series of market cap (close times
// circulating supply) to daily quote volume. Any bar with zero quote
// volume blows the per-bar ratio up, so the whole mean is the infinite
// sentinel.
func NVTRatio(s *model.Series, supply float64) model.Value {
	if s.Len() == 0 {
		return model.Undefined()
	}
	var sum float64
	for _, b := range s.Bars {
		qv := b.Volume * b.Close
		if qv == 0 {
			return model.Infinite()
		}
		sum += b.Close * supply / qv
	}
	return model.FromFloat(sum / float64(s.Len()))
}

// PriceVolumeRatio returns the last close over mean quote volume. Zero
// mean volume is the infinite sentinel.
func PriceVolumeRatio(s *model.Series) model.Value {
	if s.Len() == 0 {
		return model.Undefined()
	}
	avg := stats.Mean(s.QuoteVolumes())
	if avg == 0 {
		return model.Infinite()
	}
	return model.FromFloat(s.Last().Close / avg)
}

// PriceVolumeRatioAlt is PriceVolumeRatio over the recent window only
// (last window bars, or the whole series when shorter).
func PriceVolumeRatioAlt(s *model.Series, window int) model.Value {
	if s.Len() == 0 {
		return model.Undefined()
	}
	qv := s.QuoteVolumes()
	if len(qv) > window {
		qv = qv[len(qv)-window:]
	}
	recent := stats.Mean(qv)
	if recent == 0 {
		return model.Infinite()
	}
	return model.FromFloat(s.Last().Close / recent)
}

// MarketCapGrowth returns the single-period compound growth rate of
// market cap, first bar to last. A zero starting cap is the infinite
// sentinel.
func MarketCapGrowth(s *model.Series, supply, years float64) model.Value {
	if s.Len() == 0 {
		return model.Undefined()
	}
	start := s.Bars[0].Close * supply
	end := s.Last().Close * supply
	if start == 0 {
		return model.Infinite()
	}
	return model.FromFloat(math.Pow(end/start, 1/years) - 1)
}

// LiquidityRatio returns mean daily quote volume over current market cap.
// A zero market cap is the infinite sentinel.
func LiquidityRatio(s *model.Series, supply float64) model.Value {
	if s.Len() == 0 {
		return model.Undefined()
	}
	cap := s.Last().Close * supply
	if cap == 0 {
		return model.Infinite()
	}
	return model.FromFloat(stats.Mean(s.QuoteVolumes()) / cap)
}

// MayerMultiple returns the last close over its trailing moving average
// (conventionally 200 days). Insufficient history is Undefined; a zero
// moving average is the infinite sentinel.
func MayerMultiple(s *model.Series, window int) model.Value {
	ma := stats.Last(stats.RollingMean(s.Closes(), window))
	if math.IsNaN(ma) {
		return model.Undefined()
	}
	if ma == 0 {
		return model.Infinite()
	}
	return model.FromFloat(s.Last().Close / ma)
}

// SharpeRatio returns the annualized mean-over-std of daily excess
// returns, where excess is the daily return plus daily staking yield
// minus the daily risk-free rate. Zero dispersion is the infinite
// sentinel.
func SharpeRatio(s *model.Series, a Assumptions) model.Value {
	rts := s.Returns()
	excess := make([]float64, len(rts))
	for i, r := range rts {
		excess[i] = r + a.StakingAPY/tradingDaysPerYear - a.RiskFreeRate/tradingDaysPerYear
	}
	std := stats.SampleStd(excess)
	if std == 0 {
		return model.Infinite()
	}
	return model.FromFloat(stats.Mean(excess) / std * math.Sqrt(tradingDaysPerYear))
}

// CUV returns current utility value: market cap over mean quote volume.
// Zero mean volume is the infinite sentinel.
func CUV(s *model.Series, supply float64) model.Value {
	if s.Len() == 0 {
		return model.Undefined()
	}
	avg := stats.Mean(s.QuoteVolumes())
	if avg == 0 {
		return model.Infinite()
	}
	return model.FromFloat(s.Last().Close * supply / avg)
}

// DEUV returns the discounted expected utility value: market cap over the
// discounted sum of projected quote volume across the horizon. A zero
// discounted sum is the infinite sentinel.
func DEUV(s *model.Series, a Assumptions) model.Value {
	if s.Len() == 0 {
		return model.Undefined()
	}
	cap := s.Last().Close * a.Supply
	current := stats.Mean(s.QuoteVolumes())
	var discounted float64
	for t := 1; t <= a.HorizonYears; t++ {
		future := current * math.Pow(1+a.GrowthRate, float64(t))
		discounted += future / math.Pow(1+a.DiscountRate, float64(t))
	}
	if discounted == 0 {
		return model.Infinite()
	}
	return model.FromFloat(cap / discounted)
}

// DCFResult pairs the price-DCF intrinsic value with its valuation ratio.
type DCFResult struct {
	IntrinsicValue model.Value
	ValuationRatio model.Value
}

// PriceDCF projects the last close forward at the DCF growth rate,
// discounts the projection, and compares the discounted sum against the
// current price. A zero current price makes the ratio the infinite
// sentinel.
func PriceDCF(s *model.Series, a Assumptions) DCFResult {
	if s.Len() == 0 {
		return DCFResult{IntrinsicValue: model.Undefined(), ValuationRatio: model.Undefined()}
	}
	price := s.Last().Close
	var discounted float64
	for t := 1; t <= a.HorizonYears; t++ {
		future := price * math.Pow(1+a.DCFGrowthRate, float64(t))
		discounted += future / math.Pow(1+a.DCFDiscountRate, float64(t))
	}
	ratio := model.Infinite()
	if price != 0 {
		ratio = model.FromFloat(discounted / price)
	}
	return DCFResult{
		IntrinsicValue: model.FromFloat(discounted),
		ValuationRatio: ratio,
	}
}

// VolatilityAdjustedMarketCap deflates current market cap by one plus
// annualized volatility. Zero volatility leaves the cap unadjusted.
func VolatilityAdjustedMarketCap(s *model.Series, supply float64) model.Value {
	if s.Len() == 0 {
		return model.Undefined()
	}
	cap := s.Last().Close * supply
	vol := annualizedVol(s)
	if vol == 0 {
		return model.Defined(cap)
	}
	return model.FromFloat(cap / (1 + vol))
}

// TurnoverRatio returns total quote volume over circulating supply. A
// zero supply is the infinite sentinel.
func TurnoverRatio(s *model.Series, supply float64) model.Value {
	if supply == 0 {
		return model.Infinite()
	}
	var total float64
	for _, b := range s.Bars {
		total += b.Volume * b.Close
	}
	return model.FromFloat(total / supply)
}

// VolumeToPriceRatio returns mean quote volume over the last close. A
// zero close is the infinite sentinel.
func VolumeToPriceRatio(s *model.Series) model.Value {
	if s.Len() == 0 {
		return model.Undefined()
	}
	price := s.Last().Close
	if price == 0 {
		return model.Infinite()
	}
	return model.FromFloat(stats.Mean(s.QuoteVolumes()) / price)
}

// RiskAdjustedVolumeDiscount deflates mean quote volume by a CAPM-style
// discount rate scaled by annualized volatility, and reports the deflated
// fraction. Zero mean volume yields zero.
func RiskAdjustedVolumeDiscount(s *model.Series, a Assumptions) model.Value {
	avg := stats.Mean(s.QuoteVolumes())
	if avg == 0 {
		return model.Defined(0)
	}
	rate := a.RiskFreeRate + a.Beta*a.MarketRiskPremium
	adjusted := avg / (1 + rate*annualizedVol(s))
	return model.FromFloat(adjusted / avg)
}

// RegulatoryDiscount returns the last close after the configured haircut.
func RegulatoryDiscount(s *model.Series, haircut float64) model.Value {
	if s.Len() == 0 {
		return model.Undefined()
	}
	return model.Defined(s.Last().Close * (1 - haircut))
}

// PriceCorrelation correlates daily returns against the market proxy.
// The proxy is currently the asset's own return series, so the result is
// 1 for any series with non-constant returns and Undefined otherwise;
// the degenerate behavior is kept on purpose until a real market series
// is wired in.
func PriceCorrelation(s *model.Series) model.Value {
	rts := s.Returns()
	return model.FromFloat(stats.Corr(rts, rts))
}

// SpeculativeSignal is the binary overheating flag: 1 when NVT exceeds
// nvtLimit or the Mayer multiple exceeds mayerLimit, else 0. The infinite
// sentinel counts as exceeding any threshold.
func SpeculativeSignal(nvt, mayer model.Value, nvtLimit, mayerLimit float64) model.Value {
	if exceeds(nvt, nvtLimit) || exceeds(mayer, mayerLimit) {
		return model.Defined(1)
	}
	return model.Defined(0)
}

func exceeds(v model.Value, limit float64) bool {
	if v.IsInfinite() {
		return true
	}
	f, ok := v.Float()
	return ok && f > limit
}
