package indicator

import (
	"math"

	"coinlens/internal/stats"
	"coinlens/pkg/model"
)

// BollingerWidth returns the band width (upper minus lower, dev standard
// deviations around the window SMA) relative to the SMA, at the last bar.
// Undefined for series shorter than the window; a zero SMA blows the ratio
// up to the infinite sentinel.
func BollingerWidth(s *model.Series, window int, dev float64) model.Value {
	closes := s.Closes()
	sma := stats.Last(stats.RollingMean(closes, window))
	std := stats.Last(stats.RollingStd(closes, window))
	upper := sma + dev*std
	lower := sma - dev*std
	return model.FromFloat((upper - lower) / sma)
}

// ATR returns the rolling mean of true range at the last bar. True range
// is undefined at the first bar, so the series must be at least period+1
// bars long.
func ATR(s *model.Series, period int) model.Value {
	return model.FromFloat(stats.Last(stats.RollingMean(s.TrueRanges(), period)))
}

// AnnualizedVolatility returns the sample standard deviation of daily
// returns scaled by sqrt(365). A series with fewer than two returns has
// zero volatility by convention.
func AnnualizedVolatility(s *model.Series) model.Value {
	return model.Defined(annualizedVol(s))
}

func annualizedVol(s *model.Series) float64 {
	return stats.SampleStd(s.Returns()) * math.Sqrt(tradingDaysPerYear)
}

// VolatilityReduction compares annualized volatility of the early half of
// the return series against the late half, clamped at zero. Zero early
// volatility yields zero rather than a blown-up ratio.
func VolatilityReduction(s *model.Series) model.Value {
	rts := s.Returns()
	half := len(rts) / 2
	early := stats.SampleStd(rts[:half]) * math.Sqrt(tradingDaysPerYear)
	late := stats.SampleStd(rts[half:]) * math.Sqrt(tradingDaysPerYear)
	if early == 0 {
		return model.Defined(0)
	}
	return model.FromFloat(math.Max(0, (early-late)/early))
}

// PriceStabilityRatio returns mean price over annualized volatility.
// Zero volatility is the infinite sentinel.
func PriceStabilityRatio(s *model.Series) model.Value {
	vol := annualizedVol(s)
	if vol == 0 {
		return model.Infinite()
	}
	return model.FromFloat(stats.Mean(s.Closes()) / vol)
}

// PriceToVolatilityCost returns the last close over its volatility
// opportunity cost (close times annualized volatility). A zero cost is
// the infinite sentinel.
func PriceToVolatilityCost(s *model.Series) model.Value {
	if s.Len() == 0 {
		return model.Undefined()
	}
	price := s.Last().Close
	cost := price * annualizedVol(s)
	if cost == 0 {
		return model.Infinite()
	}
	return model.FromFloat(price / cost)
}
