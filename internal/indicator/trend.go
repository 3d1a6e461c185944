package indicator

import (
	"coinlens/internal/stats"
	"coinlens/pkg/model"
)

// SMA returns the trailing simple moving average of closes at the last
// bar. Undefined when the series is shorter than the window.
func SMA(s *model.Series, window int) model.Value {
	return model.FromFloat(stats.Last(stats.RollingMean(s.Closes(), window)))
}

// EMA returns the exponential moving average of closes at the last bar.
// The recurrence is seeded with the first close, so it is defined for any
// non-empty series.
func EMA(s *model.Series, span int) model.Value {
	return model.FromFloat(stats.Last(stats.EMA(s.Closes(), span)))
}

// MACDHistogram returns the MACD line (fast EMA minus slow EMA) minus its
// own signal EMA, at the last bar.
func MACDHistogram(s *model.Series, fast, slow, signalSpan int) model.Value {
	closes := s.Closes()
	emaFast := stats.EMA(closes, fast)
	emaSlow := stats.EMA(closes, slow)
	macd := make([]float64, len(closes))
	for i := range macd {
		macd[i] = emaFast[i] - emaSlow[i]
	}
	signal := stats.EMA(macd, signalSpan)
	return model.FromFloat(stats.Last(macd) - stats.Last(signal))
}

// ROC returns the rate of change of close over the given period, in
// percent. Undefined when the series has no bar a full period back.
func ROC(s *model.Series, period int) model.Value {
	closes := s.Closes()
	if len(closes) <= period {
		return model.Undefined()
	}
	base := closes[len(closes)-1-period]
	return model.FromFloat((closes[len(closes)-1] - base) / base * 100)
}

// Momentum returns the raw close difference over the given period.
// Undefined when the series has no bar a full period back.
func Momentum(s *model.Series, period int) model.Value {
	closes := s.Closes()
	if len(closes) <= period {
		return model.Undefined()
	}
	return model.Defined(closes[len(closes)-1] - closes[len(closes)-1-period])
}

// ChannelBreakout compares the last close against the trailing channel of
// highs and lows (current bar inclusive): 1 above the channel high, -1
// below the channel low, 0 inside. Undefined for series shorter than the
// window.
func ChannelBreakout(s *model.Series, window int) model.Value {
	if s.Len() < window {
		return model.Undefined()
	}
	high := stats.Last(stats.RollingMax(s.Highs(), window))
	low := stats.Last(stats.RollingMin(s.Lows(), window))
	close := s.Last().Close
	switch {
	case close > high:
		return model.Defined(1)
	case close < low:
		return model.Defined(-1)
	default:
		return model.Defined(0)
	}
}

// PriceMomentum returns the full-period fractional price change, first
// close to last close.
func PriceMomentum(s *model.Series) model.Value {
	if s.Len() == 0 {
		return model.Undefined()
	}
	first := s.Bars[0].Close
	return model.FromFloat((s.Last().Close - first) / first)
}
