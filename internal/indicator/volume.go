package indicator

import (
	"math"

	"coinlens/internal/stats"
	"coinlens/pkg/model"
)

// OBV returns on-balance volume at the last bar: the cumulative sum of
// volume signed by the close-to-close direction. A zero or unknown change
// counts as a down tick, first bar included — this mirrors the upstream
// convention and is deliberate, not a bug to fix.
func OBV(s *model.Series) model.Value {
	if s.Len() == 0 {
		return model.Undefined()
	}
	signed := make([]float64, s.Len())
	for i, b := range s.Bars {
		sign := -1.0
		if i > 0 && b.Close > s.Bars[i-1].Close {
			sign = 1.0
		}
		signed[i] = sign * b.Volume
	}
	return model.FromFloat(stats.Last(stats.CumSum(signed)))
}

// VWAP returns the volume-weighted average price at the last bar:
// cumulative typical price times volume over cumulative volume.
func VWAP(s *model.Series) model.Value {
	tp := s.TypicalPrices()
	vols := s.Volumes()
	weighted := make([]float64, len(tp))
	for i := range tp {
		weighted[i] = tp[i] * vols[i]
	}
	num := stats.Last(stats.CumSum(weighted))
	den := stats.Last(stats.CumSum(vols))
	return model.FromFloat(num / den)
}

// VolumeOscillator returns the spread between the short and long rolling
// mean of base volume, relative to the long mean, in percent. Undefined
// until the long window is filled.
func VolumeOscillator(s *model.Series, short, long int) model.Value {
	vols := s.Volumes()
	shortMA := stats.Last(stats.RollingMean(vols, short))
	longMA := stats.Last(stats.RollingMean(vols, long))
	return model.FromFloat((shortMA - longMA) / longMA * 100)
}

// VolumeCAGR returns the single-period compound growth rate of quote
// volume, first bar to last. A zero starting volume is the infinite
// sentinel.
func VolumeCAGR(s *model.Series, years float64) model.Value {
	qv := s.QuoteVolumes()
	if len(qv) == 0 {
		return model.Undefined()
	}
	start, end := qv[0], qv[len(qv)-1]
	if start == 0 {
		return model.Infinite()
	}
	return model.FromFloat(math.Pow(end/start, 1/years) - 1)
}

// VolumeMomentum compares mean quote volume of the late half of the
// series against the early half. A zero early-half mean is the infinite
// sentinel.
func VolumeMomentum(s *model.Series) model.Value {
	qv := s.QuoteVolumes()
	half := len(qv) / 2
	early := stats.Mean(qv[:half])
	late := stats.Mean(qv[half:])
	if early == 0 {
		return model.Infinite()
	}
	return model.FromFloat((late - early) / early)
}

// VolumeSplit is the taker buy/sell composition of total quote volume.
type VolumeSplit struct {
	Buy  model.Value
	Sell model.Value
}

// VolumeComposition splits total quote volume into taker-buy and
// taker-sell fractions. An all-zero series yields zero fractions.
func VolumeComposition(s *model.Series) VolumeSplit {
	var buy, total float64
	for _, b := range s.Bars {
		buy += b.TakerBuyQuote
		total += b.Volume * b.Close
	}
	if total == 0 {
		return VolumeSplit{Buy: model.Defined(0), Sell: model.Defined(0)}
	}
	return VolumeSplit{
		Buy:  model.FromFloat(buy / total),
		Sell: model.FromFloat((total - buy) / total),
	}
}

// TradingVolume returns mean daily quote volume.
func TradingVolume(s *model.Series) model.Value {
	return model.FromFloat(stats.Mean(s.QuoteVolumes()))
}

// VolumeVolatility returns the coefficient of variation of quote volume.
// A zero mean yields zero rather than a blown-up ratio.
func VolumeVolatility(s *model.Series) model.Value {
	qv := s.QuoteVolumes()
	mean := stats.Mean(qv)
	if mean == 0 {
		return model.Defined(0)
	}
	return model.FromFloat(stats.SampleStd(qv) / mean)
}
