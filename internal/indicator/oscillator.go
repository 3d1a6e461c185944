package indicator

import (
	"coinlens/internal/stats"
	"coinlens/pkg/model"
)

// gainsLosses splits close-to-close changes into gain and loss columns.
// Index 0 has no previous close; both columns hold zero there, matching a
// where-clause over an undefined first difference.
func gainsLosses(closes []float64) (gains, losses []float64) {
	gains = make([]float64, len(closes))
	losses = make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gains[i] = delta
		} else if delta < 0 {
			losses[i] = -delta
		}
	}
	return gains, losses
}

// RSI returns the relative strength index at the last bar, from rolling
// mean gain over rolling mean loss. A window with gains but no losses
// saturates at 100; a windowless series is Undefined.
func RSI(s *model.Series, period int) model.Value {
	gains, losses := gainsLosses(s.Closes())
	avgGain := stats.Last(stats.RollingMean(gains, period))
	avgLoss := stats.Last(stats.RollingMean(losses, period))
	rs := avgGain / avgLoss
	return model.FromFloat(100 - 100/(1+rs))
}

// CMO returns the Chande momentum oscillator at the last bar: the rolling
// gain/loss sum spread over their total, scaled to ±100. A flat window
// (zero denominator) is Undefined.
func CMO(s *model.Series, period int) model.Value {
	gains, losses := gainsLosses(s.Closes())
	upSum := stats.Last(stats.RollingSum(gains, period))
	downSum := stats.Last(stats.RollingSum(losses, period))
	return model.FromFloat(100 * (upSum - downSum) / (upSum + downSum))
}

// StochasticK returns the stochastic %K at the last bar: the close's
// position inside the trailing high/low range, scaled to [0,100]. A
// degenerate range propagates as a sentinel.
func StochasticK(s *model.Series, period int) model.Value {
	low := stats.Last(stats.RollingMin(s.Lows(), period))
	high := stats.Last(stats.RollingMax(s.Highs(), period))
	close := stats.Last(s.Closes())
	return model.FromFloat(100 * (close - low) / (high - low))
}

// WilliamsR returns Williams %R at the last bar, the inverted stochastic
// scaled to [-100,0].
func WilliamsR(s *model.Series, period int) model.Value {
	low := stats.Last(stats.RollingMin(s.Lows(), period))
	high := stats.Last(stats.RollingMax(s.Highs(), period))
	close := stats.Last(s.Closes())
	return model.FromFloat(-100 * (high - close) / (high - low))
}
