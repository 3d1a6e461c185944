// Package stats provides the rolling-window and smoothing primitives the
// indicator catalog is built from. All functions are pure and operate on
// plain float64 columns; warm-up regions and degenerate inputs are
// represented with NaN, which callers convert to explicit sentinels at the
// report boundary.
package stats

import "math"

// RollingMean returns the trailing w-mean at every index. Indexes below
// w-1, and any window containing NaN, yield NaN.
func RollingMean(xs []float64, w int) []float64 {
	return rolling(xs, w, func(win []float64) float64 {
		var sum float64
		for _, x := range win {
			sum += x
		}
		return sum / float64(len(win))
	})
}

// RollingStd returns the trailing w sample standard deviation (w-1
// denominator) at every index.
func RollingStd(xs []float64, w int) []float64 {
	return rolling(xs, w, func(win []float64) float64 {
		return SampleStd(win)
	})
}

// RollingSum returns the trailing w-sum at every index.
func RollingSum(xs []float64, w int) []float64 {
	return rolling(xs, w, func(win []float64) float64 {
		var sum float64
		for _, x := range win {
			sum += x
		}
		return sum
	})
}

// RollingMin returns the trailing w-minimum at every index.
func RollingMin(xs []float64, w int) []float64 {
	return rolling(xs, w, func(win []float64) float64 {
		m := win[0]
		for _, x := range win[1:] {
			if x < m {
				m = x
			}
		}
		return m
	})
}

// RollingMax returns the trailing w-maximum at every index.
func RollingMax(xs []float64, w int) []float64 {
	return rolling(xs, w, func(win []float64) float64 {
		m := win[0]
		for _, x := range win[1:] {
			if x > m {
				m = x
			}
		}
		return m
	})
}

func rolling(xs []float64, w int, agg func([]float64) float64) []float64 {
	out := make([]float64, len(xs))
	for i := range xs {
		if i < w-1 {
			out[i] = math.NaN()
			continue
		}
		win := xs[i-w+1 : i+1]
		if containsNaN(win) {
			out[i] = math.NaN()
			continue
		}
		out[i] = agg(win)
	}
	return out
}

func containsNaN(xs []float64) bool {
	for _, x := range xs {
		if math.IsNaN(x) {
			return true
		}
	}
	return false
}

// EMA returns the exponential moving average with alpha = 2/(span+1),
// seeded with the first observation. Unlike the simple rolling stats it
// has no warm-up gap: every index is defined.
func EMA(xs []float64, span int) []float64 {
	out := make([]float64, len(xs))
	if len(xs) == 0 {
		return out
	}
	alpha := 2.0 / float64(span+1)
	out[0] = xs[0]
	for i := 1; i < len(xs); i++ {
		out[i] = alpha*xs[i] + (1-alpha)*out[i-1]
	}
	return out
}

// CumSum returns the left-to-right running sum, defined at every index.
func CumSum(xs []float64) []float64 {
	out := make([]float64, len(xs))
	var sum float64
	for i, x := range xs {
		sum += x
		out[i] = sum
	}
	return out
}

// Diff returns xs[i] - xs[i-1] with NaN at index 0.
func Diff(xs []float64) []float64 {
	out := make([]float64, len(xs))
	if len(xs) == 0 {
		return out
	}
	out[0] = math.NaN()
	for i := 1; i < len(xs); i++ {
		out[i] = xs[i] - xs[i-1]
	}
	return out
}

// Mean returns the arithmetic mean, NaN for an empty slice.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// SampleStd returns the sample standard deviation (n-1 denominator).
// Fewer than two observations yield 0, so downstream zero-denominator
// guards treat a too-short return series the same as a constant one.
func SampleStd(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := Mean(xs)
	var ss float64
	for _, x := range xs {
		d := x - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}

// Corr returns the Pearson correlation of two equal-length columns. A
// zero-variance column makes the result NaN.
func Corr(xs, ys []float64) float64 {
	if len(xs) != len(ys) || len(xs) == 0 {
		return math.NaN()
	}
	mx, my := Mean(xs), Mean(ys)
	var sxy, sxx, syy float64
	for i := range xs {
		dx, dy := xs[i]-mx, ys[i]-my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	return sxy / math.Sqrt(sxx*syy)
}

// Last returns the final element, NaN for an empty slice.
func Last(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	return xs[len(xs)-1]
}
