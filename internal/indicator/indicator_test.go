package indicator

import (
	"math"
	"time"

	"coinlens/pkg/model"
)

// seriesFromCloses builds a series where every bar trades flat at its
// close with constant base volume.
func seriesFromCloses(closes []float64) *model.Series {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.Bar, len(closes))
	for i, c := range closes {
		bars[i] = model.Bar{
			Time:   start.AddDate(0, 0, i),
			Open:   c,
			High:   c,
			Low:    c,
			Close:  c,
			Volume: 100,
		}
	}
	return model.NewSeries("TESTUSDT", bars)
}

// constantSeries is n bars all trading flat at price c.
func constantSeries(n int, c float64) *model.Series {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = c
	}
	return seriesFromCloses(closes)
}

// flatZeroSeries is the fully degenerate input: n bars with zero prices
// and zero volume.
func flatZeroSeries(n int) *model.Series {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.Bar, n)
	for i := range bars {
		bars[i] = model.Bar{Time: start.AddDate(0, 0, i)}
	}
	return model.NewSeries("ZEROUSDT", bars)
}

// waveSeries is a deterministic non-trivial OHLCV series: price follows
// a slow sine around base, with highs/lows spread around the close and
// volume oscillating with its own phase.
func waveSeries(n int, base float64) *model.Series {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.Bar, n)
	for i := range bars {
		c := base * (1 + 0.1*math.Sin(float64(i)/7))
		spread := 0.02 * c
		vol := 100 + 50*math.Sin(float64(i)/5)
		bars[i] = model.Bar{
			Time:          start.AddDate(0, 0, i),
			Open:          c - spread/2,
			High:          c + spread,
			Low:           c - spread,
			Close:         c,
			Volume:        vol,
			TakerBuyQuote: 0.6 * vol * c,
		}
	}
	return model.NewSeries("WAVEUSDT", bars)
}
