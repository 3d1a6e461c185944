package model

import (
	"math"
	"time"
)

// Bar represents a single daily candlestick (OHLCV data).
// TakerBuyQuote is the taker-buy quote-asset volume reported by the
// exchange, used as a buy/sell composition proxy.
type Bar struct {
	Time          time.Time `json:"time"`
	Open          float64   `json:"open"`
	High          float64   `json:"high"`
	Low           float64   `json:"low"`
	Close         float64   `json:"close"`
	Volume        float64   `json:"volume"`
	TakerBuyQuote float64   `json:"taker_buy_quote"`
}

// Series is an ordered daily bar sequence for one asset. Timestamps are
// strictly increasing, one bar per day. A Series is never mutated after
// construction; indicators only read from it.
type Series struct {
	Symbol string `json:"symbol"`
	Bars   []Bar  `json:"bars"`
}

// NewSeries creates a Series over the given bars.
func NewSeries(symbol string, bars []Bar) *Series {
	return &Series{Symbol: symbol, Bars: bars}
}

// Len returns the number of bars.
func (s *Series) Len() int {
	return len(s.Bars)
}

// Last returns the most recent bar.
func (s *Series) Last() Bar {
	return s.Bars[len(s.Bars)-1]
}

// Closes returns the close column.
func (s *Series) Closes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Close
	}
	return out
}

// Highs returns the high column.
func (s *Series) Highs() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.High
	}
	return out
}

// Lows returns the low column.
func (s *Series) Lows() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Low
	}
	return out
}

// Volumes returns the base-asset volume column.
func (s *Series) Volumes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Volume
	}
	return out
}

// QuoteVolumes returns volume expressed in the quote asset (volume * close).
func (s *Series) QuoteVolumes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Volume * b.Close
	}
	return out
}

// TakerBuyQuotes returns the taker-buy quote volume column.
func (s *Series) TakerBuyQuotes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.TakerBuyQuote
	}
	return out
}

// TypicalPrices returns (high+low+close)/3 per bar.
func (s *Series) TypicalPrices() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = (b.High + b.Low + b.Close) / 3
	}
	return out
}

// TrueRanges returns the true range column. The first element is NaN:
// true range needs the previous close.
func (s *Series) TrueRanges() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		if i == 0 {
			out[i] = math.NaN()
			continue
		}
		prev := s.Bars[i-1].Close
		tr := b.High - b.Low
		if hc := math.Abs(b.High - prev); hc > tr {
			tr = hc
		}
		if lc := math.Abs(b.Low - prev); lc > tr {
			tr = lc
		}
		out[i] = tr
	}
	return out
}

// Returns returns daily percentage returns, close over previous close,
// with the leading undefined element dropped. Length is Len()-1 for a
// series of at least two bars. Degenerate divisions (previous close of
// zero) produce NaN entries which are dropped as well, matching a
// dropna over pct_change.
func (s *Series) Returns() []float64 {
	if len(s.Bars) < 2 {
		return nil
	}
	out := make([]float64, 0, len(s.Bars)-1)
	for i := 1; i < len(s.Bars); i++ {
		r := s.Bars[i].Close/s.Bars[i-1].Close - 1
		if math.IsNaN(r) {
			continue
		}
		out = append(out, r)
	}
	return out
}
