// Package query turns free-text analysis requests into structured run
// parameters. The grammar is deliberately loose: the coin and analysis
// names are matched anywhere in the text, and the date range comes from
// either a trailing "last N days/months/years" or an explicit
// "from YYYY-MM-DD to YYYY-MM-DD" span.
package query

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"coinlens/internal/report"
)

// DefaultDays is the lookback used when a query names no range.
const DefaultDays = 365

// Request is a parsed analysis query.
type Request struct {
	Coin     string
	Analysis report.Profile
	Days     int
	Start    time.Time
	End      time.Time
}

// HasDateRange reports whether the query carried an explicit span.
func (r Request) HasDateRange() bool {
	return !r.Start.IsZero() && !r.End.IsZero()
}

var (
	lastRangeRe = regexp.MustCompile(`last (\d+) (days?|months?|years?)`)
	spanRe      = regexp.MustCompile(`from (\d{4}-\d{2}-\d{2}) to (\d{4}-\d{2}-\d{2})`)
)

var unitDays = map[string]int{
	"day":   1,
	"month": 30,
	"year":  365,
}

// Parse extracts coin, analysis profile and date range from a free-text
// query. coins is the supported coin name set in display order; matching
// is case-insensitive and also accepts the name embedded in a trading
// symbol (e.g. "btc" inside "BTCUSDT").
func Parse(text string, coins []string) (Request, error) {
	q := strings.ToLower(strings.TrimSpace(text))
	req := Request{Days: DefaultDays}

	for _, coin := range coins {
		if strings.Contains(q, strings.ToLower(coin)) {
			req.Coin = coin
			break
		}
	}
	if req.Coin == "" {
		return Request{}, fmt.Errorf("no supported coin in query (supported: %s)", strings.Join(coins, ", "))
	}

	// Peer first so "peer" wins over a profile name appearing later.
	found := false
	for _, p := range []report.Profile{report.Peer, report.Fundamental, report.Quantitative, report.Technical} {
		if strings.Contains(q, p.String()) {
			req.Analysis = p
			found = true
			break
		}
	}
	if !found {
		return Request{}, fmt.Errorf("no analysis type in query (want technical, fundamental, quantitative or peer)")
	}

	if m := lastRangeRe.FindStringSubmatch(q); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return Request{}, fmt.Errorf("parsing range %q: %w", m[0], err)
		}
		req.Days = n * unitDays[strings.TrimSuffix(m[2], "s")]
	} else if m := spanRe.FindStringSubmatch(q); m != nil {
		start, err := time.Parse("2006-01-02", m[1])
		if err != nil {
			return Request{}, fmt.Errorf("parsing start date %q: %w", m[1], err)
		}
		end, err := time.Parse("2006-01-02", m[2])
		if err != nil {
			return Request{}, fmt.Errorf("parsing end date %q: %w", m[2], err)
		}
		if end.Before(start) {
			return Request{}, fmt.Errorf("date range ends before it starts (%s to %s)", m[1], m[2])
		}
		req.Start = start
		req.End = end
	}

	return req, nil
}

// DateRange resolves the request into concrete start/end times. An
// explicit span wins; otherwise the range counts Days back from now.
func (r Request) DateRange(now time.Time) (time.Time, time.Time) {
	if r.HasDateRange() {
		return r.Start, r.End
	}
	days := r.Days
	if days <= 0 {
		days = DefaultDays
	}
	return now.AddDate(0, 0, -days), now
}
