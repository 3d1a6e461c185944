// Package report turns a bar series into the ordered metric table that is
// the analysis pipeline's sole output contract. Profiles are a closed set;
// each maps to a fixed, declaration-ordered list of metrics so report row
// order is deterministic across runs.
package report

import "fmt"

// Profile selects which metric family an analysis run evaluates.
type Profile int

const (
	// Technical covers trend, momentum, volatility and volume indicators.
	Technical Profile = iota
	// Fundamental covers valuation and liquidity metrics.
	Fundamental
	// Quantitative covers the full risk/valuation battery.
	Quantitative
	// Peer evaluates a fixed comparison subset across multiple assets.
	Peer
)

var profileNames = map[Profile]string{
	Technical:    "technical",
	Fundamental:  "fundamental",
	Quantitative: "quantitative",
	Peer:         "peer",
}

// String returns the profile's canonical lowercase name.
func (p Profile) String() string {
	if name, ok := profileNames[p]; ok {
		return name
	}
	return fmt.Sprintf("profile(%d)", int(p))
}

// ParseProfile maps a user-supplied analysis name onto the closed profile
// set.
func ParseProfile(name string) (Profile, error) {
	for p, n := range profileNames {
		if n == name {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown analysis profile %q (want technical, fundamental, quantitative or peer)", name)
}

// Profiles lists all profiles in declaration order.
func Profiles() []Profile {
	return []Profile{Technical, Fundamental, Quantitative, Peer}
}
