package brb

import (
	"github.com/YuminosukeSato/evigo/pkg/errors"
)

// Match holds the matching result for one attribute and one input value:
// the bracketing reference indices and their interpolation degrees.
// LowDegree + HighDegree == 1 always; degree is 0 at every other index.
type Match struct {
	LowIndex   int
	HighIndex  int
	LowDegree  float64
	HighDegree float64
}

// DegreeAt returns the matching degree at reference index idx.
func (m Match) DegreeAt(idx int) float64 {
	switch idx {
	case m.LowIndex:
		return m.LowDegree
	case m.HighIndex:
		return m.HighDegree
	default:
		return 0
	}
}

// matchValue computes linear-interpolation matching degrees for v against
// the referential set. Exact hits get degree 1 on that reference. Values
// outside the range clamp to the nearest edge reference with degree 1;
// this is the deliberate extrapolation policy, not an error.
func matchValue(set *ReferentialSet, v float64) Match {
	lo, hi := set.Locate(v)
	loVal, hiVal := set.At(lo), set.At(hi)

	switch {
	case v <= loVal:
		return Match{LowIndex: lo, HighIndex: hi, LowDegree: 1, HighDegree: 0}
	case v >= hiVal:
		return Match{LowIndex: lo, HighIndex: hi, LowDegree: 0, HighDegree: 1}
	default:
		high := (v - loVal) / (hiVal - loVal)
		return Match{LowIndex: lo, HighIndex: hi, LowDegree: 1 - high, HighDegree: high}
	}
}

// matchInput matches a raw input vector against the attribute referential
// sets, one Match per attribute.
func matchInput(attrs []*ReferentialSet, x []float64) ([]Match, error) {
	if len(x) != len(attrs) {
		return nil, errors.NewDimensionError("brb.matchInput", len(attrs), len(x), 1)
	}
	matches := make([]Match, len(attrs))
	for i, set := range attrs {
		matches[i] = matchValue(set, x[i])
	}
	return matches, nil
}
