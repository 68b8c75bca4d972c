package brb

import (
	"github.com/YuminosukeSato/evigo/pkg/errors"
)

// ReferentialSet holds the ordered reference values that discretize one
// attribute's (or the output's) continuous domain.
type ReferentialSet struct {
	name   string
	values []float64
}

// NewReferentialSet validates values and builds a referential set.
// At least 2 strictly increasing values are required so that interpolation
// between neighbors is always defined.
func NewReferentialSet(name string, values []float64) (*ReferentialSet, error) {
	if len(values) < 2 {
		return nil, errors.NewReferentialSetError(name, "at least 2 reference values required", values)
	}
	for i := 1; i < len(values); i++ {
		if values[i] <= values[i-1] {
			return nil, errors.NewReferentialSetError(name, "values must be strictly increasing", values)
		}
	}
	vals := make([]float64, len(values))
	copy(vals, values)
	return &ReferentialSet{name: name, values: vals}, nil
}

// Name returns the set's identifier (e.g. "attribute[0]", "output").
func (s *ReferentialSet) Name() string { return s.name }

// Len returns the number of reference values.
func (s *ReferentialSet) Len() int { return len(s.values) }

// At returns the reference value at index i.
func (s *ReferentialSet) At(i int) float64 { return s.values[i] }

// Values returns a copy of all reference values.
func (s *ReferentialSet) Values() []float64 {
	vals := make([]float64, len(s.values))
	copy(vals, s.values)
	return vals
}

// Locate returns the indices of the reference pair bracketing v.
// Values outside the referential range clamp to the outermost segment, so
// the returned pair is always valid for interpolation.
func (s *ReferentialSet) Locate(v float64) (lo, hi int) {
	n := len(s.values)
	if v <= s.values[0] {
		return 0, 1
	}
	if v >= s.values[n-1] {
		return n - 2, n - 1
	}
	// Linear scan; referential sets are small by construction.
	for i := 1; i < n; i++ {
		if v <= s.values[i] {
			return i - 1, i
		}
	}
	return n - 2, n - 1
}
