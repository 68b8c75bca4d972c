package brb

import (
	"github.com/YuminosukeSato/evigo/pkg/errors"
)

// ParamShape is the static shape descriptor of a rule base's trainable
// parameters. It travels alongside every flattened vector so training can
// be resumed from any previously flattened state.
type ParamShape struct {
	Attributes    int   `json:"attributes"`
	AttrRefCounts []int `json:"attribute_ref_counts"`
	Rules         int   `json:"rules"`
	Consequents   int   `json:"consequents"`
}

// FlatLen returns the expected length of a flattened parameter vector:
// rule weights, then attribute weights, then all belief rows in rule order.
func (s ParamShape) FlatLen() int {
	return s.Rules + s.Attributes + s.Rules*s.Consequents
}

// Shape returns the rule base's parameter shape descriptor.
func (rb *RuleBase) Shape() ParamShape {
	counts := make([]int, len(rb.attrs))
	for i, set := range rb.attrs {
		counts[i] = set.Len()
	}
	return ParamShape{
		Attributes:    len(rb.attrs),
		AttrRefCounts: counts,
		Rules:         len(rb.rules),
		Consequents:   rb.output.Len(),
	}
}

// FlattenParameters produces the fixed-order flat vector of all trainable
// parameters together with the shape descriptor needed to invert it.
func (rb *RuleBase) FlattenParameters() ([]float64, ParamShape) {
	shape := rb.Shape()
	flat := make([]float64, 0, shape.FlatLen())

	for k := range rb.rules {
		flat = append(flat, rb.rules[k].Weight)
	}
	flat = append(flat, rb.attrWeights...)
	for k := range rb.rules {
		flat = append(flat, rb.rules[k].Beliefs...)
	}
	return flat, shape
}

// Unflatten reconstructs (rule weights, attribute weights, beliefs) from a
// flat vector. Every entry is projected onto [0,1] and any belief row
// whose sum exceeds 1 is rescaled onto the simplex, so the result is
// always a feasible parameter set; vectors that are already feasible pass
// through unchanged, preserving the flatten/unflatten round-trip law.
func (s ParamShape) Unflatten(flat []float64) (ruleWeights, attrWeights []float64, beliefs [][]float64, err error) {
	if len(flat) != s.FlatLen() {
		return nil, nil, nil, errors.NewShapeMismatchError("ParamShape.Unflatten", "flat_vector", s.FlatLen(), len(flat))
	}

	ruleWeights = make([]float64, s.Rules)
	for k := 0; k < s.Rules; k++ {
		ruleWeights[k] = clamp01(flat[k])
	}

	attrWeights = make([]float64, s.Attributes)
	for i := 0; i < s.Attributes; i++ {
		attrWeights[i] = clamp01(flat[s.Rules+i])
	}

	beliefs = make([][]float64, s.Rules)
	offset := s.Rules + s.Attributes
	for k := 0; k < s.Rules; k++ {
		row := make([]float64, s.Consequents)
		var sum float64
		for j := 0; j < s.Consequents; j++ {
			row[j] = clamp01(flat[offset+k*s.Consequents+j])
			sum += row[j]
		}
		if sum > 1 {
			for j := range row {
				row[j] /= sum
			}
		}
		beliefs[k] = row
	}
	return ruleWeights, attrWeights, beliefs, nil
}

// ApplyFlat unflattens flat and writes the parameters into the rule base
// in one step. Used by the Trainer for its final atomic write-back.
func (rb *RuleBase) ApplyFlat(flat []float64) error {
	ruleWeights, attrWeights, beliefs, err := rb.Shape().Unflatten(flat)
	if err != nil {
		return err
	}
	return rb.SetParameters(ruleWeights, attrWeights, beliefs)
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
