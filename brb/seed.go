package brb

import (
	"github.com/YuminosukeSato/evigo/pkg/errors"
)

// SeedStrategy initializes the tunable parameters of a freshly built rule
// base. Seeding is a construction-time concern only; inference never
// depends on it.
type SeedStrategy interface {
	apply(rb *RuleBase) error
}

// SeedFromFunc seeds the rule base from a known reference function. The
// function is evaluated at every rule's antecedent reference combination
// and the result is projected onto the two nearest output references with
// interpolation weights, which become that rule's belief distribution.
func SeedFromFunc(f func(x []float64) float64) SeedStrategy {
	return funcSeed{f: f}
}

type funcSeed struct {
	f func(x []float64) float64
}

func (s funcSeed) apply(rb *RuleBase) error {
	for k := range rb.rules {
		out := s.f(rb.antecedentValues(k))

		// Project onto the output grid exactly like input matching does:
		// exact hits load one reference, everything else splits between
		// the bracketing pair, out-of-range values clamp to the edge.
		m := matchValue(rb.output, out)
		beliefs := rb.rules[k].Beliefs
		for j := range beliefs {
			beliefs[j] = 0
		}
		beliefs[m.LowIndex] = m.LowDegree
		beliefs[m.HighIndex] += m.HighDegree

		rb.rules[k].Weight = 1
	}
	return nil
}

// SeedFromParameters seeds the rule base with explicit rule weights,
// attribute weights, and per-rule belief distributions. Shape mismatches
// fail construction.
func SeedFromParameters(ruleWeights, attrWeights []float64, beliefs [][]float64) SeedStrategy {
	return paramSeed{ruleWeights: ruleWeights, attrWeights: attrWeights, beliefs: beliefs}
}

type paramSeed struct {
	ruleWeights []float64
	attrWeights []float64
	beliefs     [][]float64
}

func (s paramSeed) apply(rb *RuleBase) error {
	if err := rb.SetParameters(s.ruleWeights, s.attrWeights, s.beliefs); err != nil {
		return errors.Wrap(err, "seeding from explicit parameters")
	}
	return nil
}
