package brb

import (
	"fmt"

	"github.com/YuminosukeSato/evigo/pkg/errors"
)

// Prediction is the immutable result of one inference call: the output
// belief distribution plus the input-side matching provenance that
// produced it.
type Prediction struct {
	// OutputRefs are the output reference values, aligned with Beliefs.
	OutputRefs []float64

	// Beliefs is the aggregated belief distribution. Degrees lie in [0,1]
	// and sum to at most 1; the residual is unresolved ignorance.
	Beliefs []float64

	// MatchedRefs holds, per attribute, the bracketing reference values
	// the input matched against.
	MatchedRefs [][]float64

	// MatchedDegrees holds, per attribute, the matching degrees aligned
	// with MatchedRefs. Each pair sums to 1.
	MatchedDegrees [][]float64
}

// Expectation defuzzifies the belief distribution into a scalar: the
// belief-weighted sum of output references. Unassigned mass contributes
// nothing.
func (p *Prediction) Expectation() float64 {
	var e float64
	for j, beta := range p.Beliefs {
		e += beta * p.OutputRefs[j]
	}
	return e
}

// Ignorance returns the unassigned belief mass, 1 - sum of belief degrees.
func (p *Prediction) Ignorance() float64 {
	var total float64
	for _, beta := range p.Beliefs {
		total += beta
	}
	if total > 1 {
		return 0
	}
	return 1 - total
}

// Model is the inference container: it owns the referential sets (through
// the rule base) and orchestrates matching, activation, and ER combination
// for one input vector. Predict is a pure function of the current rule
// base state and is safe to call concurrently as long as no training run
// is mutating the rule base.
type Model struct {
	rb *RuleBase
}

// NewModel builds the referential sets, enumerates the rule base, and
// applies the optional seed strategy. A nil seed starts from complete
// ignorance.
func NewModel(attrRefs [][]float64, outputRefs []float64, seed SeedStrategy) (*Model, error) {
	if len(attrRefs) == 0 {
		return nil, errors.NewValueError("brb.NewModel", "at least one attribute referential set required")
	}

	attrs := make([]*ReferentialSet, len(attrRefs))
	for i, vals := range attrRefs {
		set, err := NewReferentialSet(fmt.Sprintf("attribute[%d]", i), vals)
		if err != nil {
			return nil, err
		}
		attrs[i] = set
	}
	output, err := NewReferentialSet("output", outputRefs)
	if err != nil {
		return nil, err
	}

	rb, err := NewRuleBase(attrs, output, seed)
	if err != nil {
		return nil, err
	}
	return &Model{rb: rb}, nil
}

// RuleBase exposes the model's rule base.
func (m *Model) RuleBase() *RuleBase { return m.rb }

// Predict runs matching, activation, and ER combination for one input
// vector and returns the output belief distribution with its provenance.
func (m *Model) Predict(x []float64) (*Prediction, error) {
	matches, err := matchInput(m.rb.attrs, x)
	if err != nil {
		return nil, err
	}

	acts, err := activationWeights(m.rb, matches)
	if err != nil {
		if errors.As(err, new(*errors.NoActivatedRulesError)) {
			return nil, errors.NewNoActivatedRulesError("Model.Predict", x)
		}
		return nil, err
	}

	beliefs, err := combineER(m.rb, acts)
	if err != nil {
		return nil, err
	}

	matchedRefs := make([][]float64, len(matches))
	matchedDegrees := make([][]float64, len(matches))
	for i, match := range matches {
		set := m.rb.attrs[i]
		matchedRefs[i] = []float64{set.At(match.LowIndex), set.At(match.HighIndex)}
		matchedDegrees[i] = []float64{match.LowDegree, match.HighDegree}
	}

	return &Prediction{
		OutputRefs:     m.rb.output.Values(),
		Beliefs:        beliefs,
		MatchedRefs:    matchedRefs,
		MatchedDegrees: matchedDegrees,
	}, nil
}

// predictExpectation is the training fast path: defuzzified prediction
// without allocating provenance.
func (m *Model) predictExpectation(x []float64) (float64, error) {
	matches, err := matchInput(m.rb.attrs, x)
	if err != nil {
		return 0, err
	}
	acts, err := activationWeights(m.rb, matches)
	if err != nil {
		return 0, err
	}
	beliefs, err := combineER(m.rb, acts)
	if err != nil {
		return 0, err
	}
	var e float64
	for j, beta := range beliefs {
		e += beta * m.rb.output.At(j)
	}
	return e, nil
}

// String renders the current rule base for diagnostic display.
func (m *Model) String() string { return m.rb.String() }
