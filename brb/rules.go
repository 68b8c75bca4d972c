package brb

import (
	"fmt"
	"strings"

	"github.com/YuminosukeSato/evigo/pkg/errors"
)

// Rule is one entry of the rule base: an antecedent combination of
// reference indices (one per attribute), a rule weight, and a belief
// distribution over the output references. The belief degrees sum to at
// most 1; any residual is unassigned (ignorant) mass.
type Rule struct {
	Antecedent []int
	Weight     float64
	Beliefs    []float64
}

// RuleBase owns every rule plus the attribute weights. Its shape is fixed
// at construction: one rule per Cartesian-product combination of attribute
// reference indices. Rules are mutated only through SetParameters.
type RuleBase struct {
	attrs       []*ReferentialSet
	output      *ReferentialSet
	attrWeights []float64
	rules       []Rule
}

// NewRuleBase enumerates the full Cartesian product of attribute reference
// indices and applies the seed strategy. A nil seed leaves every rule with
// weight 1 and complete ignorance (all belief degrees 0).
func NewRuleBase(attrs []*ReferentialSet, output *ReferentialSet, seed SeedStrategy) (*RuleBase, error) {
	if len(attrs) == 0 {
		return nil, errors.NewValueError("brb.NewRuleBase", "at least one attribute referential set required")
	}

	numRules := 1
	for _, set := range attrs {
		numRules *= set.Len()
	}

	rb := &RuleBase{
		attrs:       attrs,
		output:      output,
		attrWeights: make([]float64, len(attrs)),
		rules:       make([]Rule, numRules),
	}
	for i := range rb.attrWeights {
		rb.attrWeights[i] = 1
	}

	// Mixed-radix enumeration: the last attribute's index varies fastest.
	// This order is the fixed, reproducible rule order the codec relies on.
	combo := make([]int, len(attrs))
	for k := 0; k < numRules; k++ {
		ant := make([]int, len(combo))
		copy(ant, combo)
		rb.rules[k] = Rule{
			Antecedent: ant,
			Weight:     1,
			Beliefs:    make([]float64, output.Len()),
		}
		for i := len(combo) - 1; i >= 0; i-- {
			combo[i]++
			if combo[i] < attrs[i].Len() {
				break
			}
			combo[i] = 0
		}
	}

	if seed != nil {
		if err := seed.apply(rb); err != nil {
			return nil, err
		}
	}
	return rb, nil
}

// NumRules returns the number of rules.
func (rb *RuleBase) NumRules() int { return len(rb.rules) }

// NumAttributes returns the number of input attributes.
func (rb *RuleBase) NumAttributes() int { return len(rb.attrs) }

// NumConsequents returns the number of output reference values.
func (rb *RuleBase) NumConsequents() int { return rb.output.Len() }

// Rules exposes read access to all rules. The returned slice is owned by
// the rule base; callers must not mutate it.
func (rb *RuleBase) Rules() []Rule { return rb.rules }

// AttributeWeights returns a copy of the attribute weights.
func (rb *RuleBase) AttributeWeights() []float64 {
	w := make([]float64, len(rb.attrWeights))
	copy(w, rb.attrWeights)
	return w
}

// OutputRefs returns a copy of the output reference values.
func (rb *RuleBase) OutputRefs() []float64 { return rb.output.Values() }

// AttributeRefs returns a copy of every attribute's reference values.
func (rb *RuleBase) AttributeRefs() [][]float64 {
	refs := make([][]float64, len(rb.attrs))
	for i, set := range rb.attrs {
		refs[i] = set.Values()
	}
	return refs
}

// antecedentValues returns the reference values of rule k's antecedent
// combination.
func (rb *RuleBase) antecedentValues(k int) []float64 {
	vals := make([]float64, len(rb.attrs))
	for i, idx := range rb.rules[k].Antecedent {
		vals[i] = rb.attrs[i].At(idx)
	}
	return vals
}

// SetParameters atomically replaces all tunable parameters. It is the only
// mutation path after construction; the Trainer calls it exactly once at
// the end of optimization. Shape violations leave the rule base untouched.
func (rb *RuleBase) SetParameters(ruleWeights, attrWeights []float64, beliefs [][]float64) error {
	const op = "RuleBase.SetParameters"
	if len(ruleWeights) != len(rb.rules) {
		return errors.NewShapeMismatchError(op, "rule_weights", len(rb.rules), len(ruleWeights))
	}
	if len(attrWeights) != len(rb.attrs) {
		return errors.NewShapeMismatchError(op, "attribute_weights", len(rb.attrs), len(attrWeights))
	}
	if len(beliefs) != len(rb.rules) {
		return errors.NewShapeMismatchError(op, "beliefs", len(rb.rules), len(beliefs))
	}
	for k, row := range beliefs {
		if len(row) != rb.output.Len() {
			return errors.NewShapeMismatchError(op, fmt.Sprintf("beliefs[%d]", k), rb.output.Len(), len(row))
		}
	}

	copy(rb.attrWeights, attrWeights)
	for k := range rb.rules {
		rb.rules[k].Weight = ruleWeights[k]
		copy(rb.rules[k].Beliefs, beliefs[k])
	}
	return nil
}

// clone returns a deep copy sharing the immutable referential sets.
// Training evaluates candidates on clones so the live rule base is never
// touched mid-optimization.
func (rb *RuleBase) clone() *RuleBase {
	cp := &RuleBase{
		attrs:       rb.attrs,
		output:      rb.output,
		attrWeights: make([]float64, len(rb.attrWeights)),
		rules:       make([]Rule, len(rb.rules)),
	}
	copy(cp.attrWeights, rb.attrWeights)
	for k, r := range rb.rules {
		ant := make([]int, len(r.Antecedent))
		copy(ant, r.Antecedent)
		bel := make([]float64, len(r.Beliefs))
		copy(bel, r.Beliefs)
		cp.rules[k] = Rule{Antecedent: ant, Weight: r.Weight, Beliefs: bel}
	}
	return cp
}

// String renders a diagnostic table of the rule base: referential values,
// attribute weights, and each rule's weight and belief distribution.
func (rb *RuleBase) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "RuleBase: %d rules, %d attributes, %d consequents\n",
		len(rb.rules), len(rb.attrs), rb.output.Len())
	for i, set := range rb.attrs {
		fmt.Fprintf(&b, "  attribute[%d] refs=%v weight=%.4f\n", i, set.Values(), rb.attrWeights[i])
	}
	fmt.Fprintf(&b, "  output refs=%v\n", rb.output.Values())

	for k, r := range rb.rules {
		fmt.Fprintf(&b, "  rule[%d] IF x ~ %v THEN beliefs=", k, rb.antecedentValues(k))
		for j, beta := range r.Beliefs {
			if j > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%.4f", beta)
		}
		fmt.Fprintf(&b, " (weight=%.4f)\n", r.Weight)
	}
	return b.String()
}
