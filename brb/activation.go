package brb

import (
	"math"

	"github.com/YuminosukeSato/evigo/pkg/errors"
)

// activation pairs a rule index with its normalized activation weight.
// Only rules with nonzero weight are kept, which bounds combination work
// to at most 2^numAttributes entries regardless of rule-base size.
type activation struct {
	rule   int
	weight float64
}

// activationWeights turns per-attribute matching degrees into one
// normalized activation weight per rule.
//
// The raw weight of rule k is its rule weight times the product over
// attributes of the matching degree at the rule's reference index, each
// degree raised to that attribute's weight. Rules whose antecedent has
// zero matching degree on any attribute are excluded before
// exponentiation (0^0 would otherwise count an unmatched attribute as a
// full match).
func activationWeights(rb *RuleBase, matches []Match) ([]activation, error) {
	acts := make([]activation, 0, 1<<uint(len(matches)))
	var total float64

	for k := range rb.rules {
		rule := &rb.rules[k]
		raw := rule.Weight
		for i, idx := range rule.Antecedent {
			degree := matches[i].DegreeAt(idx)
			if degree == 0 {
				raw = 0
				break
			}
			raw *= math.Pow(degree, rb.attrWeights[i])
		}
		if raw > 0 {
			acts = append(acts, activation{rule: k, weight: raw})
			total += raw
		}
	}

	if total == 0 {
		// Should not occur with clamped matching; guarded anyway.
		return nil, errors.NewNoActivatedRulesError("brb.activationWeights", nil)
	}

	for i := range acts {
		acts[i].weight /= total
	}
	return acts, nil
}
