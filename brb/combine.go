package brb

import (
	"github.com/YuminosukeSato/evigo/pkg/errors"
)

// invariantTol absorbs floating-point noise when checking output belief
// invariants. Violations beyond it indicate a real defect and are
// surfaced, never clamped away.
const invariantTol = 1e-9

// combineER fuses the belief distributions of the activated rules into one
// output distribution using the analytical Evidential Reasoning algorithm
// (Wang, Yang & Xu). The closed form is order-independent and respects
// evidential conflict: disjoint confident beliefs lose committed mass to
// ignorance instead of averaging into a confident blend.
//
// Per activated rule k with activation weight w_k and beliefs beta_{j,k},
// the basic probability masses are
//
//	m_{j,k}    = w_k * beta_{j,k}
//	mbar_{D,k} = 1 - w_k                        (mass unassigned by weighting)
//	mtil_{D,k} = w_k * (1 - sum_j beta_{j,k})   (mass unassigned by ignorance)
//
// and the aggregated degrees follow from products of (m_{j,k} + mbar_{D,k}
// + mtil_{D,k}) with the global normalization factor mu.
func combineER(rb *RuleBase, acts []activation) ([]float64, error) {
	n := rb.NumConsequents()

	// prodAssigned[j] = prod_k (m_{j,k} + mbar_{D,k} + mtil_{D,k})
	prodAssigned := make([]float64, n)
	for j := range prodAssigned {
		prodAssigned[j] = 1
	}
	// prodUnassigned = prod_k (mbar_{D,k} + mtil_{D,k})
	// prodDiscount   = prod_k mbar_{D,k}
	prodUnassigned := 1.0
	prodDiscount := 1.0

	for _, a := range acts {
		rule := &rb.rules[a.rule]

		var committed float64
		for _, beta := range rule.Beliefs {
			committed += beta
		}

		mbar := 1 - a.weight
		mtil := a.weight * (1 - committed)

		for j := 0; j < n; j++ {
			prodAssigned[j] *= a.weight*rule.Beliefs[j] + mbar + mtil
		}
		prodUnassigned *= mbar + mtil
		prodDiscount *= mbar
	}

	var sumAssigned float64
	for j := 0; j < n; j++ {
		sumAssigned += prodAssigned[j]
	}

	denomMu := sumAssigned - float64(n-1)*prodUnassigned
	if denomMu <= 0 {
		return nil, errors.NewInvariantViolationError("brb.combineER",
			"non-positive normalization factor", []float64{denomMu})
	}
	mu := 1 / denomMu

	denom := 1 - mu*prodDiscount
	if denom <= 0 {
		return nil, errors.NewInvariantViolationError("brb.combineER",
			"degenerate total discount", []float64{denom})
	}

	beliefs := make([]float64, n)
	var total float64
	for j := 0; j < n; j++ {
		beliefs[j] = mu * (prodAssigned[j] - prodUnassigned) / denom
		total += beliefs[j]
	}

	// Output invariants: each degree in [0,1], total committed mass <= 1.
	for j, beta := range beliefs {
		if beta < -invariantTol || beta > 1+invariantTol {
			return nil, errors.NewInvariantViolationError("brb.combineER",
				"belief degree outside [0,1]", beliefs)
		}
		// Noise within tolerance is snapped back onto the bounds.
		if beta < 0 {
			beliefs[j] = 0
		} else if beta > 1 {
			beliefs[j] = 1
		}
	}
	if total > 1+invariantTol {
		return nil, errors.NewInvariantViolationError("brb.combineER",
			"belief degrees sum above 1", beliefs)
	}

	return beliefs, nil
}
