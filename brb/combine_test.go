package brb

import (
	"math"
	"testing"
)

func TestCombineERSingleRuleIdentity(t *testing.T) {
	rb := newTestRuleBase(t, [][]float64{{0, 1}}, []float64{0, 1, 2}, nil)

	beliefs := [][]float64{{0.3, 0.5, 0.1}, {0, 0, 0}}
	if err := rb.SetParameters([]float64{1, 1}, []float64{1}, beliefs); err != nil {
		t.Fatalf("SetParameters() error = %v", err)
	}

	tests := []struct {
		name   string
		weight float64
	}{
		{"full activation", 1},
		{"partial activation", 0.6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := combineER(rb, []activation{{rule: 0, weight: tt.weight}})
			if err != nil {
				t.Fatalf("combineER() error = %v", err)
			}

			// Combining a single piece of evidence is the identity: the
			// normalization factor cancels the activation scaling exactly.
			want := beliefs[0]
			for j := range want {
				if math.Abs(got[j]-want[j]) > 1e-12 {
					t.Errorf("belief[%d] = %v, want %v", j, got[j], want[j])
				}
			}
		})
	}
}

func TestCombineERConflictingEvidence(t *testing.T) {
	rb := newTestRuleBase(t, [][]float64{{0, 1}}, []float64{0, 1, 2}, nil)

	// Two rules with disjoint, highly confident beliefs. The ER closed
	// form must route the conflict into unassigned mass instead of
	// averaging into a confident blend.
	beliefs := [][]float64{{0.9, 0, 0}, {0, 0, 0.9}}
	if err := rb.SetParameters([]float64{1, 1}, []float64{1}, beliefs); err != nil {
		t.Fatalf("SetParameters() error = %v", err)
	}

	got, err := combineER(rb, []activation{{rule: 0, weight: 0.5}, {rule: 1, weight: 0.5}})
	if err != nil {
		t.Fatalf("combineER() error = %v", err)
	}

	// Hand-computed from the analytical formula:
	// mbar = 0.5, mtil = 0.05 per rule, mu = 1/0.7975.
	const tol = 1e-9
	want0 := 0.2475 / 0.7975 / (1 - 0.25/0.7975)
	if math.Abs(got[0]-want0) > tol {
		t.Errorf("belief[0] = %v, want %v", got[0], want0)
	}
	if math.Abs(got[2]-want0) > tol {
		t.Errorf("belief[2] = %v, want %v", got[2], want0)
	}
	if math.Abs(got[1]) > tol {
		t.Errorf("belief[1] = %v, want 0", got[1])
	}

	// Conflict leaves residual ignorance: committed mass below the 0.9
	// each rule claimed.
	var total float64
	for _, beta := range got {
		total += beta
	}
	if total >= 0.95 {
		t.Errorf("committed mass = %v, want < 0.95 (conflict must not yield a confident blend)", total)
	}
}

func TestCombineEROutputInvariants(t *testing.T) {
	rb := newTestRuleBase(t, [][]float64{{0, 1, 2}}, []float64{-1, 0, 1}, nil)

	beliefs := [][]float64{
		{0.2, 0.3, 0.4},
		{0.7, 0.1, 0.1},
		{0, 0, 1},
	}
	if err := rb.SetParameters([]float64{1, 1, 1}, []float64{1}, beliefs); err != nil {
		t.Fatalf("SetParameters() error = %v", err)
	}

	acts := []activation{{rule: 0, weight: 0.5}, {rule: 1, weight: 0.3}, {rule: 2, weight: 0.2}}
	got, err := combineER(rb, acts)
	if err != nil {
		t.Fatalf("combineER() error = %v", err)
	}

	var total float64
	for j, beta := range got {
		if beta < 0 || beta > 1 {
			t.Errorf("belief[%d] = %v, outside [0,1]", j, beta)
		}
		total += beta
	}
	if total > 1+1e-12 {
		t.Errorf("beliefs sum = %v, want <= 1", total)
	}
}

func TestCombineEROrderIndependence(t *testing.T) {
	rb := newTestRuleBase(t, [][]float64{{0, 1, 2}}, []float64{-1, 0, 1}, nil)

	beliefs := [][]float64{
		{0.6, 0.2, 0.1},
		{0.1, 0.8, 0},
		{0, 0.3, 0.6},
	}
	if err := rb.SetParameters([]float64{1, 1, 1}, []float64{1}, beliefs); err != nil {
		t.Fatalf("SetParameters() error = %v", err)
	}

	forward := []activation{{rule: 0, weight: 0.2}, {rule: 1, weight: 0.5}, {rule: 2, weight: 0.3}}
	reversed := []activation{{rule: 2, weight: 0.3}, {rule: 1, weight: 0.5}, {rule: 0, weight: 0.2}}

	a, err := combineER(rb, forward)
	if err != nil {
		t.Fatalf("combineER() error = %v", err)
	}
	b, err := combineER(rb, reversed)
	if err != nil {
		t.Fatalf("combineER() error = %v", err)
	}

	for j := range a {
		if math.Abs(a[j]-b[j]) > 1e-12 {
			t.Errorf("belief[%d] differs by order: %v vs %v", j, a[j], b[j])
		}
	}
}
