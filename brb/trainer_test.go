package brb

import (
	"math"
	"testing"

	"github.com/YuminosukeSato/evigo/pkg/errors"
)

// trainingSet samples target(x) on an even grid over [lo, hi].
func trainingSet(lo, hi float64, n int, target func(float64) float64) ([][]float64, []float64) {
	X := make([][]float64, n)
	y := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := 0; i < n; i++ {
		x := lo + float64(i)*step
		X[i] = []float64{x}
		y[i] = target(x)
	}
	return X, y
}

func TestTrainerReducesLoss(t *testing.T) {
	m, err := NewModel([][]float64{{0, 1, 2}}, []float64{0, 1, 2}, nil)
	if err != nil {
		t.Fatalf("NewModel() error = %v", err)
	}

	// Identity target; the unseeded model predicts 0 everywhere, so the
	// initial loss is large and any useful step improves it.
	X, y := trainingSet(0, 2, 9, func(x float64) float64 { return x })

	result, err := m.Train(X, y, nil, TrainingParams{
		MaxIterations:  400,
		MaxEvaluations: 8000,
	})
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}

	if result.Loss > result.InitialLoss {
		t.Errorf("Loss = %v, want <= InitialLoss %v", result.Loss, result.InitialLoss)
	}
	if result.Loss >= result.InitialLoss {
		t.Errorf("training made no progress: loss stayed at %v", result.Loss)
	}

	// The live rule base received the optimized parameters.
	flat, shape := m.RuleBase().FlattenParameters()
	if len(flat) != shape.FlatLen() {
		t.Fatalf("flat length = %d, want %d", len(flat), shape.FlatLen())
	}
	if len(result.Parameters) != len(flat) {
		t.Fatalf("result parameter length = %d, want %d", len(result.Parameters), len(flat))
	}
	for i := range flat {
		if flat[i] != result.Parameters[i] {
			t.Fatalf("rule base parameters differ from training result at %d", i)
		}
	}

	// Written-back parameters are feasible.
	for i, v := range flat {
		if v < 0 || v > 1 {
			t.Errorf("parameter[%d] = %v, outside [0,1]", i, v)
		}
	}
}

func TestTrainerFineTunesSeededModel(t *testing.T) {
	target := func(x float64) float64 { return x * math.Sin(x*x) }

	// Seeded from the target itself: training must not make it worse.
	m, err := NewModel(
		[][]float64{{0, 0.5, 1, 1.5, 2, 2.5, 3}},
		[]float64{-2.5, -1, 1, 2, 3},
		SeedFromFunc(func(x []float64) float64 { return target(x[0]) }),
	)
	if err != nil {
		t.Fatalf("NewModel() error = %v", err)
	}

	X, y := trainingSet(0, 3, 25, target)

	result, err := m.Train(X, y, nil, TrainingParams{
		MaxIterations:  200,
		MaxEvaluations: 5000,
	})
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}

	if result.Loss > result.InitialLoss+1e-12 {
		t.Errorf("fine-tuning increased loss: %v -> %v", result.InitialLoss, result.Loss)
	}
}

func TestTrainerBudgetExhaustionIsNotFatal(t *testing.T) {
	// Capture warnings through the plain handler path.
	var warned error
	errors.SetZerologWarnFunc(nil)
	errors.SetWarningHandler(func(w error) { warned = w })
	defer errors.SetWarningHandler(nil)

	m, err := NewModel([][]float64{{0, 1, 2}}, []float64{0, 1, 2}, nil)
	if err != nil {
		t.Fatalf("NewModel() error = %v", err)
	}
	X, y := trainingSet(0, 2, 5, func(x float64) float64 { return x })

	// A two-iteration budget cannot satisfy the convergence criterion.
	result, err := m.Train(X, y, nil, TrainingParams{MaxIterations: 2})
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}

	if result.Converged {
		t.Error("Converged = true, want false under a 2-iteration budget")
	}
	var convWarn *errors.ConvergenceWarning
	if warned == nil || !errors.As(warned, &convWarn) {
		t.Errorf("expected ConvergenceWarning, got %v", warned)
	}

	// Best-effort parameters are still written back and feasible.
	flat, _ := m.RuleBase().FlattenParameters()
	for i, v := range flat {
		if v < 0 || v > 1 {
			t.Errorf("parameter[%d] = %v, outside [0,1]", i, v)
		}
	}
}

func TestTrainerValidation(t *testing.T) {
	m, err := NewModel([][]float64{{0, 1}}, []float64{0, 1}, nil)
	if err != nil {
		t.Fatalf("NewModel() error = %v", err)
	}

	tests := []struct {
		name string
		X    [][]float64
		y    []float64
		init []float64
	}{
		{"empty dataset", nil, nil, nil},
		{"length mismatch", [][]float64{{0}}, []float64{0, 1}, nil},
		{"row width mismatch", [][]float64{{0, 1}}, []float64{0}, nil},
		{"bad init length", [][]float64{{0}}, []float64{0}, []float64{1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := m.Train(tt.X, tt.y, tt.init, TrainingParams{MaxIterations: 5}); err == nil {
				t.Error("Train() should fail")
			}
		})
	}
}

func TestTrainerIsDeterministic(t *testing.T) {
	build := func() *Model {
		m, err := NewModel([][]float64{{0, 1, 2}}, []float64{0, 1, 2}, nil)
		if err != nil {
			t.Fatalf("NewModel() error = %v", err)
		}
		return m
	}
	X, y := trainingSet(0, 2, 7, func(x float64) float64 { return x / 2 })
	params := TrainingParams{MaxIterations: 50, MaxEvaluations: 2000}

	r1, err := build().Train(X, y, nil, params)
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	r2, err := build().Train(X, y, nil, params)
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}

	if r1.Loss != r2.Loss {
		t.Errorf("losses differ across identical runs: %v vs %v", r1.Loss, r2.Loss)
	}
	for i := range r1.Parameters {
		if r1.Parameters[i] != r2.Parameters[i] {
			t.Fatalf("parameters differ across identical runs at %d", i)
		}
	}
}
