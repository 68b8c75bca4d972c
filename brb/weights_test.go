package brb

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/YuminosukeSato/evigo/pkg/errors"
)

func TestModelSaveLoadRoundTrip(t *testing.T) {
	m := newSeededModel(t)
	path := filepath.Join(t.TempDir(), "model.json")

	if err := m.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := LoadModel(path)
	if err != nil {
		t.Fatalf("LoadModel() error = %v", err)
	}

	wantFlat, wantShape := m.RuleBase().FlattenParameters()
	gotFlat, gotShape := loaded.RuleBase().FlattenParameters()

	if gotShape.FlatLen() != wantShape.FlatLen() {
		t.Fatalf("loaded shape = %+v, want %+v", gotShape, wantShape)
	}
	for i := range wantFlat {
		if gotFlat[i] != wantFlat[i] {
			t.Fatalf("loaded parameter[%d] = %v, want %v", i, gotFlat[i], wantFlat[i])
		}
	}

	// The restored model predicts identically.
	for _, x := range []float64{0, 0.3, 1.5, 2.7, 3} {
		want, err := m.Predict([]float64{x})
		if err != nil {
			t.Fatalf("Predict() error = %v", err)
		}
		got, err := loaded.Predict([]float64{x})
		if err != nil {
			t.Fatalf("loaded Predict() error = %v", err)
		}
		for j := range want.Beliefs {
			if got.Beliefs[j] != want.Beliefs[j] {
				t.Errorf("belief[%d] at x=%v: loaded %v, want %v", j, x, got.Beliefs[j], want.Beliefs[j])
			}
		}
	}
}

func TestExportWeightsSnapshot(t *testing.T) {
	m := newSeededModel(t)
	w := m.ExportWeights()

	if w.ModelType != "BRBModel" || w.Version != "1.0" {
		t.Errorf("snapshot header = (%q, %q), want (BRBModel, 1.0)", w.ModelType, w.Version)
	}
	if len(w.RuleWeights) != 7 || len(w.Beliefs) != 7 {
		t.Errorf("snapshot has %d rule weights and %d belief rows, want 7 each", len(w.RuleWeights), len(w.Beliefs))
	}

	// The snapshot is a copy; mutating it must not touch the model.
	w.Beliefs[0][0] = 99
	if m.RuleBase().Rules()[0].Beliefs[0] == 99 {
		t.Error("ExportWeights() shares belief storage with the live model")
	}
}

func TestNewModelFromWeightsRejectsUnknownType(t *testing.T) {
	w := newSeededModel(t).ExportWeights()
	w.ModelType = "GradientBoosting"

	if _, err := NewModelFromWeights(w); err == nil {
		t.Error("NewModelFromWeights() with a foreign model_type should fail")
	}
}

func TestLoadModelBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadModel(path); err == nil {
		t.Error("LoadModel() on malformed JSON should fail")
	}
	if _, err := LoadModel(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("LoadModel() on a missing file should fail")
	}
}

func TestRegressorSaveLoad(t *testing.T) {
	reg, X, _ := fitSmallRegressor(t)
	path := filepath.Join(t.TempDir(), "regressor.json")

	if err := reg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	restored := NewBRBRegressor(nil, nil)
	if err := restored.Load(path); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !restored.IsFitted() {
		t.Fatal("IsFitted() = false after Load")
	}

	want, err := reg.Predict(X)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	got, err := restored.Predict(X)
	if err != nil {
		t.Fatalf("restored Predict() error = %v", err)
	}
	rows, _ := want.Dims()
	for i := 0; i < rows; i++ {
		if got.At(i, 0) != want.At(i, 0) {
			t.Errorf("restored prediction[%d] = %v, want %v", i, got.At(i, 0), want.At(i, 0))
		}
	}
}

func TestRegressorSaveRequiresFit(t *testing.T) {
	reg := NewBRBRegressor([][]float64{{0, 1}}, []float64{0, 1})

	err := reg.Save(filepath.Join(t.TempDir(), "model.json"))
	var nfErr *errors.NotFittedError
	if !errors.As(err, &nfErr) {
		t.Errorf("Save() before Fit: got %v, want NotFittedError", err)
	}
	if err != nil && !strings.Contains(err.Error(), "BRBRegressor") {
		t.Errorf("error does not name the estimator: %v", err)
	}
}
