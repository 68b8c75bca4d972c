package brb

import (
	"encoding/json"
	"os"

	"github.com/YuminosukeSato/evigo/pkg/errors"
)

// ModelWeights is the serializable snapshot of a rule base: the
// referential grids plus every tunable parameter, enough to rebuild the
// model exactly.
type ModelWeights struct {
	ModelType string `json:"model_type"`

	// Version guards format compatibility.
	Version string `json:"version"`

	AttributeRefs    [][]float64 `json:"attribute_refs"`
	OutputRefs       []float64   `json:"output_refs"`
	RuleWeights      []float64   `json:"rule_weights"`
	AttributeWeights []float64   `json:"attribute_weights"`

	// Beliefs holds each rule's belief distribution, in rule order.
	Beliefs [][]float64 `json:"beliefs"`
}

const weightsVersion = "1.0"

// ExportWeights snapshots the model's current parameter state.
func (m *Model) ExportWeights() *ModelWeights {
	rules := m.rb.Rules()
	ruleWeights := make([]float64, len(rules))
	beliefs := make([][]float64, len(rules))
	for k, r := range rules {
		ruleWeights[k] = r.Weight
		row := make([]float64, len(r.Beliefs))
		copy(row, r.Beliefs)
		beliefs[k] = row
	}

	return &ModelWeights{
		ModelType:        "BRBModel",
		Version:          weightsVersion,
		AttributeRefs:    m.rb.AttributeRefs(),
		OutputRefs:       m.rb.OutputRefs(),
		RuleWeights:      ruleWeights,
		AttributeWeights: m.rb.AttributeWeights(),
		Beliefs:          beliefs,
	}
}

// NewModelFromWeights rebuilds a model from an exported snapshot.
func NewModelFromWeights(w *ModelWeights) (*Model, error) {
	if w.ModelType != "BRBModel" {
		return nil, errors.NewValueError("brb.NewModelFromWeights", "unsupported model_type: "+w.ModelType)
	}
	return NewModel(w.AttributeRefs, w.OutputRefs,
		SeedFromParameters(w.RuleWeights, w.AttributeWeights, w.Beliefs))
}

// Save writes the model's state to a JSON file.
func (m *Model) Save(path string) error {
	data, err := json.MarshalIndent(m.ExportWeights(), "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling model weights")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, "writing model weights")
	}
	return nil
}

// LoadModel restores a model from a JSON file written by Save.
func LoadModel(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading model weights")
	}
	var w ModelWeights
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, errors.Wrap(err, "unmarshaling model weights")
	}
	return NewModelFromWeights(&w)
}

// Save persists a fitted regressor's model state.
func (r *BRBRegressor) Save(path string) error {
	if !r.IsFitted() || r.Model == nil {
		return errors.NewNotFittedError("BRBRegressor", "Save")
	}
	return r.Model.Save(path)
}

// Load restores a regressor from a saved model state and marks it fitted.
func (r *BRBRegressor) Load(path string) error {
	m, err := LoadModel(path)
	if err != nil {
		return err
	}
	r.Model = m
	r.AttrRefs = m.rb.AttributeRefs()
	r.OutputRefs = m.rb.OutputRefs()
	r.nFeatures_ = len(r.AttrRefs)
	r.SetFitted()
	return nil
}
