package brb

import (
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/evigo/core/model"
	"github.com/YuminosukeSato/evigo/metrics"
	evierrors "github.com/YuminosukeSato/evigo/pkg/errors"
	"github.com/YuminosukeSato/evigo/pkg/log"
)

// BRBRegressor implements a Belief Rule Base regressor with a
// scikit-learn compatible API over gonum matrices. Fit seeds a rule base
// over the configured referential grids (from the optional seed strategy,
// or from complete ignorance) and fine-tunes all rule parameters on the
// training data.
type BRBRegressor struct {
	model.BaseEstimator

	// Model is the underlying rule-base model, available after Fit or Seed.
	Model *Model

	// Referential grids (fixed hyperparameters, not learned).
	AttrRefs   [][]float64
	OutputRefs []float64

	// Training budget
	MaxIterations  int
	MaxEvaluations int
	Runtime        time.Duration
	Tolerance      float64

	// Seed is the optional construction-time seeding strategy.
	Seed SeedStrategy

	// ShowProgress enables training progress logging.
	ShowProgress bool

	// Last training outcome, for inspection after Fit.
	LastResult *TrainingResult

	nFeatures_ int
}

// NewBRBRegressor creates a regressor over the given referential grids
// with default training budgets.
func NewBRBRegressor(attrRefs [][]float64, outputRefs []float64) *BRBRegressor {
	return &BRBRegressor{
		AttrRefs:       attrRefs,
		OutputRefs:     outputRefs,
		MaxIterations:  1000,
		MaxEvaluations: 20000,
		Tolerance:      1e-8,
		nFeatures_:     len(attrRefs),
	}
}

// WithMaxIterations sets the optimizer iteration budget.
func (r *BRBRegressor) WithMaxIterations(n int) *BRBRegressor {
	r.MaxIterations = n
	return r
}

// WithRuntime sets the optimizer wall-clock budget.
func (r *BRBRegressor) WithRuntime(d time.Duration) *BRBRegressor {
	r.Runtime = d
	return r
}

// WithTolerance sets the convergence tolerance.
func (r *BRBRegressor) WithTolerance(tol float64) *BRBRegressor {
	r.Tolerance = tol
	return r
}

// WithSeed sets the construction-time seeding strategy.
func (r *BRBRegressor) WithSeed(seed SeedStrategy) *BRBRegressor {
	r.Seed = seed
	return r
}

// WithProgress enables training progress logging.
func (r *BRBRegressor) WithProgress() *BRBRegressor {
	r.ShowProgress = true
	return r
}

// Fit builds the rule base and trains all tunable parameters on (X, y).
// Fine-tuning starts from the seeded parameters, so an already fitted
// regressor refines its current rule base rather than cold-starting.
func (r *BRBRegressor) Fit(X, y mat.Matrix) (err error) {
	defer evierrors.Recover(&err, "BRBRegressor.Fit")

	rows, cols := X.Dims()
	yRows, yCols := y.Dims()

	if rows != yRows {
		return evierrors.NewDimensionError("Fit", rows, yRows, 0)
	}
	if yCols != 1 {
		return evierrors.NewDimensionError("Fit", 1, yCols, 1)
	}
	if cols != r.nFeatures_ {
		return evierrors.NewDimensionError("Fit", r.nFeatures_, cols, 1)
	}

	if r.Model == nil {
		m, err := NewModel(r.AttrRefs, r.OutputRefs, r.Seed)
		if err != nil {
			return err
		}
		r.Model = m
	}

	logger := log.GetLoggerWithName("brb.regressor")
	if r.ShowProgress {
		logger.Info("Training BRBRegressor",
			log.ModelNameKey, "BRBRegressor",
			log.SamplesKey, rows,
			log.AttributesKey, cols,
			log.RulesKey, r.Model.RuleBase().NumRules())
	}

	inputs := make([][]float64, rows)
	targets := make([]float64, rows)
	for i := 0; i < rows; i++ {
		row := make([]float64, cols)
		for j := 0; j < cols; j++ {
			row[j] = X.At(i, j)
		}
		inputs[i] = row
		targets[i] = y.At(i, 0)
	}

	verbosity := 0
	if r.ShowProgress {
		verbosity = 1
	}
	result, err := r.Model.Train(inputs, targets, nil, TrainingParams{
		MaxIterations:  r.MaxIterations,
		MaxEvaluations: r.MaxEvaluations,
		Runtime:        r.Runtime,
		Tolerance:      r.Tolerance,
		Verbosity:      verbosity,
	})
	if err != nil {
		return evierrors.Wrap(err, "training failed")
	}
	r.LastResult = result

	r.SetFitted()
	return nil
}

// Predict returns the defuzzified prediction (belief-weighted expectation
// over the output references) for each input row as an n×1 matrix.
func (r *BRBRegressor) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !r.IsFitted() {
		return nil, evierrors.NewNotFittedError("BRBRegressor", "Predict")
	}

	rows, cols := X.Dims()
	if cols != r.nFeatures_ {
		return nil, evierrors.NewDimensionError("Predict", r.nFeatures_, cols, 1)
	}

	out := mat.NewDense(rows, 1, nil)
	row := make([]float64, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			row[j] = X.At(i, j)
		}
		pred, err := r.Model.Predict(row)
		if err != nil {
			return nil, err
		}
		out.Set(i, 0, pred.Expectation())
	}
	return out, nil
}

// PredictProba returns the full output belief distribution for each input
// row, one column per output reference. Row sums may be below 1; the
// residual is unassigned belief.
func (r *BRBRegressor) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if !r.IsFitted() {
		return nil, evierrors.NewNotFittedError("BRBRegressor", "PredictProba")
	}

	rows, cols := X.Dims()
	if cols != r.nFeatures_ {
		return nil, evierrors.NewDimensionError("PredictProba", r.nFeatures_, cols, 1)
	}

	out := mat.NewDense(rows, len(r.OutputRefs), nil)
	row := make([]float64, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			row[j] = X.At(i, j)
		}
		pred, err := r.Model.Predict(row)
		if err != nil {
			return nil, err
		}
		out.SetRow(i, pred.Beliefs)
	}
	return out, nil
}

// Score returns the coefficient of determination R² of the prediction.
func (r *BRBRegressor) Score(X, y mat.Matrix) (float64, error) {
	if !r.IsFitted() {
		return 0, evierrors.NewNotFittedError("BRBRegressor", "Score")
	}

	predictions, err := r.Predict(X)
	if err != nil {
		return 0, err
	}

	rows, _ := y.Dims()
	yVec := mat.NewVecDense(rows, nil)
	predVec := mat.NewVecDense(rows, nil)
	for i := 0; i < rows; i++ {
		yVec.SetVec(i, y.At(i, 0))
		predVec.SetVec(i, predictions.At(i, 0))
	}
	return metrics.R2Score(yVec, predVec)
}

// GetParams returns the regressor's hyperparameters.
func (r *BRBRegressor) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"attribute_refs":  r.AttrRefs,
		"output_refs":     r.OutputRefs,
		"max_iterations":  r.MaxIterations,
		"max_evaluations": r.MaxEvaluations,
		"runtime":         r.Runtime,
		"tolerance":       r.Tolerance,
	}
}

// SetParams sets the regressor's hyperparameters.
func (r *BRBRegressor) SetParams(params map[string]interface{}) error {
	for key, value := range params {
		switch key {
		case "max_iterations":
			if v, ok := value.(int); ok {
				r.MaxIterations = v
			}
		case "max_evaluations":
			if v, ok := value.(int); ok {
				r.MaxEvaluations = v
			}
		case "runtime":
			if v, ok := value.(time.Duration); ok {
				r.Runtime = v
			}
		case "tolerance":
			if v, ok := value.(float64); ok {
				r.Tolerance = v
			}
		}
	}
	return nil
}
