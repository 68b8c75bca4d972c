package brb

import (
	"math"
	"time"

	"gonum.org/v1/gonum/optimize"

	"github.com/YuminosukeSato/evigo/core/parallel"
	"github.com/YuminosukeSato/evigo/pkg/errors"
	"github.com/YuminosukeSato/evigo/pkg/log"
)

// TrainingParams contains the training budget and tolerances.
type TrainingParams struct {
	// MaxIterations caps the optimizer's major iterations. 0 means the
	// default budget.
	MaxIterations int `json:"max_iterations"`

	// MaxEvaluations caps objective evaluations. 0 means the default.
	MaxEvaluations int `json:"max_evaluations"`

	// Runtime caps wall-clock optimization time. 0 means unlimited.
	Runtime time.Duration `json:"runtime"`

	// Tolerance is the absolute function-convergence tolerance.
	Tolerance float64 `json:"tolerance"`

	// ParallelThreshold is the dataset size above which objective rows are
	// evaluated in parallel.
	ParallelThreshold int `json:"parallel_threshold"`

	// Verbosity controls progress logging (0 = quiet).
	Verbosity int `json:"verbosity"`
}

// TrainingResult reports the outcome of one training run. A run that hits
// its budget before converging is not an error: the best parameters found
// are kept and Converged is false.
type TrainingResult struct {
	// Parameters is the optimized flat parameter vector (feasible).
	Parameters []float64

	// Loss is the final objective value (MSE of defuzzified predictions).
	Loss float64

	// InitialLoss is the objective at the initial parameters.
	InitialLoss float64

	// Iterations and Evaluations are the budgets actually spent.
	Iterations  int
	Evaluations int

	// Converged reports whether the optimizer terminated by convergence
	// rather than by hitting a budget.
	Converged bool

	// Status is the optimizer's termination status string.
	Status string
}

// Trainer fits all tunable rule-base parameters to a labeled dataset by
// minimizing mean squared prediction error with a bounded Nelder-Mead
// search. Candidate vectors are projected onto the feasible set by the
// parameter codec before every evaluation; the live rule base is mutated
// exactly once, at the end.
type Trainer struct {
	params TrainingParams
}

// NewTrainer creates a trainer, filling in default budgets.
func NewTrainer(params TrainingParams) *Trainer {
	if params.MaxIterations == 0 {
		params.MaxIterations = 1000
	}
	if params.MaxEvaluations == 0 {
		params.MaxEvaluations = 20000
	}
	if params.Tolerance == 0 {
		params.Tolerance = 1e-8
	}
	if params.ParallelThreshold == 0 {
		params.ParallelThreshold = 256
	}
	return &Trainer{params: params}
}

// Train minimizes the prediction MSE over the dataset starting from the
// initial flat parameter vector (the rule base's own parameters when init
// is nil) and writes the optimized parameters back into rb atomically.
//
// The trainer never draws randomness of its own: given the same dataset
// and initial vector it is deterministic.
func (t *Trainer) Train(rb *RuleBase, X [][]float64, y []float64, init []float64) (result *TrainingResult, err error) {
	defer errors.Recover(&err, "Trainer.Train")
	const op = "Trainer.Train"

	if len(X) == 0 {
		return nil, errors.NewValueError(op, "empty dataset")
	}
	if len(X) != len(y) {
		return nil, errors.NewDimensionError(op, len(X), len(y), 0)
	}
	for _, row := range X {
		if len(row) != rb.NumAttributes() {
			return nil, errors.NewDimensionError(op, rb.NumAttributes(), len(row), 1)
		}
	}

	shape := rb.Shape()
	if init == nil {
		init, _ = rb.FlattenParameters()
	}
	if len(init) != shape.FlatLen() {
		return nil, errors.NewShapeMismatchError(op, "initial_vector", shape.FlatLen(), len(init))
	}

	logger := log.GetLoggerWithName("brb.trainer")
	if t.params.Verbosity > 0 {
		logger.Info("Training started",
			log.OperationKey, "fit",
			log.SamplesKey, len(X),
			log.RulesKey, rb.NumRules(),
			log.ParametersKey, shape.FlatLen())
	}

	objective := t.objective(rb, shape, X, y)
	initialLoss := objective(init)

	problem := optimize.Problem{Func: objective}
	settings := &optimize.Settings{
		MajorIterations: t.params.MaxIterations,
		FuncEvaluations: t.params.MaxEvaluations,
		Runtime:         t.params.Runtime,
		Converger: &optimize.FunctionConverge{
			Absolute:   t.params.Tolerance,
			Iterations: 100,
		},
	}

	start := time.Now()
	res, optErr := optimize.Minimize(problem, append([]float64(nil), init...), settings, &optimize.NelderMead{})
	if res == nil {
		return nil, errors.Wrap(optErr, "evigo: optimizer failed without a result")
	}

	// Project the best point onto the feasible set before write-back so the
	// live rule base only ever sees valid parameters.
	ruleWeights, attrWeights, beliefs, err := shape.Unflatten(res.X)
	if err != nil {
		return nil, err
	}
	if err := rb.SetParameters(ruleWeights, attrWeights, beliefs); err != nil {
		return nil, err
	}
	best, _ := rb.FlattenParameters()

	converged := optErr == nil && isConvergedStatus(res.Status)
	if !converged {
		msg := res.Status.String()
		if optErr != nil {
			msg = optErr.Error()
		}
		errors.Warn(errors.NewConvergenceWarning("NelderMead", res.Stats.MajorIterations, msg))
	}

	if t.params.Verbosity > 0 {
		logger.Info("Training finished",
			log.LossKey, res.F,
			log.IterationKey, res.Stats.MajorIterations,
			log.EvaluationsKey, res.Stats.FuncEvaluations,
			log.StatusKey, res.Status.String(),
			log.DurationMsKey, time.Since(start).Milliseconds())
	}

	return &TrainingResult{
		Parameters:  best,
		Loss:        res.F,
		InitialLoss: initialLoss,
		Iterations:  res.Stats.MajorIterations,
		Evaluations: res.Stats.FuncEvaluations,
		Converged:   converged,
		Status:      res.Status.String(),
	}, nil
}

// objective builds the MSE objective. Every evaluation unflattens the
// candidate into a private working copy of the rule base, so the live rule
// base is never touched mid-optimization. Rows are evaluated in parallel
// above the configured threshold; prediction failures poison the candidate
// with +Inf instead of aborting the search.
func (t *Trainer) objective(rb *RuleBase, shape ParamShape, X [][]float64, y []float64) func([]float64) float64 {
	template := rb.clone()

	return func(flat []float64) float64 {
		ruleWeights, attrWeights, beliefs, err := shape.Unflatten(flat)
		if err != nil {
			return math.Inf(1)
		}
		work := template.clone()
		if err := work.SetParameters(ruleWeights, attrWeights, beliefs); err != nil {
			return math.Inf(1)
		}
		workModel := &Model{rb: work}

		sqErr := make([]float64, len(X))
		parallel.ParallelizeWithThreshold(len(X), t.params.ParallelThreshold, func(start, end int) {
			for i := start; i < end; i++ {
				pred, err := workModel.predictExpectation(X[i])
				if err != nil {
					sqErr[i] = math.Inf(1)
					continue
				}
				diff := pred - y[i]
				sqErr[i] = diff * diff
			}
		})

		var sum float64
		for _, e := range sqErr {
			sum += e
		}
		return sum / float64(len(X))
	}
}

// isConvergedStatus reports whether the optimizer terminated by an actual
// convergence criterion rather than a budget limit.
func isConvergedStatus(status optimize.Status) bool {
	switch status {
	case optimize.IterationLimit, optimize.RuntimeLimit, optimize.FunctionEvaluationLimit,
		optimize.NotTerminated, optimize.Failure:
		return false
	default:
		return true
	}
}

// Train is the Model-level convenience entry point: it trains the model's
// own rule base in place and returns the optimized flat vector with the
// run's statistics.
func (m *Model) Train(X [][]float64, y []float64, init []float64, params TrainingParams) (*TrainingResult, error) {
	return NewTrainer(params).Train(m.rb, X, y, init)
}
