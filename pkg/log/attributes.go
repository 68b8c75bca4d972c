// Package log defines standard attribute keys for Belief Rule Base operations.
//
// Using these keys consistently enables structured filtering of rule-base
// logs across construction, inference, and training.

package log

// Model and Operation Context
const (
	// ModelNameKey identifies the type of model.
	// Examples: "BRBRegressor", "RuleBase"
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "predict", "seed", "flatten", "unflatten"
	OperationKey = "brb.operation"

	// ComponentKey identifies which component is performing the operation.
	// Examples: "brb.trainer", "brb.combiner"
	ComponentKey = "brb.component"
)

// Rule Base Shape
const (
	// AttributesKey indicates the number of input attributes.
	AttributesKey = "brb.attributes"

	// RulesKey indicates the number of rules in the rule base.
	RulesKey = "brb.rules"

	// ConsequentsKey indicates the number of output reference values.
	ConsequentsKey = "brb.consequents"

	// ActivatedRulesKey indicates how many rules fired for one input.
	ActivatedRulesKey = "brb.activated_rules"

	// ParametersKey indicates the length of the flattened parameter vector.
	ParametersKey = "brb.parameters"
)

// Data and Training
const (
	// SamplesKey indicates the number of samples (rows) in the dataset.
	SamplesKey = "data.samples"

	// LossKey records the objective value during training or evaluation.
	LossKey = "metrics.loss"

	// IterationKey records the current optimizer iteration.
	IterationKey = "training.iteration"

	// EvaluationsKey records the number of objective evaluations spent.
	EvaluationsKey = "training.evaluations"

	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// StatusKey records the optimizer termination status.
	StatusKey = "training.status"
)
