// Package brb implements Belief Rule Base (BRB) modeling with evidential
// reasoning.
//
// A rule base is built over fixed referential sets: one ordered grid of
// reference values per input attribute and one for the output. Every
// combination of attribute reference indices forms a rule carrying a rule
// weight and a belief distribution over the output references. Inference
// matches an input vector onto the grids (linear interpolation, clamped at
// the edges), turns matching degrees into normalized rule activation
// weights, and fuses the activated rules' belief distributions with the
// analytical Evidential Reasoning combination. The result is a belief
// distribution over the output references rather than a point estimate;
// Prediction.Expectation defuzzifies it when a scalar is needed.
//
// Training fits all tunable parameters (rule weights, attribute weights,
// per-rule beliefs) to labeled data with a bounded Nelder-Mead
// minimization of the mean squared prediction error. The parameter codec
// flattens the full parameter set into one vector and back, projecting
// candidates onto the feasible set (weights and beliefs in [0,1], belief
// rows summing to at most 1).
//
// BRBRegressor wraps the core model in a scikit-learn style estimator
// operating on gonum matrices.
package brb
