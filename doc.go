// Package evigo provides a Belief Rule Base (BRB) inference and training
// library for Go, built on evidential reasoning.
//
// A BRB models a nonlinear scalar function as a set of interpretable
// if-then rules over a fixed referential grid. Inference maps a numeric
// input to a belief distribution over discrete output reference values
// via input matching, rule activation, and analytical Evidential
// Reasoning (ER) combination. Training fits rule weights, attribute
// weights, and per-rule belief distributions to labeled data with a
// bounded, constrained minimization.
//
// # Quick Start
//
// Seed a rule base from a known function and predict:
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//	    "math"
//
//	    "github.com/YuminosukeSato/evigo/brb"
//	)
//
//	func main() {
//	    attrs := [][]float64{{0, 0.5, 1, 1.5, 2, 2.5, 3}}
//	    out := []float64{-2.5, -1, 1, 2, 3}
//
//	    model, err := brb.NewModel(attrs, out,
//	        brb.SeedFromFunc(func(x []float64) float64 {
//	            return x[0] * math.Sin(x[0]*x[0])
//	        }))
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    pred, err := model.Predict([]float64{1.5})
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println("expectation:", pred.Expectation())
//	}
//
// # Packages
//
//   - brb: rule base, matching, activation, ER combination, training,
//     and the scikit-learn style BRBRegressor wrapper
//   - metrics: evaluation metrics (MSE, RMSE, MAE, R²)
//   - core/model: core interfaces and base estimator types
//   - core/parallel: parallel processing utilities
//   - pkg/errors: structured error handling and warnings
//   - pkg/log: structured logging
package evigo
