// Package model provides the shared estimator contracts used across tabml.
// This file complements the base interfaces in estimator.go and transformer.go
package model

import (
	"gonum.org/v1/gonum/mat"
)

// Classifier is the uniform contract every pluggable classifier satisfies.
// Labels are integer class codes carried in an n×1 matrix of float64 values.
type Classifier interface {
	Fitter
	Predictor

	// Classes returns the unique classes seen during fitting.
	Classes() []int

	// GetParams returns the model's hyperparameters.
	GetParams() map[string]interface{}
}

// ProbabilityEstimator is the optional interface for classifiers that can
// report per-class probability estimates. Callers type-assert for it; its
// absence is not an error.
type ProbabilityEstimator interface {
	// PredictProba returns probability estimates for each class,
	// one column per class in Classes() order.
	PredictProba(X mat.Matrix) (mat.Matrix, error)
}

// ParameterSetter is the interface for models that allow parameter modification.
type ParameterSetter interface {
	// SetParams sets the model's hyperparameters.
	SetParams(params map[string]interface{}) error
}

// Persistable is the interface for models that can be saved and loaded.
type Persistable interface {
	// Save saves the model to a file.
	Save(path string) error

	// Load loads the model from a file.
	Load(path string) error
}
