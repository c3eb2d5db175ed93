// Package automl wires the profiler, target resolver, preprocessing pipeline
// and model factory into the training and inference orchestrators, and owns
// the persisted artifact that couples a trained model to its exact
// preprocessing state.
package automl

import (
	"github.com/YuminosukeSato/tabml/pkg/errors"
)

// Model type names accepted by the factory.
const (
	ModelRandomForest       = "random_forest"
	ModelGradientBoosting   = "gradient_boosting"
	ModelLogisticRegression = "logistic_regression"
	ModelSVM                = "svm"
)

// Config is the immutable training configuration. Build it with
// DefaultConfig and adjust fields before calling Train.
type Config struct {
	// ModelType selects the classifier; unknown names fall back to
	// random_forest with a warning.
	ModelType string

	// TestFraction is the share of rows held out for evaluation,
	// strictly between 0 and 1.
	TestFraction float64

	// RandomSeed drives the train/test split and the seeded models.
	RandomSeed int64

	// HandleMissing enables mean imputation and mode substitution.
	HandleMissing bool

	// ScaleOrImpute additionally standardizes the numeric features.
	ScaleOrImpute bool

	// EncodeCategorical enables label encoding of categorical features.
	EncodeCategorical bool

	// TargetColumn pins the target; empty means auto-detect.
	TargetColumn string

	// ExcludedColumns are dropped from the feature set.
	ExcludedColumns []string

	// Hyperparameters maps model type to its parameter map.
	Hyperparameters map[string]map[string]interface{}
}

// DefaultConfig returns the configuration used when the caller specifies
// nothing: a seeded random forest with an 80/20 split.
func DefaultConfig() Config {
	return Config{
		ModelType:         ModelRandomForest,
		TestFraction:      0.2,
		RandomSeed:        42,
		HandleMissing:     true,
		EncodeCategorical: true,
		Hyperparameters:   DefaultHyperparameters(),
	}
}

// DefaultHyperparameters returns the per-model default parameter maps.
func DefaultHyperparameters() map[string]map[string]interface{} {
	return map[string]map[string]interface{}{
		ModelRandomForest: {
			"n_estimators": 100,
			"max_depth":    10,
		},
		ModelGradientBoosting: {
			"n_estimators":  100,
			"learning_rate": 0.1,
		},
		ModelLogisticRegression: {
			"max_iter": 1000,
		},
		ModelSVM: {
			"c": 1.0,
		},
	}
}

// Validate checks the configuration invariants that do not need a table.
// Target existence is checked at train time against the actual columns.
func (c Config) Validate() error {
	if c.TestFraction <= 0 || c.TestFraction >= 1 {
		return errors.NewValidationError("test_fraction",
			"must be strictly between 0 and 1", c.TestFraction)
	}
	if c.ModelType == "" {
		return errors.NewValidationError("model_type", "must not be empty", c.ModelType)
	}
	return nil
}

// ModelParams returns the hyperparameter map for the given resolved model
// type, or nil when none is configured.
func (c Config) ModelParams(modelType string) map[string]interface{} {
	if c.Hyperparameters == nil {
		return nil
	}
	return c.Hyperparameters[modelType]
}
