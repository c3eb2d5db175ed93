// Package log defines standard attribute keys for machine learning operations.
//
// Using these keys consistently across the codebase enables structured log
// analysis and filtering of the training and inference workflows. Keys follow
// a hierarchical naming convention (e.g., "model.name", "data.rows").

package log

// Model and operation context.
const (
	// ModelNameKey identifies the type of model being handled.
	// Examples: "random_forest", "logistic_regression"
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "predict", "transform", "fit_transform"
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is performing the operation.
	// Examples: "preprocessing", "automl", "metrics"
	ComponentKey = "ml.component"

	// PhaseKey indicates the lifecycle phase.
	// Examples: "training", "inference", "preprocessing"
	PhaseKey = "ml.phase"
)

// Table shape and characteristics.
const (
	// SamplesKey indicates the number of rows being processed.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of feature columns.
	FeaturesKey = "data.features"

	// ColumnsKey indicates the total number of columns in a table.
	ColumnsKey = "data.columns"

	// MissingKey indicates the total number of missing cells.
	MissingKey = "data.missing"

	// DuplicatesKey indicates the number of duplicated rows found by profiling.
	DuplicatesKey = "data.duplicates"

	// TargetColumnKey names the resolved target column.
	TargetColumnKey = "data.target_column"
)

// Performance and evaluation metrics.
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// AccuracyKey records classification accuracy, in [0, 1].
	AccuracyKey = "metrics.accuracy"

	// PrecisionKey records weighted precision, in [0, 1].
	PrecisionKey = "metrics.precision"

	// RecallKey records weighted recall, in [0, 1].
	RecallKey = "metrics.recall"

	// F1Key records weighted F1 score, in [0, 1].
	F1Key = "metrics.f1"
)

// Prediction context.
const (
	// PredsKey indicates the number of predictions made.
	PredsKey = "preds.count"

	// ConfidenceKey records prediction confidence, in [0, 1].
	ConfidenceKey = "preds.confidence"
)

// Configuration and artifact context.
const (
	// RandomSeedKey records the random seed for reproducibility.
	RandomSeedKey = "config.random_seed"

	// TestFractionKey records the test split fraction.
	TestFractionKey = "config.test_fraction"

	// ArtifactPathKey records where a fitted artifact was persisted or loaded from.
	ArtifactPathKey = "artifact.path"
)

// Standard attribute value constants for common operations.
const (
	OperationFit          = "fit"
	OperationPredict      = "predict"
	OperationTransform    = "transform"
	OperationFitTransform = "fit_transform"

	PhaseTraining      = "training"
	PhaseInference     = "inference"
	PhasePreprocessing = "preprocessing"
)
