package automl

import (
	"time"

	"github.com/YuminosukeSato/tabml/core/model"
	"github.com/YuminosukeSato/tabml/metrics"
	"github.com/YuminosukeSato/tabml/preprocessing"
)

// Metadata records when and how an artifact was trained, plus its headline
// evaluation numbers.
type Metadata struct {
	TrainedAt time.Time
	ModelType string

	Accuracy  float64
	Precision float64
	Recall    float64
	F1        float64

	TrainSamples int
	TestSamples  int
}

// Evaluation is the metrics record of one training run. It is produced once
// and never mutated.
type Evaluation struct {
	Accuracy  float64
	Precision float64
	Recall    float64
	F1        float64

	// Report is the textual classification report.
	Report string

	// Confusion is the true × predicted count table.
	Confusion *metrics.ConfusionTable
}

// Artifact couples a trained model with the exact preprocessing state and
// schema contract it was trained under. It is created whole at the end of a
// successful run and read-only afterwards; retraining produces a new one.
type Artifact struct {
	// ModelType is the resolved model type (after any factory fallback).
	ModelType string

	Model    model.Classifier
	Pipeline *preprocessing.Pipeline

	// TargetEncoder decodes integer predictions back to the original
	// labels; nil when the target was already numeric.
	TargetEncoder *preprocessing.LabelEncoder

	// FeatureColumns is the post-target-removal, post-exclusion column
	// set seen at training, in order. Inference inputs are reprojected to
	// exactly this list.
	FeatureColumns []string
	TargetColumn   string

	Metadata *Metadata
	Config   Config
}

// Summary is the compact artifact description handed to callers.
type Summary struct {
	ModelType      string
	Metadata       Metadata
	FeatureColumns []string
	TargetColumn   string
}

// Summarize returns the artifact's summary.
func (a *Artifact) Summarize() Summary {
	s := Summary{
		ModelType:      a.ModelType,
		FeatureColumns: a.FeatureColumns,
		TargetColumn:   a.TargetColumn,
	}
	if a.Metadata != nil {
		s.Metadata = *a.Metadata
	}
	return s
}
