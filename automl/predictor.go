package automl

import (
	"math"

	"github.com/YuminosukeSato/tabml/core/model"
	"github.com/YuminosukeSato/tabml/dataset"
	"github.com/YuminosukeSato/tabml/pkg/errors"
	"github.com/YuminosukeSato/tabml/pkg/log"
)

// PredictionColumn and ConfidenceColumn name the columns Predict appends.
const (
	PredictionColumn = "prediction"
	ConfidenceColumn = "confidence"
)

// Predict reapplies the artifact's fitted pipeline and model to a new table.
// The input must carry every feature column recorded at training; extra
// columns are ignored for modeling but preserved in the output. The result
// is a copy of the input with a prediction column appended, plus a
// confidence column when the model reports probabilities. Row count and
// order never change.
func Predict(table *dataset.Table, artifact *Artifact) (*dataset.Table, error) {
	if artifact == nil {
		return nil, errors.NewValueError("automl.Predict", "nil artifact")
	}
	if table.NumRows() == 0 {
		return nil, errors.NewEmptyDatasetError("automl.Predict")
	}

	input := table.Drop(artifact.TargetColumn)
	var missing []string
	for _, name := range artifact.FeatureColumns {
		if !input.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, errors.NewMissingFeaturesError(missing)
	}

	features, err := input.Select(artifact.FeatureColumns)
	if err != nil {
		return nil, err
	}
	transformed, err := artifact.Pipeline.Transform(features)
	if err != nil {
		return nil, err
	}
	X, err := transformed.Matrix()
	if err != nil {
		return nil, err
	}

	preds, err := artifact.Model.Predict(X)
	if err != nil {
		return nil, errors.Wrap(err, "prediction failed")
	}

	out := table.Clone()
	rows, _ := preds.Dims()
	if artifact.TargetEncoder != nil {
		codes := make([]int, rows)
		for i := 0; i < rows; i++ {
			codes[i] = int(math.Round(preds.At(i, 0)))
		}
		labels, err := artifact.TargetEncoder.InverseTransform(codes)
		if err != nil {
			return nil, err
		}
		if err := out.SetCategorical(PredictionColumn, labels, nil); err != nil {
			return nil, err
		}
	} else {
		values := make([]float64, rows)
		for i := 0; i < rows; i++ {
			values[i] = preds.At(i, 0)
		}
		if err := out.SetNumeric(PredictionColumn, values); err != nil {
			return nil, err
		}
	}

	// Confidence is best effort: models without a probability interface
	// simply do not produce the column.
	if estimator, ok := artifact.Model.(model.ProbabilityEstimator); ok {
		proba, err := estimator.PredictProba(X)
		if err != nil {
			return nil, errors.Wrap(err, "probability estimation failed")
		}
		confidence := make([]float64, rows)
		_, k := proba.Dims()
		for i := 0; i < rows; i++ {
			best := proba.At(i, 0)
			for j := 1; j < k; j++ {
				if proba.At(i, j) > best {
					best = proba.At(i, j)
				}
			}
			confidence[i] = best
		}
		if err := out.SetNumeric(ConfidenceColumn, confidence); err != nil {
			return nil, err
		}
	}

	log.GetLoggerWithName("automl").Info("predictions generated",
		log.PhaseKey, log.PhaseInference,
		log.ModelNameKey, artifact.ModelType,
		log.PredsKey, rows,
	)
	return out, nil
}
