package automl

import (
	"math"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/tabml/dataset"
	"github.com/YuminosukeSato/tabml/metrics"
	"github.com/YuminosukeSato/tabml/pkg/errors"
	"github.com/YuminosukeSato/tabml/pkg/log"
	"github.com/YuminosukeSato/tabml/preprocessing"
)

// Train runs the full training workflow: profile, resolve the target,
// preprocess, split, fit and evaluate. On success it returns a complete
// artifact plus the metrics record; on failure nothing is kept.
//
// The pipeline is fitted over the full feature set before the split, so test
// row statistics flow into imputation means and category vocabularies. That
// mirrors the intended workflow and keeps apply-only inference byte-stable;
// callers needing strict isolation must split beforehand.
func Train(table *dataset.Table, cfg Config) (artifact *Artifact, eval *Evaluation, err error) {
	defer errors.Recover(&err, "automl.Train")

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	logger := log.GetLoggerWithName("automl")
	start := time.Now()

	profile := dataset.Analyze(table)
	if profile.Rows == 0 {
		return nil, nil, errors.NewEmptyDatasetError("automl.Train")
	}
	logger.Info("training started",
		log.PhaseKey, log.PhaseTraining,
		log.SamplesKey, profile.Rows,
		log.ColumnsKey, profile.Cols,
		log.DuplicatesKey, profile.Duplicates,
	)

	target, err := ResolveTarget(table, cfg.TargetColumn)
	if err != nil {
		return nil, nil, err
	}

	featureCols := featureColumns(table, target, cfg.ExcludedColumns)
	if len(featureCols) == 0 {
		return nil, nil, errors.NewTrainingError("partition",
			errors.NewValueError("automl.Train", "no feature columns remain after exclusions"))
	}
	featureTable, err := table.Select(featureCols)
	if err != nil {
		return nil, nil, errors.NewTrainingError("partition", err)
	}

	pipeline := preprocessing.NewPipeline(cfg.HandleMissing, cfg.ScaleOrImpute, cfg.EncodeCategorical)
	transformed, err := pipeline.FitTransform(featureTable)
	if err != nil {
		return nil, nil, errors.NewTrainingError("preprocess", err)
	}

	y, targetEncoder, err := encodeTarget(table.Column(target))
	if err != nil {
		return nil, nil, errors.NewTrainingError("target", err)
	}

	X, err := transformed.Matrix()
	if err != nil {
		return nil, nil, errors.NewTrainingError("preprocess", err)
	}

	XTrain, XTest, yTrain, yTest, err := TrainTestSplit(X, y, cfg.TestFraction, cfg.RandomSeed)
	if err != nil {
		return nil, nil, errors.NewTrainingError("split", err)
	}

	clf, resolvedType, err := BuildModel(cfg.ModelType, cfg.ModelParams(cfg.ModelType), cfg.RandomSeed)
	if err != nil {
		return nil, nil, errors.NewTrainingError("build", err)
	}

	if err := errors.SafeExecute("model fit", func() error {
		return clf.Fit(XTrain, yTrain)
	}); err != nil {
		return nil, nil, errors.NewTrainingError("fit", err)
	}

	preds, err := clf.Predict(XTest)
	if err != nil {
		return nil, nil, errors.NewTrainingError("evaluate", err)
	}
	eval, err = evaluate(yTest, preds, targetEncoder)
	if err != nil {
		return nil, nil, errors.NewTrainingError("evaluate", err)
	}

	trainRows, _ := XTrain.Dims()
	testRows, _ := XTest.Dims()
	meta := &Metadata{
		TrainedAt:    time.Now().UTC(),
		ModelType:    resolvedType,
		Accuracy:     eval.Accuracy,
		Precision:    eval.Precision,
		Recall:       eval.Recall,
		F1:           eval.F1,
		TrainSamples: trainRows,
		TestSamples:  testRows,
	}
	artifact = &Artifact{
		ModelType:      resolvedType,
		Model:          clf,
		Pipeline:       pipeline,
		TargetEncoder:  targetEncoder,
		FeatureColumns: featureCols,
		TargetColumn:   target,
		Metadata:       meta,
		Config:         cfg,
	}

	logger.Info("training finished",
		log.ModelNameKey, resolvedType,
		log.TargetColumnKey, target,
		log.AccuracyKey, eval.Accuracy,
		log.F1Key, eval.F1,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return artifact, eval, nil
}

// featureColumns returns the table's columns minus the target and the
// exclusions, keeping the declared order.
func featureColumns(t *dataset.Table, target string, excluded []string) []string {
	skip := make(map[string]bool, len(excluded)+1)
	skip[target] = true
	for _, name := range excluded {
		skip[name] = true
	}
	var cols []string
	for _, name := range t.Names() {
		if !skip[name] {
			cols = append(cols, name)
		}
	}
	return cols
}

// encodeTarget turns the target column into an n×1 matrix of integer class
// codes, fitting a label encoder when the values are non-numeric.
func encodeTarget(c *dataset.Column) (*mat.Dense, *preprocessing.LabelEncoder, error) {
	n := c.Len()
	y := mat.NewDense(n, 1, nil)

	if c.Kind == dataset.KindNumeric {
		for i, v := range c.Nums {
			if math.IsNaN(v) {
				return nil, nil, errors.NewValueError("automl.Train",
					"target column '"+c.Name+"' contains missing values")
			}
			y.Set(i, 0, math.Round(v))
		}
		return y, nil, nil
	}

	for i := 0; i < n; i++ {
		if c.IsMissing(i) {
			return nil, nil, errors.NewValueError("automl.Train",
				"target column '"+c.Name+"' contains missing values")
		}
	}
	enc := preprocessing.NewLabelEncoder(c.Name)
	codes, err := enc.FitTransform(c.Strs)
	if err != nil {
		return nil, nil, err
	}
	for i, code := range codes {
		y.Set(i, 0, code)
	}
	return y, enc, nil
}

// evaluate computes the metrics record for the test partition.
func evaluate(yTrue, yPred mat.Matrix, targetEncoder *preprocessing.LabelEncoder) (*Evaluation, error) {
	accuracy, err := metrics.Accuracy(yTrue, yPred)
	if err != nil {
		return nil, err
	}
	precision, err := metrics.WeightedPrecision(yTrue, yPred)
	if err != nil {
		return nil, err
	}
	recall, err := metrics.WeightedRecall(yTrue, yPred)
	if err != nil {
		return nil, err
	}
	f1, err := metrics.WeightedF1(yTrue, yPred)
	if err != nil {
		return nil, err
	}

	var classNames map[int]string
	if targetEncoder != nil {
		classNames = make(map[int]string, targetEncoder.NumClasses())
		for code, name := range targetEncoder.Classes() {
			classNames[code] = name
		}
	}
	report, err := metrics.ClassificationReport(yTrue, yPred, classNames)
	if err != nil {
		return nil, err
	}
	confusion, err := metrics.ConfusionMatrix(yTrue, yPred)
	if err != nil {
		return nil, err
	}

	return &Evaluation{
		Accuracy:  accuracy,
		Precision: precision,
		Recall:    recall,
		F1:        f1,
		Report:    report,
		Confusion: confusion,
	}, nil
}
