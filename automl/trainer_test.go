package automl

import (
	"math"
	"strings"
	"testing"

	"github.com/YuminosukeSato/tabml/dataset"
	"github.com/YuminosukeSato/tabml/pkg/errors"
)

// trainingTable builds a learnable two-class table: low ages in the north are
// "no", high ages in the south are "yes". A couple of cells are missing so
// imputation runs.
func trainingTable(t *testing.T, rows int) *dataset.Table {
	t.Helper()

	ages := make([]float64, rows)
	cities := make([]string, rows)
	miss := make([]bool, rows)
	labels := make([]string, rows)
	for i := 0; i < rows; i++ {
		if i%2 == 0 {
			ages[i] = 20 + float64(i%10)
			cities[i] = "north"
			labels[i] = "no"
		} else {
			ages[i] = 60 + float64(i%10)
			cities[i] = "south"
			labels[i] = "yes"
		}
	}
	if rows > 4 {
		ages[3] = math.NaN()
		cities[4] = ""
		miss[4] = true
	}

	tbl := dataset.New()
	if err := tbl.AddNumeric("age", ages); err != nil {
		t.Fatalf("AddNumeric failed: %v", err)
	}
	if err := tbl.AddCategorical("city", cities, miss); err != nil {
		t.Fatalf("AddCategorical failed: %v", err)
	}
	if err := tbl.AddCategorical("label", labels, nil); err != nil {
		t.Fatalf("AddCategorical failed: %v", err)
	}
	return tbl
}

// fastConfig keeps the default workflow but shrinks the forest for tests.
func fastConfig() Config {
	cfg := DefaultConfig()
	cfg.Hyperparameters[ModelRandomForest]["n_estimators"] = 10
	cfg.Hyperparameters[ModelRandomForest]["max_depth"] = 5
	return cfg
}

func TestTrain(t *testing.T) {
	tbl := trainingTable(t, 50)

	artifact, eval, err := Train(tbl, fastConfig())
	if err != nil {
		t.Fatalf("Train failed: %v", err)
	}

	// 50行、test_fraction 0.2 → 40/10に分割される
	if artifact.Metadata.TrainSamples != 40 || artifact.Metadata.TestSamples != 10 {
		t.Errorf("partition = (%d, %d), want (40, 10)",
			artifact.Metadata.TrainSamples, artifact.Metadata.TestSamples)
	}

	if eval.Accuracy < 0 || eval.Accuracy > 1 {
		t.Errorf("Accuracy = %v, outside [0, 1]", eval.Accuracy)
	}
	// 完全に分離可能なデータなので高精度を期待できる
	if eval.Accuracy < 0.8 {
		t.Errorf("Accuracy = %v, want >= 0.8 on separable data", eval.Accuracy)
	}

	if artifact.TargetColumn != "label" {
		t.Errorf("TargetColumn = %s, want label", artifact.TargetColumn)
	}
	wantFeatures := []string{"age", "city"}
	if len(artifact.FeatureColumns) != len(wantFeatures) {
		t.Fatalf("FeatureColumns = %v, want %v", artifact.FeatureColumns, wantFeatures)
	}
	for i, name := range wantFeatures {
		if artifact.FeatureColumns[i] != name {
			t.Errorf("FeatureColumns[%d] = %s, want %s", i, artifact.FeatureColumns[i], name)
		}
	}

	if artifact.ModelType != ModelRandomForest {
		t.Errorf("ModelType = %s, want %s", artifact.ModelType, ModelRandomForest)
	}
	if artifact.TargetEncoder == nil {
		t.Error("string target should produce a target encoder")
	}
	if !strings.Contains(eval.Report, "yes") || !strings.Contains(eval.Report, "no") {
		t.Errorf("report should use the original class names:\n%s", eval.Report)
	}
	if eval.Confusion == nil || len(eval.Confusion.Classes) == 0 {
		t.Error("evaluation should carry a confusion matrix")
	}
}

func TestTrainThreeNumericFeatures(t *testing.T) {
	rows := 50
	f1 := make([]float64, rows)
	f2 := make([]float64, rows)
	f3 := make([]float64, rows)
	target := make([]float64, rows)
	for i := 0; i < rows; i++ {
		f1[i] = float64(i % 7)
		f2[i] = float64(i%2)*10 + float64(i%3)
		f3[i] = float64(rows - i)
		target[i] = float64(i % 2)
	}

	tbl := dataset.New()
	_ = tbl.AddNumeric("f1", f1)
	_ = tbl.AddNumeric("f2", f2)
	_ = tbl.AddNumeric("f3", f3)
	_ = tbl.AddNumeric("target", target)

	artifact, eval, err := Train(tbl, fastConfig())
	if err != nil {
		t.Fatalf("Train failed: %v", err)
	}

	if artifact.TargetColumn != "target" {
		t.Errorf("TargetColumn = %s, want target", artifact.TargetColumn)
	}
	want := []string{"f1", "f2", "f3"}
	if len(artifact.FeatureColumns) != 3 {
		t.Fatalf("FeatureColumns = %v, want %v", artifact.FeatureColumns, want)
	}
	for i, name := range want {
		if artifact.FeatureColumns[i] != name {
			t.Errorf("FeatureColumns[%d] = %s, want %s", i, artifact.FeatureColumns[i], name)
		}
	}
	if artifact.Metadata.TrainSamples != 40 || artifact.Metadata.TestSamples != 10 {
		t.Errorf("partition = (%d, %d), want (40, 10)",
			artifact.Metadata.TrainSamples, artifact.Metadata.TestSamples)
	}
	for name, v := range map[string]float64{
		"accuracy": eval.Accuracy, "precision": eval.Precision,
		"recall": eval.Recall, "f1": eval.F1,
	} {
		if v < 0 || v > 1 {
			t.Errorf("%s = %v, outside [0, 1]", name, v)
		}
	}
}

func TestTrainIsDeterministic(t *testing.T) {
	tbl := trainingTable(t, 50)
	cfg := fastConfig()

	_, first, err := Train(tbl, cfg)
	if err != nil {
		t.Fatalf("Train failed: %v", err)
	}
	_, second, err := Train(tbl, cfg)
	if err != nil {
		t.Fatalf("Train failed: %v", err)
	}

	if math.Abs(first.Accuracy-second.Accuracy) > 1e-12 {
		t.Errorf("accuracy differs between runs: %v vs %v", first.Accuracy, second.Accuracy)
	}
	if math.Abs(first.F1-second.F1) > 1e-12 {
		t.Errorf("f1 differs between runs: %v vs %v", first.F1, second.F1)
	}
}

func TestTrainEveryModelType(t *testing.T) {
	for _, modelType := range []string{
		ModelRandomForest, ModelGradientBoosting, ModelLogisticRegression, ModelSVM,
	} {
		t.Run(modelType, func(t *testing.T) {
			cfg := fastConfig()
			cfg.ModelType = modelType
			cfg.Hyperparameters[ModelGradientBoosting]["n_estimators"] = 20
			cfg.Hyperparameters[ModelLogisticRegression]["max_iter"] = 200
			cfg.Hyperparameters[ModelSVM]["max_iter"] = 200

			artifact, eval, err := Train(trainingTable(t, 50), cfg)
			if err != nil {
				t.Fatalf("Train failed: %v", err)
			}
			if artifact.ModelType != modelType {
				t.Errorf("ModelType = %s, want %s", artifact.ModelType, modelType)
			}
			if eval.Accuracy < 0 || eval.Accuracy > 1 {
				t.Errorf("Accuracy = %v, outside [0, 1]", eval.Accuracy)
			}
		})
	}
}

func TestTrainUnknownModelFallsBack(t *testing.T) {
	var warned []error
	capture := func(w error) { warned = append(warned, w) }
	errors.SetWarningHandler(capture)
	errors.SetZerologWarnFunc(capture)
	defer errors.SetZerologWarnFunc(nil)
	defer errors.SetWarningHandler(func(error) {})

	cfg := fastConfig()
	cfg.ModelType = "quantum_classifier"

	artifact, _, err := Train(trainingTable(t, 50), cfg)
	if err != nil {
		t.Fatalf("Train failed: %v", err)
	}
	if artifact.ModelType != ModelRandomForest {
		t.Errorf("ModelType = %s, want fallback %s", artifact.ModelType, ModelRandomForest)
	}
	if len(warned) == 0 {
		t.Error("expected a fallback warning")
	}
}

func TestTrainExcludedColumns(t *testing.T) {
	cfg := fastConfig()
	cfg.ExcludedColumns = []string{"city"}

	artifact, _, err := Train(trainingTable(t, 50), cfg)
	if err != nil {
		t.Fatalf("Train failed: %v", err)
	}
	if len(artifact.FeatureColumns) != 1 || artifact.FeatureColumns[0] != "age" {
		t.Errorf("FeatureColumns = %v, want [age]", artifact.FeatureColumns)
	}
}

func TestTrainNumericTarget(t *testing.T) {
	tbl := dataset.New()
	_ = tbl.AddNumeric("x", []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9})
	_ = tbl.AddNumeric("label", []float64{0, 0, 0, 0, 0, 1, 1, 1, 1, 1})

	artifact, _, err := Train(tbl, fastConfig())
	if err != nil {
		t.Fatalf("Train failed: %v", err)
	}
	// 数値ターゲットはエンコーダ不要
	if artifact.TargetEncoder != nil {
		t.Error("numeric target should not produce a target encoder")
	}
}

func TestTrainErrors(t *testing.T) {
	t.Run("empty table", func(t *testing.T) {
		_, _, err := Train(dataset.New(), fastConfig())
		var emptyErr *errors.EmptyDatasetError
		if !errors.As(err, &emptyErr) {
			t.Errorf("expected *EmptyDatasetError, got %v", err)
		}
	})

	t.Run("explicit target missing", func(t *testing.T) {
		cfg := fastConfig()
		cfg.TargetColumn = "ghost"
		_, _, err := Train(trainingTable(t, 50), cfg)
		var schemaErr *errors.SchemaError
		if !errors.As(err, &schemaErr) {
			t.Errorf("expected *SchemaError, got %v", err)
		}
	})

	t.Run("invalid test fraction", func(t *testing.T) {
		cfg := fastConfig()
		cfg.TestFraction = 1.5
		if _, _, err := Train(trainingTable(t, 50), cfg); err == nil {
			t.Error("expected validation error")
		}
	})

	t.Run("target with missing values", func(t *testing.T) {
		tbl := dataset.New()
		_ = tbl.AddNumeric("x", []float64{1, 2, 3, 4})
		_ = tbl.AddCategorical("label", []string{"a", "", "a", "b"}, []bool{false, true, false, false})

		_, _, err := Train(tbl, fastConfig())
		var trainErr *errors.TrainingError
		if !errors.As(err, &trainErr) {
			t.Fatalf("expected *TrainingError, got %v", err)
		}
		var valErr *errors.ValueError
		if !errors.As(err, &valErr) {
			t.Errorf("expected the cause to be a *ValueError, got %v", err)
		}
	})

	t.Run("no features left", func(t *testing.T) {
		cfg := fastConfig()
		cfg.ExcludedColumns = []string{"age", "city"}
		if _, _, err := Train(trainingTable(t, 50), cfg); err == nil {
			t.Error("expected error when every feature is excluded")
		}
	})
}
