package ensemble

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/tabml/pkg/errors"
)

func separable() (*mat.Dense, *mat.Dense) {
	X := mat.NewDense(10, 2, []float64{
		0.0, 1.0,
		0.3, 2.0,
		0.6, 0.5,
		0.9, 1.5,
		1.2, 2.5,
		8.0, 1.0,
		8.3, 2.0,
		8.6, 0.5,
		8.9, 1.5,
		9.2, 2.5,
	})
	y := mat.NewDense(10, 1, []float64{0, 0, 0, 0, 0, 1, 1, 1, 1, 1})
	return X, y
}

func TestRandomForestFitPredict(t *testing.T) {
	X, y := separable()

	clf := NewRandomForestClassifier()
	clf.NEstimators = 20
	clf.Seed = 42
	if err := clf.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	preds, err := clf.Predict(X)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	for i := 0; i < 10; i++ {
		if math.Abs(preds.At(i, 0)-y.At(i, 0)) > 1e-6 {
			t.Errorf("preds[%d] = %v, want %v", i, preds.At(i, 0), y.At(i, 0))
		}
	}
}

func TestRandomForestDeterminism(t *testing.T) {
	X, y := separable()

	var first mat.Matrix
	for run := 0; run < 2; run++ {
		clf := NewRandomForestClassifier()
		clf.NEstimators = 10
		clf.Seed = 42
		if err := clf.Fit(X, y); err != nil {
			t.Fatalf("Fit failed: %v", err)
		}
		proba, err := clf.PredictProba(X)
		if err != nil {
			t.Fatalf("PredictProba failed: %v", err)
		}
		if first == nil {
			first = proba
			continue
		}
		rows, cols := proba.Dims()
		for i := 0; i < rows; i++ {
			for j := 0; j < cols; j++ {
				if proba.At(i, j) != first.At(i, j) {
					t.Fatalf("probabilities differ at (%d,%d): %v vs %v",
						i, j, proba.At(i, j), first.At(i, j))
				}
			}
		}
	}
}

func TestRandomForestProbaRowsSumToOne(t *testing.T) {
	X, y := separable()

	clf := NewRandomForestClassifier()
	clf.NEstimators = 15
	clf.Seed = 1
	if err := clf.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	proba, err := clf.PredictProba(X)
	if err != nil {
		t.Fatalf("PredictProba failed: %v", err)
	}
	rows, cols := proba.Dims()
	for i := 0; i < rows; i++ {
		sum := 0.0
		for j := 0; j < cols; j++ {
			sum += proba.At(i, j)
		}
		if math.Abs(sum-1.0) > 1e-6 {
			t.Errorf("row %d probabilities sum to %v", i, sum)
		}
	}
}

func TestRandomForestSetParams(t *testing.T) {
	clf := NewRandomForestClassifier()
	err := clf.SetParams(map[string]interface{}{
		"n_estimators": 7,
		"max_depth":    3,
		"bootstrap":    false,
		"random_seed":  9,
	})
	if err != nil {
		t.Fatalf("SetParams failed: %v", err)
	}
	if clf.NEstimators != 7 || clf.MaxDepth != 3 || clf.Bootstrap || clf.Seed != 9 {
		t.Errorf("params not applied: %+v", clf)
	}

	if err := clf.SetParams(map[string]interface{}{"ghost": 1}); err == nil {
		t.Error("expected error for unknown parameter")
	}
}

func TestRandomForestNotFitted(t *testing.T) {
	clf := NewRandomForestClassifier()
	_, err := clf.Predict(mat.NewDense(1, 2, []float64{1, 2}))

	var notFitted *errors.NotFittedError
	if !errors.As(err, &notFitted) {
		t.Errorf("expected *NotFittedError, got %v", err)
	}
}
