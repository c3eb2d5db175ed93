package svm

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/tabml/pkg/errors"
)

func binaryData() (*mat.Dense, *mat.Dense) {
	X := mat.NewDense(8, 2, []float64{
		-4, 1,
		-3, -1,
		-2, 0.5,
		-1, -0.5,
		1, 0.5,
		2, -1,
		3, 1,
		4, -0.5,
	})
	y := mat.NewDense(8, 1, []float64{0, 0, 0, 0, 1, 1, 1, 1})
	return X, y
}

func TestLinearSVCBinary(t *testing.T) {
	X, y := binaryData()

	clf := NewLinearSVC()
	clf.Seed = 42
	if err := clf.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	preds, err := clf.Predict(X)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	for i := 0; i < 8; i++ {
		if math.Abs(preds.At(i, 0)-y.At(i, 0)) > 1e-6 {
			t.Errorf("preds[%d] = %v, want %v", i, preds.At(i, 0), y.At(i, 0))
		}
	}
}

func TestLinearSVCMulticlass(t *testing.T) {
	X := mat.NewDense(9, 1, []float64{-5, -4.8, -4.6, 0, 0.2, 0.4, 5, 5.2, 5.4})
	y := mat.NewDense(9, 1, []float64{0, 0, 0, 1, 1, 1, 2, 2, 2})

	clf := NewLinearSVC()
	clf.Seed = 42
	if err := clf.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	classes := clf.Classes()
	if len(classes) != 3 || classes[0] != 0 || classes[2] != 2 {
		t.Errorf("Classes() = %v, want [0 1 2]", classes)
	}

	preds, err := clf.Predict(X)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	rows, _ := preds.Dims()
	for i := 0; i < rows; i++ {
		got := int(math.Round(preds.At(i, 0)))
		if got < 0 || got > 2 {
			t.Errorf("preds[%d] = %d, want a fitted class", i, got)
		}
	}
}

func TestLinearSVCDeterminism(t *testing.T) {
	X, y := binaryData()

	var first []float64
	for run := 0; run < 2; run++ {
		clf := NewLinearSVC()
		clf.Seed = 7
		if err := clf.Fit(X, y); err != nil {
			t.Fatalf("Fit failed: %v", err)
		}
		if first == nil {
			first = append([]float64(nil), clf.Coef[0]...)
			continue
		}
		for j, w := range clf.Coef[0] {
			if w != first[j] {
				t.Errorf("coef[%d] differs between runs: %v vs %v", j, w, first[j])
			}
		}
	}
}

func TestLinearSVCSetParams(t *testing.T) {
	clf := NewLinearSVC()
	err := clf.SetParams(map[string]interface{}{
		"c":           2.0,
		"max_iter":    500,
		"random_seed": 11,
	})
	if err != nil {
		t.Fatalf("SetParams failed: %v", err)
	}
	if math.Abs(clf.C-2.0) > 1e-9 || clf.MaxIter != 500 || clf.Seed != 11 {
		t.Errorf("params not applied: %+v", clf)
	}

	if err := clf.SetParams(map[string]interface{}{"kernel": "rbf"}); err == nil {
		t.Error("expected error for unknown parameter")
	}
}

func TestLinearSVCNotFitted(t *testing.T) {
	clf := NewLinearSVC()
	_, err := clf.Predict(mat.NewDense(1, 2, []float64{0, 0}))

	var notFitted *errors.NotFittedError
	if !errors.As(err, &notFitted) {
		t.Errorf("expected *NotFittedError, got %v", err)
	}
}
