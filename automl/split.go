package automl

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/tabml/pkg/errors"
)

// TrainTestSplit partitions X (n×p) and y (n×1) into train and test sets by
// a seeded row permutation. The test size is floor(n*fraction) clamped so
// both partitions keep at least one row; train and test always sum to n.
func TrainTestSplit(X, y mat.Matrix, fraction float64, seed int64) (XTrain, XTest, yTrain, yTest *mat.Dense, err error) {
	if fraction <= 0 || fraction >= 1 {
		return nil, nil, nil, nil, errors.NewValidationError("test_fraction",
			"must be strictly between 0 and 1", fraction)
	}
	rows, cols := X.Dims()
	yr, yc := y.Dims()
	if yr != rows || yc != 1 {
		return nil, nil, nil, nil, errors.NewDimensionError("TrainTestSplit", rows, yr, 0)
	}
	if rows < 2 {
		return nil, nil, nil, nil, errors.NewValueError("TrainTestSplit",
			"need at least 2 rows to split")
	}

	nTest := int(float64(rows) * fraction)
	if nTest < 1 {
		nTest = 1
	}
	if nTest > rows-1 {
		nTest = rows - 1
	}
	nTrain := rows - nTest

	perm := rand.New(rand.NewSource(seed)).Perm(rows)

	XTrain = mat.NewDense(nTrain, cols, nil)
	yTrain = mat.NewDense(nTrain, 1, nil)
	XTest = mat.NewDense(nTest, cols, nil)
	yTest = mat.NewDense(nTest, 1, nil)

	for i, src := range perm[:nTrain] {
		for j := 0; j < cols; j++ {
			XTrain.Set(i, j, X.At(src, j))
		}
		yTrain.Set(i, 0, y.At(src, 0))
	}
	for i, src := range perm[nTrain:] {
		for j := 0; j < cols; j++ {
			XTest.Set(i, j, X.At(src, j))
		}
		yTest.Set(i, 0, y.At(src, 0))
	}
	return XTrain, XTest, yTrain, yTest, nil
}
