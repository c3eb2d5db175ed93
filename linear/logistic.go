// Package linear implements the logistic regression classifier offered by
// the model factory.
package linear

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/tabml/core/model"
	"github.com/YuminosukeSato/tabml/pkg/errors"
)

// LogisticRegression is an L2-regularized logistic regression trained with
// batch gradient descent and a decaying learning rate. Binary problems train
// one weight vector; multiclass problems train one-vs-rest.
//
// Weights start at zero, so a fixed dataset always yields the same model.
type LogisticRegression struct {
	model.BaseEstimator

	// C is the inverse regularization strength.
	C float64

	// FitIntercept controls whether an intercept term is trained.
	FitIntercept bool

	// MaxIter caps the gradient descent iterations per class.
	MaxIter int

	// Tol stops the descent once the largest gradient component falls
	// below it.
	Tol float64

	// Coef holds one weight vector per trained classifier (1 for binary,
	// one per class for OVR). Intercept is aligned with Coef.
	Coef      [][]float64
	Intercept []float64

	// NIter records the iterations actually run per trained classifier.
	NIter []int

	ClassList []int
	NFeatures int
}

// NewLogisticRegression returns a classifier with sklearn-like defaults.
func NewLogisticRegression() *LogisticRegression {
	return &LogisticRegression{
		C:            1.0,
		FitIntercept: true,
		MaxIter:      100,
		Tol:          1e-4,
	}
}

// Fit trains the model on X (n×p) and integer labels y (n×1).
func (lr *LogisticRegression) Fit(X, y mat.Matrix) error {
	rows, cols := X.Dims()
	if rows == 0 || cols == 0 {
		return errors.NewModelError("LogisticRegression.Fit", "empty data", errors.ErrEmptyData)
	}
	yr, yc := y.Dims()
	if yr != rows || yc != 1 {
		return errors.NewDimensionError("LogisticRegression.Fit", rows, yr, 0)
	}
	if lr.MaxIter <= 0 {
		return errors.NewValueError("LogisticRegression.Fit", "max_iter must be positive")
	}

	lr.NFeatures = cols
	lr.ClassList = classesOf(y)
	if len(lr.ClassList) < 2 {
		return errors.NewValueError("LogisticRegression.Fit", "y contains a single class")
	}

	binary := len(lr.ClassList) == 2
	nModels := len(lr.ClassList)
	if binary {
		nModels = 1
	}
	lr.Coef = make([][]float64, nModels)
	lr.Intercept = make([]float64, nModels)
	lr.NIter = make([]int, nModels)
	for m := range lr.Coef {
		lr.Coef[m] = make([]float64, cols)
	}

	target := make([]float64, rows)
	for m := 0; m < nModels; m++ {
		// Binary trains against the second class; OVR against class m.
		positive := lr.ClassList[m]
		if binary {
			positive = lr.ClassList[1]
		}
		for i := 0; i < rows; i++ {
			if int(math.Round(y.At(i, 0))) == positive {
				target[i] = 1
			} else {
				target[i] = 0
			}
		}
		lr.descend(X, target, m)
	}

	lr.SetFitted()
	return nil
}

// descend runs gradient descent for one weight vector.
func (lr *LogisticRegression) descend(X mat.Matrix, target []float64, m int) {
	rows, cols := X.Dims()
	weights := lr.Coef[m]
	lambda := 1.0 / lr.C

	converged := false
	for iter := 0; iter < lr.MaxIter; iter++ {
		gradW := make([]float64, cols)
		gradB := 0.0
		for i := 0; i < rows; i++ {
			z := lr.Intercept[m]
			for j := 0; j < cols; j++ {
				z += X.At(i, j) * weights[j]
			}
			diff := sigmoid(z) - target[i]
			gradB += diff
			for j := 0; j < cols; j++ {
				gradW[j] += diff * X.At(i, j)
			}
		}
		for j := range gradW {
			gradW[j] = gradW[j]/float64(rows) + lambda*weights[j]
		}
		gradB /= float64(rows)

		rate := 1.0 / (1.0 + 0.1*float64(iter))
		for j := range weights {
			weights[j] -= rate * gradW[j]
		}
		if lr.FitIntercept {
			lr.Intercept[m] -= rate * gradB
		}
		lr.NIter[m] = iter + 1

		maxGrad := math.Abs(gradB)
		for _, g := range gradW {
			if math.Abs(g) > maxGrad {
				maxGrad = math.Abs(g)
			}
		}
		if maxGrad < lr.Tol {
			converged = true
			break
		}
	}
	if !converged {
		errors.Warn(errors.NewConvergenceWarning("LogisticRegression", lr.MaxIter,
			"gradient descent reached max_iter before tolerance"))
	}
}

// Predict returns the most probable class per row as an n×1 matrix.
func (lr *LogisticRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	proba, err := lr.PredictProba(X)
	if err != nil {
		return nil, err
	}
	rows, cols := proba.Dims()
	out := mat.NewDense(rows, 1, nil)
	for i := 0; i < rows; i++ {
		best := 0
		for j := 1; j < cols; j++ {
			if proba.At(i, j) > proba.At(i, best) {
				best = j
			}
		}
		out.Set(i, 0, float64(lr.ClassList[best]))
	}
	return out, nil
}

// PredictProba returns per-class probabilities; binary uses the sigmoid pair,
// multiclass a softmax over the OVR scores.
func (lr *LogisticRegression) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if !lr.IsFitted() {
		return nil, errors.NewNotFittedError("LogisticRegression", "PredictProba")
	}
	rows, cols := X.Dims()
	if cols != lr.NFeatures {
		return nil, errors.NewDimensionError("LogisticRegression.PredictProba", lr.NFeatures, cols, 1)
	}

	k := len(lr.ClassList)
	probas := mat.NewDense(rows, k, nil)
	if k == 2 {
		for i := 0; i < rows; i++ {
			z := lr.Intercept[0]
			for j := 0; j < cols; j++ {
				z += X.At(i, j) * lr.Coef[0][j]
			}
			p := sigmoid(z)
			probas.Set(i, 0, 1-p)
			probas.Set(i, 1, p)
		}
		return probas, nil
	}

	scores := make([]float64, k)
	for i := 0; i < rows; i++ {
		maxScore := math.Inf(-1)
		for m := 0; m < k; m++ {
			z := lr.Intercept[m]
			for j := 0; j < cols; j++ {
				z += X.At(i, j) * lr.Coef[m][j]
			}
			scores[m] = z
			if z > maxScore {
				maxScore = z
			}
		}
		sum := 0.0
		for m := 0; m < k; m++ {
			scores[m] = math.Exp(scores[m] - maxScore)
			sum += scores[m]
		}
		for m := 0; m < k; m++ {
			probas.Set(i, m, scores[m]/sum)
		}
	}
	return probas, nil
}

// Classes returns the class codes seen at fit time in ascending order.
func (lr *LogisticRegression) Classes() []int {
	return lr.ClassList
}

// GetParams returns the model hyperparameters.
func (lr *LogisticRegression) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"c":             lr.C,
		"fit_intercept": lr.FitIntercept,
		"max_iter":      lr.MaxIter,
		"tol":           lr.Tol,
	}
}

// SetParams sets hyperparameters from snake_case keys.
func (lr *LogisticRegression) SetParams(params map[string]interface{}) error {
	for k, v := range params {
		var err error
		switch k {
		case "c":
			lr.C, err = model.AsFloat(v)
		case "fit_intercept":
			lr.FitIntercept, err = model.AsBool(v)
		case "max_iter":
			lr.MaxIter, err = model.AsInt(v)
		case "tol":
			lr.Tol, err = model.AsFloat(v)
		default:
			return errors.NewValueError("LogisticRegression.SetParams", "unknown parameter '"+k+"'")
		}
		if err != nil {
			return errors.NewValueError("LogisticRegression.SetParams", k+": "+err.Error())
		}
	}
	return nil
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}

func classesOf(y mat.Matrix) []int {
	rows, _ := y.Dims()
	uniq := make(map[int]bool, rows)
	for i := 0; i < rows; i++ {
		uniq[int(math.Round(y.At(i, 0)))] = true
	}
	classes := make([]int, 0, len(uniq))
	for v := range uniq {
		classes = append(classes, v)
	}
	sort.Ints(classes)
	return classes
}
