// Package svm implements a linear support vector classifier trained with
// stochastic subgradient descent on the hinge loss (Pegasos-style updates).
//
// LinearSVC exposes no probability interface; callers that want a confidence
// column must pick a model that does.
package svm

import (
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/tabml/core/model"
	"github.com/YuminosukeSato/tabml/pkg/errors"
)

// LinearSVC is a one-vs-rest linear SVM. Decision scores pick the class;
// they are margins, not probabilities.
type LinearSVC struct {
	model.BaseEstimator

	// C is the inverse regularization strength.
	C float64

	// MaxIter is the number of epochs over the training data.
	MaxIter int

	// Seed drives the sample order shuffling per epoch.
	Seed int64

	// Coef holds one weight vector per class (one total for binary).
	Coef      [][]float64
	Intercept []float64

	ClassList []int
	NFeatures int
}

// NewLinearSVC returns a classifier with sklearn-like defaults.
func NewLinearSVC() *LinearSVC {
	return &LinearSVC{
		C:       1.0,
		MaxIter: 1000,
	}
}

// Fit trains the model on X (n×p) and integer labels y (n×1).
func (s *LinearSVC) Fit(X, y mat.Matrix) error {
	rows, cols := X.Dims()
	if rows == 0 || cols == 0 {
		return errors.NewModelError("LinearSVC.Fit", "empty data", errors.ErrEmptyData)
	}
	yr, yc := y.Dims()
	if yr != rows || yc != 1 {
		return errors.NewDimensionError("LinearSVC.Fit", rows, yr, 0)
	}
	if s.MaxIter <= 0 {
		return errors.NewValueError("LinearSVC.Fit", "max_iter must be positive")
	}
	if s.C <= 0 {
		return errors.NewValueError("LinearSVC.Fit", "c must be positive")
	}

	s.NFeatures = cols
	s.ClassList = classesOf(y)
	if len(s.ClassList) < 2 {
		return errors.NewValueError("LinearSVC.Fit", "y contains a single class")
	}

	binary := len(s.ClassList) == 2
	nModels := len(s.ClassList)
	if binary {
		nModels = 1
	}
	s.Coef = make([][]float64, nModels)
	s.Intercept = make([]float64, nModels)

	labels := make([]int, rows)
	for i := 0; i < rows; i++ {
		labels[i] = int(math.Round(y.At(i, 0)))
	}

	for m := 0; m < nModels; m++ {
		positive := s.ClassList[m]
		if binary {
			positive = s.ClassList[1]
		}
		target := make([]float64, rows)
		for i, lab := range labels {
			if lab == positive {
				target[i] = 1
			} else {
				target[i] = -1
			}
		}
		s.Coef[m] = make([]float64, cols)
		s.train(X, target, m)
	}

	s.SetFitted()
	return nil
}

// train runs Pegasos subgradient descent for one weight vector.
func (s *LinearSVC) train(X mat.Matrix, target []float64, m int) {
	rows, cols := X.Dims()
	weights := s.Coef[m]
	lambda := 1.0 / (s.C * float64(rows))
	rnd := rand.New(rand.NewSource(s.Seed + int64(m)))

	order := make([]int, rows)
	for i := range order {
		order[i] = i
	}

	t := 0
	for epoch := 0; epoch < s.MaxIter; epoch++ {
		rnd.Shuffle(rows, func(a, b int) { order[a], order[b] = order[b], order[a] })
		for _, i := range order {
			t++
			rate := 1.0 / (lambda * float64(t))

			z := s.Intercept[m]
			for j := 0; j < cols; j++ {
				z += X.At(i, j) * weights[j]
			}

			// w <- (1 - rate*lambda) w, plus the hinge term when the
			// margin is violated
			scale := 1 - rate*lambda
			for j := range weights {
				weights[j] *= scale
			}
			if target[i]*z < 1 {
				for j := 0; j < cols; j++ {
					weights[j] += rate * target[i] * X.At(i, j)
				}
				s.Intercept[m] += rate * target[i]
			}
		}
	}
}

// Predict returns the class with the highest decision score per row.
func (s *LinearSVC) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("LinearSVC", "Predict")
	}
	rows, cols := X.Dims()
	if cols != s.NFeatures {
		return nil, errors.NewDimensionError("LinearSVC.Predict", s.NFeatures, cols, 1)
	}

	out := mat.NewDense(rows, 1, nil)
	binary := len(s.Coef) == 1
	for i := 0; i < rows; i++ {
		if binary {
			z := s.Intercept[0]
			for j := 0; j < cols; j++ {
				z += X.At(i, j) * s.Coef[0][j]
			}
			if z >= 0 {
				out.Set(i, 0, float64(s.ClassList[1]))
			} else {
				out.Set(i, 0, float64(s.ClassList[0]))
			}
			continue
		}

		best := 0
		bestScore := math.Inf(-1)
		for m := range s.Coef {
			z := s.Intercept[m]
			for j := 0; j < cols; j++ {
				z += X.At(i, j) * s.Coef[m][j]
			}
			if z > bestScore {
				bestScore = z
				best = m
			}
		}
		out.Set(i, 0, float64(s.ClassList[best]))
	}
	return out, nil
}

// Classes returns the class codes seen at fit time in ascending order.
func (s *LinearSVC) Classes() []int {
	return s.ClassList
}

// GetParams returns the model hyperparameters.
func (s *LinearSVC) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"c":        s.C,
		"max_iter": s.MaxIter,
	}
}

// SetParams sets hyperparameters from snake_case keys.
func (s *LinearSVC) SetParams(params map[string]interface{}) error {
	for k, v := range params {
		var err error
		switch k {
		case "c":
			s.C, err = model.AsFloat(v)
		case "max_iter":
			s.MaxIter, err = model.AsInt(v)
		case "random_seed":
			var seed int
			seed, err = model.AsInt(v)
			s.Seed = int64(seed)
		default:
			return errors.NewValueError("LinearSVC.SetParams", "unknown parameter '"+k+"'")
		}
		if err != nil {
			return errors.NewValueError("LinearSVC.SetParams", k+": "+err.Error())
		}
	}
	return nil
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
