// Package ensemble implements the tree ensembles offered by the model
// factory: bagged random forests and one-vs-all gradient boosting.
package ensemble

import (
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/tabml/core/model"
	"github.com/YuminosukeSato/tabml/core/parallel"
	"github.com/YuminosukeSato/tabml/pkg/errors"
	"github.com/YuminosukeSato/tabml/tree"
)

// RandomForestClassifier bags seeded CART trees over bootstrap samples.
// Prediction averages the per-tree class probabilities, so Predict and
// PredictProba always agree on the winning class.
type RandomForestClassifier struct {
	model.BaseEstimator

	// NEstimators is the number of trees.
	NEstimators int

	// MaxDepth limits each tree; 0 means unlimited.
	MaxDepth int

	// MinSamplesSplit is passed through to each tree.
	MinSamplesSplit int

	// MaxFeatures caps the features per split; 0 means sqrt of the
	// feature count.
	MaxFeatures int

	// Bootstrap samples with replacement when set.
	Bootstrap bool

	// Seed derives the per-tree seeds, so a fixed seed reproduces the
	// forest exactly.
	Seed int64

	Trees     []*tree.DecisionTreeClassifier
	ClassList []int
	NFeatures int
}

// NewRandomForestClassifier returns a forest with the usual defaults.
func NewRandomForestClassifier() *RandomForestClassifier {
	return &RandomForestClassifier{
		NEstimators:     100,
		MaxDepth:        10,
		MinSamplesSplit: 2,
		Bootstrap:       true,
	}
}

// Fit trains one tree per bootstrap sample, in parallel.
func (f *RandomForestClassifier) Fit(X, y mat.Matrix) error {
	rows, cols := X.Dims()
	if rows == 0 || cols == 0 {
		return errors.NewModelError("RandomForestClassifier.Fit", "empty data", errors.ErrEmptyData)
	}
	if f.NEstimators <= 0 {
		return errors.NewValueError("RandomForestClassifier.Fit", "n_estimators must be positive")
	}

	f.NFeatures = cols
	f.ClassList = classesOf(y)

	maxFeatures := f.MaxFeatures
	if maxFeatures <= 0 {
		maxFeatures = int(math.Sqrt(float64(cols)))
		if maxFeatures < 1 {
			maxFeatures = 1
		}
	}

	f.Trees = make([]*tree.DecisionTreeClassifier, f.NEstimators)
	fitErrs := make([]error, f.NEstimators)
	parallel.Parallelize(f.NEstimators, func(start, end int) {
		for i := start; i < end; i++ {
			seed := f.Seed + int64(i)
			Xs, ys := f.sample(X, y, seed)

			t := tree.NewDecisionTreeClassifier()
			t.MaxDepth = f.MaxDepth
			t.MinSamplesSplit = f.MinSamplesSplit
			t.MaxFeatures = maxFeatures
			t.Seed = seed
			if err := t.Fit(Xs, ys); err != nil {
				fitErrs[i] = err
				return
			}
			f.Trees[i] = t
		}
	})
	for _, err := range fitErrs {
		if err != nil {
			return err
		}
	}

	f.SetFitted()
	return nil
}

// sample draws the training set for one tree.
func (f *RandomForestClassifier) sample(X, y mat.Matrix, seed int64) (mat.Matrix, mat.Matrix) {
	if !f.Bootstrap {
		return X, y
	}
	rows, cols := X.Dims()
	rnd := rand.New(rand.NewSource(seed))
	Xs := mat.NewDense(rows, cols, nil)
	ys := mat.NewDense(rows, 1, nil)
	for i := 0; i < rows; i++ {
		src := rnd.Intn(rows)
		for j := 0; j < cols; j++ {
			Xs.Set(i, j, X.At(src, j))
		}
		ys.Set(i, 0, y.At(src, 0))
	}
	return Xs, ys
}

// Predict returns the class with the highest averaged probability per row.
func (f *RandomForestClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	proba, err := f.PredictProba(X)
	if err != nil {
		return nil, err
	}
	return argmaxClasses(proba, f.ClassList), nil
}

// PredictProba averages the per-tree probabilities, aligning each tree's
// class columns with the forest's class list.
func (f *RandomForestClassifier) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if !f.IsFitted() {
		return nil, errors.NewNotFittedError("RandomForestClassifier", "PredictProba")
	}
	rows, cols := X.Dims()
	if cols != f.NFeatures {
		return nil, errors.NewDimensionError("RandomForestClassifier.PredictProba", f.NFeatures, cols, 1)
	}

	sum := mat.NewDense(rows, len(f.ClassList), nil)
	for _, t := range f.Trees {
		proba, err := t.PredictProba(X)
		if err != nil {
			return nil, err
		}
		// Trees fitted on bootstrap samples may have seen a class subset.
		for j, class := range t.Classes() {
			col := sort.SearchInts(f.ClassList, class)
			for i := 0; i < rows; i++ {
				sum.Set(i, col, sum.At(i, col)+proba.At(i, j))
			}
		}
	}
	sum.Scale(1/float64(len(f.Trees)), sum)
	return sum, nil
}

// Classes returns the class codes seen at fit time in ascending order.
func (f *RandomForestClassifier) Classes() []int {
	return f.ClassList
}

// GetParams はモデルのハイパーパラメータを返す
func (f *RandomForestClassifier) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"n_estimators":      f.NEstimators,
		"max_depth":         f.MaxDepth,
		"min_samples_split": f.MinSamplesSplit,
		"max_features":      f.MaxFeatures,
		"bootstrap":         f.Bootstrap,
	}
}

// SetParams はsnake_caseキーのハイパーパラメータを設定する
func (f *RandomForestClassifier) SetParams(params map[string]interface{}) error {
	for k, v := range params {
		var err error
		switch k {
		case "n_estimators":
			f.NEstimators, err = model.AsInt(v)
		case "max_depth":
			f.MaxDepth, err = model.AsInt(v)
		case "min_samples_split":
			f.MinSamplesSplit, err = model.AsInt(v)
		case "max_features":
			f.MaxFeatures, err = model.AsInt(v)
		case "bootstrap":
			f.Bootstrap, err = model.AsBool(v)
		case "random_seed":
			var seed int
			seed, err = model.AsInt(v)
			f.Seed = int64(seed)
		default:
			return errors.NewValueError("RandomForestClassifier.SetParams", "unknown parameter '"+k+"'")
		}
		if err != nil {
			return errors.NewValueError("RandomForestClassifier.SetParams", k+": "+err.Error())
		}
	}
	return nil
}

// classesOf collects the sorted unique integer labels of an n×1 matrix.
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

// argmaxClasses maps each row of a probability matrix to the class with the
// highest column.
func argmaxClasses(proba mat.Matrix, classes []int) *mat.Dense {
	rows, cols := proba.Dims()
	out := mat.NewDense(rows, 1, nil)
	for i := 0; i < rows; i++ {
		best := 0
		for j := 1; j < cols; j++ {
			if proba.At(i, j) > proba.At(i, best) {
				best = j
			}
		}
		out.Set(i, 0, float64(classes[best]))
	}
	return out
}
