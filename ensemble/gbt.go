package ensemble

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/tabml/core/model"
	"github.com/YuminosukeSato/tabml/pkg/errors"
)

// GradientBoostingClassifier boosts shallow regression trees against the
// logistic loss, one series per class (one-vs-all). Class scores are squashed
// with a sigmoid and normalized into probabilities.
type GradientBoostingClassifier struct {
	model.BaseEstimator

	// NEstimators is the number of boosting rounds per class.
	NEstimators int

	// LearningRate shrinks each tree's contribution.
	LearningRate float64

	// MaxDepth limits the regression trees; boosting wants them shallow.
	MaxDepth int

	// MinSamplesSplit is the minimum sample count to split a tree node.
	MinSamplesSplit int

	ClassList []int
	NFeatures int

	// BaseScore holds the prior log-odds per class.
	BaseScore []float64

	// Stages[k][m] is round m of the series for class k.
	Stages [][]*RegressionTree
}

// NewGradientBoostingClassifier returns a booster with the usual defaults.
func NewGradientBoostingClassifier() *GradientBoostingClassifier {
	return &GradientBoostingClassifier{
		NEstimators:     100,
		LearningRate:    0.1,
		MaxDepth:        3,
		MinSamplesSplit: 2,
	}
}

// Fit runs NEstimators boosting rounds for every class.
func (g *GradientBoostingClassifier) Fit(X, y mat.Matrix) error {
	rows, cols := X.Dims()
	if rows == 0 || cols == 0 {
		return errors.NewModelError("GradientBoostingClassifier.Fit", "empty data", errors.ErrEmptyData)
	}
	if g.NEstimators <= 0 {
		return errors.NewValueError("GradientBoostingClassifier.Fit", "n_estimators must be positive")
	}
	if g.LearningRate <= 0 {
		return errors.NewValueError("GradientBoostingClassifier.Fit", "learning_rate must be positive")
	}

	g.NFeatures = cols
	g.ClassList = classesOf(y)

	samples := make([][]float64, rows)
	labels := make([]int, rows)
	for i := 0; i < rows; i++ {
		samples[i] = make([]float64, cols)
		for j := 0; j < cols; j++ {
			samples[i][j] = X.At(i, j)
		}
		labels[i] = int(math.Round(y.At(i, 0)))
	}

	k := len(g.ClassList)
	g.BaseScore = make([]float64, k)
	g.Stages = make([][]*RegressionTree, k)

	residuals := make([]float64, rows)
	scores := make([]float64, rows)
	targets := make([]float64, rows)
	for ki, class := range g.ClassList {
		pos := 0
		for i, lab := range labels {
			if lab == class {
				targets[i] = 1
				pos++
			} else {
				targets[i] = 0
			}
		}
		g.BaseScore[ki] = priorLogOdds(pos, rows)

		for i := range scores {
			scores[i] = g.BaseScore[ki]
		}
		g.Stages[ki] = make([]*RegressionTree, 0, g.NEstimators)
		for m := 0; m < g.NEstimators; m++ {
			for i := range residuals {
				residuals[i] = targets[i] - sigmoid(scores[i])
			}
			t := &RegressionTree{MaxDepth: g.MaxDepth, MinSamplesSplit: g.MinSamplesSplit}
			t.fit(samples, residuals)
			g.Stages[ki] = append(g.Stages[ki], t)
			for i, row := range samples {
				scores[i] += g.LearningRate * t.predictRow(row)
			}
		}
	}

	g.SetFitted()
	return nil
}

// Predict returns the class with the highest score per row.
func (g *GradientBoostingClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	proba, err := g.PredictProba(X)
	if err != nil {
		return nil, err
	}
	return argmaxClasses(proba, g.ClassList), nil
}

// PredictProba returns normalized per-class sigmoid scores.
func (g *GradientBoostingClassifier) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if !g.IsFitted() {
		return nil, errors.NewNotFittedError("GradientBoostingClassifier", "PredictProba")
	}
	rows, cols := X.Dims()
	if cols != g.NFeatures {
		return nil, errors.NewDimensionError("GradientBoostingClassifier.PredictProba", g.NFeatures, cols, 1)
	}

	k := len(g.ClassList)
	out := mat.NewDense(rows, k, nil)
	row := make([]float64, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			row[j] = X.At(i, j)
		}
		total := 0.0
		for ki := 0; ki < k; ki++ {
			score := g.BaseScore[ki]
			for _, t := range g.Stages[ki] {
				score += g.LearningRate * t.predictRow(row)
			}
			p := sigmoid(score)
			out.Set(i, ki, p)
			total += p
		}
		if total > 0 {
			for ki := 0; ki < k; ki++ {
				out.Set(i, ki, out.At(i, ki)/total)
			}
		}
	}
	return out, nil
}

// Classes returns the class codes seen at fit time in ascending order.
func (g *GradientBoostingClassifier) Classes() []int {
	return g.ClassList
}

// GetParams はモデルのハイパーパラメータを返す
func (g *GradientBoostingClassifier) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"n_estimators":      g.NEstimators,
		"learning_rate":     g.LearningRate,
		"max_depth":         g.MaxDepth,
		"min_samples_split": g.MinSamplesSplit,
	}
}

// SetParams はsnake_caseキーのハイパーパラメータを設定する
func (g *GradientBoostingClassifier) SetParams(params map[string]interface{}) error {
	for k, v := range params {
		var err error
		switch k {
		case "n_estimators":
			g.NEstimators, err = model.AsInt(v)
		case "learning_rate":
			g.LearningRate, err = model.AsFloat(v)
		case "max_depth":
			g.MaxDepth, err = model.AsInt(v)
		case "min_samples_split":
			g.MinSamplesSplit, err = model.AsInt(v)
		default:
			return errors.NewValueError("GradientBoostingClassifier.SetParams", "unknown parameter '"+k+"'")
		}
		if err != nil {
			return errors.NewValueError("GradientBoostingClassifier.SetParams", k+": "+err.Error())
		}
	}
	return nil
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// priorLogOdds clamps the prior away from 0 and 1 so the initial score stays
// finite when a class is absent or universal in the training partition.
func priorLogOdds(pos, n int) float64 {
	p := float64(pos) / float64(n)
	const eps = 1e-6
	if p < eps {
		p = eps
	}
	if p > 1-eps {
		p = 1 - eps
	}
	return math.Log(p / (1 - p))
}

// RegressionTree is the shallow squared-error tree used as the boosting base
// learner. Fields are exported for gob.
type RegressionTree struct {
	MaxDepth        int
	MinSamplesSplit int
	Root            *RegNode
}

// RegNode is one node of a fitted regression tree.
type RegNode struct {
	IsLeaf    bool
	Feature   int
	Threshold float64
	Left      *RegNode
	Right     *RegNode
	Value     float64
}

func (t *RegressionTree) fit(X [][]float64, target []float64) {
	idx := make([]int, len(X))
	for i := range idx {
		idx[i] = i
	}
	t.Root = t.growReg(X, target, idx, 0)
}

func (t *RegressionTree) predictRow(row []float64) float64 {
	node := t.Root
	for !node.IsLeaf {
		v := row[node.Feature]
		if math.IsNaN(v) || v <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node.Value
}

func (t *RegressionTree) growReg(X [][]float64, target []float64, idx []int, depth int) *RegNode {
	if len(idx) < t.MinSamplesSplit || (t.MaxDepth > 0 && depth >= t.MaxDepth) {
		return &RegNode{IsLeaf: true, Value: meanAt(target, idx)}
	}

	feature, threshold, left, right, ok := bestRegSplit(X, target, idx)
	if !ok {
		return &RegNode{IsLeaf: true, Value: meanAt(target, idx)}
	}
	return &RegNode{
		Feature:   feature,
		Threshold: threshold,
		Left:      t.growReg(X, target, left, depth+1),
		Right:     t.growReg(X, target, right, depth+1),
	}
}

// bestRegSplit maximizes the squared-error reduction using prefix sums over
// each feature's sorted values.
func bestRegSplit(X [][]float64, target []float64, idx []int) (int, float64, []int, []int, bool) {
	n := len(idx)
	p := len(X[idx[0]])

	var total float64
	for _, ii := range idx {
		total += target[ii]
	}
	baseline := total * total / float64(n)

	bestGain := 1e-12
	bestFeature := -1
	var bestThreshold float64
	bestSplitAt := 0
	var bestOrder []int

	vals := make([]valueIndex, n)
	for f := 0; f < p; f++ {
		for i, ii := range idx {
			v := X[ii][f]
			if math.IsNaN(v) {
				v = math.Inf(-1)
			}
			vals[i] = valueIndex{v: v, i: ii}
		}
		sort.Slice(vals, func(a, b int) bool { return vals[a].v < vals[b].v })

		var sumLeft float64
		for s := 1; s < n; s++ {
			sumLeft += target[vals[s-1].i]
			if vals[s].v == vals[s-1].v {
				continue
			}
			sumRight := total - sumLeft
			gain := sumLeft*sumLeft/float64(s) + sumRight*sumRight/float64(n-s) - baseline
			if gain > bestGain {
				bestGain = gain
				bestFeature = f
				bestThreshold = midpointReg(vals[s-1].v, vals[s].v)
				bestSplitAt = s
				if bestOrder == nil {
					bestOrder = make([]int, n)
				}
				for i := range vals {
					bestOrder[i] = vals[i].i
				}
			}
		}
	}

	if bestFeature < 0 {
		return 0, 0, nil, nil, false
	}
	left := append([]int(nil), bestOrder[:bestSplitAt]...)
	right := append([]int(nil), bestOrder[bestSplitAt:]...)
	return bestFeature, bestThreshold, left, right, true
}

type valueIndex struct {
	v float64
	i int
}

func midpointReg(lo, hi float64) float64 {
	if math.IsInf(lo, -1) {
		return hi - 1
	}
	return (lo + hi) / 2
}

func meanAt(target []float64, idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	sum := 0.0
	for _, ii := range idx {
		sum += target[ii]
	}
	return sum / float64(len(idx))
}
