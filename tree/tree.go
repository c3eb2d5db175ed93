// Package tree implements a CART decision tree classifier. It is the base
// learner behind the ensemble package and is rarely used on its own.
package tree

import (
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/tabml/core/model"
	"github.com/YuminosukeSato/tabml/pkg/errors"
)

// Node is one node of a fitted tree. Fields are exported so a fitted tree
// survives a gob round trip.
type Node struct {
	IsLeaf    bool
	Feature   int
	Threshold float64
	Left      *Node
	Right     *Node

	// N is the number of training samples that reached the node.
	N int

	// Probas is the class distribution at a leaf, aligned with the
	// classifier's ClassList.
	Probas []float64

	// Pred indexes ClassList for the leaf's majority class.
	Pred int
}

// DecisionTreeClassifier is a CART classifier splitting on numeric
// thresholds. Missing values sort below every observed value, so they always
// follow the left branch.
type DecisionTreeClassifier struct {
	model.BaseEstimator

	// MaxDepth limits tree depth; 0 means unlimited.
	MaxDepth int

	// MinSamplesSplit is the minimum sample count to attempt a split.
	MinSamplesSplit int

	// MinSamplesLeaf is the minimum sample count in each child.
	MinSamplesLeaf int

	// Criterion selects the impurity measure, "gini" or "entropy".
	Criterion string

	// MaxFeatures caps the features examined per split; 0 means all.
	// Forests set this for feature subsampling.
	MaxFeatures int

	// Seed drives the feature subsampling order.
	Seed int64

	Root      *Node
	ClassList []int
	NFeatures int
}

// NewDecisionTreeClassifier returns a tree with CART defaults.
func NewDecisionTreeClassifier() *DecisionTreeClassifier {
	return &DecisionTreeClassifier{
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		Criterion:       "gini",
	}
}

// Fit grows the tree on X (n×p) and integer labels y (n×1).
func (t *DecisionTreeClassifier) Fit(X, y mat.Matrix) error {
	rows, cols := X.Dims()
	if rows == 0 || cols == 0 {
		return errors.NewModelError("DecisionTreeClassifier.Fit", "empty data", errors.ErrEmptyData)
	}
	yr, yc := y.Dims()
	if yr != rows || yc != 1 {
		return errors.NewDimensionError("DecisionTreeClassifier.Fit", rows, yr, 0)
	}

	samples, labels := toSlices(X, y)
	t.NFeatures = cols
	t.ClassList = sortedClasses(labels)

	idx := make([]int, rows)
	for i := range idx {
		idx[i] = i
	}
	rnd := rand.New(rand.NewSource(t.Seed))
	t.Root = t.grow(samples, labels, idx, 0, rnd)
	t.SetFitted()
	return nil
}

// Predict returns the majority class per row as an n×1 matrix.
func (t *DecisionTreeClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	proba, err := t.PredictProba(X)
	if err != nil {
		return nil, err
	}
	rows, _ := proba.Dims()
	out := mat.NewDense(rows, 1, nil)
	for i := 0; i < rows; i++ {
		best := 0
		for j := 1; j < len(t.ClassList); j++ {
			if proba.At(i, j) > proba.At(i, best) {
				best = j
			}
		}
		out.Set(i, 0, float64(t.ClassList[best]))
	}
	return out, nil
}

// PredictProba returns per-class probabilities, one column per class in
// Classes() order.
func (t *DecisionTreeClassifier) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if !t.IsFitted() {
		return nil, errors.NewNotFittedError("DecisionTreeClassifier", "PredictProba")
	}
	rows, cols := X.Dims()
	if cols != t.NFeatures {
		return nil, errors.NewDimensionError("DecisionTreeClassifier.PredictProba", t.NFeatures, cols, 1)
	}

	out := mat.NewDense(rows, len(t.ClassList), nil)
	row := make([]float64, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			row[j] = X.At(i, j)
		}
		leaf := t.Root.descend(row)
		out.SetRow(i, leaf.Probas)
	}
	return out, nil
}

// Classes returns the class codes seen at fit time in ascending order.
func (t *DecisionTreeClassifier) Classes() []int {
	return t.ClassList
}

// GetParams はモデルのハイパーパラメータを返す
func (t *DecisionTreeClassifier) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"max_depth":         t.MaxDepth,
		"min_samples_split": t.MinSamplesSplit,
		"min_samples_leaf":  t.MinSamplesLeaf,
		"criterion":         t.Criterion,
		"max_features":      t.MaxFeatures,
	}
}

func (n *Node) descend(row []float64) *Node {
	node := n
	for !node.IsLeaf {
		v := row[node.Feature]
		if math.IsNaN(v) || v <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node
}

func (t *DecisionTreeClassifier) grow(X [][]float64, y []int, idx []int, depth int, rnd *rand.Rand) *Node {
	counts := t.classCounts(y, idx)
	node := &Node{N: len(idx)}

	if isPure(counts) ||
		len(idx) < t.MinSamplesSplit ||
		(t.MaxDepth > 0 && depth >= t.MaxDepth) {
		return node.toLeaf(counts)
	}

	best := t.bestSplit(X, y, idx, counts, rnd)
	if best.feature < 0 {
		return node.toLeaf(counts)
	}

	node.Feature = best.feature
	node.Threshold = best.threshold
	node.Left = t.grow(X, y, best.left, depth+1, rnd)
	node.Right = t.grow(X, y, best.right, depth+1, rnd)
	return node
}

func (n *Node) toLeaf(counts []int) *Node {
	n.IsLeaf = true
	n.Probas = countsToProbas(counts)
	n.Pred = argmax(counts)
	return n
}

type split struct {
	feature     int
	threshold   float64
	gain        float64
	left, right []int
}

type valueIndex struct {
	v float64
	i int
}

// bestSplit scans candidate features for the threshold with the highest
// impurity decrease. Missing values are ordered below every observed value.
func (t *DecisionTreeClassifier) bestSplit(X [][]float64, y []int, idx []int, counts []int, rnd *rand.Rand) split {
	p := t.NFeatures
	features := make([]int, p)
	for j := range features {
		features[j] = j
	}
	if t.MaxFeatures > 0 && t.MaxFeatures < p {
		rnd.Shuffle(p, func(a, b int) {
			features[a], features[b] = features[b], features[a]
		})
		features = features[:t.MaxFeatures]
		sort.Ints(features)
	}

	parent := t.impurity(counts)
	best := split{feature: -1}
	for _, f := range features {
		t.scanFeature(X, y, idx, f, parent, &best)
	}
	return best
}

func (t *DecisionTreeClassifier) scanFeature(X [][]float64, y []int, idx []int, f int, parent float64, best *split) {
	vals := make([]valueIndex, len(idx))
	for i, ii := range idx {
		v := X[ii][f]
		if math.IsNaN(v) {
			v = math.Inf(-1)
		}
		vals[i] = valueIndex{v: v, i: ii}
	}
	sort.Slice(vals, func(a, b int) bool { return vals[a].v < vals[b].v })

	k := len(t.ClassList)
	leftCounts := make([]int, k)
	rightCounts := t.classCounts(y, idx)
	total := float64(len(idx))

	for s := 1; s < len(vals); s++ {
		ci := t.classIndex(y[vals[s-1].i])
		leftCounts[ci]++
		rightCounts[ci]--

		if vals[s].v == vals[s-1].v {
			continue
		}
		if s < t.MinSamplesLeaf || len(vals)-s < t.MinSamplesLeaf {
			continue
		}

		weighted := (float64(s)/total)*t.impurity(leftCounts) +
			((total-float64(s))/total)*t.impurity(rightCounts)
		gain := parent - weighted
		if gain <= best.gain {
			continue
		}

		left := make([]int, s)
		right := make([]int, len(vals)-s)
		for i := 0; i < s; i++ {
			left[i] = vals[i].i
		}
		for i := s; i < len(vals); i++ {
			right[i-s] = vals[i].i
		}
		*best = split{
			feature:   f,
			threshold: midpoint(vals[s-1].v, vals[s].v),
			gain:      gain,
			left:      left,
			right:     right,
		}
	}
}

// midpoint keeps the threshold finite when the lower value is the missing
// sentinel.
func midpoint(lo, hi float64) float64 {
	if math.IsInf(lo, -1) {
		return hi - 1
	}
	return (lo + hi) / 2
}

func (t *DecisionTreeClassifier) impurity(counts []int) float64 {
	if t.Criterion == "entropy" {
		return entropyFromCounts(counts)
	}
	return giniFromCounts(counts)
}

func (t *DecisionTreeClassifier) classIndex(label int) int {
	i := sort.SearchInts(t.ClassList, label)
	if i < len(t.ClassList) && t.ClassList[i] == label {
		return i
	}
	return 0
}

func (t *DecisionTreeClassifier) classCounts(y []int, idx []int) []int {
	counts := make([]int, len(t.ClassList))
	for _, ii := range idx {
		counts[t.classIndex(y[ii])]++
	}
	return counts
}

func toSlices(X, y mat.Matrix) ([][]float64, []int) {
	rows, cols := X.Dims()
	samples := make([][]float64, rows)
	labels := make([]int, rows)
	for i := 0; i < rows; i++ {
		samples[i] = make([]float64, cols)
		for j := 0; j < cols; j++ {
			samples[i][j] = X.At(i, j)
		}
		labels[i] = int(math.Round(y.At(i, 0)))
	}
	return samples, labels
}

func sortedClasses(labels []int) []int {
	uniq := make(map[int]bool, len(labels))
	for _, v := range labels {
		uniq[v] = true
	}
	classes := make([]int, 0, len(uniq))
	for v := range uniq {
		classes = append(classes, v)
	}
	sort.Ints(classes)
	return classes
}

func giniFromCounts(counts []int) float64 {
	n := 0.0
	for _, c := range counts {
		n += float64(c)
	}
	if n == 0 {
		return 0
	}
	res := 0.0
	for _, c := range counts {
		p := float64(c) / n
		res += p * (1 - p)
	}
	return res
}

func entropyFromCounts(counts []int) float64 {
	n := 0.0
	for _, c := range counts {
		n += float64(c)
	}
	if n == 0 {
		return 0
	}
	res := 0.0
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / n
		res -= p * math.Log2(p)
	}
	return res
}

func isPure(counts []int) bool {
	nonZero := 0
	for _, c := range counts {
		if c > 0 {
			nonZero++
		}
	}
	return nonZero <= 1
}

func countsToProbas(counts []int) []float64 {
	n := 0
	for _, c := range counts {
		n += c
	}
	probas := make([]float64, len(counts))
	if n == 0 {
		return probas
	}
	for i, c := range counts {
		probas[i] = float64(c) / float64(n)
	}
	return probas
}

func argmax(counts []int) int {
	best := 0
	for i := 1; i < len(counts); i++ {
		if counts[i] > counts[best] {
			best = i
		}
	}
	return best
}
