// Package metrics implements the classification metrics reported after a
// training run: accuracy, support-weighted precision/recall/F1, the confusion
// matrix, and a textual classification report.
package metrics

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/tabml/pkg/errors"
)

// labelVector extracts integer class labels from an n×1 matrix.
func labelVector(y mat.Matrix, op string) ([]int, error) {
	if y == nil {
		return nil, errors.NewValueError(op, "nil label matrix")
	}
	r, c := y.Dims()
	if r == 0 {
		return nil, errors.NewValueError(op, "empty label matrix")
	}
	if c != 1 {
		return nil, errors.NewValueError(op, "labels must be a column vector (n×1 matrix)")
	}
	labels := make([]int, r)
	for i := 0; i < r; i++ {
		labels[i] = int(math.Round(y.At(i, 0)))
	}
	return labels, nil
}

func labelPair(yTrue, yPred mat.Matrix, op string) ([]int, []int, error) {
	ts, err := labelVector(yTrue, op)
	if err != nil {
		return nil, nil, err
	}
	ps, err := labelVector(yPred, op)
	if err != nil {
		return nil, nil, err
	}
	if len(ts) != len(ps) {
		return nil, nil, errors.NewDimensionError(op, len(ts), len(ps), 0)
	}
	return ts, ps, nil
}

// classSet returns the sorted union of the classes present in both label sets.
func classSet(ts, ps []int) []int {
	uniq := make(map[int]bool, len(ts))
	for _, v := range ts {
		uniq[v] = true
	}
	for _, v := range ps {
		uniq[v] = true
	}
	classes := make([]int, 0, len(uniq))
	for v := range uniq {
		classes = append(classes, v)
	}
	sort.Ints(classes)
	return classes
}

// Accuracy は正解率を計算する
func Accuracy(yTrue, yPred mat.Matrix) (float64, error) {
	ts, ps, err := labelPair(yTrue, yPred, "Accuracy")
	if err != nil {
		return 0, err
	}
	correct := 0
	for i := range ts {
		if ts[i] == ps[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(ts)), nil
}

// classStats holds per-class counts and derived metrics.
type classStats struct {
	class                 int
	tp, fp, fn            int
	support               int
	precision, recall, f1 float64
}

func perClassStats(ts, ps []int, metric string) []classStats {
	classes := classSet(ts, ps)
	stats := make([]classStats, len(classes))
	index := make(map[int]int, len(classes))
	for i, c := range classes {
		stats[i].class = c
		index[c] = i
	}

	for i := range ts {
		if ts[i] == ps[i] {
			stats[index[ts[i]]].tp++
		} else {
			stats[index[ps[i]]].fp++
			stats[index[ts[i]]].fn++
		}
		stats[index[ts[i]]].support++
	}

	undefined := false
	for i := range stats {
		s := &stats[i]
		if s.tp+s.fp > 0 {
			s.precision = float64(s.tp) / float64(s.tp+s.fp)
		} else {
			undefined = true
		}
		if s.tp+s.fn > 0 {
			s.recall = float64(s.tp) / float64(s.tp+s.fn)
		} else {
			undefined = true
		}
		if s.precision+s.recall > 0 {
			s.f1 = 2 * s.precision * s.recall / (s.precision + s.recall)
		}
	}
	if undefined {
		errors.Warn(errors.NewUndefinedMetricWarning(metric,
			"a class with no predicted or no true samples", 0))
	}
	return stats
}

func weighted(ts, ps []int, metric string, pick func(classStats) float64) float64 {
	stats := perClassStats(ts, ps, metric)
	total := 0.0
	sum := 0.0
	for _, s := range stats {
		sum += pick(s) * float64(s.support)
		total += float64(s.support)
	}
	if total == 0 {
		return 0
	}
	return sum / total
}

// WeightedPrecision は各クラスのサポート数で重み付けした適合率を計算する
func WeightedPrecision(yTrue, yPred mat.Matrix) (float64, error) {
	ts, ps, err := labelPair(yTrue, yPred, "WeightedPrecision")
	if err != nil {
		return 0, err
	}
	return weighted(ts, ps, "precision", func(s classStats) float64 { return s.precision }), nil
}

// WeightedRecall は各クラスのサポート数で重み付けした再現率を計算する
func WeightedRecall(yTrue, yPred mat.Matrix) (float64, error) {
	ts, ps, err := labelPair(yTrue, yPred, "WeightedRecall")
	if err != nil {
		return 0, err
	}
	return weighted(ts, ps, "recall", func(s classStats) float64 { return s.recall }), nil
}

// WeightedF1 は各クラスのサポート数で重み付けしたF1スコアを計算する
func WeightedF1(yTrue, yPred mat.Matrix) (float64, error) {
	ts, ps, err := labelPair(yTrue, yPred, "WeightedF1")
	if err != nil {
		return 0, err
	}
	return weighted(ts, ps, "f1-score", func(s classStats) float64 { return s.f1 }), nil
}

// ConfusionTable is a square confusion matrix over the union of the classes
// seen in the true and predicted labels.
type ConfusionTable struct {
	// Classes lists the class codes in ascending order; Counts is indexed
	// by [true][predicted] in the same order.
	Classes []int
	Counts  [][]int
}

// ConfusionMatrix は混同行列（真のクラス × 予測クラス）を計算する
func ConfusionMatrix(yTrue, yPred mat.Matrix) (*ConfusionTable, error) {
	ts, ps, err := labelPair(yTrue, yPred, "ConfusionMatrix")
	if err != nil {
		return nil, err
	}
	classes := classSet(ts, ps)
	index := make(map[int]int, len(classes))
	for i, c := range classes {
		index[c] = i
	}
	counts := make([][]int, len(classes))
	for i := range counts {
		counts[i] = make([]int, len(classes))
	}
	for i := range ts {
		counts[index[ts[i]]][index[ps[i]]]++
	}
	return &ConfusionTable{Classes: classes, Counts: counts}, nil
}

// ClassificationReport renders per-class precision/recall/F1/support plus the
// weighted averages as text. classNames optionally maps class code to a
// display name; codes without a name fall back to their decimal form.
func ClassificationReport(yTrue, yPred mat.Matrix, classNames map[int]string) (string, error) {
	ts, ps, err := labelPair(yTrue, yPred, "ClassificationReport")
	if err != nil {
		return "", err
	}
	stats := perClassStats(ts, ps, "classification report")

	nameOf := func(class int) string {
		if name, ok := classNames[class]; ok {
			return name
		}
		return strconv.Itoa(class)
	}
	width := len("weighted avg")
	for _, s := range stats {
		if n := len(nameOf(s.class)); n > width {
			width = n
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%*s  precision  recall  f1-score  support\n\n", width, "")
	total := 0
	for _, s := range stats {
		fmt.Fprintf(&sb, "%*s  %9.2f  %6.2f  %8.2f  %7d\n",
			width, nameOf(s.class), s.precision, s.recall, s.f1, s.support)
		total += s.support
	}

	accuracy, _ := Accuracy(yTrue, yPred)
	var wp, wr, wf float64
	for _, s := range stats {
		w := float64(s.support) / float64(total)
		wp += s.precision * w
		wr += s.recall * w
		wf += s.f1 * w
	}
	fmt.Fprintf(&sb, "\n%*s  %9s  %6s  %8.2f  %7d\n", width, "accuracy", "", "", accuracy, total)
	fmt.Fprintf(&sb, "%*s  %9.2f  %6.2f  %8.2f  %7d\n", width, "weighted avg", wp, wr, wf, total)
	return sb.String(), nil
}
