package metrics

import (
	"math"
	"strings"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func labels(vals ...float64) *mat.Dense {
	return mat.NewDense(len(vals), 1, vals)
}

func TestAccuracy(t *testing.T) {
	tests := []struct {
		name  string
		yTrue []float64
		yPred []float64
		want  float64
	}{
		{
			name:  "perfect",
			yTrue: []float64{0, 1, 1, 0},
			yPred: []float64{0, 1, 1, 0},
			want:  1.0,
		},
		{
			name:  "half",
			yTrue: []float64{0, 1, 1, 0},
			yPred: []float64{0, 0, 1, 1},
			want:  0.5,
		},
		{
			name:  "all wrong",
			yTrue: []float64{0, 0},
			yPred: []float64{1, 1},
			want:  0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Accuracy(labels(tt.yTrue...), labels(tt.yPred...))
			if err != nil {
				t.Fatalf("Accuracy failed: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("Accuracy = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAccuracyDimensionMismatch(t *testing.T) {
	if _, err := Accuracy(labels(0, 1), labels(0)); err == nil {
		t.Error("expected error for mismatched lengths")
	}
}

func TestWeightedMetrics(t *testing.T) {
	// クラス0: tp=2 fp=1 fn=0, クラス1: tp=1 fp=0 fn=1
	yTrue := labels(0, 0, 1, 1)
	yPred := labels(0, 0, 0, 1)

	precision, err := WeightedPrecision(yTrue, yPred)
	if err != nil {
		t.Fatalf("WeightedPrecision failed: %v", err)
	}
	// (2/3)*2/4 + (1/1)*2/4 = 0.8333...
	if math.Abs(precision-5.0/6.0) > 1e-6 {
		t.Errorf("WeightedPrecision = %v, want %v", precision, 5.0/6.0)
	}

	recall, err := WeightedRecall(yTrue, yPred)
	if err != nil {
		t.Fatalf("WeightedRecall failed: %v", err)
	}
	// (2/2)*2/4 + (1/2)*2/4 = 0.75
	if math.Abs(recall-0.75) > 1e-6 {
		t.Errorf("WeightedRecall = %v, want 0.75", recall)
	}

	f1, err := WeightedF1(yTrue, yPred)
	if err != nil {
		t.Fatalf("WeightedF1 failed: %v", err)
	}
	// f1(0)=0.8, f1(1)=2/3 → 0.4+1/3
	want := 0.8*0.5 + (2.0/3.0)*0.5
	if math.Abs(f1-want) > 1e-6 {
		t.Errorf("WeightedF1 = %v, want %v", f1, want)
	}
}

func TestWeightedMetricsPerfect(t *testing.T) {
	yTrue := labels(0, 1, 2, 1)
	for _, fn := range []func(yTrue, yPred mat.Matrix) (float64, error){
		WeightedPrecision, WeightedRecall, WeightedF1,
	} {
		got, err := fn(yTrue, yTrue)
		if err != nil {
			t.Fatalf("metric failed: %v", err)
		}
		if math.Abs(got-1.0) > 1e-6 {
			t.Errorf("metric on perfect predictions = %v, want 1", got)
		}
	}
}

func TestConfusionMatrix(t *testing.T) {
	yTrue := labels(0, 0, 1, 1, 2)
	yPred := labels(0, 1, 1, 1, 0)

	cm, err := ConfusionMatrix(yTrue, yPred)
	if err != nil {
		t.Fatalf("ConfusionMatrix failed: %v", err)
	}

	if len(cm.Classes) != 3 {
		t.Fatalf("len(Classes) = %d, want 3", len(cm.Classes))
	}
	want := [][]int{
		{1, 1, 0},
		{0, 2, 0},
		{1, 0, 0},
	}
	for i := range want {
		for j := range want[i] {
			if cm.Counts[i][j] != want[i][j] {
				t.Errorf("Counts[%d][%d] = %d, want %d", i, j, cm.Counts[i][j], want[i][j])
			}
		}
	}

	// 全セルの合計はサンプル数
	total := 0
	for i := range cm.Counts {
		for j := range cm.Counts[i] {
			total += cm.Counts[i][j]
		}
	}
	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}
}

func TestClassificationReport(t *testing.T) {
	yTrue := labels(0, 0, 1, 1)
	yPred := labels(0, 0, 0, 1)

	report, err := ClassificationReport(yTrue, yPred, map[int]string{0: "cat", 1: "dog"})
	if err != nil {
		t.Fatalf("ClassificationReport failed: %v", err)
	}

	for _, want := range []string{"cat", "dog", "precision", "recall", "f1-score", "support", "weighted avg", "accuracy"} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q:\n%s", want, report)
		}
	}
}

func TestClassificationReportFallbackNames(t *testing.T) {
	yTrue := labels(0, 1)
	report, err := ClassificationReport(yTrue, yTrue, nil)
	if err != nil {
		t.Fatalf("ClassificationReport failed: %v", err)
	}
	if !strings.Contains(report, "0") || !strings.Contains(report, "1") {
		t.Errorf("report should fall back to decimal class codes:\n%s", report)
	}
}
