package automl

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/YuminosukeSato/tabml/dataset"
	"github.com/YuminosukeSato/tabml/pkg/errors"
)

// PredictionSummary renders the distribution of the prediction column of a
// Predict output as text, with the mean confidence when the column exists.
func PredictionSummary(t *dataset.Table) (string, error) {
	pred := t.Column(PredictionColumn)
	if pred == nil {
		return "", errors.NewSchemaError("PredictionSummary", PredictionColumn)
	}

	counts := make(map[string]int)
	for i := 0; i < pred.Len(); i++ {
		counts[predictionLabel(pred, i)]++
	}
	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	// Highest count first; ties alphabetical.
	sort.Slice(labels, func(a, b int) bool {
		if counts[labels[a]] != counts[labels[b]] {
			return counts[labels[a]] > counts[labels[b]]
		}
		return labels[a] < labels[b]
	})

	var sb strings.Builder
	fmt.Fprintf(&sb, "predictions: %d rows\n", pred.Len())
	for _, label := range labels {
		fmt.Fprintf(&sb, "  %s: %d\n", label, counts[label])
	}
	if conf := t.Column(ConfidenceColumn); conf != nil && conf.Kind == dataset.KindNumeric {
		sum := 0.0
		for _, v := range conf.Nums {
			sum += v
		}
		fmt.Fprintf(&sb, "mean confidence: %.3f\n", sum/float64(conf.Len()))
	}
	return sb.String(), nil
}

func predictionLabel(c *dataset.Column, i int) string {
	if c.Kind == dataset.KindCategorical {
		return c.Strs[i]
	}
	return strconv.FormatFloat(c.Nums[i], 'g', -1, 64)
}
