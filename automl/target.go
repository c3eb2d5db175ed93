package automl

import (
	"github.com/YuminosukeSato/tabml/dataset"
	"github.com/YuminosukeSato/tabml/pkg/errors"
)

// targetPriority lists the canonical target names probed in order when no
// explicit target is configured.
var targetPriority = []string{"target", "label", "class", "output", "y", "result", "prediction"}

// ResolveTarget picks the label column. An explicit name must exist in the
// table; otherwise the priority list is scanned and the last declared column
// is the fallback. The result depends only on the declared column order.
func ResolveTarget(t *dataset.Table, explicit string) (string, error) {
	if explicit != "" {
		if !t.HasColumn(explicit) {
			return "", errors.NewSchemaError("ResolveTarget", explicit)
		}
		return explicit, nil
	}

	if t.NumCols() == 0 {
		return "", errors.NewEmptyDatasetError("ResolveTarget")
	}
	for _, name := range targetPriority {
		if t.HasColumn(name) {
			return name, nil
		}
	}
	names := t.Names()
	return names[len(names)-1], nil
}
