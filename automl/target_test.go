package automl

import (
	"testing"

	"github.com/YuminosukeSato/tabml/dataset"
	"github.com/YuminosukeSato/tabml/pkg/errors"
)

func tableWithColumns(t *testing.T, names ...string) *dataset.Table {
	t.Helper()
	tbl := dataset.New()
	for _, name := range names {
		if err := tbl.AddNumeric(name, []float64{1, 2}); err != nil {
			t.Fatalf("AddNumeric failed: %v", err)
		}
	}
	return tbl
}

func TestResolveTarget(t *testing.T) {
	tests := []struct {
		name     string
		columns  []string
		explicit string
		want     string
	}{
		{
			name:    "priority name wins",
			columns: []string{"a", "label", "b"},
			want:    "label",
		},
		{
			name:    "target beats label",
			columns: []string{"label", "target"},
			want:    "target",
		},
		{
			name:    "y is recognized",
			columns: []string{"f1", "f2", "y"},
			want:    "y",
		},
		{
			name:    "fallback to last column",
			columns: []string{"height", "width", "species"},
			want:    "species",
		},
		{
			name:     "explicit name",
			columns:  []string{"a", "label", "b"},
			explicit: "b",
			want:     "b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := tableWithColumns(t, tt.columns...)
			got, err := ResolveTarget(tbl, tt.explicit)
			if err != nil {
				t.Fatalf("ResolveTarget failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("ResolveTarget = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestResolveTargetIsDeterministic(t *testing.T) {
	tbl := tableWithColumns(t, "h", "w", "species")
	first, err := ResolveTarget(tbl, "")
	if err != nil {
		t.Fatalf("ResolveTarget failed: %v", err)
	}
	for i := 0; i < 5; i++ {
		got, err := ResolveTarget(tbl, "")
		if err != nil {
			t.Fatalf("ResolveTarget failed: %v", err)
		}
		if got != first {
			t.Fatalf("resolution changed between calls: %s vs %s", got, first)
		}
	}
}

func TestResolveTargetExplicitMissing(t *testing.T) {
	tbl := tableWithColumns(t, "a", "b")

	_, err := ResolveTarget(tbl, "ghost")
	var schemaErr *errors.SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected *SchemaError, got %v", err)
	}
	if schemaErr.Column != "ghost" {
		t.Errorf("SchemaError.Column = %s, want ghost", schemaErr.Column)
	}
}

func TestResolveTargetEmptyTable(t *testing.T) {
	_, err := ResolveTarget(dataset.New(), "")
	var emptyErr *errors.EmptyDatasetError
	if !errors.As(err, &emptyErr) {
		t.Errorf("expected *EmptyDatasetError, got %v", err)
	}
}
