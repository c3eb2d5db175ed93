package dataset

import (
	"math"
	"testing"

	"github.com/YuminosukeSato/tabml/pkg/errors"
)

func sampleTable(t *testing.T) *Table {
	t.Helper()
	tbl := New()
	if err := tbl.AddNumeric("age", []float64{30, 40, math.NaN()}); err != nil {
		t.Fatalf("AddNumeric failed: %v", err)
	}
	if err := tbl.AddCategorical("city", []string{"tokyo", "", "osaka"}, []bool{false, true, false}); err != nil {
		t.Fatalf("AddCategorical failed: %v", err)
	}
	if err := tbl.AddNumeric("income", []float64{100, 200, 300}); err != nil {
		t.Fatalf("AddNumeric failed: %v", err)
	}
	return tbl
}

func TestTableShape(t *testing.T) {
	tbl := sampleTable(t)

	if tbl.NumRows() != 3 {
		t.Errorf("NumRows() = %d, want 3", tbl.NumRows())
	}
	if tbl.NumCols() != 3 {
		t.Errorf("NumCols() = %d, want 3", tbl.NumCols())
	}

	want := []string{"age", "city", "income"}
	got := tbl.Names()
	for i, name := range want {
		if got[i] != name {
			t.Errorf("Names()[%d] = %s, want %s", i, got[i], name)
		}
	}
}

func TestTableDuplicateColumn(t *testing.T) {
	tbl := New()
	if err := tbl.AddNumeric("x", []float64{1}); err != nil {
		t.Fatalf("AddNumeric failed: %v", err)
	}
	if err := tbl.AddNumeric("x", []float64{2}); err == nil {
		t.Error("expected error for duplicate column name")
	}
}

func TestTableRowMismatch(t *testing.T) {
	tbl := New()
	if err := tbl.AddNumeric("x", []float64{1, 2, 3}); err != nil {
		t.Fatalf("AddNumeric failed: %v", err)
	}
	err := tbl.AddNumeric("y", []float64{1, 2})
	var dimErr *errors.DimensionError
	if !errors.As(err, &dimErr) {
		t.Errorf("expected *DimensionError, got %v", err)
	}
}

func TestColumnMissing(t *testing.T) {
	tbl := sampleTable(t)

	tests := []struct {
		column string
		want   int
	}{
		{"age", 1},
		{"city", 1},
		{"income", 0},
	}
	for _, tt := range tests {
		if got := tbl.Column(tt.column).MissingCount(); got != tt.want {
			t.Errorf("MissingCount(%s) = %d, want %d", tt.column, got, tt.want)
		}
	}

	if !tbl.Column("age").IsMissing(2) {
		t.Error("age row 2 should be missing")
	}
	if tbl.Column("city").IsMissing(0) {
		t.Error("city row 0 should not be missing")
	}
}

func TestTableDrop(t *testing.T) {
	tbl := sampleTable(t)
	out := tbl.Drop("city", "no_such_column")

	if out.NumCols() != 2 {
		t.Fatalf("NumCols() = %d, want 2", out.NumCols())
	}
	if out.HasColumn("city") {
		t.Error("dropped column should be absent")
	}
	if tbl.NumCols() != 3 {
		t.Error("Drop must not mutate the source table")
	}
}

func TestTableSelect(t *testing.T) {
	tbl := sampleTable(t)

	out, err := tbl.Select([]string{"income", "age"})
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	names := out.Names()
	if names[0] != "income" || names[1] != "age" {
		t.Errorf("Select order = %v, want [income age]", names)
	}

	_, err = tbl.Select([]string{"age", "ghost"})
	var schemaErr *errors.SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected *SchemaError, got %v", err)
	}
	if schemaErr.Column != "ghost" {
		t.Errorf("SchemaError.Column = %s, want ghost", schemaErr.Column)
	}
}

func TestTableCloneIsDeep(t *testing.T) {
	tbl := sampleTable(t)
	clone := tbl.Clone()

	clone.Column("income").Nums[0] = -1
	if tbl.Column("income").Nums[0] != 100 {
		t.Error("mutating the clone changed the source table")
	}
}

func TestTableSetKeepsPosition(t *testing.T) {
	tbl := sampleTable(t)
	if err := tbl.SetNumeric("city", []float64{0, 1, 2}); err != nil {
		t.Fatalf("SetNumeric failed: %v", err)
	}

	if tbl.Names()[1] != "city" {
		t.Errorf("column order changed: %v", tbl.Names())
	}
	if tbl.Column("city").Kind != KindNumeric {
		t.Error("city should now be numeric")
	}
}

func TestTableMatrix(t *testing.T) {
	tbl := New()
	_ = tbl.AddNumeric("a", []float64{1, 2})
	_ = tbl.AddNumeric("b", []float64{3, 4})

	m, err := tbl.Matrix()
	if err != nil {
		t.Fatalf("Matrix failed: %v", err)
	}
	rows, cols := m.Dims()
	if rows != 2 || cols != 2 {
		t.Errorf("Dims() = (%d, %d), want (2, 2)", rows, cols)
	}
	if math.Abs(m.At(1, 0)-2) > 1e-6 {
		t.Errorf("At(1,0) = %v, want 2", m.At(1, 0))
	}
}

func TestTableMatrixRejectsCategorical(t *testing.T) {
	tbl := sampleTable(t)
	if _, err := tbl.Matrix(); err == nil {
		t.Error("expected error for categorical column")
	}
}
