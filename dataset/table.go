// Package dataset implements the in-memory table that the automation core
// operates on: an ordered collection of named columns, each either numeric or
// categorical, with explicit missing-value tracking.
//
// Row count and column order are preserved by every transformation unless a
// column is explicitly dropped. Missing numeric cells are represented as NaN,
// missing categorical cells through a boolean mask.
package dataset

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/tabml/pkg/errors"
)

func nan() float64 { return math.NaN() }

// Kind tags the semantic type of a column.
type Kind int

const (
	// KindNumeric marks a column of float64 values.
	KindNumeric Kind = iota
	// KindCategorical marks a column of string values.
	KindCategorical
)

// String returns the dtype tag used in profiles and logs.
func (k Kind) String() string {
	if k == KindNumeric {
		return "numeric"
	}
	return "categorical"
}

// Column is a homogeneous sequence of values of one semantic type.
type Column struct {
	Name string
	Kind Kind

	// Nums holds the values of a numeric column; NaN marks a missing cell.
	Nums []float64

	// Strs holds the values of a categorical column.
	Strs []string

	// Miss marks missing cells of a categorical column. May be nil when no
	// cell is missing.
	Miss []bool
}

// Len returns the number of rows in the column.
func (c *Column) Len() int {
	if c.Kind == KindNumeric {
		return len(c.Nums)
	}
	return len(c.Strs)
}

// IsMissing reports whether the cell at row i is missing.
func (c *Column) IsMissing(i int) bool {
	if c.Kind == KindNumeric {
		return math.IsNaN(c.Nums[i])
	}
	return c.Miss != nil && c.Miss[i]
}

// MissingCount returns the number of missing cells in the column.
func (c *Column) MissingCount() int {
	n := 0
	for i := 0; i < c.Len(); i++ {
		if c.IsMissing(i) {
			n++
		}
	}
	return n
}

func (c *Column) clone() *Column {
	out := &Column{Name: c.Name, Kind: c.Kind}
	if c.Nums != nil {
		out.Nums = append([]float64(nil), c.Nums...)
	}
	if c.Strs != nil {
		out.Strs = append([]string(nil), c.Strs...)
	}
	if c.Miss != nil {
		out.Miss = append([]bool(nil), c.Miss...)
	}
	return out
}

// Table is an ordered collection of named columns with aligned rows.
type Table struct {
	cols  []*Column
	index map[string]int
	nRows int
}

// New creates an empty table.
func New() *Table {
	return &Table{index: make(map[string]int)}
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int {
	return t.nRows
}

// NumCols returns the number of columns.
func (t *Table) NumCols() int {
	return len(t.cols)
}

// Names returns the column names in declared order.
func (t *Table) Names() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.Name
	}
	return names
}

// HasColumn reports whether a column with the given name exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column returns the named column, or nil if it does not exist.
func (t *Table) Column(name string) *Column {
	i, ok := t.index[name]
	if !ok {
		return nil
	}
	return t.cols[i]
}

func (t *Table) add(c *Column) error {
	if _, exists := t.index[c.Name]; exists {
		return errors.NewValidationError("column", "duplicate column name", c.Name)
	}
	if len(t.cols) > 0 && c.Len() != t.nRows {
		return errors.NewDimensionError("Table.add", t.nRows, c.Len(), 0)
	}
	if len(t.cols) == 0 {
		t.nRows = c.Len()
	}
	t.index[c.Name] = len(t.cols)
	t.cols = append(t.cols, c)
	return nil
}

// AddNumeric appends a numeric column. NaN cells count as missing.
func (t *Table) AddNumeric(name string, values []float64) error {
	return t.add(&Column{Name: name, Kind: KindNumeric, Nums: values})
}

// AddCategorical appends a categorical column. The missing mask may be nil.
func (t *Table) AddCategorical(name string, values []string, missing []bool) error {
	return t.add(&Column{Name: name, Kind: KindCategorical, Strs: values, Miss: missing})
}

// SetNumeric replaces the named column with numeric values, keeping its
// position in the column order. The column is created when absent.
func (t *Table) SetNumeric(name string, values []float64) error {
	if len(t.cols) > 0 && len(values) != t.nRows {
		return errors.NewDimensionError("Table.SetNumeric", t.nRows, len(values), 0)
	}
	if i, ok := t.index[name]; ok {
		t.cols[i] = &Column{Name: name, Kind: KindNumeric, Nums: values}
		return nil
	}
	return t.AddNumeric(name, values)
}

// SetCategorical replaces the named column with categorical values, keeping
// its position in the column order. The column is created when absent.
func (t *Table) SetCategorical(name string, values []string, missing []bool) error {
	if len(t.cols) > 0 && len(values) != t.nRows {
		return errors.NewDimensionError("Table.SetCategorical", t.nRows, len(values), 0)
	}
	if i, ok := t.index[name]; ok {
		t.cols[i] = &Column{Name: name, Kind: KindCategorical, Strs: values, Miss: missing}
		return nil
	}
	return t.AddCategorical(name, values, missing)
}

// Drop returns a new table without the named columns. Names that do not
// exist are ignored.
func (t *Table) Drop(names ...string) *Table {
	dropped := make(map[string]bool, len(names))
	for _, n := range names {
		dropped[n] = true
	}
	out := New()
	for _, c := range t.cols {
		if dropped[c.Name] {
			continue
		}
		_ = out.add(c.clone())
	}
	return out
}

// Select returns a new table containing exactly the named columns, in the
// given order. A missing column yields a SchemaError.
func (t *Table) Select(names []string) (*Table, error) {
	out := New()
	for _, name := range names {
		c := t.Column(name)
		if c == nil {
			return nil, errors.NewSchemaError("Table.Select", name)
		}
		if err := out.add(c.clone()); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := New()
	for _, c := range t.cols {
		_ = out.add(c.clone())
	}
	return out
}

// Matrix converts the table to a dense matrix for model consumption.
// All columns must be numeric; categorical columns must be encoded first.
func (t *Table) Matrix() (*mat.Dense, error) {
	if t.NumRows() == 0 || t.NumCols() == 0 {
		return nil, errors.NewModelError("Table.Matrix", "empty table", errors.ErrEmptyData)
	}
	for _, c := range t.cols {
		if c.Kind != KindNumeric {
			return nil, errors.NewValueError("Table.Matrix",
				"column '"+c.Name+"' is categorical; encode it before building a matrix")
		}
	}
	m := mat.NewDense(t.nRows, len(t.cols), nil)
	for j, c := range t.cols {
		for i := 0; i < t.nRows; i++ {
			m.Set(i, j, c.Nums[i])
		}
	}
	return m, nil
}
