package dataset

import (
	"strings"
)

// Profile is the structural summary of a table: shape, per-column dtype,
// missing counts, duplicate rows, and the numeric/categorical partition.
// Producing a profile never fails; a zero-row table is signalled through
// Rows and left to the caller to judge.
type Profile struct {
	Rows int
	Cols int

	// Columns lists the column names in declared order.
	Columns []string

	// DTypes maps column name to its dtype tag ("numeric" or "categorical").
	DTypes map[string]string

	// MissingValues maps column name to its missing-cell count.
	MissingValues map[string]int

	// Duplicates counts rows that are exact copies of an earlier row.
	Duplicates int

	// NumericColumns and CategoricalColumns partition the columns, each in
	// declared order.
	NumericColumns     []string
	CategoricalColumns []string
}

// Analyze inspects a table and produces its structural summary.
func Analyze(t *Table) Profile {
	p := Profile{
		Rows:          t.NumRows(),
		Cols:          t.NumCols(),
		Columns:       t.Names(),
		DTypes:        make(map[string]string, t.NumCols()),
		MissingValues: make(map[string]int, t.NumCols()),
	}

	for _, name := range p.Columns {
		c := t.Column(name)
		p.DTypes[name] = c.Kind.String()
		p.MissingValues[name] = c.MissingCount()
		if c.Kind == KindNumeric {
			p.NumericColumns = append(p.NumericColumns, name)
		} else {
			p.CategoricalColumns = append(p.CategoricalColumns, name)
		}
	}

	p.Duplicates = countDuplicateRows(t)
	return p
}

// countDuplicateRows counts rows identical to an earlier row, all columns
// considered. Missing cells compare equal to missing cells.
func countDuplicateRows(t *Table) int {
	if t.NumRows() == 0 || t.NumCols() == 0 {
		return 0
	}
	seen := make(map[string]bool, t.NumRows())
	dups := 0
	var sb strings.Builder
	for i := 0; i < t.NumRows(); i++ {
		sb.Reset()
		for _, c := range t.cols {
			if c.IsMissing(i) {
				sb.WriteString("\x00")
			} else {
				sb.WriteString(cellString(c, i))
			}
			sb.WriteString("\x1f")
		}
		sig := sb.String()
		if seen[sig] {
			dups++
		}
		seen[sig] = true
	}
	return dups
}
