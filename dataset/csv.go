package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/YuminosukeSato/tabml/pkg/errors"
	"github.com/YuminosukeSato/tabml/pkg/log"
)

// ReadCSV parses CSV data into a Table. The first record is the header.
// Column types are inferred: a column whose non-empty cells all parse as
// float64 becomes numeric, anything else categorical. Empty cells are
// recorded as missing.
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse CSV")
	}
	if len(records) == 0 {
		return nil, errors.NewValueError("ReadCSV", "input has no header row")
	}

	header := records[0]
	rows := records[1:]

	table := New()
	for j, name := range header {
		raw := make([]string, len(rows))
		for i, row := range rows {
			raw[i] = row[j]
		}
		if col, ok := numericColumn(name, raw); ok {
			if err := table.add(col); err != nil {
				return nil, err
			}
			continue
		}
		if err := table.add(categoricalColumn(name, raw)); err != nil {
			return nil, err
		}
	}
	return table, nil
}

// ReadCSVFile loads a CSV file into a Table.
func ReadCSVFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open CSV file %s", path)
	}
	defer f.Close()

	table, err := ReadCSV(f)
	if err != nil {
		return nil, err
	}
	log.GetLoggerWithName("dataset").Info("loaded CSV",
		"path", path,
		log.SamplesKey, table.NumRows(),
		log.ColumnsKey, table.NumCols(),
	)
	return table, nil
}

// numericColumn attempts to build a numeric column from raw cells. It fails
// as soon as one non-empty cell does not parse as a float.
func numericColumn(name string, raw []string) (*Column, bool) {
	nums := make([]float64, len(raw))
	sawValue := false
	for i, cell := range raw {
		if cell == "" {
			nums[i] = nan()
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, false
		}
		nums[i] = v
		sawValue = true
	}
	// A column of only empty cells stays categorical; there is no evidence
	// it holds numbers.
	if !sawValue && len(raw) > 0 {
		return nil, false
	}
	return &Column{Name: name, Kind: KindNumeric, Nums: nums}, true
}

func categoricalColumn(name string, raw []string) *Column {
	var miss []bool
	for i, cell := range raw {
		if cell == "" {
			if miss == nil {
				miss = make([]bool, len(raw))
			}
			miss[i] = true
		}
	}
	return &Column{Name: name, Kind: KindCategorical, Strs: raw, Miss: miss}
}

// WriteCSV writes the table as CSV, header first. Missing cells are written
// as empty strings.
func WriteCSV(t *Table, w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(t.Names()); err != nil {
		return errors.Wrap(err, "failed to write CSV header")
	}
	record := make([]string, t.NumCols())
	for i := 0; i < t.NumRows(); i++ {
		for j, name := range t.Names() {
			record[j] = cellString(t.Column(name), i)
		}
		if err := writer.Write(record); err != nil {
			return errors.Wrap(err, "failed to write CSV record")
		}
	}
	writer.Flush()
	return errors.WithStack(writer.Error())
}

// WriteCSVFile saves the table to a CSV file.
func WriteCSVFile(t *Table, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create CSV file %s", path)
	}
	defer f.Close()

	if err := WriteCSV(t, f); err != nil {
		return err
	}
	log.GetLoggerWithName("dataset").Info("saved CSV",
		"path", path,
		log.SamplesKey, t.NumRows(),
	)
	return nil
}

// cellString renders a single cell for CSV output and row signatures.
func cellString(c *Column, i int) string {
	if c.IsMissing(i) {
		return ""
	}
	if c.Kind == KindNumeric {
		return strconv.FormatFloat(c.Nums[i], 'g', -1, 64)
	}
	return c.Strs[i]
}
