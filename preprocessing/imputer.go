// Package preprocessing provides the deterministic feature transformers that
// sit between a raw table and a trainable matrix: missing-value imputation,
// categorical label encoding, numeric standardization, and the pipeline that
// composes them with a single fitted state.
package preprocessing

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/tabml/core/model"
	"github.com/YuminosukeSato/tabml/dataset"
	"github.com/YuminosukeSato/tabml/pkg/errors"
)

// MeanImputer fills missing numeric cells with the per-column mean observed
// during fitting. Fitted means are exported so the imputer survives a gob
// round trip.
type MeanImputer struct {
	model.BaseEstimator

	// Means maps column name to the mean of its non-missing cells at fit time.
	Means map[string]float64
}

// NewMeanImputer creates an unfitted imputer.
func NewMeanImputer() *MeanImputer {
	return &MeanImputer{}
}

// Fit computes the mean of each named numeric column, ignoring missing cells.
// A column with no observed values gets mean 0 and a data conversion warning.
func (m *MeanImputer) Fit(t *dataset.Table, columns []string) error {
	if t.NumRows() == 0 {
		return errors.NewModelError("MeanImputer.Fit", "empty table", errors.ErrEmptyData)
	}

	m.Means = make(map[string]float64, len(columns))
	for _, name := range columns {
		c := t.Column(name)
		if c == nil {
			return errors.NewSchemaError("MeanImputer.Fit", name)
		}
		if c.Kind != dataset.KindNumeric {
			return errors.NewValueError("MeanImputer.Fit",
				"column '"+name+"' is categorical; mean imputation needs a numeric column")
		}

		observed := make([]float64, 0, len(c.Nums))
		for i, v := range c.Nums {
			if !c.IsMissing(i) {
				observed = append(observed, v)
			}
		}
		if len(observed) == 0 {
			errors.Warn(errors.NewDataConversionWarning("missing", "float64",
				"column '"+name+"' has no observed values; imputing with 0"))
			m.Means[name] = 0
			continue
		}
		m.Means[name] = stat.Mean(observed, nil)
	}

	m.SetFitted()
	return nil
}

// Transform fills missing cells of every fitted column in place. Columns the
// table does not carry yield a SchemaError.
func (m *MeanImputer) Transform(t *dataset.Table) error {
	if !m.IsFitted() {
		return errors.NewNotFittedError("MeanImputer", "Transform")
	}

	names := make([]string, 0, len(m.Means))
	for name := range m.Means {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		c := t.Column(name)
		if c == nil {
			return errors.NewSchemaError("MeanImputer.Transform", name)
		}
		mean := m.Means[name]
		for i := range c.Nums {
			if c.IsMissing(i) {
				c.Nums[i] = mean
			}
		}
	}
	return nil
}

// FitTransform fits on the table and fills it in one call.
func (m *MeanImputer) FitTransform(t *dataset.Table, columns []string) error {
	if err := m.Fit(t, columns); err != nil {
		return err
	}
	return m.Transform(t)
}
