package preprocessing

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/tabml/core/model"
	"github.com/YuminosukeSato/tabml/dataset"
	"github.com/YuminosukeSato/tabml/pkg/errors"
	"github.com/YuminosukeSato/tabml/pkg/log"
)

// Pipeline composes the feature transformers with a single fitted state.
// FitTransform is the training mode; Transform is the apply-only inference
// mode that replays the fitted state without recomputing anything.
//
// In apply-only mode a column that was already encoded (the table carries it
// as numeric where the pipeline fitted an encoder) is left untouched, so
// applying the pipeline twice equals applying it once. The optional scaling
// stage is the exception; see ScaleNumeric.
type Pipeline struct {
	model.BaseEstimator

	// HandleMissing enables mean imputation for numeric columns and
	// mode substitution for categorical columns.
	HandleMissing bool

	// ScaleNumeric enables standardization of the numeric columns after
	// imputation. Scaling is not idempotent across repeated apply-only
	// calls; callers that replay a pipeline must apply it once per table.
	ScaleNumeric bool

	// EncodeCategorical enables per-column label encoding.
	EncodeCategorical bool

	// NumericColumns and CategoricalColumns record the fit-time partition
	// in declared column order. Both are required at apply-only time.
	NumericColumns     []string
	CategoricalColumns []string

	// Imputer holds the fitted per-column means.
	Imputer *MeanImputer

	// Modes maps categorical column name to its fit-time most frequent
	// value, used to fill missing cells.
	Modes map[string]string

	// Encoders maps categorical column name to its fitted encoder.
	Encoders map[string]*LabelEncoder

	// Scaler holds the fitted standardization statistics when
	// ScaleNumeric is set.
	Scaler *StandardScaler
}

// NewPipeline creates an unfitted pipeline with the given stage flags.
func NewPipeline(handleMissing, scaleNumeric, encodeCategorical bool) *Pipeline {
	return &Pipeline{
		HandleMissing:     handleMissing,
		ScaleNumeric:      scaleNumeric,
		EncodeCategorical: encodeCategorical,
	}
}

// FitTransform fits every enabled stage on the table and returns the
// transformed copy. The input table is not modified.
func (p *Pipeline) FitTransform(t *dataset.Table) (*dataset.Table, error) {
	if t.NumRows() == 0 {
		return nil, errors.NewModelError("Pipeline.FitTransform", "empty table", errors.ErrEmptyData)
	}

	out := t.Clone()
	p.NumericColumns = nil
	p.CategoricalColumns = nil
	for _, name := range out.Names() {
		if out.Column(name).Kind == dataset.KindNumeric {
			p.NumericColumns = append(p.NumericColumns, name)
		} else {
			p.CategoricalColumns = append(p.CategoricalColumns, name)
		}
	}

	if p.HandleMissing {
		p.Imputer = NewMeanImputer()
		if err := p.Imputer.FitTransform(out, p.NumericColumns); err != nil {
			return nil, err
		}
		p.Modes = make(map[string]string, len(p.CategoricalColumns))
		for _, name := range p.CategoricalColumns {
			c := out.Column(name)
			p.Modes[name] = columnMode(c)
			fillCategorical(c, p.Modes[name])
		}
	}

	if p.EncodeCategorical {
		p.Encoders = make(map[string]*LabelEncoder, len(p.CategoricalColumns))
		for _, name := range p.CategoricalColumns {
			enc := NewLabelEncoder(name)
			codes, err := enc.FitTransform(out.Column(name).Strs)
			if err != nil {
				return nil, err
			}
			p.Encoders[name] = enc
			if err := out.SetNumeric(name, codes); err != nil {
				return nil, err
			}
		}
	}

	if p.ScaleNumeric {
		p.Scaler = NewStandardScalerDefault()
		if err := p.rescale(out, true); err != nil {
			return nil, err
		}
	}

	p.SetFitted()
	log.GetLoggerWithName("preprocessing").Debug("pipeline fitted",
		log.OperationKey, log.OperationFitTransform,
		"numeric_columns", len(p.NumericColumns),
		"categorical_columns", len(p.CategoricalColumns),
	)
	return out, nil
}

// Transform replays the fitted state on a new table and returns the
// transformed copy. Every fit-time column must be present.
func (p *Pipeline) Transform(t *dataset.Table) (*dataset.Table, error) {
	if !p.IsFitted() {
		return nil, errors.NewNotFittedError("Pipeline", "Transform")
	}
	for _, name := range p.NumericColumns {
		if !t.HasColumn(name) {
			return nil, errors.NewSchemaError("Pipeline.Transform", name)
		}
	}
	for _, name := range p.CategoricalColumns {
		if !t.HasColumn(name) {
			return nil, errors.NewSchemaError("Pipeline.Transform", name)
		}
	}

	out := t.Clone()

	if p.HandleMissing {
		if err := p.Imputer.Transform(out); err != nil {
			return nil, err
		}
		for _, name := range p.CategoricalColumns {
			c := out.Column(name)
			if c.Kind != dataset.KindCategorical {
				continue
			}
			fillCategorical(c, p.Modes[name])
		}
	}

	if p.EncodeCategorical {
		for _, name := range p.CategoricalColumns {
			c := out.Column(name)
			if c.Kind != dataset.KindCategorical {
				// Already encoded on a previous pass.
				continue
			}
			codes, err := p.Encoders[name].Transform(c.Strs)
			if err != nil {
				return nil, err
			}
			if err := out.SetNumeric(name, codes); err != nil {
				return nil, err
			}
		}
	}

	if p.ScaleNumeric {
		if err := p.rescale(out, false); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// rescale standardizes the original numeric columns in place, fitting the
// scaler first when fit is set.
func (p *Pipeline) rescale(t *dataset.Table, fit bool) error {
	if len(p.NumericColumns) == 0 {
		return nil
	}
	sub, err := t.Select(p.NumericColumns)
	if err != nil {
		return err
	}
	X, err := sub.Matrix()
	if err != nil {
		return err
	}

	var scaled mat.Matrix
	if fit {
		scaled, err = p.Scaler.FitTransform(X)
	} else {
		scaled, err = p.Scaler.Transform(X)
	}
	if err != nil {
		return err
	}

	rows, _ := scaled.Dims()
	for j, name := range p.NumericColumns {
		vals := make([]float64, rows)
		for i := 0; i < rows; i++ {
			vals[i] = scaled.At(i, j)
		}
		if err := t.SetNumeric(name, vals); err != nil {
			return err
		}
	}
	return nil
}

// columnMode returns the most frequent non-missing value of a categorical
// column. Ties break toward the lexicographically smallest value so the
// result does not depend on map iteration order.
func columnMode(c *dataset.Column) string {
	counts := make(map[string]int, len(c.Strs))
	for i, v := range c.Strs {
		if !c.IsMissing(i) {
			counts[v]++
		}
	}
	mode := ""
	best := 0
	for v, n := range counts {
		if n > best || (n == best && best > 0 && v < mode) {
			mode = v
			best = n
		}
	}
	return mode
}

func fillCategorical(c *dataset.Column, mode string) {
	if c.Miss == nil {
		return
	}
	for i := range c.Strs {
		if c.Miss[i] {
			c.Strs[i] = mode
			c.Miss[i] = false
		}
	}
}
