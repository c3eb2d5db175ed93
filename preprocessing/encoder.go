package preprocessing

import (
	"sort"
	"strconv"

	"github.com/YuminosukeSato/tabml/core/model"
	"github.com/YuminosukeSato/tabml/pkg/errors"
)

// LabelEncoder maps the distinct string values of one categorical column to
// integer codes. Codes are assigned in lexicographic order of the values, so
// two encoders fitted on the same value set agree regardless of row order.
//
// A value unseen at fit time makes Transform fail with an UnseenCategoryError
// naming the column and the value.
type LabelEncoder struct {
	model.BaseEstimator

	// ColumnName identifies the encoded column in errors.
	ColumnName string

	// ClassList holds the fitted values in code order.
	ClassList []string

	// codes is rebuilt from ClassList on demand, so it needs no gob support.
	codes map[string]int
}

// NewLabelEncoder creates an unfitted encoder for the named column.
func NewLabelEncoder(column string) *LabelEncoder {
	return &LabelEncoder{ColumnName: column}
}

// Fit learns the distinct values and their codes.
func (e *LabelEncoder) Fit(values []string) error {
	if len(values) == 0 {
		return errors.NewModelError("LabelEncoder.Fit", "empty data", errors.ErrEmptyData)
	}

	uniq := make(map[string]bool, len(values))
	for _, v := range values {
		uniq[v] = true
	}
	e.ClassList = make([]string, 0, len(uniq))
	for v := range uniq {
		e.ClassList = append(e.ClassList, v)
	}
	sort.Strings(e.ClassList)

	e.codes = nil
	e.SetFitted()
	return nil
}

func (e *LabelEncoder) codeMap() map[string]int {
	if e.codes == nil {
		e.codes = make(map[string]int, len(e.ClassList))
		for i, v := range e.ClassList {
			e.codes[v] = i
		}
	}
	return e.codes
}

// Transform converts values to their fitted codes.
func (e *LabelEncoder) Transform(values []string) ([]float64, error) {
	if !e.IsFitted() {
		return nil, errors.NewNotFittedError("LabelEncoder", "Transform")
	}

	codes := e.codeMap()
	out := make([]float64, len(values))
	for i, v := range values {
		code, ok := codes[v]
		if !ok {
			return nil, errors.NewUnseenCategoryError(e.ColumnName, v)
		}
		out[i] = float64(code)
	}
	return out, nil
}

// FitTransform fits the encoder and encodes the same values.
func (e *LabelEncoder) FitTransform(values []string) ([]float64, error) {
	if err := e.Fit(values); err != nil {
		return nil, err
	}
	return e.Transform(values)
}

// InverseTransform maps codes back to their string values.
func (e *LabelEncoder) InverseTransform(codes []int) ([]string, error) {
	if !e.IsFitted() {
		return nil, errors.NewNotFittedError("LabelEncoder", "InverseTransform")
	}

	out := make([]string, len(codes))
	for i, code := range codes {
		if code < 0 || code >= len(e.ClassList) {
			return nil, errors.NewValueError("LabelEncoder.InverseTransform",
				"code "+strconv.Itoa(code)+" is outside the fitted classes of column '"+e.ColumnName+"'")
		}
		out[i] = e.ClassList[code]
	}
	return out, nil
}

// Classes returns the fitted values in code order.
func (e *LabelEncoder) Classes() []string {
	return e.ClassList
}

// NumClasses returns the number of fitted classes.
func (e *LabelEncoder) NumClasses() int {
	return len(e.ClassList)
}
