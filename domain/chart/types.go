package chart

import (
	"fmt"
	"strings"

	"gograph/domain/core"
)

// Type is the closed set of chart kinds.
type Type string

const (
	Bar       Type = "bar"
	Line      Type = "line"
	Pie       Type = "pie"
	Scatter   Type = "scatter"
	Histogram Type = "histogram"
	Box       Type = "box"
)

// AllTypes lists every chart type in menu order.
var AllTypes = []Type{Bar, Line, Pie, Scatter, Histogram, Box}

// ParseType accepts a chart type name in any case.
func ParseType(s string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	switch t {
	case Bar, Line, Pie, Scatter, Histogram, Box:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", core.ErrUnknownChartType, s)
}

func (t Type) String() string { return string(t) }

// Binding describes which column roles a chart type needs.
type Binding int

const (
	// BindPair needs a category (or X) column and a value (or Y) column.
	BindPair Binding = iota
	// BindSingle needs one numeric column.
	BindSingle
)

// Binding returns the column roles t requires.
func (t Type) Binding() Binding {
	switch t {
	case Bar, Line, Pie, Scatter:
		return BindPair
	case Histogram, Box:
		return BindSingle
	}
	panic(fmt.Sprintf("chart: unhandled type %q", string(t)))
}

// Spec is the chosen chart type plus the columns bound to it.
// For scatter, CategoryColumn is X and ValueColumn is Y.
type Spec struct {
	ChartType      Type   `json:"chartType"`
	CategoryColumn string `json:"categoryColumn,omitempty"`
	ValueColumn    string `json:"valueColumn,omitempty"`
	SingleColumn   string `json:"singleColumn,omitempty"`
}

// Normalize returns s with its chart type in canonical lower-case form.
func (s Spec) Normalize() (Spec, error) {
	t, err := ParseType(string(s.ChartType))
	if err != nil {
		return Spec{}, err
	}
	s.ChartType = t
	return s, nil
}

// Columns returns the bound column names in role order.
func (s Spec) Columns() []string {
	if s.ChartType.Binding() == BindSingle {
		return []string{s.SingleColumn}
	}
	return []string{s.CategoryColumn, s.ValueColumn}
}

// SpecFromColumns rebuilds a Spec from a chart type and a stored column list.
func SpecFromColumns(t Type, columns []string) (Spec, error) {
	spec := Spec{ChartType: t}
	switch t.Binding() {
	case BindSingle:
		if len(columns) != 1 {
			return Spec{}, fmt.Errorf("%w: %s chart needs 1 column, got %d", core.ErrInvalidChartRecord, t, len(columns))
		}
		spec.SingleColumn = columns[0]
	case BindPair:
		if len(columns) != 2 {
			return Spec{}, fmt.Errorf("%w: %s chart needs 2 columns, got %d", core.ErrInvalidChartRecord, t, len(columns))
		}
		spec.CategoryColumn, spec.ValueColumn = columns[0], columns[1]
	}
	return spec, nil
}

// ColumnProfile is the inferred type signal of one column.
type ColumnProfile struct {
	Name                string   `json:"name"`
	IsNumeric           bool     `json:"isNumeric"`
	IsDate              bool     `json:"isDate"`
	UniqueValueCount    int      `json:"uniqueValueCount"`
	TotalNonEmptyValues int      `json:"totalNonEmptyValues"`
	SampleValues        []string `json:"sampleValues"`
}

// Usable reports whether any chart type could use the column.
func (p ColumnProfile) Usable() bool {
	return p.TotalNonEmptyValues > 0
}

// Availability is the coarse verdict for one chart type.
type Availability struct {
	ChartType Type   `json:"chartType"`
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

// Summary is the descriptive statistics panel for a numeric column.
type Summary struct {
	Column  string  `json:"column"`
	Count   int     `json:"count"`
	Mean    float64 `json:"mean"`
	Median  float64 `json:"median"`
	Mode    float64 `json:"mode"`
	Highest float64 `json:"highest"`
	Lowest  float64 `json:"lowest"`
}
