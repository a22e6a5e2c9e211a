package validation

import (
	"fmt"

	"gograph/domain/chart"
	"gograph/domain/core"
	"gograph/domain/table"
	"gograph/internal/profiling"
)

// Canonical thresholds
const (
	MinPieCategories   = 2
	MaxPieCategories   = 8
	MinHistogramSample = 30
	MinBoxSample       = 20
)

// Fixed reasons shown when a chart type is disabled before columns are chosen.
const (
	ReasonNoData          = "No data available"
	ReasonNoValues        = "No columns with values found"
	ReasonNoNumericOrDate = "No numeric or date columns found"
	ReasonNoPieColumn     = "No columns with 2-8 values found"
	ReasonNoNumeric       = "No numeric columns found"
)

// Availability returns the coarse verdict for every chart type in menu order.
func Availability(profiles *profiling.Profiles) []chart.Availability {
	out := make([]chart.Availability, 0, len(chart.AllTypes))
	for _, t := range chart.AllTypes {
		ok, reason := Available(profiles, t)
		out = append(out, chart.Availability{ChartType: t, Available: ok, Reason: reason})
	}
	return out
}

// Available reports whether at least one column satisfies the minimum shape
// of chart type t. The reason is empty when the type is available.
func Available(profiles *profiling.Profiles, t chart.Type) (bool, string) {
	if profiles.Len() == 0 {
		return false, ReasonNoData
	}

	var match func(chart.ColumnProfile) bool
	var reason string
	switch t {
	case chart.Bar:
		match = func(p chart.ColumnProfile) bool { return p.TotalNonEmptyValues > 0 }
		reason = ReasonNoValues
	case chart.Line:
		match = func(p chart.ColumnProfile) bool { return p.IsNumeric || p.IsDate }
		reason = ReasonNoNumericOrDate
	case chart.Pie:
		match = func(p chart.ColumnProfile) bool {
			return p.UniqueValueCount >= MinPieCategories && p.UniqueValueCount <= MaxPieCategories
		}
		reason = ReasonNoPieColumn
	case chart.Scatter, chart.Histogram, chart.Box:
		match = func(p chart.ColumnProfile) bool { return p.IsNumeric }
		reason = ReasonNoNumeric
	default:
		return false, "Chart type not available"
	}

	for _, p := range profiles.Ordered() {
		if match(p) {
			return true, ""
		}
	}
	return false, reason
}

// Validate applies the fine rules for spec against the table and its
// profiles. It fails fast on the first violated rule; nothing is computed.
func Validate(t *table.Table, profiles *profiling.Profiles, spec chart.Spec) error {
	if t.RowCount() == 0 {
		return &core.DataEmptyError{Reason: "table has no rows"}
	}
	if profiles.UsableCount() == 0 {
		return &core.DataEmptyError{Reason: "No valid data columns found"}
	}
	spec, err := spec.Normalize()
	if err != nil {
		return err
	}

	if missing := missingRoles(spec); len(missing) > 0 {
		return &core.ColumnSelectionIncompleteError{Missing: missing}
	}

	cols := make([]chart.ColumnProfile, 0, 2)
	for _, name := range spec.Columns() {
		p, ok := profiles.Get(name)
		if !ok || !t.HasColumn(name) {
			return core.NewIneligible(spec.ChartType.String(), fmt.Sprintf("Column %q not found", name))
		}
		cols = append(cols, p)
	}

	switch spec.ChartType {
	case chart.Bar, chart.Line, chart.Pie:
		return validateAggregate(spec.ChartType, cols[0], cols[1])
	case chart.Scatter:
		if !cols[0].IsNumeric || !cols[1].IsNumeric {
			return core.NewIneligible(spec.ChartType.String(), "Scatter plots need two numeric columns")
		}
		return nil
	case chart.Histogram:
		return validateSample(spec.ChartType, cols[0], MinHistogramSample)
	case chart.Box:
		return validateSample(spec.ChartType, cols[0], MinBoxSample)
	}
	return fmt.Errorf("%w: %q", core.ErrUnknownChartType, spec.ChartType)
}

func missingRoles(spec chart.Spec) []string {
	var missing []string
	switch spec.ChartType.Binding() {
	case chart.BindSingle:
		if spec.SingleColumn == "" {
			missing = append(missing, "a numeric column")
		}
	case chart.BindPair:
		first, second := "a category column", "a value column"
		if spec.ChartType == chart.Scatter {
			first, second = "an X column", "a Y column"
		}
		if spec.CategoryColumn == "" {
			missing = append(missing, first)
		}
		if spec.ValueColumn == "" {
			missing = append(missing, second)
		}
	}
	return missing
}

func validateAggregate(t chart.Type, category, value chart.ColumnProfile) error {
	if category.TotalNonEmptyValues == 0 {
		return core.NewIneligible(t.String(), fmt.Sprintf("Category column %q has no values", category.Name))
	}
	if !value.IsNumeric || value.TotalNonEmptyValues == 0 {
		return core.NewIneligible(t.String(), fmt.Sprintf("Value column %q must contain numbers", value.Name))
	}
	if t == chart.Pie {
		n := category.UniqueValueCount
		if n < MinPieCategories || n > MaxPieCategories {
			return core.NewIneligible(t.String(),
				fmt.Sprintf("Pie charts need between %d and %d categories; %q has %d",
					MinPieCategories, MaxPieCategories, category.Name, n))
		}
	}
	return nil
}

func validateSample(t chart.Type, col chart.ColumnProfile, min int) error {
	if !col.IsNumeric {
		return core.NewIneligible(t.String(), fmt.Sprintf("Column %q must contain numbers", col.Name))
	}
	if col.TotalNonEmptyValues < min {
		return core.NewIneligible(t.String(),
			fmt.Sprintf("Need at least %d numeric values; %q has %d", min, col.Name, col.TotalNonEmptyValues))
	}
	return nil
}
