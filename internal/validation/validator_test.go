package validation

import (
	"fmt"
	"strconv"
	"testing"

	"gograph/domain/chart"
	"gograph/domain/core"
	"gograph/domain/table"
	"gograph/internal/profiling"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// categoryTable builds rows whose "cat" column has n distinct values.
func categoryTable(t *testing.T, n int) *table.Table {
	t.Helper()
	var rows []table.Row
	for i := 0; i < n; i++ {
		rows = append(rows, table.Row{"cat": fmt.Sprintf("c%d", i), "val": strconv.Itoa(i + 1)})
	}
	tbl, err := table.New([]string{"cat", "val"}, rows)
	require.NoError(t, err)
	return tbl
}

// numericTable builds one numeric column "x" of n values.
func numericTable(t *testing.T, n int) *table.Table {
	t.Helper()
	rows := make([]table.Row, n)
	for i := range rows {
		rows[i] = table.Row{"x": strconv.Itoa(i)}
	}
	tbl, err := table.New([]string{"x"}, rows)
	require.NoError(t, err)
	return tbl
}

func validate(tbl *table.Table, spec chart.Spec) error {
	return Validate(tbl, profiling.Analyze(tbl), spec)
}

func TestPieCategoryBounds(t *testing.T) {
	tests := []struct {
		categories int
		eligible   bool
	}{
		{1, false},
		{2, true},
		{8, true},
		{9, false},
	}

	for _, tt := range tests {
		t.Run(strconv.Itoa(tt.categories), func(t *testing.T) {
			err := validate(categoryTable(t, tt.categories), chart.Spec{ChartType: chart.Pie, CategoryColumn: "cat", ValueColumn: "val"})
			if tt.eligible {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, core.ErrIneligible)
			}

			ok, _ := Available(profiling.Analyze(categoryTable(t, tt.categories)), chart.Pie)
			assert.Equal(t, tt.eligible, ok, "coarse availability")
		})
	}
}

func TestSampleSizeThresholds(t *testing.T) {
	tests := []struct {
		chartType chart.Type
		n         int
		eligible  bool
	}{
		{chart.Histogram, 29, false},
		{chart.Histogram, 30, true},
		{chart.Box, 19, false},
		{chart.Box, 20, true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s-%d", tt.chartType, tt.n), func(t *testing.T) {
			err := validate(numericTable(t, tt.n), chart.Spec{ChartType: tt.chartType, SingleColumn: "x"})
			if tt.eligible {
				assert.NoError(t, err)
				return
			}
			var ineligible *core.ChartEligibilityError
			require.ErrorAs(t, err, &ineligible)
			assert.Contains(t, ineligible.Reason, strconv.Itoa(tt.n))
		})
	}
}

func TestSelectionIncomplete(t *testing.T) {
	tbl := categoryTable(t, 3)

	err := validate(tbl, chart.Spec{ChartType: chart.Bar, CategoryColumn: "cat"})
	var incomplete *core.ColumnSelectionIncompleteError
	require.ErrorAs(t, err, &incomplete)
	assert.Equal(t, []string{"a value column"}, incomplete.Missing)

	err = validate(tbl, chart.Spec{ChartType: chart.Box})
	assert.ErrorIs(t, err, core.ErrSelectionIncomplete)
}

func TestUnknownColumnAndType(t *testing.T) {
	tbl := categoryTable(t, 3)

	err := validate(tbl, chart.Spec{ChartType: chart.Bar, CategoryColumn: "cat", ValueColumn: "missing"})
	assert.ErrorIs(t, err, core.ErrIneligible)

	err = validate(tbl, chart.Spec{ChartType: "radar", CategoryColumn: "cat", ValueColumn: "val"})
	assert.ErrorIs(t, err, core.ErrUnknownChartType)
}

func TestAggregateNeedsNumericValue(t *testing.T) {
	tbl := categoryTable(t, 3)
	err := validate(tbl, chart.Spec{ChartType: chart.Bar, CategoryColumn: "val", ValueColumn: "cat"})
	assert.ErrorIs(t, err, core.ErrIneligible)

	assert.NoError(t, validate(tbl, chart.Spec{ChartType: chart.Line, CategoryColumn: "cat", ValueColumn: "val"}))
}

func TestScatterNeedsTwoNumericColumns(t *testing.T) {
	tbl := categoryTable(t, 3)
	err := validate(tbl, chart.Spec{ChartType: chart.Scatter, CategoryColumn: "cat", ValueColumn: "val"})
	assert.ErrorIs(t, err, core.ErrIneligible)

	assert.NoError(t, validate(tbl, chart.Spec{ChartType: chart.Scatter, CategoryColumn: "val", ValueColumn: "val"}))
}

func TestEmptyData(t *testing.T) {
	tbl, err := table.New([]string{"a"}, nil)
	require.NoError(t, err)
	assert.ErrorIs(t, validate(tbl, chart.Spec{ChartType: chart.Bar, CategoryColumn: "a", ValueColumn: "a"}), core.ErrDataEmpty)

	blank, err := table.New([]string{"a"}, []table.Row{{"a": ""}, {"a": "  "}})
	require.NoError(t, err)
	assert.ErrorIs(t, validate(blank, chart.Spec{ChartType: chart.Bar, CategoryColumn: "a", ValueColumn: "a"}), core.ErrDataEmpty)
}

func TestAvailabilityReasons(t *testing.T) {
	tbl, err := table.New([]string{"name"}, []table.Row{{"name": "a"}, {"name": "b"}, {"name": "c"}})
	require.NoError(t, err)

	got := map[chart.Type]chart.Availability{}
	for _, a := range Availability(profiling.Analyze(tbl)) {
		got[a.ChartType] = a
	}

	assert.True(t, got[chart.Bar].Available)
	assert.True(t, got[chart.Pie].Available)
	assert.Equal(t, ReasonNoNumericOrDate, got[chart.Line].Reason)
	assert.Equal(t, ReasonNoNumeric, got[chart.Scatter].Reason)
	assert.Equal(t, ReasonNoNumeric, got[chart.Histogram].Reason)
	assert.Equal(t, ReasonNoNumeric, got[chart.Box].Reason)

	for _, a := range Availability(nil) {
		assert.False(t, a.Available)
		assert.Equal(t, ReasonNoData, a.Reason)
	}
}

func TestValidateAcceptsAnyCaseType(t *testing.T) {
	assert.NoError(t, validate(categoryTable(t, 3), chart.Spec{ChartType: " BAR ", CategoryColumn: "cat", ValueColumn: "val"}))
	assert.NoError(t, validate(numericTable(t, 25), chart.Spec{ChartType: "Box", SingleColumn: "x"}))

	err := validate(numericTable(t, 25), chart.Spec{ChartType: "BOXES", SingleColumn: "x"})
	assert.ErrorIs(t, err, core.ErrUnknownChartType)
}
