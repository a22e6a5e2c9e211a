package chart

import (
	"testing"

	"gograph/domain/core"
	"gograph/domain/table"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseType(t *testing.T) {
	for _, ct := range AllTypes {
		got, err := ParseType(" " + string(ct) + " ")
		require.NoError(t, err)
		assert.Equal(t, ct, got)
	}

	_, err := ParseType("donut")
	assert.ErrorIs(t, err, core.ErrUnknownChartType)
}

func TestEveryTypeHasBindingAndKind(t *testing.T) {
	for _, ct := range AllTypes {
		assert.NotPanics(t, func() {
			_ = ct.Binding()
			_ = ct.ExpectedKind()
		}, string(ct))
	}
}

func TestSpecColumns(t *testing.T) {
	assert.Equal(t, []string{"cat", "val"}, Spec{ChartType: Bar, CategoryColumn: "cat", ValueColumn: "val"}.Columns())
	assert.Equal(t, []string{"x"}, Spec{ChartType: Box, SingleColumn: "x"}.Columns())
}

func TestRecordRoundTrip(t *testing.T) {
	tbl, err := table.New([]string{"cat", "val"}, []table.Row{{"cat": "A", "val": "1"}})
	require.NoError(t, err)
	spec := Spec{ChartType: Pie, CategoryColumn: "cat", ValueColumn: "val"}

	rec, err := NewRecord("Sales", spec, tbl)
	require.NoError(t, err)
	assert.False(t, core.ID(rec.ID).IsEmpty())

	gotSpec, gotTable, err := rec.Decode()
	require.NoError(t, err)
	assert.Equal(t, spec, gotSpec)
	assert.Equal(t, tbl.Rows, gotTable.Rows)
}

func TestNewRecordRejectsUnknownColumn(t *testing.T) {
	tbl, _ := table.New([]string{"cat"}, nil)
	_, err := NewRecord("x", Spec{ChartType: Histogram, SingleColumn: "nope"}, tbl)
	assert.ErrorIs(t, err, core.ErrInvalidChartRecord)

	_, err = NewRecord("  ", Spec{ChartType: Histogram, SingleColumn: "cat"}, tbl)
	assert.ErrorIs(t, err, core.ErrInvalidChartRecord)
}

func TestSpecNormalize(t *testing.T) {
	spec, err := Spec{ChartType: " Histogram", SingleColumn: "x"}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, Histogram, spec.ChartType)
	assert.Equal(t, []string{"x"}, spec.Columns())

	_, err = Spec{ChartType: "radar"}.Normalize()
	assert.ErrorIs(t, err, core.ErrUnknownChartType)
}
