package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFillsMissingCells(t *testing.T) {
	tbl, err := New([]string{"cat", "val"}, []Row{
		{"cat": "A", "val": "10"},
		{"cat": "B"},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, tbl.RowCount())
	v, ok := tbl.Rows[1]["val"]
	assert.True(t, ok)
	assert.Equal(t, "", v)
	assert.Equal(t, []string{"A", "B"}, tbl.Column("cat"))
}

func TestNewRejectsBadHeaders(t *testing.T) {
	_, err := New([]string{"a", "a"}, nil)
	assert.Error(t, err)

	_, err = New([]string{"a", ""}, nil)
	assert.Error(t, err)
}

func TestRoundTripPreservesOrder(t *testing.T) {
	tbl, err := New([]string{"z", "a"}, []Row{{"z": "1", "a": "x"}, {"z": "2", "a": "y"}})
	require.NoError(t, err)

	data, err := tbl.Marshal()
	require.NoError(t, err)

	back, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, tbl.Headers, back.Headers)
	assert.Equal(t, tbl.Rows, back.Rows)
	assert.Equal(t, tbl.Fingerprint(), back.Fingerprint())
}

func TestHead(t *testing.T) {
	tbl, err := New([]string{"a"}, []Row{{"a": "1"}, {"a": "2"}, {"a": "3"}})
	require.NoError(t, err)

	assert.Len(t, tbl.Head(2), 2)
	assert.Len(t, tbl.Head(10), 3)
	assert.Len(t, tbl.Head(-1), 3)
}

func TestFingerprintSensitiveToCellBoundaries(t *testing.T) {
	a, _ := New([]string{"x", "y"}, []Row{{"x": "ab", "y": "c"}})
	b, _ := New([]string{"x", "y"}, []Row{{"x": "a", "y": "bc"}})
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())
}
