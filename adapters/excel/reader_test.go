package excel

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"gograph/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestDetectFileType(t *testing.T) {
	tests := []struct {
		hint string
		want FileType
		ok   bool
	}{
		{"text/csv", FileTypeCSV, true},
		{"text/csv; charset=utf-8", FileTypeCSV, true},
		{"sales.CSV", FileTypeCSV, true},
		{"csv", FileTypeCSV, true},
		{mimeXLSX, FileTypeXLSX, true},
		{"report.xlsx", FileTypeXLSX, true},
		{"report.xls", "", false},
		{"application/json", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.hint, func(t *testing.T) {
			got, ok := DetectFileType(tt.hint)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeCSV(t *testing.T) {
	data := "\ufeffregion, sales ,note\nNorth,10,\"says \"\"hi\"\"\"\nSouth,5\n,,\nEast,2,x,extra\n"

	tbl, err := NewDecoder(DefaultDecoderConfig()).Decode(context.Background(), strings.NewReader(data), "upload.csv")
	require.NoError(t, err)

	assert.Equal(t, []string{"region", "sales", "note"}, tbl.Headers)
	require.Equal(t, 3, tbl.RowCount())
	assert.Equal(t, "10", tbl.Rows[0]["sales"])
	assert.Equal(t, `says "hi"`, tbl.Rows[0]["note"])
	assert.Equal(t, "", tbl.Rows[1]["note"])
	for _, row := range tbl.Rows {
		assert.Len(t, row, 3)
	}
}

func TestDecodeCSVHeaderOnly(t *testing.T) {
	tbl, err := NewDecoder(DefaultDecoderConfig()).Decode(context.Background(), strings.NewReader("a,b\n"), "text/csv")
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.RowCount())
	assert.Equal(t, []string{"a", "b"}, tbl.Headers)
}

func TestDecodeRejects(t *testing.T) {
	dec := NewDecoder(DefaultDecoderConfig())

	_, err := dec.Decode(context.Background(), strings.NewReader(""), "empty.csv")
	assert.ErrorIs(t, err, core.ErrDecode)

	_, err = dec.Decode(context.Background(), strings.NewReader("a,b"), "data.json")
	assert.ErrorIs(t, err, core.ErrDecode)
	assert.ErrorIs(t, err, core.ErrUnsupportedFormat)

	_, err = dec.Decode(context.Background(), strings.NewReader("not a zip"), "book.xlsx")
	assert.ErrorIs(t, err, core.ErrDecode)
}

func TestDecodeHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewDecoder(DefaultDecoderConfig()).Decode(ctx, strings.NewReader("a\n1\n"), "a.csv")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDecodeMaxRows(t *testing.T) {
	dec := NewDecoder(DecoderConfig{MaxRows: 2})
	tbl, err := dec.Decode(context.Background(), strings.NewReader("x\n1\n2\n3\n4\n"), "csv")
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.RowCount())
}

func TestNormalizeHeaders(t *testing.T) {
	got := normalizeHeaders([]string{" name ", "", "name", "name", "name_1x"})
	assert.Equal(t, []string{"name", "column_2", "name_1", "name_2", "name_1x"}, got)
}

func workbook(t *testing.T, sheets map[string][][]interface{}, order []string) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, name := range order {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", name))
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for r, row := range sheets[name] {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(name, cell, &row))
		}
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestDecodeXLSXFirstSheet(t *testing.T) {
	buf := workbook(t, map[string][][]interface{}{
		"Data":  {{"region", "sales"}, {"North", 10}, {"South", 5.5}},
		"Notes": {{"ignored"}, {"x"}},
	}, []string{"Data", "Notes"})

	tbl, err := NewDecoder(DefaultDecoderConfig()).Decode(context.Background(), buf, mimeXLSX)
	require.NoError(t, err)
	assert.Equal(t, []string{"region", "sales"}, tbl.Headers)
	require.Equal(t, 2, tbl.RowCount())
	assert.Equal(t, "10", tbl.Rows[0]["sales"])
	assert.Equal(t, "5.5", tbl.Rows[1]["sales"])
}

func TestDecodeXLSXNamedSheet(t *testing.T) {
	buf := workbook(t, map[string][][]interface{}{
		"Data":  {{"region"}, {"North"}},
		"Notes": {{"memo"}, {"x"}, {"y"}},
	}, []string{"Data", "Notes"})

	tbl, err := NewDecoder(DecoderConfig{Sheet: "Notes"}).Decode(context.Background(), buf, "book.xlsx")
	require.NoError(t, err)
	assert.Equal(t, []string{"memo"}, tbl.Headers)
	assert.Equal(t, 2, tbl.RowCount())
}
