package excel

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"gograph/domain/core"
	"gograph/domain/table"

	"github.com/xuri/excelize/v2"
)

// Decoder reads uploaded CSV and XLSX files into tables
type Decoder struct {
	config DecoderConfig
}

// NewDecoder creates a decoder with the given limits
func NewDecoder(config DecoderConfig) *Decoder {
	return &Decoder{config: config}
}

// Decode reads r as the format named by hint. The first row is the header.
func (d *Decoder) Decode(ctx context.Context, r io.Reader, hint string) (*table.Table, error) {
	fileType, ok := DetectFileType(hint)
	if !ok {
		return nil, fmt.Errorf("%w: %w: %q", core.ErrDecode, core.ErrUnsupportedFormat, hint)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log.Printf("[DataReader] Starting to read %s upload", fileType)
	var (
		rows [][]string
		err  error
	)
	switch fileType {
	case FileTypeCSV:
		rows, err = d.readCSV(ctx, r)
	case FileTypeXLSX:
		rows, err = d.readExcel(r)
	}
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, core.NewDecodeError(string(fileType), err)
	}
	return d.processRows(fileType, rows)
}

// readExcel reads the configured worksheet, the first one by default
func (d *Decoder) readExcel(r io.Reader) ([][]string, error) {
	startTime := time.Now()
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := d.config.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.New("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", sheet, err)
	}
	log.Printf("[DataReader] %s read in %.2fms (%d rows)",
		sheet, float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))
	return rows, nil
}

// readCSV reads records one at a time so a cancelled upload stops early
func (d *Decoder) readCSV(ctx context.Context, r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	readStart := time.Now()
	var rows [][]string
	for {
		if len(rows)%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV file: %w", err)
		}
		rows = append(rows, record)
		if d.config.MaxRows > 0 && len(rows) > d.config.MaxRows {
			break
		}
	}
	log.Printf("[DataReader] CSV file read in %.2fms (%d rows)",
		float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))
	return rows, nil
}

// processRows converts raw string rows into a table
func (d *Decoder) processRows(fileType FileType, rows [][]string) (*table.Table, error) {
	if len(rows) == 0 || isBlankRow(rows[0]) {
		return nil, core.NewDecodeError(string(fileType), errors.New("file has no header row"))
	}

	headers := normalizeHeaders(rows[0])
	body := rows[1:]
	if d.config.MaxRows > 0 && len(body) > d.config.MaxRows {
		body = body[:d.config.MaxRows]
	}

	dataRows := make([]table.Row, 0, len(body))
	for _, row := range body {
		if isBlankRow(row) {
			continue
		}
		rowData := make(table.Row, len(headers))
		for j, cell := range row {
			if j < len(headers) {
				rowData[headers[j]] = strings.TrimSpace(cell)
			}
		}
		dataRows = append(dataRows, rowData)
	}

	tbl, err := table.New(headers, dataRows)
	if err != nil {
		return nil, core.NewDecodeError(string(fileType), err)
	}
	log.Printf("[DataReader] %s file processed (%d columns, %d rows)",
		strings.ToUpper(string(fileType)), len(headers), len(dataRows))
	return tbl, nil
}

// normalizeHeaders trims names, names blank columns by position and
// suffixes repeated names so every header is unique.
func normalizeHeaders(raw []string) []string {
	headers := make([]string, len(raw))
	taken := make(map[string]bool, len(raw))
	for i, h := range raw {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if h == "" {
			h = "column_" + strconv.Itoa(i+1)
		}
		name := h
		for n := 1; taken[name]; n++ {
			name = h + "_" + strconv.Itoa(n)
		}
		taken[name] = true
		headers[i] = name
	}
	return headers
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
