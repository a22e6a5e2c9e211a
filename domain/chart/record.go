package chart

import (
	"fmt"
	"strings"

	"gograph/domain/core"
	"gograph/domain/table"
)

// Record is a saved chart: its name, the serialized table and the bound
// columns.
type Record struct {
	ID        core.ChartID   `json:"id" db:"id"`
	Name      string         `json:"name" db:"name"`
	RawData   []byte         `json:"rawData" db:"raw_data"`
	Columns   []string       `json:"columns" db:"-"`
	ChartType Type           `json:"chartType" db:"chart_type"`
	CreatedAt core.Timestamp `json:"createdAt" db:"-"`
	UpdatedAt core.Timestamp `json:"updatedAt" db:"-"`
}

// NewRecord serializes a spec and its table into a record with a fresh ID.
func NewRecord(name string, spec Spec, tbl *table.Table) (*Record, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", core.ErrInvalidChartRecord)
	}
	spec, err := spec.Normalize()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidChartRecord, err)
	}
	for _, col := range spec.Columns() {
		if !tbl.HasColumn(col) {
			return nil, fmt.Errorf("%w: column %q not in data", core.ErrInvalidChartRecord, col)
		}
	}

	raw, err := tbl.Marshal()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidChartRecord, err)
	}

	now := core.Now()
	return &Record{
		ID:        core.NewChartID(),
		Name:      name,
		RawData:   raw,
		Columns:   spec.Columns(),
		ChartType: spec.ChartType,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Decode restores the spec and table stored in the record.
func (r *Record) Decode() (Spec, *table.Table, error) {
	t, err := ParseType(string(r.ChartType))
	if err != nil {
		return Spec{}, nil, fmt.Errorf("%w: %v", core.ErrInvalidChartRecord, err)
	}
	spec, err := SpecFromColumns(t, r.Columns)
	if err != nil {
		return Spec{}, nil, err
	}
	tbl, err := table.Unmarshal(r.RawData)
	if err != nil {
		return Spec{}, nil, fmt.Errorf("%w: %v", core.ErrInvalidChartRecord, err)
	}
	return spec, tbl, nil
}
