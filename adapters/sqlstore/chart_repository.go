package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gograph/domain/chart"
	"gograph/domain/core"
	"gograph/ports"

	"github.com/jmoiron/sqlx"
)

// MaxPageSize caps List's limit.
const MaxPageSize = 100

// chartRepository implements the ChartRepository interface on any sqlx
// driver; queries are written with ? and rebound per driver.
type chartRepository struct {
	db *sqlx.DB
}

// chartRow is the storage shape of a chart.Record
type chartRow struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	RawData   []byte    `db:"raw_data"`
	Columns   string    `db:"columns"`
	ChartType string    `db:"chart_type"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

const selectColumns = `id, name, raw_data, columns, chart_type, created_at, updated_at`

// NewChartRepository creates a new chart repository
func NewChartRepository(db *sqlx.DB) ports.ChartRepository {
	return &chartRepository{db: db}
}

// Create inserts a new chart
func (r *chartRepository) Create(ctx context.Context, rec *chart.Record) error {
	row, err := toRow(rec)
	if err != nil {
		return err
	}

	query := r.db.Rebind(`INSERT INTO charts (` + selectColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	_, err = r.db.ExecContext(ctx, query,
		row.ID, row.Name, row.RawData, row.Columns, row.ChartType, row.CreatedAt, row.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create chart: %w", err)
	}
	return nil
}

// Get retrieves a chart by its ID
func (r *chartRepository) Get(ctx context.Context, id core.ChartID) (*chart.Record, error) {
	var row chartRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(`SELECT `+selectColumns+` FROM charts WHERE id = ?`), id.String())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.NewNotFoundError("chart", id.String())
		}
		return nil, fmt.Errorf("failed to get chart: %w", err)
	}
	return fromRow(row)
}

// List returns one page of charts, newest first. page starts at 1.
func (r *chartRepository) List(ctx context.Context, page, limit int) (*ports.ChartPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM charts`); err != nil {
		return nil, fmt.Errorf("failed to count charts: %w", err)
	}

	var rows []chartRow
	query := r.db.Rebind(`SELECT ` + selectColumns + ` FROM charts ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`)
	if err := r.db.SelectContext(ctx, &rows, query, limit, (page-1)*limit); err != nil {
		return nil, fmt.Errorf("failed to query charts: %w", err)
	}

	records := make([]*chart.Record, 0, len(rows))
	for _, row := range rows {
		rec, err := fromRow(row)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return &ports.ChartPage{Records: records, Page: page, Limit: limit, TotalItems: total}, nil
}

// Update replaces a chart's name, data, columns and type
func (r *chartRepository) Update(ctx context.Context, rec *chart.Record) error {
	rec.UpdatedAt = core.Now()
	row, err := toRow(rec)
	if err != nil {
		return err
	}

	query := r.db.Rebind(`UPDATE charts SET
		name = ?, raw_data = ?, columns = ?, chart_type = ?, updated_at = ?
	WHERE id = ?`)
	result, err := r.db.ExecContext(ctx, query,
		row.Name, row.RawData, row.Columns, row.ChartType, row.UpdatedAt, row.ID)
	if err != nil {
		return fmt.Errorf("failed to update chart: %w", err)
	}
	return requireAffected(result, rec.ID)
}

// Delete removes a chart
func (r *chartRepository) Delete(ctx context.Context, id core.ChartID) error {
	result, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM charts WHERE id = ?`), id.String())
	if err != nil {
		return fmt.Errorf("failed to delete chart: %w", err)
	}
	return requireAffected(result, id)
}

func requireAffected(result sql.Result, id core.ChartID) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return core.NewNotFoundError("chart", id.String())
	}
	return nil
}

func toRow(rec *chart.Record) (chartRow, error) {
	columns, err := json.Marshal(rec.Columns)
	if err != nil {
		return chartRow{}, fmt.Errorf("failed to marshal columns: %w", err)
	}
	return chartRow{
		ID:        rec.ID.String(),
		Name:      rec.Name,
		RawData:   rec.RawData,
		Columns:   string(columns),
		ChartType: string(rec.ChartType),
		CreatedAt: rec.CreatedAt.Time(),
		UpdatedAt: rec.UpdatedAt.Time(),
	}, nil
}

func fromRow(row chartRow) (*chart.Record, error) {
	var columns []string
	if err := json.Unmarshal([]byte(row.Columns), &columns); err != nil {
		return nil, fmt.Errorf("failed to unmarshal columns of chart %s: %w", row.ID, err)
	}
	return &chart.Record{
		ID:        core.ChartID(row.ID),
		Name:      row.Name,
		RawData:   row.RawData,
		Columns:   columns,
		ChartType: chart.Type(row.ChartType),
		CreatedAt: core.NewTimestamp(row.CreatedAt.UTC()),
		UpdatedAt: core.NewTimestamp(row.UpdatedAt.UTC()),
	}, nil
}
