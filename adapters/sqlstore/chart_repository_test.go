package sqlstore

import (
	"context"
	"testing"
	"time"

	"gograph/domain/chart"
	"gograph/domain/core"
	"gograph/domain/table"
	"gograph/internal/migration"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := Open(context.Background(), "sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func testRecord(t *testing.T, name string) *chart.Record {
	t.Helper()
	tbl, err := table.New([]string{"region", "sales"}, []table.Row{
		{"region": "North", "sales": "10"},
		{"region": "South", "sales": "5"},
	})
	require.NoError(t, err)
	rec, err := chart.NewRecord(name, chart.Spec{ChartType: chart.Bar, CategoryColumn: "region", ValueColumn: "sales"}, tbl)
	require.NoError(t, err)
	return rec
}

func TestMigrationsAreIdempotent(t *testing.T) {
	db := testDB(t)
	require.NoError(t, migration.NewRunner().Run(context.Background(), db))

	var n int
	require.NoError(t, db.Get(&n, `SELECT COUNT(*) FROM schema_migrations`))
	assert.Equal(t, 2, n)
}

func TestChartRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewChartRepository(testDB(t))
	rec := testRecord(t, "Q1 sales")

	require.NoError(t, repo.Create(ctx, rec))

	got, err := repo.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, "Q1 sales", got.Name)
	assert.Equal(t, []string{"region", "sales"}, got.Columns)
	assert.Equal(t, chart.Bar, got.ChartType)
	assert.WithinDuration(t, rec.CreatedAt.Time(), got.CreatedAt.Time(), time.Millisecond)

	spec, tbl, err := got.Decode()
	require.NoError(t, err)
	assert.Equal(t, "sales", spec.ValueColumn)
	assert.Equal(t, 2, tbl.RowCount())
}

func TestChartRepositoryNotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewChartRepository(testDB(t))
	missing := testRecord(t, "ghost")

	_, err := repo.Get(ctx, missing.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.ErrorIs(t, repo.Update(ctx, missing), core.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, missing.ID), core.ErrNotFound)
}

func TestChartRepositoryUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewChartRepository(testDB(t))
	rec := testRecord(t, "draft")
	require.NoError(t, repo.Create(ctx, rec))

	rec.Name = "final"
	rec.ChartType = chart.Pie
	require.NoError(t, repo.Update(ctx, rec))

	got, err := repo.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "final", got.Name)
	assert.Equal(t, chart.Pie, got.ChartType)

	require.NoError(t, repo.Delete(ctx, rec.ID))
	_, err = repo.Get(ctx, rec.ID)
	assert.True(t, core.IsNotFoundError(err))
}

func TestChartRepositoryListNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewChartRepository(testDB(t))

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, name := range []string{"a", "b", "c", "d", "e"} {
		rec := testRecord(t, name)
		rec.CreatedAt = core.NewTimestamp(base.Add(time.Duration(i) * time.Hour))
		rec.UpdatedAt = rec.CreatedAt
		require.NoError(t, repo.Create(ctx, rec))
	}

	page, err := repo.List(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, page.TotalItems)
	assert.Equal(t, 3, page.TotalPages())
	require.Len(t, page.Records, 2)
	assert.Equal(t, "e", page.Records[0].Name)
	assert.Equal(t, "d", page.Records[1].Name)

	last, err := repo.List(ctx, 3, 2)
	require.NoError(t, err)
	require.Len(t, last.Records, 1)
	assert.Equal(t, "a", last.Records[0].Name)

	empty, err := repo.List(ctx, 9, 2)
	require.NoError(t, err)
	assert.Empty(t, empty.Records)
}

func TestOpenRequiresURL(t *testing.T) {
	_, err := Open(context.Background(), "sqlite3", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}
