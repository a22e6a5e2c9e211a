package ports

import (
	"context"

	"gograph/domain/chart"
	"gograph/domain/core"
)

// ChartRepository persists saved charts
type ChartRepository interface {
	Create(ctx context.Context, rec *chart.Record) error
	Get(ctx context.Context, id core.ChartID) (*chart.Record, error)
	List(ctx context.Context, page, limit int) (*ChartPage, error)
	Update(ctx context.Context, rec *chart.Record) error
	Delete(ctx context.Context, id core.ChartID) error
}

// ChartPage is one page of saved charts, newest first.
type ChartPage struct {
	Records    []*chart.Record
	Page       int
	Limit      int
	TotalItems int
}

// TotalPages returns the number of pages at the page's limit.
func (p *ChartPage) TotalPages() int {
	if p.Limit <= 0 || p.TotalItems == 0 {
		return 0
	}
	return (p.TotalItems + p.Limit - 1) / p.Limit
}
