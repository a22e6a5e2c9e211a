package statistics

import (
	"fmt"
	"math"
	"sort"

	"gograph/domain/chart"
	"gograph/domain/core"
	"gograph/domain/table"
	"gograph/internal/profiling"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"
)

// Engine computes the statistics each chart type is drawn from.
// Every method is a pure function of its arguments.
type Engine struct{}

// NewEngine creates a statistics engine
func NewEngine() *Engine {
	return &Engine{}
}

// Compute derives the result variant for spec from the table. The spec is
// expected to have passed fine validation; only unknown columns or chart
// types are reported here.
func (e *Engine) Compute(t *table.Table, spec chart.Spec) (chart.Result, error) {
	for _, col := range spec.Columns() {
		if !t.HasColumn(col) {
			return nil, fmt.Errorf("%w: %q", core.ErrUnknownColumn, col)
		}
	}

	switch spec.ChartType {
	case chart.Bar, chart.Line, chart.Pie:
		return e.Aggregate(t.Column(spec.CategoryColumn), t.Column(spec.ValueColumn)), nil
	case chart.Scatter:
		return e.Pair(t.Column(spec.CategoryColumn), t.Column(spec.ValueColumn)), nil
	case chart.Histogram:
		return e.Histogram(profiling.Numbers(t.Column(spec.SingleColumn))), nil
	case chart.Box:
		return e.FiveNumber(profiling.Numbers(t.Column(spec.SingleColumn)))
	}
	return nil, fmt.Errorf("%w: %q", core.ErrUnknownChartType, spec.ChartType)
}

// Aggregate groups by the raw category cell and sums the parseable value
// cells of each group. Groups keep first-seen order; rows with an empty
// category are skipped.
func (e *Engine) Aggregate(categories, values []string) *chart.Aggregate {
	index := make(map[string]int)
	agg := &chart.Aggregate{Items: []chart.LabelValue{}}

	for i, label := range categories {
		if profiling.IsEmpty(label) {
			continue
		}
		pos, seen := index[label]
		if !seen {
			pos = len(agg.Items)
			index[label] = pos
			agg.Items = append(agg.Items, chart.LabelValue{Label: label})
		}
		if i >= len(values) {
			continue
		}
		if v, ok := profiling.ParseNumber(values[i]); ok {
			agg.Items[pos].Value += v
		}
	}
	return agg
}

// Pair zips two columns into points, dropping rows where either side does
// not parse.
func (e *Engine) Pair(xs, ys []string) *chart.Pairs {
	pairs := &chart.Pairs{Points: []chart.Point{}}
	for i := 0; i < len(xs) && i < len(ys); i++ {
		x, okX := profiling.ParseNumber(xs[i])
		y, okY := profiling.ParseNumber(ys[i])
		if !okX || !okY {
			continue
		}
		pairs.Points = append(pairs.Points, chart.Point{X: x, Y: y})
	}
	return pairs
}

// Histogram partitions [min, max] of the sample into HistogramBins equal
// bins. Bins are half-open except the last, which also holds max. When every
// value is equal the whole sample falls in the last bin.
func (e *Engine) Histogram(sample []float64) *chart.Distribution {
	d := &chart.Distribution{
		Sample:   append([]float64{}, sample...),
		BinCount: chart.HistogramBins,
		Counts:   make([]int, chart.HistogramBins),
	}
	if len(sample) == 0 {
		d.Edges = []float64{}
		return d
	}

	d.Min = floats.Min(sample)
	d.Max = floats.Max(sample)
	d.Edges = floats.Span(make([]float64, chart.HistogramBins+1), d.Min, d.Max)

	for _, v := range sample {
		d.Counts[binIndex(v, d.Edges)]++
	}
	return d
}

// binIndex finds the bin of v among edges. A value on an interior edge opens
// the next bin; the last bin is closed.
func binIndex(v float64, edges []float64) int {
	last := len(edges) - 2
	if edges[0] == edges[last+1] {
		return last
	}
	interior := edges[1 : last+1]
	idx := sort.SearchFloat64s(interior, v)
	if idx < len(interior) && interior[idx] == v {
		idx++
	}
	if idx > last {
		return last
	}
	return idx
}

// FiveNumber computes the box plot summary. Quartiles use the nearest-rank
// element at floor(n*p) of the sorted sample; whiskers extend 1.5*IQR and
// are clamped to the observed extremes.
func (e *Engine) FiveNumber(sample []float64) (*chart.FiveNumber, error) {
	if len(sample) == 0 {
		return &chart.FiveNumber{Outliers: []float64{}}, nil
	}

	sorted := append([]float64{}, sample...)
	sort.Float64s(sorted)
	n := len(sorted)

	median, err := stats.Median(sorted)
	if err != nil {
		return nil, fmt.Errorf("median: %w", err)
	}

	fn := &chart.FiveNumber{
		N:        n,
		Min:      sorted[0],
		Max:      sorted[n-1],
		Q1:       sorted[nearestRank(n, 0.25)],
		Median:   median,
		Q3:       sorted[nearestRank(n, 0.75)],
		Outliers: []float64{},
	}
	fn.IQR = fn.Q3 - fn.Q1
	fn.LowerWhisker = math.Max(fn.Q1-1.5*fn.IQR, fn.Min)
	fn.UpperWhisker = math.Min(fn.Q3+1.5*fn.IQR, fn.Max)

	for _, v := range sorted {
		if v < fn.LowerWhisker || v > fn.UpperWhisker {
			fn.Outliers = append(fn.Outliers, v)
		}
	}
	return fn, nil
}

func nearestRank(n int, p float64) int {
	idx := int(math.Floor(float64(n) * p))
	if idx >= n {
		idx = n - 1
	}
	return idx
}

// Summarize computes the descriptive panel of a column: mean, textbook
// median, mode, highest and lowest over its numeric cells.
func (e *Engine) Summarize(column string, cells []string) (*chart.Summary, error) {
	sample := profiling.Numbers(cells)
	if len(sample) == 0 {
		return nil, &core.DataEmptyError{Reason: fmt.Sprintf("column %q has no numeric values", column)}
	}
	data := stats.Float64Data(sample)

	mean, err := stats.Mean(data)
	if err != nil {
		return nil, fmt.Errorf("mean: %w", err)
	}
	median, err := stats.Median(data)
	if err != nil {
		return nil, fmt.Errorf("median: %w", err)
	}
	highest, err := stats.Max(data)
	if err != nil {
		return nil, fmt.Errorf("max: %w", err)
	}
	lowest, err := stats.Min(data)
	if err != nil {
		return nil, fmt.Errorf("min: %w", err)
	}

	return &chart.Summary{
		Column:  column,
		Count:   len(sample),
		Mean:    mean,
		Median:  median,
		Mode:    Mode(sample),
		Highest: highest,
		Lowest:  lowest,
	}, nil
}

// Mode returns the most frequent value. Ties go to the value seen first in
// the input.
func Mode(sample []float64) float64 {
	counts := make(map[float64]int, len(sample))
	order := make([]float64, 0, len(sample))
	for _, v := range sample {
		if counts[v] == 0 {
			order = append(order, v)
		}
		counts[v]++
	}

	var mode float64
	best := 0
	for _, v := range order {
		if counts[v] > best {
			mode, best = v, counts[v]
		}
	}
	return mode
}
