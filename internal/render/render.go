package render

import (
	"fmt"
	"math"
	"strconv"

	"gograph/domain/chart"
	"gograph/domain/core"
)

// MinViewportSide is the smallest surface side that still leaves a plot area.
const MinViewportSide = 100

// DefaultPalette cycles through mark colors.
var DefaultPalette = []string{
	"4e79a7", "f28e2b", "e15759", "76b7b2", "59a14f",
	"edc948", "b07aa1", "ff9da7", "9c755f", "bab0ac",
}

type margins struct {
	top, right, bottom, left float64
}

// Renderer maps statistics results to scenes.
type Renderer struct {
	palette []string
	margin  margins
}

// NewRenderer creates a renderer with the default palette and margins.
func NewRenderer() *Renderer {
	return &Renderer{
		palette: DefaultPalette,
		margin:  margins{top: 40, right: 24, bottom: 56, left: 64},
	}
}

// Render lays out result as a scene for spec. A result whose variant does
// not match the chart type, or that holds nothing to draw, is an error; the
// caller keeps whatever it showed before.
func (r *Renderer) Render(result chart.Result, spec chart.Spec, vp Viewport, hover HoverState) (*Scene, error) {
	if result == nil {
		return nil, fmt.Errorf("%w: no result", core.ErrRenderMismatch)
	}
	if vp.Width < MinViewportSide || vp.Height < MinViewportSide {
		return nil, fmt.Errorf("viewport %dx%d is smaller than %dpx", vp.Width, vp.Height, MinViewportSide)
	}
	if want := spec.ChartType.ExpectedKind(); result.Kind() != want {
		return nil, fmt.Errorf("%w: %s chart needs %s, got %s", core.ErrRenderMismatch, spec.ChartType, want, result.Kind())
	}

	scene := &Scene{
		ChartType: spec.ChartType,
		Viewport:  vp,
		Plot: Rect{
			X: r.margin.left,
			Y: r.margin.top,
			W: float64(vp.Width) - r.margin.left - r.margin.right,
			H: float64(vp.Height) - r.margin.top - r.margin.bottom,
		},
		Title: title(spec),
		Marks: []Mark{},
	}

	var err error
	switch spec.ChartType {
	case chart.Bar:
		err = r.bar(scene, result.(*chart.Aggregate), spec)
	case chart.Line:
		err = r.line(scene, result.(*chart.Aggregate), spec)
	case chart.Pie:
		err = r.pie(scene, result.(*chart.Aggregate))
	case chart.Scatter:
		err = r.scatter(scene, result.(*chart.Pairs), spec)
	case chart.Histogram:
		err = r.histogram(scene, result.(*chart.Distribution), spec)
	case chart.Box:
		err = r.box(scene, result.(*chart.FiveNumber), spec)
	default:
		err = fmt.Errorf("%w: %q", core.ErrUnknownChartType, spec.ChartType)
	}
	if err != nil {
		return nil, err
	}
	return scene.WithHover(hover), nil
}

func title(spec chart.Spec) string {
	switch spec.ChartType.Binding() {
	case chart.BindSingle:
		return fmt.Sprintf("%s of %s", spec.ChartType, spec.SingleColumn)
	default:
		return fmt.Sprintf("%s by %s", spec.ValueColumn, spec.CategoryColumn)
	}
}

func (r *Renderer) color(i int) string {
	return r.palette[i%len(r.palette)]
}

func emptyResult(what string) error {
	return fmt.Errorf("%w: %s is empty", core.ErrRenderMismatch, what)
}

// valueAxis builds the vertical linear axis over [lo, hi].
func valueAxis(plot Rect, lo, hi float64, title string) (linearScale, *Axis) {
	scale, ticks := newLinearScale(lo, hi, plot.Y+plot.H, plot.Y).nice(5)
	axis := &Axis{
		From:     Vec{X: plot.X, Y: plot.Y + plot.H},
		To:       Vec{X: plot.X, Y: plot.Y},
		Title:    title,
		Vertical: true,
	}
	for _, t := range ticks {
		axis.Ticks = append(axis.Ticks, Tick{Pos: scale.At(t), Label: formatTick(t)})
	}
	return scale, axis
}

// linearXAxis builds the horizontal linear axis over [lo, hi].
func linearXAxis(plot Rect, lo, hi float64, title string) (linearScale, *Axis) {
	scale, ticks := newLinearScale(lo, hi, plot.X, plot.X+plot.W).nice(6)
	axis := &Axis{
		From:  Vec{X: plot.X, Y: plot.Y + plot.H},
		To:    Vec{X: plot.X + plot.W, Y: plot.Y + plot.H},
		Title: title,
	}
	for _, t := range ticks {
		axis.Ticks = append(axis.Ticks, Tick{Pos: scale.At(t), Label: formatTick(t)})
	}
	return scale, axis
}

func categoryAxis(plot Rect, band bandScale, labels []string, title string) *Axis {
	axis := &Axis{
		From:  Vec{X: plot.X, Y: plot.Y + plot.H},
		To:    Vec{X: plot.X + plot.W, Y: plot.Y + plot.H},
		Title: title,
	}
	for i, l := range labels {
		axis.Ticks = append(axis.Ticks, Tick{Pos: band.center(i), Label: l})
	}
	return axis
}

func aggregateExtent(items []chart.LabelValue) (float64, float64) {
	lo, hi := 0.0, 0.0
	for _, it := range items {
		lo = math.Min(lo, it.Value)
		hi = math.Max(hi, it.Value)
	}
	return lo, hi
}

func labels(items []chart.LabelValue) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Label
	}
	return out
}

func (r *Renderer) bar(s *Scene, agg *chart.Aggregate, spec chart.Spec) error {
	if len(agg.Items) == 0 {
		return emptyResult("aggregate")
	}
	lo, hi := aggregateExtent(agg.Items)
	y, yAxis := valueAxis(s.Plot, lo, hi, spec.ValueColumn)
	band := bandScale{r0: s.Plot.X, r1: s.Plot.X + s.Plot.W, n: len(agg.Items)}
	s.YAxis = yAxis
	s.XAxis = categoryAxis(s.Plot, band, labels(agg.Items), spec.CategoryColumn)

	zero := y.At(0)
	pad := band.width() * 0.1
	for i, it := range agg.Items {
		top := y.At(it.Value)
		s.Marks = append(s.Marks, Mark{
			ID:        "bar-" + strconv.Itoa(i),
			Kind:      MarkRect,
			Color:     r.color(0),
			Rect:      Rect{X: band.start(i) + pad, Y: math.Min(top, zero), W: band.width() - 2*pad, H: math.Abs(zero - top)},
			Label:     it.Label,
			Value:     it.Value,
			Hoverable: true,
		})
	}
	return nil
}

func (r *Renderer) line(s *Scene, agg *chart.Aggregate, spec chart.Spec) error {
	if len(agg.Items) == 0 {
		return emptyResult("aggregate")
	}
	lo, hi := aggregateExtent(agg.Items)
	y, yAxis := valueAxis(s.Plot, lo, hi, spec.ValueColumn)
	band := bandScale{r0: s.Plot.X, r1: s.Plot.X + s.Plot.W, n: len(agg.Items)}
	s.YAxis = yAxis
	s.XAxis = categoryAxis(s.Plot, band, labels(agg.Items), spec.CategoryColumn)

	path := make([]Vec, len(agg.Items))
	for i, it := range agg.Items {
		path[i] = Vec{X: band.center(i), Y: y.At(it.Value)}
	}
	s.Marks = append(s.Marks, Mark{ID: "line", Kind: MarkPolyline, Color: r.color(0), Points: path, Label: spec.ValueColumn})
	for i, it := range agg.Items {
		s.Marks = append(s.Marks, Mark{
			ID:        "point-" + strconv.Itoa(i),
			Kind:      MarkPoint,
			Color:     r.color(0),
			Center:    path[i],
			Radius:    4,
			Label:     it.Label,
			Value:     it.Value,
			Hoverable: true,
		})
	}
	return nil
}

func (r *Renderer) pie(s *Scene, agg *chart.Aggregate) error {
	if len(agg.Items) == 0 {
		return emptyResult("aggregate")
	}
	for _, it := range agg.Items {
		if it.Value < 0 {
			return fmt.Errorf("%w: pie slice %q is negative", core.ErrRenderMismatch, it.Label)
		}
	}
	total := agg.Total()
	if total <= 0 {
		return fmt.Errorf("%w: pie total is zero", core.ErrRenderMismatch)
	}

	center := Vec{X: s.Plot.X + s.Plot.W/2, Y: s.Plot.Y + s.Plot.H/2}
	radius := math.Min(s.Plot.W, s.Plot.H)/2 - 8
	start := 0.0
	for i, it := range agg.Items {
		share := it.Value / total
		sweep := share * 2 * math.Pi
		s.Marks = append(s.Marks, Mark{
			ID:        "slice-" + strconv.Itoa(i),
			Kind:      MarkArc,
			Color:     r.color(i),
			Center:    center,
			Radius:    radius,
			Start:     start,
			Sweep:     sweep,
			Label:     it.Label,
			Value:     it.Value,
			Share:     share,
			Hoverable: true,
		})
		start += sweep
	}
	return nil
}

func (r *Renderer) scatter(s *Scene, pairs *chart.Pairs, spec chart.Spec) error {
	if len(pairs.Points) == 0 {
		return emptyResult("pairs")
	}
	xLo, xHi := pairs.Points[0].X, pairs.Points[0].X
	yLo, yHi := pairs.Points[0].Y, pairs.Points[0].Y
	for _, p := range pairs.Points {
		xLo, xHi = math.Min(xLo, p.X), math.Max(xHi, p.X)
		yLo, yHi = math.Min(yLo, p.Y), math.Max(yHi, p.Y)
	}
	x, xAxis := linearXAxis(s.Plot, xLo, xHi, spec.CategoryColumn)
	y, yAxis := valueAxis(s.Plot, yLo, yHi, spec.ValueColumn)
	s.XAxis, s.YAxis = xAxis, yAxis

	for i, p := range pairs.Points {
		s.Marks = append(s.Marks, Mark{
			ID:        "point-" + strconv.Itoa(i),
			Kind:      MarkPoint,
			Color:     r.color(0),
			Center:    Vec{X: x.At(p.X), Y: y.At(p.Y)},
			Radius:    3.5,
			Label:     "(" + formatValue(p.X) + ", " + formatValue(p.Y) + ")",
			Value:     p.Y,
			Hoverable: true,
		})
	}
	return nil
}

func (r *Renderer) histogram(s *Scene, d *chart.Distribution, spec chart.Spec) error {
	if len(d.Sample) == 0 || len(d.Edges) != d.BinCount+1 || len(d.Counts) != d.BinCount {
		return emptyResult("distribution")
	}
	maxCount := 0
	for _, c := range d.Counts {
		if c > maxCount {
			maxCount = c
		}
	}
	x, xAxis := linearXAxis(s.Plot, d.Min, d.Max, spec.SingleColumn)
	y, yAxis := valueAxis(s.Plot, 0, float64(maxCount), "Frequency")
	s.XAxis, s.YAxis = xAxis, yAxis

	zero := y.At(0)
	for i, c := range d.Counts {
		x0, x1 := x.At(d.Edges[i]), x.At(d.Edges[i+1])
		if d.Min == d.Max {
			// degenerate domain: one full-width bar for the single value
			x0, x1 = s.Plot.X+s.Plot.W*0.4, s.Plot.X+s.Plot.W*0.6
		}
		top := y.At(float64(c))
		closing := ")"
		if i == d.BinCount-1 {
			closing = "]"
		}
		s.Marks = append(s.Marks, Mark{
			ID:        "bin-" + strconv.Itoa(i),
			Kind:      MarkRect,
			Color:     r.color(0),
			Rect:      Rect{X: x0, Y: top, W: math.Max(x1-x0-1, 0), H: zero - top},
			Label:     "[" + formatTick(d.Edges[i]) + ", " + formatTick(d.Edges[i+1]) + closing,
			Value:     float64(c),
			Hoverable: true,
		})
	}
	return nil
}

func (r *Renderer) box(s *Scene, fn *chart.FiveNumber, spec chart.Spec) error {
	if fn.N == 0 {
		return emptyResult("five-number summary")
	}
	y, yAxis := valueAxis(s.Plot, fn.Min, fn.Max, spec.SingleColumn)
	s.YAxis = yAxis

	cx := s.Plot.X + s.Plot.W/2
	half := s.Plot.W * 0.15
	capW := half / 2
	q1, q3, med := y.At(fn.Q1), y.At(fn.Q3), y.At(fn.Median)
	lo, hi := y.At(fn.LowerWhisker), y.At(fn.UpperWhisker)
	col := r.color(0)

	s.Marks = append(s.Marks,
		Mark{ID: "box", Kind: MarkRect, Color: col, Rect: Rect{X: cx - half, Y: q3, W: 2 * half, H: q1 - q3},
			Label: "IQR [" + formatValue(fn.Q1) + ", " + formatValue(fn.Q3) + "]", Value: fn.IQR, Hoverable: true},
		Mark{ID: "median", Kind: MarkTick, Color: "000000", Points: []Vec{{X: cx - half, Y: med}, {X: cx + half, Y: med}},
			Label: "Median", Value: fn.Median, Hoverable: true},
		Mark{ID: "whisker-low", Kind: MarkLine, Color: col, Points: []Vec{{X: cx, Y: q1}, {X: cx, Y: lo}, {X: cx - capW, Y: lo}, {X: cx + capW, Y: lo}},
			Label: "Lower whisker", Value: fn.LowerWhisker, Hoverable: true},
		Mark{ID: "whisker-high", Kind: MarkLine, Color: col, Points: []Vec{{X: cx, Y: q3}, {X: cx, Y: hi}, {X: cx - capW, Y: hi}, {X: cx + capW, Y: hi}},
			Label: "Upper whisker", Value: fn.UpperWhisker, Hoverable: true},
	)
	for i, v := range fn.Outliers {
		s.Marks = append(s.Marks, Mark{
			ID:        "outlier-" + strconv.Itoa(i),
			Kind:      MarkPoint,
			Color:     r.color(2),
			Center:    Vec{X: cx, Y: y.At(v)},
			Radius:    3.5,
			Label:     "Outlier",
			Value:     v,
			Hoverable: true,
		})
	}
	return nil
}

// polar converts an angle measured clockwise from 12 o'clock to a point.
func polar(c Vec, radius, angle float64) Vec {
	return Vec{X: c.X + radius*math.Sin(angle), Y: c.Y - radius*math.Cos(angle)}
}
