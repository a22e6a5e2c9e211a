package render

import (
	"math"
	"strings"
	"testing"

	"gograph/domain/chart"
	"gograph/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var vp = Viewport{Width: 640, Height: 400}

func barSpec() chart.Spec {
	return chart.Spec{ChartType: chart.Bar, CategoryColumn: "cat", ValueColumn: "val"}
}

func TestBarHeightsProportional(t *testing.T) {
	agg := &chart.Aggregate{Items: []chart.LabelValue{{Label: "A", Value: 15}, {Label: "B", Value: 5}}}

	scene, err := NewRenderer().Render(agg, barSpec(), vp, HoverState{})
	require.NoError(t, err)
	require.Len(t, scene.Marks, 2)

	a, b := scene.Marks[0], scene.Marks[1]
	assert.Equal(t, MarkRect, a.Kind)
	assert.InDelta(t, 3.0, a.Rect.H/b.Rect.H, 1e-9)
	assert.Equal(t, 15.0, a.Value)
	require.NotNil(t, scene.XAxis)
	assert.Equal(t, "A", scene.XAxis.Ticks[0].Label)
	assert.Nil(t, scene.Tooltip)
}

func TestPieSharesCoverFullCircle(t *testing.T) {
	agg := &chart.Aggregate{Items: []chart.LabelValue{{Label: "A", Value: 1}, {Label: "B", Value: 3}}}
	spec := chart.Spec{ChartType: chart.Pie, CategoryColumn: "cat", ValueColumn: "val"}

	scene, err := NewRenderer().Render(agg, spec, vp, HoverState{MarkID: "slice-1"})
	require.NoError(t, err)

	var sweep float64
	for _, m := range scene.Marks {
		sweep += m.Sweep
	}
	assert.InDelta(t, 2*math.Pi, sweep, 1e-9)
	assert.InDelta(t, 0.75, scene.Marks[1].Share, 1e-9)
	require.NotNil(t, scene.Tooltip)
	assert.Equal(t, "B: 3 (75.0%)", scene.Tooltip.Text)
}

func TestLineHasPolylineAndPoints(t *testing.T) {
	agg := &chart.Aggregate{Items: []chart.LabelValue{{Label: "a", Value: 1}, {Label: "b", Value: 2}, {Label: "c", Value: 0}}}
	scene, err := NewRenderer().Render(agg, chart.Spec{ChartType: chart.Line, CategoryColumn: "c", ValueColumn: "v"}, vp, HoverState{})
	require.NoError(t, err)

	line, ok := scene.Mark("line")
	require.True(t, ok)
	assert.Len(t, line.Points, 3)
	assert.Len(t, scene.Marks, 4)
}

func TestScatterPointsOnly(t *testing.T) {
	pairs := &chart.Pairs{Points: []chart.Point{{X: 1, Y: 2}, {X: 3, Y: 4}}}
	scene, err := NewRenderer().Render(pairs, chart.Spec{ChartType: chart.Scatter, CategoryColumn: "x", ValueColumn: "y"}, vp, HoverState{})
	require.NoError(t, err)
	for _, m := range scene.Marks {
		assert.Equal(t, MarkPoint, m.Kind)
	}
}

func TestHistogramOneRectPerBin(t *testing.T) {
	d := &chart.Distribution{
		Sample:   []float64{0, 1, 2},
		BinCount: chart.HistogramBins,
		Min:      0,
		Max:      2,
		Edges:    make([]float64, chart.HistogramBins+1),
		Counts:   make([]int, chart.HistogramBins),
	}
	for i := range d.Edges {
		d.Edges[i] = float64(i) * 0.1
	}
	d.Counts[0], d.Counts[10], d.Counts[19] = 1, 1, 1

	scene, err := NewRenderer().Render(d, chart.Spec{ChartType: chart.Histogram, SingleColumn: "x"}, vp, HoverState{})
	require.NoError(t, err)
	assert.Len(t, scene.Marks, chart.HistogramBins)
	assert.True(t, strings.HasSuffix(scene.Marks[chart.HistogramBins-1].Label, "]"))
	assert.True(t, strings.HasSuffix(scene.Marks[0].Label, ")"))
}

func TestBoxMarks(t *testing.T) {
	fn := &chart.FiveNumber{N: 10, Min: -50, Q1: 11, Median: 13.5, Q3: 16, Max: 100, IQR: 5,
		LowerWhisker: 3.5, UpperWhisker: 23.5, Outliers: []float64{-50, 100}}

	scene, err := NewRenderer().Render(fn, chart.Spec{ChartType: chart.Box, SingleColumn: "x"}, vp, HoverState{MarkID: "outlier-1"})
	require.NoError(t, err)

	for _, id := range []string{"box", "median", "whisker-low", "whisker-high", "outlier-0", "outlier-1"} {
		_, ok := scene.Mark(id)
		assert.True(t, ok, id)
	}
	box, _ := scene.Mark("box")
	assert.Greater(t, box.Rect.H, 0.0)
	require.NotNil(t, scene.Tooltip)
	assert.Equal(t, "Outlier: 100", scene.Tooltip.Text)
}

func TestRenderRejectsMismatchAndEmpty(t *testing.T) {
	r := NewRenderer()
	tests := []struct {
		name   string
		result chart.Result
		spec   chart.Spec
	}{
		{"wrong variant", &chart.Pairs{Points: []chart.Point{{X: 1, Y: 1}}}, barSpec()},
		{"empty aggregate", &chart.Aggregate{}, barSpec()},
		{"empty pairs", &chart.Pairs{}, chart.Spec{ChartType: chart.Scatter}},
		{"empty box", &chart.FiveNumber{}, chart.Spec{ChartType: chart.Box}},
		{"zero pie", &chart.Aggregate{Items: []chart.LabelValue{{Label: "a"}}}, chart.Spec{ChartType: chart.Pie}},
		{"nil", nil, barSpec()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Render(tt.result, tt.spec, vp, HoverState{})
			assert.ErrorIs(t, err, core.ErrRenderMismatch)
		})
	}
}

func TestSurfaceKeepsPreviousSceneOnFailure(t *testing.T) {
	surface := NewSurface(vp)
	r := NewRenderer()

	good := &chart.Aggregate{Items: []chart.LabelValue{{Label: "A", Value: 1}}}
	first, err := surface.Draw(r, good, barSpec(), HoverState{})
	require.NoError(t, err)
	version := surface.Version()

	_, err = surface.Draw(r, &chart.Aggregate{}, barSpec(), HoverState{})
	require.Error(t, err)
	assert.Same(t, first, surface.Scene())
	assert.Equal(t, version, surface.Version())
}

func TestHoverDoesNotMutateScene(t *testing.T) {
	agg := &chart.Aggregate{Items: []chart.LabelValue{{Label: "A", Value: 2.5}}}
	scene, err := NewRenderer().Render(agg, barSpec(), vp, HoverState{})
	require.NoError(t, err)

	hovered := scene.WithHover(HoverState{MarkID: "bar-0"})
	require.NotNil(t, hovered.Tooltip)
	assert.Equal(t, "A: 2.5", hovered.Tooltip.Text)
	assert.Nil(t, scene.Tooltip)

	assert.Nil(t, scene.WithHover(HoverState{MarkID: "nope"}).Tooltip)
	assert.Equal(t, 2.5, agg.Items[0].Value)
}

func TestCaptureProducesBitmap(t *testing.T) {
	surface := NewSurface(vp)
	_, err := surface.Capture()
	assert.Error(t, err)

	agg := &chart.Aggregate{Items: []chart.LabelValue{{Label: "A", Value: 1}, {Label: "B", Value: 2}}}
	_, err = surface.Draw(NewRenderer(), agg, chart.Spec{ChartType: chart.Pie, CategoryColumn: "c", ValueColumn: "v"}, HoverState{MarkID: "slice-0"})
	require.NoError(t, err)

	bmp, err := surface.Capture()
	require.NoError(t, err)
	img, err := bmp.Image()
	require.NoError(t, err)
	assert.Equal(t, vp.Width, img.Bounds().Dx())
	assert.Equal(t, vp.Height, img.Bounds().Dy())
}

func TestNiceStep(t *testing.T) {
	assert.Equal(t, 1.0, niceStep(5, 5))
	assert.Equal(t, 2.0, niceStep(10, 5))
	assert.Equal(t, 5.0, niceStep(25, 5))
	assert.InDelta(t, 0.1, niceStep(0.5, 5), 1e-12)
}

func TestNiceTicksCoverRoundDomain(t *testing.T) {
	scale, ticks := newLinearScale(3, 47, 0, 100).nice(5)
	assert.Equal(t, []float64{0, 10, 20, 30, 40, 50}, ticks)
	assert.Equal(t, 0.0, scale.At(0))
	assert.Equal(t, 100.0, scale.At(50))
}

func TestNiceTicksBelowFloatResolution(t *testing.T) {
	scale, ticks := newLinearScale(1e16, 1e16+2, 0, 100).nice(6)
	assert.Equal(t, []float64{1e16, 1e16 + 2}, ticks)
	assert.Equal(t, 0.0, scale.At(1e16))
	assert.Equal(t, 100.0, scale.At(1e16+2))

	pairs := &chart.Pairs{Points: []chart.Point{{X: 1e16, Y: 1}, {X: 1e16 + 2, Y: 2}}}
	scene, err := NewRenderer().Render(pairs, chart.Spec{ChartType: chart.Scatter, CategoryColumn: "x", ValueColumn: "y"}, vp, HoverState{})
	require.NoError(t, err)
	assert.Len(t, scene.Marks, 2)
	require.NotNil(t, scene.XAxis)
	assert.Len(t, scene.XAxis.Ticks, 2)
}
