package export

import (
	"bytes"
	"context"
	"errors"
	"image/jpeg"
	"regexp"
	"strconv"
	"testing"

	"gograph/domain/chart"
	"gograph/domain/core"
	"gograph/internal/render"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paintedSurface(t *testing.T, w, h int) *render.Surface {
	t.Helper()
	surface := render.NewSurface(render.Viewport{Width: w, Height: h})
	agg := &chart.Aggregate{Items: []chart.LabelValue{{Label: "A", Value: 3}, {Label: "B", Value: 5}}}
	_, err := surface.Draw(render.NewRenderer(), agg, chart.Spec{ChartType: chart.Bar, CategoryColumn: "c", ValueColumn: "v"}, render.HoverState{})
	require.NoError(t, err)
	return surface
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"png": PNG, "JPG": JPEG, "jpeg": JPEG, " pdf ": PDF} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("gif")
	assert.ErrorIs(t, err, core.ErrUnsupportedFormat)
}

func TestExportPNG(t *testing.T) {
	art, err := NewService(2).Export(context.Background(), paintedSurface(t, 400, 300), PNG)
	require.NoError(t, err)

	assert.Equal(t, "chart.png", art.Filename)
	assert.Equal(t, "image/png", art.ContentType)
	assert.True(t, bytes.HasPrefix(art.Data, []byte("\x89PNG")))
}

func TestExportJPEG(t *testing.T) {
	art, err := NewService(1).Export(context.Background(), paintedSurface(t, 400, 300), JPEG)
	require.NoError(t, err)

	img, err := jpeg.Decode(bytes.NewReader(art.Data))
	require.NoError(t, err)
	assert.Equal(t, 400, img.Bounds().Dx())
	assert.Equal(t, 300, img.Bounds().Dy())
}

var mediaBox = regexp.MustCompile(`/MediaBox \[0 0 ([\d.]+) ([\d.]+)\]`)

func TestExportPDFPreservesAspectRatio(t *testing.T) {
	sizes := []struct{ w, h int }{{800, 500}, {300, 600}}
	for _, sz := range sizes {
		t.Run(strconv.Itoa(sz.w)+"x"+strconv.Itoa(sz.h), func(t *testing.T) {
			art, err := NewService(1).Export(context.Background(), paintedSurface(t, sz.w, sz.h), PDF)
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(art.Data, []byte("%PDF")))

			m := mediaBox.FindSubmatch(art.Data)
			require.NotNil(t, m, "page size not found")
			pw, _ := strconv.ParseFloat(string(m[1]), 64)
			ph, _ := strconv.ParseFloat(string(m[2]), 64)
			assert.InDelta(t, float64(sz.w)/float64(sz.h), pw/ph, 1e-3)
		})
	}
}

type failingSurface struct{}

func (failingSurface) Capture() (*render.Bitmap, error) { return nil, errors.New("gpu lost") }

func TestExportFailure(t *testing.T) {
	_, err := NewService(1).Export(context.Background(), failingSurface{}, PNG)

	var exportErr *core.ExportFailureError
	require.ErrorAs(t, err, &exportErr)
	assert.Equal(t, "png", exportErr.Format)
	assert.ErrorIs(t, err, core.ErrExportFailed)

	_, err = NewService(1).Export(context.Background(), render.NewSurface(render.Viewport{Width: 200, Height: 200}), PDF)
	assert.ErrorIs(t, err, core.ErrExportFailed)
}

func TestExportHonorsCancelledContext(t *testing.T) {
	svc := NewService(1)
	require.True(t, svc.sem.TryAcquire(1))
	defer svc.sem.Release(1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.Export(ctx, paintedSurface(t, 200, 200), PNG)
	assert.ErrorIs(t, err, core.ErrExportFailed)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExportDoesNotRepaintSurface(t *testing.T) {
	surface := paintedSurface(t, 300, 200)
	before := surface.Version()
	_, err := NewService(1).Export(context.Background(), surface, JPEG)
	require.NoError(t, err)
	assert.Equal(t, before, surface.Version())
}
