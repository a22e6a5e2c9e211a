package render

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"math"
	"sync"

	"gograph/domain/chart"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Surface is the drawable region charts are painted on. It keeps the last
// painted scene; the renderer is its only writer.
type Surface struct {
	mu       sync.RWMutex
	viewport Viewport
	scene    *Scene
	version  uint64
}

// NewSurface creates an empty surface of the given pixel size.
func NewSurface(vp Viewport) *Surface {
	return &Surface{viewport: vp}
}

// Viewport returns the pixel size of the surface.
func (s *Surface) Viewport() Viewport {
	return s.viewport
}

// Paint replaces the displayed scene.
func (s *Surface) Paint(scene *Scene) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scene = scene
	s.version++
}

// Clear removes the displayed scene.
func (s *Surface) Clear() {
	s.Paint(nil)
}

// Scene returns the displayed scene, or nil.
func (s *Surface) Scene() *Scene {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scene
}

// Version counts paints; it changes whenever the displayed scene does.
func (s *Surface) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Draw renders result and paints it. On error nothing is painted and the
// previous scene stays on the surface.
func (s *Surface) Draw(r *Renderer, result chart.Result, spec chart.Spec, hover HoverState) (*Scene, error) {
	scene, err := r.Render(result, spec, s.viewport, hover)
	if err != nil {
		return nil, err
	}
	s.Paint(scene)
	return scene, nil
}

// Bitmap is a captured surface.
type Bitmap struct {
	Width  int
	Height int
	PNG    []byte
}

// Image decodes the bitmap.
func (b *Bitmap) Image() (image.Image, error) {
	return png.Decode(bytes.NewReader(b.PNG))
}

// Capture rasterizes the displayed scene.
func (s *Surface) Capture() (*Bitmap, error) {
	scene := s.Scene()
	if scene == nil {
		return nil, fmt.Errorf("surface is empty")
	}
	data, err := Rasterize(scene)
	if err != nil {
		return nil, err
	}
	return &Bitmap{Width: scene.Viewport.Width, Height: scene.Viewport.Height, PNG: data}, nil
}

// Rasterize paints a scene through go-chart's raster renderer and returns
// the PNG bytes.
func Rasterize(scene *Scene) ([]byte, error) {
	rd, err := gochart.PNG(scene.Viewport.Width, scene.Viewport.Height)
	if err != nil {
		return nil, fmt.Errorf("create raster renderer: %w", err)
	}
	font, err := gochart.GetDefaultFont()
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}
	rd.SetFont(font)

	p := painter{rd: rd}
	p.fillRect(Rect{W: float64(scene.Viewport.Width), H: float64(scene.Viewport.Height)}, drawing.ColorWhite)
	p.title(scene)
	p.axis(scene.XAxis)
	p.axis(scene.YAxis)
	for _, m := range scene.Marks {
		p.mark(m)
	}
	if scene.Tooltip != nil {
		p.tooltip(scene.Tooltip, scene.Viewport)
	}

	var buf bytes.Buffer
	if err := rd.Save(&buf); err != nil {
		return nil, fmt.Errorf("encode raster: %w", err)
	}
	return buf.Bytes(), nil
}

type painter struct {
	rd gochart.Renderer
}

var (
	axisColor = drawing.ColorFromHex("333333")
	textColor = drawing.ColorFromHex("222222")
	tipFill   = drawing.ColorFromHex("fffbe6")
)

func px(v float64) int { return int(math.Round(v)) }

func (p painter) fillRect(r Rect, c drawing.Color) {
	p.rd.SetFillColor(c)
	p.rd.SetStrokeColor(c)
	p.rd.SetStrokeWidth(0)
	p.rd.MoveTo(px(r.X), px(r.Y))
	p.rd.LineTo(px(r.X+r.W), px(r.Y))
	p.rd.LineTo(px(r.X+r.W), px(r.Y+r.H))
	p.rd.LineTo(px(r.X), px(r.Y+r.H))
	p.rd.Close()
	p.rd.Fill()
}

func (p painter) polyline(pts []Vec, c drawing.Color, width float64) {
	if len(pts) < 2 {
		return
	}
	p.rd.SetStrokeColor(c)
	p.rd.SetStrokeWidth(width)
	p.rd.MoveTo(px(pts[0].X), px(pts[0].Y))
	for _, pt := range pts[1:] {
		p.rd.LineTo(px(pt.X), px(pt.Y))
	}
	p.rd.Stroke()
}

func (p painter) text(s string, x, y float64, size float64, centered bool) {
	p.rd.SetFontColor(textColor)
	p.rd.SetFontSize(size)
	if centered {
		box := p.rd.MeasureText(s)
		x -= float64(box.Width()) / 2
	}
	p.rd.Text(s, px(x), px(y))
}

func (p painter) title(scene *Scene) {
	p.text(scene.Title, float64(scene.Viewport.Width)/2, scene.Plot.Y/2+6, 14, true)
}

func (p painter) axis(a *Axis) {
	if a == nil {
		return
	}
	p.polyline([]Vec{a.From, a.To}, axisColor, 1)
	for _, t := range a.Ticks {
		if a.Vertical {
			p.polyline([]Vec{{X: a.From.X - 5, Y: t.Pos}, {X: a.From.X, Y: t.Pos}}, axisColor, 1)
			p.rd.SetFontSize(9)
			box := p.rd.MeasureText(t.Label)
			p.text(t.Label, a.From.X-8-float64(box.Width()), t.Pos+4, 9, false)
			continue
		}
		p.polyline([]Vec{{X: t.Pos, Y: a.From.Y}, {X: t.Pos, Y: a.From.Y + 5}}, axisColor, 1)
		p.text(t.Label, t.Pos, a.From.Y+18, 9, true)
	}

	if a.Title == "" {
		return
	}
	if a.Vertical {
		p.rd.SetTextRotation(-math.Pi / 2)
		p.text(a.Title, a.From.X-46, (a.From.Y+a.To.Y)/2, 10, false)
		p.rd.ClearTextRotation()
		return
	}
	p.text(a.Title, (a.From.X+a.To.X)/2, a.From.Y+38, 10, true)
}

func (p painter) mark(m Mark) {
	c := drawing.ColorFromHex(m.Color)
	switch m.Kind {
	case MarkRect:
		p.fillRect(m.Rect, c)
	case MarkArc:
		p.rd.SetFillColor(c)
		p.rd.SetStrokeColor(drawing.ColorWhite)
		p.rd.SetStrokeWidth(1)
		cx, cy := px(m.Center.X), px(m.Center.Y)
		p.rd.MoveTo(cx, cy)
		// go-chart measures angles from 3 o'clock
		p.rd.ArcTo(cx, cy, m.Radius, m.Radius, m.Start-math.Pi/2, m.Sweep)
		p.rd.LineTo(cx, cy)
		p.rd.Close()
		p.rd.FillStroke()

		at := polar(m.Center, m.Radius*0.65, m.Start+m.Sweep/2)
		p.text(fmt.Sprintf("%s %.1f%%", m.Label, m.Share*100), at.X, at.Y, 9, true)
	case MarkPoint:
		p.rd.SetFillColor(c)
		p.rd.SetStrokeColor(c)
		p.rd.SetStrokeWidth(1)
		p.rd.Circle(m.Radius, px(m.Center.X), px(m.Center.Y))
		p.rd.FillStroke()
	case MarkPolyline, MarkLine:
		p.polyline(m.Points, c, 2)
	case MarkTick:
		p.polyline(m.Points, c, 3)
	}
}

func (p painter) tooltip(t *Tooltip, vp Viewport) {
	p.rd.SetFontSize(10)
	box := p.rd.MeasureText(t.Text)
	w, h := float64(box.Width())+12, float64(box.Height())+10
	x := math.Min(math.Max(t.Anchor.X-w/2, 0), float64(vp.Width)-w)
	y := math.Max(t.Anchor.Y-h-6, 0)

	p.fillRect(Rect{X: x, Y: y, W: w, H: h}, tipFill)
	p.polyline([]Vec{{X: x, Y: y}, {X: x + w, Y: y}, {X: x + w, Y: y + h}, {X: x, Y: y + h}, {X: x, Y: y}}, axisColor, 1)
	p.text(t.Text, x+6, y+h-6, 10, false)
}
