package render

import (
	"fmt"

	"gograph/domain/chart"
)

// Viewport is the pixel size of the drawable surface.
type Viewport struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// HoverState names the mark currently under the pointer; empty means none.
type HoverState struct {
	MarkID string `json:"markId"`
}

// MarkKind is the primitive a mark is drawn with.
type MarkKind string

const (
	MarkRect     MarkKind = "rect"
	MarkArc      MarkKind = "arc"
	MarkPoint    MarkKind = "point"
	MarkPolyline MarkKind = "polyline"
	MarkLine     MarkKind = "line"
	MarkTick     MarkKind = "tick"
)

// Vec is a pixel position.
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is a pixel rectangle.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Mark is one drawable primitive bound to a datum.
type Mark struct {
	ID    string   `json:"id"`
	Kind  MarkKind `json:"kind"`
	Color string   `json:"color"`

	Rect   Rect    `json:"rect,omitempty"`
	Center Vec     `json:"center,omitempty"`
	Radius float64 `json:"radius,omitempty"`
	// Start and Sweep are in radians, clockwise from 12 o'clock.
	Start  float64 `json:"start,omitempty"`
	Sweep  float64 `json:"sweep,omitempty"`
	Points []Vec   `json:"points,omitempty"`

	Label string  `json:"label"`
	Value float64 `json:"value"`
	// Share is the fraction of the total for pie slices.
	Share float64 `json:"share,omitempty"`
	// Hoverable marks reveal a tooltip.
	Hoverable bool `json:"hoverable"`
}

// Tick is one labelled axis position.
type Tick struct {
	Pos   float64 `json:"pos"`
	Label string  `json:"label"`
}

// Axis is a straight axis line with ticks along it.
type Axis struct {
	From  Vec    `json:"from"`
	To    Vec    `json:"to"`
	Title string `json:"title"`
	Ticks []Tick `json:"ticks"`
	// Vertical axes place tick positions on Y, horizontal ones on X.
	Vertical bool `json:"vertical"`
}

// Tooltip is the transient overlay for the hovered mark.
type Tooltip struct {
	MarkID string `json:"markId"`
	Text   string `json:"text"`
	Anchor Vec    `json:"anchor"`
}

// Scene is everything the surface needs to draw one chart.
type Scene struct {
	ChartType chart.Type `json:"chartType"`
	Viewport  Viewport   `json:"viewport"`
	Plot      Rect       `json:"plot"`
	Title     string     `json:"title"`
	XAxis     *Axis      `json:"xAxis,omitempty"`
	YAxis     *Axis      `json:"yAxis,omitempty"`
	Marks     []Mark     `json:"marks"`
	Tooltip   *Tooltip   `json:"tooltip,omitempty"`
}

// Mark looks a mark up by ID.
func (s *Scene) Mark(id string) (Mark, bool) {
	for _, m := range s.Marks {
		if m.ID == id {
			return m, true
		}
	}
	return Mark{}, false
}

// WithHover returns a copy of the scene carrying the tooltip for hover.
// The marks are shared; the receiver is left untouched.
func (s *Scene) WithHover(hover HoverState) *Scene {
	out := *s
	out.Tooltip = nil
	if hover.MarkID == "" {
		return &out
	}
	m, ok := s.Mark(hover.MarkID)
	if !ok || !m.Hoverable {
		return &out
	}
	out.Tooltip = &Tooltip{MarkID: m.ID, Text: tooltipText(m), Anchor: anchorOf(m)}
	return &out
}

func tooltipText(m Mark) string {
	if m.Kind == MarkArc {
		return fmt.Sprintf("%s: %s (%.1f%%)", m.Label, formatValue(m.Value), m.Share*100)
	}
	return fmt.Sprintf("%s: %s", m.Label, formatValue(m.Value))
}

func anchorOf(m Mark) Vec {
	switch m.Kind {
	case MarkRect:
		return Vec{X: m.Rect.X + m.Rect.W/2, Y: m.Rect.Y}
	case MarkArc:
		mid := m.Start + m.Sweep/2
		return polar(m.Center, m.Radius*0.6, mid)
	case MarkPolyline, MarkLine, MarkTick:
		if len(m.Points) > 0 {
			return m.Points[0]
		}
	}
	return m.Center
}
