package render

import (
	"math"
	"strconv"

	gochart "github.com/wcharczuk/go-chart/v2"
)

// linearScale maps a numeric domain onto a pixel range.
type linearScale struct {
	domain gochart.ContinuousRange
	r0, r1 float64
}

func newLinearScale(d0, d1, r0, r1 float64) linearScale {
	if d0 == d1 {
		d0, d1 = d0-0.5, d1+0.5
	}
	return linearScale{domain: gochart.ContinuousRange{Min: d0, Max: d1}, r0: r0, r1: r1}
}

func (s linearScale) At(v float64) float64 {
	delta := s.domain.GetDelta()
	if delta == 0 {
		return (s.r0 + s.r1) / 2
	}
	return s.r0 + (v-s.domain.GetMin())/delta*(s.r1-s.r0)
}

// nice widens the domain to round tick boundaries and returns the ticks.
// When the step is below the float resolution of the domain the domain is
// kept and only its ends are ticked.
func (s linearScale) nice(count int) (linearScale, []float64) {
	min, max := s.domain.GetMin(), s.domain.GetMax()
	step := niceStep(max-min, count)
	lo := gochart.RoundDown(min, step)
	hi := gochart.RoundUp(max, step)

	n := int(math.Round((hi - lo) / step))
	if lo+step == lo || n < 1 || n > gochart.DefaultTickCountSanityCheck {
		if min == max {
			return s, []float64{min}
		}
		return s, []float64{min, max}
	}

	ticks := make([]float64, 0, n+1)
	for k := 0; k <= n; k++ {
		ticks = append(ticks, roundTo(lo+float64(k)*step, step))
	}
	return linearScale{domain: gochart.ContinuousRange{Min: lo, Max: hi}, r0: s.r0, r1: s.r1}, ticks
}

// niceStep picks 1, 2, 5 or 10 times a power of ten so that span divides
// into roughly count intervals.
func niceStep(span float64, count int) float64 {
	if span <= 0 || count <= 0 {
		return 1
	}
	raw := span / float64(count)
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	switch norm := raw / mag; {
	case norm < 1.5:
		return mag
	case norm < 3:
		return 2 * mag
	case norm < 7:
		return 5 * mag
	default:
		return 10 * mag
	}
}

func roundTo(v, step float64) float64 {
	decimals := -math.Floor(math.Log10(step))
	if decimals < 0 {
		decimals = 0
	}
	p := math.Pow(10, decimals)
	return math.Round(v*p) / p
}

// bandScale splits a pixel range into equal bands, one per category.
type bandScale struct {
	r0, r1 float64
	n      int
}

func (b bandScale) width() float64 {
	if b.n == 0 {
		return 0
	}
	return (b.r1 - b.r0) / float64(b.n)
}

func (b bandScale) start(i int) float64 { return b.r0 + float64(i)*b.width() }

func (b bandScale) center(i int) float64 { return b.start(i) + b.width()/2 }

// formatValue renders a number exactly, without trailing zeros.
func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatTick renders an axis label compactly.
func formatTick(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}
