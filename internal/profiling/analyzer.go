package profiling

import (
	"math"
	"strconv"
	"strings"
	"time"

	"gograph/domain/chart"
	"gograph/domain/table"
)

// SampleSize is the number of leading non-empty values kept per column.
const SampleSize = 5

// dateLayouts are the calendar formats recognized as dates.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
	"2006/01/02",
	"02-Jan-2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// Profiles is the per-column type signal of one table.
type Profiles struct {
	order  []string
	byName map[string]chart.ColumnProfile
}

// Get returns the profile of a column.
func (p *Profiles) Get(name string) (chart.ColumnProfile, bool) {
	if p == nil {
		return chart.ColumnProfile{}, false
	}
	prof, ok := p.byName[name]
	return prof, ok
}

// Ordered returns profiles in header order.
func (p *Profiles) Ordered() []chart.ColumnProfile {
	if p == nil {
		return nil
	}
	out := make([]chart.ColumnProfile, 0, len(p.order))
	for _, name := range p.order {
		out = append(out, p.byName[name])
	}
	return out
}

// Map returns profiles keyed by column name.
func (p *Profiles) Map() map[string]chart.ColumnProfile {
	out := make(map[string]chart.ColumnProfile, len(p.byName))
	for k, v := range p.byName {
		out[k] = v
	}
	return out
}

// Len returns the number of profiled columns.
func (p *Profiles) Len() int {
	if p == nil {
		return 0
	}
	return len(p.order)
}

// UsableCount counts columns with at least one non-empty value.
func (p *Profiles) UsableCount() int {
	n := 0
	for _, prof := range p.Ordered() {
		if prof.Usable() {
			n++
		}
	}
	return n
}

// Analyze profiles every column of t. It never fails: absence of signal is
// encoded in the profile flags.
func Analyze(t *table.Table) *Profiles {
	p := &Profiles{byName: make(map[string]chart.ColumnProfile)}
	if t == nil {
		return p
	}
	for _, name := range t.Headers {
		p.order = append(p.order, name)
		p.byName[name] = ProfileColumn(name, t.Column(name))
	}
	return p
}

// ProfileColumn infers the type signal of one column of raw cells.
func ProfileColumn(name string, cells []string) chart.ColumnProfile {
	prof := chart.ColumnProfile{Name: name, SampleValues: []string{}}

	unique := make(map[string]struct{})
	allNumeric, allDate := true, true
	for _, cell := range cells {
		if IsEmpty(cell) {
			continue
		}
		prof.TotalNonEmptyValues++
		unique[cell] = struct{}{}
		if len(prof.SampleValues) < SampleSize {
			prof.SampleValues = append(prof.SampleValues, cell)
		}
		if allNumeric {
			_, allNumeric = ParseNumber(cell)
		}
		if allDate {
			allDate = IsDate(cell)
		}
	}

	prof.UniqueValueCount = len(unique)
	prof.IsNumeric = prof.TotalNonEmptyValues > 0 && allNumeric
	prof.IsDate = prof.TotalNonEmptyValues > 0 && allDate
	return prof
}

// IsEmpty reports whether a cell carries no value.
func IsEmpty(cell string) bool {
	return strings.TrimSpace(cell) == ""
}

// ParseNumber parses a cell as a finite float.
func ParseNumber(cell string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// IsDate reports whether a cell is a calendar date in one of the known
// layouts. Bare integers are never dates.
func IsDate(cell string) bool {
	s := strings.TrimSpace(cell)
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

// Numbers returns the finite numeric values of cells in order, skipping the rest.
func Numbers(cells []string) []float64 {
	out := make([]float64, 0, len(cells))
	for _, c := range cells {
		if v, ok := ParseNumber(c); ok {
			out = append(out, v)
		}
	}
	return out
}
