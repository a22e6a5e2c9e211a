package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"gograph/domain/chart"
	"gograph/domain/core"
	"gograph/domain/table"
	"gograph/internal"
	apperrors "gograph/internal/errors"
	"gograph/internal/export"
	"gograph/internal/profiling"
	"gograph/internal/render"
	"gograph/internal/statistics"
	"gograph/internal/validation"
	"gograph/ports"
)

// DefaultPreviewRows is the number of rows shown in the data preview.
const DefaultPreviewRows = 5

var errNoChart = errors.New("no chart on surface")

func noData() error {
	return &core.DataEmptyError{Reason: validation.ReasonNoData}
}

// Chart is the displayed triple. It is replaced as a whole or not at all.
type Chart struct {
	Spec   chart.Spec
	Result chart.Result
	Scene  *render.Scene
}

// Exporter encodes a captured surface. *export.Service is the production
// implementation.
type Exporter interface {
	Export(ctx context.Context, surface export.Capturer, format export.Format) (*export.Artifact, error)
}

// Options configures a Session. Zero values pick defaults.
type Options struct {
	Viewport render.Viewport
	Exporter Exporter
	Metrics  ports.MetricsRecorder
	Logger   *internal.Logger
}

// Session owns one loaded table and the chart drawn from it. All synchronous
// stages run under the session lock; decode and export are the only points
// where the session is released while work is in flight.
type Session struct {
	ID core.SessionID

	mu       sync.Mutex
	gens     *Generations
	revision uint64
	table    *table.Table
	profiles *profiling.Profiles
	current  *Chart
	hover    render.HoverState

	surface  *render.Surface
	engine   *statistics.Engine
	renderer *render.Renderer
	exporter Exporter
	metrics  ports.MetricsRecorder
	log      *internal.Logger
}

// NewSession creates an empty session.
func NewSession(opts Options) *Session {
	if opts.Viewport.Width < render.MinViewportSide || opts.Viewport.Height < render.MinViewportSide {
		opts.Viewport = render.Viewport{Width: 800, Height: 500}
	}
	if opts.Exporter == nil {
		opts.Exporter = export.NewService(1)
	}
	if opts.Metrics == nil {
		opts.Metrics = ports.NopMetrics{}
	}
	if opts.Logger == nil {
		opts.Logger = internal.DefaultLogger
	}

	return &Session{
		ID:       core.NewSessionID(),
		gens:     NewGenerations(),
		surface:  render.NewSurface(opts.Viewport),
		engine:   statistics.NewEngine(),
		renderer: render.NewRenderer(),
		exporter: opts.Exporter,
		metrics:  opts.Metrics,
		log:      opts.Logger.WithComponent("Session"),
	}
}

// Surface exposes the drawable region for read-only use.
func (s *Session) Surface() *render.Surface {
	return s.surface
}

// BeginLoad issues the generation a pending load must present to ApplyTable.
func (s *Session) BeginLoad() Generation {
	return s.gens.Next()
}

// ApplyTable installs tbl if gen is still the latest load. Profiles are
// recomputed and the chart and hover state are cleared.
func (s *Session) ApplyTable(gen Generation, tbl *table.Table) error {
	if tbl == nil {
		return noData()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.gens.IsCurrent(gen) {
		s.metrics.StaleDiscarded("load")
		s.log.Debug("discarding load %d, current is %d", gen, s.gens.Current())
		return fmt.Errorf("%w: load generation %d superseded by %d", core.ErrStaleResult, gen, s.gens.Current())
	}

	s.table = tbl
	s.profiles = profiling.Analyze(tbl)
	s.current = nil
	s.hover = render.HoverState{}
	s.surface.Clear()
	s.revision++

	s.metrics.TableLoaded(tbl.RowCount(), len(tbl.Headers))
	s.log.Info("loaded %d rows x %d columns (%d usable) fingerprint=%s",
		tbl.RowCount(), len(tbl.Headers), s.profiles.UsableCount(), tbl.Fingerprint().Short())
	return nil
}

// Load decodes r and applies the table under a fresh generation. A load
// started later wins even if it finishes first.
func (s *Session) Load(ctx context.Context, decoder ports.DecoderPort, r io.Reader, hint string) error {
	gen := s.BeginLoad()
	if err := ctx.Err(); err != nil {
		return err
	}
	tbl, err := decoder.Decode(ctx, r, hint)
	if err != nil {
		return err
	}
	return s.ApplyTable(gen, tbl)
}

// Availability returns one entry per chart type, with a reason for each
// unavailable one.
func (s *Session) Availability() []chart.Availability {
	s.mu.Lock()
	defer s.mu.Unlock()
	return validation.Availability(s.profiles)
}

// Profiles returns the column profiles in header order.
func (s *Session) Profiles() []chart.ColumnProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profiles.Ordered()
}

// SelectChart validates spec, computes its statistics, renders and paints
// the scene. On any error the previous chart stays displayed.
func (s *Session) SelectChart(spec chart.Spec) (*Chart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	next, err := s.build(spec)
	if err != nil {
		s.metrics.ChartRejected(string(spec.ChartType), apperrors.FromDomain(err).Code)
		s.log.Debug("chart %s rejected: %v", spec.ChartType, err)
		return nil, err
	}

	s.surface.Paint(next.Scene)
	s.current = next
	s.hover = render.HoverState{}
	s.revision++

	s.metrics.ChartRendered(string(next.Spec.ChartType), time.Since(start))
	s.log.Debug("rendered %s with %d marks in %s", next.Spec.ChartType, len(next.Scene.Marks), time.Since(start))
	return next, nil
}

func (s *Session) build(spec chart.Spec) (*Chart, error) {
	if s.table == nil {
		return nil, noData()
	}
	if err := validation.Validate(s.table, s.profiles, spec); err != nil {
		return nil, err
	}
	spec, err := spec.Normalize()
	if err != nil {
		return nil, err
	}
	result, err := s.engine.Compute(s.table, spec)
	if err != nil {
		return nil, err
	}
	scene, err := s.renderer.Render(result, spec, s.surface.Viewport(), render.HoverState{})
	if err != nil {
		return nil, err
	}
	return &Chart{Spec: spec, Result: result, Scene: scene}, nil
}

// Hover points at a mark and repaints the overlay. Unknown marks clear the
// tooltip. It returns the tooltip shown, if any.
func (s *Session) Hover(markID string) *render.Tooltip {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil
	}
	s.hover = render.HoverState{MarkID: markID}
	painted := s.current.Scene.WithHover(s.hover)
	s.surface.Paint(painted)
	return painted.Tooltip
}

// ClearHover removes the tooltip.
func (s *Session) ClearHover() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hover = render.HoverState{}
	if s.current != nil {
		s.surface.Paint(s.current.Scene)
	}
}

// Export captures what is on the surface. The artifact is discarded if the
// table or chart changed while it was being encoded.
func (s *Session) Export(ctx context.Context, format export.Format) (*export.Artifact, error) {
	s.mu.Lock()
	revision := s.revision
	hasChart := s.current != nil
	s.mu.Unlock()

	if !hasChart {
		return nil, &core.ExportFailureError{Format: string(format), Cause: errNoChart}
	}

	start := time.Now()
	art, err := s.exporter.Export(ctx, s.surface, format)
	s.metrics.Exported(string(format), time.Since(start), err)
	if err != nil {
		s.log.Warn("export %s failed: %v", format, err)
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.revision != revision {
		s.metrics.StaleDiscarded("export")
		return nil, fmt.Errorf("%w: chart changed during %s export", core.ErrStaleResult, format)
	}
	return art, nil
}

// Snapshot is a read-only view of the session.
type Snapshot struct {
	SessionID core.SessionID        `json:"sessionId"`
	Headers   []string              `json:"headers"`
	RowCount  int                   `json:"rowCount"`
	Profiles  []chart.ColumnProfile `json:"profiles"`
	Spec      *chart.Spec           `json:"spec,omitempty"`
	Result    chart.Result          `json:"result,omitempty"`
	Scene     *render.Scene         `json:"scene,omitempty"`
	Hover     render.HoverState     `json:"hover"`
}

// Snapshot copies the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		SessionID: s.ID,
		Profiles:  s.profiles.Ordered(),
		Hover:     s.hover,
	}
	if s.table != nil {
		snap.Headers = append([]string(nil), s.table.Headers...)
		snap.RowCount = s.table.RowCount()
	}
	if s.current != nil {
		spec := s.current.Spec
		snap.Spec = &spec
		snap.Result = s.current.Result
		snap.Scene = s.surface.Scene()
	}
	return snap
}

// Preview returns the first n rows; n <= 0 means DefaultPreviewRows.
func (s *Session) Preview(n int) []table.Row {
	if n <= 0 {
		n = DefaultPreviewRows
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.table == nil {
		return nil
	}
	return s.table.Head(n)
}

// Summary computes the descriptive panel for column.
func (s *Session) Summary(column string) (*chart.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.table == nil {
		return nil, noData()
	}
	if !s.table.HasColumn(column) {
		return nil, fmt.Errorf("%w: %q", core.ErrUnknownColumn, column)
	}
	return s.engine.Summarize(column, s.table.Column(column))
}

// Record packages the displayed chart and its data for saving.
func (s *Session) Record(name string) (*chart.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil, fmt.Errorf("%w: nothing selected", core.ErrChartNotFound)
	}
	return chart.NewRecord(name, s.current.Spec, s.table)
}

// Restore loads a saved chart's data and redraws it.
func (s *Session) Restore(rec *chart.Record) (*Chart, error) {
	spec, tbl, err := rec.Decode()
	if err != nil {
		return nil, err
	}
	if err := s.ApplyTable(s.BeginLoad(), tbl); err != nil {
		return nil, err
	}
	return s.SelectChart(spec)
}
