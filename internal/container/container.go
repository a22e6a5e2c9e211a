package container

import (
	"fmt"
	"log"

	"gograph/adapters/excel"
	"gograph/adapters/sqlstore"
	"gograph/internal"
	"gograph/internal/config"
	"gograph/internal/export"
	"gograph/internal/metrics"
	"gograph/internal/ops"
	"gograph/internal/render"
	"gograph/ports"
	"gograph/ui"

	"github.com/jmoiron/sqlx"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config

	// Infrastructure
	DB      *sqlx.DB
	Metrics *metrics.Recorder
	Logger  *internal.Logger

	// Pipeline collaborators shared by every session
	Decoder  ports.DecoderPort
	Exporter *export.Service
	Charts   ports.ChartRepository

	// Transport
	Server *ui.Server
}

// New creates a container with the components that need no database
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	logger := internal.DefaultLogger
	logger.SetLevel(internal.ParseLogLevel(cfg.LogLevel))

	return &Container{
		Config:   cfg,
		Metrics:  metrics.NewRecorder(),
		Logger:   logger,
		Decoder:  excel.NewDecoder(excel.DefaultDecoderConfig()),
		Exporter: export.NewService(cfg.Export.MaxConcurrent),
	}, nil
}

// InitWithDatabase attaches chart storage and builds the API server.
// A nil db leaves the saved-graph routes disabled.
func (c *Container) InitWithDatabase(db *sqlx.DB) error {
	if db != nil {
		c.DB = db
		c.Charts = sqlstore.NewChartRepository(db)
	}

	c.Server = ui.NewServer(ui.Config{
		GinMode:        c.Config.Server.GinMode,
		UploadMaxBytes: c.Config.Upload.MaxBytes,
		SessionTTL:     c.Config.Session.TTL,
		Viewport:       render.Viewport{Width: c.Config.Surface.Width, Height: c.Config.Surface.Height},
	}, ui.Deps{
		Decoder:  c.Decoder,
		Charts:   c.Charts,
		Exporter: c.Exporter,
		Metrics:  c.Metrics,
		Logger:   c.Logger,
	})

	log.Printf("Container initialized (storage: %t)", c.Charts != nil)
	return nil
}

// OpsConfig describes what the ops router should expose
func (c *Container) OpsConfig() ops.Config {
	h := ops.Config{
		Registry:  c.Metrics.Registry(),
		Profiling: c.Config.Profiling.Enabled,
	}
	if c.DB != nil {
		h.Database = c.DB
	}
	if c.Server != nil {
		h.SessionCount = c.Server.Sessions().Len
	}
	return h
}

// Shutdown releases the database connection
func (c *Container) Shutdown() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
