package ui

import (
	"context"
	"log"
	"net/http"
	"time"

	"gograph/app"
	"gograph/internal"
	"gograph/internal/errors"
	"gograph/internal/export"
	"gograph/internal/render"
	"gograph/ports"
	"gograph/ui/middleware"

	"github.com/gin-gonic/gin"
)

// Config holds HTTP API settings
type Config struct {
	GinMode        string
	UploadMaxBytes int64
	Viewport       render.Viewport
	SessionTTL     time.Duration
}

// Deps are the collaborators the API is wired to. Charts may be nil, in
// which case the saved-graph routes answer 503.
type Deps struct {
	Decoder  ports.DecoderPort
	Charts   ports.ChartRepository
	Exporter *export.Service
	Metrics  ports.MetricsRecorder
	Logger   *internal.Logger
}

// Server is the gin HTTP API
type Server struct {
	router   *gin.Engine
	config   Config
	sessions *SessionStore
	decoder  ports.DecoderPort
	charts   ports.ChartRepository
	log      *internal.Logger
}

// NewServer creates the API server and registers its routes
func NewServer(cfg Config, deps Deps) *Server {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}
	if cfg.UploadMaxBytes <= 0 {
		cfg.UploadMaxBytes = 32 << 20
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = time.Hour
	}
	if deps.Logger == nil {
		deps.Logger = internal.DefaultLogger
	}
	if deps.Exporter == nil {
		deps.Exporter = export.NewService(1)
	}

	s := &Server{
		router:  gin.New(),
		config:  cfg,
		decoder: deps.Decoder,
		charts:  deps.Charts,
		log:     deps.Logger.WithComponent("API"),
	}
	s.sessions = NewSessionStore(func() *app.Session {
		return app.NewSession(app.Options{
			Viewport: cfg.Viewport,
			Exporter: deps.Exporter,
			Metrics:  deps.Metrics,
			Logger:   deps.Logger,
		})
	})

	s.router.Use(gin.Logger(), gin.Recovery())
	s.router.MaxMultipartMemory = cfg.UploadMaxBytes
	s.setupRoutes()
	return s
}

// Handler exposes the router for http.Server and tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Sessions exposes the live session store
func (s *Server) Sessions() *SessionStore {
	return s.sessions
}

// SessionTTL is the idle time after which RunJanitor drops a session
func (s *Server) SessionTTL() time.Duration {
	return s.config.SessionTTL
}

func (s *Server) setupRoutes() {
	api := s.router.Group("/api")
	api.POST("/upload", s.handleUpload)

	sess := api.Group("/session", middleware.RequireSession(s.sessions))
	sess.GET("", s.handleSnapshot)
	sess.DELETE("", s.handleCloseSession)
	sess.GET("/preview", s.handlePreview)
	sess.GET("/profiles", s.handleProfiles)
	sess.GET("/report", s.handleReport)
	sess.GET("/chart-types", s.handleChartTypes)
	sess.POST("/chart", s.handleSelectChart)
	sess.GET("/summary", s.handleSummary)
	sess.POST("/hover", s.handleHover)
	sess.DELETE("/hover", s.handleClearHover)
	sess.GET("/export", s.handleExport)

	graphs := api.Group("/graphs", s.requireCharts)
	graphs.GET("", s.handleListGraphs)
	graphs.GET("/:id", s.handleGetGraph)
	graphs.PUT("/:id", s.handleUpdateGraph)
	graphs.DELETE("/:id", s.handleDeleteGraph)
	graphs.POST("/:id/open", s.handleOpenGraph)
	graphs.POST("", middleware.RequireSession(s.sessions), s.handleCreateGraph)
}

// RunJanitor evicts idle sessions until ctx is done
func (s *Server) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.sessions.Sweep(s.config.SessionTTL); n > 0 {
				s.log.Info("evicted %d idle sessions, %d live", n, s.sessions.Len())
			}
		}
	}
}

func (s *Server) requireCharts(c *gin.Context) {
	if s.charts == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"code":    errors.CodeDatabaseError,
			"message": "chart storage is not configured",
		})
		return
	}
	c.Next()
}

// respondError writes the error envelope with the status for its code
func (s *Server) respondError(c *gin.Context, err error) {
	appErr := errors.FromDomain(err)
	status := errors.HTTPStatus(appErr.Code)
	if status >= http.StatusInternalServerError {
		log.Printf("[API] %s %s failed: %v", c.Request.Method, c.FullPath(), err)
	}
	c.JSON(status, gin.H{
		"success": false,
		"code":    appErr.Code,
		"message": appErr.Message,
	})
}

func ok(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"success": true, "data": data})
}
