package ui

import (
	"net/http"
	"strconv"

	"gograph/domain/chart"
	"gograph/domain/core"
	"gograph/internal/errors"
	"gograph/internal/profiling"
	"gograph/internal/validation"
	"gograph/ui/middleware"

	"github.com/gin-gonic/gin"
)

// graphView is the API shape of a saved chart. Data is included only when
// a single graph is requested.
type graphView struct {
	ID        core.ChartID        `json:"id"`
	Name      string              `json:"name"`
	ChartType chart.Type          `json:"chartType"`
	Columns   []string            `json:"columns"`
	Spec      chart.Spec          `json:"spec"`
	RowCount  int                 `json:"rowCount"`
	Headers   []string            `json:"headers,omitempty"`
	Data      []map[string]string `json:"data,omitempty"`
	CreatedAt core.Timestamp      `json:"createdAt"`
	UpdatedAt core.Timestamp      `json:"updatedAt"`
}

func viewOf(rec *chart.Record, withData bool) (graphView, error) {
	spec, tbl, err := rec.Decode()
	if err != nil {
		return graphView{}, err
	}
	v := graphView{
		ID:        rec.ID,
		Name:      rec.Name,
		ChartType: rec.ChartType,
		Columns:   rec.Columns,
		Spec:      spec,
		RowCount:  tbl.RowCount(),
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
	if withData {
		v.Headers = tbl.Headers
		v.Data = make([]map[string]string, len(tbl.Rows))
		for i, row := range tbl.Rows {
			v.Data[i] = row
		}
	}
	return v, nil
}

type createGraphRequest struct {
	Name string `json:"name" binding:"required,max=255"`
}

// handleCreateGraph saves the session's displayed chart with its data
func (s *Server) handleCreateGraph(c *gin.Context) {
	var req createGraphRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, errors.InvalidInput("name is required"))
		return
	}

	rec, err := middleware.Session(c).Record(req.Name)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if err := s.charts.Create(c.Request.Context(), rec); err != nil {
		s.respondError(c, errors.Wrap(errors.DatabaseError(err.Error()), "failed to save graph"))
		return
	}

	view, err := viewOf(rec, false)
	if err != nil {
		s.respondError(c, err)
		return
	}
	ok(c, http.StatusCreated, view)
}

// handleListGraphs returns saved graphs newest first with pagination
func (s *Server) handleListGraphs(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 {
		limit = 10
	}

	result, err := s.charts.List(c.Request.Context(), page, limit)
	if err != nil {
		s.respondError(c, err)
		return
	}

	views := make([]graphView, 0, len(result.Records))
	for _, rec := range result.Records {
		view, err := viewOf(rec, false)
		if err != nil {
			s.log.Warn("skipping unreadable graph %s: %v", rec.ID, err)
			continue
		}
		views = append(views, view)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    views,
		"pagination": gin.H{
			"current":    result.Page,
			"total":      result.TotalPages(),
			"totalItems": result.TotalItems,
		},
	})
}

func (s *Server) loadGraph(c *gin.Context) (*chart.Record, bool) {
	id, err := core.ParseChartID(c.Param("id"))
	if err != nil {
		s.respondError(c, errors.InvalidInput("invalid graph id"))
		return nil, false
	}
	rec, err := s.charts.Get(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return nil, false
	}
	return rec, true
}

func (s *Server) handleGetGraph(c *gin.Context) {
	rec, found := s.loadGraph(c)
	if !found {
		return
	}
	view, err := viewOf(rec, true)
	if err != nil {
		s.respondError(c, err)
		return
	}
	ok(c, http.StatusOK, view)
}

type updateGraphRequest struct {
	Name      *string  `json:"name" binding:"omitempty,min=1,max=255"`
	ChartType *string  `json:"chartType"`
	Columns   []string `json:"columns" binding:"omitempty,min=1,max=2"`
}

// handleUpdateGraph renames a graph or rebinds its chart type and columns.
// The new binding must still be valid against the stored data.
func (s *Server) handleUpdateGraph(c *gin.Context) {
	var req updateGraphRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, errors.InvalidInput("Invalid update: "+err.Error()))
		return
	}
	rec, found := s.loadGraph(c)
	if !found {
		return
	}

	name := rec.Name
	if req.Name != nil {
		name = *req.Name
	}
	chartType := rec.ChartType
	if req.ChartType != nil {
		t, err := chart.ParseType(*req.ChartType)
		if err != nil {
			s.respondError(c, err)
			return
		}
		chartType = t
	}
	columns := rec.Columns
	if req.Columns != nil {
		columns = req.Columns
	}

	spec, err := chart.SpecFromColumns(chartType, columns)
	if err != nil {
		s.respondError(c, err)
		return
	}
	_, tbl, err := rec.Decode()
	if err != nil {
		s.respondError(c, err)
		return
	}
	if err := validation.Validate(tbl, profiling.Analyze(tbl), spec); err != nil {
		s.respondError(c, err)
		return
	}
	updated, err := chart.NewRecord(name, spec, tbl)
	if err != nil {
		s.respondError(c, err)
		return
	}
	updated.ID, updated.CreatedAt = rec.ID, rec.CreatedAt

	if err := s.charts.Update(c.Request.Context(), updated); err != nil {
		s.respondError(c, err)
		return
	}
	view, err := viewOf(updated, false)
	if err != nil {
		s.respondError(c, err)
		return
	}
	ok(c, http.StatusOK, view)
}

func (s *Server) handleDeleteGraph(c *gin.Context) {
	id, err := core.ParseChartID(c.Param("id"))
	if err != nil {
		s.respondError(c, errors.InvalidInput("invalid graph id"))
		return
	}
	if err := s.charts.Delete(c.Request.Context(), id); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Graph deleted successfully"})
}

// handleOpenGraph restores a saved graph into a session and redraws it
func (s *Server) handleOpenGraph(c *gin.Context) {
	rec, found := s.loadGraph(c)
	if !found {
		return
	}
	sess, created := s.sessionFromHeader(c)
	selected, err := sess.Restore(rec)
	if err != nil {
		if created {
			s.sessions.Delete(sess.ID)
		}
		s.respondError(c, err)
		return
	}
	c.Header(middleware.SessionHeader, sess.ID.String())
	ok(c, http.StatusOK, gin.H{
		"sessionId": sess.ID,
		"spec":      selected.Spec,
		"result":    selected.Result,
		"scene":     selected.Scene,
	})
}
