package ui

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strconv"

	"gograph/adapters/excel"
	"gograph/app"
	"gograph/domain/chart"
	"gograph/domain/core"
	"gograph/internal/errors"
	"gograph/internal/export"
	"gograph/ui/middleware"

	"github.com/gin-gonic/gin"
)

// uploadResponse describes a freshly loaded table
type uploadResponse struct {
	SessionID    core.SessionID        `json:"sessionId"`
	Filename     string                `json:"filename"`
	Headers      []string              `json:"headers"`
	RowCount     int                   `json:"rowCount"`
	Profiles     []chart.ColumnProfile `json:"profiles"`
	Availability []chart.Availability  `json:"availability"`
}

// handleUpload decodes a multipart "file" into a session. An existing
// session named by X-Session-ID is reused; otherwise a new one is created.
func (s *Server) handleUpload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.config.UploadMaxBytes)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			s.respondError(c, errors.InvalidInput(fmt.Sprintf("File exceeds the %d byte upload limit", tooLarge.Limit)))
			return
		}
		s.respondError(c, errors.InvalidInput("No file uploaded"))
		return
	}
	defer file.Close()

	hint := header.Filename
	if _, known := excel.DetectFileType(hint); !known {
		hint = header.Header.Get("Content-Type")
	}

	sess, created := s.sessionFromHeader(c)
	if err := sess.Load(c.Request.Context(), s.decoder, file, hint); err != nil {
		if created {
			s.sessions.Delete(sess.ID)
		}
		s.respondError(c, err)
		return
	}

	snap := sess.Snapshot()
	s.log.Info("session %s loaded %s (%d rows)", sess.ID, header.Filename, snap.RowCount)
	c.Header(middleware.SessionHeader, sess.ID.String())
	ok(c, http.StatusOK, uploadResponse{
		SessionID:    sess.ID,
		Filename:     header.Filename,
		Headers:      snap.Headers,
		RowCount:     snap.RowCount,
		Profiles:     snap.Profiles,
		Availability: sess.Availability(),
	})
}

// sessionFromHeader returns the session named by X-Session-ID, or a new one
// and true.
func (s *Server) sessionFromHeader(c *gin.Context) (*app.Session, bool) {
	if id, err := core.ParseSessionID(c.GetHeader(middleware.SessionHeader)); err == nil {
		if sess, found := s.sessions.Get(id); found {
			return sess, false
		}
	}
	return s.sessions.Create(), true
}

func (s *Server) handleSnapshot(c *gin.Context) {
	ok(c, http.StatusOK, middleware.Session(c).Snapshot())
}

func (s *Server) handleCloseSession(c *gin.Context) {
	s.sessions.Delete(middleware.Session(c).ID)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Session closed"})
}

func (s *Server) handlePreview(c *gin.Context) {
	rows, err := strconv.Atoi(c.DefaultQuery("rows", strconv.Itoa(app.DefaultPreviewRows)))
	if err != nil || rows < 1 || rows > 1000 {
		rows = app.DefaultPreviewRows
	}
	sess := middleware.Session(c)
	ok(c, http.StatusOK, gin.H{
		"headers": sess.Snapshot().Headers,
		"rows":    sess.Preview(rows),
	})
}

func (s *Server) handleProfiles(c *gin.Context) {
	ok(c, http.StatusOK, middleware.Session(c).Profiles())
}

func (s *Server) handleReport(c *gin.Context) {
	rep, err := middleware.Session(c).Report()
	if err != nil {
		s.respondError(c, err)
		return
	}
	if c.Query("format") == "markdown" {
		c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(rep.Markdown))
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", rep.HTML)
}

func (s *Server) handleChartTypes(c *gin.Context) {
	ok(c, http.StatusOK, middleware.Session(c).Availability())
}

func (s *Server) handleSelectChart(c *gin.Context) {
	var spec chart.Spec
	if err := c.ShouldBindJSON(&spec); err != nil {
		s.respondError(c, errors.InvalidInput("Invalid chart request: "+err.Error()))
		return
	}

	selected, err := middleware.Session(c).SelectChart(spec)
	if err != nil {
		s.respondError(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{
		"spec":   selected.Spec,
		"result": selected.Result,
		"scene":  selected.Scene,
	})
}

func (s *Server) handleSummary(c *gin.Context) {
	column := c.Query("column")
	if column == "" {
		s.respondError(c, errors.InvalidInput("column is required"))
		return
	}
	summary, err := middleware.Session(c).Summary(column)
	if err != nil {
		s.respondError(c, err)
		return
	}
	ok(c, http.StatusOK, summary)
}

type hoverRequest struct {
	MarkID string `json:"markId" binding:"required"`
}

func (s *Server) handleHover(c *gin.Context) {
	var req hoverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, errors.InvalidInput("markId is required"))
		return
	}
	ok(c, http.StatusOK, gin.H{"tooltip": middleware.Session(c).Hover(req.MarkID)})
}

func (s *Server) handleClearHover(c *gin.Context) {
	middleware.Session(c).ClearHover()
	ok(c, http.StatusOK, gin.H{"tooltip": nil})
}

func (s *Server) handleExport(c *gin.Context) {
	format, err := export.ParseFormat(c.DefaultQuery("format", "png"))
	if err != nil {
		s.respondError(c, errors.InvalidInput(err.Error()))
		return
	}

	art, err := middleware.Session(c).Export(c.Request.Context(), format)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", art.Filename))
	c.Data(http.StatusOK, art.ContentType, art.Data)
}
