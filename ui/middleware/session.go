package middleware

import (
	"log"
	"net/http"

	"gograph/app"
	"gograph/domain/core"
	"gograph/internal/errors"

	"github.com/gin-gonic/gin"
)

// SessionHeader carries the session id on every session-scoped request.
const SessionHeader = "X-Session-ID"

const sessionKey = "gograph.session"

// SessionLookup finds a live session by id.
type SessionLookup interface {
	Get(id core.SessionID) (*app.Session, bool)
}

// RequireSession resolves the X-Session-ID header to a live session and
// aborts with 400 or 404 when it cannot.
func RequireSession(store SessionLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := core.ParseSessionID(c.GetHeader(SessionHeader))
		if err != nil {
			abort(c, http.StatusBadRequest, errors.InvalidInput("missing or malformed "+SessionHeader+" header"))
			return
		}

		sess, ok := store.Get(id)
		if !ok {
			log.Printf("[RequireSession] Unknown session %s", id)
			abort(c, http.StatusNotFound, errors.NotFound("session"))
			return
		}

		c.Set(sessionKey, sess)
		c.Next()
	}
}

// Session returns the session resolved by RequireSession.
func Session(c *gin.Context) *app.Session {
	return c.MustGet(sessionKey).(*app.Session)
}

func abort(c *gin.Context, status int, err *errors.AppError) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"code":    err.Code,
		"message": err.Message,
	})
}
