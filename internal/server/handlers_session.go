package server

import (
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func (a *App) createSession(c *gin.Context) {
	sess := a.sessions.Create()
	token, expiresAt, err := a.issueToken(sess.ID, time.Now())
	if err != nil {
		log.Printf("issue session token failed: %v", err)
		a.sessions.Delete(sess.ID)
		writeError(c, http.StatusInternalServerError, "Failed to issue session token")
		return
	}

	c.JSON(http.StatusCreated, createSessionResponse{
		SessionID: sess.ID,
		Token:     token,
		ExpiresAt: expiresAt,
		State:     sess.Snapshot(),
	})
}

func (a *App) getSession(c *gin.Context) {
	sess, ok := sessionFromContext(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "Session not found")
		return
	}
	c.JSON(http.StatusOK, sess.Snapshot())
}

// sessionEvents streams one "state" event per change until the client goes
// away or the session is closed.
func (a *App) sessionEvents(c *gin.Context) {
	sess, ok := sessionFromContext(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "Session not found")
		return
	}

	updates, unsubscribe := sess.Subscribe()
	defer unsubscribe()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case st, ok := <-updates:
			if !ok {
				return false
			}
			c.SSEvent("state", st)
			return true
		}
	})
}
