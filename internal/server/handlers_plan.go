package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"simplynourished/internal/plan"
	"simplynourished/internal/session"
)

func (a *App) submitPlan(c *gin.Context) {
	sess, ok := sessionFromContext(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "Session not found")
		return
	}

	fields, ok := readPlanFields(c)
	if !ok {
		return
	}

	st, err := sess.SubmitPlan(fields)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, st)
	case errors.Is(err, session.ErrSessionClosed):
		writeError(c, http.StatusNotFound, "Session not found")
	default:
		writeStateError(c, http.StatusUnprocessableEntity, st.ErrorMessage, st)
	}
}

// readPlanFields accepts either a JSON object or a url-encoded/multipart
// form. Fields that are not sent stay absent.
func readPlanFields(c *gin.Context) (map[string]string, bool) {
	if c.ContentType() == gin.MIMEJSON {
		var body map[string]any
		if err := c.ShouldBindJSON(&body); err != nil {
			writeError(c, http.StatusBadRequest, "Invalid request payload")
			return nil, false
		}
		return formFieldsFromJSON(body), true
	}

	fields := make(map[string]string, len(plan.FormFields))
	for _, name := range plan.FormFields {
		if value, ok := c.GetPostForm(name); ok {
			fields[name] = value
		}
	}
	return fields, true
}

func (a *App) fetchRecipes(c *gin.Context) {
	sess, ok := sessionFromContext(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "Session not found")
		return
	}

	task, st, err := sess.FetchRecipes()
	switch {
	case errors.Is(err, session.ErrFetchInProgress):
		writeStateError(c, http.StatusConflict, "Recipe fetch already in progress", st)
		return
	case errors.Is(err, session.ErrPlanRequired):
		writeStateError(c, http.StatusUnprocessableEntity, st.ErrorMessage, st)
		return
	case errors.Is(err, session.ErrSessionClosed):
		writeError(c, http.StatusNotFound, "Session not found")
		return
	case err != nil:
		writeError(c, http.StatusInternalServerError, err.Error())
		return
	}

	if !isTruthy(c.Query("wait")) {
		c.JSON(http.StatusAccepted, recipeFetchResponse{TaskID: task.ID, State: st})
		return
	}

	if err := task.Wait(c.Request.Context()); err != nil {
		// Client went away; the task keeps running and publishes on its own.
		return
	}
	c.JSON(http.StatusOK, recipeFetchResponse{TaskID: task.ID, State: sess.Snapshot()})
}

func (a *App) cancelRecipes(c *gin.Context) {
	sess, ok := sessionFromContext(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "Session not found")
		return
	}
	if !sess.CancelFetch() {
		writeError(c, http.StatusNotFound, "No recipe fetch in progress")
		return
	}
	c.Status(http.StatusNoContent)
}
