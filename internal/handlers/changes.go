package handlers

import (
	"net/http"
	"strings"
	"time"

	"building_scheduler/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	errFromInvalid = "invalid 'from' time"
	errToInvalid   = "invalid 'to' time"
)

// parseQueryTime accepts RFC3339, "2006-01-02 15:04:05" or "2006-01-02". Empty input gives zero time.
func parseQueryTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
		return t, nil
	}
	return time.Parse(dateLayout, s)
}

func isDateOnly(s string) bool {
	_, err := time.Parse(dateLayout, strings.TrimSpace(s))
	return err == nil
}

// @Summary      List changes
// @Description  Returns committed mutations from the change journal, oldest first.
// @Tags         changes
// @Security     BearerAuth
// @Produce      json
// @Param        from      query     string  false  "From time (RFC3339 or YYYY-MM-DD)"
// @Param        to        query     string  false  "To time (RFC3339 or YYYY-MM-DD, date-only is inclusive)"
// @Param        type      query     string  false  "Change type, e.g. EVENT_CREATED"
// @Param        schedule  query     string  false  "Schedule name"
// @Success      200       {array}   models.ChangeEntry
// @Failure      400       {object}  errorResponse
// @Failure      500       {object}  errorResponse
// @Router       /api/v1/changes [get]
func (h *Handler) listChanges(c *gin.Context) {
	fromQ, toQ := c.Query("from"), c.Query("to")

	from, err := parseQueryTime(fromQ)
	if err != nil {
		h.badRequest(c, errFromInvalid)
		return
	}
	to, err := parseQueryTime(toQ)
	if err != nil {
		h.badRequest(c, errToInvalid)
		return
	}
	// a bare date in 'to' covers the whole day
	if !to.IsZero() && isDateOnly(toQ) {
		to = to.Add(24*time.Hour - time.Nanosecond)
	}

	entries, err := h.services.ListChanges(c.Request.Context(), models.ChangeFilter{
		From:     from,
		To:       to,
		Type:     c.Query("type"),
		Schedule: c.Query("schedule"),
	})
	if err != nil {
		h.respondError(c, "changes_list_failed", err)
		return
	}
	if entries == nil {
		entries = []models.ChangeEntry{}
	}
	c.JSON(http.StatusOK, entries)
}
