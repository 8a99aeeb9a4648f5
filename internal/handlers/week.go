package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"building_scheduler/internal/export"
	"building_scheduler/internal/models"
	"building_scheduler/internal/recurrence"

	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

type cellDTO struct {
	Hour    int                `json:"hour"`
	Day     int                `json:"day"`
	Entries []models.GridEntry `json:"entries"`
}

// weekResponse carries only the non-empty cells of the grid.
type weekResponse struct {
	WeekStart   string    `json:"week_start"`
	DayHeaders  []string  `json:"day_headers"`
	HourHeaders []string  `json:"hour_headers"`
	Cells       []cellDTO `json:"cells"`
	Count       int       `json:"count"`
}

func newWeekResponse(g models.WeekGrid) weekResponse {
	resp := weekResponse{
		WeekStart:   g.WeekStart.Format(dateLayout),
		DayHeaders:  g.DayHeaders(),
		HourHeaders: models.HourHeaders(),
		Cells:       []cellDTO{},
		Count:       g.Count(),
	}
	for h := 0; h < models.HoursPerDay; h++ {
		for d := 0; d < models.DaysPerWeek; d++ {
			if entries := g.Cell(h, d); len(entries) > 0 {
				resp.Cells = append(resp.Cells, cellDTO{Hour: h, Day: d, Entries: entries})
			}
		}
	}
	return resp
}

// weekStartParam reads ?start= (must be a Monday) or ?date= (any day of the wanted week).
// Neither means the current week.
func (h *Handler) weekStartParam(c *gin.Context) (time.Time, error) {
	if raw := strings.TrimSpace(c.Query("start")); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return time.Time{}, &models.ParseError{Field: "start", Value: raw, Err: err}
		}
		return t, nil
	}
	if raw := strings.TrimSpace(c.Query("date")); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return time.Time{}, &models.ParseError{Field: "date", Value: raw, Err: err}
		}
		return recurrence.WeekStart(t), nil
	}
	now := h.now()
	return recurrence.WeekStart(time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)), nil
}

// @Summary      Project week
// @Description  Places the schedule's events onto the 24x7 grid of one week.
// @Tags         week
// @Security     BearerAuth
// @Produce      json
// @Param        name   path      string  true   "Schedule name"
// @Param        start  query     string  false  "Monday of the week (YYYY-MM-DD)"
// @Param        date   query     string  false  "Any day of the week (YYYY-MM-DD)"
// @Success      200    {object}  weekResponse
// @Failure      400    {object}  errorResponse
// @Failure      404    {object}  errorResponse
// @Router       /api/v1/schedules/{name}/week [get]
func (h *Handler) projectWeek(c *gin.Context) {
	start, err := h.weekStartParam(c)
	if err != nil {
		h.respondError(c, "week_param_invalid", err)
		return
	}
	g, err := h.services.ProjectWeek(c.Request.Context(), c.Param("name"), start)
	if err != nil {
		h.respondError(c, "week_project_failed", err, "schedule", c.Param("name"))
		return
	}
	c.JSON(http.StatusOK, newWeekResponse(g))
}

// @Summary      Project week across all schedules
// @Tags         week
// @Security     BearerAuth
// @Produce      json
// @Param        start  query     string  false  "Monday of the week (YYYY-MM-DD)"
// @Param        date   query     string  false  "Any day of the week (YYYY-MM-DD)"
// @Success      200    {object}  weekResponse
// @Failure      400    {object}  errorResponse
// @Router       /api/v1/week [get]
func (h *Handler) projectAll(c *gin.Context) {
	start, err := h.weekStartParam(c)
	if err != nil {
		h.respondError(c, "week_param_invalid", err)
		return
	}
	g, err := h.services.ProjectAll(c.Request.Context(), start)
	if err != nil {
		h.respondError(c, "week_project_failed", err)
		return
	}
	c.JSON(http.StatusOK, newWeekResponse(g))
}

// @Summary      Export week
// @Tags         week
// @Security     BearerAuth
// @Produce      octet-stream
// @Param        name    path   string  true   "Schedule name"
// @Param        format  query  string  true   "ics, xlsx or pdf"
// @Param        start   query  string  false  "Monday of the week (YYYY-MM-DD)"
// @Param        date    query  string  false  "Any day of the week (YYYY-MM-DD)"
// @Success      200
// @Failure      400     {object}  errorResponse
// @Failure      404     {object}  errorResponse
// @Router       /api/v1/schedules/{name}/week/export [get]
func (h *Handler) exportWeek(c *gin.Context) {
	start, err := h.weekStartParam(c)
	if err != nil {
		h.respondError(c, "week_param_invalid", err)
		return
	}
	f, err := h.services.ExportWeek(c.Request.Context(), c.Param("name"), start, c.Query("format"))
	if err != nil {
		h.respondError(c, "week_export_failed", err, "schedule", c.Param("name"), "format", c.Query("format"))
		return
	}
	sendFile(c, f)
}

// @Summary      Export schedule
// @Tags         schedules
// @Security     BearerAuth
// @Produce      application/yaml
// @Param        name  path  string  true  "Schedule name"
// @Success      200
// @Failure      404   {object}  errorResponse
// @Router       /api/v1/schedules/{name}/export.yaml [get]
func (h *Handler) exportSchedule(c *gin.Context) {
	f, err := h.services.ExportSchedule(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.respondError(c, "schedule_export_failed", err, "schedule", c.Param("name"))
		return
	}
	sendFile(c, f)
}

func sendFile(c *gin.Context, f export.File) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", f.Name))
	c.Data(http.StatusOK, f.ContentType, f.Body)
}
