package handlers

import (
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"building_scheduler/internal/models"
	"building_scheduler/internal/recurrence"
	"building_scheduler/internal/service"

	"github.com/gin-gonic/gin"
)

// Accepted trigger and exclusion layouts, most specific first.
var naiveLayouts = []string{
	models.TimeLayout,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

type setpointDTO struct {
	Value string `json:"value"`
	// Type is one of lt, eq, gt.
	Type string `json:"type"`
}

type ruleDTO struct {
	// Type is "day" (or 0) and "time" (or 1).
	Type string `json:"type"`
	// Specifier is "Mo, We" for day rules or a YYYYMMDDHHmm pattern with '*' wildcards.
	Specifier string   `json:"specifier"`
	Excluded  []string `json:"excluded,omitempty"`
}

type eventRequest struct {
	ID           string      `json:"id"`
	TriggerTime  string      `json:"trigger_time"`
	Setpoint     setpointDTO `json:"setpoint"`
	OutstationID string      `json:"outstation_id"`
	// Colour is "(r, g, b)" or "#rrggbb". Empty means white.
	Colour     string    `json:"colour,omitempty"`
	Recurrence []ruleDTO `json:"recurrence,omitempty"`
	// Schedule and Zone move an edited event. Empty keeps the current location.
	Schedule string `json:"schedule,omitempty"`
	Zone     string `json:"zone,omitempty"`
}

// parseNaive reads a wall-clock timestamp without zone.
func parseNaive(field, raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	for _, layout := range naiveLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &models.ParseError{Field: field, Value: raw}
}

func parseColour(raw string) (*models.Colour, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, nil
	}
	if strings.HasPrefix(s, "#") {
		b, err := hex.DecodeString(s[1:])
		if err != nil || len(b) != 3 {
			return nil, models.Invalid(models.ReasonInvalidColour, "colour %q is not #rrggbb", raw)
		}
		return &models.Colour{R: b[0], G: b[1], B: b[2]}, nil
	}
	c, err := models.ParseColour(s)
	if err != nil {
		return nil, models.Invalid(models.ReasonInvalidColour, "colour %q is not (r, g, b)", raw)
	}
	return &c, nil
}

// toInput converts the request body. schedule and zone are the path location,
// overridden by the body fields when present.
func (r eventRequest) toInput(schedule, zone string) (service.EventInput, error) {
	in := service.EventInput{
		Schedule:     schedule,
		Zone:         zone,
		ID:           r.ID,
		Setpoint:     models.Setpoint{Value: r.Setpoint.Value, Comparison: models.Comparison(r.Setpoint.Type)},
		OutstationID: r.OutstationID,
	}
	if s := strings.TrimSpace(r.Schedule); s != "" {
		in.Schedule = s
	}
	if z := strings.TrimSpace(r.Zone); z != "" {
		in.Zone = z
	}

	trigger, err := parseNaive("trigger_time", r.TriggerTime)
	if err != nil {
		return service.EventInput{}, err
	}
	in.TriggerTime = trigger

	if in.Colour, err = parseColour(r.Colour); err != nil {
		return service.EventInput{}, err
	}

	for _, rd := range r.Recurrence {
		excluded := make([]string, 0, len(rd.Excluded))
		for _, raw := range rd.Excluded {
			t, err := parseNaive("excluded", raw)
			if err != nil {
				return service.EventInput{}, err
			}
			excluded = append(excluded, recurrence.FormatTime(t))
		}
		rule, err := recurrence.Decode(recurrence.Wire{Type: rd.Type, Specifier: rd.Specifier, Excluded: excluded})
		if err != nil {
			return service.EventInput{}, err
		}
		in.Recurrence = append(in.Recurrence, rule)
	}
	return in, nil
}

func eventRef(c *gin.Context) models.EventRef {
	return models.EventRef{Schedule: c.Param("name"), Zone: c.Param("zone"), Event: c.Param("event")}
}

// @Summary      Create event
// @Tags         events
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        name  path      string        true  "Schedule name"
// @Param        zone  path      string        true  "Zone id"
// @Param        body  body      eventRequest  true  "Event"
// @Success      201   {object}  models.ChangeResult
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/v1/schedules/{name}/zones/{zone}/events [post]
func (h *Handler) createEvent(c *gin.Context) {
	var req eventRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	in, err := req.toInput(c.Param("name"), c.Param("zone"))
	if err != nil {
		h.respondError(c, "event_request_invalid", err, "event", req.ID)
		return
	}
	res, err := h.services.CreateEvent(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, "event_create_failed", err, "schedule", in.Schedule, "zone", in.Zone, "event", in.ID)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// @Summary      Get event
// @Description  Returns the event with its setpoint label and described recurrence rules.
// @Tags         events
// @Security     BearerAuth
// @Produce      json
// @Param        name   path      string  true  "Schedule name"
// @Param        zone   path      string  true  "Zone id"
// @Param        event  path      string  true  "Event id"
// @Success      200    {object}  service.EventDetails
// @Failure      404    {object}  errorResponse
// @Router       /api/v1/schedules/{name}/zones/{zone}/events/{event} [get]
func (h *Handler) getEvent(c *gin.Context) {
	details, err := h.services.GetEvent(c.Request.Context(), eventRef(c))
	if err != nil {
		h.respondError(c, "event_get_failed", err, "event", c.Param("event"))
		return
	}
	c.JSON(http.StatusOK, details)
}

// @Summary      Edit event
// @Description  Replaces the event. Body schedule/zone move it to another location.
// @Tags         events
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        name   path      string        true  "Schedule name"
// @Param        zone   path      string        true  "Zone id"
// @Param        event  path      string        true  "Event id"
// @Param        body   body      eventRequest  true  "Event"
// @Success      200    {object}  models.ChangeResult
// @Failure      400    {object}  errorResponse
// @Failure      404    {object}  errorResponse
// @Failure      409    {object}  errorResponse
// @Router       /api/v1/schedules/{name}/zones/{zone}/events/{event} [put]
func (h *Handler) editEvent(c *gin.Context) {
	var req eventRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	orig := eventRef(c)
	in, err := req.toInput(orig.Schedule, orig.Zone)
	if err != nil {
		h.respondError(c, "event_request_invalid", err, "event", orig.Event)
		return
	}
	res, err := h.services.EditEvent(c.Request.Context(), orig, in)
	if err != nil {
		h.respondError(c, "event_edit_failed", err, "schedule", orig.Schedule, "zone", orig.Zone, "event", orig.Event)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary      Delete event
// @Tags         events
// @Security     BearerAuth
// @Produce      json
// @Param        name   path      string  true  "Schedule name"
// @Param        zone   path      string  true  "Zone id"
// @Param        event  path      string  true  "Event id"
// @Success      200    {object}  models.ChangeResult
// @Failure      404    {object}  errorResponse
// @Router       /api/v1/schedules/{name}/zones/{zone}/events/{event} [delete]
func (h *Handler) deleteEvent(c *gin.Context) {
	ref := eventRef(c)
	res, err := h.services.DeleteEvent(c.Request.Context(), ref)
	if err != nil {
		h.respondError(c, "event_delete_failed", err, "schedule", ref.Schedule, "zone", ref.Zone, "event", ref.Event)
		return
	}
	c.JSON(http.StatusOK, res)
}
