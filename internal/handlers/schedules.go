package handlers

import (
	"net/http"

	"building_scheduler/internal/service"

	"github.com/gin-gonic/gin"
)

type createScheduleRequest struct {
	Name       string `json:"name"`
	BuildingID string `json:"building_id"`
	// Replace confirms overwriting an existing schedule of the same name.
	Replace bool `json:"replace"`
}

type createZoneRequest struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

// @Summary      List schedules
// @Tags         schedules
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   models.ScheduleSummary
// @Failure      500  {object}  errorResponse
// @Router       /api/v1/schedules [get]
func (h *Handler) listSchedules(c *gin.Context) {
	list, err := h.services.ListSchedules(c.Request.Context())
	if err != nil {
		h.respondError(c, "schedules_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary      Create schedule
// @Description  Creates an empty schedule bound to one building. An existing name needs "replace": true.
// @Tags         schedules
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      createScheduleRequest  true  "Schedule"
// @Success      201   {object}  models.ScheduleRecord
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/v1/schedules [post]
func (h *Handler) createSchedule(c *gin.Context) {
	var req createScheduleRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	rec, err := h.services.CreateSchedule(c.Request.Context(), service.CreateScheduleInput{
		Name:       req.Name,
		BuildingID: req.BuildingID,
		Replace:    req.Replace,
	})
	if err != nil {
		h.respondError(c, "schedule_create_failed", err, "schedule", req.Name)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

// @Summary      Get schedule
// @Tags         schedules
// @Security     BearerAuth
// @Produce      json
// @Param        name  path      string  true  "Schedule name"
// @Success      200   {object}  models.ScheduleRecord
// @Failure      404   {object}  errorResponse
// @Router       /api/v1/schedules/{name} [get]
func (h *Handler) getSchedule(c *gin.Context) {
	rec, err := h.services.GetSchedule(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.respondError(c, "schedule_get_failed", err, "schedule", c.Param("name"))
		return
	}
	c.JSON(http.StatusOK, rec)
}

// @Summary      Delete schedule
// @Tags         schedules
// @Security     BearerAuth
// @Param        name  path  string  true  "Schedule name"
// @Success      204
// @Failure      404   {object}  errorResponse
// @Router       /api/v1/schedules/{name} [delete]
func (h *Handler) deleteSchedule(c *gin.Context) {
	if err := h.services.DeleteSchedule(c.Request.Context(), c.Param("name")); err != nil {
		h.respondError(c, "schedule_delete_failed", err, "schedule", c.Param("name"))
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary      List zones
// @Tags         zones
// @Security     BearerAuth
// @Produce      json
// @Param        name  path      string  true  "Schedule name"
// @Success      200   {array}   models.ZoneRecord
// @Failure      404   {object}  errorResponse
// @Router       /api/v1/schedules/{name}/zones [get]
func (h *Handler) listZones(c *gin.Context) {
	zones, err := h.services.ListZones(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.respondError(c, "zones_list_failed", err, "schedule", c.Param("name"))
		return
	}
	c.JSON(http.StatusOK, zones)
}

// @Summary      Create zone
// @Tags         zones
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        name  path      string             true  "Schedule name"
// @Param        body  body      createZoneRequest  true  "Zone"
// @Success      201   {object}  models.ZoneRecord
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/v1/schedules/{name}/zones [post]
func (h *Handler) createZone(c *gin.Context) {
	var req createZoneRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	zone, err := h.services.CreateZone(c.Request.Context(), c.Param("name"), req.ID, req.Description)
	if err != nil {
		h.respondError(c, "zone_create_failed", err, "schedule", c.Param("name"), "zone", req.ID)
		return
	}
	c.JSON(http.StatusCreated, zone)
}
