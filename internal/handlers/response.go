package handlers

import (
	"errors"
	"net/http"

	"building_scheduler/internal/models"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK           = "ok"
	errInternal        = "internal error"
	errInvalidBodyPref = "invalid body: "
	reasonNotFound     = "NotFound"
	reasonBadRequest   = "BadRequest"
)

// conflictReasons are reported as 409 rather than 400.
var conflictReasons = map[models.Reason]bool{
	models.ReasonDuplicateOutstationID:       true,
	models.ReasonDuplicateEventID:            true,
	models.ReasonDuplicateZoneID:             true,
	models.ReasonDuplicateBuildingID:         true,
	models.ReasonReplaceConfirmationRequired: true,
}

// errorResponse is the JSON body of every failed request.
type errorResponse struct {
	Error    string `json:"error"`
	Reason   string `json:"reason,omitempty"`
	Conflict string `json:"conflict,omitempty"`
}

// statusFor maps the error taxonomy onto HTTP status codes.
func statusFor(err error) (int, errorResponse) {
	var (
		ve *models.ValidationError
		nf *models.NotFoundError
		pe *models.ParseError
	)
	switch {
	case errors.As(err, &ve):
		code := http.StatusBadRequest
		if conflictReasons[ve.Reason] {
			code = http.StatusConflict
		}
		return code, errorResponse{Error: err.Error(), Reason: string(ve.Reason), Conflict: ve.Conflict}
	case errors.As(err, &nf):
		return http.StatusNotFound, errorResponse{Error: nf.Error(), Reason: reasonNotFound}
	case errors.As(err, &pe):
		return http.StatusBadRequest, errorResponse{Error: pe.Error(), Reason: reasonBadRequest}
	default:
		return http.StatusInternalServerError, errorResponse{Error: errInternal}
	}
}

// respondError writes the mapped status. Server errors are logged at error level, rejections at info.
func (h *Handler) respondError(c *gin.Context, logKey string, err error, kv ...interface{}) {
	code, body := statusFor(err)
	if h.log != nil {
		fields := append([]interface{}{"err", err, "status", code}, kv...)
		if code >= http.StatusInternalServerError {
			h.log.Errorw(logKey, fields...)
		} else {
			h.log.Infow(logKey, fields...)
		}
	}
	c.JSON(code, body)
}

// badRequest writes a 400 for malformed input that never reached a service.
func (h *Handler) badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, errorResponse{Error: msg, Reason: reasonBadRequest})
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}
