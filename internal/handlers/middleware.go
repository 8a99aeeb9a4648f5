package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"building_scheduler/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"
	ctxRequestID    = "requestId"
	ctxOperatorID   = "operatorId"
)

// operatorMiddleware accepts "Authorization: Bearer <token>". The websocket stream may pass
// ?token= instead, since browsers cannot set headers on an upgrade request.
func (h *Handler) operatorMiddleware(c *gin.Context) {
	token, msg := bearerToken(c)
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": msg,
		})
		return
	}

	operatorID, err := h.services.ParseToken(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid or expired token",
		})
		return
	}

	// store in Gin context
	c.Set(ctxOperatorID, operatorID)
	c.Next()
}

func bearerToken(c *gin.Context) (string, string) {
	header := c.GetHeader("Authorization")
	if header == "" {
		if q := c.Query("token"); q != "" && strings.HasPrefix(c.FullPath(), "/ws/") {
			return q, ""
		}
		return "", "missing Authorization header"
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
		return "", "invalid Authorization header format"
	}
	return parts[1], ""
}

// requestID propagates X-Request-ID, generating one when absent.
func (h *Handler) requestID(c *gin.Context) {
	id := c.GetHeader(requestIDHeader)
	if id == "" {
		id = uuid.NewString()
	}
	c.Set(ctxRequestID, id)
	c.Header(requestIDHeader, id)
	c.Next()
}

func (h *Handler) accessLog(c *gin.Context) {
	start := time.Now()
	c.Next()
	if h.log == nil {
		return
	}
	h.log.Infow("http_request",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", c.Writer.Status(),
		"latency_ms", time.Since(start).Milliseconds(),
		"request_id", c.GetString(ctxRequestID),
	)
}

// observe records request counts and latency per route template.
func (h *Handler) observe(c *gin.Context) {
	start := time.Now()
	c.Next()
	metrics.ObserveHTTP(c.FullPath(), c.Request.Method, strconv.Itoa(c.Writer.Status()), time.Since(start))
}
