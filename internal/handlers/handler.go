package handlers

import (
	"time"

	"building_scheduler/internal/logger"
	"building_scheduler/internal/metrics"
	"building_scheduler/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Options holds the HTTP settings taken from configuration.
type Options struct {
	// AuthEnabled guards /api/v1 and the websocket stream with bearer tokens.
	AuthEnabled    bool
	MetricsEnabled bool
	// StreamInterval is the default period of the week grid stream.
	StreamInterval time.Duration
}

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	opts     Options
	now      func() time.Time
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger, opts Options) *Handler {
	if opts.StreamInterval <= 0 {
		opts.StreamInterval = defaultInterval
	}
	return &Handler{services: services, log: log, opts: opts, now: time.Now}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.requestID, h.accessLog)
	if h.opts.MetricsEnabled {
		router.Use(h.observe)
		router.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	// Auth endpoints
	h.registerAuthRoutes(router)

	// Versioned API endpoints
	h.registerAPIRoutes(router)

	// Live week grid (HTTP upgrade) on the same port
	ws := router.Group("/ws")
	if h.opts.AuthEnabled {
		ws.Use(h.operatorMiddleware)
	}
	ws.GET("/schedules/:name/week", h.streamWeek)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	if h.opts.AuthEnabled {
		api.Use(h.operatorMiddleware)
	}
	{
		h.registerScheduleRoutes(api)
		api.GET("/week", h.projectAll)
		api.GET("/changes", h.listChanges)
	}
}

func (h *Handler) registerScheduleRoutes(api *gin.RouterGroup) {
	schedules := api.Group("/schedules")
	{
		schedules.GET("", h.listSchedules)
		// Body example: {"name":"HQ","building_id":"B-100","replace":false}
		schedules.POST("", h.createSchedule)
		schedules.GET("/:name", h.getSchedule)
		schedules.DELETE("/:name", h.deleteSchedule)
		schedules.GET("/:name/export.yaml", h.exportSchedule)

		schedules.GET("/:name/zones", h.listZones)
		schedules.POST("/:name/zones", h.createZone)

		schedules.POST("/:name/zones/:zone/events", h.createEvent)
		schedules.GET("/:name/zones/:zone/events/:event", h.getEvent)
		schedules.PUT("/:name/zones/:zone/events/:event", h.editEvent)
		schedules.DELETE("/:name/zones/:zone/events/:event", h.deleteEvent)

		schedules.GET("/:name/week", h.projectWeek)
		schedules.GET("/:name/week/export", h.exportWeek)
	}
}
