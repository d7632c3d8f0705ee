package handler

import (
	"net/http"
	"time"

	"github.com/boardinghouse/backend/internal/infrastructure/scheduler"
	"github.com/gin-gonic/gin"
)

// HealthChecker reports whether a dependency is reachable
type HealthChecker interface {
	Ping() error
}

// SystemHandler handles health and scheduler operations endpoints
type SystemHandler struct {
	BaseHandler
	db        HealthChecker
	scheduler *scheduler.BillingScheduler
	startedAt time.Time
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(db HealthChecker, sched *scheduler.BillingScheduler) *SystemHandler {
	return &SystemHandler{
		db:        db,
		scheduler: sched,
		startedAt: time.Now(),
	}
}

// Health reports liveness and database reachability
func (h *SystemHandler) Health(c *gin.Context) {
	status := "ok"
	dbStatus := "ok"
	code := http.StatusOK

	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			status = "degraded"
			dbStatus = err.Error()
			code = http.StatusServiceUnavailable
		}
	}

	c.JSON(code, gin.H{
		"status":   status,
		"database": dbStatus,
		"uptime":   time.Since(h.startedAt).Round(time.Second).String(),
	})
}

// SchedulerStatus reports the billing scheduler's state
func (h *SystemHandler) SchedulerStatus(c *gin.Context) {
	if h.scheduler == nil {
		h.NotFound(c, "Scheduler is not configured")
		return
	}
	h.Success(c, h.scheduler.GetStatus())
}

// TriggerScheduler runs the daily billing jobs immediately
func (h *SystemHandler) TriggerScheduler(c *gin.Context) {
	if h.scheduler == nil {
		h.NotFound(c, "Scheduler is not configured")
		return
	}
	if err := h.scheduler.TriggerDailyRun(c.Request.Context()); err != nil {
		h.Conflict(c, err.Error())
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "triggered"})
}

// RegisterRoutes registers system routes
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.Health)

	group := rg.Group("/scheduler")
	{
		group.GET("/status", h.SchedulerStatus)
		group.POST("/run", h.TriggerScheduler)
	}
}
