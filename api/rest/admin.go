package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kasuganosora/campaign-table/combat"
	mw "github.com/kasuganosora/campaign-table/middleware"
	"github.com/kasuganosora/campaign-table/model"
	"github.com/kasuganosora/campaign-table/scheduler"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AdminHandler handles admin-only REST endpoints.
// Routes should be protected by AdminAuth middleware.
type AdminHandler struct {
	db     *gorm.DB
	table  *combat.Table
	sched  *scheduler.Scheduler
	logger *zap.Logger
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(db *gorm.DB, table *combat.Table, sched *scheduler.Scheduler, logger *zap.Logger) *AdminHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminHandler{db: db, table: table, sched: sched, logger: logger}
}

// Metrics returns server health metrics.
// GET /api/admin/metrics
func (h *AdminHandler) Metrics(c *gin.Context) {
	out := gin.H{
		"combatants":     h.table.Len(),
		"combat_started": h.table.Snapshot().CombatStarted,
	}
	if n, err := h.table.PendingLen(c.Request.Context()); err == nil {
		out["pending_writes"] = n
	} else {
		out["pending_writes"] = nil
		h.logger.Warn("pending queue unreadable", zap.Error(err))
	}
	var accounts int64
	if err := h.db.WithContext(c.Request.Context()).Model(&model.Account{}).Count(&accounts).Error; err == nil {
		out["accounts"] = accounts
	}
	if h.sched != nil {
		out["scheduler_tasks"] = h.sched.ListTickers()
	}
	c.JSON(http.StatusOK, out)
}

// FlushPending replays queued table writes now.
// POST /api/admin/pending/flush
func (h *AdminHandler) FlushPending(c *gin.Context) {
	res, err := h.table.FlushPending(mw.ActorContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	h.logger.Info("admin flushed pending writes",
		zap.Int("flushed", res.Flushed), zap.Int("dropped", res.Dropped), zap.Int("remaining", res.Remaining))
	c.JSON(http.StatusOK, res)
}

// ListSchedulerTasks returns the registered ticker tasks with their run stats.
// GET /api/admin/scheduler
func (h *AdminHandler) ListSchedulerTasks(c *gin.Context) {
	if h.sched == nil {
		c.JSON(http.StatusOK, gin.H{"tasks": []scheduler.TaskInfo{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": h.sched.ListTickers()})
}

// AdminAuth returns a middleware that checks the X-Admin-Key header.
// If adminKey is empty all admin endpoints answer 503, so the server cannot
// be deployed with them open by accident.
func AdminAuth(adminKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if adminKey == "" {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable,
				gin.H{"error": "admin endpoints disabled: set server.admin_key in config"})
			return
		}
		if c.GetHeader("X-Admin-Key") != adminKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}
