package rest

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kasuganosora/campaign-table/combat"
	mw "github.com/kasuganosora/campaign-table/middleware"
)

// TableHandler serves the shared combat table.
type TableHandler struct {
	table *combat.Table
}

func NewTableHandler(t *combat.Table) *TableHandler {
	return &TableHandler{table: t}
}

// Get handles GET /api/table. Every call reloads from the store.
func (h *TableHandler) Get(c *gin.Context) {
	snap, err := h.table.Load(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// Start handles POST /api/table/start.
func (h *TableHandler) Start(c *gin.Context) {
	c.JSON(http.StatusOK, h.table.StartCombat(mw.ActorContext(c)))
}

type stopRequest struct {
	Confirm bool `json:"confirm"`
}

// Stop handles POST /api/table/stop {confirm}. Without confirm nothing changes.
func (h *TableHandler) Stop(c *gin.Context) {
	var req stopRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}
	if err := h.table.StopCombat(mw.ActorContext(c), req.Confirm); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.table.Snapshot())
}

type addRequest struct {
	Kind string `json:"kind" binding:"required"`
	ID   string `json:"id"   binding:"required"`
}

// Add handles POST /api/table/combatants {kind,id}.
func (h *TableHandler) Add(c *gin.Context) {
	var req addRequest
	if !bindJSON(c, &req) {
		return
	}
	kind, err := combat.ParseKind(req.Kind)
	if err != nil {
		respondError(c, err)
		return
	}
	cb, err := h.table.AddToCombat(mw.ActorContext(c), kind, req.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cb)
}

// initiativeRequest takes the raw user input, string or number; parsing is
// lenient.
type initiativeRequest struct {
	Value json.RawMessage `json:"value"`
}

func (r initiativeRequest) raw() string {
	var s string
	if err := json.Unmarshal(r.Value, &s); err == nil {
		return s
	}
	return string(r.Value)
}

// SetInitiative handles PUT /api/table/combatants/:id/initiative {value}.
func (h *TableHandler) SetInitiative(c *gin.Context) {
	var req initiativeRequest
	if !bindJSON(c, &req) {
		return
	}
	cb, err := h.table.SetInitiative(mw.ActorContext(c), c.Param("id"), req.raw())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cb)
}

type healthRequest struct {
	Delta int `json:"delta"`
}

// AdjustHealth handles POST /api/table/combatants/:id/health {delta}.
// Damage is a negative delta.
func (h *TableHandler) AdjustHealth(c *gin.Context) {
	var req healthRequest
	if !bindJSON(c, &req) {
		return
	}
	cb, err := h.table.AdjustHealth(mw.ActorContext(c), c.Param("id"), req.Delta)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cb)
}

// Remove handles DELETE /api/table/combatants/:id.
func (h *TableHandler) Remove(c *gin.Context) {
	if err := h.table.RemoveFromCombat(mw.ActorContext(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Mount registers the table routes on g; everything but the read goes
// through protect.
func (h *TableHandler) Mount(g gin.IRouter, protect gin.HandlerFunc) {
	g.GET("", h.Get)
	w := g.Group("", protect)
	w.POST("/start", h.Start)
	w.POST("/stop", h.Stop)
	w.POST("/combatants", h.Add)
	w.PUT("/combatants/:id/initiative", h.SetInitiative)
	w.POST("/combatants/:id/health", h.AdjustHealth)
	w.DELETE("/combatants/:id", h.Remove)
}
