package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kasuganosora/campaign-table/apperr"
	"github.com/kasuganosora/campaign-table/audit"
	"github.com/kasuganosora/campaign-table/combat"
	mw "github.com/kasuganosora/campaign-table/middleware"
	"github.com/kasuganosora/campaign-table/model"
	"github.com/kasuganosora/campaign-table/store"
)

// MonsterHandler serves the bestiary: CRUD plus template instancing.
type MonsterHandler struct {
	*DocumentHandler[model.Monster]
	spawner *combat.Spawner
}

func NewMonsterHandler(s store.MonsterStore, spawner *combat.Spawner, table Invalidator, auditSvc *audit.Service) *MonsterHandler {
	return &MonsterHandler{
		DocumentHandler: NewDocumentHandler[model.Monster]("monster", s, model.NewMonster, table, auditSvc),
		spawner:         spawner,
	}
}

// List handles GET /api/monsters[?templates=true|false].
func (h *MonsterHandler) List(c *gin.Context) {
	docs, err := h.coll.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]model.Monster, 0, len(docs))
	raw, filtered := c.GetQuery("templates")
	want, perr := strconv.ParseBool(raw)
	if filtered && perr != nil {
		respondError(c, apperr.InvalidArgument("templates must be true or false"))
		return
	}
	for _, m := range docs {
		if !filtered || m.EstModele == want {
			out = append(out, m)
		}
	}
	c.JSON(http.StatusOK, out)
}

type spawnRequest struct {
	Quantity int `json:"quantity"`
}

// Spawn handles POST /api/monsters/:id/instance. A batch that fails midway
// answers with the error and the instances already created.
func (h *MonsterHandler) Spawn(c *gin.Context) {
	req := spawnRequest{Quantity: 1}
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}
	id := c.Param("id")
	instances, err := h.spawner.SpawnInstances(mw.ActorContext(c), id, req.Quantity)
	if instances == nil {
		instances = []model.Monster{}
	}

	entry := audit.Entry{Actor: mw.Actor(c), Action: "monster.spawn",
		Payload: gin.H{"template_id": id, "quantity": req.Quantity, "created": len(instances)}}
	if err != nil {
		entry.Error = err.Error()
	}
	h.audit.Log(entry)

	if err != nil {
		_ = c.Error(err)
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.MessageOf(err), "instances": instances})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"instances": instances})
}

func (h *MonsterHandler) Mount(g gin.IRouter, protect gin.HandlerFunc) {
	h.mount(g, protect, h.List)
	g.POST("/:id/instance", protect, h.Spawn)
}
