package rest

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kasuganosora/campaign-table/audit"
	mw "github.com/kasuganosora/campaign-table/middleware"
	"github.com/kasuganosora/campaign-table/model"
	"github.com/kasuganosora/campaign-table/store"
)

// collection is the part of a store the document routes use.
type collection[T any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, doc *T) error
	Update(ctx context.Context, id string, fields map[string]any) (*T, error)
	Delete(ctx context.Context, id string) error
}

// Invalidator is told when documents change behind the combat table's back.
type Invalidator interface {
	Invalidate()
}

// DocumentHandler serves CRUD routes of one collection.
type DocumentHandler[T any] struct {
	kind  string
	coll  collection[T]
	fresh func() *T
	table Invalidator
	audit *audit.Service
}

// NewDocumentHandler serves coll under kind. fresh returns a document holding
// creation defaults; request bodies are decoded on top of it. table and
// auditSvc may be nil.
func NewDocumentHandler[T any](kind string, coll collection[T], fresh func() *T, table Invalidator, auditSvc *audit.Service) *DocumentHandler[T] {
	return &DocumentHandler[T]{kind: kind, coll: coll, fresh: fresh, table: table, audit: auditSvc}
}

func NewCharacterHandler(s store.CharacterStore, table Invalidator, auditSvc *audit.Service) *DocumentHandler[model.Character] {
	return NewDocumentHandler[model.Character]("character", s, model.NewCharacter, table, auditSvc)
}

func NewNpcHandler(s store.NpcStore, table Invalidator, auditSvc *audit.Service) *DocumentHandler[model.Npc] {
	return NewDocumentHandler[model.Npc]("npc", s, model.NewNpc, table, auditSvc)
}

func (h *DocumentHandler[T]) changed(c *gin.Context, action, id string, err error) {
	if h.table != nil && err == nil {
		h.table.Invalidate()
	}
	entry := audit.Entry{Actor: mw.Actor(c), Action: h.kind + "." + action, Payload: gin.H{"id": id}}
	if err != nil {
		entry.Error = err.Error()
	}
	h.audit.Log(entry)
}

// List handles GET /.
func (h *DocumentHandler[T]) List(c *gin.Context) {
	docs, err := h.coll.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if docs == nil {
		docs = []T{}
	}
	c.JSON(http.StatusOK, docs)
}

// Get handles GET /:id.
func (h *DocumentHandler[T]) Get(c *gin.Context) {
	doc, err := h.coll.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// Create handles POST /. Any id in the body is ignored.
func (h *DocumentHandler[T]) Create(c *gin.Context) {
	doc := h.fresh()
	if !bindJSON(c, doc) {
		return
	}
	err := h.coll.Create(c.Request.Context(), doc)
	h.changed(c, "create", "", err)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, doc)
}

// Update handles PATCH /:id with merge semantics: only the given fields change.
func (h *DocumentHandler[T]) Update(c *gin.Context) {
	var fields map[string]any
	if !bindJSON(c, &fields) {
		return
	}
	id := c.Param("id")
	doc, err := h.coll.Update(c.Request.Context(), id, fields)
	h.changed(c, "update", id, err)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// Delete handles DELETE /:id.
func (h *DocumentHandler[T]) Delete(c *gin.Context) {
	id := c.Param("id")
	err := h.coll.Delete(c.Request.Context(), id)
	h.changed(c, "delete", id, err)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Mount registers the routes on g; writes go through protect.
func (h *DocumentHandler[T]) Mount(g gin.IRouter, protect gin.HandlerFunc) {
	h.mount(g, protect, h.List)
}

func (h *DocumentHandler[T]) mount(g gin.IRouter, protect, list gin.HandlerFunc) {
	g.GET("", list)
	g.GET("/:id", h.Get)
	g.POST("", protect, h.Create)
	g.PATCH("/:id", protect, h.Update)
	g.DELETE("/:id", protect, h.Delete)
}
