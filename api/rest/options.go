package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kasuganosora/campaign-table/store"
)

// OptionsHandler serves the reference lists of the roster forms.
type OptionsHandler struct {
	store store.OptionStore
}

func NewOptionsHandler(s store.OptionStore) *OptionsHandler {
	return &OptionsHandler{store: s}
}

// Races handles GET /api/options/races.
func (h *OptionsHandler) Races(c *gin.Context) {
	races, err := h.store.Races(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, races)
}

// Classes handles GET /api/options/classes.
func (h *OptionsHandler) Classes(c *gin.Context) {
	classes, err := h.store.Classes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, classes)
}
