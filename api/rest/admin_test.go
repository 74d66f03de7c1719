package rest_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/kasuganosora/campaign-table/api/rest"
	"github.com/kasuganosora/campaign-table/combat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func adminRequest(r *gin.Engine, method, path, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if key != "" {
		req.Header.Set("X-Admin-Key", key)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAdminAuth(t *testing.T) {
	e := newEnv(t)
	assert.Equal(t, http.StatusUnauthorized, adminRequest(e.r, http.MethodGet, "/api/admin/metrics", "").Code)
	assert.Equal(t, http.StatusUnauthorized, adminRequest(e.r, http.MethodGet, "/api/admin/metrics", "wrong").Code)
	assert.Equal(t, http.StatusOK, adminRequest(e.r, http.MethodGet, "/api/admin/metrics", testAdminKey).Code)
}

func TestAdminAuth_DisabledWithoutKey(t *testing.T) {
	r := gin.New()
	r.GET("/x", rest.AdminAuth(""), func(c *gin.Context) { c.Status(http.StatusOK) })
	assert.Equal(t, http.StatusServiceUnavailable, adminRequest(r, http.MethodGet, "/x", "anything").Code)
}

func TestAdminMetrics(t *testing.T) {
	e := newEnv(t)
	e.character(t, "Thorin", 10, 10, true)
	e.snapshot(t)

	w := adminRequest(e.r, http.MethodGet, "/api/admin/metrics", testAdminKey)
	require.Equal(t, http.StatusOK, w.Code)
	m := decode[map[string]any](t, w)
	assert.EqualValues(t, 1, m["combatants"])
	assert.EqualValues(t, 0, m["pending_writes"])
	assert.EqualValues(t, 1, m["accounts"])
}

func TestAdminFlushPending(t *testing.T) {
	e := newEnv(t)
	hero := e.character(t, "Thorin", 10, 10, true)
	q := combat.NewPendingQueue(e.cache, 5, nil)
	require.NoError(t, q.Enqueue(context.Background(), combat.PendingWrite{
		Kind: combat.KindCharacter, ID: hero.ID, Op: combat.OpUpdate, Fields: map[string]any{"initiative": 9},
	}))

	w := adminRequest(e.r, http.MethodPost, "/api/admin/pending/flush", testAdminKey)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, combat.FlushResult{Flushed: 1}, decode[combat.FlushResult](t, w))

	stored, err := e.store.Characters.Get(context.Background(), hero.ID)
	require.NoError(t, err)
	assert.Equal(t, 9, stored.Initiative)
}

func TestAdminScheduler(t *testing.T) {
	e := newEnv(t)
	w := adminRequest(e.r, http.MethodGet, "/api/admin/scheduler", testAdminKey)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"tasks":[]}`, w.Body.String())
}
