package rest_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kasuganosora/campaign-table/api/rest"
	"github.com/kasuganosora/campaign-table/cache"
	"github.com/kasuganosora/campaign-table/combat"
	"github.com/kasuganosora/campaign-table/config"
	mw "github.com/kasuganosora/campaign-table/middleware"
	"github.com/kasuganosora/campaign-table/model"
	"github.com/kasuganosora/campaign-table/scheduler"
	"github.com/kasuganosora/campaign-table/seed"
	"github.com/kasuganosora/campaign-table/store"
	"github.com/kasuganosora/campaign-table/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const (
	testAdminKey = "admin-key"
	testEmail    = "mj@example.com"
	testPassword = "dragons-everywhere"
)

var testSec = config.SecurityConfig{JWTSecret: "test-secret", JWTTTLH: 72 * time.Hour}

type env struct {
	r     *gin.Engine
	db    *gorm.DB
	store *store.Store
	cache cache.Cache
	table *combat.Table
	token string
}

// newEnv wires the full API on an in-memory database and logs a game master in.
func newEnv(t *testing.T) *env {
	t.Helper()
	st, db := testutil.SetupTestStore(t)
	c, _ := testutil.SetupTestCache(t)
	logger := zap.NewNop()

	table, err := combat.NewTable(combat.TableConfig{
		Characters: st.Characters,
		Monsters:   st.Monsters,
		Npcs:       st.Npcs,
		Pending:    combat.NewPendingQueue(c, 5, logger),
		Logger:     logger,
	})
	require.NoError(t, err)
	spawner, err := combat.NewSpawner(combat.SpawnerConfig{
		Monsters:    st.Monsters,
		Table:       table,
		Cache:       c,
		MaxQuantity: 10,
	})
	require.NoError(t, err)
	sched := scheduler.New(logger)
	t.Cleanup(sched.Stop)

	protect := mw.Auth(testSec, c)
	r := gin.New()
	r.Use(mw.TraceID())
	api := r.Group("/api")

	auth := rest.NewAuthHandler(db, c, testSec, nil, logger)
	api.POST("/auth/login", auth.Login)
	api.POST("/auth/logout", protect, auth.Logout)
	api.POST("/auth/refresh", protect, auth.Refresh)

	rest.NewCharacterHandler(st.Characters, table, nil).Mount(api.Group("/characters"), protect)
	rest.NewMonsterHandler(st.Monsters, spawner, table, nil).Mount(api.Group("/monsters"), protect)
	rest.NewNpcHandler(st.Npcs, table, nil).Mount(api.Group("/npcs"), protect)

	opts := rest.NewOptionsHandler(st.Options)
	api.GET("/options/races", opts.Races)
	api.GET("/options/classes", opts.Classes)

	rest.NewTableHandler(table).Mount(api.Group("/table"), protect)

	admin := rest.NewAdminHandler(db, table, sched, logger)
	adminG := api.Group("/admin", rest.AdminAuth(testAdminKey))
	adminG.GET("/metrics", admin.Metrics)
	adminG.POST("/pending/flush", admin.FlushPending)
	adminG.GET("/scheduler", admin.ListSchedulerTasks)

	e := &env{r: r, db: db, store: st, cache: c, table: table}
	_, err = seed.CreateAccount(context.Background(), db, testEmail, testPassword, model.RoleAdmin)
	require.NoError(t, err)
	w := postJSON(r, "/api/auth/login", map[string]string{"email": testEmail, "password": testPassword})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	e.token = decode[map[string]any](t, w)["token"].(string)
	return e
}

func postJSON(r *gin.Engine, path string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func doRequest(r *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var b []byte
	if body != nil {
		b, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func (e *env) template(t *testing.T, nom string, pvMax int) model.Monster {
	t.Helper()
	w := doRequest(e.r, http.MethodPost, "/api/monsters", map[string]any{
		"nom": nom, "type": "Humanoïde", "pv": pvMax, "pv_max": pvMax, "ca": 13,
	}, e.token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[model.Monster](t, w)
}
