package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kasuganosora/campaign-table/audit"
	"github.com/kasuganosora/campaign-table/cache"
	"github.com/kasuganosora/campaign-table/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testSec = config.SecurityConfig{JWTSecret: testSecret, JWTTTLH: time.Hour}

func setupTestCache(t *testing.T) cache.Cache {
	t.Helper()
	c, err := cache.NewCache(cache.CacheConfig{})
	require.NoError(t, err)
	return c
}

func newProtectedRouter(c cache.Cache, h gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(TraceID(), Auth(testSec, c))
	if h == nil {
		h = func(ctx *gin.Context) { ctx.Status(http.StatusOK) }
	}
	r.GET("/protected", h)
	return r
}

func login(t *testing.T, c cache.Cache, accountID int64, role string) string {
	t.Helper()
	token, err := GenerateToken(accountID, role, testSecret, time.Hour)
	require.NoError(t, err)
	require.NoError(t, c.Set(context.Background(), SessionKey(token), "1", time.Hour))
	return token
}

func get(r http.Handler, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuth_Rejections(t *testing.T) {
	c := setupTestCache(t)
	r := newProtectedRouter(c, nil)

	unsaved, err := GenerateToken(42, "user", testSecret, time.Hour)
	require.NoError(t, err)

	cases := map[string]string{
		"missing header":  "",
		"not bearer":      "Token abc123",
		"garbage token":   "Bearer notavalidtoken",
		"no live session": "Bearer " + unsaved,
	}
	for name, header := range cases {
		w := get(r, header)
		assert.Equal(t, http.StatusUnauthorized, w.Code, name)
		assert.Contains(t, w.Body.String(), `"error"`, name)
	}
}

func TestAuth_ValidSessionSetsIdentity(t *testing.T) {
	c := setupTestCache(t)
	var (
		gotID    int64
		gotRole  string
		gotToken string
	)
	r := newProtectedRouter(c, func(ctx *gin.Context) {
		gotID, gotRole, gotToken = GetAccountID(ctx), GetRole(ctx), GetToken(ctx)
		ctx.Status(http.StatusOK)
	})
	token := login(t, c, 42, "admin")

	w := get(r, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(42), gotID)
	assert.Equal(t, "admin", gotRole)
	assert.Equal(t, token, gotToken)
}

func TestAuth_LogoutRevokes(t *testing.T) {
	c := setupTestCache(t)
	r := newProtectedRouter(c, nil)
	token := login(t, c, 7, "user")
	require.Equal(t, http.StatusOK, get(r, "Bearer "+token).Code)

	require.NoError(t, c.Del(context.Background(), SessionKey(token)))
	assert.Equal(t, http.StatusUnauthorized, get(r, "Bearer "+token).Code)
}

func TestVerifySession(t *testing.T) {
	c := setupTestCache(t)
	_, err := VerifySession(context.Background(), testSec, c, "")
	assert.Error(t, err)

	token := login(t, c, 3, "user")
	claims, err := VerifySession(context.Background(), testSec, c, token)
	require.NoError(t, err)
	assert.Equal(t, int64(3), claims.AccountID)
}

func TestActor_CarriesIdentity(t *testing.T) {
	c := setupTestCache(t)
	var got audit.Actor
	r := newProtectedRouter(c, func(ctx *gin.Context) {
		got = audit.ActorFrom(ActorContext(ctx))
		ctx.Status(http.StatusOK)
	})
	token := login(t, c, 12, "user")

	require.Equal(t, http.StatusOK, get(r, "Bearer "+token).Code)
	require.NotNil(t, got.AccountID)
	assert.Equal(t, int64(12), *got.AccountID)
	assert.Len(t, got.TraceID, 36)
}

func TestGetters_Missing(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, int64(0), GetAccountID(c))
	assert.Equal(t, "", GetRole(c))
	assert.Equal(t, "", GetToken(c))
}

func TestRecovery_CatchesPanic(t *testing.T) {
	r := gin.New()
	r.Use(TraceID(), Recovery(zap.NewNop()))
	r.GET("/panic", func(c *gin.Context) { panic("test panic") })
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	req.Header.Set("X-Trace-ID", "trace-42")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal server error","trace_id":"trace-42"}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLogger_PassesStatusThrough(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	r := gin.New()
	r.Use(TraceID(), Logger(logger))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/fail", func(c *gin.Context) { c.Status(http.StatusServiceUnavailable) })

	for path, want := range map[string]int{"/ping": http.StatusOK, "/fail": http.StatusServiceUnavailable} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, want, w.Code, path)
	}
}
