package rest_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin_ReturnsTokenAndUser(t *testing.T) {
	e := newEnv(t)
	w := postJSON(e.r, "/api/auth/login", map[string]string{"email": "MJ@example.com", "password": testPassword})
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[map[string]any](t, w)
	assert.NotEmpty(t, resp["token"])
	user := resp["user"].(map[string]any)
	assert.Equal(t, testEmail, user["email"])
	assert.Equal(t, "admin", user["role"])
	assert.NotZero(t, user["id"])
}

func TestLogin_Failures(t *testing.T) {
	e := newEnv(t)
	cases := []struct {
		name string
		body map[string]string
		want int
	}{
		{"wrong password", map[string]string{"email": testEmail, "password": "nope"}, http.StatusUnauthorized},
		{"unknown email", map[string]string{"email": "who@example.com", "password": testPassword}, http.StatusUnauthorized},
		{"not an email", map[string]string{"email": "mj", "password": testPassword}, http.StatusBadRequest},
		{"missing password", map[string]string{"email": testEmail}, http.StatusBadRequest},
	}
	for _, tc := range cases {
		w := postJSON(e.r, "/api/auth/login", tc.body)
		assert.Equal(t, tc.want, w.Code, tc.name)
		assert.Contains(t, w.Body.String(), `"error"`, tc.name)
	}
}

func TestLogout_RevokesToken(t *testing.T) {
	e := newEnv(t)
	w := doRequest(e.r, http.MethodPost, "/api/auth/logout", nil, e.token)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(e.r, http.MethodPost, "/api/table/start", nil, e.token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRefresh_RotatesToken(t *testing.T) {
	e := newEnv(t)
	w := doRequest(e.r, http.MethodPost, "/api/auth/refresh", nil, e.token)
	require.Equal(t, http.StatusOK, w.Code)
	fresh := decode[map[string]string](t, w)["token"]
	require.NotEmpty(t, fresh)
	assert.NotEqual(t, e.token, fresh)

	assert.Equal(t, http.StatusUnauthorized, doRequest(e.r, http.MethodPost, "/api/table/start", nil, e.token).Code)
	assert.Equal(t, http.StatusOK, doRequest(e.r, http.MethodPost, "/api/table/start", nil, fresh).Code)
}

func TestWritesRequireAuth(t *testing.T) {
	e := newEnv(t)
	assert.Equal(t, http.StatusOK, doRequest(e.r, http.MethodGet, "/api/characters", nil, "").Code, "reads are public")
	assert.Equal(t, http.StatusUnauthorized,
		doRequest(e.r, http.MethodPost, "/api/characters", map[string]any{"nom": "X", "classe": "Y"}, "").Code)
	assert.Equal(t, http.StatusUnauthorized,
		doRequest(e.r, http.MethodPost, "/api/monsters/any/instance", map[string]any{"quantity": 1}, "").Code)
}
