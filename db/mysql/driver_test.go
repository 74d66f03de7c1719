package mysql

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDSN(t *testing.T) {
	dsn, err := NormalizeDSN("gm:secret@tcp(127.0.0.1:3306)/campaign")
	require.NoError(t, err)
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "charset=utf8mb4")

	dsn, err = NormalizeDSN("gm:secret@tcp(127.0.0.1:3306)/campaign?charset=utf8")
	require.NoError(t, err)
	assert.Contains(t, dsn, "charset=utf8")
	assert.NotContains(t, dsn, "utf8mb4")
	assert.Equal(t, 1, strings.Count(dsn, "charset="), "the caller's charset is not overridden")

	dsn, err = NormalizeDSN("gm:pa?ss@tcp(127.0.0.1:3306)/campaign?timeout=5s")
	require.NoError(t, err)
	assert.Contains(t, dsn, "charset=utf8mb4")
}

func TestHasParam(t *testing.T) {
	assert.True(t, hasParam("u@tcp(h)/db?parseTime=true&charset=latin1", "charset"))
	assert.False(t, hasParam("u:p?charset=x@tcp(h)/db", "charset"))
	assert.False(t, hasParam("u@tcp(h)/db", "charset"))
}

func TestNormalizeDSN_Invalid(t *testing.T) {
	_, err := NormalizeDSN("not a dsn")
	assert.Error(t, err)
}
