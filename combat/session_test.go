package combat

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestSession_Transitions(t *testing.T) {
	ctx := context.Background()
	s := NewSession(zap.NewNop())
	assert.False(t, s.Started())

	assert.True(t, s.Start(ctx))
	assert.True(t, s.Started())
	assert.False(t, s.Start(ctx), "starting twice is a no-op")

	assert.True(t, s.Stop(ctx))
	assert.False(t, s.Started())
	assert.False(t, s.Stop(ctx))
}
