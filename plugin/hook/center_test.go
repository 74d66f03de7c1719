package hook

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrigger_NoHandlers(t *testing.T) {
	hc := NewHookCenter()
	out, err := hc.Trigger(context.Background(), "noop", 42)
	require.NoError(t, err)
	assert.Equal(t, 42, out)
}

func TestTrigger_DataPassThrough(t *testing.T) {
	hc := NewHookCenter()
	hc.Register("ev", 0, "double", func(_ context.Context, _ string, data interface{}) (interface{}, error) {
		return data.(int) * 2, nil
	})
	hc.Register("ev", 1, "addTen", func(_ context.Context, _ string, data interface{}) (interface{}, error) {
		return data.(int) + 10, nil
	})
	out, err := hc.Trigger(context.Background(), "ev", 5)
	require.NoError(t, err)
	assert.Equal(t, 20, out)
}

func TestTrigger_PriorityOrder(t *testing.T) {
	hc := NewHookCenter()
	var order []string
	record := func(tag string) HookFn {
		return func(_ context.Context, _ string, d interface{}) (interface{}, error) {
			order = append(order, tag)
			return d, nil
		}
	}
	hc.Register("ev", 10, "audit", record("audit"))
	hc.Register("ev", 1, "pubsub", record("pubsub"))
	hc.Register("ev", 1, "metrics", record("metrics"))
	_, _ = hc.Trigger(context.Background(), "ev", nil)
	assert.Equal(t, []string{"pubsub", "metrics", "audit"}, order)
}

func TestTrigger_ErrInterrupt(t *testing.T) {
	hc := NewHookCenter()
	var secondCalled bool
	hc.Register(BeforeInstanceSpawn, 0, "veto", func(_ context.Context, _ string, d interface{}) (interface{}, error) {
		return d, ErrInterrupt
	})
	hc.Register(BeforeInstanceSpawn, 1, "should_not_run", func(_ context.Context, _ string, d interface{}) (interface{}, error) {
		secondCalled = true
		return d, nil
	})
	_, err := hc.Trigger(context.Background(), BeforeInstanceSpawn, nil)
	assert.True(t, errors.Is(err, ErrInterrupt))
	assert.False(t, secondCalled)
}

func TestTrigger_FailingListenerKeepsData(t *testing.T) {
	hc := NewHookCenter()
	var seen interface{}
	hc.Register("ev", 0, "broken", func(_ context.Context, _ string, _ interface{}) (interface{}, error) {
		return nil, errors.New("publish failed")
	})
	hc.Register("ev", 1, "second", func(_ context.Context, _ string, d interface{}) (interface{}, error) {
		seen = d
		return d, nil
	})
	out, err := hc.Trigger(context.Background(), "ev", "payload")
	assert.NoError(t, err)
	assert.Equal(t, "payload", seen)
	assert.Equal(t, "payload", out)
}

func TestUnregister_OnlyNamed(t *testing.T) {
	hc := NewHookCenter()
	var c1, c2 bool
	hc.Register("ev", 0, "h1", func(_ context.Context, _ string, d interface{}) (interface{}, error) { c1 = true; return d, nil })
	hc.Register("ev", 1, "h2", func(_ context.Context, _ string, d interface{}) (interface{}, error) { c2 = true; return d, nil })
	hc.Unregister("ev", "h1")
	_, _ = hc.Trigger(context.Background(), "ev", nil)
	assert.False(t, c1)
	assert.True(t, c2)
}

func TestRegisterAll(t *testing.T) {
	hc := NewHookCenter()
	seen := map[string]bool{}
	hc.RegisterAll(TableEvents, 0, "pubsub", func(_ context.Context, ev string, d interface{}) (interface{}, error) {
		seen[ev] = true
		return d, nil
	})
	for _, ev := range TableEvents {
		_, _ = hc.Trigger(context.Background(), ev, nil)
	}
	assert.Len(t, seen, len(TableEvents))
	assert.False(t, seen[BeforeInstanceSpawn])
}
