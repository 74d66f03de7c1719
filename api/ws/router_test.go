package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/kasuganosora/campaign-table/apperr"
	"github.com/kasuganosora/campaign-table/audit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func nop() *zap.Logger { return zap.NewNop() }

// newSession creates a detached Session for testing.
func newSession(accountID int64) *Session {
	return NewSession("s-test", accountID, nil, nop())
}

func makePacket(t *testing.T, seq uint64, msgType string, payload interface{}) []byte {
	t.Helper()
	var p json.RawMessage
	if payload != nil {
		p, _ = json.Marshal(payload)
	}
	b, err := json.Marshal(Packet{Seq: seq, Type: msgType, Payload: p})
	require.NoError(t, err)
	return b
}

// next pops the next outgoing packet of s.
func next(t *testing.T, s *Session) Packet {
	t.Helper()
	select {
	case raw := <-s.SendChan:
		var pkt Packet
		require.NoError(t, json.Unmarshal(raw, &pkt))
		return pkt
	case <-time.After(time.Second):
		t.Fatal("no packet sent")
		return Packet{}
	}
}

func assertSilent(t *testing.T, s *Session) {
	t.Helper()
	select {
	case raw := <-s.SendChan:
		t.Fatalf("unexpected packet %s", raw)
	default:
	}
}

func TestRouter_On_Dispatch_Basic(t *testing.T) {
	r := NewRouter(nop())
	called := false
	r.On("ping", func(ctx context.Context, s *Session, payload json.RawMessage) error {
		called = true
		return nil
	})

	s := newSession(1)
	r.Dispatch(s, makePacket(t, 1, "ping", nil))
	assert.True(t, called)
	assertSilent(t, s)
}

func TestRouter_Dispatch_MalformedJSON(t *testing.T) {
	r := NewRouter(nop())
	s := newSession(1)
	r.Dispatch(s, []byte("not json"))
	assert.Equal(t, "error", next(t, s).Type)
}

func TestRouter_Dispatch_UnknownType(t *testing.T) {
	r := NewRouter(nop())
	called := false
	r.On("known", func(_ context.Context, _ *Session, _ json.RawMessage) error {
		called = true
		return nil
	})
	s := newSession(1)
	r.Dispatch(s, makePacket(t, 1, "unknown", nil))
	assert.False(t, called)

	pkt := next(t, s)
	require.Equal(t, "error", pkt.Type)
	var e errorPayload
	require.NoError(t, json.Unmarshal(pkt.Payload, &e))
	assert.Equal(t, errorPayload{Type: "unknown", Seq: 1, Error: "unknown message type"}, e)
}

func TestRouter_Dispatch_AntiReplay_RejectsOldSeq(t *testing.T) {
	r := NewRouter(nop())
	var callCount int
	r.On("msg", func(_ context.Context, _ *Session, _ json.RawMessage) error {
		callCount++
		return nil
	})
	s := newSession(1)

	r.Dispatch(s, makePacket(t, 5, "msg", nil))
	assert.Equal(t, 1, callCount)

	// replay
	r.Dispatch(s, makePacket(t, 5, "msg", nil))
	assert.Equal(t, 1, callCount)

	r.Dispatch(s, makePacket(t, 3, "msg", nil))
	assert.Equal(t, 1, callCount)
}

func TestRouter_Dispatch_AntiReplay_AcceptsNewSeq(t *testing.T) {
	r := NewRouter(nop())
	var callCount int
	r.On("msg", func(_ context.Context, _ *Session, _ json.RawMessage) error {
		callCount++
		return nil
	})
	s := newSession(1)

	r.Dispatch(s, makePacket(t, 10, "msg", nil))
	r.Dispatch(s, makePacket(t, 11, "msg", nil))
	r.Dispatch(s, makePacket(t, 100, "msg", nil))
	assert.Equal(t, 3, callCount)
}

func TestRouter_Dispatch_SeqZero_SkipsAntiReplay(t *testing.T) {
	r := NewRouter(nop())
	var callCount int
	r.On("msg", func(_ context.Context, _ *Session, _ json.RawMessage) error {
		callCount++
		return nil
	})
	s := newSession(1)
	s.LastSeq = 100

	r.Dispatch(s, makePacket(t, 0, "msg", nil))
	r.Dispatch(s, makePacket(t, 0, "msg", nil))
	assert.Equal(t, 2, callCount)
}

func TestRouter_Dispatch_PayloadPassed(t *testing.T) {
	r := NewRouter(nop())
	var got map[string]interface{}
	r.On("data", func(_ context.Context, _ *Session, raw json.RawMessage) error {
		return json.Unmarshal(raw, &got)
	})
	s := newSession(1)
	r.Dispatch(s, makePacket(t, 1, "data", map[string]interface{}{"key": "value"}))
	assert.Equal(t, "value", got["key"])
}

func TestRouter_Dispatch_HandlerErrorReported(t *testing.T) {
	r := NewRouter(nop())
	r.On("err", func(_ context.Context, _ *Session, _ json.RawMessage) error {
		return apperr.Wrap(apperr.NotFound("combatant x not at the table"), "lookup")
	})
	s := newSession(1)
	r.Dispatch(s, makePacket(t, 4, "err", nil))

	pkt := next(t, s)
	require.Equal(t, "error", pkt.Type)
	var e errorPayload
	require.NoError(t, json.Unmarshal(pkt.Payload, &e))
	assert.Equal(t, "err", e.Type)
	assert.Equal(t, uint64(4), e.Seq)
	assert.Equal(t, "lookup", e.Error)
}

func TestRouter_ContextCarriesTraceAndActor(t *testing.T) {
	r := NewRouter(nop())
	var traceID string
	var actor audit.Actor
	r.On("trace", func(ctx context.Context, _ *Session, _ json.RawMessage) error {
		traceID = TraceIDFromCtx(ctx)
		actor = audit.ActorFrom(ctx)
		return nil
	})
	s := newSession(42)
	s.IP = "10.0.0.9"
	r.Dispatch(s, makePacket(t, 1, "trace", nil))

	assert.NotEmpty(t, traceID)
	assert.Equal(t, traceID, actor.TraceID)
	require.NotNil(t, actor.AccountID)
	assert.Equal(t, int64(42), *actor.AccountID)
	assert.Equal(t, "10.0.0.9", actor.IP)
}

func TestTraceIDFromCtx_Missing(t *testing.T) {
	assert.Equal(t, "", TraceIDFromCtx(context.Background()))
}

func TestRouter_ReplaceHandler(t *testing.T) {
	r := NewRouter(nop())
	var calls []string
	r.On("msg", func(_ context.Context, _ *Session, _ json.RawMessage) error {
		calls = append(calls, "first")
		return nil
	})
	r.On("msg", func(_ context.Context, _ *Session, _ json.RawMessage) error {
		calls = append(calls, "second")
		return nil
	})
	s := newSession(1)
	r.Dispatch(s, makePacket(t, 1, "msg", nil))
	assert.Equal(t, []string{"second"}, calls)
}

func TestSession_SendAfterCloseDropped(t *testing.T) {
	s := newSession(1)
	s.Close()
	s.Close()
	s.Reply("x", 1)
	assertSilent(t, s)
	assert.True(t, s.IsClosed())
}
