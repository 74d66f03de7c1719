package ws

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/kasuganosora/campaign-table/apperr"
	"github.com/kasuganosora/campaign-table/audit"
	"go.uber.org/zap"
)

// HandlerFunc processes a decoded WS message payload.
type HandlerFunc func(ctx context.Context, s *Session, payload json.RawMessage) error

// Router dispatches incoming WS packets to registered handlers.
type Router struct {
	handlers map[string]HandlerFunc
	logger   *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{
		handlers: make(map[string]HandlerFunc),
		logger:   logger,
	}
}

// On registers a HandlerFunc for the given message type.
func (r *Router) On(msgType string, fn HandlerFunc) {
	r.handlers[msgType] = fn
}

// errorPayload answers a packet the server could not process.
type errorPayload struct {
	Type  string `json:"type"`
	Seq   uint64 `json:"seq,omitempty"`
	Error string `json:"error"`
}

// Dispatch decodes raw bytes, validates seq, and invokes the appropriate
// handler. Failures are reported back to the session as "error" packets.
func (r *Router) Dispatch(s *Session, raw []byte) {
	var pkt Packet
	if err := json.Unmarshal(raw, &pkt); err != nil {
		r.logger.Warn("malformed packet",
			zap.String("session_id", s.ID),
			zap.Error(err))
		s.Reply("error", errorPayload{Error: "malformed packet"})
		return
	}

	// Seq == 0 means no seq tracking.
	if pkt.Seq != 0 && pkt.Seq <= s.LastSeq {
		r.logger.Warn("replayed or out-of-order packet",
			zap.String("session_id", s.ID),
			zap.Uint64("seq", pkt.Seq),
			zap.Uint64("last_seq", s.LastSeq))
		return
	}
	if pkt.Seq != 0 {
		s.LastSeq = pkt.Seq
	}

	s.TraceID = uuid.NewString()
	ctx := context.WithValue(context.Background(), ctxKeyTraceID{}, s.TraceID)
	actor := audit.Actor{TraceID: s.TraceID, IP: s.IP}
	if s.AccountID != 0 {
		id := s.AccountID
		actor.AccountID = &id
	}
	ctx = audit.WithActor(ctx, actor)

	fn, ok := r.handlers[pkt.Type]
	if !ok {
		r.logger.Debug("unhandled message type",
			zap.String("type", pkt.Type),
			zap.String("session_id", s.ID))
		s.Reply("error", errorPayload{Type: pkt.Type, Seq: pkt.Seq, Error: "unknown message type"})
		return
	}

	if err := fn(ctx, s, pkt.Payload); err != nil {
		r.logger.Warn("handler error",
			zap.String("type", pkt.Type),
			zap.String("session_id", s.ID),
			zap.String("trace_id", s.TraceID),
			zap.Error(err))
		s.Reply("error", errorPayload{Type: pkt.Type, Seq: pkt.Seq, Error: apperr.MessageOf(err)})
	}
}

type ctxKeyTraceID struct{}

// TraceIDFromCtx extracts the trace ID from a handler context.
func TraceIDFromCtx(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyTraceID{}).(string); ok {
		return v
	}
	return ""
}
