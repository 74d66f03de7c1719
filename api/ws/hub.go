package ws

import (
	"context"
	"sync"

	"github.com/kasuganosora/campaign-table/cache"
	"github.com/kasuganosora/campaign-table/combat"
	"go.uber.org/zap"
)

// EventPacket is the packet type carrying a table event to clients.
const EventPacket = "table_event"

// Hub tracks connected sessions and fans table events out to them.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	logger   *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{sessions: make(map[string]*Session), logger: logger}
}

func (h *Hub) Register(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sessions[s.ID] = s
	h.logger.Info("table session registered",
		zap.String("session_id", s.ID),
		zap.Int64("account_id", s.AccountID))
}

func (h *Hub) Unregister(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.sessions, id)
	h.logger.Info("table session unregistered", zap.String("session_id", id))
}

// Count returns the number of connected sessions.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Broadcast sends pkt to every connected session.
func (h *Hub) Broadcast(pkt *Packet) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, s := range h.sessions {
		s.Send(pkt)
	}
}

// Listen subscribes to the table event channel and relays every event to
// all sessions until ctx is done or stop is called. Events published by other
// server instances arrive the same way.
func (h *Hub) Listen(ctx context.Context, ps cache.PubSub) (stop func(), err error) {
	ctx, cancel := context.WithCancel(ctx)
	msgCh, unsub, err := ps.Subscribe(ctx, combat.EventChannel)
	if err != nil {
		cancel()
		return nil, err
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer unsub()
		for {
			select {
			case msg, ok := <-msgCh:
				if !ok {
					return
				}
				h.Broadcast(&Packet{Type: EventPacket, Payload: []byte(msg.Payload)})
			case <-ctx.Done():
				return
			}
		}
	}()
	return func() {
		cancel()
		<-done
	}, nil
}
