package ws

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	sendChanBuf   = 256
	writeDeadline = 10 * time.Second
	readDeadline  = 60 * time.Second
	pingInterval  = 30 * time.Second
)

// Packet is the WS message envelope in both directions.
type Packet struct {
	Seq     uint64          `json:"seq"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Session is one connected table client.
type Session struct {
	ID        string
	AccountID int64
	Role      string
	IP        string

	Conn     *websocket.Conn
	SendChan chan []byte
	Done     chan struct{}
	TraceID  string
	LastSeq  uint64

	logger *zap.Logger
}

// NewSession wraps conn and starts its write goroutine. A nil conn gives a
// detached session whose outgoing packets stay in SendChan.
func NewSession(id string, accountID int64, conn *websocket.Conn, logger *zap.Logger) *Session {
	s := &Session{
		ID:        id,
		AccountID: accountID,
		Conn:      conn,
		SendChan:  make(chan []byte, sendChanBuf),
		Done:      make(chan struct{}),
		logger:    logger,
	}
	if conn != nil {
		go s.writePump()
	}
	return s
}

// writePump drains SendChan onto the connection and pings it periodically.
func (s *Session) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	defer s.Conn.Close()
	for {
		select {
		case data := <-s.SendChan:
			_ = s.Conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := s.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
				s.logger.Warn("ws write error",
					zap.String("session_id", s.ID),
					zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = s.Conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := s.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-s.Done:
			_ = s.Conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// Send encodes pkt and queues it. Packets are dropped when the session is
// closed or its buffer is full.
func (s *Session) Send(pkt *Packet) {
	data, err := json.Marshal(pkt)
	if err != nil {
		s.logger.Error("ws packet not serializable", zap.String("type", pkt.Type), zap.Error(err))
		return
	}
	s.SendRaw(data)
}

// SendRaw queues already encoded bytes, with the same drop rules as Send.
func (s *Session) SendRaw(data []byte) {
	if s.IsClosed() {
		return
	}
	select {
	case s.SendChan <- data:
	case <-s.Done:
	default:
		s.logger.Warn("send channel full, dropping packet", zap.String("session_id", s.ID))
	}
}

// Reply sends typ with v as payload.
func (s *Session) Reply(typ string, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("ws payload not serializable", zap.String("type", typ), zap.Error(err))
		return
	}
	s.Send(&Packet{Type: typ, Payload: payload})
}

// Close signals the writePump to shut down.
func (s *Session) Close() {
	select {
	case <-s.Done:
	default:
		close(s.Done)
	}
}

func (s *Session) IsClosed() bool {
	select {
	case <-s.Done:
		return true
	default:
		return false
	}
}

func (s *Session) setReadDeadline() {
	_ = s.Conn.SetReadDeadline(time.Now().Add(readDeadline))
}
