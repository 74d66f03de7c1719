package ws

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/kasuganosora/campaign-table/apperr"
	"github.com/kasuganosora/campaign-table/cache"
	"github.com/kasuganosora/campaign-table/config"
	mw "github.com/kasuganosora/campaign-table/middleware"
	"go.uber.org/zap"
)

// Handler is the Gin handler for GET /ws.
type Handler struct {
	cache    cache.Cache
	sec      config.SecurityConfig
	hub      *Hub
	router   *Router
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

// NewHandler creates a new WebSocket Handler.
// sec.AllowedOrigins controls which WebSocket origins are accepted.
// An empty slice permits all origins (development only).
func NewHandler(c cache.Cache, sec config.SecurityConfig, hub *Hub, router *Router, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handler{
		cache:  c,
		sec:    sec,
		hub:    hub,
		router: router,
		logger: logger,
	}
	allowed := sec.AllowedOrigins
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowed) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, o := range allowed {
				if o == origin {
					return true
				}
			}
			return false
		},
	}
	return h
}

// ServeWS handles GET /ws?token=<jwt>.
func (h *Handler) ServeWS(c *gin.Context) {
	claims, err := mw.VerifySession(c.Request.Context(), h.sec, h.cache, c.Query("token"))
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.MessageOf(err)})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", zap.Error(err))
		return
	}

	sess := NewSession(uuid.NewString(), claims.AccountID, conn, h.logger)
	sess.Role = claims.Role
	sess.IP = c.ClientIP()

	h.hub.Register(sess)
	h.readPump(sess)
}

// readPump reads messages from the connection and dispatches them until it
// closes.
func (h *Handler) readPump(s *Session) {
	defer func() {
		s.Close()
		h.hub.Unregister(s.ID)
	}()

	s.setReadDeadline()
	s.Conn.SetPongHandler(func(string) error {
		s.setReadDeadline()
		return nil
	})

	for {
		_, raw, err := s.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseNormalClosure,
				websocket.CloseNoStatusReceived) {
				h.logger.Warn("ws unexpected close",
					zap.String("session_id", s.ID),
					zap.Error(err))
			}
			return
		}
		s.setReadDeadline()
		h.router.Dispatch(s, raw)
	}
}
