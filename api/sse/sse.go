// Package sse streams table events to browsers that only need to watch.
package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kasuganosora/campaign-table/apperr"
	"github.com/kasuganosora/campaign-table/cache"
	"github.com/kasuganosora/campaign-table/combat"
	"github.com/kasuganosora/campaign-table/config"
	mw "github.com/kasuganosora/campaign-table/middleware"
	"go.uber.org/zap"
)

const defaultKeepalive = 30 * time.Second

// Handler handles the SSE endpoint.
type Handler struct {
	pubsub    cache.PubSub
	sec       config.SecurityConfig
	c         cache.Cache
	logger    *zap.Logger
	keepalive time.Duration
}

// NewHandler creates a new SSE Handler.
func NewHandler(pubsub cache.PubSub, c cache.Cache, sec config.SecurityConfig, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{pubsub: pubsub, c: c, sec: sec, logger: logger, keepalive: defaultKeepalive}
}

// SetKeepalive changes the comment interval that keeps proxies from closing
// idle streams.
func (h *Handler) SetKeepalive(d time.Duration) {
	if d > 0 {
		h.keepalive = d
	}
}

// ServeSSE handles GET /sse?token=<jwt>.
// Every table event is delivered as an SSE event named after its type.
func (h *Handler) ServeSSE(c *gin.Context) {
	if _, err := mw.VerifySession(c.Request.Context(), h.sec, h.c, c.Query("token")); err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.MessageOf(err)})
		return
	}

	msgCh, unsub, err := h.pubsub.Subscribe(c.Request.Context(), combat.EventChannel)
	if err != nil {
		h.logger.Error("sse subscribe failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "event stream unavailable"})
		return
	}
	defer unsub()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	fmt.Fprintf(c.Writer, "event: connected\ndata: {}\n\n")
	c.Writer.Flush()

	ticker := time.NewTicker(h.keepalive)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-msgCh:
			if !ok {
				return
			}
			fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", eventName(msg.Payload), msg.Payload)
			c.Writer.Flush()

		case <-ticker.C:
			fmt.Fprintf(c.Writer, ": keepalive\n\n")
			c.Writer.Flush()

		case <-c.Request.Context().Done():
			return
		}
	}
}

func eventName(payload string) string {
	var ev struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal([]byte(payload), &ev); err != nil || ev.Type == "" {
		return "message"
	}
	return ev.Type
}
