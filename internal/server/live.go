package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"defikit/internal/clmm"
)

// handleCLMMLive upgrades to a websocket. Every text frame is a clmm.Inputs
// document and is answered with the evaluated envelope. Frames arriving faster
// than the configured rate are dropped without a reply.
func (s *Server) handleCLMMLive(w http.ResponseWriter, r *http.Request) {
	c, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.WarnContext(r.Context(), "Websocket upgrade failed", "error", err)
		return
	}
	defer c.Close()
	// The listener's timeouts were meant for the upgrade request only.
	_ = c.SetReadDeadline(time.Time{})
	_ = c.SetWriteDeadline(time.Time{})

	s.metrics.LiveConnections.Inc()
	defer s.metrics.LiveConnections.Dec()

	limiter := rate.NewLimiter(s.liveRate, s.liveBurst)
	logger := s.logger.With("request_id", r.Context().Value(requestIDKey))
	logger.Info("Live session opened", "remote", r.RemoteAddr)

	for {
		msgType, message, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Warn("Live session read failed", "error", err)
			}
			logger.Info("Live session closed")
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}
		if !limiter.Allow() {
			s.metrics.LiveDropped.Inc()
			continue
		}

		var in clmm.Inputs
		if err := json.Unmarshal(message, &in); err != nil {
			reply := clmm.Envelope{Status: clmm.StatusError, Message: "invalid inputs: " + err.Error()}
			if err := c.WriteJSON(reply); err != nil {
				logger.Warn("Live session write failed", "error", err)
				return
			}
			continue
		}

		if err := c.WriteJSON(s.evaluate(in)); err != nil {
			logger.Warn("Live session write failed", "error", err)
			return
		}
	}
}
