package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	defaultStreamInterval = 30 * time.Second
	writeWait             = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type streamMessage struct {
	summaryResponse
	Timestamp time.Time `json:"ts"`
}

// handleStream pushes multi-timeframe summaries every interval until the peer goes away.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	symbol, ok := s.symbolParam(w, r)
	if !ok {
		return
	}

	every := defaultStreamInterval
	if raw := r.URL.Query().Get("every"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			s.writeError(w, http.StatusBadRequest, "every must be a positive duration, e.g., 30s")
			return
		}
		every = max(d, s.minStream)
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// the read loop only watches for the peer closing the stream
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	s.logger.Info().Str("symbol", symbol).Dur("every", every).Msg("Stream opened")
	defer s.logger.Info().Str("symbol", symbol).Msg("Stream closed")

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		msg := streamMessage{summaryResponse: s.summarize(ctx, symbol), Timestamp: time.Now().UTC()}
		if ctx.Err() != nil {
			return
		}
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(msg); err != nil {
			s.logger.Debug().Err(err).Str("symbol", symbol).Msg("Stream write failed")
			return
		}

		select {
		case <-ctx.Done():
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(writeWait))
			return
		case <-ticker.C:
		}
	}
}
