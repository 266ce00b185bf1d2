package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	liveWriteTimeout = 10 * time.Second
	livePingInterval = 30 * time.Second
)

var liveUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The feed is read-only and carries no credentials or caller data.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// liveMessage is the wire envelope for the live feed. Type is "init" on
// connect and "search" for every logged search after that.
type liveMessage struct {
	Type   string `json:"type"`
	Search any    `json:"search,omitempty"`
}

// HandleLiveSearches serves GET /api/searches/live: a WebSocket stream of
// search events, one message per logged search. Delivery is best effort;
// clients that fall behind miss events.
func (s *Server) HandleLiveSearches(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		s.writeError(w, http.StatusServiceUnavailable, "LiveFeedUnavailable", "live search feed is not enabled")
		return
	}

	conn, err := liveUpgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		s.logger.Debugf("websocket upgrade failed: %v", err)
		return
	}
	defer func() {
		if err := conn.Close(); err != nil {
			s.logger.Debugf("closing websocket: %v", err)
		}
	}()

	id, events := s.hub.Register()
	defer s.hub.Unregister(id)

	if err := conn.SetWriteDeadline(time.Now().Add(liveWriteTimeout)); err != nil {
		return
	}
	if err := conn.WriteJSON(liveMessage{Type: "init"}); err != nil {
		return
	}

	// Drain client frames so close handshakes and pongs are processed; the
	// feed itself never reads application data.
	clientGone := make(chan struct{})
	go func() {
		defer close(clientGone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(livePingInterval)
	defer ping.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := conn.SetWriteDeadline(time.Now().Add(liveWriteTimeout)); err != nil {
				return
			}
			if err := conn.WriteJSON(liveMessage{Type: "search", Search: event}); err != nil {
				return
			}
		case <-ping.C:
			if err := conn.SetWriteDeadline(time.Now().Add(liveWriteTimeout)); err != nil {
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-clientGone:
			return
		case <-r.Context().Done():
			return
		}
	}
}
