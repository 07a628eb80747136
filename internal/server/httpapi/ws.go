package httpapi

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	core "github.com/ourunion/unionhub/internal/models"
	"github.com/ourunion/unionhub/internal/server/notifier"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPingPeriod = 30 * time.Second
)

// handleRealtime upgrades to a websocket and streams change events for the
// requested channels (?channels=union_posts,union_members). Without the
// parameter the client gets every entity-set channel.
func (s *Server) handleRealtime(w http.ResponseWriter, r *http.Request) {
	keys := parseChannels(r.URL.Query().Get("channels"))
	if len(keys) == 0 {
		writeError(w, http.StatusBadRequest, "no valid channels requested")
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied to the client.
		s.logger.Warn(r.Context(), "websocket upgrade failed", "error", err.Error())
		return
	}

	events := make(chan notifier.Event, 32)
	done := make(chan struct{})

	var subs []*notifier.Subscriber
	for _, key := range keys {
		subs = append(subs, s.hub.Subscribe(string(key)))
	}
	for _, sub := range subs {
		go func(sub *notifier.Subscriber) {
			for ev := range sub.C {
				select {
				case events <- ev:
				case <-done:
					return
				}
			}
		}(sub)
	}

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			close(done)
			for _, sub := range subs {
				sub.Unsubscribe()
			}
			_ = conn.Close()
		})
	}
	defer cleanup()

	// Reader: the client never sends application data; this loop exists to
	// observe the close handshake.
	go func() {
		defer cleanup()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case ev := <-events:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

func parseChannels(raw string) []core.EntityKey {
	if raw == "" {
		return core.EntityKeys()
	}
	var keys []core.EntityKey
	for _, part := range strings.Split(raw, ",") {
		key := core.EntityKey(strings.TrimSpace(part))
		if key.Valid() {
			keys = append(keys, key)
		}
	}
	return keys
}
