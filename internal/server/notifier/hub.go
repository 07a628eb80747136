// Package notifier implements the change-notification hub: one logical
// channel per entity set, broadcasting the new document to every
// subscriber whenever the row is replaced.
package notifier

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/ourunion/unionhub/internal/logging"
)

// Event is one change notification as delivered to subscribers.
type Event struct {
	Key       string          `json:"key"`
	Data      json.RawMessage `json:"data"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Subscriber receives events for a single entity-set channel on C.
// The channel is closed on Unsubscribe.
type Subscriber struct {
	C   chan Event
	key string
	hub *Hub
}

// Hub fans entity-set change events out to websocket subscribers. A
// subscriber whose buffer is full is dropped instead of blocking the
// broadcast.
type Hub struct {
	mu     sync.Mutex
	subs   map[string]map[*Subscriber]struct{}
	logger logging.Logger
}

const subscriberBuffer = 16

func NewHub(l logging.Logger) *Hub {
	return &Hub{
		subs:   make(map[string]map[*Subscriber]struct{}),
		logger: l.With("module", "notifier"),
	}
}

// Subscribe registers interest in one entity-set channel.
func (h *Hub) Subscribe(key string) *Subscriber {
	sub := &Subscriber{C: make(chan Event, subscriberBuffer), key: key, hub: h}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[key] == nil {
		h.subs[key] = make(map[*Subscriber]struct{})
	}
	h.subs[key][sub] = struct{}{}
	return sub
}

// Unsubscribe releases the channel. Safe to call once per subscriber.
func (s *Subscriber) Unsubscribe() {
	s.hub.remove(s)
}

func (h *Hub) remove(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.subs[sub.key]; ok {
		if _, present := set[sub]; present {
			delete(set, sub)
			close(sub.C)
		}
	}
}

// Broadcast delivers ev to every subscriber of ev.Key.
func (h *Hub) Broadcast(ctx context.Context, ev Event) {
	h.mu.Lock()
	var dropped []*Subscriber
	for sub := range h.subs[ev.Key] {
		select {
		case sub.C <- ev:
		default:
			dropped = append(dropped, sub)
		}
	}
	for _, sub := range dropped {
		delete(h.subs[ev.Key], sub)
		close(sub.C)
	}
	h.mu.Unlock()

	if len(dropped) > 0 {
		h.logger.Warn(ctx, "dropped slow subscribers", "key", ev.Key, "count", len(dropped))
	}
}
