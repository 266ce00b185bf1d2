// Package realtime provides a lightweight in-process publish/subscribe hub
// that fans out search events to multiple listeners, typically WebSocket
// sessions watching the live search feed.
//
// Delivery is best effort: a listener whose buffer is full misses the event,
// so a slow consumer never backpressures the search path. There is no
// persistence or replay; the search log is the durable record.
package realtime

import (
	"sync"
	"time"
)

// SearchEvent summarizes one logged search. It carries the headline numbers
// rather than the full result set; consumers wanting the results read the
// search log by ID.
type SearchEvent struct {
	ID        string    `json:"id"`
	Term      string    `json:"term"`
	Hits      int       `json:"hits"`
	TopScore  float64   `json:"top_score"`
	CreatedAt time.Time `json:"created_at"`
}

// SearchHub is an in-memory fan-out dispatcher. Each registered listener
// receives events on its own buffered channel. The hub is concurrency-safe.
type SearchHub struct {
	mu        sync.RWMutex
	listeners map[uint64]chan SearchEvent
	nextID    uint64
	bufSize   int
}

// NewSearchHub constructs a hub with the given per-listener buffer size.
// A bufSize <= 0 falls back to 32.
func NewSearchHub(bufSize int) *SearchHub {
	if bufSize <= 0 {
		bufSize = 32
	}
	return &SearchHub{
		listeners: make(map[uint64]chan SearchEvent),
		bufSize:   bufSize,
	}
}

// Register adds a listener and returns its id and receive channel. Callers
// must Unregister(id) to release the channel.
func (h *SearchHub) Register() (uint64, <-chan SearchEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	ch := make(chan SearchEvent, h.bufSize)
	h.listeners[id] = ch
	return id, ch
}

// Unregister removes a listener and closes its channel. Safe to call
// multiple times; unknown ids are ignored.
func (h *SearchHub) Unregister(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.listeners[id]; ok {
		delete(h.listeners, id)
		close(ch)
	}
}

// Broadcast delivers an event to every listener that has buffer room.
func (h *SearchHub) Broadcast(event SearchEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.listeners {
		select {
		case ch <- event:
		default:
			// Drop for slow listener.
		}
	}
}

// Size returns the current number of active listeners.
func (h *SearchHub) Size() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.listeners)
}
