package printsvc

import (
	"sync"
	"time"

	"github.com/arkwaretechnologies/laundropos-print/internal/driver"
)

// Event is a facade state change pushed to subscribers.
type Event struct {
	Type    string         `json:"type"` // "bound", "job", "rescan"
	Backend driver.Backend `json:"backend"`
	JobID   string         `json:"jobId,omitempty"`
	Code    Code           `json:"code,omitempty"`
	Message string         `json:"message,omitempty"`
	At      time.Time      `json:"at"`
}

// Hub fans events out to subscribers. Slow subscribers drop events rather
// than block a print job.
type Hub struct {
	mu   sync.Mutex
	subs map[chan Event]struct{}
}

// NewHub creates an event hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[chan Event]struct{})}
}

// Subscribe returns an event channel and a cancel function.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 16)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.subs[ch]; ok {
			delete(h.subs, ch)
			close(ch)
		}
	}
	return ch, cancel
}

// Publish delivers an event to every subscriber without blocking.
func (h *Hub) Publish(ev Event) {
	ev.At = time.Now()

	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
