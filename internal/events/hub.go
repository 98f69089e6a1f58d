package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType names what happened.
type EventType string

const (
	TypeUserRegistered EventType = "user.registered"
)

// Account is the public view of a user carried by events. It never
// includes the password.
type Account struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Event is a single notification delivered to subscribers.
type Event struct {
	Type       EventType `json:"type"`
	User       Account   `json:"user"`
	OccurredAt time.Time `json:"occurred_at"`
}

// DefaultBuffer is the per-subscriber channel capacity.
const DefaultBuffer = 16

// Hub fans events out to subscribers. Publish never blocks: a subscriber
// whose buffer is full misses the event. All methods are safe for
// concurrent use.
type Hub struct {
	mu     sync.RWMutex
	subs   map[string]chan Event
	buffer int
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		subs:   make(map[string]chan Event),
		buffer: DefaultBuffer,
	}
}

// Subscribe registers a new subscriber and returns its id and channel.
// The channel is closed by Unsubscribe.
func (h *Hub) Subscribe() (string, <-chan Event) {
	id := uuid.New().String()
	ch := make(chan Event, h.buffer)

	h.mu.Lock()
	defer h.mu.Unlock()
	h.subs[id] = ch
	return id, ch
}

// Unsubscribe removes the subscriber and closes its channel. Unknown ids
// are ignored.
func (h *Hub) Unsubscribe(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch, ok := h.subs[id]
	if !ok {
		return
	}
	delete(h.subs, id)
	close(ch)
}

// Publish delivers ev to every subscriber with buffer space and returns
// how many received it.
func (h *Hub) Publish(ev Event) int {
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for _, ch := range h.subs {
		select {
		case ch <- ev:
			delivered++
		default:
		}
	}
	return delivered
}

// Len returns the number of active subscribers.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
