package auth

import (
	"sync"

	"staybook/internal/domain/user"
)

// ChangeKind classifies a session lifecycle notification.
type ChangeKind string

const (
	SessionStarted ChangeKind = "started"
	SessionEnded   ChangeKind = "ended"
)

// Change describes one session transition published through the hub.
type Change struct {
	Kind   ChangeKind
	UserID user.ID
	Roles  []user.Role
}

// Hub is an in-process publish/subscribe point for session state. It gives
// components one explicit place to learn about login and logout instead of
// each polling the session store on its own.
type Hub struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]chan Change
}

func NewHub() *Hub {
	return &Hub{subs: make(map[int]chan Change)}
}

// Subscribe registers a listener and returns its channel plus a cancel
// function. The channel is buffered; a slow listener drops notifications
// rather than blocking publishers.
func (h *Hub) Subscribe() (<-chan Change, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	ch := make(chan Change, 16)
	h.subs[id] = ch
	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if sub, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Publish fans a change out to every subscriber.
func (h *Hub) Publish(change Change) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.subs {
		select {
		case ch <- change:
		default:
		}
	}
}
