// Package notify delivers toast notifications to admin sessions.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

type Notification struct {
	ID          string    `json:"id"`
	Level       Level     `json:"level"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Notifier is what controllers use to raise a toast.
type Notifier interface {
	Notify(level Level, title, description string)
}

const subscriberBuffer = 16

// Hub keeps the most recent notifications per session and fans new ones
// out to live subscribers. A slow subscriber misses messages rather than
// blocking the publisher.
type Hub struct {
	mu     sync.Mutex
	limit  int
	recent map[string][]Notification
	subs   map[string]map[chan Notification]struct{}
}

func NewHub(limit int) *Hub {
	if limit <= 0 {
		limit = 50
	}
	return &Hub{
		limit:  limit,
		recent: make(map[string][]Notification),
		subs:   make(map[string]map[chan Notification]struct{}),
	}
}

func (h *Hub) Publish(sessionID string, level Level, title, description string) Notification {
	n := Notification{
		ID:          uuid.NewString(),
		Level:       level,
		Title:       title,
		Description: description,
		CreatedAt:   time.Now(),
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	list := append(h.recent[sessionID], n)
	if len(list) > h.limit {
		list = append([]Notification(nil), list[len(list)-h.limit:]...)
	}
	h.recent[sessionID] = list

	for ch := range h.subs[sessionID] {
		select {
		case ch <- n:
		default:
		}
	}
	return n
}

// Recent returns the buffered notifications of a session, oldest first.
func (h *Hub) Recent(sessionID string) []Notification {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Notification(nil), h.recent[sessionID]...)
}

// Subscribe registers a live listener. The returned cancel func must be
// called once; it closes the channel.
func (h *Hub) Subscribe(sessionID string) (<-chan Notification, func()) {
	ch := make(chan Notification, subscriberBuffer)

	h.mu.Lock()
	if h.subs[sessionID] == nil {
		h.subs[sessionID] = make(map[chan Notification]struct{})
	}
	h.subs[sessionID][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if set, ok := h.subs[sessionID]; ok {
				if _, ok := set[ch]; ok {
					delete(set, ch)
					close(ch)
				}
				if len(set) == 0 {
					delete(h.subs, sessionID)
				}
			}
		})
	}
}

// Forget drops the buffer of a session and disconnects its subscribers.
func (h *Hub) Forget(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.recent, sessionID)
	for ch := range h.subs[sessionID] {
		close(ch)
	}
	delete(h.subs, sessionID)
}

// ForSession binds the hub to one session.
func (h *Hub) ForSession(sessionID string) Notifier {
	return sessionNotifier{hub: h, sessionID: sessionID}
}

type sessionNotifier struct {
	hub       *Hub
	sessionID string
}

func (s sessionNotifier) Notify(level Level, title, description string) {
	s.hub.Publish(s.sessionID, level, title, description)
}
