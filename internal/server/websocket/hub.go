// Package websocket serves live barcode set editing sessions. Each
// connection owns one editor session; the hub tracks the open sessions and
// broadcasts server notices to them.
package websocket

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Hub maintains the open sessions and broadcasts messages to them.
type Hub struct {
	sessions   map[*Session]bool
	broadcast  chan Message
	register   chan *Session
	unregister chan *Session
	done       chan struct{}
	mu         sync.RWMutex
	logger     *zerolog.Logger

	// OnOpen and OnClose are called from the hub loop when a session
	// registers or unregisters.
	OnOpen  func()
	OnClose func()
}

// NewHub creates a new hub.
func NewHub(logger *zerolog.Logger) *Hub {
	return &Hub{
		sessions:   make(map[*Session]bool),
		broadcast:  make(chan Message, 256),
		register:   make(chan *Session),
		unregister: make(chan *Session),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run starts the hub's main loop and returns when ctx is done, closing all
// sessions. It should be called in a goroutine.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for s := range h.sessions {
				delete(h.sessions, s)
				s.close()
				if h.OnClose != nil {
					h.OnClose()
				}
			}
			h.mu.Unlock()
			return

		case s := <-h.register:
			h.mu.Lock()
			h.sessions[s] = true
			n := len(h.sessions)
			h.mu.Unlock()
			if h.OnOpen != nil {
				h.OnOpen()
			}
			h.logger.Info().
				Str("session_id", s.id).
				Int("total_sessions", n).
				Msg("Editor session opened")

		case s := <-h.unregister:
			h.mu.Lock()
			_, ok := h.sessions[s]
			if ok {
				delete(h.sessions, s)
				s.close()
			}
			n := len(h.sessions)
			h.mu.Unlock()
			if ok && h.OnClose != nil {
				h.OnClose()
			}
			h.logger.Info().
				Str("session_id", s.id).
				Int("total_sessions", n).
				Msg("Editor session closed")

		case message := <-h.broadcast:
			h.mu.Lock()
			for s := range h.sessions {
				select {
				case s.send <- message:
				default:
					// buffer full, drop the session
					s.close()
					delete(h.sessions, s)
					if h.OnClose != nil {
						h.OnClose()
					}
				}
			}
			h.mu.Unlock()
		}
	}
}

// Register adds s to the open sessions. It reports false when the hub has
// stopped.
func (h *Hub) Register(s *Session) bool {
	select {
	case h.register <- s:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes s from the open sessions and closes it.
func (h *Hub) Unregister(s *Session) {
	select {
	case h.unregister <- s:
	case <-h.done:
		s.close()
	}
}

// Broadcast sends a message to all open sessions.
func (h *Hub) Broadcast(message Message) {
	if message.Timestamp.IsZero() {
		message.Timestamp = time.Now()
	}
	select {
	case h.broadcast <- message:
	default:
		h.logger.Warn().Msg("Broadcast channel full, message dropped")
	}
}

// SessionCount returns the number of open sessions.
func (h *Hub) SessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}
