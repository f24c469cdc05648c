package engine

import (
	"sync"
	"time"
)

// EventType identifies what an engine Event describes.
type EventType string

const (
	EventSessionStarted EventType = "session_started"
	EventSessionEnded   EventType = "session_ended"
	EventTransition     EventType = "transition"
	EventAnnounced      EventType = "announced"
	EventDropped        EventType = "dropped"
	EventEvicted        EventType = "evicted"
)

// Event is a diagnostic notification emitted by the engine. The web SSE
// handler and tests consume these; the engine never blocks on a listener.
type Event struct {
	Type      EventType   `json:"type"`
	SessionID string      `json:"session_id,omitempty"`
	PersonID  string      `json:"person_id,omitempty"`
	Name      string      `json:"name,omitempty"`
	From      PersonState `json:"from,omitempty"`
	To        PersonState `json:"to,omitempty"`
	Text      string      `json:"text,omitempty"`
	At        time.Time   `json:"at"`
}

const eventChannelBuffer = 32

// broadcaster fans engine events out to registered listeners.
type broadcaster struct {
	mu        sync.RWMutex
	listeners []chan Event
}

// AddListener registers a new event listener channel.
func (b *broadcaster) AddListener() chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan Event, eventChannelBuffer)
	b.listeners = append(b.listeners, ch)
	return ch
}

// RemoveListener unregisters and closes a listener channel.
func (b *broadcaster) RemoveListener(ch chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, listener := range b.listeners {
		if listener == ch {
			b.listeners = append(b.listeners[:i], b.listeners[i+1:]...)
			close(ch)
			return
		}
	}
}

// send delivers an event to all listeners. A full listener misses the event
// rather than stalling the engine.
func (b *broadcaster) send(ev Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, listener := range b.listeners {
		select {
		case listener <- ev:
		default:
		}
	}
}

// closeAll closes every listener channel. Used during shutdown.
func (b *broadcaster) closeAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, listener := range b.listeners {
		close(listener)
	}
	b.listeners = nil
}
