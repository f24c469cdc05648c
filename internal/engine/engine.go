// Package engine implements the attendance announcement engine: a per-person
// state machine fed by face-recognition observations, with serialized,
// rate-limited audio playback through a pluggable speech backend.
package engine

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kozaktomas/face-attendance/internal/config"
	"github.com/kozaktomas/face-attendance/internal/speech"
)

// Observation is one reported sighting of a person in a processed frame.
// AttendanceMarked reflects whether the attendance store just recorded this
// person, not whether they were ever marked historically.
type Observation struct {
	PersonID         string
	Name             string
	Recognized       bool
	AttendanceMarked bool
}

// SessionInfo is a monitoring snapshot of the engine.
type SessionInfo struct {
	Active      bool                   `json:"active"`
	SessionID   string                 `json:"session_id,omitempty"`
	StartedAt   time.Time              `json:"started_at,omitzero"`
	PersonCount int                    `json:"person_count"`
	QueueDepth  int                    `json:"queue_depth"`
	States      map[string]PersonState `json:"states"`
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock injects a clock source, used by tests for deterministic timing.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) { e.clock = clock }
}

// Engine owns the person registry, announcement queue, and session state.
// Registry and session mutations are serialized behind mu; the queue has its
// own lock (qmu) so playback draining never contends with observation
// processing. Lock order is mu then qmu: producers enqueue while still
// holding mu, the playback worker takes qmu alone and never mu. The speech
// backend is always invoked with no lock held.
type Engine struct {
	cfg     *config.Config
	speaker speech.Speaker
	clock   func() time.Time
	events  broadcaster

	mu        sync.Mutex // guards people, active, sessionID, startedAt
	people    *registry
	active    bool
	sessionID string
	startedAt time.Time

	qmu sync.Mutex // guards q
	q   *queue

	startOnce sync.Once
	stopOnce  sync.Once
	done      chan struct{}
	wg        sync.WaitGroup
}

// New creates an engine. Call Start to launch the playback worker and the
// reaper; the engine begins with no active session.
func New(cfg *config.Config, speaker speech.Speaker, opts ...Option) *Engine {
	e := &Engine{
		cfg:     cfg,
		speaker: speaker,
		clock:   time.Now,
		people:  newRegistry(),
		q:       newQueue(cfg.Engine.QueueLimit),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start launches the background playback worker and reaper goroutines.
// Safe to call once; further calls are no-ops.
func (e *Engine) Start() {
	e.startOnce.Do(func() {
		e.wg.Add(2)
		go e.playbackLoop()
		go e.reaperLoop()
		log.Printf("engine started (speech backend: %s)", e.speaker.Name())
	})
}

// StartSession activates a new session, clearing all person records, the
// announcement queue, and the global cooldown. Returns the new session ID.
func (e *Engine) StartSession() string {
	now := e.clock()
	id := uuid.NewString()

	e.mu.Lock()
	e.active = true
	e.sessionID = id
	e.startedAt = now
	e.people.clear()
	e.qmu.Lock()
	e.q.reset()
	e.qmu.Unlock()
	e.mu.Unlock()

	e.events.send(Event{Type: EventSessionStarted, SessionID: id, At: now})
	log.Printf("session %s started", id)
	return id
}

// EndSession deactivates the session and clears all state. Pending queue
// items are discarded; an in-progress playback is not interrupted.
func (e *Engine) EndSession() {
	now := e.clock()

	e.mu.Lock()
	id := e.sessionID
	e.active = false
	e.sessionID = ""
	e.people.clear()
	e.qmu.Lock()
	e.q.reset()
	e.qmu.Unlock()
	e.mu.Unlock()

	if id != "" {
		e.events.send(Event{Type: EventSessionEnded, SessionID: id, At: now})
		log.Printf("session %s ended", id)
	}
}

// Observe processes one observation. Called at most once per detected face
// per processed frame; safe for concurrent callers.
func (e *Engine) Observe(obs Observation) {
	if !obs.Recognized {
		return
	}
	now := e.clock()

	e.mu.Lock()
	if !e.active {
		e.mu.Unlock()
		return
	}
	sessionID := e.sessionID
	rec := e.people.getOrCreate(obs.PersonID, obs.Name, now)

	// Reappearance is judged against the previous sighting, before the
	// unconditional liveness update below.
	reappeared := now.Sub(rec.LastSeenAt) > e.cfg.Engine.ReappearThreshold
	rec.LastSeenAt = now

	// The per-person lock gates transition evaluation entirely. A marked
	// signal arriving inside the window is dropped, not deferred: strict
	// anti-spam wins over a delayed legitimate transition.
	if now.Before(rec.LockedUntil) {
		e.mu.Unlock()
		return
	}

	prev := rec.State
	state, fired := next(prev, obs.AttendanceMarked, reappeared)
	if !fired {
		e.mu.Unlock()
		return
	}
	rec.State = state

	e.events.send(Event{
		Type:      EventTransition,
		SessionID: sessionID,
		PersonID:  rec.ID,
		Name:      rec.Name,
		From:      prev,
		To:        state,
		At:        now,
	})

	text, announce := e.announcementFor(rec, prev, state)
	if announce {
		// Lock before queueing so a burst of observations in the same
		// instant cannot double-queue.
		rec.LockedUntil = now.Add(e.cfg.Engine.PerPersonCooldown)
		rec.LastAnnouncedAt = now

		// The push happens while mu is still held: queue order must match
		// the order transitions were detected, and a concurrent EndSession
		// must never find a push landing after its queue clear.
		e.qmu.Lock()
		droppedText, dropped := e.q.push(text, sessionID, now)
		e.qmu.Unlock()
		if dropped {
			log.Printf("announcement queue full, dropped oldest: %q", droppedText)
			e.events.send(Event{Type: EventDropped, SessionID: sessionID, Text: droppedText, At: now})
		}
	}
	e.mu.Unlock()
}

// announcementFor maps a fired transition to its message, applying the
// once-per-session guard on the "already marked" message. Caller holds e.mu.
func (e *Engine) announcementFor(rec *PersonRecord, prev, state PersonState) (string, bool) {
	t := e.cfg.Messages.Templates
	switch {
	case prev == StateNew && state == StateMarking:
		return t.Marking, true
	case prev == StateMarking && state == StateMarked:
		return config.Render(t.Greeting, rec.Name), true
	case prev == StateMarked && state == StateIgnored:
		if rec.ignoredAnnounced {
			return "", false
		}
		rec.ignoredAnnounced = true
		return config.Render(t.AlreadyMarked, rec.Name), true
	}
	return "", false
}

// PersonStatus returns the current state of a person, if known.
func (e *Engine) PersonStatus(id string) (PersonState, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	rec, ok := e.people.get(id)
	if !ok {
		return "", false
	}
	return rec.State, true
}

// Info returns a monitoring snapshot of the session.
func (e *Engine) Info() SessionInfo {
	e.mu.Lock()
	info := SessionInfo{
		Active:      e.active,
		SessionID:   e.sessionID,
		StartedAt:   e.startedAt,
		PersonCount: e.people.len(),
		States:      e.people.states(),
	}
	e.mu.Unlock()

	e.qmu.Lock()
	info.QueueDepth = e.q.depth()
	e.qmu.Unlock()
	return info
}

// AddListener registers a channel receiving engine events.
func (e *Engine) AddListener() chan Event {
	return e.events.AddListener()
}

// RemoveListener unregisters an event channel.
func (e *Engine) RemoveListener(ch chan Event) {
	e.events.RemoveListener(ch)
}

// Shutdown stops the background goroutines, waiting for the current playback
// iteration to finish or the context to expire, then clears session state.
func (e *Engine) Shutdown(ctx context.Context) error {
	e.stopOnce.Do(func() { close(e.done) })

	stopped := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(stopped)
	}()

	var err error
	select {
	case <-stopped:
	case <-ctx.Done():
		err = ctx.Err()
	}

	e.EndSession()
	e.events.closeAll()
	log.Println("engine shut down")
	return err
}
