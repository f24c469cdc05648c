package engine

import (
	"sync"
	"testing"
	"time"

	"github.com/kozaktomas/face-attendance/internal/config"
)

// fakeClock is a controllable clock for deterministic engine tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// recordingSpeaker captures announcements and their playback times.
type recordingSpeaker struct {
	mu    sync.Mutex
	texts []string
	times []time.Time
	err   error // injected Speak error
}

func (s *recordingSpeaker) Speak(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.texts = append(s.texts, text)
	s.times = append(s.times, time.Now())
	return s.err
}

func (s *recordingSpeaker) Name() string { return "recording" }

func (s *recordingSpeaker) spoken() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.texts))
	copy(out, s.texts)
	return out
}

func (s *recordingSpeaker) playedAt() []time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]time.Time, len(s.times))
	copy(out, s.times)
	return out
}

// testConfig returns a config with production cooldowns but fast worker
// intervals, suitable for deterministic fake-clock tests.
func testConfig() *config.Config {
	cfg := config.Load()
	cfg.Engine.PollInterval = 2 * time.Millisecond
	cfg.Engine.ReaperInterval = 5 * time.Millisecond
	return cfg
}

// newTestEngine wires an engine with a fake clock and recording speaker.
// Background workers are not started; tests that need them call Start.
func newTestEngine(t *testing.T) (*Engine, *fakeClock, *recordingSpeaker) {
	t.Helper()
	clock := newFakeClock()
	speaker := &recordingSpeaker{}
	e := New(testConfig(), speaker, WithClock(clock.Now))
	return e, clock, speaker
}

// queuedTexts snapshots the pending announcement texts.
func queuedTexts(e *Engine) []string {
	e.qmu.Lock()
	defer e.qmu.Unlock()
	out := make([]string, 0, len(e.q.items))
	for _, item := range e.q.items {
		out = append(out, item.text)
	}
	return out
}
