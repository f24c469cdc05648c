package engine

import (
	"context"
	"testing"
	"time"
)

// waitForSpoken polls until the speaker has played n announcements or the
// deadline passes.
func waitForSpoken(t *testing.T, s *recordingSpeaker, n int, deadline time.Duration) {
	t.Helper()
	timeout := time.After(deadline)
	for {
		if len(s.spoken()) >= n {
			return
		}
		select {
		case <-timeout:
			t.Fatalf("timed out waiting for %d playback(s), got %v", n, s.spoken())
		case <-time.After(time.Millisecond):
		}
	}
}

func TestPlayback_OrderAndGlobalCooldown(t *testing.T) {
	speaker := &recordingSpeaker{}
	cfg := testConfig()
	cfg.Engine.GlobalCooldown = 60 * time.Millisecond
	e := New(cfg, speaker)

	now := time.Now()
	e.qmu.Lock()
	e.q.push("first", "sess", now)
	e.q.push("second", "sess", now)
	e.qmu.Unlock()

	e.Start()
	defer e.Shutdown(context.Background())

	waitForSpoken(t, speaker, 2, 2*time.Second)

	spoken := speaker.spoken()
	if spoken[0] != "first" || spoken[1] != "second" {
		t.Errorf("expected FIFO playback, got %v", spoken)
	}

	times := speaker.playedAt()
	if gap := times[1].Sub(times[0]); gap < cfg.Engine.GlobalCooldown {
		t.Errorf("playbacks %v apart, want at least %v", gap, cfg.Engine.GlobalCooldown)
	}
}

func TestPlayback_SpeakerFailureConsumesItem(t *testing.T) {
	speaker := &recordingSpeaker{err: context.DeadlineExceeded}
	cfg := testConfig()
	cfg.Engine.GlobalCooldown = 5 * time.Millisecond
	e := New(cfg, speaker)

	e.qmu.Lock()
	e.q.push("doomed", "sess", time.Now())
	e.q.push("next", "sess", time.Now())
	e.qmu.Unlock()

	e.Start()
	defer e.Shutdown(context.Background())

	// Both items must play despite errors: failed playback is consumed,
	// never retried, so the queue cannot wedge.
	waitForSpoken(t, speaker, 2, 2*time.Second)

	if e.Info().QueueDepth != 0 {
		t.Errorf("expected drained queue, depth=%d", e.Info().QueueDepth)
	}
}

func TestPlayback_AnnouncedEventCarriesSessionID(t *testing.T) {
	e, _, speaker := newTestEngine(t)
	events := e.AddListener()
	defer e.RemoveListener(events)

	id := e.StartSession()
	observe(e, "S1", "Alice", false)

	e.Start()
	defer e.Shutdown(context.Background())

	waitForSpoken(t, speaker, 1, 2*time.Second)

	var announced *Event
	deadline := time.After(2 * time.Second)
	for announced == nil {
		select {
		case ev := <-events:
			if ev.Type == EventAnnounced {
				announced = &ev
			}
		case <-deadline:
			t.Fatal("no announced event received")
		}
	}

	if announced.SessionID != id {
		t.Errorf("announced event session %q, want %q", announced.SessionID, id)
	}
	if announced.Text != "Marking attendance" {
		t.Errorf("announced event text %q", announced.Text)
	}
}

func TestReaper_EvictsStalePersons(t *testing.T) {
	clock := newFakeClock()
	speaker := &recordingSpeaker{}
	e := New(testConfig(), speaker, WithClock(clock.Now))
	e.StartSession()

	observe(e, "S1", "Alice", false)
	observe(e, "S2", "Bob", false)

	// Alice goes silent; Bob keeps showing up.
	clock.Advance(e.cfg.Engine.SessionTimeout + time.Minute)
	observe(e, "S2", "Bob", true)

	e.Start()
	defer e.Shutdown(context.Background())

	deadline := time.After(2 * time.Second)
	for {
		if _, ok := e.PersonStatus("S1"); !ok {
			break
		}
		select {
		case <-deadline:
			t.Fatal("reaper did not evict stale person")
		case <-time.After(time.Millisecond):
		}
	}

	if _, ok := e.PersonStatus("S2"); !ok {
		t.Error("recently seen person must survive the reaper")
	}

	// An evicted person who returns starts over at NEW.
	observe(e, "S1", "Alice", true)
	if state, _ := e.PersonStatus("S1"); state != StateMarking {
		t.Errorf("expected evicted person to restart at NEW -> MARKING, got %s", state)
	}
}

func TestShutdown_StopsWorkersWithinBound(t *testing.T) {
	speaker := &recordingSpeaker{}
	e := New(testConfig(), speaker)
	e.Start()
	e.StartSession()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown did not complete in bound: %v", err)
	}

	if e.Info().Active {
		t.Error("expected session ended after shutdown")
	}
}

func TestShutdown_Idempotent(t *testing.T) {
	e := New(testConfig(), &recordingSpeaker{})
	e.Start()

	if err := e.Shutdown(context.Background()); err != nil {
		t.Fatalf("first shutdown: %v", err)
	}
	if err := e.Shutdown(context.Background()); err != nil {
		t.Fatalf("second shutdown: %v", err)
	}
}
