package engine

import (
	"log"
	"time"
)

// playbackLoop drains the announcement queue, one utterance at a time. The
// speech call runs with no lock held, so a slow backend never stalls
// observation processing. Playback sets the global cooldown whether or not
// it succeeded: a failed announcement is consumed, not retried.
func (e *Engine) playbackLoop() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.cfg.Engine.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-e.done:
			return
		case <-ticker.C:
		}

		e.qmu.Lock()
		item, ok := e.q.pop(e.clock())
		e.qmu.Unlock()
		if !ok {
			continue
		}

		if err := e.speaker.Speak(item.text); err != nil {
			log.Printf("playback failed on %s backend: %v", e.speaker.Name(), err)
		}

		now := e.clock()
		e.qmu.Lock()
		e.q.setCooldown(now.Add(e.cfg.Engine.GlobalCooldown))
		e.qmu.Unlock()

		e.events.send(Event{Type: EventAnnounced, SessionID: item.sessionID, Text: item.text, At: now})
	}
}

// reaperLoop periodically evicts person records that have not been seen for
// longer than the session timeout, so long-absent people do not accumulate
// over a long-running session. Runs only while a session is active.
func (e *Engine) reaperLoop() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.cfg.Engine.ReaperInterval)
	defer ticker.Stop()

	for {
		select {
		case <-e.done:
			return
		case <-ticker.C:
		}

		now := e.clock()

		e.mu.Lock()
		if !e.active {
			e.mu.Unlock()
			continue
		}
		sessionID := e.sessionID
		evicted := e.people.evictBefore(now.Add(-e.cfg.Engine.SessionTimeout))
		e.mu.Unlock()

		if len(evicted) == 0 {
			continue
		}
		log.Printf("reaper removed %d inactive person(s)", len(evicted))
		for _, rec := range evicted {
			e.events.send(Event{
				Type:      EventEvicted,
				SessionID: sessionID,
				PersonID:  rec.ID,
				Name:      rec.Name,
				At:        now,
			})
		}
	}
}
