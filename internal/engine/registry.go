package engine

import "time"

// PersonRecord tracks state and timing for a single person within a session.
type PersonRecord struct {
	ID              string
	Name            string
	State           PersonState
	LastSeenAt      time.Time // updated on every observation, cooldowns or not
	LastAnnouncedAt time.Time // informational; LockedUntil is the operative cooldown field
	LockedUntil     time.Time // no announcement may queue for this person before this

	// ignoredAnnounced guards the "already marked" message: at most once
	// per person per session, no matter how often they reappear.
	ignoredAnnounced bool
}

// registry owns the per-person records of the active session. It is not
// internally synchronized: all access happens under the engine mutex, which
// also covers transition evaluation so that two concurrent observations for
// the same person cannot both pass the lock check.
type registry struct {
	people map[string]*PersonRecord
}

func newRegistry() *registry {
	return &registry{people: make(map[string]*PersonRecord)}
}

// getOrCreate returns the record for id, creating it in StateNew on first
// sighting.
func (r *registry) getOrCreate(id, name string, now time.Time) *PersonRecord {
	if rec, ok := r.people[id]; ok {
		return rec
	}
	rec := &PersonRecord{
		ID:         id,
		Name:       name,
		State:      StateNew,
		LastSeenAt: now,
	}
	r.people[id] = rec
	return rec
}

func (r *registry) get(id string) (*PersonRecord, bool) {
	rec, ok := r.people[id]
	return rec, ok
}

func (r *registry) remove(id string) {
	delete(r.people, id)
}

func (r *registry) clear() {
	r.people = make(map[string]*PersonRecord)
}

func (r *registry) len() int {
	return len(r.people)
}

// states returns a snapshot of person states, safe to use after the engine
// mutex is released.
func (r *registry) states() map[string]PersonState {
	out := make(map[string]PersonState, len(r.people))
	for id, rec := range r.people {
		out[id] = rec.State
	}
	return out
}

// evictBefore removes every record last seen before the cutoff and returns
// the evicted records.
func (r *registry) evictBefore(cutoff time.Time) []*PersonRecord {
	var evicted []*PersonRecord
	for id, rec := range r.people {
		if rec.LastSeenAt.Before(cutoff) {
			evicted = append(evicted, rec)
			delete(r.people, id)
		}
	}
	return evicted
}
