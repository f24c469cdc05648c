package engine

import "time"

// announcement is an immutable queued utterance, tagged with the session
// that produced it.
type announcement struct {
	text       string
	sessionID  string
	enqueuedAt time.Time
}

// queue is the FIFO announcement buffer. It carries its own mutex-free state
// guarded by Engine.qmu, separate from the registry mutex, so draining never
// blocks on registry-mutation latency and vice versa. The global cooldown
// lives here because it gates dequeue, not enqueue.
type queue struct {
	items         []announcement
	limit         int
	cooldownUntil time.Time
}

func newQueue(limit int) *queue {
	return &queue{limit: limit}
}

// push appends an announcement. When the queue is full the oldest item is
// dropped: a stale announcement is worse than silence. Returns the dropped
// text and whether a drop happened.
func (q *queue) push(text, sessionID string, now time.Time) (string, bool) {
	var dropped string
	var didDrop bool
	if q.limit > 0 && len(q.items) >= q.limit {
		dropped = q.items[0].text
		didDrop = true
		q.items = q.items[1:]
	}
	q.items = append(q.items, announcement{text: text, sessionID: sessionID, enqueuedAt: now})
	return dropped, didDrop
}

// pop removes and returns the head item, but only once the global cooldown
// has elapsed. Until then the head stays queued.
func (q *queue) pop(now time.Time) (announcement, bool) {
	if len(q.items) == 0 {
		return announcement{}, false
	}
	if now.Before(q.cooldownUntil) {
		return announcement{}, false
	}
	head := q.items[0]
	q.items = q.items[1:]
	return head, true
}

func (q *queue) setCooldown(until time.Time) {
	q.cooldownUntil = until
}

func (q *queue) depth() int {
	return len(q.items)
}

// reset clears pending items and the global cooldown. Called on session
// boundaries.
func (q *queue) reset() {
	q.items = nil
	q.cooldownUntil = time.Time{}
}
