package engine

import (
	"testing"
	"time"
)

func TestQueue_FIFO(t *testing.T) {
	q := newQueue(10)
	now := time.Now()

	q.push("first", "sess", now)
	q.push("second", "sess", now)

	item, ok := q.pop(now)
	if !ok || item.text != "first" {
		t.Fatalf("expected 'first', got %q (ok=%v)", item.text, ok)
	}
	if item.sessionID != "sess" {
		t.Errorf("expected item tagged with session, got %q", item.sessionID)
	}
	item, ok = q.pop(now)
	if !ok || item.text != "second" {
		t.Fatalf("expected 'second', got %q (ok=%v)", item.text, ok)
	}
	if _, ok := q.pop(now); ok {
		t.Error("expected empty queue")
	}
}

func TestQueue_CooldownHoldsHead(t *testing.T) {
	q := newQueue(10)
	now := time.Now()

	q.push("held", "sess", now)
	q.setCooldown(now.Add(2 * time.Second))

	if _, ok := q.pop(now.Add(time.Second)); ok {
		t.Fatal("expected pop blocked during cooldown")
	}
	if q.depth() != 1 {
		t.Errorf("head must stay queued while blocked, depth=%d", q.depth())
	}

	item, ok := q.pop(now.Add(2 * time.Second))
	if !ok || item.text != "held" {
		t.Errorf("expected 'held' after cooldown, got %q (ok=%v)", item.text, ok)
	}
}

func TestQueue_DropOldestWhenFull(t *testing.T) {
	q := newQueue(2)
	now := time.Now()

	q.push("a", "sess", now)
	q.push("b", "sess", now)
	dropped, didDrop := q.push("c", "sess", now)

	if !didDrop || dropped != "a" {
		t.Fatalf("expected oldest 'a' dropped, got %q (dropped=%v)", dropped, didDrop)
	}
	if q.depth() != 2 {
		t.Errorf("expected depth 2, got %d", q.depth())
	}

	item, _ := q.pop(now)
	if item.text != "b" {
		t.Errorf("expected 'b' at head after drop, got %q", item.text)
	}
}

func TestQueue_UnlimitedWhenZero(t *testing.T) {
	q := newQueue(0)
	now := time.Now()
	for i := 0; i < 100; i++ {
		if _, didDrop := q.push("x", "sess", now); didDrop {
			t.Fatal("limit 0 must never drop")
		}
	}
	if q.depth() != 100 {
		t.Errorf("expected 100 items, got %d", q.depth())
	}
}

func TestQueue_ResetClearsItemsAndCooldown(t *testing.T) {
	q := newQueue(10)
	now := time.Now()
	q.push("a", "sess", now)
	q.setCooldown(now.Add(time.Hour))

	q.reset()

	if q.depth() != 0 {
		t.Errorf("expected empty queue, depth=%d", q.depth())
	}
	q.push("b", "sess", now)
	if _, ok := q.pop(now); !ok {
		t.Error("expected cooldown cleared by reset")
	}
}
