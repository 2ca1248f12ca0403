// Package runtime wires the messaging core together: commit-ordered
// event publication, subscription registry, and fan-out workers.
// It contains no business rules; those live in services and domain.
package runtime

import (
	"sync"
	"time"
)

// Clock hands out (timestamp, sequence) pairs for message ordering.
// The timestamp never goes backwards, and the sequence increases with
// every call, so two messages that land on the same nanosecond are
// still totally ordered by their insertion sequence instead of wall
// time. Both values are assigned under one lock: a later caller can
// never observe a smaller pair.
type Clock struct {
	mu       sync.Mutex
	lastNano int64
	seq      uint64
}

func NewClock() *Clock {
	return &Clock{}
}

func (c *Clock) Next() (time.Time, uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now().UnixNano()
	if now < c.lastNano {
		now = c.lastNano
	}
	c.lastNano = now
	c.seq++
	return time.Unix(0, now).UTC(), c.seq
}
