package world

import "sync/atomic"

// Clock assigns sequence numbers to dispatches.
type Clock interface {
	Next() int64
}

// SeqClock is a monotonic logical clock.
//
// Sequence numbers order dispatches by start; they are never derived from
// wall time, so replaying the same sends yields the same numbers.
type SeqClock struct {
	seq atomic.Int64
}

// NewClock creates a clock whose first Next returns 1.
func NewClock() *SeqClock {
	return &SeqClock{}
}

// NewClockAt creates a clock resuming after start.
func NewClockAt(start int64) *SeqClock {
	c := &SeqClock{}
	c.seq.Store(start)
	return c
}

// Next returns the next sequence number.
func (c *SeqClock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the last sequence number handed out.
func (c *SeqClock) Current() int64 {
	return c.seq.Load()
}
