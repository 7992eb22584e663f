// Package rewind keeps a fixed-capacity ring of internal/snapshot states
// so a frontend can step the emulated console backward in time, the way
// internal/frontend's game loop steps it forward one frame at a time.
package rewind

import (
	"nescore/internal/neserr"
	"nescore/internal/scheduler"
	"nescore/internal/snapshot"
)

// Buffer is a ring of the most recent capacity snapshots. Push overwrites
// the oldest entry once full; Rewind pops the newest n and restores the
// one that remains.
type Buffer struct {
	states   []snapshot.State
	capacity int
	start    int // index of the oldest entry
	count    int
}

// NewBuffer builds a Buffer holding up to capacity snapshots.
func NewBuffer(capacity int) *Buffer {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffer{states: make([]snapshot.State, capacity), capacity: capacity}
}

// Push captures s's current state and appends it, discarding the oldest
// entry once the buffer is at capacity.
func (b *Buffer) Push(s *scheduler.Scheduler) {
	idx := (b.start + b.count) % b.capacity
	b.states[idx] = snapshot.Capture(s)
	if b.count < b.capacity {
		b.count++
	} else {
		b.start = (b.start + 1) % b.capacity
	}
}

// Len reports how many snapshots are currently buffered.
func (b *Buffer) Len() int { return b.count }

// Rewind discards the n most recently pushed snapshots and restores s to
// the state of the one immediately before them. It returns
// InvalidSaveState if n exceeds the number of snapshots available minus
// one (there must be a remaining snapshot to restore to).
func (b *Buffer) Rewind(s *scheduler.Scheduler, n int) error {
	if n < 1 || n >= b.count {
		return neserr.New(neserr.InvalidSaveState, "rewind distance exceeds buffered history")
	}
	b.count -= n
	idx := (b.start + b.count - 1) % b.capacity
	return snapshot.Restore(s, b.states[idx])
}

// Clear discards every buffered snapshot.
func (b *Buffer) Clear() {
	b.start, b.count = 0, 0
}
