package game

import (
	"sync"
)

// Replay is an in-memory log of snapshots taken at phase transitions.
// Playback keeps a cursor that Start, Next, Previous and Skip move.
type Replay struct {
	GameID       string
	States       []*Snapshot
	CurrentIndex int
	mu           sync.RWMutex
}

// NewReplay creates a new replay instance
func NewReplay(gameID string) *Replay {
	return &Replay{
		GameID: gameID,
		States: make([]*Snapshot, 0),
	}
}

// RecordState appends a snapshot. The caller must not mutate it afterwards.
func (r *Replay) RecordState(snapshot *Snapshot) {
	if snapshot == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.States = append(r.States, snapshot)
}

// Start resets the cursor to the beginning.
func (r *Replay) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.CurrentIndex = 0
}

// Next returns the state under the cursor and advances it, or nil at the end.
func (r *Replay) Next() *Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.CurrentIndex < len(r.States) {
		state := r.States[r.CurrentIndex]
		r.CurrentIndex++
		return state
	}
	return nil
}

// Previous moves the cursor back one state and returns it.
func (r *Replay) Previous() *Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.CurrentIndex > 0 {
		r.CurrentIndex--
		return r.States[r.CurrentIndex]
	}
	return nil
}

// Skip moves the cursor by count states, clamped to the recorded range.
func (r *Replay) Skip(count int) *Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.States) == 0 {
		return nil
	}

	newIndex := r.CurrentIndex + count
	if newIndex >= len(r.States) {
		newIndex = len(r.States) - 1
	}
	if newIndex < 0 {
		newIndex = 0
	}

	r.CurrentIndex = newIndex
	return r.States[r.CurrentIndex]
}

// Size returns the number of recorded states
func (r *Replay) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.States)
}

// GetStateAt returns the state at a specific index
func (r *Replay) GetStateAt(index int) *Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if index >= 0 && index < len(r.States) {
		return r.States[index]
	}
	return nil
}

// Last returns the most recent state, or nil when nothing was recorded.
func (r *Replay) Last() *Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.States) == 0 {
		return nil
	}
	return r.States[len(r.States)-1]
}
