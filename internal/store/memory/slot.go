package memory

import (
	"context"
	"sync"
	"time"

	"github.com/MrSnakeDoc/marks/internal/store"
)

// Slot is an in-process store.Slot.
// Nothing survives a restart; it backs tests and ephemeral runs.
type Slot struct {
	mu        sync.RWMutex
	data      []byte
	set       bool
	writes    int
	lastWrite time.Time // Timestamp of the last successful write
	failWrite error     // forced write error, see FailWrites
}

// NewSlot creates an empty slot
func NewSlot() *Slot {
	return &Slot{}
}

// Read returns a copy of the stored value
func (s *Slot) Read(_ context.Context) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.set {
		return nil, store.ErrSlotEmpty
	}
	return append([]byte(nil), s.data...), nil
}

// Write replaces the stored value
func (s *Slot) Write(_ context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failWrite != nil {
		return s.failWrite
	}
	s.data = append([]byte(nil), data...)
	s.set = true
	s.writes++
	s.lastWrite = time.Now()
	return nil
}

// FailWrites makes every following Write return err. Pass nil to recover.
func (s *Slot) FailWrites(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.failWrite = err
}

// Writes returns the number of successful writes
func (s *Slot) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.writes
}

// LastWrite returns the timestamp of the last successful write
func (s *Slot) LastWrite() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.lastWrite
}
