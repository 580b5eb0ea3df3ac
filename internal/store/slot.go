// Package store defines the single persisted slot holding the bookmark list
// and the JSON codec shared by every backend.
package store

import (
	"context"
	"errors"
)

// DefaultKey is the name of the slot, shared by every backend.
const DefaultKey = "bookmarks"

// ErrSlotEmpty is returned by Read when nothing was ever written.
var ErrSlotEmpty = errors.New("slot is empty")

// Slot is a single named value that is read and replaced wholesale.
// Last write wins, there is no cross-write atomicity.
type Slot interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
}
