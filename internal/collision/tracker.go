package collision

import (
	"fmt"

	"github.com/arloliu/fameport/errs"
)

// Tracker tracks object names while a store file is encoded or decoded.
// Two names sharing a hash are allowed, since every index entry is verified
// against its decoded name, but the collision is recorded so the file header
// can flag it.
type Tracker struct {
	byHash       map[uint64]string
	seen         map[string]struct{}
	names        []string
	hasCollision bool
}

// NewTracker creates a new collision tracker.
func NewTracker() *Tracker {
	return &Tracker{
		byHash: make(map[uint64]string),
		seen:   make(map[string]struct{}),
		names:  make([]string, 0),
	}
}

// Track records name under its hash id.
//
// Returns errs.ErrInvalidName for an empty name and errs.ErrDuplicateName when
// the same name is tracked twice.
func (t *Tracker) Track(name string, id uint64) error {
	if name == "" {
		return errs.ErrInvalidName
	}
	if _, dup := t.seen[name]; dup {
		return fmt.Errorf("%w: %s", errs.ErrDuplicateName, name)
	}

	if _, exists := t.byHash[id]; exists {
		t.hasCollision = true
	}

	t.byHash[id] = name
	t.seen[name] = struct{}{}
	t.names = append(t.names, name)

	return nil
}

// HasCollision returns true if two tracked names share a hash.
func (t *Tracker) HasCollision() bool {
	return t.hasCollision
}

// Names returns the tracked names in the order they were tracked.
func (t *Tracker) Names() []string {
	return t.names
}

// Count returns the number of tracked names.
func (t *Tracker) Count() int {
	return len(t.names)
}

// Reset clears all tracked names and collision state.
func (t *Tracker) Reset() {
	clear(t.byHash)
	clear(t.seen)
	t.names = t.names[:0]
	t.hasCollision = false
}
