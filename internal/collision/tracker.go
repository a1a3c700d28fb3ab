package collision

import (
	"fmt"

	"github.com/arloliu/pqlog/errs"
)

// Tracker records column names by their 64-bit hash and rejects repeats.
//
// Distinct names that share a hash are kept side by side, so a collision is
// never mistaken for a duplicate; HasCollision reports that it happened.
type Tracker struct {
	names        map[uint64][]string // Hash → names with that hash
	ordered      []string            // Names in tracking order
	hasCollision bool
}

// NewTracker creates a new tracker.
func NewTracker() *Tracker {
	return &Tracker{
		names:   make(map[uint64][]string),
		ordered: make([]string, 0),
	}
}

// Track records name under hash.
// Returns an error if:
// - The name is empty (errs.ErrEmptyName)
// - The name was already tracked (errs.ErrDuplicateColumn)
func (t *Tracker) Track(name string, hash uint64) error {
	if name == "" {
		return errs.ErrEmptyName
	}

	existing := t.names[hash]
	for _, n := range existing {
		if n == name {
			return fmt.Errorf("%w: %q", errs.ErrDuplicateColumn, name)
		}
	}
	if len(existing) > 0 {
		t.hasCollision = true
	}

	t.names[hash] = append(existing, name)
	t.ordered = append(t.ordered, name)

	return nil
}

// HasCollision returns true if two distinct names shared a hash.
func (t *Tracker) HasCollision() bool {
	return t.hasCollision
}

// Names returns the tracked names in tracking order.
func (t *Tracker) Names() []string {
	return t.ordered
}

// Count returns the number of tracked names.
func (t *Tracker) Count() int {
	return len(t.ordered)
}

// Reset clears all tracked names and the collision flag.
func (t *Tracker) Reset() {
	clear(t.names)
	t.ordered = t.ordered[:0]
	t.hasCollision = false
}
