package factory

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// IDGenerator mints identifiers for batches, actions and conflicts.
type IDGenerator interface {
	// BatchID returns a new batch id. Ids minted later sort after earlier ones.
	BatchID(now time.Time) string

	// NewID returns a new action or conflict id.
	NewID() string
}

// RandomIDs issues ULIDs for batches and UUIDv4s for everything else.
type RandomIDs struct{}

// NewRandomIDs creates a RandomIDs generator.
func NewRandomIDs() *RandomIDs {
	return &RandomIDs{}
}

// BatchID returns a ULID seeded with now.
func (RandomIDs) BatchID(now time.Time) string {
	return ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String()
}

// NewID returns a random UUID.
func (RandomIDs) NewID() string {
	return uuid.NewString()
}

// SequentialIDs issues predictable ids such as "batch-1" and "id-1".
// It is meant for tests and demos.
type SequentialIDs struct {
	mu      sync.Mutex
	batches int
	ids     int
}

// NewSequentialIDs creates a SequentialIDs generator starting at 1.
func NewSequentialIDs() *SequentialIDs {
	return &SequentialIDs{}
}

// BatchID returns the next batch id.
func (s *SequentialIDs) BatchID(time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches++
	return fmt.Sprintf("batch-%d", s.batches)
}

// NewID returns the next action or conflict id.
func (s *SequentialIDs) NewID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids++
	return fmt.Sprintf("id-%d", s.ids)
}
