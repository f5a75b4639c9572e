package ids

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Source hands out identifiers for new tasks and subtasks.
type Source interface {
	NewID() string
}

// UUIDSource issues version 7 UUIDs: time ordered, with enough randomness that
// two creations inside the same millisecond do not collide.
type UUIDSource struct{}

func (UUIDSource) NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Sequence is a deterministic counter-backed source, used in tests and for
// reproducible fixtures.
type Sequence struct {
	mu     sync.Mutex
	prefix string
	next   int
}

func NewSequence(prefix string) *Sequence {
	return &Sequence{prefix: prefix, next: 1}
}

func (s *Sequence) NewID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := fmt.Sprintf("%s%d", s.prefix, s.next)
	s.next++
	return id
}

// Unique draws from src until taken reports the id as free. It gives up after
// a bounded number of attempts and returns the last draw.
func Unique(src Source, taken func(string) bool) string {
	id := src.NewID()
	for i := 0; i < 8 && taken(id); i++ {
		id = src.NewID()
	}
	return id
}
