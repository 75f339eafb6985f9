package ident

import (
	"strconv"

	"github.com/google/uuid"
)

// Generator produces new aggregate identifiers. Injected so tests can use
// deterministic ids.
type Generator interface {
	NewID() string
}

type uuidV7 struct{}

// NewUUIDv7 returns a generator producing time-ordered UUIDs, which keeps
// index locality in Postgres and makes ids sortable by creation time.
func NewUUIDv7() Generator {
	return uuidV7{}
}

func (uuidV7) NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails when the entropy source does; fall back to the
		// random variant rather than propagate an error through every caller.
		return uuid.New().String()
	}
	return id.String()
}

// Sequence is a deterministic generator for tests. Not safe for concurrent
// use.
type Sequence struct {
	prefix string
	next   int
}

func NewSequence(prefix string) *Sequence {
	return &Sequence{prefix: prefix}
}

func (s *Sequence) NewID() string {
	s.next++
	return s.prefix + "-" + strconv.Itoa(s.next)
}
