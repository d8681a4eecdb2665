package profiler

import (
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/maxgio92/tickprof/pkg/clock"
)

// Sentinel measures the clock between its creation and Stop, and appends the
// delta to the row of its ID. Release it with defer so that it runs on every
// exit path of the scope, panics included.
type Sentinel struct {
	id         ID
	session    *Session
	clock      clock.Clock
	generation uint64
	start      float64

	stopped atomic.Bool
}

// NewSentinel reads c once and returns a running sentinel for id. It does not
// check id: an invalid ID is reported by Stop.
func NewSentinel(id ID, session *Session, c clock.Clock) *Sentinel {
	if c == nil {
		c = session.clock
	}

	return newSentinel(id, session, c, session.currentGeneration())
}

func newSentinel(id ID, session *Session, c clock.Clock, generation uint64) *Sentinel {
	return &Sentinel{
		id:         id,
		session:    session,
		clock:      c,
		generation: generation,
		start:      c(),
	}
}

func (s *Sentinel) ID() ID {
	return s.id
}

// Elapsed returns the delta measured so far without recording it.
func (s *Sentinel) Elapsed() float64 {
	return s.clock() - s.start
}

// Stop records one sample. Calls after the first are no-ops.
//
// Stop panics if the row of the sentinel is gone, either because the ID was
// never valid or because the session was reset while the sentinel was running.
func (s *Sentinel) Stop() {
	if !s.stopped.CompareAndSwap(false, true) {
		return
	}

	delta := s.clock() - s.start
	if err := s.session.record(s.id, s.generation, delta); err != nil {
		panic(errors.Wrapf(err, "expected a profile row to be available by id %s", s.id))
	}
}
