// Package profiler measures the resource cost of named call sites.
//
// A Session pairs a Table with the name interner that assigns call sites to
// its rows, guarded by a single lock. Instrument a scope with:
//
//	defer session.Start("pathfinding").Stop()
//
// or, against the process-wide session:
//
//	defer profiler.Start("pathfinding").Stop()
package profiler

import (
	"sync"

	log "github.com/rs/zerolog"

	"github.com/maxgio92/tickprof/pkg/clock"
)

type Session struct {
	mu         sync.Mutex
	table      *Table
	ids        map[string]ID
	generation uint64

	clock  clock.Clock
	logger log.Logger
}

type SessionOption func(*Session)

func WithClock(c clock.Clock) SessionOption {
	return func(s *Session) {
		s.clock = c
	}
}

func WithLogger(logger log.Logger) SessionOption {
	return func(s *Session) {
		s.logger = logger
	}
}

func NewSession(opts ...SessionOption) *Session {
	s := &Session{
		table:  NewTable(),
		ids:    make(map[string]ID),
		logger: log.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.clock == nil {
		s.clock = clock.NewWall()
	}
	s.logger = s.logger.With().Str("component", "profiler").Logger()

	return s
}

// Resolve returns the ID interned for name, adding a row on first use.
func (s *Session) Resolve(name string) ID {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.resolve(name)
}

func (s *Session) resolve(name string) ID {
	if id, ok := s.ids[name]; ok {
		return id
	}
	id := s.table.AddEntity(name)
	s.ids[name] = id
	s.logger.Trace().Str("name", name).Stringer("id", id).Msg("new call site")

	return id
}

// AddEntity adds a row to the table without interning name.
func (s *Session) AddEntity(name string) ID {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.table.AddEntity(name)
}

// Start resolves name and starts measuring it with the session clock.
func (s *Session) Start(name string) *Sentinel {
	s.mu.Lock()
	id := s.resolve(name)
	generation := s.generation
	s.mu.Unlock()

	return newSentinel(id, s, s.clock, generation)
}

// StartID starts measuring an already resolved ID with the session clock.
func (s *Session) StartID(id ID) *Sentinel {
	return NewSentinel(id, s, s.clock)
}

func (s *Session) Label(id ID) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.table.Label(id)
}

// Data returns a copy of the row for id.
func (s *Session) Data(id ID) (Row, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.table.Data(id)
	if !ok {
		return Row{}, false
	}

	return row.clone(), true
}

func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.table.Len()
}

// Snapshot returns a deep copy of the table.
func (s *Session) Snapshot() *Table {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.table.Clone()
}

// Drain returns a deep copy of the table and resets the session, atomically.
func (s *Session) Drain() *Table {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.table.Clone()
	s.reset()

	return snapshot
}

// Reset clears the table and the interner together. Sentinels started before
// the reset can no longer be released.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reset()
}

func (s *Session) reset() {
	rows := s.table.Len()
	s.table.Clear()
	s.ids = make(map[string]ID)
	s.generation++
	s.logger.Debug().Int("rows", rows).Uint64("generation", s.generation).Msg("session reset")
}

func (s *Session) currentGeneration() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.generation
}

func (s *Session) record(id ID, generation uint64, delta float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.generation {
		return ErrStaleSentinel
	}
	row := s.table.DataMut(id)
	if row == nil {
		return ErrRowNotFound
	}
	row.CPUPerCall = append(row.CPUPerCall, delta)

	return nil
}
