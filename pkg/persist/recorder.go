// Package persist carries profiling tables across cycles through a segment store.
package persist

import (
	"sync/atomic"

	"github.com/pkg/errors"
	log "github.com/rs/zerolog"

	"github.com/maxgio92/tickprof/pkg/profiler"
	"github.com/maxgio92/tickprof/pkg/segment"
)

// Recorder holds the history read from a segment slot at the start of a cycle
// and, on Close, appends the cycle's table to it and writes it back.
type Recorder struct {
	store   segment.Store
	slot    uint8
	history History

	session *profiler.Session
	logger  log.Logger

	closed atomic.Bool
}

type RecorderOption func(*Recorder)

// WithSession sets the session flushed on Close. Defaults to profiler.Default().
func WithSession(session *profiler.Session) RecorderOption {
	return func(r *Recorder) {
		r.session = session
	}
}

func WithLogger(logger log.Logger) RecorderOption {
	return func(r *Recorder) {
		r.logger = logger
	}
}

// ReadFromSegmentOrDefault loads the history stored in slot. An absent or
// undecodable segment yields an empty history.
func ReadFromSegmentOrDefault(store segment.Store, slot uint8, opts ...RecorderOption) *Recorder {
	r := &Recorder{
		store:  store,
		slot:   slot,
		logger: log.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.session == nil {
		r.session = profiler.Default()
	}
	r.logger = r.logger.With().Str("component", "recorder").Uint8("slot", slot).Logger()

	history, err := Load(store, slot)
	switch {
	case errors.Is(err, ErrSegmentNotFound):
		r.logger.Debug().Msg("no history found, starting empty")
		history = History{Data: []*profiler.Table{}}
	case err != nil:
		r.logger.Warn().Err(err).Msg("discarding unreadable history")
		history = History{Data: []*profiler.Table{}}
	}
	r.history = history

	return r
}

func (r *Recorder) Slot() uint8 {
	return r.slot
}

// History returns the snapshots read from the segment, plus the one appended
// by Close once it has run.
func (r *Recorder) History() History {
	return History{Data: append([]*profiler.Table{}, r.history.Data...)}
}

// Close takes the session's table and resets the session, appends the table to
// the history and writes the history to the slot. It panics if the history
// cannot be serialized, and returns the store's error if the write fails.
func (r *Recorder) Close() error {
	if !r.closed.CompareAndSwap(false, true) {
		return ErrRecorderClosed
	}

	snapshot := r.session.Drain()
	r.history.Data = append(r.history.Data, snapshot)

	value, err := Encode(r.history)
	if err != nil {
		panic(err)
	}
	if err := r.store.Set(r.slot, value); err != nil {
		return errors.Wrapf(err, "failed to write history to segment %d", r.slot)
	}
	r.logger.Debug().
		Int("snapshots", len(r.history.Data)).
		Int("rows", snapshot.Len()).
		Int("bytes", len(value)).
		Msg("history flushed")

	return nil
}
