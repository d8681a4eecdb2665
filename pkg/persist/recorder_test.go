package persist_test

import (
	"math"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/maxgio92/tickprof/pkg/clock"
	"github.com/maxgio92/tickprof/pkg/persist"
	"github.com/maxgio92/tickprof/pkg/profiler"
	"github.com/maxgio92/tickprof/pkg/segment"
)

func nan() float64 {
	return math.NaN()
}

func newRecorder(t *testing.T, store segment.Store, slot uint8, session *profiler.Session) *persist.Recorder {
	t.Helper()

	return persist.ReadFromSegmentOrDefault(store, slot,
		persist.WithSession(session),
		persist.WithLogger(zerolog.New(zerolog.NewTestWriter(t))),
	)
}

func TestRecorderEmptyTableToEmptySlot(t *testing.T) {
	store := segment.NewMemoryStore()
	session := profiler.NewSession()

	recorder := newRecorder(t, store, 0, session)
	require.Empty(t, recorder.History().Data)
	require.NoError(t, recorder.Close())

	history, err := persist.Load(store, 0)
	require.NoError(t, err)
	require.Len(t, history.Data, 1)
	require.Zero(t, history.Data[0].Len())
	require.Empty(t, history.Data[0].Labels())
}

func TestRecorderAccumulatesCycles(t *testing.T) {
	store := segment.NewMemoryStore()
	session := profiler.NewSession(profiler.WithClock(clock.NewStep(0, 1)))

	for cycle := 1; cycle <= 3; cycle++ {
		recorder := newRecorder(t, store, 5, session)
		require.Len(t, recorder.History().Data, cycle-1)

		for i := 0; i < cycle; i++ {
			session.Start("tick").Stop()
		}
		require.NoError(t, recorder.Close())

		// The live session starts the next cycle empty.
		require.Zero(t, session.Len())
	}

	history, err := persist.Load(store, 5)
	require.NoError(t, err)
	require.Len(t, history.Data, 3)
	for i, snapshot := range history.Data {
		require.Equal(t, []string{"tick"}, snapshot.Labels())
		row, ok := snapshot.Data(profiler.ID{Index: 0})
		require.True(t, ok)
		require.Len(t, row.CPUPerCall, i+1)
	}

	// Other slots are untouched.
	_, ok := store.Get(0)
	require.False(t, ok)
}

func TestRecorderCorruptSegment(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"garbage", "{{{"},
		{"mismatched table", `{"data":[{"labels":["a","b"],"data":[]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := segment.NewMemoryStore()
			require.NoError(t, store.Set(1, tt.value))

			session := profiler.NewSession()
			session.Resolve("fresh")

			recorder := newRecorder(t, store, 1, session)
			require.Empty(t, recorder.History().Data)
			require.NoError(t, recorder.Close())

			history, err := persist.Load(store, 1)
			require.NoError(t, err)
			require.Len(t, history.Data, 1)
			require.Equal(t, []string{"fresh"}, history.Data[0].Labels())
		})
	}
}

func TestRecorderSnapshotIsIndependent(t *testing.T) {
	store := segment.NewMemoryStore()
	session := profiler.NewSession(profiler.WithClock(clock.NewStep(0, 1)))

	recorder := newRecorder(t, store, 0, session)
	session.Start("a").Stop()
	require.NoError(t, recorder.Close())

	session.Start("b").Stop()

	history := recorder.History()
	require.Len(t, history.Data, 1)
	require.Equal(t, []string{"a"}, history.Data[0].Labels())
}

func TestRecorderCloseTwice(t *testing.T) {
	recorder := newRecorder(t, segment.NewMemoryStore(), 0, profiler.NewSession())

	require.NoError(t, recorder.Close())
	require.ErrorIs(t, recorder.Close(), persist.ErrRecorderClosed)
}

func TestRecorderStoreFailure(t *testing.T) {
	store := segment.NewMemoryStore(segment.WithMemoryCapacity(16))
	session := profiler.NewSession()
	session.Resolve(strings.Repeat("long-call-site-name", 4))

	recorder := newRecorder(t, store, 0, session)
	err := recorder.Close()
	require.ErrorIs(t, err, segment.ErrSegmentTooLarge)

	_, ok := store.Get(0)
	require.False(t, ok)
}

func TestRecorderSerializationFailure(t *testing.T) {
	store := segment.NewMemoryStore()
	session := profiler.NewSession()
	id := session.AddEntity("broken")
	profiler.NewSentinel(id, session, clock.NewSequence(0, nan())).Stop()

	recorder := newRecorder(t, store, 0, session)

	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(error)
		require.True(t, ok)
		require.ErrorIs(t, err, persist.ErrSerialize)

		_, stored := store.Get(0)
		require.False(t, stored)
	}()
	_ = recorder.Close()
}

func TestRecorderDefaultSession(t *testing.T) {
	store := segment.NewMemoryStore()
	profiler.Default().Reset()

	recorder := persist.ReadFromSegmentOrDefault(store, 9)
	func() {
		defer profiler.Start("persist.default").Stop()
	}()
	require.NoError(t, recorder.Close())

	history, err := persist.Load(store, 9)
	require.NoError(t, err)
	require.Len(t, history.Data, 1)
	require.Equal(t, []string{"persist.default"}, history.Data[0].Labels())
	require.Zero(t, profiler.Default().Len())
}
