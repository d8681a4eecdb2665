package persist_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/maxgio92/tickprof/pkg/clock"
	"github.com/maxgio92/tickprof/pkg/persist"
	"github.com/maxgio92/tickprof/pkg/profiler"
)

// MockStore implements segment.Store for testing purposes.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Get(slot uint8) (string, bool) {
	args := m.Called(slot)
	return args.String(0), args.Bool(1)
}

func (m *MockStore) Set(slot uint8, value string) error {
	args := m.Called(slot, value)
	return args.Error(0)
}

func TestRecorderWritesBackToItsSlot(t *testing.T) {
	store := new(MockStore)
	store.On("Get", uint8(42)).Return(`{"data":[{"labels":["old"],"data":[{"cpu_per_call":[1]}]}]}`, true)
	store.On("Set", uint8(42),
		`{"data":[{"labels":["old"],"data":[{"cpu_per_call":[1]}]},{"labels":["new"],"data":[{"cpu_per_call":[1]}]}]}`,
	).Return(nil).Once()

	session := profiler.NewSession(profiler.WithClock(clock.NewStep(0, 1)))
	recorder := persist.ReadFromSegmentOrDefault(store, 42, persist.WithSession(session))
	require.Equal(t, uint8(42), recorder.Slot())
	require.Len(t, recorder.History().Data, 1)

	session.Start("new").Stop()
	require.NoError(t, recorder.Close())

	store.AssertExpectations(t)
}

func TestRecorderPropagatesStoreError(t *testing.T) {
	errFull := errors.New("segment full")

	store := new(MockStore)
	store.On("Get", uint8(0)).Return("", false)
	store.On("Set", uint8(0), mock.AnythingOfType("string")).Return(errFull)

	recorder := persist.ReadFromSegmentOrDefault(store, 0, persist.WithSession(profiler.NewSession()))
	err := recorder.Close()
	require.ErrorIs(t, err, errFull)

	store.AssertExpectations(t)
}
