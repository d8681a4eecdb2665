// Package segment implements slot-indexed, capacity-bounded string stores used
// to carry profiling history across cycles.
package segment

import (
	"sync"

	"github.com/pkg/errors"
)

const (
	// MaxSlots is the number of addressable slots, 0 to MaxSlots-1.
	MaxSlots = 100

	// DefaultCapacity is the default maximum value size of a slot, in bytes.
	DefaultCapacity = 100 * 1024
)

type Store interface {
	// Get returns the value of slot, and false if it is unset or unreadable.
	Get(slot uint8) (string, bool)
	// Set replaces the value of slot.
	Set(slot uint8, value string) error
}

func validate(slot uint8, value string, capacity int) error {
	if int(slot) >= MaxSlots {
		return errors.Wrapf(ErrSlotOutOfRange, "slot %d", slot)
	}
	if len(value) > capacity {
		return errors.Wrapf(ErrSegmentTooLarge, "slot %d: %d bytes over a capacity of %d", slot, len(value), capacity)
	}

	return nil
}

// MemoryStore keeps segments in memory. It is safe for concurrent use.
type MemoryStore struct {
	mu       sync.RWMutex
	values   map[uint8]string
	capacity int
}

type MemoryStoreOption func(*MemoryStore)

func WithMemoryCapacity(capacity int) MemoryStoreOption {
	return func(s *MemoryStore) {
		s.capacity = capacity
	}
}

func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	s := &MemoryStore{
		values:   make(map[uint8]string),
		capacity: DefaultCapacity,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *MemoryStore) Get(slot uint8) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[slot]

	return v, ok
}

func (s *MemoryStore) Set(slot uint8, value string) error {
	if err := validate(slot, value, s.capacity); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[slot] = value

	return nil
}
