package persist

import (
	"github.com/pkg/errors"
)

var (
	ErrSegmentNotFound = errors.New("segment not found")
	ErrSerialize       = errors.New("failed to serialize profile history")
	ErrRecorderClosed  = errors.New("recorder already closed")
)

// SerializeError carries the encoder error behind ErrSerialize.
type SerializeError struct {
	Err error
}

func (e *SerializeError) Error() string {
	return ErrSerialize.Error() + ": " + e.Err.Error()
}

func (e *SerializeError) Unwrap() error {
	return e.Err
}

func (e *SerializeError) Is(target error) bool {
	return target == ErrSerialize
}
