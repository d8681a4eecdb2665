package profiler

import (
	"github.com/pkg/errors"
)

var (
	ErrRowNotFound    = errors.New("profile row not found")
	ErrStaleSentinel  = errors.New("sentinel released after its session was reset")
	ErrLengthMismatch = errors.New("labels and data lengths differ")
)
