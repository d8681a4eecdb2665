// Package clock provides resource clocks: zero-argument functions returning the
// cumulative amount of a scarce resource consumed so far.
package clock

import (
	"os"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/shirou/gopsutil/v4/process"
)

// Clock returns the current cumulative resource usage.
type Clock func() float64

// NewProcessCPU returns a clock reading the user plus system CPU time of the
// current process, in milliseconds.
func NewProcessCPU() (Clock, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, errors.Wrap(err, "failed to open current process")
	}
	if _, err := proc.Times(); err != nil {
		return nil, errors.Wrap(err, "failed to read process cpu times")
	}

	var (
		mu   sync.Mutex
		last float64
	)
	return func() float64 {
		mu.Lock()
		defer mu.Unlock()

		times, err := proc.Times()
		if err != nil {
			// Keep the last reading so that a transient failure yields a zero delta.
			return last
		}
		last = (times.User + times.System) * 1000

		return last
	}, nil
}

// NewWall returns a clock reading the milliseconds elapsed since it was created.
func NewWall() Clock {
	start := time.Now()

	return func() float64 {
		return float64(time.Since(start)) / float64(time.Millisecond)
	}
}

// NewStep returns a scripted clock: the first reading is start+step and every
// following reading advances by step. Safe for concurrent use.
func NewStep(start, step float64) Clock {
	var mu sync.Mutex
	current := start

	return func() float64 {
		mu.Lock()
		defer mu.Unlock()

		current += step

		return current
	}
}

// NewSequence returns a clock replaying readings in order. Once exhausted it
// keeps returning the last reading.
func NewSequence(readings ...float64) Clock {
	var (
		mu sync.Mutex
		i  int
	)

	return func() float64 {
		mu.Lock()
		defer mu.Unlock()

		if len(readings) == 0 {
			return 0
		}
		if i >= len(readings) {
			return readings[len(readings)-1]
		}
		v := readings[i]
		i++

		return v
	}
}
