package profiler

import (
	"sync"

	log "github.com/rs/zerolog"

	"github.com/maxgio92/tickprof/pkg/clock"
)

var (
	defaultOnce    sync.Once
	defaultSession *Session
)

// Init creates the process-wide session on first call, applying opts. Later
// calls return the existing session; opts passed to them are not applied and
// a warning is logged on the logger they carry, if any.
//
// Without WithClock, the process CPU clock is used, falling back to the wall
// clock when the process cannot be inspected.
func Init(opts ...SessionOption) *Session {
	created := false
	defaultOnce.Do(func() {
		created = true
		c, err := clock.NewProcessCPU()
		if err != nil {
			c = clock.NewWall()
		}
		defaultSession = NewSession(append([]SessionOption{WithClock(c)}, opts...)...)
	})
	if !created && len(opts) > 0 {
		ignored := &Session{logger: log.Nop()}
		for _, opt := range opts {
			opt(ignored)
		}
		ignored.logger.Warn().
			Str("component", "profiler").
			Int("options", len(opts)).
			Msg("process-wide session already initialized, ignoring options")
	}

	return defaultSession
}

// Default returns the process-wide session.
func Default() *Session {
	return Init()
}

// Start starts measuring name against the process-wide session.
func Start(name string) *Sentinel {
	return Default().Start(name)
}
