package run

import (
	"math/rand/v2"

	"github.com/maxgio92/tickprof/pkg/profiler"
)

const (
	scopeTick     = "tick"
	scopeRoom     = "tick.room"
	scopeCreep    = "tick.room.creep"
	scopePathfind = "pathfind"
	scopeMarket   = "tick.market"
)

// workload is a synthetic game loop: every tick visits a few rooms, each room
// moves a few creeps, some creeps search a path, and the market is visited
// from time to time.
type workload struct {
	session *profiler.Session
	rng     *rand.Rand
	sink    uint64
}

func newWorkload(session *profiler.Session, seed uint64) *workload {
	return &workload{
		session: session,
		rng:     rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

func (w *workload) tick() {
	defer w.session.Start(scopeTick).Stop()

	rooms := 1 + w.rng.IntN(3)
	for i := 0; i < rooms; i++ {
		w.room()
	}
	w.market()
}

func (w *workload) room() {
	defer w.session.Start(scopeRoom).Stop()

	creeps := w.rng.IntN(4)
	for i := 0; i < creeps; i++ {
		w.creep()
	}
}

func (w *workload) creep() {
	defer w.session.Start(scopeCreep).Stop()

	if w.rng.IntN(2) == 0 {
		w.pathfind()
	}
	w.burn(2_000)
}

func (w *workload) pathfind() {
	defer w.session.Start(scopePathfind).Stop()

	w.burn(20_000 + w.rng.IntN(20_000))
}

func (w *workload) market() {
	defer w.session.Start(scopeMarket).Stop()

	if w.rng.IntN(3) != 0 {
		return
	}
	w.burn(5_000)
}

func (w *workload) burn(n int) {
	x := w.sink | 1
	for i := 0; i < n; i++ {
		x ^= x << 13
		x ^= x >> 7
		x ^= x << 17
	}
	w.sink = x
}
