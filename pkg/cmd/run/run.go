package run

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/maxgio92/tickprof/internal/output"
	"github.com/maxgio92/tickprof/pkg/cmd/common"
	"github.com/maxgio92/tickprof/pkg/cmd/options"
	"github.com/maxgio92/tickprof/pkg/persist"
	"github.com/maxgio92/tickprof/pkg/profiler"
)

const CmdName = "run"

type Options struct {
	ticks    int
	interval time.Duration
	seed     uint64
	status   bool

	*options.CommonOptions
}

func NewCommand(opts *options.CommonOptions) *cobra.Command {
	o := new(Options)
	o.CommonOptions = opts
	cmd := &cobra.Command{
		Use:   CmdName,
		Short: "Run the built-in workload for a number of ticks",
		Long: fmt.Sprintf(`
%s drives a synthetic tick loop instrumented with scope sentinels.
At the end of every tick the measurements are appended to the history of the segment slot
and the profiler starts the next tick empty.
`, CmdName),
		DisableAutoGenTag: true,
		RunE:              o.Run,
	}

	cmd.Flags().IntVar(&o.ticks, "ticks", 0, "Number of ticks to run (defaults to the configured value)")
	cmd.Flags().DurationVar(&o.interval, "interval", 0, "Pause between ticks (defaults to the configured value)")
	cmd.Flags().Uint64Var(&o.seed, "seed", 1, "Seed of the synthetic workload")
	cmd.Flags().BoolVar(&o.status, "status", false, "Print a status line after each tick")

	return cmd
}

func (o *Options) Run(cmd *cobra.Command, _ []string) error {
	cfg, err := common.Setup(cmd, o.CommonOptions, CmdName)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("ticks") {
		cfg.Ticks = o.ticks
	}
	if cmd.Flags().Changed("interval") {
		cfg.Interval = o.interval
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "invalid run options")
	}

	store, err := common.OpenStore(cfg, o.Logger)
	if err != nil {
		return err
	}
	c, err := common.NewClock(cfg)
	if err != nil {
		return errors.Wrap(err, "failed to create clock")
	}

	// The configured clock only applies if nothing initialized the process-wide
	// session before; Init logs a warning otherwise.
	session := profiler.Init(profiler.WithClock(c), profiler.WithLogger(o.Logger))
	session.Reset()

	slot := uint8(cfg.Segments.Slot)
	w := newWorkload(session, o.seed)

	o.Logger.Info().Int("ticks", cfg.Ticks).Uint8("slot", slot).Str("dir", cfg.Segments.Dir).Msg("starting")

	tick := 0
loop:
	for ; tick < cfg.Ticks; tick++ {
		recorder := persist.ReadFromSegmentOrDefault(store, slot,
			persist.WithSession(session),
			persist.WithLogger(o.Logger),
		)

		w.tick()

		if o.status {
			snapshot := session.Snapshot()
			sites, calls, cpu := summarize(snapshot)
			output.PrintRight(cmd.OutOrStdout(), output.PrettyTickStatus(tick+1, cfg.Ticks, sites, calls, cpu))
		}

		if err := recorder.Close(); err != nil {
			return errors.Wrapf(err, "failed to flush tick %d", tick)
		}

		if tick+1 == cfg.Ticks {
			continue
		}
		select {
		case <-o.Ctx.Done():
			o.Logger.Info().Msg("terminating...")
			tick++
			break loop
		case <-time.After(cfg.Interval):
		}
	}
	if o.status {
		fmt.Fprintln(cmd.OutOrStdout())
	}

	o.Logger.Info().Int("ticks", tick).Uint8("slot", slot).Msg("completed")

	return nil
}

// summarize returns the number of call sites and calls of a tick, and the cost
// of its root scope.
func summarize(table *profiler.Table) (sites, calls int, cpu float64) {
	for i, label := range table.Labels() {
		row, _ := table.Data(profiler.ID{Index: i})
		calls += len(row.CPUPerCall)
		if label == scopeTick {
			for _, v := range row.CPUPerCall {
				cpu += v
			}
		}
	}

	return table.Len(), calls, cpu
}
