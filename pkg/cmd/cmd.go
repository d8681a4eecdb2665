package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/maxgio92/tickprof/internal/settings"
	"github.com/maxgio92/tickprof/pkg/cmd/export"
	"github.com/maxgio92/tickprof/pkg/cmd/reset"
	"github.com/maxgio92/tickprof/pkg/cmd/run"
	"github.com/maxgio92/tickprof/pkg/cmd/show"
)

const logLevelInfo = "info"

func NewCommand(o *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   settings.CmdName,
		Short: fmt.Sprintf("%s is a per-tick call-cost profiler", settings.CmdName),
		Long: fmt.Sprintf(`
%s is a per-tick call-cost profiler for code running under a fixed CPU budget per cycle.
It records the cost of every call of each instrumented call site and persists the history
of each cycle into capacity-bounded segments.
`, settings.CmdName),
		DisableAutoGenTag: true,
	}

	cmd.PersistentFlags().StringVar(&o.LogLevel, "log-level", logLevelInfo, "Log level (trace, debug, info, warn, error, fatal, panic)")
	cmd.PersistentFlags().StringVarP(&o.ConfigPath, "config", "c", "", "Path to a YAML configuration file")
	cmd.PersistentFlags().StringVar(&o.Dir, "dir", settings.DefaultSegmentDir, "Directory of the segment files")
	cmd.PersistentFlags().IntVar(&o.Slot, "slot", settings.DefaultSlot, "Segment slot holding the history")

	cmd.AddCommand(run.NewCommand(o.CommonOptions))
	cmd.AddCommand(show.NewCommand(o.CommonOptions))
	cmd.AddCommand(export.NewCommand(o.CommonOptions))
	cmd.AddCommand(reset.NewCommand(o.CommonOptions))

	return cmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := log.New(
		log.ConsoleWriter{Out: os.Stderr},
	).With().Timestamp().Logger()

	opts := NewOptions(
		WithContext(ctx),
		WithLogger(logger),
	)

	if err := NewCommand(opts).Execute(); err != nil {
		os.Exit(1)
	}
}
