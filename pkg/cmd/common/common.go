package common

import (
	"context"

	"github.com/pkg/errors"
	log "github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/maxgio92/tickprof/internal/config"
	"github.com/maxgio92/tickprof/pkg/clock"
	"github.com/maxgio92/tickprof/pkg/cmd/options"
	"github.com/maxgio92/tickprof/pkg/segment"
)

// Setup applies the log level to o, scopes its logger to component, and loads
// the configuration with the persistent flags set on the command line taking
// precedence over the file.
func Setup(cmd *cobra.Command, o *options.CommonOptions, component string) (config.Config, error) {
	if o.Ctx == nil {
		o.Ctx = context.Background()
	}

	logLevel, err := log.ParseLevel(o.LogLevel)
	if err != nil {
		return config.Config{}, errors.Wrap(err, "invalid log level")
	}
	o.Logger = o.Logger.Level(logLevel).With().Str("component", component).Logger()

	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return config.Config{}, err
	}
	if cmd.Flags().Changed("dir") || o.ConfigPath == "" {
		cfg.Segments.Dir = o.Dir
	}
	if cmd.Flags().Changed("slot") || o.ConfigPath == "" {
		cfg.Segments.Slot = o.Slot
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, errors.Wrap(err, "invalid configuration")
	}

	return cfg, nil
}

func OpenStore(cfg config.Config, logger log.Logger) (*segment.FileStore, error) {
	store, err := segment.NewFileStore(cfg.Segments.Dir,
		segment.WithFileCapacity(cfg.Segments.Capacity),
		segment.WithFileLogger(logger),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open segment store")
	}

	return store, nil
}

func NewClock(cfg config.Config) (clock.Clock, error) {
	switch cfg.Clock {
	case config.ClockWall:
		return clock.NewWall(), nil
	default:
		return clock.NewProcessCPU()
	}
}
