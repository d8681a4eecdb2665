// Package config loads the CLI configuration from an optional YAML file.
package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/maxgio92/tickprof/internal/settings"
	"github.com/maxgio92/tickprof/pkg/segment"
)

const (
	ClockProcess = "process"
	ClockWall    = "wall"
)

var (
	ErrInvalidSlot     = errors.New("segment slot out of range")
	ErrInvalidCapacity = errors.New("segment capacity must be positive")
	ErrInvalidClock    = errors.New("unknown clock")
	ErrInvalidTicks    = errors.New("ticks must be positive")
	ErrInvalidInterval = errors.New("interval must not be negative")
)

type Config struct {
	Segments Segments      `yaml:"segments"`
	Clock    string        `yaml:"clock"`
	Ticks    int           `yaml:"ticks"`
	Interval time.Duration `yaml:"interval"`
}

type Segments struct {
	Dir      string `yaml:"dir"`
	Slot     int    `yaml:"slot"`
	Capacity int    `yaml:"capacity"`
}

func Default() Config {
	return Config{
		Segments: Segments{
			Dir:      settings.DefaultSegmentDir,
			Slot:     settings.DefaultSlot,
			Capacity: segment.DefaultCapacity,
		},
		Clock:    ClockProcess,
		Ticks:    10,
		Interval: 100 * time.Millisecond,
	}
}

// Load reads the YAML file at path over the defaults. An empty path returns
// the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "failed to read config file %s", path)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, errors.Wrapf(err, "failed to parse config file %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, errors.Wrapf(err, "invalid config file %s", path)
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if c.Segments.Slot < 0 || c.Segments.Slot >= segment.MaxSlots {
		return errors.Wrapf(ErrInvalidSlot, "%d", c.Segments.Slot)
	}
	if c.Segments.Capacity <= 0 {
		return ErrInvalidCapacity
	}
	switch c.Clock {
	case ClockProcess, ClockWall:
	default:
		return errors.Wrapf(ErrInvalidClock, "%q", c.Clock)
	}
	if c.Ticks <= 0 {
		return ErrInvalidTicks
	}
	if c.Interval < 0 {
		return ErrInvalidInterval
	}

	return nil
}
