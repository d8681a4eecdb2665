package report

import (
	"io"
	"math"

	"github.com/google/pprof/profile"
	"github.com/pkg/errors"

	"github.com/maxgio92/tickprof/pkg/persist"
	"github.com/maxgio92/tickprof/pkg/profiler"
)

const (
	sampleType   = "cpu"
	tickLabel    = "tick"
	defaultUnit  = "microseconds"
	defaultScale = 1000
)

type pprofOptions struct {
	unit  string
	scale float64
}

type PprofOption func(*pprofOptions)

// WithUnit sets the unit of the exported values. Recorded samples are
// multiplied by scale and rounded. The default assumes millisecond samples and
// exports microseconds.
func WithUnit(unit string, scale float64) PprofOption {
	return func(o *pprofOptions) {
		o.unit = unit
		o.scale = scale
	}
}

// BuildPprof converts history into a pprof profile where every recorded call
// is one sample, located at a function named after its call site and labeled
// with the index of its tick.
func BuildPprof(history persist.History, opts ...PprofOption) (*profile.Profile, error) {
	o := &pprofOptions{unit: defaultUnit, scale: defaultScale}
	for _, opt := range opts {
		opt(o)
	}

	p := &profile.Profile{
		SampleType: []*profile.ValueType{{Type: sampleType, Unit: o.unit}},
		PeriodType: &profile.ValueType{Type: sampleType, Unit: o.unit},
		Period:     1,
	}

	locations := make(map[string]*profile.Location)
	location := func(label string) *profile.Location {
		if loc, ok := locations[label]; ok {
			return loc
		}
		fn := &profile.Function{
			ID:         uint64(len(p.Function) + 1),
			Name:       label,
			SystemName: label,
		}
		p.Function = append(p.Function, fn)
		loc := &profile.Location{
			ID:   uint64(len(p.Location) + 1),
			Line: []profile.Line{{Function: fn}},
		}
		p.Location = append(p.Location, loc)
		locations[label] = loc

		return loc
	}

	for tick, table := range history.Data {
		for i, label := range table.Labels() {
			row, _ := table.Data(profiler.ID{Index: i})
			for _, cpu := range row.CPUPerCall {
				p.Sample = append(p.Sample, &profile.Sample{
					Location: []*profile.Location{location(label)},
					Value:    []int64{int64(math.Round(cpu * o.scale))},
					NumLabel: map[string][]int64{tickLabel: {int64(tick)}},
					NumUnit:  map[string][]string{tickLabel: {tickLabel}},
				})
			}
		}
	}

	if err := p.CheckValid(); err != nil {
		return nil, errors.Wrap(err, "invalid pprof profile")
	}

	return p, nil
}

// WritePprof writes history as a gzipped pprof profile.
func WritePprof(w io.Writer, history persist.History, opts ...PprofOption) error {
	p, err := BuildPprof(history, opts...)
	if err != nil {
		return err
	}

	return errors.Wrap(p.Write(w), "failed to write pprof profile")
}
