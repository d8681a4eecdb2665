package report_test

import (
	"bytes"
	"testing"

	"github.com/google/pprof/profile"
	"github.com/stretchr/testify/require"

	"github.com/maxgio92/tickprof/pkg/persist"
	"github.com/maxgio92/tickprof/pkg/report"
)

func TestBuildPprof(t *testing.T) {
	p, err := report.BuildPprof(history(t))
	require.NoError(t, err)

	require.Len(t, p.SampleType, 1)
	require.Equal(t, "cpu", p.SampleType[0].Type)
	require.Equal(t, "microseconds", p.SampleType[0].Unit)

	// One sample per recorded call, one function per call site with samples.
	require.Len(t, p.Sample, 4)
	require.Len(t, p.Function, 2)
	require.Len(t, p.Location, 2)

	byName := make(map[string][]int64)
	ticks := make(map[string][]int64)
	for _, s := range p.Sample {
		name := s.Location[0].Line[0].Function.Name
		byName[name] = append(byName[name], s.Value[0])
		ticks[name] = append(ticks[name], s.NumLabel["tick"]...)
	}
	require.Equal(t, []int64{1500, 250, 2000}, byName["loop"])
	require.Equal(t, []int64{0, 0, 1}, ticks["loop"])
	require.Equal(t, []int64{3000}, byName["spawn"])
	require.Equal(t, []int64{1}, ticks["spawn"])
}

func TestBuildPprofWithUnit(t *testing.T) {
	p, err := report.BuildPprof(history(t), report.WithUnit("milliseconds", 1))
	require.NoError(t, err)

	require.Equal(t, "milliseconds", p.SampleType[0].Unit)
	require.Equal(t, int64(2), p.Sample[0].Value[0])
}

func TestBuildPprofEmptyHistory(t *testing.T) {
	p, err := report.BuildPprof(persist.History{})
	require.NoError(t, err)
	require.Empty(t, p.Sample)
}

func TestWritePprofParses(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WritePprof(&buf, history(t)))

	parsed, err := profile.Parse(&buf)
	require.NoError(t, err)
	require.Len(t, parsed.Sample, 4)
	require.Equal(t, "cpu", parsed.SampleType[0].Type)
}

func TestWritePprofKeepsTickLabels(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WritePprof(&buf, history(t)))

	parsed, err := profile.Parse(&buf)
	require.NoError(t, err)
	require.Len(t, parsed.Sample, 4)

	ticks := make([]int64, 0, len(parsed.Sample))
	for _, s := range parsed.Sample {
		require.Contains(t, s.NumLabel, "tick")
		require.Equal(t, []string{"tick"}, s.NumUnit["tick"])
		ticks = append(ticks, s.NumLabel["tick"]...)
	}
	require.Equal(t, []int64{0, 0, 1, 1}, ticks)
}
