// Package report renders persisted profiling history for consumers.
package report

import (
	"encoding/json"
	"io"

	"github.com/maxgio92/tickprof/pkg/persist"
	"github.com/maxgio92/tickprof/pkg/profiler"
)

type HistoryReport struct {
	Slot  uint8  `json:"slot"`
	Ticks []Tick `json:"ticks"`
}

// Tick holds the call sites measured during one flushed cycle.
type Tick struct {
	Index     int        `json:"tick"`
	CallSites []CallSite `json:"call_sites"`
}

type CallSite struct {
	Label      string    `json:"label"`
	CPUPerCall []float64 `json:"cpu_per_call"`
}

type HistoryReportOption func(*HistoryReport)

func NewReport(opts ...HistoryReportOption) *HistoryReport {
	report := &HistoryReport{Ticks: []Tick{}}
	for _, opt := range opts {
		opt(report)
	}

	return report
}

func WithReportSlot(slot uint8) HistoryReportOption {
	return func(r *HistoryReport) {
		r.Slot = slot
	}
}

func WithReportHistory(history persist.History) HistoryReportOption {
	return func(r *HistoryReport) {
		r.Ticks = make([]Tick, 0, len(history.Data))
		for i, table := range history.Data {
			r.Ticks = append(r.Ticks, newTick(i, table))
		}
	}
}

func newTick(index int, table *profiler.Table) Tick {
	tick := Tick{Index: index, CallSites: make([]CallSite, 0, table.Len())}
	for i, label := range table.Labels() {
		row, _ := table.Data(profiler.ID{Index: i})
		tick.CallSites = append(tick.CallSites, CallSite{
			Label:      label,
			CPUPerCall: row.CPUPerCall,
		})
	}

	return tick
}

func (r *HistoryReport) WriteReport(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	return encoder.Encode(r)
}
