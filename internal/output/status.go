package output

import (
	"fmt"
)

// PrettyTickStatus formats the progress of a run of ticks along with the
// measurements of the last one.
func PrettyTickStatus(tick, ticks, sites, calls int, cpu float64) string {
	percent := 0
	if ticks > 0 {
		percent = tick * 100 / ticks
	}

	return fmt.Sprintf("%-40s %-16s %-14s %s",
		fmt.Sprintf("Ticks: [%s] %d/%d", ProgressBar(percent, 20), tick, ticks),
		fmt.Sprintf("Call sites: %d", sites),
		fmt.Sprintf("Calls: %d", calls),
		fmt.Sprintf("CPU: %.3f", cpu),
	)
}
