package model

import "time"

// RunSummary captures metrics from a single consolidation run.
type RunSummary struct {
	RunID            string
	Vaccine          string
	FilesFound       int
	FilesProcessed   int
	FilesSkipped     int
	RecordsTotal     int
	Warnings         []string
	DurationDiscover time.Duration
	DurationProcess  time.Duration
	DurationMerge    time.Duration
	DurationTotal    time.Duration
}

// MaxVisibleWarnings bounds how many warnings the console summary prints;
// the rest are reported as a suppressed count.
const MaxVisibleWarnings = 10

// VisibleWarnings returns the first MaxVisibleWarnings warnings and the
// number suppressed.
func (s *RunSummary) VisibleWarnings() ([]string, int) {
	if len(s.Warnings) <= MaxVisibleWarnings {
		return s.Warnings, 0
	}
	return s.Warnings[:MaxVisibleWarnings], len(s.Warnings) - MaxVisibleWarnings
}
