package domain

import "time"

// Report summarizes one synchronization pass. It is informational: per-cell
// failures never make the pass itself fail.
type Report struct {
	RunID        string
	Rows         int
	Columns      int
	Empty        int
	Unrecognized int
	Delivered    int
	Failed       int
	Requests     int
	Failures     []CreationRequest
	Duration     time.Duration
}

// Cells returns the number of cells visited.
func (r Report) Cells() int {
	return r.Rows * r.Columns
}
