package models

import "time"

// Totals are the outcome counters of a run.
type Totals struct {
	Delivered int `json:"delivered" yaml:"delivered"` // picked up by a courier
	Discarded int `json:"discarded" yaml:"discarded"` // evicted from overflow to make room
	Wasted    int `json:"wasted" yaml:"wasted"`       // freshness reached zero on a shelf
}

// RunSummary describes a finished simulation run.
type RunSummary struct {
	RunID      string    `json:"run_id" yaml:"run_id"`
	Seed       int64     `json:"seed" yaml:"seed"`
	Orders     int       `json:"orders" yaml:"orders"`
	Ticks      int       `json:"ticks" yaml:"ticks"`
	Totals     Totals    `json:"totals" yaml:"totals"`
	StartedAt  time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time `json:"finished_at" yaml:"finished_at"`
}
