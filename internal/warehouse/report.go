//-------------------------------------------------------------------------
//
// Smart Store Warehouse
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package warehouse

import (
	"errors"
	"fmt"
	"time"
)

// Step outcomes.
const (
	StatusOK      = "ok"
	StatusWarning = "warning"
	StatusFailed  = "failed"
)

// StepResult records one build step.
type StepResult struct {
	Name     string
	Status   string
	Duration time.Duration
	Tables   []LoadResult
	Err      error
}

// BuildReport records a whole build.
type BuildReport struct {
	RunID      string
	Target     string
	StartedAt  time.Time
	Duration   time.Duration
	FinalState string
	Steps      []StepResult
}

// Step returns the result for a step name.
func (r *BuildReport) Step(name string) (StepResult, bool) {
	for _, s := range r.Steps {
		if s.Name == name {
			return s, true
		}
	}
	return StepResult{}, false
}

// Tables returns the load results of every table step in order.
func (r *BuildReport) Tables() []LoadResult {
	var tables []LoadResult
	for _, s := range r.Steps {
		tables = append(tables, s.Tables...)
	}
	return tables
}

// Failed returns the steps that failed.
func (r *BuildReport) Failed() []StepResult {
	var failed []StepResult
	for _, s := range r.Steps {
		if s.Status == StatusFailed {
			failed = append(failed, s)
		}
	}
	return failed
}

// Err joins the errors of all failed steps, or returns nil.
func (r *BuildReport) Err() error {
	var errs []error
	for _, s := range r.Failed() {
		errs = append(errs, fmt.Errorf("%s: %w", s.Name, s.Err))
	}
	return errors.Join(errs...)
}
