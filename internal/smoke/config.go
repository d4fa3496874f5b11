// Package smoke drives the create/list/update/delete scenario against a
// running songs server and reports each step.
package smoke

import (
	"errors"
	"time"
)

// ErrStepFailed wraps the error of the first failing step.
var ErrStepFailed = errors.New("smoke step failed")

// DefaultTimeout bounds each HTTP request when Config.Timeout is zero.
const DefaultTimeout = 10 * time.Second

// Config holds configuration for a smoke run.
type Config struct {
	BaseURL string        // Base URL of the service
	Timeout time.Duration // HTTP request timeout
	Verbose bool          // Log every step at info level
}

// StepResult records the outcome of one scenario step.
type StepResult struct {
	Name     string
	Method   string
	Path     string
	Status   int
	Duration time.Duration
	Err      error
}

// Report holds the outcome of a smoke run.
type Report struct {
	Steps     []StepResult
	TrackID   string
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}

// Passed reports whether every step succeeded.
func (r *Report) Passed() bool {
	for _, s := range r.Steps {
		if s.Err != nil {
			return false
		}
	}
	return len(r.Steps) > 0
}
