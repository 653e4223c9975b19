// Copyright (c) 2025 Binadox (https://binadox.com)
// This software is licensed under the zlib license. See LICENSE file for details.

package dto

import "time"

// Status is the outcome of a single installer step
type Status string

const (
	StatusOK      Status = "ok"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// Severity decides whether a failed step aborts the run
type Severity string

const (
	SeverityFatal       Severity = "fatal"
	SeverityRecoverable Severity = "recoverable"
)

// StepReport is the serialized outcome of one step
type StepReport struct {
	Name       string   `json:"name"`
	Status     Status   `json:"status"`
	Severity   Severity `json:"severity"`
	Message    string   `json:"message,omitempty"`
	Error      string   `json:"error,omitempty"`
	DurationMS int64    `json:"durationMs"`
}

// RunReport is the serialized outcome of one installer run
type RunReport struct {
	ID         string       `json:"id"`
	StartedAt  time.Time    `json:"startedAt"`
	FinishedAt time.Time    `json:"finishedAt"`
	OS         string       `json:"os"`
	GPU        *bool        `json:"gpu,omitempty"` // nil when never probed
	ExitCode   int          `json:"exitCode"`
	Steps      []StepReport `json:"steps"`
}

// Failed returns the steps that did not succeed
func (r RunReport) Failed() []StepReport {
	var failed []StepReport
	for _, s := range r.Steps {
		if s.Status == StatusFailed {
			failed = append(failed, s)
		}
	}
	return failed
}
