// Copyright (c) 2025 Binadox (https://binadox.com)
// This software is licensed under the zlib license. See LICENSE file for details.

package installer

import (
	"fmt"
	"time"

	"vl_installer/internal/dto"
	"vl_installer/internal/platform"
)

// ExitCode represents the installer exit status
type ExitCode int

const (
	ExitSuccess ExitCode = 0 // No fatal step failed; recoverable failures are reported only
	ExitFatal   ExitCode = 1 // A fatal step failed and the run stopped
)

// Step names
const (
	StepBootstrap    = "bootstrap"
	StepMirror       = "mirror"
	StepTorch        = "torch"
	StepFonts        = "fonts"
	StepRequirements = "requirements"
	StepFFmpeg       = "ffmpeg"
	StepLaunch       = "launch"
)

// StepResult is the outcome of a single step
type StepResult struct {
	Name     string
	Status   dto.Status
	Severity dto.Severity
	Message  string
	Err      error
	Duration time.Duration
}

// Failed reports whether the step failed
func (s StepResult) Failed() bool {
	return s.Status == dto.StatusFailed
}

// Fatal reports whether the step failed and must stop the run
func (s StepResult) Fatal() bool {
	return s.Failed() && s.Severity == dto.SeverityFatal
}

func ok(name string, sev dto.Severity, msg string) StepResult {
	return StepResult{Name: name, Status: dto.StatusOK, Severity: sev, Message: msg}
}

func skipped(name string, sev dto.Severity, msg string) StepResult {
	return StepResult{Name: name, Status: dto.StatusSkipped, Severity: sev, Message: msg}
}

func failed(name string, sev dto.Severity, msg string, err error) StepResult {
	return StepResult{Name: name, Status: dto.StatusFailed, Severity: sev, Message: msg, Err: err}
}

// Result contains the results of an installer run
type Result struct {
	ID         string
	OS         platform.OS
	GPU        *bool // nil when the GPU was never probed
	StartedAt  time.Time
	FinishedAt time.Time
	Steps      []StepResult
	ExitCode   ExitCode
}

// Step returns the result of the named step
func (r *Result) Step(name string) (StepResult, bool) {
	for _, s := range r.Steps {
		if s.Name == name {
			return s, true
		}
	}
	return StepResult{}, false
}

// Failed returns every failed step in run order
func (r *Result) Failed() []StepResult {
	var out []StepResult
	for _, s := range r.Steps {
		if s.Failed() {
			out = append(out, s)
		}
	}
	return out
}

// Report converts the result for JSON output and the journal
func (r *Result) Report() dto.RunReport {
	report := dto.RunReport{
		ID:         r.ID,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		OS:         string(r.OS),
		GPU:        r.GPU,
		ExitCode:   int(r.ExitCode),
		Steps:      make([]dto.StepReport, 0, len(r.Steps)),
	}
	for _, s := range r.Steps {
		step := dto.StepReport{
			Name:       s.Name,
			Status:     s.Status,
			Severity:   s.Severity,
			Message:    s.Message,
			DurationMS: s.Duration.Milliseconds(),
		}
		if s.Err != nil {
			step.Error = s.Err.Error()
		}
		report.Steps = append(report.Steps, step)
	}
	return report
}

// FatalError is returned by Run when a fatal step failed
type FatalError struct {
	Step string
	Err  error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("%s step failed: %v", e.Step, e.Err)
}

func (e *FatalError) Unwrap() error {
	return e.Err
}
