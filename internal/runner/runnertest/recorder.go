// Copyright (c) 2025 Binadox (https://binadox.com)
// This software is licensed under the zlib license. See LICENSE file for details.

// Package runnertest provides a recording runner for tests
package runnertest

import (
	"context"
	"errors"
	"strings"
	"sync"

	"vl_installer/internal/runner"
)

// ErrFailed is returned for commands scripted to fail
var ErrFailed = errors.New("scripted failure")

// Call is one recorded invocation
type Call struct {
	Method  string // "run", "output" or "start"
	Command runner.Command
}

// Line renders the recorded command line
func (c Call) Line() string {
	return c.Command.String()
}

// Recorder records commands instead of executing them.
// Commands whose line starts with a prefix registered via Fail return ErrFailed.
type Recorder struct {
	mu      sync.Mutex
	calls   []Call
	fail    []string
	outputs []scripted
}

type scripted struct {
	prefix string
	out    []byte
}

// New creates an empty recorder
func New() *Recorder {
	return &Recorder{}
}

// Fail makes every command whose line starts with prefix fail
func (r *Recorder) Fail(prefix string) *Recorder {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fail = append(r.fail, prefix)
	return r
}

// SetOutput scripts stdout for commands whose line starts with prefix.
// When several prefixes match, the longest wins.
func (r *Recorder) SetOutput(prefix string, out string) *Recorder {
	r.mu.Lock()
	defer r.mu.Unlock()
	for n := range r.outputs {
		if r.outputs[n].prefix == prefix {
			r.outputs[n].out = []byte(out)
			return r
		}
	}
	r.outputs = append(r.outputs, scripted{prefix: prefix, out: []byte(out)})
	return r
}

// Run records the command
func (r *Recorder) Run(_ context.Context, c runner.Command) error {
	return r.record("run", c)
}

// Output records the command and returns scripted stdout
func (r *Recorder) Output(_ context.Context, c runner.Command) ([]byte, error) {
	if err := r.record("output", c); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	line := c.String()
	var best *scripted
	for n := range r.outputs {
		s := &r.outputs[n]
		if strings.HasPrefix(line, s.prefix) && (best == nil || len(s.prefix) > len(best.prefix)) {
			best = s
		}
	}
	if best == nil {
		return nil, nil
	}
	return best.out, nil
}

// Start records the command
func (r *Recorder) Start(c runner.Command) error {
	return r.record("start", c)
}

func (r *Recorder) record(method string, c runner.Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls = append(r.calls, Call{Method: method, Command: c})
	line := c.String()
	for _, prefix := range r.fail {
		if strings.HasPrefix(line, prefix) {
			return &runner.ExitError{Command: line, ExitCode: 1, Err: ErrFailed}
		}
	}
	return nil
}

// Calls returns all recorded invocations in order
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Lines returns the recorded command lines in order
func (r *Recorder) Lines() []string {
	calls := r.Calls()
	lines := make([]string, len(calls))
	for i, c := range calls {
		lines[i] = c.Line()
	}
	return lines
}

// Count returns how many recorded command lines start with prefix
func (r *Recorder) Count(prefix string) int {
	n := 0
	for _, line := range r.Lines() {
		if strings.HasPrefix(line, prefix) {
			n++
		}
	}
	return n
}
