// Copyright (c) 2025 Binadox (https://binadox.com)
// This software is licensed under the zlib license. See LICENSE file for details.

package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Command is a single external program invocation
type Command struct {
	Name string
	Args []string
	Env  []string // extra KEY=VALUE pairs appended to the parent environment
	Dir  string
}

// New creates a command from a program name and its arguments
func New(name string, args ...string) Command {
	return Command{Name: name, Args: args}
}

// WithEnv returns a copy of c with extra environment entries
func (c Command) WithEnv(env ...string) Command {
	c.Env = append(append([]string(nil), c.Env...), env...)
	return c
}

// String renders the command line for logs and dry runs
func (c Command) String() string {
	parts := append([]string{c.Name}, c.Args...)
	return strings.Join(parts, " ")
}

// Runner executes external commands
type Runner interface {
	// Run executes the command and waits for it to exit
	Run(ctx context.Context, cmd Command) error

	// Output executes the command and returns its stdout
	Output(ctx context.Context, cmd Command) ([]byte, error)

	// Start launches the command detached and does not wait for it
	Start(cmd Command) error
}

// ExitError reports a command that ran and exited non-zero
type ExitError struct {
	Command  string
	ExitCode int
	Err      error
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("command %q exited with status %d", e.Command, e.ExitCode)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// Exec runs commands on the host
type Exec struct {
	Stdout io.Writer
	Stderr io.Writer
}

// NewExec creates a runner that streams child output to the console
func NewExec() *Exec {
	return &Exec{Stdout: os.Stdout, Stderr: os.Stderr}
}

// Run executes the command and waits for it to exit
func (e *Exec) Run(ctx context.Context, c Command) error {
	cmd := e.build(ctx, c)
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr
	return wrap(c, cmd.Run())
}

// Output executes the command and returns its stdout
func (e *Exec) Output(ctx context.Context, c Command) ([]byte, error) {
	cmd := e.build(ctx, c)
	out, err := cmd.Output()
	return out, wrap(c, err)
}

// Start launches the command in its own process group and releases it
func (e *Exec) Start(c Command) error {
	cmd := e.build(context.Background(), c)
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr
	detach(cmd)

	if err := cmd.Start(); err != nil {
		return wrap(c, err)
	}

	if err := cmd.Process.Release(); err != nil {
		return fmt.Errorf("failed to release %s: %w", c.Name, err)
	}
	return nil
}

func (e *Exec) build(ctx context.Context, c Command) *exec.Cmd {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}
	return cmd
}

// wrap attaches the command line to exec errors
func wrap(c Command, err error) error {
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{Command: c.String(), ExitCode: exitErr.ExitCode(), Err: err}
	}
	return fmt.Errorf("failed to run %q: %w", c.String(), err)
}

// DryRun prints mutating commands instead of running them.
// Output is delegated so read-only probes still see the real host.
type DryRun struct {
	Out  io.Writer
	Next Runner
}

// Run prints the command
func (d *DryRun) Run(_ context.Context, c Command) error {
	d.print(c)
	return nil
}

// Output delegates to the wrapped runner
func (d *DryRun) Output(ctx context.Context, c Command) ([]byte, error) {
	if d.Next == nil {
		d.print(c)
		return nil, nil
	}
	return d.Next.Output(ctx, c)
}

// Start prints the command
func (d *DryRun) Start(c Command) error {
	d.print(c)
	return nil
}

func (d *DryRun) print(c Command) {
	var env string
	if len(c.Env) > 0 {
		env = strings.Join(c.Env, " ") + " "
	}
	fmt.Fprintf(d.Out, "+ %s%s\n", env, c.String())
}
