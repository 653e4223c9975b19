// Copyright (c) 2025 Binadox (https://binadox.com)
// This software is licensed under the zlib license. See LICENSE file for details.

package installer

import (
	"context"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"vl_installer/internal/console"
	"vl_installer/internal/dto"
	"vl_installer/internal/gpu"
	"vl_installer/internal/mirror"
	"vl_installer/internal/pkgmgr"
	"vl_installer/internal/platform"
	"vl_installer/internal/runner"
)

// Logo is printed in the welcome banner
const Logo = `
__     ___     _            _     _
\ \   / (_) __| | ___  ___ | |   (_)_ __   __ _  ___
 \ \ / /| |/ _` + "`" + ` |/ _ \/ _ \| |   | | '_ \ / _` + "`" + ` |/ _ \
  \ V / | | (_| |  __/ (_) | |___| | | | | (_| | (_) |
   \_/  |_|\__,_|\___|\___/|_____|_|_| |_|\__, |\___/
                                          |___/
`

// Downloader fetches a URL into a file
type Downloader interface {
	Download(ctx context.Context, url, dest string) (int64, error)
}

// MirrorSelector picks the package index pip should use
type MirrorSelector interface {
	Select(ctx context.Context) (*mirror.Probe, error)
}

// Options configure a run
type Options struct {
	OS                platform.OS
	Python            string
	WorkDir           string
	RequirementsFile  string
	BootstrapPackages []string
	LaunchCommand     []string
	Launch            bool
	Mirror            bool
	Sudo              bool
	DryRun            bool

	// MarkerRoot is the filesystem root the distribution marker files are
	// looked up under; empty means "/"
	MarkerRoot string
}

// Deps are the collaborators a run talks to
type Deps struct {
	Runner     runner.Runner
	Prober     gpu.Prober
	Downloader Downloader
	Mirrors    MirrorSelector
	Console    *console.Console
	Logger     *log.Logger
}

// Installer orchestrates the environment bootstrap
type Installer struct {
	opts     Options
	runner   runner.Runner
	prober   gpu.Prober
	download Downloader
	mirrors  MirrorSelector
	console  *console.Console
	logger   *log.Logger
	pip      *pkgmgr.Pip

	gpu *bool
}

// New creates a new Installer instance
func New(opts Options, deps Deps) *Installer {
	if opts.OS == "" {
		opts.OS = platform.CurrentOS()
	}
	if opts.Python == "" {
		opts.Python = opts.OS.DefaultPython()
	}
	if opts.WorkDir == "" {
		opts.WorkDir = "."
	}
	if opts.MarkerRoot == "" {
		opts.MarkerRoot = "/"
	}
	if deps.Console == nil {
		deps.Console = console.NewPlain(os.Stdout)
	}
	if deps.Logger == nil {
		deps.Logger = log.New(io.Discard, "", 0)
	}
	if deps.Prober == nil {
		deps.Prober = gpu.NewNvidiaSMI(deps.Runner)
	}

	return &Installer{
		opts:     opts,
		runner:   deps.Runner,
		prober:   deps.Prober,
		download: deps.Downloader,
		mirrors:  deps.Mirrors,
		console:  deps.Console,
		logger:   deps.Logger,
		pip:      pkgmgr.NewPip(opts.Python),
	}
}

// Run executes the full installation. Recoverable step failures are
// reported in the result; a fatal failure stops the run and is returned
// as *FatalError.
func (i *Installer) Run(ctx context.Context) (*Result, error) {
	i.gpu = nil
	result := &Result{
		ID:        uuid.NewString(),
		OS:        i.opts.OS,
		StartedAt: time.Now(),
	}

	i.logger.Printf("Starting installation %s on %s", result.ID, i.opts.OS)

	i.console.Banner(Logo, "VideoLingo installer")
	i.console.Header("Starting Installation")

	steps := []func(context.Context) StepResult{
		i.bootstrap,
		i.selectMirror,
		i.installTorch,
		i.installFonts,
		i.installRequirements,
		i.installFFmpeg,
	}

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return i.interrupted(result, err)
		}

		r := i.runStep(ctx, step)
		result.Steps = append(result.Steps, r)
		result.GPU = i.gpu

		if r.Fatal() {
			result.ExitCode = ExitFatal
			return i.finish(result), &FatalError{Step: r.Name, Err: r.Err}
		}
	}

	// a step interrupted by a signal fails as recoverable; never launch after it
	if err := ctx.Err(); err != nil {
		return i.interrupted(result, err)
	}

	i.printGuidance(result)
	result.Steps = append(result.Steps, i.runStep(ctx, i.launch))

	return i.finish(result), nil
}

func (i *Installer) runStep(ctx context.Context, step func(context.Context) StepResult) StepResult {
	start := time.Now()
	r := step(ctx)
	r.Duration = time.Since(start)

	switch {
	case r.Err != nil:
		i.logger.Printf("Step %s: %s (%s): %v", r.Name, r.Status, r.Severity, r.Err)
	case r.Message != "":
		i.logger.Printf("Step %s: %s: %s", r.Name, r.Status, r.Message)
	default:
		i.logger.Printf("Step %s: %s", r.Name, r.Status)
	}
	return r
}

func (i *Installer) interrupted(result *Result, err error) (*Result, error) {
	i.logger.Printf("Installation %s interrupted: %v", result.ID, err)
	result.ExitCode = ExitFatal
	return i.finish(result), err
}

func (i *Installer) finish(result *Result) *Result {
	result.FinishedAt = time.Now()
	i.logger.Printf("Installation %s finished with exit code %d, %d failed step(s)",
		result.ID, result.ExitCode, len(result.Failed()))
	return result
}

// printGuidance prints the completion banner and operator hints
func (i *Installer) printGuidance(result *Result) {
	if failures := result.Failed(); len(failures) > 0 {
		names := make([]string, len(failures))
		for n, f := range failures {
			names[n] = f.Name
		}
		i.console.Warn("Some optional steps failed (" + strings.Join(names, ", ") + "), see the messages above")
	}

	i.console.Done("Installation completed")
	i.console.Println("To start the application, run:")
	i.console.Command(strings.Join(i.opts.LaunchCommand, " "))
	i.console.Note("Note: First startup may take up to 1 minute")

	i.console.Println()
	i.console.Note("If the application fails to start:")
	i.console.Note("1. Check your network connection")
	i.console.Note("2. Re-run the installer: vl_installer")
}

// severity of each step; only helper bootstrap and PyTorch abort the run
var severities = map[string]dto.Severity{
	StepBootstrap:    dto.SeverityFatal,
	StepMirror:       dto.SeverityRecoverable,
	StepTorch:        dto.SeverityFatal,
	StepFonts:        dto.SeverityRecoverable,
	StepRequirements: dto.SeverityRecoverable,
	StepFFmpeg:       dto.SeverityRecoverable,
	StepLaunch:       dto.SeverityRecoverable,
}

// Severity returns how a failure of the named step is handled
func Severity(step string) dto.Severity {
	if s, ok := severities[step]; ok {
		return s
	}
	return dto.SeverityRecoverable
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
