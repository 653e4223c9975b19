// Copyright (c) 2025 Binadox (https://binadox.com)
// This software is licensed under the zlib license. See LICENSE file for details.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"vl_installer/internal/config"
	"vl_installer/internal/console"
	"vl_installer/internal/fetch"
	"vl_installer/internal/gpu"
	"vl_installer/internal/installer"
	"vl_installer/internal/mirror"
	"vl_installer/internal/platform"
	"vl_installer/internal/runner"
	"vl_installer/internal/state"
)

var (
	// Version info (set by ldflags)
	version   = "dev"
	buildTime = "unknown"
	commit    = "unknown"

	// Global flags
	cfgFile  string
	flags    config.Flags
	dryRun   bool
	jsonOut  bool
	exitCode = int(installer.ExitSuccess)
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(2)
	}
	os.Exit(exitCode)
}

var rootCmd = &cobra.Command{
	Use:   "vl_installer",
	Short: "Environment installer for VideoLingo",
	Long: `Prepares the Python environment of VideoLingo (PyTorch, fonts,
requirements and FFmpeg) and starts the application.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runInstall,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration helpers",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the effective configuration to a YAML file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigInit,
}

func init() {
	// Set version template to include build info
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(fmt.Sprintf("vl_installer version %s (commit: %s, built: %s)\n", version, commit, buildTime))

	// Global flags for all commands
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file path")
	pf.StringVar(&flags.WorkDir, "work-dir", "", "application directory (default: current directory)")
	pf.StringVar(&flags.Python, "python", "", "Python interpreter (default: python3, python on Windows)")
	pf.StringVar(&flags.StateFile, "state-file", "", "path to the run history database")
	pf.StringVar(&flags.LogFile, "log-file", "", "path to log file, or STDERR")

	// Install flags
	f := rootCmd.Flags()
	f.StringVar(&flags.RequirementsFile, "requirements", "", "requirements file (default: requirements.txt)")
	f.BoolVar(&flags.NoLaunch, "no-launch", false, "do not start the application after installing")
	f.BoolVar(&flags.NoMirror, "no-mirror", false, "skip package index mirror selection")
	f.BoolVar(&dryRun, "dry-run", false, "print commands instead of running them")
	f.BoolVar(&jsonOut, "json", false, "print the run report as JSON")

	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(debugCmd)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	// Apply CLI flags
	cfg.ApplyFlags(flags)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// openLog returns the diagnostic log destination: a file, STDERR or nowhere
func openLog(path string) (io.Writer, func(), error) {
	switch {
	case path == "":
		return io.Discard, func() {}, nil
	case strings.EqualFold(path, "STDERR"):
		return os.Stderr, func() {}, nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, func() { f.Close() }, nil
}

func runInstall(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logWriter, closeLog, err := openLog(cfg.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()
	logger := log.New(logWriter, "[vl_installer] ", log.LstdFlags)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Human output goes to stderr when stdout carries the JSON report
	out := os.Stdout
	if jsonOut {
		out = os.Stderr
	}
	con := console.New(out)

	execRunner := runner.NewExec()
	var r runner.Runner = execRunner
	if dryRun {
		r = &runner.DryRun{Out: con.Writer(), Next: execRunner}
	}

	deps := installer.Deps{
		Runner:     r,
		Prober:     gpu.NewNvidiaSMI(execRunner),
		Downloader: fetch.NewClient(cfg.DownloadTimeout),
		Mirrors:    mirror.NewSelector(cfg.Mirror.Candidates, cfg.Mirror.Timeout),
		Console:    con,
		Logger:     logger,
	}

	opts := installer.Options{
		OS:                platform.CurrentOS(),
		Python:            cfg.Python,
		WorkDir:           cfg.WorkDir,
		RequirementsFile:  cfg.RequirementsFile,
		BootstrapPackages: cfg.BootstrapPackages,
		LaunchCommand:     cfg.LaunchCommand,
		Launch:            cfg.Launch,
		Mirror:            cfg.Mirror.Enabled,
		Sudo:              cfg.UseSudo(platform.IsPrivileged()),
		DryRun:            dryRun,
	}

	result, runErr := installer.New(opts, deps).Run(ctx)

	if !dryRun {
		recordRun(cfg.StateFile, result, logger)
	}

	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result.Report()); err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
	}

	var fatal *installer.FatalError
	switch {
	case errors.As(runErr, &fatal):
		logger.Printf("Installation aborted: %v", runErr)
		exitCode = int(installer.ExitFatal)
	case runErr != nil:
		// Interrupted before completion
		logger.Printf("Installation interrupted: %v", runErr)
		con.Error(fmt.Sprintf("Installation interrupted: %v", runErr))
		exitCode = int(installer.ExitFatal)
	default:
		exitCode = int(result.ExitCode)
	}

	return nil
}

// recordRun stores the run in the history database; failures only warn
func recordRun(stateFile string, result *installer.Result, logger *log.Logger) {
	mgr, err := state.Open(stateFile)
	if err != nil {
		logger.Printf("Warning: failed to open run history: %v", err)
		return
	}
	defer mgr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := mgr.Record(ctx, result.Report()); err != nil {
		logger.Printf("Warning: failed to record run: %v", err)
		return
	}
	logger.Printf("Run %s recorded in %s", result.ID, mgr.Path())
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	path := "vl_installer.yaml"
	if len(args) == 1 {
		path = args[0]
	}

	if err := cfg.SaveToFile(path); err != nil {
		return err
	}

	fmt.Printf("Configuration written to %s\n", path)
	return nil
}
