// Copyright (c) 2025 Binadox (https://binadox.com)
// This software is licensed under the zlib license. See LICENSE file for details.

package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"vl_installer/internal/gpu"
	"vl_installer/internal/installer"
	"vl_installer/internal/mirror"
	"vl_installer/internal/pkgmgr"
	"vl_installer/internal/platform"
	"vl_installer/internal/runner"
	"vl_installer/internal/state"
)

var debugCmd = &cobra.Command{
	Use:   "debug",
	Short: "Debug commands for testing",
	Long:  `Various debug commands for testing individual components.`,
}

var debugPlatformCmd = &cobra.Command{
	Use:   "platform",
	Short: "Show detected operating system and distribution",
	RunE:  runDebugPlatform,
}

var debugGPUCmd = &cobra.Command{
	Use:   "gpu",
	Short: "Probe for an NVIDIA GPU",
	RunE:  runDebugGPU,
}

var debugMirrorCmd = &cobra.Command{
	Use:   "mirror",
	Short: "Probe every package index mirror",
	RunE:  runDebugMirror,
}

var debugHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent installer runs",
	RunE:  runDebugHistory,
}

// Debug command specific flags
var historyLimit int

func init() {
	debugHistoryCmd.Flags().IntVar(&historyLimit, "limit", 10, "number of runs to show")

	debugCmd.AddCommand(debugPlatformCmd)
	debugCmd.AddCommand(debugGPUCmd)
	debugCmd.AddCommand(debugMirrorCmd)
	debugCmd.AddCommand(debugHistoryCmd)
}

func runDebugPlatform(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	o := platform.CurrentOS()
	privileged := platform.IsPrivileged()

	fmt.Printf("Platform: %s (%s)\n", o.DisplayName(), o)
	fmt.Printf("Supported: %t\n", o.IsSupported())
	fmt.Printf("Privileged: %t\n", privileged)
	fmt.Printf("Python: %s\n", cfg.Python)
	fmt.Printf("Sudo: %s (use sudo: %t)\n", cfg.Sudo, cfg.UseSudo(privileged))

	if o != platform.Linux {
		fmt.Printf("FFmpeg: manual download into %s\n", cfg.WorkDir)
		return nil
	}

	distro := platform.DetectDistro("/")
	fmt.Printf("Distribution family: %s\n", distro)
	if name, err := platform.PrettyName("/"); err == nil {
		fmt.Printf("Distribution: %s\n", name)
	}

	if mgr := pkgmgr.ForDistro(distro, cfg.UseSudo(privileged)); mgr != nil {
		fmt.Printf("Font package manager: %s\n", mgr.Name())
	} else {
		fmt.Println("Font package manager: none (unrecognized distribution)")
	}
	fmt.Printf("FFmpeg package managers: %s (known: %s)\n",
		strings.Join(installer.FFmpegManagers, ", then "), strings.Join(pkgmgr.SupportedNames(), ", "))

	return nil
}

func runDebugGPU(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	smi := gpu.NewNvidiaSMI(runner.NewExec())
	if !smi.Probe(ctx) {
		fmt.Println("No NVIDIA GPU detected (nvidia-smi failed or is missing)")
		return nil
	}

	fmt.Println("NVIDIA GPU detected")
	info, err := smi.Query(ctx)
	if err != nil {
		fmt.Printf("  Details unavailable: %v\n", err)
		return nil
	}
	fmt.Printf("  Name: %s\n", info.Name)
	fmt.Printf("  Memory: %s\n", humanize.IBytes(uint64(info.VRAMMB)*1024*1024))
	fmt.Printf("  Driver: %s\n", info.Driver)
	return nil
}

func runDebugMirror(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	sel := mirror.NewSelector(cfg.Mirror.Candidates, cfg.Mirror.Timeout)
	probes := sel.ProbeAll(context.Background())

	fmt.Printf("Probed %d mirrors:\n", len(probes))
	for _, p := range probes {
		if p.OK() {
			fmt.Printf("  %-50s %s\n", p.URL, p.Latency.Round(time.Millisecond))
		} else {
			fmt.Printf("  %-50s unreachable: %v\n", p.URL, p.Err)
		}
	}

	best, err := sel.Select(context.Background())
	if err != nil {
		fmt.Printf("\nNo mirror selected: %v\n", err)
		return nil
	}
	fmt.Printf("\nFastest: %s\n", best.URL)
	return nil
}

func runDebugHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	mgr, err := state.Open(cfg.StateFile)
	if err != nil {
		return fmt.Errorf("failed to open run history: %w", err)
	}
	defer mgr.Close()

	total, err := mgr.Count(context.Background())
	if err != nil {
		return fmt.Errorf("failed to count runs: %w", err)
	}
	fmt.Printf("History database: %s (%d runs)\n\n", mgr.Path(), total)

	runs, err := mgr.Recent(context.Background(), historyLimit)
	if err != nil {
		return fmt.Errorf("failed to read run history: %w", err)
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded")
		return nil
	}

	for _, run := range runs {
		gpuFlag := "not probed"
		if run.GPU != nil {
			gpuFlag = fmt.Sprintf("%t", *run.GPU)
		}
		fmt.Printf("%s (%s)  %s  os=%s gpu=%s exit=%d\n",
			run.StartedAt.Local().Format("2006-01-02 15:04:05"), humanize.Time(run.StartedAt),
			run.ID, run.OS, gpuFlag, run.ExitCode)
		for _, s := range run.Steps {
			line := fmt.Sprintf("    %-13s %-8s", s.Name, s.Status)
			if s.Error != "" {
				line += " " + s.Error
			} else if s.Message != "" {
				line += " " + s.Message
			}
			fmt.Println(line)
		}
	}

	return nil
}
