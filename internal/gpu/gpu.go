// Copyright (c) 2025 Binadox (https://binadox.com)
// This software is licensed under the zlib license. See LICENSE file for details.

// Package gpu detects NVIDIA GPUs through the nvidia-smi diagnostic tool.
//
// Only the exit status of nvidia-smi decides GPU presence. A missing binary
// is treated the same as a machine without a GPU.
package gpu

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"vl_installer/internal/runner"
)

// SMICommand is the vendor diagnostic tool
const SMICommand = "nvidia-smi"

// Prober reports whether a CUDA capable GPU is present
type Prober interface {
	Probe(ctx context.Context) bool
}

// Info describes the first GPU reported by nvidia-smi
type Info struct {
	Name   string `json:"name"`
	VRAMMB int    `json:"vram_mb"`
	Driver string `json:"driver"`
}

// NvidiaSMI probes through nvidia-smi
type NvidiaSMI struct {
	Runner runner.Runner
}

// NewNvidiaSMI creates a prober using r
func NewNvidiaSMI(r runner.Runner) *NvidiaSMI {
	return &NvidiaSMI{Runner: r}
}

// Probe runs nvidia-smi once and reports whether it exited zero
func (n *NvidiaSMI) Probe(ctx context.Context) bool {
	_, err := n.Runner.Output(ctx, runner.New(SMICommand))
	return err == nil
}

// Query returns name, memory and driver of the first GPU
func (n *NvidiaSMI) Query(ctx context.Context) (*Info, error) {
	out, err := n.Runner.Output(ctx, runner.New(SMICommand,
		"--query-gpu=name,memory.total,driver_version",
		"--format=csv,noheader,nounits"))
	if err != nil {
		return nil, fmt.Errorf("failed to query GPU: %w", err)
	}
	return parseQuery(string(out))
}

// parseQuery parses the first CSV line of nvidia-smi --query-gpu output
func parseQuery(out string) (*Info, error) {
	line := strings.TrimSpace(strings.SplitN(strings.TrimSpace(out), "\n", 2)[0])
	if line == "" {
		return nil, fmt.Errorf("empty nvidia-smi output")
	}

	parts := strings.Split(line, ",")
	if len(parts) < 3 {
		return nil, fmt.Errorf("unexpected nvidia-smi output: %q", line)
	}

	vram, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse memory %q: %w", parts[1], err)
	}

	return &Info{
		Name:   "NVIDIA " + strings.TrimSpace(parts[0]),
		VRAMMB: int(vram),
		Driver: strings.TrimSpace(parts[2]),
	}, nil
}
