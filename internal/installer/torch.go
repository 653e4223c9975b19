// Copyright (c) 2025 Binadox (https://binadox.com)
// This software is licensed under the zlib license. See LICENSE file for details.

package installer

import (
	"context"
	"fmt"

	"vl_installer/internal/platform"
)

// TorchVariant is a pinned PyTorch build
type TorchVariant struct {
	Name     string
	Packages []string
	IndexURL string
}

var (
	// CPUTorch is installed on macOS and on machines without an NVIDIA GPU
	CPUTorch = TorchVariant{
		Name:     "cpu",
		Packages: []string{"torch==2.1.2", "torchaudio==2.1.2"},
	}

	// CUDATorch is installed when nvidia-smi succeeds
	CUDATorch = TorchVariant{
		Name:     "cuda",
		Packages: []string{"torch==2.0.0", "torchaudio==2.0.0"},
		IndexURL: "https://download.pytorch.org/whl/cu118",
	}
)

// Args returns the pip install arguments for the variant
func (v TorchVariant) Args() []string {
	args := append([]string{}, v.Packages...)
	if v.IndexURL != "" {
		args = append(args, "--index-url", v.IndexURL)
	}
	return args
}

// chooseTorch decides the variant. The GPU is probed at most once and never
// on macOS, where the returned flag is nil.
func (i *Installer) chooseTorch(ctx context.Context) (TorchVariant, *bool, string) {
	if i.opts.OS == platform.Darwin {
		return CPUTorch, nil, "MacOS detected, installing CPU version of PyTorch... However, it would be extremely slow for transcription."
	}

	hasGPU := i.prober.Probe(ctx)
	if hasGPU {
		return CUDATorch, &hasGPU, "NVIDIA GPU detected, installing CUDA version of PyTorch..."
	}
	return CPUTorch, &hasGPU, "No NVIDIA GPU detected, installing CPU version of PyTorch... However, it would be extremely slow for transcription."
}

func (i *Installer) installTorch(ctx context.Context) StepResult {
	sev := Severity(StepTorch)

	variant, hasGPU, msg := i.chooseTorch(ctx)
	i.gpu = hasGPU
	i.console.Info(msg)

	cmd := i.pip.InstallCommand(variant.Args()...)
	cmd.Dir = i.opts.WorkDir
	if err := i.runner.Run(ctx, cmd); err != nil {
		err = fmt.Errorf("failed to install PyTorch (%s): %w", variant.Name, err)
		i.console.Error(err.Error())
		return failed(StepTorch, sev, "PyTorch install failed", err)
	}
	return ok(StepTorch, sev, "installed "+variant.Name+" PyTorch")
}
