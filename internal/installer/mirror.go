// Copyright (c) 2025 Binadox (https://binadox.com)
// This software is licensed under the zlib license. See LICENSE file for details.

package installer

import (
	"context"
	"fmt"
	"time"
)

// selectMirror points pip at the fastest reachable package index
func (i *Installer) selectMirror(ctx context.Context) StepResult {
	sev := Severity(StepMirror)
	if !i.opts.Mirror || i.mirrors == nil {
		return skipped(StepMirror, sev, "mirror selection disabled")
	}

	i.console.Info("Selecting the fastest package index mirror...")
	choice, err := i.mirrors.Select(ctx)
	if err != nil {
		i.console.Warn(fmt.Sprintf("Mirror selection failed, keeping pip defaults: %v", err))
		return failed(StepMirror, sev, "no mirror selected", err)
	}

	cmd := i.pip.SetIndexCommand(choice.URL)
	cmd.Dir = i.opts.WorkDir
	if err := i.runner.Run(ctx, cmd); err != nil {
		err = fmt.Errorf("failed to configure pip index: %w", err)
		i.console.Warn(err.Error())
		return failed(StepMirror, sev, "pip index not configured", err)
	}

	msg := fmt.Sprintf("Using %s (%s)", choice.URL, choice.Latency.Round(time.Millisecond))
	i.console.Success(msg)
	return ok(StepMirror, sev, msg)
}
