// Copyright (c) 2025 Binadox (https://binadox.com)
// This software is licensed under the zlib license. See LICENSE file for details.

package installer

import (
	"context"
	"errors"
	"fmt"

	"vl_installer/internal/runner"
)

// launch starts the application detached; the installer does not wait for it
func (i *Installer) launch(_ context.Context) StepResult {
	sev := Severity(StepLaunch)
	if !i.opts.Launch {
		return skipped(StepLaunch, sev, "launch disabled")
	}
	if len(i.opts.LaunchCommand) == 0 {
		err := errors.New("launch command is empty")
		i.console.Error(err.Error())
		return failed(StepLaunch, sev, "application not started", err)
	}

	cmd := runner.New(i.opts.LaunchCommand[0], i.opts.LaunchCommand[1:]...)
	cmd.Dir = i.opts.WorkDir
	if err := i.runner.Start(cmd); err != nil {
		err = fmt.Errorf("failed to start application: %w", err)
		i.console.Error(err.Error())
		return failed(StepLaunch, sev, "application not started", err)
	}
	return ok(StepLaunch, sev, "started "+cmd.String())
}
