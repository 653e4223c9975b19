// Copyright (c) 2025 Binadox (https://binadox.com)
// This software is licensed under the zlib license. See LICENSE file for details.

package installer

import (
	"context"
	"fmt"
)

// RequirementsEnv is appended to the inherited environment of the
// requirements install only
var RequirementsEnv = []string{
	"PIP_NO_CACHE_DIR=0",
	"PYTHONIOENCODING=utf-8",
}

func (i *Installer) installRequirements(ctx context.Context) StepResult {
	sev := Severity(StepRequirements)

	i.console.Info("Installing dependencies from " + i.opts.RequirementsFile + "...")
	cmd := i.pip.RequirementsCommand(i.opts.RequirementsFile).WithEnv(RequirementsEnv...)
	cmd.Dir = i.opts.WorkDir

	if err := i.runner.Run(ctx, cmd); err != nil {
		msg := fmt.Sprintf("Failed to install requirements: %v", err)
		i.console.Error(msg)
		return failed(StepRequirements, sev, msg, err)
	}
	return ok(StepRequirements, sev, "")
}
