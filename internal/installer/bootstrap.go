// Copyright (c) 2025 Binadox (https://binadox.com)
// This software is licensed under the zlib license. See LICENSE file for details.

package installer

import (
	"context"
	"fmt"
	"strings"
)

// bootstrap installs the helper packages the application's tooling imports
func (i *Installer) bootstrap(ctx context.Context) StepResult {
	sev := Severity(StepBootstrap)
	if len(i.opts.BootstrapPackages) == 0 {
		return skipped(StepBootstrap, sev, "no helper packages configured")
	}

	i.console.Info("Installing helper packages: " + strings.Join(i.opts.BootstrapPackages, ", "))
	cmd := i.pip.InstallCommand(i.opts.BootstrapPackages...)
	cmd.Dir = i.opts.WorkDir
	if err := i.runner.Run(ctx, cmd); err != nil {
		err = fmt.Errorf("failed to install helper packages: %w", err)
		i.console.Error(err.Error())
		return failed(StepBootstrap, sev, "helper package install failed", err)
	}
	return ok(StepBootstrap, sev, "")
}
