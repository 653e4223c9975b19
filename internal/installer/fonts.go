// Copyright (c) 2025 Binadox (https://binadox.com)
// This software is licensed under the zlib license. See LICENSE file for details.

package installer

import (
	"context"

	"vl_installer/internal/pkgmgr"
	"vl_installer/internal/platform"
)

// Font packages per distribution family
const (
	DebianFontPackage = "fonts-noto"
	RedHatFontPackage = "google-noto*"
)

func fontPackage(d platform.Distro) string {
	if d == platform.DistroRedHat {
		return RedHatFontPackage
	}
	return DebianFontPackage
}

// installFonts installs the Noto fonts through the distribution's package manager
func (i *Installer) installFonts(ctx context.Context) StepResult {
	sev := Severity(StepFonts)
	if i.opts.OS != platform.Linux {
		return skipped(StepFonts, sev, "not required on "+i.opts.OS.DisplayName())
	}

	distro := platform.DetectDistro(i.opts.MarkerRoot)
	mgr := pkgmgr.ForDistro(distro, i.opts.Sudo)
	if mgr == nil {
		msg := "Unrecognized Linux distribution, please install Noto fonts manually"
		i.console.Warn(msg)
		return skipped(StepFonts, sev, msg)
	}

	i.logger.Printf("Detected %s distribution, installing fonts with %s", distro, mgr.Name())
	if err := i.runner.Run(ctx, mgr.InstallCommand(fontPackage(distro))); err != nil {
		msg := "Failed to install Noto fonts, please install manually"
		i.console.Error(msg)
		return failed(StepFonts, sev, msg, err)
	}

	msg := "Successfully installed Noto fonts using " + mgr.Name()
	i.console.Success(msg)
	return ok(StepFonts, sev, msg)
}
