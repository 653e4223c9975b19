//go:build !windows

// Copyright (c) 2025 Binadox (https://binadox.com)
// This software is licensed under the zlib license. See LICENSE file for details.

package runner

import (
	"os/exec"
	"syscall"
)

// detach puts the child in its own process group so terminal signals
// aimed at the installer do not reach it
func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}
