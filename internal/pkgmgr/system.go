// Copyright (c) 2025 Binadox (https://binadox.com)
// This software is licensed under the zlib license. See LICENSE file for details.

package pkgmgr

import "vl_installer/internal/runner"

// SystemManager is a base implementation for distribution package managers
// that install with "<binary> install -y <packages>"
type SystemManager struct {
	name string
	// sudo prefixes every command with sudo
	sudo bool
}

// NewSystemManager creates a distribution package manager
func NewSystemManager(name string, sudo bool) *SystemManager {
	return &SystemManager{name: name, sudo: sudo}
}

// NewApt creates the apt front end
func NewApt(sudo bool) *SystemManager {
	return NewSystemManager("apt", sudo)
}

// NewAptGet creates apt-get
func NewAptGet(sudo bool) *SystemManager {
	return NewSystemManager("apt-get", sudo)
}

// NewYum creates yum
func NewYum(sudo bool) *SystemManager {
	return NewSystemManager("yum", sudo)
}

// Name returns the package manager name
func (s *SystemManager) Name() string {
	return s.name
}

// InstallCommand builds "[sudo] <name> install -y <packages>"
func (s *SystemManager) InstallCommand(packages ...string) runner.Command {
	args := append([]string{"install", "-y"}, packages...)
	if s.sudo {
		return runner.New("sudo", append([]string{s.name}, args...)...)
	}
	return runner.New(s.name, args...)
}
