// Copyright (c) 2025 Binadox (https://binadox.com)
// This software is licensed under the zlib license. See LICENSE file for details.

package pkgmgr

import (
	"vl_installer/internal/platform"
	"vl_installer/internal/runner"
)

// Manager defines the interface for all package manager implementations
type Manager interface {
	// Name returns the package manager name (e.g., "apt", "yum")
	Name() string

	// InstallCommand builds the non-interactive install command for packages
	InstallCommand(packages ...string) runner.Command
}

// System returns the Linux package managers the installer knows about
func System(sudo bool) []Manager {
	return []Manager{
		NewApt(sudo),
		NewAptGet(sudo),
		NewYum(sudo),
	}
}

// ByName returns a system package manager by name, or nil if not found
func ByName(name string, sudo bool) Manager {
	for _, m := range System(sudo) {
		if m.Name() == name {
			return m
		}
	}
	return nil
}

// SupportedNames returns names of all system package managers
func SupportedNames() []string {
	managers := System(false)
	names := make([]string, len(managers))
	for i, m := range managers {
		names[i] = m.Name()
	}
	return names
}

// ForDistro returns the low-level package manager of a distribution family,
// or nil for an unknown distribution
func ForDistro(d platform.Distro, sudo bool) Manager {
	switch d {
	case platform.DistroDebian:
		return NewAptGet(sudo)
	case platform.DistroRedHat:
		return NewYum(sudo)
	default:
		return nil
	}
}
