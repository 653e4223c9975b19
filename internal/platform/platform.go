// Copyright (c) 2025 Binadox (https://binadox.com)
// This software is licensed under the zlib license. See LICENSE file for details.

package platform

import (
	"runtime"
)

// OS represents the operating system type
type OS string

const (
	Linux   OS = "linux"
	Windows OS = "windows"
	Darwin  OS = "darwin"
	Other   OS = "other"
)

// CurrentOS returns the current operating system
func CurrentOS() OS {
	return Parse(runtime.GOOS)
}

// Parse maps a GOOS value onto the OS families the installer branches on
func Parse(goos string) OS {
	switch OS(goos) {
	case Linux, Windows, Darwin:
		return OS(goos)
	default:
		return Other
	}
}

// IsSupported checks if the OS has a media tool install path
func (o OS) IsSupported() bool {
	switch o {
	case Linux, Windows, Darwin:
		return true
	default:
		return false
	}
}

// DisplayName returns a human readable OS name
func (o OS) DisplayName() string {
	switch o {
	case Linux:
		return "Linux"
	case Windows:
		return "Windows"
	case Darwin:
		return "macOS"
	default:
		return runtime.GOOS
	}
}

// DefaultPython returns the interpreter name used when none is configured
func (o OS) DefaultPython() string {
	if o == Windows {
		return "python"
	}
	return "python3"
}

// ExecutableName appends the platform executable suffix to name
func (o OS) ExecutableName(name string) string {
	if o == Windows {
		return name + ".exe"
	}
	return name
}
