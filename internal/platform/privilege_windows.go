//go:build windows

// Copyright (c) 2025 Binadox (https://binadox.com)
// This software is licensed under the zlib license. See LICENSE file for details.

package platform

import "golang.org/x/sys/windows"

// IsPrivileged reports whether the process token is elevated
func IsPrivileged() bool {
	return windows.GetCurrentProcessToken().IsElevated()
}
