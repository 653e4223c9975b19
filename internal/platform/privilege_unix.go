//go:build !windows

// Copyright (c) 2025 Binadox (https://binadox.com)
// This software is licensed under the zlib license. See LICENSE file for details.

package platform

import "os"

// IsPrivileged reports whether the process runs as root
func IsPrivileged() bool {
	return os.Geteuid() == 0
}
