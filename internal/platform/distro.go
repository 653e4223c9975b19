// Copyright (c) 2025 Binadox (https://binadox.com)
// This software is licensed under the zlib license. See LICENSE file for details.

package platform

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Distro is the Linux distribution family
type Distro string

const (
	DistroDebian  Distro = "debian"
	DistroRedHat  Distro = "redhat"
	DistroUnknown Distro = "unknown"
)

// Marker files whose existence identifies the distribution family
const (
	DebianMarker  = "etc/debian_version"
	RedHatMarker  = "etc/redhat-release"
	osReleaseFile = "etc/os-release"
)

// DetectDistro checks the marker files below root ("/" on a real host).
// Debian is checked first.
func DetectDistro(root string) Distro {
	if exists(filepath.Join(root, DebianMarker)) {
		return DistroDebian
	}
	if exists(filepath.Join(root, RedHatMarker)) {
		return DistroRedHat
	}
	return DistroUnknown
}

// PrettyName returns PRETTY_NAME from os-release below root, or "" if unavailable
func PrettyName(root string) (string, error) {
	file, err := os.Open(filepath.Join(root, osReleaseFile))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to open os-release: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok || key != "PRETTY_NAME" {
			continue
		}
		return strings.Trim(value, `"'`), nil
	}

	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("failed to read os-release: %w", err)
	}

	return "", nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
