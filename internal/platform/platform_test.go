// Copyright (c) 2025 Binadox (https://binadox.com)
// This software is licensed under the zlib license. See LICENSE file for details.

package platform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestParse(t *testing.T) {
	assert.Equal(t, Linux, Parse("linux"))
	assert.Equal(t, Windows, Parse("windows"))
	assert.Equal(t, Darwin, Parse("darwin"))
	assert.Equal(t, Other, Parse("freebsd"))
	assert.Equal(t, Other, Parse(""))
}

func TestOSHelpers(t *testing.T) {
	assert.True(t, Linux.IsSupported())
	assert.False(t, Other.IsSupported())

	assert.Equal(t, "macOS", Darwin.DisplayName())
	assert.Equal(t, "python", Windows.DefaultPython())
	assert.Equal(t, "python3", Darwin.DefaultPython())
	assert.Equal(t, "ffmpeg.exe", Windows.ExecutableName("ffmpeg"))
	assert.Equal(t, "ffmpeg", Linux.ExecutableName("ffmpeg"))
}

func TestDetectDistro(t *testing.T) {
	t.Run("debian", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, DebianMarker, "12.5\n")
		assert.Equal(t, DistroDebian, DetectDistro(root))
	})

	t.Run("redhat", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, RedHatMarker, "Rocky Linux release 9.3\n")
		assert.Equal(t, DistroRedHat, DetectDistro(root))
	})

	t.Run("debian wins when both exist", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, DebianMarker, "12.5\n")
		writeFile(t, root, RedHatMarker, "Fedora release 40\n")
		assert.Equal(t, DistroDebian, DetectDistro(root))
	})

	t.Run("unknown", func(t *testing.T) {
		assert.Equal(t, DistroUnknown, DetectDistro(t.TempDir()))
	})
}

func TestPrettyName(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, osReleaseFile, "# comment\nNAME=\"Ubuntu\"\nPRETTY_NAME=\"Ubuntu 24.04 LTS\"\nID=ubuntu\n")

	name, err := PrettyName(root)
	require.NoError(t, err)
	assert.Equal(t, "Ubuntu 24.04 LTS", name)

	name, err = PrettyName(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, name)
}
