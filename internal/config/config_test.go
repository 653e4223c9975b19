// Copyright (c) 2025 Binadox (https://binadox.com)
// This software is licensed under the zlib license. See LICENSE file for details.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vl_installer/internal/mirror"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "requirements.txt", cfg.RequirementsFile)
	assert.Equal(t, []string{"requests", "rich", "ruamel.yaml"}, cfg.BootstrapPackages)
	assert.Equal(t, []string{"streamlit", "run", "st.py"}, cfg.LaunchCommand)
	assert.True(t, cfg.Launch)
	assert.True(t, cfg.Mirror.Enabled)
	assert.Equal(t, mirror.DefaultCandidates, cfg.Mirror.Candidates)
	assert.Equal(t, time.Duration(0), cfg.DownloadTimeout)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `python: /opt/conda/bin/python
work_dir: /srv/app
download_timeout: 5m
sudo: never
mirror:
  enabled: false
  timeout: 1s
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/opt/conda/bin/python", cfg.Python)
	assert.Equal(t, "/srv/app", cfg.WorkDir)
	assert.Equal(t, 5*time.Minute, cfg.DownloadTimeout)
	assert.Equal(t, SudoNever, cfg.Sudo)
	assert.False(t, cfg.Mirror.Enabled)
	assert.Equal(t, time.Second, cfg.Mirror.Timeout)
	assert.Equal(t, "requirements.txt", cfg.RequirementsFile)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("VL_INSTALLER_PYTHON", "/usr/local/bin/python3.11")
	t.Setenv("VL_INSTALLER_MIRROR_ENABLED", "false")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/usr/local/bin/python3.11", cfg.Python)
	assert.False(t, cfg.Mirror.Enabled)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Sudo = "sometimes"
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.LaunchCommand = nil
	assert.Error(t, cfg.Validate())

	cfg.Launch = false
	assert.NoError(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Python = ""
	assert.Error(t, cfg.Validate())
}

func TestUseSudo(t *testing.T) {
	cfg := DefaultConfig()
	assert.True(t, cfg.UseSudo(false))
	assert.False(t, cfg.UseSudo(true))

	cfg.Sudo = SudoAlways
	assert.True(t, cfg.UseSudo(true))

	cfg.Sudo = SudoNever
	assert.False(t, cfg.UseSudo(false))
}

func TestApplyFlags(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ApplyFlags(Flags{WorkDir: "/tmp/vl", NoLaunch: true, NoMirror: true})

	assert.Equal(t, "/tmp/vl", cfg.WorkDir)
	assert.False(t, cfg.Launch)
	assert.False(t, cfg.Mirror.Enabled)
	assert.Equal(t, "requirements.txt", cfg.RequirementsFile)
}

func TestSaveToFileLoadsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.DownloadTimeout = 90 * time.Second
	cfg.LogFile = "STDERR"

	require.NoError(t, cfg.SaveToFile(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
