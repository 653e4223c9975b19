// Copyright (c) 2025 Binadox (https://binadox.com)
// This software is licensed under the zlib license. See LICENSE file for details.

package pkgmgr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vl_installer/internal/platform"
)

func TestSystemInstallCommand(t *testing.T) {
	assert.Equal(t, "sudo apt install -y ffmpeg", NewApt(true).InstallCommand("ffmpeg").String())
	assert.Equal(t, "yum install -y google-noto*", NewYum(false).InstallCommand("google-noto*").String())
}

func TestByName(t *testing.T) {
	m := ByName("apt-get", true)
	require.NotNil(t, m)
	assert.Equal(t, "sudo apt-get install -y fonts-noto", m.InstallCommand("fonts-noto").String())

	assert.Nil(t, ByName("pacman", true))
	assert.Equal(t, []string{"apt", "apt-get", "yum"}, SupportedNames())
}

func TestForDistro(t *testing.T) {
	assert.Equal(t, "apt-get", ForDistro(platform.DistroDebian, false).Name())
	assert.Equal(t, "yum", ForDistro(platform.DistroRedHat, false).Name())
	assert.Nil(t, ForDistro(platform.DistroUnknown, false))
}

func TestPipCommands(t *testing.T) {
	p := NewPip("python3")

	assert.Equal(t, "python3 -m pip install requests rich", p.InstallCommand("requests", "rich").String())
	assert.Equal(t, "python3 -m pip install -r requirements.txt", p.RequirementsCommand("requirements.txt").String())
	assert.Equal(t, "python3 -m pip config set global.index-url https://mirrors.aliyun.com/pypi/simple",
		p.SetIndexCommand("https://mirrors.aliyun.com/pypi/simple").String())
}
