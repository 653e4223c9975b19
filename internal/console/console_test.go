// Copyright (c) 2025 Binadox (https://binadox.com)
// This software is licensed under the zlib license. See LICENSE file for details.

package console

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlainOutput(t *testing.T) {
	var buf bytes.Buffer
	c := NewPlain(&buf)

	c.Header("Starting Installation")
	c.Info("Installing FFmpeg...")
	c.Success("ffmpeg.exe already exists")
	c.Warn("Unrecognized Linux distribution")
	c.Error("FFmpeg download failed")
	c.Command("streamlit run st.py")

	assert.Equal(t, "==> Starting Installation\n"+
		"==> Installing FFmpeg...\n"+
		"[OK] ffmpeg.exe already exists\n"+
		"[!!] Unrecognized Linux distribution\n"+
		"==> [FAILED] FFmpeg download failed\n"+
		"    streamlit run st.py\n", buf.String())
}

func TestNewOnBufferIsPlain(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf)
	assert.False(t, c.styled)

	c.Banner("\nLOGO\n", "title")
	assert.Equal(t, "LOGO\ntitle\n", buf.String())
}

func TestStyledColorProfileFollowsWriter(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf)
	c.styled = true

	c.Success("FFmpeg installation completed")
	c.Note("Note: First startup may take up to 1 minute")

	// a buffer has no colour support, so styling must not emit escape sequences
	assert.NotContains(t, buf.String(), "\x1b[")
	assert.Contains(t, buf.String(), "[OK] FFmpeg installation completed")
}
