// Copyright (c) 2025 Binadox (https://binadox.com)
// This software is licensed under the zlib license. See LICENSE file for details.

package fetch

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildZip(t *testing.T, files map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestDownloadOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, UserAgent, r.Header.Get("User-Agent"))
		w.Write([]byte("payload"))
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "ffmpeg.zip")
	n, err := NewClient(0).Download(context.Background(), srv.URL, dest)
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
}

func TestDownloadNon200WritesNothing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "ffmpeg.zip")
	_, err := NewClient(0).Download(context.Background(), srv.URL, dest)

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
	assert.NoFileExists(t, dest)
}

func TestExtractBinaryFlattens(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "ffmpeg.zip")
	require.NoError(t, os.WriteFile(archive, buildZip(t, map[string]string{
		"ffmpeg-master-latest-win64-gpl/bin/ffmpeg.exe":  "bin",
		"ffmpeg-master-latest-win64-gpl/bin/ffprobe.exe": "probe",
		"ffmpeg-master-latest-win64-gpl/LICENSE.txt":     "gpl",
	}), 0644))

	out, err := ExtractBinary(archive, "ffmpeg.exe", dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "ffmpeg.exe"), out)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "bin", string(data))
	assert.NoFileExists(t, filepath.Join(dir, "ffprobe.exe"))
	assert.NoDirExists(t, filepath.Join(dir, "ffmpeg-master-latest-win64-gpl"))
}

func TestExtractBinaryMissing(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "ffmpeg.zip")
	require.NoError(t, os.WriteFile(archive, buildZip(t, map[string]string{"README": "x"}), 0644))

	_, err := ExtractBinary(archive, "ffmpeg", dir)
	assert.ErrorIs(t, err, ErrBinaryNotFound)
}

func TestRemoveDirsContaining(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "FFmpeg-master", "bin"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "output"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ffmpeg.exe"), []byte("x"), 0755))

	removed, err := RemoveDirsContaining(dir, "ffmpeg")
	require.NoError(t, err)
	assert.Equal(t, []string{"FFmpeg-master"}, removed)
	assert.NoDirExists(t, filepath.Join(dir, "FFmpeg-master"))
	assert.DirExists(t, filepath.Join(dir, "output"))
	assert.FileExists(t, filepath.Join(dir, "ffmpeg.exe"))
}
