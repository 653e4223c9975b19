// Copyright (c) 2025 Binadox (https://binadox.com)
// This software is licensed under the zlib license. See LICENSE file for details.

package fetch

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ErrBinaryNotFound is returned when an archive has no entry for the binary
var ErrBinaryNotFound = errors.New("binary not found in archive")

// ExtractBinary extracts every zip entry whose base name equals name into
// destDir, dropping the entry's directory components. It returns the path of
// the extracted binary.
func ExtractBinary(archivePath, name, destDir string) (string, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return "", fmt.Errorf("failed to open archive: %w", err)
	}
	defer r.Close()

	destPath := filepath.Join(destDir, name)
	found := false

	for _, f := range r.File {
		if f.FileInfo().IsDir() || path.Base(f.Name) != name {
			continue
		}

		if err := extractFile(f, destPath); err != nil {
			return "", fmt.Errorf("failed to extract %s: %w", f.Name, err)
		}
		found = true
	}

	if !found {
		return "", fmt.Errorf("%w: %s", ErrBinaryNotFound, name)
	}

	return destPath, nil
}

func extractFile(f *zip.File, destPath string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0755)
	if err != nil {
		return err
	}

	_, err = io.Copy(out, rc)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	return err
}

// RemoveDirsContaining removes every directory directly under dir whose
// lower-cased name contains substr, and returns the removed names
func RemoveDirsContaining(dir, substr string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	substr = strings.ToLower(substr)
	var removed []string
	for _, entry := range entries {
		if !entry.IsDir() || !strings.Contains(strings.ToLower(entry.Name()), substr) {
			continue
		}

		if err := os.RemoveAll(filepath.Join(dir, entry.Name())); err != nil {
			return removed, fmt.Errorf("failed to remove %s: %w", entry.Name(), err)
		}
		removed = append(removed, entry.Name())
	}

	return removed, nil
}
