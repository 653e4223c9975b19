// Copyright (c) 2025 Binadox (https://binadox.com)
// This software is licensed under the zlib license. See LICENSE file for details.

package state

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"vl_installer/internal/db"
	"vl_installer/internal/dto"
	"vl_installer/internal/platform"
)

// Manager keeps the journal of installer runs
type Manager struct {
	db *db.DB
}

// stateFileName is the journal database file name
const stateFileName = "history.db"

// Open opens the journal. If stateFile is empty, uses automatic location resolution
func Open(stateFile string) (*Manager, error) {
	path := stateFile
	if path == "" {
		path = findWritablePath()
	}

	d, err := db.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open state database: %w", err)
	}
	return &Manager{db: d}, nil
}

// Close closes the journal
func (m *Manager) Close() error {
	return m.db.Close()
}

// Path returns the journal database path
func (m *Manager) Path() string {
	return m.db.Path()
}

// Count returns the number of recorded runs
func (m *Manager) Count(ctx context.Context) (int, error) {
	var n int
	if err := m.db.QueryRow(ctx, "SELECT COUNT(*) FROM runs").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count runs: %w", err)
	}
	return n, nil
}

// Record stores a finished run and its steps
func (m *Manager) Record(ctx context.Context, r dto.RunReport) error {
	tx, err := m.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var gpu sql.NullBool
	if r.GPU != nil {
		gpu = sql.NullBool{Bool: *r.GPU, Valid: true}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, finished_at, os, gpu, exit_code) VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.StartedAt.UnixMilli(), r.FinishedAt.UnixMilli(), r.OS, gpu, r.ExitCode); err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for i, s := range r.Steps {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO steps (run_id, seq, name, status, severity, message, error, duration_ms) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID, i, s.Name, string(s.Status), string(s.Severity), s.Message, s.Error, s.DurationMS); err != nil {
			return fmt.Errorf("failed to insert step %s: %w", s.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// Recent returns up to limit runs, newest first, with their steps
func (m *Manager) Recent(ctx context.Context, limit int) ([]dto.RunReport, error) {
	rows, err := m.db.Query(ctx,
		`SELECT id, started_at, finished_at, os, gpu, exit_code FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []dto.RunReport
	for rows.Next() {
		var (
			r                 dto.RunReport
			started, finished int64
			gpu               sql.NullBool
		)
		if err := rows.Scan(&r.ID, &started, &finished, &r.OS, &gpu, &r.ExitCode); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.StartedAt = time.UnixMilli(started)
		r.FinishedAt = time.UnixMilli(finished)
		if gpu.Valid {
			v := gpu.Bool
			r.GPU = &v
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read runs: %w", err)
	}
	rows.Close()

	for i := range runs {
		steps, err := m.steps(ctx, runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].Steps = steps
	}

	return runs, nil
}

func (m *Manager) steps(ctx context.Context, runID string) ([]dto.StepReport, error) {
	rows, err := m.db.Query(ctx,
		`SELECT name, status, severity, message, error, duration_ms FROM steps WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query steps: %w", err)
	}
	defer rows.Close()

	var steps []dto.StepReport
	for rows.Next() {
		var s dto.StepReport
		if err := rows.Scan(&s.Name, &s.Status, &s.Severity, &s.Message, &s.Error, &s.DurationMS); err != nil {
			return nil, fmt.Errorf("failed to scan step: %w", err)
		}
		steps = append(steps, s)
	}
	return steps, rows.Err()
}

// findWritablePath finds a location where we can write the journal
func findWritablePath() string {
	// 1. Central config location
	centralPath := getCentralStatePath()
	if centralPath != "" && canWrite(filepath.Dir(centralPath)) {
		return centralPath
	}

	// 2. Temp location
	return getTempStatePath()
}

// getCentralStatePath returns the central journal path for the current OS
func getCentralStatePath() string {
	switch platform.CurrentOS() {
	case platform.Linux:
		// Check if running as root
		if platform.IsPrivileged() {
			return "/var/lib/vl_installer/" + stateFileName
		}
		home, _ := os.UserHomeDir()
		if home != "" {
			return filepath.Join(home, ".config/vl_installer", stateFileName)
		}

	case platform.Windows:
		appData := os.Getenv("LOCALAPPDATA")
		if appData == "" {
			home, _ := os.UserHomeDir()
			appData = filepath.Join(home, "AppData", "Local")
		}
		return filepath.Join(appData, "vl_installer", stateFileName)

	case platform.Darwin:
		home, _ := os.UserHomeDir()
		if home != "" {
			return filepath.Join(home, "Library/Application Support/vl_installer", stateFileName)
		}
	}

	return ""
}

// getTempStatePath returns the temp journal path
func getTempStatePath() string {
	return filepath.Join(os.TempDir(), "vl_installer_"+stateFileName)
}

// canWrite checks if we can write to a directory
func canWrite(dir string) bool {
	// Try to create directory if it doesn't exist
	if err := os.MkdirAll(dir, 0755); err != nil {
		return false
	}

	// Try to create a temp file
	testFile := filepath.Join(dir, ".write_test")
	f, err := os.Create(testFile)
	if err != nil {
		return false
	}
	f.Close()
	os.Remove(testFile)
	return true
}
