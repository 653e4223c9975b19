// Copyright (c) 2025 Binadox (https://binadox.com)
// This software is licensed under the zlib license. See LICENSE file for details.

package state

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vl_installer/internal/dto"
)

func TestRecordAndRecent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "journal", "history.db")

	m, err := Open(path)
	require.NoError(t, err)
	defer m.Close()
	assert.Equal(t, path, m.Path())

	gpu := false
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	older := dto.RunReport{
		ID:         "run-1",
		StartedAt:  base,
		FinishedAt: base.Add(time.Minute),
		OS:         "linux",
		GPU:        &gpu,
		Steps: []dto.StepReport{
			{Name: "bootstrap", Status: dto.StatusOK, Severity: dto.SeverityFatal, DurationMS: 1200},
			{Name: "fonts", Status: dto.StatusFailed, Severity: dto.SeverityRecoverable, Error: "exit 100", DurationMS: 30},
		},
	}
	newer := dto.RunReport{
		ID:         "run-2",
		StartedAt:  base.Add(time.Hour),
		FinishedAt: base.Add(time.Hour + time.Second),
		OS:         "darwin",
		ExitCode:   1,
		Steps: []dto.StepReport{
			{Name: "bootstrap", Status: dto.StatusFailed, Severity: dto.SeverityFatal, Error: "pip missing"},
		},
	}

	total, err := m.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, total)

	require.NoError(t, m.Record(ctx, older))
	require.NoError(t, m.Record(ctx, newer))

	total, err = m.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	runs, err := m.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	assert.Equal(t, "run-2", runs[0].ID)
	assert.Nil(t, runs[0].GPU)
	assert.Equal(t, 1, runs[0].ExitCode)

	assert.Equal(t, "run-1", runs[1].ID)
	require.NotNil(t, runs[1].GPU)
	assert.False(t, *runs[1].GPU)
	assert.True(t, runs[1].StartedAt.Equal(base))
	assert.Equal(t, older.Steps, runs[1].Steps)
	assert.Len(t, runs[1].Failed(), 1)

	limited, err := m.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "run-2", limited[0].ID)
}

func TestRecordDuplicateID(t *testing.T) {
	ctx := context.Background()
	m, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer m.Close()

	r := dto.RunReport{ID: "same", StartedAt: time.Now(), FinishedAt: time.Now(), OS: "linux"}
	require.NoError(t, m.Record(ctx, r))
	assert.Error(t, m.Record(ctx, r))
}
