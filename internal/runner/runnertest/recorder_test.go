// Copyright (c) 2025 Binadox (https://binadox.com)
// This software is licensed under the zlib license. See LICENSE file for details.

package runnertest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vl_installer/internal/runner"
)

func TestOutputLongestPrefixWins(t *testing.T) {
	ctx := context.Background()
	rec := New().
		SetOutput("nvidia-smi", "short").
		SetOutput("nvidia-smi --query-gpu", "long")

	for n := 0; n < 20; n++ {
		out, err := rec.Output(ctx, runner.New("nvidia-smi", "--query-gpu=name", "--format=csv"))
		require.NoError(t, err)
		assert.Equal(t, "long", string(out))

		out, err = rec.Output(ctx, runner.New("nvidia-smi"))
		require.NoError(t, err)
		assert.Equal(t, "short", string(out))
	}
}

func TestSetOutputReplacesPrefix(t *testing.T) {
	rec := New().SetOutput("python3", "a").SetOutput("python3", "b")

	out, err := rec.Output(context.Background(), runner.New("python3", "--version"))
	require.NoError(t, err)
	assert.Equal(t, "b", string(out))
}

func TestFailAndCount(t *testing.T) {
	ctx := context.Background()
	rec := New().Fail("sudo apt")

	err := rec.Run(ctx, runner.New("sudo", "apt", "install", "-y", "ffmpeg"))
	assert.True(t, errors.Is(err, ErrFailed))
	require.NoError(t, rec.Start(runner.New("streamlit", "run", "st.py")))

	assert.Equal(t, 1, rec.Count("sudo apt"))
	assert.Equal(t, []string{"sudo apt install -y ffmpeg", "streamlit run st.py"}, rec.Lines())
	assert.Equal(t, "start", rec.Calls()[1].Method)
}
