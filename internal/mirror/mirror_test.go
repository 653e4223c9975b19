// Copyright (c) 2025 Binadox (https://binadox.com)
// This software is licensed under the zlib license. See LICENSE file for details.

package mirror

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func indexServer(t *testing.T, delay time.Duration, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/simple/pip/", r.URL.Path)
		time.Sleep(delay)
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSelectFastest(t *testing.T) {
	slow := indexServer(t, 150*time.Millisecond, http.StatusOK)
	fast := indexServer(t, 0, http.StatusOK)

	s := NewSelector([]string{slow.URL + "/simple", fast.URL + "/simple/"}, time.Second)
	best, err := s.Select(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fast.URL+"/simple/", best.URL)
}

func TestSelectSkipsBrokenMirrors(t *testing.T) {
	broken := indexServer(t, 0, http.StatusServiceUnavailable)
	ok := indexServer(t, 50*time.Millisecond, http.StatusOK)

	s := NewSelector([]string{broken.URL + "/simple", ok.URL + "/simple"}, time.Second)
	probes := s.ProbeAll(context.Background())
	require.Len(t, probes, 2)
	assert.False(t, probes[0].OK())
	assert.True(t, probes[1].OK())

	best, err := s.Select(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ok.URL+"/simple", best.URL)
}

func TestSelectNoneReachable(t *testing.T) {
	srv := indexServer(t, 0, http.StatusOK)
	url := srv.URL + "/simple"
	srv.Close()

	_, err := NewSelector([]string{url}, 200*time.Millisecond).Select(context.Background())
	assert.ErrorIs(t, err, ErrNoMirror)
}

func TestNewSelectorDefaults(t *testing.T) {
	s := NewSelector(nil, 0)
	assert.Equal(t, DefaultCandidates, s.candidates)
	assert.Equal(t, DefaultProbeTimeout, s.client.Timeout)
}
