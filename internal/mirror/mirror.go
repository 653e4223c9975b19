// Copyright (c) 2025 Binadox (https://binadox.com)
// This software is licensed under the zlib license. See LICENSE file for details.

package mirror

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Mirror selection constants
const (
	// DefaultProbeTimeout bounds each candidate probe.
	// Kept short so an unreachable mirror does not stall the install.
	DefaultProbeTimeout = 3 * time.Second

	// ProbePackage is the simple-index page requested from each mirror.
	// The index root lists every project and is far too large to probe.
	ProbePackage = "pip"
)

// DefaultCandidates are the package indexes tried when none are configured
var DefaultCandidates = []string{
	"https://pypi.org/simple",
	"https://pypi.tuna.tsinghua.edu.cn/simple",
	"https://mirrors.aliyun.com/pypi/simple",
	"https://pypi.mirrors.ustc.edu.cn/simple",
	"https://mirrors.cloud.tencent.com/pypi/simple",
	"https://repo.huaweicloud.com/repository/pypi/simple",
}

// ErrNoMirror is returned when no candidate answered
var ErrNoMirror = errors.New("no package index mirror reachable")

// Probe is the outcome of probing one candidate
type Probe struct {
	URL     string
	Latency time.Duration
	Err     error
}

// OK reports whether the candidate answered 200
func (p Probe) OK() bool {
	return p.Err == nil
}

// Selector picks the fastest package index
type Selector struct {
	candidates []string
	client     *http.Client
}

// NewSelector creates a selector over candidates; an empty list uses
// DefaultCandidates and a zero timeout uses DefaultProbeTimeout
func NewSelector(candidates []string, timeout time.Duration) *Selector {
	if len(candidates) == 0 {
		candidates = DefaultCandidates
	}
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	return &Selector{
		candidates: candidates,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// ProbeAll probes every candidate in order
func (s *Selector) ProbeAll(ctx context.Context) []Probe {
	probes := make([]Probe, 0, len(s.candidates))
	for _, url := range s.candidates {
		probes = append(probes, s.probe(ctx, url))
		if ctx.Err() != nil {
			break
		}
	}
	return probes
}

// Select returns the reachable candidate with the lowest latency
func (s *Selector) Select(ctx context.Context) (*Probe, error) {
	var best *Probe
	for _, p := range s.ProbeAll(ctx) {
		if !p.OK() {
			continue
		}
		if best == nil || p.Latency < best.Latency {
			best = &p
		}
	}

	if best == nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, ErrNoMirror
	}
	return best, nil
}

func (s *Selector) probe(ctx context.Context, url string) Probe {
	result := Probe{URL: url}
	target := strings.TrimSuffix(url, "/") + "/" + ProbePackage + "/"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		result.Err = fmt.Errorf("failed to create request: %w", err)
		return result
	}

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		result.Err = err
		return result
	}
	resp.Body.Close()
	result.Latency = time.Since(start)

	if resp.StatusCode != http.StatusOK {
		result.Err = fmt.Errorf("status %d", resp.StatusCode)
	}
	return result
}
