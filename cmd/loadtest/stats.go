package main

import (
	"fmt"
	"io"
	"math"
	"sort"
	"sync"
	"time"
)

// endpointStats accumulates outcomes for one target route.
type endpointStats struct {
	requests  int64
	failures  int64
	latencies []time.Duration
	codes     map[int]int64
}

// Stats is safe for concurrent Record calls from all workers.
type Stats struct {
	mu        sync.Mutex
	endpoints map[string]*endpointStats
}

func NewStats() *Stats {
	return &Stats{endpoints: make(map[string]*endpointStats)}
}

// Record counts one request. A transport error or a 5xx status is a failure;
// 4xx answers are expected for some targets and only counted by code.
func (s *Stats) Record(endpoint string, latency time.Duration, status int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.endpoints[endpoint]
	if !ok {
		e = &endpointStats{codes: make(map[int]int64)}
		s.endpoints[endpoint] = e
	}
	e.requests++
	if err != nil {
		e.failures++
		return
	}
	if status >= 500 {
		e.failures++
	}
	e.codes[status]++
	e.latencies = append(e.latencies, latency)
}

func (s *Stats) Total() (requests, failures int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.endpoints {
		requests += e.requests
		failures += e.failures
	}
	return requests, failures
}

// Report writes a per-endpoint summary sorted by endpoint name.
func (s *Stats) Report(w io.Writer, elapsed time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.endpoints))
	for name := range s.endpoints {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		e := s.endpoints[name]
		fmt.Fprintf(w, "=== %s ===\n", name)
		fmt.Fprintf(w, "Requests:      %d\n", e.requests)
		fmt.Fprintf(w, "Failures:      %d\n", e.failures)
		if elapsed > 0 {
			fmt.Fprintf(w, "Requests/sec:  %.2f\n", float64(e.requests)/elapsed.Seconds())
		}
		if len(e.latencies) > 0 {
			sorted := make([]time.Duration, len(e.latencies))
			copy(sorted, e.latencies)
			sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
			fmt.Fprintf(w, "Latency p50:   %s\n", percentile(sorted, 50))
			fmt.Fprintf(w, "Latency p95:   %s\n", percentile(sorted, 95))
			fmt.Fprintf(w, "Latency p99:   %s\n", percentile(sorted, 99))
			fmt.Fprintf(w, "Latency max:   %s\n", sorted[len(sorted)-1])
		}
		codes := make([]int, 0, len(e.codes))
		for code := range e.codes {
			codes = append(codes, code)
		}
		sort.Ints(codes)
		for _, code := range codes {
			fmt.Fprintf(w, "  %d: %d\n", code, e.codes[code])
		}
		fmt.Fprintln(w)
	}
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(math.Ceil(p/100*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
