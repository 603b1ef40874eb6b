// Package analytics aggregates catalog query events in process: totals per
// operation, error and zero-result counts, latency percentiles and the most
// frequent keyword searches.
package analytics

import (
	"log/slog"
	"sort"
	"sync"
	"time"
)

// maxLatencySamples bounds memory; older samples are overwritten in a ring.
const maxLatencySamples = 10000

type AggregatedStats struct {
	TotalQueries      int64               `json:"total_queries"`
	ByOperation       map[Operation]int64 `json:"by_operation"`
	Errors            int64               `json:"errors"`
	ZeroResultCount   int64               `json:"zero_result_count"`
	AvgLatencyMicros  float64             `json:"avg_latency_us"`
	P50LatencyMicros  int64               `json:"p50_latency_us"`
	P95LatencyMicros  int64               `json:"p95_latency_us"`
	P99LatencyMicros  int64               `json:"p99_latency_us"`
	TopKeywordQueries []QueryCount        `json:"top_keyword_queries"`
	ZeroResultQueries []QueryCount        `json:"zero_result_queries"`
	QueriesPerMinute  float64             `json:"queries_per_minute"`
}

type QueryCount struct {
	Query string `json:"query"`
	Count int64  `json:"count"`
}

type Aggregator struct {
	mu                sync.RWMutex
	totalQueries      int64
	errors            int64
	zeroResults       int64
	byOperation       map[Operation]int64
	latencies         []int64
	next              int
	keywordCounts     map[string]int64
	zeroResultQueries map[string]int64
	startTime         time.Time

	logger *slog.Logger
}

func NewAggregator() *Aggregator {
	return &Aggregator{
		byOperation:       make(map[Operation]int64),
		latencies:         make([]int64, 0, 1024),
		keywordCounts:     make(map[string]int64),
		zeroResultQueries: make(map[string]int64),
		startTime:         time.Now(),
		logger:            slog.Default().With("component", "analytics-aggregator"),
	}
}

// Record folds one event into the aggregate. Safe for concurrent use.
func (a *Aggregator) Record(event QueryEvent) {
	failed := event.Err != ""
	zero := !failed && event.Returned == 0

	a.mu.Lock()
	defer a.mu.Unlock()
	a.totalQueries++
	if failed {
		a.errors++
	}
	if zero {
		a.zeroResults++
	}
	a.byOperation[event.Operation]++
	a.addLatency(event.Latency.Microseconds())
	if event.Operation == OpKeywords {
		a.keywordCounts[event.Query]++
	}
	if zero && event.Query != "" {
		a.zeroResultQueries[string(event.Operation)+":"+event.Query]++
	}
	if failed {
		a.logger.Debug("query failed", "operation", event.Operation, "query", event.Query, "error", event.Err)
	}
}

func (a *Aggregator) addLatency(micros int64) {
	if len(a.latencies) < maxLatencySamples {
		a.latencies = append(a.latencies, micros)
		return
	}
	a.latencies[a.next] = micros
	a.next = (a.next + 1) % maxLatencySamples
}

// Stats returns a consistent snapshot: TotalQueries always equals the sum of
// ByOperation.
func (a *Aggregator) Stats() AggregatedStats {
	a.mu.RLock()
	defer a.mu.RUnlock()

	stats := AggregatedStats{
		TotalQueries:    a.totalQueries,
		ByOperation:     make(map[Operation]int64, len(a.byOperation)),
		Errors:          a.errors,
		ZeroResultCount: a.zeroResults,
	}
	for op, n := range a.byOperation {
		stats.ByOperation[op] = n
	}
	if len(a.latencies) > 0 {
		sorted := make([]int64, len(a.latencies))
		copy(sorted, a.latencies)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

		var sum int64
		for _, l := range sorted {
			sum += l
		}
		stats.AvgLatencyMicros = float64(sum) / float64(len(sorted))
		stats.P50LatencyMicros = percentile(sorted, 50)
		stats.P95LatencyMicros = percentile(sorted, 95)
		stats.P99LatencyMicros = percentile(sorted, 99)
	}
	stats.TopKeywordQueries = topN(a.keywordCounts, 10)
	stats.ZeroResultQueries = topN(a.zeroResultQueries, 10)
	elapsed := time.Since(a.startTime).Minutes()
	if elapsed > 0 {
		stats.QueriesPerMinute = float64(stats.TotalQueries) / elapsed
	}
	return stats
}

func percentile(sorted []int64, pct int) int64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := (pct * len(sorted)) / 100
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// topN orders by count descending, then query ascending.
func topN(counts map[string]int64, n int) []QueryCount {
	result := make([]QueryCount, 0, len(counts))
	for query, count := range counts {
		result = append(result, QueryCount{Query: query, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Query < result[j].Query
	})
	if len(result) > n {
		result = result[:n]
	}
	return result
}
