package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"golang.org/x/sync/errgroup"
)

type target struct {
	name string
	path string
}

var keywordQueries = []string{
	"heist",
	"war",
	"comedy sketch",
	"river",
	"taxi driver",
	"knights round table",
	"dragon",
}

// targets mixes the ranking, similarity and search routes. The ids match the
// bundled sample dataset; unknown ids are answered 404 and still measured.
func targets() []target {
	ts := []target{
		{"top", "/api/v1/content/top?n=10"},
		{"top", "/api/v1/content/top?n=50"},
		{"similar", "/api/v1/content/tm84618/similar?limit=10"},
		{"similar", "/api/v1/content/ts22164/similar?limit=10"},
		{"genres", "/api/v1/genres"},
		{"longest-movie", "/api/v1/content/longest-movie"},
		{"by-type", "/api/v1/content/by-type"},
	}
	for _, q := range keywordQueries {
		ts = append(ts, target{"search", "/api/v1/search?q=" + url.QueryEscape(q)})
	}
	return ts
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "base URL of the catalog service")
	concurrency := flag.Int("concurrency", 10, "number of concurrent workers")
	duration := flag.Duration("duration", 30*time.Second, "test duration")
	flag.Parse()

	ts := targets()
	fmt.Println("=== Catalog Load Test ===")
	fmt.Printf("Target:      %s\n", *baseURL)
	fmt.Printf("Concurrency: %d\n", *concurrency)
	fmt.Printf("Duration:    %s\n", *duration)
	fmt.Printf("Routes:      %d\n\n", len(ts))

	stats := NewStats()
	start := time.Now()
	if err := run(context.Background(), *baseURL, ts, *concurrency, *duration, stats); err != nil {
		fmt.Fprintf(os.Stderr, "load test failed: %v\n", err)
		os.Exit(1)
	}
	stats.Report(os.Stdout, time.Since(start))

	if total, _ := stats.Total(); total == 0 {
		fmt.Println("WARNING: No requests completed. Is the service running?")
		os.Exit(1)
	}
}

// run drives concurrency workers round-robin over ts until duration elapses.
func run(ctx context.Context, baseURL string, ts []target, concurrency int, duration time.Duration, stats *Stats) error {
	client := &http.Client{
		Timeout: 10 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        concurrency * 2,
			MaxIdleConnsPerHost: concurrency * 2,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	ctx, cancel := context.WithTimeout(ctx, duration)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < concurrency; w++ {
		g.Go(func() error {
			for i := w; ctx.Err() == nil; i++ {
				t := ts[i%len(ts)]
				req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+t.path, nil)
				if err != nil {
					return fmt.Errorf("building request for %s: %w", t.path, err)
				}
				begin := time.Now()
				resp, err := client.Do(req)
				latency := time.Since(begin)
				if err != nil {
					if ctx.Err() != nil {
						return nil
					}
					stats.Record(t.name, latency, 0, err)
					continue
				}
				io.Copy(io.Discard, resp.Body)
				resp.Body.Close()
				stats.Record(t.name, latency, resp.StatusCode, nil)
			}
			return nil
		})
	}
	return g.Wait()
}
