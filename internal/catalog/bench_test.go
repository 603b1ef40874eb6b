package catalog

import (
	"fmt"
	"testing"
)

func benchCatalog(b *testing.B, size int) *Catalog {
	b.Helper()
	contents := make([]Content, size)
	for i := range contents {
		contents[i] = Content{
			ID:          fmt.Sprintf("tm%d", i),
			Type:        TypeMovie,
			Runtime:     i % 200,
			Description: fmt.Sprintf("A heist crew in city %d plans one last job before the winter of %d.", i%50, 1900+i%120),
		}
	}
	cat, err := New(contents)
	if err != nil {
		b.Fatalf("New() error: %v", err)
	}
	return cat
}

// BenchmarkByKeywords measures posting-list intersection for queries of
// increasing selectivity over 10 000 records.
func BenchmarkByKeywords(b *testing.B) {
	cat := benchCatalog(b, 10000)
	queries := map[string][]string{
		"common":    {"heist"},
		"two_terms": {"heist", "winter"},
		"selective": {"heist", "city", "17", "1942"},
		"miss":      {"dragon"},
	}
	for name, kw := range queries {
		b.Run(name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = cat.ByKeywords(kw...)
			}
		})
	}
}

func BenchmarkNew(b *testing.B) {
	contents := benchCatalog(b, 1000).AllContent()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := New(contents); err != nil {
			b.Fatal(err)
		}
	}
}
