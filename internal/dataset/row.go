package dataset

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/Content-Analytics-Platform/internal/catalog"
)

// RowError holds per-field parse failures for one input line.
type RowError struct {
	Line   int
	Fields map[string]string
}

func (e *RowError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		names = append(names, field)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, field := range names {
		parts = append(parts, fmt.Sprintf("%s:%s", field, e.Fields[field]))
	}
	return fmt.Sprintf("line %d: %s", e.Line, strings.Join(parts, "; "))
}

func parseRow(line int, record []string) (catalog.Content, error) {
	if len(record) != numColumns {
		return catalog.Content{}, &RowError{
			Line:   line,
			Fields: map[string]string{"row": fmt.Sprintf("expected %d columns, got %d", numColumns, len(record))},
		}
	}
	errs := make(map[string]string)

	contentType, err := catalog.ParseContentType(record[colType])
	if err != nil {
		errs["type"] = err.Error()
	}
	c := catalog.Content{
		ID:          strings.TrimSpace(record[colID]),
		Title:       strings.TrimSpace(record[colTitle]),
		Type:        contentType,
		Description: record[colDescription],
		Genres:      parseGenres(record[colGenres]),
		IMDbID:      strings.TrimSpace(record[colIMDbID]),
	}
	if c.ID == "" {
		errs["id"] = "id is required"
	}
	c.ReleaseYear = parseInt(errs, "release_year", record[colReleaseYear], true)
	c.Runtime = parseInt(errs, "runtime", record[colRuntime], true)
	c.Seasons = parseInt(errs, "seasons", record[colSeasons], false)
	c.IMDbScore = parseFloat(errs, "imdb_score", record[colIMDbScore])
	c.IMDbVotes = parseFloat(errs, "imdb_votes", record[colIMDbVotes])

	if len(errs) > 0 {
		return catalog.Content{}, &RowError{Line: line, Fields: errs}
	}
	return c, nil
}

// parseInt parses a non-negative integer column. Blank optional columns
// read as 0.
func parseInt(errs map[string]string, field, raw string, required bool) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if required {
			errs[field] = "value is required"
		}
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		errs[field] = fmt.Sprintf("not an integer: %q", raw)
		return 0
	}
	if n < 0 {
		errs[field] = fmt.Sprintf("must be non-negative, got %d", n)
		return 0
	}
	return n
}

// parseFloat parses an optional non-negative finite number; blank reads as 0.
func parseFloat(errs map[string]string, field, raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		errs[field] = fmt.Sprintf("not a finite number: %q", raw)
		return 0
	}
	if f < 0 {
		errs[field] = fmt.Sprintf("must be non-negative, got %v", f)
		return 0
	}
	return f
}

// parseGenres turns "['drama'; 'crime']" into [drama crime]. Both ';' and
// ',' separate entries; brackets and quotes are stripped.
func parseGenres(raw string) []string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "[")
	raw = strings.TrimSuffix(raw, "]")
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ';' || r == ','
	})
	genres := make([]string, 0, len(parts))
	for _, p := range parts {
		g := strings.Trim(strings.TrimSpace(p), `'"`)
		if g = strings.TrimSpace(g); g != "" {
			genres = append(genres, g)
		}
	}
	return catalog.DistinctGenres(genres)
}
