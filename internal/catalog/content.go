package catalog

import (
	"fmt"
	"slices"
	"strings"
)

// ContentType distinguishes movies from shows.
type ContentType string

const (
	TypeMovie ContentType = "MOVIE"
	TypeShow  ContentType = "SHOW"
)

// ParseContentType accepts the dataset spelling of a type, case-insensitively.
func ParseContentType(s string) (ContentType, error) {
	switch ContentType(strings.ToUpper(strings.TrimSpace(s))) {
	case TypeMovie:
		return TypeMovie, nil
	case TypeShow:
		return TypeShow, nil
	default:
		return "", fmt.Errorf("unknown content type %q", s)
	}
}

// Content is a single movie or show record.
//
// Genres holds distinct values in first-seen order. Seasons is only
// meaningful for shows and Runtime only for movies. A zero IMDbScore means
// the title has no score and zero IMDbVotes means it has no votes.
type Content struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Type        ContentType `json:"type"`
	Description string      `json:"description"`
	ReleaseYear int         `json:"release_year"`
	Runtime     int         `json:"runtime"`
	Genres      []string    `json:"genres"`
	Seasons     int         `json:"seasons"`
	IMDbID      string      `json:"imdb_id"`
	IMDbScore   float64     `json:"imdb_score"`
	IMDbVotes   float64     `json:"imdb_votes"`
}

// Clone returns a deep copy so the caller may modify Genres freely.
func (c Content) Clone() Content {
	c.Genres = slices.Clone(c.Genres)
	if c.Genres == nil {
		c.Genres = []string{}
	}
	return c
}

// HasGenre reports whether genre is one of c's genres (case-sensitive).
func (c Content) HasGenre(genre string) bool {
	return slices.Contains(c.Genres, genre)
}

// SharedGenres counts the genres c has in common with other.
func (c Content) SharedGenres(other Content) int {
	if len(c.Genres) == 0 || len(other.Genres) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(other.Genres))
	for _, g := range other.Genres {
		set[g] = struct{}{}
	}
	shared := 0
	for _, g := range c.Genres {
		if _, ok := set[g]; ok {
			shared++
		}
	}
	return shared
}

// DistinctGenres drops duplicate and blank genres while keeping order.
func DistinctGenres(genres []string) []string {
	out := make([]string, 0, len(genres))
	seen := make(map[string]struct{}, len(genres))
	for _, g := range genres {
		if g == "" {
			continue
		}
		if _, dup := seen[g]; dup {
			continue
		}
		seen[g] = struct{}{}
		out = append(out, g)
	}
	return out
}
