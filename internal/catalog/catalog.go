// Package catalog owns the immutable, in-memory collection of movie and show
// records and answers the simple read queries over it: listing, genre set,
// grouping by type, the longest movie and keyword search over descriptions.
//
// A Catalog is never modified after New returns, so every method is safe for
// concurrent use. Returned records are deep copies.
package catalog

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/Adithya-Monish-Kumar-K/Content-Analytics-Platform/internal/tokenizer"
	apperrors "github.com/Adithya-Monish-Kumar-K/Content-Analytics-Platform/pkg/errors"
)

type Catalog struct {
	contents []Content
	byID     map[string]int
	keywords keywordIndex
}

// New copies contents into a Catalog, deduplicating each record's genres.
// It fails with ErrLoadFailure if any record is malformed.
func New(contents []Content) (*Catalog, error) {
	owned := make([]Content, len(contents))
	byID := make(map[string]int, len(contents))
	for i, c := range contents {
		if err := validate(c); err != nil {
			return nil, fmt.Errorf("%w: record %d (%q): %v", apperrors.ErrLoadFailure, i, c.ID, err)
		}
		c = c.Clone()
		c.Genres = DistinctGenres(c.Genres)
		owned[i] = c
		if c.ID == "" {
			continue
		}
		if _, dup := byID[c.ID]; !dup {
			byID[c.ID] = i
		}
	}
	cat := &Catalog{
		contents: owned,
		byID:     byID,
		keywords: buildKeywordIndex(owned),
	}
	slog.Default().With("component", "catalog").Info("catalog loaded",
		"count", len(owned),
		"indexed_terms", cat.keywords.termCount(),
	)
	return cat, nil
}

func validate(c Content) error {
	switch c.Type {
	case TypeMovie, TypeShow:
	default:
		return fmt.Errorf("unknown content type %q", c.Type)
	}
	if c.Runtime < 0 {
		return fmt.Errorf("runtime must be non-negative, got %d", c.Runtime)
	}
	if math.IsNaN(c.IMDbScore) || math.IsInf(c.IMDbScore, 0) {
		return fmt.Errorf("imdb score must be finite, got %v", c.IMDbScore)
	}
	if math.IsNaN(c.IMDbVotes) || math.IsInf(c.IMDbVotes, 0) {
		return fmt.Errorf("imdb votes must be finite, got %v", c.IMDbVotes)
	}
	if c.IMDbVotes < 0 {
		return fmt.Errorf("imdb votes must be non-negative, got %v", c.IMDbVotes)
	}
	if c.Seasons < 0 {
		return fmt.Errorf("seasons must be non-negative, got %d", c.Seasons)
	}
	return nil
}

// Len returns the number of records.
func (c *Catalog) Len() int {
	return len(c.contents)
}

// Each calls fn for every record in load order until fn returns false.
// fn must not modify the record's Genres.
func (c *Catalog) Each(fn func(pos int, content Content) bool) {
	for i, content := range c.contents {
		if !fn(i, content) {
			return
		}
	}
}

// AllContent returns every record in load order.
func (c *Catalog) AllContent() []Content {
	out := make([]Content, len(c.contents))
	for i, content := range c.contents {
		out[i] = content.Clone()
	}
	return out
}

// AllGenres returns every distinct genre across the catalog in first-seen
// order.
func (c *Catalog) AllGenres() []string {
	seen := make(map[string]struct{})
	genres := make([]string, 0)
	for _, content := range c.contents {
		for _, g := range content.Genres {
			if _, ok := seen[g]; ok {
				continue
			}
			seen[g] = struct{}{}
			genres = append(genres, g)
		}
	}
	return genres
}

// LongestMovie returns the movie with the greatest runtime; the first one in
// load order wins a tie. Shows are ignored.
func (c *Catalog) LongestMovie() (Content, error) {
	best := -1
	for i, content := range c.contents {
		if content.Type != TypeMovie {
			continue
		}
		if best == -1 || content.Runtime > c.contents[best].Runtime {
			best = i
		}
	}
	if best == -1 {
		return Content{}, apperrors.NotFoundf("longest movie: catalog has no movies")
	}
	return c.contents[best].Clone(), nil
}

// GroupByType partitions the catalog by type. Types with no records are
// absent from the map; records keep load order within a group.
func (c *Catalog) GroupByType() map[ContentType][]Content {
	groups := make(map[ContentType][]Content)
	for _, content := range c.contents {
		groups[content.Type] = append(groups[content.Type], content.Clone())
	}
	return groups
}

// ByType returns the records of type t in load order.
func (c *Catalog) ByType(t ContentType) []Content {
	out := make([]Content, 0)
	for _, content := range c.contents {
		if content.Type == t {
			out = append(out, content.Clone())
		}
	}
	return out
}

// ByID looks a record up by its dataset id.
func (c *Catalog) ByID(id string) (Content, error) {
	pos, ok := c.byID[id]
	if !ok {
		return Content{}, apperrors.NotFoundf("content %q", id)
	}
	return c.contents[pos].Clone(), nil
}

// ByKeywords returns, in load order, the records whose description contains
// every keyword as a whole word, ignoring case. Keywords are trimmed; blank
// keywords are ignored, and with no keywords left every record matches.
func (c *Catalog) ByKeywords(keywords ...string) []Content {
	terms := NormalizeKeywords(keywords)
	if len(terms) == 0 {
		return c.AllContent()
	}
	positions := c.keywords.match(terms)
	out := make([]Content, 0, len(positions))
	for _, pos := range positions {
		out = append(out, c.contents[pos].Clone())
	}
	return out
}

// NormalizeKeywords lower-cases and trims keywords, dropping blanks and
// duplicates.
func NormalizeKeywords(keywords []string) []string {
	terms := make([]string, 0, len(keywords))
	seen := make(map[string]struct{}, len(keywords))
	for _, kw := range keywords {
		term := tokenizer.Normalize(kw)
		if term == "" {
			continue
		}
		if _, dup := seen[term]; dup {
			continue
		}
		seen[term] = struct{}{}
		terms = append(terms, term)
	}
	return terms
}
