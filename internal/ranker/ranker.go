// Package ranker orders catalog records by weighted IMDb rating and by genre
// similarity to a reference title.
//
// The weighted rating is a Bayesian average that pulls titles with few votes
// towards the catalog mean:
//
//	WR = v/(v+m) * R + m/(v+m) * C
//
// where R is the title's score, v its vote count, C the mean score of the
// whole catalog and m the sensitivity threshold.
package ranker

import (
	"fmt"
	"sort"

	"github.com/Adithya-Monish-Kumar-K/Content-Analytics-Platform/internal/catalog"
	apperrors "github.com/Adithya-Monish-Kumar-K/Content-Analytics-Platform/pkg/errors"
)

// DefaultSensitivityThreshold is the vote count at which a title's own score
// and the catalog mean carry equal weight.
const DefaultSensitivityThreshold = 10_000

// Scored pairs a record with the score it was ranked by.
type Scored struct {
	Content catalog.Content `json:"content"`
	Score   float64         `json:"score"`
}

// Engine ranks the records of one catalog. It holds no mutable state.
type Engine struct {
	catalog   *catalog.Catalog
	threshold float64
}

// New returns an Engine over cat. A threshold <= 0 selects
// DefaultSensitivityThreshold.
func New(cat *catalog.Catalog, threshold float64) *Engine {
	if threshold <= 0 {
		threshold = DefaultSensitivityThreshold
	}
	return &Engine{
		catalog:   cat,
		threshold: threshold,
	}
}

// Threshold returns the sensitivity threshold m.
func (e *Engine) Threshold() float64 {
	return e.threshold
}

// WeightedRating computes WR for a title with the given score and votes.
// With zero votes the result is exactly the mean.
func WeightedRating(score, votes, mean, threshold float64) float64 {
	total := votes + threshold
	return (votes/total)*score + (threshold/total)*mean
}

// MeanScore returns the simple mean of IMDb scores over the whole catalog,
// or 0 for an empty catalog.
func (e *Engine) MeanScore() float64 {
	if e.catalog.Len() == 0 {
		return 0
	}
	var sum float64
	e.catalog.Each(func(_ int, c catalog.Content) bool {
		sum += c.IMDbScore
		return true
	})
	return sum / float64(e.catalog.Len())
}

// TopNRated returns up to n records by descending weighted rating.
func (e *Engine) TopNRated(n int) ([]catalog.Content, error) {
	scored, err := e.ScoredTopN(n)
	if err != nil {
		return nil, err
	}
	return unwrap(scored), nil
}

// ScoredTopN is TopNRated with each record's weighted rating attached.
// Records with equal ratings keep load order. It fails with
// ErrInvalidArgument when n is negative.
func (e *Engine) ScoredTopN(n int) ([]Scored, error) {
	if n < 0 {
		return nil, fmt.Errorf("top rated: %w: n must be non-negative, got %d", apperrors.ErrInvalidArgument, n)
	}
	if n == 0 || e.catalog.Len() == 0 {
		return []Scored{}, nil
	}
	mean := e.MeanScore()
	top := newTopK(n)
	e.catalog.Each(func(pos int, c catalog.Content) bool {
		top.offer(candidate{
			pos:     pos,
			content: c,
			score:   WeightedRating(c.IMDbScore, c.IMDbVotes, mean, e.threshold),
		})
		return true
	})
	return top.sorted(), nil
}

// SimilarTo returns every record of the same type as ref, ordered by the
// number of genres shared with ref, most first. ref itself is included when
// it is part of the catalog, and records sharing no genre come last.
func (e *Engine) SimilarTo(ref catalog.Content) []catalog.Content {
	return unwrap(e.ScoredSimilar(ref))
}

// ScoredSimilar is SimilarTo with each record's shared-genre count attached.
// Records with equal counts keep load order.
func (e *Engine) ScoredSimilar(ref catalog.Content) []Scored {
	scored := make([]Scored, 0)
	e.catalog.Each(func(_ int, c catalog.Content) bool {
		if c.Type == ref.Type {
			scored = append(scored, Scored{
				Content: c,
				Score:   float64(c.SharedGenres(ref)),
			})
		}
		return true
	})
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	for i := range scored {
		scored[i].Content = scored[i].Content.Clone()
	}
	return scored
}

func unwrap(scored []Scored) []catalog.Content {
	out := make([]catalog.Content, len(scored))
	for i, s := range scored {
		out[i] = s.Content
	}
	return out
}
