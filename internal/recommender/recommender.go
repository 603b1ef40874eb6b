// Package recommender is the query facade over a loaded catalog. It wires the
// catalog accessors and the ranking engine together and records per-operation
// metrics and analytics events for every call.
package recommender

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/Adithya-Monish-Kumar-K/Content-Analytics-Platform/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/Content-Analytics-Platform/internal/catalog"
	"github.com/Adithya-Monish-Kumar-K/Content-Analytics-Platform/internal/ranker"
	apperrors "github.com/Adithya-Monish-Kumar-K/Content-Analytics-Platform/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/Content-Analytics-Platform/pkg/metrics"
)

// EventRecorder receives one event per completed query.
type EventRecorder interface {
	Record(event analytics.QueryEvent)
}

type Recommender struct {
	catalog  *catalog.Catalog
	engine   *ranker.Engine
	metrics  *metrics.Metrics
	recorder EventRecorder
	logger   *slog.Logger
}

// New builds the facade. m and recorder may be nil.
func New(cat *catalog.Catalog, engine *ranker.Engine, m *metrics.Metrics, recorder EventRecorder) *Recommender {
	r := &Recommender{
		catalog:  cat,
		engine:   engine,
		metrics:  m,
		recorder: recorder,
		logger:   slog.Default().With("component", "recommender"),
	}
	if m != nil {
		groups := cat.GroupByType()
		for _, t := range []catalog.ContentType{catalog.TypeMovie, catalog.TypeShow} {
			m.CatalogSize.WithLabelValues(string(t)).Set(float64(len(groups[t])))
		}
		m.CatalogGenres.Set(float64(len(cat.AllGenres())))
	}
	return r
}

func (r *Recommender) Len() int { return r.catalog.Len() }

func (r *Recommender) Threshold() float64 { return r.engine.Threshold() }

func (r *Recommender) AllContent() []catalog.Content {
	start := time.Now()
	out := r.catalog.AllContent()
	r.observe(analytics.OpAllContent, "", start, len(out), nil)
	return out
}

func (r *Recommender) AllGenres() []string {
	start := time.Now()
	out := r.catalog.AllGenres()
	r.observe(analytics.OpAllGenres, "", start, len(out), nil)
	return out
}

func (r *Recommender) LongestMovie() (catalog.Content, error) {
	start := time.Now()
	c, err := r.catalog.LongestMovie()
	r.observe(analytics.OpLongestMovie, "", start, found(err), err)
	return c, err
}

func (r *Recommender) GroupByType() map[catalog.ContentType][]catalog.Content {
	start := time.Now()
	groups := r.catalog.GroupByType()
	total := 0
	for _, g := range groups {
		total += len(g)
	}
	r.observe(analytics.OpGroupByType, "", start, total, nil)
	return groups
}

func (r *Recommender) ByID(id string) (catalog.Content, error) {
	start := time.Now()
	c, err := r.catalog.ByID(id)
	r.observe(analytics.OpLookup, id, start, found(err), err)
	return c, err
}

func (r *Recommender) TopNRated(n int) ([]catalog.Content, error) {
	start := time.Now()
	out, err := r.engine.TopNRated(n)
	r.observe(analytics.OpTopRated, TopRatedQuery(n), start, len(out), err)
	return out, err
}

func (r *Recommender) ScoredTopN(n int) ([]ranker.Scored, error) {
	start := time.Now()
	out, err := r.engine.ScoredTopN(n)
	r.observe(analytics.OpTopRated, TopRatedQuery(n), start, len(out), err)
	return out, err
}

func (r *Recommender) SimilarTo(c catalog.Content) []catalog.Content {
	start := time.Now()
	out := r.engine.SimilarTo(c)
	r.observe(analytics.OpSimilar, similarQuery(c), start, len(out), nil)
	return out
}

func (r *Recommender) ScoredSimilar(c catalog.Content) []ranker.Scored {
	start := time.Now()
	out := r.engine.ScoredSimilar(c)
	r.observe(analytics.OpSimilar, similarQuery(c), start, len(out), nil)
	return out
}

func (r *Recommender) ByKeywords(keywords ...string) []catalog.Content {
	start := time.Now()
	out := r.catalog.ByKeywords(keywords...)
	query := strings.Join(catalog.NormalizeKeywords(keywords), " ")
	r.observe(analytics.OpKeywords, query, start, len(out), nil)
	return out
}

// RecordShared accounts for a caller that received the result of another
// caller's identical in-flight query instead of running its own. query must
// be formatted the way the operation's own method formats it.
func (r *Recommender) RecordShared(op analytics.Operation, query string, latency time.Duration, returned int, err error) {
	r.record(op, query, latency, returned, err)
}

func (r *Recommender) observe(op analytics.Operation, query string, start time.Time, returned int, err error) {
	r.record(op, query, time.Since(start), returned, err)
}

func (r *Recommender) record(op analytics.Operation, query string, latency time.Duration, returned int, err error) {
	if r.metrics != nil {
		r.metrics.QueriesTotal.WithLabelValues(string(op), resultLabel(returned, err)).Inc()
		r.metrics.QueryLatency.WithLabelValues(string(op)).Observe(latency.Seconds())
		if err == nil {
			r.metrics.QueryResultsCount.WithLabelValues(string(op)).Observe(float64(returned))
		}
	}
	if r.recorder != nil {
		ev := analytics.QueryEvent{
			Operation: op,
			Query:     query,
			Returned:  returned,
			Latency:   latency,
			Timestamp: time.Now().UTC(),
		}
		if err != nil {
			ev.Err = err.Error()
		}
		r.recorder.Record(ev)
	}
	if err != nil {
		r.logger.Debug("query returned error", "operation", op, "query", query, "error", err)
	}
}

// TopRatedQuery is the analytics query string recorded for a top-N call.
func TopRatedQuery(n int) string {
	return "n=" + strconv.Itoa(n)
}

func resultLabel(returned int, err error) string {
	switch {
	case err == nil && returned == 0:
		return "zero_result"
	case err == nil:
		return "ok"
	case errors.Is(err, apperrors.ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, apperrors.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}

func found(err error) int {
	if err != nil {
		return 0
	}
	return 1
}

func similarQuery(c catalog.Content) string {
	if c.ID != "" {
		return c.ID
	}
	return c.Title
}
