package recommender

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/Adithya-Monish-Kumar-K/Content-Analytics-Platform/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/Content-Analytics-Platform/internal/catalog"
	"github.com/Adithya-Monish-Kumar-K/Content-Analytics-Platform/internal/ranker"
	apperrors "github.com/Adithya-Monish-Kumar-K/Content-Analytics-Platform/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/Content-Analytics-Platform/pkg/metrics"
)

type recordingSink struct {
	mu     sync.Mutex
	events []analytics.QueryEvent
}

func (s *recordingSink) Record(ev analytics.QueryEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func (s *recordingSink) last(t *testing.T) analytics.QueryEvent {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.events) == 0 {
		t.Fatal("no events recorded")
	}
	return s.events[len(s.events)-1]
}

func fixture() []catalog.Content {
	return []catalog.Content{
		{ID: "tm1", Title: "Night Heist", Type: catalog.TypeMovie, Runtime: 110, Genres: []string{"crime", "thriller"},
			Description: "A crew plans one last heist.", IMDbScore: 7.0, IMDbVotes: 30000},
		{ID: "ts1", Title: "Harbor", Type: catalog.TypeShow, Runtime: 45, Seasons: 2, Genres: []string{"crime", "drama"},
			Description: "Detectives chase a heist crew.", IMDbScore: 8.0, IMDbVotes: 90000},
		{ID: "tm2", Title: "Orbit", Type: catalog.TypeMovie, Runtime: 140, Genres: []string{"scifi"},
			Description: "Lost in orbit.", IMDbScore: 6.0, IMDbVotes: 1000},
	}
}

func newRecommender(t *testing.T, contents []catalog.Content) (*Recommender, *metrics.Metrics, *recordingSink) {
	t.Helper()
	cat, err := catalog.New(contents)
	if err != nil {
		t.Fatalf("catalog.New() error: %v", err)
	}
	m := metrics.New(prometheus.NewRegistry())
	sink := &recordingSink{}
	return New(cat, ranker.New(cat, 0), m, sink), m, sink
}

func ids(contents []catalog.Content) []string {
	out := make([]string, len(contents))
	for i, c := range contents {
		out[i] = c.ID
	}
	return out
}

func TestNewSetsCatalogGauges(t *testing.T) {
	_, m, _ := newRecommender(t, fixture())
	if got := testutil.ToFloat64(m.CatalogSize.WithLabelValues("MOVIE")); got != 2 {
		t.Errorf("catalog_records{MOVIE} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.CatalogSize.WithLabelValues("SHOW")); got != 1 {
		t.Errorf("catalog_records{SHOW} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.CatalogGenres); got != 4 {
		t.Errorf("catalog_genres = %v, want 4", got)
	}
}

func TestTopNRatedRecordsOutcome(t *testing.T) {
	r, m, sink := newRecommender(t, fixture())

	top, err := r.TopNRated(2)
	if err != nil {
		t.Fatalf("TopNRated(2) error: %v", err)
	}
	if diff := cmp.Diff([]string{"ts1", "tm1"}, ids(top)); diff != "" {
		t.Errorf("TopNRated(2) mismatch (-want +got):\n%s", diff)
	}
	if got := testutil.ToFloat64(m.QueriesTotal.WithLabelValues("top_rated", "ok")); got != 1 {
		t.Errorf("queries{top_rated,ok} = %v, want 1", got)
	}
	if ev := sink.last(t); ev.Operation != analytics.OpTopRated || ev.Query != "n=2" || ev.Returned != 2 {
		t.Errorf("event = %+v", ev)
	}

	if _, err := r.TopNRated(-1); !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Fatalf("TopNRated(-1) error = %v, want ErrInvalidArgument", err)
	}
	if got := testutil.ToFloat64(m.QueriesTotal.WithLabelValues("top_rated", "invalid_argument")); got != 1 {
		t.Errorf("queries{top_rated,invalid_argument} = %v, want 1", got)
	}
	if ev := sink.last(t); ev.Err == "" {
		t.Error("failed query recorded without error text")
	}

	if _, err := r.TopNRated(0); err != nil {
		t.Fatalf("TopNRated(0) error: %v", err)
	}
	if got := testutil.ToFloat64(m.QueriesTotal.WithLabelValues("top_rated", "zero_result")); got != 1 {
		t.Errorf("queries{top_rated,zero_result} = %v, want 1", got)
	}
}

func TestLongestMovieNotFound(t *testing.T) {
	r, m, _ := newRecommender(t, []catalog.Content{
		{ID: "ts1", Type: catalog.TypeShow, Runtime: 500},
	})
	if _, err := r.LongestMovie(); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("LongestMovie() error = %v, want ErrNotFound", err)
	}
	if got := testutil.ToFloat64(m.QueriesTotal.WithLabelValues("longest_movie", "not_found")); got != 1 {
		t.Errorf("queries{longest_movie,not_found} = %v, want 1", got)
	}
}

func TestFacadeDelegates(t *testing.T) {
	r, _, sink := newRecommender(t, fixture())

	if got := r.Len(); got != 3 {
		t.Errorf("Len() = %d, want 3", got)
	}
	if got := r.Threshold(); got != ranker.DefaultSensitivityThreshold {
		t.Errorf("Threshold() = %v, want default", got)
	}
	if diff := cmp.Diff([]string{"tm1", "ts1", "tm2"}, ids(r.AllContent())); diff != "" {
		t.Errorf("AllContent() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"crime", "thriller", "drama", "scifi"}, r.AllGenres()); diff != "" {
		t.Errorf("AllGenres() mismatch (-want +got):\n%s", diff)
	}
	longest, err := r.LongestMovie()
	if err != nil || longest.ID != "tm2" {
		t.Errorf("LongestMovie() = %q, %v; want tm2", longest.ID, err)
	}
	groups := r.GroupByType()
	if len(groups[catalog.TypeMovie]) != 2 || len(groups[catalog.TypeShow]) != 1 {
		t.Errorf("GroupByType() sizes = %d/%d, want 2/1", len(groups[catalog.TypeMovie]), len(groups[catalog.TypeShow]))
	}
	if diff := cmp.Diff([]string{"tm1", "ts1"}, ids(r.ByKeywords("HEIST", " crew "))); diff != "" {
		t.Errorf("ByKeywords() mismatch (-want +got):\n%s", diff)
	}
	if ev := sink.last(t); ev.Operation != analytics.OpKeywords || ev.Query != "heist crew" {
		t.Errorf("keyword event = %+v", ev)
	}

	ref, err := r.ByID("tm1")
	if err != nil {
		t.Fatalf("ByID(tm1) error: %v", err)
	}
	if diff := cmp.Diff([]string{"tm1", "tm2"}, ids(r.SimilarTo(ref))); diff != "" {
		t.Errorf("SimilarTo() mismatch (-want +got):\n%s", diff)
	}
	scored := r.ScoredSimilar(ref)
	if len(scored) != 2 || scored[0].Score != 2 || scored[1].Score != 0 {
		t.Errorf("ScoredSimilar() = %+v", scored)
	}
	if _, err := r.ByID("missing"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("ByID(missing) error = %v, want ErrNotFound", err)
	}
}

func TestNilCollaborators(t *testing.T) {
	cat, err := catalog.New(fixture())
	if err != nil {
		t.Fatalf("catalog.New() error: %v", err)
	}
	r := New(cat, ranker.New(cat, 0), nil, nil)
	if got := len(r.AllContent()); got != 3 {
		t.Errorf("AllContent() len = %d, want 3", got)
	}
	if _, err := r.ScoredTopN(1); err != nil {
		t.Errorf("ScoredTopN(1) error: %v", err)
	}
}

func TestResultLabel(t *testing.T) {
	tests := []struct {
		returned int
		err      error
		want     string
	}{
		{3, nil, "ok"},
		{0, nil, "zero_result"},
		{0, apperrors.InvalidArgumentf("bad"), "invalid_argument"},
		{0, apperrors.NotFoundf("gone"), "not_found"},
		{0, errors.New("boom"), "error"},
	}
	for _, tt := range tests {
		if got := resultLabel(tt.returned, tt.err); got != tt.want {
			t.Errorf("resultLabel(%d, %v) = %q, want %q", tt.returned, tt.err, got, tt.want)
		}
	}
}
