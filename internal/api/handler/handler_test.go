package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Adithya-Monish-Kumar-K/Content-Analytics-Platform/internal/catalog"
	"github.com/Adithya-Monish-Kumar-K/Content-Analytics-Platform/internal/ranker"
	"github.com/Adithya-Monish-Kumar-K/Content-Analytics-Platform/internal/recommender"
)

func newTestServer(t *testing.T, contents []catalog.Content) *httptest.Server {
	t.Helper()
	cat, err := catalog.New(contents)
	if err != nil {
		t.Fatalf("catalog.New() error: %v", err)
	}
	rec := recommender.New(cat, ranker.New(cat, 0), nil, nil)
	mux := http.NewServeMux()
	New(rec, 2, 3).Register(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func fixture() []catalog.Content {
	return []catalog.Content{
		{ID: "tm1", Title: "Night Heist", Type: catalog.TypeMovie, Runtime: 110, Genres: []string{"crime", "thriller"},
			Description: "A crew plans one last heist.", IMDbScore: 7.0, IMDbVotes: 30000},
		{ID: "ts1", Title: "Harbor", Type: catalog.TypeShow, Runtime: 45, Seasons: 2, Genres: []string{"crime", "drama"},
			Description: "Detectives chase a heist crew.", IMDbScore: 8.0, IMDbVotes: 90000},
		{ID: "tm2", Title: "Orbit", Type: catalog.TypeMovie, Runtime: 140, Genres: []string{"scifi", "crime"},
			Description: "Lost in orbit.", IMDbScore: 6.0, IMDbVotes: 1000},
		{ID: "tm3", Title: "Short", Type: catalog.TypeMovie, Runtime: 20, Genres: []string{"comedy"},
			Description: "A tiny film.", IMDbScore: 5.0, IMDbVotes: 10},
	}
}

func get(t *testing.T, srv *httptest.Server, path string, want int, into any) {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != want {
		t.Fatalf("GET %s status = %d, want %d", path, resp.StatusCode, want)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("GET %s Content-Type = %q", path, ct)
	}
	if into != nil {
		if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
			t.Fatalf("GET %s decode: %v", path, err)
		}
	}
}

func ids(contents []catalog.Content) []string {
	out := make([]string, len(contents))
	for i, c := range contents {
		out[i] = c.ID
	}
	return out
}

func scoredIDs(scored []ranker.Scored) []string {
	out := make([]string, len(scored))
	for i, s := range scored {
		out[i] = s.Content.ID
	}
	return out
}

func TestContentRoutes(t *testing.T) {
	srv := newTestServer(t, fixture())

	var all ContentList
	get(t, srv, "/api/v1/content", http.StatusOK, &all)
	if diff := cmp.Diff([]string{"tm1", "ts1", "tm2", "tm3"}, ids(all.Results)); diff != "" {
		t.Errorf("content mismatch (-want +got):\n%s", diff)
	}

	var one catalog.Content
	get(t, srv, "/api/v1/content/ts1", http.StatusOK, &one)
	if one.Title != "Harbor" || one.Seasons != 2 {
		t.Errorf("content/ts1 = %+v", one)
	}
	get(t, srv, "/api/v1/content/nope", http.StatusNotFound, nil)

	var longest catalog.Content
	get(t, srv, "/api/v1/content/longest-movie", http.StatusOK, &longest)
	if longest.ID != "tm2" {
		t.Errorf("longest-movie = %q, want tm2", longest.ID)
	}

	var groups map[catalog.ContentType][]catalog.Content
	get(t, srv, "/api/v1/content/by-type", http.StatusOK, &groups)
	if len(groups[catalog.TypeMovie]) != 3 || len(groups[catalog.TypeShow]) != 1 {
		t.Errorf("by-type sizes = %d/%d, want 3/1", len(groups[catalog.TypeMovie]), len(groups[catalog.TypeShow]))
	}

	var genres struct {
		Count  int      `json:"count"`
		Genres []string `json:"genres"`
	}
	get(t, srv, "/api/v1/genres", http.StatusOK, &genres)
	if diff := cmp.Diff([]string{"crime", "thriller", "drama", "scifi", "comedy"}, genres.Genres); diff != "" {
		t.Errorf("genres mismatch (-want +got):\n%s", diff)
	}
}

func TestLongestMovieMissing(t *testing.T) {
	srv := newTestServer(t, []catalog.Content{{ID: "ts1", Type: catalog.TypeShow}})
	var body map[string]string
	get(t, srv, "/api/v1/content/longest-movie", http.StatusNotFound, &body)
	if body["error"] == "" {
		t.Error("missing error message")
	}
}

func TestTopRated(t *testing.T) {
	srv := newTestServer(t, fixture())

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"default limit", "", 2},
		{"explicit", "?n=1", 1},
		{"capped at max", "?n=50", 3},
		{"zero", "?n=0", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var list ScoredList
			get(t, srv, "/api/v1/content/top"+tt.query, http.StatusOK, &list)
			if list.Count != tt.want || len(list.Results) != tt.want {
				t.Errorf("count = %d (results %d), want %d", list.Count, len(list.Results), tt.want)
			}
			for i := 1; i < len(list.Results); i++ {
				if list.Results[i].Score > list.Results[i-1].Score {
					t.Errorf("results not in descending order at %d", i)
				}
			}
		})
	}

	var list ScoredList
	get(t, srv, "/api/v1/content/top?n=1", http.StatusOK, &list)
	if diff := cmp.Diff([]string{"ts1"}, scoredIDs(list.Results)); diff != "" {
		t.Errorf("top-1 mismatch (-want +got):\n%s", diff)
	}
	if list.Threshold != ranker.DefaultSensitivityThreshold {
		t.Errorf("threshold = %v, want default", list.Threshold)
	}

	get(t, srv, "/api/v1/content/top?n=-1", http.StatusBadRequest, nil)
	get(t, srv, "/api/v1/content/top?n=abc", http.StatusBadRequest, nil)
}

func TestSimilar(t *testing.T) {
	srv := newTestServer(t, fixture())

	var list ScoredList
	get(t, srv, "/api/v1/content/tm1/similar?limit=3", http.StatusOK, &list)
	if diff := cmp.Diff([]string{"tm1", "tm2", "tm3"}, scoredIDs(list.Results)); diff != "" {
		t.Errorf("similar mismatch (-want +got):\n%s", diff)
	}
	if list.Results[0].Score != 2 || list.Results[1].Score != 1 || list.Results[2].Score != 0 {
		t.Errorf("scores = %v, %v, %v", list.Results[0].Score, list.Results[1].Score, list.Results[2].Score)
	}

	get(t, srv, "/api/v1/content/tm1/similar?limit=1", http.StatusOK, &list)
	if list.Count != 1 {
		t.Errorf("limit=1 count = %d", list.Count)
	}
	get(t, srv, "/api/v1/content/missing/similar", http.StatusNotFound, nil)
	get(t, srv, "/api/v1/content/tm1/similar?limit=x", http.StatusBadRequest, nil)
}

func TestSearch(t *testing.T) {
	srv := newTestServer(t, fixture())

	tests := []struct {
		query string
		want  []string
	}{
		{"?q=heist", []string{"tm1", "ts1"}},
		{"?q=HEIST+crew", []string{"tm1", "ts1"}},
		{"?q=heist+detectives", []string{"ts1"}},
		{"?q=hei", []string{}},
		{"", []string{"tm1", "ts1", "tm2", "tm3"}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			var list ContentList
			get(t, srv, "/api/v1/search"+tt.query, http.StatusOK, &list)
			if diff := cmp.Diff(tt.want, ids(list.Results)); diff != "" {
				t.Errorf("search mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
