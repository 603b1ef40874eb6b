// Package handler serves the catalog facade over HTTP as JSON.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Adithya-Monish-Kumar-K/Content-Analytics-Platform/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/Content-Analytics-Platform/internal/catalog"
	"github.com/Adithya-Monish-Kumar-K/Content-Analytics-Platform/internal/ranker"
	"github.com/Adithya-Monish-Kumar-K/Content-Analytics-Platform/internal/recommender"
	apperrors "github.com/Adithya-Monish-Kumar-K/Content-Analytics-Platform/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/Content-Analytics-Platform/pkg/logger"
)

// Catalog is the subset of the recommender facade the handler needs.
type Catalog interface {
	Len() int
	Threshold() float64
	AllContent() []catalog.Content
	AllGenres() []string
	LongestMovie() (catalog.Content, error)
	GroupByType() map[catalog.ContentType][]catalog.Content
	ByID(id string) (catalog.Content, error)
	ScoredTopN(n int) ([]ranker.Scored, error)
	ScoredSimilar(ref catalog.Content) []ranker.Scored
	ByKeywords(keywords ...string) []catalog.Content
	RecordShared(op analytics.Operation, query string, latency time.Duration, returned int, err error)
}

type ContentList struct {
	Count   int               `json:"count"`
	Results []catalog.Content `json:"results"`
}

type ScoredList struct {
	Count     int             `json:"count"`
	Threshold float64         `json:"threshold,omitempty"`
	Results   []ranker.Scored `json:"results"`
}

type Handler struct {
	catalog      Catalog
	group        singleflight.Group
	defaultLimit int
	maxResults   int
	logger       *slog.Logger
}

func New(cat Catalog, defaultLimit, maxResults int) *Handler {
	return &Handler{
		catalog:      cat,
		defaultLimit: defaultLimit,
		maxResults:   maxResults,
		logger:       slog.Default().With("component", "catalog-handler"),
	}
}

// Register mounts every route on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/content", h.AllContent)
	mux.HandleFunc("GET /api/v1/content/longest-movie", h.LongestMovie)
	mux.HandleFunc("GET /api/v1/content/by-type", h.GroupByType)
	mux.HandleFunc("GET /api/v1/content/top", h.TopRated)
	mux.HandleFunc("GET /api/v1/content/{id}", h.ByID)
	mux.HandleFunc("GET /api/v1/content/{id}/similar", h.Similar)
	mux.HandleFunc("GET /api/v1/genres", h.Genres)
	mux.HandleFunc("GET /api/v1/search", h.Search)
}

func (h *Handler) AllContent(w http.ResponseWriter, r *http.Request) {
	out := h.catalog.AllContent()
	h.writeJSON(w, http.StatusOK, ContentList{Count: len(out), Results: out})
}

func (h *Handler) Genres(w http.ResponseWriter, r *http.Request) {
	genres := h.catalog.AllGenres()
	h.writeJSON(w, http.StatusOK, map[string]any{"count": len(genres), "genres": genres})
}

func (h *Handler) LongestMovie(w http.ResponseWriter, r *http.Request) {
	c, err := h.catalog.LongestMovie()
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, c)
}

func (h *Handler) GroupByType(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.catalog.GroupByType())
}

func (h *Handler) ByID(w http.ResponseWriter, r *http.Request) {
	c, err := h.catalog.ByID(r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, c)
}

// TopRated serves ?n=, defaulting to the configured limit and capped at the
// configured maximum. Identical concurrent requests share one ranking pass;
// callers that did not run it are still recorded once each.
func (h *Handler) TopRated(w http.ResponseWriter, r *http.Request) {
	n, err := h.limitParam(r, "n")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	start := time.Now()
	ran := false
	v, err, _ := h.group.Do("top:"+strconv.Itoa(n), func() (any, error) {
		ran = true
		return h.catalog.ScoredTopN(n)
	})
	results, _ := v.([]ranker.Scored)
	if !ran {
		h.catalog.RecordShared(analytics.OpTopRated, recommender.TopRatedQuery(n), time.Since(start), len(results), err)
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Debug("top rated served", "n", n, "returned", len(results), "shared", !ran)
	h.writeJSON(w, http.StatusOK, ScoredList{
		Count:     len(results),
		Threshold: h.catalog.Threshold(),
		Results:   results,
	})
}

// Similar serves the records most similar to {id}, truncated to ?limit=.
func (h *Handler) Similar(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	limit, err := h.limitParam(r, "limit")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	start := time.Now()
	ran := false
	v, err, _ := h.group.Do("similar:"+id, func() (any, error) {
		ran = true
		ref, err := h.catalog.ByID(id)
		if err != nil {
			return nil, err
		}
		return h.catalog.ScoredSimilar(ref), nil
	})
	results, _ := v.([]ranker.Scored)
	if !ran {
		op := analytics.OpSimilar
		if err != nil {
			op = analytics.OpLookup
		}
		h.catalog.RecordShared(op, id, time.Since(start), len(results), err)
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if len(results) > limit {
		results = results[:limit]
	}
	h.writeJSON(w, http.StatusOK, ScoredList{Count: len(results), Results: results})
}

// Search matches ?q= split on whitespace; an empty query matches everything.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	keywords := strings.Fields(r.URL.Query().Get("q"))
	out := h.catalog.ByKeywords(keywords...)
	logger.FromContext(r.Context()).Info("search completed",
		"keywords", keywords,
		"returned", len(out),
	)
	h.writeJSON(w, http.StatusOK, ContentList{Count: len(out), Results: out})
}

func (h *Handler) limitParam(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return min(h.defaultLimit, h.maxResults), nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, apperrors.InvalidArgumentf("%s must be a non-negative integer, got %q", name, raw)
	}
	return min(n, h.maxResults), nil
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.HTTPStatusCode(err)
	message := err.Error()
	if status >= http.StatusInternalServerError {
		logger.FromContext(r.Context()).Error("request failed", "path", r.URL.Path, "error", err)
		message = "internal error"
	}
	h.writeJSON(w, status, map[string]string{"error": message})
}
