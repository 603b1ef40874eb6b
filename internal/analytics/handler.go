package analytics

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/Adithya-Monish-Kumar-K/Content-Analytics-Platform/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/Content-Analytics-Platform/pkg/logger"
)

// StatsSource is satisfied by *Aggregator.
type StatsSource interface {
	Stats() AggregatedStats
}

type Handler struct {
	source StatsSource
}

func NewHandler(source StatsSource) *Handler {
	return &Handler{source: source}
}

// Stats serves the aggregate. With ?op=<operation> the per-operation map is
// narrowed to that operation; an unknown name is answered 400.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats := h.source.Stats()
	if raw := r.URL.Query().Get("op"); raw != "" {
		op, err := ParseOperation(raw)
		if err != nil {
			writeJSON(w, r, apperrors.HTTPStatusCode(err), map[string]string{"error": err.Error()})
			return
		}
		stats.ByOperation = map[Operation]int64{op: stats.ByOperation[op]}
	}
	writeJSON(w, r, http.StatusOK, stats)
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.FromContext(r.Context()).Error("failed to write analytics response", "error", err)
	}
}
