package analytics

import (
	"time"

	apperrors "github.com/Adithya-Monish-Kumar-K/Content-Analytics-Platform/pkg/errors"
)

type Operation string

const (
	OpAllContent   Operation = "all_content"
	OpAllGenres    Operation = "all_genres"
	OpLongestMovie Operation = "longest_movie"
	OpGroupByType  Operation = "group_by_type"
	OpTopRated     Operation = "top_rated"
	OpSimilar      Operation = "similar"
	OpKeywords     Operation = "keywords"
	OpLookup       Operation = "lookup"
)

var operations = []Operation{
	OpAllContent, OpAllGenres, OpLongestMovie, OpGroupByType,
	OpTopRated, OpSimilar, OpKeywords, OpLookup,
}

// ParseOperation accepts the wire name of an operation, e.g. "top_rated".
func ParseOperation(s string) (Operation, error) {
	for _, op := range operations {
		if string(op) == s {
			return op, nil
		}
	}
	return "", apperrors.InvalidArgumentf("unknown operation %q", s)
}

// QueryEvent describes one completed catalog query. Query holds the
// operation's argument in printable form (keywords, n, reference id).
type QueryEvent struct {
	Operation Operation     `json:"operation"`
	Query     string        `json:"query,omitempty"`
	Returned  int           `json:"returned"`
	Latency   time.Duration `json:"latency"`
	Err       string        `json:"error,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}
