// Package dataset parses the tabular title export into catalog records.
//
// The input is CSV with a header row followed by one row per title:
//
//	id,title,type,description,release_year,runtime,genres,seasons,imdb_id,imdb_score,imdb_votes
//
// genres is a bracketed list such as ['drama'; 'crime']. Any malformed row
// aborts the load with an error wrapping ErrLoadFailure.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/Adithya-Monish-Kumar-K/Content-Analytics-Platform/internal/catalog"
	apperrors "github.com/Adithya-Monish-Kumar-K/Content-Analytics-Platform/pkg/errors"
)

const (
	colID = iota
	colTitle
	colType
	colDescription
	colReleaseYear
	colRuntime
	colGenres
	colSeasons
	colIMDbID
	colIMDbScore
	colIMDbVotes
	numColumns
)

// LoadFile reads the dataset at path and builds a Catalog from it.
func LoadFile(path string) (*catalog.Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening dataset %s: %w", apperrors.ErrLoadFailure, path, err)
	}
	defer f.Close()

	start := time.Now()
	contents, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", path, err)
	}
	cat, err := catalog.New(contents)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", path, err)
	}
	slog.Default().With("component", "dataset").Info("dataset parsed",
		"path", path,
		"rows", len(contents),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return cat, nil
}

// Parse reads every row after the header. An input with no header yields no
// records.
func Parse(r io.Reader) ([]catalog.Content, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return []catalog.Content{}, nil
		}
		return nil, fmt.Errorf("%w: reading header: %w", apperrors.ErrLoadFailure, err)
	}

	contents := make([]catalog.Content, 0)
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", apperrors.ErrLoadFailure, err)
		}
		line, _ := cr.FieldPos(0)
		content, err := parseRow(line, record)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", apperrors.ErrLoadFailure, err)
		}
		contents = append(contents, content)
	}
	return contents, nil
}
