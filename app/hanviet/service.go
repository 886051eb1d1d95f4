// Package hanviet provides best-effort Sino-Vietnamese readings for
// strings of Chinese characters, backed by a bulk character table fetched
// once and cached for the process lifetime.
package hanviet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/hanzilala/hanzilala/app/db"

	"github.com/rs/zerolog/log"
)

// DefaultTableURL is the public location of the full character table.
const DefaultTableURL = "https://hanzii.net/db/hanzi.json"

// Service loads and serves the character reading table. The table is
// read-shared after a single load; writes happen only in Initialize and
// Reload.
type Service struct {
	url     string
	client  *http.Client
	storage db.Storage

	mu    sync.RWMutex
	table map[string]string
}

// Initialize loads the table from the storage cache, falling back to one
// network fetch. Failures leave the service empty: readings degrade to
// absent and the rest of the application keeps working.
func (s *Service) Initialize(ctx context.Context) {
	if table, err := s.storage.GetLexicon(); err == nil {
		s.mu.Lock()
		s.table = table
		s.mu.Unlock()
		log.Info().Int("characters", len(table)).Msg("hanviet table loaded from storage")
		return
	} else if !errors.Is(err, db.ErrNotFound) {
		log.Warn().Err(err).Msg("failed to read cached hanviet table")
	}

	table, err := s.fetch(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("failed to fetch hanviet table")
		return
	}
	s.mu.Lock()
	s.table = table
	s.mu.Unlock()
	if err := s.storage.SaveLexicon(table); err != nil {
		log.Warn().Err(err).Msg("failed to cache hanviet table")
	}
	log.Info().Int("characters", len(table)).Msg("hanviet table fetched")
}

func (s *Service) fetch(ctx context.Context) (map[string]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch table: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("unsuccessfull API response %v", resp.StatusCode)
	}
	var table map[string]string
	if err := json.Unmarshal(body, &table); err != nil {
		return nil, fmt.Errorf("unmarshal table: %w", err)
	}
	return table, nil
}

// Loaded reports whether the table is available.
func (s *Service) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table != nil
}

// CharacterReading returns the reading for a single character.
func (s *Service) CharacterReading(character string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	reading, ok := s.table[character]
	return reading, ok
}

// WordReading returns the space-joined reading of a whole word.
// The policy is all-or-nothing: if any character is missing from the
// table the result is absent, so a misleading partial reading is never
// shown.
func (s *Service) WordReading(word string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.table == nil || word == "" {
		return "", false
	}
	parts := make([]string, 0, len(word)/3)
	for _, r := range word {
		reading, ok := s.table[string(r)]
		if !ok {
			return "", false
		}
		parts = append(parts, reading)
	}
	return strings.Join(parts, " "), true
}

// Reload drops the in-memory and persisted copies and refetches.
func (s *Service) Reload(ctx context.Context) {
	s.mu.Lock()
	s.table = nil
	s.mu.Unlock()
	if err := s.storage.ClearLexicon(); err != nil {
		log.Warn().Err(err).Msg("failed to clear cached hanviet table")
	}
	s.Initialize(ctx)
}

// NewService creates a Service against the production table URL.
func NewService(storage db.Storage) *Service {
	return NewServiceWithURL(storage, DefaultTableURL)
}

// NewServiceWithURL creates a Service against a custom table URL.
func NewServiceWithURL(storage db.Storage, url string) *Service {
	return &Service{url: url, client: http.DefaultClient, storage: storage}
}
