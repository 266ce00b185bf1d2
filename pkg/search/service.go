// Package search implements the aggregated catalog search: term
// normalization, predicate construction, the per-entity sub-searches and
// merging of their candidates into a single ranked result list.
package search

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bluebarrow/searchd/pkg/catalog"
	"github.com/bluebarrow/searchd/pkg/log"
	"github.com/bluebarrow/searchd/pkg/realtime"
	"github.com/bluebarrow/searchd/pkg/storage"
)

// Options tune search behavior. Zero values fall back to the defaults used
// by NewService.
type Options struct {
	// DefaultLimit replaces out-of-range request limits.
	DefaultLimit int
	// MaxLimit is the largest limit a caller may request.
	MaxLimit int
	// SubSearchTimeout bounds each individual sub-search query.
	SubSearchTimeout time.Duration
	// PartialResults keeps results from succeeding sub-searches when one
	// fails, instead of failing the whole request.
	PartialResults bool
}

const (
	defaultLimit            = 20
	defaultMaxLimit         = 100
	defaultSubSearchTimeout = 5 * time.Second
)

// Service runs searches against a catalog store.
type Service struct {
	store  *storage.Store
	hub    *realtime.SearchHub
	logger *log.Logger

	mu   sync.RWMutex
	opts Options
}

// Query is a single search request.
type Query struct {
	Term  string
	Limit int
	// ShouldLog records the search in the search log when set. Callers
	// clear it for monitoring and health-check traffic.
	ShouldLog bool
}

func NewService(store *storage.Store, opts Options) *Service {
	return &Service{
		store:  store,
		opts:   normalizeOptions(opts),
		logger: log.ForComponent("search"),
	}
}

func normalizeOptions(opts Options) Options {
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = defaultLimit
	}
	if opts.MaxLimit <= 0 {
		opts.MaxLimit = defaultMaxLimit
	}
	if opts.SubSearchTimeout <= 0 {
		opts.SubSearchTimeout = defaultSubSearchTimeout
	}
	return opts
}

// UpdateOptions swaps the tuning options, typically on config reload.
// In-flight searches keep the options they started with.
func (s *Service) UpdateOptions(opts Options) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opts = normalizeOptions(opts)
}

func (s *Service) options() Options {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.opts
}

// AttachHub wires a realtime hub that receives an event per logged search.
func (s *Service) AttachHub(hub *realtime.SearchHub) {
	s.hub = hub
}

// Search runs every sub-search for the query term, merges the candidates
// into one ranked list and, when requested, records the search in the log.
// An empty term after normalization returns an empty list without touching
// the store.
func (s *Service) Search(ctx context.Context, q Query) ([]catalog.Candidate, error) {
	term := Normalize(q.Term)
	if term == "" {
		return []catalog.Candidate{}, nil
	}
	opts := s.options()
	limit := NormalizeLimit(q.Limit, opts.DefaultLimit, opts.MaxLimit)
	preds := BuildPredicates(term)

	groups, err := s.runSubSearches(ctx, preds, opts)
	if err != nil {
		return nil, err
	}
	results := Merge(groups, limit)

	if q.ShouldLog {
		s.logSearch(term, results)
	}
	return results, nil
}

// runSubSearches fans the predicate set out to all sub-searches and collects
// their candidate groups in declaration order, so merging stays
// deterministic regardless of completion order.
func (s *Service) runSubSearches(ctx context.Context, preds Predicates, opts Options) ([][]catalog.Candidate, error) {
	subs := s.subSearches()
	groups := make([][]catalog.Candidate, len(subs))
	errs := make([]error, len(subs))

	done := make(chan int, len(subs))
	for i, sub := range subs {
		go func(i int, sub subSearch) {
			defer func() { done <- i }()
			subCtx, cancel := context.WithTimeout(ctx, opts.SubSearchTimeout)
			defer cancel()
			candidates, err := sub.run(subCtx, preds)
			if err != nil {
				errs[i] = fmt.Errorf("%s: %w", sub.name, err)
				return
			}
			groups[i] = candidates
		}(i, sub)
	}
	for range subs {
		<-done
	}

	for _, err := range errs {
		if err == nil {
			continue
		}
		if opts.PartialResults {
			s.logger.Warnf("sub-search failed, keeping partial results: %v", err)
			continue
		}
		return nil, fmt.Errorf("sub-search failed: %w", err)
	}
	return groups, nil
}

// logSearch records the search best-effort: a failed write never affects
// the response.
func (s *Service) logSearch(term string, results []catalog.Candidate) {
	entry := storage.SearchLogEntry{
		ID:        uuid.NewString(),
		Term:      term,
		Results:   results,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.WriteSearchLog(entry); err != nil {
		s.logger.Errorf("failed to write search log for %q: %v", term, err)
		return
	}
	if s.hub != nil {
		topScore := 0.0
		if len(results) > 0 {
			topScore = results[0].Score
		}
		s.hub.Broadcast(realtime.SearchEvent{
			ID:        entry.ID,
			Term:      term,
			Hits:      len(results),
			TopScore:  topScore,
			CreatedAt: entry.CreatedAt,
		})
	}
}

// LegacySearch is the sequential pipeline behind the old endpoint: pages
// first, then exact model/UPC products, then primary products, each stage
// ranked on its own and appended until the limit is reached. Legacy
// searches are never logged.
func (s *Service) LegacySearch(ctx context.Context, q Query) ([]catalog.Candidate, error) {
	term := Normalize(q.Term)
	if term == "" {
		return []catalog.Candidate{}, nil
	}
	opts := s.options()
	limit := NormalizeLimit(q.Limit, opts.DefaultLimit, opts.MaxLimit)
	preds := BuildPredicates(term)

	stages := []func(context.Context, Predicates) ([]catalog.Candidate, error){
		s.searchPages,
		s.searchProductExact,
		s.searchProducts,
	}

	results := make([]catalog.Candidate, 0, limit)
	seen := make(map[string]bool)
	for _, stage := range stages {
		if len(results) >= limit {
			break
		}
		stageCtx, cancel := context.WithTimeout(ctx, opts.SubSearchTimeout)
		candidates, err := stage(stageCtx, preds)
		cancel()
		if err != nil {
			return nil, fmt.Errorf("legacy search failed: %w", err)
		}
		Rank(candidates)
		for _, c := range candidates {
			if len(results) >= limit {
				break
			}
			if seen[c.Key] {
				continue
			}
			seen[c.Key] = true
			results = append(results, c)
		}
	}
	return results, nil
}
