package api

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/bluebarrow/searchd/pkg/search"
	"github.com/bluebarrow/searchd/pkg/version"
)

// HandleSearchV3Path serves GET /search/v3/{term}: default limit, results
// wrapped in a result envelope, logging gated by caller IP.
func (s *Server) HandleSearchV3Path(w http.ResponseWriter, r *http.Request) {
	term := r.PathValue("term")
	if term == "" {
		s.writeError(w, http.StatusBadRequest, "ValidationError", "search term is required")
		return
	}

	results, err := s.service.Search(r.Context(), search.Query{
		Term:      term,
		ShouldLog: s.shouldLog(r),
	})
	if err != nil {
		s.logger.Errorf("search %q failed: %v", term, err)
		s.writeError(w, http.StatusInternalServerError, "SubSearchFailure", "search failed")
		return
	}

	s.writeJSON(w, http.StatusOK, SearchResponse{Result: results})
}

// HandleSearchV3Query serves GET /search/v3?term=&limit=: same semantics as
// the path form but with a caller-supplied limit and a bare array response.
func (s *Server) HandleSearchV3Query(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("term")
	if term == "" {
		s.writeError(w, http.StatusBadRequest, "ValidationError", "query parameter 'term' is required")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "ValidationError", "query parameter 'limit' must be an integer")
			return
		}
		limit = n
	}

	results, err := s.service.Search(r.Context(), search.Query{
		Term:      term,
		Limit:     limit,
		ShouldLog: s.shouldLog(r),
	})
	if err != nil {
		s.logger.Errorf("search %q failed: %v", term, err)
		s.writeError(w, http.StatusInternalServerError, "SubSearchFailure", "search failed")
		return
	}

	s.writeJSON(w, http.StatusOK, results)
}

// HandleSearchLegacy serves the old GET /search/{term}/{limit} endpoint: the
// sequential page/product pipeline instead of the unified merge. Legacy
// traffic is never logged.
func (s *Server) HandleSearchLegacy(w http.ResponseWriter, r *http.Request) {
	term := r.PathValue("term")
	if term == "" {
		s.writeError(w, http.StatusBadRequest, "ValidationError", "search term is required")
		return
	}
	limit, err := strconv.Atoi(r.PathValue("limit"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "ValidationError", "limit must be an integer")
		return
	}

	results, err := s.service.LegacySearch(r.Context(), search.Query{Term: term, Limit: limit})
	if err != nil {
		s.logger.Errorf("legacy search %q failed: %v", term, err)
		s.writeError(w, http.StatusInternalServerError, "SubSearchFailure", "search failed")
		return
	}

	s.writeJSON(w, http.StatusOK, SearchResponse{Result: results})
}

func (s *Server) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.GetStats()
	if err != nil {
		s.logger.Errorf("collecting stats: %v", err)
		s.writeError(w, http.StatusInternalServerError, "StatsError", "failed to collect statistics")
		return
	}
	s.writeJSON(w, http.StatusOK, StatsResponse{Stats: stats})
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   version.Version,
	})
}

// shouldLog reports whether a request's search should be recorded. Searches
// from suppressed caller IPs stay out of the analytics log.
func (s *Server) shouldLog(r *http.Request) bool {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.suppressed[host]
}
