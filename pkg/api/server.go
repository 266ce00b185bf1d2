package api

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/bluebarrow/searchd/pkg/log"
	"github.com/bluebarrow/searchd/pkg/realtime"
	"github.com/bluebarrow/searchd/pkg/search"
	"github.com/bluebarrow/searchd/pkg/storage"
)

// Server exposes the search service over HTTP. Suppressed is the set of
// caller IPs whose searches are never written to the search log, typically
// uptime monitors and load-balancer health checks.
type Server struct {
	service *search.Service
	store   *storage.Store
	hub     *realtime.SearchHub
	logger  *log.Logger

	mu         sync.RWMutex
	suppressed map[string]bool
}

func NewServer(service *search.Service, store *storage.Store, hub *realtime.SearchHub, suppressed map[string]bool) *Server {
	if suppressed == nil {
		suppressed = make(map[string]bool)
	}
	return &Server{
		service:    service,
		store:      store,
		hub:        hub,
		suppressed: suppressed,
		logger:     log.ForComponent("api"),
	}
}

// UpdateSuppressed swaps the set of callers whose searches are not logged,
// typically on config reload.
func (s *Server) UpdateSuppressed(suppressed map[string]bool) {
	if suppressed == nil {
		suppressed = make(map[string]bool)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.suppressed = suppressed
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Errorf("encoding JSON response: %v", err)
	}
}

// writeError emits the generic error payload. Internal details stay in the
// local log; the client only sees the error name and a generic message.
func (s *Server) writeError(w http.ResponseWriter, status int, name, message string) {
	s.writeJSON(w, status, ErrorResponse{
		Error: message,
		Name:  name,
	})
}

func CorsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
