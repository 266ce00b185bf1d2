package api

import (
	"net/http"
)

func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	// API routes with method-specific routing
	mux.HandleFunc("GET /search/v3/{term}", s.HandleSearchV3Path)
	mux.HandleFunc("GET /search/v3", s.HandleSearchV3Query)
	mux.HandleFunc("GET /search/{term}/{limit}", s.HandleSearchLegacy)
	mux.HandleFunc("GET /api/stats", s.HandleStats)
	mux.HandleFunc("GET /api/searches/live", s.HandleLiveSearches)
	mux.HandleFunc("GET /health", s.HandleHealth)
}
