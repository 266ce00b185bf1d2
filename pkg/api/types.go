package api

import (
	"time"

	"github.com/bluebarrow/searchd/pkg/catalog"
)

// SearchResponse wraps the candidate list for the path-parameter endpoints.
// The query-parameter v3 endpoint returns the bare array instead.
type SearchResponse struct {
	Result []catalog.Candidate `json:"result"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Name  string `json:"name"`
}

type StatsResponse struct {
	Stats map[string]interface{} `json:"stats"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}
