package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/bluebarrow/searchd/pkg/catalog"
)

// SearchLogEntry is one recorded search: the term as the user issued it and
// the serialized result set it produced. Write-only from the service's side;
// analytics tooling reads the table directly.
type SearchLogEntry struct {
	ID        string
	Term      string
	Results   []catalog.Candidate
	CreatedAt time.Time
}

// WriteSearchLog persists a search log entry. Callers treat this as
// best-effort; the error is for diagnostics only.
func (s *Store) WriteSearchLog(entry SearchLogEntry) error {
	results, err := json.Marshal(entry.Results)
	if err != nil {
		return fmt.Errorf("serializing results for search %q: %w", entry.Term, err)
	}

	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = s.db.Exec(`
		INSERT INTO search_log (id, term, results, created_at)
		VALUES (?, ?, ?, ?)
	`, entry.ID, entry.Term, string(results), createdAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting search log entry: %w", err)
	}
	return nil
}

// CountSearchLogs returns the number of recorded searches.
func (s *Store) CountSearchLogs() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM search_log").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting search log entries: %w", err)
	}
	return n, nil
}
