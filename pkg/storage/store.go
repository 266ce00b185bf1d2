package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ncruces/go-sqlite3"
	"github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/ncruces/go-sqlite3/ext/regexp"

	searchddb "github.com/bluebarrow/searchd/pkg/db"
)

// ftsTables lists every FTS5 table kept in sync with a content table.
var ftsTables = []string{"pages_fts", "category_pages_fts", "category_items_fts", "products_fts"}

// Store wraps the catalog database. All sub-search predicates run inside
// SQLite: the REGEXP extension is registered on every connection so
// word-boundary and UPC patterns can be evaluated next to the data.
type Store struct {
	db *sql.DB
}

func NewStore(dbPath string) (*Store, error) {
	db, err := driver.Open(dbPath, func(c *sqlite3.Conn) error {
		regexp.Register(c)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Apply performance pragmas
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 30000",
		"PRAGMA cache_size = -64000", // 64MB cache
		"PRAGMA temp_store = memory",
		"PRAGMA optimize",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return nil, fmt.Errorf("applying pragma %q: %w", pragma, err)
		}
	}

	return &Store{db: db}, nil
}

// NewStoreWithMigrations opens the database and applies pending schema
// migrations before returning.
func NewStoreWithMigrations(dbPath string) (*Store, error) {
	store, err := NewStore(dbPath)
	if err != nil {
		return nil, err
	}

	mgr := searchddb.NewMigrationManager(store.db)
	if err := mgr.ApplyPendingMigrations(); err != nil {
		if cerr := store.Close(); cerr != nil {
			fmt.Printf("Warning: failed to close store: %v\n", cerr)
		}
		return nil, fmt.Errorf("applying migrations: %w", err)
	}

	return store, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection for migrations
func (s *Store) GetDB() *sql.DB {
	return s.db
}

// ExecuteQuery runs a parameterized read query. Sub-searches treat the store
// as a generic tabular executor; no query text is assembled from user input.
func (s *Store) ExecuteQuery(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return s.db.QueryContext(ctx, query, args...)
}

// ExecuteStatement runs a parameterized write statement.
func (s *Store) ExecuteStatement(query string, args ...interface{}) (sql.Result, error) {
	return s.db.Exec(query, args...)
}

func (s *Store) GetStats() (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	counts := map[string]string{
		"pages":          "SELECT COUNT(*) FROM pages",
		"categories":     "SELECT COUNT(*) FROM category_pages",
		"category_items": "SELECT COUNT(*) FROM category_items",
		"products":       "SELECT COUNT(*) FROM products",
		"variants":       "SELECT COUNT(*) FROM product_variants",
		"searches":       "SELECT COUNT(*) FROM search_log",
	}
	for name, query := range counts {
		var n int
		if err := s.db.QueryRow(query).Scan(&n); err != nil {
			return nil, fmt.Errorf("counting %s: %w", name, err)
		}
		stats[name] = n
	}

	var lastSearch sql.NullString
	err := s.db.QueryRow("SELECT MAX(created_at) FROM search_log").Scan(&lastSearch)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("getting last search time: %w", err)
	}
	if lastSearch.Valid {
		stats["last_search"] = lastSearch.String
	}

	return stats, nil
}

func (s *Store) Optimize() error {
	_, err := s.db.Exec("PRAGMA optimize")
	return err
}

func (s *Store) Analyze() error {
	_, err := s.db.Exec("ANALYZE")
	return err
}

func (s *Store) Vacuum() error {
	_, err := s.db.Exec("VACUUM")
	return err
}

func (s *Store) WALCheckpoint() error {
	_, err := s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
	return err
}

// IntegrityCheck runs SQLite's integrity check and fails on any reported issue.
func (s *Store) IntegrityCheck() error {
	var result string
	if err := s.db.QueryRow("PRAGMA integrity_check").Scan(&result); err != nil {
		return fmt.Errorf("running integrity check: %w", err)
	}
	if result != "ok" {
		return fmt.Errorf("integrity check reported: %s", result)
	}
	return nil
}

// FTSIntegrityCheck verifies every FTS5 index against its content.
func (s *Store) FTSIntegrityCheck() error {
	for _, table := range ftsTables {
		query := fmt.Sprintf("INSERT INTO %s(%s) VALUES('integrity-check')", table, table)
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("FTS integrity check failed for %s: %w", table, err)
		}
	}
	return nil
}

// FTSRebuild rebuilds every FTS5 index from its content table.
func (s *Store) FTSRebuild() error {
	for _, table := range ftsTables {
		query := fmt.Sprintf("INSERT INTO %s(%s) VALUES('rebuild')", table, table)
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("rebuilding %s: %w", table, err)
		}
	}
	return nil
}
