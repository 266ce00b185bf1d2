package storage

import (
	"encoding/json"
	"fmt"

	"github.com/bluebarrow/searchd/pkg/catalog"
)

// LoadCatalog ingests a catalog document in a single transaction. Content
// rows and their FTS5 mirrors are written together; re-loading a document
// with existing keys replaces them. Replacing a content row assigns a fresh
// rowid, so the FTS row under the old rowid is deleted first to keep the
// index free of orphans.
func (s *Store) LoadCatalog(f *catalog.File) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			if err := tx.Rollback(); err != nil {
				fmt.Printf("Warning: failed to rollback transaction: %v\n", err)
			}
		}
	}()

	for _, p := range f.Pages {
		extra, err := marshalExtra(p.Extra)
		if err != nil {
			return fmt.Errorf("marshaling extra for page %s: %w", p.Key, err)
		}
		if _, err := tx.Exec(`
			DELETE FROM pages_fts WHERE rowid = (SELECT rowid FROM pages WHERE key = ?)
		`, p.Key); err != nil {
			return fmt.Errorf("clearing FTS row for page %s: %w", p.Key, err)
		}
		if _, err := tx.Exec(`
			INSERT OR REPLACE INTO pages (key, title, body, search_words, extra)
			VALUES (?, ?, ?, ?, ?)
		`, p.Key, p.Title, p.Body, p.SearchWords, extra); err != nil {
			return fmt.Errorf("inserting page %s: %w", p.Key, err)
		}
		if _, err := tx.Exec(`
			INSERT OR REPLACE INTO pages_fts (rowid, title, body, search_words)
			VALUES ((SELECT rowid FROM pages WHERE key = ?), ?, ?, ?)
		`, p.Key, p.Title, p.Body, p.SearchWords); err != nil {
			return fmt.Errorf("inserting page %s into FTS: %w", p.Key, err)
		}
	}

	for _, c := range f.Categories {
		extra, err := marshalExtra(c.Extra)
		if err != nil {
			return fmt.Errorf("marshaling extra for category %s: %w", c.Key, err)
		}
		if _, err := tx.Exec(`
			DELETE FROM category_pages_fts WHERE rowid = (SELECT rowid FROM category_pages WHERE key = ?)
		`, c.Key); err != nil {
			return fmt.Errorf("clearing FTS row for category %s: %w", c.Key, err)
		}
		if _, err := tx.Exec(`
			INSERT OR REPLACE INTO category_pages (key, title, body, meta, extra)
			VALUES (?, ?, ?, ?, ?)
		`, c.Key, c.Title, c.Body, c.Meta, extra); err != nil {
			return fmt.Errorf("inserting category %s: %w", c.Key, err)
		}
		if _, err := tx.Exec(`
			INSERT OR REPLACE INTO category_pages_fts (rowid, title, body, meta)
			VALUES ((SELECT rowid FROM category_pages WHERE key = ?), ?, ?, ?)
		`, c.Key, c.Title, c.Body, c.Meta); err != nil {
			return fmt.Errorf("inserting category %s into FTS: %w", c.Key, err)
		}
	}

	for _, i := range f.CategoryItems {
		if _, err := tx.Exec(`
			DELETE FROM category_items_fts WHERE rowid = (SELECT rowid FROM category_items WHERE key = ?)
		`, i.Key); err != nil {
			return fmt.Errorf("clearing FTS row for category item %s: %w", i.Key, err)
		}
		if _, err := tx.Exec(`
			INSERT OR REPLACE INTO category_items (key, category_key, title, body, section_title, section_body)
			VALUES (?, ?, ?, ?, ?, ?)
		`, i.Key, i.CategoryKey, i.Title, i.Body, i.SectionTitle, i.SectionBody); err != nil {
			return fmt.Errorf("inserting category item %s: %w", i.Key, err)
		}
		if _, err := tx.Exec(`
			INSERT OR REPLACE INTO category_items_fts (rowid, title, body, section_title, section_body)
			VALUES ((SELECT rowid FROM category_items WHERE key = ?), ?, ?, ?, ?)
		`, i.Key, i.Title, i.Body, i.SectionTitle, i.SectionBody); err != nil {
			return fmt.Errorf("inserting category item %s into FTS: %w", i.Key, err)
		}
	}

	for _, p := range f.Products {
		extra, err := marshalExtra(p.Extra)
		if err != nil {
			return fmt.Errorf("marshaling extra for product %s: %w", p.Key, err)
		}
		if _, err := tx.Exec(`
			DELETE FROM products_fts WHERE rowid = (SELECT rowid FROM products WHERE key = ?)
		`, p.Key); err != nil {
			return fmt.Errorf("clearing FTS row for product %s: %w", p.Key, err)
		}
		if _, err := tx.Exec(`
			INSERT OR REPLACE INTO products (key, category_key, name, description, details, model, upc, image, color, ordered_count, active, extra)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, p.Key, nullable(p.CategoryKey), p.Name, p.Description, p.Details, p.Model, nullable(p.UPC),
			nullable(p.Image), nullable(p.Color), p.OrderedCount, boolToInt(p.Active), extra); err != nil {
			return fmt.Errorf("inserting product %s: %w", p.Key, err)
		}
		if _, err := tx.Exec(`
			INSERT OR REPLACE INTO products_fts (rowid, name, description, details)
			VALUES ((SELECT rowid FROM products WHERE key = ?), ?, ?, ?)
		`, p.Key, p.Name, p.Description, p.Details); err != nil {
			return fmt.Errorf("inserting product %s into FTS: %w", p.Key, err)
		}
	}

	for _, v := range f.Variants {
		if _, err := tx.Exec(`
			INSERT OR REPLACE INTO product_variants (key, product_key, model, upc, image, color, ordered_count)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, v.Key, v.ProductKey, v.Model, nullable(v.UPC), nullable(v.Image), nullable(v.Color), v.OrderedCount); err != nil {
			return fmt.Errorf("inserting variant %s: %w", v.Key, err)
		}
	}

	for _, i := range f.ProductItems {
		if _, err := tx.Exec(`
			INSERT OR REPLACE INTO product_items (code, product_key, active)
			VALUES (?, ?, ?)
		`, i.Code, i.ParentKey, boolToInt(i.Active)); err != nil {
			return fmt.Errorf("inserting product item %s: %w", i.Code, err)
		}
	}

	for _, i := range f.VariantItems {
		if _, err := tx.Exec(`
			INSERT OR REPLACE INTO variant_items (code, variant_key, active)
			VALUES (?, ?, ?)
		`, i.Code, i.ParentKey, boolToInt(i.Active)); err != nil {
			return fmt.Errorf("inserting variant item %s: %w", i.Code, err)
		}
	}

	for _, r := range f.Redirects {
		if _, err := tx.Exec(`
			INSERT OR REPLACE INTO product_redirects (from_key, to_key)
			VALUES (?, ?)
		`, r.FromKey, r.ToKey); err != nil {
			return fmt.Errorf("inserting redirect %s: %w", r.FromKey, err)
		}
	}

	err = tx.Commit()
	if err == nil {
		committed = true
	}
	return err
}

func marshalExtra(extra map[string]any) (interface{}, error) {
	if len(extra) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(extra)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
