package search

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/bluebarrow/searchd/pkg/catalog"
)

// subSearch is one independent predicate+scoring query against a single
// entity class. Sub-searches share nothing and may run concurrently.
type subSearch struct {
	name string
	run  func(ctx context.Context, p Predicates) ([]catalog.Candidate, error)
}

func (s *Service) subSearches() []subSearch {
	return []subSearch{
		{"pages", s.searchPages},
		{"categories", s.searchCategories},
		{"category-items", s.searchCategoryItems},
		{"products", s.searchProducts},
		{"product-exact", s.searchProductExact},
		{"variants", s.searchVariants},
		{"product-items", s.searchProductItems},
		{"variant-items", s.searchVariantItems},
		{"redirect-items", s.searchRedirectItems},
	}
}

// Full-text sub-searches take the max relevance across their matched fields:
// one UNION ALL arm per field group, each scoring through bm25 with weights
// that zero out the other columns, grouped back to one row per entity.

const pagesQuery = `
	SELECT p.key, p.title, p.extra, MAX(f.score) AS score
	FROM pages p
	JOIN (
		SELECT rowid, -bm25(pages_fts, 1.0, 0.0, 0.0) AS score FROM pages_fts WHERE pages_fts MATCH ?
		UNION ALL
		SELECT rowid, -bm25(pages_fts, 0.0, 1.0, 0.0) FROM pages_fts WHERE pages_fts MATCH ?
		UNION ALL
		SELECT rowid, -bm25(pages_fts, 0.0, 0.0, 1.0) FROM pages_fts WHERE pages_fts MATCH ?
	) f ON f.rowid = p.rowid
	GROUP BY p.rowid`

func (s *Service) searchPages(ctx context.Context, p Predicates) ([]catalog.Candidate, error) {
	if p.Match == "" {
		return nil, nil
	}
	rows, err := s.store.ExecuteQuery(ctx, pagesQuery,
		ColumnFilter("title", p.Match),
		ColumnFilter("body", p.Match),
		ColumnFilter("search_words", p.Match))
	if err != nil {
		return nil, fmt.Errorf("querying pages: %w", err)
	}
	return scanContentRows(rows, catalog.EntityPage, false)
}

const categoriesQuery = `
	SELECT c.key, c.title, c.extra, MAX(f.score) AS score
	FROM category_pages c
	JOIN (
		SELECT rowid, -bm25(category_pages_fts, 1.0, 0.0, 0.0) AS score FROM category_pages_fts WHERE category_pages_fts MATCH ?
		UNION ALL
		SELECT rowid, -bm25(category_pages_fts, 0.0, 1.0, 0.0) FROM category_pages_fts WHERE category_pages_fts MATCH ?
		UNION ALL
		SELECT rowid, -bm25(category_pages_fts, 0.0, 0.0, 1.0) FROM category_pages_fts WHERE category_pages_fts MATCH ?
	) f ON f.rowid = c.rowid
	GROUP BY c.rowid
	HAVING MAX(f.score) > 0`

func (s *Service) searchCategories(ctx context.Context, p Predicates) ([]catalog.Candidate, error) {
	if p.Match == "" {
		return nil, nil
	}
	rows, err := s.store.ExecuteQuery(ctx, categoriesQuery,
		ColumnFilter("title", p.Match),
		ColumnFilter("body", p.Match),
		ColumnFilter("meta", p.Match))
	if err != nil {
		return nil, fmt.Errorf("querying categories: %w", err)
	}
	return scanContentRows(rows, catalog.EntityCategory, false)
}

const categoryItemsQuery = `
	SELECT i.key, i.category_key, i.title, MAX(f.score) AS score
	FROM category_items i
	JOIN (
		SELECT rowid, -bm25(category_items_fts, 1.0, 0.0, 0.0, 0.0) AS score FROM category_items_fts WHERE category_items_fts MATCH ?
		UNION ALL
		SELECT rowid, -bm25(category_items_fts, 0.0, 1.0, 0.0, 0.0) FROM category_items_fts WHERE category_items_fts MATCH ?
		UNION ALL
		SELECT rowid, -bm25(category_items_fts, 0.0, 0.0, 1.0, 0.0) FROM category_items_fts WHERE category_items_fts MATCH ?
		UNION ALL
		SELECT rowid, -bm25(category_items_fts, 0.0, 0.0, 0.0, 1.0) FROM category_items_fts WHERE category_items_fts MATCH ?
	) f ON f.rowid = i.rowid
	GROUP BY i.rowid
	HAVING MAX(f.score) > 0`

func (s *Service) searchCategoryItems(ctx context.Context, p Predicates) ([]catalog.Candidate, error) {
	if p.Match == "" {
		return nil, nil
	}
	rows, err := s.store.ExecuteQuery(ctx, categoryItemsQuery,
		ColumnFilter("title", p.Match),
		ColumnFilter("body", p.Match),
		ColumnFilter("section_title", p.Match),
		ColumnFilter("section_body", p.Match))
	if err != nil {
		return nil, fmt.Errorf("querying category items: %w", err)
	}
	return scanContentRows(rows, catalog.EntityCategory, true)
}

// Products score as the max of three signals: full-text over name and
// description, full-text over details, and a word-boundary hit on the name
// worth a flat 40 plus the popularity tie-break.

const productsQuery = `
	SELECT p.key, p.category_key, p.name, p.model, p.image, p.color, p.extra, MAX(f.score) AS score
	FROM products p
	JOIN (
		SELECT rowid, -bm25(products_fts, 1.0, 1.0, 0.0) AS score FROM products_fts WHERE products_fts MATCH ?
		UNION ALL
		SELECT rowid, -bm25(products_fts, 0.0, 0.0, 1.0) FROM products_fts WHERE products_fts MATCH ?
		UNION ALL
		SELECT rowid, 40.0 + ordered_count / 10000.0 FROM products WHERE active = 1 AND name REGEXP ?
	) f ON f.rowid = p.rowid
	WHERE p.active = 1
	GROUP BY p.rowid`

const productsBoundaryOnlyQuery = `
	SELECT key, category_key, name, model, image, color, extra, 40.0 + ordered_count / 10000.0 AS score
	FROM products
	WHERE active = 1 AND name REGEXP ?`

func (s *Service) searchProducts(ctx context.Context, p Predicates) ([]catalog.Candidate, error) {
	var rows *sql.Rows
	var err error
	if p.Match == "" {
		rows, err = s.store.ExecuteQuery(ctx, productsBoundaryOnlyQuery, p.WordBoundary)
	} else {
		rows, err = s.store.ExecuteQuery(ctx, productsQuery,
			ColumnFilter("name description", p.Match),
			ColumnFilter("details", p.Match),
			p.WordBoundary)
	}
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}
	return scanProductRows(rows)
}

const productExactQuery = `
	SELECT key, category_key, name, model, image, color, extra, 50.0 + ordered_count / 10000.0 AS score
	FROM products
	WHERE active = 1 AND (model REGEXP ? OR replace(coalesce(upc, ''), ' ', '') REGEXP ?)`

func (s *Service) searchProductExact(ctx context.Context, p Predicates) ([]catalog.Candidate, error) {
	rows, err := s.store.ExecuteQuery(ctx, productExactQuery, p.WordBoundary, p.UPC)
	if err != nil {
		return nil, fmt.Errorf("querying exact products: %w", err)
	}
	return scanProductRows(rows)
}

// Variant and item matches surface their parent product's page, so they carry
// the product key and collapse onto it during merging. The flat constants
// keep the tier ordering: exact model > variant > item > variant item >
// redirect; ordered_count/10000 breaks ties by popularity without ever
// crossing a tier as long as order volumes stay under ten thousand.

const variantsQuery = `
	SELECT p.key, p.category_key, p.name, v.model, coalesce(v.image, p.image), v.color, p.extra, 30.0 + v.ordered_count / 10000.0 AS score
	FROM product_variants v
	JOIN products p ON p.key = v.product_key
	WHERE p.active = 1 AND (v.model REGEXP ? OR replace(coalesce(v.upc, ''), ' ', '') REGEXP ?)`

func (s *Service) searchVariants(ctx context.Context, p Predicates) ([]catalog.Candidate, error) {
	rows, err := s.store.ExecuteQuery(ctx, variantsQuery, p.WordBoundary, p.UPC)
	if err != nil {
		return nil, fmt.Errorf("querying variants: %w", err)
	}
	return scanProductRows(rows)
}

const productItemsQuery = `
	SELECT p.key, p.category_key, p.name, i.code, p.image, p.color, p.extra, 25.0 + p.ordered_count / 10000.0 AS score
	FROM product_items i
	JOIN products p ON p.key = i.product_key
	WHERE i.active = 1 AND p.active = 1 AND i.code REGEXP ?`

func (s *Service) searchProductItems(ctx context.Context, p Predicates) ([]catalog.Candidate, error) {
	rows, err := s.store.ExecuteQuery(ctx, productItemsQuery, p.WordBoundary)
	if err != nil {
		return nil, fmt.Errorf("querying product items: %w", err)
	}
	return scanProductRows(rows)
}

const variantItemsQuery = `
	SELECT p.key, p.category_key, p.name, i.code, coalesce(v.image, p.image), v.color, p.extra, 17.0 + v.ordered_count / 10000.0 AS score
	FROM variant_items i
	JOIN product_variants v ON v.key = i.variant_key
	JOIN products p ON p.key = v.product_key
	WHERE i.active = 1 AND p.active = 1 AND i.code REGEXP ?`

func (s *Service) searchVariantItems(ctx context.Context, p Predicates) ([]catalog.Candidate, error) {
	rows, err := s.store.ExecuteQuery(ctx, variantItemsQuery, p.WordBoundary)
	if err != nil {
		return nil, fmt.Errorf("querying variant items: %w", err)
	}
	return scanProductRows(rows)
}

const redirectItemsQuery = `
	SELECT t.key, t.category_key, t.name, i.code, t.image, t.color, t.extra, 15.0 AS score
	FROM product_items i
	JOIN product_redirects r ON r.from_key = i.product_key
	JOIN products t ON t.key = r.to_key
	WHERE i.code REGEXP ? AND t.active = 1`

func (s *Service) searchRedirectItems(ctx context.Context, p Predicates) ([]catalog.Candidate, error) {
	rows, err := s.store.ExecuteQuery(ctx, redirectItemsQuery, p.WordBoundary)
	if err != nil {
		return nil, fmt.Errorf("querying redirect items: %w", err)
	}
	return scanProductRows(rows)
}

// scanContentRows maps page/category rows (key, [parent or extra], title,
// score) into candidates. withParent selects the category-item shape where
// the second column is the parent key instead of the extra payload.
func scanContentRows(rows *sql.Rows, entityType catalog.EntityType, withParent bool) ([]catalog.Candidate, error) {
	defer closeRows(rows)

	var candidates []catalog.Candidate
	for rows.Next() {
		var c catalog.Candidate
		var err error
		if withParent {
			var parent sql.NullString
			err = rows.Scan(&c.Key, &parent, &c.Title, &c.Score)
			c.ParentKey = parent.String
		} else {
			var extra sql.NullString
			err = rows.Scan(&c.Key, &c.Title, &extra, &c.Score)
			if err == nil && extra.Valid {
				if c.Extra, err = unmarshalExtra(extra.String); err != nil {
					return nil, fmt.Errorf("decoding extra for %s: %w", c.Key, err)
				}
			}
		}
		if err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		c.EntityType = entityType
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

// scanProductRows maps the shared product-class row shape (key, parent,
// title, sku, image, color, extra, score) into candidates, resolving the
// color variant into the image reference inline.
func scanProductRows(rows *sql.Rows) ([]catalog.Candidate, error) {
	defer closeRows(rows)

	var candidates []catalog.Candidate
	for rows.Next() {
		var c catalog.Candidate
		var parent, sku, image, color, extra sql.NullString
		if err := rows.Scan(&c.Key, &parent, &c.Title, &sku, &image, &color, &extra, &c.Score); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		c.EntityType = catalog.EntityProduct
		c.ParentKey = parent.String
		c.SKU = sku.String
		c.Color = color.String
		if image.Valid && image.String != "" {
			c.Image = catalog.ResolveImage(image.String, c.Color)
		}
		if extra.Valid && extra.String != "" {
			var err error
			if c.Extra, err = unmarshalExtra(extra.String); err != nil {
				return nil, fmt.Errorf("decoding extra for %s: %w", c.Key, err)
			}
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

func unmarshalExtra(raw string) (map[string]any, error) {
	var extra map[string]any
	if err := json.Unmarshal([]byte(raw), &extra); err != nil {
		return nil, err
	}
	return extra, nil
}

func closeRows(rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		fmt.Printf("Warning: failed to close rows: %v\n", err)
	}
}
