package search

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"github.com/bluebarrow/searchd/pkg/catalog"
	"github.com/bluebarrow/searchd/pkg/storage"
)

func newTestService(t *testing.T) (*Service, *storage.Store) {
	t.Helper()

	store, err := storage.NewStoreWithMigrations(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("closing store: %v", err)
		}
	})

	fixture := &catalog.File{
		Pages: []catalog.Page{
			{
				Key:   "pages/hat-care",
				Title: "Chums Hat Care",
				Body:  "How to wash and store your chums hat.",
			},
		},
		Categories: []catalog.CategoryPage{
			{
				Key:   "categories/headwear",
				Title: "Headwear",
				Body:  "Hats, caps and retainers.",
				Meta:  "chums hat retainers",
			},
		},
		Products: []catalog.Product{
			{
				Key:          "products/chums-hat",
				Name:         "Chums-Hat Classic",
				Description:  "The original chums hat retainer.",
				Model:        "CH-100",
				OrderedCount: 250,
				Active:       true,
			},
			{
				Key:          "products/wr100x",
				Name:         "Torque Wrench",
				Description:  "Professional torque wrench.",
				Model:        "WR-100X",
				UPC:          "0 12345 67890 5",
				OrderedCount: 10,
				Active:       true,
			},
			{
				Key:    "products/ghost",
				Name:   "Chums-Hat Ghost",
				Model:  "CH-900",
				Active: false,
			},
			{
				Key:    "products/old",
				Name:   "Old Wrench",
				Model:  "OW-1",
				Active: false,
			},
		},
		Variants: []catalog.Variant{
			{
				Key:          "variants/wr100b",
				ProductKey:   "products/wr100x",
				Model:        "WR-100B",
				OrderedCount: 40,
			},
		},
		ProductItems: []catalog.Item{
			{Code: "K77", ParentKey: "products/wr100x", Active: true},
			{Code: "Z55", ParentKey: "products/old", Active: true},
		},
		Redirects: []catalog.Redirect{
			{FromKey: "products/old", ToKey: "products/chums-hat"},
		},
	}
	if err := store.LoadCatalog(fixture); err != nil {
		t.Fatalf("loading fixture: %v", err)
	}

	return NewService(store, Options{}), store
}

func scoreClose(got, want float64) bool {
	return math.Abs(got-want) < 1e-6
}

func TestSearchRanksBoundaryProductAboveFulltextPage(t *testing.T) {
	svc, _ := newTestService(t)

	results, err := svc.Search(context.Background(), Query{Term: "chums-hat"})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results) < 2 {
		t.Fatalf("expected at least product and page, got %d results", len(results))
	}

	first := results[0]
	if first.Key != "products/chums-hat" {
		t.Errorf("expected product first, got %q", first.Key)
	}
	if first.EntityType != catalog.EntityProduct {
		t.Errorf("expected product entity type, got %q", first.EntityType)
	}
	if !scoreClose(first.Score, 40.025) {
		t.Errorf("expected boundary score 40.025, got %v", first.Score)
	}

	var page *catalog.Candidate
	for i := range results {
		if results[i].Key == "pages/hat-care" {
			page = &results[i]
		}
		if results[i].Key == "products/ghost" {
			t.Error("inactive product surfaced in results")
		}
	}
	if page == nil {
		t.Fatal("expected page candidate in results")
	}
	if page.EntityType != catalog.EntityPage {
		t.Errorf("expected page entity type, got %q", page.EntityType)
	}
	if page.Score <= 0 || page.Score >= first.Score {
		t.Errorf("expected page score in (0, %v), got %v", first.Score, page.Score)
	}
}

func TestSearchExactModel(t *testing.T) {
	svc, _ := newTestService(t)

	results, err := svc.Search(context.Background(), Query{Term: "WR-100X"})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("expected a result for exact model code")
	}
	if results[0].Key != "products/wr100x" {
		t.Errorf("expected products/wr100x first, got %q", results[0].Key)
	}
	if !scoreClose(results[0].Score, 50.001) {
		t.Errorf("expected exact-model score 50.001, got %v", results[0].Score)
	}
}

func TestSearchCompactedUPC(t *testing.T) {
	svc, _ := newTestService(t)

	results, err := svc.Search(context.Background(), Query{Term: "012345678905"})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected exactly one result, got %d", len(results))
	}
	if results[0].Key != "products/wr100x" {
		t.Errorf("expected products/wr100x, got %q", results[0].Key)
	}
	if !scoreClose(results[0].Score, 50.001) {
		t.Errorf("expected exact-UPC score 50.001, got %v", results[0].Score)
	}
}

func TestSearchVariantModelSurfacesParentProduct(t *testing.T) {
	svc, _ := newTestService(t)

	results, err := svc.Search(context.Background(), Query{Term: "WR-100B"})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected exactly one result, got %d", len(results))
	}
	got := results[0]
	if got.Key != "products/wr100x" {
		t.Errorf("expected parent product key, got %q", got.Key)
	}
	if got.SKU != "WR-100B" {
		t.Errorf("expected variant model as SKU, got %q", got.SKU)
	}
	if !scoreClose(got.Score, 30.004) {
		t.Errorf("expected variant score 30.004, got %v", got.Score)
	}
}

func TestSearchItemCodeSurfacesParentProduct(t *testing.T) {
	svc, _ := newTestService(t)

	results, err := svc.Search(context.Background(), Query{Term: "K77"})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected exactly one result, got %d", len(results))
	}
	if results[0].Key != "products/wr100x" {
		t.Errorf("expected parent product key, got %q", results[0].Key)
	}
	if !scoreClose(results[0].Score, 25.001) {
		t.Errorf("expected item score 25.001, got %v", results[0].Score)
	}
}

func TestSearchRedirectedItemCode(t *testing.T) {
	svc, _ := newTestService(t)

	results, err := svc.Search(context.Background(), Query{Term: "Z55"})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected exactly one result, got %d", len(results))
	}
	if results[0].Key != "products/chums-hat" {
		t.Errorf("expected redirect target, got %q", results[0].Key)
	}
	if results[0].Score != 15.0 {
		t.Errorf("expected flat redirect score 15, got %v", results[0].Score)
	}
}

func TestSearchEmptyTermSkipsStore(t *testing.T) {
	svc, store := newTestService(t)

	results, err := svc.Search(context.Background(), Query{Term: "   ", ShouldLog: true})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected empty results, got %d", len(results))
	}

	n, err := store.CountSearchLogs()
	if err != nil {
		t.Fatalf("counting search logs: %v", err)
	}
	if n != 0 {
		t.Errorf("empty term must not be logged, found %d log rows", n)
	}
}

func TestSearchLogging(t *testing.T) {
	svc, store := newTestService(t)

	if _, err := svc.Search(context.Background(), Query{Term: "chums-hat", ShouldLog: true}); err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if _, err := svc.Search(context.Background(), Query{Term: "chums-hat"}); err != nil {
		t.Fatalf("search failed: %v", err)
	}

	n, err := store.CountSearchLogs()
	if err != nil {
		t.Fatalf("counting search logs: %v", err)
	}
	if n != 1 {
		t.Errorf("expected exactly one log row, got %d", n)
	}
}

func TestSearchAppliesLimit(t *testing.T) {
	svc, _ := newTestService(t)

	results, err := svc.Search(context.Background(), Query{Term: "chums-hat", Limit: 1})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected exactly one result, got %d", len(results))
	}
	if results[0].Key != "products/chums-hat" {
		t.Errorf("expected top-ranked candidate to survive truncation, got %q", results[0].Key)
	}
}

func TestSearchResultInvariants(t *testing.T) {
	svc, _ := newTestService(t)

	// Every term must search cleanly, including operator-bearing ones.
	terms := []string{"chums-hat", `"chums hat"`, "hat*", "+chums -metric", "wrench"}
	for _, term := range terms {
		t.Run(term, func(t *testing.T) {
			results, err := svc.Search(context.Background(), Query{Term: term})
			if err != nil {
				t.Fatalf("search failed: %v", err)
			}

			seen := make(map[string]bool)
			for i, c := range results {
				if seen[c.Key] {
					t.Errorf("duplicate key %q in results", c.Key)
				}
				seen[c.Key] = true

				if i == 0 {
					continue
				}
				prev := results[i-1]
				if c.Score > prev.Score {
					t.Errorf("results out of order: %q (%v) after %q (%v)",
						c.Key, c.Score, prev.Key, prev.Score)
				}
				if c.Score == prev.Score && c.Key < prev.Key {
					t.Errorf("key tie-break violated: %q after %q", c.Key, prev.Key)
				}
			}
		})
	}

	// An out-of-range limit falls back to the default rather than clamping.
	results, err := svc.Search(context.Background(), Query{Term: "chums-hat", Limit: 100000})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results) > defaultLimit {
		t.Errorf("expected at most the default limit %d results, got %d", defaultLimit, len(results))
	}
}

func TestLegacySearchPipelineOrder(t *testing.T) {
	svc, _ := newTestService(t)

	results, err := svc.LegacySearch(context.Background(), Query{Term: "chums-hat"})
	if err != nil {
		t.Fatalf("legacy search failed: %v", err)
	}
	if len(results) < 2 {
		t.Fatalf("expected page and product, got %d results", len(results))
	}
	// Pages come first regardless of score: stages append in pipeline order.
	if results[0].Key != "pages/hat-care" {
		t.Errorf("expected page stage first, got %q", results[0].Key)
	}
	if results[1].Key != "products/chums-hat" {
		t.Errorf("expected product after page stage, got %q", results[1].Key)
	}
}
