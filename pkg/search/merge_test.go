package search

import (
	"testing"

	"github.com/bluebarrow/searchd/pkg/catalog"
)

func TestMergeDeduplicatesByKey(t *testing.T) {
	groups := [][]catalog.Candidate{
		{{Key: "products/wrench", Title: "Wrench", EntityType: catalog.EntityProduct, Score: 12.5}},
		{{Key: "products/wrench", Title: "Wrench", EntityType: catalog.EntityProduct, Score: 40.03}},
	}

	merged := Merge(groups, 0)
	if len(merged) != 1 {
		t.Fatalf("expected 1 candidate after merge, got %d", len(merged))
	}
	if merged[0].Score != 40.03 {
		t.Errorf("expected highest score 40.03 to survive, got %v", merged[0].Score)
	}
}

func TestMergeFirstGroupWinsScoreTies(t *testing.T) {
	groups := [][]catalog.Candidate{
		{{Key: "products/wrench", SKU: "first", Score: 25.0}},
		{{Key: "products/wrench", SKU: "second", Score: 25.0}},
	}

	merged := Merge(groups, 0)
	if len(merged) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(merged))
	}
	if merged[0].SKU != "first" {
		t.Errorf("expected first-encountered candidate to win the tie, got SKU %q", merged[0].SKU)
	}
}

func TestMergeOrdering(t *testing.T) {
	groups := [][]catalog.Candidate{
		{
			{Key: "pages/care", Score: 1.2},
			{Key: "products/b", Score: 30.0},
		},
		{
			{Key: "products/a", Score: 30.0},
			{Key: "products/c", Score: 50.01},
		},
	}

	merged := Merge(groups, 0)
	wantKeys := []string{"products/c", "products/a", "products/b", "pages/care"}
	if len(merged) != len(wantKeys) {
		t.Fatalf("expected %d candidates, got %d", len(wantKeys), len(merged))
	}
	for i, want := range wantKeys {
		if merged[i].Key != want {
			t.Errorf("position %d: got %q, want %q", i, merged[i].Key, want)
		}
	}
}

func TestMergeTruncatesToLimit(t *testing.T) {
	groups := [][]catalog.Candidate{{
		{Key: "a", Score: 3},
		{Key: "b", Score: 2},
		{Key: "c", Score: 1},
	}}

	merged := Merge(groups, 2)
	if len(merged) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(merged))
	}
	if merged[0].Key != "a" || merged[1].Key != "b" {
		t.Errorf("expected top two by score, got %q %q", merged[0].Key, merged[1].Key)
	}
}

func TestMergeEmptyGroups(t *testing.T) {
	merged := Merge([][]catalog.Candidate{nil, {}, nil}, 20)
	if len(merged) != 0 {
		t.Errorf("expected empty result, got %d candidates", len(merged))
	}
}

func TestRankStableKeyTieBreak(t *testing.T) {
	candidates := []catalog.Candidate{
		{Key: "z", Score: 10},
		{Key: "a", Score: 10},
		{Key: "m", Score: 10},
	}
	Rank(candidates)
	wantKeys := []string{"a", "m", "z"}
	for i, want := range wantKeys {
		if candidates[i].Key != want {
			t.Errorf("position %d: got %q, want %q", i, candidates[i].Key, want)
		}
	}
}
