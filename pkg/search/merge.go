package search

import (
	"sort"

	"github.com/bluebarrow/searchd/pkg/catalog"
)

// Merge combines the candidate groups produced by the sub-searches into one
// ranked result list. Candidates sharing a key collapse to the row with the
// highest score (the first-encountered row wins ties, so group order decides);
// the survivors are ranked by score descending with the key as a deterministic
// tie-break, then truncated to limit. A limit <= 0 means no truncation.
func Merge(groups [][]catalog.Candidate, limit int) []catalog.Candidate {
	var total int
	for _, g := range groups {
		total += len(g)
	}

	merged := make([]catalog.Candidate, 0, total)
	index := make(map[string]int, total)

	for _, group := range groups {
		for _, c := range group {
			if i, ok := index[c.Key]; ok {
				if c.Score > merged[i].Score {
					merged[i] = c
				}
				continue
			}
			index[c.Key] = len(merged)
			merged = append(merged, c)
		}
	}

	Rank(merged)

	if limit > 0 && len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}

// Rank sorts candidates by score descending, key ascending.
func Rank(candidates []catalog.Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].Key < candidates[j].Key
	})
}
