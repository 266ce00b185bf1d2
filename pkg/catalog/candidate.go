// Package catalog defines the shared shapes of the storefront catalog:
// the search candidate emitted by every sub-search, the entity classes a
// candidate can belong to, and the documents the loader ingests into the
// store. Sub-searches map their entity-specific rows into Candidate
// explicitly; nothing downstream inspects entity rows directly.
package catalog

// EntityType discriminates how a candidate is rendered downstream.
type EntityType string

const (
	EntityProduct  EntityType = "product"
	EntityPage     EntityType = "page"
	EntityCategory EntityType = "category"
)

// Candidate is one match produced by a sub-search. Key is the dedup key:
// within one response no two candidates share a Key. Score is a relevance
// heuristic, higher is better; the numeric ranges of the different
// sub-searches are tuned to be comparable, not derived from a common model.
type Candidate struct {
	Key        string         `json:"key"`
	ParentKey  string         `json:"parentKey,omitempty"`
	Title      string         `json:"title"`
	SKU        string         `json:"sku,omitempty"`
	EntityType EntityType     `json:"entityType"`
	Image      string         `json:"image,omitempty"`
	Color      string         `json:"color,omitempty"`
	Extra      map[string]any `json:"extra,omitempty"`
	Score      float64        `json:"score"`
}
