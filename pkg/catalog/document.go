package catalog

// File is the bulk-load document format consumed by `searchd load`.
// All sections are optional; keys must be unique within their section.
type File struct {
	Pages         []Page         `json:"pages,omitempty"`
	Categories    []CategoryPage `json:"categories,omitempty"`
	CategoryItems []CategoryItem `json:"category_items,omitempty"`
	Products      []Product      `json:"products,omitempty"`
	Variants      []Variant      `json:"variants,omitempty"`
	ProductItems  []Item         `json:"product_items,omitempty"`
	VariantItems  []Item         `json:"variant_items,omitempty"`
	Redirects     []Redirect     `json:"redirects,omitempty"`
}

// Page is a free-standing content page. SearchWords is an editorial
// free-text field that biases full-text matching without being rendered.
type Page struct {
	Key         string         `json:"key"`
	Title       string         `json:"title"`
	Body        string         `json:"body"`
	SearchWords string         `json:"search_words,omitempty"`
	Extra       map[string]any `json:"extra,omitempty"`
}

// CategoryPage is a top-level category landing page.
type CategoryPage struct {
	Key   string         `json:"key"`
	Title string         `json:"title"`
	Body  string         `json:"body"`
	Meta  string         `json:"meta,omitempty"`
	Extra map[string]any `json:"extra,omitempty"`
}

// CategoryItem is an entry inside a category page, grouped under a section.
type CategoryItem struct {
	Key          string `json:"key"`
	CategoryKey  string `json:"category_key"`
	Title        string `json:"title"`
	Body         string `json:"body,omitempty"`
	SectionTitle string `json:"section_title,omitempty"`
	SectionBody  string `json:"section_body,omitempty"`
}

// Product is a sellable catalog product. Model is the primary SKU, UPC the
// barcode as printed (may contain spaces), OrderedCount the lifetime order
// volume used as a popularity tie-break during ranking.
type Product struct {
	Key          string         `json:"key"`
	CategoryKey  string         `json:"category_key,omitempty"`
	Name         string         `json:"name"`
	Description  string         `json:"description,omitempty"`
	Details      string         `json:"details,omitempty"`
	Model        string         `json:"model"`
	UPC          string         `json:"upc,omitempty"`
	Image        string         `json:"image,omitempty"`
	Color        string         `json:"color,omitempty"`
	OrderedCount int            `json:"ordered_count,omitempty"`
	Active       bool           `json:"active"`
	Extra        map[string]any `json:"extra,omitempty"`
}

// Variant is a color/size variation of a product with its own model and UPC.
type Variant struct {
	Key          string `json:"key"`
	ProductKey   string `json:"product_key"`
	Model        string `json:"model"`
	UPC          string `json:"upc,omitempty"`
	Image        string `json:"image,omitempty"`
	Color        string `json:"color,omitempty"`
	OrderedCount int    `json:"ordered_count,omitempty"`
}

// Item is a replacement/component part sold under a product or a variant.
// ParentKey names the product key for product items and the variant key for
// variant items.
type Item struct {
	Code      string `json:"code"`
	ParentKey string `json:"parent_key"`
	Active    bool   `json:"active"`
}

// Redirect maps a discontinued product to its replacement. Item matches
// under the discontinued product surface the replacement in search results.
type Redirect struct {
	FromKey string `json:"from_key"`
	ToKey   string `json:"to_key"`
}
