package catalog

import "strings"

// Item is one sellable catalog entry. Items are supplied by an external
// source and never mutated by the shop.
type Item struct {
	ID       string   `json:"id" db:"id"`
	Name     string   `json:"name" db:"name"`
	NameTH   string   `json:"name_th" db:"name_th"`
	Level    int      `json:"level" db:"level"`
	Category string   `json:"category" db:"category"`
	InStock  bool     `json:"in_stock" db:"in_stock"`
	RatePer5 *float64 `json:"price_per_5,omitempty" db:"price_per_5"`
	Img      string   `json:"img" db:"img"`
}

// Category is one entry of the closed category set.
type Category struct {
	ID string `json:"id"`
	TH string `json:"th"`
	EN string `json:"en"`
}

// Categories is the fixed category set, in display order.
var Categories = []Category{
	{ID: "farm", TH: "ฟาร์ม", EN: "Farm"},
	{ID: "dairy", TH: "โรงนม", EN: "Dairy"},
	{ID: "bakery", TH: "เบเกอรี่", EN: "Bakery"},
	{ID: "sugar", TH: "โรงน้ำตาล", EN: "Sugar Mill"},
	{ID: "tools", TH: "อุปกรณ์", EN: "Tools"},
	{ID: "expand", TH: "ของขยาย", EN: "Expansion"},
}

// Filter narrows the catalog. An empty Category matches every category.
type Filter struct {
	Category    string
	Query       string
	InStockOnly bool
}

// Index is a read-only view over the ordered item list.
type Index struct {
	items []Item
	byID  map[string]Item
}

// NewIndex builds an index preserving the source ordering.
func NewIndex(items []Item) *Index {
	byID := make(map[string]Item, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}
	return &Index{items: items, byID: byID}
}

// Items returns all items in catalog order.
func (ix *Index) Items() []Item {
	return ix.items
}

// Get looks up an item by ID.
func (ix *Index) Get(id string) (Item, bool) {
	it, ok := ix.byID[id]
	return it, ok
}

// Len returns the number of items.
func (ix *Index) Len() int {
	return len(ix.items)
}

// Filter returns the stable-filtered subsequence of the catalog: category
// must match exactly (when set), out-of-stock items are dropped when
// InStockOnly is set, and a non-empty query must appear case-insensitively
// in one of the two localized names. Original ordering is preserved.
func (ix *Index) Filter(f Filter) []Item {
	q := strings.ToLower(strings.TrimSpace(f.Query))

	out := make([]Item, 0, len(ix.items))
	for _, it := range ix.items {
		if f.Category != "" && it.Category != f.Category {
			continue
		}
		if f.InStockOnly && !it.InStock {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(it.Name), q) &&
			!strings.Contains(strings.ToLower(it.NameTH), q) {
			continue
		}
		out = append(out, it)
	}
	return out
}
