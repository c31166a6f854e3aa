// Package pricing derives order lines and totals from the cart and catalog.
// Everything here is a pure function over immutable snapshots; lines and
// totals are recomputed on demand, never cached.
package pricing

import (
	"farm-shop/internal/cart"
	"farm-shop/internal/catalog"
)

// BatchSize is the pricing batch: the rate is charged per this many units.
const BatchSize = 5

// Line is one catalog item's derived quantity/price pair within the cart.
type Line struct {
	ItemID   string  `json:"id"`
	Name     string  `json:"name"`
	NameTH   string  `json:"name_th"`
	Quantity int     `json:"qty"`
	RatePer5 float64 `json:"price_per_5"`
	Price    float64 `json:"price"`
}

// Engine prices carts at a fixed rate per batch, with a per-item override.
type Engine struct {
	defaultRate float64
}

// NewEngine creates an engine with the global default rate per batch.
func NewEngine(defaultRate float64) *Engine {
	return &Engine{defaultRate: defaultRate}
}

// PriceForQuantity returns (qty / 5) * ratePer5, exact. Fractional results
// are possible and are only rounded for display, never before summation.
func (e *Engine) PriceForQuantity(qty int, ratePer5 float64) float64 {
	return float64(qty) / BatchSize * ratePer5
}

// Rate returns the item's own rate when present, else the default.
func (e *Engine) Rate(it catalog.Item) float64 {
	if it.RatePer5 != nil {
		return *it.RatePer5
	}
	return e.defaultRate
}

// Lines emits one line per catalog item with a nonzero cart quantity, in
// catalog order. Zero-quantity items are omitted entirely.
func (e *Engine) Lines(c cart.Cart, ix *catalog.Index) []Line {
	lines := make([]Line, 0, c.Kinds())
	for _, it := range ix.Items() {
		qty := c[it.ID]
		if qty == 0 {
			continue
		}
		rate := e.Rate(it)
		lines = append(lines, Line{
			ItemID:   it.ID,
			Name:     it.Name,
			NameTH:   it.NameTH,
			Quantity: qty,
			RatePer5: rate,
			Price:    e.PriceForQuantity(qty, rate),
		})
	}
	return lines
}

// Total is the exact sum of all line prices.
func (e *Engine) Total(lines []Line) float64 {
	var total float64
	for _, l := range lines {
		total += l.Price
	}
	return total
}
