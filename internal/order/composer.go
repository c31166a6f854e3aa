// Package order turns a priced cart into the text payload the buyer pastes
// into the shop's LINE channel, and validates the farm tag that lets the
// seller find the buyer's farm.
package order

import (
	"strconv"
	"strings"

	"farm-shop/internal/pricing"
)

// emptyTagPlaceholder renders in place of a missing farm tag so the buyer
// sees where to fill it in.
const emptyTagPlaceholder = "#________"

// ValidFarmTag reports whether the tag is usable for fulfillment: after
// stripping all non-alphanumeric characters at least 3 must remain. It never
// errors; validity only gates an advisory warning, not checkout.
func ValidFarmTag(tag string) bool {
	if strings.TrimSpace(tag) == "" {
		return false
	}
	var n int
	for _, r := range tag {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			n++
		}
	}
	return n >= 3
}

// Composer serializes orders for one shop brand.
type Composer struct {
	brand string
}

// NewComposer creates a composer for the given brand name.
func NewComposer(brand string) *Composer {
	return &Composer{brand: brand}
}

// Compose produces the order text. The output is byte-deterministic for
// identical inputs: no timestamps, no randomness, line order inherited from
// the catalog-ordered input lines.
func (c *Composer) Compose(lines []pricing.Line, total float64, farmTag string) string {
	tag := farmTag
	if tag == "" {
		tag = emptyTagPlaceholder
	}

	var b strings.Builder
	b.WriteString("รายการสั่งซื้อจาก ")
	b.WriteString(c.brand)
	b.WriteString("\n\n")

	for i, l := range lines {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("• ")
		b.WriteString(l.NameTH)
		b.WriteString(" (")
		b.WriteString(l.Name)
		b.WriteString(") — ")
		b.WriteString(strconv.Itoa(l.Quantity))
		b.WriteString(" ชิ้น = ")
		b.WriteString(pricing.FormatTHB(l.Price))
		b.WriteString(" บาท")
	}

	b.WriteString("\n\nรวมราคา: ")
	b.WriteString(pricing.FormatTHB(total))
	b.WriteString(" บาท\n\nFarm Tag: ")
	b.WriteString(tag)
	b.WriteString("\n\nรับของที่ Roadside Shop")

	return b.String()
}
