package pricing

import (
	"testing"

	"farm-shop/internal/cart"
	"farm-shop/internal/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testIndex() *catalog.Index {
	rate3 := 3.0
	return catalog.NewIndex([]catalog.Item{
		{ID: "honey", Name: "Honey", NameTH: "น้ำผึ้ง", Category: "farm", InStock: true},
		{ID: "hamburger", Name: "Hamburger", NameTH: "แฮมเบอร์เกอร์", Category: "bakery", InStock: true},
		{ID: "land_deed", Name: "Land Deed", NameTH: "โฉนดที่ดิน", Category: "expand", InStock: true, RatePer5: &rate3},
	})
}

func TestPriceForQuantity(t *testing.T) {
	e := NewEngine(1)

	assert.Equal(t, 2.0, e.PriceForQuantity(10, 1))
	assert.Equal(t, 15.0, e.PriceForQuantity(25, 3))
	assert.Equal(t, 1.0, e.PriceForQuantity(5, 1))
}

func TestPriceForQuantityLinearity(t *testing.T) {
	e := NewEngine(1)

	for _, qty := range []int{5, 10, 35, 100} {
		for _, rate := range []float64{1, 2, 3.5} {
			assert.Equal(t, 2*e.PriceForQuantity(qty, rate), e.PriceForQuantity(2*qty, rate))
		}
	}
}

func TestLinesUseItemRateOverDefault(t *testing.T) {
	e := NewEngine(1)

	lines := e.Lines(cart.Cart{"honey": 10, "land_deed": 5}, testIndex())

	require.Len(t, lines, 2)
	assert.Equal(t, 1.0, lines[0].RatePer5, "item without a rate uses the default")
	assert.Equal(t, 3.0, lines[1].RatePer5, "item rate overrides the default")
	assert.Equal(t, 3.0, lines[1].Price)
}

func TestLinesOmitZeroQuantities(t *testing.T) {
	e := NewEngine(1)

	lines := e.Lines(cart.Cart{"hamburger": 5}, testIndex())

	require.Len(t, lines, 1)
	assert.Equal(t, "hamburger", lines[0].ItemID)
}

func TestLinesFollowCatalogOrder(t *testing.T) {
	e := NewEngine(1)

	// Cart iteration order is random; line order must come from the catalog
	lines := e.Lines(cart.Cart{"land_deed": 5, "hamburger": 5, "honey": 10}, testIndex())

	require.Len(t, lines, 3)
	assert.Equal(t, "honey", lines[0].ItemID)
	assert.Equal(t, "hamburger", lines[1].ItemID)
	assert.Equal(t, "land_deed", lines[2].ItemID)
}

func TestTotal(t *testing.T) {
	e := NewEngine(1)

	lines := e.Lines(cart.Cart{"honey": 10, "hamburger": 5}, testIndex())
	assert.Equal(t, 3.0, e.Total(lines))

	assert.Equal(t, 0.0, e.Total(nil))
	assert.Equal(t, 0.0, e.Total(e.Lines(cart.Cart{}, testIndex())))
}

func TestFormatTHB(t *testing.T) {
	assert.Equal(t, "0", FormatTHB(0))
	assert.Equal(t, "3", FormatTHB(3))
	assert.Equal(t, "1,000", FormatTHB(1000))
	assert.Equal(t, "1,234,567", FormatTHB(1234567))
}

func TestFormatTHBRoundsHalvesAwayFromZero(t *testing.T) {
	assert.Equal(t, "1", FormatTHB(0.5))
	assert.Equal(t, "2", FormatTHB(1.5))
	assert.Equal(t, "3", FormatTHB(2.5))
	assert.Equal(t, "2", FormatTHB(2.4))
}
