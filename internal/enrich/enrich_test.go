package enrich

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liao/stylist/internal/catalog"
)

func bare(id, category string, g catalog.Gender, usage string) catalog.Item {
	c, err := catalog.New([]catalog.Item{{ID: id, Name: "item " + id, Category: category, Gender: g, Usage: usage}})
	if err != nil {
		panic(err)
	}
	it, _ := c.ByID(id)
	return it
}

func TestEnrichKnownValues(t *testing.T) {
	e := New(nil, nil, nil)

	shirt := e.Enrich(bare("15970", "Shirts", catalog.Men, "Casual"))
	require.NotNil(t, shirt.Price)
	assert.Equal(t, "63", shirt.Price.String())
	assert.Equal(t, catalog.Location{Aisle: "A", Rack: "2", Shelf: "2"}, *shirt.Location)
	assert.Equal(t, catalog.StockFor(23), *shirt.Stock)
	assert.Equal(t, []string{"Weekend outings", "Brunch"}, shirt.Retail.PerfectFor)
	assert.Equal(t, []string{"Trousers", "Blazers", "Chinos"}, shirt.Retail.PairsWellWith)

	heels := e.Enrich(bare("39386", "Heels", catalog.Women, "Smart Casual"))
	assert.Equal(t, "166", heels.Price.String())
	assert.Equal(t, "D", heels.Location.Aisle)
	assert.Equal(t, []string{"Date nights", "Dinners"}, heels.Retail.PerfectFor)
	assert.Equal(t, []string{"Accessories", "Matching items"}, heels.Retail.PairsWellWith)

	other := e.Enrich(bare("X1", "capes", "girls", ""))
	assert.Equal(t, "44", other.Price.String())
	assert.Equal(t, "N", other.Location.Aisle)
	assert.Equal(t, []string{"Everyday wear", "Various occasions"}, other.Retail.PerfectFor)
}

func TestEnrichIsIdempotent(t *testing.T) {
	e := New(nil, nil, nil)
	for i := 0; i < 50; i++ {
		it := bare(fmt.Sprintf("id-%d", i), "dresses", catalog.Women, "Party")
		once := e.Enrich(it)
		twice := e.Enrich(once)
		assert.Equal(t, once, twice)
	}
}

func TestEnrichIsDeterministic(t *testing.T) {
	a := New(nil, nil, nil).Enrich(bare("42", "jeans", catalog.Men, "Casual"))
	b := New(nil, nil, nil).Enrich(bare("42", "jeans", catalog.Men, "Casual"))
	assert.Equal(t, a, b)
}

func TestEnrichKeepsRealData(t *testing.T) {
	demo := catalog.DemoInventory()
	enriched := New(nil, nil, nil).EnrichAll(demo)

	for _, orig := range demo.Items() {
		got, ok := enriched.ByID(orig.ID)
		require.True(t, ok)
		assert.True(t, orig.Price.Equal(*got.Price), orig.ID)
		assert.Equal(t, *orig.Stock, *got.Stock)
		assert.Equal(t, *orig.Location, *got.Location)
		assert.NotNil(t, got.Retail)
	}

	w1, _ := demo.ByID("W001")
	assert.Nil(t, w1.Retail, "source catalog untouched")
}

func TestEnrichPriceWithinBand(t *testing.T) {
	e := New(nil, nil, nil)
	for cat, band := range DefaultPriceBands() {
		for i := 0; i < 30; i++ {
			it := e.Enrich(bare(fmt.Sprintf("%s-%d", cat, i), cat, catalog.Unisex, ""))
			p := *it.Price
			assert.True(t, p.GreaterThanOrEqual(decimal.NewFromInt(int64(band.Min))), "%s %s", cat, p)
			assert.True(t, p.LessThan(decimal.NewFromInt(int64(band.Max))), "%s %s", cat, p)
		}
	}
}

func TestEnrichCustomTables(t *testing.T) {
	def := Band{Min: 10, Max: 10}
	e := New(map[string]Band{"Capes": {Min: 500, Max: 501}}, &def,
		map[catalog.Gender]map[string]string{"women": {"apparel": "Z"}})

	cape := e.Enrich(bare("c1", "capes", catalog.Women, ""))
	assert.Equal(t, "500", cape.Price.String())
	assert.Equal(t, "Z", cape.Location.Aisle)

	hat := e.Enrich(bare("h1", "hats", catalog.Men, ""))
	assert.Equal(t, "10", hat.Price.String())
	assert.Equal(t, "A", hat.Location.Aisle)
}

func TestStockDistribution(t *testing.T) {
	counts := map[catalog.StockStatus]int{}
	for i := 0; i < 1000; i++ {
		counts[stock(Seed(fmt.Sprintf("item-%d", i))).Status]++
	}
	assert.Equal(t, 698, counts[catalog.InStock])
	assert.Equal(t, 198, counts[catalog.LowStock])
	assert.Equal(t, 104, counts[catalog.OutOfStock])
}
