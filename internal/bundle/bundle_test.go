package bundle_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liao/stylist/internal/bundle"
	"github.com/liao/stylist/internal/catalog"
	"github.com/liao/stylist/internal/embedding"
	"github.com/liao/stylist/internal/index"
	"github.com/liao/stylist/internal/rank"
)

func money(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func item(id, category string, g catalog.Gender, style, price string, qty int) catalog.Item {
	s := catalog.StockFor(qty)
	return catalog.Item{ID: id, Name: id + " " + category, Category: category, Gender: g,
		Style: style, Price: money(price), Stock: &s}
}

func composer(t *testing.T, c *catalog.Catalog) *bundle.Composer {
	t.Helper()
	ix := index.New(c, embedding.NewFallback(32), nil)
	return bundle.New(c.Items(), ix, bundle.Options{})
}

func mustCatalog(t *testing.T, items ...catalog.Item) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New(items)
	require.NoError(t, err)
	return c
}

func assertInvariants(t *testing.T, b bundle.Bundle) {
	t.Helper()
	ids := map[string]bool{}
	slots := map[string]bool{}
	total := decimal.Zero
	for _, p := range b.Items {
		assert.False(t, ids[p.Item.ID], "duplicate item %s", p.Item.ID)
		assert.False(t, slots[p.Slot], "slot %s filled twice", p.Slot)
		ids[p.Item.ID] = true
		slots[p.Slot] = true
		total = total.Add(p.Item.PriceOrZero())
	}
	assert.True(t, total.Equal(b.Total))
	if b.Budget != nil {
		assert.True(t, b.Total.LessThanOrEqual(*b.Budget), "total %s over budget %s", b.Total, b.Budget)
	}
	if slots["top"] {
		for _, p := range b.Items {
			if p.Slot == "top" && p.Item.Category == "dresses" {
				assert.False(t, slots["bottom"], "dress and bottom together")
			}
		}
	}
}

func TestComposeFormalWomen(t *testing.T) {
	b, err := composer(t, catalog.DemoInventory()).Compose(context.Background(), bundle.Request{
		Occasion: "gala dinner", Gender: catalog.Women, Formality: "formal",
	})
	require.NoError(t, err)
	assertInvariants(t, b)

	assert.GreaterOrEqual(t, len(b.Items), 3)
	assert.Contains(t, b.SlotsFilled, "footwear")
	assert.Equal(t, "S002", b.Items[slicesIndex(b.SlotsFilled, "footwear")].Item.ID)
	for _, p := range b.Items {
		assert.Contains(t, []catalog.Gender{catalog.Women, catalog.Unisex}, p.Item.Gender)
		assert.Contains(t, []string{"formal", "semi-formal", "versatile"}, p.Item.Style)
	}
	assert.Equal(t, "This formal outfit is perfect for gala dinner. The pieces coordinate well together and can be mixed with other wardrobe staples.", b.StylingNotes)
}

func slicesIndex(s []string, v string) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}

func TestComposeBudgetInvariant(t *testing.T) {
	ctx := context.Background()
	c := composer(t, catalog.DemoInventory())
	for _, g := range []catalog.Gender{catalog.Women, catalog.Men, catalog.Unisex, "unknown"} {
		for _, formality := range []string{"casual", "smart-casual", "business-casual", "semi-formal", "formal", "black tie"} {
			for budget := 0; budget <= 600; budget += 40 {
				t.Run(fmt.Sprintf("%s/%s/%d", g, formality, budget), func(t *testing.T) {
					b, err := c.Compose(ctx, bundle.Request{
						Occasion: "party", Gender: g, Formality: formality,
						Budget: money(fmt.Sprint(budget)),
					})
					require.NoError(t, err)
					assertInvariants(t, b)
				})
			}
		}
	}
}

func TestComposeGraduationTopsOverBudget(t *testing.T) {
	c := mustCatalog(t,
		item("T1", "tops", catalog.Women, "smart-casual", "60.00", 10),
		item("T2", "tops", catalog.Women, "business-casual", "75.00", 10),
		item("D1", "dresses", catalog.Women, "smart-casual", "120.00", 10),
		item("K1", "skirts", catalog.Women, "smart-casual", "65.00", 10),
		item("F1", "shoes", catalog.Women, "smart-casual", "45.00", 10),
		item("A1", "accessories", catalog.Unisex, "versatile", "20.00", 10),
	)
	b, err := composer(t, c).Compose(context.Background(), bundle.Request{
		Occasion: "graduation", Gender: catalog.Women, Formality: "smart-casual", Budget: money("50.00"),
	})
	require.NoError(t, err)
	assertInvariants(t, b)

	assert.NotContains(t, b.SlotsFilled, "top")
	assert.Equal(t, []string{"footwear"}, b.SlotsFilled)
	assert.Equal(t, "45", b.Total.String())
	assert.Equal(t, "5", b.Remaining().String())
	assert.Equal(t, "This smart-casual outfit is perfect for graduation.", b.StylingNotes)
}

func TestComposeDressSkipsBottom(t *testing.T) {
	c := mustCatalog(t,
		item("D1", "dresses", catalog.Women, "casual", "80.00", 5),
		item("K1", "skirts", catalog.Women, "casual", "40.00", 5),
		item("F1", "shoes", catalog.Women, "casual", "50.00", 5),
	)
	b, err := composer(t, c).Compose(context.Background(), bundle.Request{
		Occasion: "brunch", Gender: catalog.Women, Formality: "casual",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"top", "footwear"}, b.SlotsFilled)
	assert.Equal(t, []string{"dresses", "shoes"}, b.Categories)
}

func TestComposeSkipsOutOfStockAndOtherGender(t *testing.T) {
	c := mustCatalog(t,
		item("T1", "tops", catalog.Women, "casual", "30.00", 0),
		item("T2", "shirts", catalog.Men, "casual", "30.00", 5),
		item("T3", "tops", catalog.Women, "casual", "35.00", 2),
	)
	b, err := composer(t, c).Compose(context.Background(), bundle.Request{
		Occasion: "picnic", Gender: catalog.Women, Formality: "casual",
	})
	require.NoError(t, err)
	require.Len(t, b.Items, 1)
	assert.Equal(t, "T3", b.Items[0].Item.ID)
}

func TestComposeOtherGenderUsesUnion(t *testing.T) {
	c := mustCatalog(t,
		item("M1", "shirts", catalog.Men, "formal", "60.00", 5),
		item("W1", "skirts", catalog.Women, "formal", "60.00", 5),
	)
	b, err := composer(t, c).Compose(context.Background(), bundle.Request{
		Occasion: "ceremony", Gender: "unknown", Formality: "formal",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"top", "bottom"}, b.SlotsFilled)
}

func TestAllowedStyles(t *testing.T) {
	c := bundle.New(nil, nil, bundle.Options{})
	assert.Equal(t, []string{"business-casual", "smart-casual", "formal"}, c.AllowedStyles("Business Casual"))
	assert.Equal(t, []string{"smart-casual"}, c.AllowedStyles("black tie"))

	custom := bundle.New(nil, nil, bundle.Options{Formality: map[string][]string{"Black Tie": {"formal"}}})
	assert.Equal(t, []string{"formal"}, custom.AllowedStyles("black tie"))
}

func TestComposeCustomSlotGroups(t *testing.T) {
	c := mustCatalog(t,
		item("W1", "watches", catalog.Men, "formal", "200.00", 5),
		item("S1", "shirts", catalog.Men, "formal", "60.00", 5),
	)
	ix := index.New(c, embedding.NewFallback(32), nil)
	comp := bundle.New(c.Items(), ix, bundle.Options{SlotGroups: map[catalog.Gender][]bundle.SlotGroup{
		"Men": {{Name: "wrist", Categories: []string{"watches"}}},
	}})
	b, err := comp.Compose(context.Background(), bundle.Request{Occasion: "interview", Gender: catalog.Men, Formality: "formal"})
	require.NoError(t, err)
	require.Len(t, b.Items, 1)
	assert.Equal(t, "W1", b.Items[0].Item.ID)
}

func TestComposeSlotOverrideKeepsOtherGender(t *testing.T) {
	c := mustCatalog(t,
		item("M1", "shirts", catalog.Men, "formal", "60.00", 5),
		item("W1", "tops", catalog.Women, "formal", "50.00", 5),
	)
	ix := index.New(c, embedding.NewFallback(32), nil)
	comp := bundle.New(c.Items(), ix, bundle.Options{SlotGroups: map[catalog.Gender][]bundle.SlotGroup{
		catalog.Men: {{Name: "top", Categories: []string{"shirts"}}},
	}})

	b, err := comp.Compose(context.Background(), bundle.Request{Occasion: "gala", Gender: catalog.Women, Formality: "formal"})
	require.NoError(t, err)
	require.Len(t, b.Items, 1)
	assert.Equal(t, "W1", b.Items[0].Item.ID)

	b, err = comp.Compose(context.Background(), bundle.Request{Occasion: "gala", Gender: catalog.Men, Formality: "formal"})
	require.NoError(t, err)
	require.Len(t, b.Items, 1)
	assert.Equal(t, "M1", b.Items[0].Item.ID)
}

type failingSearcher struct{}

var errSearch = errors.New("search failed")

func (failingSearcher) Search(context.Context, string, []catalog.Item, float64, int) ([]rank.Ranked, error) {
	return nil, errSearch
}

func TestComposePropagatesRankErrors(t *testing.T) {
	c := catalog.DemoInventory()
	_, err := bundle.New(c.Items(), failingSearcher{}, bundle.Options{}).Compose(context.Background(),
		bundle.Request{Occasion: "x", Gender: catalog.Men, Formality: "formal"})
	assert.ErrorIs(t, err, errSearch)
}
