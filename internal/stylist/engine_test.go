package stylist

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liao/stylist/internal/bundle"
	"github.com/liao/stylist/internal/catalog"
	"github.com/liao/stylist/internal/embedding"
	"github.com/liao/stylist/internal/embedding/embeddingtest"
	"github.com/liao/stylist/internal/intent"
)

func offlineEngine(t *testing.T, opts Options) *Engine {
	t.Helper()
	e := New(catalog.DemoInventory(), embedding.NewFallback(64), opts)
	_, err := e.Warm(context.Background())
	require.NoError(t, err)
	return e
}

func bowEngine(t *testing.T) *Engine {
	t.Helper()
	return bowEngineWith(t, Options{})
}

func bowEngineWith(t *testing.T, opts Options) *Engine {
	t.Helper()
	live := embedding.NewLive(&embeddingtest.BagOfWords{}, embedding.NewCache(), embedding.Options{Dimension: 256})
	e := New(catalog.DemoInventory(), live, opts)
	_, err := e.Warm(context.Background())
	require.NoError(t, err)
	return e
}

var errProducer = errors.New("producer down")

type brokenVision struct{}

func (brokenVision) Analyze(context.Context, []byte, string) (ImageAttributes, error) {
	return ImageAttributes{}, errProducer
}

type brokenEvents struct{}

func (brokenEvents) ParseEvent(context.Context, string) (EventContext, error) {
	return EventContext{}, errProducer
}

func TestSearchReturnsEnrichedItems(t *testing.T) {
	e := offlineEngine(t, Options{})
	got, err := e.Search(context.Background(), "elegant evening dress", catalog.Filter{Gender: catalog.Women})
	require.NoError(t, err)
	require.Len(t, got, 5)
	for _, r := range got {
		assert.NotNil(t, r.Item.Retail, r.Item.ID)
		assert.Contains(t, []catalog.Gender{catalog.Women, catalog.Unisex}, r.Item.Gender)
	}
}

func TestRankAppliesFilterBeforeRanking(t *testing.T) {
	e := bowEngine(t)
	got, err := e.Rank(context.Background(), "leather shoes", catalog.Filter{Gender: catalog.Men, Categories: []string{"shoes"}}, -1, 0)
	require.NoError(t, err)
	var ids []string
	for _, r := range got {
		ids = append(ids, r.Item.ID)
	}
	assert.ElementsMatch(t, []string{"S001", "S003"}, ids)

	none, err := e.Rank(context.Background(), "silk blouse", catalog.Filter{}, 0.99, 5)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestComposeBundleOfflineScenario(t *testing.T) {
	e := offlineEngine(t, Options{})
	budget := decimal.NewFromInt(50)
	b, err := e.ComposeBundle(context.Background(), bundle.Request{
		Occasion: "graduation", Gender: catalog.Women, Formality: "smart-casual", Budget: &budget,
	})
	require.NoError(t, err)
	assert.NotContains(t, b.SlotsFilled, "top")
	assert.True(t, b.Total.LessThanOrEqual(budget))
}

func TestMatchImageSimilar(t *testing.T) {
	e := offlineEngine(t, Options{})
	attrs := e.AnalyzeImage(context.Background(), []byte("img"), "image/jpeg")

	m, err := e.MatchImage(context.Background(), attrs, "", "do you have something similar", 0)
	require.NoError(t, err)
	assert.Equal(t, intent.Similar, m.Mode)
	assert.Equal(t, catalog.Men, m.Gender)
	assert.Equal(t, "blue shirt casual men", m.Query)
	assert.False(t, m.Broadened)
	require.NotEmpty(t, m.Items)
	for _, r := range m.Items {
		assert.Contains(t, []catalog.Gender{catalog.Men, catalog.Unisex}, r.Item.Gender)
	}
}

func TestMatchImageComplementaryExcludesArticleType(t *testing.T) {
	e := offlineEngine(t, Options{})
	attrs := ImageAttributes{ArticleType: "shirt", BaseColour: "blue", StyleDescription: "smart", Gender: "Men"}

	m, err := e.MatchImage(context.Background(), attrs, catalog.Women, "what goes with this", 19)
	require.NoError(t, err)
	assert.Equal(t, intent.Complementary, m.Mode)
	assert.Equal(t, "smart blue men fashion", m.Query)
	require.NotEmpty(t, m.Items)
	for _, r := range m.Items {
		assert.NotEqual(t, "shirts", r.Item.Category)
	}

	attrs.ComplementaryItems = []string{"chinos", "loafers"}
	m, err = e.MatchImage(context.Background(), attrs, "", "", 3)
	require.NoError(t, err)
	assert.Equal(t, intent.Complementary, m.Mode)
	assert.Equal(t, "chinos loafers smart men", m.Query)
	assert.Len(t, m.Items, 3)
}

func TestMatchImageBroadensOnNoResults(t *testing.T) {
	e := bowEngine(t)
	attrs := ImageAttributes{ArticleType: "clothing", StyleDescription: "zzz", ComplementaryItems: []string{"xyzzy"}, Gender: "Women"}

	m, err := e.MatchImage(context.Background(), attrs, "", "", 5)
	require.NoError(t, err)
	assert.True(t, m.Broadened)
	assert.Equal(t, "zzz women outfit", m.Query)
}

func TestProducerFailuresDegrade(t *testing.T) {
	e := offlineEngine(t, Options{Vision: brokenVision{}, Events: brokenEvents{}})
	assert.Equal(t, UnknownImage(), e.AnalyzeImage(context.Background(), nil, ""))
	assert.Equal(t, GeneralOccasion(), e.ParseEvent(context.Background(), "anything"))
}

func TestRecommend(t *testing.T) {
	e := offlineEngine(t, Options{})
	ev := e.ParseEvent(context.Background(), "I have a graduation in spring")
	assert.Equal(t, "graduation ceremony", ev.EventType)

	b, err := e.Recommend(context.Background(), ev, nil)
	require.NoError(t, err)
	assert.Equal(t, "graduation ceremony", b.Occasion)
	assert.Equal(t, "smart-casual", b.Formality)
	assert.NotEmpty(t, b.Items)

	b, err = e.Recommend(context.Background(), EventContext{EventType: "gala", Formality: "Black-Tie", Gender: "Men"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "formal", b.Formality)
	for _, p := range b.Items {
		assert.Contains(t, []string{"formal", "semi-formal", "versatile"}, p.Item.Style)
		assert.Contains(t, []catalog.Gender{catalog.Men, catalog.Unisex}, p.Item.Gender)
	}
}

func TestInventoryDelegation(t *testing.T) {
	e := offlineEngine(t, Options{})
	loc, err := e.Locate("M001")
	require.NoError(t, err)
	assert.Equal(t, "Navy Blue Blazer", loc.ItemName)

	res := e.CheckInventory(catalog.InventoryQuery{Name: "blazer"})
	require.True(t, res.Found)
	assert.NotNil(t, res.Items[0].Item.Retail)

	w1, _ := catalog.DemoInventory().ByID("W001")
	enriched := e.Enrich(w1)
	assert.True(t, w1.Price.Equal(*enriched.Price))
	assert.Equal(t, []string{"Trousers", "Blazers", "Chinos"}, e.Enrich(catalog.Item{ID: "x", Category: "shirts"}).Retail.PairsWellWith)
	assert.Equal(t, intent.Complementary, e.ClassifyIntent(""))
}

func TestImageGender(t *testing.T) {
	tests := []struct {
		requested catalog.Gender
		detected  string
		want      catalog.Gender
	}{
		{"", "Men", catalog.Men},
		{catalog.Women, "Unisex", catalog.Women},
		{catalog.Women, "Men", catalog.Men},
		{"", "", catalog.Unisex},
		{catalog.Men, "", catalog.Men},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, imageGender(tt.requested, tt.detected), "%q/%q", tt.requested, tt.detected)
	}
}

func TestArticleVariants(t *testing.T) {
	assert.Nil(t, articleVariants("Clothing"))
	assert.Nil(t, articleVariants(""))
	assert.ElementsMatch(t, []string{"shirt", "shirt", "shirts"}, articleVariants("Shirt"))
	assert.ElementsMatch(t, []string{"shoes", "shoe", "shoes"}, articleVariants("shoes"))
}

func TestZeroThresholdIsHonoured(t *testing.T) {
	// 无共同词的查询余弦为 0：默认 0.3 全部过滤，显式 0 全部保留
	ctx := context.Background()
	got, err := bowEngine(t).Search(ctx, "xyzzy", catalog.Filter{})
	require.NoError(t, err)
	assert.Empty(t, got)

	zero := 0.0
	got, err = bowEngineWith(t, Options{Threshold: &zero}).Search(ctx, "xyzzy", catalog.Filter{})
	require.NoError(t, err)
	assert.Len(t, got, 5)
}
