package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liao/stylist/internal/catalog"
	"github.com/liao/stylist/internal/config"
	"github.com/liao/stylist/internal/embedding"
)

func TestBuildOfflineDemo(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	cfg, err := config.Load("")
	require.NoError(t, err)

	a, err := Build(context.Background(), cfg)
	require.NoError(t, err)
	assert.Nil(t, a.AI)
	assert.Nil(t, a.Store)
	assert.Equal(t, 19, a.Engine.Catalog().Len())
	assert.Equal(t, embedding.FallbackSpace(256), a.Engine.Embedder().Space())

	got, err := a.Engine.Search(context.Background(), "navy blazer", catalog.Filter{Gender: catalog.Men})
	require.NoError(t, err)
	assert.Len(t, got, 5)
}

func TestBuildFromCSVWithStore(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "styles.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(`id,gender,masterCategory,subCategory,articleType,baseColour,season,year,usage,productDisplayName
15970,Men,Apparel,Topwear,Shirts,Navy Blue,Fall,2011,Casual,Turtle Check Men Navy Blue Shirt
39386,Women,Footwear,Shoes,Heels,Black,Summer,2012,Smart Casual,Catwalk Women Black Heels
`), 0644))

	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("catalog:\n  path: "+csvPath+"\nindex:\n  vectors_dir: "+filepath.Join(dir, "vectors")+"\n"), 0644))
	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)

	a, err := Build(context.Background(), cfg)
	require.NoError(t, err)
	require.NotNil(t, a.Store)
	assert.Equal(t, 2, a.Engine.Catalog().Len())

	shirt, ok := a.Engine.Catalog().ByID("15970")
	require.True(t, ok)
	require.NotNil(t, shirt.Price)
	assert.Equal(t, "63", shirt.Price.String())

	stats, err := a.Engine.Warm(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Embedded)
	// fallback 向量不落盘
	assert.Zero(t, a.Store.Count(stats.Space))
}

func TestBuildBadCatalogPath(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Catalog.Path = filepath.Join(t.TempDir(), "missing.jsonl")

	_, err = Build(context.Background(), cfg)
	assert.Error(t, err)
}
