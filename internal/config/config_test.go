package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liao/stylist/internal/catalog"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadDefaultsOffline(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	cfg, err := Load("")
	require.NoError(t, err)

	assert.False(t, cfg.Live())
	assert.Equal(t, 256, cfg.Embedding.Dimension)
	assert.Equal(t, 0.3, cfg.Search.Threshold)
	assert.Equal(t, 0.25, cfg.Search.BroadenThreshold)
	assert.Equal(t, 5, cfg.Search.TopK)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())

	opts := cfg.BundleOptions()
	require.NotNil(t, opts.Threshold)
	assert.Equal(t, -1.0, *opts.Threshold)
	assert.Nil(t, opts.SlotGroups)
}

func TestLoadLiveRequiresKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	path := writeConfig(t, "embedding:\n  mode: live\n")
	_, err := Load(path)
	assert.ErrorContains(t, err, "gemini.api_key")

	t.Setenv("GEMINI_API_KEY", "test-key")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Live())
	assert.Equal(t, "test-key", cfg.Gemini.APIKey)
}

func TestLoadRejectsUnknownMode(t *testing.T) {
	_, err := Load(writeConfig(t, "embedding:\n  mode: turbo\n"))
	assert.ErrorContains(t, err, "embedding.mode")

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadTables(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
log:
  level: debug
bundle:
  threshold: 0.1
  formality:
    black-tie: [formal]
  slot_groups:
    Women:
      - name: top
        categories: [dresses]
      - name: footwear
        categories: [shoes]
enrich:
  default_band: {min: 10, max: 20}
  price_bands:
    capes: {min: 100, max: 101}
  aisles:
    women: {apparel: Z}
`))
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())

	opts := cfg.BundleOptions()
	assert.Equal(t, 0.1, *opts.Threshold)
	assert.Equal(t, []string{"formal"}, opts.Formality["black-tie"])
	require.Len(t, opts.SlotGroups[catalog.Women], 2)
	assert.Equal(t, []string{"dresses"}, opts.SlotGroups[catalog.Women][0].Categories)

	e := cfg.Enricher()
	cape := e.Enrich(catalog.Item{ID: "c1", Category: "capes", Gender: catalog.Women, MasterCategory: "apparel"})
	assert.Equal(t, "100", cape.Price.String())
	assert.Equal(t, "Z", cape.Location.Aisle)
	hat := e.Enrich(catalog.Item{ID: "h1", Category: "hats", Gender: catalog.Men})
	assert.True(t, hat.Price.IntPart() >= 10 && hat.Price.IntPart() < 20)
}
