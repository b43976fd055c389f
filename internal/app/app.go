package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/liao/stylist/internal/ai"
	"github.com/liao/stylist/internal/catalog"
	"github.com/liao/stylist/internal/config"
	"github.com/liao/stylist/internal/embedding"
	"github.com/liao/stylist/internal/index"
	"github.com/liao/stylist/internal/parser"
	"github.com/liao/stylist/internal/stylist"
)

// App 各个二进制共用的装配结果
type App struct {
	Config *config.Config
	Engine *stylist.Engine

	// AI 仅 live 模式下非 nil
	AI    *ai.Client
	Store *index.Store
}

// SetupLogging 按配置的级别安装默认 logger
func SetupLogging(cfg *config.Config) {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))
}

// LoadCatalog path 为空时使用演示库存
func LoadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	if cfg.Catalog.Path == "" {
		c := catalog.DemoInventory()
		slog.Info("using demo inventory", "items", c.Len())
		return c, nil
	}
	return parser.LoadCatalog(cfg.Catalog.Path, cfg.Catalog.Format)
}

// Build 配置 → 目录 → Gemini 客户端 → embedding 策略 → 向量库 → 引擎
func Build(ctx context.Context, cfg *config.Config) (*App, error) {
	c, err := LoadCatalog(cfg)
	if err != nil {
		return nil, err
	}

	a := &App{Config: cfg}
	var provider embedding.Provider
	if cfg.Live() {
		a.AI, err = ai.NewClient(ctx, ai.Options{
			APIKey:          cfg.Gemini.APIKey,
			ChatModels:      cfg.Gemini.ChatModels,
			EmbeddingModel:  cfg.Gemini.EmbeddingModel,
			VisionModel:     cfg.Gemini.VisionModel,
			Temperature:     cfg.Gemini.Temperature,
			MaxOutputTokens: cfg.Gemini.MaxOutputTokens,
			RPMLimit:        cfg.Gemini.RPMLimit,
		})
		if err != nil {
			return nil, fmt.Errorf("create AI client: %w", err)
		}
		provider = a.AI
		slog.Info("AI client initialized", "models", cfg.Gemini.ChatModels, "embedding_model", cfg.Gemini.EmbeddingModel)
	}

	emb := embedding.Select(ctx, embedding.Mode(cfg.Embedding.Mode), provider, embedding.NewCache(), cfg.EmbeddingOptions())

	if cfg.Index.VectorsDir != "" {
		a.Store, err = index.OpenStore(cfg.Index.VectorsDir)
		if err != nil {
			slog.Warn("open vector store failed, vectors stay in memory", "error", err)
			a.Store = nil
		}
	}

	threshold, broaden := cfg.Search.Threshold, cfg.Search.BroadenThreshold
	opts := stylist.Options{
		Threshold:        &threshold,
		BroadenThreshold: &broaden,
		TopK:             cfg.Search.TopK,
		Bundle:           cfg.BundleOptions(),
		Enricher:         cfg.Enricher(),
		Store:            a.Store,
	}
	if a.AI != nil {
		opts.Vision = a.AI
		opts.Events = a.AI
	}
	a.Engine = stylist.New(c, emb, opts)
	return a, nil
}
