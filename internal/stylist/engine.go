package stylist

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/liao/stylist/internal/bundle"
	"github.com/liao/stylist/internal/catalog"
	"github.com/liao/stylist/internal/embedding"
	"github.com/liao/stylist/internal/enrich"
	"github.com/liao/stylist/internal/index"
	"github.com/liao/stylist/internal/intent"
	"github.com/liao/stylist/internal/rank"
)

type Options struct {
	// nil 取默认值 0.3 / 0.25；0 是合法阈值
	Threshold        *float64
	BroadenThreshold *float64
	TopK             int

	Bundle   bundle.Options
	Enricher *enrich.Enricher
	// Store 为 nil 时向量只缓存在内存
	Store  *index.Store
	Vision VisionAnalyzer
	Events EventParser
}

func (o Options) withDefaults() Options {
	if o.Threshold == nil {
		o.Threshold = ptr(0.3)
	}
	if o.BroadenThreshold == nil {
		o.BroadenThreshold = ptr(0.25)
	}
	if o.TopK <= 0 {
		o.TopK = 5
	}
	if o.Enricher == nil {
		o.Enricher = enrich.New(nil, nil, nil)
	}
	if o.Vision == nil {
		o.Vision = OfflineVision{}
	}
	if o.Events == nil {
		o.Events = OfflineEvents{}
	}
	return o
}

func ptr(f float64) *float64 { return &f }

// Engine 检索、搭配、意图判断的统一入口；目录在构造时补齐一次，之后只读
type Engine struct {
	catalog  *catalog.Catalog
	embedder embedding.Embedder
	index    *index.Index
	composer *bundle.Composer
	opts     Options
}

func New(c *catalog.Catalog, e embedding.Embedder, opts Options) *Engine {
	opts = opts.withDefaults()
	enriched := opts.Enricher.EnrichAll(c)
	ix := index.New(enriched, e, opts.Store)
	return &Engine{
		catalog:  enriched,
		embedder: e,
		index:    ix,
		composer: bundle.New(enriched.Items(), ix, opts.Bundle),
		opts:     opts,
	}
}

// Warm 预先为整个目录生成向量
func (e *Engine) Warm(ctx context.Context) (index.WarmStats, error) {
	return e.index.Warm(ctx)
}

func (e *Engine) Catalog() *catalog.Catalog { return e.catalog }

func (e *Engine) Embedder() embedding.Embedder { return e.embedder }

// Rank 先按 filter 过滤，再按与 query 的相似度排序；无结果返回空切片
func (e *Engine) Rank(ctx context.Context, query string, f catalog.Filter, threshold float64, topK int) ([]rank.Ranked, error) {
	items := f.Apply(e.catalog.Items())
	ranked, err := e.index.Search(ctx, query, items, threshold, topK)
	if err != nil {
		return nil, fmt.Errorf("rank %q: %w", query, err)
	}
	slog.Debug("ranked catalog", "query", query, "candidates", len(items), "results", len(ranked))
	return ranked, nil
}

// Search 使用默认阈值和条数的 Rank
func (e *Engine) Search(ctx context.Context, query string, f catalog.Filter) ([]rank.Ranked, error) {
	return e.Rank(ctx, query, f, *e.opts.Threshold, e.opts.TopK)
}

func (e *Engine) ComposeBundle(ctx context.Context, req bundle.Request) (bundle.Bundle, error) {
	return e.composer.Compose(ctx, req)
}

func (e *Engine) ClassifyIntent(message string) intent.Mode {
	return intent.Classify(message)
}

func (e *Engine) Enrich(it catalog.Item) catalog.Item {
	return e.opts.Enricher.Enrich(it)
}

func (e *Engine) CheckInventory(q catalog.InventoryQuery) catalog.InventoryResult {
	return e.catalog.CheckInventory(q)
}

func (e *Engine) Locate(id string) (catalog.ItemLocation, error) {
	return e.catalog.Locate(id)
}

// AnalyzeImage 视觉模型失败时返回中性描述，不向上报错
func (e *Engine) AnalyzeImage(ctx context.Context, image []byte, mimeType string) ImageAttributes {
	attrs, err := e.opts.Vision.Analyze(ctx, image, mimeType)
	if err != nil {
		slog.Warn("image analysis failed, using neutral attributes", "error", err)
		return UnknownImage()
	}
	return attrs
}

// ParseEvent 解析失败时返回 general occasion
func (e *Engine) ParseEvent(ctx context.Context, text string) EventContext {
	ev, err := e.opts.Events.ParseEvent(ctx, text)
	if err != nil {
		slog.Warn("event parsing failed, using general occasion", "error", err)
		return GeneralOccasion()
	}
	return ev.Normalize()
}

type ImageMatch struct {
	Mode      intent.Mode
	Gender    catalog.Gender
	Query     string
	Broadened bool
	Items     []rank.Ranked
}

// MatchImage 根据图片属性找相似款或搭配款；无结果时放宽查询和阈值再试一次
func (e *Engine) MatchImage(ctx context.Context, attrs ImageAttributes, gender catalog.Gender, message string, topK int) (ImageMatch, error) {
	if topK <= 0 {
		topK = e.opts.TopK
	}
	m := ImageMatch{Mode: intent.Classify(message), Gender: imageGender(gender, attrs.Gender)}
	style := attrs.StyleDescription

	f := catalog.Filter{Gender: m.Gender}
	switch m.Mode {
	case intent.Similar:
		m.Query = joinWords(attrs.BaseColour, attrs.ArticleType, style, string(m.Gender))
	default:
		if len(attrs.ComplementaryItems) > 0 {
			m.Query = joinWords(strings.Join(attrs.ComplementaryItems, " "), style, string(m.Gender))
		} else {
			m.Query = joinWords(style, attrs.BaseColour, string(m.Gender), "fashion")
		}
		f.ExcludeCategories = articleVariants(attrs.ArticleType)
	}

	items, err := e.Rank(ctx, m.Query, f, *e.opts.Threshold, topK)
	if err != nil {
		return ImageMatch{}, err
	}
	if len(items) == 0 {
		m.Broadened = true
		m.Query = joinWords(style, string(m.Gender), "outfit")
		slog.Debug("no image matches, broadening", "query", m.Query)
		items, err = e.Rank(ctx, m.Query, catalog.Filter{Gender: m.Gender}, *e.opts.BroadenThreshold, topK)
		if err != nil {
			return ImageMatch{}, err
		}
	}
	m.Items = items
	return m, nil
}

// Recommend 把解析出的场合信息转换为搭配请求
func (e *Engine) Recommend(ctx context.Context, ev EventContext, budget *decimal.Decimal) (bundle.Bundle, error) {
	ev = ev.Normalize()
	req := bundle.Request{
		Occasion:  ev.EventType,
		Gender:    catalog.ParseGender(ev.Gender),
		Formality: composerFormality(ev.Formality),
		Budget:    budget,
	}
	if len(ev.ColorPreferences) > 0 {
		req.Color = ev.ColorPreferences[0]
	}
	return e.composer.Compose(ctx, req)
}

// composerFormality 解析器的两端取值并入相邻档位
func composerFormality(f string) string {
	switch f {
	case "very-casual":
		return "casual"
	case "black-tie":
		return "formal"
	}
	return f
}

// imageGender 调用方未指定，或图片识别出明确性别时，以图片为准
func imageGender(requested catalog.Gender, detected string) catalog.Gender {
	d := catalog.ParseGender(detected)
	r := catalog.ParseGender(string(requested))
	if r == "" || (d != "" && d != catalog.Unisex) {
		if d == "" {
			return catalog.Unisex
		}
		return d
	}
	return r
}

// articleVariants 图片给出的类型可能是单数，目录里多为复数
func articleVariants(articleType string) []string {
	at := strings.ToLower(strings.TrimSpace(articleType))
	if at == "" || at == "clothing" {
		return nil
	}
	return []string{at, strings.TrimSuffix(at, "s"), strings.TrimSuffix(at, "s") + "s"}
}

func joinWords(parts ...string) string {
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}
