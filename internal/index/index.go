package index

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/liao/stylist/internal/catalog"
	"github.com/liao/stylist/internal/embedding"
	"github.com/liao/stylist/internal/rank"
)

// Index 按嵌入空间缓存商品向量；live 空间的向量可选持久化到 Store
type Index struct {
	items    []catalog.Item
	embedder embedding.Embedder
	fallback *embedding.Fallback
	store    *Store

	mu     sync.RWMutex
	spaces map[embedding.Space]map[string]embedding.Vector
}

// New store 可为 nil，此时只在内存中缓存
func New(c *catalog.Catalog, e embedding.Embedder, store *Store) *Index {
	return &Index{
		items:    c.Items(),
		embedder: e,
		fallback: embedding.NewFallback(e.Dimension()),
		store:    store,
		spaces:   make(map[embedding.Space]map[string]embedding.Vector),
	}
}

// WarmStats 预热结果
type WarmStats struct {
	Space    embedding.Space
	Items    int
	Reused   int
	Embedded int
}

// Warm 对整个目录做一次批量 embedding；持久化的向量若内容未变则直接复用
func (ix *Index) Warm(ctx context.Context) (WarmStats, error) {
	space := ix.embedder.Space()
	stats := WarmStats{Space: space, Items: len(ix.items)}

	var reused map[string]embedding.Vector
	if ix.persistable(space) {
		var err error
		reused, err = ix.store.Load(ctx, space, ix.embedder.Dimension(), ix.items)
		if err != nil {
			return stats, fmt.Errorf("load cached vectors: %w", err)
		}
		ix.put(reused)
		stats.Reused = len(reused)
	}

	var missing []catalog.Item
	for _, it := range ix.items {
		if _, ok := reused[it.ID]; !ok {
			missing = append(missing, it)
		}
	}
	if len(missing) == 0 {
		slog.Info("catalog index warmed", "space", space, "items", stats.Items, "reused", stats.Reused)
		return stats, nil
	}

	vecs := ix.embedAll(ctx, missing)
	stats.Embedded = len(vecs)
	// 批量过程中可能已降级，以实际返回的空间为准
	stats.Space = vecs[0].Space

	if ix.persistable(stats.Space) {
		if err := ix.store.Save(ctx, stats.Space, missing, vecs); err != nil {
			return stats, fmt.Errorf("persist vectors: %w", err)
		}
	}
	slog.Info("catalog index warmed", "space", stats.Space, "items", stats.Items,
		"reused", stats.Reused, "embedded", stats.Embedded)
	return stats, nil
}

// Candidates 返回 items 在指定空间中的向量；目标空间无法满足时返回 rank.ErrSpaceMismatch
func (ix *Index) Candidates(ctx context.Context, space embedding.Space, items []catalog.Item) ([]rank.Candidate, error) {
	out := make([]rank.Candidate, len(items))
	var missing []int

	ix.mu.RLock()
	known := ix.spaces[space]
	for i, it := range items {
		if v, ok := known[it.ID]; ok {
			out[i] = rank.Candidate{Item: it, Vector: v}
		} else {
			missing = append(missing, i)
		}
	}
	ix.mu.RUnlock()

	if len(missing) == 0 {
		return out, nil
	}

	todo := make([]catalog.Item, len(missing))
	for j, i := range missing {
		todo[j] = items[i]
	}

	var vecs []embedding.Vector
	switch space {
	case ix.fallback.Space():
		vecs = ix.fallbackAll(ctx, todo)
	case ix.embedder.Space():
		vecs = ix.embedAll(ctx, todo)
	default:
		return nil, fmt.Errorf("candidates in %s: %w", space, rank.ErrSpaceMismatch)
	}
	for j, i := range missing {
		if vecs[j].Space != space {
			return nil, fmt.Errorf("candidates in %s: embedder switched to %s: %w", space, vecs[j].Space, rank.ErrSpaceMismatch)
		}
		out[i] = rank.Candidate{Item: items[i], Vector: vecs[j]}
	}
	return out, nil
}

// Search 用当前 embedder 生成查询向量并对 items 排序；
// 若 embedder 中途降级导致空间不一致，整体改用 fallback 空间重排一次
func (ix *Index) Search(ctx context.Context, query string, items []catalog.Item, threshold float64, topK int) ([]rank.Ranked, error) {
	if len(items) == 0 {
		return []rank.Ranked{}, nil
	}
	q := ix.embedder.Embed(ctx, query)
	ranked, err := ix.rankIn(ctx, q, items, threshold, topK)
	if err == nil || !errors.Is(err, rank.ErrSpaceMismatch) {
		return ranked, err
	}

	slog.Warn("embedding space changed mid-request, ranking in fallback space", "from", q.Space, "to", ix.fallback.Space())
	return ix.rankIn(ctx, ix.fallback.Embed(ctx, query), items, threshold, topK)
}

func (ix *Index) rankIn(ctx context.Context, q embedding.Vector, items []catalog.Item, threshold float64, topK int) ([]rank.Ranked, error) {
	cands, err := ix.Candidates(ctx, q.Space, items)
	if err != nil {
		return nil, err
	}
	return rank.Rank(q, cands, threshold, topK)
}

// Len 某空间中已缓存的向量数
func (ix *Index) Len(space embedding.Space) int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.spaces[space])
}

func (ix *Index) embedAll(ctx context.Context, items []catalog.Item) []embedding.Vector {
	vecs := ix.embedder.EmbedAll(ctx, searchTexts(items))
	ix.putAll(items, vecs)
	return vecs
}

func (ix *Index) fallbackAll(ctx context.Context, items []catalog.Item) []embedding.Vector {
	vecs := ix.fallback.EmbedAll(ctx, searchTexts(items))
	ix.putAll(items, vecs)
	return vecs
}

func (ix *Index) putAll(items []catalog.Item, vecs []embedding.Vector) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	for i, it := range items {
		ix.setLocked(it.ID, vecs[i])
	}
}

func (ix *Index) put(vecs map[string]embedding.Vector) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	for id, v := range vecs {
		ix.setLocked(id, v)
	}
}

func (ix *Index) setLocked(id string, v embedding.Vector) {
	m, ok := ix.spaces[v.Space]
	if !ok {
		m = make(map[string]embedding.Vector)
		ix.spaces[v.Space] = m
	}
	m[id] = v
}

// persistable fallback 向量随时可重算，不落盘
func (ix *Index) persistable(space embedding.Space) bool {
	return ix.store != nil && space != ix.fallback.Space()
}

func searchTexts(items []catalog.Item) []string {
	texts := make([]string, len(items))
	for i, it := range items {
		texts[i] = it.SearchText()
	}
	return texts
}
