package rank

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/liao/stylist/internal/catalog"
	"github.com/liao/stylist/internal/embedding"
)

// ErrSpaceMismatch 查询向量与候选向量来自不同的嵌入空间
var ErrSpaceMismatch = errors.New("embedding space mismatch")

type Candidate struct {
	Item   catalog.Item
	Vector embedding.Vector
}

type Ranked struct {
	Item  catalog.Item
	Score float64
}

// Cosine 余弦相似度；任一向量范数为 0 或维度不同时返回 0
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	s := dot / (math.Sqrt(na) * math.Sqrt(nb))
	return max(-1, min(1, s))
}

// Rank 过滤低于 threshold 的候选，按分数降序稳定排序，最多返回 topK 个（topK<=0 不限）
func Rank(query embedding.Vector, candidates []Candidate, threshold float64, topK int) ([]Ranked, error) {
	out := make([]Ranked, 0, len(candidates))
	for _, c := range candidates {
		if c.Vector.Space != query.Space {
			return nil, fmt.Errorf("rank item %s: %w (%s vs %s)", c.Item.ID, ErrSpaceMismatch, c.Vector.Space, query.Space)
		}
		score := Cosine(query.Values, c.Vector.Values)
		if score < threshold {
			continue
		}
		out = append(out, Ranked{Item: c.Item, Score: score})
	}

	slices.SortStableFunc(out, func(a, b Ranked) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		}
		return 0
	})

	if topK > 0 && len(out) > topK {
		out = out[:topK]
	}
	return out, nil
}
