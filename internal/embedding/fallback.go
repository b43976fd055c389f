package embedding

import (
	"context"
	"crypto/md5"
	"encoding/binary"
	"math/bits"
)

// Fallback 由文本 md5 派生的确定性向量，不携带语义信息
type Fallback struct {
	dim int
}

func NewFallback(dim int) *Fallback {
	if dim <= 0 {
		dim = DefaultDimension
	}
	return &Fallback{dim: dim}
}

func (f *Fallback) Embed(_ context.Context, text string) Vector {
	return Vector{Values: HashVector(text, f.dim), Space: f.Space()}
}

func (f *Fallback) EmbedAll(ctx context.Context, texts []string) []Vector {
	out := make([]Vector, len(texts))
	for i, t := range texts {
		out[i] = f.Embed(ctx, t)
	}
	return out
}

func (f *Fallback) Space() Space   { return FallbackSpace(f.dim) }
func (f *Fallback) Dimension() int { return f.dim }

// HashVector 把 md5 视为 128 位整数，第 i 维取 ((h >> (i mod 128)) mod 100) / 100
func HashVector(text string, dim int) []float32 {
	sum := md5.Sum([]byte(text))
	hi := binary.BigEndian.Uint64(sum[:8])
	lo := binary.BigEndian.Uint64(sum[8:])

	v := make([]float32, dim)
	for i := range v {
		h, l := shr128(hi, lo, uint(i%128))
		v[i] = float32(bits.Rem64(h, l, 100)) / 100
	}
	return v
}

func shr128(hi, lo uint64, s uint) (uint64, uint64) {
	switch {
	case s == 0:
		return hi, lo
	case s < 64:
		return hi >> s, lo>>s | hi<<(64-s)
	default:
		return 0, hi >> (s - 64)
	}
}
