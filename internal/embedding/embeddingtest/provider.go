// Package embeddingtest provides deterministic in-process embedding providers
// for tests of the ranking and bundling pipeline. No network, no API key.
package embeddingtest

import (
	"context"
	"errors"
	"hash/fnv"
	"math"
	"strings"
	"sync"
	"sync/atomic"
)

// BagOfWords hashes lowercase tokens into a fixed number of buckets and
// L2-normalizes the counts, so texts sharing words score higher.
type BagOfWords struct {
	calls atomic.Int64
	texts atomic.Int64
}

func (b *BagOfWords) Name() string { return "bow" }

// Calls reports how many EmbedBatch calls reached the provider.
func (b *BagOfWords) Calls() int { return int(b.calls.Load()) }

// Texts reports how many texts were embedded in total.
func (b *BagOfWords) Texts() int { return int(b.texts.Load()) }

func (b *BagOfWords) EmbedBatch(_ context.Context, texts []string, dimension int) ([][]float32, error) {
	b.calls.Add(1)
	b.texts.Add(int64(len(texts)))
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = Vectorize(t, dimension)
	}
	return out, nil
}

// Vectorize is the bag-of-words projection used by BagOfWords.
func Vectorize(text string, dimension int) []float32 {
	v := make([]float32, dimension)
	for _, tok := range tokenize(text) {
		h := fnv.New32a()
		h.Write([]byte(tok))
		v[int(h.Sum32())%dimension]++
	}
	var norm float64
	for _, x := range v {
		norm += float64(x) * float64(x)
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range v {
			v[i] = float32(float64(v[i]) / norm)
		}
	}
	return v
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
}

var ErrUnavailable = errors.New("provider unavailable")

// Failing returns ErrUnavailable for every call after the first OK calls.
type Failing struct {
	OK int

	mu    sync.Mutex
	calls int
	inner BagOfWords
}

func (f *Failing) Name() string { return "failing" }

func (f *Failing) EmbedBatch(ctx context.Context, texts []string, dimension int) ([][]float32, error) {
	f.mu.Lock()
	f.calls++
	n := f.calls
	f.mu.Unlock()
	if n > f.OK {
		return nil, ErrUnavailable
	}
	return f.inner.EmbedBatch(ctx, texts, dimension)
}

// WrongDimension answers with vectors of a fixed, usually wrong, size.
type WrongDimension struct{ Size int }

func (w WrongDimension) Name() string { return "wrongdim" }

func (w WrongDimension) EmbedBatch(_ context.Context, texts []string, _ int) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range out {
		out[i] = make([]float32, w.Size)
	}
	return out, nil
}
