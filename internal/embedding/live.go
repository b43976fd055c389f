package embedding

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

type Options struct {
	Dimension int
	BatchSize int
	Workers   int
}

func (o Options) withDefaults() Options {
	if o.Dimension <= 0 {
		o.Dimension = DefaultDimension
	}
	if o.BatchSize <= 0 {
		o.BatchSize = 64
	}
	if o.Workers <= 0 {
		o.Workers = 4
	}
	return o
}

// Live 调用外部 provider，成功结果写入缓存；任何失败后本会话整体降级为 Fallback
type Live struct {
	provider Provider
	cache    *Cache
	fallback *Fallback
	opts     Options
	space    Space

	group    singleflight.Group
	degraded atomic.Bool
}

func NewLive(p Provider, cache *Cache, opts Options) *Live {
	opts = opts.withDefaults()
	if cache == nil {
		cache = NewCache()
	}
	return &Live{
		provider: p,
		cache:    cache,
		fallback: NewFallback(opts.Dimension),
		opts:     opts,
		space:    LiveSpace(p.Name(), opts.Dimension),
	}
}

// Degraded 是否已切换到 fallback
func (l *Live) Degraded() bool { return l.degraded.Load() }

func (l *Live) Space() Space {
	if l.degraded.Load() {
		return l.fallback.Space()
	}
	return l.space
}

func (l *Live) Dimension() int { return l.opts.Dimension }

func (l *Live) Embed(ctx context.Context, text string) Vector {
	if l.degraded.Load() {
		return l.fallback.Embed(ctx, text)
	}
	if v, ok := l.cache.Get(text); ok {
		return v
	}

	res, err, _ := l.group.Do(text, func() (any, error) {
		vecs, err := l.provider.EmbedBatch(ctx, []string{text}, l.opts.Dimension)
		if err != nil {
			return nil, err
		}
		if err := l.check(vecs, 1); err != nil {
			return nil, err
		}
		return l.cache.LoadOrStore(text, Vector{Values: vecs[0], Space: l.space}), nil
	})
	if err != nil {
		l.degrade(err)
		return l.fallback.Embed(ctx, text)
	}
	return res.(Vector)
}

// EmbedAll 分批并发生成，结果按输入顺序返回；任一批失败则整体改用 fallback
func (l *Live) EmbedAll(ctx context.Context, texts []string) []Vector {
	if l.degraded.Load() {
		return l.fallback.EmbedAll(ctx, texts)
	}

	out := make([]Vector, len(texts))
	var missing []int
	for i, t := range texts {
		if v, ok := l.cache.Get(t); ok {
			out[i] = v
			continue
		}
		missing = append(missing, i)
	}
	if len(missing) == 0 {
		return out
	}

	batches := (len(missing) + l.opts.BatchSize - 1) / l.opts.BatchSize
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.opts.Workers)

	for b := 0; b < batches; b++ {
		start := b * l.opts.BatchSize
		end := min(start+l.opts.BatchSize, len(missing))
		idx := missing[start:end]

		g.Go(func() error {
			batch := make([]string, len(idx))
			for j, i := range idx {
				batch[j] = texts[i]
			}
			vecs, err := l.provider.EmbedBatch(gctx, batch, l.opts.Dimension)
			if err != nil {
				return fmt.Errorf("embed batch %d/%d: %w", b+1, batches, err)
			}
			if err := l.check(vecs, len(batch)); err != nil {
				return fmt.Errorf("embed batch %d/%d: %w", b+1, batches, err)
			}
			for j, i := range idx {
				out[i] = l.cache.LoadOrStore(texts[i], Vector{Values: vecs[j], Space: l.space})
			}
			slog.Debug("embedded batch", "batch", b+1, "of", batches, "size", len(batch))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		l.degrade(err)
		return l.fallback.EmbedAll(ctx, texts)
	}
	return out
}

func (l *Live) check(vecs [][]float32, want int) error {
	if len(vecs) != want {
		return fmt.Errorf("provider returned %d vectors for %d texts", len(vecs), want)
	}
	for i, v := range vecs {
		if len(v) != l.opts.Dimension {
			return fmt.Errorf("vector %d has dimension %d, want %d", i, len(v), l.opts.Dimension)
		}
	}
	return nil
}

func (l *Live) degrade(err error) {
	if l.degraded.CompareAndSwap(false, true) {
		slog.Warn("embedding provider unavailable, switching to fallback vectors",
			"provider", l.provider.Name(), "error", err)
	}
}
