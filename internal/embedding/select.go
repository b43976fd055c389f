package embedding

import (
	"context"
	"log/slog"
)

type Mode string

const (
	ModeLive    Mode = "live"
	ModeOffline Mode = "offline"
)

const probeText = "ping"

// Select 每个会话只选一次策略：live 模式下先探测 provider，不可用则直接用 Fallback
func Select(ctx context.Context, mode Mode, p Provider, cache *Cache, opts Options) Embedder {
	opts = opts.withDefaults()
	if mode != ModeLive || p == nil {
		slog.Info("using fallback embeddings", "mode", mode, "dimension", opts.Dimension)
		return NewFallback(opts.Dimension)
	}

	live := NewLive(p, cache, opts)
	live.Embed(ctx, probeText)
	if live.Degraded() {
		return NewFallback(opts.Dimension)
	}
	slog.Info("using live embeddings", "provider", p.Name(), "dimension", opts.Dimension)
	return live
}
