package embedding

import (
	"context"
	"fmt"
)

// DefaultDimension 向量维度，live 与 fallback 共用
const DefaultDimension = 256

// Space 标识向量所在的嵌入空间，不同空间的向量不可比较
type Space string

// FallbackSpace 返回给定维度下 hash 向量的空间标识
func FallbackSpace(dim int) Space {
	return Space(fmt.Sprintf("fallback:%d", dim))
}

// LiveSpace 返回 live provider 的空间标识
func LiveSpace(provider string, dim int) Space {
	return Space(fmt.Sprintf("%s:%d", provider, dim))
}

type Vector struct {
	Values []float32
	Space  Space
}

// Provider 外部 embedding 能力，输出与输入一一对应且保持顺序
type Provider interface {
	EmbedBatch(ctx context.Context, texts []string, dimension int) ([][]float32, error)
	Name() string
}

// Embedder 每个会话选定一次的嵌入策略
type Embedder interface {
	Embed(ctx context.Context, text string) Vector
	EmbedAll(ctx context.Context, texts []string) []Vector
	Space() Space
	Dimension() int
}

// Func 适配 chromem-go 的 EmbeddingFunc 签名
func Func(e Embedder) func(ctx context.Context, text string) ([]float32, error) {
	return func(ctx context.Context, text string) ([]float32, error) {
		return e.Embed(ctx, text).Values, nil
	}
}
