package ai

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/genai"

	"github.com/liao/stylist/internal/embedding"
)

var _ embedding.Provider = (*Client)(nil)

// Name 作为嵌入空间标识的一部分，换模型即换空间
func (c *Client) Name() string {
	return "gemini:" + c.embedModel
}

// EmbedBatch 一次请求生成多条文本的向量，输出与输入一一对应
func (c *Client) EmbedBatch(ctx context.Context, texts []string, dimension int) ([][]float32, error) {
	contents := make([]*genai.Content, len(texts))
	for i, t := range texts {
		contents[i] = genai.NewContentFromText(t, genai.RoleUser)
	}
	cfg := &genai.EmbedContentConfig{OutputDimensionality: genai.Ptr(int32(dimension))}

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		if err := c.waitForToken(ctx); err != nil {
			return nil, err
		}
		resp, err := c.client.Models.EmbedContent(ctx, c.embedModel, contents, cfg)
		if err != nil {
			lastErr = err
			slog.Warn("embed failed, retrying", "attempt", attempt+1, "texts", len(texts), "error", err)
			if err := sleep(ctx, time.Duration(1<<attempt)*time.Second); err != nil {
				return nil, err
			}
			continue
		}
		if len(resp.Embeddings) != len(texts) {
			return nil, fmt.Errorf("embed: got %d embeddings for %d texts", len(resp.Embeddings), len(texts))
		}
		out := make([][]float32, len(texts))
		for i, e := range resp.Embeddings {
			out[i] = e.Values
		}
		return out, nil
	}
	return nil, fmt.Errorf("embed failed after 3 attempts: %w", lastErr)
}
