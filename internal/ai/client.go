package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"google.golang.org/genai"
)

var ErrEmptyResponse = errors.New("empty model response")

type Options struct {
	APIKey          string
	ChatModels      []string
	EmbeddingModel  string
	VisionModel     string
	Temperature     float32
	MaxOutputTokens int32
	RPMLimit        int
}

type Client struct {
	client      *genai.Client
	chatModels  []string // 多模型轮换
	modelIdx    atomic.Int64
	embedModel  string
	visionModel string // 为空时沿用 chatModels 轮换
	temp        float32
	maxTokens   int32

	// 限流
	rpmLimit int
	mu       sync.Mutex
	tokens   int
	lastTick time.Time
}

func NewClient(ctx context.Context, opts Options) (*Client, error) {
	if len(opts.ChatModels) == 0 {
		return nil, fmt.Errorf("create genai client: no chat models configured")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	rpm := opts.RPMLimit
	if rpm <= 0 {
		rpm = 60
	}
	return &Client{
		client:      client,
		chatModels:  opts.ChatModels,
		embedModel:  opts.EmbeddingModel,
		visionModel: opts.VisionModel,
		temp:        opts.Temperature,
		maxTokens:   opts.MaxOutputTokens,
		rpmLimit:    rpm,
		tokens:      rpm,
		lastTick:    time.Now(),
	}, nil
}

// currentModel 获取当前模型
func (c *Client) currentModel() string {
	idx := c.modelIdx.Load() % int64(len(c.chatModels))
	return c.chatModels[idx]
}

// rotateModel 切换到下一个模型
func (c *Client) rotateModel() string {
	newIdx := c.modelIdx.Add(1) % int64(len(c.chatModels))
	model := c.chatModels[newIdx]
	slog.Info("rotating to next model", "model", model)
	return model
}

// GenerateChat 生成导购回复，429 时自动切换模型
func (c *Client) GenerateChat(ctx context.Context, systemPrompt string, history []*genai.Content, userMsg string) (string, error) {
	contents := make([]*genai.Content, 0, len(history)+1)
	contents = append(contents, history...)
	contents = append(contents, genai.NewContentFromText(userMsg, genai.RoleUser))

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		Temperature:       genai.Ptr(c.temp),
		MaxOutputTokens:   c.maxTokens,
	}
	return c.generate(ctx, "", contents, cfg)
}

// generate 尝试所有模型，每个模型最多重试 2 次；fixed 非空时只用该模型
func (c *Client) generate(ctx context.Context, fixed string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (string, error) {
	totalAttempts := len(c.chatModels) * 2
	var lastErr error
	for attempt := 0; attempt < totalAttempts; attempt++ {
		if err := c.waitForToken(ctx); err != nil {
			return "", err
		}
		model := fixed
		if model == "" {
			model = c.currentModel()
		}
		resp, err := c.client.Models.GenerateContent(ctx, model, contents, cfg)
		if err != nil {
			lastErr = err
			if isQuotaError(err) && fixed == "" {
				slog.Warn("model quota exceeded, switching", "model", model, "attempt", attempt+1)
				c.rotateModel()
				if err := sleep(ctx, time.Second); err != nil {
					return "", err
				}
				continue
			}
			slog.Warn("generate failed, retrying", "model", model, "attempt", attempt+1, "error", err)
			if err := sleep(ctx, time.Duration(1<<attempt)*time.Second); err != nil {
				return "", err
			}
			continue
		}
		text := resp.Text()
		if strings.TrimSpace(text) == "" {
			lastErr = ErrEmptyResponse
			continue
		}
		slog.Debug("generated reply", "model", model)
		return text, nil
	}
	return "", fmt.Errorf("all models exhausted after %d attempts: %w", totalAttempts, lastErr)
}

func isQuotaError(err error) bool {
	return strings.Contains(err.Error(), "429") || strings.Contains(err.Error(), "RESOURCE_EXHAUSTED")
}

func sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// waitForToken 简单令牌桶限流
func (c *Client) waitForToken(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(c.lastTick)
	if elapsed >= time.Minute {
		c.tokens = c.rpmLimit
		c.lastTick = now
	}

	if c.tokens > 0 {
		c.tokens--
		return nil
	}

	wait := time.Minute - elapsed
	c.mu.Unlock()
	slog.Info("rate limit reached, waiting", "duration", wait)
	select {
	case <-ctx.Done():
		c.mu.Lock()
		return ctx.Err()
	case <-time.After(wait):
	}
	c.mu.Lock()
	c.tokens = c.rpmLimit - 1
	c.lastTick = time.Now()
	return nil
}
