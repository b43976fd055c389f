package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/liao/stylist/internal/stylist"
)

var (
	_ stylist.VisionAnalyzer = (*Client)(nil)
	_ stylist.EventParser    = (*Client)(nil)
)

// Analyze 识别图片中的单品，返回结构化属性
func (c *Client) Analyze(ctx context.Context, image []byte, mimeType string) (stylist.ImageAttributes, error) {
	if len(image) == 0 {
		return stylist.ImageAttributes{}, fmt.Errorf("analyze image: empty image")
	}
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	contents := []*genai.Content{genai.NewContentFromParts([]*genai.Part{
		genai.NewPartFromText(ImagePrompt()),
		genai.NewPartFromBytes(image, mimeType),
	}, genai.RoleUser)}
	cfg := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(float32(0.2)),
		MaxOutputTokens:  1024,
		ResponseMIMEType: "application/json",
	}

	text, err := c.generate(ctx, c.visionModel, contents, cfg)
	if err != nil {
		return stylist.ImageAttributes{}, fmt.Errorf("analyze image: %w", err)
	}
	return decodeImageAttributes(text)
}

// decodeImageAttributes 模型返回的键名不稳定，按候选键依次取值
func decodeImageAttributes(text string) (stylist.ImageAttributes, error) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(stripFences(text)), &raw); err != nil {
		return stylist.ImageAttributes{}, fmt.Errorf("decode image attributes: %w", err)
	}
	return stylist.ImageAttributes{
		ArticleType:        strings.ToLower(firstString(raw, "clothing", "article_type", "articleType", "type")),
		BaseColour:         strings.ToLower(firstString(raw, "neutral", "base_colour", "baseColour", "base_color", "color")),
		Pattern:            firstString(raw, "solid", "pattern"),
		StyleDescription:   firstString(raw, "casual", "style_description", "styleDescription", "style"),
		SuggestedOccasions: firstStrings(raw, []string{"everyday"}, "suggested_occasions", "suggestedOccasions", "occasions"),
		ComplementaryItems: firstStrings(raw, []string{}, "complementary_items", "complementaryItems", "matches"),
		Gender:             firstString(raw, "Unisex", "gender"),
	}, nil
}

func firstString(raw map[string]any, def string, keys ...string) string {
	for _, k := range keys {
		if s, ok := raw[k].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return def
}

func firstStrings(raw map[string]any, def []string, keys ...string) []string {
	for _, k := range keys {
		vals, ok := raw[k].([]any)
		if !ok || len(vals) == 0 {
			continue
		}
		out := make([]string, 0, len(vals))
		for _, v := range vals {
			if s, ok := v.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return def
}

func stripFences(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
