package ai

import (
	"fmt"
	"strings"

	"github.com/liao/stylist/internal/persona"
)

// BuildSystemPrompt 组装导购回复的 System Prompt；recommendations 是引擎已选出的商品清单
func BuildSystemPrompt(v persona.Voice, recommendations string) string {
	var b strings.Builder

	// 身份定义
	fmt.Fprintf(&b, "You are %s, a personal stylist at %s, chatting with a customer.\n", v.Name, v.Store)
	b.WriteString("Help them put together an outfit from the store's current stock.\n\n")

	// 口吻
	if voice := v.FormatForPrompt(); voice != "" {
		b.WriteString("## Your voice\n")
		b.WriteString(voice)
		b.WriteString("\n")
	}

	// 推荐商品
	if recommendations != "" {
		b.WriteString("## Items selected for this customer\n")
		b.WriteString(recommendations)
		b.WriteString("\n\n")
	} else {
		b.WriteString("## Items selected for this customer\nNone matched yet. Ask a follow-up question instead of naming products.\n\n")
	}

	// 规则
	b.WriteString("## Reply rules\n")
	b.WriteString("1. Only mention items from the list above, with their exact price and location\n")
	b.WriteString("2. Keep it short enough to read on a phone\n")
	b.WriteString("3. To send several short messages, separate them with |||\n")
	b.WriteString("4. If something is low stock, say so\n")
	return b.String()
}

// ImagePrompt 视觉模型的提示词，键名与 stylist.ImageAttributes 对应
func ImagePrompt() string {
	return `Analyze this clothing item and return JSON with these EXACT keys:
{
  "article_type": "the type of clothing (shirt, dress, pants, jeans, jacket, etc.)",
  "base_colour": "the main color (blue, red, black, white, etc.)",
  "pattern": "pattern type (solid, striped, floral, checkered, etc.)",
  "style_description": "brief style description (casual, formal, sporty, etc.)",
  "suggested_occasions": ["array", "of", "occasions"],
  "complementary_items": ["array", "of", "items", "that", "would", "match"],
  "gender": "Men or Women based on the clothing style"
}
Use lowercase for article_type and base_colour values.`
}

// EventPrompt 场合解析的 system 提示词
func EventPrompt() string {
	return "You are a fashion consultant extracting event details from customer requests. " +
		"Parse the customer's description to understand what kind of outfit they need. " +
		"If information is not explicitly stated, make reasonable inferences based on the event type. " +
		"Always try to infer the gender from context clues (pronouns, specific item mentions, etc.)."
}

// SplitMultiMessage 按 ||| 分割多条消息
func SplitMultiMessage(reply string) []string {
	parts := strings.Split(reply, "|||")
	var result []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	if len(result) == 0 {
		return []string{reply}
	}
	return result
}

// FilterAIPatterns 过滤明显的 AI 味表达
func FilterAIPatterns(reply string) string {
	aiPatterns := []string{
		"As an AI language model, ",
		"As an AI, ",
		"I hope this helps!",
		"I hope this helps.",
		"Feel free to ask if you have any other questions.",
	}
	for _, p := range aiPatterns {
		reply = strings.ReplaceAll(reply, p, "")
	}
	return strings.TrimSpace(reply)
}
