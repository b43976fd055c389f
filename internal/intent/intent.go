package intent

import "strings"

type Mode string

const (
	Similar       Mode = "similar"
	Complementary Mode = "complementary"
)

// 顺序即优先级：先扫 similar 列表，再扫 complementary 列表，首个命中为准
var (
	similarKeywords = []string{
		"similar", "like this", "like that", "same", "matching",
		"alternatives", "other options", "more like", "this style",
		"do you have", "any other", "different color", "different colours",
		"show me more", "similar to",
	}
	complementaryKeywords = []string{
		"goes with", "go with", "pair with", "match with", "wear with",
		"complement", "complete the look", "outfit", "what to wear",
		"accessories for", "style with",
	}
)

// Classify 判断用户想要相似款还是搭配款
func Classify(message string) Mode {
	mode, _ := Match(message)
	return mode
}

// Match 同 Classify，并返回命中的关键词；未命中时关键词为空
// 只含空白的消息与空消息相同，按 complementary 处理
func Match(message string) (Mode, string) {
	msg := strings.ToLower(strings.TrimSpace(message))
	if msg == "" {
		return Complementary, ""
	}
	for _, kw := range similarKeywords {
		if strings.Contains(msg, kw) {
			return Similar, kw
		}
	}
	for _, kw := range complementaryKeywords {
		if strings.Contains(msg, kw) {
			return Complementary, kw
		}
	}
	return Similar, ""
}

// Keywords 按优先级返回某种模式的关键词
func Keywords(m Mode) []string {
	switch m {
	case Similar:
		return append([]string(nil), similarKeywords...)
	case Complementary:
		return append([]string(nil), complementaryKeywords...)
	}
	return nil
}
