package persona

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Voice 导购的说话方式
type Voice struct {
	Name              string   `json:"name"`
	Store             string   `json:"store"`
	Tone              string   `json:"tone"`
	Greeting          string   `json:"greeting"`
	SignOff           string   `json:"sign_off"`
	Catchphrases      []string `json:"catchphrases"`
	NegativePatterns  []string `json:"negative_patterns"`
	FollowUpQuestions []string `json:"follow_up_questions"`
}

// Default 门店默认的澳洲导购口吻
func Default() Voice {
	return Voice{
		Name:         "Sam",
		Store:        "the store",
		Tone:         "warm, upbeat Australian retail assistant; practical and specific about fit and occasion",
		Greeting:     "G'day!",
		SignOff:      "Shall I check sizes for you?",
		Catchphrases: []string{"brilliant", "spot on", "absolutely stunning"},
		NegativePatterns: []string{
			"recommend items that are not in the provided list",
			"invent prices, aisles or stock levels",
			"write long paragraphs",
		},
		FollowUpQuestions: []string{
			"Any colours you particularly love or want to avoid?",
			"What's your usual size?",
			"Any budget you're working with?",
		},
	}
}

// LoadFromFile 读取 voice 文件，缺省字段使用 Default 的值
func LoadFromFile(path string) (*Voice, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read voice file: %w", err)
	}
	v := Default()
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("unmarshal voice: %w", err)
	}
	return &v, nil
}

// FormatForPrompt 将口吻设定格式化为 prompt 文本
func (v Voice) FormatForPrompt() string {
	var b strings.Builder
	if v.Tone != "" {
		fmt.Fprintf(&b, "- Tone: %s\n", v.Tone)
	}
	if v.Greeting != "" {
		fmt.Fprintf(&b, "- Open with: %q\n", v.Greeting)
	}
	if len(v.Catchphrases) > 0 {
		fmt.Fprintf(&b, "- Phrases you like: %s\n", strings.Join(quoteAll(v.Catchphrases), ", "))
	}
	if v.SignOff != "" {
		fmt.Fprintf(&b, "- Close with a question such as %q\n", v.SignOff)
	}
	if len(v.NegativePatterns) > 0 {
		b.WriteString("\nYou never:\n")
		for _, p := range v.NegativePatterns {
			fmt.Fprintf(&b, "- %s\n", p)
		}
	}
	return b.String()
}

func quoteAll(ss []string) []string {
	result := make([]string, len(ss))
	for i, s := range ss {
		result[i] = "\"" + s + "\""
	}
	return result
}
