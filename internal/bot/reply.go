package bot

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/liao/stylist/internal/bundle"
	"github.com/liao/stylist/internal/catalog"
	"github.com/liao/stylist/internal/intent"
	"github.com/liao/stylist/internal/persona"
	"github.com/liao/stylist/internal/stylist"
)

var budgetPattern = regexp.MustCompile(`(?i)(?:\$\s*(\d+(?:\.\d{1,2})?)|(?:budget|under|below|max(?:imum)?)\D{0,12}?(\d+(?:\.\d{1,2})?))`)

// ParseBudget 从消息里找出预算金额，如 "$200" / "under 150"；没有时返回 nil
func ParseBudget(text string) *decimal.Decimal {
	m := budgetPattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	raw := m[1]
	if raw == "" {
		raw = m[2]
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || !d.IsPositive() {
		return nil
	}
	return &d
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// itemLine 一件商品的展示行：名称、价格、位置、库存
func itemLine(it catalog.Item) string {
	parts := []string{it.Name}
	if it.Price != nil {
		parts = append(parts, money(*it.Price))
	}
	if it.Location != nil {
		parts = append(parts, it.Location.Display())
	}
	line := strings.Join(parts, ", ")
	if it.Stock != nil {
		line += " (" + it.Stock.Label + ")"
	}
	return line
}

// Recommendations 给 system prompt 用的编号清单
func Recommendations(items []catalog.Item) string {
	var b strings.Builder
	for i, it := range items {
		fmt.Fprintf(&b, "%d. %s\n", i+1, itemLine(it))
	}
	return strings.TrimRight(b.String(), "\n")
}

func bundleItems(b bundle.Bundle) []catalog.Item {
	items := make([]catalog.Item, len(b.Items))
	for i, p := range b.Items {
		items[i] = p.Item
	}
	return items
}

func matchItems(m stylist.ImageMatch) []catalog.Item {
	items := make([]catalog.Item, len(m.Items))
	for i, r := range m.Items {
		items[i] = r.Item
	}
	return items
}

// FormatBundle 模板回复，AI 不可用时直接发送
func FormatBundle(v persona.Voice, b bundle.Bundle) string {
	var sb strings.Builder
	if v.Greeting != "" {
		sb.WriteString(v.Greeting + " ")
	}
	if len(b.Items) == 0 {
		sb.WriteString("I couldn't find anything on the racks for that just yet.")
		if len(v.FollowUpQuestions) > 0 {
			sb.WriteString(" " + v.FollowUpQuestions[0])
		}
		return sb.String()
	}

	fmt.Fprintf(&sb, "Here's a %s look for your %s:\n", b.Formality, b.Occasion)
	for _, p := range b.Items {
		fmt.Fprintf(&sb, "- %s: %s\n", p.Slot, itemLine(p.Item))
	}
	fmt.Fprintf(&sb, "Total %s", money(b.Total))
	if rem := b.Remaining(); rem != nil {
		fmt.Fprintf(&sb, ", %s left of your %s budget", money(*rem), money(*b.Budget))
	}
	sb.WriteString("\n")
	if b.StylingNotes != "" {
		sb.WriteString(b.StylingNotes + "\n")
	}
	sb.WriteString(v.SignOff)
	return strings.TrimSpace(sb.String())
}

// FormatMatches 图片匹配结果的模板回复
func FormatMatches(v persona.Voice, attrs stylist.ImageAttributes, m stylist.ImageMatch) string {
	var sb strings.Builder
	if v.Greeting != "" {
		sb.WriteString(v.Greeting + " ")
	}
	if len(m.Items) == 0 {
		sb.WriteString("Nothing on the floor matches that piece right now.")
		if len(v.FollowUpQuestions) > 0 {
			sb.WriteString(" " + v.FollowUpQuestions[0])
		}
		return sb.String()
	}

	piece := strings.TrimSpace(attrs.BaseColour + " " + attrs.ArticleType)
	switch m.Mode {
	case intent.Similar:
		fmt.Fprintf(&sb, "Here are a few pieces like your %s:\n", piece)
	default:
		fmt.Fprintf(&sb, "Here's what would go nicely with your %s:\n", piece)
	}
	for _, r := range m.Items {
		sb.WriteString("- " + itemLine(r.Item) + "\n")
	}
	sb.WriteString(v.SignOff)
	return strings.TrimSpace(sb.String())
}

// FormatInventory /stock 命令的回复
func FormatInventory(res catalog.InventoryResult) string {
	if !res.Found {
		return "We don't carry that at the moment."
	}
	var sb strings.Builder
	for _, m := range res.Items {
		status := "sold out"
		if m.Available {
			status = m.Item.Stock.Label
		}
		fmt.Fprintf(&sb, "%s [%s]: %s", m.Item.Name, m.Item.ID, status)
		if m.Location != "" {
			sb.WriteString(", " + m.Location)
		}
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String())
}
