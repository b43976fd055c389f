package bundle

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/liao/stylist/internal/catalog"
	"github.com/liao/stylist/internal/rank"
)

// SlotGroup 一个搭配位置及其可接受的 category；Bottom 位在已选连衣裙时跳过
type SlotGroup struct {
	Name       string   `mapstructure:"name"`
	Categories []string `mapstructure:"categories"`
	Bottom     bool     `mapstructure:"bottom"`
}

const dressCategory = "dresses"

// Versatile 带这个风格标签的单品适合任何正式程度
const Versatile = "versatile"

func DefaultSlotGroups() map[catalog.Gender][]SlotGroup {
	return map[catalog.Gender][]SlotGroup{
		catalog.Women: {
			{Name: "top", Categories: []string{"tops", "dresses"}},
			{Name: "bottom", Categories: []string{"pants", "skirts"}, Bottom: true},
			{Name: "footwear", Categories: []string{"shoes"}},
			{Name: "accessory", Categories: []string{"accessories"}},
		},
		catalog.Men: {
			{Name: "top", Categories: []string{"shirts", "blazers", "sweaters"}},
			{Name: "bottom", Categories: []string{"pants"}, Bottom: true},
			{Name: "footwear", Categories: []string{"shoes"}},
			{Name: "accessory", Categories: []string{"accessories"}},
		},
	}
}

func DefaultFormality() map[string][]string {
	return map[string][]string{
		"casual":          {"casual", "smart-casual"},
		"smart-casual":    {"smart-casual", "business-casual"},
		"business-casual": {"business-casual", "smart-casual", "formal"},
		"semi-formal":     {"semi-formal", "formal", "business-casual"},
		"formal":          {"formal", "semi-formal"},
	}
}

var defaultAllowed = []string{"smart-casual"}

// Searcher 对候选商品做相似度排序
type Searcher interface {
	Search(ctx context.Context, query string, items []catalog.Item, threshold float64, topK int) ([]rank.Ranked, error)
}

type Request struct {
	Occasion  string
	Gender    catalog.Gender
	Formality string
	Budget    *decimal.Decimal
	Color     string
}

type Pick struct {
	Slot  string       `json:"slot"`
	Item  catalog.Item `json:"item"`
	Score float64      `json:"score"`
}

type Bundle struct {
	Occasion     string           `json:"occasion"`
	Formality    string           `json:"formality"`
	Items        []Pick           `json:"items"`
	SlotsFilled  []string         `json:"slots_filled"`
	Categories   []string         `json:"categories"`
	Total        decimal.Decimal  `json:"total"`
	Budget       *decimal.Decimal `json:"budget,omitempty"`
	StylingNotes string           `json:"styling_notes"`
}

// Remaining 剩余预算；无预算时返回 nil
func (b Bundle) Remaining() *decimal.Decimal {
	if b.Budget == nil {
		return nil
	}
	r := b.Budget.Sub(b.Total)
	return &r
}

type Options struct {
	SlotGroups map[catalog.Gender][]SlotGroup
	Formality  map[string][]string
	// Threshold 排序阈值，默认 -1 即所有候选都参与排序
	Threshold *float64
}

type Composer struct {
	items     []catalog.Item
	search    Searcher
	slots     map[catalog.Gender][]SlotGroup
	formality map[string][]string
	threshold float64
}

// New items 应为已补齐的目录条目
func New(items []catalog.Item, s Searcher, opts Options) *Composer {
	c := &Composer{
		items:     items,
		search:    s,
		slots:     DefaultSlotGroups(),
		formality: DefaultFormality(),
		threshold: -1,
	}
	// 按性别覆盖，未配置的性别保留默认位置
	for g, groups := range opts.SlotGroups {
		c.slots[catalog.ParseGender(string(g))] = groups
	}
	if len(opts.Formality) > 0 {
		c.formality = make(map[string][]string, len(opts.Formality))
		for k, v := range opts.Formality {
			c.formality[normalizeStyle(k)] = v
		}
	}
	if opts.Threshold != nil {
		c.threshold = *opts.Threshold
	}
	return c
}

// Compose 按 slot group 顺序逐个填充，每个位置取排序第一的候选；允许部分填充
func (c *Composer) Compose(ctx context.Context, req Request) (Bundle, error) {
	gender := catalog.ParseGender(string(req.Gender))
	groups, filterGender := c.groupsFor(gender)
	allowed := c.AllowedStyles(req.Formality)
	query := strings.Join(strings.Fields(strings.Join([]string{req.Occasion, req.Formality, req.Color}, " ")), " ")

	b := Bundle{
		Occasion:    req.Occasion,
		Formality:   req.Formality,
		Items:       []Pick{},
		SlotsFilled: []string{},
		Categories:  []string{},
		Total:       decimal.Zero,
		Budget:      req.Budget,
	}
	selected := make(map[string]bool)
	hasDress := false

	for _, g := range groups {
		if g.Bottom && hasDress {
			slog.Debug("bottom slot skipped, dress selected", "slot", g.Name)
			continue
		}

		f := catalog.Filter{Gender: filterGender, Categories: g.Categories, MaxPrice: b.Remaining()}
		var eligible []catalog.Item
		for _, it := range c.items {
			if selected[it.ID] || !it.InStock() || !f.Match(it) || !styleAllowed(it.Style, allowed) {
				continue
			}
			eligible = append(eligible, it)
		}
		if len(eligible) == 0 {
			slog.Debug("slot left unfilled", "slot", g.Name, "query", query)
			continue
		}

		ranked, err := c.search.Search(ctx, query, eligible, c.threshold, 1)
		if err != nil {
			return Bundle{}, fmt.Errorf("rank %s slot: %w", g.Name, err)
		}
		if len(ranked) == 0 {
			continue
		}

		top := ranked[0]
		selected[top.Item.ID] = true
		b.Items = append(b.Items, Pick{Slot: g.Name, Item: top.Item, Score: top.Score})
		b.SlotsFilled = append(b.SlotsFilled, g.Name)
		if !slices.Contains(b.Categories, top.Item.Category) {
			b.Categories = append(b.Categories, top.Item.Category)
		}
		b.Total = b.Total.Add(top.Item.PriceOrZero())
		if top.Item.Category == dressCategory {
			hasDress = true
		}
	}

	b.StylingNotes = stylingNote(req.Formality, req.Occasion, len(b.Items))
	slog.Debug("bundle composed", "occasion", req.Occasion, "gender", gender,
		"formality", req.Formality, "items", len(b.Items), "total", b.Total.StringFixed(2))
	return b, nil
}

// AllowedStyles 正式程度对应的可接受风格，未知取值按 smart-casual 处理
func (c *Composer) AllowedStyles(formality string) []string {
	allowed, ok := c.formality[normalizeStyle(formality)]
	if !ok {
		allowed = defaultAllowed
	}
	return allowed
}

// groupsFor men/women 始终按本性别过滤；其他性别取两者并集并关闭性别过滤
func (c *Composer) groupsFor(g catalog.Gender) ([]SlotGroup, catalog.Gender) {
	if g == catalog.Men || g == catalog.Women {
		return c.slots[g], g
	}
	return unionGroups(c.slots[catalog.Women], c.slots[catalog.Men]), ""
}

func unionGroups(a, b []SlotGroup) []SlotGroup {
	var out []SlotGroup
	index := make(map[string]int)
	for _, g := range slices.Concat(a, b) {
		i, ok := index[g.Name]
		if !ok {
			index[g.Name] = len(out)
			out = append(out, SlotGroup{Name: g.Name, Categories: slices.Clone(g.Categories), Bottom: g.Bottom})
			continue
		}
		for _, cat := range g.Categories {
			if !slices.Contains(out[i].Categories, cat) {
				out[i].Categories = append(out[i].Categories, cat)
			}
		}
		out[i].Bottom = out[i].Bottom || g.Bottom
	}
	return out
}

func styleAllowed(style string, allowed []string) bool {
	s := normalizeStyle(style)
	if s == Versatile {
		return true
	}
	return slices.ContainsFunc(allowed, func(a string) bool { return normalizeStyle(a) == s })
}

func normalizeStyle(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "-")
}

func stylingNote(formality, occasion string, n int) string {
	note := fmt.Sprintf("This %s outfit is perfect for %s.", formality, occasion)
	if n >= 3 {
		note += " The pieces coordinate well together and can be mixed with other wardrobe staples."
	}
	return note
}
