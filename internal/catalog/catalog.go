package catalog

import (
	"fmt"
	"slices"
)

// Catalog 启动时加载一次，之后只读
type Catalog struct {
	items []Item
	byID  map[string]int
}

// New 校验并规范化条目，任何格式错误或重复 ID 都直接失败
func New(items []Item) (*Catalog, error) {
	c := &Catalog{
		items: make([]Item, 0, len(items)),
		byID:  make(map[string]int, len(items)),
	}
	for i, it := range items {
		it = it.normalize()
		if err := it.Validate(); err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
		if _, dup := c.byID[it.ID]; dup {
			return nil, fmt.Errorf("record %d: %w: duplicate id %s", i+1, ErrMalformedItem, it.ID)
		}
		c.byID[it.ID] = len(c.items)
		c.items = append(c.items, it)
	}
	return c, nil
}

func (c *Catalog) Len() int { return len(c.items) }

// Items 返回按加载顺序排列的副本
func (c *Catalog) Items() []Item {
	return slices.Clone(c.items)
}

func (c *Catalog) ByID(id string) (Item, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Item{}, false
	}
	return c.items[i], true
}

func (c *Catalog) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, it := range c.items {
		if !seen[it.Category] {
			seen[it.Category] = true
			out = append(out, it.Category)
		}
	}
	slices.Sort(out)
	return out
}

// Map 对每个条目做变换并生成新的 Catalog，ID 不允许变化
func (c *Catalog) Map(fn func(Item) Item) *Catalog {
	out := &Catalog{
		items: make([]Item, len(c.items)),
		byID:  c.byID,
	}
	for i, it := range c.items {
		next := fn(it)
		next.ID = it.ID
		out.items[i] = next
	}
	return out
}
