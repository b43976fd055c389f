package catalog

import (
	"fmt"
	"slices"
	"strings"
)

type InventoryQuery struct {
	Name     string
	Category string
	Color    string
	Size     string
	Gender   Gender
}

type InventoryMatch struct {
	Item      Item
	Available bool
	Location  string
}

type InventoryResult struct {
	Found bool
	Items []InventoryMatch
}

// CheckInventory 名称/描述子串匹配，其余字段作为过滤条件
func (c *Catalog) CheckInventory(q InventoryQuery) InventoryResult {
	name := strings.ToLower(strings.TrimSpace(q.Name))
	color := strings.ToLower(strings.TrimSpace(q.Color))

	var res InventoryResult
	for _, it := range c.items {
		if name != "" && !strings.Contains(strings.ToLower(it.Name), name) &&
			!strings.Contains(strings.ToLower(it.Description), name) {
			continue
		}
		if q.Category != "" && !strings.EqualFold(q.Category, it.Category) {
			continue
		}
		if !(Filter{Gender: q.Gender}).Match(it) {
			continue
		}
		if color != "" && !slices.ContainsFunc(it.Colors, func(col string) bool {
			return strings.Contains(strings.ToLower(col), color)
		}) {
			continue
		}
		if q.Size != "" && !slices.Contains(it.Sizes, q.Size) {
			continue
		}

		m := InventoryMatch{Item: it, Available: it.InStock()}
		if it.Location != nil {
			m.Location = it.Location.Display()
		}
		res.Items = append(res.Items, m)
	}
	res.Found = len(res.Items) > 0
	return res
}

type ItemLocation struct {
	ItemName   string
	Location   Location
	Directions string
	Stock      int
}

// Locate 查询商品货位
func (c *Catalog) Locate(id string) (ItemLocation, error) {
	it, ok := c.ByID(id)
	if !ok {
		return ItemLocation{}, fmt.Errorf("locate %s: %w", id, ErrItemNotFound)
	}
	if it.Location == nil {
		return ItemLocation{}, fmt.Errorf("locate %s: no store location recorded", id)
	}
	loc := ItemLocation{
		ItemName:   it.Name,
		Location:   *it.Location,
		Directions: it.Location.Directions(),
	}
	if it.Stock != nil {
		loc.Stock = it.Stock.Quantity
	}
	return loc, nil
}
