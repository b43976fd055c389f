package catalog

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// Filter 所有条件可选，逻辑与；未知取值只会匹配不到任何条目
type Filter struct {
	Gender            Gender
	MaxPrice          *decimal.Decimal
	Categories        []string
	ExcludeCategories []string
}

// genderDisabled 这些取值表示不按性别过滤
func genderDisabled(g Gender) bool {
	return g == "" || g == "any" || g == "unknown"
}

func (f Filter) Match(it Item) bool {
	if g := ParseGender(string(f.Gender)); !genderDisabled(g) {
		if it.Gender != g && it.Gender != Unisex {
			return false
		}
	}
	if f.MaxPrice != nil {
		if it.Price == nil || it.Price.GreaterThan(*f.MaxPrice) {
			return false
		}
	}
	if len(f.Categories) > 0 && !containsFold(f.Categories, it.Category) {
		return false
	}
	if len(f.ExcludeCategories) > 0 && containsFold(f.ExcludeCategories, it.Category) {
		return false
	}
	return true
}

func (f Filter) Apply(items []Item) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if f.Match(it) {
			out = append(out, it)
		}
	}
	return out
}

func containsFold(set []string, v string) bool {
	return slices.ContainsFunc(set, func(s string) bool {
		return strings.EqualFold(strings.TrimSpace(s), v)
	})
}
