package enrich

import (
	"crypto/md5"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/liao/stylist/internal/catalog"
)

// Band 价格区间（整数货币单位）
type Band struct {
	Min int `mapstructure:"min"`
	Max int `mapstructure:"max"`
}

var DefaultBand = Band{Min: 40, Max: 150}

// DefaultPriceBands 按 category 的演示价格区间
func DefaultPriceBands() map[string]Band {
	return map[string]Band{
		"shirts":      {45, 120},
		"tshirts":     {25, 65},
		"trousers":    {55, 150},
		"jeans":       {60, 180},
		"dresses":     {75, 250},
		"jackets":     {90, 350},
		"blazers":     {120, 400},
		"shoes":       {65, 220},
		"sandals":     {35, 95},
		"heels":       {70, 200},
		"watches":     {80, 500},
		"bags":        {45, 280},
		"kurtas":      {40, 120},
		"tops":        {30, 85},
		"shorts":      {35, 80},
		"skirts":      {40, 120},
		"sweaters":    {50, 150},
		"sweatshirts": {45, 120},
	}
}

// DefaultAisles gender -> master category -> aisle
func DefaultAisles() map[catalog.Gender]map[string]string {
	return map[catalog.Gender]map[string]string{
		"men":    {"apparel": "A", "footwear": "C", "accessories": "E"},
		"women":  {"apparel": "B", "footwear": "D", "accessories": "F"},
		"unisex": {"apparel": "G", "footwear": "H", "accessories": "J"},
		"boys":   {"apparel": "K", "footwear": "L", "accessories": "M"},
		"girls":  {"apparel": "N", "footwear": "P", "accessories": "Q"},
	}
}

var occasions = map[string][]string{
	"formal":       {"Business meetings", "Weddings", "Interviews", "Galas"},
	"casual":       {"Weekend outings", "Brunch", "Shopping trips", "Casual Fridays"},
	"sports":       {"Gym sessions", "Running", "Yoga", "Active weekends"},
	"ethnic":       {"Festivals", "Cultural events", "Family gatherings", "Ceremonies"},
	"smart-casual": {"Date nights", "Dinners", "Office parties", "Networking events"},
	"party":        {"Clubs", "Birthday parties", "New Year celebrations", "Concerts"},
}

var pairings = map[string][]string{
	"shirts":   {"Trousers", "Blazers", "Chinos", "Ties"},
	"tshirts":  {"Jeans", "Shorts", "Sneakers", "Caps"},
	"trousers": {"Shirts", "Belts", "Oxford shoes", "Blazers"},
	"jeans":    {"T-shirts", "Sneakers", "Casual shirts", "Jackets"},
	"dresses":  {"Heels", "Clutch bags", "Jewelry", "Cardigans"},
	"shoes":    {"Matching belt", "Socks", "Shoe care kit"},
	"blazers":  {"Dress shirts", "Ties", "Pocket squares", "Dress pants"},
}

type Enricher struct {
	bands  map[string]Band
	def    Band
	aisles map[catalog.Gender]map[string]string
}

// New bands / aisles 传 nil 时使用默认表
func New(bands map[string]Band, def *Band, aisles map[catalog.Gender]map[string]string) *Enricher {
	e := &Enricher{bands: DefaultPriceBands(), def: DefaultBand, aisles: DefaultAisles()}
	if bands != nil {
		e.bands = make(map[string]Band, len(bands))
		for k, v := range bands {
			e.bands[strings.ToLower(k)] = v
		}
	}
	if def != nil {
		e.def = *def
	}
	if aisles != nil {
		e.aisles = aisles
	}
	return e
}

// Seed 商品 ID 的 md5 前 32 位，所有合成字段都只由它决定
func Seed(id string) uint32 {
	sum := md5.Sum([]byte(id))
	return binary.BigEndian.Uint32(sum[:4])
}

// Enrich 只补齐缺失的价格、货位、库存，已有的真实数据保持不变；幂等
func (e *Enricher) Enrich(it catalog.Item) catalog.Item {
	h := Seed(it.ID)

	if it.Price == nil {
		p := e.price(it.Category, h)
		it.Price = &p
	}
	if it.Location == nil {
		loc := e.location(it.Gender, it.MasterCategory, it.Category, h)
		it.Location = &loc
	}
	if it.Stock == nil {
		s := stock(h)
		it.Stock = &s
	}
	it.Retail = &catalog.RetailContext{
		PerfectFor:    firstN(lookup(occasions, usageKey(it)), 2, "Everyday wear", "Various occasions"),
		PairsWellWith: firstN(lookup(pairings, it.Category), 3, "Accessories", "Matching items"),
	}
	return it
}

// EnrichAll 对整个目录做一次补齐
func (e *Enricher) EnrichAll(c *catalog.Catalog) *catalog.Catalog {
	return c.Map(e.Enrich)
}

func (e *Enricher) price(category string, h uint32) decimal.Decimal {
	b, ok := e.bands[strings.ToLower(category)]
	if !ok {
		b = e.def
	}
	if b.Max <= b.Min {
		return decimal.NewFromInt(int64(b.Min))
	}
	return decimal.NewFromInt(int64(b.Min) + int64(h%uint32(b.Max-b.Min)))
}

func (e *Enricher) location(g catalog.Gender, master, category string, h uint32) catalog.Location {
	if master == "" {
		master = catalog.MasterCategoryOf(category)
	}
	aisle, ok := e.aisles[g][master]
	if !ok {
		aisle = "A"
	}
	return catalog.Location{
		Aisle: aisle,
		Rack:  fmt.Sprint((h>>16)%12 + 1),
		Shelf: fmt.Sprint((h>>24)%4 + 1),
	}
}

// stock 约 70% 有货、20% 少量、10% 缺货
func stock(h uint32) catalog.Stock {
	seed := (h >> 8) % 100
	switch {
	case seed < 70:
		return catalog.StockFor(5 + int(h%20))
	case seed < 90:
		return catalog.StockFor(1 + int(h%4))
	}
	return catalog.StockFor(0)
}

func usageKey(it catalog.Item) string {
	u := it.Usage
	if u == "" {
		u = it.Style
	}
	return strings.Join(strings.Fields(strings.ToLower(u)), "-")
}

func lookup(m map[string][]string, key string) []string {
	return m[strings.ToLower(key)]
}

func firstN(vals []string, n int, def ...string) []string {
	if len(vals) == 0 {
		vals = def
	}
	if len(vals) > n {
		vals = vals[:n]
	}
	out := make([]string, len(vals))
	copy(out, vals)
	return out
}
