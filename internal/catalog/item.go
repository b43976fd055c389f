package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrMalformedItem = errors.New("malformed catalog item")
	ErrItemNotFound  = errors.New("item not found")
)

type Gender string

const (
	Men    Gender = "men"
	Women  Gender = "women"
	Unisex Gender = "unisex"
)

// ParseGender 统一大小写，"Men" / " WOMEN " 都能识别
func ParseGender(s string) Gender {
	return Gender(strings.ToLower(strings.TrimSpace(s)))
}

const (
	MasterApparel     = "apparel"
	MasterFootwear    = "footwear"
	MasterAccessories = "accessories"
)

type StockStatus string

const (
	InStock    StockStatus = "in_stock"
	LowStock   StockStatus = "low_stock"
	OutOfStock StockStatus = "out_of_stock"
)

type Stock struct {
	Quantity int         `json:"quantity"`
	Status   StockStatus `json:"status"`
	Label    string      `json:"label"`
}

// StockFor 根据数量推导库存状态和展示文案
func StockFor(qty int) Stock {
	switch {
	case qty <= 0:
		return Stock{Quantity: 0, Status: OutOfStock, Label: "Out of Stock"}
	case qty < 5:
		return Stock{Quantity: qty, Status: LowStock, Label: fmt.Sprintf("Only %d left", qty)}
	default:
		return Stock{Quantity: qty, Status: InStock, Label: "In Stock"}
	}
}

type Location struct {
	Aisle string `json:"aisle"`
	Bin   string `json:"bin,omitempty"`
	Rack  string `json:"rack,omitempty"`
	Shelf string `json:"shelf,omitempty"`
}

func (l Location) Display() string {
	switch {
	case l.Bin != "":
		return fmt.Sprintf("Aisle %s, Bin %s", l.Aisle, l.Bin)
	case l.Rack != "":
		return fmt.Sprintf("Aisle %s, Rack %s", l.Aisle, l.Rack)
	}
	return "Aisle " + l.Aisle
}

func (l Location) Directions() string {
	switch {
	case l.Bin != "":
		return fmt.Sprintf("Head to Aisle %s, look for Bin %s. The item should be clearly labeled.", l.Aisle, l.Bin)
	case l.Rack != "" && l.Shelf != "":
		return fmt.Sprintf("Head to Aisle %s, Rack %s, Shelf %s.", l.Aisle, l.Rack, l.Shelf)
	}
	return fmt.Sprintf("Head to %s.", l.Display())
}

type RetailContext struct {
	PerfectFor    []string `json:"perfect_for"`
	PairsWellWith []string `json:"pairs_well_with"`
}

type Item struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	Category       string           `json:"category"`
	MasterCategory string           `json:"master_category,omitempty"`
	Gender         Gender           `json:"gender"`
	Colors         []string         `json:"colors,omitempty"`
	Sizes          []string         `json:"sizes,omitempty"`
	Description    string           `json:"description,omitempty"`
	Style          string           `json:"style,omitempty"`
	Material       string           `json:"material,omitempty"`
	Usage          string           `json:"usage,omitempty"`
	Season         string           `json:"season,omitempty"`
	Price          *decimal.Decimal `json:"price,omitempty"`
	Stock          *Stock           `json:"stock,omitempty"`
	Location       *Location        `json:"location,omitempty"`
	Retail         *RetailContext   `json:"retail,omitempty"`
}

func (it Item) InStock() bool {
	return it.Stock != nil && it.Stock.Quantity > 0
}

// PriceOrZero 无价格时按 0 计
func (it Item) PriceOrZero() decimal.Decimal {
	if it.Price == nil {
		return decimal.Zero
	}
	return *it.Price
}

// SearchText 参与 embedding 的文本
func (it Item) SearchText() string {
	parts := []string{it.Name, it.Description, it.Category, strings.Join(it.Colors, " "), it.Style, it.Usage, it.Season, string(it.Gender)}
	nonEmpty := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, " ")
}

func (it Item) Validate() error {
	switch {
	case strings.TrimSpace(it.ID) == "":
		return fmt.Errorf("%w: missing id (name %q)", ErrMalformedItem, it.Name)
	case strings.TrimSpace(it.Name) == "":
		return fmt.Errorf("%w: item %s missing name", ErrMalformedItem, it.ID)
	case strings.TrimSpace(it.Category) == "":
		return fmt.Errorf("%w: item %s missing category", ErrMalformedItem, it.ID)
	case it.Gender == "":
		return fmt.Errorf("%w: item %s missing gender", ErrMalformedItem, it.ID)
	case it.Price != nil && it.Price.IsNegative():
		return fmt.Errorf("%w: item %s has negative price", ErrMalformedItem, it.ID)
	}
	return nil
}

func (it Item) normalize() Item {
	it.ID = strings.TrimSpace(it.ID)
	it.Category = strings.ToLower(strings.TrimSpace(it.Category))
	it.Gender = ParseGender(string(it.Gender))
	it.Style = normalizeStyle(it.Style)
	if it.MasterCategory == "" {
		it.MasterCategory = MasterCategoryOf(it.Category)
	} else {
		it.MasterCategory = strings.ToLower(strings.TrimSpace(it.MasterCategory))
	}
	return it
}

// normalizeStyle "Smart Casual" -> "smart-casual"
func normalizeStyle(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "-")
}

var footwear = map[string]bool{
	"shoes": true, "sandals": true, "heels": true, "flats": true, "sneakers": true, "boots": true,
	"casual shoes": true, "formal shoes": true, "sports shoes": true, "flip flops": true,
}

var accessories = map[string]bool{
	"accessories": true, "bags": true, "handbags": true, "watches": true, "belts": true,
	"jewellery": true, "earrings": true, "ties": true, "wallets": true, "sunglasses": true,
	"caps": true, "scarves": true,
}

// MasterCategoryOf 按 category 推导大类，未知的归为 apparel
func MasterCategoryOf(category string) string {
	c := strings.ToLower(strings.TrimSpace(category))
	switch {
	case footwear[c]:
		return MasterFootwear
	case accessories[c]:
		return MasterAccessories
	}
	return MasterApparel
}
