package catalog

import "github.com/shopspring/decimal"

type demoRow struct {
	id, name, category string
	gender             Gender
	price              string
	colors, sizes      []string
	description        string
	stock              int
	aisle, bin         string
	material, style    string
}

var demoRows = []demoRow{
	{"W001", "Emerald Green Silk Blouse", "tops", Women, "119.99", []string{"emerald green"}, []string{"XS", "S", "M", "L", "XL"},
		"Luxurious silk blouse with elegant draping, perfect for formal occasions", 12, "B1", "C2", "100% silk", "formal"},
	{"W002", "Classic White Cotton Shirt", "tops", Women, "69.99", []string{"white", "ivory"}, []string{"XS", "S", "M", "L", "XL"},
		"Crisp cotton shirt with tailored fit, versatile for work or casual", 25, "B1", "C3", "100% cotton", "business-casual"},
	{"W003", "Floral Print Summer Top", "tops", Women, "49.99", []string{"multi", "blue floral", "pink floral"}, []string{"XS", "S", "M", "L"},
		"Light and breezy summer top with beautiful floral pattern", 18, "B1", "C4", "rayon blend", "casual"},
	{"W004", "High-Waisted Black Trousers", "pants", Women, "99.99", []string{"black", "navy"}, []string{"0", "2", "4", "6", "8", "10", "12"},
		"Sophisticated high-waisted trousers with clean lines", 20, "B3", "C6", "wool blend", "formal"},
	{"W005", "A-Line Midi Skirt", "skirts", Women, "79.99", []string{"burgundy", "forest green", "black"}, []string{"XS", "S", "M", "L"},
		"Elegant A-line skirt with flattering silhouette", 15, "B3", "C7", "polyester blend", "smart-casual"},
	{"W006", "Navy Blue Cocktail Dress", "dresses", Women, "189.99", []string{"navy blue", "black"}, []string{"0", "2", "4", "6", "8", "10"},
		"Stunning cocktail dress with lace detailing, perfect for evening events", 8, "B2", "C1", "polyester with lace overlay", "formal"},
	{"W007", "Casual Maxi Sundress", "dresses", Women, "89.99", []string{"coral", "sky blue", "white"}, []string{"XS", "S", "M", "L", "XL"},
		"Flowy maxi dress perfect for summer outings and beach days", 22, "B2", "C2", "cotton blend", "casual"},
	{"M001", "Navy Blue Blazer", "blazers", Men, "249.99", []string{"navy blue", "charcoal"}, []string{"38R", "40R", "42R", "44R", "46R"},
		"Classic tailored blazer with modern slim fit, Italian wool", 10, "A1", "D1", "Italian wool", "formal"},
	{"M002", "Light Blue Oxford Shirt", "shirts", Men, "79.99", []string{"light blue", "white", "pink"}, []string{"S", "M", "L", "XL", "XXL"},
		"Premium cotton Oxford shirt with button-down collar", 30, "A2", "D2", "100% cotton", "business-casual"},
	{"M003", "Grey Cashmere Sweater", "sweaters", Men, "179.99", []string{"heather grey", "navy", "burgundy"}, []string{"S", "M", "L", "XL"},
		"Luxuriously soft cashmere V-neck sweater", 12, "A2", "D3", "100% cashmere", "smart-casual"},
	{"M004", "Charcoal Dress Pants", "pants", Men, "129.99", []string{"charcoal", "black", "navy"}, []string{"30x30", "32x30", "32x32", "34x32", "36x32"},
		"Tailored wool dress pants with flat front", 18, "A3", "D5", "wool blend", "formal"},
	{"M005", "Khaki Chinos", "pants", Men, "69.99", []string{"khaki", "olive", "navy"}, []string{"30x30", "32x30", "32x32", "34x32", "36x32"},
		"Classic chino pants perfect for smart-casual occasions", 25, "A3", "D6", "cotton twill", "smart-casual"},
	{"S001", "Black Leather Oxford Shoes", "shoes", Men, "199.99", []string{"black", "brown"}, []string{"8", "9", "10", "11", "12"},
		"Classic leather Oxford shoes with Goodyear welt construction", 14, "C1", "E1", "genuine leather", "formal"},
	{"S002", "Nude Patent Leather Heels", "shoes", Women, "159.99", []string{"nude", "black", "red"}, []string{"6", "7", "8", "9", "10"},
		"Elegant pointed-toe heels, 3-inch heel height", 16, "C2", "E2", "patent leather", "formal"},
	{"S003", "White Leather Sneakers", "shoes", Unisex, "119.99", []string{"white", "white/navy"}, []string{"6", "7", "8", "9", "10", "11", "12"},
		"Premium leather sneakers with minimalist design", 28, "C3", "E3", "genuine leather", "casual"},
	{"A001", "Gold Statement Earrings", "accessories", Women, "49.99", []string{"gold", "silver"}, []string{"one-size"},
		"Elegant drop earrings perfect for special occasions", 20, "D1", "F1", "gold-plated brass", "formal"},
	{"A002", "Silk Pocket Square Set", "accessories", Men, "39.99", []string{"assorted"}, []string{"one-size"},
		"Set of 3 silk pocket squares in complementary colors", 15, "D1", "F2", "100% silk", "formal"},
	{"A003", "Leather Belt", "accessories", Unisex, "59.99", []string{"black", "brown", "tan"}, []string{"S", "M", "L", "XL"},
		"Classic leather belt with brushed silver buckle", 30, "D2", "F3", "genuine leather", "versatile"},
	{"A004", "Structured Leather Handbag", "bags", Women, "229.99", []string{"black", "camel", "burgundy"}, []string{"one-size"},
		"Sophisticated structured handbag with gold hardware", 10, "D3", "F4", "genuine leather", "formal"},
}

// DemoInventory 演示门店库存，价格、库存、货位都是真实值
func DemoInventory() *Catalog {
	items := make([]Item, len(demoRows))
	for i, r := range demoRows {
		price := decimal.RequireFromString(r.price)
		stock := StockFor(r.stock)
		items[i] = Item{
			ID:          r.id,
			Name:        r.name,
			Category:    r.category,
			Gender:      r.gender,
			Colors:      r.colors,
			Sizes:       r.sizes,
			Description: r.description,
			Material:    r.material,
			Style:       r.style,
			Price:       &price,
			Stock:       &stock,
			Location:    &Location{Aisle: r.aisle, Bin: r.bin},
		}
	}
	c, err := New(items)
	if err != nil {
		panic(err)
	}
	return c
}
