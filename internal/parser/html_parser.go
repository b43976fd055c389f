package parser

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"

	"github.com/liao/stylist/internal/catalog"
)

// ParseProductHTML 解析门店商品列表页导出的 HTML
// 每个 .product / .product-card 节点是一个商品，结构化字段放在 data-* 属性上
func ParseProductHTML(r io.Reader) ([]catalog.Item, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	var items []catalog.Item
	var parseErr error

	doc.Find(".product, .product-card").EachWithBreak(func(i int, s *goquery.Selection) bool {
		it, err := productFromSelection(s)
		if err == nil {
			err = it.Validate()
		}
		if err != nil {
			parseErr = fmt.Errorf("product %d: %w", i+1, err)
			return false
		}
		items = append(items, it)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return items, nil
}

func productFromSelection(s *goquery.Selection) (catalog.Item, error) {
	attr := func(name string) string {
		v, _ := s.Attr("data-" + name)
		return strings.TrimSpace(v)
	}
	text := func(sel string) string {
		return strings.TrimSpace(s.Find(sel).First().Text())
	}
	list := func(sel string) []string {
		var out []string
		s.Find(sel).Each(func(_ int, li *goquery.Selection) {
			if v := strings.TrimSpace(li.Text()); v != "" {
				out = append(out, v)
			}
		})
		return out
	}

	name := text(".name")
	if name == "" {
		name = text(".title")
	}

	it := catalog.Item{
		ID:          attr("id"),
		Name:        name,
		Category:    attr("category"),
		Gender:      catalog.ParseGender(attr("gender")),
		Style:       attr("style"),
		Usage:       attr("usage"),
		Season:      attr("season"),
		Description: text(".description"),
		Material:    text(".material"),
		Colors:      list(".colors li, .color"),
		Sizes:       list(".sizes li, .size"),
	}

	if p := attr("price"); p != "" {
		d, err := decimal.NewFromString(strings.TrimPrefix(p, "$"))
		if err != nil {
			return it, fmt.Errorf("%w: item %s has invalid price %q", catalog.ErrMalformedItem, it.ID, p)
		}
		it.Price = &d
	}
	if q := attr("stock"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil {
			return it, fmt.Errorf("%w: item %s has invalid stock %q", catalog.ErrMalformedItem, it.ID, q)
		}
		st := catalog.StockFor(n)
		it.Stock = &st
	}
	if a := attr("aisle"); a != "" {
		it.Location = &catalog.Location{Aisle: a, Bin: attr("bin")}
	}
	return it, nil
}

func ParseProductHTMLFile(path string) ([]catalog.Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()
	return ParseProductHTML(f)
}
