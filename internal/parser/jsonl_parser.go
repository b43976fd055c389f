package parser

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/liao/stylist/internal/catalog"
)

// jsonlRecord JSONL 中的一行，字段与门店库存导出一致
type jsonlRecord struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	Category       string           `json:"category"`
	MasterCategory string           `json:"master_category"`
	Gender         string           `json:"gender"`
	Price          *decimal.Decimal `json:"price"`
	Colors         []string         `json:"colors"`
	Sizes          []string         `json:"sizes"`
	Description    string           `json:"description"`
	Stock          *int             `json:"stock"`
	Aisle          string           `json:"aisle"`
	Bin            string           `json:"bin"`
	Material       string           `json:"material"`
	Style          string           `json:"style"`
	Usage          string           `json:"usage"`
	Season         string           `json:"season"`
}

func (r jsonlRecord) item() catalog.Item {
	it := catalog.Item{
		ID:             r.ID,
		Name:           r.Name,
		Category:       r.Category,
		MasterCategory: r.MasterCategory,
		Gender:         catalog.ParseGender(r.Gender),
		Colors:         r.Colors,
		Sizes:          r.Sizes,
		Description:    r.Description,
		Material:       r.Material,
		Style:          r.Style,
		Usage:          r.Usage,
		Season:         r.Season,
		Price:          r.Price,
	}
	if r.Stock != nil {
		s := catalog.StockFor(*r.Stock)
		it.Stock = &s
	}
	if r.Aisle != "" {
		it.Location = &catalog.Location{Aisle: r.Aisle, Bin: r.Bin}
	}
	return it
}

// ParseJSONLBytes 每行一个条目；坏行直接报错并带行号
func ParseJSONLBytes(data []byte) ([]catalog.Item, error) {
	var items []catalog.Item

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var rec jsonlRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return nil, fmt.Errorf("line %d: %w: %v", lineNum, catalog.ErrMalformedItem, err)
		}
		it := rec.item()
		if err := it.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		items = append(items, it)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan jsonl: %w", err)
	}
	return items, nil
}

func ParseJSONLFile(path string) ([]catalog.Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return ParseJSONLBytes(data)
}
