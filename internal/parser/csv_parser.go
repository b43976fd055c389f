package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/liao/stylist/internal/catalog"
)

// styles.csv 的列（fashion product 数据集）
var requiredColumns = []string{"id", "gender", "articleType", "productDisplayName"}

// ParseStylesCSV 解析 styles.csv；按表头取列，列顺序无关
func ParseStylesCSV(r io.Reader) ([]catalog.Item, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.TrimSpace(h)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", catalog.ErrMalformedItem, name)
		}
	}

	get := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var items []catalog.Item
	for rowNum := 2; ; rowNum++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}

		it := catalog.Item{
			ID:             get(row, "id"),
			Name:           get(row, "productDisplayName"),
			Category:       get(row, "articleType"),
			MasterCategory: get(row, "masterCategory"),
			Gender:         catalog.ParseGender(get(row, "gender")),
			Usage:          get(row, "usage"),
			Season:         get(row, "season"),
			Style:          get(row, "usage"),
			Description:    strings.TrimSpace(get(row, "subCategory") + " " + get(row, "masterCategory")),
		}
		if c := get(row, "baseColour"); c != "" {
			it.Colors = []string{strings.ToLower(c)}
		}
		if err := it.Validate(); err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}
		items = append(items, it)
	}
	return items, nil
}

func ParseStylesCSVFile(path string) ([]catalog.Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()
	return ParseStylesCSV(f)
}
