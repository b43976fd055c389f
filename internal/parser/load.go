package parser

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/liao/stylist/internal/catalog"
)

// DetectFormat 按扩展名判断格式
func DetectFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl", ".ndjson":
		return "jsonl"
	case ".csv":
		return "csv"
	case ".html", ".htm":
		return "html"
	}
	return ""
}

// LoadCatalog 读取并校验商品目录；format 为空或 auto 时按扩展名判断
func LoadCatalog(path, format string) (*catalog.Catalog, error) {
	if format == "" || format == "auto" {
		format = DetectFormat(path)
	}

	var (
		items []catalog.Item
		err   error
	)
	switch format {
	case "jsonl":
		items, err = ParseJSONLFile(path)
	case "csv":
		items, err = ParseStylesCSVFile(path)
	case "html":
		items, err = ParseProductHTMLFile(path)
	default:
		return nil, fmt.Errorf("unknown catalog format %q for %s", format, path)
	}
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", path, err)
	}

	c, err := catalog.New(items)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", path, err)
	}
	slog.Info("catalog loaded", "path", path, "format", format, "items", c.Len())
	return c, nil
}
