package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/liao/stylist/internal/app"
	"github.com/liao/stylist/internal/config"
	"github.com/liao/stylist/internal/embedding"
)

func main() {
	configPath := flag.String("config", "", "config file path (defaults + env when empty)")
	inputFile := flag.String("input", "", "catalog file (.jsonl / .csv / .html); demo inventory when empty")
	format := flag.String("format", "auto", "input format: jsonl, csv, html, auto")
	outputDir := flag.String("output", "./data", "output directory")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	app.SetupLogging(cfg)

	if *inputFile != "" {
		cfg.Catalog.Path = *inputFile
		cfg.Catalog.Format = *format
	}
	vectorsDir := cfg.Index.VectorsDir
	if vectorsDir == "" {
		vectorsDir = filepath.Join(*outputDir, "vectors")
		cfg.Index.VectorsDir = vectorsDir
	}
	if !cfg.Live() {
		slog.Warn("embedding.mode is offline, fallback vectors are not persisted")
	}

	ctx := context.Background()

	// 1. 读取目录并初始化引擎
	a, err := app.Build(ctx, cfg)
	if err != nil {
		slog.Error("build stylist failed", "error", err)
		os.Exit(1)
	}
	if a.Store == nil {
		slog.Error("vector store unavailable", "dir", vectorsDir)
		os.Exit(1)
	}

	// 2. 批量向量化，内容未变的条目直接复用
	stats, err := a.Engine.Warm(ctx)
	if err != nil {
		slog.Error("vectorize failed", "error", err)
		os.Exit(1)
	}
	if stats.Space == embedding.FallbackSpace(a.Engine.Embedder().Dimension()) && cfg.Live() {
		slog.Warn("provider became unavailable during import, vectors were not persisted")
	}

	// 3. 生成导入报告
	c := a.Engine.Catalog()
	source := cfg.Catalog.Path
	if source == "" {
		source = "demo inventory"
	}
	report := fmt.Sprintf(`Import Report
=============
Source:      %s
Items:       %d
Categories:  %s
Space:       %s
Reused:      %d
Embedded:    %d
Persisted:   %d
Vectors dir: %s
`, source, c.Len(), strings.Join(c.Categories(), ", "), stats.Space,
		stats.Reused, stats.Embedded, a.Store.Count(stats.Space), vectorsDir)

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		slog.Error("create output dir failed", "error", err)
		os.Exit(1)
	}
	reportPath := filepath.Join(*outputDir, "import_report.txt")
	if err := os.WriteFile(reportPath, []byte(report), 0644); err != nil {
		slog.Warn("write report failed", "error", err)
	}
	fmt.Println(report)
	slog.Info("done!")
}
