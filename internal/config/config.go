package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/liao/stylist/internal/bundle"
	"github.com/liao/stylist/internal/catalog"
	"github.com/liao/stylist/internal/embedding"
	"github.com/liao/stylist/internal/enrich"
)

type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Gemini    GeminiConfig    `mapstructure:"gemini"`
	Embedding EmbeddingConfig `mapstructure:"embedding"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Index     IndexConfig     `mapstructure:"index"`
	Search    SearchConfig    `mapstructure:"search"`
	Bundle    BundleConfig    `mapstructure:"bundle"`
	Enrich    EnrichConfig    `mapstructure:"enrich"`
	Bot       BotConfig       `mapstructure:"bot"`
	NapCat    NapCatConfig    `mapstructure:"napcat"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type GeminiConfig struct {
	APIKey          string   `mapstructure:"api_key"`
	ChatModels      []string `mapstructure:"chat_models"`
	EmbeddingModel  string   `mapstructure:"embedding_model"`
	VisionModel     string   `mapstructure:"vision_model"`
	Temperature     float32  `mapstructure:"temperature"`
	MaxOutputTokens int32    `mapstructure:"max_output_tokens"`
	RPMLimit        int      `mapstructure:"rpm_limit"`
}

type EmbeddingConfig struct {
	Mode      string `mapstructure:"mode"`
	Dimension int    `mapstructure:"dimension"`
	BatchSize int    `mapstructure:"batch_size"`
	Workers   int    `mapstructure:"workers"`
}

type CatalogConfig struct {
	Path   string `mapstructure:"path"`
	Format string `mapstructure:"format"`
}

type IndexConfig struct {
	VectorsDir string `mapstructure:"vectors_dir"`
}

type SearchConfig struct {
	Threshold        float64 `mapstructure:"threshold"`
	BroadenThreshold float64 `mapstructure:"broaden_threshold"`
	TopK             int     `mapstructure:"top_k"`
}

type BundleConfig struct {
	SlotGroups map[string][]bundle.SlotGroup `mapstructure:"slot_groups"`
	Formality  map[string][]string           `mapstructure:"formality"`
	Threshold  float64                       `mapstructure:"threshold"`
}

type EnrichConfig struct {
	PriceBands  map[string]enrich.Band       `mapstructure:"price_bands"`
	DefaultBand enrich.Band                  `mapstructure:"default_band"`
	Aisles      map[string]map[string]string `mapstructure:"aisles"`
}

type BotConfig struct {
	OwnerQQ         int64  `mapstructure:"owner_qq"`
	Nickname        string `mapstructure:"nickname"`
	ReplyDelayMinMs int    `mapstructure:"reply_delay_min_ms"`
	ReplyDelayMaxMs int    `mapstructure:"reply_delay_max_ms"`
	MaxContextTurns int    `mapstructure:"max_context_turns"`
	SessionTimeoutM int    `mapstructure:"session_timeout_min"`
	SessionsDir     string `mapstructure:"sessions_dir"`
	VoiceFile       string `mapstructure:"voice_file"`
}

type NapCatConfig struct {
	WSURL       string `mapstructure:"ws_url"`
	AccessToken string `mapstructure:"access_token"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("gemini.chat_models", []string{"gemini-2.5-flash", "gemini-2.0-flash"})
	v.SetDefault("gemini.embedding_model", "gemini-embedding-001")
	v.SetDefault("gemini.temperature", 0.7)
	v.SetDefault("gemini.max_output_tokens", 1024)
	v.SetDefault("gemini.rpm_limit", 15)
	v.SetDefault("embedding.mode", string(embedding.ModeOffline))
	v.SetDefault("embedding.dimension", embedding.DefaultDimension)
	v.SetDefault("embedding.batch_size", 64)
	v.SetDefault("embedding.workers", 4)
	v.SetDefault("catalog.format", "auto")
	v.SetDefault("search.threshold", 0.3)
	v.SetDefault("search.broaden_threshold", 0.25)
	v.SetDefault("search.top_k", 5)
	v.SetDefault("bundle.threshold", -1)
	v.SetDefault("enrich.default_band", map[string]int{"min": enrich.DefaultBand.Min, "max": enrich.DefaultBand.Max})
	v.SetDefault("bot.nickname", "stylist")
	v.SetDefault("bot.reply_delay_min_ms", 500)
	v.SetDefault("bot.reply_delay_max_ms", 1500)
	v.SetDefault("bot.max_context_turns", 10)
	v.SetDefault("bot.session_timeout_min", 30)
	v.SetDefault("bot.sessions_dir", "./data/sessions")
}

// Load path 为空时只使用默认值和环境变量
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	// 环境变量覆盖
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		v.Set("gemini.api_key", key)
	}
	if token := os.Getenv("NAPCAT_ACCESS_TOKEN"); token != "" {
		v.Set("napcat.access_token", token)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch embedding.Mode(c.Embedding.Mode) {
	case embedding.ModeLive:
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("gemini.api_key is required in live mode (set in config or GEMINI_API_KEY env)")
		}
	case embedding.ModeOffline:
	default:
		return fmt.Errorf("embedding.mode must be live or offline, got %q", c.Embedding.Mode)
	}
	if c.Embedding.Dimension <= 0 {
		return fmt.Errorf("embedding.dimension must be positive, got %d", c.Embedding.Dimension)
	}
	return nil
}

// Live 是否启用 Gemini
func (c *Config) Live() bool {
	return embedding.Mode(c.Embedding.Mode) == embedding.ModeLive
}

func (c *Config) EmbeddingOptions() embedding.Options {
	return embedding.Options{
		Dimension: c.Embedding.Dimension,
		BatchSize: c.Embedding.BatchSize,
		Workers:   c.Embedding.Workers,
	}
}

// BundleOptions 未配置的表使用内置默认值
func (c *Config) BundleOptions() bundle.Options {
	opts := bundle.Options{Formality: c.Bundle.Formality}
	if len(c.Bundle.SlotGroups) > 0 {
		opts.SlotGroups = make(map[catalog.Gender][]bundle.SlotGroup, len(c.Bundle.SlotGroups))
		for g, groups := range c.Bundle.SlotGroups {
			opts.SlotGroups[catalog.ParseGender(g)] = groups
		}
	}
	th := c.Bundle.Threshold
	opts.Threshold = &th
	return opts
}

func (c *Config) Enricher() *enrich.Enricher {
	var aisles map[catalog.Gender]map[string]string
	if len(c.Enrich.Aisles) > 0 {
		aisles = make(map[catalog.Gender]map[string]string, len(c.Enrich.Aisles))
		for g, m := range c.Enrich.Aisles {
			aisles[catalog.ParseGender(g)] = m
		}
	}
	def := c.Enrich.DefaultBand
	var bands map[string]enrich.Band
	if len(c.Enrich.PriceBands) > 0 {
		bands = c.Enrich.PriceBands
	}
	return enrich.New(bands, &def, aisles)
}

// SlogLevel 解析 log.level，无法识别时为 info
func (c *Config) SlogLevel() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo
	}
	return l
}
