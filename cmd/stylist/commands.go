package main

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/liao/stylist/internal/bundle"
	"github.com/liao/stylist/internal/catalog"
	"github.com/liao/stylist/internal/intent"
	"github.com/liao/stylist/internal/rank"
)

type resultView struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Category string           `json:"category"`
	Gender   catalog.Gender   `json:"gender"`
	Score    float64          `json:"score"`
	Price    *decimal.Decimal `json:"price,omitempty"`
	Location string           `json:"location,omitempty"`
	Stock    string           `json:"stock,omitempty"`
}

func viewResults(ranked []rank.Ranked) []resultView {
	out := make([]resultView, len(ranked))
	for i, r := range ranked {
		v := resultView{
			ID:       r.Item.ID,
			Name:     r.Item.Name,
			Category: r.Item.Category,
			Gender:   r.Item.Gender,
			Score:    r.Score,
			Price:    r.Item.Price,
		}
		if r.Item.Location != nil {
			v.Location = r.Item.Location.Display()
		}
		if r.Item.Stock != nil {
			v.Stock = r.Item.Stock.Label
		}
		out[i] = v
	}
	return out
}

// parseMoney 空字符串表示未设置
func parseMoney(s string) (*decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("invalid amount %q: must not be negative", s)
	}
	return &d, nil
}

func (c *cli) newSearchCmd() *cobra.Command {
	var (
		gender     string
		categories []string
		exclude    []string
		maxPrice   string
		topK       int
		threshold  float64
	)
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Rank catalog items by similarity to a free-text query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mp, err := parseMoney(maxPrice)
			if err != nil {
				return err
			}
			f := catalog.Filter{
				Gender:            catalog.ParseGender(gender),
				MaxPrice:          mp,
				Categories:        categories,
				ExcludeCategories: exclude,
			}
			if !cmd.Flags().Changed("threshold") {
				threshold = c.app.Config.Search.Threshold
			}
			if topK <= 0 {
				topK = c.app.Config.Search.TopK
			}
			ranked, err := c.app.Engine.Rank(cmd.Context(), strings.Join(args, " "), f, threshold, topK)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), viewResults(ranked))
		},
	}
	cmd.Flags().StringVarP(&gender, "gender", "g", "", "men, women or unisex (empty: any)")
	cmd.Flags().StringSliceVar(&categories, "category", nil, "only these categories")
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "skip these categories")
	cmd.Flags().StringVar(&maxPrice, "max-price", "", "price ceiling")
	cmd.Flags().IntVarP(&topK, "top-k", "k", 0, "maximum results (default from config)")
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "minimum similarity (default from config)")
	return cmd
}

func (c *cli) newBundleCmd() *cobra.Command {
	var req bundle.Request
	var gender, budget string
	cmd := &cobra.Command{
		Use:   "bundle",
		Short: "Compose an outfit bundle for an occasion",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := parseMoney(budget)
			if err != nil {
				return err
			}
			req.Budget = b
			req.Gender = catalog.ParseGender(gender)
			out, err := c.app.Engine.ComposeBundle(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().StringVar(&req.Occasion, "occasion", "general occasion", "event description")
	cmd.Flags().StringVarP(&gender, "gender", "g", "", "men, women or unisex")
	cmd.Flags().StringVar(&req.Formality, "formality", "smart-casual", "casual, smart-casual, business-casual, semi-formal or formal")
	cmd.Flags().StringVar(&budget, "budget", "", "total budget")
	cmd.Flags().StringVar(&req.Color, "color", "", "preferred colour")
	return cmd
}

func (c *cli) newRecommendCmd() *cobra.Command {
	var budget string
	cmd := &cobra.Command{
		Use:   "recommend <event description>",
		Short: "Parse an event description and compose a bundle for it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := parseMoney(budget)
			if err != nil {
				return err
			}
			ev := c.app.Engine.ParseEvent(cmd.Context(), strings.Join(args, " "))
			out, err := c.app.Engine.Recommend(cmd.Context(), ev, b)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{"event": ev, "bundle": out})
		},
	}
	cmd.Flags().StringVar(&budget, "budget", "", "total budget")
	return cmd
}

func (c *cli) newMatchCmd() *cobra.Command {
	var image, gender, message string
	var topK int
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Find similar or complementary items for a photo",
		RunE: func(cmd *cobra.Command, args []string) error {
			var data []byte
			var mimeType string
			if image != "" {
				var err error
				data, err = os.ReadFile(image)
				if err != nil {
					return fmt.Errorf("read image: %w", err)
				}
				mimeType = mime.TypeByExtension(filepath.Ext(image))
			}
			attrs := c.app.Engine.AnalyzeImage(cmd.Context(), data, mimeType)
			m, err := c.app.Engine.MatchImage(cmd.Context(), attrs, catalog.ParseGender(gender), message, topK)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{
				"attributes": attrs,
				"mode":       m.Mode,
				"gender":     m.Gender,
				"query":      m.Query,
				"broadened":  m.Broadened,
				"items":      viewResults(m.Items),
			})
		},
	}
	cmd.Flags().StringVar(&image, "image", "", "photo file")
	cmd.Flags().StringVarP(&gender, "gender", "g", "", "override detected gender")
	cmd.Flags().StringVarP(&message, "message", "m", "", "what the customer asked, e.g. \"what goes with this\"")
	cmd.Flags().IntVarP(&topK, "top-k", "k", 0, "maximum results (default from config)")
	return cmd
}

func newIntentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "intent <message>",
		Short: "Classify a message as a similar or complementary search",
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, kw := intent.Match(strings.Join(args, " "))
			return printJSON(cmd.OutOrStdout(), map[string]string{"mode": string(mode), "keyword": kw})
		},
	}
}

func (c *cli) newEnrichCmd() *cobra.Command {
	var ids []string
	cmd := &cobra.Command{
		Use:   "enrich",
		Short: "Print catalog items with synthesized price, location and stock",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat := c.app.Engine.Catalog()
			if len(ids) == 0 {
				return printJSON(cmd.OutOrStdout(), cat.Items())
			}
			items := make([]catalog.Item, 0, len(ids))
			for _, id := range ids {
				it, ok := cat.ByID(id)
				if !ok {
					return fmt.Errorf("enrich %s: %w", id, catalog.ErrItemNotFound)
				}
				items = append(items, it)
			}
			return printJSON(cmd.OutOrStdout(), items)
		},
	}
	cmd.Flags().StringSliceVar(&ids, "id", nil, "only these item IDs")
	return cmd
}

func (c *cli) newLocateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "locate <item-id>",
		Short: "Show where an item sits in the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := c.app.Engine.Locate(args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{
				"item_name":  loc.ItemName,
				"location":   loc.Location,
				"directions": loc.Directions,
				"stock":      loc.Stock,
			})
		},
	}
}

func (c *cli) newStockCmd() *cobra.Command {
	var q catalog.InventoryQuery
	var gender string
	cmd := &cobra.Command{
		Use:   "stock",
		Short: "Check inventory by name, category, colour or size",
		RunE: func(cmd *cobra.Command, args []string) error {
			q.Gender = catalog.ParseGender(gender)
			res := c.app.Engine.CheckInventory(q)
			type row struct {
				ID        string `json:"id"`
				Name      string `json:"name"`
				Available bool   `json:"available"`
				Location  string `json:"location,omitempty"`
			}
			rows := make([]row, len(res.Items))
			for i, m := range res.Items {
				rows[i] = row{ID: m.Item.ID, Name: m.Item.Name, Available: m.Available, Location: m.Location}
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{"found": res.Found, "items": rows})
		},
	}
	cmd.Flags().StringVar(&q.Name, "name", "", "substring of name or description")
	cmd.Flags().StringVar(&q.Category, "category", "", "exact category")
	cmd.Flags().StringVar(&q.Color, "color", "", "colour substring")
	cmd.Flags().StringVar(&q.Size, "size", "", "exact size")
	cmd.Flags().StringVarP(&gender, "gender", "g", "", "men, women or unisex")
	return cmd
}

func (c *cli) newWarmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "warm",
		Short: "Embed the whole catalog and persist live vectors",
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := c.app.Engine.Warm(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), stats)
		},
	}
}
