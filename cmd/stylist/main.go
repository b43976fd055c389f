package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/liao/stylist/internal/app"
	"github.com/liao/stylist/internal/config"
)

// cli 子命令共享的状态，由 PersistentPreRunE 填充
type cli struct {
	cfgFile string
	app     *app.App
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:   "stylist",
		Short: "Outfit search, bundling and store lookups over a product catalog",
		Long: `stylist ranks catalog items by meaning, composes budget-aware outfit bundles,
and answers inventory and location questions.

Runs offline with deterministic fallback vectors unless embedding.mode is live.
All commands print JSON.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// intent 不需要目录
			if cmd.Name() == "intent" {
				return nil
			}
			cfg, err := config.Load(c.cfgFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			app.SetupLogging(cfg)
			c.app, err = app.Build(cmd.Context(), cfg)
			return err
		},
	}
	root.PersistentFlags().StringVarP(&c.cfgFile, "config", "c", "", "config file path (default: built-in defaults + env vars)")

	root.AddCommand(
		c.newSearchCmd(),
		c.newBundleCmd(),
		c.newRecommendCmd(),
		c.newMatchCmd(),
		newIntentCmd(),
		c.newEnrichCmd(),
		c.newLocateCmd(),
		c.newStockCmd(),
		c.newWarmCmd(),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
