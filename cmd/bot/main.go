package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/liao/stylist/internal/app"
	"github.com/liao/stylist/internal/bot"
	"github.com/liao/stylist/internal/chat"
	"github.com/liao/stylist/internal/config"
	"github.com/liao/stylist/internal/persona"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "config file path")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("load config failed", "error", err)
		os.Exit(1)
	}
	app.SetupLogging(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := app.Build(ctx, cfg)
	if err != nil {
		slog.Error("build stylist failed", "error", err)
		os.Exit(1)
	}

	// 预热目录向量，失败时查询阶段会按需补齐
	if _, err := a.Engine.Warm(ctx); err != nil {
		slog.Warn("warm catalog index failed", "error", err)
	}

	// 会话管理
	chatMgr, err := chat.NewManager(cfg.Bot.MaxContextTurns, time.Duration(cfg.Bot.SessionTimeoutM)*time.Minute, cfg.Bot.SessionsDir)
	if err != nil {
		slog.Error("create chat manager failed", "error", err)
		os.Exit(1)
	}

	voice := persona.Default()
	if cfg.Bot.VoiceFile != "" {
		v, err := persona.LoadFromFile(cfg.Bot.VoiceFile)
		if err != nil {
			slog.Warn("load voice failed, using default", "error", err)
		} else {
			voice = *v
		}
	}

	var chatter bot.Chatter
	if a.AI != nil {
		chatter = a.AI
	}
	b := bot.New(cfg, a.Engine, chatter, chatMgr, voice)

	// 优雅关闭
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		slog.Info("shutting down...")
		b.Stop()
		cancel()
		os.Exit(0)
	}()

	b.Run(ctx)
}
