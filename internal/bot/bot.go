package bot

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	zero "github.com/wdvxdr1123/ZeroBot"
	"github.com/wdvxdr1123/ZeroBot/driver"
	"github.com/wdvxdr1123/ZeroBot/message"
	"google.golang.org/genai"

	"github.com/liao/stylist/internal/ai"
	"github.com/liao/stylist/internal/catalog"
	"github.com/liao/stylist/internal/chat"
	"github.com/liao/stylist/internal/config"
	"github.com/liao/stylist/internal/persona"
	"github.com/liao/stylist/internal/stylist"
)

const maxImageBytes = 10 << 20

// Chatter 用模型润色模板回复；离线模式下为 nil
type Chatter interface {
	GenerateChat(ctx context.Context, systemPrompt string, history []*genai.Content, userMsg string) (string, error)
}

type Bot struct {
	cfg    *config.Config
	engine *stylist.Engine
	ai     Chatter
	chat   *chat.Manager
	voice  persona.Voice
	fetch  func(ctx context.Context, url string) ([]byte, string, error)
	cancel context.CancelFunc
}

func New(cfg *config.Config, engine *stylist.Engine, chatter Chatter, chatMgr *chat.Manager, voice persona.Voice) *Bot {
	return &Bot{
		cfg:    cfg,
		engine: engine,
		ai:     chatter,
		chat:   chatMgr,
		voice:  voice,
		fetch:  fetchImage,
	}
}

func (b *Bot) Run(ctx context.Context) {
	ctx, b.cancel = context.WithCancel(ctx)

	ws := driver.NewWebSocketClient(
		b.cfg.NapCat.WSURL,
		b.cfg.NapCat.AccessToken,
	)

	// 命令先注册，普通私聊消息兜底
	zero.OnCommand("reset", zero.OnlyPrivate).SetBlock(true).Handle(func(zctx *zero.Ctx) {
		b.chat.Reset(zctx.Event.UserID)
		zctx.Send(message.Text("Fresh start! What are we shopping for?"))
	})

	zero.OnCommand("stock", zero.OnlyPrivate).SetBlock(true).Handle(func(zctx *zero.Ctx) {
		zctx.Send(message.Text(b.Stock(commandArg(zctx))))
	})

	zero.OnCommand("where", zero.OnlyPrivate).SetBlock(true).Handle(func(zctx *zero.Ctx) {
		zctx.Send(message.Text(b.Where(commandArg(zctx))))
	})

	// 管理命令：owner 发 /status 查看状态
	zero.OnCommand("status", zero.OnlyPrivate, b.ownerFilter()).SetBlock(true).Handle(func(zctx *zero.Ctx) {
		zctx.Send(message.Text(b.Status()))
	})

	zero.OnMessage(zero.OnlyPrivate).Handle(func(zctx *zero.Ctx) {
		b.handleMessage(ctx, zctx)
	})

	slog.Info("bot starting",
		"ws_url", b.cfg.NapCat.WSURL,
		"catalog", b.engine.Catalog().Len(),
		"space", b.engine.Embedder().Space(),
	)

	zero.RunAndBlock(&zero.Config{
		NickName:   []string{b.cfg.Bot.Nickname},
		SuperUsers: []int64{b.cfg.Bot.OwnerQQ},
		Driver:     []zero.Driver{ws},
	}, nil)
}

func (b *Bot) Stop() {
	if b.cancel != nil {
		b.cancel()
	}
	if err := b.chat.Save(); err != nil {
		slog.Error("save session failed", "error", err)
	}
}

func (b *Bot) handleMessage(ctx context.Context, zctx *zero.Ctx) {
	userID := zctx.Event.UserID
	text := strings.TrimSpace(zctx.ExtractPlainText())

	var image []byte
	var mimeType string
	if url := imageURL(zctx.Event.Message); url != "" {
		var err error
		image, mimeType, err = b.fetch(ctx, url)
		if err != nil {
			slog.Warn("download image failed, answering from text", "user", userID, "error", err)
		}
	}
	if text == "" && len(image) == 0 {
		return // 跳过纯表情等消息
	}

	slog.Info("received message", "from", userID, "text", text, "image", len(image) > 0)

	reply := b.Respond(ctx, userID, text, image, mimeType)

	// 分割多条消息并发送
	parts := ai.SplitMultiMessage(reply)
	for i, part := range parts {
		if i > 0 {
			time.Sleep(b.randomDelay())
		}
		zctx.Send(message.Text(part))
	}

	// 异步保存会话
	go func() {
		if err := b.chat.Save(); err != nil {
			slog.Error("save session failed", "error", err)
		}
	}()
}

// Respond 生成一条完整回复：有图片走图片匹配，否则按场合搭配
func (b *Bot) Respond(ctx context.Context, userID int64, text string, image []byte, mimeType string) string {
	if text == "" {
		text = "What goes with the piece in my photo?"
	}
	b.chat.AddUserMessage(userID, text)

	var template string
	var picks []catalog.Item
	if len(image) > 0 {
		attrs := b.engine.AnalyzeImage(ctx, image, mimeType)
		m, err := b.engine.MatchImage(ctx, attrs, "", text, 0)
		if err != nil {
			slog.Error("image match failed", "user", userID, "error", err)
			return b.apology(userID)
		}
		template = FormatMatches(b.voice, attrs, m)
		picks = matchItems(m)
	} else {
		ev := b.engine.ParseEvent(ctx, text)
		bd, err := b.engine.Recommend(ctx, ev, ParseBudget(text))
		if err != nil {
			slog.Error("compose bundle failed", "user", userID, "error", err)
			return b.apology(userID)
		}
		template = FormatBundle(b.voice, bd)
		picks = bundleItems(bd)
	}

	reply := b.rephrase(ctx, userID, text, template, picks)
	reply = ai.FilterAIPatterns(reply)
	b.chat.AddBotReply(userID, reply)
	return reply
}

// rephrase 让模型用导购口吻改写；任何失败都退回模板
func (b *Bot) rephrase(ctx context.Context, userID int64, text, template string, picks []catalog.Item) string {
	if b.ai == nil || len(picks) == 0 {
		return template
	}
	systemPrompt := ai.BuildSystemPrompt(b.voice, Recommendations(picks))

	history := b.chat.GetHistory(userID)
	// 最后一条是刚添加的 user message，会作为 userMsg 传入
	if len(history) > 0 {
		history = history[:len(history)-1]
	}
	reply, err := b.ai.GenerateChat(ctx, systemPrompt, history, text)
	if err != nil {
		slog.Error("generate reply failed, retrying without history", "error", err)
		// 兜底：清掉历史重试一次
		reply, err = b.ai.GenerateChat(ctx, systemPrompt, nil, text)
		if err != nil {
			slog.Error("fallback also failed, sending template reply", "error", err)
			return template
		}
	}
	return reply
}

func (b *Bot) apology(userID int64) string {
	reply := "Sorry, I couldn't get to the racks just now. Mind asking again in a moment?"
	b.chat.AddBotReply(userID, reply)
	return reply
}

// Stock 按名称查库存
func (b *Bot) Stock(name string) string {
	if name == "" {
		return "Which item should I look up? e.g. /stock blazer"
	}
	return FormatInventory(b.engine.CheckInventory(catalog.InventoryQuery{Name: name}))
}

// Where 按商品编号给出店内位置
func (b *Bot) Where(id string) string {
	if id == "" {
		return "Send me an item code, e.g. /where M001"
	}
	loc, err := b.engine.Locate(strings.ToUpper(id))
	if err != nil {
		slog.Debug("locate failed", "id", id, "error", err)
		return fmt.Sprintf("I can't find item %s on the floor plan.", id)
	}
	return fmt.Sprintf("%s: %s (%d in stock)", loc.ItemName, loc.Directions, loc.Stock)
}

func (b *Bot) Status() string {
	return fmt.Sprintf("stylist running: %d items, %d categories, space %s",
		b.engine.Catalog().Len(), len(b.engine.Catalog().Categories()), b.engine.Embedder().Space())
}

func (b *Bot) ownerFilter() zero.Rule {
	return func(ctx *zero.Ctx) bool {
		return ctx.Event.UserID == b.cfg.Bot.OwnerQQ
	}
}

func (b *Bot) randomDelay() time.Duration {
	minMs := b.cfg.Bot.ReplyDelayMinMs
	maxMs := b.cfg.Bot.ReplyDelayMaxMs
	if maxMs <= minMs {
		return time.Duration(minMs) * time.Millisecond
	}
	ms := minMs + rand.IntN(maxMs-minMs)
	return time.Duration(ms) * time.Millisecond
}

func commandArg(zctx *zero.Ctx) string {
	if args, ok := zctx.State["args"].(string); ok {
		return strings.TrimSpace(args)
	}
	return ""
}

// imageURL 取消息里第一张图片的下载地址
func imageURL(msg message.Message) string {
	for _, seg := range msg {
		if seg.Type == "image" {
			if url := seg.Data["url"]; url != "" {
				return url
			}
		}
	}
	return ""
}

func fetchImage(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("build image request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("download image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("download image: status %d", resp.StatusCode)
	}
	data, err := readImage(resp.Body)
	if err != nil {
		return nil, "", err
	}
	mimeType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(mimeType, "image/") {
		mimeType = http.DetectContentType(data)
	}
	return data, mimeType, nil
}

// readImage 超过 maxImageBytes 时报错，不截断
func readImage(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if len(data) > maxImageBytes {
		return nil, fmt.Errorf("read image: larger than %d bytes", maxImageBytes)
	}
	return data, nil
}
