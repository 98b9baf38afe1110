package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/patrickmn/go-cache"

	"compintel/internal/catalog"
	"compintel/internal/config"
	"compintel/internal/overlay"
	"compintel/internal/synthesis"
	"compintel/internal/view"
)

type telegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Bot is the Telegram chat surface over the catalog and the user overlay.
type Bot struct {
	api    telegramAPI
	store  *overlay.Store
	cat    *catalog.Catalog
	cfg    *config.Config
	runner *synthesis.Runner
	log    *slog.Logger

	// searches memoizes global search results. Search reads only the
	// catalog, which never changes while the process runs.
	searches *cache.Cache
}

func newSearchCache() *cache.Cache {
	return cache.New(10*time.Minute, 20*time.Minute)
}

// New creates a Bot with the given Telegram token, overlay store, catalog
// and config.
func New(token string, store *overlay.Store, cat *catalog.Catalog, cfg *config.Config, log *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	return &Bot{
		api:      api,
		store:    store,
		cat:      cat,
		cfg:      cfg,
		runner:   synthesis.NewRunner(log),
		log:      log,
		searches: newSearchCache(),
	}, nil
}

// Run starts the bot's long-polling loop, blocking until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update := <-updates:
			if cb := update.CallbackQuery; cb != nil {
				if cb.From != nil && !b.cfg.IsUserAllowed(cb.From.ID) {
					continue
				}
				b.handleCallback(ctx, cb)
				continue
			}
			if update.Message == nil || !update.Message.IsCommand() {
				continue
			}
			if from := update.Message.From; from != nil && !b.cfg.IsUserAllowed(from.ID) {
				b.reply(update.Message.Chat.ID, "Access denied.")
				continue
			}
			b.handleCommand(ctx, update.Message)
		}
	}
}

// SendMessage sends a text message to the given chat.
func (b *Bot) SendMessage(chatID int64, text string) {
	b.send(chatID, text, nil)
}

func (b *Bot) reply(chatID int64, text string) {
	b.SendMessage(chatID, text)
}

func (b *Bot) send(chatID int64, text string, markup *tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.DisableWebPagePreview = true
	if markup != nil {
		msg.ReplyMarkup = *markup
	}
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send message", "chat_id", chatID, "error", err)
	}
}

// composer snapshots the overlay for one command.
func (b *Bot) composer(ctx context.Context) *view.Composer {
	return b.store.Composer(ctx)
}

// names resolves baseline and user-created competitor ids.
func (b *Bot) names(c *view.Composer) Names {
	refs := c.CompetitorRefs()
	n := make(Names, len(refs))
	for _, r := range refs {
		n[r.ID] = r.Name
	}
	return n
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	cmd := msg.Command()
	args := strings.TrimSpace(msg.CommandArguments())
	chatID := msg.Chat.ID

	b.log.Debug("command", "cmd", cmd, "args", args, "chat_id", chatID)

	switch cmd {
	case "start":
		b.handleStart(chatID)
	case "help":
		b.handleHelp(chatID)
	case "dashboard":
		b.handleDashboard(ctx, chatID)
	case "competitors":
		b.handleCompetitors(ctx, chatID, args)
	case "competitor":
		b.handleCompetitor(ctx, chatID, args)
	case "signals":
		b.handleSignals(ctx, chatID, args)
	case "battlecard":
		b.handleBattlecard(ctx, chatID, args)
	case "insights":
		b.handleInsights(ctx, chatID, args)
	case cmdInsight:
		b.handleInsight(ctx, chatID, args)
	case "related":
		b.handleRelated(ctx, chatID, args)
	case "review":
		b.handleReview(ctx, chatID, args)
	case cmdVerify:
		b.handleVerify(ctx, chatID, args)
	case cmdReject:
		b.handleReject(ctx, chatID, args)
	case cmdLike, cmdDislike, cmdBookmark, cmdFlag:
		b.handleInteraction(ctx, chatID, cmd, args)
	case "activity":
		b.handleActivity(ctx, chatID, args)
	case "comment":
		b.handleComment(ctx, chatID, args)
	case "sources":
		b.handleSources(ctx, chatID, args)
	case "source":
		b.handleSource(ctx, chatID, args)
	case "addsource":
		b.handleAddSource(ctx, chatID, args)
	case "editsource":
		b.handleEditSource(ctx, chatID, args)
	case "rmsource":
		b.handleRemoveSource(ctx, chatID, args)
	case "search":
		b.handleSearch(ctx, chatID, args)
	case "history":
		b.handleHistory(ctx, chatID, args)
	case "synthesize":
		b.handleSynthesize(ctx, chatID)
	default:
		b.reply(chatID, "Unknown command. Use /help for a list of commands.")
	}
}
