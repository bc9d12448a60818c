package bot

import (
	"context"
	"log/slog"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"userlens-bot/internal/api"
	"userlens-bot/internal/form"
	"userlens-bot/internal/redis"
)

const telegramCaptionLimit = 1024

type Bot struct {
	api    *tgbotapi.BotAPI
	github *api.GitHubAPI
	redis  *redis.RedisClient

	forms   map[int64]*form.Form // one lookup form per chat
	formsMu sync.Mutex

	ctx      context.Context // parent of every in-flight lookup
	cancel   context.CancelFunc
	stopChan chan struct{}
	wg       sync.WaitGroup
}

func NewBot(token string, redisClient *redis.RedisClient, githubAPI *api.GitHubAPI) (*Bot, error) {
	botAPI, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Bot{
		api:      botAPI,
		github:   githubAPI,
		redis:    redisClient,
		forms:    make(map[int64]*form.Form),
		ctx:      ctx,
		cancel:   cancel,
		stopChan: make(chan struct{}),
	}, nil
}

// chatForm returns the lookup form for a chat, creating it on first use.
func (b *Bot) chatForm(chatID int64) *form.Form {
	b.formsMu.Lock()
	defer b.formsMu.Unlock()
	f, ok := b.forms[chatID]
	if !ok {
		f = form.New(b.github)
		b.forms[chatID] = f
	}
	return f
}

func (b *Bot) Start() {
	slog.Info("Authorized on account", slog.String("username", b.api.Self.UserName))

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	b.wg.Add(1)
	defer b.wg.Done()

	for {
		select {
		case <-b.stopChan:
			slog.Info("Stopping bot update processing")
			return
		case update, ok := <-updates:
			if !ok {
				slog.Info("Updates channel closed")
				return
			}

			if update.CallbackQuery != nil {
				b.handleCallbackQuery(update.CallbackQuery)
				continue
			}

			if update.Message == nil {
				continue
			}

			if !update.Message.IsCommand() {
				b.handleMessage(update.Message)
				continue
			}

			switch update.Message.Command() {
			case "start":
				b.handleStartCommand(update.Message)
			case "help":
				b.handleHelpCommand(update.Message)
			}
		}
	}
}

func (b *Bot) Stop() {
	slog.Info("Initiating bot shutdown...")
	close(b.stopChan) // Signal to stop processing updates
	b.cancel()        // Abort in-flight lookups; late results are discarded
	b.wg.Wait()       // Wait for all goroutines to finish

	if b.api != nil {
		b.api.StopReceivingUpdates()
	}

	slog.Info("Bot shutdown complete")
}
