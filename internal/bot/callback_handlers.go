package bot

import (
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (b *Bot) handleCallbackQuery(query *tgbotapi.CallbackQuery) {
	if query.Message == nil {
		slog.Warn("Received callback without message", "data", query.Data)
		return
	}

	callbackConfig := tgbotapi.CallbackConfig{
		CallbackQueryID: query.ID,
	}
	if _, err := b.api.Request(callbackConfig); err != nil {
		slog.Error("Error sending callback response", "error", err)
	}

	chatID := query.Message.Chat.ID

	switch query.Data {
	case "refresh":
		b.handleRefresh(chatID)
	default:
		slog.Warn("Unknown callback", "data", query.Data)
	}
}

// handleRefresh re-runs the lookup for the query stored in the chat
// session. The session expires with the Redis TTL.
func (b *Bot) handleRefresh(chatID int64) {
	session, err := b.redis.GetSession(chatID)
	if err != nil {
		slog.Error("Error getting session in handleRefresh", "error", err)
		b.sendSessionExpired(chatID)
		return
	}
	if session == nil || session.Query == "" {
		b.sendSessionExpired(chatID)
		return
	}

	f := b.chatForm(chatID)
	if f.Snapshot().Loading {
		slog.Debug("Refresh while lookup in flight, ignoring", "chat_id", chatID)
		return
	}
	f.SetQuery(session.Query)

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.runLookup(chatID, f)
	}()
}
