package bot

import (
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (b *Bot) handleStartCommand(msg *tgbotapi.Message) {
	text := "Hi! I look up GitHub profiles.\n\n" +
		"Send me a username and I'll show you the account."
	reply := tgbotapi.NewMessage(msg.Chat.ID, text)
	_, err := b.api.Send(reply)
	if err != nil {
		slog.Error("Error sending message in handleStartCommand", "error", err)
	}
}

func (b *Bot) handleHelpCommand(msg *tgbotapi.Message) {
	text := "How to use the bot:\n\n" +
		"1. Type a GitHub username (e.g. octocat)\n" +
		"2. I'll fetch the profile and show it as a card\n\n" +
		"Available commands:\n" +
		"/start - start over\n" +
		"/help - show this help"
	reply := tgbotapi.NewMessage(msg.Chat.ID, text)
	_, err := b.api.Send(reply)
	if err != nil {
		slog.Error("Error sending message in handleHelpCommand", "error", err)
	}
}

func (b *Bot) handleMessage(msg *tgbotapi.Message) {
	query := strings.TrimSpace(msg.Text)
	if query == "" {
		reply := tgbotapi.NewMessage(msg.Chat.ID, "Please send a username to look up")
		_, err := b.api.Send(reply)
		if err != nil {
			slog.Error("Error sending empty query message", "error", err)
		}
		return
	}

	f := b.chatForm(msg.Chat.ID)
	if f.Snapshot().Loading {
		// One outstanding lookup per chat; further submissions are dropped.
		slog.Debug("Lookup already in flight, ignoring submission",
			"chat_id", msg.Chat.ID, "query", query)
		return
	}
	f.SetQuery(query)

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.runLookup(msg.Chat.ID, f)
	}()
}
