package bot

import (
	"errors"
	"html"
	"log/slog"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"userlens-bot/internal/api"
	"userlens-bot/internal/form"
	"userlens-bot/internal/model"
)

// runLookup drives one submission through the chat's form: loading
// indicator up, fetch, indicator down, then either the profile card or a
// not-found notice. Transport failures are logged only; whatever was on
// screen before stays there.
func (b *Bot) runLookup(chatID int64, f *form.Form) {
	start := time.Now()
	defer func() {
		slog.Debug("runLookup executed",
			"duration", time.Since(start).Seconds(),
			"chat_id", chatID)
	}()

	tempMsg := b.sendTempMessage(chatID, "⏳ Looking up the profile..")
	b.sendChatAction(chatID, tgbotapi.ChatTyping)

	user, err := f.Submit(b.ctx)

	b.cleanupTempMessage(chatID, tempMsg)

	switch {
	case err == nil:
		b.saveSession(chatID, f.Snapshot().Query, user)
		b.sendUserCard(chatID, user)
	case errors.Is(err, api.ErrUserNotFound):
		b.sendUserNotFound(chatID)
	case errors.Is(err, form.ErrBusy):
		slog.Debug("Submission raced an in-flight lookup, dropped", "chat_id", chatID)
	default:
		// Loading indicator is withdrawn and the previous card, if any,
		// stays on screen. The error goes to the operator log only.
		slog.Error("Lookup failed", "chat_id", chatID, "error", err)
	}
}

func (b *Bot) saveSession(chatID int64, query string, user *model.User) {
	session := model.Session{
		Query:      query,
		LastResult: user,
		LookedUpAt: time.Now(),
	}
	if err := b.redis.SaveSession(chatID, session); err != nil {
		slog.Error("Error saving session to Redis", "error", err)
	}
}

func (b *Bot) sendUserCard(chatID int64, user *model.User) {
	b.sendChatAction(chatID, tgbotapi.ChatUploadPhoto)

	avatar := GetSafeAvatar(user.AvatarURL)
	photo := tgbotapi.NewPhoto(chatID, avatar)
	photo.Caption = formatUserCaption(user)
	photo.ReplyMarkup = b.createProfileKeyboard(user)
	_, err := b.api.Send(photo)
	if err != nil {
		slog.Error("Failed to send user card, falling back to text", "login", user.Login, "error", err)
		b.sendUserCardFallback(chatID, user)
	}
}

// sendUserCardFallback sends the profile as a text message when the photo
// upload is rejected (e.g. Telegram refused the avatar bytes).
func (b *Bot) sendUserCardFallback(chatID int64, user *model.User) {
	text := formatProfileLink(user) + "\n" + html.EscapeString(formatUserCaption(user))
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "HTML"
	msg.DisableWebPagePreview = true
	msg.ReplyMarkup = b.createProfileKeyboard(user)
	_, err := b.api.Send(msg)
	if err != nil {
		slog.Error("Failed to send user card fallback", "login", user.Login, "error", err)
	}
}

func (b *Bot) sendUserNotFound(chatID int64) {
	msg := tgbotapi.NewMessage(chatID, "No such user found")
	_, err := b.api.Send(msg)
	if err != nil {
		slog.Error("Error sending user not found message", "error", err)
	}
}

func (b *Bot) sendSessionExpired(chatID int64) {
	msg := tgbotapi.NewMessage(chatID, "The lookup session has expired. Please send a username again.")
	_, err := b.api.Send(msg)
	if err != nil {
		slog.Error("Error sending session expired message", "error", err)
	}
}

func (b *Bot) sendTempMessage(chatID int64, text string) tgbotapi.Message {
	tempMsg, err := b.api.Send(tgbotapi.NewMessage(chatID, text))
	if err != nil {
		slog.Error("Error sending temp message", "error", err)
	}
	return tempMsg
}

func (b *Bot) cleanupTempMessage(chatID int64, tempMsg tgbotapi.Message) {
	if tempMsg.MessageID == 0 {
		return
	}
	_, err := b.api.Request(tgbotapi.NewDeleteMessage(chatID, tempMsg.MessageID))
	if err != nil {
		slog.Error("Error deleting temp message", "error", err)
	}
}

func (b *Bot) sendChatAction(chatID int64, action string) {
	_, err := b.api.Request(tgbotapi.NewChatAction(chatID, action))
	if err != nil {
		slog.Error("Error sending chat action", "action", action, "error", err)
	}
}
