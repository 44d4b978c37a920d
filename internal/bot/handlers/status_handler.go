package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

type statusHandler struct {
	deps HandlerDeps
}

// NewStatusHandler creates the /status command handler. It reports store
// health, how many messages have been collected, and when the monitored chat
// last saw a recorded message.
func NewStatusHandler(deps HandlerDeps) bot.HandlerFunc {
	return statusHandler{deps}.Handle
}

func (h statusHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	deps := h.deps
	log := deps.Logger.With("handler", "status")

	msg := update.Message
	if msg == nil {
		return
	}
	chatID := msg.Chat.ID

	text := statusText(ctx, deps, log)

	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text}); err != nil {
		log.ErrorContext(ctx, "Failed to send status message", "error", err, "chat_id", chatID)
	}
}

// statusText composes the /status reply from the store's health and counters.
func statusText(ctx context.Context, deps HandlerDeps, log *slog.Logger) string {
	if err := deps.Store.Ping(ctx); err != nil {
		log.ErrorContext(ctx, "Store ping failed", "error", err)
		return "Store unreachable."
	}

	total, err := deps.Store.CountMessages(ctx)
	if err != nil {
		log.ErrorContext(ctx, "Failed to count messages", "error", err)
		return "Store reachable, but counting messages failed."
	}

	allowed := deps.Config.Telegram.AllowedChatID
	if allowed == 0 {
		return fmt.Sprintf("Collected %d messages.", total)
	}

	inChat, err := deps.Store.CountMessagesInChat(ctx, allowed)
	if err != nil {
		log.ErrorContext(ctx, "Failed to count messages in chat", "chat_id", allowed, "error", err)
		return fmt.Sprintf("Collected %d messages.", total)
	}

	text := fmt.Sprintf("Collected %d messages (%d from the monitored chat).", total, inChat)

	recent, err := deps.Store.GetRecentMessagesInChat(ctx, allowed, 1)
	if err != nil {
		log.ErrorContext(ctx, "Failed to fetch latest message", "chat_id", allowed, "error", err)
		return text
	}
	if len(recent) > 0 {
		text += fmt.Sprintf(" Last recorded at %s.", recent[0].Date.UTC().Format(time.RFC3339))
	}
	return text
}
