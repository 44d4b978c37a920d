package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/coletorbot/internal/ingest"
)

const previewMaxLen = 100

type collectHandler struct {
	deps HandlerDeps
}

// NewCollectHandler creates the default handler that records every message
// from the monitored chat through the ingestion pipeline. It is registered as
// the bot's default handler so it sees all non-command traffic.
func NewCollectHandler(deps HandlerDeps) bot.HandlerFunc {
	return collectHandler{deps}.Handle
}

func (h collectHandler) Handle(ctx context.Context, _ *bot.Bot, update *models.Update) {
	deps := h.deps
	log := deps.Logger.With("handler", "collect")

	msg := update.Message
	if msg == nil {
		log.DebugContext(ctx, "Ignoring update without message", "update_id", update.ID)
		return
	}

	if allowed := deps.Config.Telegram.AllowedChatID; allowed != 0 && msg.Chat.ID != allowed {
		log.DebugContext(ctx, "Ignoring message from non-monitored chat",
			"chat_id", msg.Chat.ID, "allowed_chat_id", allowed)
		return
	}

	outcome := deps.Pipeline.Ingest(ctx, msg)

	switch outcome.Status {
	case ingest.StatusRecorded:
		log.DebugContext(ctx, "Message recorded",
			"chat_id", msg.Chat.ID, "telegram_message_id", msg.ID, "message_id", outcome.MessageID)
		fmt.Printf(" ~ %s : %s\n", senderName(msg.From), preview(msg))

	case ingest.StatusDuplicate:
		log.DebugContext(ctx, "Message already recorded, skipped",
			"chat_id", msg.Chat.ID, "telegram_message_id", msg.ID)

	case ingest.StatusRejected:
		if outcome.Reason == ingest.ReasonPersistenceError {
			// The only outcome warranting operational attention; the event is
			// safe to redeliver thanks to the dedup key.
			log.ErrorContext(ctx, "Failed to record message",
				"chat_id", msg.Chat.ID, "telegram_message_id", msg.ID, "error", outcome.Err)
		} else {
			log.DebugContext(ctx, "Message rejected",
				"chat_id", msg.Chat.ID, "telegram_message_id", msg.ID, "reason", outcome.Reason)
		}
	}
}

// senderName returns the display handle for the stdout line: the username
// when set, the first name otherwise.
func senderName(from *models.User) string {
	if from == nil {
		return ""
	}
	if from.Username != "" {
		return from.Username
	}
	return from.FirstName
}

// preview flattens the message content to a single line capped at
// previewMaxLen characters.
func preview(msg *models.Message) string {
	text := msg.Text
	if text == "" {
		text = msg.Caption
	}
	text = strings.ReplaceAll(text, "\n", " ")
	// Truncate on runes so a multi-byte character is never split.
	if runes := []rune(text); len(runes) > previewMaxLen {
		return string(runes[:previewMaxLen]) + "..."
	}
	return text
}
