package ingest

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/go-telegram/bot/models"

	"github.com/edgard/coletorbot/internal/database"
)

// Status classifies the result of ingesting one event.
type Status string

const (
	StatusRecorded  Status = "recorded"
	StatusDuplicate Status = "duplicate"
	StatusRejected  Status = "rejected"
)

// Reason identifies why an event was rejected.
type Reason string

const (
	ReasonMissingSender    Reason = "missing_sender"
	ReasonEmptyContent     Reason = "empty_content"
	ReasonPersistenceError Reason = "persistence_error"
)

// Outcome reports the result of one ingestion call. MessageID is the assigned
// surrogate key, set only when Status is StatusRecorded. Reason is set only
// when Status is StatusRejected.
type Outcome struct {
	Status    Status
	Reason    Reason
	MessageID int64
	Err       error
}

const defaultOperationTimeout = 15 * time.Second

// Pipeline ingests raw Telegram messages into the store. Calls for different
// events may run concurrently; correctness under redelivery is delegated to
// the store's transaction and constraint mechanisms, so a Pipeline holds no
// mutable state of its own.
type Pipeline struct {
	store   database.Store
	logger  *slog.Logger
	timeout time.Duration
}

// NewPipeline creates an ingestion pipeline writing to the given store.
// timeout bounds each unit of work; a non-positive value selects a default.
func NewPipeline(store database.Store, logger *slog.Logger, timeout time.Duration) *Pipeline {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if timeout <= 0 {
		timeout = defaultOperationTimeout
	}
	return &Pipeline{
		store:   store,
		logger:  logger.With("component", "ingest"),
		timeout: timeout,
	}
}

// Ingest processes one raw message event: sender check, normalization, then
// identity upserts and the message insert as a single transaction. All four
// outcomes are returned as values; replaying the same event is safe and
// yields StatusDuplicate after the first successful call.
func (p *Pipeline) Ingest(ctx context.Context, msg *models.Message) Outcome {
	if msg == nil || msg.From == nil {
		p.logger.WarnContext(ctx, "Message without sender, skipping",
			"chat_id", chatIDOf(msg))
		return Outcome{Status: StatusRejected, Reason: ReasonMissingSender}
	}

	norm, err := Normalize(msg)
	if err != nil {
		if errors.Is(err, ErrEmptyContent) {
			p.logger.DebugContext(ctx, "Message without persistable content, skipping",
				"chat_id", msg.Chat.ID, "telegram_message_id", msg.ID)
			return Outcome{Status: StatusRejected, Reason: ReasonEmptyContent}
		}
		p.logger.ErrorContext(ctx, "Failed to normalize message",
			"chat_id", msg.Chat.ID, "telegram_message_id", msg.ID, "error", err)
		return Outcome{Status: StatusRejected, Reason: ReasonEmptyContent, Err: err}
	}

	user := &database.User{
		ID:        msg.From.ID,
		Username:  nullString(msg.From.Username),
		FirstName: msg.From.FirstName,
		LastName:  nullString(msg.From.LastName),
	}
	chat := &database.Chat{
		ID:    msg.Chat.ID,
		Title: msg.Chat.Title,
		Type:  string(msg.Chat.Type),
	}
	record := &database.Message{
		TelegramMessageID: int64(msg.ID),
		ChatID:            msg.Chat.ID,
		UserID:            msg.From.ID,
		Text:              nullString(norm.Text),
		MediaType:         nullString(string(norm.Media)),
		ReplyToMessageID:  nullInt64(norm.ReplyToMessageID),
		Date:              time.Unix(int64(msg.Date), 0).UTC(),
	}

	opCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	inserted, err := p.store.RecordMessage(opCtx, user, chat, record)
	if err != nil {
		p.logger.ErrorContext(ctx, "Failed to persist message",
			"chat_id", msg.Chat.ID, "telegram_message_id", msg.ID, "error", err)
		return Outcome{Status: StatusRejected, Reason: ReasonPersistenceError, Err: err}
	}
	if !inserted {
		return Outcome{Status: StatusDuplicate}
	}
	return Outcome{Status: StatusRecorded, MessageID: record.ID}
}

func chatIDOf(msg *models.Message) int64 {
	if msg == nil {
		return 0
	}
	return msg.Chat.ID
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt64(n int64) sql.NullInt64 {
	return sql.NullInt64{Int64: n, Valid: n != 0}
}
