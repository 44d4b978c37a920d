package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// Store defines the interface for database operations.
// Methods accept context.Context for cancellation and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// RecordMessage upserts the sending user and originating chat, then
	// inserts the message, all within one transaction. It returns true when
	// the message row was inserted, false when the (telegram_message_id,
	// chat_id) key already existed. On success with an insert, message.ID is
	// set to the assigned surrogate key.
	RecordMessage(ctx context.Context, user *User, chat *Chat, message *Message) (bool, error)

	// GetRecentMessagesInChat retrieves the most recent 'limit' messages for a given chat ID.
	GetRecentMessagesInChat(ctx context.Context, chatID int64, limit int) ([]Message, error)

	// CountMessages returns the total number of recorded messages.
	CountMessages(ctx context.Context) (int64, error)

	// CountMessagesInChat returns the number of recorded messages for a given chat ID.
	CountMessagesInChat(ctx context.Context, chatID int64) (int64, error)

	// RunSQLMaintenance performs database maintenance tasks like VACUUM.
	RunSQLMaintenance(ctx context.Context) error
}

// sqlxStore provides an implementation of the Store interface using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a new Store implementation backed by sqlx.
// It requires a connected sqlx.DB instance and a logger.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

// Ping checks the database connection.
func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// RecordMessage performs the per-event unit of work: upsert user, upsert chat,
// insert message. The upserts overwrite every mutable field unconditionally
// (most-recent-wins); the message insert relies on the unique
// (telegram_message_id, chat_id) constraint for deduplication, so concurrent
// redelivery never produces a second row. Either all three writes become
// durable together or none do.
func (s *sqlxStore) RecordMessage(ctx context.Context, user *User, chat *Chat, message *Message) (bool, error) {
	if user == nil || chat == nil || message == nil {
		return false, fmt.Errorf("cannot record message with nil user, chat, or message")
	}
	if user.ID == 0 {
		return false, fmt.Errorf("user must have a non-zero id")
	}
	if chat.ID == 0 {
		return false, fmt.Errorf("chat must have a non-zero id")
	}
	if message.TelegramMessageID == 0 {
		return false, fmt.Errorf("message must have a non-zero telegram_message_id")
	}
	if message.Date.IsZero() {
		return false, fmt.Errorf("message must have a non-zero date")
	}

	// Placeholder substitution for fields Telegram may omit.
	if user.FirstName == "" {
		user.FirstName = DefaultFirstName
	}
	if chat.Title == "" {
		chat.Title = DefaultChatTitle
	}

	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now
	chat.CreatedAt, chat.UpdatedAt = now, now
	message.CreatedAt = now

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to begin transaction for recording message",
			"chat_id", chat.ID, "user_id", user.ID, "error", err)
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if tx != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				if !errors.Is(rollbackErr, sql.ErrTxDone) {
					s.logger.WarnContext(ctx, "Error rolling back transaction", "error", rollbackErr)
				}
			}
		}
	}()

	userQuery := `
        INSERT INTO users (id, username, first_name, last_name, created_at, updated_at)
        VALUES (:id, :username, :first_name, :last_name, :created_at, :updated_at)
        ON CONFLICT (id) DO UPDATE SET
            username = excluded.username,
            first_name = excluded.first_name,
            last_name = excluded.last_name,
            updated_at = excluded.updated_at;
    `
	if _, err := tx.NamedExecContext(ctx, userQuery, user); err != nil {
		s.logger.ErrorContext(ctx, "Error upserting user", "user_id", user.ID, "error", err)
		return false, fmt.Errorf("failed to upsert user %d: %w", user.ID, err)
	}

	chatQuery := `
        INSERT INTO chats (id, title, chat_type, created_at, updated_at)
        VALUES (:id, :title, :chat_type, :created_at, :updated_at)
        ON CONFLICT (id) DO UPDATE SET
            title = excluded.title,
            chat_type = excluded.chat_type,
            updated_at = excluded.updated_at;
    `
	if _, err := tx.NamedExecContext(ctx, chatQuery, chat); err != nil {
		s.logger.ErrorContext(ctx, "Error upserting chat", "chat_id", chat.ID, "error", err)
		return false, fmt.Errorf("failed to upsert chat %d: %w", chat.ID, err)
	}

	messageQuery := `
        INSERT INTO messages (telegram_message_id, chat_id, user_id, text, media_type, reply_to_message_id, date, created_at)
        VALUES (:telegram_message_id, :chat_id, :user_id, :text, :media_type, :reply_to_message_id, :date, :created_at)
        ON CONFLICT (telegram_message_id, chat_id) DO NOTHING;
    `
	result, err := tx.NamedExecContext(ctx, messageQuery, message)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error inserting message",
			"chat_id", chat.ID, "telegram_message_id", message.TelegramMessageID, "error", err)
		return false, fmt.Errorf("failed to insert message %d in chat %d: %w",
			message.TelegramMessageID, chat.ID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		s.logger.WarnContext(ctx, "Could not get affected row count for message insert",
			"chat_id", chat.ID, "telegram_message_id", message.TelegramMessageID, "error", err)
		return false, fmt.Errorf("failed to determine message insert result: %w", err)
	}
	inserted := affected == 1

	if inserted {
		id, err := result.LastInsertId()
		if err != nil {
			s.logger.WarnContext(ctx, "Could not retrieve last insert ID after saving message",
				"chat_id", chat.ID, "telegram_message_id", message.TelegramMessageID, "error", err)
		} else {
			message.ID = id
		}
	}

	// The duplicate path still commits so the identity upserts apply
	// (most-recent-wins even on redelivered events).
	if err := tx.Commit(); err != nil {
		s.logger.ErrorContext(ctx, "Failed to commit transaction",
			"chat_id", chat.ID, "telegram_message_id", message.TelegramMessageID, "error", err)
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}
	tx = nil

	if inserted {
		s.logger.DebugContext(ctx, "Message recorded successfully",
			"chat_id", chat.ID, "user_id", user.ID,
			"telegram_message_id", message.TelegramMessageID, "message_id", message.ID)
	} else {
		s.logger.DebugContext(ctx, "Message already exists, skipped",
			"chat_id", chat.ID, "telegram_message_id", message.TelegramMessageID)
	}
	return inserted, nil
}

// GetRecentMessagesInChat retrieves the most recent 'limit' messages for a given chat ID.
func (s *sqlxStore) GetRecentMessagesInChat(ctx context.Context, chatID int64, limit int) ([]Message, error) {
	if chatID == 0 {
		return nil, fmt.Errorf("chat_id cannot be zero")
	}

	if limit <= 0 {
		limit = 20
		s.logger.DebugContext(ctx, "Invalid limit provided, using default", "chat_id", chatID, "default_limit", limit)
	} else if limit > 100 {
		limit = 100
		s.logger.DebugContext(ctx, "Limit exceeded maximum value, capping", "chat_id", chatID, "capped_limit", limit)
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var messages []Message
	query := `
        SELECT id, telegram_message_id, chat_id, user_id, text, media_type, reply_to_message_id, date, created_at
        FROM messages
        WHERE chat_id = ?
        ORDER BY date DESC, id DESC
        LIMIT ?;
    `

	err := s.db.SelectContext(ctx, &messages, query, chatID, limit)
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		s.logger.WarnContext(ctx, "Context timeout or cancellation while fetching messages",
			"chat_id", chatID, "error", err)
		return nil, err
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "Error getting recent messages", "chat_id", chatID, "limit", limit, "error", err)
		return nil, fmt.Errorf("failed to get recent messages for chat %d: %w", chatID, err)
	}

	s.logger.DebugContext(ctx, "Fetched recent messages successfully", "chat_id", chatID, "count", len(messages))
	return messages, nil
}

// CountMessages returns the total number of recorded messages.
func (s *sqlxStore) CountMessages(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM messages`); err != nil {
		s.logger.ErrorContext(ctx, "Error counting messages", "error", err)
		return 0, fmt.Errorf("failed to count messages: %w", err)
	}
	return count, nil
}

// CountMessagesInChat returns the number of recorded messages for a given chat ID.
func (s *sqlxStore) CountMessagesInChat(ctx context.Context, chatID int64) (int64, error) {
	if chatID == 0 {
		return 0, fmt.Errorf("chat_id cannot be zero")
	}

	var count int64
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM messages WHERE chat_id = ?`, chatID); err != nil {
		s.logger.ErrorContext(ctx, "Error counting messages in chat", "chat_id", chatID, "error", err)
		return 0, fmt.Errorf("failed to count messages for chat %d: %w", chatID, err)
	}
	return count, nil
}

// RunSQLMaintenance executes a VACUUM command on the SQLite database.
func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		s.logger.WarnContext(ctx, "Context cancelled or timed out before starting VACUUM", "error", ctx.Err())
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM)...")

	// VACUUM must run outside a transaction in SQLite.
	_, err := s.db.ExecContext(ctx, "VACUUM;")
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "VACUUM operation timed out or was cancelled", "error", err)
		return fmt.Errorf("database maintenance (VACUUM) timed out: %w", err)

	case err != nil:
		s.logger.ErrorContext(ctx, "Database maintenance (VACUUM) failed", "error", err)
		return fmt.Errorf("failed to execute VACUUM: %w", err)

	default:
		s.logger.InfoContext(ctx, "Database maintenance (VACUUM) completed successfully")
	}

	return nil
}
