package database

import (
	"database/sql"
	"time"
)

// Placeholder values substituted when Telegram omits a required display field.
const (
	DefaultFirstName = "Unknown"
	DefaultChatTitle = "Private"
)

// User represents a Telegram user observed sending messages in a monitored
// chat. Display fields follow a most-recent-wins policy: every new message
// from the user overwrites them with whatever Telegram currently reports.
type User struct {
	ID        int64          `db:"id"`
	Username  sql.NullString `db:"username"`
	FirstName string         `db:"first_name"`
	LastName  sql.NullString `db:"last_name"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

// Chat represents a Telegram group, channel, or private chat being monitored.
// Title and type are overwritten on every recorded message, same policy as User.
type Chat struct {
	ID        int64     `db:"id"`
	Title     string    `db:"title"`
	Type      string    `db:"chat_type"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Message represents a single collected chat message. Rows are immutable once
// inserted; the UNIQUE(telegram_message_id, chat_id) constraint is the
// deduplication boundary for redelivered updates.
type Message struct {
	ID                int64          `db:"id"`
	TelegramMessageID int64          `db:"telegram_message_id"`
	ChatID            int64          `db:"chat_id"`
	UserID            int64          `db:"user_id"`
	Text              sql.NullString `db:"text"`
	MediaType         sql.NullString `db:"media_type"`
	ReplyToMessageID  sql.NullInt64  `db:"reply_to_message_id"`
	Date              time.Time      `db:"date"`
	CreatedAt         time.Time      `db:"created_at"`
}

// Topic is a named classification produced by the offline analysis job.
// The collector never writes topics; the struct documents the schema the
// classifier populates.
type Topic struct {
	ID           int64          `db:"id"`
	Name         string         `db:"name"`
	Keywords     sql.NullString `db:"keywords"`
	ModelVersion string         `db:"model_version"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

// MessageTopic links a message to a classified topic with a confidence score,
// unique per (message, topic) pair. Written exclusively by the classifier.
type MessageTopic struct {
	ID         int64     `db:"id"`
	MessageID  int64     `db:"message_id"`
	TopicID    int64     `db:"topic_id"`
	Confidence float64   `db:"confidence"`
	CreatedAt  time.Time `db:"created_at"`
}
