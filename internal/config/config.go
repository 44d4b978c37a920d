// Package config manages application configuration from environment variables,
// config files, and default values.
package config

import (
	"errors"
	"time"
)

// ErrConfiguration indicates a failure loading or validating configuration.
var ErrConfiguration = errors.New("configuration error")

// Config defines the application configuration. Values can be set via
// environment variables prefixed with BOT_ (e.g., BOT_TELEGRAM_TOKEN) or
// through config.yaml.
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// TelegramConfig holds Telegram transport settings. AllowedChatID restricts
// collection to a single chat; zero collects from any chat the bot can see.
// DropPendingUpdates discards the update backlog accumulated while the
// collector was offline.
type TelegramConfig struct {
	Token              string `mapstructure:"token"                validate:"required"`
	AdminID            int64  `mapstructure:"admin_id"             validate:"required,gt=0"`
	AllowedChatID      int64  `mapstructure:"allowed_chat_id"`
	DropPendingUpdates bool   `mapstructure:"drop_pending_updates"`
}

// DatabaseConfig holds SQLite storage settings. OperationTimeout bounds each
// ingestion unit of work; a unit that does not commit in time is aborted.
type DatabaseConfig struct {
	Path             string        `mapstructure:"path"              validate:"required"`
	OperationTimeout time.Duration `mapstructure:"operation_timeout" validate:"required,min=1s,max=1m"`
}

// SchedulerConfig holds the scheduled task table, keyed by task name.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks"`
}

// TaskConfig configures a single scheduled task.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}
