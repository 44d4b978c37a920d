// Package tasks implements scheduled tasks for the collector.
package tasks

import (
	"log/slog"

	"github.com/edgard/coletorbot/internal/config"
	"github.com/edgard/coletorbot/internal/database"
)

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger *slog.Logger
	Store  database.Store
	Config *config.Config
}
