// Package handlers contains Telegram bot command and message handlers,
// along with their registration logic and middleware.
package handlers

import (
	"log/slog"

	"github.com/edgard/coletorbot/internal/config"
	"github.com/edgard/coletorbot/internal/database"
	"github.com/edgard/coletorbot/internal/ingest"
)

// HandlerDeps provides dependencies for Telegram handlers.
type HandlerDeps struct {
	Logger   *slog.Logger
	Config   *config.Config
	Store    database.Store
	Pipeline *ingest.Pipeline
}
