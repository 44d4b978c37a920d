package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/edgard/coletorbot/internal/config"
)

func writeConfigFile(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	path := writeConfigFile(t, `
telegram:
  token: "123456:abcdef"
  admin_id: 42
`)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Log.Level != config.DefaultLogLevel {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, config.DefaultLogLevel)
	}
	if !cfg.Telegram.DropPendingUpdates {
		t.Error("Telegram.DropPendingUpdates = false, want true by default")
	}
	if cfg.Telegram.AllowedChatID != 0 {
		t.Errorf("Telegram.AllowedChatID = %d, want 0", cfg.Telegram.AllowedChatID)
	}
	if cfg.Database.Path != config.DefaultDBPath {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, config.DefaultDBPath)
	}
	if cfg.Database.OperationTimeout != 15*time.Second {
		t.Errorf("Database.OperationTimeout = %v, want 15s", cfg.Database.OperationTimeout)
	}
	task, ok := cfg.Scheduler.Tasks["sql_maintenance"]
	if !ok || !task.Enabled {
		t.Errorf("sql_maintenance task = %+v (present=%v), want enabled by default", task, ok)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Parallel()

	path := writeConfigFile(t, `
telegram:
  token: "123456:abcdef"
  admin_id: 42
  allowed_chat_id: -1001378056746
  drop_pending_updates: false
database:
  operation_timeout: 30s
`)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Telegram.DropPendingUpdates {
		t.Error("Telegram.DropPendingUpdates = true, want false when overridden")
	}
	if cfg.Telegram.AllowedChatID != -1001378056746 {
		t.Errorf("Telegram.AllowedChatID = %d, want -1001378056746", cfg.Telegram.AllowedChatID)
	}
	if cfg.Database.OperationTimeout != 30*time.Second {
		t.Errorf("Database.OperationTimeout = %v, want 30s", cfg.Database.OperationTimeout)
	}
}

func TestLoadValidationFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{
			name: "missing token",
			body: "telegram:\n  admin_id: 42\n",
		},
		{
			name: "missing admin id",
			body: "telegram:\n  token: \"123456:abcdef\"\n",
		},
		{
			name: "operation timeout too large",
			body: "telegram:\n  token: \"123456:abcdef\"\n  admin_id: 42\ndatabase:\n  operation_timeout: 5m\n",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			path := writeConfigFile(t, tc.body)
			if _, err := config.Load(path); !errors.Is(err, config.ErrConfiguration) {
				t.Errorf("Load() error = %v, want ErrConfiguration", err)
			}
		})
	}
}
