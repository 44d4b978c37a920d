package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Default values for optional configuration parameters.
const (
	DefaultLogLevel           = "info"
	DefaultLogJSON            = true
	DefaultDropPendingUpdates = true
	DefaultDBPath             = "storage.db"
	DefaultOperationTimeout   = "15s"
	DefaultMaintenanceCron    = "0 0 4 * * *"
	DefaultMaintenanceEnabled = true
)

// Load loads and validates configuration from:
// 1. Default values
// 2. The config file at configPath (optional)
// 3. BOT_* environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("BOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Allow missing config file; defaults plus environment are enough.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: failed to read config file: %v", ErrConfiguration, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrConfiguration, err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.json", DefaultLogJSON)

	v.SetDefault("telegram.drop_pending_updates", DefaultDropPendingUpdates)

	v.SetDefault("database.path", DefaultDBPath)
	v.SetDefault("database.operation_timeout", DefaultOperationTimeout)

	v.SetDefault("scheduler.tasks.sql_maintenance.enabled", DefaultMaintenanceEnabled)
	v.SetDefault("scheduler.tasks.sql_maintenance.schedule", DefaultMaintenanceCron)
}
