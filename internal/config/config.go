// Package config loads budcal settings from an optional YAML file and
// BUDCAL_-prefixed environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the runtime settings of budcal.
type Config struct {
	// CredentialsFile is the path to the Google service account or OAuth
	// credentials JSON. Empty means Application Default Credentials.
	CredentialsFile string

	// DatabasePath is the sqlite ledger location.
	DatabasePath string

	// ListenAddr is the HTTP API listen address.
	ListenAddr string

	// SyncWindowMonths is the half-width of the sync window: events this
	// many months in the past through this many months in the future.
	SyncWindowMonths int
}

// Load reads configuration from path when non-empty, otherwise from
// $XDG_CONFIG_HOME/budcal/config.yaml if present. Environment variables
// (BUDCAL_DATABASE_PATH, BUDCAL_LISTEN_ADDR, ...) override file values.
// A missing config file is not an error; defaults apply.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("credentials_file", "")
	v.SetDefault("database_path", defaultDatabasePath())
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("sync_window_months", 12)

	v.SetEnvPrefix("BUDCAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %q: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "budcal"))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	// Explicit getters rather than Unmarshal: automatic env overrides only
	// resolve per-key.
	cfg := Config{
		CredentialsFile:  v.GetString("credentials_file"),
		DatabasePath:     v.GetString("database_path"),
		ListenAddr:       v.GetString("listen_addr"),
		SyncWindowMonths: v.GetInt("sync_window_months"),
	}
	if cfg.SyncWindowMonths <= 0 {
		return nil, fmt.Errorf("sync_window_months must be positive, got %d", cfg.SyncWindowMonths)
	}
	return &cfg, nil
}

func defaultDatabasePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "budcal.db"
	}
	return filepath.Join(dir, "budcal", "budcal.db")
}
