package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Settings holds the runtime knobs read from the environment. Zero values
// fall back to the XDG cache directory and the defaults below.
type Settings struct {
	// CacheDir overrides the store location; empty means XDG resolution.
	CacheDir string `env:"CANARYCAST_CACHE_DIR"`

	// StoreQuotaBytes caps the total size of persisted entries. Writes past
	// the quota fail the way a browser's localStorage write would.
	StoreQuotaBytes int64 `env:"CANARYCAST_CACHE_QUOTA" envDefault:"10485760"`

	// EntryTTL is the default freshness window for writes without one.
	EntryTTL time.Duration `env:"CANARYCAST_CACHE_TTL" envDefault:"1h"`
}

// LoadSettings parses configuration from environment variables
func LoadSettings() (Settings, error) {
	var s Settings
	if err := env.Parse(&s); err != nil {
		return Settings{}, fmt.Errorf("parse env: %w", err)
	}
	if s.EntryTTL <= 0 {
		s.EntryTTL = DefaultTTL
	}
	return s, nil
}
