package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the environment configuration shared by the viewer and the hub.
type Config struct {
	// SocketURL is the hub endpoint viewers connect to.
	SocketURL string `env:"OXY_SOCKET_URL" envDefault:"ws://localhost:8000/ws"`
	// ListenAddr is where the hub serves HTTP and websockets.
	ListenAddr string `env:"OXY_LISTEN_ADDR" envDefault:":8000"`
	// MaxUsers is the room capacity enforced by the hub.
	MaxUsers int `env:"OXY_MAX_USERS" envDefault:"2"`
	// ValkeyAddr shares occupancy between hub instances. Empty keeps it in memory.
	ValkeyAddr string `env:"OXY_VALKEY_ADDR"`

	// AssetCacheSize bounds each asset cache to that many entries. 0 is unbounded.
	AssetCacheSize int           `env:"OXY_ASSET_CACHE_SIZE" envDefault:"0"`
	FetchTimeout   time.Duration `env:"OXY_FETCH_TIMEOUT" envDefault:"30s"`
	AssetWorkers   int           `env:"OXY_ASSET_WORKERS" envDefault:"4"`

	Profile      bool `env:"OXY_PROFILE" envDefault:"false"`
	WindowWidth  int  `env:"OXY_WINDOW_WIDTH" envDefault:"1280"`
	WindowHeight int  `env:"OXY_WINDOW_HEIGHT" envDefault:"720"`
}

// Load reads the .env files that exist, then parses the environment.
// Variables already set in the process win over .env values.
//
// Parameters:
//   - files: .env paths to try, ".env" when none are given
//
// Returns:
//   - Config: the parsed configuration
//   - error: error if a .env file is malformed or a variable does not parse
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values no component can run with.
func (c Config) Validate() error {
	switch {
	case c.MaxUsers < 1:
		return fmt.Errorf("OXY_MAX_USERS must be at least 1, got %d", c.MaxUsers)
	case c.AssetCacheSize < 0:
		return fmt.Errorf("OXY_ASSET_CACHE_SIZE must not be negative, got %d", c.AssetCacheSize)
	case c.AssetWorkers < 1:
		return fmt.Errorf("OXY_ASSET_WORKERS must be at least 1, got %d", c.AssetWorkers)
	case c.WindowWidth < 1 || c.WindowHeight < 1:
		return fmt.Errorf("window size must be positive, got %dx%d", c.WindowWidth, c.WindowHeight)
	}
	return nil
}
