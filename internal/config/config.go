package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

const (
	defaultGandiURL    = "https://api.gandi.net/v5"
	defaultLogLevel    = "info"
	defaultLogEnv      = "prod"
	defaultMetricsAddr = ":9090"
)

// ErrZoneNotConfigured reports a zone the inventory knows about but the
// local configuration does not. The zone is skipped, other zones proceed.
var ErrZoneNotConfigured = errors.New("zone not configured")

type Config struct {
	Inventory Inventory `toml:"inventory"`
	Gandi     Gandi     `toml:"gandi"`
	Log       Log       `toml:"log"`
	Metrics   Metrics   `toml:"metrics"`
}

type Inventory struct {
	URL   string `toml:"url"`
	Token string `toml:"token"`
}

type Gandi struct {
	URL    string          `toml:"url"`
	APIKey string          `toml:"api_key"`
	Zones  map[string]Zone `toml:"zones"`
}

type Zone struct {
	APIKey string `toml:"api_key"`
}

type Log struct {
	Level string `toml:"level"`
	Env   string `toml:"env"`
}

type Metrics struct {
	Addr string `toml:"addr"`
}

// KeyForZone resolves the API key for a zone: the per-zone override when
// set, the default key otherwise. A zone absent from the configuration is
// an ErrZoneNotConfigured.
func (g Gandi) KeyForZone(name string) (string, error) {
	z, ok := g.Zones[name]
	if !ok {
		return "", fmt.Errorf("zone %s: %w", name, ErrZoneNotConfigured)
	}
	if z.APIKey != "" {
		return z.APIKey, nil
	}
	return g.APIKey, nil
}

// Load reads config.toml from dir. A missing file is not fatal; defaults
// and environment overrides still apply.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, "config.toml")

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		slog.Default().Warn("fail find config file, proceeding", "path", path)
	case err != nil:
		return nil, err
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if cfg.Gandi.URL == "" {
		cfg.Gandi.URL = defaultGandiURL
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaultLogLevel
	}
	if cfg.Log.Env == "" {
		cfg.Log.Env = defaultLogEnv
	}
	if cfg.Metrics.Addr == "" {
		cfg.Metrics.Addr = defaultMetricsAddr
	}

	// Override from environment if set
	if url := os.Getenv("GANDI_DNS_SYNC_INVENTORY_URL"); url != "" {
		cfg.Inventory.URL = url
	}
	if token := os.Getenv("GANDI_DNS_SYNC_INVENTORY_TOKEN"); token != "" {
		cfg.Inventory.Token = token
	}
	if key := os.Getenv("GANDI_DNS_SYNC_API_KEY"); key != "" {
		cfg.Gandi.APIKey = key
	}
	if url := os.Getenv("GANDI_DNS_SYNC_GANDI_URL"); url != "" {
		cfg.Gandi.URL = url
	}
	if level := os.Getenv("GANDI_DNS_SYNC_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if env := os.Getenv("GANDI_DNS_SYNC_LOG_ENV"); env != "" {
		cfg.Log.Env = env
	}
	if addr := os.Getenv("GANDI_DNS_SYNC_METRICS_ADDR"); addr != "" {
		cfg.Metrics.Addr = addr
	}
	return &cfg, nil
}
