package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"github.com/julianstephens/daycount/internal/constants"
)

// durationSeconds parses "60s", "5m" or a bare number of seconds.
type durationSeconds time.Duration

func (d *durationSeconds) UnmarshalEnvironment(data string) error {
	v, err := ParseDuration(data)
	if err != nil {
		return err
	}
	*d = durationSeconds(v)
	return nil
}

func (d durationSeconds) Duration() time.Duration { return time.Duration(d) }

// ParseDuration accepts a Go duration string or a bare integer number of seconds.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.Trim(strings.TrimSpace(s), `"'`)
	if s == "" {
		return 0, errors.New("empty duration")
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("duration must be like 60s, 5m or a number of seconds: %w", err)
	}
	return d, nil
}

type Config struct {
	App      AppConfig
	Storage  StorageConfig
	Refresh  RefreshConfig
	Identity IdentityConfig
}

type AppConfig struct {
	Debug bool `env:"DAYCOUNT_DEBUG" env-default:"false"`
}

type StorageConfig struct {
	// Config is a SQLite/JSON file path or a postgres://, redis:// or mongodb:// URL.
	Config string `env:"DAYCOUNT_CONFIG" env-default:"~/.config/daycount/daycount.db"`
	// Connection holds a PostgreSQL connection string with credentials, which
	// must never be passed on the command line.
	Connection string `env:"DAYCOUNT_DB_CONNECTION" env-default:""`
}

type RefreshConfig struct {
	Interval durationSeconds `env:"DAYCOUNT_REFRESH_INTERVAL" env-default:"60"`
}

type IdentityConfig struct {
	// Override pins the identity instead of reading it from the keyring.
	Override string `env:"DAYCOUNT_IDENTITY" env-default:""`
}

// Load reads optional dotenv files and then the process environment.
// Missing dotenv files are ignored; variables already set win over the file.
func Load(envFiles ...string) (Config, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read env: %w", err)
	}
	if cfg.Refresh.Interval.Duration() <= 0 {
		return Config{}, fmt.Errorf("DAYCOUNT_REFRESH_INTERVAL must be positive, got %s", cfg.Refresh.Interval.Duration())
	}
	return cfg, nil
}

// RefreshInterval returns the configured refresh period.
func (c Config) RefreshInterval() time.Duration {
	return c.Refresh.Interval.Duration()
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// IsRemote reports whether target names a network store rather than a local file.
func IsRemote(target string) bool {
	for _, prefix := range []string{"postgres://", "postgresql://", "redis://", "rediss://", "mongodb://", "mongodb+srv://"} {
		if strings.HasPrefix(target, prefix) {
			return true
		}
	}
	return false
}

// Dir returns the directory used for logs, lockfiles and backups. Remote
// targets fall back to the default local config directory.
func Dir(target string) (string, error) {
	if IsRemote(target) {
		target = constants.DefaultConfigPath
	}
	expanded, err := ExpandHome(target)
	if err != nil {
		return "", err
	}
	return filepath.Dir(expanded), nil
}

// SetRefreshInterval overrides the refresh period, typically from a flag.
func (c *Config) SetRefreshInterval(d time.Duration) {
	c.Refresh.Interval = durationSeconds(d)
}
