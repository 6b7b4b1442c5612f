// Package config loads client and dev-server settings from defaults, an
// optional YAML file, an optional .env file and DRAFT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/DoyleJ11/cube-draft/internal/identity"
	"github.com/DoyleJ11/cube-draft/internal/reconnect"
)

const EnvPrefix = "DRAFT"

var ErrInvalid = errors.New("invalid config")

type Reconnect struct {
	BaseDelay time.Duration `mapstructure:"base_delay"`
	MaxDelay  time.Duration `mapstructure:"max_delay"`
}

type Config struct {
	ServerURL   string    `mapstructure:"server_url"`
	LogLevel    string    `mapstructure:"log_level"`
	LogDev      bool      `mapstructure:"log_dev"`
	DeviceFile  string    `mapstructure:"device_file"`
	MetricsAddr string    `mapstructure:"metrics_addr"`
	ListenAddr  string    `mapstructure:"listen_addr"`
	Reconnect   Reconnect `mapstructure:"reconnect"`
}

// New returns a viper instance with every key defaulted and environment
// binding enabled. Callers may bind flags onto it before calling Load.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("server_url", "http://localhost:8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_dev", false)
	v.SetDefault("device_file", "")
	v.SetDefault("metrics_addr", "")
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("reconnect.base_delay", reconnect.DefaultBaseDelay)
	v.SetDefault("reconnect.max_delay", reconnect.DefaultMaxDelay)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads envFile (if present) into the process environment, then the
// YAML file at path (if non-empty), and decodes v into a Config.
func Load(v *viper.Viper, path, envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if cfg.DeviceFile == "" {
		p, err := identity.DefaultPath()
		if err != nil {
			return Config{}, err
		}
		cfg.DeviceFile = p
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch {
	case c.ServerURL == "":
		return fmt.Errorf("%w: server_url is required", ErrInvalid)
	case c.Reconnect.BaseDelay <= 0:
		return fmt.Errorf("%w: reconnect.base_delay must be positive", ErrInvalid)
	case c.Reconnect.MaxDelay < c.Reconnect.BaseDelay:
		return fmt.Errorf("%w: reconnect.max_delay %s below base_delay %s", ErrInvalid, c.Reconnect.MaxDelay, c.Reconnect.BaseDelay)
	}
	return nil
}
