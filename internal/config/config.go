// Package config loads the service configuration from configs/config.yml and BSCHED_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "BSCHED"

// Storage drivers.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

type Config struct {
	Port    string
	Log     LogConfig
	Storage StorageConfig
	DB      DBConfig
	Auth    AuthConfig
	Events  EventsConfig
	WS      WSConfig
	Metrics MetricsConfig
	Server  ServerConfig
}

type LogConfig struct {
	Level  string
	Format string
}

type StorageConfig struct {
	Driver string
	Dir    string
}

type DBConfig struct {
	Path string
}

type AuthConfig struct {
	Enabled    bool
	SigningKey string
	TokenTTL   time.Duration
}

type EventsConfig struct {
	// AtomicEdit stages an edit and writes it once; false deletes the original before validating the replacement.
	AtomicEdit bool
}

type WSConfig struct {
	Interval time.Duration
}

type MetricsConfig struct {
	Enabled bool
}

type ServerConfig struct {
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("storage.driver", DriverFile)
	v.SetDefault("storage.dir", "Schedules")
	v.SetDefault("db.path", "app.db")
	v.SetDefault("auth.enabled", true)
	v.SetDefault("auth.signing_key", "dev-signing-key")
	v.SetDefault("auth.token_ttl", time.Hour)
	v.SetDefault("events.atomic_edit", true)
	v.SetDefault("ws.interval", 5*time.Second)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("server.read_header_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
}

// Load reads config.yml from the given search paths; a missing file falls back to defaults.
func Load(paths ...string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := Config{
		Port: v.GetString("port"),
		Log: LogConfig{
			Level:  strings.ToLower(v.GetString("log.level")),
			Format: strings.ToLower(v.GetString("log.format")),
		},
		Storage: StorageConfig{
			Driver: strings.ToLower(v.GetString("storage.driver")),
			Dir:    v.GetString("storage.dir"),
		},
		DB: DBConfig{Path: v.GetString("db.path")},
		Auth: AuthConfig{
			Enabled:    v.GetBool("auth.enabled"),
			SigningKey: v.GetString("auth.signing_key"),
			TokenTTL:   v.GetDuration("auth.token_ttl"),
		},
		Events:  EventsConfig{AtomicEdit: v.GetBool("events.atomic_edit")},
		WS:      WSConfig{Interval: v.GetDuration("ws.interval")},
		Metrics: MetricsConfig{Enabled: v.GetBool("metrics.enabled")},
		Server: ServerConfig{
			ReadHeaderTimeout: v.GetDuration("server.read_header_timeout"),
			WriteTimeout:      v.GetDuration("server.write_timeout"),
			IdleTimeout:       v.GetDuration("server.idle_timeout"),
			ShutdownTimeout:   v.GetDuration("server.shutdown_timeout"),
		},
	}
	return cfg, cfg.Validate()
}

// Validate rejects settings the service cannot start with.
func (c Config) Validate() error {
	switch c.Storage.Driver {
	case DriverFile:
		if strings.TrimSpace(c.Storage.Dir) == "" {
			return errors.New("storage.dir is required for the file driver")
		}
	case DriverSQLite:
	default:
		return fmt.Errorf("unknown storage.driver %q", c.Storage.Driver)
	}
	if strings.TrimSpace(c.DB.Path) == "" {
		return errors.New("db.path is required")
	}
	if c.Auth.Enabled && strings.TrimSpace(c.Auth.SigningKey) == "" {
		return errors.New("auth.signing_key is required when auth is enabled")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive, got %s", c.Auth.TokenTTL)
	}
	if c.WS.Interval <= 0 {
		return fmt.Errorf("ws.interval must be positive, got %s", c.WS.Interval)
	}
	return nil
}
