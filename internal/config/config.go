// Package config loads runtime configuration from an optional YAML file,
// .env files and environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	DB       DatabaseConfig `mapstructure:"db"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Logger   LoggerConfig   `mapstructure:"logger"`
	Sentry   SentryConfig   `mapstructure:"sentry"`
	filePath string
}

type AppConfig struct {
	Env  string `mapstructure:"env" validate:"required"`
	Name string `mapstructure:"name" validate:"required"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port" validate:"min=1,max=65535"`
	GinMode         string        `mapstructure:"gin_mode" validate:"oneof=debug release test"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"min=0"`
	// RateLimit is the number of requests per second accepted across all
	// clients. Zero disables limiting.
	RateLimit float64 `mapstructure:"rate_limit" validate:"min=0"`
	RateBurst int     `mapstructure:"rate_burst" validate:"min=0"`
}

type DatabaseConfig struct {
	Driver       string `mapstructure:"driver" validate:"oneof=mysql postgres sqlite"`
	Host         string `mapstructure:"host"`
	Port         string `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	Name         string `mapstructure:"name"`
	SSLMode      string `mapstructure:"sslmode"`
	Path         string `mapstructure:"path"`
	LogLevel     string `mapstructure:"log_level" validate:"oneof=silent error warn info"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"min=0"`
	MaxIdleConns int    `mapstructure:"max_idle_conns" validate:"min=0"`
}

type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Addr     string        `mapstructure:"addr" validate:"required_if=Enabled true"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db" validate:"min=0"`
	CacheTTL time.Duration `mapstructure:"cache_ttl" validate:"min=0"`
}

type LoggerConfig struct {
	Level      string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format     string `mapstructure:"format" validate:"oneof=json text"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" validate:"min=0"`
	MaxBackups int    `mapstructure:"max_backups" validate:"min=0"`
	MaxAgeDays int    `mapstructure:"max_age_days" validate:"min=0"`
}

type SentryConfig struct {
	Enabled          bool    `mapstructure:"enabled"`
	DSN              string  `mapstructure:"dsn" validate:"required_if=Enabled true"`
	Environment      string  `mapstructure:"environment"`
	TracesSampleRate float64 `mapstructure:"traces_sample_rate" validate:"min=0,max=1"`
}

var defaults = map[string]any{
	"app.env":  "development",
	"app.name": "treeApp",

	"server.port":             8080,
	"server.gin_mode":         "debug",
	"server.shutdown_timeout": 10 * time.Second,
	"server.rate_limit":       0.0,
	"server.rate_burst":       50,

	"db.driver":         "mysql",
	"db.host":           "localhost",
	"db.port":           "3306",
	"db.user":           "tree",
	"db.password":       "",
	"db.name":           "tree",
	"db.sslmode":        "disable",
	"db.path":           "tree.db",
	"db.log_level":      "warn",
	"db.max_open_conns": 10,
	"db.max_idle_conns": 5,

	"redis.enabled":   false,
	"redis.addr":      "localhost:6379",
	"redis.password":  "",
	"redis.db":        0,
	"redis.cache_ttl": time.Hour,

	"logger.level":        "info",
	"logger.format":       "json",
	"logger.file":         "",
	"logger.max_size_mb":  100,
	"logger.max_backups":  3,
	"logger.max_age_days": 28,

	"sentry.enabled":            false,
	"sentry.dsn":                "",
	"sentry.environment":        "",
	"sentry.traces_sample_rate": 0.0,
}

// Load reads configuration from configs/<APP_ENV>.yaml (optional) and the
// environment, validates it and returns it together with the viper instance
// it was read from.
func Load() (*Config, *viper.Viper, error) {
	// .env files are optional; the environment alone is a valid source.
	_ = godotenv.Load(".env.local", ".env")

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	env := v.GetString("app.env")
	v.SetConfigName(env)
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg, err := decode(v)
	if err != nil {
		return nil, nil, err
	}
	return cfg, v, nil
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.filePath = v.ConfigFileUsed()

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the struct-level constraints of cfg.
func Validate(cfg *Config) error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	return nil
}

// FileUsed returns the configuration file that was read, or "" when the
// configuration came from the environment only.
func (c *Config) FileUsed() string {
	return c.filePath
}

// Watch re-reads the configuration file whenever it changes and passes the
// new, validated configuration to onChange. Invalid edits are reported via
// onError and otherwise ignored. Watch is a no-op when no file was read.
func Watch(v *viper.Viper, onChange func(*Config), onError func(error)) {
	if v == nil || v.ConfigFileUsed() == "" {
		return
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := decode(v)
		if err != nil {
			if onError != nil {
				onError(fmt.Errorf("reload %s: %w", e.Name, err))
			}
			return
		}
		if onChange != nil {
			onChange(cfg)
		}
	})
	v.WatchConfig()
}
