package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "TASKDESK"

// legacyEnv lists unprefixed variable names still honoured for some keys.
var legacyEnv = map[string][]string{
	"smtp.host":     {"SMTP_HOST"},
	"smtp.port":     {"SMTP_PORT"},
	"smtp.user":     {"SMTP_USER"},
	"smtp.password": {"SMTP_PASSWORD"},
	"smtp.from":     {"EMAIL_FROM"},
	"redis.url":     {"REDIS_URL"},
	"database.url":  {"DATABASE_URL"},
}

// keys lists every configuration key so each one can be bound to the environment.
var keys = []string{
	"server.port",
	"server.log_level",
	"server.log_file",
	"server.log_max_size_mb",
	"server.log_max_backups",
	"server.log_max_age_days",
	"server.shutdown_timeout_seconds",
	"database.url",
	"database.max_open_conns",
	"database.max_idle_conns",
	"database.conn_max_lifetime_minutes",
	"database.auto_migrate",
	"auth.jwt_secret",
	"auth.token_lifetime_minutes",
	"smtp.host",
	"smtp.port",
	"smtp.user",
	"smtp.password",
	"smtp.from",
	"smtp.timeout_seconds",
	"redis.url",
	"redis.lease_ttl_seconds",
	"deadline.lookahead_hours",
	"deadline.lookahead_offset_hours",
	"deadline.resend_limit",
	"metrics.enabled",
	"metrics.namespace",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.log_max_size_mb", 100)
	v.SetDefault("server.log_max_backups", 3)
	v.SetDefault("server.log_max_age_days", 28)
	v.SetDefault("server.shutdown_timeout_seconds", 15)
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 25)
	v.SetDefault("database.conn_max_lifetime_minutes", 5)
	v.SetDefault("auth.token_lifetime_minutes", 60)
	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.timeout_seconds", 10)
	v.SetDefault("redis.lease_ttl_seconds", 300)
	v.SetDefault("deadline.lookahead_hours", 24)
	v.SetDefault("deadline.lookahead_offset_hours", 24)
	v.SetDefault("deadline.resend_limit", 100)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.namespace", "taskdesk")
}

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom behaves like Load but reads the named config file instead of
// searching for config.yaml in the working directory.
func LoadFrom(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range keys {
		if err := bindEnv(v, key); err != nil {
			return nil, fmt.Errorf("error binding environment for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func bindEnv(v *viper.Viper, key string) error {
	prefixed := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
	names := append([]string{key, prefixed}, legacyEnv[key]...)
	return v.BindEnv(names...)
}
