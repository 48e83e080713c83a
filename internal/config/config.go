package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	SMTP     SMTPConfig     `mapstructure:"smtp"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Deadline DeadlineConfig `mapstructure:"deadline" validate:"required"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// LogFile, when set, receives a copy of the log stream with size-based rotation.
	LogFile                string `mapstructure:"log_file"`
	LogMaxSizeMB           int    `mapstructure:"log_max_size_mb" validate:"gte=0"`
	LogMaxBackups          int    `mapstructure:"log_max_backups" validate:"gte=0"`
	LogMaxAgeDays          int    `mapstructure:"log_max_age_days" validate:"gte=0"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds" validate:"gt=0"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL                    string `mapstructure:"url" validate:"required,url"`
	MaxOpenConns           int    `mapstructure:"max_open_conns" validate:"gt=0"`
	MaxIdleConns           int    `mapstructure:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetimeMinutes int    `mapstructure:"conn_max_lifetime_minutes" validate:"gte=0"`
	AutoMigrate            bool   `mapstructure:"auto_migrate"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"gt=0"`
}

// SMTPConfig configures outgoing email. Email is disabled unless host, user
// and password are all set.
type SMTPConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port" validate:"gt=0,lt=65536"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	From           string `mapstructure:"from"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"gt=0"`
}

// Enabled reports whether enough settings are present to send email.
func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.User != "" && c.Password != ""
}

// Sender returns the From address, falling back to the login user.
func (c SMTPConfig) Sender() string {
	if c.From != "" {
		return c.From
	}
	return c.User
}

// RedisConfig configures the optional sweep lease. An empty URL disables it.
type RedisConfig struct {
	URL             string `mapstructure:"url" validate:"omitempty,url"`
	LeaseTTLSeconds int    `mapstructure:"lease_ttl_seconds" validate:"gt=0"`
}

// DeadlineConfig tunes the deadline sweep.
type DeadlineConfig struct {
	// LookaheadHours is the default window length when none is requested.
	LookaheadHours int `mapstructure:"lookahead_hours" validate:"gt=0"`
	// LookaheadOffsetHours is how far from now the default window starts.
	LookaheadOffsetHours int `mapstructure:"lookahead_offset_hours" validate:"gte=0"`
	ResendLimit          int `mapstructure:"resend_limit" validate:"gt=0"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace" validate:"required_if=Enabled true"`
}
