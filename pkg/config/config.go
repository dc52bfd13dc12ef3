package config

import (
	"fmt"
	"time"
)

type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Data       DataConfig       `mapstructure:"data"`
	Thresholds ThresholdsConfig `mapstructure:"thresholds"`
	Database   DatabaseConfig   `mapstructure:"database"`
	History    HistoryConfig    `mapstructure:"history"`
	API        APIConfig        `mapstructure:"api"`
	WebSocket  WebSocketConfig  `mapstructure:"websocket"`
	Prometheus PrometheusConfig `mapstructure:"prometheus"`
	Events     EventsConfig     `mapstructure:"events"`
}

type AppConfig struct {
	Name            string        `mapstructure:"name"`
	Mode            string        `mapstructure:"mode"`
	LogLevel        string        `mapstructure:"log_level"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DataConfig locates the measurement source.
// Path is a local file or an http(s) URL.
type DataConfig struct {
	Path           string        `mapstructure:"path"`
	Timezone       string        `mapstructure:"timezone"`
	ExportFilename string        `mapstructure:"export_filename"`
	Fetch          FetchConfig   `mapstructure:"fetch"`
	Monitor        MonitorConfig `mapstructure:"monitor"`
}

// FetchConfig applies when data.path is a URL.
type FetchConfig struct {
	Timeout        time.Duration        `mapstructure:"timeout"`
	RetryAttempts  int                  `mapstructure:"retry_attempts"`
	RetryDelay     time.Duration        `mapstructure:"retry_delay"`
	MaxBytes       int64                `mapstructure:"max_bytes"`
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`
}

// MonitorConfig drives periodic reloads. A zero interval disables them.
type MonitorConfig struct {
	Interval time.Duration `mapstructure:"interval"`
	Servers  []string      `mapstructure:"servers"`
}

// Location resolves Timezone, defaulting to UTC.
func (d DataConfig) Location() (*time.Location, error) {
	if d.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(d.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid data.timezone %q: %w", d.Timezone, err)
	}
	return loc, nil
}

// ThresholdsConfig holds the slider bounds and its initial position, in
// microseconds.
type ThresholdsConfig struct {
	Min        float64 `mapstructure:"min"`
	Max        float64 `mapstructure:"max"`
	DefaultMin float64 `mapstructure:"default_min"`
	DefaultMax float64 `mapstructure:"default_max"`
}

type DatabaseConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	Host             string        `mapstructure:"host"`
	Port             int           `mapstructure:"port"`
	Name             string        `mapstructure:"name"`
	User             string        `mapstructure:"user"`
	Password         string        `mapstructure:"password"`
	MaxConnections   int           `mapstructure:"max_connections"`
	SSLMode          string        `mapstructure:"ssl_mode"`
	ConnMaxLifetime  time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime  time.Duration `mapstructure:"conn_max_idle_time"`
	PingTimeout      time.Duration `mapstructure:"ping_timeout"`
	MigrationTimeout time.Duration `mapstructure:"migration_timeout"`
}

// HistoryConfig tunes persistence of evaluated statuses.
type HistoryConfig struct {
	DefaultLimit   int                  `mapstructure:"default_limit"`
	MaxLimit       int                  `mapstructure:"max_limit"`
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`
}

type CircuitBreakerConfig struct {
	MaxFailures  int           `mapstructure:"max_failures"`
	ResetTimeout time.Duration `mapstructure:"reset_timeout"`
	CallTimeout  time.Duration `mapstructure:"call_timeout"`
	HalfOpenMax  int           `mapstructure:"half_open_max"`
}

type APIConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	RateLimit    int           `mapstructure:"rate_limit"`
	ReloadLimit  int           `mapstructure:"reload_limit"`
	JWTSecret    string        `mapstructure:"jwt_secret"`
	JWTDuration  time.Duration `mapstructure:"jwt_duration"`
	JWTIssuer    string        `mapstructure:"jwt_issuer"`
	Auth         AuthConfig    `mapstructure:"auth"`
	CORS         CORSConfig    `mapstructure:"cors"`
}

// AuthConfig guards the mutating endpoints. PasswordHash is a bcrypt hash.
type AuthConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	Username     string `mapstructure:"username"`
	PasswordHash string `mapstructure:"password_hash"`
}

type WebSocketConfig struct {
	MaxConnections  int           `mapstructure:"max_connections"`
	PingInterval    time.Duration `mapstructure:"ping_interval"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	PongTimeout     time.Duration `mapstructure:"pong_timeout"`
	MaxMessageSize  int64         `mapstructure:"max_message_size"`
	ReadBufferSize  int           `mapstructure:"read_buffer_size"`
	WriteBufferSize int           `mapstructure:"write_buffer_size"`
	BroadcastBuffer int           `mapstructure:"broadcast_buffer"`
	ClientBuffer    int           `mapstructure:"client_buffer"`
}

type PrometheusConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
}

type EventsConfig struct {
	BufferSize int `mapstructure:"buffer_size"`

	// AlertCooldown spaces out repeated alerts for an unchanged status.
	AlertCooldown time.Duration `mapstructure:"alert_cooldown"`
}
