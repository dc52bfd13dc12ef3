package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const DefaultJWTSecret = "change-me-in-production"

// Load reads configuration from the given file, or from config.yaml in the
// usual locations, with DASHBOARD_* environment variables on top.
func Load(configPath string) (*Config, error) {
	return LoadWith(viper.New(), configPath)
}

// LoadWith loads into v, which may already carry bound command line flags.
func LoadWith(v *viper.Viper, configPath string) (*Config, error) {
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/latency-dashboard")
	}

	v.SetEnvPrefix("DASHBOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "latency-dashboard")
	v.SetDefault("app.mode", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.shutdown_timeout", "10s")

	// Data defaults
	v.SetDefault("data.path", "data.csv")
	v.SetDefault("data.timezone", "UTC")
	v.SetDefault("data.export_filename", "dados.csv")
	v.SetDefault("data.fetch.timeout", "10s")
	v.SetDefault("data.fetch.retry_attempts", 3)
	v.SetDefault("data.fetch.retry_delay", "1s")
	v.SetDefault("data.fetch.max_bytes", 64<<20)
	v.SetDefault("data.fetch.circuit_breaker.max_failures", 3)
	v.SetDefault("data.fetch.circuit_breaker.reset_timeout", "1m")
	v.SetDefault("data.fetch.circuit_breaker.half_open_max", 1)
	v.SetDefault("data.monitor.interval", "0s")

	// Slider defaults
	v.SetDefault("thresholds.min", 0.0)
	v.SetDefault("thresholds.max", 10000.0)
	v.SetDefault("thresholds.default_min", 100.0)
	v.SetDefault("thresholds.default_max", 500.0)

	// Database defaults
	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "latency_dashboard")
	v.SetDefault("database.user", "admin")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.max_connections", 10)
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.migration_timeout", "60s")

	// History defaults
	v.SetDefault("history.default_limit", 50)
	v.SetDefault("history.max_limit", 500)
	v.SetDefault("history.circuit_breaker.max_failures", 5)
	v.SetDefault("history.circuit_breaker.reset_timeout", "30s")
	v.SetDefault("history.circuit_breaker.call_timeout", "2s")
	v.SetDefault("history.circuit_breaker.half_open_max", 3)

	// API defaults
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.read_timeout", "15s")
	v.SetDefault("api.write_timeout", "15s")
	v.SetDefault("api.idle_timeout", "60s")
	v.SetDefault("api.rate_limit", 100)
	v.SetDefault("api.reload_limit", 6)
	v.SetDefault("api.jwt_secret", DefaultJWTSecret)
	v.SetDefault("api.jwt_duration", "1h")
	v.SetDefault("api.jwt_issuer", "latency-dashboard")
	v.SetDefault("api.auth.enabled", false)
	v.SetDefault("api.auth.username", "admin")
	v.SetDefault("api.cors.allowed_origins", []string{"*"})
	v.SetDefault("api.cors.allowed_methods", []string{"GET", "POST", "OPTIONS"})
	v.SetDefault("api.cors.allowed_headers", []string{"Origin", "Content-Type", "Authorization", "X-Trace-ID"})
	v.SetDefault("api.cors.exposed_headers", []string{"Content-Disposition", "X-Trace-ID"})

	// WebSocket defaults
	v.SetDefault("websocket.max_connections", 1000)
	v.SetDefault("websocket.ping_interval", "30s")
	v.SetDefault("websocket.write_timeout", "10s")
	v.SetDefault("websocket.pong_timeout", "60s")
	v.SetDefault("websocket.max_message_size", 4096)
	v.SetDefault("websocket.read_buffer_size", 1024)
	v.SetDefault("websocket.write_buffer_size", 1024)
	v.SetDefault("websocket.broadcast_buffer", 256)
	v.SetDefault("websocket.client_buffer", 64)

	// Prometheus defaults
	v.SetDefault("prometheus.enabled", true)
	v.SetDefault("prometheus.port", 9090)

	// Events defaults
	v.SetDefault("events.buffer_size", 100)
	v.SetDefault("events.alert_cooldown", "5m")
}
