package config

import (
	"errors"
	"fmt"
	"time"
)

func (c *Config) Validate() error {
	var errs []error

	// App validation
	if c.App.Name == "" {
		errs = append(errs, errors.New("app.name is required"))
	}

	validModes := map[string]bool{"development": true, "production": true, "test": true}
	if !validModes[c.App.Mode] {
		errs = append(errs, fmt.Errorf("app.mode must be one of: development, production, test"))
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.App.LogLevel] {
		errs = append(errs, fmt.Errorf("app.log_level must be one of: debug, info, warn, error"))
	}

	// Data validation
	if c.Data.Path == "" {
		errs = append(errs, errors.New("data.path is required"))
	}
	if _, err := c.Data.Location(); err != nil {
		errs = append(errs, err)
	}
	if c.Data.Fetch.RetryAttempts < 0 {
		errs = append(errs, errors.New("data.fetch.retry_attempts must not be negative"))
	}
	if c.Data.Monitor.Interval < 0 {
		errs = append(errs, errors.New("data.monitor.interval must not be negative"))
	}
	if c.Data.Monitor.Interval > 0 && c.Data.Monitor.Interval < time.Second {
		errs = append(errs, errors.New("data.monitor.interval must be at least 1s"))
	}

	// Threshold validation
	t := c.Thresholds
	if t.Min > t.Max {
		errs = append(errs, errors.New("thresholds.min must not be greater than thresholds.max"))
	}
	if t.DefaultMin > t.DefaultMax {
		errs = append(errs, errors.New("thresholds.default_min must not be greater than default_max"))
	}
	if t.DefaultMin < t.Min || t.DefaultMax > t.Max {
		errs = append(errs, errors.New("thresholds defaults must lie within thresholds.min and thresholds.max"))
	}

	// Database validation
	if c.Database.Enabled {
		if c.Database.Host == "" {
			errs = append(errs, errors.New("database.host is required"))
		}
		if c.Database.Port <= 0 || c.Database.Port > 65535 {
			errs = append(errs, errors.New("database.port must be between 1 and 65535"))
		}
		if c.Database.Name == "" {
			errs = append(errs, errors.New("database.name is required"))
		}
		if c.Database.MaxConnections <= 0 {
			errs = append(errs, errors.New("database.max_connections must be positive"))
		}
	}

	// History validation
	if c.History.DefaultLimit <= 0 || c.History.DefaultLimit > c.History.MaxLimit {
		errs = append(errs, errors.New("history.default_limit must be positive and not above history.max_limit"))
	}

	// API validation
	if c.API.Port <= 0 || c.API.Port > 65535 {
		errs = append(errs, errors.New("api.port must be between 1 and 65535"))
	}
	if c.App.Mode == "production" && c.API.JWTSecret == DefaultJWTSecret {
		errs = append(errs, errors.New("api.jwt_secret must be changed in production"))
	}
	if c.API.Auth.Enabled && c.API.Auth.PasswordHash == "" {
		errs = append(errs, errors.New("api.auth.password_hash is required when auth is enabled"))
	}

	if c.Events.AlertCooldown < 0 {
		errs = append(errs, errors.New("events.alert_cooldown must not be negative"))
	}

	if c.Prometheus.Enabled && c.Prometheus.Port == c.API.Port {
		errs = append(errs, errors.New("prometheus.port must differ from api.port"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %v", errs)
	}

	return nil
}

