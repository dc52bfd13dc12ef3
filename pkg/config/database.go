package config

import (
	"github.com/OldStager01/latency-dashboard/internal/resilience"
	"github.com/OldStager01/latency-dashboard/internal/source"
	"github.com/OldStager01/latency-dashboard/pkg/database"
)

func (f FetchConfig) ToSourceConfig() source.Config {
	return source.Config{
		Timeout:       f.Timeout,
		RetryAttempts: f.RetryAttempts,
		RetryDelay:    f.RetryDelay,
		MaxBytes:      f.MaxBytes,
		Breaker:       f.CircuitBreaker.ToBreakerConfig("source"),
	}
}

func (d DatabaseConfig) ToDBConfig() database.Config {
	return database.Config{
		Host:            d.Host,
		Port:            d.Port,
		Name:            d.Name,
		User:            d.User,
		Password:        d.Password,
		MaxConnections:  d.MaxConnections,
		SSLMode:         d.SSLMode,
		ConnMaxLifetime: d.ConnMaxLifetime,
		ConnMaxIdleTime: d.ConnMaxIdleTime,
		PingTimeout:     d.PingTimeout,
	}
}

func (c CircuitBreakerConfig) ToBreakerConfig(name string) resilience.CircuitBreakerConfig {
	return resilience.CircuitBreakerConfig{
		Name:         name,
		MaxFailures:  c.MaxFailures,
		ResetTimeout: c.ResetTimeout,
		CallTimeout:  c.CallTimeout,
		HalfOpenMax:  c.HalfOpenMax,
	}
}
