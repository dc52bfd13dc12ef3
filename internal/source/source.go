package source

import (
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/OldStager01/latency-dashboard/internal/dataset"
	"github.com/OldStager01/latency-dashboard/internal/resilience"
)

var (
	ErrFetchFailed   = errors.New("source fetch failed")
	ErrTimeout       = errors.New("source fetch timeout")
	ErrNotFound      = errors.New("source not found")
	ErrTooLarge      = errors.New("source exceeds size limit")
	ErrInvalidSource = errors.New("invalid source location")
)

// Config tunes remote sources. Local files ignore it.
type Config struct {
	Timeout       time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
	MaxBytes      int64
	Breaker       resilience.CircuitBreakerConfig
}

// IsRemote reports whether location is an http(s) URL.
func IsRemote(location string) bool {
	lower := strings.ToLower(location)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// New returns a file source for paths and a retrying, breaker guarded HTTP
// source for URLs.
func New(location string, cfg Config) (dataset.Source, error) {
	if location == "" {
		return nil, ErrInvalidSource
	}
	if !IsRemote(location) {
		return dataset.FileSource(location), nil
	}

	u, err := url.Parse(location)
	if err != nil || u.Host == "" {
		return nil, errors.Join(ErrInvalidSource, err)
	}

	return NewResilient(ResilientConfig{
		Source:        NewHTTP(HTTPConfig{URL: u.String(), Timeout: cfg.Timeout, MaxBytes: cfg.MaxBytes}),
		RetryAttempts: cfg.RetryAttempts,
		RetryDelay:    cfg.RetryDelay,
		Breaker:       cfg.Breaker,
	}), nil
}
