package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/OldStager01/latency-dashboard/internal/logger"
)

const defaultMaxBytes = 64 << 20

// HTTP downloads the table from a URL. The body is read fully before Open
// returns so that a parse never races a slow server.
type HTTP struct {
	client   *http.Client
	url      string
	maxBytes int64
}

type HTTPConfig struct {
	URL      string
	Timeout  time.Duration
	MaxBytes int64
	Client   *http.Client
}

func NewHTTP(cfg HTTPConfig) *HTTP {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	maxBytes := cfg.MaxBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxBytes
	}

	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}

	return &HTTP{client: client, url: cfg.URL, maxBytes: maxBytes}
}

func (h *HTTP) Open(ctx context.Context) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrFetchFailed, err)
	}
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.5")

	logger.Debugf("Fetching measurement source %s", h)

	resp, err := h.client.Do(req)
	if err != nil {
		var uerr *url.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &uerr) && uerr.Timeout()) {
			return nil, fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, h)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status code %d", ErrFetchFailed, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, h.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %v", ErrFetchFailed, err)
	}
	if int64(len(body)) > h.maxBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, h.maxBytes)
	}

	logger.Debugf("Fetched %d bytes from %s", len(body), h)
	return io.NopCloser(bytes.NewReader(body)), nil
}

// HealthCheck sends a HEAD request to the source URL.
func (h *HTTP) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, h.url, nil)
	if err != nil {
		return fmt.Errorf("failed to create health check request: %w", err)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}
	return nil
}

// String hides credentials embedded in the URL.
func (h *HTTP) String() string {
	u, err := url.Parse(h.url)
	if err != nil {
		return h.url
	}
	return u.Redacted()
}

func (h *HTTP) Close() error {
	h.client.CloseIdleConnections()
	return nil
}
