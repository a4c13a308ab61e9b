package polygon

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// baseTransportConfig returns the shared HTTP transport configuration used by Polygon clients.
func baseTransportConfig(timeout time.Duration) *http.Transport {
	return &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		ResponseHeaderTimeout: timeout,
		TLSHandshakeTimeout:   10 * time.Second,
		IdleConnTimeout:       90 * time.Second,
		MaxIdleConnsPerHost:   2,
	}
}

// newHTTPClient creates an HTTP client configured for Polygon requests.
func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: baseTransportConfig(timeout),
		Timeout:   timeout,
	}
}

// NewClient constructs a Client with a shared HTTP client and key pool.
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	pool, err := NewKeyPool(cfg.APIKeys, cfg.Strategy)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		return nil, fmt.Errorf("polygon base URL %q must be http(s)", baseURL)
	}
	c := &Client{
		client:     newHTTPClient(orDefault(cfg.Timeout, 2*time.Minute)),
		baseURL:    baseURL,
		keys:       pool,
		maxRetries: cfg.MaxRetries,
		retryDelay: orDefault(cfg.RetryDelay, defaultRetryDelay),
		logger:     logger.With("provider", "polygon"),
		now:        time.Now,
	}
	if c.maxRetries < 1 {
		c.maxRetries = defaultMaxRetries
	}
	return c, nil
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}
