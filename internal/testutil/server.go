package testutil

import (
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"opusconsulting.gr/opus-web/internal/httpserver"
	"opusconsulting.gr/opus-web/internal/observability"
)

// SigningKey is the session key test servers sign cookies with.
const SigningKey = "test-signing-key-0123456789abcdef"

// ServerOption customises the HTTP server configuration for tests.
type ServerOption func(*httpserver.Config)

// WithLogger routes server logs to logger.
func WithLogger(logger *zap.Logger) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.Logger = logger
	}
}

// WithMetrics enables the metrics registry and /metrics.
func WithMetrics(m *observability.Metrics) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.Metrics = m
	}
}

// WithPages overrides the page store.
func WithPages(pages httpserver.PageStore) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.Pages = pages
	}
}

// NewServer constructs an httptest server running the site HTTP stack with
// the embedded content.
func NewServer(t testing.TB, opts ...ServerOption) *httptest.Server {
	t.Helper()

	cfg := httpserver.Config{
		Address:    ":0",
		SessionKey: []byte(SigningKey),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	srv, err := httpserver.New(cfg)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)
	return ts
}

// NewClient returns a client with a cookie jar that does not follow redirects.
func NewClient(t testing.TB) *http.Client {
	t.Helper()

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}
