package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	defaultEnvFile         = ".env"
	defaultAddr            = ":8080"
	defaultReadTimeout     = 15 * time.Second
	defaultWriteTimeout    = 30 * time.Second
	defaultIdleTimeout     = 120 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultEnvironment     = EnvLocal
	defaultLogLevel        = "info"
	defaultContentCacheTTL = 5 * time.Minute
	defaultSessionTTL      = 30 * 24 * time.Hour

	minSigningKeyLength = 32
)

// Environments accepted by OPUS_WEB_ENV.
const (
	EnvLocal = "local"
	EnvProd  = "prod"
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Environment string
	Server      ServerConfig
	Session     SessionConfig
	Log         LogConfig
	Content     ContentConfig
	Metrics     MetricsConfig
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// SessionConfig controls the signed session cookie.
type SessionConfig struct {
	SigningKey string
	TTL        time.Duration
}

// LogConfig selects the zap level.
type LogConfig struct {
	Level string
}

// ContentConfig tunes the page store.
type ContentConfig struct {
	CacheTTL time.Duration
}

// MetricsConfig toggles the /metrics endpoint.
type MetricsConfig struct {
	Enabled bool
}

// IsProduction reports whether the service runs with production settings.
func (c Config) IsProduction() bool { return c.Environment == EnvProd }

// ValidationError is returned when required configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Option customises Load behaviour.
type Option func(*loaderOptions)

type loaderOptions struct {
	envFile      string
	envMap       map[string]string
	useSystemEnv bool
}

// WithEnvFile overrides the .env file path used for local overrides.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) {
		o.envFile = path
	}
}

// WithEnvMap injects an explicit key/value map for environment lookups. Values in the map
// take precedence over system environment variables.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv disables reading from os.Getenv, relying only on provided maps and .env files.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

// Load assembles the configuration by combining defaults, .env overrides,
// environment variables, and an explicit map, in increasing precedence.
func Load(opts ...Option) (Config, error) {
	options := loaderOptions{
		envFile:      defaultEnvFile,
		useSystemEnv: true,
	}
	for _, opt := range opts {
		opt(&options)
	}

	dotEnvValues, err := loadDotEnv(options.envFile)
	if err != nil {
		return Config{}, err
	}

	lookup := func(key string) (string, bool) {
		if options.envMap != nil {
			if value, ok := options.envMap[key]; ok {
				return value, true
			}
		}
		if options.useSystemEnv {
			if value, ok := os.LookupEnv(key); ok {
				return value, true
			}
		}
		if dotEnvValues != nil {
			if value, ok := dotEnvValues[key]; ok {
				return value, true
			}
		}
		return "", false
	}

	var invalid []string
	duration := func(key string, fallback time.Duration) time.Duration {
		d, ok := durationWithDefault(lookup, key, fallback)
		if !ok {
			invalid = append(invalid, key)
		}
		return d
	}

	cfg := Config{
		Environment: strings.ToLower(stringWithDefault(lookup, "OPUS_WEB_ENV", defaultEnvironment)),
		Server: ServerConfig{
			Addr:            addr(lookup),
			ReadTimeout:     duration("OPUS_WEB_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout:    duration("OPUS_WEB_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:     duration("OPUS_WEB_IDLE_TIMEOUT", defaultIdleTimeout),
			ShutdownTimeout: duration("OPUS_WEB_SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		},
		Session: SessionConfig{
			SigningKey: stringWithDefault(lookup, "OPUS_WEB_SESSION_SIGNING_KEY", ""),
			TTL:        duration("OPUS_WEB_SESSION_TTL", defaultSessionTTL),
		},
		Log: LogConfig{
			Level: strings.ToLower(stringWithDefault(lookup, "OPUS_WEB_LOG_LEVEL", defaultLogLevel)),
		},
		Content: ContentConfig{
			CacheTTL: duration("OPUS_WEB_CONTENT_CACHE_TTL", defaultContentCacheTTL),
		},
		Metrics: MetricsConfig{
			Enabled: boolWithDefault(lookup, "OPUS_WEB_METRICS_ENABLED", true),
		},
	}

	if err := validateConfig(cfg, invalid); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// addr prefers OPUS_WEB_ADDR, then a bare PORT as set by most platforms.
func addr(lookup func(string) (string, bool)) string {
	if v, ok := lookup("OPUS_WEB_ADDR"); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	if v, ok := lookup("PORT"); ok && strings.TrimSpace(v) != "" {
		return ":" + strings.TrimPrefix(strings.TrimSpace(v), ":")
	}
	return defaultAddr
}

func validateConfig(cfg Config, invalid []string) error {
	missing := append([]string(nil), invalid...)
	switch cfg.Environment {
	case EnvLocal, EnvProd:
	default:
		missing = append(missing, "Environment")
	}
	if cfg.Server.Addr == "" {
		missing = append(missing, "Server.Addr")
	}
	for name, d := range map[string]time.Duration{
		"Server.ReadTimeout":     cfg.Server.ReadTimeout,
		"Server.WriteTimeout":    cfg.Server.WriteTimeout,
		"Server.IdleTimeout":     cfg.Server.IdleTimeout,
		"Server.ShutdownTimeout": cfg.Server.ShutdownTimeout,
		"Session.TTL":            cfg.Session.TTL,
		"Content.CacheTTL":       cfg.Content.CacheTTL,
	} {
		if d <= 0 {
			missing = append(missing, name)
		}
	}
	if cfg.IsProduction() && len(cfg.Session.SigningKey) < minSigningKeyLength {
		missing = append(missing, "Session.SigningKey")
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return &ValidationError{fields: missing}
	}
	return nil
}

func loadDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	file, err := os.Open(absPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: unable to read %s: %w", absPath, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	values := make(map[string]string)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "export ") {
			line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if key == "" {
			continue
		}
		value = strings.Trim(value, "\"'")
		values[key] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("config: failed parsing %s: %w", absPath, err)
	}
	return values, nil
}

func stringWithDefault(lookup func(string) (string, bool), key, fallback string) string {
	if value, ok := lookup(key); ok && value != "" {
		return value
	}
	return fallback
}

// durationWithDefault reports false when a value is present but unparsable.
func durationWithDefault(lookup func(string) (string, bool), key string, fallback time.Duration) (time.Duration, bool) {
	if value, ok := lookup(key); ok && value != "" {
		d, err := time.ParseDuration(value)
		if err != nil {
			return fallback, false
		}
		return d, true
	}
	return fallback, true
}

func boolWithDefault(lookup func(string) (string, bool), key string, fallback bool) bool {
	if value, ok := lookup(key); ok && value != "" {
		switch strings.ToLower(value) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return fallback
}
