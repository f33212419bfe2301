package httpserver

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"opusconsulting.gr/opus-web/content"
	"opusconsulting.gr/opus-web/internal/cms"
	"opusconsulting.gr/opus-web/internal/i18n"
	"opusconsulting.gr/opus-web/internal/lang"
	custommw "opusconsulting.gr/opus-web/internal/middleware"
	"opusconsulting.gr/opus-web/internal/nav"
	"opusconsulting.gr/opus-web/internal/observability"
	"opusconsulting.gr/opus-web/internal/search"
	"opusconsulting.gr/opus-web/locales"
	"opusconsulting.gr/opus-web/public"
)

// Config holds runtime options for the site HTTP server. Zero values fall back
// to the embedded content, locales and assets.
type Config struct {
	Address         string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	RequestTimeout  time.Duration
	SecureCookies   bool
	SessionKey      []byte
	SessionTTL      time.Duration
	ContentCacheTTL time.Duration

	Logger  *zap.Logger
	Metrics *observability.Metrics

	Pages  PageStore
	Search *search.Index
	Bundle *i18n.Bundle
	Static fs.FS
}

// PageStore loads localized pages.
type PageStore interface {
	Page(ctx context.Context, l lang.Language, path string) (cms.Page, error)
	All(ctx context.Context, l lang.Language) ([]cms.Page, error)
}

// Server holds the dependencies shared by the route handlers.
type Server struct {
	logger   *zap.Logger
	metrics  *observability.Metrics
	pages    PageStore
	index    *search.Index
	bundle   *i18n.Bundle
	sessions *custommw.SessionStore
}

// New validates the navigation table, wires dependencies and returns the
// configured http.Server.
func New(cfg Config) (*http.Server, error) {
	if err := nav.Validate(nav.Main); err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bundle := cfg.Bundle
	if bundle == nil {
		b, err := i18n.Load(locales.FS, lang.Default)
		if err != nil {
			return nil, fmt.Errorf("load locales: %w", err)
		}
		bundle = b
	}
	static := cfg.Static
	if static == nil {
		s, err := public.StaticFS()
		if err != nil {
			return nil, fmt.Errorf("embed static: %w", err)
		}
		static = s
	}
	pages := cfg.Pages
	if pages == nil {
		pages = cms.New(content.FS,
			cms.WithCacheTTL(cfg.ContentCacheTTL),
			cms.WithLogger(logger.Named("cms")),
		)
	}
	index := cfg.Search
	if index == nil {
		index = search.NewIndex(pages)
	}

	s := &Server{
		logger:  logger,
		metrics: cfg.Metrics,
		pages:   pages,
		index:   index,
		bundle:  bundle,
		sessions: custommw.NewSessionStore(cfg.SessionKey,
			custommw.WithSecureCookies(cfg.SecureCookies),
			custommw.WithSessionTTL(cfg.SessionTTL),
			custommw.WithSessionLogger(logger.Named("session")),
		),
	}

	return &http.Server{
		Addr:              cfg.Address,
		Handler:           s.routes(cfg, static),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       durationOr(cfg.ReadTimeout, 15*time.Second),
		WriteTimeout:      durationOr(cfg.WriteTimeout, 30*time.Second),
		IdleTimeout:       durationOr(cfg.IdleTimeout, 120*time.Second),
	}, nil
}

func (s *Server) routes(cfg Config, static fs.FS) http.Handler {
	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(observability.TraceMiddleware())
	router.Use(observability.InjectLoggerMiddleware(s.logger))
	router.Use(observability.RequestLoggerMiddleware(s.metrics))
	router.Use(custommw.Recoverer(s.logger, s.renderPanic))
	router.Use(chimw.Compress(5))
	router.Use(chimw.Timeout(durationOr(cfg.RequestTimeout, 30*time.Second)))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "ok")
	})
	if s.metrics != nil {
		router.Handle("/metrics", s.metrics.Handler())
	}

	router.Handle("/assets/*", custommw.AssetsWithCache(static, "/assets/"))
	rootAssets := custommw.AssetsWithCache(static, "/")
	router.Get(`/{file:[A-Za-z0-9_.-]+\.(?:svg|png|jpg|webp|mp4|ico|css)}`, rootAssets.ServeHTTP)

	router.Group(func(r chi.Router) {
		r.Use(custommw.HTMX)
		r.Use(custommw.Capabilities)
		r.Use(custommw.Language)
		r.Use(s.sessions.Middleware)
		r.Use(custommw.CSRF)

		r.Post("/nav/events", s.navEvents)

		r.Group(func(r chi.Router) {
			r.Use(custommw.TrailingSlash)
			r.Get("/search/", s.searchPage)
			r.Get("/en/search/", s.searchPage)
			r.Get("/*", s.page)
		})
	})
	return router
}

func durationOr(d, fallback time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return fallback
}
