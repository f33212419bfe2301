package cms

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gopkg.in/yaml.v3"

	"opusconsulting.gr/opus-web/internal/fault"
	"opusconsulting.gr/opus-web/internal/lang"
)

// ErrNotFound is returned when no page exists for a path.
var ErrNotFound = errors.New("cms: not found")

// Page is a localized site page rendered from markdown.
type Page struct {
	Lang     lang.Language
	Path     string // language neutral, trailing slash, e.g. "/vision/mission/"
	Title    string
	Summary  string
	Hero     Hero
	Stats    []Stat
	Timeline []Milestone
	// HTML is the rendered and sanitized body.
	HTML      string
	UpdatedAt time.Time
}

// Hero is the optional banner at the top of a page.
type Hero struct {
	Badge string `yaml:"badge"`
	Image string `yaml:"image"`
	Video string `yaml:"video"`
}

// HasMedia reports whether the hero shows an image or video.
func (h Hero) HasMedia() bool { return h.Image != "" || h.Video != "" }

// Stat is a headline number.
type Stat struct {
	Value string `yaml:"value"`
	Label string `yaml:"label"`
}

// Milestone is a timeline entry.
type Milestone struct {
	Year  string `yaml:"year"`
	Title string `yaml:"title"`
	Text  string `yaml:"text"`
}

type frontMatter struct {
	Title     string      `yaml:"title"`
	Summary   string      `yaml:"summary"`
	UpdatedAt string      `yaml:"updated_at"`
	Hero      Hero        `yaml:"hero"`
	Stats     []Stat      `yaml:"stats"`
	Timeline  []Milestone `yaml:"timeline"`
}

const defaultCacheTTL = 5 * time.Minute

// Store serves pages from an fs.FS laid out as <lang>/<path>.md.
type Store struct {
	fsys   fs.FS
	md     goldmark.Markdown
	policy *bluemonday.Policy
	ttl    time.Duration
	now    func() time.Time
	logger *zap.Logger

	mu    sync.RWMutex
	items map[string]cacheEntry
	group singleflight.Group
}

type cacheEntry struct {
	page    Page
	expires time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithCacheTTL overrides the in-memory cache duration.
func WithCacheTTL(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.ttl = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides time.Now, for cache expiry tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// New returns a store reading from fsys.
func New(fsys fs.FS, opts ...Option) *Store {
	s := &Store{
		fsys: fsys,
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
			// authors may embed figures and video; bluemonday decides what survives
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
		policy: newPagePolicy(),
		ttl:    defaultCacheTTL,
		now:    time.Now,
		logger: zap.NewNop(),
		items:  map[string]cacheEntry{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func newPagePolicy() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowElements("figure", "figcaption")
	policy.AllowAttrs("class").OnElements("figure", "figcaption", "p", "span")
	policy.AllowAttrs("id").OnElements("h2", "h3", "h4")
	policy.AllowAttrs("loading").OnElements("img")
	policy.AddTargetBlankToFullyQualifiedLinks(true)
	return policy
}

// Page returns the page at pagePath in language l.
func (s *Store) Page(ctx context.Context, l lang.Language, pagePath string) (Page, error) {
	file, ok := FilePath(l, pagePath)
	if !ok {
		return Page{}, fault.NotFound("cms page", fmt.Errorf("%w: %q", ErrNotFound, pagePath))
	}
	if page, ok := s.cached(file); ok {
		return page, nil
	}
	if err := ctx.Err(); err != nil {
		return Page{}, err
	}

	v, err, shared := s.group.Do(file, func() (any, error) {
		page, err := s.load(l, file)
		if err != nil {
			return Page{}, err
		}
		s.store(file, page)
		return page, nil
	})
	if err != nil {
		return Page{}, err
	}
	if shared {
		s.logger.Debug("cms load shared", zap.String("file", file))
	}
	return clonePage(v.(Page)), nil
}

// All returns every page of language l, sorted by path.
func (s *Store) All(ctx context.Context, l lang.Language) ([]Page, error) {
	var pages []Page
	root := l.String()
	err := fs.WalkDir(s.fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path.Ext(p) != ".md" {
			return nil
		}
		page, err := s.Page(ctx, l, PagePath(l, p))
		if err != nil {
			return err
		}
		pages = append(pages, page)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("cms: list %s: %w", l, err)
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].Path < pages[j].Path })
	return pages, nil
}

// Invalidate drops every cached page.
func (s *Store) Invalidate() {
	s.mu.Lock()
	s.items = map[string]cacheEntry{}
	s.mu.Unlock()
}

func (s *Store) load(l lang.Language, file string) (Page, error) {
	data, err := fs.ReadFile(s.fsys, file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Page{}, fault.NotFound("cms page", fmt.Errorf("%w: %s", ErrNotFound, file))
		}
		return Page{}, fmt.Errorf("cms: read %s: %w", file, err)
	}
	fm, body := splitFrontMatter(string(data))
	front := frontMatter{}
	if strings.TrimSpace(fm) != "" {
		if err := yaml.Unmarshal([]byte(fm), &front); err != nil {
			return Page{}, fmt.Errorf("cms: parse front matter %s: %w", file, err)
		}
	}

	var buf bytes.Buffer
	if err := s.md.Convert([]byte(body), &buf); err != nil {
		return Page{}, fmt.Errorf("cms: render %s: %w", file, err)
	}

	page := Page{
		Lang:      l,
		Path:      PagePath(l, file),
		Title:     strings.TrimSpace(front.Title),
		Summary:   strings.TrimSpace(front.Summary),
		Hero:      front.Hero,
		Stats:     front.Stats,
		Timeline:  front.Timeline,
		HTML:      s.policy.Sanitize(buf.String()),
		UpdatedAt: parseContentDate(front.UpdatedAt),
	}
	if page.Title == "" {
		// fall back to slug prettified
		page.Title = prettifySlug(path.Base(strings.TrimSuffix(file, ".md")))
	}
	s.logger.Debug("cms page loaded", zap.String("file", file), zap.String("lang", l.String()))
	return page, nil
}

// FilePath maps a page path to its markdown file. Paths with traversal or
// characters outside [a-z0-9-/] are rejected, upper case included, so every
// page has exactly one URL.
func FilePath(l lang.Language, pagePath string) (string, bool) {
	slug := sanitizeSlug(pagePath)
	if slug == "" {
		if strings.Trim(pagePath, "/ ") != "" {
			return "", false
		}
		slug = "index"
	}
	return l.String() + "/" + slug + ".md", true
}

// PagePath is the inverse of FilePath.
func PagePath(l lang.Language, file string) string {
	p := strings.TrimPrefix(file, l.String()+"/")
	p = strings.TrimSuffix(p, ".md")
	if p == "index" {
		return "/"
	}
	return "/" + p + "/"
}

func splitFrontMatter(input string) (string, string) {
	input = strings.TrimLeft(input, "\ufeff")
	lines := strings.Split(input, "\n")
	if len(lines) == 0 {
		return "", ""
	}
	if strings.TrimSpace(lines[0]) != "---" {
		return "", input
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			fm := strings.Join(lines[1:i], "\n")
			body := strings.Join(lines[i+1:], "\n")
			return fm, strings.TrimLeft(body, "\n\r")
		}
	}
	return "", input
}

func parseContentDate(v string) time.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02",
		"2006/01/02",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return time.Time{}
}

func prettifySlug(slug string) string {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return slug
	}
	parts := strings.Split(slug, "-")
	for i, part := range parts {
		if part == "" {
			continue
		}
		runes := []rune(part)
		runes[0] = asciiUpper(runes[0])
		parts[i] = string(runes)
	}
	return strings.Join(parts, " ")
}

func sanitizeSlug(slug string) string {
	slug = strings.TrimSpace(slug)
	slug = strings.Trim(slug, "/")
	if slug == "" || strings.Contains(slug, "..") || strings.Contains(slug, "//") {
		return ""
	}
	for _, r := range slug {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '/':
		default:
			return ""
		}
	}
	return slug
}

func (s *Store) cached(key string) (Page, bool) {
	now := s.now()
	s.mu.RLock()
	entry, ok := s.items[key]
	s.mu.RUnlock()
	if !ok || now.After(entry.expires) {
		return Page{}, false
	}
	return clonePage(entry.page), true
}

func (s *Store) store(key string, page Page) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = cacheEntry{
		page:    clonePage(page),
		expires: s.now().Add(s.ttl),
	}
}

func clonePage(src Page) Page {
	cp := src
	cp.Stats = append([]Stat(nil), src.Stats...)
	cp.Timeline = append([]Milestone(nil), src.Timeline...)
	return cp
}

func asciiUpper(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - ('a' - 'A')
	}
	return r
}
