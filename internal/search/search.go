// Package search answers site queries over the navigation table and page
// summaries. Matching ignores case, accents and character width, so
// "υπηρεσιες" finds "Υπηρεσίες".
package search

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"

	"opusconsulting.gr/opus-web/internal/cms"
	"opusconsulting.gr/opus-web/internal/lang"
	"opusconsulting.gr/opus-web/internal/nav"
)

// ErrNotConfigured indicates the index has no page source.
var ErrNotConfigured = errors.New("search index not configured")

// DefaultLimit caps results when the query does not set one.
const DefaultLimit = 10

// Query represents incoming parameters for a search request.
type Query struct {
	Term  string
	Lang  lang.Language
	Limit int
}

// ResultSet contains ordered hits.
type ResultSet struct {
	Term     string
	Total    int
	Duration time.Duration
	Hits     []Hit
}

// Hit represents a single item in the search results.
type Hit struct {
	Title       string
	Description string
	Category    string
	URL         string
	External    bool
	// TitleMatch is set when the term matched the title, which ranks first.
	TitleMatch bool
}

// PageSource lists the pages of a language.
type PageSource interface {
	All(ctx context.Context, l lang.Language) ([]cms.Page, error)
}

type record struct {
	hit   Hit
	title string
	rest  string
}

// Index holds folded records per language. Records are built lazily on first
// query and then reused.
type Index struct {
	pages PageSource

	mu      sync.RWMutex
	records map[lang.Language][]record
}

// NewIndex returns an index over the navigation table and the pages of src.
func NewIndex(src PageSource) *Index {
	return &Index{pages: src, records: map[lang.Language][]record{}}
}

// Search executes q. An empty term yields an empty set.
func (ix *Index) Search(ctx context.Context, q Query) (ResultSet, error) {
	start := time.Now()
	set := ResultSet{Term: strings.TrimSpace(q.Term)}
	term := Fold(set.Term)
	if term == "" {
		return set, nil
	}
	records, err := ix.load(ctx, q.Lang)
	if err != nil {
		return ResultSet{}, err
	}

	var titles, others []Hit
	for _, rec := range records {
		switch {
		case strings.Contains(rec.title, term):
			h := rec.hit
			h.TitleMatch = true
			titles = append(titles, h)
		case strings.Contains(rec.rest, term):
			others = append(others, rec.hit)
		}
	}
	hits := append(titles, others...)
	set.Total = len(hits)

	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if len(hits) > limit {
		hits = hits[:limit]
	}
	set.Hits = hits
	set.Duration = time.Since(start)
	return set, nil
}

// Invalidate drops the built records.
func (ix *Index) Invalidate() {
	ix.mu.Lock()
	ix.records = map[lang.Language][]record{}
	ix.mu.Unlock()
}

func (ix *Index) load(ctx context.Context, l lang.Language) ([]record, error) {
	ix.mu.RLock()
	recs, ok := ix.records[l]
	ix.mu.RUnlock()
	if ok {
		return recs, nil
	}
	if ix.pages == nil {
		return nil, ErrNotConfigured
	}
	pages, err := ix.pages.All(ctx, l)
	if err != nil {
		return nil, err
	}
	recs = build(l, nav.Links(l), pages)

	ix.mu.Lock()
	ix.records[l] = recs
	ix.mu.Unlock()
	return recs, nil
}

// build merges navigation links and pages. Table order comes first; a page
// already linked from the table only lends its summary.
func build(l lang.Language, links []nav.LinkRef, pages []cms.Page) []record {
	byHref := make(map[string]cms.Page, len(pages))
	for _, p := range pages {
		byHref[lang.AddPrefix(p.Path, l)] = p
	}
	seen := map[string]bool{}
	out := make([]record, 0, len(links)+len(pages))
	for _, link := range links {
		h := Hit{
			Title:       link.Title,
			Description: link.Description,
			Category:    link.Category,
			URL:         link.Href,
			External:    link.External,
		}
		if p, ok := byHref[link.Href]; ok {
			if h.Description == "" {
				h.Description = p.Summary
			}
			seen[link.Href] = true
		}
		out = append(out, newRecord(h))
	}
	for _, p := range pages {
		href := lang.AddPrefix(p.Path, l)
		if seen[href] {
			continue
		}
		out = append(out, newRecord(Hit{Title: p.Title, Description: p.Summary, URL: href}))
	}
	return out
}

func newRecord(h Hit) record {
	return record{
		hit:   h,
		title: Fold(h.Title),
		rest:  Fold(h.Description + " " + h.Category),
	}
}

// Fold normalizes s for matching: width folded, accents removed, case folded.
func Fold(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	t := transform.Chain(width.Fold, norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC, cases.Fold())
	out, _, err := transform.String(t, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return strings.Join(strings.Fields(out), " ")
}
