package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"opusconsulting.gr/opus-web/internal/fault"
	"opusconsulting.gr/opus-web/internal/handlers"
	"opusconsulting.gr/opus-web/internal/lang"
	"opusconsulting.gr/opus-web/internal/menu"
	custommw "opusconsulting.gr/opus-web/internal/middleware"
	"opusconsulting.gr/opus-web/internal/nav"
	"opusconsulting.gr/opus-web/internal/observability"
	"opusconsulting.gr/opus-web/internal/views"
	"opusconsulting.gr/opus-web/internal/viewstate"
)

// navRecord is the menu snapshot kept in the session. It applies only to the
// page it was taken on; following a link to another page starts closed.
type navRecord struct {
	Path string        `json:"path"`
	Snap menu.Snapshot `json:"snap"`
}

// navContext is the header of one request, restored from the session. Release
// must run after rendering: it clears the scroll lock the render reads.
type navContext struct {
	path   string
	root   *viewstate.Document
	header *menu.Header
	sess   *custommw.SessionData
	logger *zap.Logger
}

// openNav builds the header for path and restores the stored snapshot. A
// snapshot the header rejects switches the page to fallback mode.
func (s *Server) openNav(r *http.Request, path string) *navContext {
	logger := observability.FromContext(r.Context())
	root := viewstate.New()
	root.ApplyCapabilities(custommw.CapabilitiesFrom(r.Context()))

	nc := &navContext{
		path:   path,
		root:   root,
		sess:   custommw.GetSession(r),
		logger: logger,
	}
	nc.header = nc.newHeader()

	rec, err := decodeNavRecord(nc.sess.Nav)
	if err != nil {
		s.fallback(nc, err)
		return nc
	}
	if rec.Path != path {
		if len(nc.sess.Nav) > 0 {
			nc.sess.SetNav(nil)
		}
		return nc
	}
	if err := nc.header.Restore(rec.Snap); err != nil {
		s.fallback(nc, err)
	}
	return nc
}

func decodeNavRecord(raw json.RawMessage) (navRecord, error) {
	var rec navRecord
	if len(raw) == 0 {
		return rec, nil
	}
	if err := json.Unmarshal(raw, &rec); err != nil {
		return navRecord{}, fault.Navigation("decode nav snapshot", err)
	}
	return rec, nil
}

// fallback enters CSS only navigation for this render and drops the stored
// snapshot so the next request starts clean. Faults of other kinds are only
// logged.
func (s *Server) fallback(nc *navContext, err error) {
	if !fault.Is(err, fault.KindNavigation) {
		nc.logger.Error("navigation failed", zap.Error(err))
		return
	}
	nc.logger.Warn("navigation fallback", zap.Error(err), zap.String("path", nc.path))
	nc.root.EnterFallback()
	nc.sess.SetNav(nil)
	s.metrics.Fallback()
}

// save stores the current snapshot for the page.
func (nc *navContext) save() error {
	if nc.root.InFallback() {
		return nil
	}
	raw, err := json.Marshal(navRecord{Path: nc.path, Snap: nc.header.Snapshot()})
	if err != nil {
		return fmt.Errorf("encode nav snapshot: %w", err)
	}
	nc.sess.SetNav(raw)
	return nil
}

func (nc *navContext) newHeader(opts ...menu.Option) *menu.Header {
	return menu.NewHeader(nav.Items(lang.Resolve(nc.path)), append([]menu.Option{
		menu.WithDocument(nc.root),
		menu.WithLogger(nc.logger.Named("menu")),
	}, opts...)...)
}

// attachFocus rebuilds the header over its own rendered markup with the
// control at pos focused, so key events move focus as the browser would.
func (s *Server) attachFocus(r *http.Request, nc *navContext, pos int) error {
	t := s.bundle.For(lang.Resolve(nc.path))
	doc, err := views.HeaderDocument(r.Context(),
		handlers.BuildHeader(nc.path, nc.header.State(), false, custommw.CSRFToken(r), t))
	if err != nil {
		return fmt.Errorf("render header for focus: %w", err)
	}
	doc.FocusAt(pos)

	snap := nc.header.Snapshot()
	nc.header.Release()
	nc.header = nc.newHeader(menu.WithFocus(doc))
	return nc.header.Restore(snap)
}

func (nc *navContext) release() { nc.header.Release() }

// request builds the view model inputs for this render.
func (s *Server) request(r *http.Request, nc *navContext) handlers.Request {
	return handlers.Request{
		Path:   nc.path,
		State:  nc.header.State(),
		Root:   nc.root,
		CSRF:   custommw.CSRFToken(r),
		Bundle: s.bundle,
	}
}
