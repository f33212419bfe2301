package httpserver

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"go.uber.org/zap"

	"opusconsulting.gr/opus-web/internal/fault"
	"opusconsulting.gr/opus-web/internal/handlers"
	"opusconsulting.gr/opus-web/internal/lang"
	"opusconsulting.gr/opus-web/internal/menu"
	custommw "opusconsulting.gr/opus-web/internal/middleware"
	"opusconsulting.gr/opus-web/internal/observability"
	"opusconsulting.gr/opus-web/internal/search"
	"opusconsulting.gr/opus-web/internal/views"
	"opusconsulting.gr/opus-web/internal/viewstate"
)

func (s *Server) page(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	nc := s.openNav(r, path)
	defer nc.release()

	page, err := s.pages.Page(r.Context(), lang.Resolve(path), lang.StripPrefix(path))
	if err != nil {
		status := http.StatusInternalServerError
		if fault.Is(err, fault.KindNotFound) {
			status = http.StatusNotFound
		} else {
			nc.logger.Error("load page", zap.Error(err), zap.String("path", path))
		}
		s.render(w, r, status, views.ErrorPage(handlers.BuildErrorData(s.request(r, nc), status)))
		return
	}
	s.render(w, r, http.StatusOK, views.Page(handlers.BuildPageData(s.request(r, nc), page)))
}

func (s *Server) searchPage(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	nc := s.openNav(r, path)
	defer nc.release()

	q := strings.TrimSpace(r.URL.Query().Get("q"))
	set, err := s.index.Search(r.Context(), search.Query{Term: q, Lang: lang.Resolve(path)})
	if err != nil {
		nc.logger.Error("search", zap.Error(err), zap.String("term", q))
		s.render(w, r, http.StatusInternalServerError,
			views.ErrorPage(handlers.BuildErrorData(s.request(r, nc), http.StatusInternalServerError)))
		return
	}
	data := handlers.BuildSearchData(s.request(r, nc), q, set)
	if custommw.IsHTMX(r.Context()) {
		s.render(w, r, http.StatusOK, views.SearchResults(data))
		return
	}
	s.render(w, r, http.StatusOK, views.SearchPage(data))
}

// navEvents applies one header event to the stored menu state. htmx gets the
// new header, plain forms are sent back to the page they came from.
func (s *Server) navEvents(w http.ResponseWriter, r *http.Request) {
	in, err := parseEvent(r)
	if err != nil {
		custommw.WriteError(w, r, custommw.NewError("invalid_event", err.Error(), http.StatusBadRequest))
		return
	}
	nc := s.openNav(r, in.returnTo)
	defer nc.release()

	s.metrics.NavEvent(string(in.event.Kind))
	if in.event.Kind == menu.EventKey && !nc.root.InFallback() {
		if err := s.attachFocus(r, nc, in.focus); err != nil {
			s.fallback(nc, err)
		}
	}
	var navigate string
	var focus int
	if !nc.root.InFallback() {
		res, err := nc.header.Dispatch(in.event)
		if err != nil {
			s.fallback(nc, err)
		}
		navigate = res.Navigate
		focus = nc.header.FocusPosition()
		if err := nc.save(); err != nil {
			nc.logger.Error("save nav state", zap.Error(err))
		}
	}

	if navigate != "" {
		custommw.Redirect(w, r, navigate)
		return
	}
	if !custommw.IsHTMX(r.Context()) {
		http.Redirect(w, r, in.returnTo, http.StatusSeeOther)
		return
	}
	req := s.request(r, nc)
	t := s.bundle.For(lang.Resolve(in.returnTo))
	hdr := handlers.BuildHeader(in.returnTo, req.State, nc.root.InFallback(), req.CSRF, t)
	if !hdr.Fallback {
		hdr.Focus = focus
	}
	s.render(w, r, http.StatusOK, views.Header(hdr))
}

// renderPanic is the HTML response of a recovered panic. A navigation fault
// still renders the page, with navigation in fallback mode.
func (s *Server) renderPanic(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	root := viewstate.New()
	root.ApplyCapabilities(custommw.CapabilitiesFrom(r.Context()))
	if fault.Is(err, fault.KindNavigation) {
		root.EnterFallback()
		s.metrics.Fallback()
	}
	req := handlers.Request{
		Path:   r.URL.Path,
		Root:   root,
		CSRF:   custommw.CSRFToken(r),
		Bundle: s.bundle,
	}
	s.render(w, r, status, views.ErrorPage(handlers.BuildErrorData(req, status)))
}

// render buffers c so a failing component never leaves a half written page.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	var buf bytes.Buffer
	if err := c.Render(r.Context(), &buf); err != nil {
		observability.FromContext(r.Context()).Error("render", zap.Error(err))
		custommw.WriteError(w, r, custommw.NewError("render_failed", "internal server error", http.StatusInternalServerError))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
