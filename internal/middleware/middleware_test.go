package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"testing/fstest"

	"opusconsulting.gr/opus-web/internal/fault"
	"opusconsulting.gr/opus-web/internal/lang"
)

func TestSessionMiddlewareLifecycle(t *testing.T) {
	store := NewSessionStore([]byte("test-signing-key"))

	var seen []*SessionData
	handler := store.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := GetSession(r)
		seen = append(seen, sess)
		if r.URL.Query().Get("nav") != "" {
			sess.SetNav(json.RawMessage(`{"mobile":true}`))
		}
		w.WriteHeader(http.StatusOK)
	}))

	rec1 := httptest.NewRecorder()
	handler.ServeHTTP(rec1, httptest.NewRequest(http.MethodGet, "/", nil))
	cookie := sessionCookie(t, rec1)
	if seen[0].ID == "" || seen[0].CSRFToken == "" {
		t.Fatalf("expected new session with id and csrf token, got %+v", seen[0])
	}

	t.Run("unchanged session is not rewritten", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if got := seen[len(seen)-1].ID; got != seen[0].ID {
			t.Fatalf("expected session id %s, got %s", seen[0].ID, got)
		}
		if rec.Header().Get("Set-Cookie") != "" {
			t.Fatalf("expected no cookie rewrite")
		}
	})

	t.Run("nav snapshot persists", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/?nav=1", nil)
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		sd, err := store.Decode(sessionCookie(t, rec).Value)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if string(sd.Nav) != `{"mobile":true}` {
			t.Fatalf("unexpected nav snapshot %s", sd.Nav)
		}
	})

	t.Run("tampered cookie starts a new session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: cookie.Value + "x"})
		handler.ServeHTTP(httptest.NewRecorder(), req)
		if got := seen[len(seen)-1].ID; got == seen[0].ID {
			t.Fatalf("expected a fresh session for a tampered cookie")
		}
	})

	t.Run("other key cannot decode", func(t *testing.T) {
		other := NewSessionStore([]byte("another-key"))
		if _, err := other.Decode(cookie.Value); !errors.Is(err, ErrInvalidSession) {
			t.Fatalf("expected ErrInvalidSession, got %v", err)
		}
	})
}

func TestSessionCookieWrittenForEmptyHandler(t *testing.T) {
	store := NewSessionStore([]byte("k"))
	handler := store.Middleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodHead, "/", nil))
	sessionCookie(t, rec)
}

func TestCSRF(t *testing.T) {
	store := NewSessionStore([]byte("k"))
	handler := store.Middleware(HTMX(CSRF(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	cookie := sessionCookie(t, rec)
	sd, err := store.Decode(cookie.Value)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	post := func(form url.Values, header string, htmx bool) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/nav/events", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		if header != "" {
			req.Header.Set(CSRFHeader, header)
		}
		if htmx {
			req.Header.Set("HX-Request", "true")
		}
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	t.Run("missing token", func(t *testing.T) {
		rec := post(url.Values{}, "", false)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
	})
	t.Run("htmx gets json envelope", func(t *testing.T) {
		rec := post(url.Values{CSRFFormField: {"wrong"}}, "", true)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
		var payload map[string]any
		if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
			t.Fatalf("expected json body: %v", err)
		}
		if payload["error"] != "csrf_invalid" {
			t.Fatalf("unexpected payload %v", payload)
		}
	})
	t.Run("form field", func(t *testing.T) {
		rec := post(url.Values{CSRFFormField: {sd.CSRFToken}}, "", false)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
	})
	t.Run("header", func(t *testing.T) {
		rec := post(url.Values{}, sd.CSRFToken, true)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
	})
}

func TestTrailingSlash(t *testing.T) {
	handler := TrailingSlash(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	cases := []struct {
		method   string
		target   string
		code     int
		location string
	}{
		{http.MethodGet, "/vision/mission", http.StatusMovedPermanently, "/vision/mission/"},
		{http.MethodGet, "/en/search?q=esg", http.StatusMovedPermanently, "/en/search/?q=esg"},
		{http.MethodHead, "/projects", http.StatusMovedPermanently, "/projects/"},
		{http.MethodGet, "/en", http.StatusOK, ""},
		{http.MethodGet, "/gb.svg", http.StatusOK, ""},
		{http.MethodGet, "/news/", http.StatusOK, ""},
		{http.MethodPost, "/nav/events", http.StatusOK, ""},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.target, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.target, nil))
			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, rec.Code)
			}
			if got := rec.Header().Get("Location"); got != tc.location {
				t.Fatalf("expected location %q, got %q", tc.location, got)
			}
		})
	}
}

func TestLanguage(t *testing.T) {
	var got lang.Language
	handler := Language(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = Lang(r.Context())
	}))
	for path, want := range map[string]lang.Language{
		"/en/vision/mission/":       lang.English,
		"/en":                       lang.English,
		"/services/energy-studies/": lang.Greek,
	} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if got != want {
			t.Fatalf("%s: expected %s, got %s", path, want, got)
		}
		if cl := rec.Header().Get("Content-Language"); cl != want.Tag().String() {
			t.Fatalf("%s: unexpected Content-Language %q", path, cl)
		}
	}
}

func TestCapabilities(t *testing.T) {
	handler := Capabilities(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := CapabilitiesFrom(r.Context())
		if !c.ReducedMotion || c.SaveData {
			t.Fatalf("unexpected capabilities %+v", c)
		}
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Sec-CH-Prefers-Reduced-Motion", "reduce")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if !strings.Contains(rec.Header().Get("Accept-CH"), "Save-Data") {
		t.Fatalf("expected Accept-CH header")
	}
}

func TestAssetsWithCache(t *testing.T) {
	fsys := fstest.MapFS{
		"gb.svg":       {Data: []byte("<svg/>")},
		"css/site.css": {Data: []byte("body{}")},
	}
	handler := AssetsWithCache(fsys, "/assets")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets/css/site.css", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "body{}" {
		t.Fatalf("expected css body, got %d %q", rec.Code, rec.Body.String())
	}
	etag := rec.Header().Get("ETag")
	if etag == "" {
		t.Fatalf("expected ETag")
	}

	req := httptest.NewRequest(http.MethodGet, "/assets/css/site.css", nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotModified {
		t.Fatalf("expected 304, got %d", rec.Code)
	}

	for _, p := range []string{"/assets/missing.png", "/assets/css/", "/assets/../go.mod"} {
		rec = httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, p, nil))
		if rec.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d", p, rec.Code)
		}
	}

	root := AssetsWithCache(fsys, "")
	rec = httptest.NewRecorder()
	root.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/gb.svg", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected root asset 200, got %d", rec.Code)
	}
}

func TestRecoverer(t *testing.T) {
	var rendered error
	render := func(w http.ResponseWriter, r *http.Request, err error) {
		rendered = err
		w.WriteHeader(fault.KindOf(err).Status())
	}
	boom := fault.New(fault.KindNotFound, "page", errors.New("gone"))
	handler := HTMX(Recoverer(nil, render)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(boom)
	})))

	t.Run("html renders page", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		if !errors.Is(rendered, boom) {
			t.Fatalf("expected panic value passed to renderer, got %v", rendered)
		}
	})
	t.Run("htmx gets envelope", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("HX-Request", "true")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
		if !strings.Contains(rec.Header().Get("Content-Type"), "application/json") {
			t.Fatalf("expected json content type")
		}
	})
}

func TestRedirect(t *testing.T) {
	handler := HTMX(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		Redirect(w, r, "/en/")
	}))
	req := httptest.NewRequest(http.MethodPost, "/nav/events", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Header().Get("HX-Redirect") != "/en/" {
		t.Fatalf("expected HX-Redirect")
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/nav/events", nil))
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/en/" {
		t.Fatalf("expected 303 to /en/, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookieName {
			return c
		}
	}
	t.Fatalf("expected %s cookie", SessionCookieName)
	return nil
}
