package middleware

import (
	"net/http"
	"path"
	"strings"
)

// TrailingSlash redirects GET and HEAD page requests to their trailing-slash
// form with 301. Paths whose last segment has a file extension, and /en, are
// left alone.
func TrailingSlash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := r.URL.Path
		if (r.Method == http.MethodGet || r.Method == http.MethodHead) && needsSlash(p) {
			target := p + "/"
			if r.URL.RawQuery != "" {
				target += "?" + r.URL.RawQuery
			}
			http.Redirect(w, r, target, http.StatusMovedPermanently)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func needsSlash(p string) bool {
	if p == "" || strings.HasSuffix(p, "/") || p == "/en" {
		return false
	}
	return path.Ext(p) == ""
}
