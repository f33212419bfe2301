package middleware

import (
	"net/http"

	"opusconsulting.gr/opus-web/internal/lang"
)

// Language resolves the page language from the URL prefix and surfaces it as
// Content-Language. There is no cookie or Accept-Language negotiation.
func Language(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		l := lang.Resolve(r.URL.Path)
		w.Header().Set("Content-Language", l.Tag().String())
		next.ServeHTTP(w, r.WithContext(WithLang(r.Context(), l)))
	})
}
