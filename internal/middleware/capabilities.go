package middleware

import (
	"net/http"
	"strings"

	"opusconsulting.gr/opus-web/internal/viewstate"
)

// Capabilities reads the reduced-motion and save-data client hints once per
// request and asks the browser to send them on later requests.
func Capabilities(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := viewstate.Capabilities{
			ReducedMotion: strings.EqualFold(strings.TrimSpace(r.Header.Get("Sec-CH-Prefers-Reduced-Motion")), "reduce"),
			SaveData:      strings.EqualFold(strings.TrimSpace(r.Header.Get("Save-Data")), "on"),
		}
		w.Header().Set("Accept-CH", "Sec-CH-Prefers-Reduced-Motion, Save-Data")
		w.Header().Add("Vary", "Sec-CH-Prefers-Reduced-Motion")
		w.Header().Add("Vary", "Save-Data")
		next.ServeHTTP(w, r.WithContext(WithCapabilities(r.Context(), c)))
	})
}
