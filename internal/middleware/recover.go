package middleware

import (
	"net/http"
	"runtime/debug"

	"go.uber.org/zap"

	"opusconsulting.gr/opus-web/internal/fault"
	"opusconsulting.gr/opus-web/internal/observability"
)

// PanicRenderer writes the response for a recovered panic. err is the panic
// converted with fault.FromPanic.
type PanicRenderer func(w http.ResponseWriter, r *http.Request, err error)

// Recoverer captures panics, logs the stack trace, and hands the request to
// render. htmx and JSON clients get the error envelope instead.
func Recoverer(fallback *zap.Logger, render PanicRenderer) func(http.Handler) http.Handler {
	if fallback == nil {
		fallback = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger := observability.FromContext(r.Context())
				if !logger.Core().Enabled(zap.ErrorLevel) {
					logger = fallback
				}
				err := fault.FromPanic(rec)
				logger.Error("panic recovered",
					zap.Error(err),
					zap.String("kind", fault.KindOf(err).String()),
					zap.ByteString("stack", debug.Stack()),
				)
				if render == nil || wantsJSON(r) {
					WriteError(w, r, NewError("internal_server_error", "internal server error", http.StatusInternalServerError))
					return
				}
				render(w, r, err)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
