package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"versecraft/internal/httputil"
)

// Recovery converts a handler panic into a problem+json 500 instead of
// tearing down the connection. Websocket handlers hijack the connection, so
// the error write is best effort there.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				logger.Error("handler panicked",
					"panic", rec,
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)
				httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
			}()

			next.ServeHTTP(w, r)
		})
	}
}
