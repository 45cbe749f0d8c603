package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"
)

// Recover turns a panic in next into a call to onPanic. The panic value and
// stack are logged.
func Recover(logger *slog.Logger, onPanic func(w http.ResponseWriter, r *http.Request, v any)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if v == http.ErrAbortHandler {
					panic(v)
				}

				logger.Error(
					"panic recovered",
					"panic", v,
					"uri", r.URL.RequestURI(),
					"request_id", GetRequestID(r.Context()),
					"stack", string(debug.Stack()),
				)
				onPanic(w, r, v)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
