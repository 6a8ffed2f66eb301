package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
)

// RecoveryMiddleware turns a handler panic into a 500 envelope unless the
// response was already under way. http.ErrAbortHandler is re-raised so the
// server can drop the connection.
func RecoveryMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if err, ok := v.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(v)
				}
				logger.ErrorContext(r.Context(), "panic recovered",
					slog.Any("panic", v),
					slog.String("path", r.URL.Path),
					slog.String("stack", string(debug.Stack())),
				)
				if rec, ok := w.(*statusRecorder); ok && rec.committed() {
					return
				}
				JSONErrorWithRequest(r, w, http.StatusInternalServerError, CodeInternal, "An internal error occurred", nil)
			}()
			next.ServeHTTP(w, r)
		})
	}
}
