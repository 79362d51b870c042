package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gorilla/mux"

	"github.com/mcoot/setgame/internal/metrics"
)

// PanicHandler writes the response for a recovered panic
type PanicHandler func(w http.ResponseWriter, r *http.Request, err any)

// Recovery turns a panic in a handler into a logged 5xx. surface labels the
// panic counter ("api" or "web"); m may be nil.
func Recovery(logger *slog.Logger, m *metrics.Metrics, surface string, handler PanicHandler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				err := recover()
				if err == nil {
					return
				}
				if err == http.ErrAbortHandler {
					panic(err)
				}

				logger.Error("panic recovered",
					slog.Any("error", err),
					slog.String("stack", string(debug.Stack())),
					slog.String("surface", surface),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("session_id", mux.Vars(r)["id"]),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				if m != nil {
					m.PanicsRecovered.WithLabelValues(surface).Inc()
				}

				handler(w, r, err)
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// DefaultPanicHandler returns a plain 500
func DefaultPanicHandler(w http.ResponseWriter, _ *http.Request, _ any) {
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}
