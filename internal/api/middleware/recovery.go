package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/setgame/internal/api/apierr"
	"github.com/mcoot/setgame/internal/metrics"
	"github.com/mcoot/setgame/internal/middleware"
)

// Recovery turns handler panics into the JSON INTERNAL_ERROR envelope
func Recovery(logger *slog.Logger, m *metrics.Metrics) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, m, "api", func(w http.ResponseWriter, _ *http.Request, _ any) {
		apierr.WriteError(w, apierr.NewInternalError())
	})
}
