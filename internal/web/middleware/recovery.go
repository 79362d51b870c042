package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/setgame/internal/metrics"
	"github.com/mcoot/setgame/internal/middleware"
	"github.com/mcoot/setgame/internal/web/templates/layout"
	"github.com/mcoot/setgame/internal/web/templates/pages"
)

// Recovery turns handler panics into the HTML error page. HTMX requests get
// redirected home since a fragment swap can't show a full page.
func Recovery(logger *slog.Logger, m *metrics.Metrics) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, m, "web", webPanicHandler)
}

func webPanicHandler(w http.ResponseWriter, r *http.Request, _ any) {
	if r.Header.Get("HX-Request") == "true" {
		SetFlash(w, FlashError, "Something went wrong")
		w.Header().Set("HX-Redirect", "/")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	_ = pages.Error(pages.ErrorData{
		PageData: layout.PageData{Title: "Error"},
		Heading:  "Internal Server Error",
		Detail:   "Something went wrong with this game.",
	}).Render(r.Context(), w)
}
