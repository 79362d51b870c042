package handler

import (
	"fmt"
	"net/http"

	"github.com/mcoot/setgame/internal/model"
	"github.com/mcoot/setgame/internal/web/middleware"
	"github.com/mcoot/setgame/internal/web/templates/layout"
	"github.com/mcoot/setgame/internal/web/templates/pages"
)

// HomeHandler serves the new-game page
type HomeHandler struct {
	modes []pages.ModeOption
}

// NewHomeHandler creates a HomeHandler listing every timer mode
func NewHomeHandler() *HomeHandler {
	var modes []pages.ModeOption
	for _, m := range model.Modes() {
		cfg, _ := m.Config()
		modes = append(modes, pages.ModeOption{
			Mode:     m,
			Label:    modeLabel(m, cfg),
			Selected: m == model.DefaultMode,
		})
	}
	return &HomeHandler{modes: modes}
}

func modeLabel(m model.Mode, cfg model.ModeConfig) string {
	switch {
	case !cfg.AutoStart:
		return fmt.Sprintf("%s (no time limit)", m)
	case cfg.Increment > 0:
		return fmt.Sprintf("%s (%ds, +%ds per set)", m, cfg.Initial, cfg.Increment)
	default:
		return fmt.Sprintf("%s (%ds)", m, cfg.Initial)
	}
}

// Home renders the new-game form
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	data := pages.HomeData{
		PageData: layout.PageData{
			Title: "New game",
			Flash: middleware.GetFlash(r.Context()),
		},
		Modes: h.modes,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.Home(data).Render(r.Context(), w); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
