package middleware

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/mcoot/setgame/internal/web/templates/layout"
)

// Flash kinds, rendered as the flash-<kind> CSS class
const (
	FlashError = "error"
	FlashInfo  = "info"
)

const (
	flashCookieName = "setgame_flash"
	flashContextKey = contextKey("flash")
	flashMaxAge     = 60
)

// GetFlash returns the flash message read for this request, or nil
func GetFlash(ctx context.Context) *layout.FlashMessage {
	flash, _ := ctx.Value(flashContextKey).(*layout.FlashMessage)
	return flash
}

// SetFlash queues a message for the next page the browser loads
func SetFlash(w http.ResponseWriter, kind, message string) {
	http.SetCookie(w, flashCookie(url.QueryEscape(kind+":"+message), flashMaxAge))
}

// Flash returns middleware that moves a pending flash cookie into the
// request context and clears it
func Flash() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var flash *layout.FlashMessage
			if cookie, err := r.Cookie(flashCookieName); err == nil && cookie.Value != "" {
				flash = parseFlash(cookie.Value)
				http.SetCookie(w, flashCookie("", -1))
			}

			ctx := context.WithValue(r.Context(), flashContextKey, flash)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func flashCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     flashCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

func parseFlash(value string) *layout.FlashMessage {
	decoded, err := url.QueryUnescape(value)
	if err != nil {
		return nil
	}
	kind, message, ok := strings.Cut(decoded, ":")
	if !ok {
		return &layout.FlashMessage{Type: FlashInfo, Message: decoded}
	}
	return &layout.FlashMessage{Type: kind, Message: message}
}
