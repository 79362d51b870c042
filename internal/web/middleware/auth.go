package middleware

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	apimw "github.com/mcoot/setgame/internal/api/middleware"
	"github.com/mcoot/setgame/internal/model"
	"github.com/mcoot/setgame/internal/services/session"
)

type contextKey string

const sessionContextKey contextKey = "session"

// GetSessionID retrieves the authorized session ID from the request context
func GetSessionID(ctx context.Context) model.SessionID {
	id, _ := ctx.Value(sessionContextKey).(model.SessionID)
	return id
}

// SetSessionCookie stores a session token for the session's pages
func SetSessionCookie(w http.ResponseWriter, id model.SessionID, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     apimw.SessionCookie,
		Value:    token,
		Path:     "/sessions/" + string(id),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// SessionAuth returns middleware that requires the token for the {id} session
// Redirects to the home page if the session is unknown or the token is wrong
func SessionAuth(sessions *session.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := model.SessionID(mux.Vars(r)["id"])
			if err := sessions.Authorize(r.Context(), id, apimw.ExtractToken(r)); err != nil {
				SetFlash(w, FlashError, "Game not found")
				if r.Header.Get("HX-Request") == "true" {
					w.Header().Set("HX-Redirect", "/")
					w.WriteHeader(http.StatusUnauthorized)
					return
				}
				http.Redirect(w, r, "/", http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), sessionContextKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
