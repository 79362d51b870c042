package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/mcoot/setgame/internal/api/apierr"
	"github.com/mcoot/setgame/internal/model"
	"github.com/mcoot/setgame/internal/services/session"
)

type contextKey string

const sessionContextKey contextKey = "session"

// SessionCookie is the cookie the web UI stores the session token in
const SessionCookie = "setgame_session"

// SessionAuth creates middleware that checks the bearer token against the
// session named by the {id} route variable
func SessionAuth(sessions *session.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := model.SessionID(mux.Vars(r)["id"])
			token := ExtractToken(r)
			if token == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			if err := sessions.Authorize(r.Context(), id, token); err != nil {
				apierr.WriteError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), sessionContextKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ExtractToken extracts the session token from the request
func ExtractToken(r *http.Request) string {
	// Check Authorization header first
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	// Fall back to cookie
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		return cookie.Value
	}

	// EventSource and WebSocket clients cannot set headers
	return r.URL.Query().Get("token")
}

// GetSessionID returns the authorized session ID from the request context
func GetSessionID(ctx context.Context) model.SessionID {
	id, _ := ctx.Value(sessionContextKey).(model.SessionID)
	return id
}

// MustGetSessionID returns the authorized session ID or panics
func MustGetSessionID(ctx context.Context) model.SessionID {
	id := GetSessionID(ctx)
	if id == "" {
		panic("no session in context - auth middleware not applied?")
	}
	return id
}
