package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/yralfoods/donut-shop/internal/domain"
)

const guestCookieName = "guest_id"

// SessionMiddleware resolves who is acting. An X-User-ID header marks an
// authenticated account (upstream auth is expected to have validated it);
// otherwise the request runs as a guest identified by a long-lived cookie,
// minted here on first contact.
func SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var session domain.Session

		if userID := r.Header.Get("X-User-ID"); userID != "" {
			session.UserID = userID
		} else if c, err := r.Cookie(guestCookieName); err == nil && c.Value != "" {
			session.GuestID = c.Value
		} else {
			session.GuestID = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     guestCookieName,
				Value:    session.GuestID,
				Path:     "/",
				MaxAge:   int((30 * 24 * time.Hour).Seconds()),
				HttpOnly: true,
			})
		}

		ctx := context.WithValue(r.Context(), "session", session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestIDMiddleware adds a unique request ID to each request
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = fmt.Sprintf("req-%d", time.Now().UnixNano())
		}

		ctx := context.WithValue(r.Context(), "request_id", requestID)
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func getSession(ctx context.Context) domain.Session {
	if session, ok := ctx.Value("session").(domain.Session); ok {
		return session
	}
	return domain.Session{}
}
