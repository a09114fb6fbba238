package handlers

import (
	"log"
	"net/http"

	"gamehub/internal/models"
)

// WithRecover wraps an http.Handler and recovers from panics, returning a
// JSON 500 instead of crashing the server.
func WithRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("[recover] %v (%s %s)", rec, r.Method, r.URL.Path)
				writeMsg(w, http.StatusInternalServerError, "server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// RequireAuth rejects unauthenticated requests and hands the resolved user
// to the wrapped handler.
func (h *Handler) RequireAuth(next func(http.ResponseWriter, *http.Request, models.User)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, ok := h.sessions.CurrentUser(r)
		if !ok {
			writeMsg(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next(w, r, u)
	}
}

// RequireAdmin additionally demands the admin role.
func (h *Handler) RequireAdmin(next func(http.ResponseWriter, *http.Request, models.User)) http.HandlerFunc {
	return h.RequireAuth(func(w http.ResponseWriter, r *http.Request, u models.User) {
		if !u.IsAdmin() {
			writeMsg(w, http.StatusForbidden, "admin rights required")
			return
		}
		next(w, r, u)
	})
}
