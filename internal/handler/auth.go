package handler

import (
	"context"
	"net/http"

	"github.com/dmoura/simulado/internal/model"
	"github.com/dmoura/simulado/internal/session"
)

const sessionCookieName = "session"

type ctxKey int

const tokenKey ctxKey = 0

// tokenFromContext returns the session token placed by requireSession.
func tokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}

type loginRequest struct {
	Email string `json:"email"`
}

type loginResponse struct {
	Email  string `json:"email"`
	Status string `json:"status"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, errBadRequest)
		return
	}

	token, user, err := h.sessions.Login(r.Context(), req.Email)
	if err != nil {
		writeError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.config.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, loginResponse{Email: user.Email, Status: string(user.Status)})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Logout(tokenFromContext(r.Context()))
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.config.SecureCookies,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
	w.WriteHeader(http.StatusNoContent)
}

// requireSession checks for a valid session cookie and stashes the token
// and the authenticated user in the request context.
func (h *Handler) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookieName)
		if err != nil || cookie.Value == "" {
			writeError(w, r, session.ErrNoSession)
			return
		}
		s, err := h.sessions.Get(cookie.Value)
		if err != nil {
			writeError(w, r, err)
			return
		}
		user := s.User()
		ctx := context.WithValue(r.Context(), tokenKey, cookie.Value)
		ctx = model.ContextWithUser(ctx, &user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
