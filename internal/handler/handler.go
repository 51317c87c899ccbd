// Package handler exposes the quiz application as a JSON API.
package handler

import (
	"github.com/go-chi/chi/v5"

	"github.com/dmoura/simulado/internal/session"
)

// Config holds handler-level settings.
type Config struct {
	SecureCookies bool
}

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	sessions *session.Manager
	config   Config
}

// New creates a new Handler.
func New(m *session.Manager, cfg Config) *Handler {
	return &Handler{sessions: m, config: cfg}
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/api/login", h.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(h.requireSession)
		r.Post("/api/logout", h.handleLogout)
		r.Post("/api/quiz", h.handleStartQuiz)
		r.Get("/api/quiz", h.handleCurrentQuestion)
		r.Post("/api/quiz/answer", h.handleAnswer)
		r.Post("/api/quiz/restart", h.handleRestart)
		r.Get("/api/quiz/report", h.handleReport)
		r.Get("/api/quiz/report/export", h.handleExport)
		r.Get("/api/history", h.handleHistory)
	})
}
