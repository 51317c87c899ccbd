package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"unicode"

	"github.com/dmoura/simulado/internal/model"
	"github.com/dmoura/simulado/internal/scoring"
)

// questionView is the client-facing shape of a question. The correct answer
// and the mentor tip stay server-side until the quiz is scored.
type questionView struct {
	ID       int      `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

func viewOf(q model.Question) questionView {
	return questionView{ID: q.ID, Question: q.Question, Options: q.Options}
}

type startQuizRequest struct {
	Topic      string `json:"topic"`
	Difficulty string `json:"difficulty"`
	Count      int    `json:"count,omitempty"`
}

type questionResponse struct {
	Question questionView `json:"question"`
	Position int          `json:"position"`
	Total    int          `json:"total"`
}

func (h *Handler) handleStartQuiz(w http.ResponseWriter, r *http.Request) {
	var req startQuizRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, errBadRequest)
		return
	}
	difficulty := model.Difficulty(req.Difficulty)
	if !model.ValidDifficulty(difficulty) {
		writeError(w, r, errBadRequest)
		return
	}

	token := tokenFromContext(r.Context())
	if user := model.UserFromContext(r.Context()); user != nil {
		slog.Info("quiz requested", "email", user.Email, "difficulty", difficulty, "count", req.Count)
	}
	if _, err := h.sessions.StartQuiz(r.Context(), token, req.Topic, difficulty, req.Count); err != nil {
		writeError(w, r, err)
		return
	}
	h.writeCurrentQuestion(w, r, http.StatusCreated)
}

func (h *Handler) handleCurrentQuestion(w http.ResponseWriter, r *http.Request) {
	h.writeCurrentQuestion(w, r, http.StatusOK)
}

func (h *Handler) writeCurrentQuestion(w http.ResponseWriter, r *http.Request, status int) {
	s, err := h.sessions.Get(tokenFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	q, pos, total, err := s.CurrentQuestion()
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, status, questionResponse{Question: viewOf(q), Position: pos, Total: total})
}

type answerRequest struct {
	Answer int `json:"answer"`
}

type answerResponse struct {
	Done     bool               `json:"done"`
	Question *questionView      `json:"question,omitempty"`
	Position int                `json:"position,omitempty"`
	Total    int                `json:"total,omitempty"`
	Report   *model.ScoreReport `json:"report,omitempty"`
}

func (h *Handler) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, errBadRequest)
		return
	}

	token := tokenFromContext(r.Context())
	report, err := h.sessions.SubmitAnswer(token, req.Answer)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if report != nil {
		writeJSON(w, http.StatusOK, answerResponse{Done: true, Report: report})
		return
	}

	s, err := h.sessions.Get(token)
	if err != nil {
		writeError(w, r, err)
		return
	}
	q, pos, total, err := s.CurrentQuestion()
	if err != nil {
		writeError(w, r, err)
		return
	}
	view := viewOf(q)
	writeJSON(w, http.StatusOK, answerResponse{Question: &view, Position: pos, Total: total})
}

func (h *Handler) handleRestart(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Restart(tokenFromContext(r.Context())); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type reportResponse struct {
	Topic      string            `json:"topic"`
	Difficulty string            `json:"difficulty"`
	FinishedAt string            `json:"finishedAt"`
	Report     model.ScoreReport `json:"report"`
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	s, err := h.sessions.Get(tokenFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	report, topic, difficulty, finishedAt, err := s.Result()
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reportResponse{
		Topic:      topic,
		Difficulty: string(difficulty),
		FinishedAt: finishedAt.Format("2006-01-02T15:04:05Z07:00"),
		Report:     report,
	})
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	s, err := h.sessions.Get(tokenFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	report, topic, difficulty, finishedAt, err := s.Result()
	if err != nil {
		writeError(w, r, err)
		return
	}

	text := scoring.BuildReportText(r.Context(), topic, difficulty, finishedAt, report)
	filename := fmt.Sprintf("%s-%s.txt", slugify(topic), finishedAt.Format("20060102-1504"))

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, text)
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	items, err := h.sessions.History(tokenFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if items == nil {
		items = []model.HistoryItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

// slugify turns a quiz topic into a filesystem-safe filename fragment.
func slugify(s string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) && r < 128, unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	out := strings.TrimRight(b.String(), "-")
	if out == "" {
		return "simulado"
	}
	const maxSlug = 40
	if len(out) > maxSlug {
		out = strings.TrimRight(out[:maxSlug], "-")
	}
	return out
}
