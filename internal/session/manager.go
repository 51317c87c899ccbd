package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dmoura/simulado/internal/model"
	"github.com/dmoura/simulado/internal/scoring"
)

// Authenticator checks an email against the hosted allow-list.
type Authenticator interface {
	Authenticate(ctx context.Context, email string) (*model.User, error)
}

// QuizGenerator produces a quiz for a topic.
type QuizGenerator interface {
	Generate(ctx context.Context, topic string, difficulty model.Difficulty, count int) (*model.QuizData, error)
}

// HistoryStore persists each user's attempt history between runs.
type HistoryStore interface {
	LoadHistory(email string) ([]model.HistoryItem, error)
	SaveHistory(email string, items []model.HistoryItem) error
}

// Manager owns all live sessions and the per-user attempt histories. It is
// the only writer of the history lists and of the store.
type Manager struct {
	auth  Authenticator
	gen   QuizGenerator
	store HistoryStore

	mu       sync.Mutex
	sessions map[string]*Session
	history  map[string][]model.HistoryItem // keyed by user e-mail
}

// NewManager builds a manager. Histories are loaded lazily per user on
// first use.
func NewManager(auth Authenticator, gen QuizGenerator, store HistoryStore) *Manager {
	return &Manager{
		auth:     auth,
		gen:      gen,
		store:    store,
		sessions: make(map[string]*Session),
		history:  make(map[string][]model.HistoryItem),
	}
}

// historyLocked returns a user's history list, reading it from the store on
// first access. A store read failure is logged and treated as an empty
// history; the application stays usable. Callers must hold m.mu.
func (m *Manager) historyLocked(email string) []model.HistoryItem {
	if items, ok := m.history[email]; ok {
		return items
	}
	var items []model.HistoryItem
	if m.store != nil {
		loaded, err := m.store.LoadHistory(email)
		if err != nil {
			slog.Error("failed to load history", "email", email, "error", err)
		} else {
			items = loaded
		}
	}
	m.history[email] = items
	return items
}

// generateToken returns a random 128-bit hex session token.
func generateToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// Login authenticates the email against the allow-list and, on approval,
// creates a session positioned at the generating state. Access errors from
// the authenticator pass through unchanged.
func (m *Manager) Login(ctx context.Context, email string) (token string, user *model.User, err error) {
	u, err := m.auth.Authenticate(ctx, email)
	if err != nil {
		return "", nil, err
	}
	token, err = generateToken()
	if err != nil {
		return "", nil, err
	}

	m.mu.Lock()
	m.sessions[token] = newSession(*u)
	m.mu.Unlock()

	slog.Info("user logged in", "email", u.Email)
	return token, u, nil
}

// Logout removes the session. Unknown tokens are a no-op.
func (m *Manager) Logout(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
}

// Get returns the session for a token.
func (m *Manager) Get(token string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[token]
	if !ok {
		return nil, ErrNoSession
	}
	return s, nil
}

// StartQuiz runs quiz generation for the session. While the call is in
// flight the session rejects further generation attempts with ErrBusy; on
// failure the session keeps its prior state and the error is returned.
func (m *Manager) StartQuiz(ctx context.Context, token, topic string, difficulty model.Difficulty, count int) (*model.QuizData, error) {
	s, err := m.Get(token)
	if err != nil {
		return nil, err
	}
	if err := s.beginGenerate(); err != nil {
		return nil, err
	}

	quiz, err := m.gen.Generate(ctx, topic, difficulty, count)
	s.finishGenerate(topic, difficulty, quiz, err)
	if err != nil {
		return nil, err
	}
	return quiz, nil
}

// SubmitAnswer records an answer for the session's current question. When
// the final question is answered the quiz is scored, appended to the shared
// history and persisted, and the report is returned.
func (m *Manager) SubmitAnswer(token string, option int) (*model.ScoreReport, error) {
	s, err := m.Get(token)
	if err != nil {
		return nil, err
	}
	done, err := s.Answer(option)
	if err != nil {
		return nil, err
	}
	if !done {
		return nil, nil
	}

	quiz, answers, topic, difficulty := s.answersSnapshot()
	report := scoring.Score(quiz, answers)
	now := time.Now()
	s.complete(report, now)

	m.recordAttempt(s.User().Email, scoring.NewHistoryItem(topic, difficulty, report.CorrectCount, report.Total, now))
	return &report, nil
}

// recordAttempt prepends the item to the user's history and writes the
// whole list back to the store. Persistence failures are logged only; the
// scored quiz is never lost to a disk error.
func (m *Manager) recordAttempt(email string, item model.HistoryItem) {
	m.mu.Lock()
	updated := scoring.AppendHistory(m.historyLocked(email), item)
	m.history[email] = updated
	items := make([]model.HistoryItem, len(updated))
	copy(items, updated)
	m.mu.Unlock()

	if m.store == nil {
		return
	}
	if err := m.store.SaveHistory(email, items); err != nil {
		slog.Error("failed to persist history", "email", email, "error", err)
	}
}

// History moves the session into the history view and returns a snapshot of
// the user's own attempt list, newest first.
func (m *Manager) History(token string) ([]model.HistoryItem, error) {
	s, err := m.Get(token)
	if err != nil {
		return nil, err
	}
	if err := s.ViewHistory(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	items := m.historyLocked(s.User().Email)
	out := make([]model.HistoryItem, len(items))
	copy(out, items)
	return out, nil
}

// Restart returns the session to the generating state after a scored quiz.
func (m *Manager) Restart(token string) error {
	s, err := m.Get(token)
	if err != nil {
		return err
	}
	return s.Restart()
}
