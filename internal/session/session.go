// Package session owns the per-user application state machine:
//
//	LoggedOut -> Generating -> InQuiz(i) -> Scored -> (Generating | ViewingHistory)
//
// All shared mutable state (current user, quiz, answers, history) lives
// behind explicit transition methods; any failed transition leaves the
// session in its prior state with the error surfaced to the caller.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/dmoura/simulado/internal/model"
)

// State names a position in the session state machine.
type State string

const (
	// StateGenerating is the topic-submission state, entered on login and
	// on restart.
	StateGenerating State = "generating"
	// StateInQuiz means a quiz is active and awaiting answers.
	StateInQuiz State = "in_quiz"
	// StateScored means the quiz is complete and a report is available.
	StateScored State = "scored"
	// StateViewingHistory is the history view reached from the scored or
	// generating states.
	StateViewingHistory State = "viewing_history"
)

var (
	// ErrNoSession means the token does not name a live session.
	ErrNoSession = errors.New("no active session")
	// ErrBusy means this session already has an operation in flight; the
	// triggering control is disabled for the duration of that call.
	ErrBusy = errors.New("operation already in flight for this session")
	// ErrQuizNotActive means the session holds no quiz awaiting answers.
	ErrQuizNotActive = errors.New("no quiz in progress")
	// ErrReportNotReady means the quiz has not been completed yet.
	ErrReportNotReady = errors.New("quiz not completed")
	// ErrInvalidAnswer means the selected option does not exist.
	ErrInvalidAnswer = errors.New("answer index out of range")
	// ErrWrongState means the requested transition is not available from
	// the session's current state.
	ErrWrongState = errors.New("transition not available in current state")
)

// Session holds one authenticated user's state. All fields are guarded by
// mu; only the single active operation's completion mutates them.
type Session struct {
	mu sync.Mutex

	user  model.User
	state State
	busy  bool

	topic      string
	difficulty model.Difficulty
	quiz       *model.QuizData
	answers    []int
	current    int

	report     *model.ScoreReport
	finishedAt time.Time
}

// newSession creates a session for an authenticated user, positioned at the
// generating state.
func newSession(user model.User) *Session {
	return &Session{user: user, state: StateGenerating}
}

// User returns the authenticated user.
func (s *Session) User() model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// CurrentQuestion returns the active question and the 1-based progress
// fraction, or ErrQuizNotActive.
func (s *Session) CurrentQuestion() (model.Question, int, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateInQuiz || s.quiz == nil {
		return model.Question{}, 0, 0, ErrQuizNotActive
	}
	return s.quiz.Questions[s.current], s.current + 1, len(s.quiz.Questions), nil
}

// beginGenerate reserves the session's single in-flight slot and validates
// the transition into quiz generation.
func (s *Session) beginGenerate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return ErrBusy
	}
	switch s.state {
	case StateGenerating, StateScored, StateViewingHistory:
		s.busy = true
		return nil
	default:
		return ErrWrongState
	}
}

// finishGenerate commits a successful generation, or releases the slot
// leaving the prior state intact when the call failed.
func (s *Session) finishGenerate(topic string, difficulty model.Difficulty, quiz *model.QuizData, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	if err != nil || quiz == nil {
		return
	}

	answers := make([]int, len(quiz.Questions))
	for i := range answers {
		answers[i] = model.NoAnswer
	}

	s.topic = topic
	s.difficulty = difficulty
	s.quiz = quiz
	s.answers = answers
	s.current = 0
	s.report = nil
	s.state = StateInQuiz
}

// Answer records the selected option for the current question and advances
// the machine. Answering the last question freezes the answer set and moves
// to the scored state in the same critical section, so a second submission
// can never reopen the finished quiz; the caller then scores it and attaches
// the report via complete.
func (s *Session) Answer(option int) (done bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateInQuiz || s.quiz == nil {
		return false, ErrQuizNotActive
	}
	q := s.quiz.Questions[s.current]
	if option < 0 || option >= len(q.Options) {
		return false, ErrInvalidAnswer
	}

	s.answers[s.current] = option
	if s.current < len(s.quiz.Questions)-1 {
		s.current++
		return false, nil
	}
	s.state = StateScored
	return true, nil
}

// complete attaches the computed report to the scored session. A restart or
// new generation that slipped in since the last answer wins; the report is
// then dropped rather than resurrecting the old quiz.
func (s *Session) complete(report model.ScoreReport, when time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateScored {
		return
	}
	s.report = &report
	s.finishedAt = when
}

// Result returns the attempt's report together with its topic, difficulty
// and completion time, or ErrReportNotReady.
func (s *Session) Result() (model.ScoreReport, string, model.Difficulty, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.report == nil {
		return model.ScoreReport{}, "", "", time.Time{}, ErrReportNotReady
	}
	return *s.report, s.topic, s.difficulty, s.finishedAt, nil
}

// Quiz returns the active or just-scored quiz, or nil.
func (s *Session) Quiz() *model.QuizData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quiz
}

// ViewHistory transitions into the history view. Available from the
// generating and scored states.
func (s *Session) ViewHistory() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StateGenerating, StateScored, StateViewingHistory:
		s.state = StateViewingHistory
		return nil
	default:
		return ErrWrongState
	}
}

// Restart discards the finished quiz and returns to the generating state.
func (s *Session) Restart() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StateScored, StateViewingHistory:
		s.quiz = nil
		s.answers = nil
		s.report = nil
		s.current = 0
		s.state = StateGenerating
		return nil
	default:
		return ErrWrongState
	}
}

// answersSnapshot copies the frozen answer set for scoring, along with the
// quiz context it belongs to.
func (s *Session) answersSnapshot() (quiz *model.QuizData, answers []int, topic string, difficulty model.Difficulty) {
	s.mu.Lock()
	defer s.mu.Unlock()
	answers = make([]int, len(s.answers))
	copy(answers, s.answers)
	return s.quiz, answers, s.topic, s.difficulty
}
