package model

import "context"

// Status is the approval state of a record in the external user-control table.
type Status string

const (
	// StatusPending means the account exists but has not been approved yet.
	StatusPending Status = "pendente"
	// StatusApproved means the account may use the application.
	StatusApproved Status = "aprovado"
)

// User is a row of the hosted user-control table. The application only
// reads it; creation and approval happen out of band.
type User struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Status Status `json:"status"`
}

// Difficulty is the requested quiz difficulty tier. It influences prompt
// wording only.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ValidDifficulty reports whether d is one of the three known tiers.
func ValidDifficulty(d Difficulty) bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Question is a single generated multiple-choice question. Immutable once
// generated. CorrectAnswerIndex always indexes Options.
type Question struct {
	ID                 int      `json:"id"`
	Question           string   `json:"question"`
	Options            []string `json:"options"`
	CorrectAnswerIndex int      `json:"correctAnswerIndex"`
	MentorTip          string   `json:"mentorTip"`
}

// QuizData is one generated quiz. A valid quiz is never empty.
type QuizData struct {
	Questions []Question `json:"questions"`
}

// NoAnswer marks a question the user never answered.
const NoAnswer = -1

// Tier classifies a quiz result.
type Tier string

const (
	TierPass       Tier = "pass"
	TierBorderline Tier = "borderline"
	TierFail       Tier = "fail"
)

// IncorrectDetail describes one wrongly (or not) answered question for the
// score report, in original question order.
type IncorrectDetail struct {
	Index             int    `json:"index"`
	QuestionText      string `json:"questionText"`
	ChosenOptionText  string `json:"chosenOptionText"`
	CorrectOptionText string `json:"correctOptionText"`
	MentorTip         string `json:"mentorTip"`
}

// ScoreReport is the computed result of one completed quiz attempt.
type ScoreReport struct {
	CorrectCount     int               `json:"correctCount"`
	Total            int               `json:"total"`
	Percentage       int               `json:"percentage"`
	Tier             Tier              `json:"tier"`
	IncorrectDetails []IncorrectDetail `json:"incorrectDetails"`
}

// HistoryItem is a summary record of one completed quiz, persisted as part
// of the bounded local history list. Never mutated after creation.
type HistoryItem struct {
	ID         string     `json:"id"`
	Subject    string     `json:"subject"`
	Date       string     `json:"date"`
	Correct    int        `json:"correct"`
	Total      int        `json:"total"`
	Difficulty Difficulty `json:"difficulty"`
}

type userCtxKey struct{}

// ContextWithUser stores the authenticated user in the request context.
func ContextWithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, userCtxKey{}, u)
}

// UserFromContext retrieves the authenticated user from context, or nil.
func UserFromContext(ctx context.Context) *User {
	u, _ := ctx.Value(userCtxKey{}).(*User)
	return u
}
