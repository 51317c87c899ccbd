package scoring

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/dmoura/simulado/internal/model"
)

func testQuiz(n int) *model.QuizData {
	quiz := &model.QuizData{}
	for i := 0; i < n; i++ {
		quiz.Questions = append(quiz.Questions, model.Question{
			ID:                 i + 1,
			Question:           fmt.Sprintf("Q%d?", i+1),
			Options:            []string{"opt a", "opt b", "opt c", "opt d"},
			CorrectAnswerIndex: i % 4,
			MentorTip:          fmt.Sprintf("tip %d", i+1),
		})
	}
	return quiz
}

func TestScoreAllCorrect(t *testing.T) {
	quiz := testQuiz(4)
	report := Score(quiz, []int{0, 1, 2, 3})

	if report.CorrectCount != 4 {
		t.Errorf("expected 4 correct, got %d", report.CorrectCount)
	}
	if report.Percentage != 100 {
		t.Errorf("expected 100%%, got %d", report.Percentage)
	}
	if report.Tier != model.TierPass {
		t.Errorf("expected pass tier, got %q", report.Tier)
	}
	if len(report.IncorrectDetails) != 0 {
		t.Errorf("expected no incorrect details, got %d", len(report.IncorrectDetails))
	}
}

func TestScoreBounds(t *testing.T) {
	quiz := testQuiz(5)
	answerSets := [][]int{
		nil,
		{0, 1, 2, 3, 0},
		{3, 3, 3, 3, 3},
		{model.NoAnswer, model.NoAnswer, 2, model.NoAnswer, 0},
		{0},
	}

	for _, answers := range answerSets {
		report := Score(quiz, answers)
		if report.CorrectCount < 0 || report.CorrectCount > len(quiz.Questions) {
			t.Errorf("answers %v: correct count %d out of bounds", answers, report.CorrectCount)
		}
	}
}

func TestScoreIdempotent(t *testing.T) {
	quiz := testQuiz(5)
	answers := []int{0, 2, model.NoAnswer, 3, 0}

	first := Score(quiz, answers)
	second := Score(quiz, answers)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Score not idempotent: %+v vs %+v", first, second)
	}
}

func TestTierBoundaries(t *testing.T) {
	tests := []struct {
		correct int
		total   int
		wantPct int
		want    model.Tier
	}{
		{35, 50, 70, model.TierPass},
		{24, 50, 48, model.TierFail},
		{25, 50, 50, model.TierBorderline},
		{50, 50, 100, model.TierPass},
		{0, 50, 0, model.TierFail},
		{34, 50, 68, model.TierBorderline},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_of_%d", tt.correct, tt.total), func(t *testing.T) {
			quiz := testQuiz(tt.total)
			answers := make([]int, tt.total)
			for i := range answers {
				if i < tt.correct {
					answers[i] = quiz.Questions[i].CorrectAnswerIndex
				} else {
					answers[i] = (quiz.Questions[i].CorrectAnswerIndex + 1) % 4
				}
			}

			report := Score(quiz, answers)
			if report.CorrectCount != tt.correct {
				t.Fatalf("correct = %d, want %d", report.CorrectCount, tt.correct)
			}
			if report.Percentage != tt.wantPct {
				t.Errorf("percentage = %d, want %d", report.Percentage, tt.wantPct)
			}
			if report.Tier != tt.want {
				t.Errorf("tier = %q, want %q", report.Tier, tt.want)
			}
		})
	}
}

func TestScoreAbsentAnswerDetail(t *testing.T) {
	quiz := testQuiz(5)
	// Answer everything correctly except index 2, which stays absent.
	answers := []int{0, 1, model.NoAnswer, 3, 0}

	report := Score(quiz, answers)
	if report.CorrectCount != 4 {
		t.Fatalf("expected 4 correct, got %d", report.CorrectCount)
	}
	if len(report.IncorrectDetails) != 1 {
		t.Fatalf("expected 1 incorrect detail, got %d", len(report.IncorrectDetails))
	}

	d := report.IncorrectDetails[0]
	if d.Index != 2 {
		t.Errorf("expected index 2, got %d", d.Index)
	}
	if d.ChosenOptionText != ChosenNone {
		t.Errorf("expected chosen text %q, got %q", ChosenNone, d.ChosenOptionText)
	}
	if d.CorrectOptionText != quiz.Questions[2].Options[quiz.Questions[2].CorrectAnswerIndex] {
		t.Errorf("unexpected correct option text %q", d.CorrectOptionText)
	}
	if d.MentorTip != "tip 3" {
		t.Errorf("unexpected mentor tip %q", d.MentorTip)
	}
}

func TestScoreShortAnswerSliceTreatedAsAbsent(t *testing.T) {
	quiz := testQuiz(3)
	report := Score(quiz, []int{quiz.Questions[0].CorrectAnswerIndex})

	if report.CorrectCount != 1 {
		t.Fatalf("expected 1 correct, got %d", report.CorrectCount)
	}
	if len(report.IncorrectDetails) != 2 {
		t.Fatalf("expected 2 incorrect details, got %d", len(report.IncorrectDetails))
	}
	for _, d := range report.IncorrectDetails {
		if d.ChosenOptionText != ChosenNone {
			t.Errorf("index %d: expected chosen %q, got %q", d.Index, ChosenNone, d.ChosenOptionText)
		}
	}
}

func TestScorePreservesQuestionOrder(t *testing.T) {
	quiz := testQuiz(4)
	// Get everything wrong.
	answers := []int{1, 2, 3, 0}

	report := Score(quiz, answers)
	if len(report.IncorrectDetails) != 4 {
		t.Fatalf("expected 4 incorrect details, got %d", len(report.IncorrectDetails))
	}
	for i, d := range report.IncorrectDetails {
		if d.Index != i {
			t.Errorf("detail %d has index %d, want %d", i, d.Index, i)
		}
	}
}

func TestAppendHistoryCap(t *testing.T) {
	now := time.Now()
	var existing []model.HistoryItem
	for i := 0; i < 100; i++ {
		existing = append(existing, model.HistoryItem{ID: fmt.Sprintf("old-%d", i)})
	}

	item := NewHistoryItem("tema novo", model.DifficultyMedium, 7, 10, now)
	got := AppendHistory(existing, item)

	if len(got) != 100 {
		t.Fatalf("expected 100 entries, got %d", len(got))
	}
	if got[0].ID != item.ID {
		t.Errorf("expected new item first, got %q", got[0].ID)
	}
	if got[99].ID != "old-98" {
		t.Errorf("expected oldest entry dropped, last is %q", got[99].ID)
	}
	if len(existing) != 100 || existing[0].ID != "old-0" {
		t.Error("AppendHistory must not mutate its input")
	}
}

func TestAppendHistoryPrepends(t *testing.T) {
	a := NewHistoryItem("a", model.DifficultyEasy, 1, 5, time.Now())
	b := NewHistoryItem("b", model.DifficultyHard, 2, 5, time.Now().Add(time.Second))

	got := AppendHistory(AppendHistory(nil, a), b)
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].Subject != "b" || got[1].Subject != "a" {
		t.Errorf("expected newest first, got %q then %q", got[0].Subject, got[1].Subject)
	}
}

func TestNewHistoryItemTruncatesSubject(t *testing.T) {
	long := "um assunto extremamente comprido que não cabe na listagem do histórico"
	item := NewHistoryItem(long, model.DifficultyEasy, 3, 5, time.Now())

	if len([]rune(item.Subject)) != 38 { // 35 runes + "..."
		t.Errorf("unexpected subject length %d: %q", len([]rune(item.Subject)), item.Subject)
	}
	if item.Subject[len(item.Subject)-3:] != "..." {
		t.Errorf("expected ellipsis suffix, got %q", item.Subject)
	}

	short := NewHistoryItem("curto", model.DifficultyEasy, 3, 5, time.Now())
	if short.Subject != "curto" {
		t.Errorf("short subject should be untouched, got %q", short.Subject)
	}
}
