// Package scoring computes the result of a completed quiz: correctness
// count, tier classification, the incorrect-answer breakdown, the plain-text
// report transcript and the bounded attempt history. Everything here is a
// pure function over its inputs.
package scoring

import (
	"math"

	"github.com/dmoura/simulado/internal/model"
)

// ChosenNone marks an unanswered question in an incorrect-answer detail.
const ChosenNone = "none"

// Score computes the report for a completed quiz. answers is indexed by
// question position; a missing slot or model.NoAnswer counts as absent, and
// an absent answer is never correct. Calling Score twice with identical
// inputs yields identical reports.
func Score(quiz *model.QuizData, answers []int) model.ScoreReport {
	total := len(quiz.Questions)

	report := model.ScoreReport{Total: total}
	for i, q := range quiz.Questions {
		chosen := model.NoAnswer
		if i < len(answers) {
			chosen = answers[i]
		}

		if chosen == q.CorrectAnswerIndex {
			report.CorrectCount++
			continue
		}

		chosenText := ChosenNone
		if chosen >= 0 && chosen < len(q.Options) {
			chosenText = q.Options[chosen]
		}
		report.IncorrectDetails = append(report.IncorrectDetails, model.IncorrectDetail{
			Index:             i,
			QuestionText:      q.Question,
			ChosenOptionText:  chosenText,
			CorrectOptionText: q.Options[q.CorrectAnswerIndex],
			MentorTip:         q.MentorTip,
		})
	}

	report.Percentage = percentage(report.CorrectCount, total)
	report.Tier = TierFor(report.Percentage)
	return report
}

// TierFor classifies a percentage. Boundary values belong to the higher
// tier: 70 is a pass, 50 is borderline.
func TierFor(pct int) model.Tier {
	switch {
	case pct >= 70:
		return model.TierPass
	case pct >= 50:
		return model.TierBorderline
	default:
		return model.TierFail
	}
}

func percentage(correct, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(correct) / float64(total)))
}
