package quizgen

import (
	"fmt"
	"strings"

	"github.com/dmoura/simulado/internal/model"
)

const systemPrompt = `You are a quiz writer for a study application. You turn the user's study material into multiple-choice questions that test understanding of that material, and nothing else.`

// buildPrompt constructs the generation instruction embedding the topic,
// the difficulty tier and the exact requested question count.
func buildPrompt(topic string, difficulty model.Difficulty, count int, locale string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Generate exactly %d multiple-choice questions based STRICTLY on the following material:\n\n", count)
	sb.WriteString("\"" + topic + "\"\n\n")

	sb.WriteString("REQUIREMENTS:\n")
	sb.WriteString("- Each question has exactly 4 options and exactly one correct option.\n")
	sb.WriteString("- Each question carries a zero-based correctAnswerIndex and a \"mentorTip\": at most 15 words explaining why the correct option is right, with educational context.\n")
	sb.WriteString("- Number questions with sequential unique ids starting at 1.\n")
	sb.WriteString("- " + difficultyDirective(difficulty) + "\n")
	sb.WriteString("- " + localeDirective(locale) + "\n")
	sb.WriteString("\nRespond with a single JSON object only. No prose, no markdown, no code fences.\n")

	return sb.String()
}

func difficultyDirective(d model.Difficulty) string {
	switch d {
	case model.DifficultyEasy:
		return "Difficulty: easy. Test recall of facts stated directly in the material."
	case model.DifficultyHard:
		return "Difficulty: hard. Test inference and application; make distractors plausible misreadings of the material."
	default:
		return "Difficulty: medium. Mix recall with comprehension questions."
	}
}

func localeDirective(locale string) string {
	switch {
	case strings.HasPrefix(locale, "pt"):
		return "Write all questions, options and mentor tips in Brazilian Portuguese."
	default:
		return "Write all questions, options and mentor tips in English."
	}
}
