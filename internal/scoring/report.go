package scoring

import (
	"context"
	"fmt"
	"strings"
	"time"

	appI18n "github.com/dmoura/simulado/internal/i18n"
	"github.com/dmoura/simulado/internal/model"
)

// dateLayout is the display format used for report timestamps and history
// entries.
const dateLayout = "02/01/2006 15:04"

// BuildReportText renders the plain-text transcript of one quiz attempt:
// topic, difficulty, score fraction and percentage, timestamp and the full
// incorrect-answer breakdown. Wording comes from the active localizer.
func BuildReportText(ctx context.Context, topic string, difficulty model.Difficulty, when time.Time, report model.ScoreReport) string {
	var sb strings.Builder

	sb.WriteString(appI18n.T(ctx, "AppTitle") + " - " + appI18n.T(ctx, "ReportTitle") + "\n")
	sb.WriteString(strings.Repeat("=", 40) + "\n\n")

	fmt.Fprintf(&sb, "%s: %s\n", appI18n.T(ctx, "ReportTopic"), topic)
	fmt.Fprintf(&sb, "%s: %s\n", appI18n.T(ctx, "ReportDifficulty"), DifficultyLabel(ctx, difficulty))
	fmt.Fprintf(&sb, "%s: %s\n", appI18n.T(ctx, "ReportDate"), when.Format(dateLayout))
	sb.WriteString(appI18n.Td(ctx, "ReportScore", map[string]any{
		"Correct":    report.CorrectCount,
		"Total":      report.Total,
		"Percentage": report.Percentage,
	}) + "\n")
	fmt.Fprintf(&sb, "%s - %s\n\n", TierLabel(ctx, report.Tier), tierMessage(ctx, report.Tier))

	if len(report.IncorrectDetails) == 0 {
		sb.WriteString(appI18n.T(ctx, "ReportAllCorrect") + "\n")
		return sb.String()
	}

	sb.WriteString(appI18n.T(ctx, "ReportReview") + "\n")
	sb.WriteString(strings.Repeat("-", 40) + "\n")
	for _, d := range report.IncorrectDetails {
		fmt.Fprintf(&sb, "\n%s: %s\n", appI18n.Td(ctx, "ReportQuestion", map[string]any{"Index": d.Index + 1}), d.QuestionText)

		chosen := d.ChosenOptionText
		if chosen == ChosenNone {
			chosen = appI18n.T(ctx, "ReportNoAnswer")
		}
		fmt.Fprintf(&sb, "  %s: %s\n", appI18n.T(ctx, "ReportYourAnswer"), chosen)
		fmt.Fprintf(&sb, "  %s: %s\n", appI18n.T(ctx, "ReportCorrectAnswer"), d.CorrectOptionText)
		fmt.Fprintf(&sb, "  %s: %s\n", appI18n.T(ctx, "ReportMentorTip"), d.MentorTip)
	}

	return sb.String()
}

// DifficultyLabel returns the localized display name of a difficulty tier.
func DifficultyLabel(ctx context.Context, d model.Difficulty) string {
	switch d {
	case model.DifficultyEasy:
		return appI18n.T(ctx, "DifficultyEasy")
	case model.DifficultyHard:
		return appI18n.T(ctx, "DifficultyHard")
	default:
		return appI18n.T(ctx, "DifficultyMedium")
	}
}

// TierLabel returns the localized display name of a result tier.
func TierLabel(ctx context.Context, tier model.Tier) string {
	switch tier {
	case model.TierPass:
		return appI18n.T(ctx, "TierPass")
	case model.TierBorderline:
		return appI18n.T(ctx, "TierBorderline")
	default:
		return appI18n.T(ctx, "TierFail")
	}
}

func tierMessage(ctx context.Context, tier model.Tier) string {
	switch tier {
	case model.TierPass:
		return appI18n.T(ctx, "TierPassMsg")
	case model.TierBorderline:
		return appI18n.T(ctx, "TierBorderlineMsg")
	default:
		return appI18n.T(ctx, "TierFailMsg")
	}
}
