package scoring

import (
	"strconv"
	"time"

	"github.com/dmoura/simulado/internal/model"
)

const (
	// maxHistory bounds the local attempt history; the oldest entries are
	// evicted beyond it.
	maxHistory = 100
	// subjectLimit is the display length the topic is truncated to.
	subjectLimit = 35
)

// NewHistoryItem builds the summary record for one completed quiz.
func NewHistoryItem(topic string, difficulty model.Difficulty, correct, total int, now time.Time) model.HistoryItem {
	return model.HistoryItem{
		ID:         strconv.FormatInt(now.UnixNano(), 10),
		Subject:    truncateSubject(topic),
		Date:       now.Format(dateLayout),
		Correct:    correct,
		Total:      total,
		Difficulty: difficulty,
	}
}

// AppendHistory prepends item and truncates to the most recent maxHistory
// entries, dropping the oldest. The input slice is not modified.
func AppendHistory(existing []model.HistoryItem, item model.HistoryItem) []model.HistoryItem {
	out := make([]model.HistoryItem, 0, len(existing)+1)
	out = append(out, item)
	out = append(out, existing...)
	if len(out) > maxHistory {
		out = out[:maxHistory]
	}
	return out
}

func truncateSubject(topic string) string {
	runes := []rune(topic)
	if len(runes) <= subjectLimit {
		return topic
	}
	return string(runes[:subjectLimit]) + "..."
}
