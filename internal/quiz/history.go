package quiz

import (
	"fmt"
	"time"

	"github.com/abhisek/sensei/internal/api"
)

// HistoryEntry is a past quiz prepared for display.
type HistoryEntry struct {
	ID      string
	Score   int
	Total   int
	Percent int
	TakenAt time.Time
	Review  []api.QuestionResult
}

// Summary renders "Score: 3/5 (60%)".
func (e HistoryEntry) Summary() string {
	return fmt.Sprintf("Score: %d/%d (%d%%)", e.Score, e.Total, e.Percent)
}

// History converts the backend's quiz history.
func History(past []api.PastQuiz) []HistoryEntry {
	out := make([]HistoryEntry, len(past))
	for i, p := range past {
		out[i] = HistoryEntry{
			ID:      p.ID,
			Score:   p.Score,
			Total:   p.TotalQuestions,
			Percent: Percent(p.Score, p.TotalQuestions),
			TakenAt: p.CreatedAt.Time,
			Review:  p.Questions,
		}
	}
	return out
}

// FormatDate renders a timestamp as "Jan 2, 2006, 03:04 PM" in local time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "unknown date"
	}
	return t.Local().Format("Jan 2, 2006, 03:04 PM")
}
