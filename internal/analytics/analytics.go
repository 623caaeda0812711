// Package analytics turns a skill's progress report into display values.
package analytics

import (
	"fmt"
	"math"

	"github.com/abhisek/sensei/internal/api"
)

// ProgressTarget is the activity count at which a progress bar is full.
const ProgressTarget = 10

// Group is the activity of one type.
type Group struct {
	Type     string
	Label    string
	Count    int
	AvgScore float64
}

// Label names an activity type for display.
func Label(activityType string) string {
	switch activityType {
	case "quiz":
		return "Quizzes"
	case "code":
		return "Coding"
	default:
		return "Chat"
	}
}

// GroupByType counts activities and averages their scores per type, in
// order of each type's first appearance.
func GroupByType(history []api.Activity) []Group {
	var out []Group
	index := map[string]int{}
	totals := map[string]float64{}

	for _, a := range history {
		i, ok := index[a.ActivityType]
		if !ok {
			i = len(out)
			index[a.ActivityType] = i
			out = append(out, Group{Type: a.ActivityType, Label: Label(a.ActivityType)})
		}
		out[i].Count++
		totals[a.ActivityType] += a.Score
	}
	for i := range out {
		out[i].AvgScore = totals[out[i].Type] / float64(out[i].Count)
	}
	return out
}

// FormatPercent renders a 0..1 fraction as "NN%", or "N/A" when there is
// no score yet.
func FormatPercent(fraction float64) string {
	if fraction == 0 || math.IsNaN(fraction) {
		return "N/A"
	}
	return fmt.Sprintf("%.0f%%", fraction*100)
}

// ScoreFraction returns the fraction for a score bar, 0 when unknown.
func ScoreFraction(fraction float64) float64 {
	if math.IsNaN(fraction) || fraction < 0 {
		return 0
	}
	return math.Min(fraction, 1)
}

// ProgressFraction returns count / ProgressTarget capped at 1.
func ProgressFraction(count int) float64 {
	if count <= 0 {
		return 0
	}
	return math.Min(float64(count)/ProgressTarget, 1)
}

// FormatAvg renders a group's average score with one decimal.
func FormatAvg(avg float64) string {
	return fmt.Sprintf("%.1f", avg)
}
