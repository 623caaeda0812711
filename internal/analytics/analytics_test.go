package analytics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/sensei/internal/api"
)

func TestGroupByType(t *testing.T) {
	got := GroupByType([]api.Activity{
		{ActivityType: "code", Score: 3},
		{ActivityType: "quiz", Score: 4},
		{ActivityType: "code", Score: 5},
		{ActivityType: "chat", Score: 0},
		{ActivityType: "quiz", Score: 1},
	})
	require.Len(t, got, 3)

	assert.Equal(t, Group{Type: "code", Label: "Coding", Count: 2, AvgScore: 4}, got[0])
	assert.Equal(t, Group{Type: "quiz", Label: "Quizzes", Count: 2, AvgScore: 2.5}, got[1])
	assert.Equal(t, Group{Type: "chat", Label: "Chat", Count: 1, AvgScore: 0}, got[2])
}

func TestGroupByType_Empty(t *testing.T) {
	assert.Empty(t, GroupByType(nil))
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Quizzes", Label("quiz"))
	assert.Equal(t, "Coding", Label("code"))
	assert.Equal(t, "Chat", Label("mentor"))
	assert.Equal(t, "Chat", Label(""))
}

func TestFormatPercent(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "N/A"},
		{math.NaN(), "N/A"},
		{0.5, "50%"},
		{0.876, "88%"},
		{1, "100%"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatPercent(tt.in))
	}
}

func TestProgressFraction(t *testing.T) {
	assert.Equal(t, 0.0, ProgressFraction(0))
	assert.Equal(t, 0.3, ProgressFraction(3))
	assert.Equal(t, 1.0, ProgressFraction(10))
	assert.Equal(t, 1.0, ProgressFraction(25))
}

func TestScoreFraction(t *testing.T) {
	assert.Equal(t, 0.0, ScoreFraction(math.NaN()))
	assert.Equal(t, 0.0, ScoreFraction(-1))
	assert.Equal(t, 0.42, ScoreFraction(0.42))
	assert.Equal(t, 1.0, ScoreFraction(1.7))
}

func TestFormatAvg(t *testing.T) {
	assert.Equal(t, "2.5", FormatAvg(2.5))
	assert.Equal(t, "3.3", FormatAvg(10.0/3))
}
