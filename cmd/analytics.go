package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/sensei/internal/analytics"
)

// barWidth is the width of the text progress bars.
const barWidth = 20

var analyticsCmd = &cobra.Command{
	Use:   "analytics SKILL_ID",
	Short: "Show progress analytics for a skill",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		sess, err := e.session(ctx)
		if err != nil {
			return err
		}
		s, err := e.getSkill(ctx, sess, args[0])
		if err != nil {
			return err
		}
		a, err := e.backend.SkillAnalytics(ctx, s.ID, sess.UserID)
		if err != nil {
			return fmt.Errorf("load analytics: %w", err)
		}

		sum := a.Summary
		fmt.Printf("Progress · %s\n", s.Title)
		rule(60)
		fmt.Printf("%-24s %s  %s\n", "Overall score", bar(analytics.ScoreFraction(sum.CombinedAvgScore)), analytics.FormatPercent(sum.CombinedAvgScore))
		fmt.Printf("%-24s %s  %d taken\n", "Quiz average", bar(analytics.ScoreFraction(sum.AvgQuizScore)), sum.TotalQuizzes)
		fmt.Printf("%-24s %s  %d solved\n", "Coding average", bar(analytics.ScoreFraction(sum.AvgCodeScore)), sum.CodeChallengesSolved)

		groups := analytics.GroupByType(a.History)
		if len(groups) == 0 {
			fmt.Println("\nNo activity yet. Take a quiz or solve a challenge to see progress here.")
			return nil
		}

		fmt.Println()
		fmt.Printf("%-12s  %6s  %8s  %s\n", "Activity", "Count", "Avg", "Progress")
		rule(60)
		for _, g := range groups {
			fmt.Printf("%-12s  %6d  %8s  %s\n", g.Label, g.Count, analytics.FormatAvg(g.AvgScore), bar(analytics.ProgressFraction(g.Count)))
		}
		return nil
	},
}

// bar renders a 0..1 fraction as a fixed-width block bar.
func bar(fraction float64) string {
	filled := int(fraction*barWidth + 0.5)
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}
