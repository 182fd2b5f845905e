package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"assessment-client/internal/domain"
)

func newTable(w io.Writer, headers ...string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	return tw
}

func row(tw *tabwriter.Writer, cols ...string) {
	fmt.Fprintln(tw, strings.Join(cols, "\t"))
}

func printLeaderboard(w io.Writer, board []domain.LeaderboardEntry) error {
	if len(board) == 0 {
		fmt.Fprintln(w, "No rankings yet.")
		return nil
	}
	tw := newTable(w, "RANK", "NAME", "REGNO", "SCORE", "PERCENT", "TESTS")
	for _, e := range board {
		rank := fmt.Sprintf("%d", e.Position)
		if e.Leader {
			rank += " *"
		}
		row(tw, rank, e.Ranking.Name, e.Ranking.RegNo,
			fmt.Sprintf("%d/%d", e.Ranking.TotalScore, e.Ranking.TotalQuestions),
			fmt.Sprintf("%.1f%%", e.Ranking.Percentage),
			fmt.Sprintf("%d", e.Ranking.TestsCount))
	}
	return tw.Flush()
}
