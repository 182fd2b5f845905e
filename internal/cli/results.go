package cli

import (
	"fmt"

	"assessment-client/internal/app"
	"github.com/spf13/cobra"
)

func newResultsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "results",
		Short: "Show test results and the leaderboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(opts)
			if err != nil {
				return err
			}
			defer e.Close()

			out := cmd.OutOrStdout()
			view := app.NewDashboard(e.client, nil).Load(cmd.Context())

			fmt.Fprintln(out, "Results")
			switch {
			case view.ResultsErr != nil:
				fmt.Fprintf(out, "  %v\n", view.ResultsErr)
			case len(view.Results) == 0:
				fmt.Fprintln(out, "  No tests taken yet.")
			default:
				tw := newTable(out, "DATE", "TEST", "SCORE", "PERCENT", "GRADE", "TIME")
				for _, r := range view.Results {
					pct, grade := "-", "-"
					if r.Scored {
						pct = fmt.Sprintf("%.1f%%", r.Score.Percentage)
						grade = string(r.Score.Grade)
					}
					row(tw, r.Date, r.Label, fmt.Sprintf("%d/%d", r.Result.Score, r.Result.TotalQuestions), pct, grade, r.Elapsed)
				}
				if err := tw.Flush(); err != nil {
					return err
				}
			}

			fmt.Fprintln(out, "\nRankings")
			if view.RankingsErr != nil {
				fmt.Fprintf(out, "  %v\n", view.RankingsErr)
			} else if err := printLeaderboard(out, view.Leaderboard); err != nil {
				return err
			}

			// Each half is shown even if the other failed; still report failure.
			if view.ResultsErr != nil {
				return view.ResultsErr
			}
			return view.RankingsErr
		},
	}
}

func newRankingsCmd(opts *options) *cobra.Command {
	var recompute bool
	cmd := &cobra.Command{
		Use:   "rankings",
		Short: "Show the leaderboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(opts)
			if err != nil {
				return err
			}
			defer e.Close()

			if recompute {
				board, err := app.RecomputeRankings(cmd.Context(), e.client, e.client)
				if err != nil {
					return err
				}
				return printLeaderboard(cmd.OutOrStdout(), board)
			}
			rankings, err := e.client.Rankings(cmd.Context())
			if err != nil {
				return err
			}
			return printLeaderboard(cmd.OutOrStdout(), app.Leaderboard(rankings))
		},
	}
	cmd.Flags().BoolVar(&recompute, "recompute", false, "rank all visible results locally (admin)")
	return cmd
}
