package app

import (
	"context"
	"time"

	"assessment-client/internal/domain"
	"golang.org/x/sync/errgroup"
)

// ResultsReader fetches the data behind the results dashboard.
type ResultsReader interface {
	Results(ctx context.Context) ([]domain.TestResult, error)
	Rankings(ctx context.Context) ([]domain.Ranking, error)
}

// AccountLister lists accounts; used to resolve names when ranking locally.
type AccountLister interface {
	ListAccounts(ctx context.Context) ([]domain.Account, error)
}

// ResultRow is one result prepared for display.
type ResultRow struct {
	Result  domain.TestResult
	Label   string
	Score   Score
	Scored  bool // false when the result has no questions
	Tone    Tone
	Elapsed string
	Date    string
}

// DashboardView holds both halves of the dashboard. Each half carries its own
// error; one failing never hides the other.
type DashboardView struct {
	Results     []ResultRow
	ResultsErr  error
	Leaderboard []domain.LeaderboardEntry
	RankingsErr error
}

// Dashboard assembles the results and rankings view.
type Dashboard struct {
	reader  ResultsReader
	catalog *Catalog
}

func NewDashboard(reader ResultsReader, catalog *Catalog) *Dashboard {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &Dashboard{reader: reader, catalog: catalog}
}

// Load fetches results and rankings concurrently.
func (d *Dashboard) Load(ctx context.Context) DashboardView {
	var view DashboardView
	// A plain Group: a failure on one side must not cancel the other.
	var g errgroup.Group
	g.Go(func() error {
		results, err := d.reader.Results(ctx)
		if err != nil {
			view.ResultsErr = err
			return nil
		}
		view.Results = d.Rows(results)
		return nil
	})
	g.Go(func() error {
		rankings, err := d.reader.Rankings(ctx)
		if err != nil {
			view.RankingsErr = err
			return nil
		}
		view.Leaderboard = Leaderboard(rankings)
		return nil
	})
	_ = g.Wait()
	return view
}

// Rows prepares results for display.
func (d *Dashboard) Rows(results []domain.TestResult) []ResultRow {
	rows := make([]ResultRow, 0, len(results))
	for _, r := range results {
		row := ResultRow{
			Result: r,
			Label:  d.catalog.Label(r.Category, r.Subcategory),
			Date:   formatDate(r.SubmittedAt),
		}
		if score, err := ScoreFor(r.Score, r.TotalQuestions); err == nil {
			row.Score = score
			row.Scored = true
			row.Tone = ToneFor(score.Percentage)
		}
		if elapsed, err := FormatElapsed(r.TimeTaken); err == nil {
			row.Elapsed = elapsed
		}
		rows = append(rows, row)
	}
	return rows
}

// RecomputeRankings ranks every visible result locally instead of trusting the
// server's ranking endpoint. Both reads are required, so either failing cancels the other.
func RecomputeRankings(ctx context.Context, reader ResultsReader, accounts AccountLister) ([]domain.LeaderboardEntry, error) {
	var (
		results []domain.TestResult
		accts   []domain.Account
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		results, err = reader.Results(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		accts, err = accounts.ListAccounts(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return Leaderboard(Rank(results, accts)), nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("2006-01-02")
}
