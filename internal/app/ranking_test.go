package app_test

import (
	"reflect"
	"testing"

	"assessment-client/internal/app"
	"assessment-client/internal/domain"
)

func TestRankOrdersByPercentage(t *testing.T) {
	results := []domain.TestResult{
		{ID: "r1", AccountID: "A", Score: 8, TotalQuestions: 10},
		{ID: "r2", AccountID: "A", Score: 9, TotalQuestions: 10},
		{ID: "r3", AccountID: "B", Score: 10, TotalQuestions: 10},
	}
	accounts := []domain.Account{
		{ID: "A", Name: "Alice", RegNo: "21CS001"},
		{ID: "B", Name: "Bob", RegNo: "21CS002"},
	}

	got := app.Rank(results, accounts)
	if len(got) != 2 {
		t.Fatalf("expected 2 rankings, got %+v", got)
	}
	if got[0].AccountID != "B" || got[0].Percentage != 100 || got[0].TestsCount != 1 {
		t.Fatalf("expected B first at 100%% over 1 test, got %+v", got[0])
	}
	if got[1].AccountID != "A" || got[1].Percentage != 85 || got[1].TestsCount != 2 {
		t.Fatalf("expected A second at 85%% over 2 tests, got %+v", got[1])
	}
	if got[1].TotalScore != 17 || got[1].TotalQuestions != 20 || got[1].Name != "Alice" {
		t.Fatalf("unexpected totals %+v", got[1])
	}
}

func TestRankIsIdempotent(t *testing.T) {
	results := []domain.TestResult{
		{AccountID: "c", Score: 5, TotalQuestions: 10},
		{AccountID: "a", Score: 5, TotalQuestions: 10},
		{AccountID: "b", Score: 10, TotalQuestions: 20},
		{AccountID: "d", Score: 1, TotalQuestions: 2},
	}
	accounts := []domain.Account{{ID: "a", Name: "Zed"}, {ID: "c", Name: "Amy"}}

	first := app.Rank(results, accounts)
	for i := 0; i < 20; i++ {
		if again := app.Rank(results, accounts); !reflect.DeepEqual(first, again) {
			t.Fatalf("rank not deterministic:\n%+v\n%+v", first, again)
		}
	}
	// b leads on total score; then Amy before Zed, then d (name falls back to ID).
	order := []string{first[0].AccountID, first[1].AccountID, first[2].AccountID, first[3].AccountID}
	if !reflect.DeepEqual(order, []string{"b", "c", "a", "d"}) {
		t.Fatalf("unexpected order %v", order)
	}
}

func TestRankSkipsAccountsWithoutQuestions(t *testing.T) {
	got := app.Rank([]domain.TestResult{
		{AccountID: "empty", Score: 0, TotalQuestions: 0},
		{AccountID: "x", Score: 1, TotalQuestions: 2},
	}, nil)
	if len(got) != 1 || got[0].AccountID != "x" || got[0].Name != "x" {
		t.Fatalf("unexpected rankings %+v", got)
	}
}

func TestLeaderboardPositions(t *testing.T) {
	entries := app.Leaderboard([]domain.Ranking{{AccountID: "b"}, {AccountID: "a"}})
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Position != 1 || !entries[0].Leader {
		t.Fatalf("expected first entry to lead, got %+v", entries[0])
	}
	if entries[1].Position != 2 || entries[1].Leader {
		t.Fatalf("unexpected second entry %+v", entries[1])
	}
	if len(app.Leaderboard(nil)) != 0 {
		t.Fatalf("expected empty leaderboard")
	}
}
