package app

import (
	"sort"

	"assessment-client/internal/domain"
)

// Rank aggregates results per account into a sorted leaderboard.
// Names and registration numbers are resolved from accounts; an account that is
// not listed falls back to its ID. Accounts with no questions answered are not ranked.
func Rank(results []domain.TestResult, accounts []domain.Account) []domain.Ranking {
	directory := make(map[string]domain.Account, len(accounts))
	for _, a := range accounts {
		directory[a.ID] = a
	}

	groups := make(map[string]*domain.Ranking)
	for _, r := range results {
		g, ok := groups[r.AccountID]
		if !ok {
			g = &domain.Ranking{AccountID: r.AccountID, Name: r.AccountID}
			if acct, found := directory[r.AccountID]; found {
				g.Name = acct.Name
				g.RegNo = acct.RegNo
			}
			groups[r.AccountID] = g
		}
		g.TotalScore += r.Score
		g.TotalQuestions += r.TotalQuestions
		g.TestsCount++
	}

	rankings := make([]domain.Ranking, 0, len(groups))
	for _, g := range groups {
		if g.TotalQuestions == 0 {
			continue
		}
		g.Percentage = float64(g.TotalScore) * 100 / float64(g.TotalQuestions)
		rankings = append(rankings, *g)
	}

	// Percentage desc, total score desc, name asc, then account ID so map order never leaks.
	sort.Slice(rankings, func(i, j int) bool {
		a, b := rankings[i], rankings[j]
		if a.Percentage != b.Percentage {
			return a.Percentage > b.Percentage
		}
		if a.TotalScore != b.TotalScore {
			return a.TotalScore > b.TotalScore
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.AccountID < b.AccountID
	})
	return rankings
}

// Leaderboard numbers rankings by position and flags the leader.
func Leaderboard(rankings []domain.Ranking) []domain.LeaderboardEntry {
	entries := make([]domain.LeaderboardEntry, len(rankings))
	for i, r := range rankings {
		entries[i] = domain.LeaderboardEntry{Position: i + 1, Leader: i == 0, Ranking: r}
	}
	return entries
}
