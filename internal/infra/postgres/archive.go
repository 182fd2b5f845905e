package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"assessment-client/internal/app"
	"assessment-client/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// Archive is a local reporting copy of accounts and test results. It reads
// back as a results source, so the dashboard can run without the server.
type Archive struct {
	pool *pgxpool.Pool
}

func NewArchive(pool *pgxpool.Pool) *Archive {
	return &Archive{pool: pool}
}

const upsertAccountSQL = `
INSERT INTO archived_accounts (id, regno, name, role, year, branch, section, phone)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (id) DO UPDATE SET
	regno = EXCLUDED.regno, name = EXCLUDED.name, role = EXCLUDED.role,
	year = EXCLUDED.year, branch = EXCLUDED.branch, section = EXCLUDED.section,
	phone = EXCLUDED.phone`

const upsertResultSQL = `
INSERT INTO archived_results (id, account_id, category, subcategory, score, total_questions, time_taken, submitted_at, answers)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (id) DO UPDATE SET
	account_id = EXCLUDED.account_id, category = EXCLUDED.category,
	subcategory = EXCLUDED.subcategory, score = EXCLUDED.score,
	total_questions = EXCLUDED.total_questions, time_taken = EXCLUDED.time_taken,
	submitted_at = EXCLUDED.submitted_at, answers = EXCLUDED.answers`

// Sync upserts accounts and results in one transaction. Rows without an id are
// rejected, since they could never be updated again.
func (a *Archive) Sync(ctx context.Context, accounts []domain.Account, results []domain.TestResult) error {
	batch := &pgx.Batch{}
	for _, acct := range accounts {
		if acct.ID == "" {
			return fmt.Errorf("archive account %q: %w", acct.RegNo, domain.ErrInvalidInput)
		}
		batch.Queue(upsertAccountSQL, acct.ID, acct.RegNo, acct.Name, string(acct.Role),
			acct.Year, acct.Branch, acct.Section, acct.Phone)
	}
	for _, r := range results {
		if r.ID == "" {
			return fmt.Errorf("archive result for %q: %w", r.AccountID, domain.ErrInvalidInput)
		}
		answers, err := json.Marshal(r.Answers)
		if err != nil {
			return fmt.Errorf("encode answers of %s: %w", r.ID, err)
		}
		batch.Queue(upsertResultSQL, r.ID, r.AccountID, r.Category, r.Subcategory,
			r.Score, r.TotalQuestions, r.TimeTaken, nullTime(r.SubmittedAt), string(answers))
	}
	if batch.Len() == 0 {
		return nil
	}

	return a.pool.BeginFunc(ctx, func(tx pgx.Tx) error {
		br := tx.SendBatch(ctx, batch)
		for i := 0; i < batch.Len(); i++ {
			if _, err := br.Exec(); err != nil {
				br.Close()
				return fmt.Errorf("archive sync: %w", err)
			}
		}
		return br.Close()
	})
}

// ListAccounts returns archived accounts ordered by name.
func (a *Archive) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	rows, err := a.pool.Query(ctx, `
SELECT id, regno, name, role, year, branch, section, phone
FROM archived_accounts ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("list archived accounts: %w", err)
	}
	defer rows.Close()

	var out []domain.Account
	for rows.Next() {
		var (
			acct domain.Account
			role string
		)
		if err := rows.Scan(&acct.ID, &acct.RegNo, &acct.Name, &role,
			&acct.Year, &acct.Branch, &acct.Section, &acct.Phone); err != nil {
			return nil, fmt.Errorf("scan archived account: %w", err)
		}
		acct.Role = domain.Role(role)
		out = append(out, acct)
	}
	return out, rows.Err()
}

// Results returns archived results, newest first.
func (a *Archive) Results(ctx context.Context) ([]domain.TestResult, error) {
	rows, err := a.pool.Query(ctx, `
SELECT id, account_id, category, subcategory, score, total_questions, time_taken, submitted_at, answers
FROM archived_results ORDER BY submitted_at DESC NULLS LAST, id`)
	if err != nil {
		return nil, fmt.Errorf("list archived results: %w", err)
	}
	defer rows.Close()

	var out []domain.TestResult
	for rows.Next() {
		var (
			r           domain.TestResult
			submittedAt *time.Time
			answers     []byte
		)
		if err := rows.Scan(&r.ID, &r.AccountID, &r.Category, &r.Subcategory,
			&r.Score, &r.TotalQuestions, &r.TimeTaken, &submittedAt, &answers); err != nil {
			return nil, fmt.Errorf("scan archived result: %w", err)
		}
		if submittedAt != nil {
			r.SubmittedAt = *submittedAt
		}
		if len(answers) > 0 {
			if err := json.Unmarshal(answers, &r.Answers); err != nil {
				return nil, fmt.Errorf("decode answers of %s: %w", r.ID, err)
			}
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Rankings ranks the archive locally with the same rules as the server view.
func (a *Archive) Rankings(ctx context.Context) ([]domain.Ranking, error) {
	results, err := a.Results(ctx)
	if err != nil {
		return nil, err
	}
	accounts, err := a.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}
	return app.Rank(results, accounts), nil
}

func nullTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
