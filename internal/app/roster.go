package app

import (
	"context"
	"log"
	"sort"
	"sync"

	"assessment-client/internal/domain"
)

// AccountAdmin is the administrator's view of account management.
type AccountAdmin interface {
	AccountLister
	CreateAccount(ctx context.Context, acct domain.NewAccount) (domain.Account, error)
	DeleteAccount(ctx context.Context, id string) (domain.Confirmation, error)
}

// AccountFilter narrows a roster. Empty fields match anything.
type AccountFilter struct {
	Year    string
	Branch  string
	Section string
}

// Match reports whether a satisfies every non-empty field of f.
func (f AccountFilter) Match(a domain.Account) bool {
	return (f.Year == "" || a.Year == f.Year) &&
		(f.Branch == "" || a.Branch == f.Branch) &&
		(f.Section == "" || a.Section == f.Section)
}

// FilterAccounts returns the accounts matching f, preserving order.
func FilterAccounts(accounts []domain.Account, f AccountFilter) []domain.Account {
	out := make([]domain.Account, 0, len(accounts))
	for _, a := range accounts {
		if f.Match(a) {
			out = append(out, a)
		}
	}
	return out
}

// FilterValues are the distinct non-empty values offered by each filter.
type FilterValues struct {
	Years    []string
	Branches []string
	Sections []string
}

// DistinctValues collects sorted filter choices from accounts.
func DistinctValues(accounts []domain.Account) FilterValues {
	years, branches, sections := map[string]struct{}{}, map[string]struct{}{}, map[string]struct{}{}
	for _, a := range accounts {
		if a.Year != "" {
			years[a.Year] = struct{}{}
		}
		if a.Branch != "" {
			branches[a.Branch] = struct{}{}
		}
		if a.Section != "" {
			sections[a.Section] = struct{}{}
		}
	}
	return FilterValues{Years: sortedKeys(years), Branches: sortedKeys(branches), Sections: sortedKeys(sections)}
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Roster is the administrator's list of student logins. The local list only
// changes after the server confirms a change.
type Roster struct {
	admin AccountAdmin

	mu       sync.RWMutex
	accounts []domain.Account
}

func NewRoster(admin AccountAdmin) *Roster {
	return &Roster{admin: admin}
}

// Load replaces the list with the server's. Accounts without an ID cannot be
// acted upon and are dropped.
func (r *Roster) Load(ctx context.Context) error {
	accounts, err := r.admin.ListAccounts(ctx)
	if err != nil {
		return err
	}
	kept := make([]domain.Account, 0, len(accounts))
	for _, a := range accounts {
		if a.ID == "" {
			log.Printf("roster: skipping account %q without id", a.RegNo)
			continue
		}
		kept = append(kept, a)
	}
	r.mu.Lock()
	r.accounts = kept
	r.mu.Unlock()
	return nil
}

// Accounts returns the accounts matching f.
func (r *Roster) Accounts(f AccountFilter) []domain.Account {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return FilterAccounts(r.accounts, f)
}

// Values returns the filter choices for the loaded accounts.
func (r *Roster) Values() FilterValues {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return DistinctValues(r.accounts)
}

// Create adds an account and appends it on success.
func (r *Roster) Create(ctx context.Context, acct domain.NewAccount) (domain.Account, error) {
	created, err := r.admin.CreateAccount(ctx, acct)
	if err != nil {
		return domain.Account{}, err
	}
	r.mu.Lock()
	r.accounts = append(r.accounts, created)
	r.mu.Unlock()
	return created, nil
}

// Delete removes an account. A failed delete leaves the list unchanged.
func (r *Roster) Delete(ctx context.Context, id string) error {
	if _, err := r.admin.DeleteAccount(ctx, id); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.accounts[:0:0]
	for _, a := range r.accounts {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	r.accounts = kept
	return nil
}
