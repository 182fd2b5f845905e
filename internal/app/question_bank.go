package app

import (
	"context"
	"io"
	"sync"

	"assessment-client/internal/domain"
)

// QuestionAdmin is the administrator's view of the question bank.
type QuestionAdmin interface {
	ListQuestions(ctx context.Context) ([]domain.Question, error)
	DeleteQuestion(ctx context.Context, id string) (domain.Confirmation, error)
	UploadQuestions(ctx context.Context, filename string, content io.Reader) (domain.ImportSummary, error)
}

// QuestionBank mirrors the server's question bank for browsing and deletion.
type QuestionBank struct {
	admin QuestionAdmin

	mu        sync.RWMutex
	questions []domain.Question
}

func NewQuestionBank(admin QuestionAdmin) *QuestionBank {
	return &QuestionBank{admin: admin}
}

func (b *QuestionBank) Load(ctx context.Context) error {
	questions, err := b.admin.ListQuestions(ctx)
	if err != nil {
		return err
	}
	b.mu.Lock()
	b.questions = questions
	b.mu.Unlock()
	return nil
}

// Questions filters by category and subcategory; empty matches anything.
func (b *QuestionBank) Questions(category, subcategory string) []domain.Question {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]domain.Question, 0, len(b.questions))
	for _, q := range b.questions {
		if (category == "" || q.Category == category) && (subcategory == "" || q.Subcategory == subcategory) {
			out = append(out, q)
		}
	}
	return out
}

// Upload imports a question file and reloads the bank.
func (b *QuestionBank) Upload(ctx context.Context, filename string, content io.Reader) (domain.ImportSummary, error) {
	summary, err := b.admin.UploadQuestions(ctx, filename, content)
	if err != nil {
		return domain.ImportSummary{}, err
	}
	return summary, b.Load(ctx)
}

// Delete removes a question. A failed delete leaves the list unchanged.
func (b *QuestionBank) Delete(ctx context.Context, id string) error {
	if _, err := b.admin.DeleteQuestion(ctx, id); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	kept := b.questions[:0:0]
	for _, q := range b.questions {
		if q.ID != id {
			kept = append(kept, q)
		}
	}
	b.questions = kept
	return nil
}
