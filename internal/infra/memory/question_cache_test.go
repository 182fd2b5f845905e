package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"assessment-client/internal/domain"
)

func TestQuestionCacheCaches(t *testing.T) {
	source := &countingSource{questions: sampleQuestions()}
	cache := NewQuestionCache(source, time.Minute)

	if _, err := cache.TestQuestions(context.Background(), "coding", "python"); err != nil {
		t.Fatalf("get questions: %v", err)
	}
	if source.calls != 1 {
		t.Fatalf("expected source once, got %d", source.calls)
	}

	qs, err := cache.TestQuestions(context.Background(), "coding", "python")
	if err != nil {
		t.Fatalf("get questions 2: %v", err)
	}
	if source.calls != 1 {
		t.Fatalf("expected cache hit, source calls %d", source.calls)
	}
	if len(qs) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(qs))
	}
}

func TestQuestionCacheExpires(t *testing.T) {
	source := &countingSource{questions: sampleQuestions()}
	cache := NewQuestionCache(source, time.Minute)
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	cache.clock = func() time.Time { return now }

	_, _ = cache.TestQuestions(context.Background(), "coding", "python")
	now = now.Add(2 * time.Minute)
	_, _ = cache.TestQuestions(context.Background(), "coding", "python")
	if source.calls != 2 {
		t.Fatalf("expected reload after expiry, source calls %d", source.calls)
	}
}

func TestQuestionCacheDoesNotCacheErrors(t *testing.T) {
	source := &countingSource{err: errors.New("boom")}
	cache := NewQuestionCache(source, time.Minute)

	for i := 0; i < 2; i++ {
		if _, err := cache.TestQuestions(context.Background(), "coding", "python"); err == nil {
			t.Fatalf("expected error")
		}
	}
	if source.calls != 2 {
		t.Fatalf("expected every failure to reach the source, got %d", source.calls)
	}
}

func TestQuestionCacheInvalidate(t *testing.T) {
	source := &countingSource{questions: sampleQuestions()}
	cache := NewQuestionCache(source, time.Minute)

	_, _ = cache.TestQuestions(context.Background(), "coding", "python")
	cache.Invalidate("coding", "python")
	_, _ = cache.TestQuestions(context.Background(), "coding", "python")
	if source.calls != 2 {
		t.Fatalf("expected reload after invalidate, got %d", source.calls)
	}
}

type countingSource struct {
	questions []domain.Question
	err       error
	calls     int
}

func (s *countingSource) TestQuestions(_ context.Context, _, _ string) ([]domain.Question, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.questions, nil
}

func sampleQuestions() []domain.Question {
	return []domain.Question{
		{ID: "q1", Category: "coding", Subcategory: "python", Prompt: "len([1,2])?", Options: []string{"1", "2"}},
		{ID: "q2", Category: "coding", Subcategory: "python", Prompt: "type(1)?", Options: []string{"int", "str"}},
	}
}
