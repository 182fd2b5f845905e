package app_test

import (
	"errors"
	"testing"

	"assessment-client/internal/app"
	"assessment-client/internal/domain"
)

func TestPercentage(t *testing.T) {
	cases := []struct {
		score, total int
		want         float64
	}{
		{0, 10, 0},
		{7, 10, 70},
		{17, 20, 85},
		{3, 3, 100},
	}
	for _, c := range cases {
		got, err := app.Percentage(c.score, c.total)
		if err != nil {
			t.Fatalf("Percentage(%d, %d): %v", c.score, c.total, err)
		}
		if got != c.want {
			t.Fatalf("Percentage(%d, %d) = %v, want %v", c.score, c.total, got, c.want)
		}
	}
}

func TestPercentageRejectsInvalidInput(t *testing.T) {
	for _, c := range [][2]int{{0, 0}, {1, 0}, {-1, 5}, {6, 5}} {
		if _, err := app.Percentage(c[0], c[1]); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("Percentage(%d, %d): expected invalid input, got %v", c[0], c[1], err)
		}
	}
	_, err := app.Percentage(0, 0)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("invalid input should be a validation error, got %v", err)
	}
}

func TestGradeBoundaries(t *testing.T) {
	cases := []struct {
		pct  float64
		want app.Grade
	}{
		{100, app.GradeAPlus},
		{90, app.GradeAPlus},
		{89.99, app.GradeA},
		{80, app.GradeA},
		{70.0, app.GradeBPlus},
		{69.9, app.GradeB},
		{60, app.GradeB},
		{50, app.GradeC},
		{49.9, app.GradeF},
		{0, app.GradeF},
	}
	for _, c := range cases {
		if got := app.GradeFor(c.pct); got != c.want {
			t.Fatalf("GradeFor(%v) = %s, want %s", c.pct, got, c.want)
		}
	}
}

func TestScoreFor(t *testing.T) {
	score, err := app.ScoreFor(7, 10)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if score.Percentage != 70 || score.Grade != app.GradeBPlus {
		t.Fatalf("unexpected score %+v", score)
	}
	if _, err := app.ScoreFor(0, 0); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestToneFor(t *testing.T) {
	cases := map[float64]app.Tone{
		95: app.ToneExcellent,
		90: app.ToneExcellent,
		75: app.ToneGood,
		50: app.ToneFair,
		10: app.TonePoor,
	}
	for pct, want := range cases {
		if got := app.ToneFor(pct); got != want {
			t.Fatalf("ToneFor(%v) = %s, want %s", pct, got, want)
		}
	}
}

func TestEvaluateUsesExactMatch(t *testing.T) {
	key := map[string]string{"q1": "Paris", "q2": "4", "q3": "int"}
	ev := app.Evaluate(key, []domain.AnswerSubmission{
		{QuestionID: "q1", Answer: "paris"},
		{QuestionID: "q2", Answer: "4"},
		{QuestionID: "q2", Answer: "5"},
		{QuestionID: "qx", Answer: "anything"},
	})
	if ev.Score != 1 || ev.Total != 3 {
		t.Fatalf("expected 1/3, got %d/%d", ev.Score, ev.Total)
	}
	if len(ev.Answers) != 3 {
		t.Fatalf("expected duplicate answer dropped, got %+v", ev.Answers)
	}
	if ev.Answers[0].Correct || !ev.Answers[1].Correct || ev.Answers[2].Correct {
		t.Fatalf("unexpected correctness %+v", ev.Answers)
	}
}

func TestFormatElapsed(t *testing.T) {
	cases := map[int]string{125: "2m 5s", 0: "0m 0s", 59: "0m 59s", 3600: "60m 0s"}
	for in, want := range cases {
		got, err := app.FormatElapsed(in)
		if err != nil {
			t.Fatalf("FormatElapsed(%d): %v", in, err)
		}
		if got != want {
			t.Fatalf("FormatElapsed(%d) = %q, want %q", in, got, want)
		}
	}
	if _, err := app.FormatElapsed(-1); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input for negative seconds, got %v", err)
	}
}
