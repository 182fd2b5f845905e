package app

import (
	"fmt"

	"assessment-client/internal/domain"
)

// Grade is a letter grade derived from a percentage.
type Grade string

const (
	GradeAPlus Grade = "A+"
	GradeA     Grade = "A"
	GradeBPlus Grade = "B+"
	GradeB     Grade = "B"
	GradeC     Grade = "C"
	GradeF     Grade = "F"
)

// Thresholds are inclusive lower bounds, checked highest first.
var gradeThresholds = []struct {
	min   float64
	grade Grade
}{
	{90, GradeAPlus},
	{80, GradeA},
	{70, GradeBPlus},
	{60, GradeB},
	{50, GradeC},
}

// Tone is the display band used to colour a percentage.
type Tone string

const (
	ToneExcellent Tone = "excellent"
	ToneGood      Tone = "good"
	ToneFair      Tone = "fair"
	TonePoor      Tone = "poor"
)

// Score bundles the derived metrics for one test.
type Score struct {
	Correct    int
	Total      int
	Percentage float64
	Grade      Grade
}

// Percentage returns score/total*100. Scoring is undefined without questions.
func Percentage(score, total int) (float64, error) {
	if total <= 0 {
		return 0, fmt.Errorf("percentage of %d questions: %w", total, domain.ErrInvalidInput)
	}
	if score < 0 || score > total {
		return 0, fmt.Errorf("score %d outside 0..%d: %w", score, total, domain.ErrInvalidInput)
	}
	return float64(score) * 100 / float64(total), nil
}

// GradeFor maps a percentage onto the fixed grade scale.
func GradeFor(pct float64) Grade {
	for _, t := range gradeThresholds {
		if pct >= t.min {
			return t.grade
		}
	}
	return GradeF
}

// ToneFor maps a percentage onto a display band.
func ToneFor(pct float64) Tone {
	switch {
	case pct >= 90:
		return ToneExcellent
	case pct >= 70:
		return ToneGood
	case pct >= 50:
		return ToneFair
	default:
		return TonePoor
	}
}

// ScoreFor computes percentage and grade for score correct answers out of total.
func ScoreFor(score, total int) (Score, error) {
	pct, err := Percentage(score, total)
	if err != nil {
		return Score{}, err
	}
	return Score{Correct: score, Total: total, Percentage: pct, Grade: GradeFor(pct)}, nil
}

// Evaluation is the per-question outcome of a set of answers against an answer key.
type Evaluation struct {
	Score   int
	Total   int
	Answers []domain.GradedAnswer
}

// Evaluate grades answers against key (question ID -> correct answer).
// Matching is exact: no case folding, no partial credit. Total is the size of the key.
func Evaluate(key map[string]string, answers []domain.AnswerSubmission) Evaluation {
	ev := Evaluation{Total: len(key), Answers: make([]domain.GradedAnswer, 0, len(answers))}
	seen := make(map[string]struct{}, len(answers))
	for _, a := range answers {
		if _, dup := seen[a.QuestionID]; dup {
			continue
		}
		seen[a.QuestionID] = struct{}{}
		want, ok := key[a.QuestionID]
		correct := ok && a.Answer == want
		if correct {
			ev.Score++
		}
		ev.Answers = append(ev.Answers, domain.GradedAnswer{
			QuestionID: a.QuestionID,
			Answer:     a.Answer,
			Correct:    correct,
		})
	}
	return ev
}

// FormatElapsed renders seconds as "{minutes}m {seconds}s".
func FormatElapsed(seconds int) (string, error) {
	if seconds < 0 {
		return "", fmt.Errorf("elapsed %ds: %w", seconds, domain.ErrInvalidInput)
	}
	return fmt.Sprintf("%dm %ds", seconds/60, seconds%60), nil
}
