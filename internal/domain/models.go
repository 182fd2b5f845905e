package domain

import (
	"fmt"
	"time"
)

// Role distinguishes administrators from students.
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// Account is an identity record managed by administrators.
type Account struct {
	ID      string `json:"id"`
	RegNo   string `json:"regno"`
	Name    string `json:"name"`
	Role    Role   `json:"role"`
	Year    string `json:"year,omitempty"`
	Branch  string `json:"branch,omitempty"`
	Section string `json:"section,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

// NewAccount is the payload an administrator sends to create a student login.
type NewAccount struct {
	Name     string
	RegNo    string
	Password string
	Year     string
	Branch   string
	Section  string
	Phone    string
}

// Session is the credential returned by a successful login.
type Session struct {
	Token   string  `json:"token" yaml:"token"`
	Account Account `json:"account" yaml:"account"`
}

// Question is a multiple-choice item. CorrectAnswer is empty when withheld.
type Question struct {
	ID            string   `json:"id"`
	Category      string   `json:"category"`
	Subcategory   string   `json:"subcategory"`
	Prompt        string   `json:"prompt"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer,omitempty"`
	Year          string   `json:"year,omitempty"`
	Semester      string   `json:"semester,omitempty"`
}

// AnswerSubmission is a student's choice for one question.
type AnswerSubmission struct {
	QuestionID string `json:"questionId"`
	Answer     string `json:"answer"`
}

// TestSubmission is the payload sent when a test is finished.
type TestSubmission struct {
	Category    string
	Subcategory string
	Answers     []AnswerSubmission
	TimeTaken   int // seconds
}

// SubmitOutcome is the server's verdict for a submitted test.
type SubmitOutcome struct {
	ResultID       string  `json:"resultId,omitempty"`
	Score          int     `json:"score"`
	TotalQuestions int     `json:"totalQuestions"`
	Percentage     float64 `json:"percentage"`
}

// GradedAnswer is a submitted answer tagged with its correctness.
type GradedAnswer struct {
	QuestionID string `json:"questionId"`
	Answer     string `json:"answer"`
	Correct    bool   `json:"correct"`
}

// TestResult is the immutable record of one completed test.
type TestResult struct {
	ID             string         `json:"id"`
	AccountID      string         `json:"accountId"`
	Category       string         `json:"category"`
	Subcategory    string         `json:"subcategory"`
	Score          int            `json:"score"`
	TotalQuestions int            `json:"totalQuestions"`
	TimeTaken      int            `json:"timeTaken"`
	SubmittedAt    time.Time      `json:"submittedAt"`
	Answers        []GradedAnswer `json:"answers"`
}

// Validate checks 0 <= Score <= TotalQuestions.
func (r TestResult) Validate() error {
	if r.Score < 0 || r.TotalQuestions < 0 || r.Score > r.TotalQuestions {
		return fmt.Errorf("result %s: score %d out of range for %d questions: %w", r.ID, r.Score, r.TotalQuestions, ErrValidation)
	}
	return nil
}

// Ranking is a per-account aggregate over all of its results.
type Ranking struct {
	AccountID      string  `json:"accountId"`
	Name           string  `json:"name"`
	RegNo          string  `json:"regno"`
	TotalScore     int     `json:"totalScore"`
	TotalQuestions int     `json:"totalQuestions"`
	TestsCount     int     `json:"testsCount"`
	Percentage     float64 `json:"percentage"`
}

// LeaderboardEntry is a ranking with its display position.
type LeaderboardEntry struct {
	Position int     `json:"position"`
	Leader   bool    `json:"leader"`
	Ranking  Ranking `json:"ranking"`
}

// Confirmation is the acknowledgement returned by delete operations.
type Confirmation struct {
	Message string `json:"message"`
}

// ImportSummary reports the outcome of a question bank upload.
type ImportSummary struct {
	Message  string `json:"message"`
	Imported int    `json:"imported"`
}
