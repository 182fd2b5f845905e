package http

import (
	"encoding/json"
	"time"

	"assessment-client/internal/domain"
)

// Wire shapes mirror the server's JSON. They are normalized into domain records
// before leaving this package; the server's "_id" never escapes.

type errorBody struct {
	Error string `json:"error"`
}

type loginRequest struct {
	RegNo    string `json:"regno" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  wireAccount `json:"user"`
}

type createAccountRequest struct {
	Name     string `json:"name" validate:"required"`
	RegNo    string `json:"regno" validate:"required"`
	Password string `json:"password" validate:"required"`
	Year     string `json:"year,omitempty"`
	Branch   string `json:"branch,omitempty"`
	Section  string `json:"section,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

type wireAccount struct {
	MongoID string `json:"_id"`
	ID      string `json:"id"`
	Name    string `json:"name"`
	RegNo   string `json:"regno"`
	Role    string `json:"role"`
	Year    string `json:"year"`
	Branch  string `json:"branch"`
	Section string `json:"section"`
	Phone   string `json:"phone"`
}

func (w wireAccount) toDomain() domain.Account {
	return domain.Account{
		ID:      firstNonEmpty(w.MongoID, w.ID),
		RegNo:   w.RegNo,
		Name:    w.Name,
		Role:    domain.Role(w.Role),
		Year:    w.Year,
		Branch:  w.Branch,
		Section: w.Section,
		Phone:   w.Phone,
	}
}

type wireQuestion struct {
	MongoID       string   `json:"_id"`
	ID            string   `json:"id"`
	Category      string   `json:"category"`
	Subcategory   string   `json:"subcategory"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Year          string   `json:"year"`
	Semester      string   `json:"semester"`
}

func (w wireQuestion) toDomain() domain.Question {
	return domain.Question{
		ID:            firstNonEmpty(w.MongoID, w.ID),
		Category:      w.Category,
		Subcategory:   w.Subcategory,
		Prompt:        w.Question,
		Options:       w.Options,
		CorrectAnswer: w.CorrectAnswer,
		Year:          w.Year,
		Semester:      w.Semester,
	}
}

type wireAnswer struct {
	QuestionID string `json:"questionId"`
	UserAnswer string `json:"userAnswer"`
	IsCorrect  bool   `json:"isCorrect,omitempty"`
}

type submitRequest struct {
	Category    string       `json:"category"`
	Subcategory string       `json:"subcategory"`
	Answers     []wireAnswer `json:"answers"`
	TimeTaken   int          `json:"timeTaken"`
}

type submitResponse struct {
	MongoID        string  `json:"_id"`
	ResultID       string  `json:"resultId"`
	Score          int     `json:"score"`
	TotalQuestions int     `json:"totalQuestions"`
	Percentage     float64 `json:"percentage"`
}

// wireRef is a reference that the server sends either as a bare ID or as a
// populated document ({"_id": ...}).
type wireRef string

func (r *wireRef) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		*r = wireRef(id)
		return nil
	}
	var doc struct {
		MongoID string `json:"_id"`
		ID      string `json:"id"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	*r = wireRef(firstNonEmpty(doc.MongoID, doc.ID))
	return nil
}

type wireResult struct {
	MongoID        string       `json:"_id"`
	UserID         wireRef      `json:"userId"`
	Category       string       `json:"category"`
	Subcategory    string       `json:"subcategory"`
	Score          int          `json:"score"`
	TotalQuestions int          `json:"totalQuestions"`
	TimeTaken      int          `json:"timeTaken"`
	SubmittedAt    time.Time    `json:"submittedAt"`
	Answers        []wireAnswer `json:"answers"`
}

func (w wireResult) toDomain() domain.TestResult {
	answers := make([]domain.GradedAnswer, 0, len(w.Answers))
	for _, a := range w.Answers {
		answers = append(answers, domain.GradedAnswer{
			QuestionID: a.QuestionID,
			Answer:     a.UserAnswer,
			Correct:    a.IsCorrect,
		})
	}
	return domain.TestResult{
		ID:             w.MongoID,
		AccountID:      string(w.UserID),
		Category:       w.Category,
		Subcategory:    w.Subcategory,
		Score:          w.Score,
		TotalQuestions: w.TotalQuestions,
		TimeTaken:      w.TimeTaken,
		SubmittedAt:    w.SubmittedAt,
		Answers:        answers,
	}
}

type wireRanking struct {
	MongoID        string  `json:"_id"`
	Name           string  `json:"name"`
	RegNo          string  `json:"regno"`
	TotalScore     int     `json:"totalScore"`
	TotalQuestions int     `json:"totalQuestions"`
	TestsCount     int     `json:"testsCount"`
	Percentage     float64 `json:"percentage"`
}

func (w wireRanking) toDomain() domain.Ranking {
	return domain.Ranking{
		AccountID:      w.MongoID,
		Name:           w.Name,
		RegNo:          w.RegNo,
		TotalScore:     w.TotalScore,
		TotalQuestions: w.TotalQuestions,
		TestsCount:     w.TestsCount,
		Percentage:     w.Percentage,
	}
}

type wireConfirmation struct {
	Message string `json:"message"`
}

type wireImportSummary struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
