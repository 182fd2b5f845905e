package apitest

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"assessment-client/internal/app"
	"assessment-client/internal/domain"
	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"
)

type accountKey struct{}

func withAccount(ctx context.Context, a domain.Account) context.Context {
	return context.WithValue(ctx, accountKey{}, a)
}

func accountFrom(ctx context.Context) domain.Account {
	a, _ := ctx.Value(accountKey{}).(domain.Account)
	return a
}

type wireAccount struct {
	ID      string `json:"_id"`
	Name    string `json:"name"`
	RegNo   string `json:"regno"`
	Role    string `json:"role"`
	Year    string `json:"year,omitempty"`
	Branch  string `json:"branch,omitempty"`
	Section string `json:"section,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

func toWireAccount(a domain.Account) wireAccount {
	return wireAccount{
		ID: a.ID, Name: a.Name, RegNo: a.RegNo, Role: string(a.Role),
		Year: a.Year, Branch: a.Branch, Section: a.Section, Phone: a.Phone,
	}
}

type wireQuestion struct {
	ID            string   `json:"_id"`
	Category      string   `json:"category"`
	Subcategory   string   `json:"subcategory"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer,omitempty"`
}

func toWireQuestion(q domain.Question, withAnswer bool) wireQuestion {
	w := wireQuestion{ID: q.ID, Category: q.Category, Subcategory: q.Subcategory, Question: q.Prompt, Options: q.Options}
	if withAnswer {
		w.CorrectAnswer = q.CorrectAnswer
	}
	return w
}

type wireAnswer struct {
	QuestionID string `json:"questionId"`
	UserAnswer string `json:"userAnswer"`
	IsCorrect  bool   `json:"isCorrect"`
}

type wireResult struct {
	ID             string       `json:"_id"`
	UserID         string       `json:"userId"`
	Category       string       `json:"category"`
	Subcategory    string       `json:"subcategory"`
	Score          int          `json:"score"`
	TotalQuestions int          `json:"totalQuestions"`
	TimeTaken      int          `json:"timeTaken"`
	SubmittedAt    time.Time    `json:"submittedAt"`
	Answers        []wireAnswer `json:"answers"`
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RegNo    string `json:"regno"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	s.mu.Lock()
	var found *account
	for _, a := range s.accounts {
		if a.RegNo == req.RegNo {
			a := a
			found = &a
			break
		}
	}
	s.mu.Unlock()
	if found == nil || bcrypt.CompareHashAndPassword(found.hash, []byte(req.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"token": s.IssueToken(found.ID, time.Hour),
		"user":  toWireAccount(found.Account),
	})
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		RegNo    string `json:"regno"`
		Password string `json:"password"`
		Year     string `json:"year"`
		Branch   string `json:"branch"`
		Section  string `json:"section"`
		Phone    string `json:"phone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	s.mu.Lock()
	for _, a := range s.accounts {
		if a.RegNo == req.RegNo {
			s.mu.Unlock()
			writeError(w, http.StatusBadRequest, "User already exists")
			return
		}
	}
	s.mu.Unlock()
	id := s.AddAccount(domain.Account{
		Name: req.Name, RegNo: req.RegNo, Role: domain.RoleStudent,
		Year: req.Year, Branch: req.Branch, Section: req.Section, Phone: req.Phone,
	}, req.Password)
	s.mu.Lock()
	created := s.accounts[id].Account
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, toWireAccount(created))
}

func (s *Server) listUsers(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	out := make([]wireAccount, 0, len(s.accounts))
	for _, a := range s.accounts {
		if a.Role == domain.RoleStudent {
			out = append(out, toWireAccount(a.Account))
		}
	}
	s.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	_, ok := s.accounts[id]
	delete(s.accounts, id)
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "User deleted successfully"})
}

// uploadQuestions accepts a JSON array of questions in multipart field "file".
func (s *Server) uploadQuestions(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()
	var incoming []wireQuestion
	if err := json.NewDecoder(file).Decode(&incoming); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid question file")
		return
	}
	for _, q := range incoming {
		s.AddQuestion(domain.Question{
			Category: q.Category, Subcategory: q.Subcategory, Prompt: q.Question,
			Options: q.Options, CorrectAnswer: q.CorrectAnswer,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Questions uploaded successfully", "count": len(incoming)})
}

func (s *Server) listQuestions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.filterQuestions(func(domain.Question) bool { return true }, true))
}

func (s *Server) deleteQuestion(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	_, ok := s.questions[id]
	delete(s.questions, id)
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "Question not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Question deleted successfully"})
}

func (s *Server) testQuestions(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	subcategory := chi.URLParam(r, "subcategory")
	writeJSON(w, http.StatusOK, s.filterQuestions(func(q domain.Question) bool {
		return q.Category == category && q.Subcategory == subcategory
	}, false))
}

func (s *Server) filterQuestions(keep func(domain.Question) bool, withAnswer bool) []wireQuestion {
	s.mu.Lock()
	out := make([]wireQuestion, 0, len(s.questions))
	for _, q := range s.questions {
		if keep(q) {
			out = append(out, toWireQuestion(q, withAnswer))
		}
	}
	s.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Server) submit(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	gate := s.gate
	s.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-r.Context().Done():
			return
		}
	}

	var req struct {
		Category    string       `json:"category"`
		Subcategory string       `json:"subcategory"`
		Answers     []wireAnswer `json:"answers"`
		TimeTaken   int          `json:"timeTaken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	var ids []string
	s.mu.Lock()
	for id, q := range s.questions {
		if q.Category == req.Category && q.Subcategory == req.Subcategory {
			ids = append(ids, id)
		}
	}
	s.mu.Unlock()
	if len(ids) == 0 {
		writeError(w, http.StatusNotFound, "No questions found for this test")
		return
	}

	answers := make([]domain.AnswerSubmission, 0, len(req.Answers))
	for _, a := range req.Answers {
		answers = append(answers, domain.AnswerSubmission{QuestionID: a.QuestionID, Answer: a.UserAnswer})
	}
	ev := s.grade(answers, ids)
	result := domain.TestResult{
		AccountID:      accountFrom(r.Context()).ID,
		Category:       req.Category,
		Subcategory:    req.Subcategory,
		Score:          ev.Score,
		TotalQuestions: ev.Total,
		TimeTaken:      req.TimeTaken,
		SubmittedAt:    s.now().UTC(),
		Answers:        ev.Answers,
	}
	s.mu.Lock()
	result.ID = s.nextIDLocked("r")
	s.results = append(s.results, result)
	s.mu.Unlock()

	pct, _ := app.Percentage(ev.Score, ev.Total)
	writeJSON(w, http.StatusOK, map[string]any{
		"_id":            result.ID,
		"score":          ev.Score,
		"totalQuestions": ev.Total,
		"percentage":     pct,
	})
}

func (s *Server) listResults(w http.ResponseWriter, r *http.Request) {
	caller := accountFrom(r.Context())
	s.mu.Lock()
	out := make([]wireResult, 0, len(s.results))
	for _, res := range s.results {
		if caller.Role != domain.RoleAdmin && res.AccountID != caller.ID {
			continue
		}
		answers := make([]wireAnswer, 0, len(res.Answers))
		for _, a := range res.Answers {
			answers = append(answers, wireAnswer{QuestionID: a.QuestionID, UserAnswer: a.Answer, IsCorrect: a.Correct})
		}
		out = append(out, wireResult{
			ID: res.ID, UserID: res.AccountID, Category: res.Category, Subcategory: res.Subcategory,
			Score: res.Score, TotalQuestions: res.TotalQuestions, TimeTaken: res.TimeTaken,
			SubmittedAt: res.SubmittedAt, Answers: answers,
		})
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) rankings(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	results := append([]domain.TestResult(nil), s.results...)
	accounts := make([]domain.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		accounts = append(accounts, a.Account)
	}
	s.mu.Unlock()

	type wireRanking struct {
		ID             string  `json:"_id"`
		Name           string  `json:"name"`
		RegNo          string  `json:"regno"`
		TotalScore     int     `json:"totalScore"`
		TotalQuestions int     `json:"totalQuestions"`
		TestsCount     int     `json:"testsCount"`
		Percentage     float64 `json:"percentage"`
	}
	ranked := app.Rank(results, accounts)
	out := make([]wireRanking, 0, len(ranked))
	for _, rk := range ranked {
		out = append(out, wireRanking{
			ID: rk.AccountID, Name: rk.Name, RegNo: rk.RegNo, TotalScore: rk.TotalScore,
			TotalQuestions: rk.TotalQuestions, TestsCount: rk.TestsCount, Percentage: rk.Percentage,
		})
	}
	writeJSON(w, http.StatusOK, out)
}
