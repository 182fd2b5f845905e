// Package apitest runs an in-memory stand-in for the assessment REST API.
// It speaks the same wire format as the real server ("_id" keys, {error} bodies)
// so the client can be exercised end to end in tests.
package apitest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"assessment-client/internal/app"
	"assessment-client/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Fault forces a route to fail. An empty Body sends no body at all.
type Fault struct {
	Status int
	Body   string
}

// Server is a fake assessment API backed by maps.
type Server struct {
	*httptest.Server

	secret []byte
	now    func() time.Time

	mu        sync.Mutex
	seq       int
	accounts  map[string]account
	questions map[string]domain.Question
	results   []domain.TestResult
	faults    map[string]Fault
	authSeen  map[string]string
	gate      chan struct{}
}

type account struct {
	domain.Account
	hash []byte
}

// New starts a server seeded with an administrator (regno "admin", password "admin").
func New() *Server {
	s := &Server{
		secret:    []byte("apitest-secret"),
		now:       time.Now,
		accounts:  make(map[string]account),
		questions: make(map[string]domain.Question),
		faults:    make(map[string]Fault),
		authSeen:  make(map[string]string),
	}
	s.AddAccount(domain.Account{RegNo: "admin", Name: "Administrator", Role: domain.RoleAdmin}, "admin")

	r := chi.NewRouter()
	r.Post("/auth/login", s.login)
	r.Group(func(r chi.Router) {
		r.Use(s.requireRole(domain.RoleAdmin))
		r.Post("/admin/users", s.createUser)
		r.Get("/admin/users", s.listUsers)
		r.Delete("/admin/users/{id}", s.deleteUser)
		r.Post("/admin/questions/upload", s.uploadQuestions)
		r.Get("/admin/questions", s.listQuestions)
		r.Delete("/admin/questions/{id}", s.deleteQuestion)
	})
	r.Group(func(r chi.Router) {
		r.Use(s.requireRole(""))
		r.Get("/questions/{category}/{subcategory}", s.testQuestions)
		r.Post("/test/submit", s.submit)
		r.Get("/results", s.listResults)
		r.Get("/rankings", s.rankings)
	})

	s.Server = httptest.NewServer(s.record(s.inject(r)))
	return s
}

// AddAccount seeds an account and returns its ID.
func (s *Server) AddAccount(a domain.Account, password string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.Role == "" {
		a.Role = domain.RoleStudent
	}
	a.ID = s.nextIDLocked("u")
	s.accounts[a.ID] = account{Account: a, hash: hash}
	return a.ID
}

// AddQuestion seeds a question and returns its ID.
func (s *Server) AddQuestion(q domain.Question) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	q.ID = s.nextIDLocked("q")
	s.questions[q.ID] = q
	return q.ID
}

// AddResult seeds a historical result.
func (s *Server) AddResult(r domain.TestResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID == "" {
		r.ID = s.nextIDLocked("r")
	}
	s.results = append(s.results, r)
}

// Results returns a copy of every stored result.
func (s *Server) Results() []domain.TestResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.TestResult(nil), s.results...)
}

// SetFault makes "METHOD /path" fail until ClearFault is called.
func (s *Server) SetFault(route string, f Fault) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[route] = f
}

func (s *Server) ClearFault(route string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.faults, route)
}

// Authorization returns the Authorization header last seen on "METHOD /path".
func (s *Server) Authorization(route string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.authSeen[route]
	return v, ok
}

// HoldSubmissions blocks POST /test/submit until the returned release func is called.
func (s *Server) HoldSubmissions() (release func()) {
	gate := make(chan struct{})
	s.mu.Lock()
	s.gate = gate
	s.mu.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			s.gate = nil
			s.mu.Unlock()
			close(gate)
		})
	}
}

// IssueToken signs a token for an account with the given lifetime.
func (s *Server) IssueToken(accountID string, ttl time.Duration) string {
	s.mu.Lock()
	role := s.accounts[accountID].Role
	s.mu.Unlock()
	now := s.now()
	claims := jwt.MapClaims{
		"sub":  accountID,
		"role": string(role),
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		panic(err)
	}
	return signed
}

func (s *Server) nextIDLocked(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s%04d", prefix, s.seq)
}

func routeKey(r *http.Request) string {
	return r.Method + " " + r.URL.Path
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.authSeen[routeKey(r)] = r.Header.Get("Authorization")
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) inject(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		f, ok := s.faults[routeKey(r)]
		s.mu.Unlock()
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		w.WriteHeader(f.Status)
		if f.Body != "" {
			_, _ = io.WriteString(w, f.Body)
		}
	})
}

func (s *Server) requireRole(role domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if !strings.HasPrefix(h, "Bearer ") {
				writeError(w, http.StatusUnauthorized, "Access token required")
				return
			}
			claims := jwt.MapClaims{}
			_, err := jwt.ParseWithClaims(strings.TrimPrefix(h, "Bearer "), claims, func(*jwt.Token) (interface{}, error) {
				return s.secret, nil
			}, jwt.WithTimeFunc(s.now))
			if err != nil {
				writeError(w, http.StatusForbidden, "Invalid token")
				return
			}
			sub, _ := claims["sub"].(string)
			s.mu.Lock()
			acct, ok := s.accounts[sub]
			s.mu.Unlock()
			if !ok {
				writeError(w, http.StatusForbidden, "Invalid token")
				return
			}
			if role != "" && acct.Role != role {
				writeError(w, http.StatusForbidden, "Admin access required")
				return
			}
			next.ServeHTTP(w, r.WithContext(withAccount(r.Context(), acct.Account)))
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// Grade scores answers against the stored answer key, the way the server does.
func (s *Server) grade(answers []domain.AnswerSubmission, questionIDs []string) app.Evaluation {
	key := make(map[string]string, len(questionIDs))
	s.mu.Lock()
	for _, id := range questionIDs {
		key[id] = s.questions[id].CorrectAnswer
	}
	s.mu.Unlock()
	return app.Evaluate(key, answers)
}
