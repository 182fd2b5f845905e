package http

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"assessment-client/internal/apitest"
	"assessment-client/internal/domain"
	"assessment-client/internal/infra/memory"
)

func TestLoginIsAnonymousAndNormalizesAccount(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()

	sess, err := NewClient(srv.URL, StaticToken("stale")).Login(context.Background(), "admin", "admin")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if sess.Token == "" || sess.Account.ID == "" || sess.Account.Role != domain.RoleAdmin {
		t.Fatalf("unexpected session %+v", sess)
	}
	if auth, ok := srv.Authorization("POST /auth/login"); !ok || auth != "" {
		t.Fatalf("login must not carry a bearer token, got %q", auth)
	}
}

func TestLoginFailures(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()
	client := NewClient(srv.URL, nil)

	_, err := client.Login(context.Background(), "admin", "wrong")
	reqErr := asRequestError(t, err)
	if reqErr.Message != "Invalid credentials" || reqErr.Status != 401 || !errors.Is(err, domain.ErrAuth) {
		t.Fatalf("unexpected error %+v", reqErr)
	}

	_, err = client.Login(context.Background(), "", "")
	reqErr = asRequestError(t, err)
	if !errors.Is(err, domain.ErrValidation) || reqErr.Message != "regno is required, password is required" {
		t.Fatalf("unexpected validation error %+v", reqErr)
	}
	if reqErr.Status != 0 {
		t.Fatalf("validation must fail before any request, got status %d", reqErr.Status)
	}
}

func TestBearerTokenAttachedWhenPresent(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()
	client := adminClient(t, srv)

	if _, err := client.ListAccounts(context.Background()); err != nil {
		t.Fatalf("list accounts: %v", err)
	}
	auth, _ := srv.Authorization("GET /admin/users")
	if !strings.HasPrefix(auth, "Bearer ") {
		t.Fatalf("expected bearer header, got %q", auth)
	}
}

func TestRequestWithoutSessionOmitsHeader(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()
	client := NewClient(srv.URL, memory.NewCredentialStore())

	_, err := client.Results(context.Background())
	reqErr := asRequestError(t, err)
	if reqErr.Message != "Access token required" || !errors.Is(err, domain.ErrAuth) {
		t.Fatalf("unexpected error %+v", reqErr)
	}
	if auth, ok := srv.Authorization("GET /results"); !ok || auth != "" {
		t.Fatalf("expected no authorization header, got %q (seen=%v)", auth, ok)
	}
}

func TestServerErrorMessageVerbatimOrFallback(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()
	client := adminClient(t, srv)
	ctx := context.Background()

	srv.SetFault("GET /results", apitest.Fault{Status: 500, Body: `{"error":"Database unavailable"}`})
	_, err := client.Results(ctx)
	if reqErr := asRequestError(t, err); reqErr.Message != "Database unavailable" {
		t.Fatalf("expected server message verbatim, got %q", reqErr.Message)
	}
	if !errors.Is(err, domain.ErrTransport) {
		t.Fatalf("expected transport kind for 500, got %v", err)
	}

	srv.SetFault("GET /results", apitest.Fault{Status: 502, Body: "<html>Bad Gateway</html>"})
	_, err = client.Results(ctx)
	if reqErr := asRequestError(t, err); reqErr.Message != "Failed to fetch results" || reqErr.Status != 502 {
		t.Fatalf("expected fallback message, got %+v", reqErr)
	}

	srv.SetFault("GET /rankings", apitest.Fault{Status: 500})
	_, err = client.Rankings(ctx)
	if reqErr := asRequestError(t, err); reqErr.Message != "Failed to fetch rankings" {
		t.Fatalf("expected fallback message for empty body, got %q", reqErr.Message)
	}

	srv.ClearFault("GET /results")
	if _, err := client.Results(ctx); err != nil {
		t.Fatalf("results after clearing fault: %v", err)
	}
}

func TestExpiredTokenFailsLocally(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()
	id := srv.AddAccount(domain.Account{RegNo: "21CS001", Name: "Alice"}, "pw")
	client := NewClient(srv.URL, StaticToken(srv.IssueToken(id, -time.Minute)))

	_, err := client.Rankings(context.Background())
	reqErr := asRequestError(t, err)
	if !errors.Is(err, domain.ErrAuth) || reqErr.Message != "Session expired, please log in again" {
		t.Fatalf("unexpected error %+v", reqErr)
	}
	if _, seen := srv.Authorization("GET /rankings"); seen {
		t.Fatalf("expired token must not reach the server")
	}

	// An opaque token is passed through for the server to judge.
	_, err = NewClient(srv.URL, StaticToken("opaque")).Rankings(context.Background())
	if reqErr := asRequestError(t, err); reqErr.Message != "Invalid token" {
		t.Fatalf("expected server rejection, got %+v", reqErr)
	}
}

func TestAccountAdministration(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()
	client := adminClient(t, srv)
	ctx := context.Background()

	created, err := client.CreateAccount(ctx, domain.NewAccount{
		Name: "Alice", RegNo: "21CS001", Password: "pw", Year: "3rd", Branch: "CSE", Section: "A",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" || created.Role != domain.RoleStudent || created.Branch != "CSE" {
		t.Fatalf("unexpected account %+v", created)
	}

	_, err = client.CreateAccount(ctx, domain.NewAccount{Name: "Alice", RegNo: "21CS001", Password: "pw"})
	if reqErr := asRequestError(t, err); reqErr.Message != "User already exists" || !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("unexpected duplicate error %+v", reqErr)
	}

	_, err = client.CreateAccount(ctx, domain.NewAccount{RegNo: "21CS002"})
	if reqErr := asRequestError(t, err); reqErr.Message != "name is required, password is required" {
		t.Fatalf("unexpected validation message %q", reqErr.Message)
	}

	accounts, err := client.ListAccounts(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(accounts) != 1 || accounts[0].ID != created.ID {
		t.Fatalf("unexpected accounts %+v", accounts)
	}

	conf, err := client.DeleteAccount(ctx, created.ID)
	if err != nil || conf.Message != "User deleted successfully" {
		t.Fatalf("delete: %+v %v", conf, err)
	}
	_, err = client.DeleteAccount(ctx, created.ID)
	if reqErr := asRequestError(t, err); reqErr.Message != "User not found" || !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unexpected second delete error %+v", reqErr)
	}
}

func TestStudentCannotAdminister(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()
	srv.AddAccount(domain.Account{RegNo: "21CS001", Name: "Alice"}, "pw")
	sess, err := NewClient(srv.URL, nil).Login(context.Background(), "21CS001", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	_, err = NewClient(srv.URL, StaticToken(sess.Token)).ListQuestions(context.Background())
	reqErr := asRequestError(t, err)
	if reqErr.Status != 403 || reqErr.Message != "Admin access required" || !errors.Is(err, domain.ErrAuth) {
		t.Fatalf("unexpected error %+v", reqErr)
	}
}

func TestQuestionsAndSubmission(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()
	ctx := context.Background()
	admin := adminClient(t, srv)

	upload := `[
		{"category":"coding","subcategory":"web development","question":"Tag for links?","options":["<a>","<p>"],"correctAnswer":"<a>"},
		{"category":"coding","subcategory":"web development","question":"Styles go in?","options":["css","sql"],"correctAnswer":"css"}
	]`
	summary, err := admin.UploadQuestions(ctx, "questions.json", strings.NewReader(upload))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if summary.Imported != 2 {
		t.Fatalf("expected 2 imported, got %+v", summary)
	}

	bank, err := admin.ListQuestions(ctx)
	if err != nil {
		t.Fatalf("list questions: %v", err)
	}
	if len(bank) != 2 || bank[0].CorrectAnswer == "" || bank[0].ID == "" {
		t.Fatalf("admin listing should include answers: %+v", bank)
	}

	srv.AddAccount(domain.Account{RegNo: "21CS001", Name: "Alice"}, "pw")
	sess, err := NewClient(srv.URL, nil).Login(ctx, "21CS001", "pw")
	if err != nil {
		t.Fatalf("student login: %v", err)
	}
	student := NewClient(srv.URL, StaticToken(sess.Token))

	questions, err := student.TestQuestions(ctx, "coding", "web development")
	if err != nil {
		t.Fatalf("test questions: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(questions))
	}
	for _, q := range questions {
		if q.CorrectAnswer != "" {
			t.Fatalf("answer leaked to student: %+v", q)
		}
	}

	outcome, err := student.SubmitTest(ctx, domain.TestSubmission{
		Category:    "coding",
		Subcategory: "web development",
		Answers: []domain.AnswerSubmission{
			{QuestionID: questions[0].ID, Answer: "<a>"},
			{QuestionID: questions[1].ID, Answer: "CSS"},
		},
		TimeTaken: 42,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if outcome.Score != 1 || outcome.TotalQuestions != 2 || outcome.Percentage != 50 || outcome.ResultID == "" {
		t.Fatalf("unexpected outcome %+v", outcome)
	}

	results, err := student.Results(ctx)
	if err != nil {
		t.Fatalf("results: %v", err)
	}
	if len(results) != 1 || results[0].AccountID != sess.Account.ID || results[0].TimeTaken != 42 {
		t.Fatalf("unexpected results %+v", results)
	}
	if len(results[0].Answers) != 2 || !results[0].Answers[0].Correct || results[0].Answers[1].Correct {
		t.Fatalf("unexpected graded answers %+v", results[0].Answers)
	}

	rankings, err := student.Rankings(ctx)
	if err != nil {
		t.Fatalf("rankings: %v", err)
	}
	if len(rankings) != 1 || rankings[0].AccountID != sess.Account.ID || rankings[0].Name != "Alice" {
		t.Fatalf("unexpected rankings %+v", rankings)
	}

	conf, err := admin.DeleteQuestion(ctx, bank[0].ID)
	if err != nil || conf.Message == "" {
		t.Fatalf("delete question: %+v %v", conf, err)
	}
}

func TestResultsRejectsImpossibleScores(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()
	client := adminClient(t, srv)
	srv.AddResult(domain.TestResult{AccountID: "u0001", Category: "coding", Subcategory: "c", Score: 5, TotalQuestions: 3})

	_, err := client.Results(context.Background())
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestWireRefAcceptsIDOrDocument(t *testing.T) {
	var r wireRef
	if err := r.UnmarshalJSON([]byte(`"u1"`)); err != nil || r != "u1" {
		t.Fatalf("bare id: %q %v", r, err)
	}
	if err := r.UnmarshalJSON([]byte(`{"_id":"u2","name":"Bob"}`)); err != nil || r != "u2" {
		t.Fatalf("document: %q %v", r, err)
	}
	if err := r.UnmarshalJSON([]byte(`42`)); err == nil {
		t.Fatalf("expected error for number")
	}
}

func adminClient(t *testing.T, srv *apitest.Server) *Client {
	t.Helper()
	sess, err := NewClient(srv.URL, nil).Login(context.Background(), "admin", "admin")
	if err != nil {
		t.Fatalf("admin login: %v", err)
	}
	return NewClient(srv.URL, StaticToken(sess.Token))
}

func asRequestError(t *testing.T, err error) *RequestError {
	t.Helper()
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected *RequestError, got %T: %v", err, err)
	}
	return reqErr
}
