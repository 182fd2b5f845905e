package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"time"

	"assessment-client/internal/domain"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
)

// CredentialSource yields the bearer token for outgoing requests. Returning
// domain.ErrNoSession (or an empty token) sends the request anonymously.
type CredentialSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a fixed credential. The zero value is anonymous.
type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) {
	return string(t), nil
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Callers that need an
// upper bound on request time set it here.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithClock overrides the clock used to detect expired tokens.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// Client is the typed REST client for the assessment API. It holds no session
// state of its own; credentials come from the CredentialSource it was built with.
type Client struct {
	baseURL  string
	creds    CredentialSource
	http     *http.Client
	now      func() time.Time
	validate *validator.Validate
}

func NewClient(baseURL string, creds CredentialSource, opts ...Option) *Client {
	if creds == nil {
		creds = StaticToken("")
	}
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	c := &Client{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		creds:    creds,
		http:     http.DefaultClient,
		now:      time.Now,
		validate: v,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// operation names a server capability and its fallback failure message.
type operation struct {
	name     string
	fallback string
	auth     bool
}

var (
	opLogin           = operation{name: "login", fallback: "Login failed"}
	opCreateAccount   = operation{name: "create account", fallback: "Failed to create user", auth: true}
	opListAccounts    = operation{name: "list accounts", fallback: "Failed to fetch users", auth: true}
	opDeleteAccount   = operation{name: "delete account", fallback: "Failed to delete user", auth: true}
	opUploadQuestions = operation{name: "upload questions", fallback: "Failed to upload questions", auth: true}
	opListQuestions   = operation{name: "list questions", fallback: "Failed to fetch questions", auth: true}
	opDeleteQuestion  = operation{name: "delete question", fallback: "Failed to delete question", auth: true}
	opTestQuestions   = operation{name: "fetch test questions", fallback: "Failed to fetch test questions", auth: true}
	opSubmitTest      = operation{name: "submit test", fallback: "Failed to submit test", auth: true}
	opResults         = operation{name: "fetch results", fallback: "Failed to fetch results", auth: true}
	opRankings        = operation{name: "fetch rankings", fallback: "Failed to fetch rankings", auth: true}
)

// Login exchanges credentials for a session. It never sends a bearer token.
func (c *Client) Login(ctx context.Context, regno, password string) (domain.Session, error) {
	req := loginRequest{RegNo: regno, Password: password}
	if err := c.validate.Struct(req); err != nil {
		return domain.Session{}, c.invalid(opLogin, err)
	}
	var resp loginResponse
	if err := c.sendJSON(ctx, opLogin, http.MethodPost, "/auth/login", req, &resp); err != nil {
		return domain.Session{}, err
	}
	if resp.Token == "" {
		return domain.Session{}, &RequestError{Op: opLogin.name, Message: opLogin.fallback, Kind: domain.ErrAuth}
	}
	return domain.Session{Token: resp.Token, Account: resp.User.toDomain()}, nil
}

func (c *Client) CreateAccount(ctx context.Context, acct domain.NewAccount) (domain.Account, error) {
	req := createAccountRequest{
		Name:     acct.Name,
		RegNo:    acct.RegNo,
		Password: acct.Password,
		Year:     acct.Year,
		Branch:   acct.Branch,
		Section:  acct.Section,
		Phone:    acct.Phone,
	}
	if err := c.validate.Struct(req); err != nil {
		return domain.Account{}, c.invalid(opCreateAccount, err)
	}
	var created wireAccount
	if err := c.sendJSON(ctx, opCreateAccount, http.MethodPost, "/admin/users", req, &created); err != nil {
		return domain.Account{}, err
	}
	return created.toDomain(), nil
}

func (c *Client) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	var raw []wireAccount
	if err := c.send(ctx, opListAccounts, http.MethodGet, "/admin/users", nil, "", &raw); err != nil {
		return nil, err
	}
	out := make([]domain.Account, 0, len(raw))
	for _, w := range raw {
		out = append(out, w.toDomain())
	}
	return out, nil
}

func (c *Client) DeleteAccount(ctx context.Context, id string) (domain.Confirmation, error) {
	var resp wireConfirmation
	if err := c.send(ctx, opDeleteAccount, http.MethodDelete, "/admin/users/"+url.PathEscape(id), nil, "", &resp); err != nil {
		return domain.Confirmation{}, err
	}
	return domain.Confirmation{Message: resp.Message}, nil
}

// UploadQuestions posts a question bank file as multipart field "file".
func (c *Client) UploadQuestions(ctx context.Context, filename string, content io.Reader) (domain.ImportSummary, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return domain.ImportSummary{}, c.transportFailure(opUploadQuestions, err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return domain.ImportSummary{}, c.transportFailure(opUploadQuestions, err)
	}
	if err := mw.Close(); err != nil {
		return domain.ImportSummary{}, c.transportFailure(opUploadQuestions, err)
	}
	var resp wireImportSummary
	if err := c.send(ctx, opUploadQuestions, http.MethodPost, "/admin/questions/upload", &buf, mw.FormDataContentType(), &resp); err != nil {
		return domain.ImportSummary{}, err
	}
	return domain.ImportSummary{Message: resp.Message, Imported: resp.Count}, nil
}

func (c *Client) ListQuestions(ctx context.Context) ([]domain.Question, error) {
	return c.questions(ctx, opListQuestions, "/admin/questions")
}

func (c *Client) DeleteQuestion(ctx context.Context, id string) (domain.Confirmation, error) {
	var resp wireConfirmation
	if err := c.send(ctx, opDeleteQuestion, http.MethodDelete, "/admin/questions/"+url.PathEscape(id), nil, "", &resp); err != nil {
		return domain.Confirmation{}, err
	}
	return domain.Confirmation{Message: resp.Message}, nil
}

// TestQuestions fetches the questions of one test. Correct answers are withheld by the server.
func (c *Client) TestQuestions(ctx context.Context, category, subcategory string) ([]domain.Question, error) {
	path := "/questions/" + url.PathEscape(category) + "/" + url.PathEscape(subcategory)
	return c.questions(ctx, opTestQuestions, path)
}

func (c *Client) SubmitTest(ctx context.Context, sub domain.TestSubmission) (domain.SubmitOutcome, error) {
	req := submitRequest{
		Category:    sub.Category,
		Subcategory: sub.Subcategory,
		Answers:     make([]wireAnswer, 0, len(sub.Answers)),
		TimeTaken:   sub.TimeTaken,
	}
	for _, a := range sub.Answers {
		req.Answers = append(req.Answers, wireAnswer{QuestionID: a.QuestionID, UserAnswer: a.Answer})
	}
	var resp submitResponse
	if err := c.sendJSON(ctx, opSubmitTest, http.MethodPost, "/test/submit", req, &resp); err != nil {
		return domain.SubmitOutcome{}, err
	}
	return domain.SubmitOutcome{
		ResultID:       firstNonEmpty(resp.ResultID, resp.MongoID),
		Score:          resp.Score,
		TotalQuestions: resp.TotalQuestions,
		Percentage:     resp.Percentage,
	}, nil
}

func (c *Client) Results(ctx context.Context) ([]domain.TestResult, error) {
	var raw []wireResult
	if err := c.send(ctx, opResults, http.MethodGet, "/results", nil, "", &raw); err != nil {
		return nil, err
	}
	out := make([]domain.TestResult, 0, len(raw))
	for _, w := range raw {
		r := w.toDomain()
		if err := r.Validate(); err != nil {
			return nil, &RequestError{Op: opResults.name, Message: opResults.fallback, Kind: domain.ErrValidation, Err: err}
		}
		out = append(out, r)
	}
	return out, nil
}

func (c *Client) Rankings(ctx context.Context) ([]domain.Ranking, error) {
	var raw []wireRanking
	if err := c.send(ctx, opRankings, http.MethodGet, "/rankings", nil, "", &raw); err != nil {
		return nil, err
	}
	out := make([]domain.Ranking, 0, len(raw))
	for _, w := range raw {
		out = append(out, w.toDomain())
	}
	return out, nil
}

func (c *Client) questions(ctx context.Context, op operation, path string) ([]domain.Question, error) {
	var raw []wireQuestion
	if err := c.send(ctx, op, http.MethodGet, path, nil, "", &raw); err != nil {
		return nil, err
	}
	out := make([]domain.Question, 0, len(raw))
	for _, w := range raw {
		out = append(out, w.toDomain())
	}
	return out, nil
}

func (c *Client) sendJSON(ctx context.Context, op operation, method, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return c.transportFailure(op, err)
	}
	return c.send(ctx, op, method, path, bytes.NewReader(body), "application/json", out)
}

func (c *Client) send(ctx context.Context, op operation, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return c.transportFailure(op, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if op.auth {
		if err := c.authorize(ctx, op, req); err != nil {
			return err
		}
	}

	res, err := c.http.Do(req)
	if err != nil {
		return c.transportFailure(op, err)
	}
	defer res.Body.Close()

	if res.StatusCode/100 != 2 {
		return c.statusFailure(op, res)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return &RequestError{Op: op.name, Status: res.StatusCode, Message: op.fallback, Kind: domain.ErrTransport, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// authorize attaches the bearer token, failing locally when it is a JWT that has already expired.
func (c *Client) authorize(ctx context.Context, op operation, req *http.Request) error {
	token, err := c.creds.Token(ctx)
	if err != nil && !errors.Is(err, domain.ErrNoSession) {
		return &RequestError{Op: op.name, Message: op.fallback, Kind: domain.ErrTransport, Err: fmt.Errorf("read credentials: %w", err)}
	}
	if token == "" {
		return nil
	}
	if c.expired(token) {
		return &RequestError{Op: op.name, Message: "Session expired, please log in again", Kind: domain.ErrAuth}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return nil
}

func (c *Client) expired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		// Opaque tokens are the server's business.
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !exp.Time.After(c.now())
}

func (c *Client) statusFailure(op operation, res *http.Response) error {
	msg := op.fallback
	data, err := io.ReadAll(io.LimitReader(res.Body, 64<<10))
	if err == nil {
		var body errorBody
		if json.Unmarshal(data, &body) == nil && body.Error != "" {
			msg = body.Error
		}
	}
	return &RequestError{
		Op:      op.name,
		Status:  res.StatusCode,
		Message: msg,
		Kind:    kindFor(res.StatusCode),
		Err:     fmt.Errorf("%s: %s", op.name, res.Status),
	}
}

func (c *Client) transportFailure(op operation, err error) error {
	return &RequestError{Op: op.name, Message: op.fallback, Kind: domain.ErrTransport, Err: err}
}

func (c *Client) invalid(op operation, err error) error {
	return &RequestError{Op: op.name, Message: validationMessage(err), Kind: domain.ErrValidation, Err: err}
}
