package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"assessment-client/internal/apitest"
)

const questionFile = `[
	{"category":"coding","subcategory":"web-development","question":"Tag for links?","options":["<a>","<p>"],"correctAnswer":"<a>"},
	{"category":"coding","subcategory":"web-development","question":"Styles go in?","options":["css","sql"],"correctAnswer":"css"}
]`

func TestAdminAndStudentWorkflow(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("", "login", "--regno", "admin", "--password", "admin")
	if !strings.Contains(out, "Logged in as Administrator") {
		t.Fatalf("unexpected login output %q", out)
	}
	if out := h.mustRun("", "whoami"); !strings.Contains(out, "role=admin") {
		t.Fatalf("unexpected whoami output %q", out)
	}

	out = h.mustRun("", "users", "create", "--name", "Alice", "--regno", "21CS001", "--password", "pw",
		"--year", "3rd", "--branch", "CSE", "--section", "A")
	if !strings.Contains(out, "Created Alice (21CS001)") {
		t.Fatalf("unexpected create output %q", out)
	}
	if out := h.mustRun("", "users", "list", "--branch", "CSE"); !strings.Contains(out, "21CS001") {
		t.Fatalf("expected Alice in filtered list, got %q", out)
	}
	if out := h.mustRun("", "users", "list", "--branch", "ECE"); !strings.Contains(out, "No users found.") {
		t.Fatalf("expected empty filtered list, got %q", out)
	}

	qpath := filepath.Join(t.TempDir(), "questions.json")
	if err := os.WriteFile(qpath, []byte(questionFile), 0o600); err != nil {
		t.Fatalf("write questions: %v", err)
	}
	if out := h.mustRun("", "questions", "upload", qpath); !strings.Contains(out, "2 imported") {
		t.Fatalf("unexpected upload output %q", out)
	}
	if out := h.mustRun("", "questions", "list", "--category", "coding"); !strings.Contains(out, "Coding - Web Development") {
		t.Fatalf("unexpected questions output %q", out)
	}

	out = h.mustRun("pw\n", "--profile", "student", "login", "--regno", "21CS001")
	if !strings.Contains(out, "Logged in as Alice") {
		t.Fatalf("unexpected student login output %q", out)
	}

	out = h.mustRun("1\n2\n", "--profile", "student", "take", "--category", "coding", "--subcategory", "web-development")
	if !strings.Contains(out, "Score: 1/2 (50.0%)  Grade: C") {
		t.Fatalf("unexpected take output %q", out)
	}
	if got := len(h.srv.Results()); got != 1 {
		t.Fatalf("expected one stored result, got %d", got)
	}

	out = h.mustRun("", "--profile", "student", "results")
	if !strings.Contains(out, "Coding - Web Development") || !strings.Contains(out, "50.0%") || !strings.Contains(out, "Alice") {
		t.Fatalf("unexpected results output %q", out)
	}

	if out := h.mustRun("", "rankings", "--recompute"); !strings.Contains(out, "Alice") || !strings.Contains(out, "1/2") {
		t.Fatalf("unexpected rankings output %q", out)
	}

	h.mustRun("", "logout")
	if out := h.mustRun("", "whoami"); !strings.Contains(out, "Not logged in") {
		t.Fatalf("expected logged out, got %q", out)
	}
	// The student profile is untouched by the admin logout.
	if out := h.mustRun("", "--profile", "student", "whoami"); !strings.Contains(out, "Alice") {
		t.Fatalf("expected student still logged in, got %q", out)
	}
}

func TestTakeAbandonSubmitsNothing(t *testing.T) {
	h := newHarness(t)
	h.seedStudentWithQuestions()

	out := h.mustRun("q\n", "take", "--category", "coding", "--subcategory", "web-development")
	if !strings.Contains(out, "Test abandoned.") {
		t.Fatalf("unexpected output %q", out)
	}
	if got := len(h.srv.Results()); got != 0 {
		t.Fatalf("abandoned test was submitted: %d results", got)
	}
}

func TestTakeReportsSubmitFailure(t *testing.T) {
	h := newHarness(t)
	h.seedStudentWithQuestions()
	h.srv.SetFault("POST /test/submit", apitest.Fault{Status: 500, Body: `{"error":"Database unavailable"}`})

	out, err := h.run("1\n1\nn\n", "take", "--category", "coding", "--subcategory", "web-development")
	if err == nil || err.Error() != "Database unavailable" {
		t.Fatalf("expected server message as error, got %v", err)
	}
	if !strings.Contains(out, "Submit failed: Database unavailable") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestTakeRequiresSelection(t *testing.T) {
	h := newHarness(t)
	if _, err := h.run("", "take", "--category", "coding"); err == nil {
		t.Fatalf("expected error without subcategory")
	}
}

func TestCategories(t *testing.T) {
	h := newHarness(t)
	out := h.mustRun("", "categories")
	if !strings.Contains(out, "Coding (coding)") || !strings.Contains(out, "web-development") {
		t.Fatalf("unexpected categories %q", out)
	}
	if out := h.mustRun("", "categories", "--year", "3rd"); !strings.Contains(out, "Machine Learning") {
		t.Fatalf("unexpected subjects %q", out)
	}
}

type harness struct {
	t      *testing.T
	srv    *apitest.Server
	config string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	srv := apitest.New()
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	cfg := fmt.Sprintf("api:\n  base_url: %s\ncredentials:\n  path: %s\n  profile: admin\n",
		srv.URL, filepath.Join(dir, "credentials.yaml"))
	path := filepath.Join(dir, "assessctl.yaml")
	if err := os.WriteFile(path, []byte(cfg), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return &harness{t: t, srv: srv, config: path}
}

// seedStudentWithQuestions logs the default profile in as a student.
func (h *harness) seedStudentWithQuestions() {
	h.mustRun("", "login", "--regno", "admin", "--password", "admin")
	qpath := filepath.Join(h.t.TempDir(), "questions.json")
	if err := os.WriteFile(qpath, []byte(questionFile), 0o600); err != nil {
		h.t.Fatalf("write questions: %v", err)
	}
	h.mustRun("", "questions", "upload", qpath)
	h.mustRun("", "users", "create", "--name", "Bob", "--regno", "21CS002", "--password", "pw")
	h.mustRun("", "login", "--regno", "21CS002", "--password", "pw")
}

func (h *harness) run(stdin string, args ...string) (string, error) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", h.config, "--api-url", h.srv.URL}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (h *harness) mustRun(stdin string, args ...string) string {
	h.t.Helper()
	out, err := h.run(stdin, args...)
	if err != nil {
		h.t.Fatalf("%v: %v\n%s", args, err, out)
	}
	return out
}
