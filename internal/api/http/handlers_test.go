package http_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	api "github.com/quizdeck/quizdeck/internal/api/http"
	"github.com/quizdeck/quizdeck/internal/auth"
	"github.com/quizdeck/quizdeck/internal/db"
	"github.com/quizdeck/quizdeck/internal/quiz"
)

type testEnv struct {
	srv     *httptest.Server
	dbh     *sql.DB
	admin   string // admin token
	user    string // regular user token
	adminID string
	userID  string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.DriverSQLite, "file:"+filepath.Join(t.TempDir(), "api.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	store := quiz.NewSQLStore(dbh, "sqlite")
	authSvc := auth.NewAuthService("test-secret", time.Hour)

	srv := httptest.NewServer(api.NewRouter(dbh, store, authSvc, []string{"*"}))
	t.Cleanup(func() { srv.Close(); _ = dbh.Close() })

	env := &testEnv{srv: srv, dbh: dbh}
	env.adminID = seedAccount(t, dbh, "root", "admin123", auth.RoleAdmin)
	env.userID = seedAccount(t, dbh, "alice", "alice123", auth.RoleUser)
	env.admin, _ = authSvc.Issue(env.adminID, "root", auth.RoleAdmin)
	env.user, _ = authSvc.Issue(env.userID, "alice", auth.RoleUser)
	return env
}

func seedAccount(t *testing.T, dbh *sql.DB, username, password, role string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	id := uuid.NewString()
	if _, err := dbh.Exec(
		`INSERT INTO users (id,username,password_hash,role,created_at) VALUES ($1,$2,$3,$4,$5)`,
		id, username, string(hash), role, time.Now().Unix()); err != nil {
		t.Fatalf("seed account: %v", err)
	}
	return id
}

// do sends a JSON request and decodes the JSON response body.
func (e *testEnv) do(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(buf)
	}
	req, err := http.NewRequest(method, e.srv.URL+path, rd)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	out := map[string]any{}
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			t.Fatalf("%s %s: bad json %q: %v", method, path, raw, err)
		}
	}
	return resp.StatusCode, out
}

func errCode(t *testing.T, body map[string]any) string {
	t.Helper()
	e, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatalf("no error envelope in %v", body)
	}
	code, _ := e["code"].(string)
	return code
}

func validDraft(n int) map[string]any {
	questions := make([]map[string]any, 0, n)
	for i := 0; i < n; i++ {
		questions = append(questions, map[string]any{
			"text": fmt.Sprintf("question %d", i+1),
			"options": []map[string]any{
				{"text": "a"}, {"text": "b", "isCorrect": true}, {"text": "c"}, {"text": "d"},
			},
		})
	}
	return map[string]any{"title": "Basics", "description": "d", "questions": questions}
}

func (e *testEnv) createQuiz(t *testing.T, n int) (string, quiz.Quiz) {
	t.Helper()
	status, body := e.do(t, "POST", "/quizzes", e.admin, validDraft(n))
	if status != http.StatusCreated {
		t.Fatalf("create quiz: status %d body %v", status, body)
	}
	id := body["quiz"].(map[string]any)["id"].(string)

	// re-read through the store-facing admin view to get option ids
	status, body = e.do(t, "GET", "/quizzes/"+id+"/full", e.admin, nil)
	if status != http.StatusOK {
		t.Fatalf("full view: status %d", status)
	}
	buf, _ := json.Marshal(body["quiz"])
	var q quiz.Quiz
	if err := json.Unmarshal(buf, &q); err != nil {
		t.Fatalf("decode quiz: %v", err)
	}
	return id, q
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(t, "POST", "/auth/register", "", map[string]string{"username": "bob", "password": "bob1234"})
	if status != http.StatusCreated {
		t.Fatalf("register: %d %v", status, body)
	}
	user := body["user"].(map[string]any)
	if user["role"] != "USER" || user["username"] != "bob" {
		t.Fatalf("user = %v", user)
	}

	status, body = env.do(t, "POST", "/auth/register", "", map[string]string{"username": "bob", "password": "again"})
	if status != http.StatusBadRequest || errCode(t, body) != "USERNAME_EXISTS" {
		t.Fatalf("duplicate register: %d %v", status, body)
	}

	status, body = env.do(t, "POST", "/auth/register", "", map[string]string{"username": "carol", "password": "ab"})
	if status != http.StatusBadRequest || errCode(t, body) != "VALIDATION_ERROR" {
		t.Fatalf("short password: %d %v", status, body)
	}

	status, body = env.do(t, "POST", "/auth/login", "", map[string]string{"username": "bob", "password": "bob1234"})
	if status != http.StatusOK || body["token"] == "" {
		t.Fatalf("login: %d %v", status, body)
	}

	status, body = env.do(t, "POST", "/auth/login", "", map[string]string{"username": "bob", "password": "wrong"})
	if status != http.StatusUnauthorized || errCode(t, body) != "INVALID_CREDENTIALS" {
		t.Fatalf("bad password: %d %v", status, body)
	}
	// unknown user answers exactly like a bad password
	status, body = env.do(t, "POST", "/auth/login", "", map[string]string{"username": "nobody", "password": "whatever"})
	if status != http.StatusUnauthorized || errCode(t, body) != "INVALID_CREDENTIALS" {
		t.Fatalf("unknown user: %d %v", status, body)
	}
}

func TestQuizAuthoringAccess(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(t, "POST", "/quizzes", "", validDraft(1))
	if status != http.StatusUnauthorized || errCode(t, body) != "UNAUTHORIZED" {
		t.Fatalf("anonymous create: %d %v", status, body)
	}

	status, body = env.do(t, "POST", "/quizzes", env.user, validDraft(1))
	if status != http.StatusForbidden || errCode(t, body) != "FORBIDDEN" {
		t.Fatalf("user create: %d %v", status, body)
	}

	draft := validDraft(2)
	draft["questions"].([]map[string]any)[0]["options"] = []map[string]any{
		{"text": "a"}, {"text": "b", "isCorrect": true}, {"text": "c"},
	}
	status, body = env.do(t, "POST", "/quizzes", env.admin, draft)
	if status != http.StatusBadRequest || errCode(t, body) != "VALIDATION_ERROR" {
		t.Fatalf("3-option draft: %d %v", status, body)
	}
	if msg := body["error"].(map[string]any)["message"].(string); !strings.Contains(msg, "Question 1") {
		t.Fatalf("message %q does not name question 1", msg)
	}

	status, body = env.do(t, "POST", "/quizzes", env.admin, validDraft(2))
	if status != http.StatusCreated {
		t.Fatalf("admin create: %d %v", status, body)
	}
}

func TestQuizDeliveryIsRedacted(t *testing.T) {
	env := newTestEnv(t)
	id, _ := env.createQuiz(t, 3)

	status, body := env.do(t, "GET", "/quizzes/"+id, env.user, nil)
	if status != http.StatusOK {
		t.Fatalf("get quiz: %d %v", status, body)
	}
	buf, _ := json.Marshal(body)
	if strings.Contains(string(buf), "isCorrect") {
		t.Fatalf("delivery payload leaks correctness: %s", buf)
	}

	// the admin review view keeps correctness
	status, body = env.do(t, "GET", "/quizzes/"+id+"/full", env.admin, nil)
	if status != http.StatusOK {
		t.Fatalf("full view: %d", status)
	}
	buf, _ = json.Marshal(body)
	if !strings.Contains(string(buf), "isCorrect") {
		t.Fatalf("review view lost correctness: %s", buf)
	}

	status, body = env.do(t, "GET", "/quizzes/"+id+"/full", env.user, nil)
	if status != http.StatusForbidden {
		t.Fatalf("user full view: %d %v", status, body)
	}
}

func TestSubmitAttemptScenario(t *testing.T) {
	env := newTestEnv(t)
	id, q := env.createQuiz(t, 5)

	answers := []map[string]string{}
	for i, question := range q.Questions {
		opt := question.Options[1] // correct
		if i >= 3 {
			opt = question.Options[0] // wrong for questions 4-5
		}
		answers = append(answers, map[string]string{"questionId": question.ID, "optionId": opt.ID})
	}

	status, body := env.do(t, "POST", "/attempts", env.user, map[string]any{"quizId": id, "answers": answers})
	if status != http.StatusCreated {
		t.Fatalf("submit: %d %v", status, body)
	}
	attempt := body["attempt"].(map[string]any)
	if attempt["score"].(float64) != 3 || attempt["total"].(float64) != 5 {
		t.Fatalf("attempt = %v, want 3/5", attempt)
	}
	if attempt["percentage"].(float64) != 60 {
		t.Fatalf("percentage = %v, want 60", attempt["percentage"])
	}
	if attempt["correctCount"].(float64) != 3 || attempt["incorrectCount"].(float64) != 2 {
		t.Fatalf("counts = %v", attempt)
	}

	status, body = env.do(t, "POST", "/attempts", env.user, map[string]any{"quizId": "missing", "answers": answers})
	if status != http.StatusNotFound || errCode(t, body) != "NOT_FOUND" {
		t.Fatalf("unknown quiz: %d %v", status, body)
	}

	status, body = env.do(t, "POST", "/attempts", env.user, map[string]any{"quizId": id})
	if status != http.StatusBadRequest || errCode(t, body) != "VALIDATION_ERROR" {
		t.Fatalf("missing answers: %d %v", status, body)
	}
}

func TestAttemptOwnership(t *testing.T) {
	env := newTestEnv(t)
	id, q := env.createQuiz(t, 2)

	status, body := env.do(t, "POST", "/attempts", env.user, map[string]any{
		"quizId": id,
		"answers": []map[string]string{
			{"questionId": q.Questions[0].ID, "optionId": q.Questions[0].Options[1].ID},
		},
	})
	if status != http.StatusCreated {
		t.Fatalf("submit: %d %v", status, body)
	}
	attemptID := body["attempt"].(map[string]any)["id"].(string)

	status, body = env.do(t, "GET", "/attempts/"+attemptID, env.user, nil)
	if status != http.StatusOK {
		t.Fatalf("owner read: %d %v", status, body)
	}
	att := body["attempt"].(map[string]any)
	if att["score"].(float64) != 1 || att["total"].(float64) != 2 || att["percentage"].(float64) != 50 {
		t.Fatalf("attempt = %v", att)
	}

	// admins have no implicit read access to foreign attempts
	status, body = env.do(t, "GET", "/attempts/"+attemptID, env.admin, nil)
	if status != http.StatusForbidden || errCode(t, body) != "FORBIDDEN" {
		t.Fatalf("foreign read: %d %v", status, body)
	}

	status, body = env.do(t, "GET", "/attempts", env.user, nil)
	if status != http.StatusOK {
		t.Fatalf("history: %d %v", status, body)
	}
	if n := len(body["attempts"].([]any)); n != 1 {
		t.Fatalf("history rows = %d, want 1", n)
	}
}

func TestUserAdministration(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(t, "GET", "/users", env.user, nil)
	if status != http.StatusForbidden {
		t.Fatalf("user list as USER: %d %v", status, body)
	}

	status, body = env.do(t, "GET", "/users", env.admin, nil)
	if status != http.StatusOK {
		t.Fatalf("user list: %d %v", status, body)
	}
	if n := len(body["users"].([]any)); n != 2 {
		t.Fatalf("users = %d, want 2", n)
	}

	// the one self-protection rule: admins cannot retarget themselves
	status, body = env.do(t, "PATCH", "/users/"+env.adminID, env.admin, map[string]string{"role": "USER"})
	if status != http.StatusBadRequest || errCode(t, body) != "SELF_ROLE_CHANGE" {
		t.Fatalf("self change: %d %v", status, body)
	}
	var role string
	if err := env.dbh.QueryRow(`SELECT role FROM users WHERE id=$1`, env.adminID).Scan(&role); err != nil || role != "ADMIN" {
		t.Fatalf("self change mutated the record: role=%q err=%v", role, err)
	}

	status, body = env.do(t, "PATCH", "/users/"+env.userID, env.admin, map[string]string{"role": "MODERATOR"})
	if status != http.StatusBadRequest || errCode(t, body) != "VALIDATION_ERROR" {
		t.Fatalf("bad role: %d %v", status, body)
	}

	status, body = env.do(t, "PATCH", "/users/"+uuid.NewString(), env.admin, map[string]string{"role": "ADMIN"})
	if status != http.StatusNotFound || errCode(t, body) != "NOT_FOUND" {
		t.Fatalf("missing target: %d %v", status, body)
	}

	status, body = env.do(t, "PATCH", "/users/"+env.userID, env.admin, map[string]string{"role": "ADMIN"})
	if status != http.StatusOK {
		t.Fatalf("promote: %d %v", status, body)
	}
	if got := body["user"].(map[string]any)["role"]; got != "ADMIN" {
		t.Fatalf("role after promote = %v", got)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	env := newTestEnv(t)
	expiredSvc := auth.NewAuthService("test-secret", -time.Minute)
	tok, _ := expiredSvc.Issue(env.userID, "alice", auth.RoleUser)

	status, body := env.do(t, "GET", "/quizzes", tok, nil)
	if status != http.StatusUnauthorized || errCode(t, body) != "UNAUTHORIZED" {
		t.Fatalf("expired token: %d %v", status, body)
	}
}
