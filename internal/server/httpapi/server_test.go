package httpapi

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/staffkeeper/internal/dbx"
	"github.com/dmitrijs2005/staffkeeper/internal/logging"
	"github.com/dmitrijs2005/staffkeeper/internal/server/apperr"
	"github.com/dmitrijs2005/staffkeeper/internal/server/auth"
	"github.com/dmitrijs2005/staffkeeper/internal/server/config"
	"github.com/dmitrijs2005/staffkeeper/internal/server/models"
	"github.com/dmitrijs2005/staffkeeper/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/staffkeeper/internal/server/repositories/employees"
	"github.com/dmitrijs2005/staffkeeper/internal/server/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testSecret = "http-test-secret"

// --- in-memory repositories backing the real services ---

type memAccounts struct {
	items []*models.Account
}

func (m *memAccounts) Create(ctx context.Context, a *models.Account) (*models.Account, error) {
	for _, it := range m.items {
		if it.Username == a.Username || it.Email == a.Email {
			return nil, apperr.BadRequest("user with same username or email already exists")
		}
	}
	created := *a
	created.ID = fmt.Sprintf("acc-%d", len(m.items)+1)
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	m.items = append(m.items, &created)
	out := created
	return &out, nil
}

func (m *memAccounts) FindByUsernameOrEmail(ctx context.Context, username, email string) (*models.Account, error) {
	for _, it := range m.items {
		if (username != "" && it.Username == username) || (email != "" && it.Email == email) {
			out := *it
			return &out, nil
		}
	}
	return nil, apperr.NotFound("account not found")
}

func (m *memAccounts) Exists(ctx context.Context, username, email string) (bool, error) {
	for _, it := range m.items {
		if it.Username == username || it.Email == email {
			return true, nil
		}
	}
	return false, nil
}

type memEmployees struct {
	items  []*models.Employee
	nextID int
}

func (m *memEmployees) Create(ctx context.Context, e *models.Employee) (*models.Employee, error) {
	m.nextID++
	created := *e
	created.ID = fmt.Sprintf("emp-%d", m.nextID)
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	m.items = append(m.items, &created)
	out := created
	return &out, nil
}

func (m *memEmployees) GetByID(ctx context.Context, id string) (*models.Employee, error) {
	for _, it := range m.items {
		if it.ID == id {
			out := *it
			return &out, nil
		}
	}
	return nil, apperr.NotFound("employee not found")
}

func (m *memEmployees) List(ctx context.Context) ([]*models.Employee, error) {
	out := make([]*models.Employee, len(m.items))
	copy(out, m.items)
	return out, nil
}

func (m *memEmployees) Search(ctx context.Context, filter employees.SearchFilter) ([]*models.Employee, error) {
	contains := func(haystack, needle string) bool {
		return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
	}
	var out []*models.Employee
	for _, it := range m.items {
		var match bool
		switch filter.Kind {
		case employees.ByDesignation:
			match = contains(it.Designation, filter.Designation)
		case employees.ByDepartment:
			match = contains(it.Department, filter.Department)
		case employees.ByEither:
			match = contains(it.Designation, filter.Designation) || contains(it.Department, filter.Department)
		}
		if match {
			out = append(out, it)
		}
	}
	return out, nil
}

func (m *memEmployees) EmailExists(ctx context.Context, email, excludeID string) (bool, error) {
	for _, it := range m.items {
		if it.Email == email && it.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memEmployees) Update(ctx context.Context, e *models.Employee) (*models.Employee, error) {
	for i, it := range m.items {
		if it.ID == e.ID {
			updated := *e
			updated.UpdatedAt = time.Now()
			m.items[i] = &updated
			out := updated
			return &out, nil
		}
	}
	return nil, apperr.NotFound("employee not found")
}

func (m *memEmployees) Delete(ctx context.Context, id string) error {
	for i, it := range m.items {
		if it.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("employee not found")
}

type memRepoManager struct {
	accounts  *memAccounts
	employees *memEmployees
}

func (m *memRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *memRepoManager) Accounts(db dbx.DBTX) accounts.Repository { return m.accounts }

func (m *memRepoManager) Employees(db dbx.DBTX) employees.Repository { return m.employees }

type memSink struct{}

func (memSink) Upload(ctx context.Context, payload, folder string) (string, error) {
	return "http://127.0.0.1:9000/photos/" + folder + "/test.png", nil
}

// newTestServer builds the full router on real services backed by the
// in-memory repositories. The sqlmock connection only has to satisfy the
// transactional update path.
func newTestServer(t *testing.T) (*Server, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	cfg := &config.Config{EndpointAddr: ":0", SecretKey: testSecret}
	l := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	rm := &memRepoManager{accounts: &memAccounts{}, employees: &memEmployees{}}

	as := services.NewAuthService(db, rm, cfg, l)
	es := services.NewEmployeeService(db, rm, memSink{}, l)
	return NewServer(cfg, l, as, es), mock
}

func doJSON(t *testing.T, s *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	return out
}

func testToken(t *testing.T) string {
	t.Helper()
	token, err := auth.GenerateToken("acc-1", "jdoe", "jdoe@example.com", []byte(testSecret), time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}
	return token
}

func validEmployeeBody() map[string]any {
	return map[string]any{
		"first_name":      "John",
		"last_name":       "Doe",
		"email":           "john@example.com",
		"gender":          "Male",
		"designation":     "Engineer",
		"salary":          5000,
		"date_of_joining": "2023-06-15",
		"department":      "Platform",
	}
}

func TestWriteError_KindToStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"bad request", apperr.BadRequest("nope"), http.StatusBadRequest},
		{"unauthorized", apperr.Unauthorized("nope"), http.StatusUnauthorized},
		{"not found", apperr.NotFound("nope"), http.StatusNotFound},
		{"internal", apperr.Internal("nope", nil), http.StatusInternalServerError},
		{"untagged", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			writeError(c, tc.err)

			if w.Code != tc.status {
				t.Fatalf("expected status %d, got %d", tc.status, w.Code)
			}
			if body := decodeBody(t, w); body["error"] == "" {
				t.Fatalf("error message missing: %v", body)
			}
		})
	}
}

func TestRequireAuth(t *testing.T) {
	s, _ := newTestServer(t)

	tests := []struct {
		name   string
		token  string
		status int
	}{
		{"missing token", "", http.StatusUnauthorized},
		{"garbage token", "not-a-jwt", http.StatusUnauthorized},
		{"wrong secret", mustToken(t, "other-secret"), http.StatusUnauthorized},
		{"valid token", testToken(t), http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(t, s, http.MethodGet, "/api/employees", tc.token, nil)
			if w.Code != tc.status {
				t.Fatalf("expected status %d, got %d: %s", tc.status, w.Code, w.Body.String())
			}
		})
	}
}

func mustToken(t *testing.T, secret string) string {
	t.Helper()
	token, err := auth.GenerateToken("acc-1", "jdoe", "jdoe@example.com", []byte(secret), time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}
	return token
}

func TestSignupAndLoginFlow(t *testing.T) {
	s, mock := newTestServer(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	w := doJSON(t, s, http.MethodPost, "/api/auth/signup", "", map[string]any{
		"username": "jdoe",
		"email":    "jdoe@example.com",
		"password": "hunter22",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("signup: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	view := decodeBody(t, w)
	if view["username"] != "jdoe" || view["id"] == "" {
		t.Fatalf("unexpected signup view: %v", view)
	}
	if _, leaked := view["password_hash"]; leaked {
		t.Fatalf("credential material in response: %v", view)
	}

	w = doJSON(t, s, http.MethodPost, "/api/auth/login", "", map[string]any{
		"username": "jdoe",
		"password": "hunter22",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	token, _ := decodeBody(t, w)["token"].(string)
	if token == "" {
		t.Fatalf("token missing in login response")
	}

	claims, err := auth.ParseToken(token, []byte(testSecret))
	if err != nil {
		t.Fatalf("issued token does not parse: %v", err)
	}
	if claims.Username != "jdoe" {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	w = doJSON(t, s, http.MethodPost, "/api/auth/login", "", map[string]any{
		"username": "jdoe",
		"password": "wrong",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad login: expected 401, got %d", w.Code)
	}
}

func TestEmployeeEndpoints(t *testing.T) {
	s, mock := newTestServer(t)
	token := testToken(t)

	// add
	w := doJSON(t, s, http.MethodPost, "/api/employees", token, validEmployeeBody())
	if w.Code != http.StatusCreated {
		t.Fatalf("add: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	created := decodeBody(t, w)
	id, _ := created["id"].(string)
	if id == "" {
		t.Fatalf("id missing: %v", created)
	}
	if created["date_of_joining"] != "2023-06-15" {
		t.Fatalf("date not formatted: %v", created["date_of_joining"])
	}

	// get
	w = doJSON(t, s, http.MethodGet, "/api/employees/"+id, token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", w.Code)
	}

	// list
	w = doJSON(t, s, http.MethodGet, "/api/employees", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", w.Code)
	}
	var list []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil || len(list) != 1 {
		t.Fatalf("unexpected list body: %s", w.Body.String())
	}

	// search
	w = doJSON(t, s, http.MethodGet, "/api/employees/search?designation=engineer", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("search: expected 200, got %d", w.Code)
	}
	w = doJSON(t, s, http.MethodGet, "/api/employees/search", token, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("search without terms: expected 400, got %d", w.Code)
	}

	// update
	mock.ExpectBegin()
	mock.ExpectCommit()
	w = doJSON(t, s, http.MethodPut, "/api/employees/"+id, token, map[string]any{"salary": 6000})
	if w.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	updated := decodeBody(t, w)
	if updated["salary"] != 6000.0 {
		t.Fatalf("salary not updated: %v", updated["salary"])
	}
	if updated["first_name"] != "John" {
		t.Fatalf("unrelated field changed: %v", updated["first_name"])
	}

	// delete
	w = doJSON(t, s, http.MethodDelete, "/api/employees/"+id, token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", w.Code)
	}
	if msg := decodeBody(t, w)["message"]; msg != "Employee deleted successfully" {
		t.Fatalf("unexpected delete message: %v", msg)
	}

	w = doJSON(t, s, http.MethodGet, "/api/employees/"+id, token, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("get after delete: expected 404, got %d", w.Code)
	}
}

func TestAddEmployee_InvalidBody(t *testing.T) {
	s, _ := newTestServer(t)
	token := testToken(t)

	req := httptest.NewRequest(http.MethodPost, "/api/employees", strings.NewReader("{broken"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
