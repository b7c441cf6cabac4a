package services

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/dmitrijs2005/staffkeeper/internal/dbx"
	"github.com/dmitrijs2005/staffkeeper/internal/logging"
	"github.com/dmitrijs2005/staffkeeper/internal/server/apperr"
	"github.com/dmitrijs2005/staffkeeper/internal/server/models"
	"github.com/dmitrijs2005/staffkeeper/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/staffkeeper/internal/server/repositories/employees"
)

// --- shared test helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// fakeAccountsRepo is an in-memory accounts.Repository.
type fakeAccountsRepo struct {
	items     []*models.Account
	createErr error
	findErr   error
}

func (f *fakeAccountsRepo) Create(ctx context.Context, a *models.Account) (*models.Account, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	for _, it := range f.items {
		if it.Username == a.Username || it.Email == a.Email {
			return nil, apperr.BadRequest("user with same username or email already exists")
		}
	}
	created := *a
	created.ID = fmt.Sprintf("acc-%d", len(f.items)+1)
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	f.items = append(f.items, &created)
	out := created
	return &out, nil
}

func (f *fakeAccountsRepo) FindByUsernameOrEmail(ctx context.Context, username, email string) (*models.Account, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, it := range f.items {
		if (username != "" && it.Username == username) || (email != "" && it.Email == email) {
			out := *it
			return &out, nil
		}
	}
	return nil, apperr.NotFound("account not found")
}

func (f *fakeAccountsRepo) Exists(ctx context.Context, username, email string) (bool, error) {
	for _, it := range f.items {
		if it.Username == username || it.Email == email {
			return true, nil
		}
	}
	return false, nil
}

// fakeEmployeesRepo is an in-memory employees.Repository. Search mirrors the
// case-insensitive substring semantics of the real ILIKE queries.
type fakeEmployeesRepo struct {
	items     []*models.Employee
	nextID    int
	createErr error
}

func (f *fakeEmployeesRepo) Create(ctx context.Context, e *models.Employee) (*models.Employee, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	for _, it := range f.items {
		if it.Email == e.Email {
			return nil, apperr.BadRequest("employee email already exists")
		}
	}
	f.nextID++
	created := *e
	created.ID = fmt.Sprintf("emp-%d", f.nextID)
	created.CreatedAt = time.Now().Add(time.Duration(f.nextID) * time.Second)
	created.UpdatedAt = created.CreatedAt
	f.items = append(f.items, &created)
	out := created
	return &out, nil
}

func (f *fakeEmployeesRepo) GetByID(ctx context.Context, id string) (*models.Employee, error) {
	for _, it := range f.items {
		if it.ID == id {
			out := *it
			return &out, nil
		}
	}
	return nil, apperr.NotFound("employee not found")
}

func (f *fakeEmployeesRepo) List(ctx context.Context) ([]*models.Employee, error) {
	return f.sorted(f.items), nil
}

func (f *fakeEmployeesRepo) Search(ctx context.Context, filter employees.SearchFilter) ([]*models.Employee, error) {
	contains := func(haystack, needle string) bool {
		return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
	}
	var result []*models.Employee
	for _, it := range f.items {
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
			result = append(result, it)
		}
	}
	return f.sorted(result), nil
}

func (f *fakeEmployeesRepo) EmailExists(ctx context.Context, email, excludeID string) (bool, error) {
	for _, it := range f.items {
		if it.Email == email && it.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeEmployeesRepo) Update(ctx context.Context, e *models.Employee) (*models.Employee, error) {
	for i, it := range f.items {
		if it.ID == e.ID {
			updated := *e
			updated.UpdatedAt = it.UpdatedAt.Add(time.Second)
			f.items[i] = &updated
			out := updated
			return &out, nil
		}
	}
	return nil, apperr.NotFound("employee not found")
}

func (f *fakeEmployeesRepo) Delete(ctx context.Context, id string) error {
	for i, it := range f.items {
		if it.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("employee not found")
}

func (f *fakeEmployeesRepo) sorted(in []*models.Employee) []*models.Employee {
	out := make([]*models.Employee, len(in))
	copy(out, in)
	// newest first
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].CreatedAt.After(out[i].CreatedAt) {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out
}

// fakeRepoManager vends the in-memory repositories regardless of DBTX.
type fakeRepoManager struct {
	accounts  *fakeAccountsRepo
	employees *fakeEmployeesRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *fakeRepoManager) Accounts(db dbx.DBTX) accounts.Repository { return m.accounts }

func (m *fakeRepoManager) Employees(db dbx.DBTX) employees.Repository { return m.employees }

// fakeSink records uploads and returns deterministic URLs.
type fakeSink struct {
	uploads []string
	err     error
}

func (f *fakeSink) Upload(ctx context.Context, payload, folder string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.uploads = append(f.uploads, payload)
	return fmt.Sprintf("http://127.0.0.1:9000/photos/%s/%d.png", folder, len(f.uploads)), nil
}
