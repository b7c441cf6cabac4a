// Package employees provides the PostgreSQL-backed repository for employee
// records and their search queries.
package employees

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrijs2005/staffkeeper/internal/dbx"
	"github.com/dmitrijs2005/staffkeeper/internal/server/apperr"
	"github.com/dmitrijs2005/staffkeeper/internal/server/models"
)

const selectColumns = `id, first_name, last_name, email, gender, designation, salary, date_of_joining, department, photo_url, created_at, updated_at`

// PostgresRepository implements employee storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, employee *models.Employee) (*models.Employee, error) {
	query := `
		INSERT INTO employees (first_name, last_name, email, gender, designation, salary, date_of_joining, department, photo_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`

	created := *employee
	err := r.db.QueryRowContext(ctx, query,
		employee.FirstName, employee.LastName, employee.Email, nullable(employee.Gender),
		employee.Designation, employee.Salary, employee.DateOfJoining, employee.Department,
		employee.PhotoURL).
		Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.BadRequest("employee email already exists")
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return &created, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Employee, error) {
	query := `SELECT ` + selectColumns + ` FROM employees WHERE id = $1`

	employee, err := scanEmployee(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("employee not found")
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return employee, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Employee, error) {
	query := `SELECT ` + selectColumns + ` FROM employees ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	return collectEmployees(rows)
}

func (r *PostgresRepository) Search(ctx context.Context, filter SearchFilter) ([]*models.Employee, error) {
	var (
		where string
		args  []any
	)

	switch filter.Kind {
	case ByDesignation:
		where = `designation ILIKE '%' || $1 || '%'`
		args = []any{filter.Designation}
	case ByDepartment:
		where = `department ILIKE '%' || $1 || '%'`
		args = []any{filter.Department}
	case ByEither:
		where = `designation ILIKE '%' || $1 || '%' OR department ILIKE '%' || $2 || '%'`
		args = []any{filter.Designation, filter.Department}
	default:
		return nil, apperr.BadRequest("provide designation or department to search")
	}

	query := `SELECT ` + selectColumns + ` FROM employees WHERE ` + where + ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	return collectEmployees(rows)
}

func (r *PostgresRepository) EmailExists(ctx context.Context, email, excludeID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM employees WHERE email = $1 AND ($2 = '' OR id <> $2::uuid)
		)
	`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, email, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return exists, nil
}

func (r *PostgresRepository) Update(ctx context.Context, employee *models.Employee) (*models.Employee, error) {
	query := `
		UPDATE employees
		SET first_name = $2, last_name = $3, email = $4, gender = $5, designation = $6,
		    salary = $7, date_of_joining = $8, department = $9, photo_url = $10, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`

	updated := *employee
	err := r.db.QueryRowContext(ctx, query,
		employee.ID, employee.FirstName, employee.LastName, employee.Email,
		nullable(employee.Gender), employee.Designation, employee.Salary,
		employee.DateOfJoining, employee.Department, employee.PhotoURL).
		Scan(&updated.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("employee not found")
		}
		if isUniqueViolation(err) {
			return nil, apperr.BadRequest("another employee already uses this email")
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return &updated, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM employees WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return apperr.NotFound("employee not found")
	}

	return nil
}

// scanner abstracts *sql.Row and *sql.Rows for scanEmployee.
type scanner interface {
	Scan(dest ...any) error
}

func scanEmployee(s scanner) (*models.Employee, error) {
	var (
		item   models.Employee
		gender sql.NullString
	)
	if err := s.Scan(
		&item.ID, &item.FirstName, &item.LastName, &item.Email, &gender,
		&item.Designation, &item.Salary, &item.DateOfJoining, &item.Department,
		&item.PhotoURL, &item.CreatedAt, &item.UpdatedAt,
	); err != nil {
		return nil, err
	}
	item.Gender = gender.String
	return &item, nil
}

func collectEmployees(rows *sql.Rows) ([]*models.Employee, error) {
	var result []*models.Employee
	for rows.Next() {
		item, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// nullable maps an empty gender to NULL so the enum check constraint only
// sees real values.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
