package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/staffkeeper/internal/dbx"
	"github.com/dmitrijs2005/staffkeeper/internal/logging"
	"github.com/dmitrijs2005/staffkeeper/internal/server/apperr"
	"github.com/dmitrijs2005/staffkeeper/internal/server/models"
	"github.com/dmitrijs2005/staffkeeper/internal/server/repositories/employees"
	"github.com/dmitrijs2005/staffkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/staffkeeper/internal/server/storage"
	"github.com/dmitrijs2005/staffkeeper/internal/server/validation"
)

// photoFolder is the fixed logical folder for uploaded employee photos.
const photoFolder = "employees"

// deletedMessage is the fixed acknowledgment returned by Delete.
const deletedMessage = "Employee deleted successfully"

// CreateEmployeeParams carries the fields of the add-employee mutation.
// Salary is a pointer so that an absent value can be told apart from zero.
type CreateEmployeeParams struct {
	FirstName     string
	LastName      string
	Email         string
	Gender        string
	Designation   string
	Salary        *float64
	DateOfJoining string
	Department    string
	Photo         string // optional base64 data URL
}

// UpdateEmployeeParams carries the partial fields of the update-employee
// mutation. A nil field means "not supplied": the stored value is kept. A
// non-nil pointer to an empty string clears optional fields (gender);
// required fields are re-validated.
type UpdateEmployeeParams struct {
	FirstName     *string
	LastName      *string
	Email         *string
	Gender        *string
	Designation   *string
	Salary        *float64
	DateOfJoining *string
	Department    *string
	Photo         *string
}

// EmployeeService provides the employee queries and mutations.
type EmployeeService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	sink        storage.ImageSink
	logger      logging.Logger
}

// NewEmployeeService constructs an EmployeeService.
func NewEmployeeService(db *sql.DB, m repomanager.RepositoryManager, sink storage.ImageSink, l logging.Logger) *EmployeeService {
	return &EmployeeService{
		db:          db,
		repomanager: m,
		sink:        sink,
		logger:      l.With("module", "employee_service"),
	}
}

// List returns all employees, newest first.
func (s *EmployeeService) List(ctx context.Context) ([]*models.Employee, error) {
	repo := s.repomanager.Employees(s.db)

	result, err := repo.List(ctx)
	if err != nil {
		return nil, apperr.Internal("failed to fetch employees", err)
	}
	return result, nil
}

// GetByID returns a single employee.
func (s *EmployeeService) GetByID(ctx context.Context, id string) (*models.Employee, error) {
	if id == "" {
		return nil, apperr.BadRequest("employee id is required")
	}

	repo := s.repomanager.Employees(s.db)
	employee, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, taggedOr(err, "failed to fetch employee")
	}
	return employee, nil
}

// Search returns employees matching the designation and/or department terms
// by case-insensitive substring. When both terms are present the result is
// the union of matches on either field.
func (s *EmployeeService) Search(ctx context.Context, designation, department string) ([]*models.Employee, error) {
	filter, err := employees.NewSearchFilter(designation, department)
	if err != nil {
		return nil, err
	}

	repo := s.repomanager.Employees(s.db)
	result, err := repo.Search(ctx, filter)
	if err != nil {
		return nil, taggedOr(err, "failed to search employees")
	}
	return result, nil
}

// Create validates, normalizes, optionally uploads the photo, and persists a
// new employee.
func (s *EmployeeService) Create(ctx context.Context, params CreateEmployeeParams) (*models.Employee, error) {
	if params.FirstName == "" || params.LastName == "" || params.Email == "" ||
		params.Designation == "" || params.Salary == nil ||
		params.DateOfJoining == "" || params.Department == "" {
		return nil, apperr.BadRequest("first_name, last_name, email, designation, salary, date_of_joining, department are required")
	}

	cleanEmail := validation.NormalizeEmail(params.Email)
	if !validation.IsValidEmail(cleanEmail) {
		return nil, apperr.BadRequest("invalid employee email format")
	}

	if params.Gender != "" && !validation.IsValidGender(params.Gender) {
		return nil, apperr.BadRequest("gender must be Male, Female, or Other")
	}

	salary, err := validation.ParseSalary(*params.Salary)
	if err != nil {
		return nil, err
	}

	doj, err := validation.ParseDate(params.DateOfJoining)
	if err != nil {
		return nil, err
	}

	repo := s.repomanager.Employees(s.db)

	exists, err := repo.EmailExists(ctx, cleanEmail, "")
	if err != nil {
		return nil, apperr.Internal("failed to add employee", err)
	}
	if exists {
		return nil, apperr.BadRequest("employee email already exists")
	}

	photoURL := ""
	if params.Photo != "" {
		photoURL, err = s.sink.Upload(ctx, params.Photo, photoFolder)
		if err != nil {
			return nil, taggedOr(err, "photo upload failed")
		}
	}

	created, err := repo.Create(ctx, &models.Employee{
		FirstName:     validation.NormalizeString(params.FirstName),
		LastName:      validation.NormalizeString(params.LastName),
		Email:         cleanEmail,
		Gender:        params.Gender,
		Designation:   validation.NormalizeString(params.Designation),
		Salary:        salary,
		DateOfJoining: doj,
		Department:    validation.NormalizeString(params.Department),
		PhotoURL:      photoURL,
	})
	if err != nil {
		return nil, taggedOr(err, "failed to add employee")
	}

	s.logger.Info(ctx, "employee created", "id", created.ID)
	return created, nil
}

// Update applies a field-presence-driven partial update: only supplied
// fields change, everything else keeps its stored value. The merged snapshot
// is persisted as a whole inside one transaction.
func (s *EmployeeService) Update(ctx context.Context, id string, params UpdateEmployeeParams) (*models.Employee, error) {
	if id == "" {
		return nil, apperr.BadRequest("employee id is required")
	}

	var updated *models.Employee
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Employees(tx)

		current, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		next := *current

		if params.Email != nil {
			cleanEmail := validation.NormalizeEmail(*params.Email)
			if !validation.IsValidEmail(cleanEmail) {
				return apperr.BadRequest("invalid employee email format")
			}
			taken, err := repo.EmailExists(ctx, cleanEmail, id)
			if err != nil {
				return apperr.Internal("failed to update employee", err)
			}
			if taken {
				return apperr.BadRequest("another employee already uses this email")
			}
			next.Email = cleanEmail
		}

		if params.FirstName != nil {
			next.FirstName = validation.NormalizeString(*params.FirstName)
		}
		if params.LastName != nil {
			next.LastName = validation.NormalizeString(*params.LastName)
		}

		if params.Gender != nil {
			// An explicit empty value clears the field.
			if *params.Gender != "" && !validation.IsValidGender(*params.Gender) {
				return apperr.BadRequest("gender must be Male, Female, or Other")
			}
			next.Gender = *params.Gender
		}

		if params.Designation != nil {
			next.Designation = validation.NormalizeString(*params.Designation)
		}

		if params.Salary != nil {
			salary, err := validation.ParseSalary(*params.Salary)
			if err != nil {
				return err
			}
			next.Salary = salary
		}

		if params.DateOfJoining != nil {
			doj, err := validation.ParseDate(*params.DateOfJoining)
			if err != nil {
				return err
			}
			next.DateOfJoining = doj
		}

		if params.Department != nil {
			next.Department = validation.NormalizeString(*params.Department)
		}

		if params.Photo != nil && *params.Photo != "" {
			url, err := s.sink.Upload(ctx, *params.Photo, photoFolder)
			if err != nil {
				return err
			}
			next.PhotoURL = url
		}

		updated, err = repo.Update(ctx, &next)
		return err
	})
	if err != nil {
		return nil, taggedOr(err, "failed to update employee")
	}

	s.logger.Info(ctx, "employee updated", "id", id)
	return updated, nil
}

// Delete removes the employee and returns a fixed acknowledgment message.
func (s *EmployeeService) Delete(ctx context.Context, id string) (string, error) {
	if id == "" {
		return "", apperr.BadRequest("employee id is required")
	}

	repo := s.repomanager.Employees(s.db)
	if err := repo.Delete(ctx, id); err != nil {
		return "", taggedOr(err, "failed to delete employee")
	}

	s.logger.Info(ctx, "employee deleted", "id", id)
	return deletedMessage, nil
}

// taggedOr passes through tagged errors unchanged, preserving their kind up
// to the transport boundary, and wraps everything else as internal.
func taggedOr(err error, msg string) error {
	if errors.As(err, new(*apperr.Error)) {
		return err
	}
	return apperr.Internal(msg, err)
}
