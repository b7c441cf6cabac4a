package employees

import (
	"context"

	"github.com/dmitrijs2005/staffkeeper/internal/server/models"
)

// Repository is the persistence boundary for employee records.
type Repository interface {
	// Create inserts and returns the employee with its assigned id and
	// timestamps. An email collision yields a BadRequest error.
	Create(ctx context.Context, employee *models.Employee) (*models.Employee, error)
	// GetByID returns the employee or a NotFound error.
	GetByID(ctx context.Context, id string) (*models.Employee, error)
	// List returns all employees, newest first.
	List(ctx context.Context) ([]*models.Employee, error)
	// Search returns employees matching the filter, newest first.
	Search(ctx context.Context, filter SearchFilter) ([]*models.Employee, error)
	// EmailExists reports whether an employee other than excludeID already
	// uses the email. Pass an empty excludeID for create-time checks.
	EmailExists(ctx context.Context, email, excludeID string) (bool, error)
	// Update persists a full snapshot and returns the stored result.
	Update(ctx context.Context, employee *models.Employee) (*models.Employee, error)
	// Delete removes the employee or returns a NotFound error.
	Delete(ctx context.Context, id string) error
}
