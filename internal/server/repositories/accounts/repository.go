package accounts

import (
	"context"

	"github.com/dmitrijs2005/staffkeeper/internal/server/models"
)

// Repository is the persistence boundary for login accounts.
type Repository interface {
	// Create inserts and returns the account with its assigned id and
	// timestamps. A username or email collision yields a BadRequest error.
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	// FindByUsernameOrEmail returns the first account matching either
	// identifier; blank identifiers are skipped. Absence yields NotFound.
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*models.Account, error)
	// Exists reports whether any account already uses the username or email.
	Exists(ctx context.Context, username, email string) (bool, error)
}
