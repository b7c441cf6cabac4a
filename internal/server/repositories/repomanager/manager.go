package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/staffkeeper/internal/dbx"
	"github.com/dmitrijs2005/staffkeeper/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/staffkeeper/internal/server/repositories/employees"
)

// RepositoryManager vends repositories bound to a DBTX, so services can use
// the same repository code inside and outside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
	Employees(db dbx.DBTX) employees.Repository
}
