// Package registrations persists registered users. Implementations exist for
// PostgreSQL and SQLite (bound to a dbx.DBTX) and for MongoDB.
//
// Every implementation keeps at most one record per email: Create is an
// insert-if-absent against a unique index and reports common.ErrConflict
// when the email is already taken at write time.
package registrations

import (
	"context"

	"github.com/dmitrijs2005/symptoms/internal/server/models"
)

// Table is the relational table (and Mongo collection) holding registrations.
const Table = "register"

type Repository interface {
	// ExistsByEmail reports whether a record with email is stored.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// Create stores user and fills its ID. It returns common.ErrConflict when
	// the email is already registered.
	Create(ctx context.Context, user *models.RegisteredUser) (*models.RegisteredUser, error)
	// GetByEmail returns common.ErrorNotFound when nothing is stored.
	GetByEmail(ctx context.Context, email string) (*models.RegisteredUser, error)
}
