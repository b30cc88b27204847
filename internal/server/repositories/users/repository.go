package users

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/dmitrijs2005/usersapi/internal/server/models"
)

// Repository is the row-level access to stored users. Implementations are
// bound to a dbx.DBTX, so the same code runs inside or outside a write scope.
type Repository interface {
	// List returns users matching where (all users when where is nil) in
	// insertion order.
	List(ctx context.Context, where sq.Sqlizer) ([]models.User, error)

	// Get returns the user or common.ErrorNotFound.
	Get(ctx context.Context, username string) (*models.User, error)

	// Insert stores a new user with its nested values. A duplicate username
	// yields common.ErrorConflict.
	Insert(ctx context.Context, user *models.User) error

	// Save overwrites every column of an existing user.
	Save(ctx context.Context, user *models.User) error

	// Delete removes the user and its nested values. Missing users are ignored.
	Delete(ctx context.Context, username string) error

	Count(ctx context.Context) (int, error)
}
