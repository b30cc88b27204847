// Package services implements the users data-access core on top of the
// store: reads, filtered finds and write-scoped mutations.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/usersapi/internal/common"
	"github.com/dmitrijs2005/usersapi/internal/dbx"
	"github.com/dmitrijs2005/usersapi/internal/logging"
	"github.com/dmitrijs2005/usersapi/internal/query"
	"github.com/dmitrijs2005/usersapi/internal/schema"
	"github.com/dmitrijs2005/usersapi/internal/server/models"
	"github.com/dmitrijs2005/usersapi/internal/server/repositories/users"
)

// Store is the part of store.Manager used by the service.
type Store interface {
	Handle(ctx context.Context) (*sql.DB, error)
	Write(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error
	Users(db dbx.DBTX) users.Repository
}

type UserService struct {
	store Store
	log   logging.Logger
}

func NewUserService(store Store, log logging.Logger) *UserService {
	if log == nil {
		log = logging.Nop{}
	}
	return &UserService{store: store, log: log.With("module", "users")}
}

func (s *UserService) reader(ctx context.Context) (users.Repository, error) {
	db, err := s.store.Handle(ctx)
	if err != nil {
		return nil, err
	}
	return s.store.Users(db), nil
}

// GetAll returns every user in store order. An empty store gives an empty slice.
func (s *UserService) GetAll(ctx context.Context) ([]models.User, error) {
	repo, err := s.reader(ctx)
	if err != nil {
		return nil, err
	}
	return repo.List(ctx, nil)
}

// GetByUsername returns nil, nil when the user does not exist.
func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	repo, err := s.reader(ctx)
	if err != nil {
		return nil, err
	}

	u, err := repo.Get(ctx, username)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Find returns the users matching every present term of f. A filter with no
// effective terms matches all users.
func (s *UserService) Find(ctx context.Context, f *query.Filter) ([]models.User, error) {
	if f == nil {
		return s.GetAll(ctx)
	}
	if err := f.Validate(schema.User); err != nil {
		return nil, err
	}

	q := query.BuildQuery(f)
	if q == "" {
		return s.GetAll(ctx)
	}
	s.log.Debug(ctx, "find users", "query", q)

	clauses, err := query.Parse(q)
	if err != nil {
		return nil, err
	}
	where, err := query.ToSQL(clauses, schema.User)
	if err != nil {
		return nil, err
	}

	repo, err := s.reader(ctx)
	if err != nil {
		return nil, err
	}
	return repo.List(ctx, where)
}

// Add inserts a new user with its nested values. An existing username gives
// common.ErrorConflict and leaves the store untouched.
func (s *UserService) Add(ctx context.Context, u models.User) (*models.User, error) {
	if u.Username == "" {
		return nil, fmt.Errorf("%w: username is required", common.ErrorValidation)
	}

	var created *models.User
	err := s.store.Write(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.store.Users(tx)

		_, err := repo.Get(ctx, u.Username)
		if err == nil {
			return fmt.Errorf("user[%s]: %w", u.Username, common.ErrorConflict)
		}
		if !errors.Is(err, common.ErrorNotFound) {
			return err
		}

		if err := repo.Insert(ctx, &u); err != nil {
			return err
		}
		created, err = repo.Get(ctx, u.Username)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "user added", "username", u.Username)
	return created, nil
}

// Update merges the present fields of p into the stored user and returns the
// result. A missing user gives common.ErrorNotFound.
func (s *UserService) Update(ctx context.Context, p models.UserPatch) (*models.User, error) {
	if p.Username == "" {
		return nil, fmt.Errorf("%w: username is required", common.ErrorValidation)
	}

	var updated *models.User
	err := s.store.Write(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.store.Users(tx)

		u, err := repo.Get(ctx, p.Username)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return fmt.Errorf("user[%s] does not exist: %w", p.Username, common.ErrorNotFound)
			}
			return err
		}

		p.Apply(u)
		if err := repo.Save(ctx, u); err != nil {
			return err
		}
		updated = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "user updated", "username", p.Username)
	return updated, nil
}

// Delete removes the user and its nested values. Deleting a missing user is
// not an error.
func (s *UserService) Delete(ctx context.Context, username string) error {
	err := s.store.Write(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		return s.store.Users(tx).Delete(ctx, username)
	})
	if err != nil {
		return err
	}

	s.log.Info(ctx, "user deleted", "username", username)
	return nil
}

func (s *UserService) Count(ctx context.Context) (int, error) {
	repo, err := s.reader(ctx)
	if err != nil {
		return 0, err
	}
	return repo.Count(ctx)
}
