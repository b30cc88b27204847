// Package repomanager provides a concrete RepositoryManager for SQLite,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/usersapi/internal/dbx"
	"github.com/dmitrijs2005/usersapi/internal/logging"
	"github.com/dmitrijs2005/usersapi/internal/server/migrations"
	"github.com/dmitrijs2005/usersapi/internal/server/repositories/users"
)

// SQLiteRepositoryManager vends SQLite-backed repository implementations
// and exposes a schema migration hook.
type SQLiteRepositoryManager struct {
	log logging.Logger
}

// Users returns a users.Repository bound to the provided DBTX.
func (m *SQLiteRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLiteRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(gooseLogger{ctx: ctx, log: m.log})
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return err
	}
	return nil
}

// NewSQLiteRepositoryManager constructs a SQLite-backed RepositoryManager.
// A nil logger discards goose output.
func NewSQLiteRepositoryManager(log logging.Logger) RepositoryManager {
	if log == nil {
		log = logging.Nop{}
	}
	return &SQLiteRepositoryManager{log: log}
}

// gooseLogger routes goose's printf-style output into the structured logger.
type gooseLogger struct {
	ctx context.Context
	log logging.Logger
}

func (g gooseLogger) Printf(format string, v ...any) {
	g.log.Debug(g.ctx, "migrations", "msg", fmt.Sprintf(format, v...))
}

// Fatalf does not exit; goose returns the error to RunMigrations anyway.
func (g gooseLogger) Fatalf(format string, v ...any) {
	g.log.Error(g.ctx, "migrations", "msg", fmt.Sprintf(format, v...))
}
