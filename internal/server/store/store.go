// Package store manages the embedded SQLite database holding users: opening
// it lazily, running migrations, scoping writes in transactions and seeding
// an empty database on first boot.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/usersapi/internal/common"
	"github.com/dmitrijs2005/usersapi/internal/dbx"
	"github.com/dmitrijs2005/usersapi/internal/filex"
	"github.com/dmitrijs2005/usersapi/internal/logging"
	"github.com/dmitrijs2005/usersapi/internal/server/models"
	"github.com/dmitrijs2005/usersapi/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/usersapi/internal/server/repositories/users"
)

const (
	DefaultPath = "database/users.db"
	TestPath    = "database/test/users.db"
)

//go:embed seed/users.json
var seedUsers []byte

// PathForMode returns the database file used in the given run mode.
func PathForMode(mode string) string {
	if mode == common.ModeTest {
		return TestPath
	}
	return DefaultPath
}

// DSN builds the driver connection string for a database file. Writers take
// the lock when the transaction begins, and wait for it instead of failing.
func DSN(path string) string {
	return "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_txlock=immediate"
}

type Config struct {
	Path string
}

// Manager owns the process-wide database handle. The zero value is not
// usable; construct it with NewManager.
type Manager struct {
	cfg   Config
	repos repomanager.RepositoryManager
	log   logging.Logger

	mu sync.Mutex
	db *sql.DB
}

func NewManager(cfg Config, repos repomanager.RepositoryManager, log logging.Logger) *Manager {
	if log == nil {
		log = logging.Nop{}
	}
	return &Manager{cfg: cfg, repos: repos, log: log.With("module", "store")}
}

// Handle opens the database on first use and returns the same pool afterwards.
func (m *Manager) Handle(ctx context.Context) (*sql.DB, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.db != nil {
		return m.db, nil
	}

	if _, err := filex.EnsureParentDir(m.cfg.Path); err != nil {
		return nil, fmt.Errorf("create database dir: %w", err)
	}

	db, err := sql.Open("sqlite", DSN(m.cfg.Path))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := m.repos.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	m.log.Info(ctx, "database opened", "path", m.cfg.Path)
	m.db = db
	return db, nil
}

// Users returns a repository bound to db, which is either the handle or a
// transaction from Write.
func (m *Manager) Users(db dbx.DBTX) users.Repository {
	return m.repos.Users(db)
}

// Write runs fn in a single transaction.
func (m *Manager) Write(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	db, err := m.Handle(ctx)
	if err != nil {
		return err
	}
	return dbx.WithTx(ctx, db, nil, fn)
}

// Init opens the database and, if it holds no users, inserts the bundled seed
// list in one transaction.
func (m *Manager) Init(ctx context.Context) error {
	db, err := m.Handle(ctx)
	if err != nil {
		return err
	}

	n, err := m.Users(db).Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		m.log.Debug(ctx, "database already seeded", "users", n)
		return nil
	}

	var seed []models.User
	if err := json.Unmarshal(seedUsers, &seed); err != nil {
		return fmt.Errorf("decode seed users: %w", err)
	}

	err = m.Write(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := m.Users(tx)
		for i := range seed {
			if err := repo.Insert(ctx, &seed[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("seed users: %w", err)
	}

	m.log.Info(ctx, "database seeded", "users", len(seed))
	return nil
}

// Close releases the handle. The next Handle call reopens the database.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.db == nil {
		return nil
	}
	err := m.db.Close()
	m.db = nil
	return err
}
