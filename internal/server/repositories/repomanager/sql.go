package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/symptoms/internal/dbx"
	"github.com/dmitrijs2005/symptoms/internal/server/migrations"
	"github.com/dmitrijs2005/symptoms/internal/server/repositories/registrations"
	"github.com/pressly/goose/v3"
)

// SQLRepositoryManager serves PostgreSQL and SQLite. Each session is a
// dedicated *sql.Conn running a single transaction.
type SQLRepositoryManager struct {
	db            *sql.DB
	dialect       goose.Dialect
	migrationsDir string
	newRepo       func(dbx.DBTX) registrations.Repository
}

// NewPostgresRepositoryManager wraps a pgx-backed *sql.DB.
func NewPostgresRepositoryManager(db *sql.DB) *SQLRepositoryManager {
	return &SQLRepositoryManager{
		db:            db,
		dialect:       goose.DialectPostgres,
		migrationsDir: migrations.DirPostgres,
		newRepo: func(tx dbx.DBTX) registrations.Repository {
			return registrations.NewPostgresRepository(tx)
		},
	}
}

// NewSQLiteRepositoryManager wraps a modernc sqlite *sql.DB. SQLite allows a
// single writer, so the pool is capped at one connection and sessions queue.
func NewSQLiteRepositoryManager(db *sql.DB) *SQLRepositoryManager {
	db.SetMaxOpenConns(1)
	return &SQLRepositoryManager{
		db:            db,
		dialect:       goose.DialectSQLite3,
		migrationsDir: migrations.DirSQLite,
		newRepo: func(tx dbx.DBTX) registrations.Repository {
			return registrations.NewSQLiteRepository(tx)
		},
	}
}

func (m *SQLRepositoryManager) WithinSession(ctx context.Context, fn SessionFunc) error {
	acquired := false

	err := dbx.WithConn(ctx, m.db, func(ctx context.Context, conn *sql.Conn) error {
		return dbx.WithTx(ctx, conn, nil, func(ctx context.Context, tx dbx.DBTX) error {
			acquired = true
			return fn(ctx, m.newRepo(tx))
		})
	})

	if err != nil && !acquired {
		return connectionError(err)
	}
	return err
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations points goose at the embedded migrations for this dialect and
// applies them.
func (m *SQLRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect(string(m.dialect)); err != nil {
		return err
	}
	return gooseUpContext(ctx, m.db, m.migrationsDir)
}

func (m *SQLRepositoryManager) Ping(ctx context.Context) error {
	if err := m.db.PingContext(ctx); err != nil {
		return connectionError(err)
	}
	return nil
}

func (m *SQLRepositoryManager) Close() error {
	return m.db.Close()
}
