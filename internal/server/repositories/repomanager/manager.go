// Package repomanager owns the storage handle and vends registrations
// repositories through scoped sessions, so callers never hold a connection
// past the function they pass in.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/symptoms/internal/server/repositories/registrations"
	_ "github.com/jackc/pgx/v5/stdlib"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	_ "modernc.org/sqlite"
)

// SessionFunc runs against a repository bound to one acquired session.
type SessionFunc func(ctx context.Context, repo registrations.Repository) error

type RepositoryManager interface {
	// WithinSession acquires a storage session, runs fn and releases the
	// session on every exit path. Acquisition failures are reported as
	// *common.ConnectionError and fn is not called.
	WithinSession(ctx context.Context, fn SessionFunc) error
	RunMigrations(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

// Options carries backend settings that are not part of the DSN.
type Options struct {
	MongoDatabase string
}

// Kind names the backend selected for a DSN.
type Kind string

const (
	KindPostgres Kind = "postgres"
	KindSQLite   Kind = "sqlite"
	KindMongo    Kind = "mongo"
)

// KindOf picks the backend from the DSN scheme. Anything that is not a
// Postgres or Mongo URL is handed to SQLite.
func KindOf(dsn string) Kind {
	lower := strings.ToLower(dsn)
	switch {
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return KindPostgres
	case strings.HasPrefix(lower, "mongodb://"), strings.HasPrefix(lower, "mongodb+srv://"):
		return KindMongo
	default:
		return KindSQLite
	}
}

// New opens the backend named by dsn. SQL handles are opened lazily; the
// first real connection happens on Ping, RunMigrations or WithinSession.
func New(ctx context.Context, dsn string, opts Options) (RepositoryManager, error) {
	switch KindOf(dsn) {
	case KindPostgres:
		db, err := sql.Open("pgx", dsn)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		return NewPostgresRepositoryManager(db), nil

	case KindMongo:
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(dsn))
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		return NewMongoRepositoryManager(client, opts.MongoDatabase), nil

	default:
		db, err := sql.Open("sqlite", strings.TrimPrefix(dsn, "sqlite://"))
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		return NewSQLiteRepositoryManager(db), nil
	}
}
