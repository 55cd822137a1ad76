package registrations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/symptoms/internal/common"
	"github.com/dmitrijs2005/symptoms/internal/dbx"
	"github.com/dmitrijs2005/symptoms/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the SQLSTATE raised by a unique index.
const uniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query :=
		`SELECT email FROM register
		 WHERE email = $1
		 LIMIT 1
		 `

	var found string
	err := r.db.QueryRowContext(ctx, query, email).Scan(&found)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("db error: %w", err)
	}

	return true, nil
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.RegisteredUser) (*models.RegisteredUser, error) {
	query :=
		`INSERT INTO register (username, gender, email, age, weight, height, pulse_rate, temperature, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (email) DO NOTHING
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.Username, user.Gender, user.Email, user.Age, user.Weight, user.Height,
		user.PulseRate, user.Temperature, user.CreatedAt).Scan(&user.ID)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isUniqueViolation(err) {
			return nil, common.ErrConflict
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.RegisteredUser, error) {
	query :=
		`SELECT id, username, gender, email, age, weight, height, pulse_rate, temperature, created_at
		 FROM register
		 WHERE email = $1
		 `

	u := &models.RegisteredUser{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(&u.ID, &u.Username, &u.Gender, &u.Email,
		&u.Age, &u.Weight, &u.Height, &u.PulseRate, &u.Temperature, &u.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return u, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
