package registrations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/symptoms/internal/common"
	"github.com/dmitrijs2005/symptoms/internal/dbx"
	"github.com/dmitrijs2005/symptoms/internal/server/models"
)

// SQLiteRepository implements Repository on SQLite through a DBTX.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT email FROM register WHERE email = ? LIMIT 1`

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

// Create inserts user unless the email is taken; a skipped insert (zero rows
// affected) is reported as common.ErrConflict.
func (r *SQLiteRepository) Create(ctx context.Context, user *models.RegisteredUser) (*models.RegisteredUser, error) {
	query := `INSERT INTO register (username, gender, email, age, weight, height, pulse_rate, temperature, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(email) DO NOTHING`

	res, err := r.db.ExecContext(ctx, query,
		user.Username, user.Gender, user.Email, user.Age, user.Weight, user.Height,
		user.PulseRate, user.Temperature, user.CreatedAt.UTC().Format(sqliteTimeLayout))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, common.ErrConflict
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return nil, common.ErrConflict
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	user.ID = fmt.Sprintf("%d", id)

	return user, nil
}

func (r *SQLiteRepository) GetByEmail(ctx context.Context, email string) (*models.RegisteredUser, error) {
	query := `SELECT id, username, gender, email, age, weight, height, pulse_rate, temperature, created_at
		FROM register WHERE email = ?`

	u := &models.RegisteredUser{}
	var createdAt any
	err := r.db.QueryRowContext(ctx, query, email).Scan(&u.ID, &u.Username, &u.Gender, &u.Email,
		&u.Age, &u.Weight, &u.Height, &u.PulseRate, &u.Temperature, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if u.CreatedAt, err = parseSQLiteTime(createdAt); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return u, nil
}

const sqliteTimeLayout = "2006-01-02 15:04:05.999999999"

// parseSQLiteTime accepts what the driver hands back for a TIMESTAMP column:
// either a decoded time.Time or the stored text.
func parseSQLiteTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t.UTC(), nil
	case string:
		return parseSQLiteText(t)
	case []byte:
		return parseSQLiteText(string(t))
	case int64:
		return time.Unix(t, 0).UTC(), nil
	case nil:
		return time.Time{}, nil
	default:
		return time.Time{}, fmt.Errorf("unexpected created_at type %T", v)
	}
}

func parseSQLiteText(s string) (time.Time, error) {
	for _, layout := range []string{sqliteTimeLayout, time.RFC3339Nano, "2006-01-02 15:04:05.999999999-07:00"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparsable created_at %q", s)
}
