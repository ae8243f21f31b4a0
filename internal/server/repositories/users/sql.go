package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/authboard/internal/common"
	"github.com/dmitrijs2005/authboard/internal/dbx"
	"github.com/dmitrijs2005/authboard/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const pgUniqueViolation = "23505"

const userColumns = `id, username, email, password_hash, is_active, created_at`

// SQLRepository stores users in PostgreSQL or SQLite. The same SQL text is
// used for both; placeholders are rebound per dialect.
type SQLRepository struct {
	db      dbx.DBTX
	dialect dbx.Dialect
	now     func() time.Time
}

func NewSQLRepository(db dbx.DBTX, dialect dbx.Dialect) *SQLRepository {
	return &SQLRepository{db: db, dialect: dialect, now: time.Now}
}

func (r *SQLRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = ?`
	return r.findOne(ctx, query, username)
}

func (r *SQLRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return r.findOne(ctx, query, id)
}

func (r *SQLRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	return r.findOne(ctx, query, email)
}

// Exists reports whether any account uses v as its username or its email.
func (r *SQLRepository) Exists(ctx context.Context, usernameOrEmail string) (bool, error) {
	query := `SELECT COUNT(*) FROM users WHERE username = ? OR email = ?`

	var n int64
	err := r.db.QueryRowContext(ctx, r.dialect.Rebind(query), usernameOrEmail, usernameOrEmail).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n > 0, nil
}

func (r *SQLRepository) Create(ctx context.Context, username, email, passwordHash string) (*models.User, error) {
	query :=
		`INSERT INTO users (username, email, password_hash, is_active, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 RETURNING id`

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		IsActive:     true,
		CreatedAt:    r.now().UTC().Truncate(time.Microsecond),
	}

	err := r.db.QueryRowContext(ctx, r.dialect.Rebind(query),
		user.Username, user.Email, user.PasswordHash, user.IsActive, user.CreatedAt).Scan(&user.ID)
	if err != nil {
		if conflict := uniqueViolation(err); conflict != nil {
			return nil, conflict
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *SQLRepository) Count(ctx context.Context) (models.UserStats, error) {
	query :=
		`SELECT COUNT(*), COALESCE(SUM(CASE WHEN is_active THEN 1 ELSE 0 END), 0)
		 FROM users`

	var stats models.UserStats
	if err := r.db.QueryRowContext(ctx, query).Scan(&stats.Total, &stats.Active); err != nil {
		return models.UserStats{}, fmt.Errorf("db error: %w", err)
	}
	return stats, nil
}

func (r *SQLRepository) List(ctx context.Context) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.User
	for rows.Next() {
		u := &models.User{}
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.IsActive, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *SQLRepository) findOne(ctx context.Context, query string, arg any) (*models.User, error) {
	u := &models.User{}
	err := r.db.QueryRowContext(ctx, r.dialect.Rebind(query), arg).
		Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.IsActive, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

// uniqueViolation translates a driver-level unique constraint failure into
// the matching conflict error, or returns nil for any other error.
func uniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return conflictFor(pgErr.ConstraintName + " " + pgErr.Detail)
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		if code == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			(code == sqlite3.SQLITE_CONSTRAINT && strings.Contains(liteErr.Error(), "UNIQUE")) {
			return conflictFor(liteErr.Error())
		}
	}

	return nil
}

func conflictFor(detail string) error {
	switch {
	case strings.Contains(detail, "username"):
		return common.ErrUsernameExists
	case strings.Contains(detail, "email"):
		return common.ErrEmailExists
	default:
		return common.NewConflictError("user already exists")
	}
}
