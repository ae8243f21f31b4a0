package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/authboard/internal/dbx"
	"github.com/dmitrijs2005/authboard/internal/server/repositories/users"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDB(t *testing.T) *sql.DB {
	t.Helper()
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func stubGoose(t *testing.T, fn func(dir string) error) {
	t.Helper()
	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return fn(dir)
	}
	t.Cleanup(func() { gooseUpContext = orig })
}

func TestSQLRepositoryManager_ImplementsInterface(t *testing.T) {
	var m RepositoryManager = NewSQLRepositoryManager(dbx.DialectPostgres)

	repo := m.Users(newDB(t))
	require.NotNil(t, repo)
	_, ok := repo.(*users.SQLRepository)
	assert.True(t, ok)
}

func TestRunMigrations_PicksDialectDir(t *testing.T) {
	tests := []struct {
		dialect dbx.Dialect
		wantDir string
	}{
		{dbx.DialectPostgres, "postgres"},
		{dbx.DialectSQLite, "sqlite"},
	}

	for _, tt := range tests {
		t.Run(string(tt.dialect), func(t *testing.T) {
			var gotDir string
			stubGoose(t, func(dir string) error {
				gotDir = dir
				return nil
			})

			err := NewSQLRepositoryManager(tt.dialect).RunMigrations(context.Background(), newDB(t))
			require.NoError(t, err)
			assert.Equal(t, tt.wantDir, gotDir)
		})
	}
}

func TestRunMigrations_Error(t *testing.T) {
	stubGoose(t, func(string) error { return errors.New("boom") })

	err := NewSQLRepositoryManager(dbx.DialectSQLite).RunMigrations(context.Background(), newDB(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestRunMigrations_UnknownDialect(t *testing.T) {
	err := NewSQLRepositoryManager(dbx.Dialect("oracle")).RunMigrations(context.Background(), newDB(t))
	assert.Error(t, err)
}

func TestRunMigrations_SQLiteEndToEnd(t *testing.T) {
	db, dialect, err := dbx.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	m := NewSQLRepositoryManager(dialect)
	require.NoError(t, m.RunMigrations(context.Background(), db))
	// idempotent
	require.NoError(t, m.RunMigrations(context.Background(), db))

	u, err := m.Users(db).Create(context.Background(), "admin", "admin@x.com", "hash")
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
}
