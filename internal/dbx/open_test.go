package dbx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDSN(t *testing.T) {
	tests := []struct {
		dsn         string
		wantDriver  string
		wantSource  string
		wantDialect Dialect
	}{
		{"postgres://u:p@db:5432/app?sslmode=disable", "pgx", "postgres://u:p@db:5432/app?sslmode=disable", DialectPostgres},
		{"postgresql://db/app", "pgx", "postgresql://db/app", DialectPostgres},
		{"sqlite:///app.db", "sqlite", "app.db?_pragma=busy_timeout(5000)", DialectSQLite},
		{"sqlite:////var/lib/app.db", "sqlite", "/var/lib/app.db?_pragma=busy_timeout(5000)", DialectSQLite},
		{"sqlite://data.db", "sqlite", "data.db?_pragma=busy_timeout(5000)", DialectSQLite},
		{"file:app.db?mode=rwc", "sqlite", "file:app.db?mode=rwc", DialectSQLite},
		{":memory:", "sqlite", ":memory:?_pragma=busy_timeout(5000)", DialectSQLite},
	}

	for _, tt := range tests {
		t.Run(tt.dsn, func(t *testing.T) {
			driver, source, dialect := ParseDSN(tt.dsn)
			assert.Equal(t, tt.wantDriver, driver)
			assert.Equal(t, tt.wantSource, source)
			assert.Equal(t, tt.wantDialect, dialect)
		})
	}
}

func TestOpen_SQLiteMemory(t *testing.T) {
	db, dialect, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	assert.Equal(t, DialectSQLite, dialect)
	assert.NoError(t, db.Ping())
}

func TestDialect_Rebind(t *testing.T) {
	q := `SELECT id FROM users WHERE username = ? OR email = ?`

	assert.Equal(t, `SELECT id FROM users WHERE username = $1 OR email = $2`, DialectPostgres.Rebind(q))
	assert.Equal(t, q, DialectSQLite.Rebind(q))
}
