package dbx

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Dialect names the SQL flavour behind a connection. The values double as
// goose dialect names.
type Dialect string

const (
	DialectPostgres Dialect = "pgx"
	DialectSQLite   Dialect = "sqlite3"
)

// ParseDSN maps a database URL to a database/sql driver name, the
// driver-specific data source and its dialect.
//
//	postgres://u:p@host/db      -> pgx
//	sqlite:///app.db            -> sqlite, "app.db" (relative)
//	sqlite:////var/lib/app.db   -> sqlite, "/var/lib/app.db"
//	app.db, file:app.db, :memory: -> sqlite
func ParseDSN(dsn string) (driver, source string, dialect Dialect) {
	dsn = strings.TrimSpace(dsn)

	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return "pgx", dsn, DialectPostgres
	case strings.HasPrefix(dsn, "sqlite:///"):
		source = strings.TrimPrefix(dsn, "sqlite:///")
	case strings.HasPrefix(dsn, "sqlite://"):
		source = strings.TrimPrefix(dsn, "sqlite://")
	default:
		source = dsn
	}

	if !strings.Contains(source, "?") {
		source += "?_pragma=busy_timeout(5000)"
	}
	return "sqlite", source, DialectSQLite
}

// Open connects to the database named by dsn and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, Dialect, error) {
	driver, source, dialect := ParseDSN(dsn)

	db, err := sql.Open(driver, source)
	if err != nil {
		return nil, "", fmt.Errorf("open %s: %w", driver, err)
	}

	if dialect == DialectSQLite {
		// a single writer keeps SQLite from returning SQLITE_BUSY under load
		// and keeps ":memory:" databases on one connection
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(time.Hour)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, "", fmt.Errorf("ping %s: %w", driver, err)
	}

	return db, dialect, nil
}

// Rebind rewrites "?" placeholders into the dialect's native form.
// Queries passed here must not contain literal question marks.
func (d Dialect) Rebind(query string) string {
	if d != DialectPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
