// Package database opens the PostgreSQL pool used by the db repository backend.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/XSAM/otelsql"
	"github.com/jackc/pgx/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

	"hbnb/internal/config"
)

var sqlOpen = sql.Open

const pingTimeout = 5 * time.Second

// ErrNoDatabase is returned when neither DATABASE_URL nor the DB_* fields name a database.
var ErrNoDatabase = errors.New("database not configured: set DATABASE_URL or DB_HOST, DB_USER and DB_NAME")

// DSN returns the connection string for c. An explicit URL wins over the
// discrete fields. Either form is checked by the pgx parser before use.
func DSN(c config.DatabaseConfig) (string, error) {
	dsn := c.URL
	if dsn == "" {
		if c.Host == "" || c.User == "" || c.Name == "" {
			return "", ErrNoDatabase
		}
		dsn = fieldsURL(c).String()
	}
	if _, err := pgx.ParseConfig(dsn); err != nil {
		return "", fmt.Errorf("invalid database url: %w", err)
	}
	return dsn, nil
}

func fieldsURL(c config.DatabaseConfig) *url.URL {
	port := c.Port
	if port == "" {
		port = "5432"
	}
	u := &url.URL{
		Scheme: "postgres",
		Host:   c.Host + ":" + port,
		Path:   c.Name,
		User:   url.User(c.User),
	}
	if c.Password != "" {
		u.User = url.UserPassword(c.User, c.Password)
	}
	if c.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {c.SSLMode}}.Encode()
	}
	return u
}

// NewPostgres opens a pool through the pgx stdlib driver. Queries are traced
// by otelsql; the pool is pinged once before it is returned.
func NewPostgres(ctx context.Context, c config.DatabaseConfig) (*sql.DB, error) {
	dsn, err := DSN(c)
	if err != nil {
		return nil, err
	}

	driverName, err := otelsql.Register("pgx",
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithSQLCommenter(true),
	)
	if err != nil {
		return nil, fmt.Errorf("register otelsql: %w", err)
	}

	db, err := sqlOpen(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	tunePool(db, c)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func tunePool(db *sql.DB, c config.DatabaseConfig) {
	if c.MaxOpenConns > 0 {
		db.SetMaxOpenConns(c.MaxOpenConns)
	}
	if c.MaxIdleConns > 0 {
		db.SetMaxIdleConns(c.MaxIdleConns)
	}
	if c.ConnMaxLifetimeSec > 0 {
		db.SetConnMaxLifetime(time.Duration(c.ConnMaxLifetimeSec) * time.Second)
	}
}
