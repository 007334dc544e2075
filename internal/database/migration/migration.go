// Package migration creates the relational schema used by the database backend.
package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type migrationStep struct {
	Name string
	SQL  string
}

// sentinelTable is created by the last step; its presence means the schema is complete.
const sentinelTable = "public.place_amenities"

// Ids are TEXT because records imported from the file backend may carry any string id.
// References are checked by the services, not by foreign keys, so every backend
// accepts the same writes.
var steps = []migrationStep{
	{
		Name: "create_table_users",
		SQL: `CREATE TABLE IF NOT EXISTS users (
  id            TEXT        PRIMARY KEY,
  email         TEXT        NOT NULL UNIQUE,
  first_name    TEXT        NOT NULL DEFAULT '',
  last_name     TEXT        NOT NULL DEFAULT '',
  password_hash TEXT        NOT NULL DEFAULT '',
  is_admin      BOOLEAN     NOT NULL DEFAULT FALSE,
  created_at    TIMESTAMPTZ NOT NULL,
  updated_at    TIMESTAMPTZ NOT NULL
);`,
	},
	{
		Name: "create_table_countries",
		SQL: `CREATE TABLE IF NOT EXISTS countries (
  id         TEXT        PRIMARY KEY,
  name       TEXT        NOT NULL,
  code       TEXT        NOT NULL UNIQUE,
  created_at TIMESTAMPTZ NOT NULL,
  updated_at TIMESTAMPTZ NOT NULL
);`,
	},
	{
		Name: "create_table_cities",
		SQL: `CREATE TABLE IF NOT EXISTS cities (
  id           TEXT        PRIMARY KEY,
  name         TEXT        NOT NULL,
  country_code TEXT        NOT NULL,
  created_at   TIMESTAMPTZ NOT NULL,
  updated_at   TIMESTAMPTZ NOT NULL
);`,
	},
	{
		Name: "create_table_amenities",
		SQL: `CREATE TABLE IF NOT EXISTS amenities (
  id         TEXT        PRIMARY KEY,
  name       TEXT        NOT NULL,
  created_at TIMESTAMPTZ NOT NULL,
  updated_at TIMESTAMPTZ NOT NULL
);`,
	},
	{
		Name: "create_table_places",
		SQL: `CREATE TABLE IF NOT EXISTS places (
  id                  TEXT             PRIMARY KEY,
  name                TEXT             NOT NULL,
  description         TEXT             NOT NULL DEFAULT '',
  address             TEXT             NOT NULL DEFAULT '',
  latitude            DOUBLE PRECISION NOT NULL DEFAULT 0,
  longitude           DOUBLE PRECISION NOT NULL DEFAULT 0,
  host_id             TEXT             NOT NULL,
  city_id             TEXT             NOT NULL,
  price_per_night     INTEGER          NOT NULL DEFAULT 0 CHECK (price_per_night >= 0),
  number_of_rooms     INTEGER          NOT NULL DEFAULT 0 CHECK (number_of_rooms >= 0),
  number_of_bathrooms INTEGER          NOT NULL DEFAULT 0 CHECK (number_of_bathrooms >= 0),
  max_guests          INTEGER          NOT NULL DEFAULT 0 CHECK (max_guests >= 0),
  created_at          TIMESTAMPTZ      NOT NULL,
  updated_at          TIMESTAMPTZ      NOT NULL
);`,
	},
	{
		Name: "create_table_reviews",
		SQL: `CREATE TABLE IF NOT EXISTS reviews (
  id         TEXT             PRIMARY KEY,
  place_id   TEXT             NOT NULL,
  user_id    TEXT             NOT NULL,
  comment    TEXT             NOT NULL,
  rating     DOUBLE PRECISION NOT NULL CHECK (rating >= 0 AND rating <= 5),
  created_at TIMESTAMPTZ      NOT NULL,
  updated_at TIMESTAMPTZ      NOT NULL
);`,
	},
	{
		Name: "create_index_places_city_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_places_city_id ON places (city_id);`,
	},
	{
		Name: "create_index_reviews_place_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_reviews_place_id ON reviews (place_id);`,
	},
	{
		Name: "create_table_place_amenities",
		SQL: `CREATE TABLE IF NOT EXISTS place_amenities (
  id         TEXT        PRIMARY KEY,
  place_id   TEXT        NOT NULL,
  amenity_id TEXT        NOT NULL,
  created_at TIMESTAMPTZ NOT NULL,
  updated_at TIMESTAMPTZ NOT NULL,
  UNIQUE (place_id, amenity_id)
);`,
	},
}

// EnsureMigrated creates the schema unless the sentinel table already exists.
// Every step is idempotent, so a run interrupted halfway is completed by the next one.
func EnsureMigrated(ctx context.Context, db *sql.DB, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	log := logger.With(zap.String("component", "database"))
	start := time.Now()

	var exists bool
	query := "SELECT to_regclass($1) IS NOT NULL"
	if err := db.QueryRowContext(ctx, query, sentinelTable).Scan(&exists); err != nil {
		log.Error("db_migration_failed", zap.String("status", "error"), zap.Error(err),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()))
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}
	if exists {
		log.Info("db_migration_skip",
			zap.String("status", "success"),
			zap.String("reason", "schema already exists"),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return nil
	}

	log.Info("db_migration_start", zap.Int("steps", len(steps)))
	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error("db_migration_failed",
				zap.String("status", "error"),
				zap.String("migration_step", step.Name),
				zap.Error(err),
				zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}
		log.Debug("db_migration_step",
			zap.String("migration_step", step.Name),
			zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
		)
	}

	log.Info("db_migration_success",
		zap.String("status", "success"),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return nil
}
