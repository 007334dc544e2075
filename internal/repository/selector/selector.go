// Package selector opens the repository backend named by configuration.
// It is called once at startup; the returned handle is passed explicitly to
// whatever needs storage.
package selector

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"hbnb/internal/config"
	"hbnb/internal/database"
	"hbnb/internal/database/migration"
	"hbnb/internal/model"
	"hbnb/internal/repository"
	"hbnb/internal/repository/file"
	"hbnb/internal/repository/memory"
	"hbnb/internal/repository/postgres"
	"hbnb/internal/storage"
)

// Deps are the collaborators a backend may need. Zero values get defaults.
type Deps struct {
	Logger   *zap.Logger
	Registry *model.Registry
	// Seed overrides repository.DefaultSeed. It only runs when seeding is enabled.
	Seed     repository.Seeder
	Archiver storage.Archiver
	OpenDB   func(ctx context.Context, c config.DatabaseConfig) (*sql.DB, error)
	Migrate  func(ctx context.Context, db *sql.DB, logger *zap.Logger) error
}

func (d *Deps) defaults() {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Registry == nil {
		d.Registry = model.DefaultRegistry()
	}
	if d.Seed == nil {
		d.Seed = repository.DefaultSeed
	}
	if d.OpenDB == nil {
		d.OpenDB = database.NewPostgres
	}
	if d.Migrate == nil {
		d.Migrate = migration.EnsureMigrated
	}
}

// Open builds the backend selected by cfg.Repository.Kind: "db", "file",
// anything else is memory.
func Open(ctx context.Context, cfg *config.AppConfig, deps Deps) (repository.Repository, error) {
	deps.defaults()
	kind := repository.ParseKind(cfg.Repository.Kind)
	log := deps.Logger.With(zap.String("repository", string(kind)))

	var seed repository.Seeder
	if cfg.Repository.Seed {
		seed = deps.Seed
	}

	switch kind {
	case repository.KindDatabase:
		db, err := deps.OpenDB(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		if err := deps.Migrate(ctx, db, deps.Logger); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrate database: %w", err)
		}
		repo := postgres.New(db, postgres.WithRegistry(deps.Registry), postgres.WithLogger(deps.Logger))
		if seed != nil {
			if err := seed(ctx, repo); err != nil {
				_ = repo.Close()
				return nil, fmt.Errorf("seed database: %w", err)
			}
		}
		log.Info("repository ready", zap.String("db_host", cfg.Database.Host))
		return repo, nil

	case repository.KindFile:
		opts := []file.Option{
			file.WithRegistry(deps.Registry),
			file.WithLogger(deps.Logger),
			file.WithSeed(seed),
		}
		if deps.Archiver != nil {
			opts = append(opts, file.WithArchive(deps.Archiver))
		}
		repo, err := file.New(ctx, cfg.Repository.FilePath, opts...)
		if err != nil {
			return nil, err
		}
		log.Info("repository ready", zap.String("path", repo.Path()))
		return repo, nil

	default:
		repo, err := memory.Open(ctx,
			memory.WithRegistry(deps.Registry),
			memory.WithLogger(deps.Logger),
			memory.WithSeed(seed),
		)
		if err != nil {
			return nil, err
		}
		log.Info("repository ready")
		return repo, nil
	}
}
