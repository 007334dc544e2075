// Package postgres is the relational repository backend. Every model maps to
// one table; queries are parameterized and carry no business logic.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"hbnb/internal/model"
	"hbnb/internal/repository"
)

const (
	pgUniqueViolation = "23505"
	// Postgres names primary key constraints <table>_pkey unless told otherwise.
	pkeySuffix = "_pkey"
)

// Repository is a PostgreSQL implementation of repository.Repository.
type Repository struct {
	db       *sql.DB
	registry *model.Registry
	now      func() time.Time
	logger   *zap.Logger
	closed   atomic.Bool
}

var _ repository.Repository = (*Repository)(nil)

type Option func(*Repository)

func WithRegistry(reg *model.Registry) Option {
	return func(r *Repository) { r.registry = reg }
}

func WithClock(now func() time.Time) Option {
	return func(r *Repository) { r.now = now }
}

func WithLogger(l *zap.Logger) Option {
	return func(r *Repository) {
		if l != nil {
			r.logger = l
		}
	}
}

// New wraps an open pool. The schema is expected to exist (see migration.EnsureMigrated).
func New(db *sql.DB, opts ...Option) *Repository {
	r := &Repository{
		db:       db,
		registry: model.DefaultRegistry(),
		now:      time.Now,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// DB exposes the pool for health checks.
func (r *Repository) DB() *sql.DB { return r.db }

func (r *Repository) lookup(name model.Name) (table, bool) {
	if !r.registry.Has(name) {
		return table{}, false
	}
	t, ok := tables[name]
	return t, ok
}

// uniqueViolation reports whether err is a unique violation and whether it hit the primary key.
func uniqueViolation(err error) (unique, pkey bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgUniqueViolation {
		return false, false
	}
	return true, strings.HasSuffix(pgErr.ConstraintName, pkeySuffix)
}

func selectColumns(t table) string {
	return "id, created_at, updated_at, " + strings.Join(t.columns, ", ")
}

func (r *Repository) scanTargets(name model.Name) (model.Entity, []any, error) {
	e, err := r.registry.New(name)
	if err != nil {
		return nil, nil, err
	}
	b := e.Meta()
	targets := append([]any{&b.ID, &b.CreatedAt, &b.UpdatedAt}, tables[name].fields(e)...)
	return e, targets, nil
}

func normalize(e model.Entity) model.Entity {
	b := e.Meta()
	b.CreatedAt = b.CreatedAt.UTC()
	b.UpdatedAt = b.UpdatedAt.UTC()
	return e
}

// GetAll returns every row of the model's table. Unknown names yield an empty slice.
func (r *Repository) GetAll(ctx context.Context, name model.Name) ([]model.Entity, error) {
	if r.closed.Load() {
		return nil, repository.ErrClosed
	}
	out := make([]model.Entity, 0)
	t, ok := r.lookup(name)
	if !ok {
		return out, nil
	}

	q := fmt.Sprintf(`SELECT %s FROM %s ORDER BY created_at, id`, selectColumns(t), t.name)
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, &repository.Error{Op: "get_all", Model: name, Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		e, targets, err := r.scanTargets(name)
		if err != nil {
			return nil, err
		}
		if err := rows.Scan(targets...); err != nil {
			return nil, &repository.Error{Op: "get_all", Model: name, Err: err}
		}
		out = append(out, normalize(e))
	}
	if err := rows.Err(); err != nil {
		return nil, &repository.Error{Op: "get_all", Model: name, Err: err}
	}
	return out, nil
}

// Get fetches one row by primary key. A missing row is reported as absent.
func (r *Repository) Get(ctx context.Context, name model.Name, id string) (model.Entity, bool, error) {
	if r.closed.Load() {
		return nil, false, repository.ErrClosed
	}
	t, ok := r.lookup(name)
	if !ok {
		return nil, false, nil
	}

	q := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, selectColumns(t), t.name)
	e, targets, err := r.scanTargets(name)
	if err != nil {
		return nil, false, err
	}
	if err := r.db.QueryRowContext(ctx, q, id).Scan(targets...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, &repository.Error{Op: "get", Model: name, ID: id, Err: err}
	}
	return normalize(e), true, nil
}

// Save inserts e. Saving a row identical to the stored one is a no-op; any
// other id clash is ErrDuplicateID. Clashes on other unique columns are
// ErrUniqueViolation.
func (r *Repository) Save(ctx context.Context, e model.Entity) (model.Entity, error) {
	if r.closed.Load() {
		return nil, repository.ErrClosed
	}
	if e == nil {
		return nil, repository.ErrNilEntity
	}
	name := e.ModelName()
	t, ok := r.lookup(name)
	if !ok {
		return nil, &repository.Error{Op: "save", Model: name, Err: repository.ErrUnknownModel}
	}
	b := e.Meta()

	cols := append([]string{"id", "created_at", "updated_at"}, t.columns...)
	placeholders := make([]string, len(cols))
	for i := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	q := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`, t.name, strings.Join(cols, ", "), strings.Join(placeholders, ", "))
	args := append([]any{b.ID, b.CreatedAt.UTC(), b.UpdatedAt.UTC()}, values(t.fields(e))...)

	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		unique, pkey := uniqueViolation(err)
		switch {
		case pkey:
			if r.sameAsStored(ctx, e) {
				return e, nil
			}
			err = repository.ErrDuplicateID
		case unique:
			err = fmt.Errorf("%w: %v", repository.ErrUniqueViolation, err)
		}
		return nil, &repository.Error{Op: "save", Model: name, ID: b.ID, Err: err}
	}
	return e, nil
}

func (r *Repository) sameAsStored(ctx context.Context, e model.Entity) bool {
	stored, ok, err := r.Get(ctx, e.ModelName(), e.Meta().ID)
	if err != nil || !ok {
		return false
	}
	fields := tables[e.ModelName()].fields
	return reflect.DeepEqual(values(fields(stored)), values(fields(e)))
}

// Update rewrites the row carrying e's id and stamps updated_at.
func (r *Repository) Update(ctx context.Context, e model.Entity) (model.Entity, bool, error) {
	if r.closed.Load() {
		return nil, false, repository.ErrClosed
	}
	if e == nil {
		return nil, false, repository.ErrNilEntity
	}
	name := e.ModelName()
	t, ok := r.lookup(name)
	if !ok {
		return nil, false, nil
	}

	updatedAt := r.now().UTC()
	sets := make([]string, 0, len(t.columns)+1)
	sets = append(sets, "updated_at = $1")
	for i, c := range t.columns {
		sets = append(sets, fmt.Sprintf("%s = $%d", c, i+2))
	}
	q := fmt.Sprintf(`UPDATE %s SET %s WHERE id = $%d`, t.name, strings.Join(sets, ", "), len(t.columns)+2)
	args := append([]any{updatedAt}, values(t.fields(e))...)
	args = append(args, e.Meta().ID)

	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		if unique, _ := uniqueViolation(err); unique {
			err = fmt.Errorf("%w: %v", repository.ErrUniqueViolation, err)
		}
		return nil, false, &repository.Error{Op: "update", Model: name, ID: e.Meta().ID, Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, false, &repository.Error{Op: "update", Model: name, ID: e.Meta().ID, Err: err}
	}
	if n == 0 {
		return nil, false, nil
	}
	e.Meta().Touch(updatedAt)
	return e, true, nil
}

// Delete removes the row carrying e's id.
func (r *Repository) Delete(ctx context.Context, e model.Entity) (bool, error) {
	if r.closed.Load() {
		return false, repository.ErrClosed
	}
	if e == nil {
		return false, repository.ErrNilEntity
	}
	name := e.ModelName()
	t, ok := r.lookup(name)
	if !ok {
		return false, nil
	}

	q := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, t.name)
	res, err := r.db.ExecContext(ctx, q, e.Meta().ID)
	if err != nil {
		return false, &repository.Error{Op: "delete", Model: name, ID: e.Meta().ID, Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, &repository.Error{Op: "delete", Model: name, ID: e.Meta().ID, Err: err}
	}
	return n > 0, nil
}

// Reload is a no-op: the database is the source of truth and nothing is cached.
func (r *Repository) Reload(context.Context) error {
	if r.closed.Load() {
		return repository.ErrClosed
	}
	return nil
}

// Close releases the pool. Later calls, Close included, return ErrClosed.
func (r *Repository) Close() error {
	if !r.closed.CompareAndSwap(false, true) {
		return repository.ErrClosed
	}
	r.logger.Debug("closing database pool")
	return r.db.Close()
}
