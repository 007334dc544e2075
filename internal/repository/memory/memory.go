// Package memory is the non-durable repository backend. It keeps every
// collection in process and is the reference behavior for the other backends.
//
// The backend holds no locks; callers serialize access.
package memory

import (
	"context"
	"time"

	"go.uber.org/zap"

	"hbnb/internal/model"
	"hbnb/internal/repository"
)

// Repository stores entities in per-model slices.
type Repository struct {
	data   map[model.Name][]model.Entity
	names  []model.Name
	seed   repository.Seeder
	now    func() time.Time
	logger *zap.Logger
	closed bool
}

var _ repository.Repository = (*Repository)(nil)

// Option configures a Repository.
type Option func(*Repository)

// WithSeed sets the seed run by Reload.
func WithSeed(s repository.Seeder) Option {
	return func(r *Repository) { r.seed = s }
}

// WithClock overrides the clock used to stamp UpdatedAt.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) { r.now = now }
}

// WithRegistry sets which model collections exist.
func WithRegistry(reg *model.Registry) Option {
	return func(r *Repository) { r.names = reg.Names() }
}

func WithLogger(l *zap.Logger) Option {
	return func(r *Repository) {
		if l != nil {
			r.logger = l
		}
	}
}

// New builds an empty repository. It does not seed; call Reload for that.
func New(opts ...Option) *Repository {
	r := &Repository{
		names:  model.Names(),
		now:    time.Now,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.Reset()
	return r
}

// Open builds a repository and runs Reload, seeding it if a seed is configured.
func Open(ctx context.Context, opts ...Option) (*Repository, error) {
	r := New(opts...)
	if err := r.Reload(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

// GetAll returns a copy of the model's collection.
func (r *Repository) GetAll(_ context.Context, name model.Name) ([]model.Entity, error) {
	if r.closed {
		return nil, repository.ErrClosed
	}
	coll := r.data[name]
	out := make([]model.Entity, len(coll))
	copy(out, coll)
	return out, nil
}

func (r *Repository) Get(_ context.Context, name model.Name, id string) (model.Entity, bool, error) {
	if r.closed {
		return nil, false, repository.ErrClosed
	}
	for _, e := range r.data[name] {
		if e.Meta().ID == id {
			return e, true, nil
		}
	}
	return nil, false, nil
}

// Save appends e unless the same entity is already stored. A different
// entity with an id already present is rejected with ErrDuplicateID.
func (r *Repository) Save(_ context.Context, e model.Entity) (model.Entity, error) {
	if r.closed {
		return nil, repository.ErrClosed
	}
	if e == nil {
		return nil, repository.ErrNilEntity
	}
	name := e.ModelName()
	coll, ok := r.data[name]
	if !ok {
		return nil, &repository.Error{Op: "save", Model: name, Err: repository.ErrUnknownModel}
	}
	for _, stored := range coll {
		if stored == e {
			return e, nil
		}
		if stored.Meta().ID == e.Meta().ID {
			return nil, &repository.Error{Op: "save", Model: name, ID: e.Meta().ID, Err: repository.ErrDuplicateID}
		}
	}
	r.data[name] = append(coll, e)
	return e, nil
}

// Update replaces the entity carrying e's id and stamps UpdatedAt.
func (r *Repository) Update(_ context.Context, e model.Entity) (model.Entity, bool, error) {
	if r.closed {
		return nil, false, repository.ErrClosed
	}
	if e == nil {
		return nil, false, repository.ErrNilEntity
	}
	coll := r.data[e.ModelName()]
	for i, stored := range coll {
		if stored.Meta().ID == e.Meta().ID {
			e.Meta().Touch(r.now())
			coll[i] = e
			return e, true, nil
		}
	}
	return nil, false, nil
}

// Delete removes e, matched by identity.
func (r *Repository) Delete(_ context.Context, e model.Entity) (bool, error) {
	if r.closed {
		return false, repository.ErrClosed
	}
	if e == nil {
		return false, repository.ErrNilEntity
	}
	name := e.ModelName()
	coll := r.data[name]
	for i, stored := range coll {
		if stored == e {
			r.data[name] = append(coll[:i:i], coll[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// Reload empties every collection and runs the configured seed.
func (r *Repository) Reload(ctx context.Context) error {
	if r.closed {
		return repository.ErrClosed
	}
	r.Reset()
	if r.seed == nil {
		return nil
	}
	if err := r.seed(ctx, r); err != nil {
		return &repository.Error{Op: "seed", Err: err}
	}
	r.logger.Debug("memory repository seeded")
	return nil
}

// Close drops the collections. Every later call returns ErrClosed.
func (r *Repository) Close() error {
	if r.closed {
		return repository.ErrClosed
	}
	r.closed = true
	r.data = nil
	return nil
}

// Reset empties every collection without seeding.
func (r *Repository) Reset() {
	r.data = make(map[model.Name][]model.Entity, len(r.names))
	for _, n := range r.names {
		r.data[n] = []model.Entity{}
	}
}

// Restore inserts an entity without any side effect beyond the id check.
// It is the boot path for backends that rehydrate from durable state.
func (r *Repository) Restore(e model.Entity) error {
	_, err := r.Save(context.Background(), e)
	return err
}

// Snapshot returns a copy of every collection, including empty ones.
func (r *Repository) Snapshot() map[model.Name][]model.Entity {
	out := make(map[model.Name][]model.Entity, len(r.data))
	for name, coll := range r.data {
		cp := make([]model.Entity, len(coll))
		copy(cp, coll)
		out[name] = cp
	}
	return out
}
