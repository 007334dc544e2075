// Package file is the JSON-document repository backend. It keeps the memory
// backend's semantics and persists the full set of collections to a single
// document after every mutation.
//
// The document maps each model name to the list of its entities' dict forms:
//
//	{"city": [{"id": "...", "name": "Sample", "created_at": "...", ...}], "user": [], ...}
package file

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"hbnb/internal/model"
	"hbnb/internal/repository"
	"hbnb/internal/repository/memory"
	"hbnb/internal/storage"
)

const archivePrefix = "snapshots/"

// Repository is the file-backed backend. It holds no locks; callers serialize access.
type Repository struct {
	path     string
	mem      *memory.Repository
	registry *model.Registry
	seed     repository.Seeder
	archive  storage.Archiver
	now      func() time.Time
	logger   *zap.Logger
	closed   bool

	// digest of the last document read or written, used to ignore our own writes.
	digest [sha256.Size]byte
}

var _ repository.Repository = (*Repository)(nil)

type Option func(*Repository)

func WithRegistry(reg *model.Registry) Option {
	return func(r *Repository) { r.registry = reg }
}

// WithSeed sets a seed that runs when the document does not exist yet.
func WithSeed(s repository.Seeder) Option {
	return func(r *Repository) { r.seed = s }
}

// WithArchive uploads a copy of every written document to object storage.
func WithArchive(a storage.Archiver) Option {
	return func(r *Repository) { r.archive = a }
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

// New opens the document at path and loads it. A missing or malformed
// document yields an empty store; it is never an error.
func New(ctx context.Context, path string, opts ...Option) (*Repository, error) {
	if path == "" {
		return nil, errors.New("file repository: path is required")
	}
	r := &Repository{
		path:     filepath.Clean(path),
		registry: model.DefaultRegistry(),
		now:      time.Now,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With(zap.String("component", "file_repository"), zap.String("path", r.path))
	r.mem = memory.New(
		memory.WithRegistry(r.registry),
		memory.WithClock(r.now),
		memory.WithLogger(r.logger),
	)

	if err := r.Reload(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

// Path returns the location of the durable document.
func (r *Repository) Path() string { return r.path }

func (r *Repository) GetAll(ctx context.Context, name model.Name) ([]model.Entity, error) {
	return r.mem.GetAll(ctx, name)
}

func (r *Repository) Get(ctx context.Context, name model.Name, id string) (model.Entity, bool, error) {
	return r.mem.Get(ctx, name, id)
}

// Save stores e and rewrites the document. If the write fails the entity
// stays in memory and is returned together with the error.
func (r *Repository) Save(ctx context.Context, e model.Entity) (model.Entity, error) {
	out, err := r.mem.Save(ctx, e)
	if err != nil {
		return nil, err
	}
	if err := r.flush(ctx); err != nil {
		return out, r.flushError(e, err)
	}
	return out, nil
}

func (r *Repository) Update(ctx context.Context, e model.Entity) (model.Entity, bool, error) {
	out, ok, err := r.mem.Update(ctx, e)
	if err != nil || !ok {
		return out, ok, err
	}
	if err := r.flush(ctx); err != nil {
		return out, true, r.flushError(e, err)
	}
	return out, true, nil
}

// Delete removes the stored entity with e's model and id.
func (r *Repository) Delete(ctx context.Context, e model.Entity) (bool, error) {
	if e == nil {
		return false, repository.ErrNilEntity
	}
	stored, ok, err := r.mem.Get(ctx, e.ModelName(), e.Meta().ID)
	if err != nil || !ok {
		return false, err
	}
	removed, err := r.mem.Delete(ctx, stored)
	if err != nil || !removed {
		return removed, err
	}
	if err := r.flush(ctx); err != nil {
		return true, r.flushError(e, err)
	}
	return true, nil
}

// Reload rebuilds the collections from the document.
func (r *Repository) Reload(ctx context.Context) error {
	if r.closed {
		return repository.ErrClosed
	}
	raw, err := os.ReadFile(r.path)
	return r.load(ctx, raw, err)
}

// Close drops the in-memory collections. The document is left as last written.
func (r *Repository) Close() error {
	if r.closed {
		return repository.ErrClosed
	}
	r.closed = true
	return r.mem.Close()
}

type document map[string][]json.RawMessage

func decodeDocument(raw []byte) (document, error) {
	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (r *Repository) load(ctx context.Context, raw []byte, readErr error) error {
	missing := false
	var doc document

	switch {
	case errors.Is(readErr, fs.ErrNotExist):
		missing = true
		r.logger.Info("document not found, starting with an empty store")
	case readErr != nil:
		r.logger.Warn("document unreadable, starting with an empty store", zap.Error(readErr))
	default:
		r.digest = sha256.Sum256(raw)
		var err error
		if doc, err = decodeDocument(raw); err != nil {
			r.logger.Warn("document malformed, starting with an empty store", zap.Error(err))
		}
	}

	r.restore(doc)

	if missing && r.seed != nil {
		if err := r.seed(ctx, r.mem); err != nil {
			return &repository.Error{Op: "seed", Err: err}
		}
		if err := r.flush(ctx); err != nil {
			r.logger.Error("failed to write seeded document", zap.Error(err))
		}
	}
	return nil
}

// restore replaces the collections with the records of doc. Records
// without an id, of an unknown model or with undeclared fields are skipped.
func (r *Repository) restore(doc document) {
	r.mem.Reset()
	restored, skipped := 0, 0
	for key, items := range doc {
		name := model.Name(key)
		if !r.registry.Has(name) {
			r.logger.Warn("skipping unknown model", zap.String("model", key), zap.Int("records", len(items)))
			skipped += len(items)
			continue
		}
		for i, item := range items {
			e, err := r.registry.DecodeStored(name, item)
			if err == nil {
				err = r.mem.Restore(e)
			}
			if err != nil {
				r.logger.Warn("skipping record",
					zap.String("model", key),
					zap.Int("index", i),
					zap.Error(err),
				)
				skipped++
				continue
			}
			restored++
		}
	}

	r.logger.Info("document loaded", zap.Int("restored", restored), zap.Int("skipped", skipped))
}

// flush writes the whole store, never a delta.
func (r *Repository) flush(ctx context.Context) error {
	data, err := r.encode()
	if err != nil {
		return err
	}
	if err := writeFileAtomic(r.path, data); err != nil {
		return err
	}
	r.digest = sha256.Sum256(data)
	r.archiveSnapshot(ctx, data)
	return nil
}

func (r *Repository) encode() ([]byte, error) {
	snap := r.mem.Snapshot()
	doc := make(map[model.Name][]model.Entity, len(snap))
	for _, name := range r.registry.Names() {
		doc[name] = snap[name]
	}
	return json.Marshal(doc)
}

func (r *Repository) archiveSnapshot(ctx context.Context, data []byte) {
	if r.archive == nil {
		return
	}
	key := archivePrefix + r.now().UTC().Format("20060102T150405.000000000Z") + ".json"
	_, err := r.archive.Put(ctx, key, bytes.NewReader(data), storage.PutObjectOptions{
		Size:        int64(len(data)),
		ContentType: "application/json",
	})
	if err != nil {
		r.logger.Warn("snapshot archive failed", zap.String("key", key), zap.Error(err))
		return
	}
	r.logger.Debug("snapshot archived", zap.String("key", key), zap.Int("bytes", len(data)))
}

func (r *Repository) flushError(e model.Entity, err error) error {
	r.logger.Error("failed to write document, keeping in-memory change",
		zap.String("model", string(e.ModelName())),
		zap.String("id", e.Meta().ID),
		zap.Error(err),
	)
	return &repository.Error{Op: "flush", Model: e.ModelName(), ID: e.Meta().ID, Err: err}
}

// writeFileAtomic writes data to a temp file next to path and renames it
// over path, so readers see either the old or the new document.
func writeFileAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
