// Package repository defines the storage contract shared by every backend.
// Implementations live in subpackages (memory, file, postgres) and are chosen
// once at startup by the selector subpackage.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hbnb/internal/model"
)

var (
	// ErrDuplicateID is returned by Save when a different entity with the same id is already stored.
	ErrDuplicateID = errors.New("entity with this id already exists")
	// ErrUnknownModel is returned by Save when the entity's model has no collection.
	ErrUnknownModel = errors.New("unknown model")
	// ErrNilEntity is returned when a nil entity is passed to a mutating call.
	ErrNilEntity = errors.New("entity is nil")
	// ErrUniqueViolation is returned when a write clashes with a uniqueness rule other than the id.
	ErrUniqueViolation = errors.New("unique constraint violated")
	// ErrClosed is returned by calls made after Close.
	ErrClosed = errors.New("repository is closed")
)

// Repository is the storage contract. "Not found" is never an error:
// Get and Update report absence through their bool result, GetAll through an empty slice.
type Repository interface {
	// GetAll returns every stored entity of a model. Unknown names yield an empty slice.
	GetAll(ctx context.Context, name model.Name) ([]model.Entity, error)

	// Get looks an entity up by id within its model's collection.
	Get(ctx context.Context, name model.Name, id string) (model.Entity, bool, error)

	// Save inserts a new entity. Saving the same entity value twice is a no-op.
	Save(ctx context.Context, e model.Entity) (model.Entity, error)

	// Update replaces the stored entity carrying e's id with e and refreshes UpdatedAt.
	Update(ctx context.Context, e model.Entity) (model.Entity, bool, error)

	// Delete removes e and reports whether anything was removed.
	Delete(ctx context.Context, e model.Entity) (bool, error)

	// Reload re-derives in-memory state from the backend's source of truth.
	Reload(ctx context.Context) error

	// Close releases the backend's resources.
	Close() error
}

// Error adds operation context to a backend failure.
type Error struct {
	Op    string
	Model model.Name
	ID    string
	Err   error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	if e.Model != "" {
		b.WriteString(" ")
		b.WriteString(string(e.Model))
	}
	if e.ID != "" {
		fmt.Fprintf(&b, " %s", e.ID)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Kind names a backend.
type Kind string

const (
	KindDatabase Kind = "db"
	KindFile     Kind = "file"
	KindMemory   Kind = "memory"
)

// ParseKind maps a configuration value to a backend. Anything unrecognized selects memory.
func ParseKind(s string) Kind {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindDatabase:
		return KindDatabase
	case KindFile:
		return KindFile
	default:
		return KindMemory
	}
}
