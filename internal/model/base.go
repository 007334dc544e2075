package model

import (
	"time"

	"github.com/google/uuid"
)

// Base carries the identity and timestamps shared by every entity.
// It holds no persistence concerns; backends decide how to store it.
type Base struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Entity is implemented by every domain type stored through a repository.
type Entity interface {
	// ModelName is the lowercase collection key of the entity's type.
	ModelName() Name
	// Meta exposes the embedded Base so backends can read the id and stamp timestamps.
	Meta() *Base
}

// NewBase builds a Base, honoring a supplied id and timestamps verbatim.
// An empty id gets a fresh random UUID; zero timestamps default to now.
func NewBase(id string, createdAt, updatedAt time.Time) Base {
	now := time.Now().UTC()
	if id == "" {
		id = uuid.NewString()
	}
	if createdAt.IsZero() {
		createdAt = now
	}
	if updatedAt.IsZero() {
		updatedAt = now
	}
	return Base{ID: id, CreatedAt: createdAt.UTC(), UpdatedAt: updatedAt.UTC()}
}

// Meta returns the receiver. Promoted to every type that embeds Base.
func (b *Base) Meta() *Base { return b }

// Touch refreshes UpdatedAt.
func (b *Base) Touch(now time.Time) {
	b.UpdatedAt = now.UTC()
}
