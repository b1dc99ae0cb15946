package repository

import (
	"context"
	"errors"

	"github.com/rpattn/restql/internal/domain"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// EntitySchemaRepository defines the interface for entity schema operations
type EntitySchemaRepository interface {
	Create(ctx context.Context, schema domain.EntitySchema) (domain.EntitySchema, error)
	GetByName(ctx context.Context, name string) (domain.EntitySchema, error)
	List(ctx context.Context) ([]domain.EntitySchema, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// EntityRepository defines the interface for entity operations
type EntityRepository interface {
	Create(ctx context.Context, entity domain.Entity) (domain.Entity, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Entity, error)
	// List returns a page of entities plus the total match count. The sort
	// carries canonical internal property paths; nil means no ordering
	// beyond the stable default.
	List(ctx context.Context, filter *domain.EntityFilter, sort *domain.Sort, limit int, offset int) ([]domain.Entity, int, error)
	Update(ctx context.Context, entity domain.Entity) (domain.Entity, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
