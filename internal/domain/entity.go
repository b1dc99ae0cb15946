package domain

import (
	"time"

	"github.com/google/uuid"
)

// Entity represents a dynamic entity instance described by an EntitySchema.
// Properties hold the persistent property document keyed by internal names;
// embedded sub-objects nest as maps under their field name.
type Entity struct {
	ID         uuid.UUID      `json:"id"`
	EntityType string         `json:"entity_type"`
	Properties map[string]any `json:"properties"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// NewEntity creates a new entity with immutable pattern
func NewEntity(entityType string, properties map[string]any) Entity {
	now := time.Now()
	return Entity{
		ID:         uuid.New(),
		EntityType: entityType,
		Properties: copyProperties(properties), // Deep copy to ensure immutability
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// WithProperty returns a new entity with an added/updated property
func (e Entity) WithProperty(key string, value any) Entity {
	newProperties := copyProperties(e.Properties)
	newProperties[key] = value

	updated := e
	updated.Properties = newProperties
	updated.UpdatedAt = time.Now()
	return updated
}

// WithoutProperty returns a new entity without the specified property
func (e Entity) WithoutProperty(key string) Entity {
	newProperties := copyProperties(e.Properties)
	delete(newProperties, key)

	updated := e
	updated.Properties = newProperties
	updated.UpdatedAt = time.Now()
	return updated
}

func copyProperties(properties map[string]any) map[string]any {
	newProperties := make(map[string]any, len(properties))
	for key, value := range properties {
		newProperties[key] = value
	}
	return newProperties
}
