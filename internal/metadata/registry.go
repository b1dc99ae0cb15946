// Package metadata holds the process-wide registry of entity schemas and the
// request-level resolution of "which entity type is this request about".
package metadata

import (
	"fmt"
	"sync"

	"github.com/rpattn/restql/internal/domain"
)

// Registry is the in-memory schema catalog. It is populated once at startup
// from the schema repository and treated as read-only afterwards, so lookups
// are safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	schemas map[string]domain.EntitySchema
}

// NewRegistry creates an empty schema registry.
func NewRegistry() *Registry {
	return &Registry{schemas: make(map[string]domain.EntitySchema)}
}

// Register adds a schema to the registry. Registering the same schema name
// twice is an error.
func (r *Registry) Register(schema domain.EntitySchema) error {
	if schema.Name == "" {
		return fmt.Errorf("schema name must not be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.schemas[schema.Name]; exists {
		return fmt.Errorf("schema %q is already registered", schema.Name)
	}
	r.schemas[schema.Name] = schema
	return nil
}

// Get returns the schema registered under the given entity type name.
func (r *Registry) Get(name string) (domain.EntitySchema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	schema, ok := r.schemas[name]
	return schema, ok
}

// Names returns the registered entity type names in unspecified order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.schemas))
	for name := range r.schemas {
		names = append(names, name)
	}
	return names
}

// Validate checks cross-schema consistency: object and relationship fields
// must reference registered schemas (relationship targets may be absent, the
// reference is then opaque), and unwrapped object chains must not cycle.
func (r *Registry) Validate() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for name, schema := range r.schemas {
		for _, field := range schema.Fields {
			if field.Type == domain.FieldTypeObject {
				if field.EntityType == "" {
					return fmt.Errorf("schema %q: object field %q has no entity type", name, field.Name)
				}
				if _, ok := r.schemas[field.EntityType]; !ok {
					return fmt.Errorf("schema %q: object field %q references unknown schema %q", name, field.Name, field.EntityType)
				}
			}
		}
		if err := r.checkUnwrapCycle(schema, map[string]bool{name: true}); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) checkUnwrapCycle(schema domain.EntitySchema, seen map[string]bool) error {
	for _, field := range schema.Fields {
		if !field.Unwrapped || field.Type != domain.FieldTypeObject {
			continue
		}
		nested, ok := r.schemas[field.EntityType]
		if !ok {
			continue
		}
		if seen[nested.Name] {
			return fmt.Errorf("schema %q: unwrapped field %q cycles back to %q", schema.Name, field.Name, nested.Name)
		}
		seen[nested.Name] = true
		if err := r.checkUnwrapCycle(nested, seen); err != nil {
			return err
		}
		delete(seen, nested.Name)
	}
	return nil
}
