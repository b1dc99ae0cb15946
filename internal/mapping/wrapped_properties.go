package mapping

import "github.com/rpattn/restql/internal/domain"

// SchemaSource resolves nested schemas during unwrap discovery.
type SchemaSource interface {
	Get(name string) (domain.EntitySchema, bool)
}

// WrappedProperties maps external field names to the ordered chain of
// persistent properties an unwrapped (flattened) sub-object contributes to
// its parent's serialized form. Two kinds of entries exist:
//
//   - the unwrapped field's own external name maps to the one-element chain
//     of the wrapper property, so prefixed forms like
//     "userProfile_displayName" resolve segment by segment, and
//   - each serialized field of the nested schema maps to the full chain from
//     the wrapper down to it, covering prefixless inlining.
//
// Discovery recurses through nested unwrapped fields and guards against
// schema cycles.
type WrappedProperties struct {
	fieldToChain map[string][]domain.FieldDefinition
}

// NewWrappedProperties builds the unwrap mapping for one schema, consulting
// schemas for nested types.
func NewWrappedProperties(schemas SchemaSource, schema domain.EntitySchema) WrappedProperties {
	wrapped := WrappedProperties{fieldToChain: make(map[string][]domain.FieldDefinition)}
	wrapped.discover(schemas, schema, nil, map[string]bool{schema.Name: true})
	return wrapped
}

func (w WrappedProperties) discover(schemas SchemaSource, schema domain.EntitySchema, prefix []domain.FieldDefinition, seen map[string]bool) {
	for _, field := range schema.Fields {
		if !field.Unwrapped || !field.IsSerialized() {
			continue
		}

		chain := appendChain(prefix, field)
		w.fieldToChain[field.ExternalName()] = chain

		nested, ok := schemas.Get(field.EntityType)
		if !ok || seen[nested.Name] {
			continue
		}

		for _, nestedField := range nested.Fields {
			if nestedField.Unwrapped || !nestedField.IsSerialized() {
				continue
			}
			w.fieldToChain[nestedField.ExternalName()] = appendChain(chain, nestedField)
		}

		seen[nested.Name] = true
		w.discover(schemas, nested, chain, seen)
		delete(seen, nested.Name)
	}
}

// HasPersistentPropertiesForField reports whether the external field name
// resolves through an unwrap chain.
func (w WrappedProperties) HasPersistentPropertiesForField(fieldName string) bool {
	_, ok := w.fieldToChain[fieldName]
	return ok
}

// PersistentProperties returns the ordered property chain for the given
// external field name. The returned slice is a copy.
func (w WrappedProperties) PersistentProperties(fieldName string) []domain.FieldDefinition {
	chain, ok := w.fieldToChain[fieldName]
	if !ok {
		return nil
	}
	return appendChain(chain)
}

func appendChain(chain []domain.FieldDefinition, fields ...domain.FieldDefinition) []domain.FieldDefinition {
	merged := make([]domain.FieldDefinition, 0, len(chain)+len(fields))
	merged = append(merged, chain...)
	return append(merged, fields...)
}
