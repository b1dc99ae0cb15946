// Package mapping derives lookup tables from an entity schema's
// serialization configuration: which external (serialized) field name
// corresponds to which persistent property. The tables are built fresh from
// the schema on every construction so they always reflect the live
// configuration.
package mapping

import "github.com/rpattn/restql/internal/domain"

// MappedProperties maps external field names to the single persistent
// property they serialize. Unwrapped fields are excluded: their own name
// never appears in serialized output that way, they are covered by
// WrappedProperties instead. Fields marked as unserialized ("-") are
// excluded as well.
type MappedProperties struct {
	fieldToProperty map[string]domain.FieldDefinition
}

// NewMappedProperties builds the flat external-to-internal mapping for one
// schema.
func NewMappedProperties(schema domain.EntitySchema) MappedProperties {
	fieldToProperty := make(map[string]domain.FieldDefinition, len(schema.Fields))
	for _, field := range schema.Fields {
		if field.Unwrapped || !field.IsSerialized() {
			continue
		}
		fieldToProperty[field.ExternalName()] = field
	}
	return MappedProperties{fieldToProperty: fieldToProperty}
}

// HasPersistentPropertyForField reports whether the external field name maps
// to a persistent property.
func (m MappedProperties) HasPersistentPropertyForField(fieldName string) bool {
	_, ok := m.fieldToProperty[fieldName]
	return ok
}

// PersistentProperty returns the persistent property serialized under the
// given external field name.
func (m MappedProperties) PersistentProperty(fieldName string) (domain.FieldDefinition, bool) {
	field, ok := m.fieldToProperty[fieldName]
	return field, ok
}
