package domain

import (
	"time"

	"github.com/google/uuid"
)

// FieldType represents the type of a field in an entity schema
type FieldType string

const (
	FieldTypeString    FieldType = "string"
	FieldTypeInteger   FieldType = "integer"
	FieldTypeFloat     FieldType = "float"
	FieldTypeBoolean   FieldType = "boolean"
	FieldTypeTimestamp FieldType = "timestamp"
	FieldTypeJSON      FieldType = "json"
	// FieldTypeObject marks an embedded modeled sub-object. The field's
	// EntityType names the schema describing it; the sub-object is stored
	// inline with its parent and may be traversed by sort paths.
	FieldTypeObject FieldType = "object"
	// The relationship types below reference other entities rather than
	// embedding them. Sort paths never traverse relationship fields.
	FieldTypeEntityReference      FieldType = "ENTITY_REFERENCE"
	FieldTypeEntityReferenceArray FieldType = "ENTITY_REFERENCE_ARRAY"
	FieldTypeEntityID             FieldType = "ENTITY_ID"
)

// FieldDefinition represents a field definition in a schema
type FieldDefinition struct {
	// Name is the internal persistent property name, the one used by the
	// storage layer and by canonical sort paths.
	Name string `json:"name"`
	// JSONName is the name the field carries in serialized representations.
	// Empty means the internal name is used verbatim; "-" means the field is
	// never serialized and cannot be addressed by clients.
	JSONName string    `json:"jsonName,omitempty"`
	Type     FieldType `json:"type"`
	// EntityType names the related or embedded schema for object and
	// relationship fields.
	EntityType string `json:"entityType,omitempty"`
	// Unwrapped flattens an object field's sub-fields into the parent's
	// serialized form instead of nesting them under the field name.
	Unwrapped   bool   `json:"unwrapped,omitempty"`
	Required    bool   `json:"required,omitempty"`
	Description string `json:"description,omitempty"`
}

// ExternalName returns the name the field carries in serialized output.
func (f FieldDefinition) ExternalName() string {
	if f.JSONName != "" {
		return f.JSONName
	}
	return f.Name
}

// IsSerialized reports whether the field appears in serialized output at all.
func (f FieldDefinition) IsSerialized() bool {
	return f.JSONName != "-"
}

// IsAssociation reports whether the field is a relationship to another
// entity. Associations are ineligible for sort-path traversal.
func (f FieldDefinition) IsAssociation() bool {
	switch f.Type {
	case FieldTypeEntityReference, FieldTypeEntityReferenceArray, FieldTypeEntityID:
		return true
	}
	return false
}

// EntitySchema represents a schema definition for entity types
type EntitySchema struct {
	ID          uuid.UUID         `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Fields      []FieldDefinition `json:"fields"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// NewEntitySchema creates a new entity schema with immutable pattern
func NewEntitySchema(name, description string, fields []FieldDefinition) EntitySchema {
	now := time.Now()
	return EntitySchema{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		Fields:      copyFields(fields), // Deep copy to ensure immutability
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Field returns the declared field with the given internal name.
func (es EntitySchema) Field(name string) (FieldDefinition, bool) {
	for _, field := range es.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return FieldDefinition{}, false
}

// WithField returns a new schema with an added/updated field
func (es EntitySchema) WithField(field FieldDefinition) EntitySchema {
	newFields := copyFields(es.Fields)

	found := false
	for i, existingField := range newFields {
		if existingField.Name == field.Name {
			newFields[i] = field
			found = true
			break
		}
	}
	if !found {
		newFields = append(newFields, field)
	}

	updated := es
	updated.Fields = newFields
	updated.UpdatedAt = time.Now()
	return updated
}

// WithoutField returns a new schema without the specified field
func (es EntitySchema) WithoutField(name string) EntitySchema {
	newFields := make([]FieldDefinition, 0, len(es.Fields))
	for _, field := range es.Fields {
		if field.Name != name {
			newFields = append(newFields, field)
		}
	}

	updated := es
	updated.Fields = newFields
	updated.UpdatedAt = time.Now()
	return updated
}

func copyFields(fields []FieldDefinition) []FieldDefinition {
	if fields == nil {
		return nil
	}
	newFields := make([]FieldDefinition, len(fields))
	copy(newFields, fields)
	return newFields
}
