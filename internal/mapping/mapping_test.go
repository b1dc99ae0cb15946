package mapping

import (
	"testing"

	"github.com/rpattn/restql/internal/domain"
)

type schemaMap map[string]domain.EntitySchema

func (m schemaMap) Get(name string) (domain.EntitySchema, bool) {
	schema, ok := m[name]
	return schema, ok
}

func userSchema() domain.EntitySchema {
	return domain.NewEntitySchema("User", "", []domain.FieldDefinition{
		{Name: "fullName", JSONName: "name", Type: domain.FieldTypeString},
		{Name: "age", Type: domain.FieldTypeInteger},
		{Name: "secret", JSONName: "-", Type: domain.FieldTypeString},
		{Name: "profile", JSONName: "userProfile", Type: domain.FieldTypeObject, EntityType: "Profile", Unwrapped: true},
		{Name: "owner", Type: domain.FieldTypeEntityReference, EntityType: "User"},
	})
}

func profileSchema() domain.EntitySchema {
	return domain.NewEntitySchema("Profile", "", []domain.FieldDefinition{
		{Name: "fullName", JSONName: "displayName", Type: domain.FieldTypeString},
		{Name: "nick", Type: domain.FieldTypeString},
	})
}

func TestMappedPropertiesRenames(t *testing.T) {
	mapped := NewMappedProperties(userSchema())

	property, ok := mapped.PersistentProperty("name")
	if !ok {
		t.Fatalf("expected external name to resolve")
	}
	if property.Name != "fullName" {
		t.Errorf("expected internal name fullName, got %q", property.Name)
	}

	// Internal name is not addressable once renamed.
	if mapped.HasPersistentPropertyForField("fullName") {
		t.Errorf("expected renamed internal name to be unmapped")
	}

	// Unrenamed fields map under their own name.
	if !mapped.HasPersistentPropertyForField("age") {
		t.Errorf("expected age to be mapped")
	}
}

func TestMappedPropertiesExcludesUnwrappedAndUnserialized(t *testing.T) {
	mapped := NewMappedProperties(userSchema())

	if mapped.HasPersistentPropertyForField("userProfile") {
		t.Errorf("expected unwrapped field to be absent from flat mapping")
	}
	if mapped.HasPersistentPropertyForField("secret") {
		t.Errorf("expected unserialized field to be absent from flat mapping")
	}
}

func TestMappedPropertiesIncludesAssociations(t *testing.T) {
	// Associations are mapped; rejecting them is the walker's concern.
	mapped := NewMappedProperties(userSchema())

	property, ok := mapped.PersistentProperty("owner")
	if !ok {
		t.Fatalf("expected association to be mapped")
	}
	if !property.IsAssociation() {
		t.Errorf("expected owner to be an association")
	}
}

func TestWrappedPropertiesWrapperEntry(t *testing.T) {
	schemas := schemaMap{"User": userSchema(), "Profile": profileSchema()}
	wrapped := NewWrappedProperties(schemas, schemas["User"])

	chain := wrapped.PersistentProperties("userProfile")
	if len(chain) != 1 {
		t.Fatalf("expected 1-element chain for wrapper, got %d", len(chain))
	}
	if chain[0].Name != "profile" {
		t.Errorf("expected chain [profile], got %q", chain[0].Name)
	}
}

func TestWrappedPropertiesInlinesNestedFields(t *testing.T) {
	schemas := schemaMap{"User": userSchema(), "Profile": profileSchema()}
	wrapped := NewWrappedProperties(schemas, schemas["User"])

	chain := wrapped.PersistentProperties("displayName")
	if len(chain) != 2 {
		t.Fatalf("expected 2-element chain, got %d", len(chain))
	}
	if chain[0].Name != "profile" || chain[1].Name != "fullName" {
		t.Errorf("expected chain [profile fullName], got [%s %s]", chain[0].Name, chain[1].Name)
	}

	if !wrapped.HasPersistentPropertiesForField("nick") {
		t.Errorf("expected unrenamed nested field to be inlined")
	}
}

func TestWrappedPropertiesNestedUnwrapChain(t *testing.T) {
	inner := domain.NewEntitySchema("Inner", "", []domain.FieldDefinition{
		{Name: "value", Type: domain.FieldTypeString},
	})
	middle := domain.NewEntitySchema("Middle", "", []domain.FieldDefinition{
		{Name: "inner", Type: domain.FieldTypeObject, EntityType: "Inner", Unwrapped: true},
	})
	outer := domain.NewEntitySchema("Outer", "", []domain.FieldDefinition{
		{Name: "middle", Type: domain.FieldTypeObject, EntityType: "Middle", Unwrapped: true},
	})
	schemas := schemaMap{"Inner": inner, "Middle": middle, "Outer": outer}

	wrapped := NewWrappedProperties(schemas, outer)

	chain := wrapped.PersistentProperties("value")
	if len(chain) != 3 {
		t.Fatalf("expected 3-element chain, got %d", len(chain))
	}
	if chain[0].Name != "middle" || chain[1].Name != "inner" || chain[2].Name != "value" {
		t.Errorf("unexpected chain: %v", chainNames(chain))
	}
}

func TestWrappedPropertiesCycleGuard(t *testing.T) {
	node := domain.NewEntitySchema("Node", "", []domain.FieldDefinition{
		{Name: "label", Type: domain.FieldTypeString},
		{Name: "child", Type: domain.FieldTypeObject, EntityType: "Node", Unwrapped: true},
	})
	schemas := schemaMap{"Node": node}

	// Must terminate despite the self-reference.
	wrapped := NewWrappedProperties(schemas, node)

	if !wrapped.HasPersistentPropertiesForField("child") {
		t.Errorf("expected wrapper entry for cyclic unwrap")
	}
}

func TestWrappedPropertiesUnknownNestedType(t *testing.T) {
	schemas := schemaMap{"User": userSchema()} // Profile deliberately missing
	wrapped := NewWrappedProperties(schemas, schemas["User"])

	if !wrapped.HasPersistentPropertiesForField("userProfile") {
		t.Errorf("expected wrapper entry even without nested schema")
	}
	if wrapped.HasPersistentPropertiesForField("displayName") {
		t.Errorf("expected no inlined entries without nested schema")
	}
}

func TestWrappedPropertiesReturnsCopy(t *testing.T) {
	schemas := schemaMap{"User": userSchema(), "Profile": profileSchema()}
	wrapped := NewWrappedProperties(schemas, schemas["User"])

	chain := wrapped.PersistentProperties("displayName")
	chain[0].Name = "mutated"

	again := wrapped.PersistentProperties("displayName")
	if again[0].Name != "profile" {
		t.Errorf("expected stored chain to be unaffected by caller mutation")
	}
}

func chainNames(chain []domain.FieldDefinition) []string {
	names := make([]string, len(chain))
	for i, field := range chain {
		names[i] = field.Name
	}
	return names
}
