package translator

import (
	"reflect"
	"testing"

	"github.com/rpattn/restql/internal/domain"
	"github.com/rpattn/restql/internal/metadata"
)

func testRegistry(t *testing.T) *metadata.Registry {
	t.Helper()

	registry := metadata.NewRegistry()
	schemas := []domain.EntitySchema{
		domain.NewEntitySchema("User", "", []domain.FieldDefinition{
			{Name: "fullName", JSONName: "name", Type: domain.FieldTypeString},
			{Name: "age", Type: domain.FieldTypeInteger},
			{Name: "SKU", Type: domain.FieldTypeString},
			{Name: "secret", JSONName: "-", Type: domain.FieldTypeString},
			{Name: "profile", JSONName: "userProfile", Type: domain.FieldTypeObject, EntityType: "Profile", Unwrapped: true},
			{Name: "meta", JSONName: "metaInfo", Type: domain.FieldTypeObject, EntityType: "Meta", Unwrapped: true},
			{Name: "address", Type: domain.FieldTypeObject, EntityType: "Address"},
			{Name: "owner", Type: domain.FieldTypeEntityReference, EntityType: "User"},
		}),
		domain.NewEntitySchema("Profile", "", []domain.FieldDefinition{
			{Name: "fullName", JSONName: "displayName", Type: domain.FieldTypeString},
			{Name: "nick", Type: domain.FieldTypeString},
		}),
		domain.NewEntitySchema("Address", "", []domain.FieldDefinition{
			{Name: "city", Type: domain.FieldTypeString},
			{Name: "geo", Type: domain.FieldTypeObject, EntityType: "Geo"},
			{Name: "country", Type: domain.FieldTypeEntityReference, EntityType: "Country"},
		}),
		domain.NewEntitySchema("Geo", "", []domain.FieldDefinition{
			{Name: "lat", Type: domain.FieldTypeFloat},
		}),
	}
	for _, schema := range schemas {
		if err := registry.Register(schema); err != nil {
			t.Fatalf("failed to register schema %s: %v", schema.Name, err)
		}
	}
	return registry
}

func rootSchema(t *testing.T, registry *metadata.Registry) domain.EntitySchema {
	t.Helper()
	schema, ok := registry.Get("User")
	if !ok {
		t.Fatalf("User schema missing from registry")
	}
	return schema
}

func translateProperties(t *testing.T, properties ...string) *domain.Sort {
	t.Helper()

	registry := testRegistry(t)
	orders := make([]domain.Order, len(properties))
	for i, property := range properties {
		orders[i] = domain.NewOrder(property)
	}
	return NewSortTranslator(registry).TranslateSort(domain.NewSort(orders...), rootSchema(t, registry))
}

func assertProperties(t *testing.T, result *domain.Sort, want ...string) {
	t.Helper()

	if result == nil {
		t.Fatalf("expected translated sort, got nil")
	}
	got := make([]string, len(result.Orders))
	for i, order := range result.Orders {
		got[i] = order.Property
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected properties %v, got %v", want, got)
	}
}

func TestTranslateSortRenamesRootProperty(t *testing.T) {
	assertProperties(t, translateProperties(t, "name"), "fullName")
}

func TestTranslateSortPreservesFlags(t *testing.T) {
	registry := testRegistry(t)
	input := domain.NewSort(
		domain.NewOrder("name").WithDirection(domain.DirectionDesc).WithNullHandling(domain.NullHandlingNullsFirst).IgnoringCase(),
	)

	result := NewSortTranslator(registry).TranslateSort(input, rootSchema(t, registry))
	if result == nil {
		t.Fatalf("expected translated sort, got nil")
	}
	order := result.Orders[0]
	if order.Property != "fullName" {
		t.Errorf("expected fullName, got %q", order.Property)
	}
	if order.Direction != domain.DirectionDesc {
		t.Errorf("expected direction preserved, got %s", order.Direction)
	}
	if order.NullHandling != domain.NullHandlingNullsFirst {
		t.Errorf("expected null handling preserved, got %s", order.NullHandling)
	}
	if !order.IgnoreCase {
		t.Errorf("expected ignore case preserved")
	}
}

func TestTranslateSortNestedPath(t *testing.T) {
	assertProperties(t, translateProperties(t, "address.city"), "address.city")
	assertProperties(t, translateProperties(t, "address_city"), "address.city")
	assertProperties(t, translateProperties(t, "address.geo.lat"), "address.geo.lat")
}

func TestTranslateSortIdempotentForIdentityMapping(t *testing.T) {
	// External and internal names coincide for address.city; translating the
	// canonical path yields itself.
	assertProperties(t, translateProperties(t, "address.city"), "address.city")
}

func TestTranslateSortUnwrappedPrefixedPath(t *testing.T) {
	registry := testRegistry(t)
	input := domain.NewSort(domain.NewOrder("userProfile_displayName"))

	result := NewSortTranslator(registry).TranslateSort(input, rootSchema(t, registry))
	if result == nil {
		t.Fatalf("expected translated sort, got nil")
	}
	if result.Orders[0].Property != "profile.fullName" {
		t.Errorf("expected profile.fullName, got %q", result.Orders[0].Property)
	}
	if result.Orders[0].Direction != domain.DirectionAsc {
		t.Errorf("expected direction preserved, got %s", result.Orders[0].Direction)
	}
}

func TestTranslateSortUnwrappedInlinedField(t *testing.T) {
	// With prefixless inlining the nested field name alone expands to the
	// full chain.
	assertProperties(t, translateProperties(t, "displayName"), "profile.fullName")
}

func TestTranslateSortDropsAssociationAtRoot(t *testing.T) {
	if result := translateProperties(t, "owner.id"); result != nil {
		t.Errorf("expected nil result for association path, got %+v", result)
	}
	if result := translateProperties(t, "owner"); result != nil {
		t.Errorf("expected nil result for association property, got %+v", result)
	}
}

func TestTranslateSortDropsAssociationAtDepth(t *testing.T) {
	if result := translateProperties(t, "address.country"); result != nil {
		t.Errorf("expected nil result for nested association, got %+v", result)
	}
}

func TestTranslateSortDropsUnknownSegment(t *testing.T) {
	if result := translateProperties(t, "bogus"); result != nil {
		t.Errorf("expected nil result for unknown field, got %+v", result)
	}
	if result := translateProperties(t, "address.bogus"); result != nil {
		t.Errorf("expected nil result for unknown nested field, got %+v", result)
	}
}

func TestTranslateSortDropsUnserializedField(t *testing.T) {
	if result := translateProperties(t, "secret"); result != nil {
		t.Errorf("expected nil result for unserialized field, got %+v", result)
	}
}

func TestTranslateSortDropsClauseIndependently(t *testing.T) {
	result := translateProperties(t, "name", "owner.id", "age")
	assertProperties(t, result, "fullName", "age")
}

func TestTranslateSortAllDroppedIsNil(t *testing.T) {
	if result := translateProperties(t, "bogus", "owner.id"); result != nil {
		t.Errorf("expected nil when every clause drops, got %+v", result)
	}
}

func TestTranslateSortEmptyInputIsNil(t *testing.T) {
	registry := testRegistry(t)
	if result := NewSortTranslator(registry).TranslateSort(domain.NewSort(), rootSchema(t, registry)); result != nil {
		t.Errorf("expected nil for empty input, got %+v", result)
	}
}

func TestTranslateSortWalksPastScalarFails(t *testing.T) {
	// fullName is a scalar; anything beneath it cannot resolve.
	if result := translateProperties(t, "name.length"); result != nil {
		t.Errorf("expected nil when walking into a scalar, got %+v", result)
	}
}

func TestTranslateSortUnwrapIntoUnknownTypeSucceedsAsLastSegment(t *testing.T) {
	// meta unwraps to a type with no registered schema: addressing the
	// wrapper itself works, any deeper segment fails.
	assertProperties(t, translateProperties(t, "metaInfo"), "meta")

	if result := translateProperties(t, "metaInfo.anything"); result != nil {
		t.Errorf("expected nil for segments beneath an unresolvable type, got %+v", result)
	}
}

func TestTranslateSortUppercaseSegmentMatchedVerbatim(t *testing.T) {
	assertProperties(t, translateProperties(t, "SKU"), "SKU")
}

func TestTranslateSortDecapitalizesSegments(t *testing.T) {
	// "Name" decapitalizes to "name" and resolves through the rename.
	assertProperties(t, translateProperties(t, "Name"), "fullName")
}

func TestSplitPropertyPath(t *testing.T) {
	cases := []struct {
		property string
		want     []string
	}{
		{"fooBar.baz_qux", []string{"fooBar", "baz", "qux"}},
		{"name", []string{"name"}},
		{"a.b", []string{"a", "b"}},
		{"a_b_c", []string{"a", "b", "c"}},
		{"", nil},
	}
	for _, tc := range cases {
		got := splitPropertyPath(tc.property)
		if len(got) == 0 && len(tc.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("splitPropertyPath(%q): expected %v, got %v", tc.property, tc.want, got)
		}
	}
}

func TestDecapitalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"FooBar", "fooBar"},
		{"fooBar", "fooBar"},
		{"URLValue", "URLValue"}, // two leading uppers stay untouched
		{"X", "x"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := decapitalize(tc.in); got != tc.want {
			t.Errorf("decapitalize(%q): expected %q, got %q", tc.in, tc.want, got)
		}
	}
}

func TestNewSortTranslatorRequiresSchemaSource(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic for nil schema source")
		}
	}()
	NewSortTranslator(nil)
}
