// Package translator converts client-facing sort field names, as they appear
// in serialized entity representations, into the canonical internal property
// paths the storage layer understands. Clauses that cannot be resolved, or
// that would traverse a relationship field, are dropped rather than failed.
package translator

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/rpattn/restql/internal/domain"
	"github.com/rpattn/restql/internal/mapping"
)

// splitter captures the maximal run of non-delimiter characters following
// each `_` or `.` occurrence; the leading delimiter is prepended so the first
// segment is captured uniformly. "fooBar.baz_qux" -> [fooBar baz qux].
var splitter = regexp.MustCompile(`[_.]?([_.]*?[^_.]+)`)

// allUppercase matches constant-style segments that are matched verbatim
// against the mappings instead of being decapitalized.
var allUppercase = regexp.MustCompile(`^[A-Z0-9._$]+$`)

// SchemaSource resolves entity metadata by type name.
type SchemaSource interface {
	Get(name string) (domain.EntitySchema, bool)
}

// SortTranslator translates sort clauses against a root entity schema. It is
// stateless and safe for concurrent use as long as the schema source is.
type SortTranslator struct {
	schemas SchemaSource
}

// NewSortTranslator creates a translator backed by the given schema source.
func NewSortTranslator(schemas SchemaSource) *SortTranslator {
	if schemas == nil {
		panic("translator: schema source must not be nil")
	}
	return &SortTranslator{schemas: schemas}
}

// TranslateSort maps every clause of input from external field names to
// internal property paths rooted at rootEntity. Clauses that do not resolve
// are dropped; surviving clauses keep their direction, null handling and
// case flags and their relative order. The result is nil when no clause
// survives, meaning "apply no ordering".
func (t *SortTranslator) TranslateSort(input domain.Sort, rootEntity domain.EntitySchema) *domain.Sort {
	// The root mappings are shared by all clauses of this call; nested
	// levels are rebuilt every time the walk reaches them.
	rootMapped := mapping.NewMappedProperties(rootEntity)
	rootWrapped := mapping.NewWrappedProperties(t.schemas, rootEntity)

	var filtered []domain.Order
	for _, order := range input.Orders {
		segments := splitPropertyPath(order.Property)
		path := t.mapPropertyPath(rootEntity, rootMapped, rootWrapped, segments)
		if len(path) == 0 {
			continue
		}

		mapped := order
		mapped.Property = strings.Join(path, ".")
		filtered = append(filtered, mapped)
	}

	if len(filtered) == 0 {
		return nil
	}
	result := domain.NewSort(filtered...)
	return &result
}

// mapPropertyPath walks the external segments through progressively deeper
// schemas and accumulates internal property names. It returns nil as soon as
// a segment fails to resolve: clauses translate all-or-nothing.
func (t *SortTranslator) mapPropertyPath(rootEntity domain.EntitySchema, rootMapped mapping.MappedProperties, rootWrapped mapping.WrappedProperties, segments []string) []string {
	path := make([]string, 0, len(segments))

	currentType := &rootEntity
	currentMapped := &rootMapped
	currentWrapped := &rootWrapped

	for _, segment := range segments {
		fieldName := segment
		if !allUppercase.MatchString(fieldName) {
			fieldName = decapitalize(fieldName)
		}

		// A previous step walked past a non-modeled value; nothing deeper
		// can resolve.
		if currentType == nil {
			return nil
		}

		if currentMapped == nil {
			mapped := mapping.NewMappedProperties(*currentType)
			currentMapped = &mapped
		}
		if currentWrapped == nil {
			wrapped := mapping.NewWrappedProperties(t.schemas, *currentType)
			currentWrapped = &wrapped
		}

		var properties []domain.FieldDefinition
		switch {
		case currentWrapped.HasPersistentPropertiesForField(fieldName):
			properties = currentWrapped.PersistentProperties(fieldName)
		case currentMapped.HasPersistentPropertyForField(fieldName):
			property, _ := currentMapped.PersistentProperty(fieldName)
			properties = []domain.FieldDefinition{property}
		default:
			return nil
		}

		for _, property := range properties {
			if property.IsAssociation() {
				return nil
			}
			path = append(path, property.Name)
		}

		if next, ok := t.schemas.Get(properties[len(properties)-1].EntityType); ok {
			currentType = &next
		} else {
			currentType = nil
		}
		currentMapped = nil
		currentWrapped = nil
	}

	return path
}

// splitPropertyPath tokenizes an external property path on `_` and `.`
// delimiters, preserving segment case.
func splitPropertyPath(property string) []string {
	matches := splitter.FindAllStringSubmatch("_"+property, -1)
	segments := make([]string, 0, len(matches))
	for _, match := range matches {
		segments = append(segments, match[1])
	}
	return segments
}

// decapitalize lowers a segment's first rune following bean-property rules:
// a segment whose first two runes are both upper case stays unchanged.
func decapitalize(segment string) string {
	runes := []rune(segment)
	if len(runes) == 0 {
		return segment
	}
	if len(runes) > 1 && unicode.IsUpper(runes[0]) && unicode.IsUpper(runes[1]) {
		return segment
	}
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}
