package translator

import (
	"net/http"

	"github.com/rpattn/restql/internal/domain"
)

// TypeResolver resolves the entity type an inbound request is about.
type TypeResolver interface {
	Resolve(r *http.Request) (string, bool)
}

// RequestTranslator is the request-level adapter around SortTranslator: it
// resolves the target entity type from the request and translates the sort
// against that type's schema. Requests that resolve to no known type pass
// their sort through unchanged.
type RequestTranslator struct {
	resolver TypeResolver
	schemas  SchemaSource
	sorts    *SortTranslator
}

// NewRequestTranslator creates the adapter. Both collaborators are required.
func NewRequestTranslator(resolver TypeResolver, schemas SchemaSource) *RequestTranslator {
	if resolver == nil {
		panic("translator: type resolver must not be nil")
	}
	if schemas == nil {
		panic("translator: schema source must not be nil")
	}
	return &RequestTranslator{
		resolver: resolver,
		schemas:  schemas,
		sorts:    NewSortTranslator(schemas),
	}
}

// Translate maps the input sort's external field names to internal property
// paths for the entity type targeted by r. When no type resolves, or the
// resolved type has no registered schema, the input is returned unchanged.
// A nil result means every clause was dropped: apply no ordering.
func (rt *RequestTranslator) Translate(input domain.Sort, r *http.Request) *domain.Sort {
	if r == nil {
		panic("translator: request must not be nil")
	}

	name, ok := rt.resolver.Resolve(r)
	if !ok {
		return &input
	}
	schema, ok := rt.schemas.Get(name)
	if !ok {
		return &input
	}
	return rt.sorts.TranslateSort(input, schema)
}
