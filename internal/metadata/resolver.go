package metadata

import (
	"net/http"
	"strings"
	"unicode"
)

// PathTypeResolver maps the leading URL path segment of a request to a
// registered entity type: schema "UserProfile" is served under the
// collection path /userProfile. Requests whose first segment matches no
// registered schema resolve to nothing, which callers treat as "leave the
// request untranslated".
type PathTypeResolver struct {
	registry *Registry
}

// NewPathTypeResolver creates a resolver backed by the given registry.
func NewPathTypeResolver(registry *Registry) *PathTypeResolver {
	if registry == nil {
		panic("metadata: registry must not be nil")
	}
	return &PathTypeResolver{registry: registry}
}

// Resolve returns the entity type name targeted by the request, if any.
func (pr *PathTypeResolver) Resolve(r *http.Request) (string, bool) {
	collection := firstPathSegment(r.URL.Path)
	if collection == "" {
		return "", false
	}
	for _, name := range pr.registry.Names() {
		if CollectionPath(name) == collection {
			return name, true
		}
	}
	return "", false
}

// CollectionPath returns the URL collection segment for a schema name:
// the name with its first rune lowered, e.g. "UserProfile" -> "userProfile".
func CollectionPath(schemaName string) string {
	if schemaName == "" {
		return ""
	}
	runes := []rune(schemaName)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}

func firstPathSegment(path string) string {
	for _, segment := range strings.Split(path, "/") {
		if segment != "" {
			return segment
		}
	}
	return ""
}
