package domain

// EntityFilter represents filtering options for listing entities.
type EntityFilter struct {
	EntityType      string
	PropertyFilters []PropertyFilter
}

// PropertyFilter represents a property-level filter. Key is a dotted internal
// property path into the entity's property document.
type PropertyFilter struct {
	Key   string
	Value string
}
