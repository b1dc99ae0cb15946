package domain

import "strings"

// Direction represents ordering direction for sort clauses.
type Direction string

const (
	DirectionAsc  Direction = "ASC"
	DirectionDesc Direction = "DESC"
)

// NullHandling controls where null property values appear in ordered results.
type NullHandling string

const (
	NullHandlingNative     NullHandling = "NATIVE"
	NullHandlingNullsFirst NullHandling = "NULLS_FIRST"
	NullHandlingNullsLast  NullHandling = "NULLS_LAST"
)

// Order is a single sort clause: one property path plus its ordering flags.
type Order struct {
	Property     string       `json:"property"`
	Direction    Direction    `json:"direction"`
	NullHandling NullHandling `json:"nullHandling"`
	IgnoreCase   bool         `json:"ignoreCase"`
}

// NewOrder creates an ascending, native-null-handling order for a property.
func NewOrder(property string) Order {
	return Order{
		Property:     property,
		Direction:    DirectionAsc,
		NullHandling: NullHandlingNative,
	}
}

// WithDirection returns a copy of the order with the given direction.
func (o Order) WithDirection(direction Direction) Order {
	o.Direction = direction
	return o
}

// WithNullHandling returns a copy of the order with the given null handling.
func (o Order) WithNullHandling(handling NullHandling) Order {
	o.NullHandling = handling
	return o
}

// IgnoringCase returns a copy of the order with case-insensitive comparison.
func (o Order) IgnoringCase() Order {
	o.IgnoreCase = true
	return o
}

// IsDescending reports whether the order sorts in descending direction.
func (o Order) IsDescending() bool {
	return o.Direction == DirectionDesc
}

// Sort captures ordering preferences for entity listings. The clause order is
// significant and preserved through translation and query building.
type Sort struct {
	Orders []Order `json:"orders"`
}

// NewSort creates a sort over the given clauses.
func NewSort(orders ...Order) Sort {
	return Sort{Orders: orders}
}

// IsEmpty reports whether the sort carries no clauses.
func (s Sort) IsEmpty() bool {
	return len(s.Orders) == 0
}

// ParseSort builds a Sort from repeated `sort` request parameters. Each value
// is a property path optionally followed by comma-separated flags:
//
//	sort=name
//	sort=name,desc
//	sort=profile_displayName,asc,ignorecase
//	sort=age,desc,nullslast
//
// Unknown flags are ignored, blank values are skipped.
func ParseSort(values []string) Sort {
	var orders []Order
	for _, value := range values {
		parts := strings.Split(value, ",")
		property := strings.TrimSpace(parts[0])
		if property == "" {
			continue
		}
		order := NewOrder(property)
		for _, part := range parts[1:] {
			switch strings.ToLower(strings.TrimSpace(part)) {
			case "asc":
				order.Direction = DirectionAsc
			case "desc":
				order.Direction = DirectionDesc
			case "ignorecase":
				order.IgnoreCase = true
			case "nullsfirst":
				order.NullHandling = NullHandlingNullsFirst
			case "nullslast":
				order.NullHandling = NullHandlingNullsLast
			}
		}
		orders = append(orders, order)
	}
	return Sort{Orders: orders}
}
