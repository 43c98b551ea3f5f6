// Package param holds URI parameter declarations and validates candidate
// values against them before they are substituted into a route.
package param

// Type is the declared type of a URI parameter.
type Type string

const (
	TypeString  Type = "string"
	TypeInteger Type = "integer"
	TypeNumber  Type = "number"
	TypeDate    Type = "date"
	TypeBoolean Type = "boolean"
)

// Spec describes a single URI parameter. Facets apply only to their matching
// type; unset facets impose no constraint. An empty Type imposes no type
// constraint at all.
type Spec struct {
	Type     Type
	Required bool

	// String facets.
	Enum      []string
	MinLength *int
	MaxLength *int
	Pattern   string

	// Numeric facets.
	Minimum *float64
	Maximum *float64
}
