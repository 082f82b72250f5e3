package domain

import (
	"fmt"
	"slices"
	"strings"
)

// Route is the API path segment identifying an entity kind.
type Route string

const (
	RoutePolyanets Route = "polyanets"
	RouteComeths   Route = "comeths"
	RouteSoloons   Route = "soloons"
)

// AttributeKind names the required attribute of an attributed entity.
// Its value is also the JSON field name on the wire.
type AttributeKind string

const (
	AttributeDirection AttributeKind = "direction"
	AttributeColor     AttributeKind = "color"
)

var (
	// Directions are the values accepted for AttributeDirection.
	Directions = []string{"up", "down", "left", "right"}
	// Colors are the values accepted for AttributeColor.
	Colors = []string{"blue", "red", "purple", "white"}
)

// Allowed returns the enumerated values valid for the attribute kind.
func (k AttributeKind) Allowed() []string {
	switch k {
	case AttributeDirection:
		return Directions
	case AttributeColor:
		return Colors
	default:
		return nil
	}
}

// Accepts reports whether value belongs to the enumerated set of the kind.
func (k AttributeKind) Accepts(value string) bool {
	return slices.Contains(k.Allowed(), value)
}

// Intent is the decision taken for one cell. It is one of NoEntity,
// SimpleEntity or AttributedEntity; the set is closed.
type Intent interface {
	intent()
}

// NoEntity means nothing is created for the cell.
type NoEntity struct{}

// SimpleEntity creates an entity that carries no attribute.
type SimpleEntity struct {
	Route Route
}

// AttributedEntity creates an entity with one required attribute.
type AttributedEntity struct {
	Route     Route
	Attribute AttributeKind
	Value     string
}

func (NoEntity) intent()         {}
func (SimpleEntity) intent()     {}
func (AttributedEntity) intent() {}

// kinds maps the <KIND> half of a compound token to its route and attribute.
var kinds = map[string]struct {
	route     Route
	attribute AttributeKind
}{
	KindCometh: {RouteComeths, AttributeDirection},
	KindSoloon: {RouteSoloons, AttributeColor},
}

// ParseToken translates a cell token into an Intent. Unrecognized tokens
// yield NoEntity together with an error wrapping ErrUnrecognizedContent.
func ParseToken(token string) (Intent, error) {
	switch token {
	case TokenSpace:
		return NoEntity{}, nil
	case TokenPolyanet:
		return SimpleEntity{Route: RoutePolyanets}, nil
	}

	attr, kind, found := strings.Cut(token, "_")
	if !found {
		return NoEntity{}, fmt.Errorf("%w: %q", ErrUnrecognizedContent, token)
	}

	def, ok := kinds[kind]
	if !ok {
		return NoEntity{}, fmt.Errorf("%w: unknown kind %q in %q", ErrUnrecognizedContent, kind, token)
	}

	value := strings.ToLower(attr)
	if !def.attribute.Accepts(value) {
		return NoEntity{}, fmt.Errorf("%w: %s %q not one of %v in %q",
			ErrUnrecognizedContent, def.attribute, value, def.attribute.Allowed(), token)
	}

	return AttributedEntity{Route: def.route, Attribute: def.attribute, Value: value}, nil
}

// Token renders an intent back into its canonical grid token.
func Token(i Intent) string {
	switch v := i.(type) {
	case SimpleEntity:
		return TokenPolyanet
	case AttributedEntity:
		for kind, def := range kinds {
			if def.route == v.Route {
				return strings.ToUpper(v.Value) + "_" + kind
			}
		}
		return TokenSpace
	default:
		return TokenSpace
	}
}
