package definition

import (
	"fmt"
	"strings"
)

// Primitive is the value type named in a flag definition.
type Primitive string

const (
	String  Primitive = "string"
	Number  Primitive = "number"
	Boolean Primitive = "boolean"
)

// Primitives lists every supported value type.
var Primitives = []Primitive{String, Number, Boolean}

// ParsePrimitive returns the Primitive named by s.
func ParsePrimitive(s string) (Primitive, error) {
	switch p := Primitive(s); p {
	case String, Number, Boolean:
		return p, nil
	}

	return "", fmt.Errorf("%w %q, want one of %s", ErrUnknownType, s, strings.Join(primitiveNames(), ", "))
}

// GoType returns the Go type used to hold a value of p.
func (p Primitive) GoType() string {
	switch p {
	case Number:
		return "float64"
	case Boolean:
		return "bool"
	default:
		return "string"
	}
}

func primitiveNames() []string {
	names := make([]string, len(Primitives))
	for i, p := range Primitives {
		names[i] = string(p)
	}
	return names
}
