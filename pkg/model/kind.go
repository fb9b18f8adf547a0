package model

import (
	"fmt"
	"strings"
)

// Kind is the closed set of UML relationship kinds.
type Kind int

const (
	Association Kind = iota
	Aggregation
	Composition
	Dependency
	Inheritance
	Realization
)

// Kinds lists every relationship kind in declaration order.
var Kinds = []Kind{Association, Aggregation, Composition, Dependency, Inheritance, Realization}

var kindNames = [...]string{
	Association: "association",
	Aggregation: "aggregation",
	Composition: "composition",
	Dependency:  "dependency",
	Inheritance: "inheritance",
	Realization: "realization",
}

// kindAliases are accepted by ParseKind in addition to the canonical names.
var kindAliases = map[string]Kind{
	"extends":        Inheritance,
	"generalization": Inheritance,
	"implements":     Realization,
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	return k >= Association && k <= Realization
}

// IsDirectional reports whether the kind points from a specific end to a
// general end regardless of the whole-end flag.
func (k Kind) IsDirectional() bool {
	return k == Dependency || k == Inheritance || k == Realization
}

// IsWholePart reports whether the kind draws a diamond at the whole end.
func (k Kind) IsWholePart() bool {
	return k == Aggregation || k == Composition
}

// ParseKind parses a kind name case-insensitively.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for k, n := range kindNames {
		if n == name {
			return Kind(k), nil
		}
	}
	if k, ok := kindAliases[name]; ok {
		return k, nil
	}
	return 0, fmt.Errorf("unknown relationship kind %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("invalid relationship kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// PrimitiveType is the closed set of attribute and return types.
type PrimitiveType string

const (
	TypeString  PrimitiveType = "string"
	TypeInt     PrimitiveType = "int"
	TypeFloat   PrimitiveType = "float"
	TypeBoolean PrimitiveType = "boolean"
	TypeVoid    PrimitiveType = "void"
)

// PrimitiveTypes lists the accepted type tags.
var PrimitiveTypes = []PrimitiveType{TypeString, TypeInt, TypeFloat, TypeBoolean, TypeVoid}

// Valid reports whether t is a known type tag.
func (t PrimitiveType) Valid() bool {
	switch t {
	case TypeString, TypeInt, TypeFloat, TypeBoolean, TypeVoid:
		return true
	}
	return false
}

// ParsePrimitiveType parses a type tag, returning fallback for empty input.
func ParsePrimitiveType(s string, fallback PrimitiveType) (PrimitiveType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "":
		return fallback, nil
	case "bool":
		return TypeBoolean, nil
	case "number", "double":
		return TypeFloat, nil
	case "integer":
		return TypeInt, nil
	}
	t := PrimitiveType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown type %q", s)
	}
	return t, nil
}
