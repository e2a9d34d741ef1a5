/*
Package schema implements codecs for the binary format described by type
expressions instead of Go types. A type expression like "map[u8][]string" is
parsed into a Type which can then encode and decode plain Go values
(uint8..uint64, int for sizes, bool, string, []byte, []any, map[any]any)
and convert them to/from YAML nodes. The binary output is exactly the one
produced by the respective types of the io package.
*/
package schema

import (
	"errors"
	"fmt"
)

// Kind is the kind of the Type.
type Kind byte

// Supported kinds.
const (
	U8 Kind = iota + 1
	U16
	U32
	U64
	Size
	Bool
	String
	Bytes
	Array
	Map
	Optional
	Box
)

var kindNames = map[Kind]string{
	U8:     "u8",
	U16:    "u16",
	U32:    "u32",
	U64:    "u64",
	Size:   "size",
	Bool:   "bool",
	String: "string",
	Bytes:  "bytes",
}

var (
	// ErrSyntax is returned for malformed type expressions.
	ErrSyntax = errors.New("invalid type expression")
	// ErrTypeMismatch is returned when a value doesn't match the Type it's
	// encoded or converted with.
	ErrTypeMismatch = errors.New("type mismatch")
)

// Type describes a wire shape. Elem is set for Array, Optional and Box (and
// holds the value type for Map), Key is set for Map only.
type Type struct {
	Kind Kind
	Key  *Type
	Elem *Type
}

// IsScalar tells whether t can be used as a map key.
func (t *Type) IsScalar() bool {
	switch t.Kind {
	case U8, U16, U32, U64, Size, Bool, String:
		return true
	default:
		return false
	}
}

// String returns the canonical type expression for t.
func (t *Type) String() string {
	switch t.Kind {
	case Array:
		return "[]" + t.Elem.String()
	case Map:
		return "map[" + t.Key.String() + "]" + t.Elem.String()
	case Optional:
		return "?" + t.Elem.String()
	case Box:
		return "*" + t.Elem.String()
	}
	if name, ok := kindNames[t.Kind]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", t.Kind)
}

// unboxed returns the first non-Box type in t's chain.
func (t *Type) unboxed() *Type {
	for t.Kind == Box {
		t = t.Elem
	}
	return t
}

func (t *Type) mismatch(v any) error {
	return fmt.Errorf("%w: %s can't hold %T", ErrTypeMismatch, t, v)
}
