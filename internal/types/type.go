// Package types implements the semantic type system: nominal Types,
// structural Protos, the built-in types, and the inference-only UnionType
// and ErrorType (spec.md §3 "Semantic entities", §4.1, §4.9).
package types

// Type is the interface shared by every semantic entity that can occupy
// a type slot: ClassType, ProtoType, VectorType, FunctionType, UnionType,
// and the built-ins (Object, Number, String, Boolean, Function, Error).
type Type interface {
	// Name is the type's display name, used in error messages and in
	// String() renderings of annotations.
	Name() string

	// ConformsTo reports whether a value of this type is admissible
	// wherever other is expected (spec.md §4.9). ErrorType conforms to
	// everything and is conformed to by everything; every type conforms
	// to itself and to Object.
	ConformsTo(other Type) bool

	String() string
}

// Kind distinguishes the basic shape of a Type without needing a type
// switch at every call site (used by the core built-in table and by
// conformance checks that are identical across all ClassTypes, say).
type Kind int

const (
	KindObject Kind = iota
	KindNumber
	KindString
	KindBoolean
	KindClass
	KindProto
	KindVector
	KindFunction
	KindUnion
	KindError
)
