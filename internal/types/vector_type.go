package types

// VectorType is the built-in generic vector: methods next, current, size,
// at, setAt, and it implements IterableProto (spec.md §3: "VectorType of
// T (has methods next, current, size, at, setAt; implements
// IterableProto)"). Two VectorTypes are the same Type iff their element
// types are the same Type - compare them with ConformsTo or Name rather
// than pointer identity, since VectorType instances are constructed on
// demand during inference.
type VectorType struct {
	Elem Type
}

// NewVectorType returns the VectorType of elem. elem may be nil for an
// empty vector literal pending inference.
func NewVectorType(elem Type) *VectorType {
	return &VectorType{Elem: elem}
}

func (v *VectorType) Name() string {
	if v.Elem == nil {
		return "Vector"
	}
	return "Vector<" + v.Elem.Name() + ">"
}

func (v *VectorType) String() string { return v.Name() }

// ConformsTo: Error/Object as usual; a VectorType conforms to another
// VectorType iff the element types conform; a VectorType always conforms
// to IterableProto.
func (v *VectorType) ConformsTo(other Type) bool {
	if other == Error {
		return true
	}
	if other == Object {
		return true
	}
	if other == IterableProto {
		return true
	}
	if ov, ok := other.(*VectorType); ok {
		if v.Elem == nil || ov.Elem == nil {
			return true
		}
		return v.Elem.ConformsTo(ov.Elem)
	}
	return false
}
