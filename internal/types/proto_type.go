package types

// MethodSpec is a structural method signature with no body, mandatory
// param and return types - a protocol is a purely structural contract
// (spec.md §3: "MethodSpec | id, params[(name, type)], return type").
type MethodSpec struct {
	Name       string
	Params     []Param
	ReturnType Type
}

// ProtoType is a structural protocol: a name, zero or more extended
// parent protocols, and method specs (spec.md §3 "Proto", §4.1).
// Multiple extends are allowed iff no two parents contribute distinct
// MethodSpecs of the same name, even with identical signatures
// (spec.md §3: "multiple extends allowed iff no method-spec collision").
type ProtoType struct {
	TypeName string
	Extends  []*ProtoType
	Methods  []*MethodSpec
}

func NewProtoType(name string) *ProtoType {
	return &ProtoType{TypeName: name}
}

func (p *ProtoType) Name() string   { return p.TypeName }
func (p *ProtoType) String() string { return p.TypeName }

// ExtendsProto reports whether other is p itself or a transitive
// ancestor of p (bruce Protocol.extends).
func (p *ProtoType) ExtendsProto(other *ProtoType) bool {
	for _, parent := range p.Extends {
		if parent == other || parent.ExtendsProto(other) {
			return true
		}
	}
	return false
}

// AllMethodSpecs flattens p's own specs plus every ancestor's, a parent
// spec is shadowed by a same-named spec declared directly on p.
func (p *ProtoType) AllMethodSpecs() []*MethodSpec {
	seen := map[string]*MethodSpec{}
	order := []string{}
	var walk func(*ProtoType)
	walk = func(pt *ProtoType) {
		for _, parent := range pt.Extends {
			walk(parent)
		}
		for _, m := range pt.Methods {
			if _, ok := seen[m.Name]; !ok {
				order = append(order, m.Name)
			}
			seen[m.Name] = m
		}
	}
	walk(p)
	out := make([]*MethodSpec, len(order))
	for i, n := range order {
		out[i] = seen[n]
	}
	return out
}

// ConformsTo: Error conforms to everything; a protocol only conforms to
// itself, to Object, or to another protocol it (transitively) extends.
// ProtoType cannot conform to a ClassType (spec.md §4.9).
func (p *ProtoType) ConformsTo(other Type) bool {
	if other == Error {
		return true
	}
	if other == Object {
		return true
	}
	if other == Type(p) {
		return true
	}
	if proto, ok := other.(*ProtoType); ok {
		return p.ExtendsProto(proto)
	}
	return false
}

// implementsProto reports whether a ClassType structurally provides
// every method spec of proto, with no declared conformance needed (pure
// duck typing): each method of the same
// name exists with a contravariant-compatible param list and a
// covariant-compatible return type.
func implementsProto(c *ClassType, proto *ProtoType) bool {
	for _, spec := range proto.AllMethodSpecs() {
		m, ok := c.GetMethod(spec.Name)
		if !ok {
			return false
		}
		if len(m.Params) != len(spec.Params) {
			return false
		}
		for i, p := range spec.Params {
			if m.Params[i].Type == nil || p.Type == nil {
				continue
			}
			// contravariant: the method's declared param type must accept
			// anything the spec's param type accepts.
			if !p.Type.ConformsTo(m.Params[i].Type) {
				return false
			}
		}
		if m.ReturnType != nil && spec.ReturnType != nil && !m.ReturnType.ConformsTo(spec.ReturnType) {
			return false
		}
	}
	return true
}

// IterableProto is the built-in structural contract every VectorType
// implements, and that user types can implement to be usable as the
// target of a MappedIterable/Iterator (spec.md §3: "IterableProto with
// method specs next(): Boolean, current(): Object").
var IterableProto = &ProtoType{
	TypeName: "Iterable",
	Methods: []*MethodSpec{
		{Name: "next", ReturnType: Boolean},
		{Name: "current", ReturnType: Object},
	},
}
