package types

// Param is a single (name, type) constructor/method parameter slot. Type
// is nil until TypeBuilder resolves an annotation, or until TypeInferer
// fills an unannotated one (spec.md §4.5/§4.8).
type Param struct {
	Name string
	Type Type
}

// Attribute is a TypeDecl's property: a declared (possibly nil, pending
// inference) type plus the owning scope's init expression lives on the
// AST node, not here (spec.md §3: "TypeProperty | id, type?, value").
type Attribute struct {
	Name string
	Type Type
}

// Method is a named, owned function signature. Overrides are checked by
// pointwise param-type and return-type equality against the parent's
// Method of the same name (spec.md §4.5: "OverrideMismatch").
type Method struct {
	Name       string
	Params     []Param
	ReturnType Type
}

// ClassType is a nominal type with an ordered constructor parameter list,
// attributes, methods, and a single parent (spec.md §3 "Type", §4.1).
type ClassType struct {
	TypeName   string
	Params     []Param // constructor params; nil until TypeBuilder resolves them
	Attributes []*Attribute
	Methods    []*Method
	Parent     Type // Object when no parent is declared
	ParentArgs []interface{} // ast.Expression, kept untyped to avoid an ast import cycle
}

func NewClassType(name string) *ClassType {
	return &ClassType{TypeName: name, Parent: Object}
}

func (c *ClassType) Name() string   { return c.TypeName }
func (c *ClassType) String() string { return c.TypeName }

// SetParent sets the single parent type; fails if already set or if
// parent is a primitive/Function/Error (spec.md §4.5 step 1).
func (c *ClassType) SetParent(parent Type) error {
	if c.Parent != Object {
		return &ConflictError{Kind: "AlreadyDefined", Message: "parent already set for " + c.TypeName}
	}
	if !isInheritable(parent) {
		return &ConflictError{Kind: "TypeMismatch", Message: parent.Name() + " is not inheritable"}
	}
	c.Parent = parent
	return nil
}

func isInheritable(t Type) bool {
	_, ok := t.(*ClassType)
	return ok
}

// GetAttribute walks the parent chain; the spec's get_attribute semantics
// (bruce context.py Type.get_attribute) - nil, false if undefined anywhere
// in the chain.
func (c *ClassType) GetAttribute(name string) (*Attribute, bool) {
	for _, a := range c.Attributes {
		if a.Name == name {
			return a, true
		}
	}
	if parent, ok := c.Parent.(*ClassType); ok {
		return parent.GetAttribute(name)
	}
	return nil, false
}

// DefineAttribute registers a new attribute; the caller is responsible
// for rejecting a name collision with GetAttribute first when the spec
// calls for a distinct error (attribute vs method namespace clash).
func (c *ClassType) DefineAttribute(name string, t Type) *Attribute {
	attr := &Attribute{Name: name, Type: t}
	c.Attributes = append(c.Attributes, attr)
	return attr
}

// GetMethod walks the parent chain, same shape as GetAttribute.
func (c *ClassType) GetMethod(name string) (*Method, bool) {
	for _, m := range c.Methods {
		if m.Name == name {
			return m, true
		}
	}
	if parent, ok := c.Parent.(*ClassType); ok {
		return parent.GetMethod(name)
	}
	return nil, false
}

// DefineMethod registers a new method on this type.
func (c *ClassType) DefineMethod(name string, params []Param, ret Type) *Method {
	m := &Method{Name: name, Params: params, ReturnType: ret}
	c.Methods = append(c.Methods, m)
	return m
}

// AllAttributes walks from the root parent down to c, so shadowing
// (a child redeclaring a parent's name) is resolved to the child's
// version while still returning each distinct name once - mirrors
// bruce's Type.all_attributes.
func (c *ClassType) AllAttributes() []*Attribute {
	var chain []*ClassType
	for cur := c; cur != nil; {
		chain = append([]*ClassType{cur}, chain...)
		parent, ok := cur.Parent.(*ClassType)
		if !ok {
			break
		}
		cur = parent
	}
	seen := map[string]*Attribute{}
	order := []string{}
	for _, t := range chain {
		for _, a := range t.Attributes {
			if _, ok := seen[a.Name]; !ok {
				order = append(order, a.Name)
			}
			seen[a.Name] = a
		}
	}
	out := make([]*Attribute, len(order))
	for i, n := range order {
		out[i] = seen[n]
	}
	return out
}

// AllMethods is AllAttributes' analogue for methods.
func (c *ClassType) AllMethods() []*Method {
	var chain []*ClassType
	for cur := c; cur != nil; {
		chain = append([]*ClassType{cur}, chain...)
		parent, ok := cur.Parent.(*ClassType)
		if !ok {
			break
		}
		cur = parent
	}
	seen := map[string]*Method{}
	order := []string{}
	for _, t := range chain {
		for _, m := range t.Methods {
			if _, ok := seen[m.Name]; !ok {
				order = append(order, m.Name)
			}
			seen[m.Name] = m
		}
	}
	out := make([]*Method, len(order))
	for i, n := range order {
		out[i] = seen[n]
	}
	return out
}

// ConformsTo: other is Error, or other is Object, or other is c itself,
// or c's parent conforms to other (spec.md §4.9 / bruce Type.conforms_to).
func (c *ClassType) ConformsTo(other Type) bool {
	if other == Error {
		return true
	}
	if other == Object {
		return true
	}
	if other == Type(c) {
		return true
	}
	if proto, ok := other.(*ProtoType); ok {
		return implementsProto(c, proto)
	}
	if c.Parent != nil {
		return c.Parent.ConformsTo(other)
	}
	return false
}

// ConflictError is returned by the small set of ClassType/ProtoType
// setter methods that can fail at build time; semantic passes translate
// it into a SemanticError carrying the failing node's position.
type ConflictError struct {
	Kind    string
	Message string
}

func (e *ConflictError) Error() string { return e.Message }
