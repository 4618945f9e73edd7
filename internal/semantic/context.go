package semantic

import (
	"github.com/hulklang/hulkcore/internal/types"
)

// Context owns the Type and Proto maps keyed by name; both namespaces
// share names, so create_type/create_protocol report AlreadyDefined
// against each other too (spec.md §4.1).
type Context struct {
	types     map[string]*types.ClassType
	protocols map[string]*types.ProtoType
}

// NewContext returns an empty Context. Use NewSeededContext to get one
// pre-populated with the built-ins (spec.md §4.1: "seeded before the
// pipeline with Object, Number, String, Boolean, and IterableProto").
func NewContext() *Context {
	return &Context{
		types:     map[string]*types.ClassType{},
		protocols: map[string]*types.ProtoType{},
	}
}

// NewSeededContext returns a Context with Object modeled implicitly
// (types.Object is not itself a *ClassType so it is not entered into the
// types map - lookups for "Object" are special-cased in GetTypeOrProto)
// and IterableProto registered under "Iterable".
func NewSeededContext() *Context {
	ctx := NewContext()
	ctx.protocols["Iterable"] = types.IterableProto
	return ctx
}

func (c *Context) exists(name string) bool {
	switch name {
	case "Object", "Number", "String", "Boolean":
		return true
	}
	_, t := c.types[name]
	_, p := c.protocols[name]
	return t || p
}

// CreateType registers name as a new, empty ClassType. Fails with
// AlreadyDefined if name is already a type or a protocol.
func (c *Context) CreateType(name string) (*types.ClassType, error) {
	if c.exists(name) {
		return nil, &types.ConflictError{Kind: string(AlreadyDefined), Message: name + " already in context"}
	}
	t := types.NewClassType(name)
	c.types[name] = t
	return t, nil
}

// CreateProtocol registers name as a new, empty ProtoType.
func (c *Context) CreateProtocol(name string) (*types.ProtoType, error) {
	if c.exists(name) {
		return nil, &types.ConflictError{Kind: string(AlreadyDefined), Message: name + " already in context"}
	}
	p := types.NewProtoType(name)
	c.protocols[name] = p
	return p, nil
}

// GetType looks up a Type by name; ok is false if name is undefined or
// names a protocol instead.
func (c *Context) GetType(name string) (*types.ClassType, bool) {
	t, ok := c.types[name]
	return t, ok
}

// GetProtocol looks up a Proto by name.
func (c *Context) GetProtocol(name string) (*types.ProtoType, bool) {
	p, ok := c.protocols[name]
	return p, ok
}

// GetTypeOrProto searches both namespaces, and recognizes the built-in
// primitive names that are not stored in either map.
func (c *Context) GetTypeOrProto(name string) (types.Type, bool) {
	switch name {
	case "Object":
		return types.Object, true
	case "Number":
		return types.Number, true
	case "String":
		return types.String, true
	case "Boolean":
		return types.Boolean, true
	}
	if t, ok := c.types[name]; ok {
		return t, true
	}
	if p, ok := c.protocols[name]; ok {
		return p, true
	}
	return nil, false
}

// Types returns every registered ClassType, for passes that need to walk
// the whole type graph (TypeBuilder's topological sort).
func (c *Context) Types() map[string]*types.ClassType { return c.types }

// Protocols returns every registered ProtoType.
func (c *Context) Protocols() map[string]*types.ProtoType { return c.protocols }
