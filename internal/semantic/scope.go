package semantic

import "github.com/hulklang/hulkcore/internal/types"

// Variable is a name bound in a Scope: an attribute, a local let-binding,
// or a function/method parameter (spec.md §3 "Attribute / Variable /
// Constant").
type Variable struct {
	Name string
	Type types.Type // nil until TypeInferer fills it in
}

// FunctionEntry is a name bound to a callable in a Scope - either a
// top-level Function or a TypeDecl method (spec.md §3 "Function /
// Method").
type FunctionEntry struct {
	Name       string
	Params     []types.Param
	ReturnType types.Type
}

// Scope is one frame of the lexical scope tree: an ordered map of local
// variables and an ordered map of local functions, walking to Parent on
// lookup miss (spec.md §4.2). IsFunctionScope flags a frame introduced by
// a Function/method body, used by SemanticChecker (§4.7) to decide
// whether `self` is legal at this point.
type Scope struct {
	vars    map[string]*Variable
	varOrd  []string
	funcs   map[string]*FunctionEntry
	funcOrd []string

	Parent          *Scope
	IsFunctionScope bool

	// OwnerType is set on a method's function scope to the enclosing
	// TypeDecl's ClassType, so `self` resolves without re-walking the AST
	// (spec.md §4.6/§4.7).
	OwnerType *types.ClassType
}

// NewScope creates a detached root scope (used for the pipeline's global
// scope).
func NewScope() *Scope {
	return &Scope{vars: map[string]*Variable{}, funcs: map[string]*FunctionEntry{}}
}

// NewSeededScope returns a global Scope pre-populated with the built-in
// constants and functions (spec.md §6: "seeded_scope contains built-in
// constants E: Number, PI: Number and built-in functions print, range,
// sqrt, exp, log, rand, sin, cos").
func NewSeededScope() *Scope {
	s := NewScope()
	s.vars["E"] = &Variable{Name: "E", Type: types.Number}
	s.varOrd = append(s.varOrd, "E")
	s.vars["PI"] = &Variable{Name: "PI", Type: types.Number}
	s.varOrd = append(s.varOrd, "PI")

	define := func(name string, params []types.Param, ret types.Type) {
		s.funcs[name] = &FunctionEntry{Name: name, Params: params, ReturnType: ret}
		s.funcOrd = append(s.funcOrd, name)
	}
	define("print", []types.Param{{Name: "obj", Type: types.Object}}, types.Object)
	define("range", []types.Param{{Name: "min", Type: types.Number}, {Name: "max", Type: types.Number}}, types.NewVectorType(types.Number))
	define("sqrt", []types.Param{{Name: "value", Type: types.Number}}, types.Number)
	define("exp", []types.Param{{Name: "value", Type: types.Number}}, types.Number)
	define("log", []types.Param{{Name: "base", Type: types.Number}, {Name: "value", Type: types.Number}}, types.Number)
	define("rand", nil, types.Number)
	define("sin", []types.Param{{Name: "value", Type: types.Number}}, types.Number)
	define("cos", []types.Param{{Name: "value", Type: types.Number}}, types.Number)
	return s
}

// BuiltinNames lists the eight call-expression names recognized as
// built-ins regardless of scope lookup (spec.md §6: "The builtins
// recognised by name in call expressions: the eight above").
var BuiltinNames = map[string]bool{
	"print": true, "range": true, "sqrt": true, "exp": true,
	"log": true, "rand": true, "sin": true, "cos": true,
}

// CreateChild returns a new Scope whose Parent is s.
func (s *Scope) CreateChild() *Scope {
	return &Scope{vars: map[string]*Variable{}, funcs: map[string]*FunctionEntry{}, Parent: s}
}

// CreateFunctionChild is CreateChild plus IsFunctionScope set, for a
// Function/method body frame.
func (s *Scope) CreateFunctionChild() *Scope {
	child := s.CreateChild()
	child.IsFunctionScope = true
	return child
}

// DefineVariable adds a variable to this frame. Fails with AlreadyDefined
// on a name collision within the same frame (spec.md §4.2: "definition
// in the current frame fails with AlreadyDefined on name collision").
func (s *Scope) DefineVariable(name string, t types.Type) (*Variable, error) {
	if _, ok := s.vars[name]; ok {
		return nil, &types.ConflictError{Kind: string(AlreadyDefined), Message: name + " already defined in this scope"}
	}
	v := &Variable{Name: name, Type: t}
	s.vars[name] = v
	s.varOrd = append(s.varOrd, name)
	return v, nil
}

// DefineFunction adds a function entry to this frame. Functions and
// variables occupy separate namespaces, so a function and a variable may
// share a name in the same frame.
func (s *Scope) DefineFunction(name string, params []types.Param, ret types.Type) (*FunctionEntry, error) {
	if _, ok := s.funcs[name]; ok {
		return nil, &types.ConflictError{Kind: string(AlreadyDefined), Message: name + " already defined in this scope"}
	}
	f := &FunctionEntry{Name: name, Params: params, ReturnType: ret}
	s.funcs[name] = f
	s.funcOrd = append(s.funcOrd, name)
	return f, nil
}

// FindVariable walks from s to the root looking for name.
func (s *Scope) FindVariable(name string) (*Variable, *Scope, bool) {
	for cur := s; cur != nil; cur = cur.Parent {
		if v, ok := cur.vars[name]; ok {
			return v, cur, true
		}
	}
	return nil, nil, false
}

// FindFunction walks from s to the root looking for name.
func (s *Scope) FindFunction(name string) (*FunctionEntry, bool) {
	for cur := s; cur != nil; cur = cur.Parent {
		if f, ok := cur.funcs[name]; ok {
			return f, true
		}
	}
	return nil, false
}

// FindOwnerType walks from s to the root looking for the nearest
// enclosing method's OwnerType - used to resolve `self` and `base`.
func (s *Scope) FindOwnerType() (*types.ClassType, bool) {
	for cur := s; cur != nil; cur = cur.Parent {
		if cur.IsFunctionScope {
			if cur.OwnerType != nil {
				return cur.OwnerType, true
			}
			return nil, false
		}
	}
	return nil, false
}

// Variables returns this frame's own variables in declaration order.
func (s *Scope) Variables() []*Variable {
	out := make([]*Variable, len(s.varOrd))
	for i, n := range s.varOrd {
		out[i] = s.vars[n]
	}
	return out
}
