package semantic

import (
	"github.com/hulklang/hulkcore/internal/ast"
	"github.com/hulklang/hulkcore/internal/types"
)

// TypeBuilder is the second declaration pass (spec.md §4.5): resolves
// parents, constructor params, attributes, and methods for every
// TypeDecl; resolves extends and method specs for every Protocol;
// inherits empty constructor param lists from a non-Object parent; and
// finally checks the parent graph for a cycle, reporting
// CircularInheritance on one. No topological order is built.
type TypeBuilder struct{}

func NewTypeBuilder() *TypeBuilder { return &TypeBuilder{} }

func (tb *TypeBuilder) Name() string { return "TypeBuilder" }

func (tb *TypeBuilder) Run(program *ast.Program, state *PassState) (*ast.Program, error) {
	for _, decl := range program.Declarations {
		if n, ok := decl.(*ast.TypeDecl); ok {
			tb.buildType(n, state)
		}
	}
	for _, decl := range program.Declarations {
		if n, ok := decl.(*ast.Protocol); ok {
			tb.buildProtocol(n, state)
		}
	}
	if state.HasErrors() {
		return program, nil
	}

	tb.inheritConstructorParams(state)

	if cyclic, ok := tb.topoSort(state); !ok {
		state.addErr(errCircularInheritance(tb.Name(), program.Pos(), cyclic))
	}

	return program, nil
}

func (tb *TypeBuilder) resolveTypeName(state *PassState, name string) (types.Type, bool) {
	return state.Ctx.GetTypeOrProto(name)
}

func (tb *TypeBuilder) buildType(n *ast.TypeDecl, state *PassState) {
	class, ok := state.Ctx.GetType(n.Name.Value)
	if !ok {
		return // TypeCollector already reported this name
	}

	if n.Parent != nil {
		parentType, ok := tb.resolveTypeName(state, n.Parent.Value)
		if !ok {
			state.addErr(errUndefined(tb.Name(), n.Parent.Pos(), n.Parent.Value))
		} else if err := class.SetParent(parentType); err != nil {
			state.addErr(errAlreadyDefined(tb.Name(), n.Pos(), n.Name.Value))
		}
	}

	class.Params = make([]types.Param, len(n.Params))
	for i, p := range n.Params {
		class.Params[i] = tb.resolveParam(state, p)
	}

	for _, m := range n.Members {
		switch member := m.(type) {
		case *ast.TypeProperty:
			var attrType types.Type
			if member.Type != nil {
				t, ok := tb.resolveTypeName(state, member.Type.Name)
				if !ok {
					state.addErr(errUndefined(tb.Name(), member.Type.Pos(), member.Type.Name))
				} else {
					attrType = t
				}
			}
			class.DefineAttribute(member.Name.Value, attrType)
		case *ast.Function:
			params := make([]types.Param, len(member.Params))
			for i, p := range member.Params {
				params[i] = tb.resolveParam(state, p)
			}
			var retType types.Type
			if member.ReturnType != nil {
				t, ok := tb.resolveTypeName(state, member.ReturnType.Name)
				if !ok {
					state.addErr(errUndefined(tb.Name(), member.ReturnType.Pos(), member.ReturnType.Name))
				} else {
					retType = t
				}
			}
			method := class.DefineMethod(member.Name.Value, params, retType)
			tb.checkOverride(n, member, method, class, state)
		}
	}
}

func (tb *TypeBuilder) resolveParam(state *PassState, p *ast.Parameter) types.Param {
	param := types.Param{Name: p.Name.Value}
	if p.Type != nil {
		if t, ok := tb.resolveTypeName(state, p.Type.Name); ok {
			param.Type = t
		} else {
			state.addErr(errUndefined(tb.Name(), p.Type.Pos(), p.Type.Name))
		}
	}
	return param
}

// checkOverride enforces that a method redeclared on a subtype matches
// its parent's signature pointwise: arity, each parameter type, and
// return type (spec.md §4.5 step 2).
func (tb *TypeBuilder) checkOverride(n *ast.TypeDecl, member *ast.Function, method *types.Method, class *types.ClassType, state *PassState) {
	parent, ok := class.Parent.(*types.ClassType)
	if !ok {
		return
	}
	parentMethod, ok := parent.GetMethod(member.Name.Value)
	if !ok {
		return
	}
	if len(parentMethod.Params) != len(method.Params) {
		state.addErr(errOverrideMismatch(tb.Name(), member.Pos(), member.Name.Value))
		return
	}
	for i := range method.Params {
		if method.Params[i].Type != nil && parentMethod.Params[i].Type != nil &&
			method.Params[i].Type.Name() != parentMethod.Params[i].Type.Name() {
			state.addErr(errOverrideMismatch(tb.Name(), member.Pos(), member.Name.Value))
			return
		}
	}
	if method.ReturnType != nil && parentMethod.ReturnType != nil &&
		method.ReturnType.Name() != parentMethod.ReturnType.Name() {
		state.addErr(errOverrideMismatch(tb.Name(), member.Pos(), member.Name.Value))
	}
}

func (tb *TypeBuilder) buildProtocol(n *ast.Protocol, state *PassState) {
	proto, ok := state.Ctx.GetProtocol(n.Name.Value)
	if !ok {
		return
	}

	for _, e := range n.Extends {
		parent, ok := state.Ctx.GetProtocol(e.Value)
		if !ok {
			state.addErr(errUndefined(tb.Name(), e.Pos(), e.Value))
			continue
		}
		proto.Extends = append(proto.Extends, parent)
	}

	// Collision policy (decided Open Question): disallow any collision
	// between two distinct extended protocols' method specs, rather than
	// taking their union.
	seen := map[string]*types.MethodSpec{}
	for _, parent := range proto.Extends {
		for _, spec := range parent.AllMethodSpecs() {
			if existing, ok := seen[spec.Name]; ok && existing != spec {
				state.addErr(newErr(tb.Name(), AlreadyDefined, n.Pos(),
					"protocol %q: method spec %q collides across extended protocols", n.Name.Value, spec.Name))
			}
			seen[spec.Name] = spec
		}
	}

	for _, m := range n.Methods {
		if _, ok := seen[m.Name.Value]; ok {
			state.addErr(errAlreadyDefined(tb.Name(), m.Pos(), m.Name.Value))
			continue
		}
		params := make([]types.Param, len(m.Params))
		for i, p := range m.Params {
			params[i] = tb.resolveParam(state, p)
		}
		var retType types.Type
		if m.ReturnType != nil {
			t, ok := tb.resolveTypeName(state, m.ReturnType.Name)
			if !ok {
				state.addErr(errUndefined(tb.Name(), m.ReturnType.Pos(), m.ReturnType.Name))
			} else {
				retType = t
			}
		}
		spec := &types.MethodSpec{Name: m.Name.Value, Params: params, ReturnType: retType}
		proto.Methods = append(proto.Methods, spec)
		seen[spec.Name] = spec
	}
}

func specsEqual(a, b *types.MethodSpec) bool {
	if len(a.Params) != len(b.Params) {
		return false
	}
	for i := range a.Params {
		an, bn := "?", "?"
		if a.Params[i].Type != nil {
			an = a.Params[i].Type.Name()
		}
		if b.Params[i].Type != nil {
			bn = b.Params[i].Type.Name()
		}
		if an != bn {
			return false
		}
	}
	ar, br := "?", "?"
	if a.ReturnType != nil {
		ar = a.ReturnType.Name()
	}
	if b.ReturnType != nil {
		br = b.ReturnType.Name()
	}
	return ar == br
}

// inheritConstructorParams gives every type with no declared constructor
// params and a non-Object parent the same params as its parent,
// recursively (spec.md §4.5 step 4).
func (tb *TypeBuilder) inheritConstructorParams(state *PassState) {
	var resolve func(c *types.ClassType) []types.Param
	memo := map[*types.ClassType][]types.Param{}
	resolve = func(c *types.ClassType) []types.Param {
		if p, ok := memo[c]; ok {
			return p
		}
		if len(c.Params) > 0 {
			memo[c] = c.Params
			return c.Params
		}
		parent, ok := c.Parent.(*types.ClassType)
		if !ok {
			memo[c] = nil
			return nil
		}
		memo[c] = nil // stops the recursion on a parent cycle; topoSort reports it
		inherited := resolve(parent)
		c.Params = inherited
		memo[c] = inherited
		return inherited
	}
	for _, c := range state.Ctx.Types() {
		resolve(c)
	}
}

// topoSort walks the type graph by parent edges with a white/gray/black
// DFS; on a cycle it returns the name of a type participating in it and
// ok=false (spec.md §4.5 step 5). It only detects cycles: it does not
// produce or return a topological order.
func (tb *TypeBuilder) topoSort(state *PassState) (string, bool) {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := map[string]int{}
	var cyclic string
	var visit func(name string, c *types.ClassType) bool
	visit = func(name string, c *types.ClassType) bool {
		color[name] = gray
		if parent, ok := c.Parent.(*types.ClassType); ok {
			pname := parent.Name()
			switch color[pname] {
			case gray:
				cyclic = pname
				return false
			case white:
				if parentDecl, ok := state.Ctx.GetType(pname); ok {
					if !visit(pname, parentDecl) {
						return false
					}
				}
			}
		}
		color[name] = black
		return true
	}
	for name, c := range state.Ctx.Types() {
		if color[name] == white {
			if !visit(name, c) {
				return cyclic, false
			}
		}
	}
	return "", true
}
