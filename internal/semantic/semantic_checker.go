package semantic

import (
	"github.com/hulklang/hulkcore/internal/ast"
	"github.com/hulklang/hulkcore/internal/types"
)

// SemanticChecker walks the whole program verifying the structural rules
// of spec.md §4.7: every identifier resolves (except a legally-placed
// `self`), call targets are identifiers or member accesses, mutation
// targets are assignable, TypeInstancing names an existing Type with a
// matching constructor arity, and TypeMatching/Downcasting name an
// existing Type or Protocol. It also builds the per-TypeDecl child
// scopes (constructor params, and a function scope per method binding
// `self` unless shadowed) it checks against; these scopes are local to
// this pass, and TypeInferer and TypeChecker build their own frames.
type SemanticChecker struct{}

func NewSemanticChecker() *SemanticChecker { return &SemanticChecker{} }

func (sc *SemanticChecker) Name() string { return "SemanticChecker" }

func (sc *SemanticChecker) Run(program *ast.Program, state *PassState) (*ast.Program, error) {
	for _, decl := range program.Declarations {
		switch n := decl.(type) {
		case *ast.TypeDecl:
			sc.checkType(n, state)
		case *ast.Function:
			scope := state.Scope.CreateFunctionChild()
			for _, p := range n.Params {
				scope.DefineVariable(p.Name.Value, paramType(p, state))
			}
			sc.checkExpr(n.Body, state, scope)
		}
	}
	if program.Top != nil {
		sc.checkExpr(program.Top, state, state.Scope)
	}
	return program, nil
}

func paramType(p *ast.Parameter, state *PassState) types.Type {
	if p.Type == nil {
		return nil
	}
	t, _ := state.Ctx.GetTypeOrProto(p.Type.Name)
	return t
}

func (sc *SemanticChecker) checkType(n *ast.TypeDecl, state *PassState) {
	class, ok := state.Ctx.GetType(n.Name.Value)
	if !ok {
		return
	}
	ctorScope := state.Scope.CreateChild()
	for _, p := range n.Params {
		// self is reserved as a constructor parameter name (decided Open
		// Question): it is already bound as the implicit receiver inside
		// every method, so a constructor param of that name would be
		// ambiguous. Method params may still be named self; see below.
		if p.Name.Value == "self" {
			state.addErr(errAlreadyDefined(sc.Name(), p.Name.Pos(), "self"))
		}
		ctorScope.DefineVariable(p.Name.Value, paramType(p, state))
	}
	for _, arg := range n.ParentArgs {
		sc.checkExpr(arg, state, ctorScope)
	}
	for _, m := range n.Members {
		switch member := m.(type) {
		case *ast.TypeProperty:
			sc.checkExpr(member.Value, state, ctorScope)
		case *ast.Function:
			methodScope := ctorScope.CreateFunctionChild()
			methodScope.OwnerType = class
			selfShadowed := false
			for _, p := range member.Params {
				if p.Name.Value == "self" {
					selfShadowed = true
				}
				methodScope.DefineVariable(p.Name.Value, paramType(p, state))
			}
			if !selfShadowed {
				methodScope.DefineVariable("self", class)
			}
			sc.checkExpr(member.Body, state, methodScope)
		}
	}
}

// checkExpr validates structural rules and recurses; scope is the
// lexical scope expr is evaluated in, growing as LetExpr/Iterator-derived
// constructs introduce child scopes.
func (sc *SemanticChecker) checkExpr(expr ast.Expression, state *PassState, scope *Scope) {
	if expr == nil {
		return
	}
	switch n := expr.(type) {
	case *ast.Identifier:
		sc.checkIdentifier(n, state, scope)
	case *ast.NumberLiteral, *ast.StringLiteral, *ast.BooleanLiteral:
		// leaves
	case *ast.UnaryOp:
		sc.checkExpr(n.Operand, state, scope)
	case *ast.BinaryOp:
		sc.checkExpr(n.Left, state, scope)
		sc.checkExpr(n.Right, state, scope)
	case *ast.Block:
		for _, e := range n.Expressions {
			sc.checkExpr(e, state, scope)
		}
	case *ast.Vector:
		for _, it := range n.Items {
			sc.checkExpr(it, state, scope)
		}
	case *ast.Indexing:
		sc.checkExpr(n.Target, state, scope)
		sc.checkExpr(n.Index, state, scope)
	case *ast.Mutation:
		sc.checkMutationTarget(n.Target, state, scope)
		sc.checkExpr(n.Target, state, scope)
		sc.checkExpr(n.Value, state, scope)
	case *ast.MemberAccessing:
		sc.checkExpr(n.Target, state, scope)
	case *ast.FunctionCall:
		sc.checkCallTarget(n.Target, state, scope)
		sc.checkExpr(n.Target, state, scope)
		for _, a := range n.Arguments {
			sc.checkExpr(a, state, scope)
		}
	case *ast.LetExpr:
		sc.checkExpr(n.Binding.Value, state, scope)
		child := scope.CreateChild()
		child.DefineVariable(n.Binding.Name.Value, annotationType(n.Binding.Type, state))
		sc.checkExpr(n.Body, state, child)
	case *ast.MultipleLetExpr:
		// Fully collapsed by the Desugarer; kept here only in case a test
		// constructs this pass in isolation.
		cur := scope
		for _, b := range n.Bindings {
			sc.checkExpr(b.Value, state, cur)
			cur = cur.CreateChild()
			cur.DefineVariable(b.Name.Value, annotationType(b.Type, state))
		}
		sc.checkExpr(n.Body, state, cur)
	case *ast.MappedIterable:
		sc.checkExpr(n.Iterable, state, scope)
		child := scope.CreateChild()
		child.DefineVariable(n.ItemID.Value, annotationType(n.ItemType, state))
		sc.checkExpr(n.Map, state, child)
	case *ast.Conditional:
		for _, b := range n.Branches {
			sc.checkExpr(b.Condition, state, scope)
			sc.checkExpr(b.Branch, state, scope)
		}
		sc.checkExpr(n.Fallback, state, scope)
	case *ast.Loop:
		sc.checkExpr(n.Condition, state, scope)
		sc.checkExpr(n.Body, state, scope)
		sc.checkExpr(n.Fallback, state, scope)
	case *ast.Iterator:
		sc.checkExpr(n.Iterable, state, scope)
		child := scope.CreateChild()
		child.DefineVariable(n.ItemID.Value, annotationType(n.ItemType, state))
		sc.checkExpr(n.Body, state, child)
		sc.checkExpr(n.Fallback, state, scope)
	case *ast.TypeInstancing:
		sc.checkTypeInstancing(n, state, scope)
	case *ast.Downcasting:
		sc.checkExpr(n.Target, state, scope)
		if _, ok := state.Ctx.GetTypeOrProto(n.Type.Name); !ok {
			state.addErr(errUndefined(sc.Name(), n.Type.Pos(), n.Type.Name))
		}
	case *ast.TypeMatching:
		sc.checkExpr(n.Target, state, scope)
		if _, ok := state.Ctx.GetTypeOrProto(n.Type.Name); !ok {
			state.addErr(errUndefined(sc.Name(), n.Type.Pos(), n.Type.Name))
		}
	}
}

func annotationType(ta *ast.TypeAnnotation, state *PassState) types.Type {
	if ta == nil {
		return nil
	}
	t, _ := state.Ctx.GetTypeOrProto(ta.Name)
	return t
}

// checkIdentifier verifies n resolves to a variable or function in
// scope; `self` is legal only inside a function scope belonging to a
// method (spec.md §4.7).
func (sc *SemanticChecker) checkIdentifier(n *ast.Identifier, state *PassState, scope *Scope) {
	if n.Value == "self" {
		if _, ok := scope.FindOwnerType(); ok {
			return
		}
		if _, _, ok := scope.FindVariable("self"); ok {
			return
		}
		state.addErr(errUndefined(sc.Name(), n.Pos(), "self"))
		return
	}
	if BuiltinNames[n.Value] {
		return
	}
	if _, _, ok := scope.FindVariable(n.Value); ok {
		return
	}
	if _, ok := scope.FindFunction(n.Value); ok {
		return
	}
	state.addErr(errUndefined(sc.Name(), n.Pos(), n.Value))
}

// checkCallTarget enforces that a FunctionCall's target is an Identifier
// or a MemberAccessing (spec.md §4.7/§5).
func (sc *SemanticChecker) checkCallTarget(target ast.Expression, state *PassState, scope *Scope) {
	switch target.(type) {
	case *ast.Identifier, *ast.MemberAccessing:
		return
	default:
		state.addErr(errInvalidCallTarget(sc.Name(), target.Pos()))
	}
}

// checkMutationTarget enforces that a Mutation's target is a non-builtin
// identifier, an Indexing, or a MemberAccessing (spec.md §4.7/§5).
func (sc *SemanticChecker) checkMutationTarget(target ast.Expression, state *PassState, scope *Scope) {
	switch t := target.(type) {
	case *ast.Identifier:
		if t.IsBuiltin {
			state.addErr(errNotAssignable(sc.Name(), t.Pos()))
		}
	case *ast.Indexing, *ast.MemberAccessing:
		return
	default:
		state.addErr(errNotAssignable(sc.Name(), target.Pos()))
	}
}

// checkTypeInstancing enforces that TypeInstancing names a Type (not a
// Protocol) that exists, with a matching constructor arity
// (spec.md §4.7).
func (sc *SemanticChecker) checkTypeInstancing(n *ast.TypeInstancing, state *PassState, scope *Scope) {
	for _, a := range n.Arguments {
		sc.checkExpr(a, state, scope)
	}
	if _, isProto := state.Ctx.GetProtocol(n.TypeName.Value); isProto {
		state.addErr(errProtocolInstantiation(sc.Name(), n.Pos(), n.TypeName.Value))
		return
	}
	class, ok := state.Ctx.GetType(n.TypeName.Value)
	if !ok {
		state.addErr(errUndefined(sc.Name(), n.TypeName.Pos(), n.TypeName.Value))
		return
	}
	if len(class.Params) != len(n.Arguments) {
		state.addErr(errArityMismatch(sc.Name(), n.Pos(), n.TypeName.Value, len(class.Params), len(n.Arguments)))
	}
}
