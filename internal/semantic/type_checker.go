package semantic

import (
	"github.com/hulklang/hulkcore/internal/ast"
	"github.com/hulklang/hulkcore/internal/types"
)

// TypeChecker is the final pass (spec.md §4.9): it re-walks the fully
// inferred program and checks every admissibility rule, appending one
// diagnostic per violation rather than stopping at the first so a
// single run reports everything.
type TypeChecker struct{}

func NewTypeChecker() *TypeChecker { return &TypeChecker{} }

func (tc *TypeChecker) Name() string { return "TypeChecker" }

func (tc *TypeChecker) Run(program *ast.Program, state *PassState) (*ast.Program, error) {
	for _, decl := range program.Declarations {
		switch n := decl.(type) {
		case *ast.TypeDecl:
			tc.checkTypeDecl(n, state)
		case *ast.Function:
			entry, _ := state.Scope.FindFunction(n.Name.Value)
			scope := tc.funcScope(entry)
			tc.checkExpr(n.Body, state, scope, nil)
		}
	}
	if program.Top != nil {
		tc.checkExpr(program.Top, state, tc.rootScope(), nil)
	}
	return program, nil
}

// allowType is the universal admissibility predicate (spec.md §4.9):
// Proto-to-Object always; Proto-to-Proto via extends; Type-to-Proto via
// implements; Type-to-Type via conforms_to; anything-to-ErrorType and
// ErrorType-to-anything always.
func allowType(a, b types.Type) bool {
	if a == nil || b == nil {
		return true // already reported as UninferrableType; do not cascade
	}
	if a == types.Error || b == types.Error {
		return true
	}
	return a.ConformsTo(b)
}

// concatOperand is the Concat rule's own admissibility check
// (spec.md §4.9: "each side Number or String"): unlike every other
// binary-op check this is deliberately not routed through allowType,
// since the narrowed type here can itself be a Union(Number, String)
// slot still shared with the TypeInferer's own narrowing (spec.md
// §4.8), and a bare builtin never conforms to a UnionType, not even one
// it is a member of - see the Concat narrowing
// entry in DESIGN.md's Open Questions.
func concatOperand(t types.Type) bool {
	if t == nil || t == types.Error {
		return true
	}
	if types.IsNumber(t) || types.IsString(t) {
		return true
	}
	u, ok := t.(*types.UnionType)
	if !ok {
		return false
	}
	for _, m := range u.Members() {
		if !types.IsNumber(m) && !types.IsString(m) {
			return false
		}
	}
	return true
}

type checkFrame struct {
	vars   map[string]types.Type
	parent *checkFrame
	owner  *types.ClassType
	isFunc bool
}

func (tc *TypeChecker) rootScope() *checkFrame { return &checkFrame{vars: map[string]types.Type{}} }

func (tc *TypeChecker) funcScope(entry *FunctionEntry) *checkFrame {
	f := &checkFrame{vars: map[string]types.Type{}, isFunc: true}
	if entry != nil {
		for _, p := range entry.Params {
			f.vars[p.Name] = p.Type
		}
	}
	return f
}

func (f *checkFrame) lookup(name string) (types.Type, bool) {
	for cur := f; cur != nil; cur = cur.parent {
		if t, ok := cur.vars[name]; ok {
			return t, true
		}
	}
	return nil, false
}

func (f *checkFrame) ownerOf() (*types.ClassType, bool) {
	for cur := f; cur != nil; cur = cur.parent {
		if cur.isFunc {
			if cur.owner != nil {
				return cur.owner, true
			}
			return nil, false
		}
	}
	return nil, false
}

func (f *checkFrame) child() *checkFrame {
	return &checkFrame{vars: map[string]types.Type{}, parent: f}
}

func (tc *TypeChecker) checkTypeDecl(n *ast.TypeDecl, state *PassState) {
	class, ok := state.Ctx.GetType(n.Name.Value)
	if !ok {
		return
	}
	ctor := &checkFrame{vars: map[string]types.Type{}}
	for _, p := range class.Params {
		ctor.vars[p.Name] = p.Type
	}

	if class.Parent != nil {
		if parent, ok := class.Parent.(*types.ClassType); ok {
			if len(n.ParentArgs) != len(parent.Params) {
				state.addErr(errArityMismatch(tc.Name(), n.Pos(), n.Parent.Value, len(parent.Params), len(n.ParentArgs)))
			}
			for i, arg := range n.ParentArgs {
				at := tc.checkExpr(arg, state, ctor, nil)
				if i < len(parent.Params) && !allowType(at, parent.Params[i].Type) {
					state.addErr(errTypeMismatch(tc.Name(), arg.Pos(), parent.Params[i].Type, at))
				}
			}
		}
	}

	for _, m := range n.Members {
		switch member := m.(type) {
		case *ast.TypeProperty:
			attr, ok := class.GetAttribute(member.Name.Value)
			if !ok {
				continue
			}
			vt := tc.checkExpr(member.Value, state, ctor, nil)
			if !allowType(vt, attr.Type) {
				state.addErr(errTypeMismatch(tc.Name(), member.Pos(), attr.Type, vt))
			}
		case *ast.Function:
			method, ok := class.GetMethod(member.Name.Value)
			if !ok {
				continue
			}
			mscope := ctor.child()
			mscope.isFunc = true
			mscope.owner = class
			selfShadowed := false
			for _, p := range method.Params {
				if p.Name == "self" {
					selfShadowed = true
				}
				mscope.vars[p.Name] = p.Type
			}
			if selfShadowed {
				mscope.owner = nil
			}
			tc.checkExpr(member.Body, state, mscope, nil)
		}
	}
}

// checkExpr checks expr and returns its type (as already recorded by
// TypeInferer, re-derived structurally here since the checker has no
// separate NodeTypes dependency for expression results beyond what it
// recomputes walking down). The last, unnamed parameter is unused; every
// call passes nil.
func (tc *TypeChecker) checkExpr(expr ast.Expression, state *PassState, scope *checkFrame, _ types.Type) types.Type {
	if expr == nil {
		return nil
	}
	switch n := expr.(type) {
	case *ast.NumberLiteral:
		return types.Number
	case *ast.StringLiteral:
		return types.String
	case *ast.BooleanLiteral:
		return types.Boolean

	case *ast.Identifier:
		if n.Value == "self" {
			if owner, ok := scope.ownerOf(); ok {
				return owner
			}
		}
		if t, ok := scope.lookup(n.Value); ok {
			return t
		}
		if entry, ok := state.Scope.FindFunction(n.Value); ok {
			return entry.ReturnType
		}
		return types.Object

	case *ast.UnaryOp:
		t := tc.checkExpr(n.Operand, state, scope, nil)
		if n.Kind == ast.ArithNeg {
			if !types.IsNumber(t) && t != types.Error {
				state.addErr(errNonNumericOperand(tc.Name(), n.Pos(), "-"))
			}
			return types.Number
		}
		return types.Boolean

	case *ast.BinaryOp:
		return tc.checkBinaryOp(n, state, scope)

	case *ast.TypeMatching:
		tc.checkExpr(n.Target, state, scope, nil)
		return types.Boolean

	case *ast.Downcasting:
		tc.checkExpr(n.Target, state, scope, nil)
		t, _ := state.Ctx.GetTypeOrProto(n.Type.Name)
		return t

	case *ast.Indexing:
		tt := tc.checkExpr(n.Target, state, scope, nil)
		it := tc.checkExpr(n.Index, state, scope, nil)
		vt, ok := tt.(*types.VectorType)
		if !ok && tt != types.Error {
			state.addErr(errIndexTargetNotVector(tc.Name(), n.Pos()))
		}
		if !types.IsNumber(it) && it != types.Error {
			state.addErr(errIndexNotNumber(tc.Name(), n.Pos()))
		}
		if ok && vt.Elem != nil {
			return vt.Elem
		}
		return types.Object

	case *ast.MemberAccessing:
		tt := tc.checkExpr(n.Target, state, scope, nil)
		class, ok := tt.(*types.ClassType)
		if !ok {
			return types.Function
		}
		if attr, ok := class.GetAttribute(n.Member.Value); ok {
			return attr.Type
		}
		if method, ok := class.GetMethod(n.Member.Value); ok {
			return types.NewFunctionType(method.Params, method.ReturnType)
		}
		state.addErr(errUndefinedMember(tc.Name(), n.Pos(), class.Name(), n.Member.Value))
		return types.Error

	case *ast.FunctionCall:
		return tc.checkFunctionCall(n, state, scope)

	case *ast.Conditional:
		var result types.Type
		for _, b := range n.Branches {
			ct := tc.checkExpr(b.Condition, state, scope, nil)
			if !types.IsBoolean(ct) && ct != types.Error {
				state.addErr(errNonBooleanCondition(tc.Name(), b.Condition.Pos()))
			}
			bt := tc.checkExpr(b.Branch, state, scope, nil)
			result = types.Widen(result, bt)
		}
		ft := tc.checkExpr(n.Fallback, state, scope, nil)
		return types.Widen(result, ft)

	case *ast.Loop:
		ct := tc.checkExpr(n.Condition, state, scope, nil)
		if !types.IsBoolean(ct) && ct != types.Error {
			state.addErr(errNonBooleanCondition(tc.Name(), n.Condition.Pos()))
		}
		bt := tc.checkExpr(n.Body, state, scope, nil)
		ft := tc.checkExpr(n.Fallback, state, scope, nil)
		return types.Widen(bt, ft)

	case *ast.LetExpr:
		vt := tc.checkExpr(n.Binding.Value, state, scope, nil)
		declared, ok := state.Types.Get(n.Binding.Name)
		if !ok {
			declared = vt
		}
		if !allowType(vt, declared) {
			state.addErr(errTypeMismatch(tc.Name(), n.Pos(), declared, vt))
		}
		child := scope.child()
		child.vars[n.Binding.Name.Value] = declared
		return tc.checkExpr(n.Body, state, child, nil)

	case *ast.MappedIterable:
		it := tc.checkExpr(n.Iterable, state, scope, nil)
		if !allowType(it, types.IterableProto) {
			state.addErr(errTypeMismatch(tc.Name(), n.Iterable.Pos(), types.IterableProto, it))
		}
		item, _ := state.Types.Get(n.ItemID)
		child := scope.child()
		child.vars[n.ItemID.Value] = item
		mt := tc.checkExpr(n.Map, state, child, nil)
		if item != nil && !allowType(mt, item) {
			state.addErr(errTypeMismatch(tc.Name(), n.Map.Pos(), item, mt))
		}
		return types.NewVectorType(mt)

	case *ast.TypeInstancing:
		return tc.checkTypeInstancing(n, state, scope)

	case *ast.Mutation:
		if id, ok := n.Target.(*ast.Identifier); ok && id.Value == "self" {
			state.addErr(errNotAssignable(tc.Name(), n.Pos()))
		}
		tt := tc.checkExpr(n.Target, state, scope, nil)
		vt := tc.checkExpr(n.Value, state, scope, nil)
		if !allowType(vt, tt) {
			state.addErr(errTypeMismatch(tc.Name(), n.Pos(), tt, vt))
		}
		return vt

	case *ast.Vector:
		var elem types.Type
		for _, it := range n.Items {
			t := tc.checkExpr(it, state, scope, nil)
			if elem == nil {
				elem = t
			} else if !allowType(t, elem) && !allowType(elem, t) {
				state.addErr(errTypeMismatch(tc.Name(), it.Pos(), elem, t))
			}
		}
		return types.NewVectorType(elem)

	case *ast.Block:
		var last types.Type
		for _, e := range n.Expressions {
			last = tc.checkExpr(e, state, scope, nil)
		}
		return last
	}
	return nil
}

func (tc *TypeChecker) checkBinaryOp(n *ast.BinaryOp, state *PassState, scope *checkFrame) types.Type {
	lt := tc.checkExpr(n.Left, state, scope, nil)
	rt := tc.checkExpr(n.Right, state, scope, nil)
	switch n.Kind {
	case ast.ArithOp, ast.PowerOp:
		if !types.IsNumber(lt) && lt != types.Error {
			state.addErr(errNonNumericOperand(tc.Name(), n.Left.Pos(), n.Operator))
		}
		if !types.IsNumber(rt) && rt != types.Error {
			state.addErr(errNonNumericOperand(tc.Name(), n.Right.Pos(), n.Operator))
		}
		return types.Number
	case ast.ComparisonOp:
		if lt != nil && rt != nil && lt.Name() != rt.Name() && lt != types.Error && rt != types.Error {
			state.addErr(errTypeMismatch(tc.Name(), n.Pos(), lt, rt))
		}
		return types.Boolean
	case ast.ConcatOp:
		if !concatOperand(lt) {
			state.addErr(errTypeMismatch(tc.Name(), n.Left.Pos(), types.NewUnionType(types.Number, types.String), lt))
		}
		if !concatOperand(rt) {
			state.addErr(errTypeMismatch(tc.Name(), n.Right.Pos(), types.NewUnionType(types.Number, types.String), rt))
		}
		return types.String
	case ast.LogicOp:
		if !types.IsBoolean(lt) && lt != types.Error {
			state.addErr(errNonBooleanCondition(tc.Name(), n.Left.Pos()))
		}
		if !types.IsBoolean(rt) && rt != types.Error {
			state.addErr(errNonBooleanCondition(tc.Name(), n.Right.Pos()))
		}
		return types.Boolean
	}
	return nil
}

func (tc *TypeChecker) checkFunctionCall(n *ast.FunctionCall, state *PassState, scope *checkFrame) types.Type {
	if ma, ok := n.Target.(*ast.MemberAccessing); ok {
		targetType := tc.checkExpr(ma.Target, state, scope, nil)
		class, ok := targetType.(*types.ClassType)
		if !ok {
			for _, a := range n.Arguments {
				tc.checkExpr(a, state, scope, nil)
			}
			return types.Object
		}
		method, ok := class.GetMethod(ma.Member.Value)
		if !ok {
			state.addErr(errUndefinedMember(tc.Name(), n.Pos(), class.Name(), ma.Member.Value))
			for _, a := range n.Arguments {
				tc.checkExpr(a, state, scope, nil)
			}
			return types.Error
		}
		if len(n.Arguments) != len(method.Params) {
			state.addErr(errArityMismatch(tc.Name(), n.Pos(), ma.Member.Value, len(method.Params), len(n.Arguments)))
		}
		for i, a := range n.Arguments {
			at := tc.checkExpr(a, state, scope, nil)
			if i < len(method.Params) && !allowType(at, method.Params[i].Type) {
				state.addErr(errTypeMismatch(tc.Name(), a.Pos(), method.Params[i].Type, at))
			}
		}
		return method.ReturnType
	}

	id, ok := n.Target.(*ast.Identifier)
	if !ok {
		for _, a := range n.Arguments {
			tc.checkExpr(a, state, scope, nil)
		}
		return types.Object
	}
	entry, ok := state.Scope.FindFunction(id.Value)
	if !ok {
		for _, a := range n.Arguments {
			tc.checkExpr(a, state, scope, nil)
		}
		return builtinCallType(id.Value, nil)
	}
	if len(n.Arguments) != len(entry.Params) {
		state.addErr(errArityMismatch(tc.Name(), n.Pos(), id.Value, len(entry.Params), len(n.Arguments)))
	}
	for i, a := range n.Arguments {
		at := tc.checkExpr(a, state, scope, nil)
		if i < len(entry.Params) && !allowType(at, entry.Params[i].Type) {
			state.addErr(errTypeMismatch(tc.Name(), a.Pos(), entry.Params[i].Type, at))
		}
	}
	return entry.ReturnType
}

func (tc *TypeChecker) checkTypeInstancing(n *ast.TypeInstancing, state *PassState, scope *checkFrame) types.Type {
	class, ok := state.Ctx.GetType(n.TypeName.Value)
	if !ok {
		for _, a := range n.Arguments {
			tc.checkExpr(a, state, scope, nil)
		}
		return types.Object
	}
	if len(n.Arguments) != len(class.Params) {
		state.addErr(errArityMismatch(tc.Name(), n.Pos(), n.TypeName.Value, len(class.Params), len(n.Arguments)))
	}
	for i, a := range n.Arguments {
		at := tc.checkExpr(a, state, scope, nil)
		if i < len(class.Params) && !allowType(at, class.Params[i].Type) {
			state.addErr(errTypeMismatch(tc.Name(), a.Pos(), class.Params[i].Type, at))
		}
	}
	return class
}
