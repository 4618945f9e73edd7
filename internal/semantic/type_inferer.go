package semantic

import (
	"github.com/hulklang/hulkcore/internal/ast"
	"github.com/hulklang/hulkcore/internal/types"
)

// TypeInferer runs the fixed-point loop described in spec.md §4.8: every
// iteration visits the whole program, narrowing each declared-but-
// unannotated type slot toward a concrete type; the loop stops once a
// full pass narrows nothing. Slots live in three places depending on
// what they annotate:
//   - a TypeDecl's constructor params/attributes/method params+returns,
//     which persist on the *types.ClassType built by TypeBuilder;
//   - a top-level Function's params/return, which persist on the
//     *FunctionEntry in the global Scope;
//   - a LetExpr/MappedIterable binding, which has no Context-level home
//     and is instead tracked in PassState.Types keyed by the binding's
//     *ast.Identifier node.
type TypeInferer struct {
	// validating is set for the one extra walk run after the fixed point
	// is reached, so member-existence errors are reported exactly once
	// rather than once per narrowing iteration.
	validating bool
}

func NewTypeInferer() *TypeInferer { return &TypeInferer{} }

func (ti *TypeInferer) Name() string { return "TypeInferer" }

// inferScope is a lexical frame used only during inference: each
// variable maps to a pointer into its slot's persistent storage, so a
// narrowing made while visiting one occurrence is visible to every other
// occurrence, in this pass and in the next.
type inferScope struct {
	vars      map[string]*types.Type
	parent    *inferScope
	ownerType *types.ClassType
	isFunc    bool
}

func newInferScope(parent *inferScope) *inferScope {
	return &inferScope{vars: map[string]*types.Type{}, parent: parent}
}

func (s *inferScope) lookup(name string) (*types.Type, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if slot, ok := cur.vars[name]; ok {
			return slot, true
		}
	}
	return nil, false
}

func (s *inferScope) ownerOf() (*types.ClassType, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if cur.isFunc {
			if cur.ownerType != nil {
				return cur.ownerType, true
			}
			return nil, false
		}
	}
	return nil, false
}

func (ti *TypeInferer) Run(program *ast.Program, state *PassState) (*ast.Program, error) {
	const maxPasses = 10000 // guaranteed to terminate (spec.md §4: monotone narrowing bound)
	for pass := 0; pass < maxPasses; pass++ {
		occurs := false
		root := newInferScope(nil)
		for _, decl := range program.Declarations {
			switch n := decl.(type) {
			case *ast.TypeDecl:
				ti.inferTypeDecl(n, state, root, &occurs)
			case *ast.Function:
				ti.inferFunction(n, state, root, &occurs)
			}
		}
		if program.Top != nil {
			ti.infer(program.Top, state, root, &occurs)
		}
		if !occurs {
			break
		}
	}

	// One extra walk over the converged types to report member-existence
	// errors (spec.md §4.8/§7): method sets are fixed by TypeBuilder, so
	// this is safe to check only once the fixed point is reached rather
	// than on every narrowing iteration.
	ti.validating = true
	finalOccurs := false
	root := newInferScope(nil)
	for _, decl := range program.Declarations {
		switch n := decl.(type) {
		case *ast.TypeDecl:
			ti.inferTypeDecl(n, state, root, &finalOccurs)
		case *ast.Function:
			ti.inferFunction(n, state, root, &finalOccurs)
		}
	}
	if program.Top != nil {
		ti.infer(program.Top, state, root, &finalOccurs)
	}

	ti.reportUninferrable(program, state)
	return program, nil
}

func narrowSlot(slot *types.Type, t types.Type, occurs *bool) types.Type {
	if t == nil {
		return *slot
	}
	newVal, changed := types.Narrow(*slot, t)
	if changed {
		*slot = newVal
		*occurs = true
	}
	return *slot
}

func (ti *TypeInferer) inferTypeDecl(n *ast.TypeDecl, state *PassState, root *inferScope, occurs *bool) {
	class, ok := state.Ctx.GetType(n.Name.Value)
	if !ok {
		return
	}
	ctorScope := newInferScope(root)
	for i := range class.Params {
		ctorScope.vars[class.Params[i].Name] = &class.Params[i].Type
	}
	for _, arg := range n.ParentArgs {
		ti.infer(arg, state, ctorScope, occurs)
	}
	for _, m := range n.Members {
		switch member := m.(type) {
		case *ast.TypeProperty:
			attr, ok := class.GetAttribute(member.Name.Value)
			if !ok {
				continue
			}
			v := ti.infer(member.Value, state, ctorScope, occurs)
			narrowSlot(&attr.Type, v, occurs)
		case *ast.Function:
			ti.inferMethod(member, class, state, ctorScope, occurs)
		}
	}
}

func (ti *TypeInferer) inferMethod(fn *ast.Function, class *types.ClassType, state *PassState, parent *inferScope, occurs *bool) {
	method, ok := class.GetMethod(fn.Name.Value)
	if !ok {
		return
	}
	scope := newInferScope(parent)
	scope.isFunc = true
	scope.ownerType = class
	selfShadowed := false
	for i := range method.Params {
		if method.Params[i].Name == "self" {
			selfShadowed = true
		}
		scope.vars[method.Params[i].Name] = &method.Params[i].Type
	}
	if selfShadowed {
		scope.ownerType = nil
	}
	result := ti.infer(fn.Body, state, scope, occurs)
	narrowSlot(&method.ReturnType, result, occurs)
}

func (ti *TypeInferer) inferFunction(fn *ast.Function, state *PassState, root *inferScope, occurs *bool) {
	entry, ok := state.Scope.FindFunction(fn.Name.Value)
	if !ok {
		return
	}
	scope := newInferScope(root)
	scope.isFunc = true
	for i := range entry.Params {
		scope.vars[entry.Params[i].Name] = &entry.Params[i].Type
	}
	result := ti.infer(fn.Body, state, scope, occurs)
	narrowSlot(&entry.ReturnType, result, occurs)
}

// infer visits expr, returning its currently-inferred type (which may be
// nil if it cannot yet be determined) and narrowing whatever slots it
// touches along the way.
func (ti *TypeInferer) infer(expr ast.Expression, state *PassState, scope *inferScope, occurs *bool) types.Type {
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
		return ti.inferIdentifier(n, state, scope, occurs)

	case *ast.UnaryOp:
		switch n.Kind {
		case ast.ArithNeg:
			v := ti.infer(n.Operand, state, scope, occurs)
			ti.narrowExpr(n.Operand, state, scope, occurs, types.Number)
			_ = v
			return types.Number
		default: // Neg
			ti.infer(n.Operand, state, scope, occurs)
			ti.narrowExpr(n.Operand, state, scope, occurs, types.Boolean)
			return types.Boolean
		}

	case *ast.BinaryOp:
		return ti.inferBinaryOp(n, state, scope, occurs)

	case *ast.TypeMatching:
		ti.infer(n.Target, state, scope, occurs)
		return types.Boolean

	case *ast.Downcasting:
		ti.infer(n.Target, state, scope, occurs)
		t, _ := state.Ctx.GetTypeOrProto(n.Type.Name)
		return t

	case *ast.Indexing:
		target := ti.infer(n.Target, state, scope, occurs)
		ti.infer(n.Index, state, scope, occurs)
		if vt, ok := target.(*types.VectorType); ok && vt.Elem != nil {
			return vt.Elem
		}
		return types.Object

	case *ast.MemberAccessing:
		return ti.inferMemberAccessing(n, state, scope, occurs)

	case *ast.FunctionCall:
		return ti.inferFunctionCall(n, state, scope, occurs)

	case *ast.Conditional:
		var result types.Type
		unknown := false
		for _, b := range n.Branches {
			ti.infer(b.Condition, state, scope, occurs)
			bt := ti.infer(b.Branch, state, scope, occurs)
			if bt == nil {
				unknown = true
				continue
			}
			result = types.Widen(result, bt)
		}
		ft := ti.infer(n.Fallback, state, scope, occurs)
		if ft == nil {
			unknown = true
		} else {
			result = types.Widen(result, ft)
		}
		if unknown {
			return nil
		}
		return result

	case *ast.Loop:
		ti.infer(n.Condition, state, scope, occurs)
		bodyT := ti.infer(n.Body, state, scope, occurs)
		fallT := ti.infer(n.Fallback, state, scope, occurs)
		if bodyT == nil || (n.Fallback != nil && fallT == nil) {
			return nil
		}
		return types.Widen(bodyT, fallT)

	case *ast.LetExpr:
		return ti.inferLetExpr(n, state, scope, occurs)

	case *ast.MappedIterable:
		return ti.inferMappedIterable(n, state, scope, occurs)

	case *ast.TypeInstancing:
		return ti.inferTypeInstancing(n, state, scope, occurs)

	case *ast.Mutation:
		ti.infer(n.Target, state, scope, occurs)
		v := ti.infer(n.Value, state, scope, occurs)
		ti.narrowExpr(n.Target, state, scope, occurs, v)
		return v

	case *ast.Vector:
		var elem types.Type
		for _, it := range n.Items {
			t := ti.infer(it, state, scope, occurs)
			elem = types.Widen(elem, t)
		}
		return types.NewVectorType(elem)

	case *ast.Block:
		var last types.Type
		for _, e := range n.Expressions {
			last = ti.infer(e, state, scope, occurs)
		}
		return last

	case *ast.MultipleLetExpr:
		// Fully collapsed by the Desugarer; not expected to reach here in
		// a normal pipeline run.
		cur := scope
		for _, b := range n.Bindings {
			v := ti.infer(b.Value, state, cur, occurs)
			slot := new(types.Type)
			*slot = v
			cur = newInferScope(cur)
			cur.vars[b.Name.Value] = slot
		}
		return ti.infer(n.Body, state, cur, occurs)

	case *ast.Iterator:
		// Fully collapsed by the Desugarer; see MultipleLetExpr above.
		ti.infer(n.Iterable, state, scope, occurs)
		child := newInferScope(scope)
		slot := new(types.Type)
		child.vars[n.ItemID.Value] = slot
		return ti.infer(n.Body, state, child, occurs)
	}
	return nil
}

func (ti *TypeInferer) narrowExpr(expr ast.Expression, state *PassState, scope *inferScope, occurs *bool, t types.Type) {
	id, ok := expr.(*ast.Identifier)
	if !ok || t == nil {
		return
	}
	if slot, ok := scope.lookup(id.Value); ok {
		narrowSlot(slot, t, occurs)
	}
}

func (ti *TypeInferer) inferIdentifier(n *ast.Identifier, state *PassState, scope *inferScope, occurs *bool) types.Type {
	if n.Value == "self" {
		if owner, ok := scope.ownerOf(); ok {
			return owner
		}
		return types.Function
	}
	if slot, ok := scope.lookup(n.Value); ok {
		return *slot
	}
	if entry, ok := state.Scope.FindFunction(n.Value); ok {
		return entry.ReturnType
	}
	return types.Function
}

func (ti *TypeInferer) inferBinaryOp(n *ast.BinaryOp, state *PassState, scope *inferScope, occurs *bool) types.Type {
	ti.infer(n.Left, state, scope, occurs)
	ti.infer(n.Right, state, scope, occurs)
	switch n.Kind {
	case ast.ArithOp, ast.PowerOp:
		ti.narrowExpr(n.Left, state, scope, occurs, types.Number)
		ti.narrowExpr(n.Right, state, scope, occurs, types.Number)
		return types.Number
	case ast.ComparisonOp:
		ti.narrowExpr(n.Left, state, scope, occurs, types.Number)
		ti.narrowExpr(n.Right, state, scope, occurs, types.Number)
		return types.Boolean
	case ast.LogicOp:
		ti.narrowExpr(n.Left, state, scope, occurs, types.Boolean)
		ti.narrowExpr(n.Right, state, scope, occurs, types.Boolean)
		return types.Boolean
	case ast.ConcatOp:
		union := types.NewUnionType(types.Number, types.String)
		ti.narrowExpr(n.Left, state, scope, occurs, types.Type(union))
		ti.narrowExpr(n.Right, state, scope, occurs, types.Type(union))
		return types.String
	}
	return nil
}

// inferMemberAccessing: on self, the attribute type if one exists on the
// owning type, else Function; on any other target, the target is
// narrowed toward a union of every type/protocol declaring the named
// member and the result is the Function placeholder (spec.md §4.8).
func (ti *TypeInferer) inferMemberAccessing(n *ast.MemberAccessing, state *PassState, scope *inferScope, occurs *bool) types.Type {
	if id, ok := n.Target.(*ast.Identifier); ok && id.Value == "self" {
		if owner, ok := scope.ownerOf(); ok {
			if attr, ok := owner.GetAttribute(n.Member.Value); ok {
				return attr.Type
			}
			if ti.validating {
				if _, ok := owner.GetMethod(n.Member.Value); !ok {
					state.addErr(errUndefinedMember(ti.Name(), n.Pos(), owner.Name(), n.Member.Value))
				}
			}
		}
		return types.Function
	}
	targetType := ti.infer(n.Target, state, scope, occurs)
	if ti.validating {
		if class, ok := targetType.(*types.ClassType); ok {
			_, hasMethod := class.GetMethod(n.Member.Value)
			_, hasAttr := class.GetAttribute(n.Member.Value)
			if !hasMethod && !hasAttr {
				state.addErr(errUndefinedMember(ti.Name(), n.Pos(), class.Name(), n.Member.Value))
			}
		}
	}
	var candidates []types.Type
	for _, c := range state.Ctx.Types() {
		if _, ok := c.GetMethod(n.Member.Value); ok {
			candidates = append(candidates, c)
			continue
		}
		if _, ok := c.GetAttribute(n.Member.Value); ok {
			candidates = append(candidates, c)
		}
	}
	for _, p := range state.Ctx.Protocols() {
		for _, spec := range p.AllMethodSpecs() {
			if spec.Name == n.Member.Value {
				candidates = append(candidates, p)
				break
			}
		}
	}
	if len(candidates) > 0 {
		ti.narrowExpr(n.Target, state, scope, occurs, types.NewUnionType(candidates...))
	}
	return types.Function
}

// inferFunctionCall covers both a free-function call (target is a plain
// Identifier naming a function) and a method call (target is a
// MemberAccessing) per spec.md §4.8.
func (ti *TypeInferer) inferFunctionCall(n *ast.FunctionCall, state *PassState, scope *inferScope, occurs *bool) types.Type {
	argTypes := make([]types.Type, len(n.Arguments))
	for i, a := range n.Arguments {
		argTypes[i] = ti.infer(a, state, scope, occurs)
	}

	if ma, ok := n.Target.(*ast.MemberAccessing); ok {
		targetType := ti.infer(ma.Target, state, scope, occurs)
		class, ok := targetType.(*types.ClassType)
		if !ok {
			return types.Object
		}
		method, ok := class.GetMethod(ma.Member.Value)
		if !ok {
			if ti.validating {
				state.addErr(errUndefinedMember(ti.Name(), n.Pos(), class.Name(), ma.Member.Value))
				return types.Error
			}
			return types.Object
		}
		for i, a := range n.Arguments {
			if i < len(method.Params) {
				ti.narrowExpr(a, state, scope, occurs, method.Params[i].Type)
			}
		}
		return method.ReturnType
	}

	if id, ok := n.Target.(*ast.Identifier); ok {
		if entry, ok := state.Scope.FindFunction(id.Value); ok {
			for i, a := range n.Arguments {
				if i < len(entry.Params) {
					ti.narrowExpr(a, state, scope, occurs, entry.Params[i].Type)
				}
			}
			return entry.ReturnType
		}
		return builtinCallType(id.Value, argTypes)
	}
	return types.Object
}

// builtinCallType gives the eight seeded built-ins' return types without
// a Scope lookup, for calls the Desugarer or tests may construct
// directly against the built-in names.
func builtinCallType(name string, args []types.Type) types.Type {
	switch name {
	case "print":
		return types.Object
	case "range":
		return types.NewVectorType(types.Number)
	case "sqrt", "exp", "log", "rand", "sin", "cos":
		return types.Number
	}
	return nil
}

func (ti *TypeInferer) inferLetExpr(n *ast.LetExpr, state *PassState, scope *inferScope, occurs *bool) types.Type {
	v := ti.infer(n.Binding.Value, state, scope, occurs)
	slot, existing := state.Types.Get(n.Binding.Name)
	if !existing {
		if n.Binding.Type != nil {
			if a, ok := state.Ctx.GetTypeOrProto(n.Binding.Type.Name); ok {
				slot = a
			}
		} else {
			slot = v
		}
	}
	current := slot
	narrowed, changed := types.Narrow(current, v)
	if changed {
		*occurs = true
		current = narrowed
	}
	state.Types.Set(n.Binding.Name, current)

	child := newInferScope(scope)
	ref := current
	child.vars[n.Binding.Name.Value] = &ref
	result := ti.infer(n.Body, state, child, occurs)
	if ref != current {
		state.Types.Set(n.Binding.Name, ref)
		*occurs = true
	}
	return result
}

func (ti *TypeInferer) inferMappedIterable(n *ast.MappedIterable, state *PassState, scope *inferScope, occurs *bool) types.Type {
	iterT := ti.infer(n.Iterable, state, scope, occurs)
	ti.narrowExpr(n.Iterable, state, scope, occurs, types.IterableProto)

	var item types.Type = types.Object
	switch it := iterT.(type) {
	case *types.VectorType:
		if it.Elem != nil {
			item = it.Elem
		}
	case *types.ClassType:
		if m, ok := it.GetMethod("current"); ok && m.ReturnType != nil {
			item = m.ReturnType
		}
	}
	if n.ItemType != nil {
		if a, ok := state.Ctx.GetTypeOrProto(n.ItemType.Name); ok {
			item = a
		}
	}

	child := newInferScope(scope)
	ref := item
	child.vars[n.ItemID.Value] = &ref
	m := ti.infer(n.Map, state, child, occurs)
	if ref != item {
		*occurs = true
	}
	state.Types.Set(n.ItemID, ref)
	if m == nil {
		m = types.Object
	}
	return types.NewVectorType(m)
}

func (ti *TypeInferer) inferTypeInstancing(n *ast.TypeInstancing, state *PassState, scope *inferScope, occurs *bool) types.Type {
	class, ok := state.Ctx.GetType(n.TypeName.Value)
	for i, a := range n.Arguments {
		ti.infer(a, state, scope, occurs)
		if ok && i < len(class.Params) {
			ti.narrowExpr(a, state, scope, occurs, class.Params[i].Type)
		}
	}
	if !ok {
		return types.Object
	}
	return class
}

// reportUninferrable walks every declared-but-unannotated slot after the
// fixed point and reports UninferrableType for any still nil
// (spec.md §4.8/§5).
func (ti *TypeInferer) reportUninferrable(program *ast.Program, state *PassState) {
	for _, c := range state.Ctx.Types() {
		for i, p := range c.Params {
			if p.Type == nil {
				state.addErr(errUninferrableType(ti.Name(), program.Pos(), c.Name()+" constructor param "+p.Name))
			}
			_ = i
		}
		for _, a := range c.Attributes {
			if a.Type == nil {
				state.addErr(errUninferrableType(ti.Name(), program.Pos(), c.Name()+" attribute "+a.Name))
			}
		}
		for _, m := range c.Methods {
			for _, p := range m.Params {
				if p.Type == nil {
					state.addErr(errUninferrableType(ti.Name(), program.Pos(), c.Name()+"."+m.Name+" param "+p.Name))
				}
			}
			if m.ReturnType == nil {
				state.addErr(errUninferrableType(ti.Name(), program.Pos(), c.Name()+"."+m.Name+" return type"))
			}
		}
	}
	for _, decl := range program.Declarations {
		fn, ok := decl.(*ast.Function)
		if !ok {
			continue
		}
		entry, ok := state.Scope.FindFunction(fn.Name.Value)
		if !ok {
			continue
		}
		for _, p := range entry.Params {
			if p.Type == nil {
				state.addErr(errUninferrableType(ti.Name(), fn.Pos(), fn.Name.Value+" param "+p.Name))
			}
		}
		if entry.ReturnType == nil {
			state.addErr(errUninferrableType(ti.Name(), fn.Pos(), fn.Name.Value+" return type"))
		}
	}
	ti.walkLetBindings(program, state)
}

// walkLetBindings re-traverses the tree purely to find LetExpr bindings
// whose NodeTypes slot is missing or nil. MappedIterable items are not
// checked: their slot always holds a type (Object when nothing narrower
// is known).
func (ti *TypeInferer) walkLetBindings(program *ast.Program, state *PassState) {
	var walk func(ast.Expression)
	walk = func(expr ast.Expression) {
		if expr == nil {
			return
		}
		switch n := expr.(type) {
		case *ast.LetExpr:
			if t, ok := state.Types.Get(n.Binding.Name); !ok || t == nil {
				state.addErr(errUninferrableType(ti.Name(), n.Pos(), "let binding "+n.Binding.Name.Value))
			}
			walk(n.Binding.Value)
			walk(n.Body)
		case *ast.Block:
			for _, e := range n.Expressions {
				walk(e)
			}
		case *ast.Conditional:
			for _, b := range n.Branches {
				walk(b.Condition)
				walk(b.Branch)
			}
			walk(n.Fallback)
		case *ast.Loop:
			walk(n.Condition)
			walk(n.Body)
			walk(n.Fallback)
		case *ast.Mutation:
			walk(n.Target)
			walk(n.Value)
		case *ast.MemberAccessing:
			walk(n.Target)
		case *ast.FunctionCall:
			walk(n.Target)
			for _, a := range n.Arguments {
				walk(a)
			}
		case *ast.BinaryOp:
			walk(n.Left)
			walk(n.Right)
		case *ast.UnaryOp:
			walk(n.Operand)
		case *ast.Indexing:
			walk(n.Target)
			walk(n.Index)
		case *ast.Vector:
			for _, it := range n.Items {
				walk(it)
			}
		case *ast.MappedIterable:
			walk(n.Iterable)
			walk(n.Map)
		case *ast.TypeInstancing:
			for _, a := range n.Arguments {
				walk(a)
			}
		case *ast.Downcasting:
			walk(n.Target)
		case *ast.TypeMatching:
			walk(n.Target)
		}
	}
	for _, decl := range program.Declarations {
		switch n := decl.(type) {
		case *ast.Function:
			walk(n.Body)
		case *ast.TypeDecl:
			for _, m := range n.Members {
				switch member := m.(type) {
				case *ast.Function:
					walk(member.Body)
				case *ast.TypeProperty:
					walk(member.Value)
				}
			}
		}
	}
	walk(program.Top)
}
