package semantic

import (
	"fmt"

	"github.com/hulklang/hulkcore/internal/ast"
	"github.com/hulklang/hulkcore/internal/token"
)

// Desugarer rewrites the AST to a smaller core language before any other
// pass runs (spec.md §4.3): MultipleLetExpr collapses to nested LetExprs,
// Iterator collapses to a LetExpr/Loop pair, and base(args) becomes a
// downcast-and-call. The returned Program is new, but the declarations
// and expressions it holds are the input's own nodes, rewritten in place.
// The pass's state is a fresh-name counter and the PassState it reports
// BaseMisuse to.
type Desugarer struct {
	fresh int
	state *PassState
}

func NewDesugarer() *Desugarer { return &Desugarer{} }

func (d *Desugarer) Name() string { return "Desugarer" }

func (d *Desugarer) Run(program *ast.Program, state *PassState) (*ast.Program, error) {
	d.state = state
	out := &ast.Program{Top: program.Top}
	for _, decl := range program.Declarations {
		out.Declarations = append(out.Declarations, d.desugarDecl(decl, nil))
	}
	if program.Top != nil {
		out.Top = d.desugarExpr(program.Top, nil)
	}
	return out, nil
}

// methodCtx tracks the enclosing TypeDecl and Function while rewriting a
// method body, so base(args) can be resolved.
type methodCtx struct {
	owner      *ast.TypeDecl
	methodName string
}

func (d *Desugarer) desugarDecl(decl ast.Declaration, mc *methodCtx) ast.Declaration {
	switch n := decl.(type) {
	case *ast.TypeDecl:
		members := make([]ast.Member, len(n.Members))
		for i, m := range n.Members {
			members[i] = d.desugarMember(m, n)
		}
		n.Members = members
		return n
	case *ast.Function:
		if n.Body != nil {
			n.Body = d.desugarExpr(n.Body, mc)
		}
		return n
	default:
		return decl
	}
}

func (d *Desugarer) desugarMember(m ast.Member, owner *ast.TypeDecl) ast.Member {
	switch n := m.(type) {
	case *ast.Function:
		mc := &methodCtx{owner: owner, methodName: n.Name.Value}
		if n.Body != nil {
			n.Body = d.desugarExpr(n.Body, mc)
		}
		return n
	case *ast.TypeProperty:
		n.Value = d.desugarExpr(n.Value, &methodCtx{owner: owner})
		return n
	default:
		return m
	}
}

func (d *Desugarer) nextName() string {
	d.fresh++
	return fmt.Sprintf("$iterable%d", d.fresh)
}

// desugarExpr returns the rewritten expression. mc is nil outside any
// method body.
func (d *Desugarer) desugarExpr(expr ast.Expression, mc *methodCtx) ast.Expression {
	if expr == nil {
		return nil
	}
	switch n := expr.(type) {
	case *ast.MultipleLetExpr:
		return d.desugarMultipleLet(n, mc)
	case *ast.Iterator:
		return d.desugarIterator(n, mc)
	case *ast.FunctionCall:
		if id, ok := n.Target.(*ast.Identifier); ok && id.Value == "base" {
			return d.desugarBaseCall(n, mc)
		}
		n.Target = d.desugarExpr(n.Target, mc)
		for i, a := range n.Arguments {
			n.Arguments[i] = d.desugarExpr(a, mc)
		}
		return n
	case *ast.LetExpr:
		n.Binding.Value = d.desugarExpr(n.Binding.Value, mc)
		n.Body = d.desugarExpr(n.Body, mc)
		return n
	case *ast.Block:
		for i, e := range n.Expressions {
			n.Expressions[i] = d.desugarExpr(e, mc)
		}
		return n
	case *ast.Conditional:
		for i := range n.Branches {
			n.Branches[i].Condition = d.desugarExpr(n.Branches[i].Condition, mc)
			n.Branches[i].Branch = d.desugarExpr(n.Branches[i].Branch, mc)
		}
		n.Fallback = d.desugarExpr(n.Fallback, mc)
		return n
	case *ast.Loop:
		n.Condition = d.desugarExpr(n.Condition, mc)
		n.Body = d.desugarExpr(n.Body, mc)
		n.Fallback = d.desugarExpr(n.Fallback, mc)
		return n
	case *ast.Mutation:
		n.Target = d.desugarExpr(n.Target, mc)
		n.Value = d.desugarExpr(n.Value, mc)
		return n
	case *ast.MemberAccessing:
		n.Target = d.desugarExpr(n.Target, mc)
		return n
	case *ast.Indexing:
		n.Target = d.desugarExpr(n.Target, mc)
		n.Index = d.desugarExpr(n.Index, mc)
		return n
	case *ast.BinaryOp:
		n.Left = d.desugarExpr(n.Left, mc)
		n.Right = d.desugarExpr(n.Right, mc)
		return n
	case *ast.UnaryOp:
		n.Operand = d.desugarExpr(n.Operand, mc)
		return n
	case *ast.Vector:
		for i, it := range n.Items {
			n.Items[i] = d.desugarExpr(it, mc)
		}
		return n
	case *ast.MappedIterable:
		n.Map = d.desugarExpr(n.Map, mc)
		n.Iterable = d.desugarExpr(n.Iterable, mc)
		return n
	case *ast.TypeInstancing:
		for i, a := range n.Arguments {
			n.Arguments[i] = d.desugarExpr(a, mc)
		}
		return n
	case *ast.Downcasting:
		n.Target = d.desugarExpr(n.Target, mc)
		return n
	case *ast.TypeMatching:
		n.Target = d.desugarExpr(n.Target, mc)
		return n
	default:
		// Identifier, NumberLiteral, StringLiteral, BooleanLiteral: no
		// children to rewrite.
		return expr
	}
}

// desugarMultipleLet rewrites let b1, ..., bn in body into nested
// LetExprs (spec.md §4.3).
func (d *Desugarer) desugarMultipleLet(n *ast.MultipleLetExpr, mc *methodCtx) ast.Expression {
	body := d.desugarExpr(n.Body, mc)
	for i := len(n.Bindings) - 1; i >= 0; i-- {
		b := n.Bindings[i]
		body = &ast.LetExpr{
			Token: n.Token,
			Binding: ast.LetBinding{
				Name:  b.Name,
				Type:  b.Type,
				Value: d.desugarExpr(b.Value, mc),
			},
			Body: body,
		}
	}
	return body
}

// desugarIterator rewrites for (id in iterable) body fallback into:
//
//	let $iterableN: Iterable = iterable in
//	  while ($iterableN.next())
//	    let id[: T] = $iterableN.current() in body
//	  else fallback
//
// (spec.md §4.3).
func (d *Desugarer) desugarIterator(n *ast.Iterator, mc *methodCtx) ast.Expression {
	iterable := d.desugarExpr(n.Iterable, mc)
	body := d.desugarExpr(n.Body, mc)
	fallback := d.desugarExpr(n.Fallback, mc)

	freshName := d.nextName()
	freshID := &ast.Identifier{Token: n.Token, Value: freshName}
	iterableType := &ast.TypeAnnotation{Token: n.Token, Name: "Iterable"}

	nextCall := &ast.FunctionCall{
		Token: n.Token,
		Target: &ast.MemberAccessing{
			Token:  n.Token,
			Target: &ast.Identifier{Token: n.Token, Value: freshName},
			Member: &ast.Identifier{Token: n.Token, Value: "next"},
		},
	}
	currentCall := &ast.FunctionCall{
		Token: n.Token,
		Target: &ast.MemberAccessing{
			Token:  n.Token,
			Target: &ast.Identifier{Token: n.Token, Value: freshName},
			Member: &ast.Identifier{Token: n.Token, Value: "current"},
		},
	}

	innerLet := &ast.LetExpr{
		Token: n.Token,
		Binding: ast.LetBinding{
			Name:  n.ItemID,
			Type:  n.ItemType,
			Value: currentCall,
		},
		Body: body,
	}

	loop := &ast.Loop{
		Token:     n.Token,
		Condition: nextCall,
		Body:      innerLet,
		Fallback:  fallback,
	}

	return &ast.LetExpr{
		Token: n.Token,
		Binding: ast.LetBinding{
			Name:  freshID,
			Type:  iterableType,
			Value: iterable,
		},
		Body: loop,
	}
}

// desugarBaseCall rewrites base(args) inside a method of type T into
// (self as Parent(T)).currentMethod(args) (spec.md §4.3). Outside any
// method, or inside a method whose enclosing type has no parent, base
// is a misuse reported here as BaseMisuse; whether the parent actually
// has a matching method is then caught by the generic member-existence
// check later passes apply to the rewritten (self as Parent).method(...)
// call, since that is ordinary MemberAccessing/FunctionCall by then.
func (d *Desugarer) desugarBaseCall(n *ast.FunctionCall, mc *methodCtx) ast.Expression {
	for i, a := range n.Arguments {
		n.Arguments[i] = d.desugarExpr(a, mc)
	}
	if mc == nil || mc.owner == nil || mc.owner.Parent == nil || mc.methodName == "" {
		if d.state != nil {
			d.state.addErr(errBaseMisuse(d.Name(), n.Pos()))
		}
		return n
	}
	pos := n.Target.Pos()
	selfID := &ast.Identifier{Token: token.Token{Literal: "self", Pos: pos}, Value: "self", IsBuiltin: true}
	downcast := &ast.Downcasting{
		Token:  token.Token{Literal: "as", Pos: pos},
		Target: selfID,
		Type:   &ast.TypeAnnotation{Name: mc.owner.Parent.Value},
	}
	return &ast.FunctionCall{
		Token: n.Token,
		Target: &ast.MemberAccessing{
			Token:  n.Token,
			Target: downcast,
			Member: &ast.Identifier{Value: mc.methodName},
		},
		Arguments: n.Arguments,
	}
}
