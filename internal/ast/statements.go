// Package ast defines the Abstract Syntax Tree node types the core
// semantic pipeline consumes. This file holds the remaining expression
// forms (spec.md §3): bindings, mutation, member access, calls, and the
// type-test expressions.
package ast

import (
	"strings"

	"github.com/hulklang/hulkcore/internal/token"
)

// LetBinding is a single (id, type?, value) triple inside a LetExpr or
// MultipleLetExpr.
type LetBinding struct {
	Name  *Identifier
	Type  *TypeAnnotation // optional
	Value Expression
}

// LetExpr is `let id[: type] = value in body;` - a new scope holding a
// single binding, visible only inside body (spec.md §3/§4.8).
type LetExpr struct {
	Token   token.Token
	Binding LetBinding
	Body    Expression
}

func (le *LetExpr) expressionNode()      {}
func (le *LetExpr) TokenLiteral() string { return le.Token.Literal }
func (le *LetExpr) Pos() token.Position  { return le.Token.Pos }
func (le *LetExpr) String() string {
	var sb strings.Builder
	sb.WriteString("let " + le.Binding.Name.Value)
	if le.Binding.Type != nil {
		sb.WriteString(": " + le.Binding.Type.Name)
	}
	sb.WriteString(" = " + le.Binding.Value.String() + " in " + le.Body.String())
	return sb.String()
}

// MultipleLetExpr is sugar for `let b1, b2, ..., bn in body;` - Desugarer
// (spec.md §4.3) rewrites it to nested LetExprs:
// LetExpr(b1; LetExpr(b2; ... LetExpr(bn; body))).
type MultipleLetExpr struct {
	Token    token.Token
	Bindings []LetBinding
	Body     Expression
}

func (mle *MultipleLetExpr) expressionNode()      {}
func (mle *MultipleLetExpr) TokenLiteral() string { return mle.Token.Literal }
func (mle *MultipleLetExpr) Pos() token.Position  { return mle.Token.Pos }
func (mle *MultipleLetExpr) String() string {
	parts := make([]string, len(mle.Bindings))
	for i, b := range mle.Bindings {
		s := b.Name.Value
		if b.Type != nil {
			s += ": " + b.Type.Name
		}
		parts[i] = s + " = " + b.Value.String()
	}
	return "let " + strings.Join(parts, ", ") + " in " + mle.Body.String()
}

// Mutation is `target := value;` - target must be an assignable form: a
// non-builtin identifier, an Indexing, or a MemberAccessing
// (spec.md §5: "Mutation targets are assignable").
type Mutation struct {
	Token  token.Token
	Target Expression
	Value  Expression
}

func (m *Mutation) expressionNode()      {}
func (m *Mutation) TokenLiteral() string { return m.Token.Literal }
func (m *Mutation) Pos() token.Position  { return m.Token.Pos }
func (m *Mutation) String() string {
	return "(" + m.Target.String() + " := " + m.Value.String() + ")"
}

// MappedIterable is `[map | item id[: type] in iterable];` - vector
// comprehension (spec.md §3/§4.8: "item type: if I is VectorType(E), item
// = E; if I is a Type implementing IterableProto, item = I.current()'s
// return type").
type MappedIterable struct {
	Token    token.Token
	Map      Expression
	ItemID   *Identifier
	ItemType *TypeAnnotation // optional
	Iterable Expression
}

func (mi *MappedIterable) expressionNode()      {}
func (mi *MappedIterable) TokenLiteral() string { return mi.Token.Literal }
func (mi *MappedIterable) Pos() token.Position  { return mi.Token.Pos }
func (mi *MappedIterable) String() string {
	var sb strings.Builder
	sb.WriteString("[" + mi.Map.String() + " | " + mi.ItemID.Value)
	if mi.ItemType != nil {
		sb.WriteString(": " + mi.ItemType.Name)
	}
	sb.WriteString(" in " + mi.Iterable.String() + "]")
	return sb.String()
}

// MemberAccessing is `target.member` - member resolution (attribute or
// method) happens in SemanticChecker/TypeInferer, not here
// (spec.md §3/§4.8).
type MemberAccessing struct {
	Token  token.Token
	Target Expression
	Member *Identifier
}

func (ma *MemberAccessing) expressionNode()      {}
func (ma *MemberAccessing) TokenLiteral() string { return ma.Token.Literal }
func (ma *MemberAccessing) Pos() token.Position  { return ma.Token.Pos }
func (ma *MemberAccessing) String() string {
	return ma.Target.String() + "." + ma.Member.Value
}

// FunctionCall is `target(arguments)`. Target is either an Identifier
// (free function or self-method call) or a MemberAccessing
// (spec.md §5: "Function call targets are either IdentifierNode or
// MemberAccessingNode").
type FunctionCall struct {
	Token     token.Token
	Target    Expression
	Arguments []Expression
}

func (fc *FunctionCall) expressionNode()      {}
func (fc *FunctionCall) TokenLiteral() string { return fc.Token.Literal }
func (fc *FunctionCall) Pos() token.Position  { return fc.Token.Pos }
func (fc *FunctionCall) String() string {
	args := make([]string, len(fc.Arguments))
	for i, a := range fc.Arguments {
		args[i] = a.String()
	}
	return fc.Target.String() + "(" + strings.Join(args, ", ") + ")"
}

// Downcasting is `target as Type` - result type is Type itself
// (spec.md §4.8/§4.9: "Downcasting: target visited; result is the target
// type", "target type and named type must be related").
type Downcasting struct {
	Token  token.Token
	Target Expression
	Type   *TypeAnnotation
}

func (dc *Downcasting) expressionNode()      {}
func (dc *Downcasting) TokenLiteral() string { return dc.Token.Literal }
func (dc *Downcasting) Pos() token.Position  { return dc.Token.Pos }
func (dc *Downcasting) String() string {
	return "(" + dc.Target.String() + " as " + dc.Type.Name + ")"
}

// TypeMatching is `target is Type` - always yields Boolean
// (spec.md §4.8: "TypeMatching: target visited; result Boolean").
type TypeMatching struct {
	Token  token.Token
	Target Expression
	Type   *TypeAnnotation
}

func (tm *TypeMatching) expressionNode()      {}
func (tm *TypeMatching) TokenLiteral() string { return tm.Token.Literal }
func (tm *TypeMatching) Pos() token.Position  { return tm.Token.Pos }
func (tm *TypeMatching) String() string {
	return "(" + tm.Target.String() + " is " + tm.Type.Name + ")"
}
