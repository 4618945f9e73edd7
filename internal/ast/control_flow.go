// Package ast defines the Abstract Syntax Tree node types the core
// semantic pipeline consumes. This file holds the control-flow expressions
// (spec.md §3: "Loop", "Iterator (sugar)", "Conditional").
package ast

import (
	"strings"

	"github.com/hulklang/hulkcore/internal/token"
)

// Loop is `while (condition) body fallback;` - its value is the value of
// the last body iteration, or fallback's value if the condition was false
// on entry (spec.md §4.8: "Conditional/Loop: body types unioned; if a
// branch result is unknown (None) the whole result is None").
type Loop struct {
	Token     token.Token
	Condition Expression
	Body      Expression
	Fallback  Expression // may be nil
}

func (l *Loop) expressionNode()      {}
func (l *Loop) TokenLiteral() string { return l.Token.Literal }
func (l *Loop) Pos() token.Position  { return l.Token.Pos }
func (l *Loop) String() string {
	var sb strings.Builder
	sb.WriteString("while (" + l.Condition.String() + ") " + l.Body.String())
	if l.Fallback != nil {
		sb.WriteString(" else " + l.Fallback.String())
	}
	return sb.String()
}

// Iterator is sugar: `for (id in iterable) body fallback;`. Desugarer
// (spec.md §4.3) rewrites it into a LetExpr/Loop pair over a reserved
// Iterable-typed binding before any later pass sees it - this node only
// exists pre-desugaring.
type Iterator struct {
	Token      token.Token
	ItemID     *Identifier
	ItemType   *TypeAnnotation // optional
	Iterable   Expression
	Body       Expression
	Fallback   Expression // may be nil
}

func (it *Iterator) expressionNode()      {}
func (it *Iterator) TokenLiteral() string { return it.Token.Literal }
func (it *Iterator) Pos() token.Position  { return it.Token.Pos }
func (it *Iterator) String() string {
	var sb strings.Builder
	sb.WriteString("for (" + it.ItemID.Value)
	if it.ItemType != nil {
		sb.WriteString(": " + it.ItemType.Name)
	}
	sb.WriteString(" in " + it.Iterable.String() + ") " + it.Body.String())
	if it.Fallback != nil {
		sb.WriteString(" else " + it.Fallback.String())
	}
	return sb.String()
}

// ConditionalBranch pairs a guard with the expression to evaluate when it
// is the first true guard.
type ConditionalBranch struct {
	Condition Expression
	Branch    Expression
}

// Conditional is `if (c1) b1 elif (c2) b2 ... else fallback;` - at least
// one (condition, branch) pair plus a mandatory fallback branch
// (spec.md §3/§5: "every if must end with an else").
type Conditional struct {
	Token    token.Token
	Branches []ConditionalBranch
	Fallback Expression
}

func (c *Conditional) expressionNode()      {}
func (c *Conditional) TokenLiteral() string { return c.Token.Literal }
func (c *Conditional) Pos() token.Position  { return c.Token.Pos }
func (c *Conditional) String() string {
	var sb strings.Builder
	for i, b := range c.Branches {
		if i == 0 {
			sb.WriteString("if (" + b.Condition.String() + ") " + b.Branch.String())
		} else {
			sb.WriteString(" elif (" + b.Condition.String() + ") " + b.Branch.String())
		}
	}
	sb.WriteString(" else " + c.Fallback.String())
	return sb.String()
}
