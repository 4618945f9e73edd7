// Package ast defines the Abstract Syntax Tree node types the core
// semantic pipeline consumes. This file holds the vector literal and
// indexing nodes (spec.md §3: "Vector | items", "Indexing | target, index").
package ast

import (
	"strings"

	"github.com/hulklang/hulkcore/internal/token"
)

// Vector represents a vector literal expression, e.g. [1, 2, 3] or [].
// Its element type is inferred (TypeInferer, spec.md §4.8); there is no
// declared vector-type syntax in the source.
type Vector struct {
	Token token.Token
	Items []Expression
}

func (v *Vector) expressionNode()      {}
func (v *Vector) TokenLiteral() string { return v.Token.Literal }
func (v *Vector) Pos() token.Position  { return v.Token.Pos }
func (v *Vector) String() string {
	items := make([]string, len(v.Items))
	for i, e := range v.Items {
		items[i] = e.String()
	}
	return "[" + strings.Join(items, ", ") + "]"
}

// Indexing represents v[index] - always modulo-wrapped by the vector's
// at() at evaluation time (spec.md §8 scenario 5); the core only checks
// that the target is a VectorType and the index is a Number.
type Indexing struct {
	Token  token.Token
	Target Expression
	Index  Expression
}

func (ix *Indexing) expressionNode()      {}
func (ix *Indexing) TokenLiteral() string { return ix.Token.Literal }
func (ix *Indexing) Pos() token.Position  { return ix.Token.Pos }
func (ix *Indexing) String() string {
	return "(" + ix.Target.String() + "[" + ix.Index.String() + "])"
}
