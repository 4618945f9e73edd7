// Package ast defines the Abstract Syntax Tree node types the core
// semantic pipeline consumes. This file holds function declarations
// (spec.md §3: "Function | id, params[(name, type?)], return type?, body").
package ast

import (
	"strings"

	"github.com/hulklang/hulkcore/internal/token"
)

// Parameter is a (name, optional type) pair shared by Function, MethodSpec,
// and TypeDecl constructor parameter lists. A nil Type means unannotated:
// TypeInferer (spec.md §4.8) must fill it in, or UninferrableType is
// reported.
type Parameter struct {
	Name *Identifier
	Type *TypeAnnotation
}

func (p *Parameter) String() string {
	if p.Type == nil {
		return p.Name.String()
	}
	return p.Name.String() + ": " + p.Type.String()
}

// Function represents both a free top-level function and a method
// declared inside a TypeDecl's Members - the grammar is assumed to produce
// the same node shape in either position; semantic passes tell them apart
// by where the Function sits in the tree (TypeBuilder registers a
// TypeDecl's methods on its ClassType; FunctionCollector registers only
// top-level Functions).
type Function struct {
	Token      token.Token
	Name       *Identifier
	Params     []*Parameter
	ReturnType *TypeAnnotation
	Body       Expression
}

func (f *Function) declarationNode()     {}
func (f *Function) memberNode()          {}
func (f *Function) TokenLiteral() string { return f.Token.Literal }
func (f *Function) Pos() token.Position  { return f.Token.Pos }
func (f *Function) String() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.String()
	}
	var sb strings.Builder
	sb.WriteString("function " + f.Name.Value + "(" + strings.Join(parts, ", ") + ")")
	if f.ReturnType != nil {
		sb.WriteString(": " + f.ReturnType.Name)
	}
	sb.WriteString(" => " + f.Body.String())
	return sb.String()
}
