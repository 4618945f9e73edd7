// Package ast defines the Abstract Syntax Tree node types the core
// semantic pipeline consumes. This file holds nominal type declarations
// and instantiation (spec.md §3: "TypeDecl", "TypeInstancing").
package ast

import (
	"strings"

	"github.com/hulklang/hulkcore/internal/token"
)

// Member is a declaration that can appear inside a TypeDecl body: either a
// TypeProperty (an attribute with an initializer) or a Function (a method).
type Member interface {
	Declaration
	memberNode()
}

// TypeDecl represents a nominal type declaration with single inheritance
// and a parametric constructor.
//
//	type Point(x, y) {
//	  getX() => x;
//	}
//	type Point3D(x, y, z) inherits Point(x, y) {
//	  getZ() => z;
//	}
type TypeDecl struct {
	Token       token.Token
	Name        *Identifier
	Params      []*Parameter // constructor parameters; nil if declared with no parens
	Parent      *Identifier  // nil means parent is Object
	ParentArgs  []Expression // arguments passed to the parent constructor
	Members     []Member
}

func (td *TypeDecl) declarationNode()     {}
func (td *TypeDecl) TokenLiteral() string { return td.Token.Literal }
func (td *TypeDecl) Pos() token.Position  { return td.Token.Pos }
func (td *TypeDecl) String() string {
	var sb strings.Builder
	sb.WriteString("type ")
	sb.WriteString(td.Name.Value)
	if td.Params != nil {
		parts := make([]string, len(td.Params))
		for i, p := range td.Params {
			parts[i] = p.String()
		}
		sb.WriteString("(" + strings.Join(parts, ", ") + ")")
	}
	if td.Parent != nil {
		sb.WriteString(" inherits " + td.Parent.Value)
		if len(td.ParentArgs) > 0 {
			parts := make([]string, len(td.ParentArgs))
			for i, a := range td.ParentArgs {
				parts[i] = a.String()
			}
			sb.WriteString("(" + strings.Join(parts, ", ") + ")")
		}
	}
	sb.WriteString(" {")
	for _, m := range td.Members {
		sb.WriteString(" " + m.String() + ";")
	}
	sb.WriteString(" }")
	return sb.String()
}

// TypeProperty is an attribute declaration inside a TypeDecl:
// `id[: type] = value;` (spec.md §3: "TypeProperty | id, type?, value").
type TypeProperty struct {
	Token token.Token
	Name  *Identifier
	Type  *TypeAnnotation
	Value Expression
}

func (tp *TypeProperty) declarationNode()  {}
func (tp *TypeProperty) memberNode()       {}
func (tp *TypeProperty) TokenLiteral() string { return tp.Token.Literal }
func (tp *TypeProperty) Pos() token.Position  { return tp.Token.Pos }
func (tp *TypeProperty) String() string {
	s := tp.Name.Value
	if tp.Type != nil {
		s += ": " + tp.Type.Name
	}
	return s + " = " + tp.Value.String()
}

// TypeInstancing represents `new Type(args)`.
type TypeInstancing struct {
	Token     token.Token
	TypeName  *Identifier
	Arguments []Expression
}

func (ti *TypeInstancing) expressionNode()      {}
func (ti *TypeInstancing) TokenLiteral() string { return ti.Token.Literal }
func (ti *TypeInstancing) Pos() token.Position  { return ti.Token.Pos }
func (ti *TypeInstancing) String() string {
	args := make([]string, len(ti.Arguments))
	for i, a := range ti.Arguments {
		args[i] = a.String()
	}
	return "new " + ti.TypeName.Value + "(" + strings.Join(args, ", ") + ")"
}
