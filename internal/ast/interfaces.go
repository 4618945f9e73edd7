// Package ast defines the Abstract Syntax Tree node types the core
// semantic pipeline consumes. This file holds structural protocol
// declarations (spec.md §3: "Protocol", "MethodSpec").
package ast

import (
	"strings"

	"github.com/hulklang/hulkcore/internal/token"
)

// MethodSpec is a method signature with no body, declared inside a
// Protocol: `name(p1: T1, p2: T2): R;`. Unlike Function parameters,
// MethodSpec parameter types and the return type are mandatory - a
// protocol is a purely structural contract, there is nothing to infer.
type MethodSpec struct {
	Token      token.Token
	Name       *Identifier
	Params     []*Parameter
	ReturnType *TypeAnnotation
}

func (m *MethodSpec) declarationNode()     {}
func (m *MethodSpec) TokenLiteral() string { return m.Token.Literal }
func (m *MethodSpec) Pos() token.Position  { return m.Token.Pos }
func (m *MethodSpec) String() string {
	parts := make([]string, len(m.Params))
	for i, p := range m.Params {
		parts[i] = p.String()
	}
	return m.Name.Value + "(" + strings.Join(parts, ", ") + "): " + m.ReturnType.String()
}

// Protocol declares a structural contract: a name, zero or more extended
// parent protocols, and method specs (spec.md §3/§4.1).
type Protocol struct {
	Token   token.Token
	Name    *Identifier
	Extends []*Identifier
	Methods []*MethodSpec
}

func (p *Protocol) declarationNode()     {}
func (p *Protocol) TokenLiteral() string { return p.Token.Literal }
func (p *Protocol) Pos() token.Position  { return p.Token.Pos }
func (p *Protocol) String() string {
	var sb strings.Builder
	sb.WriteString("protocol " + p.Name.Value)
	if len(p.Extends) > 0 {
		parts := make([]string, len(p.Extends))
		for i, e := range p.Extends {
			parts[i] = e.Value
		}
		sb.WriteString(" extends " + strings.Join(parts, ", "))
	}
	sb.WriteString(" {")
	for _, m := range p.Methods {
		sb.WriteString(" " + m.String() + ";")
	}
	sb.WriteString(" }")
	return sb.String()
}
