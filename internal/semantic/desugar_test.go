package semantic

import (
	"testing"

	"github.com/hulklang/hulkcore/internal/ast"
	"github.com/hulklang/hulkcore/internal/token"
)

func TestDesugarMultipleLetCollapsesToNestedLet(t *testing.T) {
	top := &ast.MultipleLetExpr{
		Token: token.Token{Literal: "let"},
		Bindings: []ast.LetBinding{
			{Name: ident("a"), Value: num(1)},
			{Name: ident("b"), Value: num(2)},
		},
		Body: &ast.BinaryOp{Token: token.Token{Literal: "+"}, Kind: ast.ArithOp, Operator: "+", Left: ident("a"), Right: ident("b")},
	}
	program := &ast.Program{Top: top}
	state := NewPassState(NewSeededContext(), NewSeededScope())

	out, err := NewDesugarer().Run(program, state)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	outer, ok := out.Top.(*ast.LetExpr)
	if !ok || outer.Binding.Name.Value != "a" {
		t.Fatalf("expected outer LetExpr binding a, got %#v", out.Top)
	}
	inner, ok := outer.Body.(*ast.LetExpr)
	if !ok || inner.Binding.Name.Value != "b" {
		t.Fatalf("expected inner LetExpr binding b, got %#v", outer.Body)
	}
	if _, ok := inner.Body.(*ast.BinaryOp); !ok {
		t.Fatalf("expected innermost body to be the original BinaryOp, got %#v", inner.Body)
	}
}

func TestDesugarIteratorToLetLoop(t *testing.T) {
	top := &ast.Iterator{
		Token:    token.Token{Literal: "for"},
		ItemID:   ident("x"),
		Iterable: ident("xs"),
		Body:     ident("x"),
	}
	program := &ast.Program{Top: top}
	state := NewPassState(NewSeededContext(), NewSeededScope())

	out, err := NewDesugarer().Run(program, state)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	let, ok := out.Top.(*ast.LetExpr)
	if !ok {
		t.Fatalf("expected desugared Iterator to be a LetExpr, got %#v", out.Top)
	}
	if let.Binding.Type == nil || let.Binding.Type.Name != "Iterable" {
		t.Errorf("expected the fresh binding to be typed Iterable, got %v", let.Binding.Type)
	}
	loop, ok := let.Body.(*ast.Loop)
	if !ok {
		t.Fatalf("expected LetExpr body to be a Loop, got %#v", let.Body)
	}
	condCall, ok := loop.Condition.(*ast.FunctionCall)
	if !ok {
		t.Fatalf("expected Loop condition to be a FunctionCall, got %#v", loop.Condition)
	}
	member, ok := condCall.Target.(*ast.MemberAccessing)
	if !ok || member.Member.Value != "next" {
		t.Fatalf("expected the condition to call .next(), got %#v", condCall.Target)
	}
}

func TestDesugarBaseCallOutsideMethodIsMisuse(t *testing.T) {
	top := &ast.FunctionCall{
		Token:  token.Token{Literal: "("},
		Target: &ast.Identifier{Token: token.Token{Literal: "base"}, Value: "base"},
	}
	program := &ast.Program{Top: top}
	state := NewPassState(NewSeededContext(), NewSeededScope())

	if _, err := NewDesugarer().Run(program, state); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(state.Errors) != 1 || state.Errors[0].Kind != BaseMisuse {
		t.Fatalf("expected a single BaseMisuse, got %v", state.Errors)
	}
}

func TestDesugarBaseCallRewritesToDowncastCall(t *testing.T) {
	owner := &ast.TypeDecl{
		Token:  token.Token{Literal: "type"},
		Name:   ident("Dog"),
		Parent: ident("Animal"),
		Members: []ast.Member{
			&ast.Function{
				Token: token.Token{Literal: "speak"},
				Name:  ident("speak"),
				Body: &ast.FunctionCall{
					Token:  token.Token{Literal: "("},
					Target: &ast.Identifier{Token: token.Token{Literal: "base"}, Value: "base"},
				},
			},
		},
	}
	program := &ast.Program{Declarations: []ast.Declaration{owner}}
	state := NewPassState(NewSeededContext(), NewSeededScope())

	out, err := NewDesugarer().Run(program, state)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.HasErrors() {
		t.Fatalf("unexpected errors: %v", state.Errors)
	}

	decl := out.Declarations[0].(*ast.TypeDecl)
	fn := decl.Members[0].(*ast.Function)
	call, ok := fn.Body.(*ast.FunctionCall)
	if !ok {
		t.Fatalf("expected rewritten body to be a FunctionCall, got %#v", fn.Body)
	}
	member, ok := call.Target.(*ast.MemberAccessing)
	if !ok || member.Member.Value != "speak" {
		t.Fatalf("expected the call target to be .speak(), got %#v", call.Target)
	}
	downcast, ok := member.Target.(*ast.Downcasting)
	if !ok || downcast.Type.Name != "Animal" {
		t.Fatalf("expected the receiver to be (self as Animal), got %#v", member.Target)
	}
}
