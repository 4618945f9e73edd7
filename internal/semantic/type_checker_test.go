package semantic

import (
	"testing"

	"github.com/hulklang/hulkcore/internal/ast"
	"github.com/hulklang/hulkcore/internal/token"
	"github.com/hulklang/hulkcore/internal/types"
)

func TestAllowType(t *testing.T) {
	if !allowType(nil, types.Number) {
		t.Error("allowType(nil, _) should hold - already reported as UninferrableType")
	}
	if !allowType(types.Error, types.Number) {
		t.Error("allowType(Error, _) should always hold")
	}
	if !allowType(types.Number, types.Object) {
		t.Error("Number should conform to Object")
	}
	if allowType(types.Number, types.String) {
		t.Error("Number should not conform to String")
	}
}

func TestConcatOperand(t *testing.T) {
	if !concatOperand(types.Number) {
		t.Error("Number should be a legal Concat operand")
	}
	if !concatOperand(types.String) {
		t.Error("String should be a legal Concat operand")
	}
	if concatOperand(types.Boolean) {
		t.Error("Boolean should not be a legal Concat operand")
	}
	if !concatOperand(types.NewUnionType(types.Number, types.String)) {
		t.Error("Union(Number, String) should be a legal Concat operand")
	}
	if concatOperand(types.NewUnionType(types.Number, types.Boolean)) {
		t.Error("Union(Number, Boolean) should not be a legal Concat operand - Boolean is never allowed")
	}
}

func TestTypeCheckerNonNumericOperand(t *testing.T) {
	top := &ast.BinaryOp{
		Token: token.Token{Literal: "+"}, Kind: ast.ArithOp, Operator: "+",
		Left:  &ast.StringLiteral{Token: token.Token{Literal: `""`}},
		Right: num(1),
	}
	program := &ast.Program{Top: top}
	state := NewPassState(NewSeededContext(), NewSeededScope())

	if _, err := NewTypeChecker().Run(program, state); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(state.Errors) != 1 || state.Errors[0].Kind != NonNumericOperand {
		t.Fatalf("expected a single NonNumericOperand, got %v", state.Errors)
	}
}

func TestTypeCheckerIndexingErrors(t *testing.T) {
	top := &ast.Indexing{
		Token:  token.Token{Literal: "["},
		Target: num(1),
		Index:  &ast.StringLiteral{Token: token.Token{Literal: `""`}},
	}
	program := &ast.Program{Top: top}
	state := NewPassState(NewSeededContext(), NewSeededScope())

	if _, err := NewTypeChecker().Run(program, state); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	kinds := map[SemanticErrorKind]bool{}
	for _, e := range state.Errors {
		kinds[e.Kind] = true
	}
	if !kinds[IndexTargetNotVector] || !kinds[IndexNotNumber] {
		t.Fatalf("expected both IndexTargetNotVector and IndexNotNumber, got %v", state.Errors)
	}
}

func TestTypeCheckerUndefinedMemberAccess(t *testing.T) {
	decl := &ast.TypeDecl{Token: token.Token{Literal: "type"}, Name: ident("Empty")}
	top := &ast.MemberAccessing{
		Token: token.Token{Literal: "."},
		Target: &ast.TypeInstancing{
			Token:    token.Token{Literal: "new"},
			TypeName: ident("Empty"),
		},
		Member: ident("ghost"),
	}
	program := &ast.Program{Declarations: []ast.Declaration{decl}, Top: top}
	state := NewPassState(NewSeededContext(), NewSeededScope())
	if _, err := NewTypeCollector().Run(program, state); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := NewTypeBuilder().Run(program, state); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := NewTypeChecker().Run(program, state); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(state.Errors) != 1 || state.Errors[0].Kind != UndefinedMember {
		t.Fatalf("expected a single UndefinedMember, got %v", state.Errors)
	}
}

func TestTypeCheckerFunctionCallArityMismatch(t *testing.T) {
	fn := &ast.Function{
		Token:  token.Token{Literal: "function"},
		Name:   ident("add"),
		Params: []*ast.Parameter{{Name: ident("a"), Type: &ast.TypeAnnotation{Name: "Number"}}, {Name: ident("b"), Type: &ast.TypeAnnotation{Name: "Number"}}},
		ReturnType: &ast.TypeAnnotation{Name: "Number"},
		Body:       num(0),
	}
	top := &ast.FunctionCall{Token: token.Token{Literal: "("}, Target: ident("add"), Arguments: []ast.Expression{num(1)}}
	program := &ast.Program{Declarations: []ast.Declaration{fn}, Top: top}
	state := NewPassState(NewSeededContext(), NewSeededScope())
	if _, err := NewFunctionCollector().Run(program, state); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := NewTypeChecker().Run(program, state); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(state.Errors) != 1 || state.Errors[0].Kind != ArityMismatch {
		t.Fatalf("expected a single ArityMismatch, got %v", state.Errors)
	}
}

func TestTypeCheckerFunctionCallTypeMismatch(t *testing.T) {
	fn := &ast.Function{
		Token:      token.Token{Literal: "function"},
		Name:       ident("needsNumber"),
		Params:     []*ast.Parameter{{Name: ident("x"), Type: &ast.TypeAnnotation{Name: "Number"}}},
		ReturnType: &ast.TypeAnnotation{Name: "Number"},
		Body:       ident("x"),
	}
	top := &ast.FunctionCall{
		Token:     token.Token{Literal: "("},
		Target:    ident("needsNumber"),
		Arguments: []ast.Expression{&ast.StringLiteral{Token: token.Token{Literal: `""`}}},
	}
	program := &ast.Program{Declarations: []ast.Declaration{fn}, Top: top}
	state := NewPassState(NewSeededContext(), NewSeededScope())
	if _, err := NewFunctionCollector().Run(program, state); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := NewTypeChecker().Run(program, state); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(state.Errors) != 1 || state.Errors[0].Kind != TypeMismatch {
		t.Fatalf("expected a single TypeMismatch, got %v", state.Errors)
	}
}
