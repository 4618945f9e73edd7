package semantic_test

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/hulklang/hulkcore/internal/ast"
	"github.com/hulklang/hulkcore/internal/semantic"
	"github.com/hulklang/hulkcore/internal/token"
	"github.com/hulklang/hulkcore/internal/types"
)

func ident(name string) *ast.Identifier {
	return &ast.Identifier{Token: token.Token{Literal: name}, Value: name}
}

func num(v float64) *ast.NumberLiteral {
	return &ast.NumberLiteral{Token: token.Token{Literal: "num"}, Value: v}
}

// TestEndToEnd_SimpleTypeDecl builds:
//
//	type Point(x, y) { getX() => x; }
//	let p = new Point(1, 2) in p.getX()
//
// and asserts the pipeline gets past SemanticChecker - constructor params
// are visible, unannotated, inside a method body (spec.md §4.7/§8) - and
// stops at TypeInferer with exactly three UninferrableType errors:
// instancing narrows its arguments, never the constructor params, so
// nothing gives x, y or getX's return a type.
func TestEndToEnd_SimpleTypeDecl(t *testing.T) {
	point := &ast.TypeDecl{
		Token: token.Token{Literal: "type"},
		Name:  ident("Point"),
		Params: []*ast.Parameter{
			{Name: ident("x")},
			{Name: ident("y")},
		},
		Members: []ast.Member{
			&ast.Function{
				Token: token.Token{Literal: "getX"},
				Name:  ident("getX"),
				Body:  ident("x"),
			},
		},
	}

	top := &ast.LetExpr{
		Token: token.Token{Literal: "let"},
		Binding: ast.LetBinding{
			Name: ident("p"),
			Value: &ast.TypeInstancing{
				Token:     token.Token{Literal: "new"},
				TypeName:  ident("Point"),
				Arguments: []ast.Expression{num(1), num(2)},
			},
		},
		Body: &ast.FunctionCall{
			Token: token.Token{Literal: "("},
			Target: &ast.MemberAccessing{
				Token:  token.Token{Literal: "."},
				Target: ident("p"),
				Member: ident("getX"),
			},
		},
	}

	program := &ast.Program{Declarations: []ast.Declaration{point}, Top: top}

	_, errs := semantic.CheckProgram(program)
	if len(errs) != 3 {
		t.Fatalf("expected three UninferrableType errors, got %d: %v", len(errs), errs)
	}
	for _, e := range errs {
		if e.Kind != semantic.UninferrableType {
			t.Errorf("expected only UninferrableType, got %s: %v", e.Kind, e)
		}
	}
}

// TestEndToEnd_UndefinedIdentifier checks that a reference to an unbound
// name is reported with Undefined, and that nothing past SemanticChecker
// runs (the pipeline stops at the first stage with errors, spec.md §7).
func TestEndToEnd_UndefinedIdentifier(t *testing.T) {
	program := &ast.Program{Top: ident("nope")}

	_, errs := semantic.CheckProgram(program)
	if len(errs) != 1 {
		t.Fatalf("expected exactly one error, got %d: %v", len(errs), errs)
	}
	if errs[0].Kind != semantic.Undefined {
		t.Errorf("expected Undefined, got %s", errs[0].Kind)
	}
}

// TestEndToEnd_ArityMismatch instances a zero-param type with two
// arguments and checks SemanticChecker reports the mismatch.
func TestEndToEnd_ArityMismatch(t *testing.T) {
	empty := &ast.TypeDecl{
		Token: token.Token{Literal: "type"},
		Name:  ident("Empty"),
	}
	top := &ast.TypeInstancing{
		Token:     token.Token{Literal: "new"},
		TypeName:  ident("Empty"),
		Arguments: []ast.Expression{num(1), num(2)},
	}
	program := &ast.Program{Declarations: []ast.Declaration{empty}, Top: top}

	_, errs := semantic.CheckProgram(program)
	if len(errs) != 1 || errs[0].Kind != semantic.ArityMismatch {
		t.Fatalf("expected a single ArityMismatch, got %v", errs)
	}
}

// TestEndToEnd_TypeDeclInference builds:
//
//	type A(x) { y = x + 1; } new A(2)
//
// and asserts the pipeline reports no errors - x and y both infer as
// Number through the attribute initializer (spec.md §8 scenario 2).
func TestEndToEnd_TypeDeclInference(t *testing.T) {
	a := &ast.TypeDecl{
		Token: token.Token{Literal: "type"},
		Name:  ident("A"),
		Params: []*ast.Parameter{
			{Name: ident("x")},
		},
		Members: []ast.Member{
			&ast.TypeProperty{
				Token: token.Token{Literal: "y"},
				Name:  ident("y"),
				Value: &ast.BinaryOp{
					Token:    token.Token{Literal: "+"},
					Kind:     ast.ArithOp,
					Operator: "+",
					Left:     ident("x"),
					Right:    num(1),
				},
			},
		},
	}
	top := &ast.TypeInstancing{
		Token:     token.Token{Literal: "new"},
		TypeName:  ident("A"),
		Arguments: []ast.Expression{num(2)},
	}
	program := &ast.Program{Declarations: []ast.Declaration{a}, Top: top}

	out, ctx, _, errs := semantic.Check(program, semantic.NewSeededContext(), semantic.NewSeededScope())
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
	_ = out
	class, ok := ctx.GetType("A")
	if !ok {
		t.Fatalf("type A missing from context")
	}
	if !types.IsNumber(class.Params[0].Type) {
		t.Errorf("expected constructor param x to infer Number, got %v", class.Params[0].Type)
	}
	attr, ok := class.GetAttribute("y")
	if !ok || !types.IsNumber(attr.Type) {
		t.Errorf("expected attribute y to infer Number, got %v", attr)
	}
}

// TestEndToEnd_CircularInheritance builds:
//
//	type P extends Q {} type Q extends P {}
//
// and asserts TypeBuilder reports CircularInheritance and the pipeline
// stops there (spec.md §8 scenario 3).
func TestEndToEnd_CircularInheritance(t *testing.T) {
	p := &ast.TypeDecl{Token: token.Token{Literal: "type"}, Name: ident("P"), Parent: ident("Q")}
	q := &ast.TypeDecl{Token: token.Token{Literal: "type"}, Name: ident("Q"), Parent: ident("P")}
	program := &ast.Program{Declarations: []ast.Declaration{p, q}, Top: num(0)}

	_, errs := semantic.CheckProgram(program)
	if len(errs) != 1 || errs[0].Kind != semantic.CircularInheritance {
		t.Fatalf("expected a single CircularInheritance, got %v", errs)
	}
}

// TestEndToEnd_ProtocolInstantiation builds:
//
//	protocol I { foo(a: Number): Number; } new I()
//
// and asserts SemanticChecker reports ProtocolInstantiation
// (spec.md §8 scenario 4).
func TestEndToEnd_ProtocolInstantiation(t *testing.T) {
	i := &ast.Protocol{
		Token: token.Token{Literal: "protocol"},
		Name:  ident("I"),
		Methods: []*ast.MethodSpec{
			{
				Token:      token.Token{Literal: "foo"},
				Name:       ident("foo"),
				Params:     []*ast.Parameter{{Name: ident("a"), Type: &ast.TypeAnnotation{Name: "Number"}}},
				ReturnType: &ast.TypeAnnotation{Name: "Number"},
			},
		},
	}
	top := &ast.TypeInstancing{Token: token.Token{Literal: "new"}, TypeName: ident("I")}
	program := &ast.Program{Declarations: []ast.Declaration{i}, Top: top}

	_, errs := semantic.CheckProgram(program)
	if len(errs) != 1 || errs[0].Kind != semantic.ProtocolInstantiation {
		t.Fatalf("expected a single ProtocolInstantiation, got %v", errs)
	}
}

// TestEndToEnd_VectorIndexing builds:
//
//	let v = [1, 2, 3] in v[4]
//
// and asserts the pipeline accepts it - the vector's element type infers
// Number and indexing a VectorType with a Number index is always legal
// regardless of the literal index value, since out-of-range wrapping is
// an evaluator concern, not a static one (spec.md §8 scenario 5).
func TestEndToEnd_VectorIndexing(t *testing.T) {
	top := &ast.LetExpr{
		Token: token.Token{Literal: "let"},
		Binding: ast.LetBinding{
			Name:  ident("v"),
			Value: &ast.Vector{Token: token.Token{Literal: "["}, Items: []ast.Expression{num(1), num(2), num(3)}},
		},
		Body: &ast.Indexing{
			Token:  token.Token{Literal: "["},
			Target: ident("v"),
			Index:  num(4),
		},
	}
	program := &ast.Program{Top: top}

	_, errs := semantic.CheckProgram(program)
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

// TestEndToEnd_ConcatNarrowing builds:
//
//	function f(x) => x @ ""
//	f(1)
//
// f's body alone type-checks (x narrows to Union(Number, String), which
// conforms to the Concat rule's own Union(Number, String) constraint),
// but calling f with a bare Number argument fails TypeMismatch - a
// concrete value never conforms to a multi-candidate Union parameter
// (spec.md §8 scenario 6; see DESIGN.md's Open Questions for why this
// is not a contradiction of spec.md §4.8's narrowing rule).
func TestEndToEnd_ConcatNarrowing(t *testing.T) {
	f := &ast.Function{
		Token:  token.Token{Literal: "function"},
		Name:   ident("f"),
		Params: []*ast.Parameter{{Name: ident("x")}},
		Body: &ast.BinaryOp{
			Token:    token.Token{Literal: "@"},
			Kind:     ast.ConcatOp,
			Operator: "@",
			Left:     ident("x"),
			Right:    &ast.StringLiteral{Token: token.Token{Literal: `""`}, Value: ""},
		},
	}
	top := &ast.FunctionCall{
		Token:     token.Token{Literal: "("},
		Target:    ident("f"),
		Arguments: []ast.Expression{num(1)},
	}
	program := &ast.Program{Declarations: []ast.Declaration{f}, Top: top}

	out, _, scope, errs := semantic.Check(program, semantic.NewSeededContext(), semantic.NewSeededScope())
	_ = out
	if len(errs) != 1 || errs[0].Kind != semantic.TypeMismatch {
		t.Fatalf("expected a single TypeMismatch, got %v", errs)
	}
	entry, ok := scope.FindFunction("f")
	if !ok {
		t.Fatalf("function f missing from scope")
	}
	if !types.IsString(entry.ReturnType) {
		t.Errorf("expected f's return type to infer String, got %v", entry.ReturnType)
	}
}

// TestEndToEnd_KindsSnapshot captures the ordered list of error kinds for
// a handful of malformed programs, using go-cmp to compare against the
// expected kind sequence and go-snaps to guard against incidental
// regressions in message text.
func TestEndToEnd_KindsSnapshot(t *testing.T) {
	cases := []struct {
		name    string
		program *ast.Program
		want    []semantic.SemanticErrorKind
	}{
		{
			name:    "undefined top expression",
			program: &ast.Program{Top: ident("ghost")},
			want:    []semantic.SemanticErrorKind{semantic.Undefined},
		},
		{
			name: "duplicate type name",
			program: &ast.Program{
				Declarations: []ast.Declaration{
					&ast.TypeDecl{Token: token.Token{Literal: "type"}, Name: ident("Dup")},
					&ast.TypeDecl{Token: token.Token{Literal: "type"}, Name: ident("Dup")},
				},
				Top: num(0),
			},
			want: []semantic.SemanticErrorKind{semantic.AlreadyDefined},
		},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			_, errs := semantic.CheckProgram(tt.program)
			got := make([]semantic.SemanticErrorKind, len(errs))
			for i, e := range errs {
				got[i] = e.Kind
			}
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("error kinds mismatch (-want +got):\n%s", diff)
			}
			snaps.MatchSnapshot(t, got)
		})
	}
}
