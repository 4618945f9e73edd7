package semantic

import (
	"testing"

	"github.com/hulklang/hulkcore/internal/types"
)

func TestScopeDefineAndFindVariable(t *testing.T) {
	s := NewScope()
	if _, err := s.DefineVariable("x", types.Number); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, owner, ok := s.FindVariable("x")
	if !ok || v.Type != types.Number || owner != s {
		t.Fatalf("FindVariable() = %v, %v, %v", v, owner, ok)
	}
}

func TestScopeDefineVariableDuplicate(t *testing.T) {
	s := NewScope()
	if _, err := s.DefineVariable("x", types.Number); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.DefineVariable("x", types.String); err == nil {
		t.Fatal("expected AlreadyDefined on duplicate variable name in the same frame")
	}
}

func TestScopeVariablesAndFunctionsSeparateNamespaces(t *testing.T) {
	s := NewScope()
	if _, err := s.DefineVariable("f", types.Number); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.DefineFunction("f", nil, types.Number); err != nil {
		t.Fatalf("expected a function to coexist with a variable of the same name: %v", err)
	}
}

func TestScopeFindWalksToParent(t *testing.T) {
	root := NewScope()
	if _, err := root.DefineVariable("x", types.Number); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	child := root.CreateChild()
	v, owner, ok := child.FindVariable("x")
	if !ok || v.Type != types.Number || owner != root {
		t.Fatalf("FindVariable() from child = %v, %v, %v, want it resolved against root", v, owner, ok)
	}
}

func TestScopeFindOwnerType(t *testing.T) {
	root := NewScope()
	owner := types.NewClassType("Point")
	fn := root.CreateFunctionChild()
	fn.OwnerType = owner
	inner := fn.CreateChild()

	got, ok := inner.FindOwnerType()
	if !ok || got != owner {
		t.Fatalf("FindOwnerType() = %v, %v, want %v, true", got, ok, owner)
	}
}

func TestScopeFindOwnerTypeStopsAtNearestFunctionScope(t *testing.T) {
	root := NewScope()
	topFn := root.CreateFunctionChild()
	topFn.OwnerType = types.NewClassType("Outer")
	// A nested function scope with no OwnerType (a plain top-level
	// function, not a method) must not see the enclosing method's owner.
	nestedFn := topFn.CreateFunctionChild()

	if _, ok := nestedFn.FindOwnerType(); ok {
		t.Error("FindOwnerType() should not see past the nearest function scope lacking an owner")
	}
}

func TestNewSeededScopeBuiltins(t *testing.T) {
	s := NewSeededScope()
	if v, _, ok := s.FindVariable("PI"); !ok || v.Type != types.Number {
		t.Errorf("expected PI: Number in seeded scope, got %v, %v", v, ok)
	}
	for name := range BuiltinNames {
		if _, ok := s.FindFunction(name); !ok {
			t.Errorf("expected builtin function %q in seeded scope", name)
		}
	}
}

func TestScopeVariablesDeclarationOrder(t *testing.T) {
	s := NewScope()
	names := []string{"c", "a", "b"}
	for _, n := range names {
		if _, err := s.DefineVariable(n, types.Number); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	vars := s.Variables()
	if len(vars) != 3 {
		t.Fatalf("Variables() returned %d entries, want 3", len(vars))
	}
	for i, n := range names {
		if vars[i].Name != n {
			t.Errorf("Variables()[%d].Name = %q, want %q", i, vars[i].Name, n)
		}
	}
}
