package errors

import (
	"strings"
	"testing"

	"github.com/hulklang/hulkcore/internal/semantic"
	"github.com/hulklang/hulkcore/internal/token"
)

func TestCompilerErrorFormat(t *testing.T) {
	err := &semantic.SemanticError{
		Kind:    semantic.Undefined,
		Stage:   "SemanticChecker",
		Message: `"foo" is not defined`,
		Pos:     token.Position{Line: 2, Column: 5},
	}
	source := "let x = 1 in\n  foo"

	tests := []struct {
		name     string
		useColor bool
	}{
		{"plain", false},
		{"color", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := NewCompilerError(err, source, "").Format(tt.useColor)
			if !strings.Contains(out, "Undefined") {
				t.Errorf("expected output to mention the error kind, got %q", out)
			}
			if !strings.Contains(out, "foo") {
				t.Errorf("expected output to include the source line, got %q", out)
			}
			if !strings.Contains(out, "^") {
				t.Errorf("expected a caret, got %q", out)
			}
		})
	}
}

func TestFormatAllMultipleErrors(t *testing.T) {
	errs := []*semantic.SemanticError{
		{Kind: semantic.Undefined, Stage: "SemanticChecker", Message: "a", Pos: token.Position{Line: 1, Column: 1}},
		{Kind: semantic.TypeMismatch, Stage: "TypeChecker", Message: "b", Pos: token.Position{Line: 2, Column: 1}},
	}
	out := FormatAll(errs, "x\ny", "", false)
	if !strings.Contains(out, "2 error(s)") {
		t.Errorf("expected a count summary, got %q", out)
	}
	if !strings.Contains(out, "[1/2]") || !strings.Contains(out, "[2/2]") {
		t.Errorf("expected both errors numbered, got %q", out)
	}
}

func TestFormatAllEmpty(t *testing.T) {
	if out := FormatAll(nil, "", "", false); out != "" {
		t.Errorf("expected empty string for no errors, got %q", out)
	}
}
