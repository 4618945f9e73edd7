package semantic

import "github.com/hulklang/hulkcore/internal/ast"

// Check runs the full seven-stage pipeline (spec.md §4) over program:
// Desugarer, TypeCollector, TypeBuilder, FunctionCollector,
// SemanticChecker, TypeInferer, TypeChecker - in that order, stopping
// after the first stage that reports any error. ctx and scope are
// normally the output of NewSeededContext/NewSeededScope; passing them
// in rather than constructing them here lets a caller run the pipeline
// over several programs sharing one namespace (e.g. a REPL).
func Check(program *ast.Program, ctx *Context, scope *Scope) (*ast.Program, *Context, *Scope, []*SemanticError) {
	state := NewPassState(ctx, scope)
	pm := NewPassManager(
		NewDesugarer(),
		NewTypeCollector(),
		NewTypeBuilder(),
		NewFunctionCollector(),
		NewSemanticChecker(),
		NewTypeInferer(),
		NewTypeChecker(),
	)
	out, errs := pm.RunAll(program, state)
	return out, state.Ctx, state.Scope, errs
}

// CheckProgram is the convenience entry point for a single, self-contained
// program: it seeds a fresh Context and Scope with the built-ins
// (spec.md §6) and runs Check.
func CheckProgram(program *ast.Program) (*ast.Program, []*SemanticError) {
	out, _, _, errs := Check(program, NewSeededContext(), NewSeededScope())
	return out, errs
}
