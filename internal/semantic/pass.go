package semantic

import "github.com/hulklang/hulkcore/internal/ast"

// Pass is one stage of the seven-stage pipeline (spec.md §4: Desugarer,
// TypeCollector, TypeBuilder, FunctionCollector, SemanticChecker,
// TypeInferer, TypeChecker). A pass reads and mutates the shared Context
// and Scope, appends to PassState's error list, and never escapes its
// input tree.
type Pass interface {
	// Name identifies the pass for diagnostic prefixes (spec.md §7:
	// "the driver prints each error with a one-line description prefixed
	// by the stage name").
	Name() string

	// Run executes the pass. program may be replaced by the Desugarer;
	// every other pass returns the same *ast.Program it was given.
	Run(program *ast.Program, state *PassState) (*ast.Program, error)
}

// PassState is the state threaded through every pass: the Context, the
// global Scope, and the accumulated error list (spec.md §7: "every stage
// accumulates errors into a list and returns").
type PassState struct {
	Ctx    *Context
	Scope  *Scope
	Types  *NodeTypes
	Errors []*SemanticError
}

// NewPassState returns a PassState built from a Context and Scope -
// normally the seeded ones from NewSeededContext/NewSeededScope.
func NewPassState(ctx *Context, scope *Scope) *PassState {
	return &PassState{Ctx: ctx, Scope: scope, Types: NewNodeTypes()}
}

func (s *PassState) addErr(err *SemanticError) {
	s.Errors = append(s.Errors, err)
}

// HasErrors reports whether this pass run produced any errors.
func (s *PassState) HasErrors() bool { return len(s.Errors) > 0 }

// PassManager runs a fixed sequence of passes, stopping after the first
// one that reports any error (spec.md §7 propagation policy: "Subsequent
// stages run only if the preceding stage produced no errors").
type PassManager struct {
	passes []Pass
}

// NewPassManager builds a PassManager running passes in the given order.
func NewPassManager(passes ...Pass) *PassManager {
	return &PassManager{passes: passes}
}

// RunAll runs every pass in order against program and state, stopping
// early once a pass reports any error. It returns the (possibly
// replaced, by the Desugarer) program and the accumulated errors.
func (pm *PassManager) RunAll(program *ast.Program, state *PassState) (*ast.Program, []*SemanticError) {
	for _, pass := range pm.passes {
		before := len(state.Errors)
		next, err := pass.Run(program, state)
		if err != nil {
			state.addErr(&SemanticError{Stage: pass.Name(), Kind: "InternalError", Message: err.Error()})
			return program, state.Errors
		}
		program = next
		if len(state.Errors) > before {
			return program, state.Errors
		}
	}
	return program, state.Errors
}
