package semantic

import "github.com/hulklang/hulkcore/internal/ast"

// TypeCollector visits every top-level declaration and registers its
// name in the Context - a TypeDecl as a Type, a Protocol as a Proto
// (spec.md §4.4). Duplicate names, across either namespace, produce
// AlreadyDefined.
type TypeCollector struct{}

func NewTypeCollector() *TypeCollector { return &TypeCollector{} }

func (tc *TypeCollector) Name() string { return "TypeCollector" }

func (tc *TypeCollector) Run(program *ast.Program, state *PassState) (*ast.Program, error) {
	for _, decl := range program.Declarations {
		switch n := decl.(type) {
		case *ast.TypeDecl:
			if _, err := state.Ctx.CreateType(n.Name.Value); err != nil {
				state.addErr(errAlreadyDefined(tc.Name(), n.Pos(), n.Name.Value))
			}
		case *ast.Protocol:
			if _, err := state.Ctx.CreateProtocol(n.Name.Value); err != nil {
				state.addErr(errAlreadyDefined(tc.Name(), n.Pos(), n.Name.Value))
			}
		}
	}
	return program, nil
}
