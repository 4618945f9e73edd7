package semantic

import (
	"github.com/hulklang/hulkcore/internal/ast"
	"github.com/hulklang/hulkcore/internal/types"
)

// FunctionCollector registers every top-level Function declaration as a
// FunctionEntry in the global Scope, resolving declared parameter and
// return type names (spec.md §4.6). Unannotated entries stay nil;
// TypeInferer fills them in.
type FunctionCollector struct{}

func NewFunctionCollector() *FunctionCollector { return &FunctionCollector{} }

func (fc *FunctionCollector) Name() string { return "FunctionCollector" }

func (fc *FunctionCollector) Run(program *ast.Program, state *PassState) (*ast.Program, error) {
	for _, decl := range program.Declarations {
		fn, ok := decl.(*ast.Function)
		if !ok {
			continue
		}
		params := make([]types.Param, len(fn.Params))
		for i, p := range fn.Params {
			params[i] = types.Param{Name: p.Name.Value}
			if p.Type != nil {
				t, ok := state.Ctx.GetTypeOrProto(p.Type.Name)
				if !ok {
					state.addErr(errUndefined(fc.Name(), p.Type.Pos(), p.Type.Name))
					continue
				}
				params[i].Type = t
			}
		}
		var retType types.Type
		if fn.ReturnType != nil {
			t, ok := state.Ctx.GetTypeOrProto(fn.ReturnType.Name)
			if !ok {
				state.addErr(errUndefined(fc.Name(), fn.ReturnType.Pos(), fn.ReturnType.Name))
			} else {
				retType = t
			}
		}
		if _, err := state.Scope.DefineFunction(fn.Name.Value, params, retType); err != nil {
			state.addErr(errAlreadyDefined(fc.Name(), fn.Pos(), fn.Name.Value))
		}
	}
	return program, nil
}
