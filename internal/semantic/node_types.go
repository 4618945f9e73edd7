package semantic

import (
	"github.com/hulklang/hulkcore/internal/ast"
	"github.com/hulklang/hulkcore/internal/types"
)

// NodeTypes is the AST annotation side-table TypeInferer and TypeChecker
// write into and read from - keyed by node identity rather than adding a
// Type field to every ast node, so the ast package stays free of a
// dependency on the types package (mirroring go-dws's PassContext
// carrying a separate *SemanticInfo annotation table alongside the AST
// rather than mutating node structs directly).
type NodeTypes struct {
	byNode map[ast.Node]types.Type
}

func NewNodeTypes() *NodeTypes {
	return &NodeTypes{byNode: map[ast.Node]types.Type{}}
}

func (nt *NodeTypes) Get(n ast.Node) (types.Type, bool) {
	t, ok := nt.byNode[n]
	return t, ok
}

func (nt *NodeTypes) Set(n ast.Node, t types.Type) {
	nt.byNode[n] = t
}
