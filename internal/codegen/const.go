package codegen

import "github.com/funvibe/quadgen/internal/ast"

// IsConstant implements C5: true iff n is a single symbol-leaf
// referencing a symbol that is a bound rvalue with no lvalue (a
// literal), matching symtab.Symbol.IsConstantLiteral. Used by case
// lowering to decide whether a case's value-to-label dispatch map can
// be built once and cached rather than re-evaluated per entry.
func IsConstant(n *ast.Node) bool {
	if n == nil || !n.IsLeaf() || n.Sym == nil {
		return false
	}
	return n.Sym.IsConstantLiteral()
}
