// Package codegen implements the constant classifier (C5), boolean
// (C6), expression (C7), statement (C8), iterator (C9), and sinister
// (LHS, C10) code generators: the middle end that lowers a
// type-annotated AST into quadruples.
package codegen

import (
	"github.com/funvibe/quadgen/internal/ast"
	"github.com/funvibe/quadgen/internal/config"
	"github.com/funvibe/quadgen/internal/diagnostics"
	"github.com/funvibe/quadgen/internal/loopstack"
	"github.com/funvibe/quadgen/internal/pool"
	"github.com/funvibe/quadgen/internal/quads"
	"github.com/funvibe/quadgen/internal/symtab"
)

// Generator wires every collaborator the six code-generator
// components share: the AST being lowered, the symbol table, the
// active emission context, the temp/label pool, the loop stack, and
// the diagnostic reporter. One Generator lowers one procedure body at
// a time; Reset prepares it for the next.
type Generator struct {
	Store    *ast.Store
	Table    *symtab.Table
	Emit     *quads.EmitContext
	Pool     *pool.Pool
	Loops    *loopstack.Stack
	Report   *diagnostics.Reporter
	Settings config.Settings

	// caseMaps caches a case statement/expression's value->label
	// dispatch map across re-entry of the same node, keyed by node
	// identity, so a case inside a loop body builds its map once
	// (spec.md testable property 7). Only populated for constant-keyed
	// case arms (C5's classifier decides eligibility).
	caseMaps map[*ast.Node]*caseDispatch
}

// New returns a Generator ready to lower procedures against the given
// collaborators.
func New(store *ast.Store, table *symtab.Table, emit *quads.EmitContext, p *pool.Pool, loops *loopstack.Stack, report *diagnostics.Reporter, settings config.Settings) *Generator {
	return &Generator{
		Store:    store,
		Table:    table,
		Emit:     emit,
		Pool:     p,
		Loops:    loops,
		Report:   report,
		Settings: settings,
		caseMaps: make(map[*ast.Node]*caseDispatch),
	}
}

// Reset clears per-procedure state (the case-map cache, the loop
// stack, the temp/label pool) between procedures, mirroring the
// free lists' reset discipline (spec.md §4.3/§9 "Shared resources").
func (g *Generator) Reset() {
	g.caseMaps = make(map[*ast.Node]*caseDispatch)
	for !g.Loops.Empty() {
		g.Loops.Pop()
	}
	g.Pool.Reset()
}

func posOf(n *ast.Node) quads.Pos {
	return quads.Pos{Line: n.Pos.Line, Column: n.Pos.Column}
}

func diagPosOf(n *ast.Node) diagnostics.Pos {
	return diagnostics.Pos{Line: n.Pos.Line, Column: n.Pos.Column}
}

// trap reports a category-3 internal-compiler-error diagnostic for a
// kind that reached a dispatch table entry it has no business
// reaching, and returns the omega symbol as a harmless placeholder
// value so a caller who (incorrectly) keeps generating after a Trap
// doesn't also panic on a nil symbol.
func (g *Generator) trap(n *ast.Node) *symtab.Symbol {
	g.Report.Report(diagnostics.NewTrap(diagPosOf(n), n.Kind.String()))
	return g.Table.Omega
}
