package quads

import "github.com/funvibe/quadgen/internal/symtab"

// Pos is the source position carried on every quadruple, forwarded
// from the triggering AST node so VM abends can blame correct source
// (spec.md testable property 1).
type Pos struct {
	Line   int
	Column int
}

// Operand is one tri-modal quadruple operand: a symbol-table
// reference, an immediate integer, or a label id, tagged by Kind so
// the emitter and any consumer can tell which field is live without
// consulting the opcode table themselves.
type Operand struct {
	Kind  OperandKind
	Sym   *symtab.Symbol
	Int   int32
	Label int
}

// Sym wraps a symbol as a quadruple operand.
func Sym(s *symtab.Symbol) Operand {
	if s == nil {
		return Operand{Kind: OperandUnused}
	}
	return Operand{Kind: OperandSymbol, Sym: s}
}

// Int wraps an immediate integer as a quadruple operand.
func Int(n int32) Operand {
	return Operand{Kind: OperandInteger, Int: n}
}

// Label wraps a label id as a quadruple operand.
func Label(id int) Operand {
	return Operand{Kind: OperandLabel, Label: id}
}

// Unused is the empty operand slot.
var Unused = Operand{Kind: OperandUnused}

// Quad is one three-address instruction: an opcode, three operands,
// the source position that produced it, and the forward link used when
// quadruples are kept as an in-memory list. OptData is a scratch
// field; nothing in this module sets or reads it.
type Quad struct {
	Opcode   Opcode
	Operand  [3]Operand
	OptData  int
	FilePos  Pos
	Next     *Quad
}
