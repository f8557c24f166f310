// Package ast implements the AST node store (C1): a tagged variant over
// roughly ninety node kinds, arena-allocated, traversed by a
// first-child/next-sibling chain. The code generator only reads this
// tree; codegen's nested-LHS optimisation rewrites already-emitted
// quadruples, never the AST.
package ast

// Kind is the closed set of AST node tags, one entry per production the
// parser (out of scope here) can emit. The numbering and grouping
// follows the original compiler's ast_type enumeration, with MapIter
// added beyond it; the three opcode tables in tables.go are keyed by
// these values.
type Kind int

const (
	Null Kind = iota
	List
	Namtab
	Symtab
	Dot

	Add
	Sub
	Mult
	Div
	Expon
	Mod
	Min
	Max
	Question
	With
	Less
	Lessf
	Npow
	Uminus
	Ufrom
	Domain
	Range
	Not
	Arb
	Pow
	Nelt

	Of
	Ofa
	Kof
	Kofa
	Slice
	End
	Assign
	AssignOp
	Penviron
	Cassign
	Placeholder
	From
	Fromb
	Frome

	Eq
	Ne
	Lt
	Le
	Gt
	Ge
	In
	NotIn
	Incs
	Subset
	Or
	And

	EnumSet
	EnumTup
	GenSet
	GenTup
	GenSetNoExp
	GenTupNoExp

	// ArithSet and ArithTup carry exactly three children: first, second,
	// last. second is Placeholder when the range has no explicit step
	// (`[first..last]`), signalling an implicit increment of 1 rather
	// than an absent child, since Store.Internal drops nil children from
	// the sibling chain and would otherwise make "no step" indistinguishable
	// from a two-child range missing its increment entirely.
	ArithSet
	ArithTup

	Exists
	Forall
	Apply
	BinApply
	IterList

	// ExIter is one `pattern in source` generator clause: two children
	// (pattern, source), or three when the clause carries its own `|
	// cond` guard (pattern, source, cond-or-Placeholder).
	ExIter

	// MapIter is one `pattern = expr` map-lookup clause: a direct
	// binding evaluated once per outer combination rather than iterated,
	// two children (pattern, expr).
	MapIter

	IfStmt
	IfExpr
	Loop
	While
	Until
	For
	CaseStmt
	CaseExpr
	GuardStmt
	GuardExpr
	When

	Call
	Return
	Stop
	Exit
	Continue
	Assert

	InitObj
	Slot
	SlotOf
	SlotCall
	Menviron
	Self

	numKinds
)

var kindNames = [numKinds]string{
	Null: "null", List: "list", Namtab: "namtab", Symtab: "symtab", Dot: "dot",
	Add: "add", Sub: "sub", Mult: "mult", Div: "div", Expon: "expon", Mod: "mod",
	Min: "min", Max: "max", Question: "question", With: "with", Less: "less",
	Lessf: "lessf", Npow: "npow", Uminus: "uminus", Ufrom: "ufrom", Domain: "domain",
	Range: "range", Not: "not", Arb: "arb", Pow: "pow", Nelt: "nelt",
	Of: "of", Ofa: "ofa", Kof: "kof", Kofa: "kofa", Slice: "slice", End: "end",
	Assign: "assign", AssignOp: "assignop", Penviron: "penviron", Cassign: "cassign",
	Placeholder: "placeholder", From: "from", Fromb: "fromb", Frome: "frome",
	Eq: "eq", Ne: "ne", Lt: "lt", Le: "le", Gt: "gt", Ge: "ge", In: "in",
	NotIn: "notin", Incs: "incs", Subset: "subset", Or: "or", And: "and",
	EnumSet: "enum_set", EnumTup: "enum_tup", GenSet: "genset", GenTup: "gentup",
	GenSetNoExp: "genset_noexp", GenTupNoExp: "gentup_noexp",
	ArithSet: "arith_set", ArithTup: "arith_tup",
	Exists: "exists", Forall: "forall", Apply: "apply", BinApply: "binapply",
	IterList: "iter_list", ExIter: "ex_iter", MapIter: "map_iter",
	IfStmt: "if_stmt", IfExpr: "if_expr", Loop: "loop", While: "while",
	Until: "until", For: "for", CaseStmt: "case_stmt", CaseExpr: "case_expr",
	GuardStmt: "guard_stmt", GuardExpr: "guard_expr", When: "when",
	Call: "call", Return: "return", Stop: "stop", Exit: "exit",
	Continue: "continue", Assert: "assert",
	InitObj: "initobj", Slot: "slot", SlotOf: "slotof", SlotCall: "slotcall",
	Menviron: "menviron", Self: "self",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) || kindNames[k] == "" {
		return "kind?"
	}
	return kindNames[k]
}
