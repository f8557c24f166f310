// Package symtab implements the symbol and name table collaborator that
// the code generator reads from and writes to: identifiers, slots,
// selectors, literals, labels, procedures, methods, classes,
// process-classes, packages and use-clauses all live here as Symbol
// entries, interned once per textual form through the NameTable.
package symtab

// Kind tags what a Symbol denotes.
type Kind int

const (
	KindIdentifier Kind = iota
	KindSlot
	KindSelector
	KindLiteral
	KindLabel
	KindProcedure
	KindMethod
	KindClass
	KindProcessClass
	KindPackage
	KindUseClause
)

func (k Kind) String() string {
	switch k {
	case KindIdentifier:
		return "identifier"
	case KindSlot:
		return "slot"
	case KindSelector:
		return "selector"
	case KindLiteral:
		return "literal"
	case KindLabel:
		return "label"
	case KindProcedure:
		return "procedure"
	case KindMethod:
		return "method"
	case KindClass:
		return "class"
	case KindProcessClass:
		return "process_class"
	case KindPackage:
		return "package"
	case KindUseClause:
		return "use_clause"
	default:
		return "kind?"
	}
}

// Type is the small closed set of value-domain type tags a symbol may
// carry. The semantic pass (out of scope here) is the usual writer of
// this field; the generator only reads it.
type Type int

const (
	TypeUnknown Type = iota
	TypeOmega
	TypeBoolean
	TypeInteger
	TypeReal
	TypeString
	TypeTuple
	TypeSet
	TypeMap
	TypeProcedure
	TypeObject
)

// LiteralAux is the auxiliary payload for KindLiteral symbols.
type LiteralAux struct {
	Integer *IntegerLiteral // arbitrary precision, nil unless TypeInteger
	Real    float64
	Str     string
	Bool    bool
}

// IntegerLiteral holds an arbitrary precision integer as a base-10
// string plus a fast-path machine int when it fits, matching the
// source language's unbounded integer domain.
type IntegerLiteral struct {
	Text    string
	Machine int64
	Fits    bool
}

// LabelAux is the auxiliary payload for KindLabel symbols: the
// compiler-generated label number assigned by the label pool.
type LabelAux struct {
	Number int
}

// ProcAux is the auxiliary payload for KindProcedure/KindMethod symbols.
type ProcAux struct {
	FormalCount  int
	WriteParams  []int // formal positions that are write-parameters
	HasCreate    bool  // for classes: whether an explicit Create method exists
	IsLiteral    bool  // callee is a literal (statically known) procedure
	QuadsHead    int   // opaque handle into the owning quadruple stream, informational only
}

// Symbol is one entry in the symbol table: an identifier, slot,
// selector, literal, label, procedure, method, class, process-class,
// package or use-clause. Flags mirror the original compiler's
// st_has_lvalue/st_has_rvalue/st_is_rparam/st_is_wparam/st_is_temp/
// st_is_initialized bits exactly.
type Symbol struct {
	Name string
	Kind Kind
	Type Type

	HasLValue     bool
	HasRValue     bool
	IsRParam      bool
	IsWParam      bool
	IsTemp        bool
	IsInitialized bool

	Aux any // *LiteralAux, *LabelAux, *ProcAux, or nil

	// Doubly threaded position within the enclosing procedure's symbol
	// list, the way the original symtab_item chains procedure-local
	// entries for fast whole-procedure teardown.
	procPrev, procNext *Symbol
}

// IsConstantLiteral reports whether this symbol is a pure literal: it
// has an rvalue and no lvalue. This is the exact definition C5 (the
// constant classifier) uses once it has reduced an AST to a symtab
// leaf; see codegen.IsConstant.
func (s *Symbol) IsConstantLiteral() bool {
	return s.Kind == KindLiteral && s.HasRValue && !s.HasLValue
}
