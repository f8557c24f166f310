package symtab

import "strconv"

// Table is the symbol-table collaborator the generator calls into:
// enter_symbol, get_namtab, char_to_int/char_to_string from spec.md §6,
// plus the canonical literal symbols every generator shares by
// reference (sym_omega, sym_true, sym_false, sym_zero, sym_one,
// sym_two).
type Table struct {
	names *NameTable
	proc  *Procedure

	Omega *Symbol
	True  *Symbol
	False *Symbol
	Zero  *Symbol
	One   *Symbol
	Two   *Symbol
}

// New creates a symbol table scoped to one compilation unit's
// procedure, pre-populating the canonical literal symbols.
func New(procName string) *Table {
	t := &Table{
		names: NewNameTable(),
		proc:  NewProcedure(procName),
	}
	t.Omega = t.literal("omega", TypeOmega, nil)
	t.True = t.literal("true", TypeBoolean, &LiteralAux{Bool: true})
	t.False = t.literal("false", TypeBoolean, &LiteralAux{Bool: false})
	t.Zero = t.IntLiteral(0)
	t.One = t.IntLiteral(1)
	t.Two = t.IntLiteral(2)
	return t
}

// Procedure returns the procedure-local symbol list this table feeds.
func (t *Table) Procedure() *Procedure { return t.proc }

func (t *Table) literal(text string, typ Type, aux *LiteralAux) *Symbol {
	sym := &Symbol{
		Name:          text,
		Kind:          KindLiteral,
		Type:          typ,
		HasRValue:     true,
		IsInitialized: true,
		Aux:           aux,
	}
	t.proc.Adopt(sym)
	ne := t.names.Intern(text)
	ne.SymtabPtr = sym
	return sym
}

// EnterSymbol creates a fresh symbol bound to name (or an anonymous
// entry if name is nil), owned by this table's procedure.
func (t *Table) EnterSymbol(name *string, kind Kind) *Symbol {
	sym := &Symbol{Kind: kind}
	if name != nil {
		sym.Name = *name
	}
	t.proc.Adopt(sym)
	if name != nil {
		ne := t.names.Intern(*name)
		ne.SymtabPtr = sym
	}
	return sym
}

// GetNamtab interns text, the way get_namtab() does in the original.
func (t *Table) GetNamtab(text string) *NameEntry {
	return t.names.Intern(text)
}

// CharToInt parses a decimal literal's textual form into an
// IntegerLiteral, matching char_to_int()'s role of building the
// arbitrary-precision value behind a literal symbol.
func CharToInt(text string) *IntegerLiteral {
	lit := &IntegerLiteral{Text: text}
	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		lit.Machine = n
		lit.Fits = true
	}
	return lit
}

// CharToString returns a source-level string literal's textual form
// unchanged: it processes no escape sequences. Full literal scanning
// belongs to the lexer.
func CharToString(text string) string {
	return text
}

// IntLiteral returns the literal symbol for decimal integer n,
// interning it by its textual form so repeated requests for the same
// count (cardinalities, argument counts, key-tuple arities) return the
// same symbol rather than allocating a fresh one each time — exactly
// the get_namtab/enter_symbol idiom in genexpr.c's argument-count and
// element-count handling.
func (t *Table) IntLiteral(n int64) *Symbol {
	text := strconv.FormatInt(n, 10)
	ne := t.names.Intern(text)
	if ne.SymtabPtr != nil {
		return ne.SymtabPtr
	}
	sym := &Symbol{
		Name:          text,
		Kind:          KindLiteral,
		Type:          TypeInteger,
		HasRValue:     true,
		IsInitialized: true,
		Aux:           &LiteralAux{Integer: CharToInt(text)},
	}
	t.proc.Adopt(sym)
	ne.SymtabPtr = sym
	return sym
}

// StringLiteral returns a freshly materialised string literal symbol
// carrying text verbatim, used for assert's "procname" argument and
// similar compiler-synthesised strings.
func (t *Table) StringLiteral(text string) *Symbol {
	sym := &Symbol{
		Name:          text,
		Kind:          KindLiteral,
		Type:          TypeString,
		HasRValue:     true,
		IsInitialized: true,
		Aux:           &LiteralAux{Str: text},
	}
	t.proc.Adopt(sym)
	return sym
}
