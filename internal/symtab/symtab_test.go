package symtab

import "testing"

func TestNewPrePopulatesCanonicalLiterals(t *testing.T) {
	table := New("test")

	if table.Omega == nil || table.Omega.Type != TypeOmega {
		t.Fatal("want Omega pre-populated with TypeOmega")
	}
	if table.True == nil || table.True.Aux.(*LiteralAux).Bool != true {
		t.Fatal("want True pre-populated as a boolean literal")
	}
	if table.False == nil || table.False.Aux.(*LiteralAux).Bool != false {
		t.Fatal("want False pre-populated as a boolean literal")
	}
	if table.Zero == nil || table.Zero.Name != "0" {
		t.Fatalf("want Zero's textual form to be \"0\", got %q", table.Zero.Name)
	}
	if table.One == nil || table.One.Name != "1" {
		t.Fatalf("want One's textual form to be \"1\", got %q", table.One.Name)
	}
	if table.Two == nil || table.Two.Name != "2" {
		t.Fatalf("want Two's textual form to be \"2\", got %q", table.Two.Name)
	}
}

func TestIntLiteralInternsByTextualForm(t *testing.T) {
	table := New("test")

	a := table.IntLiteral(42)
	b := table.IntLiteral(42)
	if a != b {
		t.Fatal("want repeated IntLiteral(42) to return the same symbol")
	}
	if a == table.IntLiteral(43) {
		t.Fatal("want distinct counts to produce distinct symbols")
	}
}

func TestIntLiteralReturnsCanonicalZeroOneTwo(t *testing.T) {
	table := New("test")

	if table.IntLiteral(0) != table.Zero {
		t.Fatal("want IntLiteral(0) to return the same symbol as Zero")
	}
	if table.IntLiteral(1) != table.One {
		t.Fatal("want IntLiteral(1) to return the same symbol as One")
	}
	if table.IntLiteral(2) != table.Two {
		t.Fatal("want IntLiteral(2) to return the same symbol as Two")
	}
}

func TestEnterSymbolBindsNameInNameTable(t *testing.T) {
	table := New("test")
	name := "x"

	sym := table.EnterSymbol(&name, KindIdentifier)

	ne := table.GetNamtab("x")
	if ne.SymtabPtr != sym {
		t.Fatal("want EnterSymbol to bind the name table entry to the new symbol")
	}
}

func TestEnterSymbolAnonymousLeavesNameTableUntouched(t *testing.T) {
	table := New("test")

	sym := table.EnterSymbol(nil, KindIdentifier)
	if sym.Name != "" {
		t.Fatalf("want an anonymous symbol to have an empty name, got %q", sym.Name)
	}
	if table.names.Lookup("") != nil {
		t.Fatal("want an anonymous symbol to intern nothing in the name table")
	}
}

func TestCharToIntFastPathForMachineInts(t *testing.T) {
	lit := CharToInt("123")
	if !lit.Fits || lit.Machine != 123 {
		t.Fatalf("want a machine-representable literal to fit, got %+v", lit)
	}
}

func TestCharToIntOverflowDoesNotFit(t *testing.T) {
	lit := CharToInt("99999999999999999999999999999999")
	if lit.Fits {
		t.Fatal("want an overflowing literal to report Fits=false")
	}
	if lit.Text != "99999999999999999999999999999999" {
		t.Fatal("want the arbitrary-precision textual form preserved regardless of overflow")
	}
}

func TestIsConstantLiteralRequiresRValueWithoutLValue(t *testing.T) {
	table := New("test")

	if !table.Zero.IsConstantLiteral() {
		t.Fatal("want a literal symbol (rvalue, no lvalue) to classify as constant")
	}

	name := "x"
	variable := table.EnterSymbol(&name, KindIdentifier)
	variable.HasRValue = true
	variable.HasLValue = true
	if variable.IsConstantLiteral() {
		t.Fatal("want a symbol with an lvalue to never classify as a constant literal")
	}
}

func TestNameTableInternReturnsSameEntryForRepeatedText(t *testing.T) {
	nt := NewNameTable()

	a := nt.Intern("foo")
	b := nt.Intern("foo")
	if a != b {
		t.Fatal("want repeated Intern of the same text to return the same entry")
	}
	if nt.Lookup("foo") != a {
		t.Fatal("want Lookup to find the interned entry")
	}
	if nt.Lookup("bar") != nil {
		t.Fatal("want Lookup of never-interned text to return nil")
	}
}

func TestProcedureAdoptAndReleaseMaintainList(t *testing.T) {
	proc := NewProcedure("p")

	a := &Symbol{Name: "a"}
	b := &Symbol{Name: "b"}
	c := &Symbol{Name: "c"}
	proc.Adopt(a)
	proc.Adopt(b)
	proc.Adopt(c)
	if proc.Count() != 3 {
		t.Fatalf("want count 3 after three adoptions, got %d", proc.Count())
	}

	var seen []string
	proc.Each(func(s *Symbol) { seen = append(seen, s.Name) })
	if len(seen) != 3 || seen[0] != "a" || seen[1] != "b" || seen[2] != "c" {
		t.Fatalf("want declaration order a,b,c, got %v", seen)
	}

	proc.Release(b)
	if proc.Count() != 2 {
		t.Fatalf("want count 2 after releasing the middle entry, got %d", proc.Count())
	}
	seen = nil
	proc.Each(func(s *Symbol) { seen = append(seen, s.Name) })
	if len(seen) != 2 || seen[0] != "a" || seen[1] != "c" {
		t.Fatalf("want a,c remaining after releasing b, got %v", seen)
	}
}

func TestProcedureReleaseHeadAndTail(t *testing.T) {
	proc := NewProcedure("p")
	a := &Symbol{Name: "a"}
	proc.Adopt(a)

	proc.Release(a)
	if proc.Count() != 0 {
		t.Fatalf("want count 0 after releasing the only entry, got %d", proc.Count())
	}
	var seen []string
	proc.Each(func(s *Symbol) { seen = append(seen, s.Name) })
	if len(seen) != 0 {
		t.Fatalf("want an empty list after releasing the sole entry, got %v", seen)
	}
}

func TestProcedureResetDropsAllEntriesWithoutCallback(t *testing.T) {
	proc := NewProcedure("p")
	proc.Adopt(&Symbol{Name: "a"})
	proc.Adopt(&Symbol{Name: "b"})

	proc.Reset()
	if proc.Count() != 0 {
		t.Fatalf("want count 0 after Reset, got %d", proc.Count())
	}
	var seen []string
	proc.Each(func(s *Symbol) { seen = append(seen, s.Name) })
	if len(seen) != 0 {
		t.Fatalf("want Each to walk nothing after Reset, got %v", seen)
	}
}
