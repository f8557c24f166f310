// Command quadc is a development harness for the quadruple code
// generator: since there is no parser in scope, it builds a small
// fixed AST fixture in place of one, runs it through
// internal/codegen, and dumps the resulting quadruple stream.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/funvibe/quadgen/internal/ast"
	"github.com/funvibe/quadgen/internal/codegen"
	"github.com/funvibe/quadgen/internal/config"
	"github.com/funvibe/quadgen/internal/diagnostics"
	"github.com/funvibe/quadgen/internal/loopstack"
	"github.com/funvibe/quadgen/internal/pool"
	"github.com/funvibe/quadgen/internal/quads"
	"github.com/funvibe/quadgen/internal/symtab"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			if os.Getenv("DEBUG") == "1" {
				panic(r)
			}
			fmt.Fprintf(os.Stderr, "Internal error: %v\n", r)
			os.Exit(1)
		}
	}()

	configPath := flag.String("config", "", "path to a quadgen settings file (yaml)")
	outPath := flag.String("out", "", "emit to this intermediate file instead of holding the stream in memory")
	showVersion := flag.Bool("version", false, "print the quadc version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("quadc", config.Version)
		return
	}

	if !run(*configPath, *outPath) {
		os.Exit(1)
	}
}

// run builds the fixture, lowers it, and dumps the resulting stream.
// It reports false on any condition that should make main exit
// non-zero (a bad config, a reported fatal diagnostic, an I/O error).
func run(configPath, outPath string) bool {
	settings := config.Default()
	if configPath != "" {
		s, err := config.Load(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "quadc: loading %s: %v\n", configPath, err)
			return false
		}
		settings = s
	}
	if outPath != "" {
		settings.UseIntermediateFiles = true
	}

	report := diagnostics.NewReporter(os.Stderr)
	store := ast.NewStore()
	table := symtab.New("demo")
	temps := pool.New(table)
	loops := loopstack.New()

	var sink quads.Sink
	var closeFile func() error
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "quadc: %v\n", err)
			return false
		}
		fs, err := quads.OpenFileSink(f, quads.NewSymbolIndex())
		if err != nil {
			fmt.Fprintf(os.Stderr, "quadc: %v\n", err)
			f.Close()
			return false
		}
		sink = fs
		closeFile = f.Close
	} else {
		sink = quads.NewMemSink()
	}

	emit := quads.OpenEmit(quads.NewPool(), sink)
	gen := codegen.New(store, table, emit, temps, loops, report, settings)

	fixture := buildFixture(store, table)
	gen.GenStmtList(fixture)

	if err := emit.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "quadc: closing emission: %v\n", err)
		return false
	}

	if outPath != "" {
		fmt.Printf("wrote %d quadruples to %s\n", emit.Count(), outPath)
		if err := dumpFile(outPath); err != nil {
			fmt.Fprintf(os.Stderr, "quadc: reading back %s: %v\n", outPath, err)
			return false
		}
		if closeFile != nil {
			closeFile()
		}
	} else {
		dumpMemory(sink.(*quads.MemSink))
	}

	return !report.HasFatal()
}

// buildFixture assembles a small statement list exercising assignment,
// augmented assignment, a while loop, two-level nested-LHS indexing,
// tuple-LHS unpacking, and a case statement with an otherwise arm —
// one representative construct per C6-C10 generator.
func buildFixture(store *ast.Store, table *symtab.Table) *ast.Node {
	at := func(line int) ast.Pos { return ast.Pos{Line: line, Column: 1} }

	// newVar declares a fresh bound-variable symbol; each occurrence in
	// the tree below gets its own leaf node (a node's Next sibling link
	// is live state, so the same *ast.Node can never appear at two
	// positions), but all occurrences of one variable share a symbol.
	newVar := func(name string) *symtab.Symbol {
		sym := table.EnterSymbol(&name, symtab.KindIdentifier)
		sym.HasLValue = true
		sym.HasRValue = true
		return sym
	}
	num := func(n int64) *ast.Node {
		return store.Ident(at(1), table.IntLiteral(n))
	}
	opTag := func(kind ast.Kind) *ast.Node {
		return store.Internal(kind, at(1))
	}

	nSym := newVar("n")
	iSym := newVar("i")
	totalSym := newVar("total")
	sSym := newVar("s")
	mSym := newVar("m")
	aSym := newVar("a")
	bSym := newVar("b")

	n := func() *ast.Node { return store.Ident(at(1), nSym) }
	i := func() *ast.Node { return store.Ident(at(1), iSym) }
	total := func() *ast.Node { return store.Ident(at(1), totalSym) }
	s := func() *ast.Node { return store.Ident(at(1), sSym) }
	m := func() *ast.Node { return store.Ident(at(1), mSym) }
	a := func() *ast.Node { return store.Ident(at(1), aSym) }
	b := func() *ast.Node { return store.Ident(at(1), bSym) }

	stmts := []*ast.Node{
		// n := 10; i := 0; total := 0;
		store.Internal(ast.Assign, at(1), n(), num(10)),
		store.Internal(ast.Assign, at(2), i(), num(0)),
		store.Internal(ast.Assign, at(3), total(), num(0)),

		// while i < n loop total +:= i; i +:= 1; end;
		store.Internal(ast.While, at(4),
			store.Internal(ast.Lt, at(4), i(), n()),
			store.Internal(ast.List, at(5),
				store.Internal(ast.AssignOp, at(5), total(), opTag(ast.Add), i()),
				store.Internal(ast.AssignOp, at(6), i(), opTag(ast.Add), num(1)),
			),
		),

		// s := [1, 2, 3];
		store.Internal(ast.Assign, at(8), s(),
			store.Internal(ast.EnumTup, at(8), num(1), num(2), num(3))),

		// s(2) +:= 5;  -- single-level augmented rewrite candidate
		store.Internal(ast.AssignOp, at(9),
			store.Internal(ast.Of, at(9), s(), num(2)), opTag(ast.Add), num(5)),

		// m := [[1, 2], [3, 4]];
		store.Internal(ast.Assign, at(11), m(),
			store.Internal(ast.EnumTup, at(11),
				store.Internal(ast.EnumTup, at(11), num(1), num(2)),
				store.Internal(ast.EnumTup, at(11), num(3), num(4)))),

		// m(1)(2) := 77;  -- two-level nested-LHS rewrite candidate
		store.Internal(ast.Assign, at(12),
			store.Internal(ast.Of, at(12),
				store.Internal(ast.Of, at(12), m(), num(1)), num(2)),
			num(77)),

		// [a, b] := [5, 6];
		store.Internal(ast.Assign, at(14),
			store.Internal(ast.EnumTup, at(14), a(), b()),
			store.Internal(ast.EnumTup, at(14), num(5), num(6))),

		// case i of when 0 => total := 0; otherwise => total := total; end;
		store.Internal(ast.CaseStmt, at(16), i(),
			store.Internal(ast.When, at(16), num(0),
				store.Internal(ast.List, at(16),
					store.Internal(ast.Assign, at(16), total(), num(0)))),
			store.Internal(ast.When, at(17), store.Alloc(ast.Placeholder, at(17)),
				store.Internal(ast.List, at(17),
					store.Internal(ast.Assign, at(17), total(), total()))),
		),
	}

	return store.Internal(ast.List, at(1), stmts...)
}
