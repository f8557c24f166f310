// Package diagnostics implements the generator's three-way error
// taxonomy: Giveup (severe, aborts), ErrorMessage (reported, emission
// continues), and Trap (internal compiler error, aborts), plus a
// Reporter that renders them to a terminal, colouring only when the
// output stream is a real tty.
package diagnostics

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// Category distinguishes the three ways a generator call can fail.
type Category int

const (
	// ErrorMessage marks a semantic misuse that reaches the generator
	// (e.g. calling a procedure with the wrong argument count); emission
	// continues so later stages still see a complete quadruple stream.
	ErrorMessage Category = iota
	// Giveup marks a severe allocation or I/O failure (pool exhaustion,
	// intermediate file read/write failure); compilation aborts.
	Giveup
	// Trap marks an AST kind reaching a dispatch handler that does not
	// expect it. Well-formed input can never trigger this; it always
	// means a bug in the generator's own dispatch tables.
	Trap
)

func (c Category) String() string {
	switch c {
	case Giveup:
		return "giveup"
	case Trap:
		return "trap"
	default:
		return "error"
	}
}

// Pos is the source position an AST node carries; duplicated here
// (rather than importing ast) to keep diagnostics leaf-level in the
// dependency graph.
type Pos struct {
	Line   int
	Column int
}

// Diagnostic is one reported condition, carrying the source position
// of the AST node being lowered when it was raised.
type Diagnostic struct {
	Category Category
	Pos      Pos
	Message  string
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", d.Category, d.Pos.Line, d.Pos.Column, d.Message)
}

// NewErrorMessage builds a category-2 diagnostic: reported, but
// emission should continue.
func NewErrorMessage(pos Pos, format string, args ...any) *Diagnostic {
	return &Diagnostic{Category: ErrorMessage, Pos: pos, Message: fmt.Sprintf(format, args...)}
}

// NewGiveup builds a category-1 diagnostic: severe, aborts
// compilation.
func NewGiveup(pos Pos, format string, args ...any) *Diagnostic {
	return &Diagnostic{Category: Giveup, Pos: pos, Message: fmt.Sprintf(format, args...)}
}

// NewTrap builds a category-3 diagnostic: an unreachable-kind trap,
// aborts compilation. kind names the AST or opcode tag that reached a
// handler unprepared for it.
func NewTrap(pos Pos, kind string) *Diagnostic {
	return &Diagnostic{Category: Trap, Pos: pos, Message: fmt.Sprintf("unexpected kind %s reached handler", kind)}
}

// Fatal reports whether this diagnostic's category terminates
// compilation immediately.
func (d *Diagnostic) Fatal() bool {
	return d.Category == Giveup || d.Category == Trap
}

// Reporter collects diagnostics and renders them, the code generator's
// sole collaborator for surfacing errors (spec.md §7's "diagnostic
// collaborator"). Category-2 errors accumulate and let generation
// continue; category 1/3 errors are still funnelled through Report so
// callers have one place to look, but the caller is expected to abort
// immediately after seeing Fatal() return true.
type Reporter struct {
	out     io.Writer
	color   bool
	entries []*Diagnostic
}

// NewReporter returns a reporter writing to w, colouring output only
// when w is a real terminal (NO_COLOR is also honoured).
func NewReporter(w io.Writer) *Reporter {
	color := false
	if f, ok := w.(*os.File); ok {
		if _, noColor := os.LookupEnv("NO_COLOR"); !noColor {
			color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
	}
	return &Reporter{out: w, color: color}
}

// Report records d and prints it immediately.
func (r *Reporter) Report(d *Diagnostic) {
	r.entries = append(r.entries, d)
	if r.color {
		code := "31"
		if d.Category == ErrorMessage {
			code = "33"
		}
		fmt.Fprintf(r.out, "\x1b[%sm%s\x1b[0m\n", code, d.Error())
		return
	}
	fmt.Fprintln(r.out, d.Error())
}

// Entries returns every diagnostic reported so far.
func (r *Reporter) Entries() []*Diagnostic {
	return r.entries
}

// HasFatal reports whether any reported diagnostic was category 1 or
// 3, meaning the caller should have already aborted generation.
func (r *Reporter) HasFatal() bool {
	for _, d := range r.entries {
		if d.Fatal() {
			return true
		}
	}
	return false
}
